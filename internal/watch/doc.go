// Package watch follows a directory tree for new or changed recordings.
//
// fsnotify delivers raw filesystem events; the Watcher filters them to EDF and
// ASC files and waits until a file has been quiet for the settle interval
// before reporting it, so recordings still being copied from the tracker host
// are parsed once, after the copy finishes. Directories created under the
// root are added to the watch set as they appear.
package watch
