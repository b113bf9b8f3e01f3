// Package report renders extracted records for people and for tools.
//
// Text reproduces the tab-aligned layout of the legacy edfinfo script so
// existing shell pipelines keep working. Table renders a rounded go-pretty
// table, and the JSON and YAML writers emit one Document per recording.
package report
