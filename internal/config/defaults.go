package config

import "runtime"

const (
	defaultLogDir           = "~/.local/share/edfinfo/logs"
	defaultIndexPath        = "~/.local/share/edfinfo/index.db"
	defaultConverterBinary  = "edf2asc"
	defaultConverterTimeout = 300
	defaultRecordedByTarget = RecordedByRecording
	defaultSettleSeconds    = 2
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Accepted values for parse.recorded_by_target.
const (
	RecordedByRecording  = "recording"
	RecordedByRecordedBy = "recorded_by"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:    defaultLogDir,
			IndexPath: defaultIndexPath,
		},
		Converter: Converter{
			Enabled:        true,
			Binary:         defaultConverterBinary,
			TimeoutSeconds: defaultConverterTimeout,
		},
		Parse: Parse{
			Concurrency:      runtime.NumCPU(),
			RecordedByTarget: defaultRecordedByTarget,
		},
		Watch: Watch{
			SettleSeconds: defaultSettleSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
