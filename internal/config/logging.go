package config

import (
	"github.com/rshade/resinhook/internal/logging"
)

// LoggingSettings converts the YAML section into logger settings. A file
// path selects file output.
func (l LoggingConfig) LoggingSettings() logging.Config {
	cfg := logging.Config{
		Level:  l.Level,
		Format: l.Format,
		Output: logging.OutputStderr,
		Caller: l.Caller,
	}
	if cfg.Format == "" {
		cfg.Format = logging.FormatConsole
	}
	if l.File != "" {
		cfg.Output = logging.OutputFile
		cfg.File = l.File
	}
	return cfg
}

// WithDebug returns settings forced to debug level and console format.
func (l LoggingConfig) WithDebug() LoggingConfig {
	l.Level = "debug"
	l.Format = logging.FormatConsole
	return l
}
