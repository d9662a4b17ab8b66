package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/zachmann/go-utils/fileutils"
)

// loggingConf holds all logging-related configuration under the `logging` key.
//
// YAML example:
//
//	logging:
//	  access:
//	    dir: /var/log/relaxedbase
//	    stderr: false
//	  internal:
//	    dir: /var/log/relaxedbase
//	    stderr: true
//	    level: INFO
type loggingConf struct {
	Access   LoggerConf         `yaml:"access"`
	Internal internalLoggerConf `yaml:"internal"`
}

// internalLoggerConf configures application-internal logging.
// Level accepts standard log levels (e.g. DEBUG, INFO, WARN, ERROR).
type internalLoggerConf struct {
	LoggerConf `yaml:",inline"`
	Level      string `yaml:"level"`
}

// LoggerConf holds configuration related to logging
type LoggerConf struct {
	Dir    string `yaml:"dir"`
	StdErr bool   `yaml:"stderr"`
}

func checkLoggingDirExists(dir string) error {
	if dir != "" && !fileutils.FileExists(dir) {
		return errors.Errorf("logging directory '%s' does not exist", dir)
	}
	return nil
}

func (log *loggingConf) validate() error {
	if err := checkLoggingDirExists(log.Access.Dir); err != nil {
		return err
	}
	if err := checkLoggingDirExists(log.Internal.Dir); err != nil {
		return err
	}
	switch strings.ToUpper(log.Internal.Level) {
	case "", "TRACE", "DEBUG", "INFO", "WARN", "WARNING", "ERROR", "FATAL", "PANIC":
	default:
		return errors.Errorf("unknown log level '%s'", log.Internal.Level)
	}
	return nil
}

var defaultLoggingConf = loggingConf{
	Access: LoggerConf{
		StdErr: true,
	},
	Internal: internalLoggerConf{
		LoggerConf: LoggerConf{
			StdErr: true,
		},
		Level: "INFO",
	},
}
