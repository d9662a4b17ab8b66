// Package logger configures logrus and the access log according to the
// logging config.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/relaxedbase/relaxedbase/cmd/relaxedbase/config"
)

const (
	internalLogFile = "relaxedbase.log"
	accessLogFile   = "access.log"
)

var accessLogger io.Writer = os.Stderr

// AccessLogger returns the writer the http access log goes to
func AccessLogger() io.Writer {
	return accessLogger
}

// Init initializes the internal logger and the access logger from the
// loaded config
func Init() {
	conf := config.Get().Logging
	log.SetFormatter(
		&log.TextFormatter{
			FullTimestamp: true,
		},
	)
	log.SetOutput(mustWriter(conf.Internal.Dir, internalLogFile, conf.Internal.StdErr))
	log.SetLevel(parseLogLevel(conf.Internal.Level))
	accessLogger = mustWriter(conf.Access.Dir, accessLogFile, conf.Access.StdErr)
}

func parseLogLevel(level string) log.Level {
	if level == "" {
		return log.InfoLevel
	}
	l, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		log.WithField("level", level).Error("unknown log level, using INFO")
		return log.InfoLevel
	}
	return l
}

func mustWriter(dir, file string, stderr bool) io.Writer {
	w, err := newWriter(dir, file, stderr)
	if err != nil {
		log.WithError(err).Fatal("could not open log file")
	}
	return w
}

// newWriter returns a writer to dir/file and/or stderr. If neither is
// configured the output is discarded.
func newWriter(dir, file string, stderr bool) (io.Writer, error) {
	var writers []io.Writer
	if dir != "" {
		f, err := os.OpenFile(filepath.Join(dir, file), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
		if err != nil {
			return nil, err
		}
		writers = append(writers, f)
	}
	if stderr {
		writers = append(writers, os.Stderr)
	}
	switch len(writers) {
	case 0:
		return io.Discard, nil
	case 1:
		return writers[0], nil
	default:
		return io.MultiWriter(writers...), nil
	}
}
