package mylog

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

type Severity string

const (
	SeverityDebug Severity = "DEBUG"
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

var New func(name string) Logger

type Logger interface {
	Log(ctx context.Context, traceLabel string, severity Severity, format string, a ...any)
}

// root is shared by all component loggers so that level and output are configured once.
var root = logrus.New()

func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	root.SetLevel(lvl)
	return nil
}

func SetOutput(w io.Writer) {
	root.SetOutput(w)
}

func toLogrusLevel(severity Severity) logrus.Level {
	switch severity {
	case SeverityDebug:
		return logrus.DebugLevel
	case SeverityWarn:
		return logrus.WarnLevel
	case SeverityError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
