package mylog

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/floresvictoria/shopbackend/lib/mycontext"
)

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") != "" {
		// Cloud Logging parses one JSON object per line and adds its own timestamp.
		root.SetFormatter(&logrus.JSONFormatter{
			DisableTimestamp: true,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
		New = newGcloudLogger
	}
}

type structuredLogger struct {
	componentName string
}

func newGcloudLogger(componentName string) Logger {
	return structuredLogger{
		componentName: componentName,
	}
}

func (l structuredLogger) Log(ctx context.Context, traceLabel string, severity Severity, format string, a ...interface{}) {
	fields := logrus.Fields{
		"component":                     l.componentName,
		"severity":                      string(severity),
		"logging.googleapis.com/labels": map[string]string{"aggregate": traceLabel, "request": mycontext.RequestID(ctx)},
	}
	if trace := mycontext.Trace(ctx); trace != "" {
		fields["logging.googleapis.com/trace"] = trace
	}
	root.WithFields(fields).Log(toLogrusLevel(severity), l.componentName+":"+fmt.Sprintf(format, a...))
}
