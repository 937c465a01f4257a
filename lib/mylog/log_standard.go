package mylog

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/floresvictoria/shopbackend/lib/mycontext"
)

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") == "" {
		root.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		New = newStandardLogger
	}
}

type standardLogger struct {
	componentName string
}

func newStandardLogger(componentName string) Logger {
	return standardLogger{
		componentName: componentName,
	}
}

func (l standardLogger) Log(ctx context.Context, traceLabel string, severity Severity, format string, a ...interface{}) {
	fields := logrus.Fields{"component": l.componentName}
	if traceLabel != "" {
		fields["aggregate"] = traceLabel
	}
	if requestID := mycontext.RequestID(ctx); requestID != "" {
		fields["request"] = requestID
	}
	root.WithFields(fields).Log(toLogrusLevel(severity), fmt.Sprintf(format, a...))
}
