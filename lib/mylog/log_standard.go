package mylog

import (
	"context"
	"fmt"
	"io"
	"os"
)

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") == "" {
		New = newStandardLogger
	}
}

type standardLogger struct {
	componentName string
	out           io.Writer
}

func newStandardLogger(componentName string) Logger {
	return standardLogger{
		componentName: componentName,
		out:           os.Stderr,
	}
}

func (l standardLogger) Log(c context.Context, traceLabel string, severity Severity, format string, a ...any) {
	if !enabled(severity) {
		return
	}
	label := traceLabel
	if label == "" {
		label = "-"
	}
	fmt.Fprintf(l.out, "%-5s %s [%s] %s\n", severity, l.componentName, label, fmt.Sprintf(format, a...))
}
