package mylog

import (
	"context"
	"os"
	"strings"
	"sync/atomic"
)

type Severity string

const (
	SeverityDebug Severity = "DEBUG"
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

var severityRanks = map[Severity]int32{
	SeverityDebug: 0,
	SeverityInfo:  1,
	SeverityWarn:  2,
	SeverityError: 3,
}

// New is bound at init-time to the cloud logger or to the standard one, depending on the environment.
var New func(componentName string) Logger

type Logger interface {
	Log(c context.Context, traceLabel string, severity Severity, format string, a ...any)
}

var minRank atomic.Int32

func init() {
	SetMinSeverity(ParseSeverity(os.Getenv("LOG_LEVEL"), SeverityDebug))
}

// ParseSeverity accepts the severity names case-insensitively and falls back for anything else.
func ParseSeverity(name string, fallback Severity) Severity {
	s := Severity(strings.ToUpper(strings.TrimSpace(name)))
	if _, known := severityRanks[s]; !known {
		return fallback
	}
	return s
}

// SetMinSeverity drops every entry below the given severity, for all loggers.
func SetMinSeverity(s Severity) {
	minRank.Store(severityRanks[s])
}

func enabled(s Severity) bool {
	return severityRanks[s] >= minRank.Load()
}
