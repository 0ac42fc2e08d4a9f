package mycontext

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// CtxTraceContext is a context key for the trace context (used by mylog)
type CtxTraceContext struct{}

// ContextFromHTTPRequest derives the request context and annotates it with the cloud trace, when present.
func ContextFromHTTPRequest(r *http.Request) context.Context {
	return WithTrace(r.Context(), r.Header.Get("X-Cloud-Trace-Context"))
}

func WithTrace(c context.Context, traceHeader string) context.Context {
	trace := ""

	traceParts := strings.Split(traceHeader, "/")
	if len(traceParts) > 0 && len(traceParts[0]) > 0 {
		trace = fmt.Sprintf("projects/%s/traces/%s", os.Getenv("GOOGLE_CLOUD_PROJECT"), traceParts[0])
	}

	return context.WithValue(c, CtxTraceContext{}, trace)
}

func TraceFromContext(c context.Context) string {
	trace, ok := c.Value(CtxTraceContext{}).(string)
	if !ok {
		return ""
	}
	return trace
}
