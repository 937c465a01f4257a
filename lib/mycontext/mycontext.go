package mycontext

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// CtxTraceContext is a context key for the trace context this (used by mylog)
type CtxTraceContext struct{}

type ctxRequestID struct{}
type ctxUserID struct{}

// ContextFromHTTPRequest derives from the request context so that a client disconnect
// cancels pending store calls.
func ContextFromHTTPRequest(r *http.Request) context.Context {
	var trace string

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	traceContext := r.Header.Get("X-Cloud-Trace-Context")
	traceParts := strings.Split(traceContext, "/")

	if len(traceParts) > 0 && len(traceParts[0]) > 0 {
		trace = fmt.Sprintf("projects/%s/traces/%s", projectID, traceParts[0])
	}

	return context.WithValue(r.Context(), CtxTraceContext{}, trace)
}

func Trace(c context.Context) string {
	trace, _ := c.Value(CtxTraceContext{}).(string)
	return trace
}

func WithRequestID(c context.Context, requestID string) context.Context {
	return context.WithValue(c, ctxRequestID{}, requestID)
}

func RequestID(c context.Context) string {
	id, _ := c.Value(ctxRequestID{}).(string)
	return id
}

func WithUserID(c context.Context, userID string) context.Context {
	return context.WithValue(c, ctxUserID{}, userID)
}

// UserID returns the authenticated user, or false when the request did not pass
// through the auth middleware.
func UserID(c context.Context) (string, bool) {
	uid, ok := c.Value(ctxUserID{}).(string)
	return uid, ok && uid != ""
}
