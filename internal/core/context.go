package core

import "context"

type contextKey string

const (
	ctxKeyTrigger   contextKey = "refresh_trigger"
	ctxKeyIPAddress contextKey = "refresh_ip"
)

// Refresh triggers recorded with each build.
const (
	TriggerStartup   = "startup"
	TriggerScheduler = "scheduler"
	TriggerAPI       = "api"
	TriggerCLI       = "cli"
)

// ContextWithTrigger records what started a refresh.
func ContextWithTrigger(ctx context.Context, trigger string) context.Context {
	return context.WithValue(ctx, ctxKeyTrigger, trigger)
}

// ContextWithIPAddress records the client IP of an API-triggered refresh.
func ContextWithIPAddress(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKeyIPAddress, ip)
}

// GetTriggerFromContext returns the refresh trigger, or "" if unset.
func GetTriggerFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyTrigger).(string); ok {
		return v
	}
	return ""
}

// GetIPAddressFromContext extracts IP address from context.
func GetIPAddressFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyIPAddress).(string); ok {
		return v
	}
	return ""
}
