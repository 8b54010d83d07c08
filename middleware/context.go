package middleware

import (
	"context"

	"github.com/kerrizor/buffet/services/providers"
)

// Context key type to avoid collisions
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"

	// CredentialsKey is the context key for the per-request credential provider
	CredentialsKey contextKey = "credentials"
)

// GetRequestIDFromContext retrieves the request ID from context
func GetRequestIDFromContext(ctx context.Context) string {
	if val := ctx.Value(RequestIDKey); val != nil {
		if requestID, ok := val.(string); ok {
			return requestID
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetCredentialsFromContext retrieves the credential provider from context.
// Returns nil when no credential middleware ran; callers treat nil as
// "no credentials available".
func GetCredentialsFromContext(ctx context.Context) providers.CredentialProvider {
	if val := ctx.Value(CredentialsKey); val != nil {
		if creds, ok := val.(providers.CredentialProvider); ok {
			return creds
		}
	}
	return nil
}

// WithCredentials adds a credential provider to the context
func WithCredentials(ctx context.Context, creds providers.CredentialProvider) context.Context {
	return context.WithValue(ctx, CredentialsKey, creds)
}
