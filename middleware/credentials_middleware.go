package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/kerrizor/buffet/models"
	"github.com/kerrizor/buffet/services/providers"
)

// Credential headers. A request may carry tokens for any subset of services;
// header values overlay the server-side defaults per field.
const (
	flickrUserIDHeader   = "X-Flickr-User-Id"
	flickrTokenHeader    = "X-Flickr-Token"
	facebookUserIDHeader = "X-Facebook-User-Id"
	facebookTokenHeader  = "X-Facebook-Token"
)

// CredentialsMiddleware resolves the credential provider for each request.
// Defaults come from configuration; request headers override them so a
// caller can aggregate on behalf of a specific account.
type CredentialsMiddleware struct {
	defaults providers.CredentialMap
	logger   *zap.Logger
}

// NewCredentialsMiddleware creates a new CredentialsMiddleware
func NewCredentialsMiddleware(defaults providers.CredentialMap, logger *zap.Logger) *CredentialsMiddleware {
	if defaults == nil {
		defaults = providers.CredentialMap{}
	}
	return &CredentialsMiddleware{
		defaults: defaults,
		logger:   logger,
	}
}

// Extract places a request-scoped credential provider on the context
func (m *CredentialsMiddleware) Extract(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		creds := providers.CredentialMap{}
		for service, cred := range m.defaults {
			creds[service] = cred
		}

		overlay(creds, models.ServiceFlickr, models.Credential{
			UserID: r.Header.Get(flickrUserIDHeader),
			Token:  r.Header.Get(flickrTokenHeader),
		})
		overlay(creds, models.ServiceFacebook, models.Credential{
			UserID: r.Header.Get(facebookUserIDHeader),
			Token:  r.Header.Get(facebookTokenHeader),
		})

		ctx := WithCredentials(r.Context(), creds)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// overlay merges non-empty header fields over the default credential for
// one service.
func overlay(creds providers.CredentialMap, service models.Service, header models.Credential) {
	if header.IsZero() {
		return
	}
	cred := creds[service]
	if header.UserID != "" {
		cred.UserID = header.UserID
	}
	if header.Token != "" {
		cred.Token = header.Token
	}
	if header.Secret != "" {
		cred.Secret = header.Secret
	}
	creds[service] = cred
}
