package auth

import (
	"log/slog"
	"net/http"

	"github.com/dowhistle/assistant/internal/parser"
	"github.com/dowhistle/assistant/internal/store"
)

// Bridge observes parsed tool outcomes for sign-in and verification results
// and persists discovered identity into the credential store. It is the only
// component allowed to mutate credentials; everything else reads through
// Credentials.
type Bridge struct {
	store  store.CredentialStore
	logger *slog.Logger
}

// NewBridge creates an auth bridge over a credential store.
func NewBridge(s store.CredentialStore, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{store: s, logger: logger}
}

// Apply persists any identity carried by a parsed outcome. A sign-in result
// sets the user id without altering the token; a verification result sets the
// token without altering the user id. Store failures are logged, not raised.
func (b *Bridge) Apply(out parser.Outcome) {
	if out.Identity == nil {
		return
	}

	switch out.Identity.Kind {
	case parser.IdentitySignIn:
		if out.Identity.UserID == "" {
			return
		}
		if err := b.store.SetUserID(out.Identity.UserID); err != nil {
			b.logger.Error("failed to persist user id", "error", err)
			return
		}
		b.logger.Info("user id saved", "user_id", out.Identity.UserID)
	case parser.IdentityVerifyOtp:
		if out.Identity.Token == "" {
			return
		}
		if err := b.store.SetToken(out.Identity.Token); err != nil {
			b.logger.Error("failed to persist token", "error", err)
			return
		}
		b.logger.Info("auth token saved")
	}
}

// Credentials returns the current credentials. A store read failure degrades
// to empty credentials; requests then proceed unauthenticated.
func (b *Bridge) Credentials() store.Credentials {
	creds, err := b.store.Credentials()
	if err != nil {
		b.logger.Warn("failed to read credentials", "error", err)
		return store.Credentials{}
	}
	return creds
}

// InjectInto attaches the current token as a bearer credential and the user id
// as a correlation header. Missing values are skipped, not an error.
func (b *Bridge) InjectInto(h http.Header) {
	creds := b.Credentials()
	if creds.Token != "" {
		h.Set("Authorization", "Bearer "+creds.Token)
	}
	if creds.UserID != "" {
		h.Set("X-User-Id", creds.UserID)
	}
}

// HeaderMap returns the auth headers as a plain map, for transports that take
// headers up front rather than per request.
func (b *Bridge) HeaderMap() map[string]string {
	creds := b.Credentials()
	headers := make(map[string]string, 2)
	if creds.Token != "" {
		headers["Authorization"] = "Bearer " + creds.Token
	}
	if creds.UserID != "" {
		headers["X-User-Id"] = creds.UserID
	}
	return headers
}
