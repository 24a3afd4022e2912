package auth

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dowhistle/assistant/internal/parser"
	"github.com/dowhistle/assistant/internal/store"
)

func TestApply_SignInSetsUserIDOnly(t *testing.T) {
	s := store.NewMemoryCredentialStore()
	require.NoError(t, s.SetToken("pre-existing"))
	b := NewBridge(s, nil)

	b.Apply(parser.Outcome{Identity: &parser.Identity{Kind: parser.IdentitySignIn, UserID: "user-1"}})

	creds := b.Credentials()
	assert.Equal(t, "user-1", creds.UserID)
	assert.Equal(t, "pre-existing", creds.Token, "sign-in must not alter the token")
}

func TestApply_VerifyOtpSetsTokenOnly(t *testing.T) {
	s := store.NewMemoryCredentialStore()
	require.NoError(t, s.SetUserID("user-1"))
	b := NewBridge(s, nil)

	b.Apply(parser.Outcome{Identity: &parser.Identity{Kind: parser.IdentityVerifyOtp, Token: "tok-9"}})

	creds := b.Credentials()
	assert.Equal(t, "tok-9", creds.Token)
	assert.Equal(t, "user-1", creds.UserID, "verification must not alter the user id")
	assert.True(t, creds.Authenticated)
}

func TestApply_NoIdentityIsNoop(t *testing.T) {
	s := store.NewMemoryCredentialStore()
	b := NewBridge(s, nil)

	b.Apply(parser.Outcome{DisplayText: "hello"})

	assert.Equal(t, store.Credentials{}, b.Credentials())
}

func TestInjectInto_AttachesBearerAndCorrelation(t *testing.T) {
	s := store.NewMemoryCredentialStore()
	require.NoError(t, s.SetUserID("user-1"))
	require.NoError(t, s.SetToken("tok-9"))
	b := NewBridge(s, nil)

	h := http.Header{}
	b.InjectInto(h)

	assert.Equal(t, "Bearer tok-9", h.Get("Authorization"))
	assert.Equal(t, "user-1", h.Get("X-User-Id"))
}

func TestInjectInto_MissingValuesAreSkipped(t *testing.T) {
	b := NewBridge(store.NewMemoryCredentialStore(), nil)

	h := http.Header{}
	b.InjectInto(h)

	assert.Empty(t, h.Get("Authorization"))
	assert.Empty(t, h.Get("X-User-Id"))
}

func TestHeaderMap_TokenDiscoveredMidConversation(t *testing.T) {
	s := store.NewMemoryCredentialStore()
	b := NewBridge(s, nil)
	assert.Empty(t, b.HeaderMap())

	b.Apply(parser.Outcome{Identity: &parser.Identity{Kind: parser.IdentityVerifyOtp, Token: "tok-late"}})

	headers := b.HeaderMap()
	assert.Equal(t, "Bearer tok-late", headers["Authorization"])
}
