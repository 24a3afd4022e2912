package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionsServer(t *testing.T, status int, reply string) (*httptest.Server, *http.Request, *map[string]any) {
	t.Helper()
	var captured http.Request
	body := map[string]any{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = *r
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(status)
		if status == http.StatusOK {
			fmt.Fprintf(w, `{"choices":[{"message":{"content":%q}}]}`, reply)
		} else {
			fmt.Fprint(w, `{"error":"upstream unavailable"}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &captured, &body
}

func TestChatCompletionSuccess(t *testing.T) {
	srv, captured, body := completionsServer(t, http.StatusOK, "Post a Whistle to get started.")
	cl, err := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "test-key", Model: "gpt-4o-mini"})
	require.NoError(t, err)

	out, err := cl.ChatCompletion(context.Background(), "system prompt", "how do whistles work?")
	require.NoError(t, err)
	assert.Equal(t, "Post a Whistle to get started.", out)

	assert.Equal(t, "Bearer test-key", captured.Header.Get("Authorization"))
	assert.Equal(t, "application/json", captured.Header.Get("Content-Type"))
	assert.Equal(t, "gpt-4o-mini", (*body)["model"])
	assert.Equal(t, float64(300), (*body)["max_tokens"])
	msgs := (*body)["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
}

func TestChatCompletionNon2xx(t *testing.T) {
	srv, _, _ := completionsServer(t, http.StatusBadGateway, "")
	cl, err := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "test-key"})
	require.NoError(t, err)

	_, err = cl.ChatCompletion(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestChatCompletionEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer srv.Close()
	cl, err := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "test-key"})
	require.NoError(t, err)

	_, err = cl.ChatCompletion(context.Background(), "s", "u")
	assert.ErrorContains(t, err, "empty choices")
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(ClientConfig{BaseURL: "http://localhost"})
	assert.Error(t, err)
}

func TestBuildSystemPromptSerializesContext(t *testing.T) {
	prompt := BuildSystemPrompt(Context{
		HasLocation:   true,
		Latitude:      13.0827,
		Longitude:     80.2707,
		UserID:        "user-42",
		Authenticated: true,
	})

	assert.Contains(t, prompt, "DoWhistle Assistant")
	assert.Contains(t, prompt, `"hasLocation":true`)
	assert.Contains(t, prompt, `"userId":"user-42"`)
	assert.Contains(t, prompt, `"authenticated":true`)
	assert.NotContains(t, prompt, "Bearer")
}

func TestResponderApologizesOnFailure(t *testing.T) {
	srv, _, _ := completionsServer(t, http.StatusInternalServerError, "")
	cl, err := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "test-key"})
	require.NoError(t, err)
	r := NewResponder(cl, nil)

	out := r.Respond(context.Background(), "hello", Context{})
	assert.Equal(t, Apology, out)
}

func TestResponderUsesModelReply(t *testing.T) {
	srv, _, _ := completionsServer(t, http.StatusOK, "A Whistle is a need or an offer.")
	cl, err := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "test-key"})
	require.NoError(t, err)
	r := NewResponder(cl, nil)

	out := r.Respond(context.Background(), "what is a whistle?", Context{})
	assert.Equal(t, "A Whistle is a need or an offer.", out)
}

func TestOfflineReplies(t *testing.T) {
	r := NewResponder(nil, nil)

	cases := []struct {
		message string
		want    string
	}{
		{"I need to book a ride", "nearby ride providers"},
		{"any offers around?", "rides, local services, and retail offers"},
		{"use my current area", "allow location access"},
		{"what does a plumber cost", "Pricing depends on provider"},
		{"how does this work", "post a Whistle"},
		{"good morning", "What do you need right now?"},
	}
	for _, tc := range cases {
		out := r.Respond(context.Background(), tc.message, Context{})
		assert.Contains(t, out, tc.want, "message %q", tc.message)
	}
}
