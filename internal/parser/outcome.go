package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dowhistle/assistant/internal/tools"
)

// IdentityKind tags which authentication outcome a tool result carried.
type IdentityKind string

const (
	IdentitySignIn    IdentityKind = "sign_in"
	IdentityVerifyOtp IdentityKind = "verify_otp"
)

// Identity is an authentication artifact discovered inside a tool result.
type Identity struct {
	Kind   IdentityKind
	UserID string
	Token  string
}

// Outcome is a tool result interpreted into display-ready content, plus any
// authentication payload found along the way.
type Outcome struct {
	DisplayText string
	Identity    *Identity
}

// At most this many matches are listed; the rest collapse into a suffix.
// A deliberate UX truncation, not data loss.
const maxListed = 3

// NoResultsMessage is returned verbatim when a search matches nothing.
const NoResultsMessage = "No nearby matches found. Try a wider radius or a different keyword."

// genericApology is used when a non-search tool fails.
const genericApology = "Sorry, I couldn't complete that right now. Please try again."

// Parse interprets a tool result envelope into an Outcome. The keyword is the
// search term the user asked for, used only for the search header.
func Parse(env tools.ResultEnvelope, executedTool, keyword string) Outcome {
	if !env.Success {
		if executedTool == tools.ToolSearchBusinesses {
			return Outcome{DisplayText: fmt.Sprintf("Sorry, the search failed: %s", env.Err)}
		}
		return Outcome{DisplayText: genericApology}
	}

	out := Outcome{Identity: discoverIdentity(env.Payload, executedTool)}

	switch executedTool {
	case tools.ToolSearchBusinesses:
		providers, _ := normalizeProviders(env.Payload)
		out.DisplayText = formatProviders(providers, keyword)
	case tools.ToolSignIn:
		out.DisplayText = "Sign-in started. Check your phone for the OTP."
	case tools.ToolVerifyOtp:
		out.DisplayText = "You're verified and signed in."
	default:
		out.DisplayText = compactPayload(env.Payload)
	}
	return out
}

// formatProviders renders the ranked match list: a count header, up to
// maxListed entries in server order, and an overflow suffix.
func formatProviders(providers []Provider, keyword string) string {
	if len(providers) == 0 {
		return NoResultsMessage
	}

	var sb strings.Builder
	if keyword != "" {
		fmt.Fprintf(&sb, "Found %d result(s) for %q near your location:\n", len(providers), keyword)
	} else {
		fmt.Fprintf(&sb, "Found %d result(s) near your location:\n", len(providers))
	}

	shown := providers
	if len(shown) > maxListed {
		shown = shown[:maxListed]
	}
	for i, p := range shown {
		if p.HasDistance {
			fmt.Fprintf(&sb, "%d. %s (~%.1f km)\n", i+1, p.Name, p.Distance)
		} else {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, p.Name)
		}
	}
	if len(providers) > maxListed {
		sb.WriteString("...and more")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// discoverIdentity probes a successful payload for authentication artifacts.
// The sign_in and verify_otp checks are independent; a payload may carry
// neither.
func discoverIdentity(payload any, executedTool string) *Identity {
	m := identityPayload(payload)
	if m == nil {
		return nil
	}

	switch executedTool {
	case tools.ToolSignIn:
		if user, ok := m["user"].(map[string]any); ok {
			if id := asString(user["id"]); id != "" {
				return &Identity{Kind: IdentitySignIn, UserID: id}
			}
		}
	case tools.ToolVerifyOtp:
		if token := asString(m["token"]); token != "" {
			return &Identity{Kind: IdentityVerifyOtp, Token: token}
		}
	}
	return nil
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", s), "0"), ".")
	default:
		return ""
	}
}

func compactPayload(payload any) string {
	if payload == nil {
		return "Done."
	}
	if s, ok := payload.(string); ok {
		return s
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "Done."
	}
	return string(b)
}
