package llm

import (
	"context"
	"log/slog"
	"strings"
)

// Apology is the reply used whenever the model path fails. It is also the
// general connectivity apology shown by the conversation loop.
const Apology = "I'm having trouble responding right now. Please try again, or tell me how I can help with DoWhistle services."

// Responder answers free-form messages that map to no tool. With a client it
// defers to the model; without one it falls back to deterministic keyword
// replies so the assistant still answers offline.
type Responder struct {
	client *Client
	logger *slog.Logger
}

// NewResponder builds a Responder. client may be nil for offline mode.
func NewResponder(client *Client, logger *slog.Logger) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{client: client, logger: logger}
}

// Respond never returns an error: model failures degrade to the fixed
// apology.
func (r *Responder) Respond(ctx context.Context, message string, rctx Context) string {
	if r.client == nil {
		return offlineReply(message)
	}

	reply, err := r.client.ChatCompletion(ctx, BuildSystemPrompt(rctx), message)
	if err != nil {
		r.logger.Warn("chat completion failed", "error", err)
		return Apology
	}
	return reply
}

// offlineReply mirrors the keyword rules of the production assistant's
// no-API-key mode.
func offlineReply(message string) string {
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "book") || strings.Contains(lower, "ride"):
		return "I can help you find nearby ride providers on DoWhistle. Share your pickup area and I'll connect you with available Whistlers."
	case strings.Contains(lower, "service") || strings.Contains(lower, "provider") || strings.Contains(lower, "offer"):
		return "DoWhistle connects you with nearby rides, local services, and retail offers. Are you looking to book a service, find a deal, or register as a provider?"
	case strings.Contains(lower, "location") || strings.Contains(lower, "area"):
		return "Tell me your location or allow location access, and I'll show nearby Whistlers that match your need."
	case strings.Contains(lower, "price") || strings.Contains(lower, "cost") || strings.Contains(lower, "fare"):
		return "Pricing depends on provider, distance, and service type. I can help you compare nearby options before you connect."
	case strings.Contains(lower, "help") || strings.Contains(lower, "how"):
		return "I'm your DoWhistle Assistant. I can guide you to post a Whistle, find nearby providers, or connect with rides and services."
	default:
		return "Hi! I'm the DoWhistle Assistant. I can help you find rides, local services, or nearby offers. What do you need right now?"
	}
}
