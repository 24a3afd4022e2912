package assist

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dowhistle/assistant/internal/auth"
	"github.com/dowhistle/assistant/internal/llm"
	"github.com/dowhistle/assistant/internal/parser"
	"github.com/dowhistle/assistant/internal/store"
	"github.com/dowhistle/assistant/internal/tools"
)

// Searcher is the tool surface the router drives on the coordinate path.
type Searcher interface {
	SearchProviders(ctx context.Context, lat, lon float64, keyword string, radius float64, limit int) tools.ResultEnvelope
}

// Responder answers messages that map to no tool.
type Responder interface {
	Respond(ctx context.Context, message string, rctx llm.Context) string
}

const (
	defaultSearchRadius = 5.0
	defaultSearchLimit  = 10
)

// Router turns one user message into one reply: a coordinate-bearing message
// becomes a provider search, anything else goes to the language model.
type Router struct {
	searcher  Searcher
	bridge    *auth.Bridge
	location  store.LocationStore
	responder Responder
	logger    *slog.Logger
	radius    float64
	limit     int
}

// RouterConfig wires a Router. Radius and Limit fall back to the defaults.
type RouterConfig struct {
	Searcher  Searcher
	Bridge    *auth.Bridge
	Location  store.LocationStore
	Responder Responder
	Logger    *slog.Logger
	Radius    float64
	Limit     int
}

// NewRouter builds a Router.
func NewRouter(cfg RouterConfig) *Router {
	if cfg.Radius <= 0 {
		cfg.Radius = defaultSearchRadius
	}
	if cfg.Limit <= 0 {
		cfg.Limit = defaultSearchLimit
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Router{
		searcher:  cfg.Searcher,
		bridge:    cfg.Bridge,
		location:  cfg.Location,
		responder: cfg.Responder,
		logger:    cfg.Logger,
		radius:    cfg.Radius,
		limit:     cfg.Limit,
	}
}

// Route decides once per message, short-circuiting on the first match, and
// always returns displayable text. Concurrent calls are independent flows.
func (r *Router) Route(ctx context.Context, text string) string {
	flow := uuid.NewString()
	log := r.logger.With("flow", flow)

	if q, ok := ParseQuery(text); ok {
		return r.search(ctx, log, q)
	}

	log.Debug("routing to language model")
	return r.responder.Respond(ctx, text, r.requestContext())
}

// search runs the direct tool path. It never falls through to the language
// model: a tool failure is reported as a search failure, and an unreachable
// server as a connectivity problem.
func (r *Router) search(ctx context.Context, log *slog.Logger, q Query) string {
	log.Info("routing to provider search",
		"latitude", q.Latitude,
		"longitude", q.Longitude,
		"keyword", q.Keyword,
	)

	if r.location != nil {
		if err := r.location.SetLocation(q.Latitude, q.Longitude); err != nil {
			log.Warn("caching location failed", "error", err)
		}
	}

	env := r.searcher.SearchProviders(ctx, q.Latitude, q.Longitude, q.Keyword, r.radius, r.limit)
	if !env.Success && env.Err == tools.NotConnectedError {
		return ConnectivityMessage
	}

	outcome := parser.Parse(env, tools.ToolSearchBusinesses, q.Keyword)
	if r.bridge != nil {
		r.bridge.Apply(outcome)
	}
	return outcome.DisplayText
}

// requestContext snapshots conversation context for the language model. It
// records that a token exists, never the token itself.
func (r *Router) requestContext() llm.Context {
	var rctx llm.Context
	if r.location != nil {
		if lat, lon, ok := r.location.Location(); ok {
			rctx.HasLocation = true
			rctx.Latitude = lat
			rctx.Longitude = lon
		}
	}
	if r.bridge != nil {
		creds := r.bridge.Credentials()
		rctx.UserID = creds.UserID
		rctx.Authenticated = creds.Authenticated
	}
	return rctx
}
