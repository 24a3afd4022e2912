package tools

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Well-known tool names exposed by the DoWhistle tool-execution server.
const (
	ToolSearchBusinesses = "search_businesses"
	ToolSignIn           = "sign_in"
	ToolVerifyOtp        = "verify_otp"
	ToolResendOtp        = "resend_otp"
	ToolCreateWhistle    = "create_whistle"
	ToolListWhistles     = "list_whistles"
	ToolToggleVisibility = "toggle_visibility"
	ToolGetUserProfile   = "get_user_profile"
)

// Catalog holds the tool definitions the client may invoke: name, description
// and compiled input schema. Arguments are validated by the server; locally we
// only enforce required-field presence, taken from each schema's required list.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]*catalogEntry
}

type catalogEntry struct {
	name        string
	description string
	schema      *jsonschema.Schema
	required    []string
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]*catalogEntry)}
}

// DefaultCatalog returns a catalog pre-loaded with the well-known DoWhistle
// tools. The catalog can later be refreshed from the server's own tool list.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	for name, def := range builtinSchemas {
		// Built-in schemas are static; a compile failure here is a bug.
		if err := c.Register(name, def.description, []byte(def.schema)); err != nil {
			panic(fmt.Sprintf("builtin schema for %s: %v", name, err))
		}
	}
	return c
}

// Register adds or replaces a tool definition. The input schema must be a
// valid JSON Schema document; an empty schema means no local checks.
func (c *Catalog) Register(name, description string, schemaJSON []byte) error {
	if name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}

	entry := &catalogEntry{name: name, description: description}
	if len(schemaJSON) > 0 {
		s, err := jsonschema.CompileString(name+".json", string(schemaJSON))
		if err != nil {
			return fmt.Errorf("invalid input schema for %s: %w", name, err)
		}
		entry.schema = s
		entry.required = append(entry.required, s.Required...)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = entry
	return nil
}

// Known reports whether the catalog has a definition for the tool.
func (c *Catalog) Known(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[name]
	return ok
}

// RequiredFields returns the required argument names for a tool, or nil when
// the tool is unknown or has no schema.
func (c *Catalog) RequiredFields(name string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	if !ok {
		return nil
	}
	return e.required
}

// CheckArgs enforces required-field presence. Deeper type checking is the
// server's responsibility.
func (c *Catalog) CheckArgs(name string, args map[string]any) error {
	for _, field := range c.RequiredFields(name) {
		if _, ok := args[field]; !ok {
			return fmt.Errorf("missing required argument %q for tool %s", field, name)
		}
	}
	return nil
}

// Names returns all registered tool names.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	return names
}

// MergeServerTools folds tool definitions advertised by the server into the
// catalog. Definitions with schemas that fail to compile are kept without
// local checks rather than rejected; the server remains the authority.
func (c *Catalog) MergeServerTools(defs []ServerTool) {
	for _, def := range defs {
		if err := c.Register(def.Name, def.Description, def.InputSchema); err != nil {
			// Fall back to a schemaless entry so the tool stays callable.
			_ = c.Register(def.Name, def.Description, nil)
		}
	}
}

// ServerTool is a tool definition as advertised by the tool-execution server.
type ServerTool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

type builtinDef struct {
	description string
	schema      string
}

var builtinSchemas = map[string]builtinDef{
	ToolSearchBusinesses: {
		description: "Search nearby provider Whistlers around a coordinate.",
		schema: `{
			"type": "object",
			"properties": {
				"latitude": {"type": "number"},
				"longitude": {"type": "number"},
				"keyword": {"type": "string"},
				"radius": {"type": "number"},
				"limit": {"type": "integer"}
			},
			"required": ["latitude", "longitude"]
		}`,
	},
	ToolSignIn: {
		description: "Start sign-in with a phone number; the server sends an OTP.",
		schema: `{
			"type": "object",
			"properties": {
				"phone": {"type": "string"},
				"countryCode": {"type": "string"}
			},
			"required": ["phone"]
		}`,
	},
	ToolVerifyOtp: {
		description: "Verify a one-time password and obtain an access token.",
		schema: `{
			"type": "object",
			"properties": {
				"phone": {"type": "string"},
				"otp": {"type": "string"}
			},
			"required": ["phone", "otp"]
		}`,
	},
	ToolResendOtp: {
		description: "Resend the one-time password.",
		schema: `{
			"type": "object",
			"properties": {
				"phone": {"type": "string"}
			},
			"required": ["phone"]
		}`,
	},
	ToolCreateWhistle: {
		description: "Post a Whistle (a need or an offer).",
		schema: `{
			"type": "object",
			"properties": {
				"type": {"type": "string", "enum": ["provider", "consumer"]},
				"tags": {"type": "array", "items": {"type": "string"}},
				"description": {"type": "string"},
				"alertRadius": {"type": "number"},
				"expiryHours": {"type": "integer"}
			},
			"required": ["type", "tags"]
		}`,
	},
	ToolListWhistles: {
		description: "List the signed-in user's Whistles.",
		schema:      `{"type": "object", "properties": {}}`,
	},
	ToolToggleVisibility: {
		description: "Toggle a Whistle's visibility.",
		schema: `{
			"type": "object",
			"properties": {
				"whistleId": {"type": "string"}
			},
			"required": ["whistleId"]
		}`,
	},
	ToolGetUserProfile: {
		description: "Fetch the signed-in user's profile.",
		schema:      `{"type": "object", "properties": {}}`,
	},
}
