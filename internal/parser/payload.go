package parser

// Provider is one ranked search match. Server order is authoritative; nothing
// here re-sorts.
type Provider struct {
	Name        string
	Distance    float64
	HasDistance bool
}

// payloadShape tags the recognized nesting variants of a search result. The
// server's payload shape is not stable, so each known variant gets its own
// probe and the first hit wins.
type payloadShape int

const (
	shapeUnknown payloadShape = iota
	shapeTopLevel
	shapeDataWrapped
	shapeStructuredContent
	shapeResultWrapped
	shapeBareArray
)

// normalizeProviders extracts the ranked provider list from a tool payload,
// reporting which known shape matched. An unknown shape yields zero matches,
// never an error.
func normalizeProviders(payload any) ([]Provider, payloadShape) {
	if payload == nil {
		return nil, shapeUnknown
	}

	if arr, ok := payload.([]any); ok {
		return providersFromList(arr), shapeBareArray
	}

	m, ok := payload.(map[string]any)
	if !ok {
		return nil, shapeUnknown
	}

	if arr, ok := listField(m, "providers"); ok {
		return providersFromList(arr), shapeTopLevel
	}
	if data, ok := m["data"].(map[string]any); ok {
		if arr, ok := listField(data, "providers"); ok {
			return providersFromList(arr), shapeDataWrapped
		}
	}
	if sc, ok := m["structuredContent"].(map[string]any); ok {
		if result, ok := sc["result"].(map[string]any); ok {
			if arr, ok := listField(result, "providers"); ok {
				return providersFromList(arr), shapeStructuredContent
			}
		}
	}
	if result, ok := m["result"].(map[string]any); ok {
		if arr, ok := listField(result, "providers"); ok {
			return providersFromList(arr), shapeResultWrapped
		}
	}

	return nil, shapeUnknown
}

func listField(m map[string]any, key string) ([]any, bool) {
	arr, ok := m[key].([]any)
	return arr, ok
}

func providersFromList(items []any) []Provider {
	providers := make([]Provider, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		p := Provider{Name: stringField(entry, "name")}
		if p.Name == "" {
			p.Name = stringField(entry, "businessName")
		}
		if p.Name == "" {
			continue
		}
		if d, ok := numberField(entry, "distance"); ok {
			p.Distance = d
			p.HasDistance = true
		}
		providers = append(providers, p)
	}
	return providers
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func numberField(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// identityPayload peels the known wrappers off a payload so the identity
// probes can look at the innermost object regardless of nesting.
func identityPayload(payload any) map[string]any {
	m, ok := payload.(map[string]any)
	if !ok {
		return nil
	}
	for _, key := range []string{"structuredContent", "result", "data"} {
		if inner, ok := m[key].(map[string]any); ok {
			if deeper := identityPayload(inner); deeper != nil {
				return deeper
			}
			return inner
		}
	}
	return m
}
