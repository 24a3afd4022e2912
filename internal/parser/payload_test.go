package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func providerMaps(names ...string) []any {
	out := make([]any, 0, len(names))
	for i, n := range names {
		out = append(out, map[string]any{"name": n, "distance": float64(i + 1)})
	}
	return out
}

func TestNormalizeProviders_TopLevel(t *testing.T) {
	payload := map[string]any{"providers": providerMaps("A", "B")}

	providers, shape := normalizeProviders(payload)
	assert.Equal(t, shapeTopLevel, shape)
	require.Len(t, providers, 2)
	assert.Equal(t, "A", providers[0].Name)
	assert.True(t, providers[0].HasDistance)
	assert.InDelta(t, 1.0, providers[0].Distance, 1e-9)
}

func TestNormalizeProviders_DataWrapped(t *testing.T) {
	payload := map[string]any{"data": map[string]any{"providers": providerMaps("A")}}

	providers, shape := normalizeProviders(payload)
	assert.Equal(t, shapeDataWrapped, shape)
	require.Len(t, providers, 1)
}

func TestNormalizeProviders_StructuredContent(t *testing.T) {
	payload := map[string]any{
		"structuredContent": map[string]any{
			"result": map[string]any{"providers": providerMaps("A", "B", "C")},
		},
	}

	providers, shape := normalizeProviders(payload)
	assert.Equal(t, shapeStructuredContent, shape)
	require.Len(t, providers, 3)
}

func TestNormalizeProviders_ResultWrapped(t *testing.T) {
	payload := map[string]any{"result": map[string]any{"providers": providerMaps("A")}}

	providers, shape := normalizeProviders(payload)
	assert.Equal(t, shapeResultWrapped, shape)
	require.Len(t, providers, 1)
}

func TestNormalizeProviders_BareArray(t *testing.T) {
	providers, shape := normalizeProviders(providerMaps("A", "B"))
	assert.Equal(t, shapeBareArray, shape)
	require.Len(t, providers, 2)
}

func TestNormalizeProviders_UnknownShapeIsZeroResults(t *testing.T) {
	for _, payload := range []any{
		nil,
		"free text",
		map[string]any{"matches": providerMaps("A")},
		map[string]any{"data": "oops"},
	} {
		providers, shape := normalizeProviders(payload)
		assert.Equal(t, shapeUnknown, shape)
		assert.Empty(t, providers)
	}
}

func TestNormalizeProviders_SkipsNamelessEntries(t *testing.T) {
	payload := map[string]any{"providers": []any{
		map[string]any{"distance": 2.0},
		map[string]any{"name": "Kept"},
		"not a map",
	}}

	providers, _ := normalizeProviders(payload)
	require.Len(t, providers, 1)
	assert.Equal(t, "Kept", providers[0].Name)
	assert.False(t, providers[0].HasDistance)
}

func TestNormalizeProviders_BusinessNameFallback(t *testing.T) {
	payload := map[string]any{"providers": []any{
		map[string]any{"businessName": "Acme Plumbing"},
	}}

	providers, _ := normalizeProviders(payload)
	require.Len(t, providers, 1)
	assert.Equal(t, "Acme Plumbing", providers[0].Name)
}
