package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogKnowsBuiltins(t *testing.T) {
	c := DefaultCatalog()

	for _, name := range []string{
		ToolSearchBusinesses, ToolSignIn, ToolVerifyOtp, ToolResendOtp,
		ToolCreateWhistle, ToolListWhistles, ToolToggleVisibility, ToolGetUserProfile,
	} {
		assert.True(t, c.Known(name), "tool %s", name)
	}
	assert.False(t, c.Known("unknown_tool"))
}

func TestRequiredFields(t *testing.T) {
	c := DefaultCatalog()

	assert.ElementsMatch(t, []string{"latitude", "longitude"}, c.RequiredFields(ToolSearchBusinesses))
	assert.ElementsMatch(t, []string{"phone", "otp"}, c.RequiredFields(ToolVerifyOtp))
	assert.Empty(t, c.RequiredFields(ToolListWhistles))
	assert.Nil(t, c.RequiredFields("unknown_tool"))
}

func TestCheckArgs(t *testing.T) {
	c := DefaultCatalog()

	err := c.CheckArgs(ToolSearchBusinesses, map[string]any{
		"latitude":  12.9,
		"longitude": 77.6,
	})
	require.NoError(t, err)

	err = c.CheckArgs(ToolSearchBusinesses, map[string]any{"latitude": 12.9})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "longitude")

	// Presence only: a wrongly typed value is the server's problem.
	err = c.CheckArgs(ToolSearchBusinesses, map[string]any{
		"latitude":  "not-a-number",
		"longitude": "also-not",
	})
	assert.NoError(t, err)
}

func TestRegisterRejectsBadSchema(t *testing.T) {
	c := NewCatalog()

	err := c.Register("broken", "", []byte(`{"type": `))
	assert.Error(t, err)
	assert.False(t, c.Known("broken"))
}

func TestMergeServerTools(t *testing.T) {
	c := DefaultCatalog()

	c.MergeServerTools([]ServerTool{
		{
			Name:        "rate_provider",
			Description: "Rate a provider.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"providerId":{"type":"string"}},"required":["providerId"]}`),
		},
		{
			Name:        "broken_schema_tool",
			InputSchema: json.RawMessage(`{"type":`),
		},
	})

	assert.True(t, c.Known("rate_provider"))
	assert.ElementsMatch(t, []string{"providerId"}, c.RequiredFields("rate_provider"))

	// Uncompilable schemas degrade to schemaless entries, not rejections.
	assert.True(t, c.Known("broken_schema_tool"))
	assert.NoError(t, c.CheckArgs("broken_schema_tool", nil))
}

func TestMergeServerToolsOverridesRequired(t *testing.T) {
	c := DefaultCatalog()

	c.MergeServerTools([]ServerTool{{
		Name:        ToolSearchBusinesses,
		InputSchema: json.RawMessage(`{"type":"object","required":["latitude","longitude","radius"]}`),
	}})

	assert.ElementsMatch(t, []string{"latitude", "longitude", "radius"},
		c.RequiredFields(ToolSearchBusinesses))
}

func TestNames(t *testing.T) {
	c := DefaultCatalog()
	assert.Len(t, c.Names(), 8)
}
