package assist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQueryBasic(t *testing.T) {
	q, ok := ParseQuery("find burger near latitude 12.9 longitude 77.6")
	require.True(t, ok)
	assert.Equal(t, 12.9, q.Latitude)
	assert.Equal(t, 77.6, q.Longitude)
	assert.Equal(t, "burger", q.Keyword)
}

func TestParseQueryAnyOrder(t *testing.T) {
	q, ok := ParseQuery("longitude 77.6 latitude 12.9 pizza please")
	require.True(t, ok)
	assert.Equal(t, 12.9, q.Latitude)
	assert.Equal(t, 77.6, q.Longitude)
	assert.Equal(t, "pizza", q.Keyword)
}

func TestParseQuerySeparators(t *testing.T) {
	for _, text := range []string{
		"latitude: 12.9 longitude: 77.6",
		"latitude:12.9 longitude:77.6",
		"latitude=12.9 longitude=77.6",
		"latitude = 12.9 longitude = 77.6",
	} {
		q, ok := ParseQuery(text)
		require.True(t, ok, "text %q", text)
		assert.Equal(t, 12.9, q.Latitude, "text %q", text)
		assert.Equal(t, 77.6, q.Longitude, "text %q", text)
	}
}

func TestParseQuerySignedValues(t *testing.T) {
	q, ok := ParseQuery("latitude -33.86 longitude 151.2")
	require.True(t, ok)
	assert.Equal(t, -33.86, q.Latitude)
	assert.Equal(t, 151.2, q.Longitude)
}

func TestParseQueryTrailingPunctuation(t *testing.T) {
	q, ok := ParseQuery("latitude 12.9, longitude 77.6, coffee")
	require.True(t, ok)
	assert.Equal(t, 12.9, q.Latitude)
	assert.Equal(t, 77.6, q.Longitude)
	assert.Equal(t, "coffee", q.Keyword)
}

func TestParseQueryMalformedValues(t *testing.T) {
	for _, text := range []string{
		"latitude abc longitude 77.6",
		"latitude 12.9 longitude xyz",
		"latitude here longitude there",
	} {
		_, ok := ParseQuery(text)
		assert.False(t, ok, "text %q", text)
	}
}

func TestParseQueryMissingCoordinate(t *testing.T) {
	_, ok := ParseQuery("burger near latitude 12.9")
	assert.False(t, ok)

	_, ok = ParseQuery("hello there")
	assert.False(t, ok)
}

func TestKeywordRestaurantNormalizesToUnfiltered(t *testing.T) {
	for _, text := range []string{
		"restaurants near latitude 12.9 longitude 77.6",
		"find a restaurant latitude 12.9 longitude 77.6",
	} {
		q, ok := ParseQuery(text)
		require.True(t, ok, "text %q", text)
		assert.Empty(t, q.Keyword, "text %q", text)
	}
}

func TestKeywordFuzzyTolerance(t *testing.T) {
	q, ok := ParseQuery("piza near latitude 12.9 longitude 77.6")
	require.True(t, ok)
	assert.Equal(t, "pizza", q.Keyword)

	q, ok = ParseQuery("burgers near latitude 12.9 longitude 77.6")
	require.True(t, ok)
	assert.Equal(t, "burger", q.Keyword)
}

func TestKeywordAbsent(t *testing.T) {
	q, ok := ParseQuery("anything nearby latitude 12.9 longitude 77.6")
	require.True(t, ok)
	assert.Empty(t, q.Keyword)
}
