package assist

import (
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Query is a parsed coordinate search request.
type Query struct {
	Latitude  float64
	Longitude float64
	Keyword   string
}

// categoryVocabulary is the fixed set of category keywords a message is
// scanned for. Generic restaurant terms are recognized but normalize to an
// unfiltered search.
var categoryVocabulary = []string{
	"burger", "pizza", "coffee", "bakery", "grocery", "pharmacy",
	"salon", "spa", "gym", "plumber", "electrician", "carpenter",
	"mechanic", "taxi", "hospital", "clinic", "laundry", "tailor",
}

var genericTerms = map[string]struct{}{
	"restaurant":  {},
	"restaurants": {},
}

// ParseQuery extracts a coordinate search from free text. Both a latitude and
// a longitude value must follow their keywords ("latitude 12.9",
// "longitude: 77.6", "latitude=12.9"); a keyword whose value does not parse
// as a number means the message is not a coordinate search at all.
func ParseQuery(text string) (Query, bool) {
	tokens := strings.Fields(strings.ToLower(text))

	lat, ok := valueAfter(tokens, "latitude")
	if !ok {
		return Query{}, false
	}
	lon, ok := valueAfter(tokens, "longitude")
	if !ok {
		return Query{}, false
	}

	return Query{Latitude: lat, Longitude: lon, Keyword: extractKeyword(tokens)}, true
}

// valueAfter finds the numeric value attached to a keyword token, either
// inside the same token ("latitude:12.9") or in the following one.
func valueAfter(tokens []string, key string) (float64, bool) {
	for i, tok := range tokens {
		name, inline, attached := splitAssignment(tok)
		if name != key {
			continue
		}
		if attached {
			return parseCoordinate(inline)
		}
		// The value is in a later token, possibly past a bare separator.
		for j := i + 1; j < len(tokens); j++ {
			next := tokens[j]
			if next == ":" || next == "=" {
				continue
			}
			return parseCoordinate(strings.TrimPrefix(strings.TrimPrefix(next, ":"), "="))
		}
		return 0, false
	}
	return 0, false
}

// splitAssignment separates "key:value" / "key=value" forms. attached is true
// when a non-empty value shared the token.
func splitAssignment(tok string) (name, value string, attached bool) {
	if i := strings.IndexAny(tok, ":="); i >= 0 {
		name, value = tok[:i], tok[i+1:]
		return name, value, value != ""
	}
	return tok, "", false
}

func parseCoordinate(s string) (float64, bool) {
	s = strings.Trim(s, ",;")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// extractKeyword scans tokens for a vocabulary category. Exact matches win;
// otherwise one edit of slack absorbs typos and plurals. Generic restaurant
// terms normalize to an empty keyword, meaning search unfiltered.
func extractKeyword(tokens []string) string {
	for _, tok := range tokens {
		tok = strings.Trim(tok, ",.;!?\"'")
		if tok == "" {
			continue
		}
		if _, ok := genericTerms[tok]; ok {
			return ""
		}
		for _, cat := range categoryVocabulary {
			if tok == cat {
				return cat
			}
			if len(tok) >= 4 && fuzzy.LevenshteinDistance(tok, cat) <= 1 {
				return cat
			}
		}
	}
	return ""
}
