// Package matcher resolves free-text menu names ("nasgor seafood") to menu
// items by keyword overlap.
package matcher

import (
	"strings"
	"unicode"
)

// MatchStatus represents the status of a match operation
type MatchStatus int

const (
	Matched MatchStatus = iota
	Ambiguous
	Unmatched
)

func (s MatchStatus) String() string {
	switch s {
	case Matched:
		return "Matched"
	case Ambiguous:
		return "Ambiguous"
	case Unmatched:
		return "Unmatched"
	default:
		return "Unknown"
	}
}

// Item is a menu entry with matching metadata. Keywords defaults to the
// words of Name.
type Item struct {
	ID       string
	Name     string
	Keywords string // CSV like "nasi,goreng,spesial"
}

// MatchResult contains the result of a matching operation
type MatchResult struct {
	Status     MatchStatus
	Item       *Item  // when Matched
	Candidates []Item // when Ambiguous
}

// Matcher performs keyword-based item matching
type Matcher struct {
	items          []Item
	itemKeywordMap [][]string
}

const (
	variantWeight = 5
	regularWeight = 1
)

// Variant words single out one dish among similar ones; when the customer
// writes one, only items carrying it can match.
var variantKeywords = map[string]bool{
	"spesial": true,
	"seafood": true,
	"ayam":    true,
	"sapi":    true,
	"kambing": true,
	"udang":   true,
	"cumi":    true,
	"telur":   true,
	"sosis":   true,
	"pete":    true,
	"jeruk":   true,
	"teh":     true,
	"kopi":    true,
	"putih":   true,
	"merah":   true,
}

// Chat shorthand expanded before matching.
var aliases = map[string][]string{
	"nasgor":  {"nasi", "goreng"},
	"migor":   {"mie", "goreng"},
	"mi":      {"mie"},
	"kwetiau": {"kwetiaw"},
	"special": {"spesial"},
	"spesyal": {"spesial"},
	"esteh":   {"es", "teh"},
}

// New creates a new Matcher with pre-tokenized keywords
func New(items []Item) *Matcher {
	m := &Matcher{
		items:          items,
		itemKeywordMap: make([][]string, len(items)),
	}

	for i, item := range items {
		source := item.Keywords
		if source == "" {
			source = item.Name
		}
		parts := strings.FieldsFunc(source, func(r rune) bool { return r == ',' || unicode.IsSpace(r) })
		keywords := make([]string, 0, len(parts))
		for _, part := range parts {
			if normalized := normalize(part); normalized != "" {
				keywords = append(keywords, expand(tokenize(normalized))...)
			}
		}
		m.itemKeywordMap[i] = keywords
	}

	return m
}

// Match performs keyword-based matching against menu items
func (m *Matcher) Match(text string) MatchResult {
	inputTokens := make(map[string]bool)
	for _, tok := range expand(tokenize(normalize(text))) {
		inputTokens[tok] = true
	}

	inputVariants := make(map[string]bool)
	for tok := range inputTokens {
		if variantKeywords[tok] {
			inputVariants[tok] = true
		}
	}

	type scoredItem struct {
		item  Item
		score int
	}

	var scored []scoredItem

	for i, item := range m.items {
		keywords := m.itemKeywordMap[i]

		// Hard filter: if input contains variant keywords, candidate MUST have them
		if !containsAll(keywords, inputVariants) {
			continue
		}

		score := 0
		for _, kw := range keywords {
			if inputTokens[kw] {
				if variantKeywords[kw] {
					score += variantWeight
				} else {
					score += regularWeight
				}
			}
		}

		if score > 0 {
			scored = append(scored, scoredItem{item: item, score: score})
		}
	}

	if len(scored) == 0 {
		return MatchResult{Status: Unmatched}
	}

	maxScore := 0
	for _, s := range scored {
		if s.score > maxScore {
			maxScore = s.score
		}
	}

	var topScorers []Item
	for _, s := range scored {
		if s.score == maxScore {
			topScorers = append(topScorers, s.item)
		}
	}

	if len(topScorers) == 1 {
		return MatchResult{
			Status: Matched,
			Item:   &topScorers[0],
		}
	}

	return MatchResult{
		Status:     Ambiguous,
		Candidates: topScorers,
	}
}

func containsAll(keywords []string, want map[string]bool) bool {
	for variant := range want {
		found := false
		for _, kw := range keywords {
			if kw == variant {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// normalize converts a string to lowercase and replaces non-alphanumeric chars with spaces
func normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(sb.String()), " ")
}

// tokenize splits a string on whitespace
func tokenize(s string) []string {
	return strings.Fields(s)
}

func expand(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if alt, ok := aliases[tok]; ok {
			out = append(out, alt...)
			continue
		}
		out = append(out, tok)
	}
	return out
}
