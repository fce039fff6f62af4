// Package intent provides trigger-phrase matching over an ordered intent
// table and canned-response lookup by tag.
//
// The table is an ordered list, not a map: the first intent whose pattern
// matches wins, and that tie-break order is part of the dialogue contract.
package intent

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"regexp"
	"strings"

	_ "embed"
)

// FallbackTag is the tag consulted when a requested tag has no responses.
const FallbackTag = "fallback_generic"

// serverErrorResponse is the last-resort reply when even the fallback tag
// is missing from the document.
const serverErrorResponse = "There's something off with the server. Reach out devs."

//go:embed intents.json
var defaultIntentsJSON []byte

// Intent is one entry of the intent table: trigger phrases plus a pool of
// canned responses.
type Intent struct {
	Tag       string   `json:"tag"`
	Patterns  []string `json:"patterns"`
	Responses []string `json:"responses"`
}

// Document is the on-disk shape of the intent table.
type Document struct {
	Intents []Intent `json:"intents"`
}

// Matcher scans free text for trigger phrases and resolves canned responses
// by tag. Randomness only affects which response text is chosen, never
// which intent matches.
type Matcher struct {
	intents  []Intent
	patterns [][]*regexp.Regexp // word-boundary pattern per trigger phrase
	rng      *rand.Rand
}

// NewMatcher builds a matcher over the given document. A nil rng gets an
// auto-seeded source; tests inject a fixed-seed one for reproducibility.
func NewMatcher(doc *Document, rng *rand.Rand) *Matcher {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	m := &Matcher{intents: doc.Intents, rng: rng}
	m.patterns = make([][]*regexp.Regexp, len(doc.Intents))
	for i, it := range doc.Intents {
		compiled := make([]*regexp.Regexp, len(it.Patterns))
		for j, p := range it.Patterns {
			compiled[j] = regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(p)) + `\b`)
		}
		m.patterns[i] = compiled
	}
	slog.Debug("Matcher.NewMatcher: intent table loaded", "intents", len(doc.Intents))
	return m
}

// Default builds a matcher over the embedded intent document.
func Default(rng *rand.Rand) *Matcher {
	doc, err := Parse(defaultIntentsJSON)
	if err != nil {
		// The embedded document is validated by tests; a parse failure here
		// means a broken build.
		panic(fmt.Sprintf("embedded intents document invalid: %v", err))
	}
	return NewMatcher(doc, rng)
}

// Parse decodes an intent document from JSON bytes.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse intents document: %w", err)
	}
	return &doc, nil
}

// LoadFile reads and parses an intent document from disk.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read intents file %s: %w", path, err)
	}
	return Parse(data)
}

// Match scans the message for trigger phrases in table order. Single-word
// phrases must match on a word boundary; multi-word phrases also match as a
// plain substring. Returns the matched tag and a randomly chosen response,
// or ("", "", false) when nothing matches.
func (m *Matcher) Match(message string) (tag, response string, ok bool) {
	lowered := strings.ToLower(message)
	for i, it := range m.intents {
		for j, p := range it.Patterns {
			if m.patterns[i][j].MatchString(lowered) {
				return it.Tag, m.pick(it.Responses), true
			}
			if strings.Contains(p, " ") && strings.Contains(lowered, strings.ToLower(p)) {
				return it.Tag, m.pick(it.Responses), true
			}
		}
	}
	return "", "", false
}

// ResponseForTag returns a random response for the named tag, falling back
// to the generic-fallback intent when the tag is absent or empty.
func (m *Matcher) ResponseForTag(tag string) string {
	for _, it := range m.intents {
		if it.Tag == tag && len(it.Responses) > 0 {
			return m.pick(it.Responses)
		}
	}
	slog.Warn("Matcher.ResponseForTag: tag not found, using fallback", "tag", tag)
	for _, it := range m.intents {
		if it.Tag == FallbackTag && len(it.Responses) > 0 {
			return m.pick(it.Responses)
		}
	}
	return serverErrorResponse
}

func (m *Matcher) pick(responses []string) string {
	if len(responses) == 0 {
		return ""
	}
	return responses[m.rng.IntN(len(responses))]
}
