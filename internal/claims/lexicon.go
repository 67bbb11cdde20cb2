// Package claims classifies marketing copy against a configurable lexicon of
// risky promotional terms.
package claims

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// RiskTier is the ordinal severity attached to a compliance finding.
type RiskTier int

const (
	RiskLow RiskTier = iota + 1
	RiskMedium
	RiskHigh
)

// String returns the wire form of the tier.
func (t RiskTier) String() string {
	switch t {
	case RiskMedium:
		return "MEDIUM"
	case RiskHigh:
		return "HIGH"
	default:
		return "LOW"
	}
}

// MarshalText implements encoding.TextMarshaler so tiers serialize as their
// names in JSON responses.
func (t RiskTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseTier parses a tier name, case-insensitively.
func ParseTier(s string) (RiskTier, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOW":
		return RiskLow, nil
	case "MEDIUM":
		return RiskMedium, nil
	case "HIGH":
		return RiskHigh, nil
	}
	return 0, fmt.Errorf("unknown risk tier %q", s)
}

// MaxTier returns the higher of two tiers.
func MaxTier(a, b RiskTier) RiskTier {
	if b > a {
		return b
	}
	return a
}

// Match is one lexicon hit within a piece of text.
type Match struct {
	Term string   `json:"term"`
	Tier RiskTier `json:"tier"`
}

type entry struct {
	term string
	tier RiskTier
}

// Lexicon maps lower-cased terms to risk tiers. It is immutable once built
// and generic over whatever term set is supplied; the matcher carries no
// policy of its own.
type Lexicon struct {
	entries []entry
}

// NewLexicon builds a lexicon from a term -> tier map. Terms are matched
// case-insensitively; match output order is deterministic (sorted terms).
func NewLexicon(terms map[string]RiskTier) *Lexicon {
	lex := &Lexicon{entries: make([]entry, 0, len(terms))}
	for term, tier := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		lex.entries = append(lex.entries, entry{term: term, tier: tier})
	}
	sort.Slice(lex.entries, func(i, j int) bool { return lex.entries[i].term < lex.entries[j].term })
	return lex
}

// DefaultLexicon returns the built-in retailer claim lexicon.
func DefaultLexicon() *Lexicon {
	return NewLexicon(map[string]RiskTier{
		"free":         RiskHigh,
		"guaranteed":   RiskHigh,
		"best":         RiskHigh,
		"lowest price": RiskHigh,
		"save":         RiskMedium,
		"discount":     RiskMedium,
		"sale":         RiskMedium,
		"limited time": RiskMedium,
		"act now":      RiskLow,
		"exclusive":    RiskLow,
	})
}

// lexiconFile is the on-disk TOML shape:
//
//	[terms]
//	free = "HIGH"
//	save = "MEDIUM"
type lexiconFile struct {
	Terms map[string]string `toml:"terms"`
}

// Load reads a lexicon from a TOML file.
func Load(path string) (*Lexicon, error) {
	var file lexiconFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("load lexicon %s: %w", path, err)
	}
	terms := make(map[string]RiskTier, len(file.Terms))
	for term, tierName := range file.Terms {
		tier, err := ParseTier(tierName)
		if err != nil {
			return nil, fmt.Errorf("load lexicon %s: term %q: %w", path, term, err)
		}
		terms[term] = tier
	}
	return NewLexicon(terms), nil
}

// Classify reports every lexicon term contained in text, case-insensitively.
// All matches are returned, not just the highest tier. Empty input yields an
// empty result.
func (l *Lexicon) Classify(text string) []Match {
	if text == "" {
		return nil
	}
	lowered := strings.ToLower(text)
	var matches []Match
	for _, e := range l.entries {
		if strings.Contains(lowered, e.term) {
			matches = append(matches, Match{Term: e.term, Tier: e.tier})
		}
	}
	return matches
}

// MaxMatchTier returns the highest tier among matches, or RiskLow when there
// are none.
func MaxMatchTier(matches []Match) RiskTier {
	tier := RiskLow
	for _, m := range matches {
		tier = MaxTier(tier, m.Tier)
	}
	return tier
}
