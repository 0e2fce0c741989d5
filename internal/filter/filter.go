package filter

import (
	"errors"
	"fmt"
	"regexp"
	"regexp/syntax"
	"strings"

	"github.com/pvogel/castdeck/internal/core"
	cderr "github.com/pvogel/castdeck/internal/errors"
)

// defaultKey is the playlist field a bare pattern matches against.
const defaultKey = "name"

// Rule is one compiled inclusion rule: a playlist is retained when the
// field named by Key matches Pattern.
type Rule struct {
	Key     string
	Pattern *regexp.Regexp
}

// Match reports whether the rule matches the playlist. A key the record
// does not carry falls back to the name field; a record without that
// either never matches.
func (r Rule) Match(p *core.Playlist) bool {
	v, ok := p.Field(r.Key)
	if !ok {
		v, ok = p.Field(defaultKey)
	}
	if !ok {
		return false
	}
	return r.Pattern.MatchString(v)
}

// Outcome says how a filter result was produced.
type Outcome int

const (
	// OutcomeUnfiltered means no rules were configured; the input
	// passed through untouched.
	OutcomeUnfiltered Outcome = iota
	// OutcomeFiltered means the rules were applied normally.
	OutcomeFiltered
	// OutcomeCompileFallback means a pattern failed to compile and the
	// full input was returned instead of a partial result.
	OutcomeCompileFallback
	// OutcomeMatchFallback means a pattern failed during evaluation.
	// Kept as a distinct variant so callers can tell the two fallback
	// paths apart, even though the stock matcher cannot fail here.
	OutcomeMatchFallback
)

// Result is a filter outcome plus the playlists it retained. Err carries
// the absorbed syntax error on the fallback outcomes.
type Result struct {
	Playlists []core.Playlist
	Outcome   Outcome
	Err       error
}

// ParseRule parses a rule string of the form "key:pattern" or a bare
// "pattern" (key defaults to "name"). The pattern is trimmed of
// surrounding whitespace and compiled as a regular expression.
func ParseRule(s string) (Rule, error) {
	key, src := defaultKey, s
	if i := strings.Index(s, ":"); i >= 0 {
		key = strings.TrimSpace(s[:i])
		src = s[i+1:]
		if key == "" {
			key = defaultKey
		}
	}
	src = strings.TrimSpace(src)
	if src == "" {
		return Rule{}, &cderr.FilterError{Rule: s, Err: errors.New("empty pattern")}
	}

	re, err := regexp.Compile(src)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %q: %w", s, err)
	}
	return Rule{Key: key, Pattern: re}, nil
}

// Apply filters playlists against the configured rule strings. A playlist
// is retained when at least one rule matches. A pattern that fails to
// compile discards the partial result and returns the full input
// (OutcomeCompileFallback); any other parse failure propagates as a
// FilterError.
func Apply(playlists []core.Playlist, ruleStrings []string) (Result, error) {
	if len(ruleStrings) == 0 {
		return Result{Playlists: playlists, Outcome: OutcomeUnfiltered}, nil
	}

	rules := make([]Rule, 0, len(ruleStrings))
	for _, s := range ruleStrings {
		rule, err := ParseRule(s)
		if err != nil {
			var syntaxErr *syntax.Error
			if errors.As(err, &syntaxErr) {
				return Result{Playlists: playlists, Outcome: OutcomeCompileFallback, Err: err}, nil
			}
			return Result{}, err
		}
		rules = append(rules, rule)
	}

	kept := make([]core.Playlist, 0, len(playlists))
	for i := range playlists {
		for _, rule := range rules {
			if rule.Match(&playlists[i]) {
				kept = append(kept, playlists[i])
				break
			}
		}
	}
	return Result{Playlists: kept, Outcome: OutcomeFiltered}, nil
}
