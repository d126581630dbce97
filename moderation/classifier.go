// Package moderation tags filed reports with matched abuse terms and detects
// the language of relayed text. Nothing here blocks or rewrites a message;
// reports are recorded, not acted upon.
package moderation

import (
	_ "embed"
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

//go:embed terms.txt
var defaultTerms string

// Classifier matches a report's reason text against a known abuse-term list
// using an Aho-Corasick automaton built once at startup.
type Classifier struct {
	matcher *goahocorasick.Machine
}

// NewClassifier builds the automaton over the lowercased term list.
func NewClassifier(terms []string) (Classifier, error) {
	patterns := make([][]rune, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(strings.ToLower(term))
		if term == "" {
			continue
		}
		patterns = append(patterns, []rune(term))
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return Classifier{}, err
	}
	return Classifier{matcher: m}, nil
}

// NewDefaultClassifier loads the embedded term list.
func NewDefaultClassifier() (Classifier, error) {
	return NewClassifier(strings.Split(defaultTerms, "\n"))
}

// Tags returns every distinct term matched in the reason text, in match
// order. An empty slice means the reason matched nothing known.
func (c *Classifier) Tags(reason string) []string {
	normalized := []rune(strings.Map(unicode.ToLower, reason))
	spans := c.matcher.MultiPatternSearch(normalized, false)

	seen := make(map[string]struct{}, len(spans))
	var tags []string
	for _, span := range spans {
		tag := string(span.Word)
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
