// Package classification holds the static keyword tables used to label
// transactions and categories, compiled into case-insensitive matchers.
package classification

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher tests text against a fixed keyword list. Matching is a
// case-insensitive substring test.
type Matcher struct {
	compiledRegex *regexp.Regexp
	name          string
	keywords      []string
}

// NewMatcher compiles keywords into a single alternation.
func NewMatcher(name string, keywords []string) (*Matcher, error) {
	if len(keywords) == 0 {
		return nil, fmt.Errorf("matcher %s has no keywords", name)
	}

	parts := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			return nil, fmt.Errorf("matcher %s has an empty keyword", name)
		}
		parts = append(parts, regexp.QuoteMeta(kw))
	}

	regex, err := regexp.Compile("(?i)(" + strings.Join(parts, "|") + ")")
	if err != nil {
		return nil, fmt.Errorf("failed to compile matcher %s: %w", name, err)
	}

	return &Matcher{
		name:          name,
		keywords:      append([]string(nil), keywords...),
		compiledRegex: regex,
	}, nil
}

// MustMatcher is NewMatcher for package-level tables; it panics on error.
func MustMatcher(name string, keywords []string) *Matcher {
	m, err := NewMatcher(name, keywords)
	if err != nil {
		panic(err)
	}
	return m
}

// Name returns the matcher's label.
func (m *Matcher) Name() string {
	return m.name
}

// Keywords returns a copy of the keyword list.
func (m *Matcher) Keywords() []string {
	return append([]string(nil), m.keywords...)
}

// Matches reports whether any of texts contains a keyword.
func (m *Matcher) Matches(texts ...string) bool {
	for _, text := range texts {
		if text != "" && m.compiledRegex.MatchString(text) {
			return true
		}
	}
	return false
}

// FirstMatch returns the first keyword found in texts, lower-cased, or "".
func (m *Matcher) FirstMatch(texts ...string) string {
	for _, text := range texts {
		if text == "" {
			continue
		}
		if found := m.compiledRegex.FindString(text); found != "" {
			return strings.ToLower(found)
		}
	}
	return ""
}
