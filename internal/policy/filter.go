// Package policy decides which origins and target URLs the proxy serves.
package policy

import (
	"fmt"
	"regexp"
)

// DefaultDenyPatterns blocks nothing.
var DefaultDenyPatterns = []string{}

// DefaultAllowPatterns admits every origin.
var DefaultAllowPatterns = []string{".*"}

// Field is a request value that may be missing altogether.
type Field struct {
	Value   string
	Present bool
}

// Present returns a Field carrying s.
func Present(s string) Field {
	return Field{Value: s, Present: true}
}

// Absent is the Field for a value the request did not carry.
var Absent = Field{}

// Filter holds compiled deny (target URL) and allow (origin) patterns.
// A Filter is immutable after construction and safe for concurrent use.
type Filter struct {
	deny  []*regexp.Regexp
	allow []*regexp.Regexp
}

// New compiles the deny and allow pattern lists.
func New(deny, allow []string) (*Filter, error) {
	d, err := compile(deny)
	if err != nil {
		return nil, fmt.Errorf("deny patterns: %w", err)
	}
	a, err := compile(allow)
	if err != nil {
		return nil, fmt.Errorf("allow patterns: %w", err)
	}
	return &Filter{deny: d, allow: a}, nil
}

// Default returns a Filter built from the compiled-in pattern lists.
func Default() *Filter {
	f, err := New(DefaultDenyPatterns, DefaultAllowPatterns)
	if err != nil {
		panic(err)
	}
	return f
}

// Allowed reports whether a request for target coming from origin may be served.
// An absent target is never blocked and an absent origin is always admitted.
func (f *Filter) Allowed(target, origin Field) bool {
	if target.Present && matchAny(target.Value, f.deny) {
		return false
	}
	if !origin.Present {
		return true
	}
	return matchAny(origin.Value, f.allow)
}

// DenyCount returns the number of deny patterns.
func (f *Filter) DenyCount() int { return len(f.deny) }

// AllowCount returns the number of allow patterns.
func (f *Filter) AllowCount() int { return len(f.allow) }

func matchAny(s string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func compile(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}
