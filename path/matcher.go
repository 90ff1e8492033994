package path

import "strings"

// entry pairs a parsed pattern with the value it produces on match.
type entry[R any] struct {
	pattern  string
	parts    []Component
	producer R
}

// Matcher holds an ordered list of (pattern, producer) registrations and
// resolves a request path against them. Registration order is significant:
// the first pattern that matches wins, regardless of how specific a later
// pattern might be. Implementations must not reorder entries to "improve"
// matching — that would violate the documented tie-break rule.
type Matcher[R any] struct {
	caseSensitive bool
	entries       []entry[R]
}

// NewMatcher constructs an empty, case-sensitive Matcher.
func NewMatcher[R any]() *Matcher[R] {
	return &Matcher[R]{caseSensitive: true}
}

// CaseInsensitive switches constant-component comparison to be
// case-insensitive. Must be called before any Match registrations to take
// effect consistently; it applies to all future lookups regardless.
func (m *Matcher[R]) CaseInsensitive() *Matcher[R] {
	m.caseSensitive = false
	return m
}

// Match registers pattern, parsed into path components, against producer.
func (m *Matcher[R]) Match(pattern string, producer R) {
	m.entries = append(m.entries, entry[R]{
		pattern:  pattern,
		parts:    ParseComponents(pattern),
		producer: producer,
	})
}

// Result carries a matched producer plus the parameters captured along the
// way, both by name and positionally by index of occurrence.
type Result[R any] struct {
	Producer R
	Params   map[string]string
	// Positional holds every bound segment (parameter and anything
	// components alike) in the order encountered, for callers that prefer
	// index-based access over names.
	Positional []string
}

// Parse walks registered patterns in insertion order and returns the first
// match.
func (m *Matcher[R]) Parse(requestPath string) (Result[R], bool) {
	segments := New(requestPath).Segments()
	for _, e := range m.entries {
		if params, positional, ok := m.matchSegments(e.parts, segments); ok {
			return Result[R]{Producer: e.producer, Params: params, Positional: positional}, true
		}
	}
	return Result[R]{}, false
}

func (m *Matcher[R]) matchSegments(parts []Component, segments []string) (map[string]string, []string, bool) {
	params := make(map[string]string)
	var positional []string

	si := 0
	for pi, comp := range parts {
		switch comp.Kind {
		case KindCatchall:
			// Matches and terminates successfully regardless of remaining
			// segments, including zero.
			return params, positional, true
		case KindConstant:
			if si >= len(segments) {
				return nil, nil, false
			}
			if !m.equalConstant(comp.Literal, segments[si]) {
				return nil, nil, false
			}
			si++
		case KindAnything:
			if si >= len(segments) {
				return nil, nil, false
			}
			positional = append(positional, segments[si])
			si++
		case KindParameter:
			if si >= len(segments) {
				return nil, nil, false
			}
			params[comp.Name] = segments[si]
			positional = append(positional, segments[si])
			si++
		default:
			return nil, nil, false
		}
		// If this was the final pattern component and segments remain,
		// there's no match unless the component was a catchall (handled
		// above).
		if pi == len(parts)-1 && si < len(segments) {
			return nil, nil, false
		}
	}

	if si != len(segments) {
		return nil, nil, false
	}
	return params, positional, true
}

func (m *Matcher[R]) equalConstant(pattern, segment string) bool {
	if m.caseSensitive {
		return pattern == segment
	}
	return strings.EqualFold(pattern, segment)
}
