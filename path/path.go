// Package path implements Renkon's structural path type and the
// registration-order path matcher described by the design's identifier and
// path-matching component.
package path

import "strings"

// Path is an ordered sequence of non-empty components derived from a
// delimited string. Two paths are equal iff their stored strings are equal.
type Path struct {
	raw      string
	delim    byte
	segments []string
}

// New parses raw using the default delimiter '/'.
func New(raw string) Path {
	return NewWithDelimiter(raw, '/')
}

// NewWithDelimiter parses raw using an explicit delimiter, discarding empty
// segments (so both "/a/b" and "/a//b/" produce ["a", "b"]).
func NewWithDelimiter(raw string, delim byte) Path {
	parts := strings.Split(raw, string(delim))
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return Path{raw: raw, delim: delim, segments: segments}
}

// String returns the original delimited string this path was built from.
func (p Path) String() string { return p.raw }

// Segments returns the non-empty path components in order.
func (p Path) Segments() []string {
	cp := make([]string, len(p.segments))
	copy(cp, p.segments)
	return cp
}

// Last returns the final path component, if any.
func (p Path) Last() (string, bool) {
	if len(p.segments) == 0 {
		return "", false
	}
	return p.segments[len(p.segments)-1], true
}

// Stem returns the last component with its extension (the suffix after the
// final '.') removed.
func (p Path) Stem() (string, bool) {
	last, ok := p.Last()
	if !ok {
		return "", false
	}
	if i := strings.LastIndexByte(last, '.'); i > 0 {
		return last[:i], true
	}
	return last, true
}

// Ext returns the extension of the last component, without the leading
// '.', if one exists.
func (p Path) Ext() (string, bool) {
	last, ok := p.Last()
	if !ok {
		return "", false
	}
	if i := strings.LastIndexByte(last, '.'); i > 0 {
		return last[i+1:], true
	}
	return "", false
}

// HasPrefix reports whether p's leading segments equal other's segments.
func (p Path) HasPrefix(other Path) bool {
	if len(other.segments) > len(p.segments) {
		return false
	}
	for i, seg := range other.segments {
		if p.segments[i] != seg {
			return false
		}
	}
	return true
}

// HasSuffix reports whether p's trailing segments equal other's segments.
func (p Path) HasSuffix(other Path) bool {
	if len(other.segments) > len(p.segments) {
		return false
	}
	offset := len(p.segments) - len(other.segments)
	for i, seg := range other.segments {
		if p.segments[offset+i] != seg {
			return false
		}
	}
	return true
}

// RemovingFirst returns a copy of p with its first component removed.
func (p Path) RemovingFirst() Path {
	if len(p.segments) == 0 {
		return p
	}
	segments := p.segments[1:]
	return Path{raw: string(p.delim) + strings.Join(segments, string(p.delim)), delim: p.delim, segments: segments}
}

// RemovingLast returns a copy of p with its last component removed.
func (p Path) RemovingLast() Path {
	if len(p.segments) == 0 {
		return p
	}
	segments := p.segments[:len(p.segments)-1]
	return Path{raw: string(p.delim) + strings.Join(segments, string(p.delim)), delim: p.delim, segments: segments}
}

// Appending returns a copy of p with additional trailing components.
func (p Path) Appending(components ...string) Path {
	segments := make([]string, 0, len(p.segments)+len(components))
	segments = append(segments, p.segments...)
	segments = append(segments, components...)
	return Path{raw: string(p.delim) + strings.Join(segments, string(p.delim)), delim: p.delim, segments: segments}
}

// Equal reports whether a and b were built from the same delimited string.
func Equal(a, b Path) bool {
	return a.raw == b.raw
}
