package path

// ComponentKind tags the arm of a pattern Component.
type ComponentKind int

const (
	// KindConstant matches a single segment by exact (or case-insensitive)
	// string equality.
	KindConstant ComponentKind = iota
	// KindAnything matches exactly one segment, unconditionally, without
	// binding it.
	KindAnything
	// KindParameter matches exactly one segment, binding it to a name.
	KindParameter
	// KindCatchall matches and terminates the match successfully regardless
	// of how many request segments remain.
	KindCatchall
)

// Component is one element of a parsed pattern: constant(s), anything,
// parameter(name), or catchall.
type Component struct {
	Kind ComponentKind
	// Literal holds the constant text for KindConstant.
	Literal string
	// Name holds the binding name for KindParameter.
	Name string
}

// Constant builds a literal-matching component.
func Constant(s string) Component { return Component{Kind: KindConstant, Literal: s} }

// Anything builds a single-segment wildcard component.
func Anything() Component { return Component{Kind: KindAnything} }

// Parameter builds a named single-segment capture component.
func Parameter(name string) Component { return Component{Kind: KindParameter, Name: name} }

// Catchall builds a component that matches the remainder of the path.
func Catchall() Component { return Component{Kind: KindCatchall} }

// ParseComponents splits a pattern string on '/' (discarding empty
// segments) and maps each segment to a Component:
//
//   - "*"        -> Anything
//   - "**"       -> Catchall
//   - "{name}"   -> Parameter(name)
//   - anything else -> Constant(segment)
func ParseComponents(pattern string) []Component {
	p := New(pattern)
	segments := p.Segments()
	out := make([]Component, 0, len(segments))
	for _, seg := range segments {
		switch {
		case seg == "**":
			out = append(out, Catchall())
		case seg == "*":
			out = append(out, Anything())
		case len(seg) >= 2 && seg[0] == '{' && seg[len(seg)-1] == '}':
			out = append(out, Parameter(seg[1:len(seg)-1]))
		default:
			out = append(out, Constant(seg))
		}
	}
	return out
}
