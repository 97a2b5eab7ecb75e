package css

import (
	"strings"
)

// Priorities contributed by individual atoms. Simple and complex selectors sum them.
const (
	UniversalPriority   = 0
	TypePriority        = 1
	AttributePriority   = 10
	PseudoClassPriority = 10
	IDPriority          = 100
)

// AtomKind identifies which primitive predicate an Atom represents.
type AtomKind int

const (
	AtomUniversal   AtomKind = iota // *
	AtomType                        // tag name
	AtomID                          // #id
	AtomAttribute                   // [attr], [attr=v], [attr~=v], [attr|=v], .class
	AtomPseudoClass                 // :first-child
)

// String returns the name of the atom kind.
func (k AtomKind) String() string {
	switch k {
	case AtomUniversal:
		return "universal"
	case AtomType:
		return "type"
	case AtomID:
		return "id"
	case AtomAttribute:
		return "attribute"
	case AtomPseudoClass:
		return "pseudo-class"
	default:
		return "unknown"
	}
}

// AttrMode is the comparison an attribute atom performs.
type AttrMode int

const (
	AttrUnknown    AttrMode = iota // malformed, never matches
	AttrExists                     // [name]
	AttrEquals                     // [name=value]
	AttrInList                     // [name~=value]
	AttrStartsWith                 // [name|=value]
)

// String returns the operator used in selector text for the mode.
func (m AttrMode) String() string {
	switch m {
	case AttrExists:
		return ""
	case AttrEquals:
		return "="
	case AttrInList:
		return "~="
	case AttrStartsWith:
		return "|="
	default:
		return "?="
	}
}

// FirstChild is the only pseudo-class with matching semantics.
const FirstChild = ":first-child"

// Atom is a single primitive predicate. It is a closed variant: Kind selects
// which of the other fields are meaningful.
type Atom struct {
	Kind  AtomKind
	Name  string   // tag name, attribute name or pseudo-class (with leading colon)
	Mode  AttrMode // attribute atoms only
	Value string   // id value or attribute comparison value
}

// Universal returns atom matching any element.
func Universal() Atom {
	return Atom{Kind: AtomUniversal}
}

// TypeAtom returns atom matching elements by tag name.
func TypeAtom(name string) Atom {
	return Atom{Kind: AtomType, Name: name}
}

// IDAtom returns atom matching elements by id attribute, one leading '#' is stripped.
func IDAtom(value string) Atom {
	return Atom{Kind: AtomID, Value: strings.TrimPrefix(value, "#")}
}

// AttrAtom returns attribute atom. For AttrStartsWith value is the complete
// prefix the attribute value has to start with.
func AttrAtom(name string, mode AttrMode, value string) Atom {
	return Atom{Kind: AtomAttribute, Name: name, Mode: mode, Value: value}
}

// PseudoAtom returns pseudo-class atom. Name may be given with or without leading colon.
func PseudoAtom(name string) Atom {
	if !strings.HasPrefix(name, ":") {
		name = ":" + name
	}
	return Atom{Kind: AtomPseudoClass, Name: name}
}

// Matches reports whether element satisfies the atom.
func (a Atom) Matches(e Element) bool {
	if e == nil {
		return false
	}
	switch a.Kind {
	case AtomUniversal:
		return true
	case AtomType:
		return e.Tag() == a.Name
	case AtomID:
		return e.Attr("id") == a.Value
	case AtomAttribute:
		return a.matchesAttr(e)
	case AtomPseudoClass:
		if a.Name != FirstChild {
			return false
		}
		parent := e.Parent()
		if parent == nil {
			return false
		}
		return firstElementChild(parent) == e
	default:
		return false
	}
}

func (a Atom) matchesAttr(e Element) bool {
	switch a.Mode {
	case AttrExists:
		return e.HasAttr(a.Name)
	case AttrEquals:
		return e.Attr(a.Name) == a.Value
	case AttrInList:
		for _, word := range strings.Fields(e.Attr(a.Name)) {
			if word == a.Value {
				return true
			}
		}
		return false
	case AttrStartsWith:
		return strings.HasPrefix(e.Attr(a.Name), a.Value)
	default:
		return false
	}
}

// Priority returns specificity weight of the atom.
func (a Atom) Priority() int {
	switch a.Kind {
	case AtomType:
		return TypePriority
	case AtomID:
		return IDPriority
	case AtomAttribute:
		return AttributePriority
	case AtomPseudoClass:
		return PseudoClassPriority
	default:
		return UniversalPriority
	}
}

// String returns selector text for the atom. Word match on "class" attribute
// is rendered in its short form.
func (a Atom) String() string {
	switch a.Kind {
	case AtomUniversal:
		return "*"
	case AtomType:
		return a.Name
	case AtomID:
		return "#" + a.Value
	case AtomAttribute:
		switch a.Mode {
		case AttrInList:
			if a.Name == "class" {
				return "." + a.Value
			}
			return "[" + a.Name + "~=" + a.Value + "]"
		case AttrExists:
			return "[" + a.Name + "]"
		case AttrStartsWith:
			return "[" + a.Name + "|=" + strings.TrimSuffix(a.Value, "-") + "]"
		default:
			return "[" + a.Name + a.Mode.String() + a.Value + "]"
		}
	case AtomPseudoClass:
		return a.Name
	default:
		return ""
	}
}
