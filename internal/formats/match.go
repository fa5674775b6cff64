package formats

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/zjrosen/glformats/internal/glxml"
)

// ErrBadPattern is returned for a name pattern that cannot be compiled or evaluated.
var ErrBadPattern = errors.New("invalid name pattern")

// Wildcard is the textual form of a presence-only condition in rule files.
const Wildcard = "*"

// Condition is a single attribute requirement on an enumerant group.
type Condition struct {
	Attr  string
	Value string
	// Any requires only that Attr is present.
	Any bool
}

// Eq requires attr to be present and equal to value.
func Eq(attr, value string) Condition {
	return Condition{Attr: attr, Value: value}
}

// Has requires attr to be present with any value.
func Has(attr string) Condition {
	return Condition{Attr: attr, Any: true}
}

// Holds reports whether n satisfies the condition. Missing attributes never match.
func (c Condition) Holds(n *glxml.Node) bool {
	v, ok := n.Attr(c.Attr)
	if !ok {
		return false
	}
	return c.Any || v == c.Value
}

func (c Condition) String() string {
	if c.Any {
		return c.Attr + "=" + Wildcard
	}
	return c.Attr + "=" + c.Value
}

// Match is a conjunction of conditions. An empty Match holds for every node.
type Match []Condition

// Matches reports whether every condition holds on n.
func (m Match) Matches(n *glxml.Node) bool {
	for _, c := range m {
		if !c.Holds(n) {
			return false
		}
	}
	return true
}

func (m Match) String() string {
	parts := make([]string, len(m))
	for i, c := range m {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// NamePattern filters enumerant names. The expression is anchored at the start
// of the name and may use lookaround.
type NamePattern struct {
	expr string
	re   *regexp2.Regexp
}

// NewNamePattern compiles expr.
func NewNamePattern(expr string) (*NamePattern, error) {
	re, err := regexp2.Compile(`\A(?:`+expr+`)`, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrBadPattern, expr, err)
	}
	return &NamePattern{expr: expr, re: re}, nil
}

// MustNamePattern is NewNamePattern for expressions known to compile.
func MustNamePattern(expr string) *NamePattern {
	p, err := NewNamePattern(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// MatchName reports whether name matches. A nil pattern matches everything.
func (p *NamePattern) MatchName(name string) (bool, error) {
	if p == nil {
		return true, nil
	}
	ok, err := p.re.MatchString(name)
	if err != nil {
		return false, fmt.Errorf("%w %q: %w", ErrBadPattern, p.expr, err)
	}
	return ok, nil
}

// String returns the expression as written.
func (p *NamePattern) String() string {
	if p == nil {
		return ""
	}
	return p.expr
}

// Query selects enumerants: groups satisfying Match and not Unless, then names
// accepted by Name.
type Query struct {
	Match  Match
	Unless Match // empty means no exclusion
	Name   *NamePattern
}

// SelectsGroup reports whether the enumerant group node is in scope.
func (q Query) SelectsGroup(n *glxml.Node) bool {
	if len(q.Unless) > 0 && q.Unless.Matches(n) {
		return false
	}
	return q.Match.Matches(n)
}
