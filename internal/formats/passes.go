package formats

import "fmt"

// PassKind selects how a pass uses its matches.
type PassKind string

const (
	// KindRegister commits matches without adding them to the format list.
	KindRegister PassKind = "register"
	// KindGroup appends members of a named core group that are already committed.
	KindGroup PassKind = "group"
	// KindHeuristic commits matches and appends the committed names.
	KindHeuristic PassKind = "heuristic"
)

// Pass is one step of the classification.
type Pass struct {
	Name string
	Kind PassKind

	// Query is used by register and heuristic passes.
	Query Query

	// Group and Exclude are used by group passes.
	Group   string
	Exclude []string
}

// Validate checks that the fields required by the kind are set.
func (p Pass) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("pass name is required")
	}
	switch p.Kind {
	case KindRegister, KindHeuristic:
		if len(p.Query.Match) == 0 {
			return fmt.Errorf("pass %s: match is required for %s passes", p.Name, p.Kind)
		}
	case KindGroup:
		if p.Group == "" {
			return fmt.Errorf("pass %s: group is required for group passes", p.Name)
		}
	default:
		return fmt.Errorf("pass %s: unknown kind %q", p.Name, p.Kind)
	}
	return nil
}

// InternalFormatGroup is the core group listing texture internal formats.
const InternalFormatGroup = "InternalFormat"

// DXTPattern accepts compressed DXT and BPTC names, except the ANGLE variants.
const DXTPattern = `^GL_COMPRESSED_.*(DXT\d(?!_ANGLE)|BPTC)`

// UntypedFormats are base format classes listed in the InternalFormat group that
// are not concrete storage formats.
func UntypedFormats() []string {
	return []string{
		"GL_RED",
		"GL_RG",
		"GL_RGB",
		"GL_RGBA",
		"GL_DEPTH_COMPONENT",
		"GL_COMPRESSED_RED",
		"GL_COMPRESSED_RG",
		"GL_COMPRESSED_RGB",
		"GL_COMPRESSED_RGBA",
	}
}

// DefaultPasses returns the built-in pass list in its required order.
func DefaultPasses() []Pass {
	dxt := MustNamePattern(DXTPattern)

	return []Pass{
		{
			Name:  "prime",
			Kind:  KindRegister,
			Query: Query{Match: Match{Eq("vendor", "ARB")}, Unless: Match{Has("group")}},
		},
		{
			Name:    "core",
			Kind:    KindGroup,
			Group:   InternalFormatGroup,
			Exclude: UntypedFormats(),
		},
		{
			Name:  "astc",
			Kind:  KindHeuristic,
			Query: Query{Match: Match{Eq("vendor", "OES"), Eq("start", "0x93B0")}},
		},
		{
			Name:  "etc",
			Kind:  KindHeuristic,
			Query: Query{Match: Match{Eq("vendor", "OES"), Eq("start", "0x9270")}},
		},
		{
			Name:  "dxt-rgb",
			Kind:  KindHeuristic,
			Query: Query{Match: Match{Eq("vendor", "INTEL"), Eq("start", "0x83F0")}, Name: dxt},
		},
		{
			Name:  "dxt-srgb",
			Kind:  KindHeuristic,
			Query: Query{Match: Match{Eq("vendor", "NV"), Eq("start", "0x8C10")}, Name: dxt},
		},
		{
			Name:  "bptc",
			Kind:  KindHeuristic,
			Query: Query{Match: Match{Eq("vendor", "NV"), Eq("start", "0x8E10")}, Name: dxt},
		},
	}
}
