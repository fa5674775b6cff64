// Package rules reads and writes classification pass lists as YAML.
//
// A rule file replaces the built-in pass list. Match values of "*" mean the
// attribute only has to be present.
//
//	passes:
//	  - name: prime
//	    kind: register
//	    match: {vendor: ARB}
//	    unless: {group: "*"}
//	  - name: dxt-rgb
//	    kind: heuristic
//	    match: {vendor: INTEL, start: "0x83F0"}
//	    name_pattern: '^GL_COMPRESSED_.*(DXT\d(?!_ANGLE)|BPTC)'
package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/glformats/internal/formats"
)

// Rule file errors
var (
	ErrEmptyRuleSet = errors.New("rule set has no passes")
	ErrUnknownKind  = errors.New("unknown pass kind")
)

// File is the root structure of a rule file.
type File struct {
	Passes []PassDef `yaml:"passes"`
}

// PassDef defines a single pass in YAML.
type PassDef struct {
	Name    string   `yaml:"name"`
	Kind    string   `yaml:"kind"`              // register, group or heuristic
	Match   AttrSet  `yaml:"match,omitempty"`   // group attributes that must match
	Unless  AttrSet  `yaml:"unless,omitempty"`  // group attributes that exclude the group
	Pattern string   `yaml:"name_pattern,omitempty"`
	Group   string   `yaml:"group,omitempty"`   // core group name for group passes
	Exclude []string `yaml:"exclude,omitempty"` // names never listed by group passes
}

// AttrSet is an ordered attribute mapping.
type AttrSet []formats.Condition

// UnmarshalYAML keeps the document order of the mapping keys.
func (a *AttrSet) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null" {
		*a = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: attribute set must be a mapping", node.Line)
	}
	set := make(AttrSet, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: attribute %s must be a scalar", value.Line, key.Value)
		}
		if value.Value == formats.Wildcard {
			set = append(set, formats.Has(key.Value))
		} else {
			set = append(set, formats.Eq(key.Value, value.Value))
		}
	}
	*a = set
	return nil
}

// MarshalYAML writes the set as a flow mapping in order.
func (a AttrSet) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
	for _, c := range a {
		value := c.Value
		if c.Any {
			value = formats.Wildcard
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: c.Attr},
			&yaml.Node{Kind: yaml.ScalarNode, Value: value, Style: yaml.DoubleQuotedStyle},
		)
	}
	return node, nil
}

// Load parses a rule file and builds its passes.
func Load(r io.Reader) ([]formats.Pass, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyRuleSet
		}
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if len(file.Passes) == 0 {
		return nil, ErrEmptyRuleSet
	}

	passes := make([]formats.Pass, 0, len(file.Passes))
	for i, def := range file.Passes {
		p, err := def.Build()
		if err != nil {
			return nil, fmt.Errorf("pass %d: %w", i, err)
		}
		passes = append(passes, p)
	}
	return passes, nil
}

// LoadFile reads the rule file at path.
func LoadFile(path string) ([]formats.Pass, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: rule file path comes from config
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	passes, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return passes, nil
}

// Build converts the definition into a validated pass.
func (d PassDef) Build() (formats.Pass, error) {
	p := formats.Pass{
		Name:    d.Name,
		Kind:    formats.PassKind(d.Kind),
		Group:   d.Group,
		Exclude: d.Exclude,
		Query: formats.Query{
			Match:  formats.Match(d.Match),
			Unless: formats.Match(d.Unless),
		},
	}
	switch p.Kind {
	case formats.KindRegister, formats.KindGroup, formats.KindHeuristic:
	default:
		return formats.Pass{}, fmt.Errorf("%w %q", ErrUnknownKind, d.Kind)
	}
	if d.Pattern != "" {
		pattern, err := formats.NewNamePattern(d.Pattern)
		if err != nil {
			return formats.Pass{}, err
		}
		p.Query.Name = pattern
	}
	if err := p.Validate(); err != nil {
		return formats.Pass{}, err
	}
	return p, nil
}

// FromPass converts a pass back into its YAML definition.
func FromPass(p formats.Pass) PassDef {
	return PassDef{
		Name:    p.Name,
		Kind:    string(p.Kind),
		Match:   AttrSet(p.Query.Match),
		Unless:  AttrSet(p.Query.Unless),
		Pattern: p.Query.Name.String(),
		Group:   p.Group,
		Exclude: p.Exclude,
	}
}

// Marshal renders passes as a rule file.
func Marshal(passes []formats.Pass) ([]byte, error) {
	file := File{Passes: make([]PassDef, 0, len(passes))}
	for _, p := range passes {
		file.Passes = append(file.Passes, FromPass(p))
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&file); err != nil {
		return nil, fmt.Errorf("marshal rules: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal rules: %w", err)
	}
	return buf.Bytes(), nil
}
