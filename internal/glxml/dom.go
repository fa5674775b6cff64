package glxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrMalformed is returned when the registry document cannot be parsed.
var ErrMalformed = errors.New("malformed registry document")

// Attr is a single element attribute keyed by its local name.
type Attr struct {
	Name  string
	Value string
}

// Node is an element in the registry tree.
type Node struct {
	Tag      string
	Attrs    []Attr
	Children []*Node
	Parent   *Node
}

// Document holds the parsed registry.
type Document struct {
	Root *Node
}

// Attr returns the value of the named attribute and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns the named attribute or def when absent.
func (n *Node) AttrOr(name, def string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return def
}

// Iter returns n and all of its descendants with the given tag in document order.
// An empty tag matches every element.
func (n *Node) Iter(tag string) []*Node {
	var out []*Node
	n.walk(func(e *Node) {
		if tag == "" || e.Tag == tag {
			out = append(out, e)
		}
	})
	return out
}

func (n *Node) walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.walk(fn)
	}
}

// Iter walks the whole document; see Node.Iter.
func (d *Document) Iter(tag string) []*Node {
	if d == nil {
		return nil
	}
	return d.Root.Iter(tag)
}

// Parse reads a registry document from r.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)

	var (
		root  *Node
		stack []*Node
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{Tag: t.Name.Local}
			if len(t.Attr) > 0 {
				node.Attrs = make([]Attr, 0, len(t.Attr))
				for _, a := range t.Attr {
					node.Attrs = append(node.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%w: multiple root elements", ErrMalformed)
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				node.Parent = parent
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformed)
	}
	return &Document{Root: root}, nil
}

// ParseFile opens and parses the registry at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path) //nolint:gosec // G304: registry path comes from config
	if err != nil {
		return nil, fmt.Errorf("opening registry: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}
