package formats

import (
	"slices"

	"github.com/zjrosen/glformats/internal/glxml"
)

// PassResult summarizes one applied pass.
type PassResult struct {
	Pass       string
	Kind       PassKind
	Matched    int
	Committed  []string
	Appended   []string
	Collisions []Collision
}

// Result is the outcome of a full classification.
type Result struct {
	// Formats is the internal-format list in emission order.
	Formats    []string
	Values     *ValueRegistry
	Deprecated DeprecationIndex
	Collisions []Collision
	Passes     []PassResult
}

// Value returns the committed value of a format name.
func (r *Result) Value(name string) (uint64, bool) {
	return r.Values.Lookup(name)
}

// Missing returns the checklist names absent from Formats, in checklist order.
// Removed names are intentionally absent and are not reported.
func (r *Result) Missing(checklist []string) []string {
	present := make(map[string]bool, len(r.Formats))
	for _, f := range r.Formats {
		present[f] = true
	}
	var missing []string
	for _, name := range checklist {
		if present[name] || r.Deprecated.Contains(name) {
			continue
		}
		missing = append(missing, name)
	}
	return missing
}

// Classifier owns the state shared across passes. It is not safe for concurrent use.
type Classifier struct {
	doc        *glxml.Document
	deprecated DeprecationIndex
	values     *ValueRegistry

	formats    []string
	listed     map[string]bool
	untyped    map[string]bool
	collisions []Collision
	passes     []PassResult

	current string
}

// NewClassifier indexes removed names in doc and starts with an empty registry.
func NewClassifier(doc *glxml.Document) *Classifier {
	c := &Classifier{
		doc:        doc,
		deprecated: NewDeprecationIndex(doc),
		values:     NewValueRegistry(),
		listed:     make(map[string]bool),
		untyped:    make(map[string]bool),
	}
	for _, name := range UntypedFormats() {
		c.untyped[name] = true
	}
	return c
}

// Deprecated returns the index built from the document's remove blocks.
func (c *Classifier) Deprecated() DeprecationIndex {
	return c.deprecated
}

// Values returns the shared value registry.
func (c *Classifier) Values() *ValueRegistry {
	return c.values
}

// FindMatchingEnums resolves q against the document without committing.
func (c *Classifier) FindMatchingEnums(q Query) ([]Enumerant, error) {
	return FindMatchingEnums(c.doc, c.deprecated, q)
}

// RegisterMatchingEnums commits the matches of q and returns the names that were
// actually committed. Matches whose value or name is already present are dropped
// and recorded as collisions.
func (c *Classifier) RegisterMatchingEnums(q Query) ([]string, error) {
	names, _, err := c.register(q)
	return names, err
}

func (c *Classifier) register(q Query) ([]string, []Collision, error) {
	matches, err := c.FindMatchingEnums(q)
	if err != nil {
		return nil, nil, err
	}

	var (
		committed  []string
		collisions []Collision
	)
	for _, e := range matches {
		kept, ok := c.values.Register(e)
		if !ok {
			collisions = append(collisions, Collision{Pass: c.current, Name: e.Name, Value: e.Value, Kept: kept})
			continue
		}
		committed = append(committed, e.Name)
	}
	c.collisions = append(c.collisions, collisions...)
	return committed, collisions, nil
}

// Apply runs a single pass against the shared state.
func (c *Classifier) Apply(p Pass) (PassResult, error) {
	if err := p.Validate(); err != nil {
		return PassResult{}, err
	}

	c.current = p.Name
	defer func() { c.current = "" }()

	res := PassResult{Pass: p.Name, Kind: p.Kind}
	switch p.Kind {
	case KindRegister, KindHeuristic:
		committed, collisions, err := c.register(p.Query)
		if err != nil {
			return PassResult{}, err
		}
		res.Committed = committed
		res.Collisions = collisions
		res.Matched = len(committed) + len(collisions)
		if p.Kind == KindHeuristic {
			res.Appended = c.appendFormats(committed)
		}
	case KindGroup:
		members := c.groupMembers(p.Group)
		res.Matched = len(members)
		var accepted []string
		for _, name := range members {
			if !c.values.Contains(name) || slices.Contains(p.Exclude, name) {
				continue
			}
			accepted = append(accepted, name)
		}
		res.Appended = c.appendFormats(accepted)
	}

	c.passes = append(c.passes, res)
	return res, nil
}

// Run applies passes in order and returns the result.
func (c *Classifier) Run(passes []Pass) (*Result, error) {
	for _, p := range passes {
		if _, err := c.Apply(p); err != nil {
			return nil, err
		}
	}
	return c.Result(), nil
}

// Result snapshots the current state.
func (c *Classifier) Result() *Result {
	return &Result{
		Formats:    slices.Clone(c.formats),
		Values:     c.values,
		Deprecated: c.deprecated,
		Collisions: slices.Clone(c.collisions),
		Passes:     slices.Clone(c.passes),
	}
}

// groupMembers lists enum names of every <group name=...> under <groups>.
func (c *Classifier) groupMembers(name string) []string {
	var members []string
	for _, groups := range c.doc.Iter("groups") {
		for _, group := range groups.Iter("group") {
			if !Eq("name", name).Holds(group) {
				continue
			}
			for _, enum := range group.Iter("enum") {
				if n, ok := enum.Attr("name"); ok {
					members = append(members, n)
				}
			}
		}
	}
	return members
}

// appendFormats adds names to the format list. Names already listed and the
// untyped base formats are skipped whichever pass produced them.
func (c *Classifier) appendFormats(names []string) []string {
	var appended []string
	for _, n := range names {
		if c.listed[n] || c.untyped[n] {
			continue
		}
		c.listed[n] = true
		c.formats = append(c.formats, n)
		appended = append(appended, n)
	}
	return appended
}

// Classify runs the default passes over doc.
func Classify(doc *glxml.Document) (*Result, error) {
	return NewClassifier(doc).Run(DefaultPasses())
}
