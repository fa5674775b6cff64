package formats

// Collision records an enumerant dropped because its name or value was already
// committed.
type Collision struct {
	Pass  string
	Name  string
	Value uint64
	// Kept is the committed name that owns the value (or Name itself when the
	// name was already committed).
	Kept string
}

// ValueRegistry is the name<->value mapping of accepted enumerants.
// Each name and each value is accepted at most once.
type ValueRegistry struct {
	byName  map[string]uint64
	byValue map[uint64]string
	order   []string
}

// NewValueRegistry returns an empty registry.
func NewValueRegistry() *ValueRegistry {
	return &ValueRegistry{
		byName:  make(map[string]uint64),
		byValue: make(map[uint64]string),
	}
}

// Register commits e unless its name or value is already present. On refusal it
// returns the name that already holds the slot.
func (r *ValueRegistry) Register(e Enumerant) (string, bool) {
	if owner, ok := r.byValue[e.Value]; ok {
		return owner, false
	}
	if _, ok := r.byName[e.Name]; ok {
		return e.Name, false
	}
	r.byName[e.Name] = e.Value
	r.byValue[e.Value] = e.Name
	r.order = append(r.order, e.Name)
	return e.Name, true
}

// Lookup returns the value committed for name.
func (r *ValueRegistry) Lookup(name string) (uint64, bool) {
	v, ok := r.byName[name]
	return v, ok
}

// NameOf returns the name committed for value.
func (r *ValueRegistry) NameOf(value uint64) (string, bool) {
	n, ok := r.byValue[value]
	return n, ok
}

// Contains reports whether name is committed.
func (r *ValueRegistry) Contains(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Names returns committed names in commit order.
func (r *ValueRegistry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of committed enumerants.
func (r *ValueRegistry) Len() int {
	return len(r.order)
}
