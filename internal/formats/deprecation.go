package formats

import "github.com/zjrosen/glformats/internal/glxml"

// DeprecationIndex is the set of enumerant names listed in any <remove> block.
type DeprecationIndex map[string]struct{}

// NewDeprecationIndex scans every <remove> block of doc.
func NewDeprecationIndex(doc *glxml.Document) DeprecationIndex {
	idx := make(DeprecationIndex)
	for _, remove := range doc.Iter("remove") {
		for _, enum := range remove.Iter("enum") {
			if name, ok := enum.Attr("name"); ok {
				idx[name] = struct{}{}
			}
		}
	}
	return idx
}

// Contains reports whether name was removed.
func (d DeprecationIndex) Contains(name string) bool {
	_, ok := d[name]
	return ok
}

// Len returns the number of removed names.
func (d DeprecationIndex) Len() int {
	return len(d)
}
