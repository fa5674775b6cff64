package formats

import (
	"fmt"

	"github.com/zjrosen/glformats/internal/glxml"
)

// FindMatchingEnums returns the enumerants selected by q in document order.
// Names in deprecated are skipped. A name seen twice keeps its first position and
// takes the later value. Nothing is committed anywhere.
func FindMatchingEnums(doc *glxml.Document, deprecated DeprecationIndex, q Query) ([]Enumerant, error) {
	var (
		result []Enumerant
		index  = make(map[string]int)
	)

	for _, group := range doc.Iter("enums") {
		if !q.SelectsGroup(group) {
			continue
		}
		vendor := group.AttrOr("vendor", "")

		for _, enum := range group.Iter("enum") {
			name, ok := enum.Attr("name")
			if !ok {
				continue
			}
			if deprecated.Contains(name) {
				continue
			}
			matched, err := q.Name.MatchName(name)
			if err != nil {
				return nil, err
			}
			if !matched {
				continue
			}

			raw, _ := enum.Attr("value")
			value, err := ParseValue(raw)
			if err != nil {
				return nil, fmt.Errorf("enumerant %s: %w", name, err)
			}

			e := Enumerant{Name: name, Value: value, Vendor: vendor}
			if i, seen := index[name]; seen {
				result[i] = e
				continue
			}
			index[name] = len(result)
			result = append(result, e)
		}
	}

	return result, nil
}
