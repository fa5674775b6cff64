// Package glxml loads the API registry document into a small element tree.
//
// The tree keeps attributes in document order and exposes the two operations the
// format matcher needs: attribute lookup by local name and a depth-first walk of
// descendant elements by tag, including the starting element itself.
package glxml
