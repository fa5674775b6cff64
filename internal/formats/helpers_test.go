package formats

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/glformats/internal/glxml"
)

// tHelper is satisfied by both *testing.T and *rapid.T.
type tHelper interface {
	require.TestingT
	Helper()
}

func parseDoc(t tHelper, src string) *glxml.Document {
	t.Helper()
	doc, err := glxml.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

func loadFixture(t *testing.T) *glxml.Document {
	t.Helper()
	doc, err := glxml.ParseFile(filepath.Join("testdata", "registry.xml"))
	require.NoError(t, err)
	return doc
}

func readGolden(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "registry.golden"))
	require.NoError(t, err)
	return string(data)
}

func names(enums []Enumerant) []string {
	out := make([]string, len(enums))
	for i, e := range enums {
		out[i] = e.Name
	}
	return out
}
