package formats

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// ============================================================================
// Property-Based Tests for Classification Invariants
// ============================================================================

var (
	genVendors = []string{"ARB", "OES", "INTEL", "NV", "AMD"}
	genStarts  = []string{"0x93B0", "0x9270", "0x83F0", "0x8C10", "0x8E10", "0x1900"}
	genNames   = []string{
		"GL_R8",
		"GL_RED",
		"GL_RGBA8",
		"GL_COMPRESSED_RGB_S3TC_DXT1_EXT",
		"GL_COMPRESSED_RGB_S3TC_DXT1_ANGLE",
		"GL_COMPRESSED_RGBA_BPTC_UNORM",
		"GL_COMPRESSED_RGBA_ASTC_4x4_KHR",
		"GL_COMPRESSED_RGB8_ETC2",
		"GL_TEXTURE_RED_TYPE",
	}
)

// genRegistry draws a small registry document with overlapping names and values.
func genRegistry(t *rapid.T) string {
	var sb strings.Builder
	sb.WriteString("<registry>\n<groups><group name=\"InternalFormat\">")
	for _, n := range rapid.SliceOfN(rapid.SampledFrom(genNames), 0, 5).Draw(t, "core") {
		fmt.Fprintf(&sb, "<enum name=%q/>", n)
	}
	sb.WriteString("</group></groups>\n")

	groups := rapid.IntRange(0, 6).Draw(t, "groups")
	for g := 0; g < groups; g++ {
		vendor := rapid.SampledFrom(genVendors).Draw(t, fmt.Sprintf("vendor-%d", g))
		start := rapid.SampledFrom(genStarts).Draw(t, fmt.Sprintf("start-%d", g))
		fmt.Fprintf(&sb, "<enums vendor=%q start=%q", vendor, start)
		if rapid.Bool().Draw(t, fmt.Sprintf("grouped-%d", g)) {
			sb.WriteString(` group="SizedInternalFormat"`)
		}
		sb.WriteString(">")
		enums := rapid.IntRange(0, 5).Draw(t, fmt.Sprintf("enums-%d", g))
		for e := 0; e < enums; e++ {
			name := rapid.OneOf(
				rapid.SampledFrom(genNames),
				rapid.Custom(func(t *rapid.T) string {
					return fmt.Sprintf("GL_COMPRESSED_X%d_DXT%d_EXT", rapid.IntRange(0, 9).Draw(t, "n"), rapid.IntRange(1, 5).Draw(t, "d"))
				}),
			).Draw(t, fmt.Sprintf("name-%d-%d", g, e))
			value := rapid.IntRange(1, 12).Draw(t, fmt.Sprintf("value-%d-%d", g, e))
			fmt.Fprintf(&sb, "<enum name=%q value=\"0x%X\"/>", name, value)
		}
		sb.WriteString("</enums>\n")
	}

	removed := rapid.SliceOfN(rapid.SampledFrom(genNames), 0, 3).Draw(t, "removed")
	if len(removed) > 0 {
		sb.WriteString("<feature><remove>")
		for _, n := range removed {
			fmt.Fprintf(&sb, "<enum name=%q/>", n)
		}
		sb.WriteString("</remove></feature>\n")
	}
	sb.WriteString("</registry>")
	return sb.String()
}

// TestProperty_Deterministic verifies identical input yields identical output.
func TestProperty_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		src := genRegistry(t)

		first, err := Classify(parseDoc(t, src))
		require.NoError(t, err)
		second, err := Classify(parseDoc(t, src))
		require.NoError(t, err)

		a, err := Render(first, DefaultRenderOptions())
		require.NoError(t, err)
		b, err := Render(second, DefaultRenderOptions())
		require.NoError(t, err)
		require.Equal(t, a, b)
		require.Equal(t, first.Collisions, second.Collisions)
	})
}

// TestProperty_RemovedNamesNeverAccepted verifies removed names reach neither output nor registry.
func TestProperty_RemovedNamesNeverAccepted(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		res, err := Classify(parseDoc(t, genRegistry(t)))
		require.NoError(t, err)

		for name := range res.Deprecated {
			require.False(t, res.Values.Contains(name), "removed %s was committed", name)
			require.NotContains(t, res.Formats, name)
		}
	})
}

// TestProperty_FormatsHaveDistinctValues verifies no two accepted formats share a value.
func TestProperty_FormatsHaveDistinctValues(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		res, err := Classify(parseDoc(t, genRegistry(t)))
		require.NoError(t, err)

		seenValue := make(map[uint64]string)
		seenName := make(map[string]bool)
		for _, name := range res.Formats {
			require.False(t, seenName[name], "duplicate format %s", name)
			seenName[name] = true

			v, ok := res.Value(name)
			require.True(t, ok, "format %s has no value", name)
			if prev, dup := seenValue[v]; dup {
				t.Fatalf("formats %s and %s share value 0x%x", prev, name, v)
			}
			seenValue[v] = name

			for _, untyped := range UntypedFormats() {
				require.NotEqual(t, untyped, name)
			}
		}
	})
}

// TestProperty_EarlierPassWins verifies the earlier pass keeps a shared value.
func TestProperty_EarlierPassWins(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		value := rapid.Uint32Range(1, 0xFFFF).Draw(t, "value")
		early := rapid.StringMatching(`GL_E[A-Z0-9_]{1,8}`).Draw(t, "early")
		late := rapid.StringMatching(`GL_L[A-Z0-9_]{1,8}`).Draw(t, "late")

		src := fmt.Sprintf(`<registry>
			<enums vendor="OES" start="0x9270"><enum name=%q value="0x%X"/></enums>
			<enums vendor="OES" start="0x93B0"><enum name=%q value="0x%X"/></enums>
		</registry>`, late, value, early, value)

		res, err := Classify(parseDoc(t, src))
		require.NoError(t, err)
		require.Equal(t, []string{early}, res.Formats, "astc runs before etc")
		require.Equal(t, []Collision{{Pass: "etc", Name: late, Value: uint64(value), Kept: early}}, res.Collisions)
	})
}
