package formats

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// RenderOptions controls how format lines are written.
type RenderOptions struct {
	// Prefix is stripped from each name when present.
	Prefix    string
	Indent    string
	Separator string
}

// DefaultRenderOptions strips GL_ and ends each line with a comma.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{Prefix: "GL_", Separator: ","}
}

// Line renders a single enumeration entry.
func (o RenderOptions) Line(name string, value uint64) string {
	return o.Indent + strings.TrimPrefix(name, o.Prefix) + " = " + FormatValue(value) + o.Separator
}

// RenderLines writes one line per format in r.Formats.
func RenderLines(w io.Writer, r *Result, opts RenderOptions) error {
	bw := bufio.NewWriter(w)
	for _, name := range r.Formats {
		value, ok := r.Value(name)
		if !ok {
			return fmt.Errorf("format %s has no committed value", name)
		}
		if _, err := fmt.Fprintln(bw, opts.Line(name, value)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Render returns RenderLines output as a string.
func Render(r *Result, opts RenderOptions) (string, error) {
	var sb strings.Builder
	if err := RenderLines(&sb, r, opts); err != nil {
		return "", err
	}
	return sb.String(), nil
}
