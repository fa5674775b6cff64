package generate

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ErrDrift is returned by Check when the committed output differs from a fresh render.
var ErrDrift = errors.New("generated output is out of date")

// LineChange is one added or removed line of a drift report.
type LineChange struct {
	Op   diffmatchpatch.Operation
	Text string
}

// String renders the change with a unified-diff style prefix.
func (c LineChange) String() string {
	switch c.Op {
	case diffmatchpatch.DiffInsert:
		return "+" + c.Text
	case diffmatchpatch.DiffDelete:
		return "-" + c.Text
	default:
		return " " + c.Text
	}
}

// Drift compares two renderings line by line and returns the lines that were
// removed from want or added in got. Unchanged lines are omitted.
func Drift(want, got string) []LineChange {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(want, got)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var changes []LineChange
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			changes = append(changes, LineChange{Op: d.Type, Text: strings.TrimSuffix(line, "\n")})
		}
	}
	return changes
}

// Check compares the file at path against output. A missing file counts as
// drift with every line added.
func Check(path, output string) ([]LineChange, error) {
	existing, err := os.ReadFile(path) //nolint:gosec // G304: path comes from configuration
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	changes := Drift(string(existing), output)
	if len(changes) > 0 {
		return changes, fmt.Errorf("%w: %s (%d changed lines)", ErrDrift, path, len(changes))
	}
	return nil, nil
}
