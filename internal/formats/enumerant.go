package formats

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadValue is returned when a matched enumerant's value is not a hex integer.
var ErrBadValue = errors.New("invalid enumerant value")

// Enumerant is one named constant read from an enumerant group.
type Enumerant struct {
	Name  string
	Value uint64
	// Vendor of the defining group; empty when the group has none.
	Vendor string
}

// ParseValue parses a registry hex value with an optional 0x prefix.
func ParseValue(s string) (uint64, error) {
	digits := strings.TrimSpace(s)
	if len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		digits = digits[2:]
	}
	v, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrBadValue, s)
	}
	return v, nil
}

// FormatValue renders v as a lowercase 0x-prefixed hex literal.
func FormatValue(v uint64) string {
	return "0x" + strconv.FormatUint(v, 16)
}
