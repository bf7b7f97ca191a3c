package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseBound parses a numeric flag value. Errors name the flag.
func ParseBound(flag, text string) (float64, error) {
	text = strings.TrimSpace(text)
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || !finite(v) {
		return 0, invalid(fmt.Sprintf("%q is not a number", text), flag)
	}
	return v, nil
}

// ParseRange parses "low,high". Bounds are validated by FilterSpec.Validate,
// which also rejects low > high.
func ParseRange(flag, text string) (Range, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return Range{}, invalid(fmt.Sprintf("expected two comma-separated numbers \"low,high\", got %q", text), flag)
	}

	low, err := ParseBound(flag, parts[0])
	if err != nil {
		return Range{}, err
	}
	high, err := ParseBound(flag, parts[1])
	if err != nil {
		return Range{}, err
	}

	return Range{Low: low, High: high}, nil
}
