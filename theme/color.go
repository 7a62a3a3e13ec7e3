package theme

import (
	"fmt"
	"strconv"
	"strings"
)

// LooksLikeColor is the only check colors get. Failing it is not an error.
func LooksLikeColor(v string) bool {
	return strings.HasPrefix(v, "#")
}

// WithOpacity turns #RRGGBB into an rgba() string. Anything that is not a
// well-formed six digit hex color is returned unchanged.
func WithOpacity(hex string, alpha float64) string {
	if len(hex) != 7 || hex[0] != '#' {
		return hex
	}
	rgb, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return hex
	}
	r := (rgb >> 16) & 0xFF
	g := (rgb >> 8) & 0xFF
	b := rgb & 0xFF
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(alpha, 'f', -1, 64))
}
