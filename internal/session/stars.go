package session

import (
	"math"
	"strings"
)

const (
	starFull  = "★"
	starHalf  = "½"
	starEmpty = "☆"
)

// StarBar renders a rating as a fixed-width five-symbol bar: floored whole
// stars, a half symbol when the fractional part reaches 0.5, empty stars for
// the rest.
func StarBar(rating float64) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}

	full := int(math.Floor(rating))
	half := 0
	if rating-float64(full) >= 0.5 {
		half = 1
	}
	empty := 5 - full - half

	var sb strings.Builder
	sb.WriteString(strings.Repeat(starFull, full))
	sb.WriteString(strings.Repeat(starHalf, half))
	sb.WriteString(strings.Repeat(starEmpty, empty))
	return sb.String()
}
