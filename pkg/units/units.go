package units

import (
	"math"
	"regexp"
	"strconv"
)

var unitPattern = regexp.MustCompile(`(?i)^([\d.]+)\s*([pnumkMG]?)[a-zA-Z]*$`)

var multipliers = map[string]float64{
	"p": 1e-12,
	"n": 1e-9,
	"u": 1e-6,
	"m": 1e-3,
	"k": 1e3,
	"M": 1e6,
	"G": 1e9,
}

// Parse reads a numeral followed by an optional SI prefix and optional unit
// letters, returning the scaled value. The boolean is false when the text is
// empty or does not match.
//
// Prefix lookup is case sensitive ("m" is milli, "M" is mega); a letter only
// accepted through case folding, such as "K", leaves the numeral unscaled.
func Parse(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	match := unitPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	num, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	prefix := match[2]
	if prefix == "" {
		return num, true
	}
	multiplier, ok := multipliers[prefix]
	if !ok {
		multiplier = 1
	}
	return num * multiplier, true
}

// Format renders value with the largest prefix whose threshold its magnitude
// clears. Values in [1, 1e3) are rendered bare; all other values carry one
// fractional digit and the prefix letter. Zero falls through to "0.0p".
func Format(value float64) string {
	mag := math.Abs(value)
	switch {
	case mag >= 1e9:
		return scaled(value/1e9, "G")
	case mag >= 1e6:
		return scaled(value/1e6, "M")
	case mag >= 1e3:
		return scaled(value/1e3, "k")
	case mag >= 1:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case mag >= 1e-3:
		return scaled(value*1e3, "m")
	case mag >= 1e-6:
		return scaled(value*1e6, "u")
	case mag >= 1e-9:
		return scaled(value*1e9, "n")
	default:
		return scaled(value*1e12, "p")
	}
}

func scaled(value float64, prefix string) string {
	return strconv.FormatFloat(value, 'f', 1, 64) + prefix
}
