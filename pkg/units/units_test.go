package units

import (
	"math"
	"testing"
)

func approxEqual(a, b float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	scale := math.Max(math.Abs(a), math.Abs(b))
	return diff <= scale*1e-9
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1.5k", 1500},
		{"2.2u", 0.0000022},
		{"100n", 100e-9},
		{"47p", 47e-12},
		{"3.3M", 3.3e6},
		{"1G", 1e9},
		{"10m", 0.01},
		{"42", 42},
		{"4.7kohm", 4700},
		{"10 uF", 10e-6},
		{"5ohm", 5},
		{"2K", 2},
	}
	for _, tc := range cases {
		got, ok := Parse(tc.in)
		if !ok {
			t.Fatalf("Parse(%q): expected match", tc.in)
		}
		if !approxEqual(got, tc.want) {
			t.Fatalf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParse_Failures(t *testing.T) {
	for _, in := range []string{"", "abc", "k10", "1.5kΩ", "-", "."} {
		if got, ok := Parse(in); ok {
			t.Fatalf("Parse(%q) = %v, expected no match", in, got)
		}
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1500000000, "1.5G"},
		{2200000, "2.2M"},
		{4700, "4.7k"},
		{5, "5"},
		{12.5, "12.5"},
		{0.5, "500.0m"},
		{0.0000022, "2.2u"},
		{0.0000001, "100.0n"},
		{47e-12, "47.0p"},
		{0, "0.0p"},
		{-4700, "-4.7k"},
	}
	for _, tc := range cases {
		if got := Format(tc.in); got != tc.want {
			t.Fatalf("Format(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	values := []float64{1.5e9, 2.2e6, 4700, 330, 1, 0.47, 0.0033, 2.2e-6, 100e-9, 15e-12}
	for _, v := range values {
		text := Format(v)
		got, ok := Parse(text)
		if !ok {
			t.Fatalf("Parse(Format(%v)) = %q did not match", v, text)
		}
		// one fractional digit keeps the error under 5% of the leading unit
		if math.Abs(got-v) > math.Abs(v)*0.05 {
			t.Fatalf("round trip of %v via %q gave %v", v, text, got)
		}
	}
}
