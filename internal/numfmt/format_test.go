package numfmt

import (
	"errors"
	"math"
	"testing"
)

// TestFormatRoundingModes verifies decimal rounding rather than binary rounding.
func TestFormatRoundingModes(t *testing.T) {
	cases := []struct {
		raw      float64
		decimals int
		mode     Rounding
		want     string
	}{
		{2.345, 2, HalfUp, "2.35"},
		{2.345, 2, HalfEven, "2.34"},
		{2.675, 2, HalfUp, "2.68"},
		{0.03125, 4, HalfUp, "0.0313"},
		{0.03125, 4, HalfEven, "0.0312"},
		{-2.345, 2, HalfUp, "-2.35"},
		{55, 4, HalfUp, "55.0000"},
		{0.5, 0, HalfUp, "1"},
		{2.5, 0, HalfEven, "2"},
		{-0.00001, 4, HalfUp, "0.0000"},
		{math.Copysign(0, -1), 4, HalfUp, "0.0000"},
		{1e21, 2, HalfUp, "1000000000000000000000.00"},
	}
	for _, tc := range cases {
		got, err := Format(tc.raw, Spec{Decimals: tc.decimals, Rounding: tc.mode})
		if err != nil {
			t.Fatalf("format %v: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("format %v to %d (%s): expected %q, got %q", tc.raw, tc.decimals, tc.mode, tc.want, got)
		}
	}
}

// TestFormatRejectsInvalidInput verifies non-finite values and bad specs fail.
func TestFormatRejectsInvalidInput(t *testing.T) {
	if _, err := Format(math.NaN(), DefaultSpec()); !errors.Is(err, ErrNonFinite) {
		t.Fatalf("expected non-finite error, got %v", err)
	}
	if _, err := Format(math.Inf(1), DefaultSpec()); !errors.Is(err, ErrNonFinite) {
		t.Fatalf("expected non-finite error, got %v", err)
	}
	if _, err := Format(1, Spec{Decimals: 2, Rounding: "ceiling"}); !errors.Is(err, ErrUnknownRounding) {
		t.Fatalf("expected rounding error, got %v", err)
	}
	if _, err := Format(1, Spec{Decimals: -1, Rounding: HalfUp}); !errors.Is(err, ErrDecimals) {
		t.Fatalf("expected decimals error, got %v", err)
	}
}

// TestParseRounding verifies accepted spellings.
func TestParseRounding(t *testing.T) {
	cases := map[string]Rounding{
		"":                HalfUp,
		"half_up":         HalfUp,
		"ROUND_HALF_UP":   HalfUp,
		"half_even":       HalfEven,
		"round_half_even": HalfEven,
	}
	for input, want := range cases {
		got, err := ParseRounding(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s, got %s", input, want, got)
		}
	}
	if _, err := ParseRounding("up"); !errors.Is(err, ErrUnknownRounding) {
		t.Fatalf("expected unknown rounding, got %v", err)
	}
}

// TestCanonical verifies the text substituted into templates.
func TestCanonical(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{5, "5"},
		{-3, "-3"},
		{0.5, "0.5"},
		{math.Copysign(0, -1), "0"},
		{1.0 / 3.0, "0.3333333333"},
		{0.00001, "0.00001"},
		{1.5e-7, "0.00000015"},
		{2.5e20, "250000000000000000000"},
		{123456.789012345, "123456.789"},
	}
	for _, tc := range cases {
		if got := Canonical(tc.in); got != tc.want {
			t.Fatalf("canonical %v: expected %q, got %q", tc.in, tc.want, got)
		}
	}
}
