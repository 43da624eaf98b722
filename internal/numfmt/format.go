// Package numfmt turns raw float results into decimal display strings.
package numfmt

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Rounding selects how ties are broken when quantizing.
type Rounding string

const (
	// HalfUp rounds ties away from zero.
	HalfUp Rounding = "half_up"
	// HalfEven rounds ties to the even neighbour.
	HalfEven Rounding = "half_even"
)

const (
	DefaultDecimals = 4
	MaxDecimals     = 15
)

var (
	ErrNonFinite       = errors.New("value is not finite")
	ErrUnknownRounding = errors.New("unknown rounding mode")
	ErrDecimals        = errors.New("decimals out of range")
)

// Spec is the display format of one numeric result.
type Spec struct {
	Decimals int
	Rounding Rounding
}

// DefaultSpec is 4 fractional digits, ties away from zero.
func DefaultSpec() Spec {
	return Spec{Decimals: DefaultDecimals, Rounding: HalfUp}
}

// ParseRounding accepts the catalog spelling of a rounding mode. The empty
// string selects HalfUp.
func ParseRounding(value string) (Rounding, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(HalfUp), "round_half_up":
		return HalfUp, nil
	case string(HalfEven), "round_half_even", "bankers":
		return HalfEven, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownRounding, value)
}

// Validate reports whether the spec can be used by Format.
func (s Spec) Validate() error {
	if s.Decimals < 0 || s.Decimals > MaxDecimals {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrDecimals, s.Decimals, MaxDecimals)
	}
	switch s.Rounding {
	case HalfUp, HalfEven:
		return nil
	}
	return fmt.Errorf("%w %q", ErrUnknownRounding, s.Rounding)
}

// Format quantizes raw to s.Decimals fractional digits. The float is first
// converted to its shortest round-trip decimal, so 2.675 rounds as the
// decimal 2.675 rather than its binary neighbour.
func Format(raw float64, s Spec) (string, error) {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return "", fmt.Errorf("%w: %v", ErrNonFinite, raw)
	}
	if err := s.Validate(); err != nil {
		return "", err
	}
	d := decimal.NewFromFloat(raw)
	places := int32(s.Decimals)
	if s.Rounding == HalfEven {
		return d.StringFixedBank(places), nil
	}
	return d.StringFixed(places), nil
}
