package numfmt

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// canonicalDigits is the number of significant digits kept for non-integral
// values.
const canonicalDigits = 10

// Canonical renders v for substitution into display text: integral values
// print without a fractional part, other values keep 10 significant digits,
// and the output never uses scientific notation or a negative zero.
func Canonical(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	d, err := decimal.NewFromString(strconv.FormatFloat(v, 'g', canonicalDigits, 64))
	if err != nil {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return d.String()
}
