// Package quiz builds multiple-choice options around computed answers and
// grades submitted choices.
package quiz

import (
	"math"
	"math/rand/v2"
	"strconv"
)

const (
	// OptionCount is the number of choices per item, the correct one included.
	OptionCount = 4
	// Tolerance is how close a selected value must be to count as correct.
	Tolerance = 1e-6

	maxDistractorAttempts = 64
	distractorDecimals    = 5
)

// Options returns the correct text and OptionCount-1 distractors in random
// order. Distractors are drawn uniformly from raw ± spread, where spread is
// 20% of |raw| (0.1 when raw is zero), and are printed with five decimals.
// No two options are within Tolerance of each other.
func Options(correct string, raw float64, rng *rand.Rand) []string {
	correctValue, err := strconv.ParseFloat(correct, 64)
	if err != nil {
		correctValue = raw
	}
	spread := math.Abs(raw) * 0.2
	if raw == 0 {
		spread = 0.1
	}

	options := []string{correct}
	taken := []float64{correctValue}
	accept := func(candidate float64) {
		text := formatOption(candidate)
		value, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsInf(value, 0) {
			return
		}
		for _, other := range taken {
			if math.Abs(value-other) < Tolerance {
				return
			}
		}
		options = append(options, text)
		taken = append(taken, value)
	}

	for attempt := 0; len(options) < OptionCount && attempt < maxDistractorAttempts; attempt++ {
		accept(raw + (2*rng.Float64()-1)*spread)
	}
	// Tiny spreads cannot produce distinct five-decimal values, so fall
	// back to evenly spaced offsets.
	step := math.Max(spread, 1e-3)
	for k := 1; len(options) < OptionCount; k++ {
		offset := float64((k+1)/2) * step
		if k%2 == 0 {
			offset = -offset
		}
		accept(raw + offset)
	}

	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

func formatOption(value float64) string {
	text := strconv.FormatFloat(value, 'f', distractorDecimals, 64)
	if text == "-0.00000" {
		return "0.00000"
	}
	return text
}
