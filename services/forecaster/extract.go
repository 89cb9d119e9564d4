package forecaster

import (
	"regexp"
	"strconv"
)

// Probability tokens: decimals like 0.42 / 1.0, and percentages like 85%.
var (
	decimalPattern = regexp.MustCompile(`\b(0\.\d+|1\.00?)\b`)
	percentPattern = regexp.MustCompile(`(\d{1,3})%`)
)

// ExtractProbability pulls a single probability out of free-text model
// output. Forecasting models talk through their reasoning before stating a
// final answer, so the LAST matching token wins.
//
// Decimal tokens are preferred; percentage tokens are the fallback. The
// result is unconditionally clamped to [0, 1]. When neither pattern
// matches, ok is false: unavailability, not an error.
func ExtractProbability(text string) (prob float64, ok bool) {
	if matches := decimalPattern.FindAllString(text, -1); len(matches) > 0 {
		v, err := strconv.ParseFloat(matches[len(matches)-1], 64)
		if err == nil {
			return clamp(v), true
		}
	}
	if matches := percentPattern.FindAllStringSubmatch(text, -1); len(matches) > 0 {
		v, err := strconv.ParseFloat(matches[len(matches)-1][1], 64)
		if err == nil {
			return clamp(v / 100), true
		}
	}
	return 0, false
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
