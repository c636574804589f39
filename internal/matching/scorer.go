package matching

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// StringSimilarity scores how close two identifier strings are, in [0,1].
type StringSimilarity interface {
	Score(a, b string) float64
}

// DateProximity scores how close two dates are, in [0,1].
type DateProximity interface {
	Score(a, b time.Time) float64
}

// AmountProximity scores how close two monetary amounts are, in [0,1].
type AmountProximity interface {
	Score(a, b decimal.Decimal) float64
}

// LevenshteinSimilarity scores strings by normalized edit distance. Exact
// equality after trimming scores 1.0; comparison is case-insensitive beyond
// that.
type LevenshteinSimilarity struct{}

func (LevenshteinSimilarity) Score(a, b string) float64 {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == b {
		return 1.0
	}
	ra := []rune(strings.ToUpper(a))
	rb := []rune(strings.ToUpper(b))
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein.DistanceForStrings(ra, rb, levenshtein.DefaultOptions)
	score := 1.0 - float64(dist)/float64(maxLen)
	if score < 0 {
		return 0
	}
	return score
}

// LinearDateDecay scores 1.0 for identical dates, decaying linearly so the
// score reaches 0 just beyond the tolerance window.
type LinearDateDecay struct {
	ToleranceDays int
}

func (d LinearDateDecay) Score(a, b time.Time) float64 {
	gap := daysBetween(a, b)
	if gap == 0 {
		return 1.0
	}
	score := 1.0 - float64(gap)/float64(d.ToleranceDays+1)
	if score < 0 {
		return 0
	}
	return score
}

// PercentageAmountDecay scores 1.0 for equal amounts, decaying with the
// percentage difference relative to the tolerance and reaching 0 at twice the
// tolerance.
type PercentageAmountDecay struct {
	TolerancePct float64
}

func (p PercentageAmountDecay) Score(a, b decimal.Decimal) float64 {
	if a.Equal(b) {
		return 1.0
	}
	if p.TolerancePct <= 0 || a.IsZero() {
		return 0
	}
	pct, _ := a.Sub(b).Abs().Div(a.Abs()).Mul(decimal.NewFromInt(100)).Float64()
	score := 1.0 - pct/(2*p.TolerancePct)
	if score < 0 {
		return 0
	}
	return score
}

func daysBetween(a, b time.Time) int {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}
