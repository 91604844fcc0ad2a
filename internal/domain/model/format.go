package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// displayPlaces is the precision survey percentages are published with.
const displayPlaces = 1

// Tone classifies a delta for display.
type Tone string

// Tones.
const (
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
	ToneNeutral  Tone = "neutral"
)

// ToneOf returns positive above zero, negative below, neutral at zero.
// The delta is rounded to display precision first so "+0.0%" never shows
// as positive.
func ToneOf(delta float64) Tone {
	d := decimal.NewFromFloat(delta).Round(displayPlaces)
	switch d.Sign() {
	case 1:
		return TonePositive
	case -1:
		return ToneNegative
	default:
		return ToneNeutral
	}
}

// FormatPercent renders a value as "84.4%".
func FormatPercent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(displayPlaces) + "%"
}

// FormatDelta renders a delta with an explicit sign, e.g. "+0.5%" or "-0.4%".
func FormatDelta(v float64) string {
	d := decimal.NewFromFloat(v).Round(displayPlaces)
	s := d.StringFixed(displayPlaces) + "%"
	if d.Sign() >= 0 {
		return "+" + s
	}
	return s
}

// Quarter is a parsed "Qn YYYY" label.
type Quarter struct {
	N    int
	Year int
}

// ParseQuarter parses labels such as "Q1 2025".
func ParseQuarter(label string) (Quarter, bool) {
	fields := strings.Fields(label)
	if len(fields) != 2 || len(fields[0]) != 2 || (fields[0][0] != 'Q' && fields[0][0] != 'q') {
		return Quarter{}, false
	}
	n, err := strconv.Atoi(fields[0][1:])
	if err != nil || n < 1 || n > 4 {
		return Quarter{}, false
	}
	year, err := strconv.Atoi(fields[1])
	if err != nil {
		return Quarter{}, false
	}
	return Quarter{N: n, Year: year}, true
}

func (q Quarter) String() string { return fmt.Sprintf("Q%d %d", q.N, q.Year) }

// Prev returns the preceding quarter.
func (q Quarter) Prev() Quarter {
	if q.N == 1 {
		return Quarter{N: 4, Year: q.Year - 1}
	}
	return Quarter{N: q.N - 1, Year: q.Year}
}

// YearAgo returns the same quarter one year earlier.
func (q Quarter) YearAgo() Quarter { return Quarter{N: q.N, Year: q.Year - 1} }

// ComparisonLabels returns the card labels for each delta comparator of a
// wave, e.g. "vs Q1 2025 Target", "vs Q4 2024", "vs Q1 2024". Periods that
// are not quarter labels fall back to generic wording.
func ComparisonLabels(period string) map[Comparator]string {
	q, ok := ParseQuarter(period)
	if !ok {
		return map[Comparator]string{
			VsTarget:       "vs Target",
			VsPriorQuarter: "vs Prior Quarter",
			VsPriorYear:    "vs Prior Year",
		}
	}
	return map[Comparator]string{
		VsTarget:       "vs " + q.String() + " Target",
		VsPriorQuarter: "vs " + q.Prev().String(),
		VsPriorYear:    "vs " + q.YearAgo().String(),
	}
}
