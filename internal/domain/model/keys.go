// Package model contains the brand health domain types shared by the
// repository, the derived metrics engine and the HTTP layer.
package model

import (
	"fmt"
	"strings"
)

// Metric is one of the four tracked brand KPIs.
type Metric string

// Tracked metrics.
const (
	Awareness     Metric = "awareness"
	Familiarity   Metric = "familiarity"
	Consideration Metric = "consideration"
	Intent        Metric = "intent"
)

// Metrics lists every metric in funnel order.
var Metrics = []Metric{Awareness, Familiarity, Consideration, Intent}

// ParseMetric validates a metric key. Matching is case-insensitive.
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("metric %q: %w", s, ErrInvalidMetricKey)
	}
	return m, nil
}

// Valid reports whether m is one of the tracked metrics.
func (m Metric) Valid() bool {
	switch m {
	case Awareness, Familiarity, Consideration, Intent:
		return true
	}
	return false
}

// Title returns the display name, e.g. "Awareness".
func (m Metric) Title() string {
	if m == "" {
		return ""
	}
	return strings.ToUpper(string(m[:1])) + string(m[1:])
}

// Comparator selects which numeric field of a market metric drives a sort.
type Comparator string

// Comparators. Values match the sort keys used by the dashboard.
const (
	CurrentValue   Comparator = "value"
	VsTarget       Comparator = "vs-target"
	VsPriorQuarter Comparator = "vs-q4"
	VsPriorYear    Comparator = "vs-q1-ly"
)

// Comparators lists every comparator.
var Comparators = []Comparator{CurrentValue, VsTarget, VsPriorQuarter, VsPriorYear}

var comparatorAliases = map[string]Comparator{
	"value":            CurrentValue,
	"current":          CurrentValue,
	"current-value":    CurrentValue,
	"vs-target":        VsTarget,
	"vs-q4":            VsPriorQuarter,
	"vs-prior-quarter": VsPriorQuarter,
	"vs-q1-ly":         VsPriorYear,
	"vs-prior-year":    VsPriorYear,
}

// ParseComparator accepts the dashboard sort keys and their long names.
func ParseComparator(s string) (Comparator, error) {
	c, ok := comparatorAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("comparator %q: %w", s, ErrInvalidMetricKey)
	}
	return c, nil
}

// Valid reports whether c is a known comparator.
func (c Comparator) Valid() bool {
	switch c {
	case CurrentValue, VsTarget, VsPriorQuarter, VsPriorYear:
		return true
	}
	return false
}

// ViewType selects what a heatmap cell shows.
type ViewType string

// Heatmap views.
const (
	ViewCurrent      ViewType = "current"
	ViewVsTarget     ViewType = "vsTarget"
	ViewVsQ4         ViewType = "vsQ4"
	ViewVsQ1LastYear ViewType = "vsQ1LastYear"
)

// ViewTypes lists every heatmap view.
var ViewTypes = []ViewType{ViewCurrent, ViewVsTarget, ViewVsQ4, ViewVsQ1LastYear}

// ParseViewType validates a heatmap view key (case-insensitive).
func ParseViewType(s string) (ViewType, error) {
	key := strings.TrimSpace(s)
	for _, v := range ViewTypes {
		if strings.EqualFold(key, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("view %q: %w", s, ErrInvalidMetricKey)
}

// Valid reports whether v is a known view.
func (v ViewType) Valid() bool {
	switch v {
	case ViewCurrent, ViewVsTarget, ViewVsQ4, ViewVsQ1LastYear:
		return true
	}
	return false
}

// Comparator returns the market field a view displays.
func (v ViewType) Comparator() Comparator {
	switch v {
	case ViewVsTarget:
		return VsTarget
	case ViewVsQ4:
		return VsPriorQuarter
	case ViewVsQ1LastYear:
		return VsPriorYear
	default:
		return CurrentValue
	}
}
