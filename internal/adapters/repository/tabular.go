package repository

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/brandhealth/internal/domain/model"
)

// Column names of the tabular layout shared by CSV and XLSX sources.
const (
	colKind     = "kind"
	colPeriod   = "period"
	colMarket   = "market"
	colMetric   = "metric"
	colValue    = "value"
	colTarget   = "target"
	colVsTarget = "vs_target"
	colVsQ4     = "vs_q4"
	colVsQ1LY   = "vs_q1_ly"
	colGrowth   = "growth"
	colIssue    = "issue"
)

// Columns is the header order of the tabular layout.
var Columns = []string{colKind, colPeriod, colMarket, colMetric, colValue, colTarget, colVsTarget, colVsQ4, colVsQ1LY, colGrowth, colIssue}

// Row kinds.
const (
	kindPeriod     = "period"
	kindOverall    = "overall"
	kindMarket     = "market"
	kindQuarter    = "quarter"
	kindProjection = "projection"
	kindAtRisk     = "at_risk"
)

// tableRow reads cells by column name. Cells missing from a short row read
// as empty.
type tableRow struct {
	line  int
	cells []string
	index map[string]int
}

func (r tableRow) get(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func (r tableRow) num(col string) (float64, error) {
	v, err := parseNumber(r.get(col))
	if err != nil {
		return 0, fmt.Errorf("line %d column %s: %w", r.line, col, err)
	}
	return v, nil
}

// parseNumber accepts "84.4", "+0.5", "-3.4%" and the empty string, which
// reads as 0.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimPrefix(s, "+")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("number %q: %w", s, ErrMalformedRecord)
	}
	return v, nil
}

// decodeTable turns a header row plus data rows into a dataset. Blank rows
// and rows whose kind starts with '#' are skipped.
func decodeTable(rows [][]string) (*model.Dataset, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty table: %w", ErrMalformedRecord)
	}
	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := index[colKind]; !ok {
		return nil, fmt.Errorf("header has no %q column: %w", colKind, ErrMalformedRecord)
	}

	b := newBuilder()
	for i, cells := range rows[1:] {
		row := tableRow{line: i + 2, cells: cells, index: index}
		kind := strings.ToLower(row.get(colKind))
		if kind == "" || strings.HasPrefix(kind, "#") {
			continue
		}
		if err := applyRow(b, kind, row); err != nil {
			return nil, err
		}
	}
	return b.build(), nil
}

func applyRow(b *builder, kind string, row tableRow) error {
	nums := func(cols ...string) ([]float64, error) {
		out := make([]float64, len(cols))
		for i, c := range cols {
			v, err := row.num(c)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	wrap := func(err error) error {
		if err == nil {
			return nil
		}
		return fmt.Errorf("line %d: %w", row.line, err)
	}

	switch kind {
	case kindPeriod:
		b.setPeriod(row.get(colPeriod))
		return nil
	case kindOverall:
		n, err := nums(colValue, colVsTarget, colVsQ4, colVsQ1LY)
		if err != nil {
			return err
		}
		return wrap(b.setOverall(row.get(colMetric), model.OverallKPI{Value: n[0], VsTarget: n[1], VsQ4: n[2], VsQ1LastYear: n[3]}))
	case kindMarket:
		n, err := nums(colValue, colTarget, colVsTarget, colVsQ4, colVsQ1LY, colGrowth)
		if err != nil {
			return err
		}
		v := model.MetricValues{Value: n[0], Target: n[1], VsTarget: n[2], VsQ4: n[3], VsQ1LastYear: n[4], Growth: n[5]}
		return wrap(b.setMarketMetric(row.get(colMarket), row.get(colMetric), v))
	case kindQuarter:
		v, err := row.num(colValue)
		if err != nil {
			return err
		}
		return wrap(b.setQuarterValue(row.get(colPeriod), row.get(colMetric), v))
	case kindProjection:
		v, err := row.num(colValue)
		if err != nil {
			return err
		}
		return wrap(b.setProjection(row.get(colPeriod), row.get(colMetric), v))
	case kindAtRisk:
		n, err := nums(colValue, colTarget, colVsTarget)
		if err != nil {
			return err
		}
		e := model.AtRiskEntry{Value: n[0], Target: n[1], VsTarget: n[2], Issue: row.get(colIssue)}
		return wrap(b.addAtRisk(row.get(colMarket), row.get(colMetric), e))
	}
	return fmt.Errorf("line %d: kind %q: %w", row.line, kind, ErrMalformedRecord)
}
