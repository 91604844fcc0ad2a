// Package export renders engine outputs into an XLSX workbook.
package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/okian/brandhealth/internal/domain/engine"
	"github.com/okian/brandhealth/internal/domain/model"
)

// Sheet names, in workbook order.
const (
	SheetOverview  = "Overview"
	SheetRanking   = "Ranking"
	SheetHeatmap   = "Heatmap"
	SheetQuadrants = "Quadrants"
)

// heatFills colour heat levels 1..5 from red to green.
var heatFills = [engine.MaxHeatLevel + 1]string{"", "F8696B", "FBAA77", "FFEB84", "B1D580", "63BE7B"}

// Report is everything the workbook shows. It holds computed views only;
// Write never ranks, classifies or buckets anything itself.
type Report struct {
	Period     string
	Overall    []model.OverallKPI
	Rankings   map[model.Metric][]engine.RankedMarket
	Heatmap    engine.Heatmap
	Midpoints  engine.Midpoints
	Placements []engine.Placement
}

// Write builds the workbook and streams it to w.
func Write(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := build(f, r); err != nil {
		return fmt.Errorf("%w: %w", ErrWorkbook, err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: write: %w", ErrWorkbook, err)
	}
	return nil
}

func build(f *excelize.File, r Report) error {
	if err := f.SetSheetName("Sheet1", SheetOverview); err != nil {
		return err
	}
	for _, name := range []string{SheetRanking, SheetHeatmap, SheetQuadrants} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	steps := []func(*excelize.File, Report, int) error{writeOverview, writeRanking, writeHeatmap, writeQuadrants}
	for _, step := range steps {
		if err := step(f, r, header); err != nil {
			return err
		}
	}
	return nil
}

// writeRows writes a header row plus data rows starting at A1.
func writeRows(f *excelize.File, sheet string, header int, head []string, rows [][]interface{}) error {
	cells := make([]interface{}, len(head))
	for i, h := range head {
		cells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(head), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	lastCol, err := excelize.ColumnNumberToName(len(head))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 18)
}

func writeOverview(f *excelize.File, r Report, header int) error {
	labels := model.ComparisonLabels(r.Period)
	head := []string{"Metric", r.Period, labels[model.VsTarget], labels[model.VsPriorQuarter], labels[model.VsPriorYear]}
	rows := make([][]interface{}, 0, len(r.Overall))
	for _, kpi := range r.Overall {
		rows = append(rows, []interface{}{
			kpi.Metric.Title(),
			model.FormatPercent(kpi.Value),
			model.FormatDelta(kpi.VsTarget),
			model.FormatDelta(kpi.VsQ4),
			model.FormatDelta(kpi.VsQ1LastYear),
		})
	}
	return writeRows(f, SheetOverview, header, head, rows)
}

func writeRanking(f *excelize.File, r Report, header int) error {
	head := []string{"Metric", "Rank", "Market", "Value", "Target", "vs Target"}
	var rows [][]interface{}
	for _, m := range model.Metrics {
		for _, rm := range r.Rankings[m] {
			rows = append(rows, []interface{}{m.Title(), rm.Rank, string(rm.Market), rm.Value, rm.Values.Target, rm.Values.VsTarget})
		}
	}
	return writeRows(f, SheetRanking, header, head, rows)
}

func writeHeatmap(f *excelize.File, r Report, header int) error {
	head := []string{"Market"}
	for _, m := range r.Heatmap.Metrics {
		head = append(head, m.Title())
	}
	rows := make([][]interface{}, 0, len(r.Heatmap.Rows))
	for _, hr := range r.Heatmap.Rows {
		row := []interface{}{string(hr.Market)}
		for _, c := range hr.Cells {
			row = append(row, c.Value)
		}
		rows = append(rows, row)
	}
	if err := writeRows(f, SheetHeatmap, header, head, rows); err != nil {
		return err
	}

	var levels [engine.MaxHeatLevel + 1]int
	for level := engine.MinHeatLevel; level <= engine.MaxHeatLevel; level++ {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{heatFills[level]}, Pattern: 1},
		})
		if err != nil {
			return err
		}
		levels[level] = style
	}
	for i, hr := range r.Heatmap.Rows {
		for j, c := range hr.Cells {
			if c.Level < engine.MinHeatLevel || c.Level > engine.MaxHeatLevel {
				return fmt.Errorf("heat level %d for %s %s", c.Level, hr.Market, c.Metric)
			}
			cell, err := excelize.CoordinatesToCellName(j+2, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(SheetHeatmap, cell, cell, levels[c.Level]); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeQuadrants(f *excelize.File, r Report, header int) error {
	head := []string{"Market", "Performance", "Growth", "Quadrant"}
	rows := make([][]interface{}, 0, len(r.Placements)+2)
	for _, p := range r.Placements {
		rows = append(rows, []interface{}{string(p.Market), round1(p.Performance), round1(p.Growth), string(p.Quadrant)})
	}
	rows = append(rows,
		[]interface{}{},
		[]interface{}{"Midpoints", r.Midpoints.Performance, r.Midpoints.Growth},
	)
	return writeRows(f, SheetQuadrants, header, head, rows)
}

func round1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}
