package export_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"

	"github.com/okian/brandhealth/internal/adapters/export"
	"github.com/okian/brandhealth/internal/adapters/repository"
	"github.com/okian/brandhealth/internal/domain/engine"
	"github.com/okian/brandhealth/internal/domain/model"
)

func report(t *testing.T) export.Report {
	t.Helper()
	ds, err := repository.New().Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	r := export.Report{
		Period:    ds.Period,
		Overall:   ds.Overall,
		Rankings:  map[model.Metric][]engine.RankedMarket{},
		Midpoints: engine.DefaultMidpoints,
	}
	for _, m := range model.Metrics {
		rows, err := engine.RankMarkets(ds, m, model.CurrentValue)
		if err != nil {
			t.Fatalf("rank: %v", err)
		}
		r.Rankings[m] = rows
	}
	if r.Heatmap, err = engine.BuildHeatmap(ds, model.ViewCurrent); err != nil {
		t.Fatalf("heatmap: %v", err)
	}
	if r.Placements, err = engine.Classify(ds, r.Midpoints); err != nil {
		t.Fatalf("classify: %v", err)
	}
	return r
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWrite(t *testing.T) {
	Convey("Given a report for the Q1 2025 wave", t, func() {
		r := report(t)

		Convey("When the workbook is written", func() {
			var buf bytes.Buffer
			So(export.Write(&buf, r), ShouldBeNil)

			f, err := excelize.OpenReader(&buf)
			So(err, ShouldBeNil)
			defer f.Close()

			Convey("Then it should contain the four sheets in order", func() {
				So(f.GetSheetList(), ShouldResemble, []string{export.SheetOverview, export.SheetRanking, export.SheetHeatmap, export.SheetQuadrants})
			})

			Convey("Then the overview should carry display strings", func() {
				rows, err := f.GetRows(export.SheetOverview)
				So(err, ShouldBeNil)
				So(rows[0], ShouldResemble, []string{"Metric", "Q1 2025", "vs Q1 2025 Target", "vs Q4 2024", "vs Q1 2024"})
				So(rows[1], ShouldResemble, []string{"Awareness", "84.4%", "+0.5%", "+0.9%", "+1.9%"})
			})

			Convey("Then the ranking should follow the engine order", func() {
				rows, err := f.GetRows(export.SheetRanking)
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 1+len(model.Metrics)*len(model.Markets))
				So(rows[1][:4], ShouldResemble, []string{"Awareness", "1", "KSA", "97.1"})
				So(rows[10][:3], ShouldResemble, []string{"Awareness", "10", "China"})
			})

			Convey("Then heatmap cells should be coloured by level", func() {
				rows, err := f.GetRows(export.SheetHeatmap)
				So(err, ShouldBeNil)
				So(rows[0], ShouldResemble, []string{"Market", "Awareness", "Familiarity", "Consideration", "Intent"})
				So(rows[1][:2], ShouldResemble, []string{"UK", "93.1"})

				// UK and Germany awareness are level 5, China intent is level 1.
				ukAwareness, err := f.GetCellStyle(export.SheetHeatmap, "B2")
				So(err, ShouldBeNil)
				deAwareness, _ := f.GetCellStyle(export.SheetHeatmap, "B3")
				cnIntent, _ := f.GetCellStyle(export.SheetHeatmap, "E6")
				So(ukAwareness, ShouldEqual, deAwareness)
				So(ukAwareness, ShouldNotEqual, cnIntent)
			})

			Convey("Then quadrant placements should be listed", func() {
				rows, err := f.GetRows(export.SheetQuadrants)
				So(err, ShouldBeNil)
				So(rows[6], ShouldResemble, []string{"Russia", "61.5", "0.7", "StablePerformer"})
			})
		})

		Convey("When the writer fails", func() {
			err := export.Write(failingWriter{}, r)

			Convey("Then the error should be wrapped", func() {
				So(errors.Is(err, export.ErrWorkbook), ShouldBeTrue)
			})
		})

		Convey("When a heat level is out of range", func() {
			r.Heatmap.Rows[0].Cells[0].Level = 9
			err := export.Write(&bytes.Buffer{}, r)

			Convey("Then the export should be refused", func() {
				So(errors.Is(err, export.ErrWorkbook), ShouldBeTrue)
			})
		})
	})
}
