package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/brandhealth/internal/adapters/repository"
	"github.com/okian/brandhealth/internal/domain/engine"
	"github.com/okian/brandhealth/internal/domain/model"
)

func wave(t *testing.T) *model.Dataset {
	t.Helper()
	ds, err := repository.New().Load(context.Background())
	if err != nil {
		t.Fatalf("load embedded wave: %v", err)
	}
	return ds
}

func TestRankMarkets(t *testing.T) {
	convey.Convey("Given the Q1 2025 wave", t, func() {
		ds := wave(t)

		convey.Convey("When ranking awareness by current value", func() {
			rows, err := engine.RankMarkets(ds, model.Awareness, model.CurrentValue)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then KSA should lead and China trail", func() {
				convey.So(len(rows), convey.ShouldEqual, len(ds.Markets))
				convey.So(rows[0].Market, convey.ShouldEqual, model.KSA)
				convey.So(rows[0].Value, convey.ShouldEqual, 97.1)
				convey.So(rows[0].Rank, convey.ShouldEqual, 1)
				convey.So(rows[9].Market, convey.ShouldEqual, model.China)
				convey.So(rows[9].Rank, convey.ShouldEqual, 10)
			})

			convey.Convey("Then values should never increase down the list", func() {
				for i := 1; i < len(rows); i++ {
					convey.So(rows[i-1].Value, convey.ShouldBeGreaterThanOrEqualTo, rows[i].Value)
					convey.So(rows[i].Rank, convey.ShouldEqual, i+1)
				}
			})
		})

		convey.Convey("When ranking awareness against target", func() {
			rows, err := engine.RankMarkets(ds, model.Awareness, model.VsTarget)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then ties should keep dataset order", func() {
				convey.So(rows[0].Market, convey.ShouldEqual, model.KSA)
				convey.So(rows[7].Market, convey.ShouldEqual, model.China)
				convey.So(rows[8].Market, convey.ShouldEqual, model.France)
				convey.So(rows[9].Market, convey.ShouldEqual, model.Kuwait)
				convey.So(rows[9].Value, convey.ShouldEqual, -0.5)
			})
		})

		convey.Convey("When ranking intent year over year", func() {
			rows, err := engine.RankMarkets(ds, model.Intent, model.VsPriorYear)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the YoY decliner should be last", func() {
				convey.So(rows[len(rows)-1].Market, convey.ShouldEqual, model.Italy)
				convey.So(rows[len(rows)-1].Value, convey.ShouldEqual, -3.4)
			})
		})

		convey.Convey("When keys are outside the enumerations", func() {
			_, errMetric := engine.RankMarkets(ds, model.Metric("loyalty"), model.CurrentValue)
			_, errComparator := engine.RankMarkets(ds, model.Awareness, model.Comparator("vs-q3"))

			convey.Convey("Then both should fail with ErrInvalidMetricKey", func() {
				convey.So(errors.Is(errMetric, model.ErrInvalidMetricKey), convey.ShouldBeTrue)
				convey.So(errors.Is(errComparator, model.ErrInvalidMetricKey), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When ranking twice", func() {
			before := ds.Clone()
			first, _ := engine.RankMarkets(ds, model.Consideration, model.VsPriorQuarter)
			second, _ := engine.RankMarkets(ds, model.Consideration, model.VsPriorQuarter)

			convey.Convey("Then results should match and the dataset stay untouched", func() {
				convey.So(second, convey.ShouldResemble, first)
				convey.So(ds, convey.ShouldResemble, before)
			})
		})
	})

	convey.Convey("Given a nil dataset", t, func() {
		_, err := engine.RankMarkets(nil, model.Awareness, model.CurrentValue)
		convey.So(errors.Is(err, engine.ErrNilDataset), convey.ShouldBeTrue)
	})
}

func TestClassify(t *testing.T) {
	convey.Convey("Given the Q1 2025 wave and fixed midpoints", t, func() {
		ds := wave(t)
		placements, err := engine.Classify(ds, engine.DefaultMidpoints)
		convey.So(err, convey.ShouldBeNil)

		byQuadrant := map[engine.Quadrant][]model.MarketName{}
		for _, p := range placements {
			byQuadrant[p.Quadrant] = append(byQuadrant[p.Quadrant], p.Market)
		}

		convey.Convey("Then every market should be placed exactly once", func() {
			convey.So(len(placements), convey.ShouldEqual, len(ds.Markets))
			total := 0
			for _, q := range engine.Quadrants {
				total += len(byQuadrant[q])
			}
			convey.So(total, convey.ShouldEqual, len(ds.Markets))
		})

		convey.Convey("Then the quadrants should match the dashboard", func() {
			convey.So(byQuadrant[engine.Leading], convey.ShouldResemble, []model.MarketName{model.India, model.KSA, model.Kuwait})
			convey.So(byQuadrant[engine.StablePerformer], convey.ShouldResemble, []model.MarketName{model.Russia})
			convey.So(byQuadrant[engine.GrowthOpportunity], convey.ShouldResemble, []model.MarketName{model.UK, model.US, model.France})
			convey.So(byQuadrant[engine.Underperforming], convey.ShouldResemble, []model.MarketName{model.Germany, model.China, model.Italy})
		})

		convey.Convey("Then Russia's scores should be the three-metric means", func() {
			mk, ok := ds.Market(model.Russia)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(engine.Performance(mk), convey.ShouldAlmostEqual, 61.5, 1e-9)
			convey.So(engine.Growth(mk), convey.ShouldAlmostEqual, 0.7, 1e-9)
		})
	})

	convey.Convey("Given markets sitting exactly on the midpoints", t, func() {
		mk := model.Market{Name: model.UK}
		for _, m := range model.Metrics {
			mk.SetValues(m, model.MetricValues{Value: 52, Growth: 1.5})
		}

		convey.Convey("Then equality should count as above on both axes", func() {
			convey.So(engine.ClassifyQuadrant(mk, engine.DefaultMidpoints), convey.ShouldEqual, engine.Leading)
		})
	})

	convey.Convey("Given a market with no data", t, func() {
		convey.Convey("Then it should be underperforming", func() {
			convey.So(engine.ClassifyQuadrant(model.Market{Name: model.UK}, engine.DefaultMidpoints), convey.ShouldEqual, engine.Underperforming)
		})
	})
}

func TestResolveMidpoints(t *testing.T) {
	convey.Convey("Given the Q1 2025 wave", t, func() {
		ds := wave(t)

		convey.Convey("When the strategy is fixed", func() {
			mid, err := engine.ResolveMidpoints(ds, engine.StrategyFixed, engine.Midpoints{Performance: 50, Growth: 1})
			convey.So(err, convey.ShouldBeNil)
			convey.So(mid, convey.ShouldResemble, engine.Midpoints{Performance: 50, Growth: 1})
		})

		convey.Convey("When the strategy is median", func() {
			mid, err := engine.ResolveMidpoints(ds, engine.StrategyMedian, engine.DefaultMidpoints)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then half the markets should sit on each side of each axis", func() {
				var highPerf, highGrowth int
				for _, mk := range ds.Markets {
					if engine.Performance(mk) >= mid.Performance {
						highPerf++
					}
					if engine.Growth(mk) >= mid.Growth {
						highGrowth++
					}
				}
				convey.So(highPerf, convey.ShouldEqual, 5)
				convey.So(highGrowth, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When the strategy is mean", func() {
			mid, err := engine.ResolveMidpoints(ds, engine.StrategyMean, engine.DefaultMidpoints)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then it should be the average of the market scores", func() {
				var sum float64
				for _, mk := range ds.Markets {
					sum += engine.Performance(mk)
				}
				convey.So(mid.Performance, convey.ShouldAlmostEqual, sum/float64(len(ds.Markets)), 1e-9)
			})
		})

		convey.Convey("When the strategy is unknown", func() {
			_, err := engine.ResolveMidpoints(ds, engine.MidpointStrategy("mode"), engine.DefaultMidpoints)
			convey.So(errors.Is(err, engine.ErrInvalidStrategy), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given strategy names", t, func() {
		for in, want := range map[string]engine.MidpointStrategy{"": engine.StrategyFixed, "Fixed": engine.StrategyFixed, " median ": engine.StrategyMedian, "mean": engine.StrategyMean} {
			got, err := engine.ParseMidpointStrategy(in)
			convey.So(err, convey.ShouldBeNil)
			convey.So(got, convey.ShouldEqual, want)
		}
		_, err := engine.ParseMidpointStrategy("kmeans")
		convey.So(errors.Is(err, engine.ErrInvalidStrategy), convey.ShouldBeTrue)
	})
}

func TestHeatLevel(t *testing.T) {
	convey.Convey("Given the current view", t, func() {
		cases := map[float64]int{0: 1, 19.9: 1, 20: 2, 39.9: 2, 40: 3, 60: 4, 79.9: 4, 80: 5, 100: 5}
		for v, want := range cases {
			got, err := engine.HeatLevel(v, model.ViewCurrent)
			convey.So(err, convey.ShouldBeNil)
			convey.So(got, convey.ShouldEqual, want)
		}
	})

	convey.Convey("Given the vs-target and vs-Q4 views", t, func() {
		cases := map[float64]int{-5: 1, -0.1: 1, 0: 3, 0.4: 3, 0.5: 4, 1.9: 4, 2: 5, 13.7: 5}
		for _, view := range []model.ViewType{model.ViewVsTarget, model.ViewVsQ4} {
			for v, want := range cases {
				got, err := engine.HeatLevel(v, view)
				convey.So(err, convey.ShouldBeNil)
				convey.So(got, convey.ShouldEqual, want)
			}
		}
	})

	convey.Convey("Given the vs-Q1-last-year view", t, func() {
		cases := map[float64]int{-3.4: 1, 0: 3, 1.9: 3, 2: 4, 4.9: 4, 5: 5, 27.2: 5}
		for v, want := range cases {
			got, err := engine.HeatLevel(v, model.ViewVsQ1LastYear)
			convey.So(err, convey.ShouldBeNil)
			convey.So(got, convey.ShouldEqual, want)
		}
	})

	convey.Convey("Given values sweeping upwards", t, func() {
		convey.Convey("Then levels should never decrease and stay in range", func() {
			for _, view := range model.ViewTypes {
				prev := engine.MinHeatLevel
				for v := -10.0; v <= 100; v += 0.25 {
					got, err := engine.HeatLevel(v, view)
					convey.So(err, convey.ShouldBeNil)
					convey.So(got, convey.ShouldBeBetweenOrEqual, engine.MinHeatLevel, engine.MaxHeatLevel)
					convey.So(got, convey.ShouldBeGreaterThanOrEqualTo, prev)
					prev = got
				}
			}
		})
	})

	convey.Convey("Given an unknown view", t, func() {
		_, err := engine.HeatLevel(50, model.ViewType("vsBudget"))
		convey.So(errors.Is(err, model.ErrInvalidMetricKey), convey.ShouldBeTrue)
	})
}

func TestBuildHeatmap(t *testing.T) {
	convey.Convey("Given the Q1 2025 wave", t, func() {
		ds := wave(t)

		convey.Convey("When building the vs-target heatmap", func() {
			hm, err := engine.BuildHeatmap(ds, model.ViewVsTarget)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then it should cover every market and metric", func() {
				convey.So(len(hm.Rows), convey.ShouldEqual, len(ds.Markets))
				convey.So(hm.Metrics, convey.ShouldResemble, model.Metrics)
				for _, row := range hm.Rows {
					convey.So(len(row.Cells), convey.ShouldEqual, len(model.Metrics))
				}
			})

			convey.Convey("Then Kuwait awareness should be painted as a miss", func() {
				row := hm.Rows[9]
				convey.So(row.Market, convey.ShouldEqual, model.Kuwait)
				convey.So(row.Cells[0].Value, convey.ShouldEqual, -0.5)
				convey.So(row.Cells[0].Level, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When building the current heatmap", func() {
			hm, err := engine.BuildHeatmap(ds, model.ViewCurrent)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then Italy intent should read the market block value", func() {
				row := hm.Rows[8]
				convey.So(row.Market, convey.ShouldEqual, model.Italy)
				convey.So(row.Cells[3].Metric, convey.ShouldEqual, model.Intent)
				convey.So(row.Cells[3].Value, convey.ShouldEqual, 17.9)
				convey.So(row.Cells[3].Level, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When the view is unknown", func() {
			_, err := engine.BuildHeatmap(ds, model.ViewType("weekly"))
			convey.So(errors.Is(err, model.ErrInvalidMetricKey), convey.ShouldBeTrue)
		})
	})
}

func TestProjectSeries(t *testing.T) {
	convey.Convey("Given the Q1 2025 wave", t, func() {
		ds := wave(t)

		convey.Convey("When projecting awareness", func() {
			points, err := engine.ProjectSeries(ds, model.Awareness)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then history should come first and projections after", func() {
				convey.So(len(points), convey.ShouldEqual, len(ds.History)+len(ds.Projections.Periods))
				convey.So(points[0].Period, convey.ShouldEqual, "Q3 2022")
				convey.So(*points[0].Historical, convey.ShouldEqual, 78.4)
				convey.So(points[0].Projected, convey.ShouldBeNil)

				last := points[len(points)-1]
				convey.So(last.Period, convey.ShouldEqual, "2030")
				convey.So(last.Historical, convey.ShouldBeNil)
				convey.So(*last.Projected, convey.ShouldEqual, 86.5)
			})

			convey.Convey("Then every label should be unique and carry exactly one value", func() {
				seen := map[string]bool{}
				for _, p := range points {
					convey.So(seen[p.Period], convey.ShouldBeFalse)
					seen[p.Period] = true
					convey.So((p.Historical == nil) != (p.Projected == nil), convey.ShouldBeTrue)
				}
			})
		})

		convey.Convey("When the metric is unknown", func() {
			_, err := engine.ProjectSeries(ds, model.Metric("nps"))
			convey.So(errors.Is(err, model.ErrInvalidMetricKey), convey.ShouldBeTrue)
		})
	})
}
