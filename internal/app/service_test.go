package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/brandhealth/internal/adapters/repository"
	service "github.com/okian/brandhealth/internal/app"
	"github.com/okian/brandhealth/internal/domain/engine"
	"github.com/okian/brandhealth/internal/domain/model"
	"github.com/okian/brandhealth/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func started(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	svc := service.New(opts...)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	return svc
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		defer svc.Stop()

		Convey("When starting the service", func() {
			err := svc.Start(context.Background())

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And the stats should describe the loaded wave", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["period"], ShouldEqual, "Q1 2025")
				So(stats["markets"], ShouldEqual, 10)
				So(stats["quarters"], ShouldEqual, 11)
				So(stats["quadrantStrategy"], ShouldEqual, "fixed")
			})

			Convey("And starting again should be a no-op", func() {
				So(svc.Start(context.Background()), ShouldBeNil)
			})
		})
	})

	Convey("Given a service pointing at a missing file", t, func() {
		svc := service.New(service.WithDataPath(filepath.Join(t.TempDir(), "missing.csv")))

		Convey("When starting the service", func() {
			err := svc.Start(context.Background())

			Convey("Then it should fail once with data unavailable", func() {
				So(errors.Is(err, repository.ErrDataUnavailable), ShouldBeTrue)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})

	Convey("Given a service pointing at an unsupported file", t, func() {
		svc := service.New(service.WithDataPath("wave.json"))

		Convey("Then start should fail with data unavailable", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, repository.ErrDataUnavailable), ShouldBeTrue)
			So(errors.Is(err, repository.ErrUnknownFormat), ShouldBeTrue)
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := started(t)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})

			Convey("And reads should report the dataset as not loaded", func() {
				_, err := svc.Overview(context.Background())
				So(errors.Is(err, repository.ErrNotLoaded), ShouldBeTrue)
			})
		})
	})
}

func TestService_NotStarted(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("Then every read should fail with ErrNotLoaded", func() {
			_, errRank := svc.Rank(ctx, "awareness", "value")
			_, errQuad := svc.Quadrants(ctx)
			_, errHeat := svc.Heatmap(ctx, "current")
			_, errSeries := svc.Series(ctx, "intent")
			_, errHistory := svc.History(ctx)
			_, errRisk := svc.AtRisk(ctx)
			for _, err := range []error{errRank, errQuad, errHeat, errSeries, errHistory, errRisk} {
				So(errors.Is(err, repository.ErrNotLoaded), ShouldBeTrue)
			}
		})
	})
}

func TestService_Overview(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := started(t)
		defer svc.Stop()

		Convey("When reading the overview", func() {
			ov, err := svc.Overview(context.Background())
			So(err, ShouldBeNil)

			Convey("Then it should hold one card per metric with labelled deltas", func() {
				So(ov.Period, ShouldEqual, "Q1 2025")
				So(len(ov.Cards), ShouldEqual, len(model.Metrics))
				card := ov.Cards[0]
				So(card.Title, ShouldEqual, "Awareness")
				So(card.Display, ShouldEqual, "84.4%")
				So(len(card.Deltas), ShouldEqual, 3)
				So(card.Deltas[0].Label, ShouldEqual, "vs Q1 2025 Target")
				So(card.Deltas[0].Display, ShouldEqual, "+0.5%")
				So(card.Deltas[0].Tone, ShouldEqual, model.TonePositive)
				So(card.Deltas[1].Label, ShouldEqual, "vs Q4 2024")
				So(card.Deltas[2].Label, ShouldEqual, "vs Q1 2024")
			})
		})
	})
}

func TestService_Rank(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := started(t)
		defer svc.Stop()
		ctx := context.Background()

		Convey("When ranking with dashboard keys", func() {
			r, err := svc.Rank(ctx, "intent", "vs-target")
			So(err, ShouldBeNil)

			Convey("Then the ranking should be labelled and ordered", func() {
				So(r.Metric, ShouldEqual, model.Intent)
				So(r.Comparator, ShouldEqual, model.VsTarget)
				So(r.Label, ShouldEqual, "vs Q1 2025 Target")
				So(r.Rows[0].Market, ShouldEqual, model.US)
				So(r.Rows[0].Value, ShouldEqual, 13.7)
			})
		})

		Convey("When ranking by current value", func() {
			r, err := svc.Rank(ctx, "Awareness", "value")
			So(err, ShouldBeNil)
			So(r.Label, ShouldEqual, "Current Value")
			So(r.Rows[0].Market, ShouldEqual, model.KSA)
		})

		Convey("When keys are unknown", func() {
			_, errMetric := svc.Rank(ctx, "loyalty", "value")
			_, errSort := svc.Rank(ctx, "awareness", "vs-q3")

			Convey("Then it should fail with ErrInvalidMetricKey", func() {
				So(errors.Is(errMetric, model.ErrInvalidMetricKey), ShouldBeTrue)
				So(errors.Is(errSort, model.ErrInvalidMetricKey), ShouldBeTrue)
			})
		})
	})
}

func TestService_Quadrants(t *testing.T) {
	Convey("Given a started service with fixed midpoints", t, func() {
		svc := started(t)
		defer svc.Stop()

		Convey("When classifying", func() {
			view, err := svc.Quadrants(context.Background())
			So(err, ShouldBeNil)

			Convey("Then the groups should match the dashboard", func() {
				So(view.Strategy, ShouldEqual, engine.StrategyFixed)
				So(view.Midpoints, ShouldResemble, engine.DefaultMidpoints)
				So(view.Groups[engine.Leading], ShouldResemble, []model.MarketName{model.India, model.KSA, model.Kuwait})
				So(view.Groups[engine.StablePerformer], ShouldResemble, []model.MarketName{model.Russia})
				So(len(view.Placements), ShouldEqual, 10)
			})
		})
	})

	Convey("Given a started service with median midpoints", t, func() {
		svc := started(t, service.WithMidpointStrategy(engine.StrategyMedian))
		defer svc.Stop()

		Convey("When classifying", func() {
			view, err := svc.Quadrants(context.Background())
			So(err, ShouldBeNil)

			Convey("Then the midpoints should come from the markets", func() {
				So(view.Strategy, ShouldEqual, engine.StrategyMedian)
				So(view.Midpoints.Performance, ShouldAlmostEqual, 50.25, 1e-9)
				So(view.Midpoints.Growth, ShouldAlmostEqual, 1.75, 1e-9)
			})
		})
	})

	Convey("Given custom fixed midpoints", t, func() {
		svc := started(t, service.WithFixedMidpoints(engine.Midpoints{Performance: 0, Growth: -10}))
		defer svc.Stop()

		Convey("Then every market should lead", func() {
			view, err := svc.Quadrants(context.Background())
			So(err, ShouldBeNil)
			So(len(view.Groups[engine.Leading]), ShouldEqual, 10)
			So(view.Groups[engine.Underperforming], ShouldBeEmpty)
		})
	})
}

func TestService_HeatmapAndSeries(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := started(t)
		defer svc.Stop()
		ctx := context.Background()

		Convey("When building a heatmap with a case-insensitive view key", func() {
			hm, err := svc.Heatmap(ctx, "vsq1lastyear")
			So(err, ShouldBeNil)
			So(hm.View, ShouldEqual, model.ViewVsQ1LastYear)
			So(len(hm.Rows), ShouldEqual, 10)
		})

		Convey("When the view is unknown", func() {
			_, err := svc.Heatmap(ctx, "weekly")
			So(errors.Is(err, model.ErrInvalidMetricKey), ShouldBeTrue)
		})

		Convey("When projecting a series", func() {
			points, err := svc.Series(ctx, "consideration")
			So(err, ShouldBeNil)
			So(len(points), ShouldEqual, 17)
		})

		Convey("When reading history and at-risk entries", func() {
			history, err := svc.History(ctx)
			So(err, ShouldBeNil)
			So(len(history), ShouldEqual, 11)
			risk, err := svc.AtRisk(ctx)
			So(err, ShouldBeNil)
			So(len(risk), ShouldEqual, 4)
		})
	})
}
