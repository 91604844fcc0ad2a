package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a dedicated registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 10}),
				WithConstLabels(map[string]string{"wave": "Q1 2025"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then collectors should register under the namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.marketCount.Set(10)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var names []string
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(strings.Join(names, ","), ShouldContainSubstring, "test_unit_markets")
			})
		})

		Convey("When creating twice on the same registry", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the duplicate registration should panic", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording dataset loads", func() {
			before := testutil.ToFloat64(globalManager.datasetLoads.WithLabelValues("embedded"))
			RecordDatasetLoad("embedded")
			RecordLoadDuration(1.5)
			UpdateMarketCount(10)
			UpdateHistoryLength(11)

			Convey("Then counters and gauges should move", func() {
				So(testutil.ToFloat64(globalManager.datasetLoads.WithLabelValues("embedded")), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.marketCount), ShouldEqual, 10)
				So(testutil.ToFloat64(globalManager.historyLength), ShouldEqual, 11)
			})
		})

		Convey("When recording engine and HTTP activity", func() {
			So(func() {
				RecordDatasetLoadFailure("file")
				RecordEngineOp("rank_markets", 0.2)
				RecordEngineError("rank_markets", "invalid_key")
				RecordExport()
				RecordHTTPRequest("rank", "GET", "200")
				RecordHTTPRequestDuration("rank", "GET", "200", 3)
			}, ShouldNotPanic)

			Convey("Then the engine error counter should be visible", func() {
				So(testutil.ToFloat64(globalManager.engineErrors.WithLabelValues("rank_markets", "invalid_key")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("Then the registry should be exposed", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
