package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "ignite")
				So(manager.subsystem, ShouldEqual, "progress")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("sales"),
				WithMetricsEnabled(true),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager.namespace, ShouldEqual, "sales")
				So(manager.refreshInterval, ShouldEqual, 5*time.Second)
				So(manager.customLabels, ShouldResemble, map[string]string{"env": "test"})
			})

			Convey("And series should carry the namespace and labels", func() {
				manager.RecordSourceFallback()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var found bool
				for _, f := range families {
					if f.GetName() != "sales_progress_source_fallbacks_total" {
						continue
					}
					found = true
					labels := f.GetMetric()[0].GetLabel()
					So(labels, ShouldHaveLength, 1)
					So(labels[0].GetName(), ShouldEqual, "env")
					So(labels[0].GetValue(), ShouldEqual, "test")
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When options carry empty values", func() {
			manager := NewManager(
				WithNamespace(""),
				WithRefreshInterval(0),
				WithCustomLabels(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then the defaults should stay", func() {
				So(manager.namespace, ShouldEqual, "ignite")
				So(manager.refreshInterval, ShouldEqual, defaultRefreshInterval)
				So(manager.customLabels, ShouldBeEmpty)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When recording source loads", func() {
			manager.RecordSourceLoad("url", 10, 2)
			manager.RecordSourceLoad("sample", 5, 0)
			manager.RecordSourceFallback()

			Convey("Then counters should accumulate", func() {
				So(testutil.ToFloat64(manager.sourceLoads.WithLabelValues("url")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.sourceLoads.WithLabelValues("sample")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.rowsLoaded), ShouldEqual, 15)
				So(testutil.ToFloat64(manager.rowsDropped), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.sourceFallbacks), ShouldEqual, 1)
			})
		})

		Convey("When recording evaluations", func() {
			manager.RecordEvaluation("weekly", "ok", 3)
			manager.RecordEvaluation("weekly", "error", 1)
			manager.UpdateProgress("weekly", 0.5, 30, 7)

			Convey("Then labelled series should be tracked separately", func() {
				So(testutil.ToFloat64(manager.evaluations.WithLabelValues("weekly", "ok")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.evaluations.WithLabelValues("weekly", "error")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.progressRatio.WithLabelValues("weekly")), ShouldEqual, 0.5)
				So(testutil.ToFloat64(manager.totalPoints.WithLabelValues("weekly")), ShouldEqual, 30)
				So(testutil.ToFloat64(manager.scoredEvents.WithLabelValues("weekly")), ShouldEqual, 7)
			})
		})

		Convey("When recording HTTP traffic", func() {
			manager.RecordHTTPRequest("evaluate", "GET", "200", 4)
			manager.RecordHTTPError("evaluate", "GET", "client_error", "medium")

			Convey("Then request and error counters should move", func() {
				So(testutil.ToFloat64(manager.httpRequests.WithLabelValues("evaluate", "GET", "200")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.errorRateByEndpoint.WithLabelValues("evaluate", "GET", "client_error")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.errorRateByType.WithLabelValues("client_error", "medium")), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a disabled manager", t, func() {
		manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()), WithMetricsEnabled(false))

		Convey("When recording", func() {
			manager.RecordSourceFallback()
			manager.RecordInputError("missing_column")

			Convey("Then nothing should be counted", func() {
				So(testutil.ToFloat64(manager.sourceFallbacks), ShouldEqual, 0)
				So(testutil.ToFloat64(manager.inputErrors.WithLabelValues("missing_column")), ShouldEqual, 0)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then package-level recorders should not panic", func() {
			So(func() {
				RecordEvaluation("monthly", "ok", 1)
				UpdateProgress("monthly", 1, 80, 12)
				RecordSourceLoad("upload", 3, 1)
				RecordSourceFallback()
				RecordInputError("missing_column")
				RecordFetchDuration(12)
				RecordRenderDuration(8)
				RecordHTTPRequest("healthz", "GET", "200", 1)
				RecordHTTPError("evaluate", "POST", "client_error", "medium")
				UpdateSystem(1024, 8, 0.2)
			}, ShouldNotPanic)
		})

		Convey("And the registry should expose ignite metrics", func() {
			RecordSourceFallback()
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
			So(RefreshInterval(), ShouldEqual, defaultRefreshInterval)
		})
	})
}

func TestConfigure(t *testing.T) {
	Convey("Given the global manager is reconfigured", t, func() {
		before := GetRegistry()
		Configure(
			WithNamespace("acme"),
			WithRefreshInterval(time.Second),
			WithCustomLabels(map[string]string{"team": "west"}),
		)
		Reset(func() { Configure() })

		Convey("Then a fresh registry should carry the new names", func() {
			So(GetRegistry(), ShouldNotEqual, before)
			So(RefreshInterval(), ShouldEqual, time.Second)

			RecordSourceFallback()
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			names := make([]string, 0, len(families))
			for _, f := range families {
				names = append(names, f.GetName())
			}
			So(names, ShouldContain, "acme_progress_source_fallbacks_total")
		})

		Convey("And disabling it should stop recording", func() {
			Configure(WithMetricsEnabled(false))
			RecordInputError("missing_column")
			So(testutil.ToFloat64(globalManager.inputErrors.WithLabelValues("missing_column")), ShouldEqual, 0)
		})
	})
}
