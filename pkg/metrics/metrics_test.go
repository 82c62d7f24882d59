package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func gathered(reg *prometheus.Registry, name string) (float64, bool) {
	families, err := reg.Gather()
	if err != nil {
		return 0, false
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		var total float64
		for _, m := range f.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				total += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				total += m.GetGauge().GetValue()
			}
		}
		return total, true
	}
	return 0, false
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))
			manager.eventsDuplicate.Inc()

			Convey("Then metrics use the default namespace", func() {
				v, ok := gathered(registry, "lightshow_engine_events_duplicate_total")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 1.0)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("venue"),
				WithSubsystem("rig"),
				WithMetricPrefix("main_"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"stage": "north"}),
				WithPrometheusRegistry(registry),
			)
			manager.gradientsActive.Set(3)

			Convey("Then names and labels follow the options", func() {
				v, ok := gathered(registry, "venue_rig_main_gradients_active")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 3.0)

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() != "venue_rig_main_gradients_active" {
						continue
					}
					for _, lp := range f.GetMetric()[0].GetLabel() {
						if lp.GetName() == "stage" && lp.GetValue() == "north" {
							found = true
						}
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When two managers share a registry", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the second registration panics", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		reg := GetRegistry()

		Convey("When recording dispatch metrics", func() {
			before, _ := gathered(reg, "lightshow_engine_events_dispatched_total")
			RecordEventDispatched(1)
			RecordEventDispatched(8)
			after, _ := gathered(reg, "lightshow_engine_events_dispatched_total")

			Convey("Then the counter grows per event", func() {
				So(after-before, ShouldEqual, 2.0)
			})
		})

		Convey("When toggling modifiers", func() {
			UpdateBoostActive(true)
			v, _ := gathered(reg, "lightshow_engine_boost_active")
			So(v, ShouldEqual, 1.0)

			UpdateBoostActive(false)
			v, _ = gathered(reg, "lightshow_engine_boost_active")
			So(v, ShouldEqual, 0.0)

			UpdateSoloActive(true)
			v, _ = gathered(reg, "lightshow_engine_solo_active")
			So(v, ShouldEqual, 1.0)
			UpdateSoloActive(false)
		})

		Convey("When recording the remaining families", func() {
			So(func() {
				RecordEventIgnored("no_group")
				RecordEventDuplicate()
				RecordEffect("flash")
				RecordInvalidTarget("light")
				RecordResolveLatency(12)
				RecordGradientStarted()
				RecordGradientCompleted()
				RecordGradientCancelled()
				RecordLegacyColor()
				UpdateGradientsActive(2)
				UpdateCurrentBeat(16.5)
				UpdateTimelinePending(40)
				RecordFrameLatency(0.3)
				UpdateQueueSize(5)
				UpdateQueueCapacity(100)
				UpdateQueueUtilization(0.05)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				RecordSinkWrite("mqtt")
				RecordSinkError("influx")
				RecordHTTPRequest("/events", "POST", "202")
				RecordHTTPRequestDuration("/events", "POST", "202", 3)
				RecordErrorByComponent("journal", "write")
				RecordErrorByEndpoint("/events", "POST", "bad_request")
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.4)
			}, ShouldNotPanic)

			v, ok := gathered(reg, "lightshow_engine_timeline_pending")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 40.0)
		})
	})
}
