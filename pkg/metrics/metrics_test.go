package metrics

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When applying them to a manager", func() {
			registry := prometheus.NewRegistry()
			m := NewManager(
				WithNamespace("ns"),
				WithSubsystem("sub"),
				WithHistogramBuckets([]float64{1, 2}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the manager carries them", func() {
				So(m.namespace, ShouldEqual, "ns")
				So(m.subsystem, ShouldEqual, "sub")
				So(m.histogramBuckets, ShouldResemble, []float64{1, 2})
				So(m.constLabels["env"], ShouldEqual, "test")
				So(m.registry, ShouldEqual, registry)
			})
		})

		Convey("When empty values are given", func() {
			m := NewManager(WithNamespace(""), WithSubsystem(""), WithHistogramBuckets(nil), WithPrometheusRegistry(nil))

			Convey("Then defaults are kept", func() {
				So(m.namespace, ShouldEqual, "reviewlens")
				So(m.subsystem, ShouldEqual, "dashboard")
				So(len(m.histogramBuckets), ShouldBeGreaterThan, 0)
				So(m.registry, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerRegistration(t *testing.T) {
	Convey("Given two managers on separate registries", t, func() {
		Convey("When both are created", func() {
			So(func() {
				NewManager()
				NewManager()
			}, ShouldNotPanic)
		})

		Convey("When a counter is incremented on a private registry", func() {
			registry := prometheus.NewRegistry()
			m := NewManager(WithPrometheusRegistry(registry))
			m.uploads.WithLabelValues("applied").Inc()

			Convey("Then it is gathered under the namespaced name", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "reviewlens_dashboard_uploads_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestGlobalRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording upload and store metrics", func() {
			before := testutil.ToFloat64(globalManager.uploads.WithLabelValues("applied"))
			RecordUpload("applied")
			UpdateStoreReviews(3)
			UpdateStoreVersion(7)
			UpdateStoreBusy(true)

			Convey("Then the collectors reflect the values", func() {
				So(testutil.ToFloat64(globalManager.uploads.WithLabelValues("applied")), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.storeReviews), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.storeVersion), ShouldEqual, 7)
				So(testutil.ToFloat64(globalManager.storeBusy), ShouldEqual, 1)

				UpdateStoreBusy(false)
				So(testutil.ToFloat64(globalManager.storeBusy), ShouldEqual, 0)
			})
		})

		Convey("When recording the remaining metrics", func() {
			Convey("Then none of them panic", func() {
				So(func() {
					RecordStoreReplaceLatency(1.5)
					RecordStoreReplaceError()
					RecordAggregationLatency("summary", 0.2)
					RecordDashboardCacheHit()
					RecordDashboardCacheMiss()
					UpdateQueueSize(2)
					UpdateQueueCapacity(64)
					RecordQueueEnqueue()
					RecordQueueDequeue()
					RecordQueueEnqueueError()
					RecordWorkerJob("applied")
					RecordWorkerProcessingLatency(3)
					UpdateWorkerCount(1)
					RecordHTTPRequest("/summary", "GET", "200")
					RecordHTTPRequestDuration("/summary", "GET", "200", 1)
					RecordErrorByEndpoint("/reviews", "POST", "validation")
					RecordErrorByComponent("scraper", "fetch")
					RecordNotification("success", "feed")
					UpdateWebsocketClients(0)
					RecordScraperPage("ok")
					RecordScraperReviews(20)
					RecordScraperDuplicates(1)
				}, ShouldNotPanic)
			})
		})

		Convey("When the registry is gathered", func() {
			RecordQueueEnqueue()
			families, err := GetRegistry().Gather()

			Convey("Then our metrics are exposed", func() {
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(strings.Join(names, ","), ShouldContainSubstring, "reviewlens_dashboard_upload_queue_enqueued_total")
			})
		})
	})
}

func TestSystemCollector(t *testing.T) {
	Convey("Given the system collector", t, func() {
		Convey("When sampling once", func() {
			CollectSystem()

			Convey("Then goroutines are counted", func() {
				So(testutil.ToFloat64(globalManager.systemGoroutineCount), ShouldBeGreaterThan, 0)
				So(testutil.ToFloat64(globalManager.systemMemoryUsage), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				StartSystemCollector(ctx, time.Millisecond)
				close(done)
			}()
			cancel()

			Convey("Then the collector returns", func() {
				select {
				case <-done:
				case <-time.After(time.Second):
					t.Fatal("collector did not stop")
				}
			})
		})
	})
}
