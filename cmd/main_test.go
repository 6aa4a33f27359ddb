package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/reviewlens/internal/config"
	"github.com/okian/reviewlens/pkg/logger"
)

func get(h http.Handler, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNewApplication(t *testing.T) {
	convey.Convey("Given the default configuration", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		convey.Reset(cancel)

		a, err := newApplication(ctx, config.New(), logger.Nop())
		convey.So(err, convey.ShouldBeNil)
		convey.Reset(a.close)

		convey.Convey("Then the API routes are served", func() {
			w := get(a.handler, "/summary", nil)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"totalCount":3`)
		})

		convey.Convey("Then the API docs are served", func() {
			convey.So(get(a.handler, "/openapi.yaml", nil).Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get(a.handler, "/api-docs", nil).Body.String(), convey.ShouldContainSubstring, "redoc")
		})

		convey.Convey("Then any origin is allowed", func() {
			w := get(a.handler, "/ratings", map[string]string{"Origin": "http://dashboard.local"})
			convey.So(w.Header().Get("Access-Control-Allow-Origin"), convey.ShouldEqual, "*")
		})

		convey.Convey("Then the stream endpoint refuses plain requests", func() {
			w := get(a.handler, "/ws", nil)
			convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
		})

		convey.Convey("Then the service is not started yet", func() {
			convey.So(a.svc.GetStats(ctx)["started"], convey.ShouldEqual, false)
			convey.So(a.nc, convey.ShouldBeNil)
		})
	})

	convey.Convey("Given an unreachable NATS server", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		convey.Reset(cancel)

		cfg := config.New()
		cfg.NATSURL = "nats://127.0.0.1:1"

		convey.Convey("Then wiring fails", func() {
			a, err := newApplication(ctx, cfg, logger.Nop())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(a, convey.ShouldBeNil)
		})
	})
}

func TestConfigFromEnvironment(t *testing.T) {
	convey.Convey("Given configuration in the environment", t, func() {
		t.Setenv("REVIEWLENS_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
		t.Setenv("REVIEWLENS_PAGE_SIZE", "2")
		t.Setenv("REVIEWLENS_CORS_ORIGINS", "http://dashboard.local")

		ctx, cancel := context.WithCancel(context.Background())
		convey.Reset(cancel)

		cfg, err := config.Load(ctx)
		convey.So(err, convey.ShouldBeNil)

		a, err := newApplication(ctx, cfg, logger.Nop())
		convey.So(err, convey.ShouldBeNil)
		convey.Reset(a.close)

		convey.Convey("Then the page size reaches the recent view", func() {
			w := get(a.handler, "/recent", nil)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"pageSize":2`)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"totalPages":2`)
		})

		convey.Convey("Then only the configured origin is allowed", func() {
			w := get(a.handler, "/summary", map[string]string{"Origin": "http://other.local"})
			convey.So(w.Header().Get("Access-Control-Allow-Origin"), convey.ShouldBeEmpty)
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given an initialized logger", t, func() {
		convey.So(logger.InitWithOptions(logger.Options{Output: io.Discard, Level: "error"}), convey.ShouldBeNil)

		cfg := config.New()
		cfg.Addr = "127.0.0.1:0"

		convey.Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			convey.Convey("Then run shuts down cleanly", func() {
				convey.So(run(ctx, cfg), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the address cannot be bound", func() {
			cfg.Addr = "256.0.0.1:bad"
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			convey.Convey("Then the listener error is returned", func() {
				convey.So(run(ctx, cfg), convey.ShouldNotBeNil)
			})
		})
	})
}
