package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/reviewlens/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		setenv("REVIEWLENS_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.PageSize, convey.ShouldEqual, 5)
				convey.So(cfg.TopWords, convey.ShouldEqual, 30)
				convey.So(cfg.CORSOrigins, convey.ShouldResemble, []string{"*"})
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			setenv("REVIEWLENS_ADDR", ":8080")
			setenv("REVIEWLENS_PAGE_SIZE", "10")
			setenv("REVIEWLENS_DEDUPE_UPLOADS", "true")
			setenv("REVIEWLENS_MAX_UPLOAD_BYTES", "2048")
			setenv("REVIEWLENS_CORS_ORIGINS", "http://a.test, http://b.test")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.PageSize, convey.ShouldEqual, 10)
				convey.So(cfg.DedupeUploads, convey.ShouldBeTrue)
				convey.So(cfg.MaxUploadBytes, convey.ShouldEqual, 2048)
				convey.So(cfg.CORSOrigins, convey.ShouldResemble, []string{"http://a.test", "http://b.test"})
			})
		})

		convey.Convey("When loading config with a YAML file and env overrides", func() {
			path := writeTemp(t, "config.yaml", `
addr: ":9090"
top_words: 12
nats_url: "nats://localhost:4222"
`)
			setenv("REVIEWLENS_CONFIG", path)
			setenv("REVIEWLENS_TOP_WORDS", "20")

			cfg, err := config.Load(ctx)

			convey.Convey("Then env wins over file and file wins over defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.TopWords, convey.ShouldEqual, 20)
				convey.So(cfg.NATSURL, convey.ShouldEqual, "nats://localhost:4222")
				convey.So(cfg.PageSize, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When a dotenv file is present", func() {
			path := writeTemp(t, "local.env", "REVIEWLENS_TOP_LOCATIONS=3\n")
			setenv("REVIEWLENS_ENV_FILE", path)
			convey.Reset(func() { _ = os.Unsetenv("REVIEWLENS_TOP_LOCATIONS") })

			cfg, err := config.Load(ctx)

			convey.Convey("Then its values are applied", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.TopLocations, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			setenv("REVIEWLENS_CONFIG", writeTemp(t, "bad.yaml", `invalid: yaml: content: [`))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			setenv("REVIEWLENS_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			setenv("REVIEWLENS_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// setenv sets an environment variable and restores it after each leaf of the current scope.
func setenv(key, value string) {
	old, had := os.LookupEnv(key)
	_ = os.Setenv(key, value)
	convey.Reset(func() {
		if had {
			_ = os.Setenv(key, old)
			return
		}
		_ = os.Unsetenv(key)
	})
}
