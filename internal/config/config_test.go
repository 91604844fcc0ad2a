package config_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/brandhealth/internal/config"
	"github.com/okian/brandhealth/internal/domain/engine"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.DataPath, convey.ShouldBeEmpty)
			convey.So(cfg.QuadrantStrategy, convey.ShouldEqual, "fixed")
			convey.So(cfg.Midpoints(), convey.ShouldResemble, engine.DefaultMidpoints)
			convey.So(cfg.ShutdownTimeout(), convey.ShouldEqual, 5*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with bad fields", t, func() {
		mutations := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"empty addr", func(c *config.Config) { c.Addr = " " }},
			{"xml logs", func(c *config.Config) { c.LogFormat = "xml" }},
			{"unknown strategy", func(c *config.Config) { c.QuadrantStrategy = "kmeans" }},
			{"midpoint above 100", func(c *config.Config) { c.PerformanceMidpoint = 150 }},
			{"zero shutdown timeout", func(c *config.Config) { c.ShutdownTimeoutMS = 0 }},
		}
		for _, m := range mutations {
			convey.Convey("When the config has "+m.name, func() {
				cfg := config.New(context.Background())
				m.mutate(cfg)

				convey.Convey("Then validation should fail with ErrInvalidConfig", func() {
					convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})
}
