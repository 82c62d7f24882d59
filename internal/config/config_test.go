package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/lightshow/internal/config"
	"github.com/okian/lightshow/internal/domain/lighting"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.EventQueueSize, convey.ShouldEqual, 4096)
			convey.So(cfg.FrameRate, convey.ShouldEqual, 60)
			convey.So(cfg.BPM, convey.ShouldEqual, 120)
			convey.So(cfg.EmulateLegacyColors, convey.ShouldBeTrue)
			convey.So(cfg.EmulateAdvancedTargeting, convey.ShouldBeTrue)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the palette round-trips through hex", func() {
			p, err := cfg.Palette()
			convey.So(err, convey.ShouldBeNil)
			convey.So(p.Red.Hex(), convey.ShouldEqual, lighting.DefaultPalette().Red.Hex())
			convey.So(p.BlueBoost.Hex(), convey.ShouldEqual, lighting.DefaultPalette().BlueBoost.Hex())
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a config with a bad value", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":   func(c *config.Config) { c.Addr = "" },
			"zero fps":     func(c *config.Config) { c.FrameRate = 0 },
			"huge fps":     func(c *config.Config) { c.FrameRate = config.MaxFrameRate + 1 },
			"negative bpm": func(c *config.Config) { c.BPM = -1 },
			"zero queue":   func(c *config.Config) { c.EventQueueSize = 0 },
			"qos 3":        func(c *config.Config) { c.MQTTQoS = 3 },
			"bad palette":  func(c *config.Config) { c.PaletteRed = "crimson" },
		}
		for name, mutate := range cases {
			convey.Convey("When "+name, func() {
				cfg := config.New(context.Background())
				mutate(cfg)
				err := cfg.Validate()

				convey.Convey("Then validation fails", func() {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})
}
