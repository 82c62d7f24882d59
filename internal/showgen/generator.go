package showgen

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/okian/lightshow/internal/beatmap"
	"github.com/okian/lightshow/internal/domain/color"
	"github.com/okian/lightshow/internal/domain/easing"
	"github.com/okian/lightshow/internal/domain/model"
)

// Rhythm of the special events, in beats.
const (
	boostEvery    = 16
	rotationEvery = 4
	zoomEvery     = 8
	speedEvery    = 2
	maxLaserSpeed = 8
	colorChance   = 0.1
	gradientBeats = 4
)

var (
	lightTypes = []int{
		model.TypeBackLasers, model.TypeRingLights, model.TypeLeftLasers,
		model.TypeRightLasers, model.TypeCenterLights,
	}
	lightValues = []int{
		model.ValueOff, model.ValueBlueOn, model.ValueBlueFlash, model.ValueBlueFade,
		model.ValueRedOn, model.ValueRedFlash, model.ValueRedFade,
	}
	idNamespace = uuid.MustParse("6f1c1f5e-3b7a-4d52-9a8e-0c3f2f6e9d41")
)

// Generate builds a beatmap from cfg.Seed. Event IDs are name-based UUIDs
// of the seed and position, so regenerating a show yields the same IDs and
// a replayed post is deduplicated by the service.
func Generate(cfg *Config) *beatmap.Beatmap {
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducible shows, not security
	density := cfg.Density
	if density <= 0 {
		density = 1
	}

	var events []model.Event
	add := func(ev model.Event) {
		ev.ID = uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("%d/%d", cfg.Seed, len(events)))).String()
		events = append(events, ev)
	}

	step := 1 / float64(density)
	for i := 0; float64(i)*step < cfg.Beats; i++ {
		t := float64(i) * step
		beat := i / density
		onBeat := i%density == 0

		if onBeat && beat%boostEvery == 0 {
			add(model.Event{Type: model.TypeBoost, Value: (beat / boostEvery) % 2, Time: t})
		}
		if onBeat && beat%rotationEvery == 0 {
			add(model.Event{Type: model.TypeRingRotation, Time: t})
		}
		if onBeat && beat%zoomEvery == 0 {
			add(model.Event{Type: model.TypeRingZoom, Time: t})
		}
		if onBeat && beat%speedEvery == 0 {
			add(model.Event{Type: model.TypeLeftLaserSpeed, Value: rng.Intn(maxLaserSpeed + 1), Time: t})
			add(model.Event{Type: model.TypeRightLaserSpeed, Value: rng.Intn(maxLaserSpeed + 1), Time: t})
		}

		ev := model.Event{
			Type:  lightTypes[rng.Intn(len(lightTypes))],
			Value: lightValues[rng.Intn(len(lightValues))],
			Time:  t,
		}
		if cfg.Gradients && ev.Value != model.ValueOff && rng.Float64() < colorChance {
			ev.Custom = randomCustom(rng)
		}
		add(ev)
	}

	return &beatmap.Beatmap{Version: beatmap.DefaultVersion, Events: events}
}

// randomCustom returns either an explicit color or a gradient.
func randomCustom(rng *rand.Rand) *model.CustomData {
	c := randomColor(rng)
	if rng.Intn(2) == 0 {
		return &model.CustomData{Color: &c}
	}
	return &model.CustomData{Gradient: &model.Gradient{
		Start:    c,
		End:      randomColor(rng),
		Duration: gradientBeats,
		Easing:   easing.Default,
	}}
}

func randomColor(rng *rand.Rand) color.Color {
	return color.RGBA(rng.Float64(), rng.Float64(), rng.Float64(), 1)
}
