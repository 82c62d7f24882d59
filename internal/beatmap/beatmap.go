// Package beatmap reads and writes v2 beatmap event files.
package beatmap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/okian/lightshow/internal/domain/model"
	"github.com/okian/lightshow/pkg/logger"
)

// DefaultVersion is written when a beatmap has no version.
const DefaultVersion = "2.2.0"

// Beatmap is a decoded event file.
type Beatmap struct {
	Version string
	Events  []model.Event // sorted by time, stable for equal times
}

type document struct {
	Version string      `json:"_version"`
	Events  []wireEvent `json:"_events"`
}

type wireEvent struct {
	Time   *float64       `json:"_time"`
	Type   *int           `json:"_type"`
	Value  *int           `json:"_value"`
	Custom map[string]any `json:"_customData,omitempty"`
}

// Loader decodes beatmaps. Malformed custom data does not fail the load:
// the event is kept without it and a warning is logged.
type Loader struct {
	logger logger.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the loader's logger.
func WithLogger(l logger.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	ld := &Loader{logger: logger.Nop()}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// LoadFile decodes the beatmap at path.
func (ld *Loader) LoadFile(ctx context.Context, path string) (*Beatmap, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("opening beatmap: %w", err)
	}
	defer f.Close()
	return ld.Load(ctx, f)
}

// Load decodes a beatmap from r.
func (ld *Loader) Load(ctx context.Context, r io.Reader) (*Beatmap, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBeatmap, err)
	}

	bm := &Beatmap{Version: doc.Version, Events: make([]model.Event, 0, len(doc.Events))}
	if bm.Version == "" {
		bm.Version = DefaultVersion
	}
	dropped := 0
	for i, we := range doc.Events {
		if we.Time == nil || we.Type == nil || we.Value == nil {
			return nil, fmt.Errorf("%w: index %d needs _time, _type and _value", ErrInvalidEvent, i)
		}
		ev := model.Event{
			ID:    fmt.Sprintf("bm-%06d", i),
			Type:  *we.Type,
			Value: *we.Value,
			Time:  *we.Time,
		}
		if err := ev.Validate(); err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}

		cd, err := model.DecodeCustomData(we.Custom)
		if err != nil {
			dropped++
			ld.logger.Warn(ctx, "ignoring malformed custom data",
				logger.Int("index", i),
				logger.Float64("time", ev.Time),
				logger.Bool("partial", cd != nil),
				logger.Error(err))
		}
		ev.Custom = cd
		bm.Events = append(bm.Events, ev)
	}

	sort.SliceStable(bm.Events, func(i, j int) bool { return bm.Events[i].Time < bm.Events[j].Time })
	ld.logger.Info(ctx, "beatmap loaded",
		logger.String("version", bm.Version),
		logger.Int("events", len(bm.Events)),
		logger.Int("custom_dropped", dropped))
	return bm, nil
}

// Write encodes events as a v2 beatmap.
func Write(w io.Writer, bm *Beatmap) error {
	doc := document{Version: bm.Version, Events: make([]wireEvent, 0, len(bm.Events))}
	if doc.Version == "" {
		doc.Version = DefaultVersion
	}
	for i := range bm.Events {
		ev := bm.Events[i]
		doc.Events = append(doc.Events, wireEvent{
			Time:   &ev.Time,
			Type:   &ev.Type,
			Value:  &ev.Value,
			Custom: ev.Custom.Map(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding beatmap: %w", err)
	}
	return nil
}
