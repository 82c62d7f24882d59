// Package service wires the lighting engine, its player and every sink into
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/okian/lightshow/internal/adapters/clock"
	"github.com/okian/lightshow/internal/adapters/http/stream"
	"github.com/okian/lightshow/internal/adapters/influx"
	"github.com/okian/lightshow/internal/adapters/journal"
	"github.com/okian/lightshow/internal/adapters/mq/queue"
	"github.com/okian/lightshow/internal/adapters/mq/worker"
	"github.com/okian/lightshow/internal/adapters/mqtt"
	"github.com/okian/lightshow/internal/adapters/preview"
	"github.com/okian/lightshow/internal/adapters/repository"
	"github.com/okian/lightshow/internal/beatmap"
	"github.com/okian/lightshow/internal/config"
	"github.com/okian/lightshow/internal/domain/dedupe"
	"github.com/okian/lightshow/internal/domain/lighting"
	"github.com/okian/lightshow/internal/domain/model"
	"github.com/okian/lightshow/internal/rig"
	"github.com/okian/lightshow/pkg/logger"
)

// Service implements the API dependencies for the light show.
type Service struct {
	mu sync.RWMutex

	cfg    *config.Config
	layout *rig.Layout
	clock  lighting.Clock
	screen tcell.Screen

	// Core components
	rig        *rig.Rig
	engine     *lighting.Engine
	store      *repository.StateStore
	deduper    dedupe.Deduper
	eventQueue *queue.InMemoryQueue
	player     *worker.Player
	metronome  *clock.Metronome

	// Optional sinks
	journal    *journal.Journal
	mqttClient *mqtt.Client
	influx     *influx.Client
	preview    *preview.Preview
	hub        *stream.Hub

	// State
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	quit    chan struct{}
	quitMu  sync.Once

	logger logger.Logger
}

// New constructs a new Service. Without WithConfig the defaults are used.
func New(opts ...Option) *Service {
	s := &Service{
		quit:   make(chan struct{}),
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg == nil {
		s.cfg = config.New(context.Background())
	}
	s.hub = stream.NewHub(stream.WithLogger(s.logger.Named("stream")))
	return s
}

// Start wires every component and starts the player. Background goroutines
// live until Stop; ctx only bounds the startup work.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	s.logger.Info(ctx, "starting light show service...")

	runCtx, cancel := context.WithCancel(context.Background())
	if err := s.start(ctx, runCtx); err != nil {
		cancel()
		s.wg.Wait()
		s.closeSinks(ctx)
		return err
	}
	s.cancel = cancel
	s.started = true

	s.logger.Info(ctx, "light show service started",
		logger.Int("groups", len(s.rig.Groups)),
		logger.Int("queueSize", s.cfg.EventQueueSize),
		logger.Int("frameRate", s.cfg.FrameRate),
		logger.Bool("journal", s.journal != nil),
		logger.Bool("mqtt", s.mqttClient != nil),
		logger.Bool("influx", s.influx != nil),
		logger.Bool("preview", s.preview != nil),
	)
	return nil
}

func (s *Service) start(ctx, runCtx context.Context) error {
	cfg := s.cfg

	layout, err := s.loadLayout()
	if err != nil {
		return err
	}
	s.rig, err = rig.Build(layout)
	if err != nil {
		return err
	}
	palette, err := cfg.Palette()
	if err != nil {
		return err
	}

	listeners, err := s.startSinks(ctx, runCtx)
	if err != nil {
		return err
	}
	storeOpts := make([]repository.Option, 0, len(listeners))
	for _, l := range listeners {
		storeOpts = append(storeOpts, repository.WithListener(l))
	}
	s.store = repository.NewStateStore(runCtx, storeOpts...)

	clk := s.clock
	if clk == nil {
		s.metronome = clock.NewMetronome(clock.WithBPM(cfg.BPM))
		clk = s.metronome
	}

	engineOpts := append(s.rig.EngineOptions(),
		lighting.WithPalette(palette),
		lighting.WithEmulation(cfg.Emulation()),
		lighting.WithClock(clk),
		lighting.WithRenderer(s.store),
		lighting.WithLogger(s.logger.Named("engine")),
	)
	s.engine, err = lighting.NewEngine(s.rig.Groups, engineOpts...)
	if err != nil {
		return err
	}
	s.store.Seed(s.rig.Groups)
	if s.preview != nil {
		s.preview.Seed(s.store.Snapshot(ctx))
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(cfg.DedupeSize))
	s.eventQueue = queue.NewInMemoryQueue(queue.WithCapacity(cfg.EventQueueSize))

	playerOpts := []worker.Option{
		worker.WithLogger(s.logger),
		worker.WithFrameRate(cfg.FrameRate),
	}
	if cfg.JournalEnabled {
		s.journal, err = journal.Open(ctx, journal.Config{Path: cfg.JournalPath})
		if err != nil {
			return err
		}
		playerOpts = append(playerOpts, worker.WithJournal(s.journal))
	}
	s.player = worker.NewPlayer(s.engine, clk, s.eventQueue, playerOpts...)

	if cfg.BeatmapPath != "" {
		bm, err := beatmap.NewLoader(beatmap.WithLogger(s.logger)).LoadFile(ctx, cfg.BeatmapPath)
		if err != nil {
			return err
		}
		s.player.Preload(bm.Events...)
		s.logger.Info(ctx, "beatmap loaded",
			logger.String("path", cfg.BeatmapPath),
			logger.String("version", bm.Version),
			logger.Int("events", len(bm.Events)),
		)
	}

	s.goRun(func() { s.player.Run(runCtx) })
	if s.preview != nil {
		s.goRun(func() {
			if err := s.preview.Run(runCtx); err != nil {
				s.logger.Error(runCtx, "preview stopped", logger.Error(err))
			}
		})
	}
	if s.metronome != nil {
		s.metronome.Start()
	}
	return nil
}

func (s *Service) loadLayout() (rig.Layout, error) {
	switch {
	case s.layout != nil:
		return *s.layout, nil
	case s.cfg.RigPath != "":
		return rig.LoadFile(s.cfg.RigPath)
	default:
		return rig.Default(), nil
	}
}

// startSinks connects the optional outputs and returns them as store
// listeners.
func (s *Service) startSinks(ctx, runCtx context.Context) ([]repository.Listener, error) {
	cfg := s.cfg
	listeners := []repository.Listener{s.hub}
	s.goRun(func() { s.hub.Run(runCtx) })

	if cfg.MQTTEnabled {
		client, err := mqtt.Connect(mqtt.Config{
			Host:        cfg.MQTTHost,
			Port:        cfg.MQTTPort,
			ClientID:    cfg.MQTTClientID,
			TopicPrefix: cfg.MQTTTopicPrefix,
			QoS:         byte(cfg.MQTTQoS),
		})
		if err != nil {
			return nil, fmt.Errorf("mqtt: %w", err)
		}
		s.mqttClient = client
		sink := mqtt.NewSink(client,
			mqtt.WithTopicPrefix(cfg.MQTTTopicPrefix),
			mqtt.WithLogger(s.logger.Named("mqtt")),
		)
		s.goRun(func() { sink.Run(runCtx) })
		listeners = append(listeners, sink)
	}

	if cfg.InfluxEnabled {
		client, err := influx.Connect(ctx, influx.Config{
			URL:    cfg.InfluxURL,
			Token:  cfg.InfluxToken,
			Org:    cfg.InfluxOrg,
			Bucket: cfg.InfluxBucket,
		})
		if err != nil {
			return nil, fmt.Errorf("influx: %w", err)
		}
		log := s.logger.Named("influx")
		client.SetOnError(func(err error) {
			log.Warn(runCtx, "influx write failed", logger.Error(err))
		})
		s.influx = client
		listeners = append(listeners, influx.NewSink(client))
	}

	if cfg.PreviewEnabled {
		screen := s.screen
		if screen == nil {
			var err error
			if screen, err = tcell.NewScreen(); err != nil {
				return nil, fmt.Errorf("preview: %w", err)
			}
		}
		s.preview = preview.New(screen,
			preview.WithOnQuit(s.signalQuit),
			preview.WithStatus(s.status),
		)
		listeners = append(listeners, s.preview)
	}
	return listeners, nil
}

func (s *Service) goRun(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

func (s *Service) signalQuit() {
	s.quitMu.Do(func() { close(s.quit) })
}

// Stream serves the WebSocket feed of light changes.
func (s *Service) Stream() http.Handler {
	return s.hub
}

// Quit is closed when the operator quits the preview.
func (s *Service) Quit() <-chan struct{} {
	return s.quit
}

func (s *Service) status() string {
	st := s.player.Stats()
	return fmt.Sprintf("beat %8.2f  dispatched %d  pending %d  q quits", st.Beat, st.Dispatched, st.Pending)
}

// Stop drains the queue, stops the player and closes every sink.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(ctx, "stopping light show service...")

	_ = s.eventQueue.Close()
	if err := s.player.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "player shutdown", logger.Error(err))
	}
	if s.metronome != nil {
		s.metronome.Pause()
	}
	s.cancel()
	s.wg.Wait()

	_ = s.store.Close()
	s.closeSinks(ctx)

	s.started = false
	s.logger.Info(ctx, "light show service stopped")
}

func (s *Service) closeSinks(ctx context.Context) {
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			s.logger.Warn(ctx, "journal close", logger.Error(err))
		}
		s.journal = nil
	}
	if s.influx != nil {
		_ = s.influx.Close()
		s.influx = nil
	}
	if s.mqttClient != nil {
		_ = s.mqttClient.Close()
		s.mqttClient = nil
	}
}

func (s *Service) running() (*worker.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.player, nil
}

// SeenAndRecord atomically checks if an event id was seen and records it if not.
// Before Start nothing has been seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	if s.deduper == nil {
		return false
	}
	return s.deduper.SeenAndRecord(ctx, id)
}

// Unrecord removes an event ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	if s.deduper == nil {
		return
	}
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Enqueue hands a live event to the player.
func (s *Service) Enqueue(ctx context.Context, e model.Event) error { //nolint:gocritic // hugeParam: events are values
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	s.logger.Debug(ctx, "enqueueing live event",
		logger.String("eventID", e.ID),
		logger.Int("type", e.Type),
		logger.Int("value", e.Value),
		logger.Float64("time", e.Time),
	)
	return s.eventQueue.Enqueue(ctx, e)
}

// SetSolo restricts dispatch to one event type, or lifts the restriction.
func (s *Service) SetSolo(ctx context.Context, active bool, eventType int) error {
	return s.do(ctx, func(_ context.Context, e *lighting.Engine) { e.SetSolo(active, eventType) })
}

// Kill turns every light off, or with overrides drops every gradient and
// solid color override.
func (s *Service) Kill(ctx context.Context, overrides bool) error {
	return s.do(ctx, func(ctx context.Context, e *lighting.Engine) {
		if overrides {
			e.KillAllOverrides(ctx)
			return
		}
		e.KillLights(ctx)
	})
}

// Refresh resets every light to its base color, dark.
func (s *Service) Refresh(ctx context.Context) error {
	return s.do(ctx, func(ctx context.Context, e *lighting.Engine) { e.Refresh(ctx) })
}

// SetEmulation switches the emulation flags for subsequent events.
func (s *Service) SetEmulation(ctx context.Context, flags lighting.Emulation) error {
	return s.do(ctx, func(ctx context.Context, e *lighting.Engine) {
		e.SetEmulation(flags)
		s.logger.Info(ctx, "emulation changed",
			logger.Bool("legacyColors", flags.LegacyColors),
			logger.Bool("advancedTargeting", flags.AdvancedTargeting))
	})
}

// EngineSnapshot copies engine state on the player goroutine.
func (s *Service) EngineSnapshot(ctx context.Context) (lighting.Snapshot, error) {
	var snap lighting.Snapshot
	err := s.do(ctx, func(_ context.Context, e *lighting.Engine) { snap = e.Snapshot() })
	return snap, err
}

func (s *Service) do(ctx context.Context, fn func(ctx context.Context, e *lighting.Engine)) error {
	p, err := s.running()
	if err != nil {
		return err
	}
	return p.Do(ctx, fn)
}

// Lights returns the rendered state of one group.
func (s *Service) Lights(ctx context.Context, group string) ([]repository.LightState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store.Lights(ctx, group)
}

// HealthChecks returns a probe per connected external dependency.
func (s *Service) HealthChecks() map[string]func(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	checks := make(map[string]func(ctx context.Context) error)
	if s.journal != nil {
		checks["journal"] = s.journal.HealthCheck
	}
	if s.influx != nil {
		checks["influx"] = s.influx.HealthCheck
	}
	if c := s.mqttClient; c != nil {
		checks["mqtt"] = func(context.Context) error {
			if !c.IsConnected() {
				return mqtt.ErrNotConnected
			}
			return nil
		}
	}
	return checks
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":    s.started,
		"queueSize":  s.cfg.EventQueueSize,
		"dedupeSize": s.cfg.DedupeSize,
		"frameRate":  s.cfg.FrameRate,
		"bpm":        s.cfg.BPM,
	}
	if !s.started {
		return stats
	}

	ps := s.player.Stats()
	stats["queueLength"] = s.eventQueue.Len()
	stats["dispatched"] = ps.Dispatched
	stats["pending"] = ps.Pending
	stats["beat"] = ps.Beat
	stats["nextBeat"] = ps.NextBeat
	stats["lights"] = s.store.Count(ctx)
	stats["dedupeEntries"] = s.deduper.Size()
	stats["streamClients"] = s.hub.ClientCount()
	if s.journal != nil {
		if n, err := s.journal.Count(ctx); err == nil {
			stats["journalEntries"] = n
		}
	}
	return stats
}
