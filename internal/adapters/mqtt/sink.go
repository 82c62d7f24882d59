package mqtt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/okian/lightshow/internal/adapters/repository"
	"github.com/okian/lightshow/pkg/logger"
	"github.com/okian/lightshow/pkg/metrics"
)

const (
	sinkName          = "mqtt"
	defaultBufferSize = 1024
)

// Publisher sends a payload to a topic. *Client implements it.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// Sink forwards light changes to a Publisher.
type Sink struct {
	pub     Publisher
	topics  Topics
	updates chan repository.LightState
	logger  logger.Logger
}

var _ repository.Listener = (*Sink)(nil)

// SinkOption configures a Sink.
type SinkOption func(*Sink)

// WithTopicPrefix sets the root of the topic tree.
func WithTopicPrefix(prefix string) SinkOption {
	return func(s *Sink) { s.topics = Topics{Prefix: prefix} }
}

// WithBufferSize bounds the number of pending updates.
func WithBufferSize(n int) SinkOption {
	return func(s *Sink) {
		if n > 0 {
			s.updates = make(chan repository.LightState, n)
		}
	}
}

// WithLogger sets the sink logger.
func WithLogger(l logger.Logger) SinkOption {
	return func(s *Sink) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSink creates a sink. Run must be started for anything to be published.
func NewSink(pub Publisher, opts ...SinkOption) *Sink {
	s := &Sink{
		pub:     pub,
		topics:  Topics{Prefix: DefaultTopicPrefix},
		updates: make(chan repository.LightState, defaultBufferSize),
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnChange implements repository.Listener. It never blocks.
func (s *Sink) OnChange(states []repository.LightState) {
	for i := range states {
		select {
		case s.updates <- states[i]:
		default:
			metrics.RecordSinkError(sinkName)
			metrics.RecordErrorByComponent(sinkName, "buffer_full")
		}
	}
}

// Run publishes updates until ctx is done. Updates that pile up for the
// same light are coalesced so only the latest is sent.
func (s *Sink) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case st := <-s.updates:
			batch := map[string]repository.LightState{s.topic(st): st}
			order := []string{s.topic(st)}
		drain:
			for {
				select {
				case next := <-s.updates:
					t := s.topic(next)
					if _, seen := batch[t]; !seen {
						order = append(order, t)
					}
					batch[t] = next
				default:
					break drain
				}
			}
			for _, t := range order {
				if err := s.publish(t, batch[t]); err != nil {
					metrics.RecordSinkError(sinkName)
					s.logger.Warn(ctx, "light state publish failed",
						logger.String("topic", t),
						logger.Error(err))
				}
			}
		}
	}
}

func (s *Sink) topic(st repository.LightState) string { //nolint:gocritic // hugeParam: state value
	return s.topics.LightState(st.Group, st.Index)
}

func (s *Sink) publish(topic string, st repository.LightState) error { //nolint:gocritic // hugeParam: state value
	payload, err := json.Marshal(BuildStatePayload(st))
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := s.pub.Publish(topic, payload); err != nil {
		return err
	}
	metrics.RecordSinkWrite(sinkName)
	return nil
}
