package influx

import (
	"strconv"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/okian/lightshow/internal/adapters/repository"
	"github.com/okian/lightshow/pkg/metrics"
)

// Measurement is the name every light state point is written under.
const Measurement = "light_state"

const sinkName = "influx"

// PointWriter accepts points without blocking. *Client implements it.
type PointWriter interface {
	WritePoint(p *write.Point)
}

// Sink turns light changes into points.
type Sink struct {
	w PointWriter
}

var _ repository.Listener = (*Sink)(nil)

// NewSink creates a sink writing to w.
func NewSink(w PointWriter) *Sink { return &Sink{w: w} }

// OnChange implements repository.Listener.
func (s *Sink) OnChange(states []repository.LightState) {
	for i := range states {
		s.w.WritePoint(BuildPoint(states[i]))
	}
	metrics.RecordSinkWrite(sinkName)
}

// BuildPoint renders one light's state. Group and light index are tags so
// series stay per light; channels are fields.
func BuildPoint(s repository.LightState) *write.Point { //nolint:gocritic // hugeParam: states are copied out of the store
	out := s.Output()
	fields := map[string]interface{}{
		"r":          out.R,
		"g":          out.G,
		"b":          out.B,
		"alpha":      s.Alpha,
		"multiplier": s.Multiplier,
		"brightness": out.A,
		"value":      s.Value,
	}
	if s.Effect != "" {
		fields["effect"] = s.Effect
	}
	return write.NewPoint(
		Measurement,
		map[string]string{
			"group":    s.Group,
			"light":    strconv.Itoa(s.Index),
			"inverted": strconv.FormatBool(s.Inverted),
		},
		fields,
		s.UpdatedAt,
	)
}
