package mqtt

import (
	"encoding/json"
	"time"

	"github.com/okian/lightshow/internal/adapters/repository"
)

// StatePayload is the JSON document published for a light.
type StatePayload struct {
	Group      string  `json:"group"`
	Index      int     `json:"index"`
	Color      string  `json:"color"`
	R          uint8   `json:"r"`
	G          uint8   `json:"g"`
	B          uint8   `json:"b"`
	Brightness float64 `json:"brightness"`
	Effect     string  `json:"effect,omitempty"`
	Value      int     `json:"value"`
	Timestamp  string  `json:"timestamp"`
}

// BuildStatePayload renders one light's state.
func BuildStatePayload(s repository.LightState) StatePayload { //nolint:gocritic // hugeParam: states are copied out of the store
	out := s.Output()
	r, g, b, a := out.RGBA255()
	return StatePayload{
		Group:      s.Group,
		Index:      s.Index,
		Color:      out.WithAlpha(1).Hex()[:7],
		R:          r,
		G:          g,
		B:          b,
		Brightness: float64(a) / 255,
		Effect:     s.Effect,
		Value:      s.Value,
		Timestamp:  s.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func statusPayload(clientID, status string) []byte {
	b, _ := json.Marshal(map[string]string{ //nolint:errchkjson // string map always marshals
		"status":    status,
		"client_id": clientID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	return b
}
