package core

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Roulette/internal/domain"
)

// Envelope is the wire framing of every message in both directions:
// {"type":"...","payload":{...}}.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Encode frames an arbitrary payload under the given type.
func Encode(typ string, v any) (Frame, error) {
	env := Envelope{Type: typ}
	if v != nil {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", typ, err)
		}
		env.Payload = b
	}
	b, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode %s envelope: %w", typ, err)
	}
	return b, nil
}

func EncodeEvent(ev domain.Event) (Frame, error) {
	return Encode(ev.Name(), ev)
}
