package mesh

import (
	"encoding/json"
	"fmt"
)

// wireDecoded is the JSON shape of a packet's decoded Data section.
type wireDecoded struct {
	Portnum   Port            `json:"portnum"`
	Text      *string         `json:"text,omitempty"`
	Position  json.RawMessage `json:"position,omitempty"`
	User      json.RawMessage `json:"user,omitempty"`
	Telemetry json.RawMessage `json:"telemetry,omitempty"`
	DataHeader
}

// wireEvent is the JSON shape of a received packet.
type wireEvent struct {
	Envelope
	Decoded *wireDecoded `json:"decoded,omitempty"`
}

// UnmarshalJSON decodes a packet in meshtastic JSON form. The payload is
// chosen by decoded.portnum; tags other than the four recognized ports,
// and packets with no decoded section, yield Unrecognized.
func (e *Event) UnmarshalJSON(data []byte) error {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decode packet: %w", err)
	}

	ev := Event{Envelope: w.Envelope}
	if w.Decoded == nil {
		ev.Payload = Unrecognized{}
		*e = ev
		return nil
	}
	ev.Header = w.Decoded.DataHeader

	payload, err := decodePayload(w.Decoded)
	if err != nil {
		return fmt.Errorf("decode packet %d: %w", w.ID, err)
	}
	ev.Payload = payload

	*e = ev
	return nil
}

func decodePayload(d *wireDecoded) (Payload, error) {
	switch d.Portnum {
	case PortPosition:
		var p Position
		if err := decodeSection(d.Portnum, "position", d.Position, &p); err != nil {
			return nil, err
		}
		return p, nil

	case PortNodeInfo:
		var u User
		if err := decodeSection(d.Portnum, "user", d.User, &u); err != nil {
			return nil, err
		}
		return u, nil

	case PortTelemetry:
		var t Telemetry
		if err := decodeSection(d.Portnum, "telemetry", d.Telemetry, &t); err != nil {
			return nil, err
		}
		return t, nil

	case PortTextMessage:
		if d.Text == nil {
			return nil, fmt.Errorf("%s: missing \"text\" payload", d.Portnum)
		}
		return Text(*d.Text), nil

	default:
		return Unrecognized{Tag: d.Portnum}, nil
	}
}

func decodeSection(port Port, key string, raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return fmt.Errorf("%s: missing %q payload", port, key)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%s: %s payload: %w", port, key, err)
	}
	return nil
}

// MarshalJSON encodes the event in the same form UnmarshalJSON accepts.
func (e Event) MarshalJSON() ([]byte, error) {
	w := wireEvent{Envelope: e.Envelope}
	if e.Payload == nil {
		return json.Marshal(w)
	}

	d := &wireDecoded{Portnum: e.Payload.Port(), DataHeader: e.Header}
	var err error
	switch p := e.Payload.(type) {
	case Position:
		d.Position, err = json.Marshal(p)
	case User:
		d.User, err = json.Marshal(p)
	case Telemetry:
		d.Telemetry, err = json.Marshal(p)
	case Text:
		s := string(p)
		d.Text = &s
	case Unrecognized:
	}
	if err != nil {
		return nil, fmt.Errorf("encode packet %d: %w", e.ID, err)
	}

	w.Decoded = d
	return json.Marshal(w)
}
