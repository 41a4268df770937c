package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/meshsniff/internal/mesh"
	"github.com/roach88/meshsniff/internal/store"
)

// storedData is the JSON written to the decoded column: the packet's Data
// section with the normalized payload under "payload".
type storedData struct {
	Portnum mesh.Port `json:"portnum"`
	Payload any       `json:"payload"`
	mesh.DataHeader
}

// Normalize builds the stored record for an event.
//
// The port column and the portnum inside decoded are both taken from the
// payload's own Port, so they cannot disagree. Structured payloads are
// expanded with every field present. Returns ok=false, with no error, for
// events that are not persisted.
func Normalize(ev mesh.Event) (rec store.PacketRecord, ok bool, err error) {
	var payload any
	switch p := ev.Payload.(type) {
	case mesh.Position:
		payload = p.WithDefaults()
	case mesh.User:
		payload = p.WithDefaults()
	case mesh.Telemetry:
		payload = p
	case mesh.Text:
		payload = string(p)
	case mesh.Unrecognized:
		return store.PacketRecord{}, false, nil
	case nil:
		return store.PacketRecord{}, false, nil
	default:
		return store.PacketRecord{}, false, fmt.Errorf("normalize packet %d: unknown payload type %T", ev.ID, p)
	}

	port := ev.Payload.Port()
	decoded, err := marshalDecoded(storedData{
		Portnum:    port,
		Payload:    payload,
		DataHeader: ev.Header,
	})
	if err != nil {
		return store.PacketRecord{}, false, fmt.Errorf("normalize packet %d: %w", ev.ID, err)
	}

	env := ev.Envelope.WithDefaults()
	return store.PacketRecord{
		From:     int64(env.From),
		To:       int64(env.To),
		Decoded:  decoded,
		ID:       int64(env.ID),
		RxTime:   env.RxTime,
		RxSnr:    env.RxSnr,
		HopLimit: int64(env.HopLimit),
		RxRssi:   int64(env.RxRssi),
		Channel:  int64(env.Channel),
		WantAck:  env.WantAck,
		Priority: env.Priority,
		Delayed:  env.Delayed,
		Port:     string(port),
	}, true, nil
}

// marshalDecoded encodes the decoded column with HTML escaping disabled so
// text payloads are stored as received.
func marshalDecoded(d storedData) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return "", fmt.Errorf("marshal decoded: %w", err)
	}
	// Encoder adds a trailing newline
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
