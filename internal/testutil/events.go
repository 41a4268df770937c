// Package testutil provides mesh packet fixtures shared by package tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/roach88/meshsniff/internal/mesh"
)

// Envelope returns a typical envelope for a packet from `from` to `to`.
func Envelope(from, to, id uint32, rxTime int64) mesh.Envelope {
	return mesh.Envelope{
		From:     from,
		To:       to,
		ID:       id,
		RxTime:   rxTime,
		RxSnr:    6.25,
		HopLimit: 3,
		RxRssi:   -42,
		Channel:  0,
		WantAck:  false,
		Priority: "UNSET",
		Delayed:  "NO_DELAY",
	}
}

// TextEvent creates a TEXT_MESSAGE_APP event.
func TextEvent(from, to, id uint32, rxTime int64, text string) mesh.Event {
	return mesh.Event{
		Envelope: Envelope(from, to, id, rxTime),
		Payload:  mesh.Text(text),
	}
}

// PositionEvent creates a POSITION_APP event.
func PositionEvent(from, id uint32, rxTime int64, pos mesh.Position) mesh.Event {
	return mesh.Event{
		Envelope: Envelope(from, mesh.BroadcastAddr, id, rxTime),
		Payload:  pos,
	}
}

// NodeInfoEvent creates a NODEINFO_APP event.
func NodeInfoEvent(from, id uint32, rxTime int64, user mesh.User) mesh.Event {
	return mesh.Event{
		Envelope: Envelope(from, mesh.BroadcastAddr, id, rxTime),
		Payload:  user,
	}
}

// TelemetryEvent creates a TELEMETRY_APP event.
func TelemetryEvent(from, id uint32, rxTime int64, tel mesh.Telemetry) mesh.Event {
	return mesh.Event{
		Envelope: Envelope(from, mesh.BroadcastAddr, id, rxTime),
		Payload:  tel,
	}
}

// UnrecognizedEvent creates an event with a payload kind that is not decoded.
func UnrecognizedEvent(from, id uint32, rxTime int64, tag mesh.Port) mesh.Event {
	return mesh.Event{
		Envelope: Envelope(from, mesh.BroadcastAddr, id, rxTime),
		Payload:  mesh.Unrecognized{Tag: tag},
	}
}

// NDJSON encodes events as newline-delimited JSON, one per line.
func NDJSON(t *testing.T, events ...mesh.Event) []byte {
	t.Helper()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, ev := range events {
		if err := enc.Encode(ev); err != nil {
			t.Fatalf("encode event %d: %v", ev.ID, err)
		}
	}
	return buf.Bytes()
}
