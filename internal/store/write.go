package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrPortMismatch is returned by Append when a record's port column does
// not match the portnum inside its decoded payload.
var ErrPortMismatch = errors.New("store: port does not match decoded portnum")

// Append inserts a record and returns its assigned rowid.
//
// The insert runs in autocommit mode: when Append returns nil the row is
// committed. rec.RowID is ignored. On error nothing is written.
func (s *Store) Append(ctx context.Context, rec PacketRecord) (int64, error) {
	if err := checkPort(rec); err != nil {
		return 0, fmt.Errorf("append packet %d: %w", rec.ID, err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO packets
		(packet_from, packet_to, decoded, id, rx_time, rx_snr, hop_limit,
		 rx_rssi, channel, want_ack, priority, delayed, port)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.From,
		rec.To,
		rec.Decoded,
		rec.ID,
		rec.RxTime,
		rec.RxSnr,
		rec.HopLimit,
		rec.RxRssi,
		rec.Channel,
		rec.WantAck,
		rec.Priority,
		rec.Delayed,
		rec.Port,
	)
	if err != nil {
		return 0, fmt.Errorf("append packet %d: %w", rec.ID, err)
	}

	rowID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("append packet %d: last insert id: %w", rec.ID, err)
	}

	return rowID, nil
}

// checkPort verifies rec.Port against the portnum embedded in rec.Decoded.
func checkPort(rec PacketRecord) error {
	var header struct {
		Portnum *string `json:"portnum"`
	}
	if err := json.Unmarshal([]byte(rec.Decoded), &header); err != nil {
		return fmt.Errorf("%w: decoded is not a JSON object: %v", ErrPortMismatch, err)
	}
	if header.Portnum == nil {
		return fmt.Errorf("%w: decoded has no portnum", ErrPortMismatch)
	}
	if *header.Portnum != rec.Port {
		return fmt.Errorf("%w: port %q, portnum %q", ErrPortMismatch, rec.Port, *header.Portnum)
	}
	return nil
}
