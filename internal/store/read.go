package store

import (
	"context"
	"fmt"
)

const selectPackets = `
	SELECT packet_from, packet_to, decoded, id, rx_time, rx_snr, hop_limit,
	       rx_rssi, channel, want_ack, priority, delayed, port, rowid AS rowid
	FROM packets
`

// QueryAll returns every stored packet ordered by rowid ascending.
//
// All Query methods return an empty slice (not nil) when nothing matches.
func (s *Store) QueryAll(ctx context.Context) ([]PacketRecord, error) {
	return s.selectPackets(ctx, "query all packets", selectPackets+`
		ORDER BY rowid ASC
	`)
}

// QueryAfter returns every packet with rowid strictly greater than rowID,
// ordered by rowid ascending.
func (s *Store) QueryAfter(ctx context.Context, rowID int64) ([]PacketRecord, error) {
	return s.selectPackets(ctx, "query packets after", selectPackets+`
		WHERE rowid > ?
		ORDER BY rowid ASC
	`, rowID)
}

// QueryOneAfter returns at most one packet: the first with rowid strictly
// greater than rowID.
func (s *Store) QueryOneAfter(ctx context.Context, rowID int64) ([]PacketRecord, error) {
	return s.selectPackets(ctx, "query one packet after", selectPackets+`
		WHERE rowid > ?
		ORDER BY rowid ASC
		LIMIT 1
	`, rowID)
}

// QueryRange returns every packet with start <= rx_time <= end, ordered by
// rowid ascending. start > end matches nothing.
func (s *Store) QueryRange(ctx context.Context, start, end int64) ([]PacketRecord, error) {
	return s.selectPackets(ctx, "query packet range", selectPackets+`
		WHERE rx_time >= ? AND rx_time <= ?
		ORDER BY rowid ASC
	`, start, end)
}

// selectPackets runs a packets query on a pooled connection. The rows are
// released before returning on every path.
func (s *Store) selectPackets(ctx context.Context, op, query string, args ...any) ([]PacketRecord, error) {
	records := []PacketRecord{}
	if err := s.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return records, nil
}
