package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
)

// createTestStore creates a new writer store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecord creates a text message record with minimal required fields.
func createTestRecord(id, rxTime int64) PacketRecord {
	return PacketRecord{
		From:     1,
		To:       2,
		Decoded:  fmt.Sprintf(`{"portnum":"TEXT_MESSAGE_APP","payload":"msg %d"}`, id),
		ID:       id,
		RxTime:   rxTime,
		RxSnr:    6.25,
		HopLimit: 3,
		RxRssi:   -42,
		Channel:  0,
		WantAck:  false,
		Priority: "UNSET",
		Delayed:  "NO_DELAY",
		Port:     "TEXT_MESSAGE_APP",
	}
}

// appendAll appends records in order and returns their rowids.
func appendAll(t *testing.T, s *Store, recs ...PacketRecord) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(recs))
	for _, rec := range recs {
		id, err := s.Append(context.Background(), rec)
		if err != nil {
			t.Fatalf("Append() failed: %v", err)
		}
		ids = append(ids, id)
	}
	return ids
}

func rowIDs(recs []PacketRecord) []int64 {
	ids := make([]int64, len(recs))
	for i, r := range recs {
		ids[i] = r.RowID
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
