package store

import (
	"context"
	"errors"
	"testing"
)

func TestAppend_Basic(t *testing.T) {
	s := createTestStore(t)

	rec := createTestRecord(10, 1000)
	rec.From = 0xFFFFFFFF
	rec.WantAck = true

	rowID, err := s.Append(context.Background(), rec)
	if err != nil {
		t.Fatalf("Append() failed: %v", err)
	}
	if rowID != 1 {
		t.Errorf("rowid = %d, want 1", rowID)
	}

	// Verify stored as individual columns
	var from, id, rxTime, wantAck int64
	var port, decoded string
	err = s.db.QueryRow(`
		SELECT packet_from, id, rx_time, want_ack, port, decoded
		FROM packets
		WHERE rowid = ?
	`, rowID).Scan(&from, &id, &rxTime, &wantAck, &port, &decoded)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	if from != 0xFFFFFFFF {
		t.Errorf("packet_from = %d, want %d", from, int64(0xFFFFFFFF))
	}
	if id != 10 {
		t.Errorf("id = %d, want 10", id)
	}
	if rxTime != 1000 {
		t.Errorf("rx_time = %d, want 1000", rxTime)
	}
	if wantAck != 1 {
		t.Errorf("want_ack = %d, want 1", wantAck)
	}
	if port != "TEXT_MESSAGE_APP" {
		t.Errorf("port = %q, want TEXT_MESSAGE_APP", port)
	}
	if decoded != rec.Decoded {
		t.Errorf("decoded = %q, want %q", decoded, rec.Decoded)
	}
}

func TestAppend_RowIDsStrictlyIncrease(t *testing.T) {
	s := createTestStore(t)

	var recs []PacketRecord
	for i := int64(1); i <= 5; i++ {
		// Application ids repeat; rowids must not.
		recs = append(recs, createTestRecord(42, 100*i))
	}

	ids := appendAll(t, s, recs...)

	if !equalIDs(ids, []int64{1, 2, 3, 4, 5}) {
		t.Errorf("rowids = %v, want [1 2 3 4 5]", ids)
	}
}

func TestAppend_IgnoresInputRowID(t *testing.T) {
	s := createTestStore(t)

	rec := createTestRecord(1, 100)
	rec.RowID = 99

	rowID, err := s.Append(context.Background(), rec)
	if err != nil {
		t.Fatalf("Append() failed: %v", err)
	}
	if rowID != 1 {
		t.Errorf("rowid = %d, want 1", rowID)
	}
}

func TestAppend_PortMismatch(t *testing.T) {
	tests := []struct {
		name    string
		port    string
		decoded string
	}{
		{"different tag", "POSITION_APP", `{"portnum":"TEXT_MESSAGE_APP","payload":"hi"}`},
		{"missing portnum", "TEXT_MESSAGE_APP", `{"payload":"hi"}`},
		{"not json", "TEXT_MESSAGE_APP", `hi`},
		{"empty port", "", `{"portnum":"TEXT_MESSAGE_APP"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := createTestStore(t)

			rec := createTestRecord(1, 100)
			rec.Port = tt.port
			rec.Decoded = tt.decoded

			_, err := s.Append(context.Background(), rec)
			if !errors.Is(err, ErrPortMismatch) {
				t.Fatalf("Append() error = %v, want ErrPortMismatch", err)
			}

			n, err := s.Count(context.Background())
			if err != nil {
				t.Fatalf("Count() failed: %v", err)
			}
			if n != 0 {
				t.Errorf("Count() = %d after rejected append, want 0", n)
			}
		})
	}
}

func TestAppend_FailsOnClosedStore(t *testing.T) {
	s := createTestStore(t)
	s.Close()

	if _, err := s.Append(context.Background(), createTestRecord(1, 100)); err == nil {
		t.Error("Append() on closed store should fail")
	}
}
