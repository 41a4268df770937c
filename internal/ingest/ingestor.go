package ingest

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/roach88/meshsniff/internal/mesh"
	"github.com/roach88/meshsniff/internal/store"
)

// Appender is the write side of the store.
type Appender interface {
	Append(ctx context.Context, rec store.PacketRecord) (int64, error)
}

// Subscription yields received events one at a time.
// *mesh.Feed is the production implementation.
type Subscription interface {
	Next(ctx context.Context) (mesh.Event, error)
}

// Outcome describes what HandleEvent did with an event.
type Outcome struct {
	Port   mesh.Port
	Stored bool
	RowID  int64 // zero unless Stored
}

// Stats counts handled events.
type Stats struct {
	Stored  int64
	Dropped int64
}

// Ingestor filters, normalizes and stores received packets.
//
// Thread-safety model:
//   - HandleEvent / Run: one goroutine only (the store's single writer)
//   - Stats: safe from any goroutine
type Ingestor struct {
	store  Appender
	logger *slog.Logger

	stored  atomic.Int64
	dropped atomic.Int64
}

// New creates an Ingestor appending to s.
func New(s Appender, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{store: s, logger: logger}
}

// HandleEvent persists or drops one event.
//
// Dropping is not an error. An accepted event is appended synchronously;
// the append is not cancelled by ctx, so a returned nil error means the
// record is committed. A failed append returns a *FaultError.
func (i *Ingestor) HandleEvent(ctx context.Context, ev mesh.Event) (Outcome, error) {
	out := Outcome{Port: ev.Port()}

	rec, ok, err := Normalize(ev)
	if err != nil {
		return out, &FaultError{PacketID: ev.ID, Port: out.Port, Err: err}
	}
	if !ok {
		i.dropped.Add(1)
		i.logger.Info("packet dropped", "port", out.Port, "id", ev.ID, "from", ev.From)
		return out, nil
	}

	rowID, err := i.store.Append(context.WithoutCancel(ctx), rec)
	if err != nil {
		i.logger.Error("ingestion fault", "port", out.Port, "id", ev.ID, "error", err)
		return out, &FaultError{PacketID: ev.ID, Port: out.Port, Err: err}
	}

	i.stored.Add(1)
	out.Stored = true
	out.RowID = rowID
	i.logger.Info("packet stored",
		"port", out.Port,
		"row_id", rowID,
		"id", ev.ID,
		"from", ev.From,
		"to", ev.To,
		"rx_time", ev.RxTime,
	)
	i.logger.Debug("packet decoded", "row_id", rowID, "decoded", rec.Decoded)
	return out, nil
}

// Run handles events from sub until it is exhausted, ctx ends, or an
// append fails.
//
// Returns nil when sub reports mesh.ErrFeedClosed, ctx.Err() on shutdown,
// and the *FaultError of a failed append. An event already taken from sub
// is always handled to completion before Run checks ctx again.
func (i *Ingestor) Run(ctx context.Context, sub Subscription) error {
	i.logger.Info("ingestor starting")

	for {
		ev, err := sub.Next(ctx)
		if errors.Is(err, mesh.ErrFeedClosed) {
			i.logger.Info("ingestor stopping: feed closed")
			return nil
		}
		if err != nil {
			i.logger.Info("ingestor stopping", "reason", err)
			return err
		}

		if _, err := i.HandleEvent(ctx, ev); err != nil {
			return err
		}
	}
}

// Stats returns the number of events stored and dropped so far.
func (i *Ingestor) Stats() Stats {
	return Stats{Stored: i.stored.Load(), Dropped: i.dropped.Load()}
}
