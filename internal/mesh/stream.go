package mesh

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// maxLineSize bounds a single JSON packet line.
const maxLineSize = 1 << 20

// Pump reads newline-delimited JSON packets from r and sends each one to
// feed. Blank lines are ignored; lines that do not decode are logged and
// skipped. On a bounded feed Pump stops reading while the feed is full.
// The feed is closed when Pump returns, whatever the reason.
//
// Returns nil at end of input or if the feed is closed, ctx.Err() if the
// context ends, or the read error.
func Pump(ctx context.Context, r io.Reader, feed *Feed, logger *slog.Logger) error {
	defer feed.Close()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return err
		}

		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			logger.Warn("skipping malformed event", "line", line, "error", err)
			continue
		}

		if err := feed.Send(ctx, ev); err != nil {
			if errors.Is(err, ErrFeedClosed) {
				return nil
			}
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read events: line %d: %w", line+1, err)
	}
	return nil
}
