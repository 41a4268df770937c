package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/meshsniff/internal/ingest"
	"github.com/roach88/meshsniff/internal/mesh"
	"github.com/roach88/meshsniff/internal/store"
)

// IngestOptions holds flags for the ingest command.
type IngestOptions struct {
	*RootOptions
	Input string
}

// IngestSummary is printed when an ingest run ends.
type IngestSummary struct {
	Session string `json:"session"`
	Stored  int64  `json:"stored"`
	Dropped int64  `json:"dropped"`
}

func (s IngestSummary) String() string {
	return fmt.Sprintf("Session %s: stored %d packets, dropped %d.", s.Session, s.Stored, s.Dropped)
}

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IngestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Capture packets into the database",
		Long: `Read decoded packets as newline-delimited JSON and store the recognized ones.

Position, node info, telemetry and text message packets are stored; every
other kind is logged and dropped. Input is read until end of file, SIGINT
or SIGTERM. A failed write stops ingestion with exit code 1.

Example:
  radio-bridge --json | meshsniff ingest --db ./packets.db
  meshsniff ingest --db /tmp/test.db --input capture.ndjson --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Input, "input", "", `packet input file, "-" for stdin (default "-")`)

	return cmd
}

func runIngest(opts *IngestOptions, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("input") {
		cfg.Ingest.Input = opts.Input
	}

	sessions := opts.Sessions
	if sessions == nil {
		sessions = UUIDv7Generator{}
	}
	session := sessions.Generate()
	logger := newLogger(cfg, cmd.ErrOrStderr()).With("session", session)

	in, closeInput, err := openInput(cfg.Ingest.Input, cmd.InOrStdin())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open input", err)
	}
	defer closeInput()

	// Open database (create if not exists)
	logger.Info("opening database", "path", cfg.Database)
	st, err := store.Open(cfg.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	existing, err := st.Count(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read database", err)
	}
	logger.Info("database ready", "packets", existing)

	// One event in flight: the reader waits on each commit rather than
	// queueing ahead of the store.
	feed := mesh.NewBoundedFeed(1)
	pumpErr := make(chan error, 1)
	go func() {
		pumpErr <- mesh.Pump(ctx, in, feed, logger)
	}()

	ing := ingest.New(st, logger)
	runErr := ing.Run(ctx, feed)

	stats := ing.Stats()
	logger.Info("ingest stopped", "stored", stats.Stored, "dropped", stats.Dropped)

	switch {
	case ingest.IsFault(runErr):
		return WrapExitError(ExitFailure, "ingestion faulted", runErr)
	case runErr != nil && !isShutdown(runErr):
		return WrapExitError(ExitFailure, "ingest error", runErr)
	case runErr == nil:
		// The feed closes only once Pump has returned.
		if err := <-pumpErr; err != nil && !isShutdown(err) {
			return WrapExitError(ExitFailure, "failed to read input", err)
		}
	}

	out := &OutputFormatter{Format: cfg.LogFormat, Writer: cmd.OutOrStdout()}
	return out.Success(IngestSummary{
		Session: session,
		Stored:  stats.Stored,
		Dropped: stats.Dropped,
	})
}

// openInput returns the packet source named by path; "-" is stdin.
func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func isShutdown(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
