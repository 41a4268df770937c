package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/meshsniff/internal/api"
	"github.com/roach88/meshsniff/internal/store"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored packets over HTTP",
		Long: `Serve the packets table as JSON.

The database is opened read-only and must already contain the packets
table, so run ingest against it at least once first. Queries see every
packet committed by a concurrently running ingest.

Routes:
  GET /packets
  GET /packets/after/{rowId}
  GET /packets/one-after/{rowId}
  GET /packets/range/{start}-{end}

Example:
  meshsniff serve --db ./packets.db --addr :5000`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", `listen address (default ":5000")`)

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Serve.Addr = opts.Addr
	}

	logger := newLogger(cfg, cmd.ErrOrStderr())

	logger.Info("opening database", "path", cfg.Database, "read_only", true)
	st, err := store.OpenReadOnly(cfg.Database)
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

	n, err := st.Count(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read database", err)
	}
	logger.Info("database ready", "packets", n)

	router := api.NewRouter(api.NewHandler(st, logger), logger)
	srv := api.NewServer(api.ServerConfig{
		Addr:            cfg.Serve.Addr,
		ReadTimeout:     cfg.Serve.ReadTimeout,
		WriteTimeout:    cfg.Serve.WriteTimeout,
		IdleTimeout:     cfg.Serve.IdleTimeout,
		ShutdownTimeout: cfg.Serve.ShutdownTimeout,
	}, router, logger)

	if err := srv.Run(ctx); err != nil {
		return WrapExitError(ExitFailure, "server error", err)
	}
	return nil
}
