package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/meshsniff/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	EnvFile    string
	Database   string
	Verbose    bool
	LogFormat  string // "text" | "json"

	// Sessions names ingest runs. If nil, defaults to UUIDv7Generator.
	Sessions SessionGenerator
}

// NewRootCommand creates the root command for the meshsniff CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meshsniff",
		Short: "meshsniff - capture and serve mesh radio packets",
		Long: `Capture decoded mesh radio packets into SQLite and serve them over HTTP.

"meshsniff ingest" stores position, node info, telemetry and text packets
from a radio bridge. "meshsniff serve" answers read-only queries on the
same database file, and may run while ingest is writing.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "dotenv file of MESHSNIFF_* variables")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (default packets.db)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "log format (text|json)")

	// Add subcommands
	cmd.AddCommand(NewIngestCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

// Execute runs the CLI with args and returns the process exit code.
// Errors are reported on stderr in the configured log format.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	code := GetExitCode(err)
	format := config.FormatText
	if f, ferr := cmd.PersistentFlags().GetString("log-format"); ferr == nil && f == config.FormatJSON {
		format = config.FormatJSON
	}
	out := &OutputFormatter{Format: format, Writer: stderr}
	_ = out.Error(fmt.Sprintf("E%03d", code), err.Error())
	return code
}

// loadConfig resolves the effective configuration for cmd: file and
// environment from config.Load, then any flag set on the command line.
func (o *RootOptions) loadConfig(cmd *cobra.Command) (config.Config, error) {
	if o.EnvFile != "" {
		if err := config.LoadEnvFile(o.EnvFile); err != nil {
			return config.Config{}, WrapExitError(ExitCommandError, "invalid configuration", err)
		}
	}

	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Database = o.Database
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = o.LogFormat
	}
	if o.Verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	return cfg, nil
}

// newLogger builds the process logger and installs it as the slog default.
func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	level, _ := cfg.Level() // checked by Validate
	hopts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.LogFormat == config.FormatJSON {
		handler = slog.NewJSONHandler(w, hopts)
	} else {
		handler = slog.NewTextHandler(w, hopts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
