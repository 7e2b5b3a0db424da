// Command plexoctl administers a Plexo gateway database: schema migrations,
// the first member and API keys.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/plexo/gateway/internal/repository"
)

const (
	formatPlain = "plain"
	formatJSON  = "json"
	formatTable = "table"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	databaseURL string
	timeout     time.Duration
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "plexoctl",
		Short: "Plexo gateway administration",
		Long: `plexoctl manages what the gateway itself cannot: the database schema,
the first member (member endpoints need an API key) and API keys.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall command timeout")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to stderr")

	root.AddCommand(migrateCmd(opts))
	root.AddCommand(membersCmd(opts))
	root.AddCommand(keysCmd(opts))
	return root
}

var errNoDatabaseURL = errors.New("--database-url or DATABASE_URL is required")

func (o *rootOptions) requireDatabaseURL() error {
	if o.databaseURL == "" {
		return errNoDatabaseURL
	}
	return nil
}

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// withRepo opens the repository for the duration of fn.
func (o *rootOptions) withRepo(cmd *cobra.Command, fn func(ctx context.Context, repo *repository.Repository) error) error {
	if err := o.requireDatabaseURL(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
	defer cancel()

	repo, err := repository.New(ctx, o.databaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer repo.Close()

	return fn(ctx, repo)
}

func checkFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if strings.EqualFold(format, a) {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q; use %s", format, strings.Join(allowed, " or "))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
