package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/plexo/gateway/internal/auth"
	"github.com/plexo/gateway/internal/model"
	"github.com/plexo/gateway/internal/repository"
)

func keysCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Issue, list and revoke API keys",
	}
	cmd.AddCommand(keysCreateCmd(opts))
	cmd.AddCommand(keysListCmd(opts))
	cmd.AddCommand(keysRevokeCmd(opts))
	return cmd
}

func keysCreateCmd(opts *rootOptions) *cobra.Command {
	var memberID, name, env, format string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Issue a key for a member; the plaintext is printed once",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatPlain, formatJSON); err != nil {
				return err
			}
			id, err := uuid.Parse(memberID)
			if err != nil {
				return fmt.Errorf("invalid --member-id: %w", err)
			}
			return opts.withRepo(cmd, func(ctx context.Context, repo *repository.Repository) error {
				issued, err := auth.IssueAPIKey(ctx, repo, id, name, env)
				if err != nil {
					return err
				}
				return printIssued(cmd.OutOrStdout(), format, issued)
			})
		},
	}

	cmd.Flags().StringVar(&memberID, "member-id", "", "owning member id")
	cmd.Flags().StringVar(&name, "name", "", "key name")
	cmd.Flags().StringVar(&env, "env", auth.EnvLive, "key environment (live or test)")
	cmd.Flags().StringVar(&format, "format", formatPlain, "output format: plain or json")
	_ = cmd.MarkFlagRequired("member-id")
	return cmd
}

func keysListCmd(opts *rootOptions) *cobra.Command {
	var memberID, format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a member's keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatTable, formatJSON); err != nil {
				return err
			}
			id, err := uuid.Parse(memberID)
			if err != nil {
				return fmt.Errorf("invalid --member-id: %w", err)
			}
			return opts.withRepo(cmd, func(ctx context.Context, repo *repository.Repository) error {
				keys, err := repo.ListAPIKeysByMember(ctx, id)
				if err != nil {
					return err
				}
				if format == formatJSON {
					if keys == nil {
						keys = []*model.APIKey{}
					}
					return writeJSON(cmd.OutOrStdout(), keys)
				}
				renderKeys(cmd.OutOrStdout(), keys)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&memberID, "member-id", "", "owning member id")
	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table or json")
	_ = cmd.MarkFlagRequired("member-id")
	return cmd
}

func keysRevokeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <key-id>",
		Short: "Revoke a key; requests using it fail from then on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRepo(cmd, func(ctx context.Context, repo *repository.Repository) error {
				if err := repo.RevokeAPIKey(ctx, args[0]); err != nil {
					return fmt.Errorf("revoke %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "revoked %s\n", args[0])
				return nil
			})
		},
	}
}

func printIssued(w io.Writer, format string, issued *model.APIKeyCreateResponse) error {
	if format == formatJSON {
		return writeJSON(w, issued)
	}
	_, err := fmt.Fprintln(w, issued.Key)
	return err
}

func renderKeys(w io.Writer, keys []*model.APIKey) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"ID", "Prefix", "Name", "Created", "Last used", "Status"})
	for _, k := range keys {
		status := "active"
		if k.IsRevoked() {
			status = "revoked"
		}
		tw.AppendRow(table.Row{k.ID, k.KeyPrefix, k.Name, formatTime(&k.CreatedAt), formatTime(k.LastUsedAt), status})
	}
	tw.Render()
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
