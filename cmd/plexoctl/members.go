package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/plexo/gateway/internal/auth"
	"github.com/plexo/gateway/internal/model"
	"github.com/plexo/gateway/internal/repository"
)

func membersCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Manage members outside the API",
	}
	cmd.AddCommand(membersBootstrapCmd(opts))
	return cmd
}

// bootstrapOutput is printed by "members bootstrap --format json".
type bootstrapOutput struct {
	MemberID  string `json:"member_id"`
	Email     string `json:"email"`
	Created   bool   `json:"created"`
	KeyID     string `json:"key_id"`
	Key       string `json:"key"`
	KeyPrefix string `json:"key_prefix"`
}

func membersBootstrapCmd(opts *rootOptions) *cobra.Command {
	var name, email, keyName, env, format string

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create an admin member (or reuse one by email) and issue its first API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatPlain, formatJSON); err != nil {
				return err
			}
			return opts.withRepo(cmd, func(ctx context.Context, repo *repository.Repository) error {
				member, created, err := ensureMember(ctx, repo.MemberStore(), name, email)
				if err != nil {
					return err
				}

				issued, err := auth.IssueAPIKey(ctx, repo, member.ID, keyName, env)
				if err != nil {
					return err
				}

				return printBootstrap(cmd.OutOrStdout(), format, bootstrapOutput{
					MemberID:  member.ID.String(),
					Email:     member.Email,
					Created:   created,
					KeyID:     issued.ID,
					Key:       issued.Key,
					KeyPrefix: issued.KeyPrefix,
				})
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "Administrator", "member name")
	cmd.Flags().StringVar(&email, "email", "", "member email")
	cmd.Flags().StringVar(&keyName, "key-name", "bootstrap", "API key name")
	cmd.Flags().StringVar(&env, "env", auth.EnvLive, "key environment (live or test)")
	cmd.Flags().StringVar(&format, "format", formatPlain, "output format: plain or json")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// memberDirectory is the part of the member store bootstrap needs.
type memberDirectory interface {
	GetByEmail(ctx context.Context, email string) (model.Member, error)
	Create(ctx context.Context, in model.CreateMemberInput) (model.Member, error)
}

// ensureMember returns the member with email, creating an admin if none exists.
func ensureMember(ctx context.Context, dir memberDirectory, name, email string) (model.Member, bool, error) {
	member, err := dir.GetByEmail(ctx, email)
	if err == nil {
		return member, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return model.Member{}, false, fmt.Errorf("lookup member: %w", err)
	}

	member, err = dir.Create(ctx, model.CreateMemberInput{
		Name:  name,
		Email: email,
		Role:  model.MemberRoleAdmin,
	})
	if err != nil {
		return model.Member{}, false, fmt.Errorf("create member: %w", err)
	}
	return member, true, nil
}

func printBootstrap(w io.Writer, format string, out bootstrapOutput) error {
	if format == formatJSON {
		return writeJSON(w, out)
	}
	_, err := fmt.Fprintln(w, out.Key)
	return err
}
