package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vidshare/vidshare/internal/core/service"
)

func newAdminCommand(ctx *commandContext) *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Operator tooling for accounts and admin rights",
	}

	adminCmd.AddCommand(&cobra.Command{
		Use:   "grant <user-id>",
		Short: "Give a user admin rights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setAdmin(cmd, ctx, args[0], true)
		},
	})
	adminCmd.AddCommand(&cobra.Command{
		Use:   "revoke <user-id>",
		Short: "Remove a user's admin rights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setAdmin(cmd, ctx, args[0], false)
		},
	})
	adminCmd.AddCommand(&cobra.Command{
		Use:   "confirm <email>",
		Short: "Mark an account's email address as confirmed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, ctx, func(be *backend) error {
				auth := service.NewAuthService(be.users, nil, nil, service.AuthOptions{}, ctx.logger(cmd.ErrOrStderr()))
				if err := auth.ConfirmEmail(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Confirmed %s\n", args[0])
				return nil
			})
		},
	})

	return adminCmd
}

func setAdmin(cmd *cobra.Command, ctx *commandContext, userID string, isAdmin bool) error {
	return withBackend(cmd, ctx, func(be *backend) error {
		cfg, _ := ctx.ensureConfig(cmd.Context())
		profiles := service.NewProfileService(be.profiles, cfg.RetryPolicy(), ctx.logger(cmd.ErrOrStderr()))
		// Make sure the row exists; accounts created while provisioning was
		// failing have none yet.
		if _, err := profiles.EnsureProfile(cmd.Context(), userID); err != nil {
			return err
		}
		if err := profiles.SetAdmin(cmd.Context(), userID, isAdmin); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s admin: %s\n", userID, yesNo(isAdmin))
		return nil
	})
}

func withBackend(cmd *cobra.Command, ctx *commandContext, fn func(*backend) error) error {
	cfg, err := ctx.ensureConfig(cmd.Context())
	if err != nil {
		return err
	}
	be, err := openBackend(cmd.Context(), cfg, ctx.logger(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer func() { _ = be.close(context.Background()) }()
	return fn(be)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
