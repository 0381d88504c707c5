package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmcdole/plexskill/internal/domain"
	"github.com/mmcdole/plexskill/internal/mediaserver/plex"
)

const pinTimeout = 5 * time.Minute

func newLoginCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Link this skill to a Plex account with a PIN",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.openSettings()
			if err != nil {
				return err
			}
			info, err := ctx.clientInfo(settings)
			if err != nil {
				return err
			}

			runCtx, cancel := context.WithTimeout(cmd.Context(), pinTimeout+30*time.Second)
			defer cancel()

			auth := plex.NewAuthClient(ctx.cfg.Plex.AccountURL, info, ctx.logger)
			pin, pinID, err := auth.GetPIN(runCtx)
			if err != nil {
				return fmt.Errorf("failed to request PIN: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Open %s and enter the code:\n", plex.LinkURL)
			fmt.Fprintf(out, "\n    %s\n\n", pin)
			fmt.Fprintln(out, "Waiting for authorization... (Ctrl+C to abort)")

			token, err := auth.WaitForPIN(runCtx, pinID, pinTimeout)
			if err != nil {
				return err
			}

			username, err := auth.ValidateToken(runCtx, token)
			if err != nil {
				return fmt.Errorf("token rejected: %w", err)
			}

			if err := settings.Set(domain.SettingToken, token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Fprintf(out, "✓ Linked as %s\n", username)
			return nil
		},
	}
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored Plex token",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.openSettings()
			if err != nil {
				return err
			}
			if err := settings.Delete(domain.SettingToken); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Token removed")
			return nil
		},
	}
}
