package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmcdole/plexskill/internal/host"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve searches to the voice assistant host",
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen == "" {
				listen = ctx.cfg.Skill.Listen
			}

			provider, err := ctx.newProvider()
			if err != nil {
				return err
			}
			searcher, err := ctx.newSearcher(provider, "http://"+listen+host.IconPath)
			if err != nil {
				return err
			}

			server := host.NewServer(listen, searcher, provider, ctx.logger)

			sigCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", listen)

			select {
			case err := <-errCh:
				return err
			case <-sigCtx.Done():
			}

			ctx.logger.Info("shutting down host bridge")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Stop(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Address to listen on (default from config)")
	return cmd
}
