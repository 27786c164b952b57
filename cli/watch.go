package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/syncbuild/syncbuild/engine/compiler"
)

func WatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Recompile scripts as they change",
		Long: "Compiles everything once, then watches the scripts directory and " +
			"rebuilds on changes until interrupted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			service, err := compiler.NewService(ctx, cfg)
			if err != nil {
				return err
			}
			if err := service.GenerateDeclarations(ctx); err != nil {
				return err
			}
			service.CompileAll(ctx)

			if err := service.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
