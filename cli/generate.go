package cli

import (
	"github.com/spf13/cobra"

	"github.com/syncbuild/syncbuild/engine/compiler"
)

func GenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Regenerate the model declarations file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			service, err := compiler.NewService(ctx, cfg)
			if err != nil {
				return err
			}
			return service.GenerateDeclarations(ctx)
		},
	}
}
