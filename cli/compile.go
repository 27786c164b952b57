package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syncbuild/syncbuild/engine/compiler"
)

func CompileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile [file]",
		Short: "Lint and compile integration scripts",
		Long: "Compiles every script declared in the manifest, or a single script " +
			"when a file is given. Model declarations are regenerated first.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			service, err := compiler.NewService(ctx, cfg)
			if err != nil {
				return err
			}
			if err := service.GenerateDeclarations(ctx); err != nil {
				return err
			}
			if len(args) == 1 {
				if !service.CompileFile(ctx, args[0]) {
					return fmt.Errorf("compilation failed for %s", args[0])
				}
				return nil
			}
			if !service.CompileAll(ctx) {
				return fmt.Errorf("compilation failed")
			}
			return nil
		},
	}
}