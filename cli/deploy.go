package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syncbuild/syncbuild/engine/compiler"
	"github.com/syncbuild/syncbuild/engine/deploy"
	"github.com/syncbuild/syncbuild/pkg/logger"
	"github.com/syncbuild/syncbuild/pkg/runtimecfg"
)

func DeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Compile and upload integration scripts to the sync server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			flowVersion, _ := cmd.Flags().GetString("version")
			onlySyncName, _ := cmd.Flags().GetString("sync")
			onlyActionName, _ := cmd.Flags().GetString("action")
			envFile, _ := cmd.Flags().GetString("env-file")

			settings, err := runtimecfg.Load(envFile)
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
			if !service.CompileAll(ctx) {
				return fmt.Errorf("compilation failed, nothing deployed")
			}

			packager := deploy.NewPackager(cfg.ScriptsDir, cfg.OutDir)
			units, err := packager.Package(ctx, service.Integrations(), flowVersion, onlySyncName, onlyActionName)
			if err != nil {
				return err
			}
			if len(units) == 0 {
				logger.FromContext(ctx).Warn("nothing to deploy")
				return nil
			}

			if err := deploy.NewClient(settings).Deploy(ctx, units); err != nil {
				return err
			}
			logger.FromContext(ctx).Info("deployed", "units", len(units), "environment", settings.EnvironmentTag)
			return nil
		},
	}

	cmd.Flags().String("version", "", "Version tag recorded with each deployed flow")
	cmd.Flags().String("sync", "", "Deploy only the named sync")
	cmd.Flags().String("action", "", "Deploy only the named action")
	cmd.Flags().String("env-file", "", "Env file with server credentials")
	return cmd
}
