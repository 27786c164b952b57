package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syncbuild/syncbuild/engine/compiler"
	"github.com/syncbuild/syncbuild/pkg/logger"
	"github.com/syncbuild/syncbuild/pkg/version"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "syncbuild",
		Short:        "Build and deploy integration scripts",
		Version:      version.Version,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("dir", ".", "Directory containing the manifest and scripts")
	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")

	root.AddCommand(
		CompileCmd(),
		WatchCmd(),
		GenerateCmd(),
		DeployCmd(),
	)

	return root
}

// setup resolves the shared flags into a logging context and the project
// layout.
func setup(cmd *cobra.Command) (context.Context, compiler.Config, error) {
	logLevel, logJSON, err := logger.GetLoggerConfig(cmd)
	if err != nil {
		return nil, compiler.Config{}, err
	}
	logger.SetupLogger(logLevel, logJSON)

	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return nil, compiler.Config{}, fmt.Errorf("failed to get dir flag: %w", err)
	}
	ctx := logger.ContextWithLogger(cmd.Context(), logger.GetDefault())
	return ctx, compiler.DefaultConfig(dir), nil
}
