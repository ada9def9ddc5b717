package build

import (
	"github.com/spf13/cobra"

	"github.com/eclipse-score/srclinker/cmd/link"
	"github.com/eclipse-score/srclinker/cmd/scan"
	"github.com/eclipse-score/srclinker/internal/linker"
	"github.com/eclipse-score/srclinker/pkg/shared/config"
	"github.com/eclipse-score/srclinker/pkg/shared/errors"
	"github.com/eclipse-score/srclinker/pkg/shared/logger"
)

// RunOptionsBuild holds the arguments for the build command.
type RunOptionsBuild struct {
	link.RunOptionsLink
	SkipRescan bool
}

// Global variables for configuration and command arguments
var (
	AppConfig         *config.Config
	buildOptions      RunOptionsBuild
	exampleBuildUsage = `  # Scanning the workspace and linking the needs.json of the documentation build
  srclinker build --root . --build-dir _build --needs _build/needs/needs.json

  # Reusing the link cache of a previous build and failing on unresolved references
  srclinker build --build-dir _build --needs needs.json --skip-rescan --fail-on-warning`
)

// BuildCmd represents the build command.
var BuildCmd = &cobra.Command{
	Use:                   "build --needs PATH [--root PATH] [--build-dir PATH] [--skip-rescan] [--output PATH] [--sarif PATH] [--fail-on-warning]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleBuildUsage,
	Short:                 "Scans the workspace and links the results into a needs.json in one run",
	RunE:                  runBuildCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runBuildCommand executes the build command.
func runBuildCommand(cmd *cobra.Command, args []string) error {
	logger := logger.NewLogger(AppConfig, "core-build")

	if err := validateBuildArgs(&buildOptions, args); err != nil {
		logger.Error("invalid build arguments", "error", err)
		return errors.NewCommandError(err, errors.ExitCodeError)
	}
	if buildOptions.SkipRescan {
		AppConfig.SourceCodeLinker.SkipRescanning = true
	}

	cachePath, err := scan.Prepare(AppConfig, buildOptions.Root, buildOptions.BuildDir, logger)
	if err != nil {
		logger.Error("build command failed", "error", err)
		return errors.NewCommandError(err, errors.ExitCodeError)
	}

	l := linker.New(linker.OptionsFromConfig(AppConfig), nil, logger)
	if _, err := link.Link(AppConfig, l, cachePath, &buildOptions.RunOptionsLink, logger); err != nil {
		return err
	}

	logger.Info("build command completed successfully")
	return nil
}

// Initialize flags for the build command.
func init() {
	link.RegisterFlags(BuildCmd, &buildOptions.RunOptionsLink)
	BuildCmd.Flags().BoolVar(&buildOptions.SkipRescan, "skip-rescan", false, "Reuse an existing link cache instead of scanning again.")
	BuildCmd.Flags().BoolP("help", "h", false, "Show help for the build command.")
}
