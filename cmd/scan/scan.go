package scan

import (
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/eclipse-score/srclinker/internal/linker"
	"github.com/eclipse-score/srclinker/internal/scanner"
	"github.com/eclipse-score/srclinker/pkg/shared/config"
	"github.com/eclipse-score/srclinker/pkg/shared/errors"
	"github.com/eclipse-score/srclinker/pkg/shared/logger"
)

// RunOptionsScan holds the arguments for the scan command.
type RunOptionsScan struct {
	Root       string
	BuildDir   string
	SkipRescan bool
}

// Global variables for configuration and command arguments
var (
	AppConfig        *config.Config
	scanOptions      RunOptionsScan
	exampleScanUsage = `  # Scanning the workspace named by BUILD_WORKSPACE_DIRECTORY into BUILD_DIRECTORY
  srclinker scan

  # Scanning a specific workspace into a specific build directory
  srclinker scan --root /path/to/workspace --build-dir /path/to/workspace/_build

  # Reusing an existing link cache
  srclinker scan --build-dir _build --skip-rescan`
)

// ScanCmd represents the scan command.
var ScanCmd = &cobra.Command{
	Use:                   "scan [--root PATH] [--build-dir PATH] [--skip-rescan]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleScanUsage,
	Short:                 "Scans a workspace for requirement references and writes the link cache",
	RunE:                  runScanCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runScanCommand executes the scan command.
func runScanCommand(cmd *cobra.Command, args []string) error {
	logger := logger.NewLogger(AppConfig, "core-scan")

	if err := validateScanArgs(&scanOptions, args); err != nil {
		logger.Error("invalid scan arguments", "error", err)
		return errors.NewCommandError(err, errors.ExitCodeError)
	}
	if scanOptions.SkipRescan {
		AppConfig.SourceCodeLinker.SkipRescanning = true
	}

	if _, err := Prepare(AppConfig, scanOptions.Root, scanOptions.BuildDir, logger); err != nil {
		logger.Error("scan command failed", "error", err)
		return errors.NewCommandError(err, errors.ExitCodeError)
	}

	logger.Info("scan command completed successfully")
	return nil
}

// Prepare resolves the workspace root and build directory and writes the link cache.
// It returns the cache path.
func Prepare(cfg *config.Config, rootFlag, buildDirFlag string, logger hclog.Logger) (string, error) {
	scl := cfg.SourceCodeLinker

	root, err := linker.ResolveWorkspaceRoot(rootFlag, scl.WorkspaceEnv)
	if err != nil {
		return "", err
	}
	buildDir, err := linker.ResolveBuildDir(buildDirFlag, scl.BuildDirEnv)
	if err != nil {
		return "", err
	}

	opts := scanner.OptionsFromConfig(cfg)
	if opts.RelativeTo, err = linker.RelativeRoot(scl.RelativeTo, root); err != nil {
		return "", err
	}

	s := scanner.New(opts, logger)
	l := linker.New(linker.OptionsFromConfig(cfg), s.Scan, logger)
	cachePath, _, err := l.Prepare(root, buildDir)
	return cachePath, err
}

// Initialize flags for the scan command.
func init() {
	ScanCmd.Flags().StringVar(&scanOptions.Root, "root", "", "Workspace root to scan. Defaults to the workspace environment variable (BUILD_WORKSPACE_DIRECTORY).")
	ScanCmd.Flags().StringVar(&scanOptions.BuildDir, "build-dir", "", "Build output directory that receives the link cache. Defaults to the build directory environment variable (BUILD_DIRECTORY).")
	ScanCmd.Flags().BoolVar(&scanOptions.SkipRescan, "skip-rescan", false, "Reuse an existing link cache instead of scanning again.")
	ScanCmd.Flags().BoolP("help", "h", false, "Show help for the scan command.")
}
