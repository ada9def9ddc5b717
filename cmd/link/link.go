package link

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/eclipse-score/srclinker/cmd/version"
	"github.com/eclipse-score/srclinker/internal/linker"
	"github.com/eclipse-score/srclinker/internal/needs"
	"github.com/eclipse-score/srclinker/internal/reconciler"
	"github.com/eclipse-score/srclinker/internal/sarif"
	"github.com/eclipse-score/srclinker/pkg/shared/config"
	"github.com/eclipse-score/srclinker/pkg/shared/errors"
	"github.com/eclipse-score/srclinker/pkg/shared/httpclient"
	"github.com/eclipse-score/srclinker/pkg/shared/logger"
)

// RunOptionsLink holds the arguments for the link command.
type RunOptionsLink struct {
	Root          string
	BuildDir      string
	NeedsFile     string
	Output        string
	NeedsVersion  string
	SarifOutput   string
	FailOnWarning bool
}

// Global variables for configuration and command arguments
var (
	AppConfig        *config.Config
	linkOptions      RunOptionsLink
	exampleLinkUsage = `  # Injecting the link cache of BUILD_DIRECTORY into a needs.json in place
  srclinker link --needs _build/needs/needs.json

  # Writing the linked needs to another file and reporting unresolved references as SARIF
  srclinker link --build-dir _build --needs needs.json --output linked.json --sarif unresolved.sarif

  # Failing with exit code 2 when a reference cannot be resolved
  srclinker link --build-dir _build --needs needs.json --fail-on-warning`
)

// LinkCmd represents the link command.
var LinkCmd = &cobra.Command{
	Use:                   "link --needs PATH [--build-dir PATH] [--output PATH] [--sarif PATH] [--fail-on-warning]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleLinkUsage,
	Short:                 "Attaches the cached requirement references to the needs of a needs.json",
	RunE:                  runLinkCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runLinkCommand executes the link command.
func runLinkCommand(cmd *cobra.Command, args []string) error {
	logger := logger.NewLogger(AppConfig, "core-link")

	if err := validateLinkArgs(&linkOptions, args); err != nil {
		logger.Error("invalid link arguments", "error", err)
		return errors.NewCommandError(err, errors.ExitCodeError)
	}

	buildDir, err := linker.ResolveBuildDir(linkOptions.BuildDir, AppConfig.SourceCodeLinker.BuildDirEnv)
	if err != nil {
		logger.Error("link command failed", "error", err)
		return errors.NewCommandError(err, errors.ExitCodeError)
	}

	l := linker.New(linker.OptionsFromConfig(AppConfig), nil, logger)
	if _, err := Link(AppConfig, l, l.CachePath(buildDir), &linkOptions, logger); err != nil {
		return err
	}

	logger.Info("link command completed successfully")
	return nil
}

// Link injects the link cache at cachePath into the configured needs file and reports
// unresolved references. The returned error carries the process exit code.
func Link(cfg *config.Config, l *linker.Linker, cachePath string, opts *RunOptionsLink, logger hclog.Logger) (reconciler.Result, error) {
	scl := cfg.SourceCodeLinker

	root := opts.Root
	if root == "" {
		root = os.Getenv(scl.WorkspaceEnv)
	}

	builder, err := linker.NewLinkBuilder(scl, root, logger)
	if err != nil {
		logger.Error("failed to resolve source code link target", "error", err)
		return reconciler.Result{}, errors.NewCommandError(err, errors.ExitCodeError)
	}

	loader := needs.NewExternalLoader(httpclient.InitializeRestyClient(logger, cfg), logger)
	res, err := l.LinkNeedsFile(cachePath, linker.NeedsFileOptions{
		Input:    opts.NeedsFile,
		Output:   opts.Output,
		Version:  opts.NeedsVersion,
		External: cfg.ExternalNeeds,
		Prefixes: scl.IDPrefixes,
		Link:     builder.Link,
	}, loader)
	if err != nil {
		logger.Error("failed to link needs", "error", err)
		return res, errors.NewCommandError(err, errors.ExitCodeError)
	}

	if opts.SarifOutput != "" {
		report, err := sarif.BuildReport(res.Warnings, version.CoreVersion)
		if err == nil {
			err = sarif.WriteReport(opts.SarifOutput, report)
		}
		if err != nil {
			logger.Error("failed to write SARIF report", "error", err)
			return res, errors.NewCommandError(err, errors.ExitCodeError)
		}
		logger.Info("SARIF report written", "path", opts.SarifOutput, "results", len(res.Warnings))
	}

	if len(res.Warnings) > 0 && opts.FailOnWarning {
		err := fmt.Errorf("%d requirement reference(s) could not be resolved", len(res.Warnings))
		logger.Error("link command failed", "error", err)
		return res, errors.NewCommandError(err, errors.ExitCodeWarnings)
	}
	return res, nil
}

// Initialize flags for the link command.
func init() {
	RegisterFlags(LinkCmd, &linkOptions)
	LinkCmd.Flags().BoolP("help", "h", false, "Show help for the link command.")
}

// RegisterFlags adds the link flags to cmd, storing them in opts.
func RegisterFlags(cmd *cobra.Command, opts *RunOptionsLink) {
	cmd.Flags().StringVar(&opts.Root, "root", "", "Workspace root used to discover the git repository. Defaults to the workspace environment variable (BUILD_WORKSPACE_DIRECTORY).")
	cmd.Flags().StringVar(&opts.BuildDir, "build-dir", "", "Build output directory holding the link cache. Defaults to the build directory environment variable (BUILD_DIRECTORY).")
	cmd.Flags().StringVar(&opts.NeedsFile, "needs", "", "Path to the needs.json export to link.")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Path of the linked needs.json. Defaults to updating the input in place.")
	cmd.Flags().StringVar(&opts.NeedsVersion, "needs-version", "", "Version of the needs.json to link. Defaults to its current_version.")
	cmd.Flags().StringVar(&opts.SarifOutput, "sarif", "", "Path of a SARIF report listing unresolved references.")
	cmd.Flags().BoolVar(&opts.FailOnWarning, "fail-on-warning", false, "Exit with code 2 when a reference cannot be resolved.")
}
