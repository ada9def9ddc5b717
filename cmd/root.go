package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eclipse-score/srclinker/cmd/build"
	"github.com/eclipse-score/srclinker/cmd/link"
	"github.com/eclipse-score/srclinker/cmd/scan"
	"github.com/eclipse-score/srclinker/cmd/version"
	"github.com/eclipse-score/srclinker/pkg/shared/config"
	"github.com/eclipse-score/srclinker/pkg/shared/errors"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "srclinker [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "srclinker links requirement references in source code to documentation needs.",
		Long: `srclinker scans a workspace for requirement traceability tags, caches the findings in the
build directory and attaches a source code link to every referenced need of a needs.json export.
References to unknown needs are reported as warnings.
`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", fmt.Sprintf("config file (default is %s when present)", config.DefaultConfigFile))
	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.AddCommand(scan.ScanCmd)
	rootCmd.AddCommand(link.LinkCmd)
	rootCmd.AddCommand(build.BuildCmd)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		return errors.ExitCode(err)
	}
	return 0
}

func initConfig() error {
	var err error

	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		return errors.NewCommandError(fmt.Errorf("initializing config failed: %w", err), errors.ExitCodeError)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		return errors.NewCommandError(err, errors.ExitCodeError)
	}

	version.Init(AppConfig)
	scan.Init(AppConfig)
	link.Init(AppConfig)
	build.Init(AppConfig)
	return nil
}
