package version

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/eclipse-score/srclinker/pkg/shared"
	"github.com/eclipse-score/srclinker/pkg/shared/config"
)

var (
	AppConfig     *config.Config
	CoreVersion   = "unknown"
	GolangVersion = "unknown"
	BuildTime     = "unknown"
)

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// Current returns the version information set at build time.
func Current() shared.Versions {
	return shared.Versions{
		Version:       CoreVersion,
		GolangVersion: GolangVersion,
		BuildTime:     BuildTime,
	}
}

// NewVersionCmd creates a new cobra.Command for the version command.
func NewVersionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:                   "version [--json]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Print the version number of the application",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printVersionInfo(cmd.OutOrStdout(), Current(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the version information as JSON.")
	return cmd
}

// printVersionInfo prints the version information of the application.
func printVersionInfo(w io.Writer, versions shared.Versions, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(versions)
	}
	fmt.Fprintf(w, "Core Version: v%s\n", versions.Version)
	fmt.Fprintf(w, "Go Version: %s\n", versions.GolangVersion)
	fmt.Fprintf(w, "Build Time: %s\n", versions.BuildTime)
	return nil
}
