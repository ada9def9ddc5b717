package build

import (
	"fmt"

	"github.com/eclipse-score/srclinker/cmd/link"
)

// validateBuildArgs validates the arguments provided to the build command.
func validateBuildArgs(options *RunOptionsBuild, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments %q: use the 'root' flag to choose the workspace", args)
	}
	return link.ValidateOptions(&options.RunOptionsLink)
}
