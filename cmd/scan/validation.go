package scan

import (
	"fmt"
)

// validateScanArgs validates the arguments provided to the scan command.
func validateScanArgs(options *RunOptionsScan, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments %q: use the 'root' flag to choose the workspace", args)
	}
	if options.Root != "" && options.BuildDir != "" && options.Root == options.BuildDir {
		return fmt.Errorf("the 'build-dir' flag must not point to the workspace root itself")
	}
	return nil
}
