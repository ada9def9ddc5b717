package link

import (
	"fmt"
	"path/filepath"

	"github.com/eclipse-score/srclinker/pkg/shared/files"
)

// validateLinkArgs validates the arguments provided to the link command.
func validateLinkArgs(options *RunOptionsLink, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments %q", args)
	}
	return ValidateOptions(options)
}

// ValidateOptions checks the link flags shared by the link and build commands.
func ValidateOptions(options *RunOptionsLink) error {
	if options.NeedsFile == "" {
		return fmt.Errorf("the 'needs' flag must be specified")
	}
	if err := files.ValidatePath(options.NeedsFile); err != nil {
		return fmt.Errorf("the needs file is not readable: %w", err)
	}
	if options.SarifOutput != "" && options.Output != "" &&
		filepath.Clean(options.SarifOutput) == filepath.Clean(options.Output) {
		return fmt.Errorf("the 'sarif' and 'output' flags must not point to the same file")
	}
	return nil
}
