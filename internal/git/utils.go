package git

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// FindRepositoryRoot returns the closest folder at or above sourceFolder that holds a git repository.
func FindRepositoryRoot(sourceFolder string) (string, error) {
	if sourceFolder == "" {
		return "", ErrSourceFolderNotSet
	}

	folder, err := filepath.Abs(sourceFolder)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", sourceFolder, err)
	}

	// check if source folder is a subfolder of a git repository
	for {
		if _, err := git.PlainOpen(folder); err == nil {
			return filepath.Clean(folder), nil
		}

		parent := filepath.Dir(folder)
		// reached the filesystem root
		if parent == folder {
			break
		}
		folder = parent
	}

	return "", fmt.Errorf("%w: %s", ErrNotRepository, sourceFolder)
}
