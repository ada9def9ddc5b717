// Package git reads the repository facts needed to turn source locations into links.
package git

import (
	"fmt"

	"github.com/go-git/go-git/v5"
)

// RepositoryMetadata describes the repository that encloses a source folder.
type RepositoryMetadata struct {
	RepoRootFolder string
	BranchName     *string // nil when HEAD is detached
	CommitHash     *string
	RemoteURL      *string // first URL of the origin remote, as configured
}

// CollectRepositoryMetadata collects the repository root, the current branch and
// commit and the origin remote of the repository enclosing sourceFolder.
// HEAD and origin are optional; a fresh repository yields nil fields.
func CollectRepositoryMetadata(sourceFolder string) (*RepositoryMetadata, error) {
	repoRootFolder, err := FindRepositoryRoot(sourceFolder)
	if err != nil {
		return nil, err
	}

	md := &RepositoryMetadata{RepoRootFolder: repoRootFolder}

	repo, err := git.PlainOpen(repoRootFolder)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	if head, err := repo.Head(); err == nil {
		if head.Name().IsBranch() {
			branchName := head.Name().Short()
			md.BranchName = &branchName
		}

		hash := head.Hash().String()
		md.CommitHash = &hash
	}

	if remote, err := repo.Remote("origin"); err == nil {
		if cfg := remote.Config(); cfg != nil && len(cfg.URLs) > 0 {
			remoteURL := cfg.URLs[0]
			md.RemoteURL = &remoteURL
		}
	}

	return md, nil
}

// OriginURL returns the origin remote URL or ErrNoOriginRemote.
func (md *RepositoryMetadata) OriginURL() (string, error) {
	if md == nil || md.RemoteURL == nil || *md.RemoteURL == "" {
		return "", ErrNoOriginRemote
	}
	return *md.RemoteURL, nil
}
