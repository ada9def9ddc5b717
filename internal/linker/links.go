package linker

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/eclipse-score/srclinker/internal/ci"
	"github.com/eclipse-score/srclinker/internal/git"
	"github.com/eclipse-score/srclinker/internal/needlinks"
	"github.com/eclipse-score/srclinker/internal/needs"
	"github.com/eclipse-score/srclinker/pkg/shared/config"
	"github.com/eclipse-score/srclinker/pkg/shared/vcsurl"
)

const (
	// RefHead selects the commit currently checked out.
	RefHead = "HEAD"
	// RefBranch selects the branch currently checked out.
	RefBranch = "BRANCH"
)

var (
	ErrRepositoryURLUnknown = errors.New("repository URL is unknown: set source_code_linker.repository_url or an origin remote")
	ErrCommitUnknown        = errors.New("HEAD does not point to a commit")
	ErrBranchUnknown        = errors.New("no branch is checked out")
)

// lookupEnv reads the CI environment used when the git checkout cannot answer.
var lookupEnv ci.LookupFunc = os.Getenv

// LinkBuilder renders the source code link value for a reference.
type LinkBuilder struct {
	baseURL string
	repo    *vcsurl.VCSURL // nil when the configured URL is not a recognised repository URL
	ref     string
}

// NewLinkBuilder resolves the repository the links point into. The configured
// repository_url wins over the origin remote of the git repository enclosing root,
// which wins over the repository of the running CI job.
func NewLinkBuilder(scl config.SourceCodeLinker, root string, logger hclog.Logger) (*LinkBuilder, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if root == "" {
		root = "."
	}

	var override *vcsurl.VCSType
	if scl.VCSType != "" {
		t, err := vcsurl.StringToVCSType(scl.VCSType)
		if err != nil {
			return nil, err
		}
		override = &t
	}

	var md *git.RepositoryMetadata
	metadata := func() (*git.RepositoryMetadata, error) {
		if md != nil {
			return md, nil
		}
		var err error
		md, err = git.CollectRepositoryMetadata(root)
		return md, err
	}
	env, inCI := ci.Detect(lookupEnv)

	b := &LinkBuilder{}
	if scl.RepositoryURL != "" {
		b.baseURL = strings.TrimRight(scl.RepositoryURL, "/")
		if repo, err := parseRepository(scl.RepositoryURL, override); err == nil {
			b.repo = repo
		} else {
			logger.Debug("repository_url is not a known repository layout, using it verbatim", "url", scl.RepositoryURL, "error", err)
		}
	} else {
		origin, err := originURL(metadata)
		if err != nil && inCI && env.RepositoryURL != "" {
			logger.Debug("using repository of the CI job", "ci", env.Kind, "url", env.RepositoryURL, "error", err)
			origin, err = env.RepositoryURL, nil
			if override == nil {
				if t, ok := ciVCSType(env.Kind); ok {
					override = &t
				}
			}
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRepositoryURLUnknown, err)
		}
		repo, err := parseRepository(origin, override)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRepositoryURLUnknown, err)
		}
		b.repo = repo
		b.baseURL = repo.BaseURL()
	}

	switch scl.LinkRef {
	case "":
	case RefHead:
		m, err := metadata()
		switch {
		case err == nil && m.CommitHash != nil:
			b.ref = *m.CommitHash
		case inCI && env.CommitHash != "":
			logger.Debug("using commit of the CI job", "ci", env.Kind, "commit", env.CommitHash)
			b.ref = env.CommitHash
		case err != nil:
			return nil, fmt.Errorf("failed to resolve %s: %w", RefHead, err)
		default:
			return nil, ErrCommitUnknown
		}
	case RefBranch:
		m, err := metadata()
		switch {
		case err == nil && m.BranchName != nil:
			b.ref = *m.BranchName
		case inCI && env.ReferenceName != "":
			logger.Debug("using branch of the CI job", "ci", env.Kind, "branch", env.ReferenceName)
			b.ref = env.ReferenceName
		case err != nil:
			return nil, fmt.Errorf("failed to resolve %s: %w", RefBranch, err)
		default:
			return nil, ErrBranchUnknown
		}
	default:
		b.ref = scl.LinkRef
	}

	if b.ref != "" && b.repo == nil {
		return nil, fmt.Errorf("link_ref needs a repository URL of a known layout, got %q", b.baseURL)
	}

	logger.Debug("source code links resolved", "base_url", b.baseURL, "ref", b.ref)
	return b, nil
}

func parseRepository(raw string, vcsType *vcsurl.VCSType) (*vcsurl.VCSURL, error) {
	if vcsType != nil {
		return vcsurl.ParseAs(raw, *vcsType)
	}
	return vcsurl.Parse(raw)
}

// ciVCSType maps a CI provider to the hosting layout of the repositories it builds.
// Bitbucket Pipelines only runs on Bitbucket Cloud.
func ciVCSType(kind ci.Kind) (vcsurl.VCSType, bool) {
	switch kind {
	case ci.GitHub:
		return vcsurl.Github, true
	case ci.GitLab:
		return vcsurl.Gitlab, true
	case ci.Bitbucket:
		return vcsurl.BitbucketCloud, true
	default:
		return vcsurl.GenericVCS, false
	}
}

func originURL(metadata func() (*git.RepositoryMetadata, error)) (string, error) {
	m, err := metadata()
	if err != nil {
		return "", err
	}
	return m.OriginURL()
}

// BaseURL returns the repository URL links are built from.
func (b *LinkBuilder) BaseURL() string {
	return b.baseURL
}

// URL returns the browsable location of a reference: <base>/blob/<file>/<line>,
// or a line permalink at the configured ref.
func (b *LinkBuilder) URL(link needlinks.NeedLink) (string, error) {
	if b.ref == "" {
		return fmt.Sprintf("%s/blob/%s/%d", b.baseURL, link.File, link.Line), nil
	}
	return b.repo.Permalink(b.ref, link.File, link.Line)
}

// Link renders "<url><>file:line", the value stored on the need.
func (b *LinkBuilder) Link(link needlinks.NeedLink) (string, error) {
	url, err := b.URL(link)
	if err != nil {
		return "", err
	}
	return needs.FormatStringLink(url, link.Location()), nil
}
