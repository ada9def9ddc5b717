package vcsurl

import (
	"errors"
	"fmt"
	"strings"
)

// Permalink builder errors
var (
	ErrMissingNamespace = errors.New("namespace is required")
	ErrMissingProject   = errors.New("project is required")
	ErrMissingRef       = errors.New("ref (branch, tag, or commit SHA) is required")
	ErrMissingFile      = errors.New("file path is required")
	ErrMissingHost      = errors.New("host is required for this VCS type (no default available)")
)

// Default public hosts for each VCS type
var defaultHosts = map[VCSType]string{
	Github:         "github.com",
	Gitlab:         "gitlab.com",
	BitbucketCloud: bitbucketCloudHost,
}

// PermalinkParams holds parameters for building VCS file permalinks.
type PermalinkParams struct {
	VCSType   VCSType
	Host      string // Optional: defaults to public host for VCSType
	Namespace string
	Project   string
	Ref       string // Branch, tag, or commit SHA
	File      string // Repository-relative file path
	Line      int    // 1-based, 0 means no line anchor
}

func (p PermalinkParams) validate() error {
	switch {
	case p.Namespace == "":
		return ErrMissingNamespace
	case p.Project == "":
		return ErrMissingProject
	case p.Ref == "":
		return ErrMissingRef
	case p.File == "":
		return ErrMissingFile
	}
	return nil
}

// BuildPermalink generates a link to a file, optionally anchored at one line.
//
//   - GitHub, generic: https://{host}/{ns}/{proj}/blob/{ref}/{file}#L{line}
//   - GitLab:          https://{host}/{ns}/{proj}/-/blob/{ref}/{file}#L{line}
//   - Bitbucket:       https://{host}/projects/{ns}/repos/{proj}/browse/{file}?at={ref}#{line}
//   - Bitbucket Cloud: https://bitbucket.org/{ns}/{proj}/src/{ref}/{file}#lines-{line}
func BuildPermalink(p PermalinkParams) (string, error) {
	if err := p.validate(); err != nil {
		return "", err
	}

	host := p.Host
	if host == "" {
		var ok bool
		if host, ok = defaultHosts[p.VCSType]; !ok {
			return "", ErrMissingHost
		}
	}

	file := strings.TrimLeft(strings.ReplaceAll(p.File, "\\", "/"), "/")

	var link, anchor string
	switch p.VCSType {
	case Gitlab:
		link = fmt.Sprintf("https://%s/%s/%s/-/blob/%s/%s", host, p.Namespace, p.Project, p.Ref, file)
		anchor = "#L%d"
	case Bitbucket:
		repo := (&VCSURL{VCSType: Bitbucket, Host: host, Namespace: p.Namespace, Repository: p.Project}).BaseURL()
		link = fmt.Sprintf("%s/browse/%s?at=%s", repo, file, p.Ref)
		anchor = "#%d"
	case BitbucketCloud:
		link = fmt.Sprintf("https://%s/%s/%s/src/%s/%s", host, p.Namespace, p.Project, p.Ref, file)
		anchor = "#lines-%d"
	default:
		link = fmt.Sprintf("https://%s/%s/%s/blob/%s/%s", host, p.Namespace, p.Project, p.Ref, file)
		anchor = "#L%d"
	}

	if p.Line > 0 {
		link += fmt.Sprintf(anchor, p.Line)
	}
	return link, nil
}
