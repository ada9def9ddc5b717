// Package ci reads repository metadata that CI providers expose through the environment.
package ci

import (
	"net/url"
	"os"
	"strings"
)

// Kind represents the type of CI.
type Kind int

const (
	Unknown Kind = iota
	GitHub
	GitLab
	Bitbucket
)

// LookupFunc fetches environment variables and defaults to os.Getenv.
type LookupFunc func(string) string

// Environment is the repository metadata of the running CI job.
type Environment struct {
	Kind          Kind
	CommitHash    string // tip commit that triggered the job
	RepositoryURL string // web URL of the repository
	ReferenceName string // short branch or tag name
}

func (k Kind) String() string {
	switch k {
	case GitHub:
		return "github"
	case GitLab:
		return "gitlab"
	case Bitbucket:
		return "bitbucket"
	default:
		return "unknown"
	}
}

// DetectKind infers the CI provider from well-known environment variables.
func DetectKind(lookup LookupFunc) Kind {
	if lookup == nil {
		lookup = os.Getenv
	}

	if lookup("GITHUB_REPOSITORY") != "" || lookup("GITHUB_SHA") != "" {
		return GitHub
	}
	if strings.EqualFold(lookup("GITLAB_CI"), "true") || lookup("CI_PROJECT_PATH") != "" {
		return GitLab
	}
	if lookup("BITBUCKET_WORKSPACE") != "" || lookup("BITBUCKET_REPO_SLUG") != "" {
		return Bitbucket
	}
	return Unknown
}

// Detect returns the environment of the current CI job. The boolean is false
// outside a supported CI provider.
func Detect(lookup LookupFunc) (Environment, bool) {
	if lookup == nil {
		lookup = os.Getenv
	}

	switch DetectKind(lookup) {
	case GitHub:
		return fromGitHub(lookup), true
	case GitLab:
		return fromGitLab(lookup), true
	case Bitbucket:
		return fromBitbucket(lookup), true
	default:
		return Environment{}, false
	}
}

// See https://docs.github.com/en/actions/reference/workflows-and-actions/variables.
func fromGitHub(lookup LookupFunc) Environment {
	env := Environment{
		Kind:          GitHub,
		CommitHash:    lookup("GITHUB_SHA"),
		ReferenceName: lookup("GITHUB_REF_NAME"),
	}

	server := strings.TrimRight(lookup("GITHUB_SERVER_URL"), "/")
	if server == "" {
		server = "https://github.com"
	}
	if repo := lookup("GITHUB_REPOSITORY"); repo != "" {
		env.RepositoryURL = server + "/" + repo
	}
	return env
}

// See https://docs.gitlab.com/ci/variables/predefined_variables/.
func fromGitLab(lookup LookupFunc) Environment {
	env := Environment{
		Kind:          GitLab,
		CommitHash:    lookup("CI_COMMIT_SHA"),
		RepositoryURL: strings.TrimRight(lookup("CI_PROJECT_URL"), "/"),
		ReferenceName: lookup("CI_COMMIT_REF_NAME"),
	}

	if env.RepositoryURL == "" {
		server := strings.TrimRight(lookup("CI_SERVER_URL"), "/")
		if path := lookup("CI_PROJECT_PATH"); server != "" && path != "" {
			env.RepositoryURL = server + "/" + path
		}
	}
	return env
}

// See https://support.atlassian.com/bitbucket-cloud/docs/variables-and-secrets/.
func fromBitbucket(lookup LookupFunc) Environment {
	env := Environment{
		Kind:          Bitbucket,
		CommitHash:    lookup("BITBUCKET_COMMIT"),
		ReferenceName: lookup("BITBUCKET_BRANCH"),
	}
	if env.ReferenceName == "" {
		env.ReferenceName = lookup("BITBUCKET_TAG")
	}

	origin := lookup("BITBUCKET_GIT_HTTP_ORIGIN")
	if u, err := url.Parse(origin); err == nil && u.Scheme != "" && u.Host != "" {
		env.RepositoryURL = strings.TrimRight(origin, "/")
	} else if ws, slug := lookup("BITBUCKET_WORKSPACE"), lookup("BITBUCKET_REPO_SLUG"); ws != "" && slug != "" {
		env.RepositoryURL = "https://bitbucket.org/" + ws + "/" + slug
	}
	return env
}
