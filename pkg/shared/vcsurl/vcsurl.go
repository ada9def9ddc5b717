// Package vcsurl parses git remote URLs and builds browsable links into hosted repositories.
package vcsurl

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

type VCSType int

const (
	GenericVCS VCSType = iota // path layout /<namespace...>/<repo>, GitHub style links
	Github
	Gitlab
	Bitbucket      // Bitbucket Server / Data Center
	BitbucketCloud // bitbucket.org, /<workspace>/<repo>
)

const bitbucketCloudHost = "bitbucket.org"

// ErrNoRepository is returned when a URL names a host or group but no repository.
var ErrNoRepository = errors.New("URL does not name a repository")

var scpLikeURL = regexp.MustCompile(`^(?:[^@/]+@)?([^:/]+):([^/].*)$`)

// define allowed schemes: http, https and ssh
var validSchemes = []string{"http", "https", "ssh"}

func isValidScheme(scheme string) bool {
	for _, validScheme := range validSchemes {
		if scheme == validScheme {
			return true
		}
	}
	return false
}

// VCSURL is a parsed repository remote.
type VCSURL struct {
	VCSType    VCSType
	Host       string // hostname without port
	Namespace  string // owner, group path or Bitbucket project key
	Repository string
	ParsedURL  *url.URL
	Raw        string
}

// determineVCSType determines the VCS type based on the hostname
func determineVCSType(host string) VCSType {
	switch {
	case strings.EqualFold(host, bitbucketCloudHost):
		return BitbucketCloud
	case strings.Contains(host, "github"):
		return Github
	case strings.Contains(host, "gitlab"):
		return Gitlab
	case strings.Contains(host, "bitbucket"):
		return Bitbucket
	default:
		return GenericVCS
	}
}

// StringToVCSType converts a configured hosting type name.
func StringToVCSType(s string) (VCSType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "generic":
		return GenericVCS, nil
	case "github":
		return Github, nil
	case "gitlab":
		return Gitlab, nil
	case "bitbucket":
		return Bitbucket, nil
	case "bitbucket-cloud":
		return BitbucketCloud, nil
	default:
		return GenericVCS, fmt.Errorf("unknown vcs type %q", s)
	}
}

// Parse parses a remote such as git@host:ns/repo.git, ssh://git@host/ns/repo.git
// or https://host/ns/repo and determines the hosting type from the hostname.
func Parse(raw string) (*VCSURL, error) {
	return parse(raw, nil)
}

// ParseAs parses a remote like Parse but uses vcsType instead of guessing it from
// the hostname, for self-hosted instances with neutral names.
func ParseAs(raw string, vcsType VCSType) (*VCSURL, error) {
	return parse(raw, &vcsType)
}

func parse(raw string, vcsType *VCSType) (*VCSURL, error) {
	spec := strings.TrimSpace(raw)

	// scp-like syntax "git@<host>:<path>"
	if !strings.Contains(spec, "://") {
		if parts := scpLikeURL.FindStringSubmatch(spec); len(parts) == 3 {
			spec = fmt.Sprintf("ssh://%s/%s", parts[1], parts[2])
		}
	}

	spec = strings.TrimSuffix(strings.TrimRight(spec, "/"), ".git")

	parsedURL, err := url.ParseRequestURI(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid remote URL %q: %w", raw, err)
	}
	if !isValidScheme(parsedURL.Scheme) {
		return nil, fmt.Errorf("invalid scheme: %q", raw)
	}
	if parsedURL.Hostname() == "" {
		return nil, fmt.Errorf("remote URL has no host: %q", raw)
	}

	u := &VCSURL{
		VCSType:   determineVCSType(parsedURL.Hostname()),
		Host:      parsedURL.Hostname(),
		ParsedURL: parsedURL,
		Raw:       raw,
	}
	if vcsType != nil {
		u.VCSType = *vcsType
	}

	dirs := GetPathDirs(parsedURL.Path)
	if u.VCSType == Bitbucket {
		dirs = bitbucketRepoDirs(dirs)
	}
	if len(dirs) < 2 {
		return nil, fmt.Errorf("%w: %q", ErrNoRepository, raw)
	}

	switch u.VCSType {
	case Github, BitbucketCloud:
		// https://github.com/<owner>/<repo>/tree/<branch>, https://bitbucket.org/<ws>/<repo>/src/<ref> and friends
		u.Namespace, u.Repository = dirs[0], dirs[1]
	case Gitlab:
		// https://gitlab.com/<group>/<subgroup>/<project>/-/tree/<branch>
		for i, dir := range dirs {
			if dir == "-" {
				dirs = dirs[:i]
				break
			}
		}
		if len(dirs) < 2 {
			return nil, fmt.Errorf("%w: %q", ErrNoRepository, raw)
		}
		fallthrough
	default:
		u.Namespace = path.Join(dirs[:len(dirs)-1]...)
		u.Repository = dirs[len(dirs)-1]
	}

	return u, nil
}

// bitbucketRepoDirs reduces the Bitbucket Server URL forms to [<project>, <repo>]:
// /scm/<project>/<repo>, /projects/<project>/repos/<repo>/..., /users/<user>/repos/<repo>
// and the ssh form /<project>/<repo>.
func bitbucketRepoDirs(dirs []string) []string {
	switch {
	case len(dirs) >= 3 && dirs[0] == "scm":
		return dirs[1:3]
	case len(dirs) >= 4 && dirs[0] == "projects" && dirs[2] == "repos":
		return []string{dirs[1], dirs[3]}
	case len(dirs) >= 4 && dirs[0] == "users" && dirs[2] == "repos":
		return []string{"~" + dirs[1], dirs[3]}
	}
	return dirs
}

// BaseURL returns the browsable repository URL, https://<host>/<namespace>/<repo>.
func (u *VCSURL) BaseURL() string {
	if u.VCSType == Bitbucket {
		if user := strings.TrimPrefix(u.Namespace, "~"); user != u.Namespace {
			return fmt.Sprintf("https://%s/users/%s/repos/%s", u.Host, user, u.Repository)
		}
		return fmt.Sprintf("https://%s/projects/%s/repos/%s", u.Host, u.Namespace, u.Repository)
	}
	return fmt.Sprintf("https://%s/%s/%s", u.Host, u.Namespace, u.Repository)
}

// Permalink links to a single line of file at ref in this repository.
func (u *VCSURL) Permalink(ref, file string, line int) (string, error) {
	return BuildPermalink(PermalinkParams{
		VCSType:   u.VCSType,
		Host:      u.Host,
		Namespace: u.Namespace,
		Project:   u.Repository,
		Ref:       ref,
		File:      file,
		Line:      line,
	})
}

// GetPathDirs splits the URL path into non-empty segments.
func GetPathDirs(path string) []string {
	var pathDirs []string
	for _, dir := range strings.Split(path, "/") {
		if dir != "" {
			pathDirs = append(pathDirs, dir)
		}
	}
	return pathDirs
}
