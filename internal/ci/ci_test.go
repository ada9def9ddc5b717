package ci

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func envLookup(vars map[string]string) LookupFunc {
	return func(key string) string { return vars[key] }
}

func TestKindString(t *testing.T) {
	testCases := []struct {
		kind Kind
		want string
	}{
		{kind: GitHub, want: "github"},
		{kind: GitLab, want: "gitlab"},
		{kind: Bitbucket, want: "bitbucket"},
		{kind: Unknown, want: "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.kind.String())
		})
	}
}

func TestDetect(t *testing.T) {
	testCases := []struct {
		name   string
		vars   map[string]string
		want   Environment
		wantOK bool
	}{
		{
			name: "GitHub",
			vars: map[string]string{
				"GITHUB_REPOSITORY": "eclipse-score/score",
				"GITHUB_SHA":        "abc123",
				"GITHUB_REF_NAME":   "main",
			},
			want: Environment{
				Kind:          GitHub,
				CommitHash:    "abc123",
				RepositoryURL: "https://github.com/eclipse-score/score",
				ReferenceName: "main",
			},
			wantOK: true,
		},
		{
			name: "GitHubEnterprise",
			vars: map[string]string{
				"GITHUB_SERVER_URL": "https://ghe.example.com/",
				"GITHUB_REPOSITORY": "org/repo",
			},
			want:   Environment{Kind: GitHub, RepositoryURL: "https://ghe.example.com/org/repo"},
			wantOK: true,
		},
		{
			name: "GitLabProjectURL",
			vars: map[string]string{
				"GITLAB_CI":          "true",
				"CI_PROJECT_URL":     "https://gitlab.example.com/group/sub/repo",
				"CI_COMMIT_SHA":      "def456",
				"CI_COMMIT_REF_NAME": "feature",
			},
			want: Environment{
				Kind:          GitLab,
				CommitHash:    "def456",
				RepositoryURL: "https://gitlab.example.com/group/sub/repo",
				ReferenceName: "feature",
			},
			wantOK: true,
		},
		{
			name: "GitLabServerAndPath",
			vars: map[string]string{
				"CI_PROJECT_PATH": "group/repo",
				"CI_SERVER_URL":   "https://gitlab.com",
			},
			want:   Environment{Kind: GitLab, RepositoryURL: "https://gitlab.com/group/repo"},
			wantOK: true,
		},
		{
			name: "BitbucketOrigin",
			vars: map[string]string{
				"BITBUCKET_WORKSPACE":       "team",
				"BITBUCKET_REPO_SLUG":       "repo",
				"BITBUCKET_COMMIT":          "0a1b2c",
				"BITBUCKET_TAG":             "v1.0",
				"BITBUCKET_GIT_HTTP_ORIGIN": "https://bitbucket.org/team/repo",
			},
			want: Environment{
				Kind:          Bitbucket,
				CommitHash:    "0a1b2c",
				RepositoryURL: "https://bitbucket.org/team/repo",
				ReferenceName: "v1.0",
			},
			wantOK: true,
		},
		{
			name: "BitbucketWithoutOrigin",
			vars: map[string]string{
				"BITBUCKET_WORKSPACE": "team",
				"BITBUCKET_REPO_SLUG": "repo",
				"BITBUCKET_BRANCH":    "main",
			},
			want:   Environment{Kind: Bitbucket, RepositoryURL: "https://bitbucket.org/team/repo", ReferenceName: "main"},
			wantOK: true,
		},
		{
			name: "None",
			vars: map[string]string{"CI": "true"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Detect(envLookup(tc.vars))
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
