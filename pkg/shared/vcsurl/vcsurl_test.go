package vcsurl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		vcsType    VCSType
		host       string
		namespace  string
		repository string
		baseURL    string
	}{
		{
			name:       "GitHub scp-like URL",
			input:      "git@github.com:eclipse-score/score.git",
			vcsType:    Github,
			host:       "github.com",
			namespace:  "eclipse-score",
			repository: "score",
			baseURL:    "https://github.com/eclipse-score/score",
		},
		{
			name:       "GitHub HTTPS URL",
			input:      "https://github.com/eclipse-score/docs-as-code.git",
			vcsType:    Github,
			host:       "github.com",
			namespace:  "eclipse-score",
			repository: "docs-as-code",
			baseURL:    "https://github.com/eclipse-score/docs-as-code",
		},
		{
			name:       "GitHub HTTPS URL with trailing slash",
			input:      "https://github.com/eclipse-score/score/",
			vcsType:    Github,
			host:       "github.com",
			namespace:  "eclipse-score",
			repository: "score",
			baseURL:    "https://github.com/eclipse-score/score",
		},
		{
			name:       "GitHub tree URL",
			input:      "https://github.com/eclipse-score/score/tree/main/docs",
			vcsType:    Github,
			host:       "github.com",
			namespace:  "eclipse-score",
			repository: "score",
			baseURL:    "https://github.com/eclipse-score/score",
		},
		{
			name:       "GitHub SSH URL",
			input:      "ssh://git@github.com/eclipse-score/score.git",
			vcsType:    Github,
			host:       "github.com",
			namespace:  "eclipse-score",
			repository: "score",
			baseURL:    "https://github.com/eclipse-score/score",
		},
		{
			name:       "GitLab subgroup",
			input:      "https://gitlab.com/group/subgroup/project.git",
			vcsType:    Gitlab,
			host:       "gitlab.com",
			namespace:  "group/subgroup",
			repository: "project",
			baseURL:    "https://gitlab.com/group/subgroup/project",
		},
		{
			name:       "GitLab tree URL",
			input:      "https://gitlab.example.com/group/project/-/tree/main",
			vcsType:    Gitlab,
			host:       "gitlab.example.com",
			namespace:  "group",
			repository: "project",
			baseURL:    "https://gitlab.example.com/group/project",
		},
		{
			name:       "Bitbucket scm URL",
			input:      "https://bitbucket.example.com/scm/proj/repo.git",
			vcsType:    Bitbucket,
			host:       "bitbucket.example.com",
			namespace:  "proj",
			repository: "repo",
			baseURL:    "https://bitbucket.example.com/projects/proj/repos/repo",
		},
		{
			name:       "Bitbucket SSH URL with port",
			input:      "ssh://git@bitbucket.example.com:7989/proj/repo.git",
			vcsType:    Bitbucket,
			host:       "bitbucket.example.com",
			namespace:  "proj",
			repository: "repo",
			baseURL:    "https://bitbucket.example.com/projects/proj/repos/repo",
		},
		{
			name:       "Bitbucket user repository",
			input:      "https://bitbucket.example.com/users/jdoe/repos/repo/browse",
			vcsType:    Bitbucket,
			host:       "bitbucket.example.com",
			namespace:  "~jdoe",
			repository: "repo",
			baseURL:    "https://bitbucket.example.com/users/jdoe/repos/repo",
		},
		{
			name:       "Bitbucket Cloud HTTPS URL",
			input:      "https://bitbucket.org/ws/repo",
			vcsType:    BitbucketCloud,
			host:       "bitbucket.org",
			namespace:  "ws",
			repository: "repo",
			baseURL:    "https://bitbucket.org/ws/repo",
		},
		{
			name:       "Bitbucket Cloud scp-like URL",
			input:      "git@bitbucket.org:ws/repo.git",
			vcsType:    BitbucketCloud,
			host:       "bitbucket.org",
			namespace:  "ws",
			repository: "repo",
			baseURL:    "https://bitbucket.org/ws/repo",
		},
		{
			name:       "Bitbucket Cloud source URL",
			input:      "https://bitbucket.org/ws/repo/src/main/docs",
			vcsType:    BitbucketCloud,
			host:       "bitbucket.org",
			namespace:  "ws",
			repository: "repo",
			baseURL:    "https://bitbucket.org/ws/repo",
		},
		{
			name:       "Generic host",
			input:      "git@git.example.org:team/tools/linker.git",
			vcsType:    GenericVCS,
			host:       "git.example.org",
			namespace:  "team/tools",
			repository: "linker",
			baseURL:    "https://git.example.org/team/tools/linker",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.vcsType, got.VCSType, "VCSType mismatch")
			assert.Equal(t, tc.host, got.Host, "Host mismatch")
			assert.Equal(t, tc.namespace, got.Namespace, "Namespace mismatch")
			assert.Equal(t, tc.repository, got.Repository, "Repository mismatch")
			assert.Equal(t, tc.baseURL, got.BaseURL(), "BaseURL mismatch")
			assert.Equal(t, tc.input, got.Raw)
			assert.NotNil(t, got.ParsedURL)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"",
		"ftp://github.com/org/repo.git",
		"https://github.com/",
		"https://github.com/org",
		"https://gitlab.com/group/-/tree/main",
		"not a url",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			assert.Error(t, err)
		})
	}

	_, err := Parse("https://github.com/org")
	assert.ErrorIs(t, err, ErrNoRepository)
}

func TestStringToVCSType(t *testing.T) {
	testCases := []struct {
		input   string
		want    VCSType
		wantErr bool
	}{
		{input: "GitHub", want: Github},
		{input: "gitlab", want: Gitlab},
		{input: "bitbucket", want: Bitbucket},
		{input: " Bitbucket-Cloud ", want: BitbucketCloud},
		{input: "generic", want: GenericVCS},
		{input: "gitea", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := StringToVCSType(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseAs(t *testing.T) {
	u, err := ParseAs("git@code.example.com:platform/core/linker.git", Gitlab)
	require.NoError(t, err)
	assert.Equal(t, Gitlab, u.VCSType)
	assert.Equal(t, "platform/core", u.Namespace)

	link, err := u.Permalink("main", "a.py", 4)
	require.NoError(t, err)
	assert.Equal(t, "https://code.example.com/platform/core/linker/-/blob/main/a.py#L4", link)

	u, err = ParseAs("https://scm.example.com/scm/proj/repo.git", Bitbucket)
	require.NoError(t, err)
	assert.Equal(t, "https://scm.example.com/projects/proj/repos/repo", u.BaseURL())
}

func TestVCSURLPermalink(t *testing.T) {
	u, err := Parse("git@github.com:eclipse-score/score.git")
	require.NoError(t, err)

	link, err := u.Permalink("0123abcd", "src/a.py", 3)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/eclipse-score/score/blob/0123abcd/src/a.py#L3", link)
}

func TestBitbucketCloudPermalink(t *testing.T) {
	u, err := Parse("https://bitbucket.org/ws/repo")
	require.NoError(t, err)

	link, err := u.Permalink("0123abcd", "src/a.py", 3)
	require.NoError(t, err)
	assert.Equal(t, "https://bitbucket.org/ws/repo/src/0123abcd/src/a.py#lines-3", link)
}
