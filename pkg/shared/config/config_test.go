package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	scl := cfg.SourceCodeLinker
	assert.Equal(t, "BUILD_WORKSPACE_DIRECTORY", scl.WorkspaceEnv)
	assert.Equal(t, "BUILD_DIRECTORY", scl.BuildDirEnv)
	assert.Equal(t, "score_source_code_linker_cache.json", scl.CacheFileName)
	assert.Equal(t, RelativeToWorkspace, scl.RelativeTo)
	assert.Equal(t, DefaultTags, scl.Tags)
	assert.Equal(t, []string{".", "_", "bazel-"}, scl.PrunedDirPrefixes)
	assert.Equal(t, []string{".", "_"}, scl.SkippedFilePrefixes)
	assert.Equal(t, []string{".pyc", ".so", ".exe", ".bin"}, scl.SkippedSuffixes)
	assert.False(t, scl.SkipRescanning)

	require.NoError(t, ValidateConfig(cfg))
}

func TestLoadConfig(t *testing.T) {
	content := `
logger:
  level: DEBUG
http_client:
  retry_count: 1
  timeout: 5s
source_code_linker:
  cache_file_name: links.json
  skip_rescanning: true
  tags:
    - "# trace:"
  pruned_dir_prefixes: []
  relative_to: git
  repository_url: https://github.com/eclipse-score/score
  vcs_type: gitlab
  link_ref: HEAD
  id_prefixes: [score_]
external_needs:
  - id_prefix: process_
    json_url: https://example.com/needs.json
`
	path := filepath.Join(t.TempDir(), "srclinker.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, ValidateConfig(cfg))

	assert.Equal(t, "DEBUG", cfg.Logger.Level)
	assert.Equal(t, 1, cfg.HTTPClient.RetryCount)
	assert.Equal(t, 5*time.Second, cfg.HTTPClient.Timeout)

	scl := cfg.SourceCodeLinker
	assert.Equal(t, "links.json", scl.CacheFileName)
	assert.True(t, scl.SkipRescanning)
	assert.Equal(t, []string{"# trace:"}, scl.Tags)
	assert.Empty(t, scl.PrunedDirPrefixes, "an explicit empty list disables pruning")
	assert.Equal(t, DefaultSkippedSuffixes, scl.SkippedSuffixes)
	assert.Equal(t, RelativeToGit, scl.RelativeTo)
	assert.Equal(t, "HEAD", scl.LinkRef)
	assert.Equal(t, "gitlab", scl.VCSType)
	assert.Equal(t, []string{"score_"}, scl.IDPrefixes)
	assert.Equal(t, "BUILD_WORKSPACE_DIRECTORY", scl.WorkspaceEnv)

	require.Len(t, cfg.ExternalNeeds, 1)
	assert.Equal(t, "process_", cfg.ExternalNeeds[0].IDPrefix)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)

	_, err = LoadConfig(dir)
	assert.Error(t, err, "a directory is not a config file")

	broken := filepath.Join(dir, "broken.yml")
	require.NoError(t, os.WriteFile(broken, []byte("source_code_linker: [\n"), 0644))
	_, err = LoadConfig(broken)
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{name: "Defaults", mutate: func(*Config) {}},
		{name: "Blank tag", mutate: func(c *Config) { c.SourceCodeLinker.Tags = []string{" "} }, wantErr: true},
		{name: "Cache file with path", mutate: func(c *Config) { c.SourceCodeLinker.CacheFileName = "a/b.json" }, wantErr: true},
		{name: "Unknown relative_to", mutate: func(c *Config) { c.SourceCodeLinker.RelativeTo = "home" }, wantErr: true},
		{name: "Relative repository URL", mutate: func(c *Config) { c.SourceCodeLinker.RepositoryURL = "org/repo" }, wantErr: true},
		{name: "Known vcs_type", mutate: func(c *Config) { c.SourceCodeLinker.VCSType = "bitbucket-cloud" }},
		{name: "Unknown vcs_type", mutate: func(c *Config) { c.SourceCodeLinker.VCSType = "gitea" }, wantErr: true},
		{name: "Negative retry count", mutate: func(c *Config) { c.HTTPClient.RetryCount = -1 }, wantErr: true},
		{name: "Timeout too long", mutate: func(c *Config) { c.HTTPClient.Timeout = time.Hour }, wantErr: true},
		{name: "Bad proxy port", mutate: func(c *Config) { c.HTTPClient.Proxy = Proxy{Host: "proxy", Port: 70000} }, wantErr: true},
		{
			name:   "Proxy host gets scheme",
			mutate: func(c *Config) { c.HTTPClient.Proxy = Proxy{Host: "proxy.local/", Port: 8080} },
		},
		{
			name:    "External needs without prefix",
			mutate:  func(c *Config) { c.ExternalNeeds = []ExternalNeeds{{JSONPath: "a.json"}} },
			wantErr: true,
		},
		{
			name: "External needs with path and url",
			mutate: func(c *Config) {
				c.ExternalNeeds = []ExternalNeeds{{IDPrefix: "x_", JSONPath: "a.json", JSONURL: "https://e/x.json"}}
			},
			wantErr: true,
		},
		{
			name:   "External needs from file",
			mutate: func(c *Config) { c.ExternalNeeds = []ExternalNeeds{{IDPrefix: "x_", JSONPath: "a.json"}} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateHostAddsScheme(t *testing.T) {
	host := "proxy.local/"
	require.NoError(t, validateHost(&host))
	assert.Equal(t, "http://proxy.local", host)
}

func TestGetBoolValue(t *testing.T) {
	yes := true
	assert.True(t, GetBoolValue(&Logger{JSONFormat: &yes}, "JSONFormat", false))
	assert.False(t, GetBoolValue(&Logger{}, "JSONFormat", false))
	assert.True(t, GetBoolValue((*Logger)(nil), "JSONFormat", true))
	assert.True(t, GetBoolValue(TLSClientConfig{}, "Verify", true))
}
