package config

import (
	"crypto/tls"
	"time"
)

// Source code linker defaults.
const (
	DefaultWorkspaceEnv  = "BUILD_WORKSPACE_DIRECTORY"
	DefaultBuildDirEnv   = "BUILD_DIRECTORY"
	DefaultCacheFileName = "score_source_code_linker_cache.json"

	RelativeToWorkspace = "workspace"
	RelativeToGit       = "git"
)

// DefaultTags are split so that this file does not reference itself when scanned.
var DefaultTags = []string{
	"# " + "req-traceability:",
	"# " + "req-Id:",
}

var (
	DefaultPrunedDirPrefixes   = []string{".", "_", "bazel-"}
	DefaultSkippedFilePrefixes = []string{".", "_"}
	DefaultSkippedSuffixes     = []string{".pyc", ".so", ".exe", ".bin"}
)

// BaseHTTPConfig holds common HTTP client configuration settings.
type BaseHTTPConfig struct {
	RetryCount       int
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration
	Timeout          time.Duration
	TLSClientConfig  *tls.Config
	Proxy            string
}

// RestyHTTPClientConfig holds additional configuration settings for the resty http client.
type RestyHTTPClientConfig struct {
	BaseHTTPConfig
	Debug bool
}

// DefaultHTTPConfig is the base configuration applicable to all HTTP clients.
func DefaultHTTPConfig() BaseHTTPConfig {
	return BaseHTTPConfig{
		RetryCount:       3,
		RetryWaitTime:    1 * time.Second,
		RetryMaxWaitTime: 2 * time.Second,
		Timeout:          10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		Proxy: "",
	}
}

// DefaultRestyConfig returns the http config used for resty clients.
func DefaultRestyConfig() RestyHTTPClientConfig {
	return RestyHTTPClientConfig{
		BaseHTTPConfig: DefaultHTTPConfig(),
		Debug:          false,
	}
}

// ApplyDefaults fills every unset source code linker field with its default.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	scl := &cfg.SourceCodeLinker
	scl.WorkspaceEnv = SetThen(scl.WorkspaceEnv, DefaultWorkspaceEnv)
	scl.BuildDirEnv = SetThen(scl.BuildDirEnv, DefaultBuildDirEnv)
	scl.CacheFileName = SetThen(scl.CacheFileName, DefaultCacheFileName)
	scl.RelativeTo = SetThen(scl.RelativeTo, RelativeToWorkspace)

	if len(scl.Tags) == 0 {
		scl.Tags = append([]string(nil), DefaultTags...)
	}
	if scl.PrunedDirPrefixes == nil {
		scl.PrunedDirPrefixes = append([]string(nil), DefaultPrunedDirPrefixes...)
	}
	if scl.SkippedFilePrefixes == nil {
		scl.SkippedFilePrefixes = append([]string(nil), DefaultSkippedFilePrefixes...)
	}
	if scl.SkippedSuffixes == nil {
		scl.SkippedSuffixes = append([]string(nil), DefaultSkippedSuffixes...)
	}
}
