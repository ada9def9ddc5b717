package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// DefaultConfigFile is looked up in the working directory when no config path is given.
const DefaultConfigFile = "srclinker.yml"

type Config struct {
	Logger           Logger           `yaml:"logger"`
	HTTPClient       HTTPClient       `yaml:"http_client"`
	SourceCodeLinker SourceCodeLinker `yaml:"source_code_linker"`
	ExternalNeeds    []ExternalNeeds  `yaml:"external_needs"`
}

type Logger struct {
	Level           string `yaml:"level"`
	DisableTime     *bool  `yaml:"disable_time"`
	JSONFormat      *bool  `yaml:"json_format"`
	IncludeLocation *bool  `yaml:"include_location"`
}

type HTTPClient struct {
	Debug            *bool           `yaml:"debug"`
	RetryCount       int             `yaml:"retry_count"`
	RetryWaitTime    time.Duration   `yaml:"retry_wait_time"`
	RetryMaxWaitTime time.Duration   `yaml:"retry_max_wait_time"`
	Timeout          time.Duration   `yaml:"timeout"`
	TLSClientConfig  TLSClientConfig `yaml:"tls_client_config"`
	Proxy            Proxy           `yaml:"proxy"`
}

type TLSClientConfig struct {
	Verify *bool `yaml:"verify"`
}

type Proxy struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// SourceCodeLinker holds the settings of the scan and link phases.
type SourceCodeLinker struct {
	WorkspaceEnv        string   `yaml:"workspace_env"`         // env variable naming the workspace root
	BuildDirEnv         string   `yaml:"build_dir_env"`         // env variable naming the build output dir
	CacheFileName       string   `yaml:"cache_file_name"`       // file name of the link cache inside the build dir
	SkipRescanning      bool     `yaml:"skip_rescanning"`       // reuse an existing link cache
	Tags                []string `yaml:"tags"`                  // markers that start a requirement reference
	PrunedDirPrefixes   []string `yaml:"pruned_dir_prefixes"`   // directories never descended into
	SkippedFilePrefixes []string `yaml:"skipped_file_prefixes"` // file names never opened
	SkippedSuffixes     []string `yaml:"skipped_suffixes"`      // binary and compiled artifacts
	RelativeTo          string   `yaml:"relative_to"`           // "workspace" or "git"
	RepositoryURL       string   `yaml:"repository_url"`        // overrides the origin remote
	VCSType             string   `yaml:"vcs_type"`              // github, gitlab, bitbucket, bitbucket-cloud or generic; guessed from the host when empty
	LinkRef             string   `yaml:"link_ref"`              // branch, tag or SHA; "HEAD" is the current commit, "BRANCH" the current branch
	IDPrefixes          []string `yaml:"id_prefixes"`           // extra need id prefixes tried on lookup
}

// ExternalNeeds describes a needs.json published by another documentation project.
type ExternalNeeds struct {
	IDPrefix string `yaml:"id_prefix"`
	JSONPath string `yaml:"json_path"`
	JSONURL  string `yaml:"json_url"`
	Version  string `yaml:"version"`
}

// ValidateConfigPath checks that the path points to a file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes the YAML file at configPath into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// LoadConfig reads the configuration from configPath and fills unset values with defaults.
// An empty path falls back to DefaultConfigFile, and to pure defaults when that file is absent.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{}

	if configPath == "" {
		if _, err := os.Stat(DefaultConfigFile); errors.Is(err, os.ErrNotExist) {
			ApplyDefaults(cfg)
			return cfg, nil
		}
		configPath = DefaultConfigFile
	}

	if err := LoadYAML(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config %q: %w", configPath, err)
	}
	ApplyDefaults(cfg)

	return cfg, nil
}

// Default returns a configuration populated only with default values.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
