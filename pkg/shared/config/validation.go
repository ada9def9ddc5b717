package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/eclipse-score/srclinker/pkg/shared/vcsurl"
)

// ValidateConfig checks if the global configurations have valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := ValidateHTTPConfig(&cfg.HTTPClient); err != nil {
		return fmt.Errorf("YAML global config: http_client directive is invalid: %w", err)
	}
	if err := ValidateSourceCodeLinkerConfig(&cfg.SourceCodeLinker); err != nil {
		return fmt.Errorf("YAML global config: source_code_linker directive is invalid: %w", err)
	}
	for i := range cfg.ExternalNeeds {
		if err := ValidateExternalNeeds(&cfg.ExternalNeeds[i]); err != nil {
			return fmt.Errorf("YAML global config: external_needs[%d] is invalid: %w", i, err)
		}
	}
	return nil
}

// ValidateSourceCodeLinkerConfig checks the scan and link settings.
func ValidateSourceCodeLinkerConfig(scl *SourceCodeLinker) error {
	if scl == nil {
		return fmt.Errorf("source_code_linker configuration is nil")
	}
	if len(scl.Tags) == 0 {
		return fmt.Errorf("at least one tag must be configured")
	}
	for _, tag := range scl.Tags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("tags must not be blank")
		}
	}
	if scl.CacheFileName == "" || strings.ContainsAny(scl.CacheFileName, `/\`) {
		return fmt.Errorf("cache_file_name must be a plain file name: %q", scl.CacheFileName)
	}
	switch scl.RelativeTo {
	case RelativeToWorkspace, RelativeToGit:
	default:
		return fmt.Errorf("relative_to must be %q or %q, got %q", RelativeToWorkspace, RelativeToGit, scl.RelativeTo)
	}
	if scl.RepositoryURL != "" {
		u, err := url.Parse(scl.RepositoryURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("repository_url must be an absolute URL: %q", scl.RepositoryURL)
		}
	}
	if scl.VCSType != "" {
		if _, err := vcsurl.StringToVCSType(scl.VCSType); err != nil {
			return fmt.Errorf("vcs_type: %w", err)
		}
	}
	return nil
}

// ValidateExternalNeeds checks a single external needs source.
func ValidateExternalNeeds(ext *ExternalNeeds) error {
	if ext.IDPrefix == "" {
		return fmt.Errorf("id_prefix must be set")
	}
	if (ext.JSONPath == "") == (ext.JSONURL == "") {
		return fmt.Errorf("exactly one of json_path or json_url must be set")
	}
	if ext.JSONURL != "" {
		if _, err := url.ParseRequestURI(ext.JSONURL); err != nil {
			return fmt.Errorf("invalid json_url: %w", err)
		}
	}
	return nil
}

// ValidateHTTPConfig checks if the HTTP configurations have valid values.
func ValidateHTTPConfig(httpConfig *HTTPClient) error {
	if httpConfig == nil {
		return fmt.Errorf("HTTP configuration is nil")
	}
	if httpConfig.RetryCount < 0 || httpConfig.RetryCount > 20 {
		return fmt.Errorf("retry_count must be between 0 and 20: %d", httpConfig.RetryCount)
	}

	durations := map[string]time.Duration{
		"RetryMaxWaitTime": httpConfig.RetryMaxWaitTime,
		"RetryWaitTime":    httpConfig.RetryWaitTime,
		"Timeout":          httpConfig.Timeout,
	}
	for name, duration := range durations {
		if err := validateDuration(duration, name, 100*time.Second); err != nil {
			return err
		}
	}

	if err := validateProxy(&httpConfig.Proxy); err != nil {
		return err
	}

	return nil
}

// validateDuration checks that a time.Duration is valid and within a specified maximum duration.
func validateDuration(d time.Duration, name string, max time.Duration) error {
	if d < 0 {
		return fmt.Errorf("invalid duration for %s: %v cannot be negative", name, d)
	}
	if d > max {
		return fmt.Errorf("%s duration is too long: %v exceeds maximum of %v", name, d, max)
	}
	return nil
}

// validateProxy checks if the given Proxy settings are valid.
func validateProxy(proxy *Proxy) error {
	if proxy == nil {
		return fmt.Errorf("proxy configuration is nil")
	}

	// If host or port is not set, skip further validation
	if proxy.Host == "" || proxy.Port == 0 {
		return nil
	}

	if err := validateHost(&proxy.Host); err != nil {
		return err
	}

	return validatePort(proxy.Port)
}

// validateHost ensures the host includes a scheme; adds "http" if missing.
func validateHost(host *string) error {
	if host == nil {
		return fmt.Errorf("host string pointer is nil")
	}

	if !strings.Contains(*host, "://") {
		*host = "http://" + *host
	}
	*host = strings.TrimRight(*host, "/")

	if _, err := url.Parse(*host); err != nil {
		return fmt.Errorf("invalid host URL: %w", err)
	}

	return nil
}

func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}
