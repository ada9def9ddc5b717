package needs

import (
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/eclipse-score/srclinker/pkg/shared/config"
)

// NormalizePrefix upper-cases an id prefix the way the documentation framework stores it.
func NormalizePrefix(prefix string) string {
	return cases.Upper(language.Und).String(prefix)
}

// ExternalLoader adds needs published by other documentation projects to a store.
type ExternalLoader struct {
	client *resty.Client
	logger hclog.Logger
}

// NewExternalLoader creates a loader; client is only used for json_url sources.
func NewExternalLoader(client *resty.Client, logger hclog.Logger) *ExternalLoader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ExternalLoader{client: client, logger: logger}
}

// Load registers the needs of every source in store with the upper-cased prefix
// prepended to their ids, and returns the prefixes in source order.
func (l *ExternalLoader) Load(store *Store, sources []config.ExternalNeeds) ([]string, error) {
	prefixes := make([]string, 0, len(sources))
	for _, src := range sources {
		prefix := NormalizePrefix(src.IDPrefix)
		count, err := l.loadSource(store, src, prefix)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("external needs loaded", "prefix", prefix, "count", count)
		prefixes = append(prefixes, prefix)
	}
	return prefixes, nil
}

func (l *ExternalLoader) loadSource(store *Store, src config.ExternalNeeds, prefix string) (int, error) {
	data, origin, err := l.fetch(src)
	if err != nil {
		return 0, err
	}

	_, external, err := Decode(data, src.Version)
	if err != nil {
		return 0, fmt.Errorf("external needs %q: %w", origin, err)
	}

	for _, id := range external.IDs() {
		n, _ := external.Get(id)
		n.ID = prefix + id
		n.IsExternal = true
		if err := store.Add(n); err != nil {
			return 0, fmt.Errorf("external needs %q: %w", origin, err)
		}
	}
	return external.Len(), nil
}

func (l *ExternalLoader) fetch(src config.ExternalNeeds) ([]byte, string, error) {
	if src.JSONPath != "" {
		data, err := os.ReadFile(src.JSONPath)
		if err != nil {
			return nil, src.JSONPath, fmt.Errorf("failed to read external needs: %w", err)
		}
		return data, src.JSONPath, nil
	}

	if l.client == nil {
		return nil, src.JSONURL, fmt.Errorf("no http client configured for external needs %q", src.JSONURL)
	}
	resp, err := l.client.R().
		SetHeader("Accept", "application/json").
		Get(src.JSONURL)
	if err != nil {
		return nil, src.JSONURL, fmt.Errorf("failed to fetch external needs %q: %w", src.JSONURL, err)
	}
	if resp.IsError() {
		return nil, src.JSONURL, fmt.Errorf("failed to fetch external needs %q: unexpected status %s", src.JSONURL, resp.Status())
	}
	return resp.Body(), src.JSONURL, nil
}
