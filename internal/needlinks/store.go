package needlinks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/eclipse-score/srclinker/pkg/shared/files"
)

// ErrMalformedCache is returned when a link cache cannot be trusted.
var ErrMalformedCache = errors.New("malformed source code link cache")

var requiredFields = []string{"file", "line", "tag", "need", "full_line"}

// Persist writes links to path as a pretty-printed JSON array, creating the parent folder if needed.
func Persist(path string, links []NeedLink) error {
	escaped := make([]NeedLink, len(links))
	for i, link := range links {
		link.Tag = Escape(link.Tag)
		link.FullLine = Escape(link.FullLine)
		escaped[i] = link
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(escaped); err != nil {
		return fmt.Errorf("failed to encode source code links: %w", err)
	}

	if err := files.WriteJsonFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write source code links to %q: %w", path, err)
	}
	return nil
}

// Load reads the link cache at path. Every element must carry all NeedLink fields.
func Load(path string) ([]NeedLink, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source code links from %q: %w", path, err)
	}

	links, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}
	return links, nil
}

// Decode parses and validates the JSON representation of a link cache.
func Decode(data []byte) ([]NeedLink, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil || elements == nil {
		return nil, fmt.Errorf("%w: top-level value must be a JSON array", ErrMalformedCache)
	}

	links := make([]NeedLink, 0, len(elements))
	for i, raw := range elements {
		link, err := decodeElement(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrMalformedCache, i, err)
		}
		links = append(links, link)
	}
	return links, nil
}

func decodeElement(raw json.RawMessage) (NeedLink, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return NeedLink{}, fmt.Errorf("not a JSON object")
	}

	var missing []string
	for _, name := range requiredFields {
		if v, ok := fields[name]; !ok || string(v) == "null" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return NeedLink{}, fmt.Errorf("missing fields: %s", strings.Join(missing, ", "))
	}

	var link NeedLink
	if err := json.Unmarshal(raw, &link); err != nil {
		return NeedLink{}, err
	}
	if link.Line < 1 {
		return NeedLink{}, fmt.Errorf("line must be >= 1, got %d", link.Line)
	}
	if strings.TrimSpace(link.Need) == "" {
		return NeedLink{}, fmt.Errorf("need must not be empty")
	}

	link.Tag = Unescape(link.Tag)
	link.FullLine = Unescape(link.FullLine)
	return link, nil
}
