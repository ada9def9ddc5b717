package needs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/eclipse-score/srclinker/pkg/shared/files"
)

// Document is a needs.json export. Only the needs of one version are loaded;
// every other attribute is kept verbatim so the file can be written back.
type Document struct {
	Project        string
	CurrentVersion string

	top     map[string]json.RawMessage
	version map[string]json.RawMessage
	ids     []string
}

type rawNeeds map[string]json.RawMessage

// Decode parses a needs.json document and returns the needs of its current version.
// When version is non-empty it selects that version instead.
func Decode(data []byte, version string) (*Document, *Store, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil || top == nil {
		return nil, nil, fmt.Errorf("needs document must be a JSON object")
	}

	doc := &Document{top: top}
	if v, ok := top["project"]; ok {
		_ = json.Unmarshal(v, &doc.Project)
	}
	if v, ok := top["current_version"]; ok {
		_ = json.Unmarshal(v, &doc.CurrentVersion)
	}

	var versions map[string]json.RawMessage
	if err := json.Unmarshal(top["versions"], &versions); err != nil || len(versions) == 0 {
		return nil, nil, fmt.Errorf("needs document has no versions")
	}

	selected, err := selectVersion(versions, version, doc.CurrentVersion)
	if err != nil {
		return nil, nil, err
	}
	doc.CurrentVersion = selected

	if err := json.Unmarshal(versions[selected], &doc.version); err != nil || doc.version == nil {
		return nil, nil, fmt.Errorf("version %q must be a JSON object", selected)
	}

	var entries rawNeeds
	if v, ok := doc.version["needs"]; ok {
		if err := json.Unmarshal(v, &entries); err != nil {
			return nil, nil, fmt.Errorf("version %q: needs must be a JSON object: %w", selected, err)
		}
	}

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	store := NewStore()
	for _, id := range ids {
		n := &Need{}
		if err := json.Unmarshal(entries[id], n); err != nil {
			return nil, nil, fmt.Errorf("need %q: %w", id, err)
		}
		if n.ID == "" {
			n.ID = id
		}
		if err := store.Add(n); err != nil {
			return nil, nil, err
		}
		doc.ids = append(doc.ids, n.ID)
	}

	return doc, store, nil
}

func selectVersion(versions map[string]json.RawMessage, requested, current string) (string, error) {
	if requested != "" {
		if _, ok := versions[requested]; !ok {
			return "", fmt.Errorf("needs document has no version %q", requested)
		}
		return requested, nil
	}
	if _, ok := versions[current]; ok {
		return current, nil
	}
	if len(versions) == 1 {
		for v := range versions {
			return v, nil
		}
	}
	return "", fmt.Errorf("needs document has several versions and no usable current_version")
}

// Encode renders the document with the needs it was loaded with, taken from store.
func (d *Document) Encode(store *Store) ([]byte, error) {
	entries := make(map[string]*Need, len(d.ids))
	for _, id := range d.ids {
		n, ok := store.Get(id)
		if !ok {
			continue
		}
		entries[id] = n
	}

	version := make(map[string]interface{}, len(d.version)+2)
	for k, v := range d.version {
		version[k] = v
	}
	version["needs"] = entries
	version["needs_amount"] = len(entries)

	var versions map[string]json.RawMessage
	if err := json.Unmarshal(d.top["versions"], &versions); err != nil {
		return nil, fmt.Errorf("failed to re-read versions: %w", err)
	}
	out := make(map[string]interface{}, len(d.top))
	for k, v := range d.top {
		out[k] = v
	}
	allVersions := make(map[string]interface{}, len(versions))
	for k, v := range versions {
		allVersions[k] = v
	}
	allVersions[d.CurrentVersion] = version
	out["versions"] = allVersions

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("failed to encode needs document: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadFile reads a needs.json file.
func LoadFile(path, version string) (*Document, *Store, error) {
	if err := files.ValidatePath(path); err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read needs file %q: %w", path, err)
	}
	doc, store, err := Decode(data, version)
	if err != nil {
		return nil, nil, fmt.Errorf("%q: %w", path, err)
	}
	return doc, store, nil
}

// SaveFile writes the document with the current state of store to path.
func SaveFile(path string, doc *Document, store *Store) error {
	data, err := doc.Encode(store)
	if err != nil {
		return err
	}
	if err := files.WriteJsonFile(path, data); err != nil {
		return fmt.Errorf("failed to write needs file %q: %w", path, err)
	}
	return nil
}
