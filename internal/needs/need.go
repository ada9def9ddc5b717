// Package needs models the documentation items ("needs") that source code links are attached to.
package needs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// SourceCodeLinkField is the need option that carries source code links.
const SourceCodeLinkField = "source_code_link"

// StringLinkPattern is the pattern the documentation framework uses to render a link value.
const StringLinkPattern = `(?P<url>.+)<>(?P<name>.+)`

const (
	stringLinkDelimiter = "<>"
	linkListSeparator   = ", "
)

var stringLinkRe = regexp.MustCompile("^" + StringLinkPattern + "$")

// FormatStringLink joins a URL and its display name into a renderable link value.
func FormatStringLink(url, name string) string {
	return url + stringLinkDelimiter + name
}

// ParseStringLink splits a link value produced by FormatStringLink.
func ParseStringLink(value string) (url, name string, ok bool) {
	m := stringLinkRe.FindStringSubmatch(value)
	if m == nil {
		return "", "", false
	}
	return m[stringLinkRe.SubexpIndex("url")], m[stringLinkRe.SubexpIndex("name")], true
}

// Need is a single documentation item.
type Need struct {
	ID              string
	Type            string
	Title           string
	Status          string
	SourceCodeLinks []string
	IsExternal      bool

	// fields holds every attribute exactly as it was read, modelled ones included.
	fields map[string]json.RawMessage
}

// Clone returns a deep copy of n.
func (n *Need) Clone() *Need {
	c := *n
	c.SourceCodeLinks = append([]string(nil), n.SourceCodeLinks...)
	if n.fields != nil {
		c.fields = make(map[string]json.RawMessage, len(n.fields))
		for k, v := range n.fields {
			c.fields[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &c
}

// HasSourceCodeLink reports whether value is already attached to n.
func (n *Need) HasSourceCodeLink(value string) bool {
	for _, existing := range n.SourceCodeLinks {
		if existing == value {
			return true
		}
	}
	return false
}

// Field returns a raw attribute as it was read.
func (n *Need) Field(name string) (json.RawMessage, bool) {
	v, ok := n.fields[name]
	return v, ok
}

// UnmarshalJSON reads a need as exported by the documentation framework.
func (n *Need) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("need must be a JSON object")
	}

	for _, k := range n.modelled() {
		v, ok := raw[k.name]
		if !ok || isNull(v) {
			continue
		}
		if err := json.Unmarshal(v, k.target); err != nil {
			return fmt.Errorf("field %q: %w", k.name, err)
		}
	}

	if v, ok := raw[SourceCodeLinkField]; ok {
		links, err := decodeLinks(v)
		if err != nil {
			return fmt.Errorf("field %q: %w", SourceCodeLinkField, err)
		}
		n.SourceCodeLinks = links
	}

	n.fields = raw
	return nil
}

type modelledField struct {
	name   string
	target interface{}
}

func (n *Need) modelled() []modelledField {
	return []modelledField{
		{"id", &n.ID},
		{"type", &n.Type},
		{"title", &n.Title},
		{"status", &n.Status},
		{"is_external", &n.IsExternal},
	}
}

// MarshalJSON writes the need back with all attributes it was read with. A
// modelled attribute keeps its original encoding unless its value changed, and
// is only added when it was read or carries a value.
func (n *Need) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(n.fields)+6)
	for k, v := range n.fields {
		out[k] = v
	}

	set := func(name string, value interface{}, zero bool) error {
		orig, had := n.fields[name]
		if !had {
			if !zero {
				out[name] = value
			}
			return nil
		}
		enc, err := json.Marshal(value)
		if err != nil {
			return err
		}
		if unchanged(orig, enc, zero) {
			return nil
		}
		out[name] = value
		return nil
	}

	out["id"] = n.ID
	for _, f := range []struct {
		name  string
		value interface{}
		zero  bool
	}{
		{"type", n.Type, n.Type == ""},
		{"title", n.Title, n.Title == ""},
		{"status", n.Status, n.Status == ""},
		{"is_external", n.IsExternal, !n.IsExternal},
	} {
		if err := set(f.name, f.value, f.zero); err != nil {
			return nil, err
		}
	}

	if orig, had := n.fields[SourceCodeLinkField]; had || len(n.SourceCodeLinks) > 0 {
		prev, _ := decodeLinks(orig)
		if !had || !equalLinks(prev, n.SourceCodeLinks) {
			out[SourceCodeLinkField] = encodeLinks(n.SourceCodeLinks, isList(orig))
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// unchanged reports whether the original encoding still represents the value.
func unchanged(orig, enc json.RawMessage, zero bool) bool {
	if isNull(orig) {
		return zero
	}
	var a, b interface{}
	if json.Unmarshal(orig, &a) != nil || json.Unmarshal(enc, &b) != nil {
		return false
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func equalLinks(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// encodeLinks uses the comma separated string form of the framework unless the
// links were read as a list or a link contains the separator itself.
func encodeLinks(links []string, asList bool) interface{} {
	if !asList {
		for _, l := range links {
			if strings.Contains(l, linkListSeparator) {
				asList = true
				break
			}
		}
	}
	if asList {
		return append([]string{}, links...)
	}
	return strings.Join(links, linkListSeparator)
}

func isList(v json.RawMessage) bool {
	trimmed := bytes.TrimSpace(v)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// decodeLinks accepts both the string form and a JSON array of strings.
func decodeLinks(v json.RawMessage) ([]string, error) {
	if len(v) == 0 || isNull(v) {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(v, &list); err == nil {
		return list, nil
	}
	var joined string
	if err := json.Unmarshal(v, &joined); err != nil {
		return nil, fmt.Errorf("must be a string or a list of strings")
	}
	if strings.TrimSpace(joined) == "" {
		return nil, nil
	}
	var links []string
	for _, part := range strings.Split(joined, linkListSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			links = append(links, part)
		}
	}
	return links, nil
}

func isNull(v json.RawMessage) bool {
	return string(bytes.TrimSpace(v)) == "null"
}
