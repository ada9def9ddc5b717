package needlinks

import "strings"

const (
	escapeChar = `\`
	// Sentinel replaces the first space of an escaped value.
	Sentinel = `\x20`
)

// Escape makes tag text unrecognisable to a later scan of the cache file.
// Backslashes are doubled first so that any input, including one that already
// contains Sentinel, round-trips through Unescape.
func Escape(s string) string {
	s = strings.ReplaceAll(s, escapeChar, escapeChar+escapeChar)
	return strings.Replace(s, " ", Sentinel, 1)
}

// Unescape reverses Escape.
func Unescape(s string) string {
	if !strings.Contains(s, escapeChar) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], escapeChar+escapeChar):
			b.WriteString(escapeChar)
			i += 2
		case strings.HasPrefix(s[i:], Sentinel):
			b.WriteByte(' ')
			i += len(Sentinel)
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}
