package util

import "strings"

// SanitizeText strips NUL bytes and other control characters that Postgres
// text columns reject and that some PDF extractors emit. Line endings are
// normalized to "\n".
func SanitizeText(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.ReplaceAll(s, "\r\n", "\n")

	r := make([]rune, 0, len(s))
	for _, ch := range s {
		switch {
		case ch == '\n' || ch == '\t':
			r = append(r, ch)
		case ch == '\r':
			r = append(r, '\n')
		case ch == ' ':
			r = append(r, ' ')
		case ch < 0x20 || ch == 0x7f || ch == '\uFFFD':
		default:
			r = append(r, ch)
		}
	}
	return strings.TrimSpace(string(r))
}
