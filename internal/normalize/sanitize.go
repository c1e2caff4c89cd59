package normalize

import (
	"html"
	"net/mail"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	richPolicy   = bluemonday.UGCPolicy()
)

// Text strips all markup, decodes entities and collapses whitespace to
// single spaces.
func Text(s string) string {
	if s == "" {
		return ""
	}
	clean := html.UnescapeString(strictPolicy.Sanitize(s))
	return strings.Join(strings.Fields(clean), " ")
}

// RichText keeps the user-content allow-list of tags (links, emphasis,
// lists, ...) and drops everything else.
func RichText(s string) string {
	return strings.TrimSpace(richPolicy.Sanitize(s))
}

// Email returns the bare address when s is a valid e-mail with a dotted
// domain, otherwise "".
func Email(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return ""
	}
	at := strings.LastIndex(addr.Address, "@")
	if at <= 0 {
		return ""
	}
	domain := addr.Address[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return ""
	}
	return addr.Address
}

// EmailKey is the lookup form of an e-mail: sanitized and lowercased.
func EmailKey(s string) string {
	return strings.ToLower(Email(s))
}

// Key lowercases s and keeps only [a-z0-9_-].
func Key(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
