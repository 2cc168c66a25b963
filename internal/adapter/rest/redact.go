package rest

import (
	"net/url"
	"strings"
)

// redact drops the last path segment of interaction and webhook URLs, which
// carry the single-use interaction token.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	parts := strings.Split(u.EscapedPath(), "/")
	for i, p := range parts {
		if (p == "webhooks" || p == "interactions") && i+2 < len(parts) {
			parts[i+2] = "***"
		}
	}
	out := u.Scheme + "://" + u.Host + strings.Join(parts, "/")
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	return out
}
