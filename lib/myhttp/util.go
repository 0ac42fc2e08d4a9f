package myhttp

import (
	"fmt"
	"net/http"
	"strings"
)

// HostnameWithScheme returns the origin under which the request was received, e.g. "https://deploy.example.com".
// A configured base-url wins over what can be derived from the request.
func HostnameWithScheme(baseURL string, r *http.Request) string {
	if baseURL != "" {
		return strings.TrimSuffix(baseURL, "/")
	}

	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}
	if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// BearerToken extracts the token from an "Authorization: token xyz" or "Authorization: Bearer xyz" header.
func BearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}

	switch strings.ToLower(parts[0]) {
	case "token", "bearer":
		return strings.TrimSpace(parts[1])
	default:
		return ""
	}
}
