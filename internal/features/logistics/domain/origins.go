package domain

import (
	"net/url"
	"strings"
)

// OriginAllowList holds the origins a client may be redirected back to.
type OriginAllowList struct {
	origins map[string]struct{}
}

// NewOriginAllowList normalizes the configured origins. Entries that are not absolute
// http(s) URLs are ignored.
func NewOriginAllowList(origins ...string) OriginAllowList {
	list := OriginAllowList{origins: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		if origin, ok := originOf(o); ok {
			list.origins[origin] = struct{}{}
		}
	}
	return list
}

// Allows reports whether rawURL is an absolute http(s) URL on an allowed origin.
func (l OriginAllowList) Allows(rawURL string) bool {
	origin, ok := originOf(rawURL)
	if !ok {
		return false
	}
	_, allowed := l.origins[origin]
	return allowed
}

// Len returns the number of allowed origins.
func (l OriginAllowList) Len() int {
	return len(l.origins)
}

func originOf(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || u.User != nil {
		return "", false
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if (scheme == "https" && port == "443") || (scheme == "http" && port == "80") {
		port = ""
	}
	if port != "" {
		host += ":" + port
	}
	return scheme + "://" + host, true
}
