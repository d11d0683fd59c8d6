package probe

import (
	"fmt"
	"net/url"
	"strings"
)

// Resolve resolves a target path against the origin the checker is bound to.
func Resolve(origin, path string) (string, error) {
	if !IsValidOrigin(origin) {
		return "", fmt.Errorf("invalid origin %q", origin)
	}
	base, _ := url.Parse(strings.TrimSpace(origin))
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse target %q: %w", path, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// IsValidOrigin reports whether s is an absolute http(s) URL with a host.
func IsValidOrigin(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

func extractHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return u.Hostname()
}
