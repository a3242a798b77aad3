package domain

import (
	"errors"
	"net/url"
	"strings"
)

// ErrInvalidURL is returned when a bookmark URL has no usable host.
var ErrInvalidURL = errors.New("invalid bookmark url")

// DefaultTitle derives a bookmark title from its URL.
// Examples:
//
//	"https://www.example.com/x" -> "example.com"
//	"http://Docs.Go.dev"        -> "docs.go.dev"
//	"https://wwwx.io"           -> "wwwx.io"
func DefaultTitle(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", errors.Join(ErrInvalidURL, err)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", ErrInvalidURL
	}

	return strings.TrimPrefix(host, "www."), nil
}

// ResolveTitle returns title when set, otherwise DefaultTitle(rawURL).
func ResolveTitle(title, rawURL string) (string, error) {
	if t := strings.TrimSpace(title); t != "" {
		return t, nil
	}
	return DefaultTitle(rawURL)
}
