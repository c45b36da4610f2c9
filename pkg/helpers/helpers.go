package helpers

import (
	"net/url"
	"strings"
)

// UrlJoin joins path elements onto a base URL. Without elements the base
// URL is returned as given once it parses.
func UrlJoin(baseUrl string, elem ...string) (string, error) {
	if len(elem) == 0 {
		if _, err := url.Parse(baseUrl); err != nil {
			return "", err
		}
		return baseUrl, nil
	}
	joined, err := url.JoinPath(baseUrl, elem...)
	if err != nil {
		return "", err
	}
	return joined, nil
}

func IsValidHttpUrl(rawUrl string) bool {
	parsedUrl, err := url.ParseRequestURI(rawUrl)
	if err != nil || parsedUrl.Host == "" {
		return false
	}
	return parsedUrl.Scheme == "http" || parsedUrl.Scheme == "https"
}

// IsAbsoluteHttpUrl reports whether href already carries an http(s) scheme.
func IsAbsoluteHttpUrl(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://")
}

// ResolveUrl resolves a possibly relative reference against the page it was
// found on.
func ResolveUrl(pageUrl string, ref string) (string, error) {
	base, err := url.Parse(pageUrl)
	if err != nil {
		return "", err
	}
	parsedRef, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(parsedRef).String(), nil
}
