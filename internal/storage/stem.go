package storage

import (
	"regexp"
	"strings"
)

var (
	// hostRe matches the host component following a scheme delimiter.
	hostRe = regexp.MustCompile(`://([a-z0-9.\-:]+)`)

	// redactedRe matches tokens produced by the anonymization engine.
	redactedRe = regexp.MustCompile(`redacted-\w+-\w+`)

	// searchTermRe matches known search/query parameter names and
	// captures their value. Case-insensitive; values may be
	// percent-encoded.
	searchTermRe = regexp.MustCompile(`(?i)(?:\?q=|\?p=|\?query=|search\?q=|\?q\d=|&q\d=|\?k=|\?text=|&q=|key=|\?search=|&search=|&searchTerm=|\?searchTerm=)([a-zA-Z0-9äöüïéàèáÜÄÖ%+\-*\s.,]+)`)
)

// NavigableHost returns the host component of a navigable URL. Values
// without a scheme delimiter (anonymized tokens, already-stemmed domains,
// garbage) report ok = false.
func NavigableHost(rawURL string) (string, bool) {
	m := hostRe.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// StemDomain reduces a URL to its stemmed domain: the host component with a
// leading "www." removed. Anonymized tokens and already-stemmed values pass
// through unchanged, making the function idempotent.
func StemDomain(rawURL string) string {
	if host, ok := NavigableHost(rawURL); ok {
		return strings.TrimPrefix(host, "www.")
	}
	if token := redactedRe.FindString(rawURL); token != "" {
		return token
	}
	if strings.HasSuffix(rawURL, "/***") {
		return strings.TrimSuffix(rawURL, "/***")
	}
	return rawURL
}
