package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Kind selects the anonymization mutation policy.
type Kind string

const (
	// KindDomains replaces the whole url with a synthetic token and
	// blanks title, rev_host, and the redirect chain.
	KindDomains Kind = "domains"
	// KindURLs keeps the stemmed domain visible and replaces the path.
	KindURLs Kind = "urls"
	// KindKeywords substitutes only the matched search-term substring.
	KindKeywords Kind = "keywords"
)

// placeholder replaces blanked text columns.
const placeholder = "***"

// ParseKind validates a mutation kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindDomains, KindURLs, KindKeywords:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown anonymization kind %q (expected domains, urls, or keywords)", s)
}

// hashDomain computes a salted one-way hash of a domain. The salt is fresh
// per call, so anonymizing the same domain twice yields different tokens and
// neither can be mapped back to the input.
func hashDomain(domain string) string {
	salt := strings.ReplaceAll(uuid.NewString(), "-", "")
	sum := sha256.Sum256([]byte(salt + domain))
	return hex.EncodeToString(sum[:]) + "-" + salt
}

// Anonymize irreversibly mutates the urls rows named by ids according to
// kind. Non-navigable urls (already anonymized, already stemmed) are
// skipped. Each row update commits individually; a single-row failure is
// reported on stderr and the loop continues, so earlier rows stay mutated.
// Only a store-level failure aborts the batch. Returns the number of rows
// mutated.
func (s *Store) Anonymize(ctx context.Context, kind Kind, ids []int64) (int, error) {
	if err := s.db.PingContext(ctx); err != nil {
		return 0, fmt.Errorf("canonical store unavailable: %w", err)
	}

	mutated := 0
	for _, id := range ids {
		record, err := s.URL(ctx, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "retrace: anonymize url %d: %v\n", id, err)
			continue
		}

		host, ok := NavigableHost(record.URL)
		if !ok {
			continue
		}

		token := fmt.Sprintf("redacted-%s-%d", hashDomain(host), id)

		var updateErr error
		switch kind {
		case KindKeywords:
			masked := searchTermRe.ReplaceAllString(record.URL, token)
			_, updateErr = s.db.ExecContext(ctx,
				"UPDATE urls SET url = ?, title = ? WHERE id = ?",
				masked, placeholder, id)
		case KindURLs:
			stemmed := StemDomain(record.URL) + "/" + placeholder
			_, updateErr = s.db.ExecContext(ctx,
				"UPDATE urls SET url = ?, title = ?, redirect_urls = ? WHERE id = ?",
				stemmed, placeholder, placeholder, id)
		case KindDomains:
			_, updateErr = s.db.ExecContext(ctx,
				"UPDATE urls SET url = ?, title = ?, rev_host = ?, redirect_urls = ? WHERE id = ?",
				token, placeholder, placeholder, placeholder, id)
		default:
			return mutated, fmt.Errorf("unknown anonymization kind %q", kind)
		}

		if updateErr != nil {
			fmt.Fprintf(os.Stderr, "retrace: anonymize url %d: %v\n", id, updateErr)
			continue
		}
		mutated++
	}

	return mutated, nil
}
