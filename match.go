package blocklist

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gitpan/Net-Google-SafeBrowsing-Blocklist/internal/canonical"
	"github.com/gitpan/Net-Google-SafeBrowsing-Blocklist/store"
)

// SuffixPrefixMatch canonicalizes rawURL, enumerates its host-suffix and
// path-prefix candidates, and probes the store for each candidate's
// content hash in protocol order. It returns the first matching
// canonical string. An unavailable or stale store, or a URI that cannot
// be canonicalized to an http/https form, yields no match; there is no
// separate error channel.
func (b *Blocklist) SuffixPrefixMatch(rawURL string) (string, bool) {
	if err := b.accessor.EnsureFresh(); err != nil {
		b.logger.Warn("blocklist store unavailable", "list", b.name, "error", err)
		return "", false
	}

	if err := b.checkFreshness(); err != nil {
		b.logger.Warn("skipping blocklist match", "list", b.name, "error", err)
		return "", false
	}

	uri, err := canonical.ParseURI(rawURL)
	if err != nil {
		// Unsupported or malformed URIs are a normal negative, not
		// worth logging.
		return "", false
	}

	for candidate := range uri.Candidates() {
		if b.accessor.Lookup(store.Digest(candidate)) {
			b.logger.Debug("blocklist hit", "list", b.name, "candidate", candidate)
			return candidate, true
		}
	}

	return "", false
}

// checkFreshness gates matching on the store's freshness timestamp. A
// missing or unparseable timestamp counts as stale: without it the data
// cannot be trusted.
func (b *Blocklist) checkFreshness() error {
	v, ok := b.accessor.ReadMetadata(store.Timestamp)
	if !ok {
		return fmt.Errorf("%w: no freshness timestamp", ErrStaleData)
	}

	sec, err := strconv.ParseInt(string(v), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad freshness timestamp %q", ErrStaleData, v)
	}

	age := b.now().Sub(time.Unix(sec, 0))
	if age >= b.maxStaleness {
		return fmt.Errorf("%w: last refresh %s ago", ErrStaleData, age.Truncate(time.Second))
	}

	return nil
}
