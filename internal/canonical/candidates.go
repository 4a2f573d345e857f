package canonical

import (
	"iter"
	"strings"
)

const (
	maxHostSuffixes = 5
	maxPathPrefixes = 5

	// MaxCandidates bounds a single enumeration: each host suffix yields
	// at most one query variant plus maxPathPrefixes path variants.
	MaxCandidates = maxHostSuffixes * (maxPathPrefixes + 1)
)

// Candidates returns the ordered probe sequence for u: for each host
// suffix, outermost first, the query variant (if any) followed by path
// prefixes from longest to shortest. The sequence is deterministic, so
// a returned match can always be re-derived from the same URI.
func (u *URI) Candidates() iter.Seq[string] {
	return func(yield func(string) bool) {
		fullPath := u.Path()
		maxPaths := min(maxPathPrefixes, len(u.path))

		for _, host := range u.hostSuffixes() {
			if u.hasQuery {
				if !yield(host + fullPath + "?" + u.query) {
					return
				}
			}
			for j := 0; j < maxPaths; j++ {
				if !yield(host + strings.Join(u.path[:len(u.path)-j], "")) {
					return
				}
			}
		}
	}
}

// hostSuffixes enumerates the host variants to probe. An IPv4 host is
// probed as-is. For named hosts, successive leftmost labels are dropped,
// capped at five suffixes and one fewer when the final label is two
// characters long (a cheap stand-in for real TLD detection that the
// hash producer uses too).
func (u *URI) hostSuffixes() []string {
	if u.ip != "" {
		return []string{u.ip}
	}

	maxHosts := min(maxHostSuffixes, len(u.labels)-1)
	if len(u.labels[len(u.labels)-1]) == 2 {
		maxHosts--
	}

	var out []string
	for i := 0; i < maxHosts; i++ {
		out = append(out, strings.Join(u.labels[i:], "."))
	}
	return out
}
