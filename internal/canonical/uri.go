// Package canonical implements the URI canonicalization and candidate
// enumeration rules of the SafeBrowsing lookup protocol. Every string it
// produces must be byte-identical to what the blocklist hash producer
// would emit for the same input, so the quirks here are deliberate.
package canonical

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

// URI is the decomposed canonical form of an http/https URI. The host is
// either a recognized IPv4 form or a label sequence, never both.
type URI struct {
	ip       string
	labels   []string
	path     []string
	query    string
	hasQuery bool
}

var idnProfile = idna.New(
	idna.ValidateLabels(false),
	idna.StrictDomainName(false),
)

var portRegex = regexp.MustCompile(`:\d+$`)

// ParseURI canonicalizes raw per the matching algorithm: percent-decode
// to a fixed point, split scheme/authority/path, fold case, strip the
// port, re-escape the host and each path segment, resolve dot segments,
// and detect IPv4 hosts.
func ParseURI(raw string) (*URI, error) {
	s := decodeFully(raw)

	// Fragment and query delimiters are honored after decoding, so an
	// escaped %23 or %3F in the input ends up splitting the URI. The
	// hash producer behaves the same way.
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	query := ""
	if i := strings.IndexByte(s, '?'); i >= 0 {
		query = s[i+1:]
		s = s[:i]
	}

	// The decoded byte stream may hold bytes url.Parse refuses in a
	// host (control bytes, "^", broken escapes), so the split is done
	// by hand and every byte survives until re-escaping.
	idx := strings.Index(s, "://")
	if idx < 0 {
		return nil, ErrUnsupportedScheme
	}
	scheme := strings.ToLower(s[:idx])
	if scheme == "" {
		return nil, ErrMalformedURI
	}
	if scheme != "http" && scheme != "https" {
		return nil, ErrUnsupportedScheme
	}

	rest := s[idx+3:]
	authority := rest
	rawPath := ""
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		authority = rest[:i]
		rawPath = rest[i:]
	}

	host, err := hostFromAuthority(authority)
	if err != nil {
		return nil, err
	}

	uri := &URI{}
	if ip, ok := CanonicalizeIP(host); ok {
		uri.ip = ip
	} else {
		for _, label := range dotRun.Split(host, -1) {
			if label != "" {
				uri.labels = append(uri.labels, label)
			}
		}
		if len(uri.labels) == 0 {
			return nil, ErrMalformedURI
		}
	}

	uri.path = canonicalPath(rawPath)

	if query != "" {
		uri.query = query
		uri.hasQuery = true
	}

	return uri, nil
}

// hostFromAuthority drops userinfo, brackets and the port, folds case,
// maps non-ASCII hosts through IDNA, and returns the escaped host.
func hostFromAuthority(authority string) (string, error) {
	host := authority
	if i := strings.LastIndexByte(host, '@'); i >= 0 {
		host = host[i+1:]
	}
	if strings.HasPrefix(host, "[") {
		if i := strings.IndexByte(host, ']'); i >= 0 {
			host = host[1:i]
		}
	} else if strings.Contains(host, ":") && !strings.Contains(host, "::") {
		host = portRegex.ReplaceAllString(host, "")
	}

	host = strings.ToLower(host)
	if host == "" {
		return "", ErrMalformedURI
	}
	if !isASCII(host) {
		if ascii, err := idnProfile.ToASCII(host); err == nil {
			ascii = strings.ToLower(ascii)
			if ascii != "" {
				host = ascii
			}
		}
	}

	return escape(host), nil
}

// IsIP reports whether the host resolved to an IPv4 form.
func (u *URI) IsIP() bool {
	return u.ip != ""
}

// Host returns the canonical host: the IPv4 form, or the labels joined
// with dots.
func (u *URI) Host() string {
	if u.ip != "" {
		return u.ip
	}
	return strings.Join(u.labels, ".")
}

// Path returns the full canonical path, always starting with "/".
func (u *URI) Path() string {
	return strings.Join(u.path, "")
}

// Query returns the verbatim query string and whether one is present.
func (u *URI) Query() (string, bool) {
	return u.query, u.hasQuery
}

// String recombines host, path and query without a scheme, matching the
// form that gets hashed into the blocklist.
func (u *URI) String() string {
	s := u.Host() + u.Path()
	if u.hasQuery {
		s += "?" + u.query
	}
	return s
}

// canonicalPath splits path on "/" and rebuilds it with the protocol's
// dot-segment and slash-collapsing rules. The leading empty segment
// becomes the root "/" and is protected from ".." removal. Every
// segment except the last carries its trailing slash.
func canonicalPath(path string) []string {
	segments := strings.Split(path, "/")

	var out []string
	for i, seg := range segments {
		first := i == 0
		last := i == len(segments)-1
		switch {
		case seg == "..":
			if len(out) > 1 {
				out = out[:len(out)-1]
			}
		case seg == ".":
		case seg == "" && !first:
		default:
			esc := escape(seg)
			if first || !last {
				esc += "/"
			}
			out = append(out, esc)
		}
	}

	return out
}

// decodeFully percent-decodes s repeatedly until decoding no longer
// changes it. Invalid escapes are left alone.
func decodeFully(s string) string {
	for {
		d := decodeOnce(s)
		if d == s {
			return s
		}
		s = d
	}
}

func decodeOnce(s string) string {
	if !strings.ContainsRune(s, '%') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '%' && i+2 < len(s) && isHexDigit(s[i+1]) && isHexDigit(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 3
		} else {
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}

// escape percent-encodes every byte outside the producer's unreserved
// set. Hex digits are uppercase.
func escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
