package canonical

import (
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

var (
	dotRun  = regexp.MustCompile(`\.+`)
	hexPart = regexp.MustCompile(`^0[xX]([0-9A-Fa-f]+)$`)
	octPart = regexp.MustCompile(`^0([0-7]+)$`)
	decPart = regexp.MustCompile(`^[0-9]+$`)
)

var (
	maxByte   = big.NewInt(0xFF)
	maxUint32 = big.NewInt(0xFFFFFFFF)
)

// CanonicalizeIP interprets host as an IPv4 address in mixed
// decimal/octal/hex notation and returns its dotted-decimal form.
// The truncation and masking rules here must stay bit-for-bit
// compatible with the producer of the blocklist hashes, even where
// they diverge from a textbook inet_aton.
func CanonicalizeIP(host string) (string, bool) {
	trimmed := strings.TrimRight(host, ".")
	if trimmed == "" {
		return "", false
	}

	parts := dotRun.Split(trimmed, -1)
	if len(parts) > 4 {
		return "", false
	}

	var out []string
	for i, part := range parts {
		n, ok := parseIPPart(part)
		if !ok {
			return "", false
		}

		last := i == len(parts)-1
		switch {
		case n.Cmp(maxByte) <= 0:
			out = append(out, n.String())
		case !last:
			out = append(out, new(big.Int).And(n, maxByte).String())
		default:
			started := false
			if n.Cmp(maxUint32) > 0 {
				n = new(big.Int).And(n, maxUint32)
				started = true
			}

			v := n.Uint64()
			emitted := 0
			for shift := 24; len(out) < 4; shift -= 8 {
				if shift < 0 {
					if !started && emitted == 0 {
						return "", false
					}
					break
				}
				b := (v >> uint(shift)) & 0xFF
				if b != 0 || started {
					out = append(out, strconv.FormatUint(b, 10))
					started = true
					emitted++
				}
			}
		}
	}

	for len(out) < 4 {
		out = append(out, "0")
	}

	return strings.Join(out, "."), true
}

// parseIPPart evaluates one dot-separated component against the hex,
// octal and decimal grammars, in that order. Overlong digit strings are
// truncated from the left before parsing, which bounds the magnitude
// but can still exceed 32 bits, hence big.Int.
func parseIPPart(part string) (*big.Int, bool) {
	if m := hexPart.FindStringSubmatch(part); m != nil {
		digits := m[1]
		if len(digits) > 9 {
			digits = digits[len(digits)-9:]
		}
		return new(big.Int).SetString(digits, 16)
	}

	if m := octPart.FindStringSubmatch(part); m != nil {
		digits := m[1]
		if len(digits) > 12 {
			digits = digits[len(digits)-12:]
		}
		return new(big.Int).SetString(digits, 8)
	}

	if decPart.MatchString(part) {
		digits := part
		if len(digits) > 11 {
			digits = digits[len(digits)-11:]
		}
		return new(big.Int).SetString(digits, 10)
	}

	return nil, false
}
