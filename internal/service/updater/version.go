package updater

import (
	"strings"
	"unicode"
)

// Comparison is the outcome of comparing the running and remote tokens.
type Comparison int

const (
	// Indeterminate means at least one token is not a valid version token.
	Indeterminate Comparison = iota
	// Newer means the remote token is newer than the running one.
	Newer
	// NotNewer means the running token is the same or newer.
	NotNewer
)

// String implements fmt.Stringer.
func (c Comparison) String() string {
	switch c {
	case Newer:
		return "newer"
	case NotNewer:
		return "not_newer"
	default:
		return "indeterminate"
	}
}

// CompareFunc compares the running token with the remote one.
type CompareFunc func(running, remote string) Comparison

// Strip removes dots and whitespace (including line breaks) from a token.
func Strip(token string) string {
	return strings.Map(func(r rune) rune {
		if r == '.' || unicode.IsSpace(r) {
			return -1
		}

		return r
	}, token)
}

// CompareLexical strips both tokens and compares the remaining digit strings
// as strings. This is the release feed's historical ordering: "1.0.9" strips
// to "109" and "1.0.10" to "1010", so 1.0.10 does not count as newer than
// 1.0.9. Use CompareNumeric for per-component ordering.
func CompareLexical(running, remote string) Comparison {
	a, b := Strip(running), Strip(remote)
	if !isDigits(a) || !isDigits(b) {
		return Indeterminate
	}

	if a < b {
		return Newer
	}

	return NotNewer
}

// CompareNumeric compares dot-separated components by numeric value.
// Missing trailing components count as zero.
func CompareNumeric(running, remote string) Comparison {
	a, okA := components(running)
	b, okB := components(remote)

	if !okA || !okB {
		return Indeterminate
	}

	for i := range max(len(a), len(b)) {
		x, y := componentAt(a, i), componentAt(b, i)
		if x == y {
			continue
		}

		if len(x) != len(y) {
			if len(x) < len(y) {
				return Newer
			}

			return NotNewer
		}

		if x < y {
			return Newer
		}

		return NotNewer
	}

	return NotNewer
}

// IsNewer reports whether remote is newer than running under CompareLexical.
// Indeterminate comparisons are treated as not newer.
func IsNewer(running, remote string) bool {
	return CompareLexical(running, remote) == Newer
}

// components splits a token on dots, trims whitespace and leading zeros.
func components(token string) ([]string, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, false
	}

	parts := strings.Split(token, ".")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if !isDigits(part) {
			return nil, false
		}

		part = strings.TrimLeft(part, "0")
		if part == "" {
			part = "0"
		}

		parts[i] = part
	}

	return parts, true
}

func componentAt(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}

	return "0"
}

// isDigits reports whether s is non-empty and made of ASCII digits only.
func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
