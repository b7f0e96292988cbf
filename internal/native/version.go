package native

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// canonicalVersion maps engine version strings such as "11.4a" onto semver:
// major.minor with the optional letter suffix as patch ("a" = 1). Unparseable
// versions map to "".
func canonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	major, rest, ok := strings.Cut(v, ".")
	if !ok || !isDigits(major) {
		return ""
	}
	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	if i == 0 {
		return ""
	}
	minor, suffix := rest[:i], rest[i:]
	patch := 0
	switch {
	case suffix == "":
	case len(suffix) == 1 && suffix[0] >= 'a' && suffix[0] <= 'z':
		patch = int(suffix[0]-'a') + 1
	default:
		return ""
	}
	m, _ := strconv.Atoi(major)
	n, _ := strconv.Atoi(minor)
	out := fmt.Sprintf("v%d.%d.%d", m, n, patch)
	if !semver.IsValid(out) {
		return ""
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// VersionAtLeast reports whether version is at least min. An unparseable
// version never satisfies a minimum.
func VersionAtLeast(version, min string) bool {
	cv, cm := canonicalVersion(version), canonicalVersion(min)
	if cv == "" || cm == "" {
		return false
	}
	return semver.Compare(cv, cm) >= 0
}
