package migration

import (
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// CutoverVersion is the first release that stores data relationally.
// Installs at or above it have nothing to migrate.
const CutoverVersion = "2.0.0"

// VersionAtLeast compares two plugin versions. Semantic versions are
// compared with semver rules; anything else falls back to comparing the
// dotted numeric parts, with missing parts counting as 0.
func VersionAtLeast(v, min string) bool {
	a, b := semverForm(v), semverForm(min)
	if semver.IsValid(a) && semver.IsValid(b) {
		return semver.Compare(a, b) >= 0
	}
	return compareNumeric(v, min) >= 0
}

func semverForm(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

func compareNumeric(a, b string) int {
	pa, pb := numericParts(a), numericParts(b)
	for len(pa) < len(pb) {
		pa = append(pa, 0)
	}
	for len(pb) < len(pa) {
		pb = append(pb, 0)
	}
	for i := range pa {
		switch {
		case pa[i] < pb[i]:
			return -1
		case pa[i] > pb[i]:
			return 1
		}
	}
	return 0
}

func numericParts(v string) []int {
	var out []int
	for _, f := range strings.FieldsFunc(strings.TrimPrefix(strings.TrimSpace(v), "v"), func(r rune) bool {
		return r < '0' || r > '9'
	}) {
		n, err := strconv.Atoi(f)
		if err != nil {
			n = 0
		}
		out = append(out, n)
	}
	return out
}
