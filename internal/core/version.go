package core

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"epics-require/internal/types"
)

// ErrNegativeVersion is the cause attached when a field is negative.
var ErrNegativeVersion = fmt.Errorf("negative version field")

var fullTriple = regexp.MustCompile(`^[0-9]+\.[0-9]+\.[0-9]+$`)

// anyVersion places no constraint on the candidate.
var anyVersion = types.Version{
	Major: types.NoVersion,
	Minor: types.NoVersion,
	Patch: types.NoVersion,
	Exact: true,
}

// ParseVersion converts version text into a partial Version. Leading
// dot-separated digit runs fill major, minor and patch in turn; parsing stops
// at the first field that does not start with a digit, so names such as
// "local" or "jdoe" leave every field NONE and match anything. A trailing "+"
// clears Exact. A negative field is an invalid-argument error wrapping
// ErrNegativeVersion.
func ParseVersion(text string) (types.Version, error) {
	trimmed := strings.TrimSpace(text)
	parsed := anyVersion
	if strings.HasSuffix(trimmed, "+") {
		parsed.Exact = false
	}
	rest := trimmed
	for i, field := range []*int{&parsed.Major, &parsed.Minor, &parsed.Patch} {
		if i > 0 {
			if !strings.HasPrefix(rest, ".") {
				break
			}
			rest = rest[1:]
		}
		negative := strings.HasPrefix(rest, "-")
		digits := leadingDigits(strings.TrimPrefix(rest, "-"))
		if digits == "" {
			break
		}
		if negative {
			return anyVersion, invalidVersion(text, ErrNegativeVersion)
		}
		value, err := strconv.Atoi(digits)
		if err != nil {
			return anyVersion, invalidVersion(text, err)
		}
		*field = value
		rest = rest[len(digits):]
	}
	return parsed, nil
}

func leadingDigits(text string) string {
	end := 0
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	return text[:end]
}

func invalidVersion(text string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid version %q", text)).
		WithCause(cause)
}

// IsFullTriple reports whether text is a plain major.minor.patch literal.
func IsFullTriple(text string) bool {
	return fullTriple.MatchString(text)
}

// IsTestVersion reports whether text does not start with a digit. Such
// versions are user or branch builds and satisfy any request.
func IsTestVersion(text string) bool {
	return text == "" || text[0] < '0' || text[0] > '9'
}

// Matches reports whether candidate satisfies requested.
//
// Exact requests compare every field the request specifies. Non-exact
// requests accept any candidate numerically greater or equal, comparing only
// as deep as the request goes.
func Matches(requested types.Version, candidate types.Version) bool {
	precision := requested.Precision()
	if precision == 0 {
		return true
	}
	want := []int{requested.Major, requested.Minor, requested.Patch}[:precision]
	have := []int{candidate.Major, candidate.Minor, candidate.Patch}[:precision]
	cmp := compareFields(have, want)
	if requested.Exact {
		return cmp == 0
	}
	return cmp >= 0
}

// MatchText parses both texts and reports whether loaded satisfies
// requested. A named request carries no numbers and accepts any loaded
// version.
func MatchText(requested string, loaded string) (bool, error) {
	want, err := ParseVersion(requested)
	if err != nil {
		return false, err
	}
	have, err := ParseVersion(loaded)
	if err != nil {
		return false, err
	}
	return Matches(want, have), nil
}

// Compare orders two versions by major, then minor, then patch.
func Compare(a types.Version, b types.Version) int {
	return compareFields(
		[]int{a.Major, a.Minor, a.Patch},
		[]int{b.Major, b.Minor, b.Patch},
	)
}

func compareFields(a []int, b []int) int {
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// SortDescending orders versions from highest to lowest.
func SortDescending(versions []types.Version) {
	sort.SliceStable(versions, func(i, j int) bool {
		return Compare(versions[i], versions[j]) > 0
	})
}

// FormatVersion renders a version back to text. NONE fields are omitted.
func FormatVersion(v types.Version) string {
	var parts []string
	for _, field := range []int{v.Major, v.Minor, v.Patch} {
		if field == types.NoVersion {
			break
		}
		parts = append(parts, strconv.Itoa(field))
	}
	out := strings.Join(parts, ".")
	if !v.Exact {
		out += "+"
	}
	return out
}

// versionCache memoizes parsed installed version directory names while one
// discovery walks and sorts them.
type versionCache struct {
	parsed map[string]types.Version
}

func newVersionCache() *versionCache {
	return &versionCache{parsed: map[string]types.Version{}}
}

func (c *versionCache) version(value string) (types.Version, error) {
	if parsed, ok := c.parsed[value]; ok {
		return parsed, nil
	}
	parsed, err := ParseVersion(value)
	if err != nil {
		return types.Version{}, err
	}
	c.parsed[value] = parsed
	return parsed, nil
}

// bestInstalledVersion picks the directory name to use for requested among
// the fully numeric installed names. Candidates inside the requested major
// are preferred; a non-exact request only crosses to a higher major when
// nothing in its own major qualifies.
func bestInstalledVersion(requested types.Version, installed []string) (string, bool) {
	cache := newVersionCache()
	var names []string
	for _, name := range installed {
		if _, err := cache.version(name); err != nil {
			continue
		}
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		return Compare(cache.parsed[names[i]], cache.parsed[names[j]]) > 0
	})
	if !requested.Any() && !requested.Exact {
		for _, name := range names {
			candidate := cache.parsed[name]
			if candidate.Major == requested.Major && Matches(requested, candidate) {
				return name, true
			}
		}
	}
	for _, name := range names {
		if Matches(requested, cache.parsed[name]) {
			return name, true
		}
	}
	return "", false
}
