package version

import (
	"cmp"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultBanner is the runtime name printed at the start of `php -v` output.
const DefaultBanner = "PHP"

// ErrNoVersionFound is returned when banner text contains no version triple.
var ErrNoVersionFound = errors.New("no version found")

// Version is a semantic version triple reported by an interpreter binary.
type Version struct {
	Major uint
	Minor uint
	Patch uint
}

// New returns the version major.minor.patch.
func New(major, minor, patch uint) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

var defaultBannerRegex = bannerRegex(DefaultBanner)

func bannerRegex(name string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(name) + `\s+([0-9]+)\.([0-9]+)\.([0-9]+)`)
}

// Parse extracts the first "PHP <major>.<minor>.<patch>" occurring in text.
// Suffixes such as "-dev" are not part of the match and are ignored.
func Parse(text string) (Version, error) {
	return parseWith(defaultBannerRegex, text)
}

// ParseNamed is Parse for an arbitrary banner name.
func ParseNamed(name, text string) (Version, error) {
	if name == DefaultBanner {
		return Parse(text)
	}
	return parseWith(bannerRegex(name), text)
}

func parseWith(re *regexp.Regexp, text string) (Version, error) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return Version{}, ErrNoVersionFound
	}
	parts := make([]uint, 3)
	for i := range parts {
		n, err := strconv.ParseUint(m[i+1], 10, 0)
		if err != nil {
			return Version{}, fmt.Errorf("parse version component %q: %w", m[i+1], err)
		}
		parts[i] = uint(n)
	}
	return New(parts[0], parts[1], parts[2]), nil
}

// FromString parses a bare "major.minor.patch" string as stored in the cache.
func FromString(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("invalid version %q: %w", s, ErrNoVersionFound)
	}
	nums, ok := numericComponents(parts)
	if !ok {
		return Version{}, fmt.Errorf("invalid version %q: %w", s, ErrNoVersionFound)
	}
	return New(nums[0], nums[1], nums[2]), nil
}

// Matches reports whether the version satisfies pattern, which is "N", "N.N"
// or "N.N.N". Every present component must be equal. Non-numeric components
// and any other arity never match.
func (v Version) Matches(pattern string) bool {
	parts := strings.Split(pattern, ".")
	if len(parts) < 1 || len(parts) > 3 {
		return false
	}
	nums, ok := numericComponents(parts)
	if !ok {
		return false
	}
	own := []uint{v.Major, v.Minor, v.Patch}
	for i, n := range nums {
		if own[i] != n {
			return false
		}
	}
	return true
}

func numericComponents(parts []string) ([]uint, bool) {
	nums := make([]uint, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(p, 10, 0)
		if err != nil {
			return nil, false
		}
		nums = append(nums, uint(n))
	}
	return nums, true
}

// String returns "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Short returns "major.minor".
func (v Version) Short() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compare orders versions by major, then minor, then patch.
func Compare(a, b Version) int {
	if c := cmp.Compare(a.Major, b.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Minor, b.Minor); c != 0 {
		return c
	}
	return cmp.Compare(a.Patch, b.Patch)
}

// Less reports whether v sorts before other.
func (v Version) Less(other Version) bool {
	return Compare(v, other) < 0
}
