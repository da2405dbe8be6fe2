package rpm

import (
	"strings"
)

// CompareVersions compares two version (or release) strings using the RPM
// segment rules: the strings are walked as alternating numeric and alphabetic
// segments, numeric segments compare numerically, alphabetic segments compare
// lexically, a numeric segment is newer than an alphabetic one, and a tilde
// sorts before everything, including the end of the string (pre-release
// marker).
// Returns: -1 if v1 < v2, 0 if v1 == v2, 1 if v1 > v2
func CompareVersions(v1, v2 string) int {
	if v1 == v2 {
		return 0
	}

	i, j := 0, 0
	for i < len(v1) || j < len(v2) {
		// Skip separator characters
		for i < len(v1) && !isVersionChar(v1[i]) {
			i++
		}
		for j < len(v2) && !isVersionChar(v2[j]) {
			j++
		}

		// Tilde sorts lower than anything, even the end of the string
		t1 := i < len(v1) && v1[i] == '~'
		t2 := j < len(v2) && v2[j] == '~'
		if t1 || t2 {
			if t1 && t2 {
				i++
				j++
				continue
			}
			if t1 {
				return -1
			}
			return 1
		}

		if i >= len(v1) || j >= len(v2) {
			break
		}

		// Grab the next segment of the same type from both strings
		var s1, s2 string
		numeric := isDigit(v1[i])
		if numeric {
			s1, i = takeWhile(v1, i, isDigit)
			s2, j = takeWhile(v2, j, isDigit)
		} else {
			s1, i = takeWhile(v1, i, isAlpha)
			s2, j = takeWhile(v2, j, isAlpha)
		}

		// Segment types differ: a numeric segment is newer than an
		// alphabetic one
		if s2 == "" {
			if numeric {
				return 1
			}
			return -1
		}

		if numeric {
			s1 = strings.TrimLeft(s1, "0")
			s2 = strings.TrimLeft(s2, "0")
			if len(s1) != len(s2) {
				if len(s1) > len(s2) {
					return 1
				}
				return -1
			}
		}

		if c := strings.Compare(s1, s2); c != 0 {
			return c
		}
	}

	// One string ran out of segments: the longer one is newer
	if i >= len(v1) && j >= len(v2) {
		return 0
	}
	if i < len(v1) {
		return 1
	}
	return -1
}

// Compare orders two package identities by epoch, then version, then release.
// Name and architecture do not participate in the ordering.
// Returns: -1 if a < b, 0 if a == b, 1 if a > b
func Compare(a, b NEVRA) int {
	if a.Epoch != b.Epoch {
		if a.Epoch > b.Epoch {
			return 1
		}
		return -1
	}
	if c := CompareVersions(a.Version, b.Version); c != 0 {
		return c
	}
	return CompareVersions(a.Release, b.Release)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isVersionChar(c byte) bool {
	return isDigit(c) || isAlpha(c) || c == '~'
}

// takeWhile consumes bytes from s starting at i while pred holds and returns
// the consumed segment and the new index
func takeWhile(s string, i int, pred func(byte) bool) (string, int) {
	start := i
	for i < len(s) && pred(s[i]) {
		i++
	}
	return s[start:i], i
}
