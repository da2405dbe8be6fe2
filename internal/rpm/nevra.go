package rpm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMalformedNEVRA is returned when a package identifier cannot be parsed
	ErrMalformedNEVRA = errors.New("malformed package identifier")
)

// NEVRA identifies one package build: name, epoch, version, release,
// architecture. A zero epoch is the implicit default and is omitted from the
// string form.
type NEVRA struct {
	Name    string
	Epoch   int
	Version string
	Release string
	Arch    string
}

// String renders the NEVRA in "name-[epoch:]version-release.arch" form
func (n NEVRA) String() string {
	if n.Epoch != 0 {
		return fmt.Sprintf("%s-%d:%s-%s.%s", n.Name, n.Epoch, n.Version, n.Release, n.Arch)
	}
	return fmt.Sprintf("%s-%s-%s.%s", n.Name, n.Version, n.Release, n.Arch)
}

// ParseNEVRA parses "name-[epoch:]version-release.arch".
// Package names may themselves contain dashes, so name, version and release
// are split from the right.
func ParseNEVRA(s string) (NEVRA, error) {
	dot := strings.LastIndex(s, ".")
	if dot <= 0 || dot == len(s)-1 {
		return NEVRA{}, fmt.Errorf("%w: %q", ErrMalformedNEVRA, s)
	}

	nevra, err := ParseNVR(s[:dot])
	if err != nil {
		return NEVRA{}, fmt.Errorf("%w: %q", ErrMalformedNEVRA, s)
	}

	nevra.Arch = s[dot+1:]
	return nevra, nil
}

// ParseFilename parses an RPM filename like "foo-1.0-1.fc41.src.rpm" as
// produced by dnf repoquery. The trailing ".rpm" is stripped before the
// NEVRA is parsed.
func ParseFilename(s string) (NEVRA, error) {
	return ParseNEVRA(strings.TrimSuffix(s, ".rpm"))
}

// ParseNVR parses "name-[epoch:]version-release" without an architecture
// suffix, the form used by update feed build identifiers. The Arch field of
// the result is left empty.
func ParseNVR(s string) (NEVRA, error) {
	r := strings.LastIndex(s, "-")
	if r <= 0 || r == len(s)-1 {
		return NEVRA{}, fmt.Errorf("%w: %q", ErrMalformedNEVRA, s)
	}
	release := s[r+1:]

	nv := s[:r]
	v := strings.LastIndex(nv, "-")
	if v <= 0 || v == len(nv)-1 {
		return NEVRA{}, fmt.Errorf("%w: %q", ErrMalformedNEVRA, s)
	}
	name := nv[:v]
	ev := nv[v+1:]

	epoch := 0
	version := ev
	if c := strings.Index(ev, ":"); c >= 0 {
		parsed, err := strconv.Atoi(ev[:c])
		if err != nil || parsed < 0 {
			return NEVRA{}, fmt.Errorf("%w: bad epoch in %q", ErrMalformedNEVRA, s)
		}
		epoch = parsed
		version = ev[c+1:]
	}
	if version == "" {
		return NEVRA{}, fmt.Errorf("%w: %q", ErrMalformedNEVRA, s)
	}

	return NEVRA{
		Name:    name,
		Epoch:   epoch,
		Version: version,
		Release: release,
	}, nil
}
