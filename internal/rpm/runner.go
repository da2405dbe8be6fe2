package rpm

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var (
	ErrRPMCommand = errors.New("rpm command failed")
	ErrDNFCommand = errors.New("dnf command failed")
)

// PackageQuerier defines the interface to the local package tooling.
// This interface allows for mocking dnf and rpm in tests.
type PackageQuerier interface {
	// Release returns the release identifier of the running system, e.g. "F41"
	Release() (string, error)

	// Installed returns the installed source package set. Lines that cannot
	// be parsed are returned as warnings alongside the packages.
	Installed() ([]NEVRA, []string, error)
}

// DNFRunner queries the local package database through the rpm and dnf
// command line tools
type DNFRunner struct{}

// NewDNFRunner creates a new DNFRunner
func NewDNFRunner() *DNFRunner {
	return &DNFRunner{}
}

// runCommand executes a command and returns stdout, stderr, and any error
func (d *DNFRunner) runCommand(name string, args ...string) (stdout, stderr string, err error) {
	cmd := exec.Command(name, args...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	return stdout, stderr, err
}

// Release queries rpm for the release number of the running system and
// returns it in "F<n>" form
func (d *DNFRunner) Release() (string, error) {
	stdout, stderr, err := d.runCommand("rpm", "--eval", "%{fedora}")
	if err != nil {
		if stderr != "" {
			return "", errors.Join(ErrRPMCommand, errors.New(strings.TrimSpace(stderr)))
		}
		return "", fmt.Errorf("%w: %v", ErrRPMCommand, err)
	}

	num := strings.TrimSpace(stdout)
	if _, err := strconv.Atoi(num); err != nil {
		return "", fmt.Errorf("%w: unexpected release %q", ErrRPMCommand, num)
	}

	return "F" + num, nil
}

// Installed queries dnf for the installed package set as source RPMs.
// The cached package database is used so the query works offline and does
// not trigger a metadata refresh.
func (d *DNFRunner) Installed() ([]NEVRA, []string, error) {
	stdout, stderr, err := d.runCommand("dnf",
		"--quiet", "repoquery", "--cacheonly", "--installed", "--source")
	if err != nil {
		if stderr != "" {
			return nil, nil, errors.Join(ErrDNFCommand, errors.New(strings.TrimSpace(stderr)))
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrDNFCommand, err)
	}

	packages, warnings := ParseInstalledOutput(stdout)
	return packages, warnings, nil
}

// ParseInstalledOutput parses dnf repoquery --source output, one source RPM
// filename per line. Unparseable lines are skipped and reported as warnings,
// they never fail the whole query.
func ParseInstalledOutput(output string) ([]NEVRA, []string) {
	var packages []NEVRA
	var warnings []string

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		nevra, err := ParseFilename(line)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipping installed package %q: %v", line, err))
			continue
		}
		packages = append(packages, nevra)
	}

	return packages, warnings
}
