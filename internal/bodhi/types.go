// Package bodhi provides a read-only client for the Bodhi update feed.
package bodhi

import (
	"github.com/karmawatch/karmawatch/internal/rpm"
)

// User identifies an account on the update feed
type User struct {
	Name string `json:"name"`
}

// Comment is one piece of feedback left on an update. Only the author
// matters here.
type Comment struct {
	User User `json:"user"`
}

// Build is one package build bundled in an update, identified by its
// name-version-release string
type Build struct {
	NVR   string `json:"nvr"`
	Epoch int    `json:"epoch"`
}

// NEVRA parses the build identifier into a source package identity
func (b Build) NEVRA() (rpm.NEVRA, error) {
	nevra, err := rpm.ParseNVR(b.NVR)
	if err != nil {
		return rpm.NEVRA{}, err
	}
	nevra.Epoch = b.Epoch
	nevra.Arch = "src"
	return nevra, nil
}

// Update is one pending update in the testing repository
type Update struct {
	// Alias is the stable update identifier, e.g. "FEDORA-2026-abcdef0123"
	Alias       string    `json:"alias"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Status      string    `json:"status"`
	ContentType string    `json:"content_type"`
	User        User      `json:"user"`
	Builds      []Build   `json:"builds"`
	Comments    []Comment `json:"comments"`
}
