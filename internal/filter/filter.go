// Package filter implements the relevance pipeline at the heart of
// karmawatch: it reconciles the installed package set, the candidate update
// feed, and the local user's identity into the minimal set of updates worth
// raising a notification for.
//
// The filter is a pure function over already-materialized inputs. It performs
// no I/O and is fully deterministic; callers are responsible for logging the
// skip diagnostics it reports.
package filter

import (
	"fmt"
	"sort"

	"github.com/karmawatch/karmawatch/internal/bodhi"
	"github.com/karmawatch/karmawatch/internal/rpm"
)

// Identity is the local user as seen by the update feed
type Identity struct {
	// Username matches against submitters and comment authors
	Username string
	// Interests optionally restricts matches to updates covering at least
	// one of these package names. Empty means no restriction.
	Interests []string
}

// Match is one actionable update: a candidate that covers at least one
// installed package and that the user has neither submitted nor commented on
type Match struct {
	Update bodhi.Update
	// Packages are the names of the installed packages the update covers,
	// sorted and deduplicated
	Packages []string
}

// Result is the filter output: matches in first-seen candidate order, plus
// diagnostics for records that could not be interpreted
type Result struct {
	Matches []Match
	Skipped []string
}

// installedKey indexes the installed set by package name and architecture
type installedKey struct {
	name string
	arch string
}

// Run produces the actionable update set. Candidates are evaluated in input
// order and deduplicated by alias, keeping the first occurrence, so the
// output order is stable across runs with identical inputs.
func Run(installed []rpm.NEVRA, candidates []bodhi.Update, identity Identity) Result {
	lookup := make(map[installedKey]rpm.NEVRA, len(installed))
	for _, pkg := range installed {
		key := installedKey{name: pkg.Name, arch: pkg.Arch}
		// first entry wins on duplicate name/arch pairs
		if _, ok := lookup[key]; !ok {
			lookup[key] = pkg
		}
	}

	interests := make(map[string]bool, len(identity.Interests))
	for _, name := range identity.Interests {
		if name != "" {
			interests[name] = true
		}
	}

	var result Result
	seen := make(map[string]bool, len(candidates))

	for _, update := range candidates {
		if update.Alias == "" {
			result.Skipped = append(result.Skipped, "update without an identifier")
			continue
		}
		if seen[update.Alias] {
			// a paginated feed may return the same update twice
			continue
		}
		seen[update.Alias] = true

		if len(update.Builds) == 0 {
			result.Skipped = append(result.Skipped, fmt.Sprintf("%s: no builds", update.Alias))
			continue
		}
		if update.User.Name == "" {
			result.Skipped = append(result.Skipped, fmt.Sprintf("%s: no submitter", update.Alias))
			continue
		}

		covered := coveredPackages(lookup, update, &result)
		if len(covered) == 0 {
			continue
		}

		if update.User.Name == identity.Username {
			continue
		}
		if commentedBy(update, identity.Username) {
			continue
		}

		if len(interests) > 0 && !anyOf(covered, interests) {
			continue
		}

		result.Matches = append(result.Matches, Match{
			Update:   update,
			Packages: covered,
		})
	}

	return result
}

// coveredPackages returns the names of installed packages covered by the
// update: a build with a matching name and architecture whose version and
// release are at least as new as the installed one. "At least as new" rather
// than "newer" because the testing build may already be installed and still
// want feedback. Builds with unparseable identifiers are reported and
// skipped without affecting the rest of the update.
func coveredPackages(lookup map[installedKey]rpm.NEVRA, update bodhi.Update, result *Result) []string {
	var names []string

	for _, build := range update.Builds {
		nevra, err := build.NEVRA()
		if err != nil {
			result.Skipped = append(result.Skipped, fmt.Sprintf("%s: build %q: %v", update.Alias, build.NVR, err))
			continue
		}

		pkg, ok := lookup[installedKey{name: nevra.Name, arch: nevra.Arch}]
		if !ok {
			continue
		}
		if rpm.Compare(nevra, pkg) >= 0 {
			names = append(names, nevra.Name)
		}
	}

	if len(names) == 0 {
		return nil
	}

	sort.Strings(names)
	// dedup in place, a multi-build update can list the same name twice
	unique := names[:1]
	for _, name := range names[1:] {
		if name != unique[len(unique)-1] {
			unique = append(unique, name)
		}
	}
	return unique
}

// commentedBy reports whether the user already left a comment on the update
func commentedBy(update bodhi.Update, username string) bool {
	for _, comment := range update.Comments {
		if comment.User.Name == username {
			return true
		}
	}
	return false
}

// anyOf reports whether any of the names is in the set
func anyOf(names []string, set map[string]bool) bool {
	for _, name := range names {
		if set[name] {
			return true
		}
	}
	return false
}
