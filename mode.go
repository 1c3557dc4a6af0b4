package repocrawl

import "strings"

// Mode is a GitHub search category.
type Mode string

// Search modes recognised by default.
const (
	ModeRepositories Mode = "repositories"
	ModeIssues       Mode = "issues"
	ModeWikis        Mode = "wikis"
)

// DefaultModes returns the search modes accepted when none are configured.
func DefaultModes() []Mode {
	return []Mode{ModeRepositories, ModeIssues, ModeWikis}
}

// Enriches reports whether results of this mode are repositories whose
// detail pages should be fetched.
func (m Mode) Enriches() bool {
	return strings.EqualFold(string(m), string(ModeRepositories))
}

// Equal reports whether two modes name the same category, ignoring case.
func (m Mode) Equal(other Mode) bool {
	return strings.EqualFold(string(m), string(other))
}

// ParseModes splits a comma-separated list of modes.
// Blank entries are dropped.
func ParseModes(s string) []Mode {
	var modes []Mode
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		modes = append(modes, Mode(part))
	}
	return modes
}

// LookupMode returns the configured spelling of mode, if it is in modes.
func LookupMode(modes []Mode, mode Mode) (Mode, bool) {
	for _, m := range modes {
		if m.Equal(mode) {
			return m, true
		}
	}
	return "", false
}
