// internal/common/profiles.go
package common

import (
	"fmt"
	"sort"

	"cloudalign-core/profile"
	"cloudalign/internal/seeds"
)

// UniqueProfiles flattens profiles loaded from several files, keeps the first
// profile of each name (seeds are keyed by name) and configures each for mode.
// Dropped duplicates are reported as warnings.
func UniqueProfiles(lists [][]*profile.Profile, mode profile.Mode) ([]*profile.Profile, []string) {
	var (
		out   []*profile.Profile
		warns []string
	)
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, p := range list {
			if _, ok := seen[p.Name]; ok {
				warns = append(warns, fmt.Sprintf("duplicate profile %q ignored", p.Name))
				continue
			}
			seen[p.Name] = struct{}{}
			out = append(out, p.WithMode(mode))
		}
	}
	return out, warns
}

// UnknownSeedProfiles lists profile names that have seeds but no loaded
// profile, sorted.
func UnknownSeedProfiles(profiles []*profile.Profile, table seeds.Table) []string {
	have := make(map[string]struct{}, len(profiles))
	for _, p := range profiles {
		have[p.Name] = struct{}{}
	}
	var out []string
	for name := range table {
		if _, ok := have[name]; !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// SeededTargets counts distinct target names seeded for any loaded profile.
func SeededTargets(profiles []*profile.Profile, table seeds.Table) int {
	names := make(map[string]struct{})
	for _, p := range profiles {
		for _, t := range table.Targets(p.Name) {
			names[t] = struct{}{}
		}
	}
	return len(names)
}
