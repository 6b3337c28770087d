// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package aura

import "fmt"

// Version identifies a release of the Aura core.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Current returns the version of this build.
func Current() Version {
	return Version{Major: 1, Minor: 0, Patch: 0}
}

// String renders the version in v-prefixed semver form.
func (v Version) String() string {
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Before reports whether v precedes other.
func (v Version) Before(other Version) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	if v.Minor != other.Minor {
		return v.Minor < other.Minor
	}
	return v.Patch < other.Patch
}
