// Copyright 2025 The scopedtls Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scoped

import (
	"runtime"
	"strings"

	"golang.org/x/mod/semver"
)

// Version information for scopedtls.
const (
	// Version is the current version of the package.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info provides runtime information about binding storage.
type Info struct {
	// Version is the package version string.
	Version string

	// GoVersion is the running toolchain as a canonical semantic version
	// ("v1.25.4", "v1.26.0-rc1"), or empty for development builds.
	GoVersion string

	// Goroutines is the number of goroutines currently holding bindings.
	Goroutines int64

	// Reclaimed is the number of exited goroutines whose leaked bindings
	// have been freed.
	Reclaimed uint64
}

// GetInfo returns information about the package and its storage.
//
// Example:
//
//	info := scoped.GetInfo()
//	fmt.Printf("scopedtls %s on %s: %d goroutines bound\n",
//		info.Version, info.GoVersion, info.Goroutines)
func GetInfo() Info {
	st := table.Stats()
	return Info{
		Version:    Version,
		GoVersion:  goVersion(runtime.Version()),
		Goroutines: st.Goroutines,
		Reclaimed:  st.Reclaimed,
	}
}

// goVersion converts a runtime.Version string such as "go1.22",
// "go1.26rc1" or "go1.21.0 X:boringcrypto" into a canonical semantic
// version. It returns "" for anything else, e.g. "devel go1.27-abcdef".
func goVersion(v string) string {
	v, _, _ = strings.Cut(v, " ")
	v, ok := strings.CutPrefix(v, "go")
	if !ok {
		return ""
	}

	// Go spells prereleases without a separator: 1.26rc1, 1.21beta2.
	var pre string
	if i := strings.IndexFunc(v, func(r rune) bool { return r >= 'a' && r <= 'z' }); i >= 0 {
		v, pre = v[:i], "-"+v[i:]
	}

	canonical := semver.Canonical("v" + v)
	if canonical == "" || !semver.IsValid(canonical+pre) {
		return ""
	}
	return canonical + pre
}
