// Package common holds small helpers shared by the generator packages.
package common

import "path"

// UnknownStr is the String() fallback for out-of-range enum values.
const UnknownStr = "unknown"

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

// PkgName returns name, or the alias of pkgPath when name is empty.
func PkgName(name, pkgPath string) string {
	if name != "" {
		return name
	}

	return PkgAlias(pkgPath)
}
