// Package common holds small helpers shared across the pipeline.
package common

import "path"

// PkgAlias returns the default qualifier for an import path (its last
// element). Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}
