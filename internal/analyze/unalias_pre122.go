//go:build !go1.22

package analyze

import "go/types"

// Before Go 1.22 the type checker never produces alias nodes.
func unalias(t types.Type) types.Type { return t }
