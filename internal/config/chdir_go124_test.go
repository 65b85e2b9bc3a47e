//go:build go1.24

package config

import "testing"

func chdir(t *testing.T, dir string) { t.Chdir(dir) }
