package gen

import (
	"os"
	"path/filepath"
	"strings"
)

// writeDebugUnformatted writes unrendered code to a sidecar next to the
// intended artifact. It is best-effort and never replaces the artifact.
func writeDebugUnformatted(path string, content []byte) error {
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return err
	}
	// Not a .go file: a broken sidecar must not break the package build.
	debugPath := strings.TrimSuffix(path, ".go") + ".unformatted.go.txt"

	return os.WriteFile(debugPath, content, filePerm)
}
