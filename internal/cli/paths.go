package cli

import (
	"fmt"
	"os"
	"path/filepath"
)

// outputPaths resolves the output directory and artifact base name.
//
//   - dir and name: used as given
//   - dir only: the base name is the directory's last element, or the
//     fabric name for "." and "/"
//   - name only: files go into a directory of that name
//   - neither: the current directory and the fabric name
func outputPaths(dir, name, fabricName string) (outDir, base string) {
	switch {
	case dir != "" && name != "":
		return dir, name
	case dir != "":
		base = filepath.Base(filepath.Clean(dir))
		if base == "." || base == string(filepath.Separator) {
			base = fabricName
		}
		return dir, base
	case name != "":
		return name, name
	}
	return ".", fabricName
}

// writeArtifacts writes every artifact below dir, creating it if needed,
// and returns the written paths in the order of names.
func writeArtifacts(dir string, names []string, artifacts map[string][]byte) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, artifacts[name], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
