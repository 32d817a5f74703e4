// Package manifest rewrites and validates the package.json of a freshly
// scaffolded project. Templates ship a generic manifest; the rewrite stamps
// the new project's identity onto it before dependencies are installed.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hatchkit/hatch/internal/defs"
)

// InitialVersion is stamped into every scaffolded manifest.
const InitialVersion = "0.1.0"

// Rewrite loads projectRoot/package.json, drops the template's description
// and author, sets name to appName and version to InitialVersion, and writes
// the file back in place. All other fields pass through unchanged.
func Rewrite(projectRoot, appName string) error {
	path := filepath.Join(projectRoot, defs.PackageJSON)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", defs.PackageJSON, err)
	}

	var pkg map[string]any
	if err := json.Unmarshal(data, &pkg); err != nil {
		return fmt.Errorf("parse %s: %w", defs.PackageJSON, err)
	}

	delete(pkg, "description")
	delete(pkg, "author")
	pkg["name"] = appName
	pkg["version"] = InitialVersion

	out, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize %s: %w", defs.PackageJSON, err)
	}
	out = append(out, '\n')

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", defs.PackageJSON, err)
	}
	return nil
}
