package project

import (
	"fmt"
	"os"
	"path/filepath"
)

// ProvisionDir creates the project directory under parentDir and returns
// its absolute path. The directory must not already exist; a pre-existing
// entry of any kind maps to ErrTargetExists so callers can distinguish it
// from permission or I/O failures.
func ProvisionDir(parentDir, appName string) (string, error) {
	if appName == "" {
		return "", ErrEmptyAppName
	}

	target := filepath.Join(parentDir, appName)
	if err := os.Mkdir(target, 0o755); err != nil {
		if os.IsExist(err) {
			return "", fmt.Errorf("%w: %s", ErrTargetExists, target)
		}
		return "", fmt.Errorf("create project directory: %w", err)
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("resolve project directory: %w", err)
	}
	return abs, nil
}
