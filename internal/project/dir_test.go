package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestProvisionDir(t *testing.T) {
	t.Parallel()

	t.Run("creates_directory_and_returns_absolute_path", func(t *testing.T) {
		t.Parallel()
		parent := t.TempDir()

		got, err := ProvisionDir(parent, "my-app")
		if err != nil {
			t.Fatalf("ProvisionDir: %v", err)
		}
		if !filepath.IsAbs(got) {
			t.Errorf("returned path is not absolute: %q", got)
		}
		info, err := os.Stat(got)
		if err != nil {
			t.Fatalf("stat created directory: %v", err)
		}
		if !info.IsDir() {
			t.Errorf("%q is not a directory", got)
		}
	})

	t.Run("existing_target_returns_sentinel", func(t *testing.T) {
		t.Parallel()
		parent := t.TempDir()
		if err := os.Mkdir(filepath.Join(parent, "taken"), 0o755); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := ProvisionDir(parent, "taken")
		if !errors.Is(err, ErrTargetExists) {
			t.Errorf("got %v, want ErrTargetExists", err)
		}
	})

	t.Run("existing_file_also_returns_sentinel", func(t *testing.T) {
		t.Parallel()
		parent := t.TempDir()
		if err := os.WriteFile(filepath.Join(parent, "taken"), []byte("x"), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := ProvisionDir(parent, "taken")
		if !errors.Is(err, ErrTargetExists) {
			t.Errorf("got %v, want ErrTargetExists", err)
		}
	})

	t.Run("empty_app_name_is_error", func(t *testing.T) {
		t.Parallel()
		_, err := ProvisionDir(t.TempDir(), "")
		if !errors.Is(err, ErrEmptyAppName) {
			t.Errorf("got %v, want ErrEmptyAppName", err)
		}
	})

	t.Run("missing_parent_surfaces_raw_error", func(t *testing.T) {
		t.Parallel()
		parent := filepath.Join(t.TempDir(), "does", "not", "exist")

		_, err := ProvisionDir(parent, "my-app")
		if err == nil {
			t.Fatal("expected error for missing parent directory")
		}
		if errors.Is(err, ErrTargetExists) {
			t.Error("missing parent must not map to ErrTargetExists")
		}
	})
}
