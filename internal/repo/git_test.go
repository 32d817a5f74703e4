package repo

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// setTestIdentity gives git a commit identity for the duration of a test so
// Init works on machines without global config.
func setTestIdentity(t *testing.T) {
	t.Helper()
	t.Setenv("GIT_AUTHOR_NAME", "Test")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "Test")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@example.com")
	t.Setenv("GIT_CONFIG_GLOBAL", filepath.Join(t.TempDir(), "gitconfig"))
	t.Setenv("GIT_CONFIG_SYSTEM", os.DevNull)
}

func requireGit(t *testing.T) {
	t.Helper()
	if !Available() {
		t.Skip("git not installed")
	}
}

// runGit runs a git command in dir and returns trimmed stdout.
func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := execGit(context.Background(), dir, args...)
	if err != nil {
		t.Fatalf("git %v: %v", args, err)
	}
	return out
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestInit(t *testing.T) {
	requireGit(t)
	setTestIdentity(t)

	t.Run("creates_single_commit_on_main", func(t *testing.T) {
		dir := t.TempDir()
		writeTestFile(t, filepath.Join(dir, "package.json"), `{"name":"x"}`)
		writeTestFile(t, filepath.Join(dir, "src", "index.js"), "console.log('hi')\n")

		gitInit := NewInitializer(nil)
		if err := gitInit.Init(context.Background(), dir); err != nil {
			t.Fatalf("Init() error: %v", err)
		}

		branch := runGit(t, dir, "symbolic-ref", "--short", "HEAD")
		if branch != "main" {
			t.Errorf("branch = %q, want main", branch)
		}

		count := runGit(t, dir, "rev-list", "--count", "HEAD")
		if n, err := strconv.Atoi(count); err != nil || n != 1 {
			t.Errorf("commit count = %q, want 1", count)
		}

		msg := runGit(t, dir, "log", "-1", "--format=%s")
		if msg != CommitMessage {
			t.Errorf("commit message = %q, want %q", msg, CommitMessage)
		}
	})

	t.Run("stages_all_files", func(t *testing.T) {
		dir := t.TempDir()
		writeTestFile(t, filepath.Join(dir, "a.txt"), "a\n")
		writeTestFile(t, filepath.Join(dir, "nested", "b.txt"), "b\n")

		gitInit := NewInitializer(nil)
		if err := gitInit.Init(context.Background(), dir); err != nil {
			t.Fatal(err)
		}

		status := runGit(t, dir, "status", "--porcelain")
		if status != "" {
			t.Errorf("working tree not clean after Init: %q", status)
		}

		files := runGit(t, dir, "ls-tree", "-r", "--name-only", "HEAD")
		for _, want := range []string{"a.txt", "nested/b.txt"} {
			if !strings.Contains(files, want) {
				t.Errorf("committed tree missing %s:\n%s", want, files)
			}
		}
	})

	t.Run("replaces_inherited_metadata", func(t *testing.T) {
		dir := t.TempDir()
		writeTestFile(t, filepath.Join(dir, "file.txt"), "x\n")

		// Simulate a template that shipped with kit history.
		runGit(t, dir, "init")
		runGit(t, dir, "add", "-A")
		runGit(t, dir, "commit", "-m", "kit history")
		writeTestFile(t, filepath.Join(dir, "file2.txt"), "y\n")

		gitInit := NewInitializer(nil)
		if err := gitInit.Init(context.Background(), dir); err != nil {
			t.Fatal(err)
		}

		count := runGit(t, dir, "rev-list", "--count", "HEAD")
		if count != "1" {
			t.Errorf("commit count = %q, want 1 (kit history must not survive)", count)
		}
		msg := runGit(t, dir, "log", "-1", "--format=%s")
		if msg != CommitMessage {
			t.Errorf("commit message = %q, want %q", msg, CommitMessage)
		}
	})

	t.Run("failure_names_offending_subcommand", func(t *testing.T) {
		dir := t.TempDir()
		// Empty directory: commit fails because there is nothing to commit.

		gitInit := NewInitializer(nil)
		err := gitInit.Init(context.Background(), dir)
		if err == nil {
			t.Fatal("Init() on empty dir expected commit failure")
		}
		if !strings.Contains(err.Error(), "git commit") {
			t.Errorf("error %q does not name the offending subcommand", err)
		}
	})
}

func TestAvailable(t *testing.T) {
	t.Run("reports_false_with_empty_path", func(t *testing.T) {
		t.Setenv("PATH", t.TempDir())
		if Available() {
			t.Error("Available() = true with no git on PATH")
		}
	})
}
