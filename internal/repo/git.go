// Package repo produces the fresh git history of a scaffolded project:
// one commit, on main, with no trace of the template kit's own metadata.
package repo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/hatchkit/hatch/internal/defs"
)

const (
	// DefaultBranch is the branch every new project starts on.
	DefaultBranch = "main"

	// CommitMessage is the message of the single initial commit.
	CommitMessage = "initial commit"
)

const commandTimeout = 30 * time.Second

// ErrGitNotFound indicates no git binary is available on PATH.
var ErrGitNotFound = errors.New("git not found on PATH")

// Available reports whether a system git binary can be found.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Initializer drives the system git binary to create the initial history.
type Initializer struct {
	logger *slog.Logger
}

// NewInitializer creates an Initializer. A nil logger discards.
func NewInitializer(logger *slog.Logger) *Initializer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Initializer{logger: logger}
}

// Available reports whether the git executable can be found in PATH.
func (i *Initializer) Available() bool {
	return Available()
}

// Init removes any version-control metadata inherited from the template,
// then runs init, add, commit and branch rename in sequence. The first
// failing command aborts the rest; nothing is rolled back.
func (i *Initializer) Init(ctx context.Context, projectRoot string) error {
	if err := os.RemoveAll(filepath.Join(projectRoot, defs.GitDir)); err != nil {
		return fmt.Errorf("remove inherited %s: %w", defs.GitDir, err)
	}

	steps := [][]string{
		{"init"},
		{"add", "-A"},
		{"commit", "-m", CommitMessage},
		{"branch", "-M", DefaultBranch},
	}
	for _, args := range steps {
		i.logger.Debug("running git step", "args", strings.Join(args, " "))
		if _, err := execGit(ctx, projectRoot, args...); err != nil {
			return err
		}
	}
	return nil
}

// execGit executes a git command in the given directory and returns stdout.
// It sets GIT_TERMINAL_PROMPT=0 and LC_ALL=C for consistent behavior.
func execGit(ctx context.Context, dir string, args ...string) (string, error) {
	gitPath, err := exec.LookPath("git")
	if err != nil {
		return "", fmt.Errorf("system git lookup: %w", ErrGitNotFound)
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, gitPath, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_TERMINAL_PROMPT=0",
		"LC_ALL=C",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		if len(args) > 0 {
			return "", fmt.Errorf("git %s: %s: %w", args[0], stderrStr, err)
		}
		return "", fmt.Errorf("git: %s: %w", stderrStr, err)
	}

	return strings.TrimRight(stdout.String(), "\n\r"), nil
}
