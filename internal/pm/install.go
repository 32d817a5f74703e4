package pm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

// ErrManagerNotFound indicates the resolved package manager is not on PATH.
var ErrManagerNotFound = errors.New("package manager not found on PATH")

// Installer runs the resolved manager's install subcommand inside a project
// directory. Install output is streamed, not captured.
type Installer struct {
	out    io.Writer
	errOut io.Writer
	logger *slog.Logger
}

// NewInstaller creates an Installer writing subprocess output to out/errOut.
// Nil writers default to the process's stdout/stderr; a nil logger discards.
func NewInstaller(out, errOut io.Writer, logger *slog.Logger) *Installer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Installer{out: out, errOut: errOut, logger: logger}
}

// Install runs `<manager> install` in dir after clearing lockfiles that
// belong to other managers. A non-zero exit is returned as an error naming
// the failed command.
func (i *Installer) Install(ctx context.Context, dir string, m Manager) error {
	i.removeStaleLockfiles(dir, m)

	path, err := exec.LookPath(m.String())
	if err != nil {
		return fmt.Errorf("%s: %w", m, ErrManagerNotFound)
	}

	i.logger.Debug("running install", "manager", m.String(), "dir", dir)

	cmd := exec.CommandContext(ctx, path, "install")
	cmd.Dir = dir
	cmd.Stdout = i.out
	cmd.Stderr = i.errOut

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s install: %w", m, err)
	}
	return nil
}

// removeStaleLockfiles deletes lockfiles written by managers other than the
// resolved one. Best-effort: removal errors are logged and ignored so a
// read-only lockfile never aborts the run.
func (i *Installer) removeStaleLockfiles(dir string, m Manager) {
	for _, other := range All() {
		if other == m {
			continue
		}
		path := filepath.Join(dir, other.Lockfile())
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := os.Remove(path); err != nil {
			i.logger.Debug("failed to remove stale lockfile", "path", path, "error", err)
			continue
		}
		i.logger.Debug("removed stale lockfile", "path", path)
	}
}
