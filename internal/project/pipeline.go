package project

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hatchkit/hatch/internal/manifest"
	"github.com/hatchkit/hatch/internal/pm"
	"github.com/hatchkit/hatch/internal/registry"
	"github.com/hatchkit/hatch/internal/ui"
)

// TemplateFetcher downloads the template kit and extracts a single
// template into the project root.
type TemplateFetcher interface {
	Fetch(ctx context.Context, projectRoot, templateDir string) error
}

// DependencyInstaller runs the package manager's install step inside
// the project root, streaming the manager's output to the console.
type DependencyInstaller interface {
	Install(ctx context.Context, dir string, m pm.Manager) error
}

// RepoInitializer creates the project's initial git history.
type RepoInitializer interface {
	Available() bool
	Init(ctx context.Context, projectRoot string) error
}

// Options configures a single scaffolding run.
type Options struct {
	// AppName is the new project's directory name and package name.
	AppName string

	// Template is the catalog entry being scaffolded.
	Template registry.Template

	// ParentDir is the directory the project is created under, usually
	// the invoking process's working directory.
	ParentDir string

	// Manager is the package manager used for the install step.
	Manager pm.Manager
}

// Result reports what a scaffolding run produced.
type Result struct {
	// ProjectRoot is the absolute path of the created project.
	ProjectRoot string

	// Manager is the package manager the project was installed with.
	Manager pm.Manager

	// NextStep is the suggested follow-up script (dev or build).
	NextStep registry.NextStep

	// GitInitialized reports whether the initial commit was created.
	GitInitialized bool

	// Warnings collects non-fatal issues encountered along the way.
	Warnings []string
}

// Scaffolder runs the project creation pipeline. Collaborators are
// injected so transports and process execution can be substituted in tests.
type Scaffolder struct {
	fetcher   TemplateFetcher
	installer DependencyInstaller
	git       RepoInitializer
	progress  ui.Progress
	out       io.Writer
	logger    *slog.Logger
}

// NewScaffolder wires a Scaffolder from its collaborators. A nil progress
// renders nothing and a nil logger discards log output.
func NewScaffolder(fetcher TemplateFetcher, installer DependencyInstaller, git RepoInitializer, progress ui.Progress, logger *slog.Logger) *Scaffolder {
	if progress == nil {
		progress = noopProgress{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scaffolder{
		fetcher:   fetcher,
		installer: installer,
		git:       git,
		progress:  progress,
		out:       os.Stdout,
		logger:    logger,
	}
}

// SetOutput redirects the pipeline's console lines, which go to stdout
// by default.
func (s *Scaffolder) SetOutput(w io.Writer) {
	if w != nil {
		s.out = w
	}
}

// Run executes the scaffolding pipeline for opts. It stops at the first
// fatal error; advisory problems (manifest issues, missing git) are
// collected into Result.Warnings instead. There is no rollback: a failed
// run leaves the partially created directory in place for inspection.
func (s *Scaffolder) Run(ctx context.Context, opts Options) (*Result, error) {
	result := &Result{
		Manager:  opts.Manager,
		NextStep: opts.Template.Next(),
	}

	// Step 1: provision the target directory.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root, err := ProvisionDir(opts.ParentDir, opts.AppName)
	if err != nil {
		return nil, err
	}
	result.ProjectRoot = root
	s.logger.Info("project directory created", "path", root)

	// Step 2: download the kit and extract the template.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	spin := s.progress.Spinner(fmt.Sprintf("Downloading the %s template", opts.Template.ID))
	err = s.fetcher.Fetch(ctx, root, opts.Template.Dir)
	spin.Stop()
	if err != nil {
		return nil, fmt.Errorf("fetch template %q: %w", opts.Template.ID, err)
	}
	s.logger.Info("template extracted", "template", opts.Template.ID, "path", root)

	// Step 3: rewrite the manifest for the new project.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := manifest.Rewrite(root, opts.AppName); err != nil {
		return nil, err
	}
	s.logger.Info("manifest rewritten", "name", opts.AppName, "version", manifest.InitialVersion)

	// Schema validation is advisory; templates ship what they ship.
	issues, err := manifest.Validate(root)
	if err != nil {
		s.logger.Debug("manifest validation skipped", "error", err)
	}
	for _, issue := range issues {
		result.Warnings = append(result.Warnings, "package.json: "+issue.String())
	}

	// Step 4: install dependencies with the detected package manager.
	// The manager owns the console while it runs, so the announcement is
	// a plain line rather than an animated indicator.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fmt.Fprintf(s.out, "\nInstalling dependencies with %s:\n\n", opts.Manager)
	if err := s.installer.Install(ctx, root, opts.Manager); err != nil {
		return nil, err
	}
	s.logger.Info("dependencies installed", "manager", opts.Manager)

	// Step 5: initialize the git repository. A machine without git gets a
	// warning, not a failure; with git present any sub-step failure is fatal.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.git.Available() {
		result.Warnings = append(result.Warnings, "git not found in PATH, skipping repository initialization")
		s.logger.Warn("git not found, skipping repository initialization")
	} else {
		if err := s.git.Init(ctx, root); err != nil {
			return nil, err
		}
		result.GitInitialized = true
		s.logger.Info("repository initialized", "branch", "main")
	}

	s.logger.Info("scaffold complete", "app", opts.AppName, "template", opts.Template.ID)
	return result, nil
}

// noopProgress renders nothing. It backs a nil progress argument.
type noopProgress struct{}

func (noopProgress) Spinner(string) ui.Spinner { return noopSpinner{} }

type noopSpinner struct{}

func (noopSpinner) SetTitle(string) {}
func (noopSpinner) Stop()           {}
