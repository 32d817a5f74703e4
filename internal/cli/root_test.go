package cli

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/hatchkit/hatch/internal/config"
	"github.com/hatchkit/hatch/internal/pm"
	"github.com/hatchkit/hatch/internal/project"
	"github.com/hatchkit/hatch/internal/registry"
	"github.com/hatchkit/hatch/internal/repo"
	"github.com/hatchkit/hatch/internal/ui"
	"github.com/hatchkit/hatch/internal/update"
	"github.com/hatchkit/hatch/pkg/version"
)

// newTestDeps wires Dependencies for command tests: headless, colorless,
// update checks disabled.
func newTestDeps(t *testing.T) *Dependencies {
	t.Helper()

	headless := ui.NewHeadlessManager()
	headless.ForceHeadless(true)

	cfg := config.Default()
	cfg.DisableUpdateCheck = true

	return &Dependencies{
		Config:        cfg,
		Theme:         ui.NewTheme(ui.ThemeConfig{NoColor: true}),
		Headless:      headless,
		UpdateChecker: update.NewChecker("http://invalid.invalid/latest", nil),
		UpdateCache:   update.NewCache(filepath.Join(t.TempDir(), "update.json"), time.Hour),
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// executeRoot runs a fresh root command with captured output.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// serveKit starts a server responding with a template-kit tarball in the
// codeload shape: every file below a single release root directory.
func serveKit(t *testing.T, files map[string]string) string {
	t.Helper()

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	for name, body := range files {
		hdr := &tar.Header{
			Name:     "kit-0.4.2/" + name,
			Mode:     0o644,
			Size:     int64(len(body)),
			Typeflag: tar.TypeReg,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("write tar header: %v", err)
		}
		if _, err := tw.Write([]byte(body)); err != nil {
			t.Fatalf("write tar body: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar writer: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(buf.Bytes())
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

// stubManager puts a fake package manager on PATH ahead of the real one.
// The stub records its arguments in the working directory.
func stubManager(t *testing.T, name string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs are not portable to windows")
	}
	dir := t.TempDir()
	script := "#!/bin/sh\necho \"$@\" > \"$(pwd)/" + name + "-args.txt\"\nexit 0\n"
	if err := os.WriteFile(filepath.Join(dir, name), []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// setTestIdentity pins the git identity and isolates the test from host
// git configuration.
func setTestIdentity(t *testing.T) {
	t.Helper()
	t.Setenv("GIT_AUTHOR_NAME", "Test User")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "Test User")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@example.com")
	t.Setenv("GIT_CONFIG_GLOBAL", filepath.Join(t.TempDir(), "gitconfig"))
	t.Setenv("GIT_CONFIG_SYSTEM", os.DevNull)
}

func TestRootCmd_VersionFlag(t *testing.T) {
	SetDeps(newTestDeps(t))

	out, err := executeRoot(t, "--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	want := "hatch " + version.GetVersion() + "\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestTemplatesCmd_ListsCatalog(t *testing.T) {
	SetDeps(newTestDeps(t))

	out, err := executeRoot(t, "templates")
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	for _, id := range []string{"react", "next", "svelte", "lib"} {
		if !strings.Contains(out, id) {
			t.Errorf("listing missing %q:\n%s", id, out)
		}
	}

	var defaultLine string
	for _, line := range strings.Split(out, "\n") {
		if fields := strings.Fields(line); len(fields) > 0 && fields[0] == registry.DefaultID {
			defaultLine = line
		}
	}
	if !strings.Contains(defaultLine, "(default)") {
		t.Errorf("default template should be marked: %q", defaultLine)
	}
}

func TestRunCreate_RequiresNameWhenHeadless(t *testing.T) {
	SetDeps(newTestDeps(t))

	_, err := executeRoot(t)
	if err == nil || !strings.Contains(err.Error(), "application name required") {
		t.Errorf("got %v, want name-required error", err)
	}
}

func TestRunCreate_NonInteractiveFlagForcesHeadless(t *testing.T) {
	d := newTestDeps(t)
	d.Headless = ui.NewHeadlessManager()
	SetDeps(d)

	_, err := executeRoot(t, "--non-interactive")
	if err == nil || !strings.Contains(err.Error(), "application name required") {
		t.Errorf("got %v, want name-required error", err)
	}
}

func TestRunCreate_UnknownTemplateFailsBeforeSideEffects(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	d := newTestDeps(t)
	d.Config.Kit.URL = srv.URL
	SetDeps(d)
	t.Chdir(t.TempDir())

	_, err := executeRoot(t, "my-app", "--template", "bogus")
	if !errors.Is(err, registry.ErrUnknownTemplate) {
		t.Errorf("got %v, want ErrUnknownTemplate", err)
	}
	if _, statErr := os.Stat("my-app"); !os.IsNotExist(statErr) {
		t.Error("no directory should be created for an unknown template")
	}
	if hits != 0 {
		t.Errorf("kit was fetched %d times, want none before validation", hits)
	}
}

func TestRunCreate_InvalidNameRejected(t *testing.T) {
	SetDeps(newTestDeps(t))
	t.Chdir(t.TempDir())

	_, err := executeRoot(t, "My App")
	if err == nil || !strings.Contains(err.Error(), "invalid application name") {
		t.Errorf("got %v, want invalid-name error", err)
	}
}

func TestRunCreate_ToleratesUnknownFlags(t *testing.T) {
	SetDeps(newTestDeps(t))

	// Unknown flags are skipped; execution reaches template resolution.
	_, err := executeRoot(t, "my-app", "--frobnicate", "--template", "bogus")
	if !errors.Is(err, registry.ErrUnknownTemplate) {
		t.Errorf("unknown flag should be tolerated, got %v", err)
	}
}

func TestRunCreate_ConfigDefaultTemplateApplies(t *testing.T) {
	d := newTestDeps(t)
	d.Config.DefaultTemplate = "no-such-entry"
	SetDeps(d)
	t.Chdir(t.TempDir())

	_, err := executeRoot(t, "my-app")
	if !errors.Is(err, registry.ErrUnknownTemplate) {
		t.Errorf("configured default should feed template resolution, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "no-such-entry") {
		t.Errorf("error should carry the configured id: %v", err)
	}
}

func TestRunCreate_TemplateFlagBeatsConfig(t *testing.T) {
	d := newTestDeps(t)
	d.Config.DefaultTemplate = "no-such-entry"
	SetDeps(d)
	t.Chdir(t.TempDir())

	_, err := executeRoot(t, "my-app", "-t", "also-missing")
	if err == nil || !strings.Contains(err.Error(), "also-missing") {
		t.Errorf("explicit flag should win over config, got %v", err)
	}
}

func TestRunCreate_EndToEnd(t *testing.T) {
	if !repo.Available() {
		t.Skip("git not installed")
	}
	setTestIdentity(t)
	stubManager(t, "npm")
	t.Setenv(pm.UserAgentEnv, "npm/10.0.0 node/v20.0.0 linux x64")

	kitURL := serveKit(t, map[string]string{
		"README.md": "# kit\n",
		"templates/next/package.json": `{
  "name": "next-starter",
  "version": "0.0.0",
  "description": "starter",
  "author": "Kit Authors",
  "scripts": {"dev": "next dev", "build": "next build"}
}
`,
		"templates/next/app/page.tsx": "export default function Page() { return null }\n",
	})

	d := newTestDeps(t)
	d.Config.Kit.URL = kitURL
	SetDeps(d)
	t.Chdir(t.TempDir())

	out, err := executeRoot(t, "demo-app", "-t", "next", "--non-interactive")
	if err != nil {
		t.Fatalf("scaffold failed: %v\noutput:\n%s", err, out)
	}

	for _, want := range []string{
		"Installing dependencies with npm",
		"demo-app is ready",
		"cd demo-app",
		"npm run dev",
		"localhost:3000",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	data, err := os.ReadFile(filepath.Join("demo-app", "package.json"))
	if err != nil {
		t.Fatalf("read package.json: %v", err)
	}
	var manifest map[string]any
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("parse package.json: %v", err)
	}
	if got := manifest["name"]; got != "demo-app" {
		t.Errorf("manifest name: got %v, want demo-app", got)
	}
	if got := manifest["version"]; got != "0.1.0" {
		t.Errorf("manifest version: got %v, want 0.1.0", got)
	}

	if _, err := os.Stat(filepath.Join("demo-app", "app", "page.tsx")); err != nil {
		t.Errorf("nested template file should be extracted: %v", err)
	}
	if _, err := os.Stat(filepath.Join("demo-app", ".git")); err != nil {
		t.Errorf("repository should be initialized: %v", err)
	}
	if _, err := os.Stat(filepath.Join("demo-app", "npm-args.txt")); err != nil {
		t.Errorf("install stub should have run in the project root: %v", err)
	}

	// A second run against the same name must refuse before touching anything.
	if _, err := executeRoot(t, "demo-app", "-t", "next", "--non-interactive"); !errors.Is(err, project.ErrTargetExists) {
		t.Fatalf("re-running with an existing directory: got %v, want ErrTargetExists", err)
	}
	if _, err := os.ReadFile(filepath.Join("demo-app", "package.json")); err != nil {
		t.Errorf("existing project should be left untouched: %v", err)
	}
}
