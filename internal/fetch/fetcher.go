// Package fetch downloads the pinned template-kit tarball and extracts a
// single template subtree into a freshly provisioned project directory.
package fetch

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hatchkit/hatch/internal/defs"
	"github.com/hatchkit/hatch/pkg/version"
)

// kitTarballBase is the codeload prefix release tags are appended to.
const kitTarballBase = "https://codeload.github.com/hatchkit/templates/tar.gz/refs/tags/"

// DefaultKitTag is the template-kit release every hatch build is pinned to.
const DefaultKitTag = "v0.4.2"

// DefaultKitURL is the pinned release tarball of the template kit.
// Every hatch release references one immutable kit tag.
const DefaultKitURL = kitTarballBase + DefaultKitTag

// KitURLForTag returns the release tarball URL for an arbitrary tag of
// the default template kit.
func KitURLForTag(tag string) string {
	return kitTarballBase + tag
}

const defaultTimeout = 5 * time.Minute

// Sentinel errors for the fetch package.
var (
	// ErrTemplateNotInKit indicates the kit archive had no entries for the template.
	ErrTemplateNotInKit = errors.New("template not present in kit")

	// ErrPathTraversal indicates an archive entry tried to escape the project root.
	ErrPathTraversal = errors.New("archive entry escapes project root")
)

// Fetcher downloads the kit archive and extracts template subtrees.
type Fetcher struct {
	kitURL string
	client *http.Client
	logger *slog.Logger
}

// NewFetcher creates a Fetcher. An empty kitURL uses DefaultKitURL, a nil
// client gets a timeout-bounded default, and a nil logger discards.
func NewFetcher(kitURL string, client *http.Client, logger *slog.Logger) *Fetcher {
	if kitURL == "" {
		kitURL = DefaultKitURL
	}
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Fetcher{kitURL: kitURL, client: client, logger: logger}
}

// Fetch downloads the kit tarball and extracts templates/<templateDir>/ into
// projectRoot, stripping the prefix so entries land directly under the root.
// The download is a single attempt and any failure aborts the run; the
// kit's own version-control metadata is never extracted and the temporary
// archive is removed on every exit path.
func (f *Fetcher) Fetch(ctx context.Context, projectRoot, templateDir string) error {
	f.logger.Debug("downloading template kit", "url", f.kitURL, "template", templateDir)

	tmp, err := os.CreateTemp("", "hatch-kit-*.tar.gz")
	if err != nil {
		return fmt.Errorf("create temp archive: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := f.download(ctx, tmp); err != nil {
		return err
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind temp archive: %w", err)
	}

	extracted, err := f.extract(ctx, tmp, projectRoot, templateDir)
	if err != nil {
		return err
	}
	if extracted == 0 {
		return fmt.Errorf("%w: %q", ErrTemplateNotInKit, templateDir)
	}

	f.logger.Debug("template extracted", "files", extracted, "root", projectRoot)
	return nil
}

// download fetches the kit tarball into tmp.
func (f *Fetcher) download(ctx context.Context, tmp *os.File) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.kitURL, nil)
	if err != nil {
		return fmt.Errorf("create kit request: %w", err)
	}
	req.Header.Set("User-Agent", "hatch/"+version.GetVersion())

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("download template kit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("template kit download returned status %d", resp.StatusCode)
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		return fmt.Errorf("write temp archive: %w", err)
	}
	return nil
}

// extract walks the kit archive and writes matching entries under projectRoot.
// Returns the number of regular files written.
func (f *Fetcher) extract(ctx context.Context, archive io.Reader, projectRoot, templateDir string) (int, error) {
	gz, err := gzip.NewReader(archive)
	if err != nil {
		return 0, fmt.Errorf("open kit archive: %w", err)
	}
	defer gz.Close()

	prefix := "templates/" + templateDir + "/"
	files := 0

	tr := tar.NewReader(gz)
	for {
		select {
		case <-ctx.Done():
			return files, ctx.Err()
		default:
		}

		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return files, fmt.Errorf("read kit archive: %w", err)
		}

		rel, ok := kitRelativePath(hdr.Name, prefix)
		if !ok {
			continue
		}

		if err := validateExtractPath(projectRoot, rel); err != nil {
			return files, err
		}
		dest := filepath.Join(projectRoot, filepath.FromSlash(rel))

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return files, fmt.Errorf("extract mkdir %q: %w", rel, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return files, fmt.Errorf("extract mkdir %q: %w", rel, err)
			}
			perm := hdr.FileInfo().Mode().Perm()
			if perm == 0 {
				perm = 0o644
			}
			out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
			if err != nil {
				return files, fmt.Errorf("extract create %q: %w", rel, err)
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return files, fmt.Errorf("extract write %q: %w", rel, err)
			}
			if err := out.Close(); err != nil {
				return files, fmt.Errorf("extract close %q: %w", rel, err)
			}
			files++
		default:
			// Symlinks and special entries are not part of any template.
			f.logger.Debug("skipping archive entry", "name", hdr.Name, "type", hdr.Typeflag)
		}
	}

	return files, nil
}

// kitRelativePath maps an archive entry name to its path under the project
// root. Codeload tarballs wrap everything in a top-level <repo>-<tag>/
// directory; that wrapper and the templates/<dir>/ prefix are stripped.
// Entries outside the requested template, and the kit's own .git metadata,
// report ok=false. The returned path is not cleaned; the extract path
// validation rejects traversal in it.
func kitRelativePath(name, prefix string) (string, bool) {
	name = strings.TrimPrefix(name, "./")

	// Drop the codeload wrapper directory.
	_, rest, found := strings.Cut(name, "/")
	if !found {
		return "", false
	}
	if !strings.HasPrefix(rest, prefix) {
		return "", false
	}

	rel := strings.TrimPrefix(rest, prefix)
	if rel == "" {
		return "", false
	}
	if rel == defs.GitDir || strings.HasPrefix(rel, defs.GitDir+"/") {
		return "", false
	}
	return rel, true
}

// validateExtractPath ensures an archive entry cannot escape projectRoot.
func validateExtractPath(projectRoot, relPath string) error {
	cleaned := filepath.Clean(filepath.FromSlash(relPath))

	if filepath.IsAbs(cleaned) {
		return fmt.Errorf("%w: absolute path %q", ErrPathTraversal, relPath)
	}
	if strings.HasPrefix(cleaned, "..") || strings.Contains(cleaned, string(filepath.Separator)+"..") {
		return fmt.Errorf("%w: parent reference in %q", ErrPathTraversal, relPath)
	}

	absRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return fmt.Errorf("resolve project root: %w", err)
	}
	absPath := filepath.Join(absRoot, cleaned)
	if !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) && absPath != absRoot {
		return fmt.Errorf("%w: %q escapes project root", ErrPathTraversal, relPath)
	}
	return nil
}
