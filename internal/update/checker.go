// Package update checks whether a newer hatch release has been published.
// The check is advisory: it never blocks scaffolding, and its result is
// cached so at most one request per day leaves the machine.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/hatchkit/hatch/internal/resilience"
	"github.com/hatchkit/hatch/pkg/version"
)

// DefaultAPIURL is the GitHub latest-release endpoint for hatch.
const DefaultAPIURL = "https://api.github.com/repos/hatchkit/hatch/releases/latest"

// checkRetry bounds release-lookup retries. The lookup runs inside a
// short caller deadline, so the whole backoff stays under a second.
var checkRetry = resilience.Policy{
	MaxRetries: 2,
	BaseDelay:  150 * time.Millisecond,
	MaxDelay:   500 * time.Millisecond,
	UseJitter:  true,
}

// Release describes a published hatch release.
type Release struct {
	Version     string    `json:"tag_name"`
	PublishedAt time.Time `json:"published_at"`
	URL         string    `json:"html_url"`
}

// Checker fetches the latest release metadata.
type Checker interface {
	CheckLatest(ctx context.Context) (*Release, error)
}

// checker is the concrete implementation of Checker.
type checker struct {
	apiURL string
	client *http.Client
	retry  resilience.Policy
}

// NewChecker creates a Checker that queries the given API URL. An empty
// apiURL uses DefaultAPIURL; for testing, pass the httptest.Server URL.
func NewChecker(apiURL string, client *http.Client) Checker {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &checker{
		apiURL: apiURL,
		client: client,
		retry:  checkRetry,
	}
}

// CheckLatest fetches the latest release metadata from GitHub. Transient
// lookup failures are retried within the caller's deadline.
func (c *checker) CheckLatest(ctx context.Context) (*Release, error) {
	var release *Release
	err := resilience.Retry(ctx, c.retry, func() error {
		var err error
		release, err = c.fetchLatest(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return release, nil
}

func (c *checker) fetchLatest(ctx context.Context) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return nil, resilience.Permanent(fmt.Errorf("checker: create request: %w", err))
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "hatch/"+version.GetVersion())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("checker: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("checker: unexpected status %d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			// Rate limits and missing repos do not heal within a retry window.
			return nil, resilience.Permanent(err)
		}
		return nil, err
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("checker: decode response: %w", err)
	}
	return &release, nil
}

// IsNewer reports whether latest is a strictly newer semantic version
// than current. Versions that do not parse (dev builds, "none") report
// false so unreleased binaries never nag.
func IsNewer(latest, current string) bool {
	lv, err := semver.NewVersion(latest)
	if err != nil {
		return false
	}
	cv, err := semver.NewVersion(current)
	if err != nil {
		return false
	}
	return lv.GreaterThan(cv)
}

// Check returns the newer release if one exists, consulting the cache
// before the network. Failed checks are cached as "no update" so an
// unreachable API does not re-fire the request on every run.
func Check(ctx context.Context, checker Checker, cache *Cache, currentVersion string) *Release {
	if entry := cache.Get(currentVersion); entry != nil {
		if entry.Latest != nil && IsNewer(entry.Latest.Version, currentVersion) {
			return entry.Latest
		}
		return nil
	}

	entry := &Entry{CheckedAt: time.Now(), CurrentVer: currentVersion}
	release, err := checker.CheckLatest(ctx)
	if err == nil {
		entry.Latest = release
	}
	_ = cache.Set(entry)

	if release != nil && IsNewer(release.Version, currentVersion) {
		return release
	}
	return nil
}
