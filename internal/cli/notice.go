package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hatchkit/hatch/internal/update"
	"github.com/hatchkit/hatch/pkg/version"
)

// updateCheckTimeout caps how long the release lookup may delay exit.
const updateCheckTimeout = 2 * time.Second

// maybeNotifyUpdate prints a short hint when a newer hatch release is
// available. It stays quiet in headless runs, when disabled by config,
// and on any lookup failure.
func maybeNotifyUpdate(ctx context.Context, w io.Writer) {
	if deps.Config.DisableUpdateCheck || deps.Headless.IsHeadless() {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, updateCheckTimeout)
	defer cancel()

	release := update.Check(ctx, deps.UpdateChecker, deps.UpdateCache, version.GetVersion())
	if release == nil {
		return
	}

	notice := fmt.Sprintf("hatch %s is available (you have %s): %s",
		release.Version, version.GetVersion(), release.URL)
	fmt.Fprintln(w, cliMuted.Render(notice))
}
