package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hatchkit/hatch/internal/registry"
	"github.com/hatchkit/hatch/pkg/version"
)

// newRootCmd builds the root command tree. Each invocation gets a fresh
// command so flag state never leaks between runs.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hatch [app-name]",
		Short: "Scaffold a web project from the hatchkit template catalog",
		Long: `hatch creates a ready-to-run project from the pinned hatchkit template
kit: it downloads the template, rewrites the package manifest, installs
dependencies with your package manager, and creates the first commit.`,
		Example: `  hatch
  hatch my-app
  hatch my-app --template svelte`,
		Args:          cobra.ArbitraryArgs,
		Version:       version.GetVersion(),
		RunE:          runCreate,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Wrapper tools (npx, pnpm dlx) sometimes forward their own flags.
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	}

	cmd.SetVersionTemplate(fmt.Sprintf("hatch %s\n", version.GetVersion()))

	cmd.Flags().StringP("template", "t", registry.DefaultID, "template to scaffold")
	cmd.Flags().Bool("non-interactive", false, "never prompt; fail when required values are missing")
	cmd.PersistentFlags().Bool("verbose", false, "log debug detail to stderr")

	cmd.AddCommand(newTemplatesCmd())

	return cmd
}

// Execute runs the hatch CLI and returns the first error encountered.
// Errors are printed exactly once, here.
func Execute() error {
	InitDependencies()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), renderError(err))
		return err
	}
	return nil
}
