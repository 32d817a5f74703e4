package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hatchkit/hatch/internal/cli/wizard"
	"github.com/hatchkit/hatch/internal/config"
	"github.com/hatchkit/hatch/internal/fetch"
	"github.com/hatchkit/hatch/internal/pm"
	"github.com/hatchkit/hatch/internal/project"
	"github.com/hatchkit/hatch/internal/registry"
	"github.com/hatchkit/hatch/internal/repo"
	"github.com/hatchkit/hatch/internal/ui"
)

// runCreate resolves the app name and template, from arguments or the
// wizard, then hands off to the scaffolding pipeline.
func runCreate(cmd *cobra.Command, args []string) error {
	logger := deps.Logger
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger = newLogger(true)
		deps.Config = config.NewLoader(logger).Load()
	}

	if nonInteractive, _ := cmd.Flags().GetBool("non-interactive"); nonInteractive {
		deps.Headless.ForceHeadless(true)
	}

	templateID, _ := cmd.Flags().GetString("template")
	templateExplicit := cmd.Flags().Changed("template")
	if !templateExplicit && deps.Config.DefaultTemplate != "" {
		templateID = deps.Config.DefaultTemplate
	}

	var appName string
	if len(args) > 0 {
		appName = strings.TrimSpace(args[0])
	}

	switch {
	case appName == "" && deps.Headless.IsHeadless():
		return errors.New("application name required: hatch <app-name>")
	case appName == "":
		answers, err := wizard.Run(wizard.Options{
			DefaultTemplate: templateID,
			AskTemplate:     !templateExplicit,
		})
		if errors.Is(err, wizard.ErrCancelled) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
		if err != nil {
			return err
		}
		appName = answers.AppName
		templateID = answers.Template
	default:
		if err := wizard.ValidateAppName(appName); err != nil {
			return fmt.Errorf("invalid application name %q: %w", appName, err)
		}
	}

	// Resolve the template before touching the filesystem.
	tmpl, err := registry.Lookup(templateID)
	if err != nil {
		return err
	}

	manager := pm.Detect(os.Getenv(pm.UserAgentEnv))
	logger.Debug("resolved scaffolding inputs",
		"app", appName, "template", tmpl.ID, "manager", manager)

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}

	scaffolder := project.NewScaffolder(
		fetch.NewFetcher(deps.Config.ResolvedKitURL(), nil, logger),
		pm.NewInstaller(cmd.OutOrStdout(), cmd.ErrOrStderr(), logger),
		repo.NewInitializer(logger),
		ui.NewProgress(deps.Theme, deps.Headless),
		logger,
	)
	scaffolder.SetOutput(cmd.OutOrStdout())

	result, err := scaffolder.Run(cmd.Context(), project.Options{
		AppName:   appName,
		Template:  tmpl,
		ParentDir: cwd,
		Manager:   manager,
	})
	if err != nil {
		return err
	}

	renderCompletion(cmd.OutOrStdout(), appName, tmpl, result, styledOutput())
	maybeNotifyUpdate(cmd.Context(), cmd.ErrOrStderr())

	return nil
}

// styledOutput reports whether completion output may use color and
// rendered markdown.
func styledOutput() bool {
	return !deps.Theme.NoColor && !deps.Headless.IsHeadless()
}
