package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hatchkit/hatch/internal/registry"
)

// newTemplatesCmd lists the template catalog with the scaffolding
// default marked.
func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the templates hatch can scaffold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			templates, err := registry.All()
			if err != nil {
				return err
			}

			caser := cases.Title(language.English)
			w := cmd.OutOrStdout()
			for _, tmpl := range templates {
				family := tmpl.Family
				if family == "" {
					family = "app"
				}
				marker := ""
				if tmpl.ID == registry.DefaultID {
					marker = "  (default)"
				}
				fmt.Fprintf(w, "%-14s %-28s %s%s\n", tmpl.ID, tmpl.Label, caser.String(family), marker)
			}
			return nil
		},
	}
}
