package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fractureid/internal/content"
	"fractureid/internal/domain"
	"fractureid/internal/ui/views"
)

func newShowCmd(a *app) *cobra.Command {
	var raw bool
	var width int

	cmd := &cobra.Command{
		Use:   "show REGION [NAME]",
		Short: "Show a region's fractures or one fracture record",
		Long: `With only a region id, show lists the region's fractures. With a name it
renders that fracture record. Names match case-insensitively; a unique
prefix is enough.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			region, err := a.store.Region(args[0])
			if err != nil {
				return err
			}
			records, err := a.store.Fractures(region.ID)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				if _, err := fmt.Fprintf(out, "%s %s\n\n", region.Icon, region.Title); err != nil {
					return err
				}
				for i, f := range records {
					if _, err := fmt.Fprintf(out, "%2d. %s  (%s)\n", i+1, f.Name, f.Classification); err != nil {
						return err
					}
				}
				return nil
			}

			f, err := matchFracture(records, region.ID, args[1])
			if err != nil {
				return err
			}
			md := views.FractureMarkdown(&region, f)
			if raw {
				_, err = fmt.Fprint(out, md)
				return err
			}
			if width <= 0 {
				width = a.cfg.UI.WordWrap
			}
			rendered, err := views.NewMarkdownRenderer(a.cfg.UI.GlamourStyle).Render(md, width)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print markdown without rendering")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap width (default: ui.word_wrap)")
	return cmd
}

// matchFracture finds a record by exact name, then by case-insensitive
// name, then by unique case-insensitive prefix.
func matchFracture(records []domain.FractureRecord, regionID, name string) (domain.FractureRecord, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	var prefixed []domain.FractureRecord
	for _, f := range records {
		if f.Name == name || strings.ToLower(f.Name) == want {
			return f, nil
		}
		if strings.HasPrefix(strings.ToLower(f.Name), want) {
			prefixed = append(prefixed, f)
		}
	}
	switch len(prefixed) {
	case 1:
		return prefixed[0], nil
	case 0:
		return domain.FractureRecord{}, fmt.Errorf("fracture %q in region %q: %w", name, regionID, content.ErrNotFound)
	}
	names := make([]string, len(prefixed))
	for i, f := range prefixed {
		names[i] = f.Name
	}
	return domain.FractureRecord{}, fmt.Errorf("%q is ambiguous in region %q: %s", name, regionID, strings.Join(names, ", "))
}
