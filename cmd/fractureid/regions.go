package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fractureid/internal/content"
)

func newRegionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List body regions and their fracture counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, r := range a.store.Regions() {
				records, err := a.store.Fractures(r.ID)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintf(out, "%-10s %s %-14s %d\n", r.ID, r.Icon, r.Label, len(records)); err != nil {
					return err
				}
			}
			stats := content.Count(a.store)
			_, err := fmt.Fprintf(out, "\n%d regions, %d fractures, %d quick references, %d checklists\n",
				stats.Regions, stats.Fractures, stats.Topics, stats.Checklists)
			return err
		},
	}
}
