package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fractureid/internal/domain"
	"fractureid/internal/search"
)

// searchHit is the JSON form of one search result
type searchHit struct {
	Kind           string `json:"kind"`
	Title          string `json:"title"`
	Region         string `json:"region,omitempty"`
	RegionTitle    string `json:"region_title,omitempty"`
	Index          int    `json:"index"`
	Classification string `json:"classification,omitempty"`
	Icon           string `json:"icon,omitempty"`
}

func newSearchCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Search fractures and quick references",
		Long: `Search matches the query, case-insensitively, against fracture names,
classifications, grades, findings and pearls, and against quick-reference
titles and rows. Fractures are listed before quick references, each in
content order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			results := search.NewEngine(a.store).Search(query)
			a.logger.Debug("cli search", zap.String("query", query), zap.Int("results", len(results)))

			if asJSON {
				return writeSearchJSON(cmd.OutOrStdout(), results)
			}
			return writeSearchText(cmd.OutOrStdout(), query, results)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	return cmd
}

func searchHits(results []domain.SearchResult) []searchHit {
	hits := make([]searchHit, 0, len(results))
	for _, r := range results {
		switch m := r.(type) {
		case domain.FractureMatch:
			hits = append(hits, searchHit{
				Kind:           "fracture",
				Title:          m.Fracture.Name,
				Region:         m.RegionID,
				RegionTitle:    m.RegionTitle,
				Index:          m.Index,
				Classification: m.Fracture.Classification,
			})
		case domain.QuickRefMatch:
			hits = append(hits, searchHit{
				Kind:  "quickref",
				Title: m.Title,
				Index: m.TopicIndex,
				Icon:  m.Icon,
			})
		}
	}
	return hits
}

func writeSearchJSON(w io.Writer, results []domain.SearchResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(searchHits(results))
}

func writeSearchText(w io.Writer, query string, results []domain.SearchResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintf(w, "No results for %q\n", query)
		return err
	}
	for _, hit := range searchHits(results) {
		var err error
		if hit.Kind == "fracture" {
			_, err = fmt.Fprintf(w, "fracture  %-32s %s\n", hit.Title, hit.RegionTitle)
		} else {
			_, err = fmt.Fprintf(w, "quickref  %s\n", hit.Title)
		}
		if err != nil {
			return err
		}
	}
	fractures, topics := search.Counts(results)
	_, err := fmt.Fprintf(w, "\n%d fractures, %d quick references\n", fractures, topics)
	return err
}
