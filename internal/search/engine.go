// Package search answers free-text queries over the content store.
//
// Matching is case-insensitive substring containment against one
// concatenated string per record. There is no tokenization, stemming or
// ranking: results come back in content order, fractures first.
package search

import (
	"strings"

	"fractureid/internal/content"
	"fractureid/internal/domain"
)

const fieldSeparator = " "

type fractureEntry struct {
	match    domain.FractureMatch
	haystack string
}

type topicEntry struct {
	match    domain.QuickRefMatch
	haystack string
}

// Engine holds the precomputed haystacks for every searchable record
type Engine struct {
	fractures []fractureEntry
	topics    []topicEntry
}

// NewEngine builds the index from a content store. Records are copied so the
// engine stays valid independent of the caller.
func NewEngine(store content.Store) *Engine {
	e := &Engine{}

	for _, region := range store.Regions() {
		records, err := store.Fractures(region.ID)
		if err != nil {
			// Regions() and Fractures() come from the same store
			continue
		}
		for i, rec := range records {
			e.fractures = append(e.fractures, fractureEntry{
				match: domain.FractureMatch{
					RegionID:    region.ID,
					RegionTitle: region.Title,
					Index:       i,
					Fracture:    rec,
				},
				haystack: strings.ToLower(FractureText(rec)),
			})
		}
	}

	for i, topic := range store.QuickRefTopics() {
		e.topics = append(e.topics, topicEntry{
			match: domain.QuickRefMatch{
				TopicIndex: i,
				Title:      topic.Title,
				Icon:       topic.Icon,
			},
			haystack: strings.ToLower(TopicText(topic)),
		})
	}

	return e
}

// Search returns every record whose searchable text contains query,
// ignoring case. An empty or whitespace-only query yields nil.
func (e *Engine) Search(query string) []domain.SearchResult {
	if IsBlank(query) {
		return nil
	}
	q := strings.ToLower(query)

	results := make([]domain.SearchResult, 0)
	for _, f := range e.fractures {
		if strings.Contains(f.haystack, q) {
			m := f.match
			m.Fracture = m.Fracture.Clone()
			results = append(results, m)
		}
	}
	for _, t := range e.topics {
		if strings.Contains(t.haystack, q) {
			results = append(results, t.match)
		}
	}
	return results
}

// Size returns the number of indexed fractures and topics
func (e *Engine) Size() (fractures, topics int) {
	return len(e.fractures), len(e.topics)
}

// IsBlank reports whether a query means "no active search"
func IsBlank(query string) bool {
	return strings.TrimSpace(query) == ""
}

// FractureText concatenates the searchable fields of a fracture record:
// name, classification, every grade and description, key findings and pearls.
// Management text is not searchable.
func FractureText(f domain.FractureRecord) string {
	parts := make([]string, 0, 2+2*len(f.ClassDetails)+len(f.KeyFindings)+len(f.Pearls))
	parts = append(parts, f.Name, f.Classification)
	for _, c := range f.ClassDetails {
		parts = append(parts, c.Grade, c.Desc)
	}
	parts = append(parts, f.KeyFindings...)
	parts = append(parts, f.Pearls...)
	return strings.Join(parts, fieldSeparator)
}

// TopicText concatenates the searchable fields of a quick-reference topic
func TopicText(t domain.QuickReferenceTopic) string {
	parts := make([]string, 0, 1+2*len(t.Content))
	parts = append(parts, t.Title)
	for _, c := range t.Content {
		parts = append(parts, c.Label, c.Value)
	}
	return strings.Join(parts, fieldSeparator)
}

// Counts splits a result set into fracture and quick-reference hits
func Counts(results []domain.SearchResult) (fractures, topics int) {
	for _, r := range results {
		switch r.(type) {
		case domain.FractureMatch:
			fractures++
		case domain.QuickRefMatch:
			topics++
		}
	}
	return fractures, topics
}
