package session

import (
	"slices"

	"fractureid/internal/domain"
	"fractureid/internal/navigation"
)

// Snapshot is a read-only copy of everything the view needs to draw one frame
type Snapshot struct {
	Tab       domain.Tab
	Screen    navigation.Screen
	Focus     navigation.Focus
	Overlay   navigation.SearchOverlay
	CanGoBack bool

	Regions    []domain.Region
	Topics     []domain.QuickReferenceTopic
	Checklists []domain.ChecklistDefinition

	// Set when the focus is at or below a region
	Region    *domain.Region
	Fractures []domain.FractureRecord

	// Set on the detail screens
	Fracture *domain.FractureRecord
	Topic    *domain.QuickReferenceTopic

	Results  []domain.SearchResult
	Progress map[domain.StepKey]bool

	// Error of the last rejected intent, nil once an intent succeeds
	LastError error
}

// Snapshot returns the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Tab:        s.machine.Tab(),
		Screen:     s.machine.Screen(),
		Focus:      s.machine.Focus(),
		Overlay:    s.machine.Overlay(),
		CanGoBack:  s.machine.CanGoBack(),
		Regions:    s.store.Regions(),
		Topics:     s.store.QuickRefTopics(),
		Checklists: s.store.Checklists(),
		Results:    slices.Clone(s.results),
		Progress:   s.tracker.Snapshot(),
		LastError:  s.lastErr,
	}

	var regionID string
	switch f := snap.Focus.(type) {
	case navigation.RegionSelected:
		regionID = f.RegionID
	case navigation.FractureSelected:
		regionID = f.RegionID
		rec := f.Fracture.Clone()
		snap.Fracture = &rec
	case navigation.QuickRefSelected:
		topic := snap.Topics[f.TopicIndex]
		snap.Topic = &topic
	}
	if regionID != "" {
		if r, err := s.store.Region(regionID); err == nil {
			snap.Region = &r
		}
		snap.Fractures, _ = s.store.Fractures(regionID)
	}
	return snap
}

// CompletedCount returns the number of done steps of a checklist in the snapshot
func (snap Snapshot) CompletedCount(checklistIndex int) int {
	n := 0
	for key, done := range snap.Progress {
		if done && key.Checklist == checklistIndex {
			n++
		}
	}
	return n
}
