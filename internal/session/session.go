// Package session applies user intents to one browsing session: it owns the
// navigation machine, the search engine and the checklist tracker, keeps the
// search results in step with the query and publishes what happened on the
// event bus.
package session

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"fractureid/internal/checklist"
	"fractureid/internal/content"
	"fractureid/internal/domain"
	"fractureid/internal/eventbus"
	"fractureid/internal/navigation"
	"fractureid/internal/search"
)

// Session serializes intents for a single user
type Session struct {
	mu sync.Mutex

	store   content.Store
	engine  *search.Engine
	machine *navigation.Machine
	tracker *checklist.Tracker
	bus     eventbus.EventBus
	logger  *zap.Logger

	results   []domain.SearchResult
	lastQuery string
	lastErr   error
}

// New creates a session over a content store. bus and logger may be nil.
func New(store content.Store, bus eventbus.EventBus, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		store:   store,
		engine:  search.NewEngine(store),
		machine: navigation.NewMachine(store),
		tracker: checklist.NewTracker(store.Checklists()),
		bus:     bus,
		logger:  logger.Named("session"),
	}
}

// SwitchTab jumps to the top level of a tab
func (s *Session) SwitchTab(tab domain.Tab) error {
	return s.navigate("switch-tab", func(m *navigation.Machine) error {
		return m.SwitchTab(tab)
	})
}

// SelectRegion drills into a region
func (s *Session) SelectRegion(id string) error {
	return s.navigate("select-region", func(m *navigation.Machine) error {
		return m.SelectRegion(id)
	})
}

// SelectFracture opens a fracture of the selected region
func (s *Session) SelectFracture(name string) error {
	return s.navigate("select-fracture", func(m *navigation.Machine) error {
		return m.SelectFracture(name)
	})
}

// SelectQuickRefTopic opens a quick-reference topic
func (s *Session) SelectQuickRefTopic(index int) error {
	return s.navigate("select-topic", func(m *navigation.Machine) error {
		return m.SelectQuickRefTopic(index)
	})
}

// OpenSearch opens the search overlay with an empty query
func (s *Session) OpenSearch() error {
	return s.navigate("open-search", func(m *navigation.Machine) error {
		return m.OpenSearch()
	})
}

// SetQuery updates the search text and recomputes the results
func (s *Session) SetQuery(text string) error {
	return s.navigate("set-query", func(m *navigation.Machine) error {
		return m.SetQuery(text)
	})
}

// CloseSearch closes the overlay and restores the prior screen
func (s *Session) CloseSearch() error {
	return s.navigate("close-search", func(m *navigation.Machine) error {
		return m.CloseSearch()
	})
}

// SelectResult opens the i-th entry of the current search results
func (s *Session) SelectResult(i int) error {
	return s.navigate("select-result", func(m *navigation.Machine) error {
		if i < 0 || i >= len(s.results) {
			return fmt.Errorf("search result %d of %d: %w", i, len(s.results), navigation.ErrNotFound)
		}
		switch r := s.results[i].(type) {
		case domain.FractureMatch:
			return m.OpenFractureFromSearch(r.RegionID, r.Index)
		case domain.QuickRefMatch:
			return m.OpenQuickRefFromSearch(r.TopicIndex)
		}
		return fmt.Errorf("search result %d: unexpected type %T", i, s.results[i])
	})
}

// Back undoes one navigation level and reports whether anything changed
func (s *Session) Back() bool {
	var changed bool
	_ = s.navigate("back", func(m *navigation.Machine) error {
		changed = m.Back()
		return nil
	})
	return changed
}

// ToggleStep flips one checklist step and returns its new state.
// Panics if the indices are out of range.
func (s *Session) ToggleStep(checklistIndex, step int) bool {
	ev := func() domain.StepToggledEvent {
		s.mu.Lock()
		defer s.mu.Unlock()
		done := s.tracker.Toggle(checklistIndex, step)
		return domain.StepToggledEvent{
			Key:       domain.StepKey{Checklist: checklistIndex, Step: step},
			Done:      done,
			Completed: s.tracker.CompletedCount(checklistIndex),
			Total:     s.tracker.StepCount(checklistIndex),
		}
	}()

	s.publish(ev)
	return ev.Done
}

// ResetChecklist clears the progress of one checklist
func (s *Session) ResetChecklist(checklistIndex int) {
	func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.tracker.Reset(checklistIndex)
	}()

	s.publish(domain.ChecklistResetEvent{Checklist: checklistIndex})
}

// Store returns the content store backing the session
func (s *Session) Store() content.Store {
	return s.store
}

// navigate runs one intent under the lock, then publishes the resulting
// events once the lock is released.
func (s *Session) navigate(intent string, apply func(m *navigation.Machine) error) error {
	events, err := s.applyLocked(intent, apply)
	if err != nil {
		s.logger.Debug("intent rejected", zap.String("intent", intent), zap.Error(err))
		s.publish(domain.IntentRejectedEvent{Intent: intent, Err: err})
		return err
	}

	for _, ev := range events {
		s.publish(ev)
	}
	return nil
}

// applyLocked applies an intent and refreshes the search results, returning
// the events it caused.
func (s *Session) applyLocked(intent string, apply func(m *navigation.Machine) error) ([]domain.DomainEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.machine.Overlay()
	beforeFocus := s.machine.Focus()

	if err := apply(s.machine); err != nil {
		s.lastErr = err
		return nil, err
	}
	s.lastErr = nil

	var events []domain.DomainEvent
	after := s.machine.Overlay()
	switch {
	case !before.Open && after.Open:
		events = append(events, domain.SearchOpenedEvent{})
	case before.Open && !after.Open:
		events = append(events, domain.SearchClosedEvent{Query: before.Query})
	}

	if after.Query != s.lastQuery {
		s.lastQuery = after.Query
		s.results = s.engine.Search(after.Query)
		if !search.IsBlank(after.Query) {
			fractures, topics := search.Counts(s.results)
			events = append(events, domain.SearchCompletedEvent{
				Query:        after.Query,
				FractureHits: fractures,
				QuickRefHits: topics,
			})
		}
	}

	if focus := s.machine.Focus(); !sameFocus(beforeFocus, focus) {
		events = append(events, domain.FocusChangedEvent{
			Intent: intent,
			Tab:    focus.Tab(),
			Focus:  focus.String(),
		})
	}
	return events, nil
}

func (s *Session) publish(ev domain.DomainEvent) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}

// sameFocus compares foci by variant and identity. Fracture records hold
// slices, so the variants cannot be compared with ==.
func sameFocus(a, b navigation.Focus) bool {
	if fa, ok := a.(navigation.FractureSelected); ok {
		fb, ok := b.(navigation.FractureSelected)
		return ok && fa.RegionID == fb.RegionID && fa.Index == fb.Index
	}
	if _, ok := b.(navigation.FractureSelected); ok {
		return false
	}
	return a == b
}
