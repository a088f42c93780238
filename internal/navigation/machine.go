// Package navigation is the single source of truth for what the user is
// looking at: the active tab, the drill-down focus within it and the search
// overlay floating above it.
package navigation

import (
	"errors"
	"fmt"

	"fractureid/internal/content"
	"fractureid/internal/domain"
)

var (
	// ErrNotFound is returned when an intent references an unknown region,
	// fracture or topic.
	ErrNotFound = content.ErrNotFound

	// ErrInvalidTransition is returned when an intent is not valid from the
	// current focus.
	ErrInvalidTransition = errors.New("navigation: invalid transition")
)

// Machine applies navigation intents. A rejected intent leaves the state
// unchanged. Machine is not safe for concurrent use.
type Machine struct {
	store   content.Store
	focus   Focus
	overlay SearchOverlay
}

// NewMachine returns a machine browsing the Identify tab with search closed
func NewMachine(store content.Store) *Machine {
	return &Machine{
		store: store,
		focus: Browsing{Active: domain.TabIdentify},
	}
}

// Focus returns the current drill-down focus
func (m *Machine) Focus() Focus { return m.focus }

// Overlay returns the search overlay state
func (m *Machine) Overlay() SearchOverlay { return m.overlay }

// Tab returns the active tab
func (m *Machine) Tab() domain.Tab { return m.focus.Tab() }

// Screen derives the screen to draw. An open overlay wins over the focus.
func (m *Machine) Screen() Screen {
	if m.overlay.Open {
		return ScreenSearch
	}
	switch f := m.focus.(type) {
	case RegionSelected:
		return ScreenFractureList
	case FractureSelected:
		return ScreenFractureDetail
	case QuickRefSelected:
		return ScreenTopicDetail
	case Browsing:
		switch f.Active {
		case domain.TabReference:
			return ScreenTopicList
		case domain.TabChecklists:
			return ScreenChecklists
		}
	}
	return ScreenRegionPicker
}

// OpenSearch opens the overlay with an empty query. The focus is kept.
func (m *Machine) OpenSearch() error {
	m.overlay = SearchOverlay{Open: true}
	return nil
}

// SetQuery replaces the search text
func (m *Machine) SetQuery(text string) error {
	if !m.overlay.Open {
		return fmt.Errorf("set query: search is closed: %w", ErrInvalidTransition)
	}
	m.overlay.Query = text
	return nil
}

// CloseSearch closes the overlay and clears the query, revealing the focus
// exactly as it was.
func (m *Machine) CloseSearch() error {
	m.overlay = SearchOverlay{}
	return nil
}

// SelectRegion drills into a region. Any Identify focus may select a
// region, so replaying the intent is harmless.
func (m *Machine) SelectRegion(id string) error {
	if err := m.requireTab("select region", domain.TabIdentify); err != nil {
		return err
	}
	if _, err := m.store.Region(id); err != nil {
		return fmt.Errorf("select region: %w", err)
	}
	m.focus = RegionSelected{RegionID: id}
	return nil
}

// SelectFracture opens a fracture of the selected region by name. The
// region comes from the focus, which may already show a fracture.
func (m *Machine) SelectFracture(name string) error {
	if m.overlay.Open {
		return fmt.Errorf("select fracture: search is open: %w", ErrInvalidTransition)
	}
	var regionID string
	switch f := m.focus.(type) {
	case RegionSelected:
		regionID = f.RegionID
	case FractureSelected:
		regionID = f.RegionID
	default:
		return fmt.Errorf("select fracture from %s: %w", m.focus, ErrInvalidTransition)
	}
	rec, idx, err := content.FindFracture(m.store, regionID, name)
	if err != nil {
		return fmt.Errorf("select fracture: %w", err)
	}
	m.focus = FractureSelected{RegionID: regionID, Fracture: rec, Index: idx}
	return nil
}

// OpenFractureFromSearch jumps to a fracture chosen from the search results.
// The overlay is closed and its query cleared.
func (m *Machine) OpenFractureFromSearch(regionID string, index int) error {
	if !m.overlay.Open {
		return fmt.Errorf("open fracture from search: search is closed: %w", ErrInvalidTransition)
	}
	records, err := m.store.Fractures(regionID)
	if err != nil {
		return fmt.Errorf("open fracture from search: %w", err)
	}
	if index < 0 || index >= len(records) {
		return fmt.Errorf("open fracture from search: index %d in region %q: %w", index, regionID, ErrNotFound)
	}
	m.focus = FractureSelected{RegionID: regionID, Fracture: records[index], Index: index}
	m.overlay = SearchOverlay{}
	return nil
}

// SelectQuickRefTopic opens a topic from anywhere on the Reference tab
func (m *Machine) SelectQuickRefTopic(index int) error {
	if err := m.requireTab("select topic", domain.TabReference); err != nil {
		return err
	}
	if err := m.checkTopic(index); err != nil {
		return fmt.Errorf("select topic: %w", err)
	}
	m.focus = QuickRefSelected{TopicIndex: index}
	return nil
}

// OpenQuickRefFromSearch jumps to a topic chosen from the search results.
// The overlay is closed and its query cleared.
func (m *Machine) OpenQuickRefFromSearch(index int) error {
	if !m.overlay.Open {
		return fmt.Errorf("open topic from search: search is closed: %w", ErrInvalidTransition)
	}
	if err := m.checkTopic(index); err != nil {
		return fmt.Errorf("open topic from search: %w", err)
	}
	m.focus = QuickRefSelected{TopicIndex: index}
	m.overlay = SearchOverlay{}
	return nil
}

// SwitchTab resets to the top level of a tab: any selection is dropped and
// search is closed.
func (m *Machine) SwitchTab(tab domain.Tab) error {
	switch tab {
	case domain.TabIdentify, domain.TabReference, domain.TabChecklists:
	default:
		return fmt.Errorf("switch tab %d: %w", int(tab), ErrInvalidTransition)
	}
	m.focus = Browsing{Active: tab}
	m.overlay = SearchOverlay{}
	return nil
}

// Back undoes one level. The first applicable rule wins:
// fracture to its region, region to the picker, open search to closed,
// topic to the topic list. Back reports whether anything changed.
func (m *Machine) Back() bool {
	switch f := m.focus.(type) {
	case FractureSelected:
		m.focus = RegionSelected{RegionID: f.RegionID}
		return true
	case RegionSelected:
		m.focus = Browsing{Active: domain.TabIdentify}
		return true
	}
	if m.overlay.Open {
		m.overlay = SearchOverlay{}
		return true
	}
	if _, ok := m.focus.(QuickRefSelected); ok {
		m.focus = Browsing{Active: domain.TabReference}
		return true
	}
	return false
}

// CanGoBack reports whether Back would change anything
func (m *Machine) CanGoBack() bool {
	if m.overlay.Open {
		return true
	}
	_, browsing := m.focus.(Browsing)
	return !browsing
}

// requireTab accepts any focus on tab while search is closed
func (m *Machine) requireTab(intent string, tab domain.Tab) error {
	if m.overlay.Open {
		return fmt.Errorf("%s: search is open: %w", intent, ErrInvalidTransition)
	}
	if m.focus.Tab() != tab {
		return fmt.Errorf("%s from %s: %w", intent, m.focus, ErrInvalidTransition)
	}
	return nil
}

func (m *Machine) checkTopic(index int) error {
	if n := len(m.store.QuickRefTopics()); index < 0 || index >= n {
		return fmt.Errorf("topic %d: %w", index, ErrNotFound)
	}
	return nil
}
