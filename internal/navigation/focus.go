package navigation

import (
	"fmt"

	"fractureid/internal/domain"
)

// Focus is the drill-down position within the active tab. It is one of
// Browsing, RegionSelected, FractureSelected or QuickRefSelected.
type Focus interface {
	// Tab returns the tab the focus belongs to
	Tab() domain.Tab
	String() string
	isFocus()
}

// Browsing is the top level of a tab with nothing selected
type Browsing struct {
	Active domain.Tab
}

func (f Browsing) Tab() domain.Tab { return f.Active }
func (f Browsing) String() string  { return "browsing(" + f.Active.String() + ")" }
func (Browsing) isFocus()          {}

// RegionSelected shows the fracture list of a region
type RegionSelected struct {
	RegionID string
}

func (RegionSelected) Tab() domain.Tab  { return domain.TabIdentify }
func (f RegionSelected) String() string { return fmt.Sprintf("region(%s)", f.RegionID) }
func (RegionSelected) isFocus()         {}

// FractureSelected shows one fracture record. RegionID is always the
// region the fracture belongs to.
type FractureSelected struct {
	RegionID string
	Fracture domain.FractureRecord
	Index    int
}

func (FractureSelected) Tab() domain.Tab { return domain.TabIdentify }
func (f FractureSelected) String() string {
	return fmt.Sprintf("fracture(%s/%s)", f.RegionID, f.Fracture.Name)
}
func (FractureSelected) isFocus() {}

// QuickRefSelected shows one quick-reference topic
type QuickRefSelected struct {
	TopicIndex int
}

func (QuickRefSelected) Tab() domain.Tab  { return domain.TabReference }
func (f QuickRefSelected) String() string { return fmt.Sprintf("quickref(%d)", f.TopicIndex) }
func (QuickRefSelected) isFocus()         {}

// SearchOverlay floats over the current focus. While open it supersedes the
// tab's own screen without destroying it.
type SearchOverlay struct {
	Open  bool
	Query string
}

// Screen is what the view has to draw for a given state
type Screen int

const (
	ScreenRegionPicker Screen = iota
	ScreenFractureList
	ScreenFractureDetail
	ScreenTopicList
	ScreenTopicDetail
	ScreenChecklists
	ScreenSearch
)

func (s Screen) String() string {
	switch s {
	case ScreenRegionPicker:
		return "region-picker"
	case ScreenFractureList:
		return "fracture-list"
	case ScreenFractureDetail:
		return "fracture-detail"
	case ScreenTopicList:
		return "topic-list"
	case ScreenTopicDetail:
		return "topic-detail"
	case ScreenChecklists:
		return "checklists"
	case ScreenSearch:
		return "search"
	default:
		return "unknown"
	}
}
