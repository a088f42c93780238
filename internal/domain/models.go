package domain

import "slices"

// Position is a normalized screen position (0-100 on both axes).
// Presentation only; no core logic reads it.
type Position struct {
	X int
	Y int
}

// Region is a top-level anatomic grouping of fracture records
type Region struct {
	ID       string
	Label    string
	Icon     string
	Title    string // heading for the region's fracture list, e.g. "Ankle & Foot Fractures"
	Position Position
}

// ClassDetail is one grade of a classification scheme
type ClassDetail struct {
	Grade string
	Desc  string
}

// Management holds the three management slots of a fracture record
type Management struct {
	NonOp     string
	Operative string
	Emergency string
}

// FractureRecord is one clinical classification entry
type FractureRecord struct {
	Name           string
	Classification string
	ClassDetails   []ClassDetail // ordered by severity progression
	KeyFindings    []string
	Management     Management
	Pearls         []string
}

// Clone returns a copy of r that shares no slices with it
func (r FractureRecord) Clone() FractureRecord {
	r.ClassDetails = slices.Clone(r.ClassDetails)
	r.KeyFindings = slices.Clone(r.KeyFindings)
	r.Pearls = slices.Clone(r.Pearls)
	return r
}

// LabeledValue is a single row of a quick-reference topic
type LabeledValue struct {
	Label string
	Value string
}

// QuickReferenceTopic is a titled table of label/value rows
type QuickReferenceTopic struct {
	Title   string
	Icon    string
	Content []LabeledValue
}

// ChecklistDefinition is an ordered on-call protocol
type ChecklistDefinition struct {
	Title string
	Icon  string
	Steps []string
}

// StepKey identifies one step of one checklist
type StepKey struct {
	Checklist int
	Step      int
}

// Tab is a top-level, mutually exclusive context
type Tab int

const (
	TabIdentify Tab = iota
	TabReference
	TabChecklists
)

// Tabs lists the tabs in display order
var Tabs = []Tab{TabIdentify, TabReference, TabChecklists}

// String returns the tab's identifier
func (t Tab) String() string {
	switch t {
	case TabIdentify:
		return "identify"
	case TabReference:
		return "reference"
	case TabChecklists:
		return "checklists"
	default:
		return "unknown"
	}
}

// Label returns the tab's display label
func (t Tab) Label() string {
	switch t {
	case TabIdentify:
		return "Identify"
	case TabReference:
		return "Reference"
	case TabChecklists:
		return "Protocols"
	default:
		return "?"
	}
}

// Icon returns the tab's glyph
func (t Tab) Icon() string {
	switch t {
	case TabIdentify:
		return "🦴"
	case TabReference:
		return "📋"
	case TabChecklists:
		return "✅"
	default:
		return ""
	}
}

// ParseTab maps an identifier ("identify", "reference", "checklists") to a Tab.
// "protocols" is accepted as an alias of "checklists".
func ParseTab(s string) (Tab, bool) {
	switch s {
	case "identify", "":
		return TabIdentify, true
	case "reference":
		return TabReference, true
	case "checklists", "protocols":
		return TabChecklists, true
	}
	return TabIdentify, false
}

// SearchResult is either a FractureMatch or a QuickRefMatch
type SearchResult interface {
	ResultTitle() string
	isSearchResult()
}

// FractureMatch is a search hit on a fracture record
type FractureMatch struct {
	RegionID    string
	RegionTitle string
	Index       int // position of the fracture within its region
	Fracture    FractureRecord
}

func (m FractureMatch) ResultTitle() string { return m.Fracture.Name }
func (FractureMatch) isSearchResult()       {}

// QuickRefMatch is a search hit on a quick-reference topic
type QuickRefMatch struct {
	TopicIndex int
	Title      string
	Icon       string
}

func (m QuickRefMatch) ResultTitle() string { return m.Title }
func (QuickRefMatch) isSearchResult()       {}
