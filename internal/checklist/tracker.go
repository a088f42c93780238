// Package checklist tracks per-session completion of on-call protocol steps.
//
// Progress lives only in memory and is discarded with the session; this is
// a deliberate choice, nothing is ever written to disk.
package checklist

import (
	"fmt"
	"maps"

	"fractureid/internal/domain"
)

// Tracker holds the done flags for every checklist step.
// A missing entry means the step is not done.
type Tracker struct {
	stepCounts []int
	done       map[domain.StepKey]bool
}

// NewTracker creates an empty tracker sized by the given definitions
func NewTracker(defs []domain.ChecklistDefinition) *Tracker {
	counts := make([]int, len(defs))
	for i, d := range defs {
		counts[i] = len(d.Steps)
	}
	return &Tracker{
		stepCounts: counts,
		done:       make(map[domain.StepKey]bool),
	}
}

// Toggle flips the done flag of a step and returns the new value.
// Panics if the checklist or step index is out of range.
func (t *Tracker) Toggle(checklist, step int) bool {
	key := t.key(checklist, step)
	t.done[key] = !t.done[key]
	return t.done[key]
}

// IsDone reports whether a step is done.
// Panics if the checklist or step index is out of range.
func (t *Tracker) IsDone(checklist, step int) bool {
	return t.done[t.key(checklist, step)]
}

// CompletedCount returns the number of done steps in a checklist
func (t *Tracker) CompletedCount(checklist int) int {
	t.mustChecklist(checklist)
	n := 0
	for step := 0; step < t.stepCounts[checklist]; step++ {
		if t.done[domain.StepKey{Checklist: checklist, Step: step}] {
			n++
		}
	}
	return n
}

// StepCount returns the number of steps in a checklist
func (t *Tracker) StepCount(checklist int) int {
	t.mustChecklist(checklist)
	return t.stepCounts[checklist]
}

// Len returns the number of checklists tracked
func (t *Tracker) Len() int {
	return len(t.stepCounts)
}

// Reset marks every step of a checklist as not done
func (t *Tracker) Reset(checklist int) {
	t.mustChecklist(checklist)
	for key := range t.done {
		if key.Checklist == checklist {
			delete(t.done, key)
		}
	}
}

// Snapshot returns a copy of the done flags
func (t *Tracker) Snapshot() map[domain.StepKey]bool {
	return maps.Clone(t.done)
}

func (t *Tracker) key(checklist, step int) domain.StepKey {
	t.mustChecklist(checklist)
	if step < 0 || step >= t.stepCounts[checklist] {
		panic(fmt.Sprintf("checklist: step %d out of range [0,%d) for checklist %d", step, t.stepCounts[checklist], checklist))
	}
	return domain.StepKey{Checklist: checklist, Step: step}
}

func (t *Tracker) mustChecklist(checklist int) {
	if checklist < 0 || checklist >= len(t.stepCounts) {
		panic(fmt.Sprintf("checklist: index %d out of range [0,%d)", checklist, len(t.stepCounts)))
	}
}
