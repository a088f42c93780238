// Package content holds the read-only clinical knowledge base: regions,
// fracture records, quick-reference topics and checklist definitions.
package content

import (
	"errors"
	"fmt"
	"slices"

	"fractureid/internal/domain"
)

// ErrNotFound is returned when a lookup references an unknown region,
// fracture or topic.
var ErrNotFound = errors.New("content: not found")

// Store provides read access to the knowledge base
type Store interface {
	Regions() []domain.Region
	Region(id string) (domain.Region, error)
	Fractures(regionID string) ([]domain.FractureRecord, error)
	QuickRefTopics() []domain.QuickReferenceTopic
	Checklists() []domain.ChecklistDefinition
}

// MemoryStore is an immutable, in-memory Store
type MemoryStore struct {
	regions    []domain.Region
	fractures  map[string][]domain.FractureRecord // region id -> ordered records
	topics     []domain.QuickReferenceTopic
	checklists []domain.ChecklistDefinition
}

// Dataset is the raw material for a MemoryStore
type Dataset struct {
	Regions    []domain.Region
	Fractures  map[string][]domain.FractureRecord
	Topics     []domain.QuickReferenceTopic
	Checklists []domain.ChecklistDefinition
}

// NewMemoryStore validates the dataset and builds a store from it
func NewMemoryStore(ds Dataset) (*MemoryStore, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	fractures := make(map[string][]domain.FractureRecord, len(ds.Regions))
	for _, r := range ds.Regions {
		fractures[r.ID] = slices.Clone(ds.Fractures[r.ID])
	}
	return &MemoryStore{
		regions:    slices.Clone(ds.Regions),
		fractures:  fractures,
		topics:     slices.Clone(ds.Topics),
		checklists: slices.Clone(ds.Checklists),
	}, nil
}

// Validate checks the structural invariants of a dataset
func (ds Dataset) Validate() error {
	var errs []error

	regionIDs := make(map[string]bool, len(ds.Regions))
	fractureNames := make(map[string]string)
	for i, r := range ds.Regions {
		if r.ID == "" {
			errs = append(errs, fmt.Errorf("region %d: empty id", i))
			continue
		}
		if regionIDs[r.ID] {
			errs = append(errs, fmt.Errorf("region %q: duplicate id", r.ID))
			continue
		}
		regionIDs[r.ID] = true

		for j, f := range ds.Fractures[r.ID] {
			if f.Name == "" {
				errs = append(errs, fmt.Errorf("region %q fracture %d: empty name", r.ID, j))
				continue
			}
			if owner, ok := fractureNames[f.Name]; ok {
				errs = append(errs, fmt.Errorf("region %q fracture %q: name already used in region %q", r.ID, f.Name, owner))
				continue
			}
			fractureNames[f.Name] = r.ID
		}
	}
	for id := range ds.Fractures {
		if !regionIDs[id] {
			errs = append(errs, fmt.Errorf("fractures reference unknown region %q", id))
		}
	}
	for i, t := range ds.Topics {
		if t.Title == "" {
			errs = append(errs, fmt.Errorf("quick reference %d: empty title", i))
		}
	}
	for i, c := range ds.Checklists {
		if c.Title == "" {
			errs = append(errs, fmt.Errorf("checklist %d: empty title", i))
		}
		if len(c.Steps) == 0 {
			errs = append(errs, fmt.Errorf("checklist %d (%s): no steps", i, c.Title))
		}
	}
	return errors.Join(errs...)
}

// Regions returns all regions in display order
func (s *MemoryStore) Regions() []domain.Region {
	return slices.Clone(s.regions)
}

// Region returns the region with the given id
func (s *MemoryStore) Region(id string) (domain.Region, error) {
	for _, r := range s.regions {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Region{}, fmt.Errorf("region %q: %w", id, ErrNotFound)
}

// Fractures returns the ordered fracture records of a region
func (s *MemoryStore) Fractures(regionID string) ([]domain.FractureRecord, error) {
	records, ok := s.fractures[regionID]
	if !ok {
		return nil, fmt.Errorf("region %q: %w", regionID, ErrNotFound)
	}
	out := make([]domain.FractureRecord, len(records))
	for i, rec := range records {
		out[i] = rec.Clone()
	}
	return out, nil
}

// QuickRefTopics returns all quick-reference topics in display order
func (s *MemoryStore) QuickRefTopics() []domain.QuickReferenceTopic {
	return slices.Clone(s.topics)
}

// Checklists returns all checklist definitions in display order
func (s *MemoryStore) Checklists() []domain.ChecklistDefinition {
	return slices.Clone(s.checklists)
}

// Stats summarizes a store's size
type Stats struct {
	Regions    int
	Fractures  int
	Topics     int
	Checklists int
}

// Count returns the number of records of each kind in a store
func Count(s Store) Stats {
	st := Stats{
		Topics:     len(s.QuickRefTopics()),
		Checklists: len(s.Checklists()),
	}
	for _, r := range s.Regions() {
		st.Regions++
		records, err := s.Fractures(r.ID)
		if err == nil {
			st.Fractures += len(records)
		}
	}
	return st
}

// FindFracture locates a fracture by name within a region and returns it
// together with its index.
func FindFracture(s Store, regionID, name string) (domain.FractureRecord, int, error) {
	records, err := s.Fractures(regionID)
	if err != nil {
		return domain.FractureRecord{}, -1, err
	}
	for i, f := range records {
		if f.Name == name {
			return f, i, nil
		}
	}
	return domain.FractureRecord{}, -1, fmt.Errorf("fracture %q in region %q: %w", name, regionID, ErrNotFound)
}
