package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"fractureid/internal/domain"
)

// EmbeddedSource names the built-in dataset in logs and events
const EmbeddedSource = "embedded"

//go:embed data/fractureid.yaml
var embeddedData []byte

type fileDoc struct {
	Version         int            `yaml:"version"`
	Regions         []regionDoc    `yaml:"regions"`
	QuickReferences []topicDoc     `yaml:"quick_references"`
	Checklists      []checklistDoc `yaml:"checklists"`
}

type regionDoc struct {
	ID       string        `yaml:"id"`
	Label    string        `yaml:"label"`
	Icon     string        `yaml:"icon"`
	Title    string        `yaml:"title"`
	Position positionDoc   `yaml:"position"`
	Fracture []fractureDoc `yaml:"fractures"`
}

type positionDoc struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type fractureDoc struct {
	Name           string           `yaml:"name"`
	Classification string           `yaml:"classification"`
	ClassDetails   []classDetailDoc `yaml:"class_details"`
	KeyFindings    []string         `yaml:"key_findings"`
	Management     *managementDoc   `yaml:"management"`
	Pearls         []string         `yaml:"pearls"`
}

type classDetailDoc struct {
	Grade string `yaml:"grade"`
	Desc  string `yaml:"desc"`
}

// Pointers distinguish an absent slot from an empty one
type managementDoc struct {
	NonOp     *string `yaml:"non_op"`
	Operative *string `yaml:"operative"`
	Emergency *string `yaml:"emergency"`
}

type topicDoc struct {
	Title   string            `yaml:"title"`
	Icon    string            `yaml:"icon"`
	Content []labeledValueDoc `yaml:"content"`
}

type labeledValueDoc struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

type checklistDoc struct {
	Title string   `yaml:"title"`
	Icon  string   `yaml:"icon"`
	Steps []string `yaml:"steps"`
}

// LoadEmbedded builds a store from the dataset compiled into the binary
func LoadEmbedded() (*MemoryStore, error) {
	return Load(bytes.NewReader(embeddedData))
}

// LoadFile builds a store from a YAML dataset on disk
func LoadFile(path string) (*MemoryStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open content file: %w", err)
	}
	defer f.Close()

	store, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return store, nil
}

// LoadSource loads from path, or from the embedded dataset when path is empty
func LoadSource(path string) (*MemoryStore, string, error) {
	if path == "" {
		s, err := LoadEmbedded()
		return s, EmbeddedSource, err
	}
	s, err := LoadFile(path)
	return s, path, err
}

// Load decodes a YAML dataset and validates it
func Load(r io.Reader) (*MemoryStore, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc fileDoc
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("content: empty document")
		}
		return nil, fmt.Errorf("content: failed to parse: %w", err)
	}

	ds, err := doc.dataset()
	if err != nil {
		return nil, err
	}
	return NewMemoryStore(ds)
}

func (doc fileDoc) dataset() (Dataset, error) {
	var errs []error
	ds := Dataset{
		Fractures: make(map[string][]domain.FractureRecord, len(doc.Regions)),
	}

	for _, rd := range doc.Regions {
		ds.Regions = append(ds.Regions, domain.Region{
			ID:       rd.ID,
			Label:    rd.Label,
			Icon:     rd.Icon,
			Title:    rd.Title,
			Position: domain.Position{X: rd.Position.X, Y: rd.Position.Y},
		})

		records := make([]domain.FractureRecord, 0, len(rd.Fracture))
		for _, fd := range rd.Fracture {
			mgmt, err := fd.Management.management()
			if err != nil {
				errs = append(errs, fmt.Errorf("region %q fracture %q: %w", rd.ID, fd.Name, err))
				continue
			}
			rec := domain.FractureRecord{
				Name:           fd.Name,
				Classification: fd.Classification,
				KeyFindings:    fd.KeyFindings,
				Management:     mgmt,
				Pearls:         fd.Pearls,
			}
			for _, cd := range fd.ClassDetails {
				rec.ClassDetails = append(rec.ClassDetails, domain.ClassDetail{Grade: cd.Grade, Desc: cd.Desc})
			}
			records = append(records, rec)
		}
		if rd.ID != "" {
			ds.Fractures[rd.ID] = append(ds.Fractures[rd.ID], records...)
		}
	}

	for _, td := range doc.QuickReferences {
		topic := domain.QuickReferenceTopic{Title: td.Title, Icon: td.Icon}
		for _, lv := range td.Content {
			topic.Content = append(topic.Content, domain.LabeledValue{Label: lv.Label, Value: lv.Value})
		}
		ds.Topics = append(ds.Topics, topic)
	}

	for _, cd := range doc.Checklists {
		ds.Checklists = append(ds.Checklists, domain.ChecklistDefinition{
			Title: cd.Title,
			Icon:  cd.Icon,
			Steps: cd.Steps,
		})
	}

	if len(errs) > 0 {
		return Dataset{}, errors.Join(errs...)
	}
	return ds, nil
}

func (m *managementDoc) management() (domain.Management, error) {
	if m == nil {
		return domain.Management{}, errors.New("management section missing")
	}
	var missing []string
	if m.NonOp == nil {
		missing = append(missing, "non_op")
	}
	if m.Operative == nil {
		missing = append(missing, "operative")
	}
	if m.Emergency == nil {
		missing = append(missing, "emergency")
	}
	if len(missing) > 0 {
		return domain.Management{}, fmt.Errorf("management slots missing: %v", missing)
	}
	return domain.Management{
		NonOp:     *m.NonOp,
		Operative: *m.Operative,
		Emergency: *m.Emergency,
	}, nil
}
