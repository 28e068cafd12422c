// Package syllabus holds the fixed NEET syllabus tree: subjects, units and
// topics (chapters).
package syllabus

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// All is the subject filter that matches every subject.
const All = "All"

//go:embed syllabus.yaml
var defaultYAML []byte

//go:embed schema.json
var schemaJSON []byte

// Syllabus is the subject tree.
type Syllabus struct {
	Subjects []Subject `yaml:"subjects" json:"subjects"`
}

// Subject is a top-level discipline, e.g. Biology.
type Subject struct {
	Name  string `yaml:"name" json:"name"`
	Units []Unit `yaml:"units" json:"units"`
}

// Unit groups related chapters within a subject.
type Unit struct {
	Name   string   `yaml:"name" json:"name"`
	Topics []string `yaml:"topics" json:"topics"`
}

// Location places a topic in the tree.
type Location struct {
	Subject string `json:"subject"`
	Unit    string `json:"unit"`
	Topic   string `json:"topic"`
}

var (
	defaultOnce sync.Once
	defaultTree *Syllabus
)

// Default returns the embedded syllabus. It panics if the embedded data is
// invalid, which the package tests rule out.
func Default() *Syllabus {
	defaultOnce.Do(func() {
		s, err := Load(defaultYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded syllabus: %v", err))
		}
		defaultTree = s
	})
	return defaultTree
}

// Load parses a YAML syllabus and validates it against the syllabus schema.
func Load(data []byte) (*Syllabus, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing syllabus: %w", err)
	}
	if err := validate(doc); err != nil {
		return nil, err
	}

	var s Syllabus
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding syllabus: %w", err)
	}
	return &s, nil
}

func validate(doc any) error {
	res, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("validating syllabus: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("invalid syllabus: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// SubjectNames returns the subject names in order.
func (s *Syllabus) SubjectNames() []string {
	names := make([]string, 0, len(s.Subjects))
	for _, sub := range s.Subjects {
		names = append(names, sub.Name)
	}
	return names
}

// Filters returns All followed by every subject name, the cycle order for
// the subject filter.
func (s *Syllabus) Filters() []string {
	return append([]string{All}, s.SubjectNames()...)
}

// Filter narrows the tree to one subject (or All) and to topics whose name
// contains query, ignoring case. Units and subjects left without topics
// are dropped. The receiver is not modified.
func (s *Syllabus) Filter(subject, query string) *Syllabus {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))

	out := &Syllabus{Subjects: []Subject{}}
	for _, sub := range s.Subjects {
		if subject != "" && subject != All && sub.Name != subject {
			continue
		}
		var units []Unit
		for _, u := range sub.Units {
			var topics []string
			for _, t := range u.Topics {
				if q == "" || strings.Contains(fold.String(t), q) {
					topics = append(topics, t)
				}
			}
			if len(topics) > 0 {
				units = append(units, Unit{Name: u.Name, Topics: topics})
			}
		}
		if len(units) > 0 {
			out.Subjects = append(out.Subjects, Subject{Name: sub.Name, Units: units})
		}
	}
	return out
}

// Find returns every location of topic. A name may appear under more than
// one subject (Thermodynamics, Biomolecules).
func (s *Syllabus) Find(topic string) []Location {
	var locs []Location
	for _, sub := range s.Subjects {
		for _, u := range sub.Units {
			for _, t := range u.Topics {
				if t == topic {
					locs = append(locs, Location{Subject: sub.Name, Unit: u.Name, Topic: t})
				}
			}
		}
	}
	return locs
}

// Topics flattens the tree in display order.
func (s *Syllabus) Topics() []Location {
	var locs []Location
	for _, sub := range s.Subjects {
		for _, u := range sub.Units {
			for _, t := range u.Topics {
				locs = append(locs, Location{Subject: sub.Name, Unit: u.Name, Topic: t})
			}
		}
	}
	return locs
}

// TopicCount returns the number of topics in the tree.
func (s *Syllabus) TopicCount() int {
	n := 0
	for _, sub := range s.Subjects {
		for _, u := range sub.Units {
			n += len(u.Topics)
		}
	}
	return n
}

// ChapterLabel returns "1 Chapter" or "n Chapters".
func ChapterLabel(n int) string {
	if n == 1 {
		return "1 Chapter"
	}
	return fmt.Sprintf("%d Chapters", n)
}
