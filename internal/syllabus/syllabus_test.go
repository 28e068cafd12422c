package syllabus

import (
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	s := Default()

	names := s.SubjectNames()
	want := []string{"Biology", "Physics", "Chemistry"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("SubjectNames() = %v, want %v", names, want)
	}
	if got := s.TopicCount(); got != 95 {
		t.Errorf("TopicCount() = %d, want 95", got)
	}
	if len(s.Subjects[0].Units) != 10 || len(s.Subjects[1].Units) != 8 || len(s.Subjects[2].Units) != 3 {
		t.Errorf("unexpected unit counts")
	}
	if Default() != s {
		t.Error("Default() should be loaded once")
	}
}

func TestFilters(t *testing.T) {
	got := Default().Filters()
	if len(got) != 4 || got[0] != All {
		t.Errorf("Filters() = %v", got)
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name      string
		subject   string
		query     string
		subjects  int
		topics    int
		firstUnit string
	}{
		{"all no query", All, "", 3, 95, "Diversity in Living World"},
		{"empty subject means all", "", "", 3, 95, "Diversity in Living World"},
		{"physics only", "Physics", "", 1, 29, "Mechanics"},
		{"case insensitive", All, "PHOTOSYNTHESIS", 1, 1, "Plant Physiology"},
		{"spans subjects", All, "thermodynamics", 2, 2, "Thermodynamics & KTG"},
		{"subject and query", "Chemistry", "thermo", 1, 1, "Physical Chemistry"},
		{"query with spaces", All, "  wave optics ", 1, 1, "Optics"},
		{"no match", All, "quantum chromodynamics", 0, 0, ""},
		{"unknown subject", "Mathematics", "", 0, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Default().Filter(tt.subject, tt.query)
			if len(got.Subjects) != tt.subjects {
				t.Fatalf("subjects = %d, want %d", len(got.Subjects), tt.subjects)
			}
			if got.TopicCount() != tt.topics {
				t.Errorf("topics = %d, want %d", got.TopicCount(), tt.topics)
			}
			if tt.subjects > 0 && got.Subjects[0].Units[0].Name != tt.firstUnit {
				t.Errorf("first unit = %q, want %q", got.Subjects[0].Units[0].Name, tt.firstUnit)
			}
			for _, sub := range got.Subjects {
				for _, u := range sub.Units {
					if len(u.Topics) == 0 {
						t.Errorf("unit %q kept with no topics", u.Name)
					}
				}
			}
		})
	}
}

func TestFilter_DoesNotMutate(t *testing.T) {
	s := Default()
	_ = s.Filter("Biology", "evolution")
	if s.TopicCount() != 95 {
		t.Error("Filter must not modify the receiver")
	}
}

func TestFind(t *testing.T) {
	locs := Default().Find("Biomolecules")
	if len(locs) != 2 {
		t.Fatalf("Find(Biomolecules) = %v", locs)
	}
	if locs[0].Subject != "Biology" || locs[1].Subject != "Chemistry" {
		t.Errorf("unexpected order: %v", locs)
	}

	if got := Default().Find("Evolution"); len(got) != 1 || got[0].Unit != "Genetics & Evolution" {
		t.Errorf("Find(Evolution) = %v", got)
	}
	if got := Default().Find("evolution"); got != nil {
		t.Errorf("Find is exact, got %v", got)
	}
}

func TestTopics(t *testing.T) {
	all := Default().Topics()
	if len(all) != 95 {
		t.Fatalf("Topics() = %d entries", len(all))
	}
	if all[0].Topic != "The Living World" || all[len(all)-1].Topic != "Chemistry in Everyday Life" {
		t.Errorf("unexpected order: first %q last %q", all[0].Topic, all[len(all)-1].Topic)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "subjects: [unclosed"},
		{"missing subjects", "units: []"},
		{"empty topics", "subjects:\n  - name: Biology\n    units:\n      - name: U\n        topics: []\n"},
		{"duplicate topic", "subjects:\n  - name: Biology\n    units:\n      - name: U\n        topics: [A, A]\n"},
		{"unknown field", "subjects:\n  - name: Biology\n    colour: green\n    units:\n      - name: U\n        topics: [A]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load([]byte(tt.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_Valid(t *testing.T) {
	s, err := Load([]byte("subjects:\n  - name: Biology\n    units:\n      - name: Genetics\n        topics: [Evolution]\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.TopicCount() != 1 {
		t.Errorf("TopicCount() = %d", s.TopicCount())
	}
}

func TestChapterLabel(t *testing.T) {
	if ChapterLabel(1) != "1 Chapter" || ChapterLabel(4) != "4 Chapters" {
		t.Error("unexpected chapter label")
	}
}
