package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/scholar/internal/screen"
)

type fakeScreen struct {
	title   string
	inits   int
	updates int
}

func (f *fakeScreen) Init() tea.Cmd                           { f.inits++; return nil }
func (f *fakeScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { f.updates++; return f, nil }
func (f *fakeScreen) View(int, int) string                    { return f.title }
func (f *fakeScreen) Title() string                           { return f.title }

func titles(r *Router) []string {
	out := make([]string, 0, len(r.stack))
	for _, s := range r.stack {
		out = append(out, s.Title())
	}
	return out
}

func TestRouter_Navigation(t *testing.T) {
	tests := []struct {
		name string
		msgs []tea.Msg
		want []string
	}{
		{
			name: "push opens on top",
			msgs: []tea.Msg{PushScreenMsg{Screen: &fakeScreen{title: "Syllabus"}}},
			want: []string{"Home", "Syllabus"},
		},
		{
			name: "pop returns to previous",
			msgs: []tea.Msg{
				PushScreenMsg{Screen: &fakeScreen{title: "Syllabus"}},
				PopScreenMsg{},
			},
			want: []string{"Home"},
		},
		{
			name: "pop keeps the root",
			msgs: []tea.Msg{PopScreenMsg{}, PopScreenMsg{}},
			want: []string{"Home"},
		},
		{
			name: "replace swaps notes for quiz",
			msgs: []tea.Msg{
				PushScreenMsg{Screen: &fakeScreen{title: "Syllabus"}},
				PushScreenMsg{Screen: &fakeScreen{title: "Notes"}},
				ReplaceScreenMsg{Screen: &fakeScreen{title: "Quiz"}},
			},
			want: []string{"Home", "Syllabus", "Quiz"},
		},
		{
			name: "back after replace skips the replaced screen",
			msgs: []tea.Msg{
				PushScreenMsg{Screen: &fakeScreen{title: "Syllabus"}},
				PushScreenMsg{Screen: &fakeScreen{title: "Notes"}},
				ReplaceScreenMsg{Screen: &fakeScreen{title: "Quiz"}},
				PopScreenMsg{},
			},
			want: []string{"Home", "Syllabus"},
		},
		{
			name: "replace at root swaps the root",
			msgs: []tea.Msg{ReplaceScreenMsg{Screen: &fakeScreen{title: "Performance"}}},
			want: []string{"Performance"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(&fakeScreen{title: "Home"})
			for _, m := range tt.msgs {
				r.Update(m)
			}
			got := titles(r)
			if len(got) != len(tt.want) {
				t.Fatalf("stack = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("stack = %v, want %v", got, tt.want)
				}
			}
			if r.Depth() != len(tt.want) {
				t.Errorf("Depth() = %d, want %d", r.Depth(), len(tt.want))
			}
		})
	}
}

func TestRouter_InitRunsOnPushAndReplace(t *testing.T) {
	r := New(&fakeScreen{title: "Home"})
	notes := &fakeScreen{title: "Notes"}
	quiz := &fakeScreen{title: "Quiz"}

	r.Push(notes)
	r.Replace(quiz)

	if notes.inits != 1 {
		t.Errorf("notes Init ran %d times, want 1", notes.inits)
	}
	if quiz.inits != 1 {
		t.Errorf("quiz Init ran %d times, want 1", quiz.inits)
	}
}

func TestRouter_ForwardsToActive(t *testing.T) {
	home := &fakeScreen{title: "Home"}
	top := &fakeScreen{title: "Notes"}
	r := New(home)
	r.Push(top)

	r.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})

	if top.updates != 1 || home.updates != 0 {
		t.Errorf("updates: top=%d home=%d, want 1 and 0", top.updates, home.updates)
	}
	if got := r.View(80, 24); got != "Notes" {
		t.Errorf("View() = %q, want Notes", got)
	}
}
