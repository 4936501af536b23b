package repl

import (
	"slices"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sahilm/fuzzy"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_arrow", "l->pu", 5, "pu", 3, 5},
		{"after_paren", "sq(fo", 5, "fo", 3, 5},
		{"after_comma", "make_tuple(a, fo", 16, "fo", 14, 16},
		{"inside_get", "get<0>(t", 8, "t", 7, 8},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"underscore_and_digits", "push_back2", 10, "push_back2", 0, 10},
		{"unicode_letters", "zł", 3, "zł", 0, 3},
		{"cursor_past_end", "ab", 9, "ab", 0, 2},
		// A leading colon belongs to the command name.
		{"command", ":he", 3, ":he", 0, 3},
		{"colon_not_leading", "x :he", 5, "he", 3, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestAfterArrow(t *testing.T) {
	tests := []struct {
		input     string
		wordStart int
		want      bool
	}{
		{"l->", 3, true},
		{"l -> ", 5, true},
		{"l->fr", 3, true},
		{"a - ", 4, false},
		{"a > ", 4, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		if got := afterArrow(tt.input, tt.wordStart); got != tt.want {
			t.Errorf("afterArrow(%q, %d) = %t, want %t", tt.input, tt.wordStart, got, tt.want)
		}
	}
}

func TestCompletions(t *testing.T) {
	if got := completions(":r", 0, nil); !slices.Equal(got, commands) {
		t.Errorf("completions(command) = %q, want %q", got, commands)
	}

	if got := completions("l->", 3, nil); !slices.Equal(got, containerOps) {
		t.Errorf("completions(after arrow) = %q, want %q", got, containerOps)
	}

	got := completions("co", 0, nil)

	if !slices.IsSorted(got) {
		t.Errorf("completions() = %q, want sorted", got)
	}

	for _, want := range []string{"cout", "make_tuple", "while", "list"} {
		if !slices.Contains(got, want) {
			t.Errorf("completions() lacks %q", want)
		}
	}

	if n := len(slices.Compact(slices.Clone(got))); n != len(got) {
		t.Errorf("completions() has duplicates: %q", got)
	}
}

func TestComputeMatches(t *testing.T) {
	session := testSession(t)
	submit(t, session, "int counter = 0;")

	tests := []struct {
		name  string
		input string
		want  string // best match, "" for none
		all   bool   // every candidate offered
	}{
		{"keyword", "whi", "while", false},
		{"session_name", "x = coun", "counter", false},
		{"operation", "l->pop_f", "pop_front", false},
		{"empty_after_arrow", "l->", "", true},
		{"empty_word", "x = ", "", false},
		{"command", ":qu", ":quit", false},
		{"command_argument", ":help qu", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ti := textinput.New()
			ti.SetValue(tt.input)
			ti.SetCursor(len(tt.input))

			m := model{input: ti, session: session}

			matches, _, _, end := m.computeMatches()

			if end != len(tt.input) {
				t.Errorf("word end = %d, want %d", end, len(tt.input))
			}

			if tt.all {
				if len(matches) != len(containerOps) {
					t.Errorf("got %d matches, want every operation", len(matches))
				}

				return
			}

			if tt.want == "" {
				if len(matches) != 0 {
					t.Errorf("matches = %v, want none", matches)
				}

				return
			}

			if len(matches) == 0 || matches[0].Str != tt.want {
				t.Errorf("best match = %v, want %q", matches, tt.want)
			}
		})
	}
}

func TestRenderCandidateBar(t *testing.T) {
	matches := fuzzy.Find("p", containerOps)

	if got := renderCandidateBar(nil, 0, false, 80); got != "" {
		t.Errorf("renderCandidateBar(nil) = %q, want empty", got)
	}

	if got := renderCandidateBar(matches, 0, false, 0); got != "" {
		t.Errorf("renderCandidateBar(width 0) = %q, want empty", got)
	}

	if got := renderCandidateBar(matches, 0, true, 80); got == "" {
		t.Error("renderCandidateBar() is empty")
	}
}
