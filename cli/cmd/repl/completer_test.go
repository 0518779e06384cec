package repl

import (
	"io"
	"slices"
	"testing"

	"github.com/ardnew/quill/lang"
)

func TestWordBounds(t *testing.T) {
	t.Parallel()

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
		{"after_paren", "print(fo", 8, "fo", 6, 8},
		{"after_comma", "print(a, fo", 11, "fo", 9, 11},
		{"after_brace", "{fo", 3, "fo", 1, 3},
		{"after_assign", "a=fo", 4, "fo", 2, 4},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"underscore", "my_var", 6, "my_var", 0, 6},
		{"digits", "x2 + y10", 8, "y10", 5, 8},
		{"unicode", "a + héllo", 10, "héllo", 4, 10},
		{"command", ":he", 3, "he", 1, 3},
		{"cursor_past_end", "ab", 9, "ab", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestIsCommandWord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input     string
		wordStart int
		want      bool
	}{
		{":he", 1, true},
		{"  :q", 3, true},
		{"he", 0, false},
		{"a :b", 3, false},
		{":help x", 6, false},
	}

	for _, tt := range tests {
		if got := isCommandWord(tt.input, tt.wordStart); got != tt.want {
			t.Errorf("isCommandWord(%q, %d) = %v, want %v",
				tt.input, tt.wordStart, got, tt.want)
		}
	}
}

func TestCandidates(t *testing.T) {
	t.Parallel()

	env := lang.NewEnv(lang.WithOutput(io.Discard))
	if _, err := lang.Run(t.Context(), "let total = 1\nlet tally = 2", env); err != nil {
		t.Fatalf("run error: %v", err)
	}

	got := candidates(env, false)
	for _, want := range []string{"let", "print", "tally", "total", "while"} {
		if !slices.Contains(got, want) {
			t.Errorf("candidates missing %q: %v", want, got)
		}
	}

	if !slices.IsSorted(got) {
		t.Errorf("candidates not sorted: %v", got)
	}

	if got := candidates(env, true); !slices.Equal(got, commands) {
		t.Errorf("command candidates = %v", got)
	}
}

func TestComputeMatches(t *testing.T) {
	t.Parallel()

	m := testModel(t)
	if _, err := lang.Run(t.Context(), "let total = 1\nlet tally = 2", m.env); err != nil {
		t.Fatalf("run error: %v", err)
	}

	m.input.SetValue("x + tl")
	m.input.SetCursor(6)

	matches, _, start, end := m.computeMatches()
	if start != 4 || end != 6 {
		t.Errorf("bounds = (%d, %d), want (4, 6)", start, end)
	}

	var names []string
	for _, match := range matches {
		names = append(names, match.Str)
	}

	if !slices.Contains(names, "total") || !slices.Contains(names, "tally") {
		t.Errorf("matches = %v", names)
	}

	m.input.SetValue(":cl")
	m.input.SetCursor(3)

	matches, _, _, _ = m.computeMatches()
	if len(matches) != 1 || matches[0].Str != "clear" {
		t.Errorf("command matches = %v", matches)
	}

	m.busy = true
	if matches, _, _, _ := m.computeMatches(); matches != nil {
		t.Error("matches computed while busy")
	}
}

func TestRenderCandidateBar(t *testing.T) {
	t.Parallel()

	m := testModel(t)
	m.input.SetValue("e")
	m.input.SetCursor(1)

	matches, _, _, _ := m.computeMatches()
	if len(matches) < 2 {
		t.Fatalf("matches = %v", matches)
	}

	if bar := renderCandidateBar(matches, 0, true, 80); bar == "" {
		t.Error("empty candidate bar")
	}

	if bar := renderCandidateBar(matches, 0, false, 0); bar != "" {
		t.Errorf("bar for zero width = %q", bar)
	}

	if bar := renderCandidateBar(nil, 0, false, 80); bar != "" {
		t.Errorf("bar without matches = %q", bar)
	}
}
