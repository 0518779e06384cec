package repl

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/quill/lang"
	"github.com/ardnew/quill/log"
)

func testModel(t *testing.T) model {
	t.Helper()

	out := new(bytes.Buffer)
	opts := []lang.Option{lang.WithOutput(out)}

	return newModel(t.Context(), lang.NewEnv(opts...), out,
		NewHistory(""), log.Logger{}, opts)
}

func typeText(m model, s string) model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})

	return next.(model)
}

func TestEvaluate_PersistentEnv(t *testing.T) {
	t.Parallel()

	m := testModel(t)

	msg := evaluate(t.Context(), m.env, m.out, "let a = 2", m.opts)
	if msg.err != nil {
		t.Fatalf("evaluate error: %v", msg.err)
	}

	msg = evaluate(t.Context(), m.env, m.out, "print(a * 3, a / 4)", m.opts)
	if msg.err != nil {
		t.Fatalf("evaluate error: %v", msg.err)
	}

	if msg.printed != "6, 0.5\n" {
		t.Errorf("printed = %q", msg.printed)
	}

	if m.out.Len() != 0 {
		t.Error("output buffer not drained")
	}

	msg = evaluate(t.Context(), m.env, m.out, "a + 1", m.opts)
	if msg.err != nil || msg.value.String() != "3" {
		t.Errorf("a + 1 = %v, %v", msg.value, msg.err)
	}
}

func TestEvaluate_Errors(t *testing.T) {
	t.Parallel()

	m := testModel(t)

	msg := evaluate(t.Context(), m.env, m.out, "let = )", m.opts)

	var pe *lang.ParseError
	if !errors.As(msg.err, &pe) {
		t.Fatalf("error %T is not *ParseError", msg.err)
	}

	lines := renderResult(msg)
	if len(lines) != len(pe.Errors()) {
		t.Errorf("rendered %d lines for %d errors", len(lines), len(pe.Errors()))
	}

	msg = evaluate(t.Context(), m.env, m.out, "missing", m.opts)
	if !errors.Is(msg.err, lang.ErrUndefinedName) {
		t.Errorf("error = %v", msg.err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	msg = evaluate(ctx, m.env, m.out, "let z = 1", m.opts)
	if !errors.Is(msg.err, lang.ErrInterrupted) {
		t.Errorf("canceled evaluation error = %v", msg.err)
	}
}

func TestRenderResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  evalMsg
		want []string
	}{
		{"value", evalMsg{value: lang.NewInteger(7)}, []string{"7"}},
		{"null", evalMsg{value: lang.Null{}}, []string{"NULL"}},
		{
			"printed null",
			evalMsg{value: lang.Null{}, printed: "1, 2\n"},
			[]string{"1, 2"},
		},
		{
			"printed then error",
			evalMsg{printed: "x\n", err: lang.ErrModuloByZero},
			[]string{"x", "modulo by zero"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := renderResult(tt.msg)
			if len(got) != len(tt.want) {
				t.Fatalf("renderResult = %q, want %q", got, tt.want)
			}

			for i := range got {
				if !strings.Contains(got[i], tt.want[i]) {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestUpdate_TabCompletion(t *testing.T) {
	t.Parallel()

	m := typeText(testModel(t), "pri")
	if len(m.matches) != 1 || m.matches[0].Str != "print" {
		t.Fatalf("matches = %v", m.matches)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(model)

	if got := m.input.Value(); got != "print" {
		t.Errorf("input after tab = %q", got)
	}
}

func TestUpdate_TabCycling(t *testing.T) {
	t.Parallel()

	m := typeText(testModel(t), "e")
	if len(m.matches) < 2 {
		t.Fatalf("matches = %v", m.matches)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(model)

	first := m.input.Value()
	if !m.tabActive || first != m.matches[0].Str {
		t.Fatalf("first tab: active=%v input=%q", m.tabActive, first)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(model)

	if m.input.Value() != m.matches[1].Str {
		t.Errorf("second tab input = %q, want %q", m.input.Value(), m.matches[1].Str)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(model)

	if m.tabActive || m.input.Value() != "e" {
		t.Errorf("escape: active=%v input=%q", m.tabActive, m.input.Value())
	}
}

func TestUpdate_EnterEvaluates(t *testing.T) {
	t.Parallel()

	m := typeText(testModel(t), "let q = 5")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)

	if cmd == nil || !m.busy {
		t.Fatalf("enter did not start an evaluation: busy=%v", m.busy)
	}

	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}

	if m.history.Len() != 1 {
		t.Errorf("history length = %d", m.history.Len())
	}

	// Deliver the result the background command would produce.
	next, _ = m.Update(evaluate(t.Context(), m.env, m.out, "let q = 5", m.opts))
	m = next.(model)

	if m.busy || m.cancel != nil {
		t.Error("model still busy after result")
	}

	if _, err := m.env.Lookup("q"); err != nil {
		t.Errorf("binding missing: %v", err)
	}
}

func TestUpdate_CtrlC(t *testing.T) {
	t.Parallel()

	m := testModel(t)

	canceled := false
	m.busy = true
	m.cancel = func() { canceled = true }

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(model)

	if !canceled || m.quitting {
		t.Errorf("busy ctrl+c: canceled=%v quitting=%v", canceled, m.quitting)
	}

	m.busy = false
	m = typeText(m, "abc")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(model)

	if m.input.Value() != "" || m.quitting {
		t.Errorf("ctrl+c with input: value=%q quitting=%v", m.input.Value(), m.quitting)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(model)

	if !m.quitting {
		t.Error("ctrl+c on empty line did not quit")
	}
}

func TestExecuteCommand(t *testing.T) {
	t.Parallel()

	m := testModel(t)
	if _, err := lang.Run(t.Context(), "let b = 2.5", m.env); err != nil {
		t.Fatalf("run error: %v", err)
	}

	bindings := m.listBindings()
	for _, want := range []string{"b = 2.5", "(float)", "print = print"} {
		if !strings.Contains(bindings, want) {
			t.Errorf("bindings %q missing %q", bindings, want)
		}
	}

	for _, name := range []string{"help", "env", "clear", "nope"} {
		next, cmd := m.executeCommand(name)
		if next.quitting || cmd == nil {
			t.Errorf(":%s: quitting=%v cmd=%v", name, next.quitting, cmd != nil)
		}
	}

	if next, _ := m.executeCommand("quit"); !next.quitting {
		t.Error(":quit did not quit")
	}
}

func TestHistoryNavigation(t *testing.T) {
	t.Parallel()

	m := testModel(t)
	for _, line := range []string{"let a = 1", "a + 1"} {
		if err := m.history.Add(line, entryEval); err != nil {
			t.Fatal(err)
		}
	}

	m.historyIdx = m.history.Len()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(model)

	if m.input.Value() != "a + 1" {
		t.Errorf("up = %q", m.input.Value())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(model)

	if m.input.Value() != "let a = 1" {
		t.Errorf("up twice = %q", m.input.Value())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(model)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(model)

	if m.input.Value() != "" || m.historyIdx != m.history.Len() {
		t.Errorf("down past end: value=%q idx=%d", m.input.Value(), m.historyIdx)
	}
}

func TestView(t *testing.T) {
	t.Parallel()

	m := testModel(t)
	if v := m.View(); !strings.Contains(v, ":help") {
		t.Errorf("empty view = %q", v)
	}

	m = typeText(m, "print(1, ")
	if v := m.View(); !strings.Contains(v, "...values") {
		t.Errorf("call view = %q", v)
	}

	m.quitting = true
	if v := m.View(); v != "" {
		t.Errorf("quitting view = %q", v)
	}
}
