package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/quill/lang"
	"github.com/ardnew/quill/log"
)

// Config configures an interactive session.
type Config struct {
	Logger log.Logger
	Input  io.Reader // nil means os.Stdin
	Output io.Writer // nil means os.Stdout

	// Preload is evaluated before the first prompt.
	Preload string

	// HistoryPath is the file input history is persisted to. Empty keeps
	// history in memory only.
	HistoryPath string

	// MaxDepth limits nesting and recursion depth; see [lang.WithMaxDepth].
	MaxDepth int
}

// evalMsg carries the outcome of evaluating one input.
type evalMsg struct {
	value   lang.Value
	err     error
	printed string // text written by native functions
}

// editMsg is sent when the editor produced a program that compiles.
type editMsg struct{ source string }

// editCancelledMsg is sent when the user cleared the editor content or
// declined to re-edit.
type editCancelledMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-parse error.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	busyPrompt = "… "
)

func helpMessage() string {
	return `
Commands:

  :help    Print this cruft
  :env     List every binding in the environment
  :edit    Edit a multi-line program in external $EDITOR
  :clear   Clear screen
  :quit    Exit REPL

Usage:
  Type a statement to evaluate it; bindings persist between inputs
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space or Enter to accept the current candidate
  Use Up/Down arrows for history navigation
  Press Ctrl+C to interrupt an evaluation or clear the line
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// formatCommand formats the echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	cancel       context.CancelFunc // interrupts the running evaluation
	input        textinput.Model
	env          *lang.Env
	out          *bytes.Buffer // output writer of env
	logger       log.Logger
	history      *History
	opts         []lang.Option
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	lastEdit     string        // last program accepted from the editor
	width        int           // terminal width for ellipsization
	tabActive    bool          // whether user is tab-cycling
	busy         bool          // whether an evaluation is running
	quitting     bool
}

// Run evaluates cfg.Preload and then starts the interactive loop. Every
// input is evaluated against the same environment.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	out := new(bytes.Buffer)
	opts := []lang.Option{
		lang.WithLogger(cfg.Logger),
		lang.WithMaxDepth(cfg.MaxDepth),
		lang.WithOutput(out),
	}

	env := lang.NewEnv(opts...)

	if cfg.Preload != "" {
		_, err := lang.Run(ctx, cfg.Preload, env, opts...)
		if _, werr := out.WriteTo(cfg.Output); werr != nil && err == nil {
			err = werr
		}

		if err != nil {
			return err
		}

		cfg.Logger.TraceContext(ctx, "repl preload evaluated",
			slog.Int("bindings", env.Len()),
		)
	}

	history := NewHistory(cfg.HistoryPath)
	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "could not load history",
			slog.String("path", cfg.HistoryPath),
			slog.Any("error", err),
		)
	}

	cfg.Logger.TraceContext(ctx, "repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	popts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithOutput(cfg.Output),
	}
	if cfg.Input != nil {
		popts = append(popts, tea.WithInput(cfg.Input))
	}

	m := newModel(ctx, env, out, history, cfg.Logger, opts)

	_, err = tea.NewProgram(m, popts...).Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	env *lang.Env,
	out *bytes.Buffer,
	history *History,
	logger log.Logger,
	opts []lang.Option,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		env:        env,
		out:        out,
		logger:     logger,
		history:    history,
		opts:       opts,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case evalMsg:
		m.busy = false
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}

		m.input.Prompt = promptStyle.Render(evalPrompt)

		return m, printLines(renderResult(msg))

	case editMsg:
		m.lastEdit = msg.source
		m.logger.TraceContext(m.ctxFunc(), "repl edit complete",
			slog.Int("content_length", len(msg.source)),
		)

		return m.startEval(msg.source)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()

	switch {
	case m.busy:
		b.WriteString(hintStyle.Render("evaluating (Ctrl+C to interrupt)"))

	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		b.WriteString(hintStyle.Render("Type a statement, or :help for commands"))

	case len(m.matches) == 0 && m.callHint() != "":
		b.WriteString(m.callHint())

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

// callHint renders the signature of the call the cursor is in, or "".
func (m model) callHint() string {
	call := detectFunctionCall(m.input.Value(), m.input.Position())
	if !call.inCall {
		return ""
	}

	params, ok := signature(m.env, call.name)
	if !ok {
		return ""
	}

	return renderSignatureHint(call.name, params, call.argIndex)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.busy {
			if m.cancel != nil {
				m.cancel()
			}

			return m, nil
		}

		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" && !m.busy {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.busy {
			return m, nil
		}

		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1)

	case tea.KeyShiftTab:
		return m.cycle(-1)

	case tea.KeyUp:
		return m.historyPrev()

	case tea.KeyDown:
		return m.historyNext()

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)
		}

		return m, nil

	case tea.KeyRunes, tea.KeySpace:
		// Typing ends tab-cycling and keeps the current candidate.
		m.tabActive = false

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the selected candidate by step, starting tab-cycling if
// needed. A sole candidate is completed immediately.
func (m model) cycle(step int) (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also confirms the completion when exactly one
// candidate remains and the typed word already equals it. autoConfirm should
// be false for deletions and cursor navigation.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.input.SetValue("")
	m.matches = nil

	if name, ok := strings.CutPrefix(input, commandPrefix); ok {
		m.addHistory(input, entryCommand)

		return m.executeCommand(strings.TrimSpace(name))
	}

	m.addHistory(input, entryEval)
	m.logger.TraceContext(m.ctxFunc(), "repl eval", slog.String("input", input))

	echo := tea.Println(formatCommand(input))

	m, eval := m.startEval(input)

	return m, tea.Sequence(echo, eval)
}

func (m *model) addHistory(input string, kind entryKind) {
	if err := m.history.Add(input, kind); err != nil {
		m.logger.TraceContext(m.ctxFunc(), "repl history write failed",
			slog.Any("error", err),
		)
	}

	m.historyIdx = m.history.Len()
}

// startEval evaluates src in the background. The result arrives as an
// evalMsg; until then the model is busy and Ctrl+C cancels the evaluation.
func (m model) startEval(src string) (model, tea.Cmd) {
	ctx, cancel := context.WithCancel(m.ctxFunc())

	m.cancel = cancel
	m.busy = true
	m.input.Prompt = hintStyle.Render(busyPrompt)

	env, out, opts := m.env, m.out, m.opts

	return m, func() tea.Msg {
		return evaluate(ctx, env, out, src, opts)
	}
}

// evaluate runs src against env and collects what it printed to out.
func evaluate(
	ctx context.Context,
	env *lang.Env,
	out *bytes.Buffer,
	src string,
	opts []lang.Option,
) evalMsg {
	value, err := lang.Run(ctx, src, env, opts...)

	msg := evalMsg{value: value, err: err, printed: out.String()}
	out.Reset()

	return msg
}

// renderResult returns the styled lines reporting msg: printed output first,
// then the errors or the resulting value. A null result is only shown when
// nothing was printed.
func renderResult(msg evalMsg) []string {
	var lines []string

	if msg.printed != "" {
		lines = append(lines, strings.TrimSuffix(msg.printed, "\n"))
	}

	if msg.err != nil {
		var pe *lang.ParseError
		if errors.As(msg.err, &pe) {
			for _, e := range pe.Errors() {
				lines = append(lines, errorStyle.Render(e.Error()))
			}

			return lines
		}

		return append(lines, errorStyle.Render(msg.err.Error()))
	}

	if _, isNull := msg.value.(lang.Null); isNull {
		if msg.printed == "" {
			lines = append(lines, hintStyle.Render(msg.value.String()))
		}

		return lines
	}

	return append(lines, resultStyle.Render(msg.value.String()))
}

func printLines(lines []string) tea.Cmd {
	if len(lines) == 0 {
		return nil
	}

	return tea.Println(strings.Join(lines, "\n"))
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echo := tea.Println(formatCommand(commandPrefix + input))

	m.logger.TraceContext(m.ctxFunc(), "repl exec command",
		slog.String("command", parts[0]),
	)

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "env":
		return m, tea.Sequence(echo, tea.Println(m.listBindings()))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		var edit tea.Cmd

		m, edit = m.handleEdit()

		return m, tea.Sequence(echo, edit)

	default:
		return m, tea.Println(errorStyle.Render(
			"unknown command " + commandPrefix + parts[0] + " (try :help)",
		))
	}
}

func (m model) handleEdit() (model, tea.Cmd) {
	cmd := &editCommand{
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
		opts:    m.opts,
		source:  m.lastEdit,
	}

	return m, tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editCancelledMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case !cmd.ok:
			return editCancelledMsg{}
		}

		return editMsg{source: cmd.source}
	})
}

// listBindings renders every binding as "name = value (type)".
func (m model) listBindings() string {
	var b strings.Builder

	for _, name := range m.env.Names() {
		v, err := m.env.Lookup(name)
		if err != nil {
			continue
		}

		fmt.Fprintf(&b, "  %s = %s %s\n", name, v,
			hintStyle.Render("("+v.TypeName()+")"))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (m model) historyPrev() (model, tea.Cmd) {
	if m.historyIdx > 0 {
		m.historyIdx--
		m.recall()
	}

	return m, nil
}

func (m model) historyNext() (model, tea.Cmd) {
	if m.historyIdx < m.history.Len()-1 {
		m.historyIdx++
		m.recall()

		return m, nil
	}

	m.historyIdx = m.history.Len()
	m.input.SetValue("")
	refreshMatches(&m, false)

	return m, nil
}

// recall loads the history entry at historyIdx into the input line.
func (m *model) recall() {
	entry, err := m.history.Entry(m.historyIdx)
	if err != nil {
		return
	}

	m.tabActive = false
	m.input.SetValue(entry.Line)
	m.input.SetCursor(len(entry.Line))
	refreshMatches(m, false)
}
