// Package tui is a terminal formula editor. Committed tokens are drawn as
// chips before a text input, suggestions for the pending input drop down
// below it, and the live result is shown underneath.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zephyrtronium/formula"
	"github.com/zephyrtronium/formula/suggest"
)

const (
	placeholder = "Start typing a formula..."
	helpText    = "Type numbers, operators (+ - * / ^ ( )) or variable names • Enter: commit • ↑/↓: choose • Esc: close • Tab: variable actions • Ctrl+L: clear • Ctrl+C: quit"
)

// Actions offered for a selected variable token.
var actions = []string{"Edit", "Delete", "Properties"}

// Options configures a Model.
type Options struct {
	// Provider looks up variables for the pending input.
	Provider suggest.Provider
	// Context holds the evaluation precision and any variable values. If nil,
	// a default context is used.
	Context *formula.Context
	// Store is the formula to edit. If nil, the formula starts empty.
	Store *formula.Store
	// Timeout bounds each lookup. Non-positive means ten seconds.
	Timeout time.Duration
	// Log receives lookup diagnostics. Nil discards them.
	Log    *slog.Logger
	Styles *Styles
}

// suggestionsMsg carries the result of a lookup back to the update loop.
type suggestionsMsg struct {
	ticket suggest.Ticket
	list   []suggest.Suggestion
}

// tokenMenu is the action menu of a selected variable token.
type tokenMenu struct {
	index  int
	action int
}

// Model is the bubbletea model of the formula editor.
type Model struct {
	editor   *formula.Editor
	input    textinput.Model
	provider suggest.Provider
	timeout  time.Duration
	log      *slog.Logger
	styles   Styles

	menu     *tokenMenu
	status   string
	width    int
	quitting bool
}

// New creates an editor model.
func New(opts Options) *Model {
	store := opts.Store
	if store == nil {
		store = formula.NewStore()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	styles := DefaultStyles()
	if opts.Styles != nil {
		styles = *opts.Styles
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.Width = 30
	ti.Focus()

	m := &Model{
		editor:   formula.NewEditor(store, opts.Context),
		input:    ti,
		provider: opts.Provider,
		timeout:  timeout,
		log:      log,
		styles:   styles,
		width:    80,
	}
	return m
}

// Run starts the editor on the terminal and blocks until it exits.
func Run(m *Model) error {
	p := tea.NewProgram(m, tea.WithReportFocus())
	_, err := p.Run()
	return err
}

// Editor returns the model's formula editor.
func (m *Model) Editor() *formula.Editor {
	return m.editor
}

// Pending returns the text in the input.
func (m *Model) Pending() string {
	return m.input.Value()
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 4; w > 10 {
			m.input.Width = w
		}
		return m, nil

	case suggestionsMsg:
		if !m.editor.Suggestions(msg.ticket, msg.list) {
			m.log.Debug("dropped stale suggestions", "query", msg.ticket.Query)
		}
		return m, nil

	case tea.BlurMsg:
		m.editor.Blur()
		m.input.Blur()
		return m, nil

	case tea.FocusMsg:
		cmd := m.input.Focus()
		return m, tea.Batch(cmd, m.changed())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInput(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || key == "ctrl+d" {
		m.quitting = true
		return m, tea.Quit
	}
	m.status = ""

	if key == "tab" {
		m.selectNextVariable()
		return m, nil
	}
	if m.menu != nil {
		switch key {
		case "up":
			m.menu.action = (m.menu.action + len(actions) - 1) % len(actions)
			return m, nil
		case "down":
			m.menu.action = (m.menu.action + 1) % len(actions)
			return m, nil
		case "enter":
			return m, m.applyAction()
		case "esc":
			m.menu = nil
			return m, nil
		}
	}

	var ev formula.Event
	switch key {
	case "enter":
		ev.Key = formula.KeyEnter
	case "backspace":
		ev.Key = formula.KeyBackspace
	case "up":
		ev.Key = formula.KeyUp
	case "down":
		ev.Key = formula.KeyDown
	case "esc":
		ev.Key = formula.KeyEscape
	case "ctrl+l":
		ev.Key = formula.KeyClear
	default:
		if msg.Type == tea.KeyRunes && msg.Paste {
			m.menu = nil
			return m, m.setPending(m.editor.Type(m.input.Value(), string(msg.Runes)))
		}
		if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && formula.IsOperator(string(msg.Runes)) {
			ev = formula.OperatorKey(string(msg.Runes))
		}
	}
	if ev.Key == formula.KeyNone {
		return m.updateInput(msg)
	}

	pending, ok := m.editor.Key(ev, m.input.Value())
	if !ok {
		return m.updateInput(msg)
	}
	m.menu = nil
	return m, m.setPending(pending)
}

// updateInput passes msg to the text input and starts a lookup if the
// pending input changed.
func (m *Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.changed())
}

// setPending replaces the pending input, starting a lookup if it changed.
func (m *Model) setPending(v string) tea.Cmd {
	if v == m.input.Value() {
		return nil
	}
	m.input.SetValue(v)
	m.input.CursorEnd()
	return m.changed()
}

// changed reports the pending input to the editor and returns a lookup for
// it if the suggestion list opened.
func (m *Model) changed() tea.Cmd {
	tk, ok := m.editor.Input(m.input.Value())
	if !ok {
		return nil
	}
	return m.lookup(tk)
}

func (m *Model) lookup(tk suggest.Ticket) tea.Cmd {
	p, log, timeout := m.provider, m.log, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return suggestionsMsg{ticket: tk, list: suggest.Fetch(ctx, p, tk.Query, log)}
	}
}

// selectNextVariable moves the action menu to the next variable token after
// the current selection, closing it after the last one.
func (m *Model) selectNextVariable() {
	start := 0
	if m.menu != nil {
		start = m.menu.index + 1
	}
	toks := m.editor.Formula()
	for i := start; i < len(toks); i++ {
		if toks[i].Kind() == formula.Variable {
			m.menu = &tokenMenu{index: i}
			return
		}
	}
	m.menu = nil
}

func (m *Model) applyAction() tea.Cmd {
	i := m.menu.index
	toks := m.editor.Formula()
	if i >= len(toks) {
		m.menu = nil
		return nil
	}
	tok := toks[i]
	switch actions[m.menu.action] {
	case "Edit":
		pending, err := m.editor.Replace(i, m.input.Value())
		if err != nil {
			m.status = "Type a replacement, then choose Edit"
			return nil
		}
		m.menu = nil
		return m.setPending(pending)
	case "Delete":
		m.editor.Remove(i)
		m.menu = nil
	case "Properties":
		m.status = fmt.Sprintf("%s (id %s)", tok.Name(), tok.ID())
		m.menu = nil
	}
	return nil
}

// View renders the editor
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Formula"))
	b.WriteByte('\n')

	for i, tok := range m.editor.Formula() {
		b.WriteString(m.renderToken(i, tok))
		b.WriteByte(' ')
	}
	b.WriteString(m.input.View())
	if m.editor.Store().Len() == 0 && m.input.Value() == "" {
		b.WriteString(m.styles.Muted.Render(placeholder))
	}
	b.WriteByte('\n')

	if d := m.renderDropdown(); d != "" {
		b.WriteString(d)
		b.WriteByte('\n')
	}
	if mv := m.renderMenu(); mv != "" {
		b.WriteString(mv)
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	r := m.editor.Result()
	if r.Evaluable() {
		b.WriteString("= " + m.styles.Result.Render(r.String()))
	} else {
		b.WriteString("= " + m.styles.Error.Render(r.String()))
	}
	b.WriteByte('\n')
	if m.status != "" {
		b.WriteString(m.styles.Muted.Render(m.status))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(m.styles.Help.Width(m.width).Render(helpText))
	return b.String()
}

func (m *Model) renderToken(i int, tok formula.Token) string {
	if m.menu != nil && m.menu.index == i {
		return m.styles.Selected.Render(tok.Text())
	}
	switch tok.Kind() {
	case formula.Number:
		return m.styles.Number.Render(tok.Text())
	case formula.Operator:
		return m.styles.Operator.Render(tok.Text())
	case formula.Variable:
		return m.styles.Variable.Render(tok.Name())
	default:
		return m.styles.Text.Render(tok.Text())
	}
}

func (m *Model) renderDropdown() string {
	if !m.editor.Open() {
		return ""
	}
	var lines []string
	switch list := m.editor.SuggestionList(); {
	case m.editor.Loading():
		lines = append(lines, m.styles.Muted.Render("Loading..."))
	case len(list) == 0:
		lines = append(lines, m.styles.Muted.Render("No suggestions"))
	default:
		for i, s := range list {
			if i == m.editor.Highlighted() {
				lines = append(lines, m.styles.Highlighted.Render("▸ "+s.Name))
			} else {
				lines = append(lines, m.styles.Item.Render(s.Name))
			}
		}
	}
	return m.styles.Dropdown.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderMenu() string {
	if m.menu == nil {
		return ""
	}
	lines := make([]string, 0, len(actions))
	for i, a := range actions {
		if i == m.menu.action {
			lines = append(lines, m.styles.Highlighted.Render("▸ "+a))
		} else {
			lines = append(lines, m.styles.Item.Render(a))
		}
	}
	return m.styles.Dropdown.Render(strings.Join(lines, "\n"))
}
