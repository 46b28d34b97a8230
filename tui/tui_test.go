package tui

import (
	"math/big"
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/formula"
	"github.com/zephyrtronium/formula/suggest"
)

var testVars = suggest.Catalog{
	{ID: "1", Name: "Revenue"},
	{ID: "2", Name: "Reverse Charge"},
	{ID: "3", Name: "Cost"},
}

func newTestModel(opts Options) *Model {
	if opts.Provider == nil {
		opts.Provider = testVars
	}
	m := New(opts)
	// A blinking cursor schedules timers which would slow every command.
	m.input.Cursor.SetMode(cursor.CursorStatic)
	return m
}

// drain runs cmd and delivers any lookup results it produces.
func drain(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			drain(m, c)
		}
	case suggestionsMsg:
		m.Update(msg)
	}
}

func press(m *Model, k tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(k)
	return cmd
}

func typeText(m *Model, s string) {
	for _, r := range s {
		k := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		if r == ' ' {
			k = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{r}}
		}
		drain(m, press(m, k))
	}
}

func texts(toks []formula.Token) []string {
	r := make([]string, len(toks))
	for i, tok := range toks {
		r[i] = tok.Text()
	}
	return r
}

func TestModelOperatorCommitsPending(t *testing.T) {
	m := newTestModel(Options{})
	typeText(m, "3+")
	assert.Equal(t, []string{"3", "+"}, texts(m.Editor().Formula()))
	assert.Equal(t, formula.Number, m.Editor().Formula()[0].Kind())
	assert.Empty(t, m.Pending())
	assert.False(t, m.Editor().Open())
}

func TestModelSuggestions(t *testing.T) {
	m := newTestModel(Options{})
	typeText(m, "rev")
	require.True(t, m.Editor().Open())
	assert.False(t, m.Editor().Loading())
	assert.Equal(t, []suggest.Suggestion(testVars[:2]), m.Editor().SuggestionList())

	view := m.View()
	assert.Contains(t, view, "Revenue")
	assert.Contains(t, view, "Reverse Charge")
	assert.NotContains(t, view, "Cost")

	drain(m, press(m, tea.KeyMsg{Type: tea.KeyDown}))
	drain(m, press(m, tea.KeyMsg{Type: tea.KeyEnter}))
	toks := m.Editor().Formula()
	require.Len(t, toks, 1)
	assert.Equal(t, formula.Variable, toks[0].Kind())
	assert.Equal(t, "2", toks[0].ID())
	assert.Empty(t, m.Pending())
	assert.False(t, m.Editor().Open())
}

func TestModelStaleLookup(t *testing.T) {
	m := newTestModel(Options{})
	first := press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	second := press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'o'}})
	assert.True(t, m.Editor().Loading())
	assert.Contains(t, m.View(), "Loading...")

	drain(m, first)
	assert.True(t, m.Editor().Loading(), "stale lookup was delivered")
	drain(m, second)
	assert.False(t, m.Editor().Loading())
	assert.Equal(t, []suggest.Suggestion{testVars[2]}, m.Editor().SuggestionList())
}

func TestModelEnterWhileLoading(t *testing.T) {
	m := newTestModel(Options{})
	typeText(m, "r")
	require.Len(t, m.Editor().SuggestionList(), 2)

	pending := press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	assert.True(t, m.Editor().Loading())
	assert.Empty(t, m.Editor().SuggestionList())
	drain(m, press(m, tea.KeyMsg{Type: tea.KeyEnter}))
	toks := m.Editor().Formula()
	require.Len(t, toks, 1)
	assert.Equal(t, formula.Text, toks[0].Kind())
	assert.Equal(t, "ra", toks[0].Text())

	drain(m, pending)
	assert.False(t, m.Editor().Open())
	assert.Len(t, m.Editor().Formula(), 1)
}

func TestModelNoSuggestions(t *testing.T) {
	m := newTestModel(Options{})
	typeText(m, "zzz")
	assert.Contains(t, m.View(), "No suggestions")

	drain(m, press(m, tea.KeyMsg{Type: tea.KeyEnter}))
	toks := m.Editor().Formula()
	require.Len(t, toks, 1)
	assert.Equal(t, formula.Text, toks[0].Kind())
	assert.Contains(t, m.View(), "Error")
}

func TestModelEscapeAndBlur(t *testing.T) {
	m := newTestModel(Options{})
	typeText(m, "rev")
	drain(m, press(m, tea.KeyMsg{Type: tea.KeyEsc}))
	assert.False(t, m.Editor().Open())
	assert.Equal(t, "rev", m.Pending())

	typeText(m, "e")
	require.True(t, m.Editor().Open())
	m.Update(tea.BlurMsg{})
	assert.False(t, m.Editor().Open())

	_, cmd := m.Update(tea.FocusMsg{})
	drain(m, cmd)
	assert.True(t, m.Editor().Open())
	assert.Equal(t, []suggest.Suggestion(testVars[:2]), m.Editor().SuggestionList())
}

func TestModelBackspace(t *testing.T) {
	m := newTestModel(Options{})
	typeText(m, "2+3")
	drain(m, press(m, tea.KeyMsg{Type: tea.KeyBackspace}))
	assert.Empty(t, m.Pending())
	assert.Equal(t, []string{"2", "+"}, texts(m.Editor().Formula()))

	drain(m, press(m, tea.KeyMsg{Type: tea.KeyBackspace}))
	assert.Equal(t, []string{"2"}, texts(m.Editor().Formula()))
}

func TestModelResult(t *testing.T) {
	ctx := formula.NewContext(formula.SetVar("1", big.NewFloat(10)))
	m := newTestModel(Options{Context: ctx})
	typeText(m, "2+3*4")
	drain(m, press(m, tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Contains(t, m.View(), "= 14")

	typeText(m, "*reven")
	drain(m, press(m, tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, []string{"2", "+", "3", "*", "4", "*", "Revenue"}, texts(m.Editor().Formula()))
	assert.Contains(t, m.View(), "= 122")
}

func TestModelPaste(t *testing.T) {
	m := newTestModel(Options{})
	drain(m, press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("(1+2)^2 "), Paste: true}))
	assert.Equal(t, []string{"(", "1", "+", "2", ")", "^", "2"}, texts(m.Editor().Formula()))
	assert.Contains(t, m.View(), "= 9")
}

func TestModelClear(t *testing.T) {
	m := newTestModel(Options{})
	assert.Contains(t, m.View(), placeholder)
	typeText(m, "2+2")
	assert.NotContains(t, m.View(), placeholder)

	drain(m, press(m, tea.KeyMsg{Type: tea.KeyCtrlL}))
	assert.Empty(t, m.Editor().Formula())
	assert.Equal(t, "2", m.Pending())
	assert.NotContains(t, m.View(), placeholder)
	drain(m, press(m, tea.KeyMsg{Type: tea.KeyBackspace}))
	assert.Contains(t, m.View(), placeholder)
}

func TestModelVariableMenu(t *testing.T) {
	store := formula.NewStore(
		formula.VariableToken("1", "Revenue"),
		formula.OperatorToken("-"),
		formula.VariableToken("3", "Cost"),
	)
	m := newTestModel(Options{Store: store})

	// Tab cycles through variable tokens and then closes.
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	require.NotNil(t, m.menu)
	assert.Equal(t, 0, m.menu.index)
	assert.Contains(t, m.View(), "Properties")
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	require.NotNil(t, m.menu)
	assert.Equal(t, 2, m.menu.index)
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Nil(t, m.menu)

	// Properties shows the name and id.
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	press(m, tea.KeyMsg{Type: tea.KeyUp})
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.View(), "Revenue (id 1)")
	assert.Len(t, m.Editor().Formula(), 3)

	// Edit without input reports what to do and keeps the menu.
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, m.menu)
	assert.Contains(t, m.View(), "Type a replacement")

	// Edit replaces the token with the pending input.
	typeText(m, "5")
	require.NotNil(t, m.menu)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, m.menu)
	assert.Equal(t, []string{"5", "-", "Cost"}, texts(m.Editor().Formula()))
	assert.Empty(t, m.Pending())

	// Delete removes the token.
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	require.NotNil(t, m.menu)
	assert.Equal(t, 2, m.menu.index)
	press(m, tea.KeyMsg{Type: tea.KeyDown})
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"5", "-"}, texts(m.Editor().Formula()))

	// Escape closes the menu without changes.
	store.Append(formula.VariableToken("1", "Revenue"))
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	require.NotNil(t, m.menu)
	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.menu)
	assert.Len(t, m.Editor().Formula(), 3)
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(Options{})
	cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}
