package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
)

func keys(m StopwordPicker, msgs ...tea.Msg) StopwordPicker {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(StopwordPicker)
	}
	return m
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStopwordPickerSelection(t *testing.T) {
	words := []string{"alpha", "beta", "gamma", "delta"}

	tests := []struct {
		name string
		msgs []tea.Msg
		want []string
	}{
		{"none confirmed", []tea.Msg{keyEnter}, nil},
		{"first", []tea.Msg{keySpace, keyEnter}, []string{"alpha"}},
		{"navigate and toggle", []tea.Msg{keyDown, keyDown, runes("x"), keyUp, keySpace, keyEnter}, []string{"beta", "gamma"}},
		{"toggle twice", []tea.Msg{keySpace, keySpace, keyEnter}, nil},
		{"all", []tea.Msg{runes("a"), keyEnter}, words},
		{"all twice clears", []tea.Msg{runes("a"), runes("a"), keyEnter}, nil},
		{"cursor stops at end", []tea.Msg{keyDown, keyDown, keyDown, keyDown, keyDown, keySpace, keyEnter}, []string{"delta"}},
		{"quit discards", []tea.Msg{keySpace, keyEsc}, nil},
		{"vim keys", []tea.Msg{runes("j"), runes("j"), runes("k"), keySpace, keyEnter}, []string{"beta"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := keys(NewStopwordPicker(words, nil), tt.msgs...)
			if diff := cmp.Diff(tt.want, m.Selected()); diff != "" {
				t.Errorf("selection mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStopwordPickerQuitCommands(t *testing.T) {
	m := NewStopwordPicker([]string{"a"}, nil)
	for _, msg := range []tea.Msg{keyEnter, keyEsc, runes("q")} {
		if _, cmd := m.Update(msg); cmd == nil {
			t.Errorf("%v did not quit", msg)
		}
	}
	if _, cmd := m.Update(keyDown); cmd != nil {
		t.Error("navigation should not quit")
	}
}

func TestStopwordPickerScrolls(t *testing.T) {
	words := make([]string, 20)
	for i := range words {
		words[i] = string(rune('a' + i))
	}
	m := keys(NewStopwordPicker(words, nil), tea.WindowSizeMsg{Width: 80, Height: 11})
	if m.Height != 5 {
		t.Fatalf("Height = %d, want 5", m.Height)
	}
	for i := 0; i < 7; i++ {
		m = keys(m, keyDown)
	}
	if m.Cursor != 7 || m.Offset != 3 {
		t.Errorf("cursor %d offset %d, want 7 and 3", m.Cursor, m.Offset)
	}
}

func TestStopwordPickerView(t *testing.T) {
	m := NewStopwordPicker([]string{"and", "cloud"}, map[string]bool{"and": true})
	m = keys(m, keySpace)
	view := m.View()
	for _, want := range []string{"Select Stopwords", "[x] and", "(filtered)", "[ ] cloud", "1 selected"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestStopwordPickerEmpty(t *testing.T) {
	m := keys(NewStopwordPicker(nil, nil), keySpace, keyDown, keyEnter)
	if got := m.Selected(); len(got) != 0 {
		t.Errorf("Selected() = %v, want empty", got)
	}
}
