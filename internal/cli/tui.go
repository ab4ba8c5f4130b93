package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listCheckedStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// StopwordPicker - Interactive stopword selection
// =============================================================================

// StopwordPicker is the bubbletea model for choosing stopwords from a list
// of candidates.
type StopwordPicker struct {
	Words    []string
	Filtered map[string]bool // words the current stopword list already removes
	Checked  map[int]bool
	Cursor   int
	Offset   int
	Height   int

	// Confirmed is set when the user accepts the selection with enter.
	Confirmed bool
}

// NewStopwordPicker creates a picker over words. filtered marks words that
// are already stopwords; they are shown but not preselected.
func NewStopwordPicker(words []string, filtered map[string]bool) StopwordPicker {
	return StopwordPicker{
		Words:    words,
		Filtered: filtered,
		Checked:  make(map[int]bool),
		Height:   15,
	}
}

// Selected returns the checked words in list order. It is empty unless the
// selection was confirmed.
func (m StopwordPicker) Selected() []string {
	if !m.Confirmed {
		return nil
	}
	var out []string
	for i, w := range m.Words {
		if m.Checked[i] {
			out = append(out, w)
		}
	}
	return out
}

func (m StopwordPicker) Init() tea.Cmd {
	return nil
}

func (m StopwordPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Words)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Words) > 0 {
				m.Checked = toggled(m.Checked, m.Cursor)
			}
		case "a":
			m.Checked = m.toggleAll()
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// toggled returns a copy of checked with i flipped, so earlier model values
// are left untouched.
func toggled(checked map[int]bool, i int) map[int]bool {
	out := make(map[int]bool, len(checked)+1)
	for k, v := range checked {
		out[k] = v
	}
	if out[i] {
		delete(out, i)
	} else {
		out[i] = true
	}
	return out
}

// toggleAll checks every word, or clears the selection if all are checked.
func (m StopwordPicker) toggleAll() map[int]bool {
	out := make(map[int]bool, len(m.Words))
	if len(m.Checked) == len(m.Words) {
		return out
	}
	for i := range m.Words {
		out[i] = true
	}
	return out
}

func (m StopwordPicker) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Stopwords"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ confirm  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Words) {
		end = len(m.Words)
	}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		box := "[ ]"
		if m.Checked[i] {
			box = "[x]"
		}
		line := fmt.Sprintf("%s%s %s", cursor, box, m.Words[i])
		if m.Filtered[m.Words[i]] {
			line += " " + listDimStyle.Render("(filtered)")
		}

		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case m.Checked[i]:
			b.WriteString(listCheckedStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] %d selected", m.Cursor+1, len(m.Words), len(m.Checked))))
	return b.String()
}
