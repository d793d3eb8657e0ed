package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/wordcloud/pkg/wordfreq"
)

var listExcludedStyle = lipgloss.NewStyle().Foreground(colorRed).Strikethrough(true)

// =============================================================================
// FrequencyModel - Interactive frequency table browser
// =============================================================================

// FrequencyModel is the bubbletea model for browsing a frequency table and
// marking words to exclude from the cloud.
type FrequencyModel struct {
	Entries  []wordfreq.Entry
	Total    int
	Cursor   int
	Height   int
	Offset   int
	Excluded map[string]bool
	Done     bool // enter pressed, as opposed to quitting
}

// NewFrequencyModel creates a browser over entries, which are expected in
// descending count order.
func NewFrequencyModel(entries []wordfreq.Entry, total int) FrequencyModel {
	return FrequencyModel{
		Entries:  entries,
		Total:    total,
		Height:   15,
		Excluded: make(map[string]bool),
	}
}

func (m FrequencyModel) Init() tea.Cmd {
	return nil
}

func (m FrequencyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			m.Done = true
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup", "b":
			m.move(-m.Height)
		case "pgdown", "f":
			m.move(m.Height)
		case "home", "g":
			m.move(-len(m.Entries))
		case "end", "G":
			m.move(len(m.Entries))
		case " ", "x":
			if len(m.Entries) > 0 {
				w := m.Entries[m.Cursor].Word
				if m.Excluded[w] {
					delete(m.Excluded, w)
				} else {
					m.Excluded[w] = true
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.move(0)
	}
	return m, nil
}

// move shifts the cursor by d rows, clamped, and scrolls to keep it
// visible.
func (m *FrequencyModel) move(d int) {
	if len(m.Entries) == 0 {
		return
	}
	m.Cursor = min(max(m.Cursor+d, 0), len(m.Entries)-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// ExcludedWords returns the marked words in table order.
func (m FrequencyModel) ExcludedWords() []string {
	var out []string
	for _, e := range m.Entries {
		if m.Excluded[e.Word] {
			out = append(out, e.Word)
		}
	}
	return out
}

func (m FrequencyModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Word Frequencies"))
	b.WriteString("\n")
	b.WriteString(styleDim.Render("↑/↓ navigate  space exclude  ⏎ done  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Entries))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, entryRow(cursor, i, m.Entries[i], m.Total))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Word", "Count", "Share").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Entries) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col >= 3 {
				base = base.Align(lipgloss.Right)
			}
			switch {
			case m.Excluded[m.Entries[idx].Word]:
				return base.Inherit(listExcludedStyle)
			case idx == m.Cursor:
				return base.Foreground(colorCyan).Bold(true)
			case col == 1 || col == 4:
				return base.Foreground(colorDim)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	status := fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Entries)), len(m.Entries))
	if n := len(m.Excluded); n > 0 {
		status += fmt.Sprintf("  %d excluded", n)
	}
	b.WriteString(styleDim.Render(status))

	return b.String()
}

// entryRow formats one table row: cursor, rank, word, count and share.
func entryRow(cursor string, i int, e wordfreq.Entry, total int) []string {
	share := "—"
	if total > 0 {
		share = fmt.Sprintf("%.1f%%", 100*float64(e.Count)/float64(total))
	}
	return []string{cursor, fmt.Sprint(i + 1), e.Word, fmt.Sprint(e.Count), share}
}

// frequencyTable renders entries as a static table for non-interactive
// output.
func frequencyTable(entries []wordfreq.Entry, total int) string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = entryRow("", i, e, total)[1:]
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Word", "Count", "Share").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= 2:
				return lipgloss.NewStyle().Align(lipgloss.Right)
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// sortedExcludes merges extra into the existing exclude list.
func sortedExcludes(existing, extra []string) []string {
	out := slices.Concat(existing, extra)
	slices.Sort(out)
	return slices.Compact(out)
}
