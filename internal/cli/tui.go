package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// FunctionListModel - Interactive function selection
// =============================================================================

// FunctionListModel is the bubbletea model for picking one function of a
// flow graph.
type FunctionListModel struct {
	Functions []functionStats
	Cursor    int
	Selected  string
	Height    int
	Offset    int
}

// NewFunctionListModel creates a picker over stats.
func NewFunctionListModel(stats []functionStats) FunctionListModel {
	return FunctionListModel{Functions: stats, Height: 15}
}

func (m FunctionListModel) Init() tea.Cmd {
	return nil
}

func (m FunctionListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Functions)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Functions) > 0 {
				m.Selected = m.Functions[m.Cursor].Name
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m FunctionListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Function"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Functions))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		s := m.Functions[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, s.Name, strconv.Itoa(s.Nodes), strconv.Itoa(s.Conditions), strconv.Itoa(s.Loops)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(listDimStyle).
		Headers("", "Function", "Nodes", "Conditions", "Loops").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return listHeaderStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col >= 2 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Functions))))

	return b.String()
}

// pickFunction runs the picker on in/out and returns the chosen name, or
// "" if the user quit.
func pickFunction(ctx context.Context, in io.Reader, out io.Writer, stats []functionStats) (string, error) {
	p := tea.NewProgram(NewFunctionListModel(stats),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	return final.(FunctionListModel).Selected, nil
}
