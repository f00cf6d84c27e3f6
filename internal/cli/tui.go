package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/orgchart/pkg/org"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// BranchListModel - Interactive branch selection
// =============================================================================

// Branch is one unit of the hierarchy that can be charted on its own.
type Branch struct {
	HierarchyID string
	NodeID      string
	Label       string
	Depth       int
	Nodes       int
}

// branchesOf lists every node that carries a hierarchy id, in preorder.
func branchesOf(forest []*org.Node) []Branch {
	var out []Branch
	org.Walk(forest, func(n *org.Node, depth int) bool {
		if n.HierarchyID != "" {
			out = append(out, Branch{
				HierarchyID: n.HierarchyID,
				NodeID:      n.ID,
				Label:       n.DisplayLabel(),
				Depth:       depth,
				Nodes:       org.CountDescendants(n) + 1,
			})
		}
		return true
	})
	return out
}

// BranchListModel is the bubbletea model for picking the unit to chart.
type BranchListModel struct {
	Branches []Branch
	Cursor   int
	Selected *Branch
	Height   int
	Offset   int
}

// NewBranchListModel creates a new branch list model.
func NewBranchListModel(branches []Branch) BranchListModel {
	return BranchListModel{Branches: branches, Height: 15}
}

func (m BranchListModel) Init() tea.Cmd {
	return nil
}

func (m BranchListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Branches)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Branches) == 0 {
				return m, tea.Quit
			}
			b := m.Branches[m.Cursor]
			m.Selected = &b
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m BranchListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Branch"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	if len(m.Branches) == 0 {
		b.WriteString(listDimStyle.Render("  no units carry a hierarchy id"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Branches))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		br := m.Branches[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		label := strings.Repeat("  ", br.Depth) + br.Label
		rows = append(rows, []string{cursor, label, br.HierarchyID, fmt.Sprint(br.Nodes)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Unit", "Hierarchy ID", "Nodes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 { // header
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 2 || col == 3 {
				return listDimStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Branches))))
	return b.String()
}
