package controller

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mouse-blink/reveal/internal/domain"
	"github.com/mouse-blink/reveal/internal/model"
)

// siteItem is one recorded call site of one checker.
type siteItem struct {
	checker  string
	pos      model.Position
	variable string
	typeText string
}

func (i siteItem) FilterValue() string {
	return i.checker + " " + i.pos.String() + " " + i.variable + " " + i.typeText
}

type siteDelegate struct{}

func (d siteDelegate) Height() int  { return 1 }
func (d siteDelegate) Spacing() int { return 0 }
func (d siteDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d siteDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	site, ok := item.(siteItem)
	if !ok {
		return
	}

	var posStyle, exprStyle, typeStyle lipgloss.Style

	if index == m.Index() {
		base := lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)
		posStyle, exprStyle, typeStyle = base, base, base
	} else {
		posStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
		exprStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
		typeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	}

	line := fmt.Sprintf("%s  %s  %s",
		posStyle.Render(truncateToWidth(site.pos.String(), 24)),
		exprStyle.Render(truncateToWidth(site.variable, 20)),
		typeStyle.Render(truncateToWidth(site.typeText, m.Width()-48)),
	)
	_, _ = fmt.Fprint(w, line)
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	if width <= 1 {
		return ellipsis
	}

	maxWidth := width - lipgloss.Width(ellipsis)

	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}

// resultModel lists the recorded call sites of every completed checker.
type resultModel struct {
	width    int
	height   int
	siteList list.Model
	checkers []string
	total    int
}

func newResultModel(results []domain.CheckerResult) resultModel {
	var (
		items    []list.Item
		checkers []string
	)

	for _, res := range results {
		if res.Err != nil {
			continue
		}

		checkers = append(checkers, res.Checker)

		positions := make([]model.Position, 0, len(res.Table))
		for pos := range res.Table {
			positions = append(positions, pos)
		}

		sort.Slice(positions, func(i, j int) bool {
			if positions[i].File != positions[j].File {
				return positions[i].File < positions[j].File
			}

			return positions[i].Line < positions[j].Line
		})

		for _, pos := range positions {
			rec := res.Table[pos]
			items = append(items, siteItem{
				checker:  res.Checker,
				pos:      pos,
				variable: rec.Var,
				typeText: rec.Type,
			})
		}
	}

	siteList := list.New(items, siteDelegate{}, 80, 20)
	siteList.SetShowPagination(false)
	siteList.SetShowFilter(true)
	siteList.SetShowHelp(false)
	siteList.SetShowTitle(false)
	siteList.SetShowStatusBar(false)
	siteList.FilterInput.Placeholder = "Filter by position or type…"

	return resultModel{
		siteList: siteList,
		checkers: checkers,
		total:    len(items),
	}
}

func (m resultModel) items() []list.Item {
	return m.siteList.Items()
}

func (m resultModel) Init() tea.Cmd {
	return nil
}

func (m resultModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.siteList.SetWidth(m.width)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		default:
			var newList list.Model

			newList, cmd = m.siteList.Update(msg)
			m.siteList = newList

			return m, cmd
		}
	}

	return m, cmd
}

func (m resultModel) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	title := titleStyle.Render("Revealed Types")

	summary := summaryStyle.Render(fmt.Sprintf(
		"Call Sites: %s   Checkers: %s",
		accentStyle.Render(fmt.Sprintf("%d", m.total)),
		accentStyle.Render(fmt.Sprintf("%d", len(m.checkers))),
	))

	table := m.renderTable()

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(m.width)

	footer := footerStyle.Render("↑/k up • ↓/j down • / filter • q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summary,
		table,
		footer,
	)
}

func (m resultModel) renderTable() string {
	listHeight := m.height - 9
	if listHeight < 5 {
		listHeight = 5
	}

	listWidth := m.width - 6

	m.siteList.SetHeight(listHeight)
	m.siteList.SetWidth(listWidth)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("8")).
		Width(listWidth)

	headers := headerStyle.Render(fmt.Sprintf("%-24s  %-20s  %s", "Position", "Expression", "Type"))

	tableContainer := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1).
		Padding(0, 1)

	return tableContainer.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			headers,
			m.siteList.View(),
		),
	)
}
