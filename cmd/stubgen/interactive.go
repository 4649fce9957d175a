package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/stubgen/driver"
	"github.com/wippyai/stubgen/synth"
)

var helpStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#666666"))

type classItem struct {
	table *driver.Table
}

func (i classItem) Title() string { return i.table.Class.Name }

func (i classItem) Description() string {
	t := i.table
	return fmt.Sprintf("%d members: %d user, %d stubs, %d bridges",
		len(t.Entries), t.Count(synth.User), t.Count(synth.Stub), t.Count(synth.Bridge))
}

func (i classItem) FilterValue() string { return i.table.Class.Name }

type modelState int

const (
	stateSelectClass modelState = iota
	stateShowTable
)

type browserModel struct {
	classes  list.Model
	members  viewport.Model
	state    modelState
	width    int
	height   int
	selected *driver.Table
}

func newBrowserModel(tables []*driver.Table) *browserModel {
	items := make([]list.Item, 0, len(tables))
	for _, t := range tables {
		items = append(items, classItem{table: t})
	}
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Member tables"
	if len(tables) > 0 {
		l.Title += " (" + tables[0].Profile.Name + ")"
	}
	return &browserModel{
		classes: l,
		members: viewport.New(0, 0),
		state:   stateSelectClass,
	}
}

func (m *browserModel) Init() tea.Cmd {
	return nil
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.classes.SetSize(msg.Width, msg.Height)
		m.members.Width = msg.Width
		m.members.Height = max(msg.Height-3, 1)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.classes.FilterState() != list.Filtering {
				return m, tea.Quit
			}
		case "enter":
			if m.state == stateSelectClass && m.classes.FilterState() != list.Filtering {
				item, ok := m.classes.SelectedItem().(classItem)
				if !ok {
					return m, nil
				}
				m.selected = item.table
				m.members.SetContent(renderTable(item.table, true))
				m.members.GotoTop()
				m.state = stateShowTable
				return m, nil
			}
		case "esc":
			if m.state == stateShowTable {
				m.state = stateSelectClass
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	if m.state == stateShowTable {
		m.members, cmd = m.members.Update(msg)
	} else {
		m.classes, cmd = m.classes.Update(msg)
	}
	return m, cmd
}

func (m *browserModel) View() string {
	if m.state == stateSelectClass {
		return m.classes.View()
	}
	var b strings.Builder
	b.WriteString(m.members.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("↑/↓ scroll • esc back • q quit"))
	return b.String()
}

func runInteractive(tables []*driver.Table) error {
	p := tea.NewProgram(newBrowserModel(tables), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
