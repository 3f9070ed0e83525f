package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/drills/internal/contact"
)

// browserKeys holds key bindings for the record browser.
type browserKeys struct {
	Up      key.Binding
	Down    key.Binding
	Details key.Binding
	Quit    key.Binding
}

// ShortHelp returns the bindings for the help bar.
func (k browserKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Details, k.Quit}
}

// FullHelp returns the bindings grouped for expanded help.
func (k browserKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Details, k.Quit},
	}
}

// BrowserKeyMap returns the key bindings for the record browser.
func BrowserKeyMap() browserKeys {
	return browserKeys{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Details: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "details"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Model is the Bubble Tea model for browsing extracted records.
type Model struct {
	records    []contact.Record
	table      table.Model
	help       help.Model
	keys       browserKeys
	showDetail bool
	done       bool
}

// browserChrome is the number of lines the status and help bars use.
const browserChrome = 4

// NewModel creates a Model over recs.
func NewModel(recs []contact.Record) Model {
	rows := make([]table.Row, len(recs))
	for i, rec := range recs {
		rows[i] = row(rec)
	}

	t := table.New(
		table.WithColumns(tableColumns(ColumnWidths(100))),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows)+1, 20)),
	)
	s := table.DefaultStyles()
	s.Header = HeaderStyle()
	s.Selected = SelectedStyle()
	t.SetStyles(s)

	return Model{
		records: recs,
		table:   t,
		help:    help.New(),
		keys:    BrowserKeyMap(),
	}
}

func tableColumns(widths []int) []table.Column {
	cols := make([]table.Column, len(columns))
	for i, title := range columns {
		cols[i] = table.Column{Title: title, Width: widths[i]}
	}
	return cols
}

// Selected returns the record under the cursor.
func (m Model) Selected() (contact.Record, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.records) {
		return contact.Record{}, false
	}
	return m.records[i], true
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetColumns(tableColumns(ColumnWidths(msg.Width - 2)))
		m.table.SetHeight(max(msg.Height-browserChrome, 3))
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Details):
			m.showDetail = !m.showDetail
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table, the optional detail pane, and the help bar.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.table.View())
	b.WriteString("\n")

	if rec, ok := m.Selected(); ok && m.showDetail {
		b.WriteString(detail(rec))
	} else {
		b.WriteString(StatusStyle().Render(fmt.Sprintf("%d records", len(m.records))))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// detail renders every captured field of rec on one line.
func detail(rec contact.Record) string {
	parts := []string{rec.String(), rec.JobTitle + ", " + rec.Company}
	if rec.HasPhone() {
		parts = append(parts, rec.Phone)
	}
	if rec.HasTwitter() {
		parts = append(parts, rec.Twitter)
	}
	parts = append(parts, fmt.Sprintf("line %d", rec.Line))
	return StatusStyle().Render(strings.Join(parts, " · "))
}
