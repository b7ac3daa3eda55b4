package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/MrJamesThe3rd/dealdesk/internal/forecast"
	"github.com/MrJamesThe3rd/dealdesk/internal/opportunity"
)

// ForecastModel shows open and weighted amounts per forecast category.
type ForecastModel struct {
	CommonModel
	deals Deals
	actor opportunity.Actor

	table   table.Model
	rows    []opportunity.ForecastRow
	loading bool
	err     error
}

func NewForecastModel(deals Deals, actor opportunity.Actor) ForecastModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Category", Width: 12},
			{Title: "Deals", Width: 7},
			{Title: "Amount", Width: 16},
			{Title: "Weighted", Width: 16},
		}),
		table.WithHeight(8),
	)

	return ForecastModel{deals: deals, actor: actor, table: t, loading: true}
}

func (m ForecastModel) Title() string     { return "Forecast" }
func (m ForecastModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m ForecastModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ForecastModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadForecastMsg:
		m.loading = false
		m.err = msg.err
		m.rows = msg.rows
		m.refreshTable()

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m ForecastModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading forecast...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	amount, weighted := forecastTotals(m.rows)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Forecast by category"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View()))
	b.WriteString(fmt.Sprintf("\n\nTotal %s | Weighted %s", activeStyle(amount.StringFixed(2)), activeStyle(weighted.StringFixed(2))))

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

func (m *ForecastModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.rows))
	for _, r := range m.rows {
		rows = append(rows, table.Row{
			forecastLabel(r.Category),
			strconv.Itoa(r.Count),
			r.Amount.StringFixed(2),
			r.WeightedAmount.StringFixed(2),
		})
	}

	m.table.SetRows(rows)
}

// forecastTotals sums the rows still counted towards the forecast.
func forecastTotals(rows []opportunity.ForecastRow) (amount, weighted decimal.Decimal) {
	for _, r := range rows {
		if r.Category == forecast.CategoryOmitted {
			continue
		}

		amount = amount.Add(r.Amount)
		weighted = weighted.Add(r.WeightedAmount)
	}

	return amount, weighted
}

func forecastLabel(c forecast.Category) string {
	if c == "" {
		return "-"
	}

	return cases.Title(language.English).String(strings.ReplaceAll(string(c), "_", " "))
}

type loadForecastMsg struct {
	rows []opportunity.ForecastRow
	err  error
}

func (m ForecastModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		rows, err := m.deals.ForecastSummary(ctx, nil, m.actor)

		return loadForecastMsg{rows: rows, err: err}
	}
}
