package view

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dealdesk/internal/opportunity"
	"github.com/MrJamesThe3rd/dealdesk/internal/pipeline"
)

// Deals is the slice of the opportunity service the TUI drives.
type Deals interface {
	List(ctx context.Context, filter opportunity.ListFilter, page opportunity.Page, sort opportunity.Sort, actor opportunity.Actor) (*opportunity.ListResult, error)
	ChangeStage(ctx context.Context, id uuid.UUID, in opportunity.ChangeStageInput, actor opportunity.Actor) (*opportunity.Opportunity, error)
	CloseWon(ctx context.Context, id uuid.UUID, in opportunity.CloseInput, actor opportunity.Actor) (*opportunity.Opportunity, error)
	CloseLost(ctx context.Context, id uuid.UUID, in opportunity.CloseInput, actor opportunity.Actor) (*opportunity.Opportunity, error)
	Reopen(ctx context.Context, id uuid.UUID, in opportunity.ReopenInput, actor opportunity.Actor) (*opportunity.Opportunity, error)
	ForecastSummary(ctx context.Context, pipelineID *uuid.UUID, actor opportunity.Actor) ([]opportunity.ForecastRow, error)
}

type Stages interface {
	ListStages(ctx context.Context, pipelineID uuid.UUID) ([]*pipeline.Stage, error)
}

type boardState int

const (
	boardBrowse boardState = iota
	boardMove
	boardCloseWon
	boardCloseLost
	boardReopen
)

var statusFilters = []struct {
	label  string
	status *opportunity.Status
}{
	{"All", nil},
	{"Open", new(opportunity.StatusOpen)},
	{"Won", new(opportunity.StatusWon)},
	{"Lost", new(opportunity.StatusLost)},
}

// formValues is shared with the active huh form, which writes through the
// pointers it was built with.
type formValues struct {
	stageID    uuid.UUID
	note       string
	competitor string
}

type BoardModel struct {
	CommonModel
	deals  Deals
	stages Stages
	actor  opportunity.Actor

	state  boardState
	table  table.Model
	opps   []*opportunity.Opportunity
	byPipe map[uuid.UUID][]*pipeline.Stage
	total  int

	form   *huh.Form
	values *formValues

	statusIdx int
	window    CloseWindow

	loading bool
	err     error
	status  string
}

func NewBoardModel(deals Deals, stages Stages, actor opportunity.Actor) BoardModel {
	columns := []table.Column{
		{Title: "Name", Width: 28},
		{Title: "Stage", Width: 16},
		{Title: "Amount", Width: 16},
		{Title: "Prob", Width: 5},
		{Title: "Forecast", Width: 10},
		{Title: "Close", Width: 11},
		{Title: "Status", Width: 6},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return BoardModel{
		deals:   deals,
		stages:  stages,
		actor:   actor,
		table:   t,
		byPipe:  map[uuid.UUID][]*pipeline.Stage{},
		loading: true,
	}
}

func (m BoardModel) Title() string { return "Pipeline Board" }

func (m BoardModel) ShortHelp() string {
	if m.state != boardBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | s: status | d: close window | m: move | w: won | l: lost | o: reopen | r: refresh"
}

func (m BoardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadBoardMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.opps = msg.opps
		m.total = msg.total
		m.byPipe = msg.stages
		m.refreshTable()

		return m, nil

	case boardActionMsg:
		m.state = boardBrowse
		m.form = nil
		m.values = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = describeError(msg.err)
			return m, nil
		}

		m.status = msg.done

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-12, 5))

		return m, nil
	}

	if m.state == boardBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m BoardModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "s":
			m.statusIdx = (m.statusIdx + 1) % len(statusFilters)
			return m, m.loadCmd()
		case "d":
			m.window = m.window.Next()
			return m, m.loadCmd()
		case "m":
			return m.openForm(boardMove)
		case "w":
			return m.openForm(boardCloseWon)
		case "l":
			return m.openForm(boardCloseLost)
		case "o":
			return m.openForm(boardReopen)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m BoardModel) selected() *opportunity.Opportunity {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.opps) {
		return nil
	}

	return m.opps[idx]
}

func (m BoardModel) openForm(state boardState) (tea.Model, tea.Cmd) {
	o := m.selected()
	if o == nil {
		return m, nil
	}

	open := o.Status() == opportunity.StatusOpen

	switch {
	case state == boardReopen && open:
		m.status = "Only closed deals can be reopened"
		return m, nil
	case state != boardReopen && !open:
		m.status = "Deal is closed; press o to reopen it"
		return m, nil
	}

	m.values = &formValues{}

	var fields []huh.Field

	switch state {
	case boardMove, boardReopen:
		options := m.stageOptions(o)
		if len(options) == 0 {
			m.status = "No other open stage in this pipeline"
			return m, nil
		}

		m.values.stageID = options[0].Value

		title, noteTitle := "Move to", "Note"
		if state == boardReopen {
			title, noteTitle = "Reopen into", "Reason"
		}

		fields = append(fields,
			huh.NewSelect[uuid.UUID]().Title(title).Options(options...).Value(&m.values.stageID),
			huh.NewText().Title(noteTitle).Lines(3).Value(&m.values.note),
		)
	case boardCloseWon:
		fields = append(fields, huh.NewText().Title("Notes").Lines(3).Value(&m.values.note))
	case boardCloseLost:
		fields = append(fields,
			huh.NewText().Title("Notes").Lines(3).Value(&m.values.note),
			huh.NewInput().Title("Competitor").Placeholder("optional").Value(&m.values.competitor),
		)
	}

	m.form = huh.NewForm(huh.NewGroup(fields...)).WithWidth(45).WithShowHelp(false)
	m.state = state
	m.status = ""
	m.table.Blur()

	return m, m.form.Init()
}

// stageOptions lists the open stages of o's pipeline other than its current one.
func (m BoardModel) stageOptions(o *opportunity.Opportunity) []huh.Option[uuid.UUID] {
	var options []huh.Option[uuid.UUID]

	for _, s := range m.byPipe[o.PipelineID] {
		if s.Kind != pipeline.KindOpen || !s.Active || s.ID == o.StageID {
			continue
		}

		options = append(options, huh.NewOption(fmt.Sprintf("%s (%d%%)", s.Name, s.Probability), s.ID))
	}

	return options
}

func (m BoardModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = boardBrowse
		m.form = nil
		m.values = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.actionCmd()
}

func (m BoardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading deals...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf(
		"Filter: [s] Status: %s | [d] Close: %s | %d deals",
		activeStyle(statusFilters[m.statusIdx].label),
		activeStyle(m.window.String()),
		m.total,
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state != boardBrowse && m.form != nil {
		name := ""
		if o := m.selected(); o != nil {
			name = o.Name
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("%s\n\n%s\n\n%s", formTitle(m.state), name, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = statusStyle(m.status).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func formTitle(state boardState) string {
	switch state {
	case boardMove:
		return "Move Stage"
	case boardCloseWon:
		return "Close Won"
	case boardCloseLost:
		return "Close Lost"
	case boardReopen:
		return "Reopen"
	}

	return ""
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func statusStyle(s string) lipgloss.Style {
	if strings.HasPrefix(s, "Missing") || strings.HasPrefix(s, "Error") {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	}

	return lipgloss.NewStyle().Faint(true)
}

func (m *BoardModel) refreshTable() {
	names := make(map[uuid.UUID]string)
	for _, stages := range m.byPipe {
		for _, s := range stages {
			names[s.ID] = s.Name
		}
	}

	rows := make([]table.Row, 0, len(m.opps))
	for _, o := range m.opps {
		rows = append(rows, table.Row{
			o.Name,
			names[o.StageID],
			FormatAmount(o.Amount, o.Currency),
			strconv.Itoa(o.Probability) + "%",
			forecastLabel(o.ForecastCategory),
			FormatDate(o.CloseDate),
			string(o.Status()),
		})
	}

	m.table.SetRows(rows)
}

// filter builds the list filter for the current status and close window.
func (m BoardModel) filter(now time.Time) opportunity.ListFilter {
	f := opportunity.ListFilter{Status: statusFilters[m.statusIdx].status}
	f.CloseFrom, f.CloseTo = m.window.Range(now)

	return f
}

// describeError turns a service error into a one-line status message,
// listing every unmet stage requirement.
func describeError(err error) string {
	var ve *opportunity.ValidationError
	if errors.As(err, &ve) && len(ve.Unmet) > 0 {
		names := make([]string, 0, len(ve.Unmet))
		for _, f := range ve.Unmet {
			names = append(names, f.String())
		}

		return "Missing required fields: " + strings.Join(names, ", ")
	}

	return "Error: " + err.Error()
}

// Messages

type loadBoardMsg struct {
	opps   []*opportunity.Opportunity
	total  int
	stages map[uuid.UUID][]*pipeline.Stage
	err    error
}

func (m BoardModel) loadCmd() tea.Cmd {
	filter := m.filter(time.Now())
	known := m.byPipe

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		res, err := m.deals.List(ctx, filter, opportunity.Page{Number: 1, Size: opportunity.MaxPageSize},
			opportunity.Sort{Field: opportunity.SortCloseDate}, m.actor)
		if err != nil {
			return loadBoardMsg{err: err}
		}

		stages := make(map[uuid.UUID][]*pipeline.Stage, len(known))
		for id, s := range known {
			stages[id] = s
		}

		for _, o := range res.Items {
			if _, ok := stages[o.PipelineID]; ok {
				continue
			}

			list, err := m.stages.ListStages(ctx, o.PipelineID)
			if err != nil {
				return loadBoardMsg{err: err}
			}

			stages[o.PipelineID] = list
		}

		return loadBoardMsg{opps: res.Items, total: res.Total, stages: stages}
	}
}

type boardActionMsg struct {
	done string
	err  error
}

func (m BoardModel) actionCmd() tea.Cmd {
	o := m.selected()
	if o == nil || m.values == nil {
		return nil
	}

	var (
		state  = m.state
		values = *m.values
		id     = o.ID
		name   = o.Name
	)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var (
			err  error
			done string
		)

		switch state {
		case boardMove:
			_, err = m.deals.ChangeStage(ctx, id, opportunity.ChangeStageInput{StageID: values.stageID, Note: values.note}, m.actor)
			done = "Moved " + name
		case boardCloseWon:
			_, err = m.deals.CloseWon(ctx, id, opportunity.CloseInput{Notes: values.note}, m.actor)
			done = "Won " + name
		case boardCloseLost:
			_, err = m.deals.CloseLost(ctx, id, opportunity.CloseInput{Notes: values.note, Competitor: values.competitor}, m.actor)
			done = "Lost " + name
		case boardReopen:
			_, err = m.deals.Reopen(ctx, id, opportunity.ReopenInput{StageID: values.stageID, Reason: values.note}, m.actor)
			done = "Reopened " + name
		}

		return boardActionMsg{done: done, err: err}
	}
}
