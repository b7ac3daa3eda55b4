package view

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dealdesk/internal/forecast"
	"github.com/MrJamesThe3rd/dealdesk/internal/opportunity"
	"github.com/MrJamesThe3rd/dealdesk/internal/pipeline"
)

type fakeDeals struct {
	Deals
	items  []*opportunity.Opportunity
	filter opportunity.ListFilter
}

func (f *fakeDeals) List(_ context.Context, filter opportunity.ListFilter, _ opportunity.Page, _ opportunity.Sort, _ opportunity.Actor) (*opportunity.ListResult, error) {
	f.filter = filter
	return &opportunity.ListResult{Items: f.items, Total: len(f.items)}, nil
}

type fakeStages map[uuid.UUID][]*pipeline.Stage

func (f fakeStages) ListStages(_ context.Context, id uuid.UUID) ([]*pipeline.Stage, error) {
	return f[id], nil
}

func TestDescribeError(t *testing.T) {
	err := &opportunity.ValidationError{Unmet: []pipeline.RequiredField{
		pipeline.Single("budget"),
		pipeline.AnyOf("decision_maker", "champion"),
	}}

	assert.Equal(t, "Missing required fields: budget, any of (decision_maker, champion)", describeError(err))
	assert.Equal(t, "Error: boom", describeError(errors.New("boom")))
}

func TestCloseWindow_Range(t *testing.T) {
	now := time.Date(2026, 5, 14, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		window   CloseWindow
		wantFrom string
		wantTo   string
	}{
		{WindowThisMonth, "2026-05-01", "2026-05-31"},
		{WindowNextMonth, "2026-06-01", "2026-06-30"},
		{WindowThisQuarter, "2026-04-01", "2026-06-30"},
		{WindowOverdue, "-", "2026-05-13"},
		{WindowAll, "-", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.window.String(), func(t *testing.T) {
			from, to := tt.window.Range(now)

			assert.Equal(t, tt.wantFrom, FormatDate(from))
			assert.Equal(t, tt.wantTo, FormatDate(to))
		})
	}

	assert.Equal(t, WindowAll, WindowOverdue.Next())
}

func TestForecastTotals(t *testing.T) {
	rows := []opportunity.ForecastRow{
		{Category: forecast.CategoryCommit, Amount: decimal.NewFromInt(1000), WeightedAmount: decimal.NewFromInt(900)},
		{Category: forecast.CategoryPipeline, Amount: decimal.NewFromInt(500), WeightedAmount: decimal.NewFromInt(50)},
		{Category: forecast.CategoryOmitted, Amount: decimal.NewFromInt(700), WeightedAmount: decimal.Zero},
	}

	amount, weighted := forecastTotals(rows)

	assert.Equal(t, "1500", amount.String())
	assert.Equal(t, "950", weighted.String())
	assert.Equal(t, "Best Case", forecastLabel(forecast.CategoryBestCase))
}

func TestBoardModel_LoadAndGuards(t *testing.T) {
	pipelineID := uuid.New()
	qualified := &pipeline.Stage{ID: uuid.New(), PipelineID: pipelineID, Name: "Qualified", Probability: 25, Kind: pipeline.KindOpen, Active: true}
	proposal := &pipeline.Stage{ID: uuid.New(), PipelineID: pipelineID, Name: "Proposal", Probability: 60, Kind: pipeline.KindOpen, Active: true}
	won := &pipeline.Stage{ID: uuid.New(), PipelineID: pipelineID, Name: "Won", Probability: 100, Kind: pipeline.KindWon, Active: true}

	deals := &fakeDeals{items: []*opportunity.Opportunity{
		{ID: uuid.New(), Name: "Acme renewal", PipelineID: pipelineID, StageID: qualified.ID, Amount: decimal.NewFromInt(1200), Currency: "EUR"},
		{ID: uuid.New(), Name: "Globex", PipelineID: pipelineID, StageID: won.ID, WonAt: new(time.Now())},
	}}
	stages := fakeStages{pipelineID: {qualified, proposal, won}}

	m := NewBoardModel(deals, stages, opportunity.Actor{ID: uuid.New()})

	msg := m.Init()()
	model, _ := m.Update(msg)
	m = model.(BoardModel)

	require.Len(t, m.opps, 2)
	assert.Equal(t, "Qualified", m.table.Rows()[0][1])
	assert.Equal(t, "1200.00 EUR", m.table.Rows()[0][2])

	options := m.stageOptions(m.opps[0])
	require.Len(t, options, 1)
	assert.Equal(t, proposal.ID, options[0].Value)

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	m = model.(BoardModel)
	assert.Equal(t, "Only closed deals can be reopened", m.status)
	assert.Equal(t, boardBrowse, m.state)

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	m = model.(BoardModel)
	assert.Equal(t, boardMove, m.state)
	require.NotNil(t, m.values)
	assert.Equal(t, proposal.ID, m.values.stageID)

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = model.(BoardModel)
	assert.Equal(t, boardBrowse, m.state)

	model, _ = m.Update(boardActionMsg{err: &opportunity.ValidationError{Unmet: []pipeline.RequiredField{pipeline.Single("budget")}}})
	m = model.(BoardModel)
	assert.Equal(t, "Missing required fields: budget", m.status)
}

func TestBoardModel_StatusFilter(t *testing.T) {
	deals := &fakeDeals{}
	m := NewBoardModel(deals, fakeStages{}, opportunity.Actor{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	require.NotNil(t, cmd)
	cmd()

	require.NotNil(t, deals.filter.Status)
	assert.Equal(t, opportunity.StatusOpen, *deals.filter.Status)
}
