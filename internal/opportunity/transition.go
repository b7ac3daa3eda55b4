package opportunity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/forecast"
	"github.com/MrJamesThe3rd/dealdesk/internal/pipeline"
)

// ChangeStageInput moves an open opportunity to another open stage. Fields
// are applied before the target's requirements are checked, so a caller can
// supply missing values in the same call.
type ChangeStageInput struct {
	StageID          uuid.UUID
	Fields           Patch
	Probability      *int
	ForecastCategory *forecast.Category
	Note             string
}

type CloseInput struct {
	ReasonID    *uuid.UUID
	FinalAmount *decimal.Decimal
	CloseDate   *time.Time
	Notes       string
	Competitor  string
}

type ReopenInput struct {
	StageID     uuid.UUID
	Reason      string
	Probability *int
}

// ChangeStage applies a stage change to o. o is left untouched on error.
func ChangeStage(o *Opportunity, target *pipeline.Stage, in ChangeStageInput, actor uuid.UUID, now time.Time) (*StageHistoryEntry, error) {
	const op = "change_stage"

	switch o.Status() {
	case StatusWon, StatusLost:
		return nil, invalidState(op, "opportunity is closed; reopen it first")
	}

	if err := checkTarget(o, target, in.StageID); err != nil {
		return nil, err
	}

	if target.Kind.Terminal() {
		return nil, invalidState(op, "target stage is terminal; use close won or close lost")
	}

	if target.ID == o.StageID {
		return nil, invalidState(op, "opportunity is already in this stage")
	}

	ve := &ValidationError{}
	in.Fields.validate(ve)

	if in.Probability != nil {
		validateProbability(ve, *in.Probability)
	}

	if in.ForecastCategory != nil && !in.ForecastCategory.Valid() {
		ve.add("forecast_category", "unknown category")
	}

	if err := ve.orNil(); err != nil {
		return nil, err
	}

	next := o.Clone()
	in.Fields.apply(next)

	if unmet := pipeline.Unmet(target.RequiredFields, next.HasValue); len(unmet) > 0 {
		return nil, &ValidationError{Unmet: unmet}
	}

	probability := target.Probability

	switch {
	case in.Probability != nil:
		probability = *in.Probability
	case in.Fields.Probability != nil:
		probability = *in.Fields.Probability
	}

	category := forecast.Categorize(probability)

	switch {
	case in.ForecastCategory != nil:
		category = *in.ForecastCategory
	case in.Fields.ForecastCategory != nil:
		category = *in.Fields.ForecastCategory
	}

	entry := enterStage(next, target, actor, in.Note, now)
	next.Probability = probability
	next.ForecastCategory = category

	*o = *next

	return entry, nil
}

// CloseWon moves o to the pipeline's won stage. won is nil when the pipeline
// has none.
func CloseWon(o *Opportunity, won *pipeline.Stage, in CloseInput, actor uuid.UUID, now time.Time) (*StageHistoryEntry, error) {
	const op = "close_won"

	switch o.Status() {
	case StatusWon:
		return nil, invalidState(op, "opportunity is already won")
	case StatusLost:
		return nil, invalidState(op, "opportunity is lost; reopen it first")
	}

	if won == nil {
		return nil, invalidState(op, "pipeline has no won stage")
	}

	if err := validateClose(in); err != nil {
		return nil, err
	}

	note := in.Notes
	if note == "" {
		note = "Closed won"
	}

	entry := enterStage(o, won, actor, note, now)
	applyClose(o, in, now)

	o.Probability = 100
	o.ForecastCategory = forecast.CategoryClosed
	o.WonAt = new(now)
	o.LostAt = nil

	return entry, nil
}

// CloseLost moves o to the pipeline's lost stage. lost is nil when the
// pipeline has none.
func CloseLost(o *Opportunity, lost *pipeline.Stage, in CloseInput, actor uuid.UUID, now time.Time) (*StageHistoryEntry, error) {
	const op = "close_lost"

	switch o.Status() {
	case StatusLost:
		return nil, invalidState(op, "opportunity is already lost")
	case StatusWon:
		return nil, invalidState(op, "opportunity is won; reopen it first")
	}

	if lost == nil {
		return nil, invalidState(op, "pipeline has no lost stage")
	}

	if err := validateClose(in); err != nil {
		return nil, err
	}

	note := in.Notes
	if note == "" {
		note = "Closed lost"
	}

	entry := enterStage(o, lost, actor, note, now)
	applyClose(o, in, now)

	o.Probability = 0
	o.ForecastCategory = forecast.CategoryOmitted
	o.LostAt = new(now)
	o.WonAt = nil

	return entry, nil
}

// Reopen returns a won or lost opportunity to an open stage.
func Reopen(o *Opportunity, target *pipeline.Stage, in ReopenInput, actor uuid.UUID, now time.Time) (*StageHistoryEntry, error) {
	const op = "reopen"

	if o.Status() == StatusOpen {
		return nil, invalidState(op, "opportunity is not closed")
	}

	if err := checkTarget(o, target, in.StageID); err != nil {
		return nil, err
	}

	if target.Kind.Terminal() {
		return nil, invalidState(op, "target stage must be an open stage")
	}

	probability := target.Probability

	if in.Probability != nil {
		ve := &ValidationError{}
		validateProbability(ve, *in.Probability)

		if err := ve.orNil(); err != nil {
			return nil, err
		}

		probability = *in.Probability
	}

	entry := enterStage(o, target, actor, in.Reason, now)

	o.WonAt = nil
	o.LostAt = nil
	o.CloseReasonID = nil
	o.CloseNotes = ""
	o.Probability = probability
	o.ForecastCategory = forecast.Categorize(probability)

	return entry, nil
}

// checkTarget verifies the target stage exists, is active and belongs to o's pipeline.
func checkTarget(o *Opportunity, target *pipeline.Stage, id uuid.UUID) error {
	if target == nil || !target.Active {
		return notFound("stage", id)
	}

	if target.PipelineID != o.PipelineID {
		return fieldError("stage_id", "stage belongs to a different pipeline")
	}

	return nil
}

func validateClose(in CloseInput) error {
	if in.FinalAmount != nil && in.FinalAmount.IsNegative() {
		return fieldError("final_amount", "must not be negative")
	}

	return nil
}

func applyClose(o *Opportunity, in CloseInput, now time.Time) {
	if in.FinalAmount != nil {
		o.Amount = *in.FinalAmount
	}

	closeDate := truncateDay(now)
	if in.CloseDate != nil {
		closeDate = *in.CloseDate
	}

	o.CloseDate = &closeDate
	o.CloseReasonID = in.ReasonID
	o.CloseNotes = in.Notes

	if in.Competitor != "" {
		o.Competitor = in.Competitor
	}
}

// enterStage records the transition from o's current stage to target and
// moves o into it.
func enterStage(o *Opportunity, target *pipeline.Stage, actor uuid.UUID, note string, now time.Time) *StageHistoryEntry {
	entry := &StageHistoryEntry{
		ID:            uuid.New(),
		OpportunityID: o.ID,
		FromStageID:   new(o.StageID),
		ToStageID:     target.ID,
		ToStageName:   target.Name,
		ChangedBy:     actor,
		Note:          note,
		CreatedAt:     now,
	}

	if o.StageEnteredAt != nil {
		entry.TimeInStage = new(now.Sub(*o.StageEnteredAt))
	}

	o.StageID = target.ID
	o.StageEnteredAt = new(now)

	return entry
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
