// Package opportunity implements the deal lifecycle: stage transitions with
// required-field gating, won/lost/reopen, line item pricing, contact roles
// and duplicate screening. Every mutation runs in one transaction holding a
// row lock on the opportunity; audit and activity records are dispatched
// after commit.
package opportunity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/dealdesk/internal/catalog"
	"github.com/MrJamesThe3rd/dealdesk/internal/forecast"
	"github.com/MrJamesThe3rd/dealdesk/internal/pipeline"
	"github.com/MrJamesThe3rd/dealdesk/internal/pricing"
	"github.com/MrJamesThe3rd/dealdesk/internal/sideeffect"
)

const entityType = "opportunity"

// Recorder receives operation metrics.
type Recorder interface {
	IncrTransition(kind string)
	RecordOperation(operation string, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) IncrTransition(string)                  {}
func (nopRecorder) RecordOperation(string, time.Duration) {}

type Service struct {
	repo     Repository
	stages   pipeline.Directory
	products catalog.Catalog
	effects  *sideeffect.Dispatcher
	metrics  Recorder
	logger   *zap.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithMetrics(m Recorder) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(repo Repository, stages pipeline.Directory, products catalog.Catalog, effects *sideeffect.Dispatcher, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		stages:   stages,
		products: products,
		effects:  effects,
		metrics:  nopRecorder{},
		logger:   logger,
		tracer:   otel.Tracer("opportunity"),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// span starts a trace span and returns a function that ends it, recording
// the error and the operation duration.
func (s *Service) span(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(*error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "opportunity.Service."+op, trace.WithAttributes(attrs...))

	return ctx, func(errp *error) {
		if errp != nil && *errp != nil {
			span.RecordError(*errp)
			span.SetStatus(codes.Error, (*errp).Error())
		}

		span.End()
		s.metrics.RecordOperation(op, time.Since(start))
	}
}

// mutation is the body of a locked read-modify-write on one opportunity.
type mutation func(ctx context.Context, tx Tx, o *Opportunity, q *sideeffect.Queue) error

// mutate locks the opportunity, runs fn, commits and then flushes the side
// effects fn queued.
func (s *Service) mutate(ctx context.Context, id uuid.UUID, actor Actor, fn mutation) (*Opportunity, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	o, err := tx.LockOpportunity(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.canSee(o) {
		return nil, notFound(entityType, id)
	}

	var q sideeffect.Queue
	if err := fn(ctx, tx, o, &q); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	s.effects.Flush(context.WithoutCancel(ctx), &q)

	return o, nil
}

type CreateParams struct {
	Name             string
	PipelineID       uuid.UUID
	StageID          *uuid.UUID
	Amount           decimal.Decimal
	Currency         string
	CloseDate        *time.Time
	Probability      *int
	ForecastCategory *forecast.Category
	OwnerID          *uuid.UUID
	AccountID        *uuid.UUID
	Priority         Priority
	Type             string
	Source           string
	Description      string
	Tags             []string
	CustomFields     CustomFields
}

func (p CreateParams) validate() error {
	ve := &ValidationError{}

	if strings.TrimSpace(p.Name) == "" {
		ve.add("name", "is required")
	}

	if p.PipelineID == uuid.Nil {
		ve.add("pipeline_id", "is required")
	}

	if p.Amount.IsNegative() {
		ve.add("amount", "must not be negative")
	}

	if p.Currency != "" && len(p.Currency) != 3 {
		ve.add("currency", "must be a three letter code")
	}

	if p.Probability != nil {
		validateProbability(ve, *p.Probability)
	}

	if p.ForecastCategory != nil && !p.ForecastCategory.Valid() {
		ve.add("forecast_category", "unknown category")
	}

	if p.Priority != "" && !p.Priority.Valid() {
		ve.add("priority", "must be one of low, medium, high, urgent")
	}

	if err := p.CustomFields.Validate(); err != nil {
		ve.add("custom_fields", err.Error())
	}

	return ve.orNil()
}

// Create opens a new opportunity in the requested stage, or in the pipeline's
// first open stage.
func (s *Service) Create(ctx context.Context, params CreateParams, actor Actor) (_ *Opportunity, err error) {
	ctx, end := s.span(ctx, "Create", attribute.String("pipeline.id", params.PipelineID.String()))
	defer end(&err)

	if err := params.validate(); err != nil {
		return nil, err
	}

	stage, err := s.initialStage(ctx, params)
	if err != nil {
		return nil, err
	}

	now := s.now()

	probability := stage.Probability
	if params.Probability != nil {
		probability = *params.Probability
	}

	category := forecast.Categorize(probability)
	if params.ForecastCategory != nil {
		category = *params.ForecastCategory
	}

	ownerID := params.OwnerID
	if ownerID == nil {
		ownerID = new(actor.ID)
	}

	currency := strings.ToUpper(params.Currency)
	if currency == "" {
		currency = "USD"
	}

	priority := params.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	o := &Opportunity{
		ID:               uuid.New(),
		Name:             strings.TrimSpace(params.Name),
		PipelineID:       params.PipelineID,
		StageID:          stage.ID,
		Amount:           params.Amount,
		Currency:         currency,
		CloseDate:        params.CloseDate,
		Probability:      probability,
		ForecastCategory: category,
		OwnerID:          ownerID,
		AccountID:        params.AccountID,
		Priority:         priority,
		Type:             params.Type,
		Source:           params.Source,
		Description:      params.Description,
		Tags:             normalizeTags(params.Tags),
		CustomFields:     CustomFields{}.Merge(params.CustomFields),
		StageEnteredAt:   new(now),
		CreatedBy:        new(actor.ID),
		CreatedAt:        now,
	}

	if !actor.canSee(o) {
		return nil, fieldError("owner_id", "outside of your record scope")
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := tx.CreateOpportunity(ctx, o); err != nil {
		return nil, fmt.Errorf("creating opportunity: %w", err)
	}

	entry := &StageHistoryEntry{
		ID:            uuid.New(),
		OpportunityID: o.ID,
		ToStageID:     stage.ID,
		ToStageName:   stage.Name,
		ChangedBy:     actor.ID,
		Note:          "Opportunity created",
		CreatedAt:     now,
	}

	if err := tx.InsertStageHistory(ctx, entry); err != nil {
		return nil, fmt.Errorf("recording stage history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	var q sideeffect.Queue
	q.Audit(sideeffect.AuditEntry{
		EntityType: entityType,
		EntityID:   o.ID,
		Action:     "create",
		NewValues:  o.snapshot(),
		ChangedBy:  actor.ID,
	})
	q.Activity(sideeffect.Activity{
		EntityType:   entityType,
		EntityID:     o.ID,
		ActivityType: "opportunity_created",
		Title:        "Opportunity created: " + o.Name,
		Metadata:     map[string]any{"stage": stage.Name},
		PerformedBy:  actor.ID,
	})
	s.effects.Flush(context.WithoutCancel(ctx), &q)

	return o, nil
}

func (s *Service) initialStage(ctx context.Context, params CreateParams) (*pipeline.Stage, error) {
	if _, err := s.stages.GetPipeline(ctx, params.PipelineID); err != nil {
		return nil, s.directoryError(err, "pipeline", params.PipelineID)
	}

	if params.StageID == nil {
		stage, err := s.stages.FirstOpenStage(ctx, params.PipelineID)
		if errors.Is(err, pipeline.ErrStageNotFound) {
			return nil, invalidState("create", "pipeline has no open stage")
		}

		if err != nil {
			return nil, s.directoryError(err, "pipeline", params.PipelineID)
		}

		return stage, nil
	}

	stage, err := s.stages.GetStage(ctx, *params.StageID)
	if err != nil {
		return nil, s.directoryError(err, "stage", *params.StageID)
	}

	if !stage.Active {
		return nil, notFound("stage", stage.ID)
	}

	if stage.PipelineID != params.PipelineID {
		return nil, fieldError("stage_id", "stage belongs to a different pipeline")
	}

	if stage.Kind.Terminal() {
		return nil, invalidState("create", "opportunities are created in an open stage")
	}

	return stage, nil
}

// directoryError translates directory lookup failures.
func (s *Service) directoryError(err error, resource string, id uuid.UUID) error {
	switch {
	case errors.Is(err, pipeline.ErrStageNotFound):
		return notFound("stage", id)
	case errors.Is(err, pipeline.ErrPipelineNotFound):
		return notFound("pipeline", id)
	default:
		return fmt.Errorf("looking up %s %s: %w", resource, id, err)
	}
}

// List returns one page of opportunities visible to actor.
func (s *Service) List(ctx context.Context, filter ListFilter, page Page, sort Sort, actor Actor) (_ *ListResult, err error) {
	ctx, end := s.span(ctx, "List")
	defer end(&err)

	if filter.Status != nil && !filter.Status.Valid() {
		return nil, fieldError("status", "must be one of open, won, lost")
	}

	if filter.ForecastCategory != nil && !filter.ForecastCategory.Valid() {
		return nil, fieldError("forecast_category", "unknown category")
	}

	if sort.Field == "" {
		sort = Sort{Field: SortCreatedAt, Desc: true}
	}

	if !sort.Field.Valid() {
		return nil, fieldError("sort", "must be one of name, amount, close_date, created_at, updated_at")
	}

	page = page.Normalize()
	filter.OwnerIDs = actor.VisibleOwners

	items, total, err := s.repo.ListOpportunities(ctx, filter, page, sort)
	if err != nil {
		return nil, fmt.Errorf("listing opportunities: %w", err)
	}

	return &ListResult{Items: items, Total: total, Page: page.Number, PageSize: page.Size}, nil
}

// visible loads an opportunity for reading, hiding those outside actor's scope.
func (s *Service) visible(ctx context.Context, id uuid.UUID, actor Actor) (*Opportunity, error) {
	o, err := s.repo.GetOpportunity(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.canSee(o) {
		return nil, notFound(entityType, id)
	}

	return o, nil
}

// Get assembles the detail view. The related collections are loaded concurrently.
func (s *Service) Get(ctx context.Context, id uuid.UUID, actor Actor) (_ *Detail, err error) {
	ctx, end := s.span(ctx, "Get", attribute.String("opportunity.id", id.String()))
	defer end(&err)

	o, err := s.visible(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	d := &Detail{Opportunity: o}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stage, err := s.stages.GetStage(gctx, o.StageID)
		if err != nil && !errors.Is(err, pipeline.ErrStageNotFound) {
			return fmt.Errorf("loading stage: %w", err)
		}

		d.Stage = stage

		return nil
	})
	g.Go(func() error {
		names, err := s.repo.LookupNames(gctx, o)
		if err != nil {
			return fmt.Errorf("loading names: %w", err)
		}

		d.Names = names

		return nil
	})
	g.Go(func() error {
		team, err := s.repo.ListTeam(gctx, id)
		if err != nil {
			return fmt.Errorf("loading team: %w", err)
		}

		d.Team = team

		return nil
	})
	g.Go(func() error {
		history, err := s.repo.ListStageHistory(gctx, id)
		if err != nil {
			return fmt.Errorf("loading stage history: %w", err)
		}

		d.History = history

		return nil
	})
	g.Go(func() error {
		items, err := s.repo.ListLineItems(gctx, id)
		if err != nil {
			return fmt.Errorf("loading line items: %w", err)
		}

		d.LineItems = items
		d.LineSummary = pricing.Summarize(items)

		return nil
	})
	g.Go(func() error {
		roles, err := s.repo.ListContactRoles(gctx, id)
		if err != nil {
			return fmt.Errorf("loading contact roles: %w", err)
		}

		d.ContactRoles = roles

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return d, nil
}

// Update applies a partial update. Probability and forecast cannot change on
// a closed deal; a probability change without a forecast override re-derives
// the forecast category.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch Patch, actor Actor) (_ *Opportunity, err error) {
	ctx, end := s.span(ctx, "Update", attribute.String("opportunity.id", id.String()))
	defer end(&err)

	ve := &ValidationError{}
	patch.validate(ve)

	if err := ve.orNil(); err != nil {
		return nil, err
	}

	return s.mutate(ctx, id, actor, func(ctx context.Context, tx Tx, o *Opportunity, q *sideeffect.Queue) error {
		if o.Status() != StatusOpen && patch.touchesForecast() {
			return invalidState("update", "probability and forecast of a closed opportunity are fixed; reopen it first")
		}

		before := o.snapshot()
		next := o.Clone()
		patch.apply(next)

		if patch.Probability != nil {
			next.Probability = *patch.Probability
			next.ForecastCategory = forecast.Categorize(next.Probability)
		}

		if patch.ForecastCategory != nil {
			next.ForecastCategory = *patch.ForecastCategory
		}

		if !actor.canSee(next) {
			return fieldError("owner_id", "outside of your record scope")
		}

		if err := tx.UpdateOpportunity(ctx, next); err != nil {
			return fmt.Errorf("updating opportunity: %w", err)
		}

		*o = *next

		prev, changed := diff(before, o.snapshot())
		q.Audit(sideeffect.AuditEntry{
			EntityType:     entityType,
			EntityID:       o.ID,
			Action:         "update",
			PreviousValues: prev,
			NewValues:      changed,
			ChangedBy:      actor.ID,
		})

		return nil
	})
}

// SoftDelete marks the opportunity deleted. Deleted opportunities are
// invisible to every other operation.
func (s *Service) SoftDelete(ctx context.Context, id uuid.UUID, actor Actor) (err error) {
	ctx, end := s.span(ctx, "SoftDelete", attribute.String("opportunity.id", id.String()))
	defer end(&err)

	_, err = s.mutate(ctx, id, actor, func(ctx context.Context, tx Tx, o *Opportunity, q *sideeffect.Queue) error {
		if err := tx.SoftDeleteOpportunity(ctx, o.ID); err != nil {
			return fmt.Errorf("deleting opportunity: %w", err)
		}

		q.Audit(sideeffect.AuditEntry{
			EntityType:     entityType,
			EntityID:       o.ID,
			Action:         "delete",
			PreviousValues: o.snapshot(),
			ChangedBy:      actor.ID,
		})

		return nil
	})

	return err
}

// ChangeStage moves an open opportunity to another open stage of its pipeline.
func (s *Service) ChangeStage(ctx context.Context, id uuid.UUID, in ChangeStageInput, actor Actor) (_ *Opportunity, err error) {
	ctx, end := s.span(ctx, "ChangeStage",
		attribute.String("opportunity.id", id.String()),
		attribute.String("stage.id", in.StageID.String()),
	)
	defer end(&err)

	target, err := s.lookupStage(ctx, in.StageID)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, id, actor, "change", func(o *Opportunity) (*StageHistoryEntry, error) {
		return ChangeStage(o, target, in, actor.ID, s.now())
	})
}

// CloseWon moves the opportunity into its pipeline's won stage.
func (s *Service) CloseWon(ctx context.Context, id uuid.UUID, in CloseInput, actor Actor) (_ *Opportunity, err error) {
	ctx, end := s.span(ctx, "CloseWon", attribute.String("opportunity.id", id.String()))
	defer end(&err)

	return s.transition(ctx, id, actor, "won", func(o *Opportunity) (*StageHistoryEntry, error) {
		won, err := s.terminalStage(ctx, o, s.stages.WonStage)
		if err != nil {
			return nil, err
		}

		return CloseWon(o, won, in, actor.ID, s.now())
	})
}

// CloseLost moves the opportunity into its pipeline's lost stage.
func (s *Service) CloseLost(ctx context.Context, id uuid.UUID, in CloseInput, actor Actor) (_ *Opportunity, err error) {
	ctx, end := s.span(ctx, "CloseLost", attribute.String("opportunity.id", id.String()))
	defer end(&err)

	return s.transition(ctx, id, actor, "lost", func(o *Opportunity) (*StageHistoryEntry, error) {
		lost, err := s.terminalStage(ctx, o, s.stages.LostStage)
		if err != nil {
			return nil, err
		}

		return CloseLost(o, lost, in, actor.ID, s.now())
	})
}

// Reopen returns a closed opportunity to an open stage.
func (s *Service) Reopen(ctx context.Context, id uuid.UUID, in ReopenInput, actor Actor) (_ *Opportunity, err error) {
	ctx, end := s.span(ctx, "Reopen",
		attribute.String("opportunity.id", id.String()),
		attribute.String("stage.id", in.StageID.String()),
	)
	defer end(&err)

	target, err := s.lookupStage(ctx, in.StageID)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, id, actor, "reopen", func(o *Opportunity) (*StageHistoryEntry, error) {
		return Reopen(o, target, in, actor.ID, s.now())
	})
}

// lookupStage returns nil, without error, for a stage that does not exist so
// that the transition engine reports it after the lifecycle checks.
func (s *Service) lookupStage(ctx context.Context, id uuid.UUID) (*pipeline.Stage, error) {
	stage, err := s.stages.GetStage(ctx, id)
	if errors.Is(err, pipeline.ErrStageNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("looking up stage %s: %w", id, err)
	}

	return stage, nil
}

// terminalStage returns nil, without error, when the pipeline has no stage of
// the requested kind.
func (s *Service) terminalStage(ctx context.Context, o *Opportunity, find func(context.Context, uuid.UUID) (*pipeline.Stage, error)) (*pipeline.Stage, error) {
	stage, err := find(ctx, o.PipelineID)
	if errors.Is(err, pipeline.ErrStageNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, s.directoryError(err, "pipeline", o.PipelineID)
	}

	return stage, nil
}

// transition runs a stage transition engine call inside a locked mutation and
// persists the resulting history entry and opportunity state together.
func (s *Service) transition(ctx context.Context, id uuid.UUID, actor Actor, kind string, apply func(o *Opportunity) (*StageHistoryEntry, error)) (*Opportunity, error) {
	var fromStageID uuid.UUID

	o, err := s.mutate(ctx, id, actor, func(ctx context.Context, tx Tx, o *Opportunity, q *sideeffect.Queue) error {
		before := o.snapshot()
		fromStageID = o.StageID

		entry, err := apply(o)
		if err != nil {
			return err
		}

		if err := tx.InsertStageHistory(ctx, entry); err != nil {
			return fmt.Errorf("recording stage history: %w", err)
		}

		if err := tx.UpdateOpportunity(ctx, o); err != nil {
			return fmt.Errorf("updating opportunity: %w", err)
		}

		q.Audit(sideeffect.AuditEntry{
			EntityType:     entityType,
			EntityID:       o.ID,
			Action:         transitionActions[kind],
			PreviousValues: before,
			NewValues:      o.snapshot(),
			ChangedBy:      actor.ID,
		})
		q.Activity(sideeffect.Activity{
			EntityType:   entityType,
			EntityID:     o.ID,
			ActivityType: transitionActivities[kind],
			Title:        transitionTitle(kind, o.Name, entry.ToStageName),
			Description:  entry.Note,
			Metadata: map[string]any{
				"from_stage_id": fromStageID.String(),
				"to_stage_id":   entry.ToStageID.String(),
			},
			PerformedBy: actor.ID,
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrTransition(kind)
	s.logger.Info("opportunity stage transition",
		zap.String("kind", kind),
		zap.Stringer("opportunity_id", o.ID),
		zap.Stringer("from_stage_id", fromStageID),
		zap.Stringer("to_stage_id", o.StageID),
		zap.Stringer("actor_id", actor.ID),
	)

	return o, nil
}

var transitionActions = map[string]string{
	"change": "stage_change",
	"won":    "close_won",
	"lost":   "close_lost",
	"reopen": "reopen",
}

var transitionActivities = map[string]string{
	"change": "stage_changed",
	"won":    "deal_won",
	"lost":   "deal_lost",
	"reopen": "deal_reopened",
}

func transitionTitle(kind, name, stage string) string {
	switch kind {
	case "won":
		return "Deal won: " + name
	case "lost":
		return "Deal lost: " + name
	case "reopen":
		return fmt.Sprintf("Deal reopened in %s: %s", stage, name)
	default:
		return fmt.Sprintf("Moved to %s: %s", stage, name)
	}
}

// StageHistory returns the opportunity's transitions, oldest first.
func (s *Service) StageHistory(ctx context.Context, id uuid.UUID, actor Actor) (_ []*StageHistoryEntry, err error) {
	ctx, end := s.span(ctx, "StageHistory", attribute.String("opportunity.id", id.String()))
	defer end(&err)

	if _, err := s.visible(ctx, id, actor); err != nil {
		return nil, err
	}

	history, err := s.repo.ListStageHistory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing stage history: %w", err)
	}

	return history, nil
}

// ForecastSummary rolls up non-lost opportunities per forecast category. Every
// category is present in the result, in table order.
func (s *Service) ForecastSummary(ctx context.Context, pipelineID *uuid.UUID, actor Actor) (_ []ForecastRow, err error) {
	ctx, end := s.span(ctx, "ForecastSummary")
	defer end(&err)

	rows, err := s.repo.ForecastSummary(ctx, ForecastFilter{PipelineID: pipelineID, OwnerIDs: actor.VisibleOwners})
	if err != nil {
		return nil, fmt.Errorf("summarizing forecast: %w", err)
	}

	byCategory := make(map[forecast.Category]ForecastRow, len(rows))
	for _, r := range rows {
		byCategory[r.Category] = r
	}

	out := make([]ForecastRow, 0, len(forecast.All()))

	for _, c := range forecast.All() {
		r, ok := byCategory[c]
		if !ok {
			r = ForecastRow{Category: c, Amount: decimal.Zero, WeightedAmount: decimal.Zero}
		}

		out = append(out, r)
	}

	return out, nil
}

// diff returns the before and after values of the keys that changed.
func diff(before, after map[string]any) (prev, next map[string]any) {
	prev = make(map[string]any)
	next = make(map[string]any)

	for k, v := range after {
		if before[k] != v {
			prev[k] = before[k]
			next[k] = v
		}
	}

	return prev, next
}
