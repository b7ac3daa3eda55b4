package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/MrJamesThe3rd/dealdesk/internal/pipeline"
)

// Store reads pipeline configuration from the pipelines and pipeline_stages tables.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectStageColumns = `
	s.id, s.pipeline_id, s.name, s.slug, s.sort_order, s.probability,
	s.is_won, s.is_lost, s.is_active, s.required_fields
`

// scanStage expects the column order of selectStageColumns.
func scanStage(s scanner) (*pipeline.Stage, error) {
	var (
		st             pipeline.Stage
		slug           sql.NullString
		isWon, isLost  bool
		requiredFields []string
	)

	if err := s.Scan(
		&st.ID, &st.PipelineID, &st.Name, &slug, &st.SortOrder, &st.Probability,
		&isWon, &isLost, &st.Active, pq.Array(&requiredFields),
	); err != nil {
		return nil, err
	}

	kind, err := pipeline.KindFromFlags(isWon, isLost)
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", st.ID, err)
	}

	st.Kind = kind
	st.Slug = slug.String
	st.RequiredFields = pipeline.ParseRequiredFields(requiredFields)

	return &st, nil
}

func (s *Store) GetPipeline(ctx context.Context, id uuid.UUID) (*pipeline.Pipeline, error) {
	query := `SELECT id, name, is_default FROM pipelines WHERE id = $1`

	var p pipeline.Pipeline

	err := s.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.IsDefault)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pipeline.ErrPipelineNotFound
		}

		return nil, fmt.Errorf("getting pipeline: %w", err)
	}

	stages, err := s.listStages(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Stages = stages

	return &p, nil
}

func (s *Store) GetStage(ctx context.Context, id uuid.UUID) (*pipeline.Stage, error) {
	query := `SELECT ` + selectStageColumns + ` FROM pipeline_stages s WHERE s.id = $1`

	st, err := scanStage(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pipeline.ErrStageNotFound
		}

		return nil, fmt.Errorf("getting stage: %w", err)
	}

	return st, nil
}

// ListStages returns every stage of the pipeline, inactive ones included, in
// sort order.
func (s *Store) ListStages(ctx context.Context, pipelineID uuid.UUID) ([]*pipeline.Stage, error) {
	if err := s.pipelineExists(ctx, pipelineID); err != nil {
		return nil, err
	}

	return s.listStages(ctx, pipelineID)
}

func (s *Store) FirstOpenStage(ctx context.Context, pipelineID uuid.UUID) (*pipeline.Stage, error) {
	return s.stageOfKind(ctx, pipelineID, `NOT s.is_won AND NOT s.is_lost`)
}

func (s *Store) WonStage(ctx context.Context, pipelineID uuid.UUID) (*pipeline.Stage, error) {
	return s.stageOfKind(ctx, pipelineID, `s.is_won`)
}

func (s *Store) LostStage(ctx context.Context, pipelineID uuid.UUID) (*pipeline.Stage, error) {
	return s.stageOfKind(ctx, pipelineID, `s.is_lost`)
}

func (s *Store) stageOfKind(ctx context.Context, pipelineID uuid.UUID, predicate string) (*pipeline.Stage, error) {
	query := `SELECT ` + selectStageColumns + `
		FROM pipeline_stages s
		WHERE s.pipeline_id = $1 AND s.is_active AND ` + predicate + `
		ORDER BY s.sort_order ASC, s.name ASC
		LIMIT 1`

	st, err := scanStage(s.db.QueryRowContext(ctx, query, pipelineID))
	if err == nil {
		return st, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting stage: %w", err)
	}

	if err := s.pipelineExists(ctx, pipelineID); err != nil {
		return nil, err
	}

	return nil, pipeline.ErrStageNotFound
}

func (s *Store) pipelineExists(ctx context.Context, id uuid.UUID) error {
	var exists bool

	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM pipelines WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking pipeline: %w", err)
	}

	if !exists {
		return pipeline.ErrPipelineNotFound
	}

	return nil
}

func (s *Store) listStages(ctx context.Context, pipelineID uuid.UUID) ([]*pipeline.Stage, error) {
	query := `SELECT ` + selectStageColumns + `
		FROM pipeline_stages s
		WHERE s.pipeline_id = $1
		ORDER BY s.sort_order ASC, s.name ASC`

	rows, err := s.db.QueryContext(ctx, query, pipelineID)
	if err != nil {
		return nil, fmt.Errorf("listing stages: %w", err)
	}
	defer rows.Close()

	var stages []*pipeline.Stage

	for rows.Next() {
		st, err := scanStage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning stage: %w", err)
		}

		stages = append(stages, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stage rows: %w", err)
	}

	return stages, nil
}
