package pipeline

import (
	"context"

	"github.com/google/uuid"
)

// Directory is the read-only view of pipeline configuration used by the
// opportunity core. Lookups return ErrStageNotFound or ErrPipelineNotFound.
//
//go:generate mockgen -source=directory.go -destination=directory_mock.go -package=pipeline
type Directory interface {
	GetPipeline(ctx context.Context, id uuid.UUID) (*Pipeline, error)
	GetStage(ctx context.Context, id uuid.UUID) (*Stage, error)
	FirstOpenStage(ctx context.Context, pipelineID uuid.UUID) (*Stage, error)
	WonStage(ctx context.Context, pipelineID uuid.UUID) (*Stage, error)
	LostStage(ctx context.Context, pipelineID uuid.UUID) (*Stage, error)
	ListStages(ctx context.Context, pipelineID uuid.UUID) ([]*Stage, error)
}
