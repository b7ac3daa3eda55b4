// Package pipeline describes the configurable pipelines and stages that
// opportunities move through, and the Directory contract used to read them.
package pipeline

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

var (
	ErrStageNotFound    = errors.New("stage not found")
	ErrPipelineNotFound = errors.New("pipeline not found")
	ErrAmbiguousStage   = errors.New("stage is flagged both won and lost")
)

// Kind is the terminal classification of a stage.
type Kind string

const (
	KindOpen Kind = "open"
	KindWon  Kind = "won"
	KindLost Kind = "lost"
)

// KindFromFlags converts the is_won/is_lost pair used by storage into a Kind.
// A stage flagged neither is open; flagged both is rejected.
func KindFromFlags(isWon, isLost bool) (Kind, error) {
	switch {
	case isWon && isLost:
		return "", ErrAmbiguousStage
	case isWon:
		return KindWon, nil
	case isLost:
		return KindLost, nil
	default:
		return KindOpen, nil
	}
}

// Flags is the inverse of KindFromFlags.
func (k Kind) Flags() (isWon, isLost bool) {
	return k == KindWon, k == KindLost
}

func (k Kind) Terminal() bool {
	return k == KindWon || k == KindLost
}

type Stage struct {
	ID             uuid.UUID
	PipelineID     uuid.UUID
	Name           string
	Slug           string
	SortOrder      int
	Probability    int
	Kind           Kind
	Active         bool
	RequiredFields []RequiredField
}

type Pipeline struct {
	ID        uuid.UUID
	Name      string
	IsDefault bool
	Stages    []*Stage
}

// Validate checks the invariants every directory adapter relies on.
func (s *Stage) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("stage %s: name is required", s.ID)
	}

	if s.Probability < 0 || s.Probability > 100 {
		return fmt.Errorf("stage %q: probability %d out of range", s.Name, s.Probability)
	}

	switch s.Kind {
	case KindOpen, KindWon, KindLost:
	default:
		return fmt.Errorf("stage %q: unknown kind %q", s.Name, s.Kind)
	}

	return nil
}

// SortStages orders stages by sort order, then name.
func SortStages(stages []*Stage) {
	slices.SortStableFunc(stages, func(a, b *Stage) int {
		if a.SortOrder != b.SortOrder {
			return a.SortOrder - b.SortOrder
		}

		if a.Name < b.Name {
			return -1
		}

		if a.Name > b.Name {
			return 1
		}

		return 0
	})
}

// FirstOfKind returns the first active stage of the given kind. stages must
// already be sorted, so for KindOpen this is the pipeline's entry stage.
func FirstOfKind(stages []*Stage, kind Kind) (*Stage, bool) {
	for _, s := range stages {
		if s.Active && s.Kind == kind {
			return s, true
		}
	}

	return nil, false
}
