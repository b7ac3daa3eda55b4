package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type fileDoc struct {
	Pipelines []filePipeline `yaml:"pipelines"`
}

type filePipeline struct {
	ID        uuid.UUID   `yaml:"id"`
	Name      string      `yaml:"name"`
	IsDefault bool        `yaml:"default"`
	Stages    []fileStage `yaml:"stages"`
}

type fileStage struct {
	ID             uuid.UUID       `yaml:"id"`
	Name           string          `yaml:"name"`
	Slug           string          `yaml:"slug"`
	SortOrder      int             `yaml:"sort_order"`
	Probability    int             `yaml:"probability"`
	IsWon          bool            `yaml:"is_won"`
	IsLost         bool            `yaml:"is_lost"`
	Active         *bool           `yaml:"active"`
	RequiredFields []RequiredField `yaml:"required_fields"`
}

// FileDirectory serves pipeline configuration loaded once from YAML.
type FileDirectory struct {
	pipelines map[uuid.UUID]*Pipeline
	stages    map[uuid.UUID]*Stage
}

// LoadFile reads a YAML pipeline definition from path.
func LoadFile(path string) (*FileDirectory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pipeline file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode parses and validates a YAML pipeline definition. Unknown keys,
// duplicate ids and stages flagged both won and lost are rejected.
func Decode(r io.Reader) (*FileDirectory, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc fileDoc
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding pipeline file: %w", err)
	}

	d := &FileDirectory{
		pipelines: make(map[uuid.UUID]*Pipeline, len(doc.Pipelines)),
		stages:    make(map[uuid.UUID]*Stage),
	}

	for _, fp := range doc.Pipelines {
		if fp.ID == uuid.Nil {
			return nil, fmt.Errorf("pipeline %q: id is required", fp.Name)
		}

		if _, dup := d.pipelines[fp.ID]; dup {
			return nil, fmt.Errorf("pipeline %s: duplicate id", fp.ID)
		}

		p := &Pipeline{ID: fp.ID, Name: fp.Name, IsDefault: fp.IsDefault}

		for _, fs := range fp.Stages {
			kind, err := KindFromFlags(fs.IsWon, fs.IsLost)
			if err != nil {
				return nil, fmt.Errorf("pipeline %q stage %q: %w", fp.Name, fs.Name, err)
			}

			if fs.ID == uuid.Nil {
				return nil, fmt.Errorf("pipeline %q stage %q: id is required", fp.Name, fs.Name)
			}

			if _, dup := d.stages[fs.ID]; dup {
				return nil, fmt.Errorf("stage %s: duplicate id", fs.ID)
			}

			s := &Stage{
				ID:             fs.ID,
				PipelineID:     fp.ID,
				Name:           fs.Name,
				Slug:           fs.Slug,
				SortOrder:      fs.SortOrder,
				Probability:    fs.Probability,
				Kind:           kind,
				Active:         fs.Active == nil || *fs.Active,
				RequiredFields: fs.RequiredFields,
			}

			if err := s.Validate(); err != nil {
				return nil, err
			}

			p.Stages = append(p.Stages, s)
			d.stages[s.ID] = s
		}

		SortStages(p.Stages)
		d.pipelines[p.ID] = p
	}

	return d, nil
}

func (d *FileDirectory) GetPipeline(_ context.Context, id uuid.UUID) (*Pipeline, error) {
	p, ok := d.pipelines[id]
	if !ok {
		return nil, ErrPipelineNotFound
	}

	return p, nil
}

func (d *FileDirectory) GetStage(_ context.Context, id uuid.UUID) (*Stage, error) {
	s, ok := d.stages[id]
	if !ok {
		return nil, ErrStageNotFound
	}

	return s, nil
}

func (d *FileDirectory) ListStages(ctx context.Context, pipelineID uuid.UUID) ([]*Stage, error) {
	p, err := d.GetPipeline(ctx, pipelineID)
	if err != nil {
		return nil, err
	}

	return p.Stages, nil
}

func (d *FileDirectory) FirstOpenStage(ctx context.Context, pipelineID uuid.UUID) (*Stage, error) {
	return d.ofKind(ctx, pipelineID, KindOpen)
}

func (d *FileDirectory) WonStage(ctx context.Context, pipelineID uuid.UUID) (*Stage, error) {
	return d.ofKind(ctx, pipelineID, KindWon)
}

func (d *FileDirectory) LostStage(ctx context.Context, pipelineID uuid.UUID) (*Stage, error) {
	return d.ofKind(ctx, pipelineID, KindLost)
}

func (d *FileDirectory) ofKind(ctx context.Context, pipelineID uuid.UUID, kind Kind) (*Stage, error) {
	stages, err := d.ListStages(ctx, pipelineID)
	if err != nil {
		return nil, err
	}

	s, ok := FirstOfKind(stages, kind)
	if !ok {
		return nil, ErrStageNotFound
	}

	return s, nil
}
