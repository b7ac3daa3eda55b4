package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/dealdesk/internal/pipeline"
)

func TestKindFromFlags(t *testing.T) {
	tests := []struct {
		name    string
		isWon   bool
		isLost  bool
		want    pipeline.Kind
		wantErr error
	}{
		{name: "Neither", want: pipeline.KindOpen},
		{name: "Won", isWon: true, want: pipeline.KindWon},
		{name: "Lost", isLost: true, want: pipeline.KindLost},
		{name: "Both", isWon: true, isLost: true, wantErr: pipeline.ErrAmbiguousStage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pipeline.KindFromFlags(tt.isWon, tt.isLost)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)

			won, lost := got.Flags()
			assert.Equal(t, tt.isWon, won)
			assert.Equal(t, tt.isLost, lost)
		})
	}
}

func TestFirstOfKind_SkipsInactive(t *testing.T) {
	stages := []*pipeline.Stage{
		{Name: "Lead", SortOrder: 1, Kind: pipeline.KindOpen, Active: false},
		{Name: "Closed Won", SortOrder: 9, Kind: pipeline.KindWon, Active: true},
		{Name: "Qualify", SortOrder: 2, Kind: pipeline.KindOpen, Active: true},
	}
	pipeline.SortStages(stages)

	s, ok := pipeline.FirstOfKind(stages, pipeline.KindOpen)
	assert.True(t, ok)
	assert.Equal(t, "Qualify", s.Name)

	_, ok = pipeline.FirstOfKind(stages, pipeline.KindLost)
	assert.False(t, ok)
}
