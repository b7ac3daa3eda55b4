package pipeline_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dealdesk/internal/pipeline"
)

func TestParseRequiredField(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantNames []string
		wantAnyOf bool
	}{
		{name: "Single", raw: "budget", wantNames: []string{"budget"}},
		{name: "Alternatives", raw: "decision_maker|champion", wantNames: []string{"decision_maker", "champion"}, wantAnyOf: true},
		{name: "TrimsBlanks", raw: " a | | b ", wantNames: []string{"a", "b"}, wantAnyOf: true},
		{name: "OneAlternativeIsSingle", raw: "budget|", wantNames: []string{"budget"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := pipeline.ParseRequiredField(tt.raw)
			assert.Equal(t, tt.wantNames, f.Names())
			assert.Equal(t, tt.wantAnyOf, f.IsAnyOf())
		})
	}

	assert.True(t, pipeline.ParseRequiredField(" | ").IsZero())
}

func TestRequiredFieldsRoundTripStorage(t *testing.T) {
	raw := []string{"budget", "decision_maker|champion"}
	assert.Equal(t, raw, pipeline.EncodeRequiredFields(pipeline.ParseRequiredFields(raw)))
}

func TestUnmet_CollectsEveryFailure(t *testing.T) {
	present := map[string]bool{"champion": true}
	has := func(name string) bool { return present[name] }

	fields := []pipeline.RequiredField{
		pipeline.Single("budget"),
		pipeline.AnyOf("decision_maker", "champion"),
		pipeline.Single("close_date"),
		pipeline.AnyOf("competitor", "source"),
	}

	unmet := pipeline.Unmet(fields, has)
	require.Len(t, unmet, 3)
	assert.Equal(t, "budget", unmet[0].String())
	assert.Equal(t, "close_date", unmet[1].String())
	assert.Equal(t, "any of (competitor, source)", unmet[2].String())
}

func TestRequiredField_JSON(t *testing.T) {
	fields := []pipeline.RequiredField{pipeline.Single("budget"), pipeline.AnyOf("a", "b")}

	data, err := json.Marshal(fields)
	require.NoError(t, err)
	assert.JSONEq(t, `["budget", {"any_of": ["a", "b"]}]`, string(data))

	var decoded []pipeline.RequiredField
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, fields, decoded)
}
