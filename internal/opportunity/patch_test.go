package opportunity_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dealdesk/internal/opportunity"
)

func TestOptional_UnmarshalJSON(t *testing.T) {
	var body struct {
		AccountID opportunity.Optional[uuid.UUID] `json:"account_id"`
		OwnerID   opportunity.Optional[uuid.UUID] `json:"owner_id"`
		CloseDate opportunity.Optional[time.Time] `json:"close_date"`
	}

	owner := uuid.New()
	raw := `{"account_id": null, "owner_id": "` + owner.String() + `"}`

	require.NoError(t, json.Unmarshal([]byte(raw), &body))

	assert.True(t, body.AccountID.IsSet())
	assert.Nil(t, body.AccountID.Get())
	assert.True(t, body.OwnerID.IsSet())
	assert.Equal(t, owner, *body.OwnerID.Get())
	assert.False(t, body.CloseDate.IsSet())
}

func TestPatch_IsEmpty(t *testing.T) {
	assert.True(t, opportunity.Patch{}.IsEmpty())
	assert.False(t, opportunity.Patch{AccountID: opportunity.Null[uuid.UUID]()}.IsEmpty())
	assert.False(t, opportunity.Patch{CustomFields: opportunity.CustomFields{"budget": nil}}.IsEmpty())
}

func TestCustomFields_HasValue(t *testing.T) {
	c := opportunity.CustomFields{
		"blank":   "  ",
		"nothing": nil,
		"zero":    0.0,
		"no":      false,
		"budget":  "50k",
	}

	tests := []struct {
		name string
		want bool
	}{
		{name: "blank", want: false},
		{name: "nothing", want: false},
		{name: "missing", want: false},
		{name: "zero", want: true},
		{name: "no", want: true},
		{name: "budget", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.HasValue(tt.name))
		})
	}
}

func TestCustomFields_MergeAndValidate(t *testing.T) {
	base := opportunity.CustomFields{"budget": "50k", "champion": "Dana"}

	merged := base.Merge(opportunity.CustomFields{"champion": nil, "timeline": "Q3"})
	assert.Equal(t, opportunity.CustomFields{"budget": "50k", "timeline": "Q3"}, merged)
	assert.Equal(t, "Dana", base["champion"], "merge must not mutate the receiver")

	assert.NoError(t, merged.Validate())
	assert.Error(t, opportunity.CustomFields{"nested": map[string]any{"a": 1}}.Validate())
}

func TestCustomFields_Scan(t *testing.T) {
	var c opportunity.CustomFields

	require.NoError(t, c.Scan([]byte(`{"budget": 1200, "signed": true}`)))
	assert.Equal(t, 1200.0, c["budget"])
	assert.Equal(t, true, c["signed"])

	require.NoError(t, c.Scan(nil))
	assert.Empty(t, c)

	assert.Error(t, c.Scan(42))
}

func TestOpportunity_HasValue(t *testing.T) {
	o := &opportunity.Opportunity{
		Name:         "Acme",
		Competitor:   " ",
		CustomFields: opportunity.CustomFields{"account_id": "shadowed", "budget": "yes"},
	}

	assert.True(t, o.HasValue("name"))
	assert.False(t, o.HasValue("competitor"))
	assert.False(t, o.HasValue("account_id"), "structural fields take precedence over custom fields")
	assert.True(t, o.HasValue("budget"))
	assert.False(t, o.HasValue("timeline"))
}

func TestSignificantWords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "FirstThree", in: "Acme Corp Platform Renewal", want: []string{"acme", "corp", "platform"}},
		{name: "SkipsShortWords", in: "Q3 EU deal for Acme", want: []string{"deal", "for", "acme"}},
		{name: "Punctuation", in: "Globex: renewal/expansion", want: []string{"globex", "renewal", "expansion"}},
		{name: "Unicode", in: "ÉCOLE Nationale", want: []string{"école", "nationale"}},
		{name: "NothingSignificant", in: "Q3 a b", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, opportunity.SignificantWords(tt.in))
		})
	}
}

func TestPage_Normalize(t *testing.T) {
	assert.Equal(t, opportunity.Page{Number: 1, Size: opportunity.DefaultPageSize}, opportunity.Page{}.Normalize())
	assert.Equal(t, opportunity.Page{Number: 3, Size: opportunity.MaxPageSize}, opportunity.Page{Number: 3, Size: 1000}.Normalize())
	assert.Equal(t, 40, opportunity.Page{Number: 3, Size: 20}.Offset())
}
