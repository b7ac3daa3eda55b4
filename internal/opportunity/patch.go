package opportunity

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/forecast"
)

// Optional distinguishes a field that was not supplied from one explicitly
// set to null.
type Optional[T any] struct {
	set   bool
	value *T
}

func Set[T any](v T) Optional[T] { return Optional[T]{set: true, value: &v} }

func Null[T any]() Optional[T] { return Optional[T]{set: true} }

func (o Optional[T]) IsSet() bool { return o.set }

// Get returns the supplied value, nil for an explicit null.
func (o Optional[T]) Get() *T { return o.value }

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true

	if string(data) == "null" {
		o.value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	o.value = &v

	return nil
}

// Patch is a partial update of an opportunity. Nil pointers and unset
// Optionals leave the field unchanged. Stage, won/lost and primary contact
// are changed through their dedicated operations only.
type Patch struct {
	Name             *string
	Amount           *decimal.Decimal
	Currency         *string
	CloseDate        Optional[time.Time]
	Probability      *int
	ForecastCategory *forecast.Category
	OwnerID          Optional[uuid.UUID]
	AccountID        Optional[uuid.UUID]
	Priority         *Priority
	Type             *string
	Source           *string
	Description      *string
	Competitor       *string
	Tags             *[]string
	CustomFields     CustomFields
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Amount == nil && p.Currency == nil && !p.CloseDate.IsSet() &&
		p.Probability == nil && p.ForecastCategory == nil && !p.OwnerID.IsSet() && !p.AccountID.IsSet() &&
		p.Priority == nil && p.Type == nil && p.Source == nil && p.Description == nil &&
		p.Competitor == nil && p.Tags == nil && len(p.CustomFields) == 0
}

// touchesForecast reports whether the patch changes probability or forecast.
func (p Patch) touchesForecast() bool {
	return p.Probability != nil || p.ForecastCategory != nil
}

// validate collects every invalid value into ve.
func (p Patch) validate(ve *ValidationError) {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		ve.add("name", "must not be blank")
	}

	if p.Amount != nil && p.Amount.IsNegative() {
		ve.add("amount", "must not be negative")
	}

	if p.Currency != nil && len(*p.Currency) != 3 {
		ve.add("currency", "must be a three letter code")
	}

	if p.Probability != nil {
		validateProbability(ve, *p.Probability)
	}

	if p.ForecastCategory != nil && !p.ForecastCategory.Valid() {
		ve.add("forecast_category", "unknown category")
	}

	if p.Priority != nil && !p.Priority.Valid() {
		ve.add("priority", "must be one of low, medium, high, urgent")
	}

	if err := p.CustomFields.Validate(); err != nil {
		ve.add("custom_fields", err.Error())
	}
}

// apply writes the patch into o. Probability and forecast are handled by the
// callers because their derivation rules differ per operation.
func (p Patch) apply(o *Opportunity) {
	if p.Name != nil {
		o.Name = strings.TrimSpace(*p.Name)
	}

	if p.Amount != nil {
		o.Amount = *p.Amount
	}

	if p.Currency != nil {
		o.Currency = strings.ToUpper(*p.Currency)
	}

	if p.CloseDate.IsSet() {
		o.CloseDate = p.CloseDate.Get()
	}

	if p.OwnerID.IsSet() {
		o.OwnerID = p.OwnerID.Get()
	}

	if p.AccountID.IsSet() {
		o.AccountID = p.AccountID.Get()
	}

	if p.Priority != nil {
		o.Priority = *p.Priority
	}

	if p.Type != nil {
		o.Type = *p.Type
	}

	if p.Source != nil {
		o.Source = *p.Source
	}

	if p.Description != nil {
		o.Description = *p.Description
	}

	if p.Competitor != nil {
		o.Competitor = *p.Competitor
	}

	if p.Tags != nil {
		o.Tags = normalizeTags(*p.Tags)
	}

	o.CustomFields = o.CustomFields.Merge(p.CustomFields)
}

func validateProbability(ve *ValidationError, p int) {
	if p < 0 || p > 100 {
		ve.add("probability", "must be between 0 and 100")
	}
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))

	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}

		if _, dup := seen[t]; dup {
			continue
		}

		seen[t] = struct{}{}
		out = append(out, t)
	}

	return out
}
