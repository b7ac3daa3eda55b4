package opportunity

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/forecast"
	"github.com/MrJamesThe3rd/dealdesk/internal/opportunity"
	"github.com/MrJamesThe3rd/dealdesk/internal/pricing"
)

// date accepts "2006-01-02" or an RFC 3339 timestamp.
type date struct {
	time.Time
}

func (d *date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	t, err := parseDate(s)
	if err != nil {
		return err
	}

	d.Time = t

	return nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}

	return t, nil
}

func datePtr(d *date) *time.Time {
	if d == nil {
		return nil
	}

	return new(d.Time)
}

type createRequest struct {
	Name             string                   `json:"name"`
	PipelineID       uuid.UUID                `json:"pipeline_id"`
	StageID          *uuid.UUID               `json:"stage_id"`
	Amount           decimal.Decimal          `json:"amount"`
	Currency         string                   `json:"currency"`
	CloseDate        *date                    `json:"close_date"`
	Probability      *int                     `json:"probability"`
	ForecastCategory *forecast.Category       `json:"forecast_category"`
	OwnerID          *uuid.UUID               `json:"owner_id"`
	AccountID        *uuid.UUID               `json:"account_id"`
	Priority         opportunity.Priority     `json:"priority"`
	Type             string                   `json:"type"`
	Source           string                   `json:"source"`
	Description      string                   `json:"description"`
	Tags             []string                 `json:"tags"`
	CustomFields     opportunity.CustomFields `json:"custom_fields"`
}

func (r createRequest) params() opportunity.CreateParams {
	return opportunity.CreateParams{
		Name:             r.Name,
		PipelineID:       r.PipelineID,
		StageID:          r.StageID,
		Amount:           r.Amount,
		Currency:         r.Currency,
		CloseDate:        datePtr(r.CloseDate),
		Probability:      r.Probability,
		ForecastCategory: r.ForecastCategory,
		OwnerID:          r.OwnerID,
		AccountID:        r.AccountID,
		Priority:         r.Priority,
		Type:             r.Type,
		Source:           r.Source,
		Description:      r.Description,
		Tags:             r.Tags,
		CustomFields:     r.CustomFields,
	}
}

// patchRequest is the body of a partial update. Absent keys are left
// unchanged; close_date, owner_id and account_id may be cleared with null.
type patchRequest struct {
	Name             *string                         `json:"name"`
	Amount           *decimal.Decimal                `json:"amount"`
	Currency         *string                         `json:"currency"`
	CloseDate        opportunity.Optional[date]      `json:"close_date"`
	Probability      *int                            `json:"probability"`
	ForecastCategory *forecast.Category              `json:"forecast_category"`
	OwnerID          opportunity.Optional[uuid.UUID] `json:"owner_id"`
	AccountID        opportunity.Optional[uuid.UUID] `json:"account_id"`
	Priority         *opportunity.Priority           `json:"priority"`
	Type             *string                         `json:"type"`
	Source           *string                         `json:"source"`
	Description      *string                         `json:"description"`
	Competitor       *string                         `json:"competitor"`
	Tags             *[]string                       `json:"tags"`
	CustomFields     opportunity.CustomFields        `json:"custom_fields"`
}

// patchKeys are the JSON keys patchRequest understands.
var patchKeys = map[string]bool{
	"name": true, "amount": true, "currency": true, "close_date": true, "probability": true,
	"forecast_category": true, "owner_id": true, "account_id": true, "priority": true,
	"type": true, "source": true, "description": true, "competitor": true, "tags": true,
	"custom_fields": true,
}

func (r patchRequest) patch() opportunity.Patch {
	p := opportunity.Patch{
		Name:             r.Name,
		Amount:           r.Amount,
		Currency:         r.Currency,
		Probability:      r.Probability,
		ForecastCategory: r.ForecastCategory,
		OwnerID:          r.OwnerID,
		AccountID:        r.AccountID,
		Priority:         r.Priority,
		Type:             r.Type,
		Source:           r.Source,
		Description:      r.Description,
		Competitor:       r.Competitor,
		Tags:             r.Tags,
		CustomFields:     r.CustomFields,
	}

	if r.CloseDate.IsSet() {
		if d := r.CloseDate.Get(); d != nil {
			p.CloseDate = opportunity.Set(d.Time)
		} else {
			p.CloseDate = opportunity.Null[time.Time]()
		}
	}

	return p
}

// fieldValuesPatch converts the free-form field_values of a stage change into
// a Patch. Keys naming opportunity fields update those fields; any other key
// is written to the custom fields.
func fieldValuesPatch(values map[string]json.RawMessage) (opportunity.Patch, error) {
	known := make(map[string]json.RawMessage)
	var custom opportunity.CustomFields

	for k, raw := range values {
		if patchKeys[k] {
			known[k] = raw
			continue
		}

		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return opportunity.Patch{}, fmt.Errorf("field_values.%s: %w", k, err)
		}

		if custom == nil {
			custom = opportunity.CustomFields{}
		}

		custom[k] = v
	}

	var req patchRequest

	if len(known) > 0 {
		data, err := json.Marshal(known)
		if err != nil {
			return opportunity.Patch{}, err
		}

		if err := json.Unmarshal(data, &req); err != nil {
			return opportunity.Patch{}, fmt.Errorf("field_values: %w", err)
		}
	}

	p := req.patch()

	if p.CustomFields == nil {
		p.CustomFields = custom
	} else {
		maps.Copy(p.CustomFields, custom)
	}

	return p, nil
}

type changeStageRequest struct {
	StageID          uuid.UUID                  `json:"stage_id"`
	FieldValues      map[string]json.RawMessage `json:"field_values"`
	Probability      *int                       `json:"probability"`
	ForecastCategory *forecast.Category         `json:"forecast_category"`
	Note             string                     `json:"note"`
}

func (r changeStageRequest) input() (opportunity.ChangeStageInput, error) {
	fields, err := fieldValuesPatch(r.FieldValues)
	if err != nil {
		return opportunity.ChangeStageInput{}, err
	}

	return opportunity.ChangeStageInput{
		StageID:          r.StageID,
		Fields:           fields,
		Probability:      r.Probability,
		ForecastCategory: r.ForecastCategory,
		Note:             r.Note,
	}, nil
}

type closeRequest struct {
	ReasonID    *uuid.UUID       `json:"reason_id"`
	FinalAmount *decimal.Decimal `json:"final_amount"`
	CloseDate   *date            `json:"close_date"`
	Notes       string           `json:"notes"`
	Competitor  string           `json:"competitor"`
}

func (r closeRequest) input() opportunity.CloseInput {
	return opportunity.CloseInput{
		ReasonID:    r.ReasonID,
		FinalAmount: r.FinalAmount,
		CloseDate:   datePtr(r.CloseDate),
		Notes:       r.Notes,
		Competitor:  r.Competitor,
	}
}

type reopenRequest struct {
	StageID     uuid.UUID `json:"stage_id"`
	Reason      string    `json:"reason"`
	Probability *int      `json:"probability"`
}

type addLineItemRequest struct {
	ProductID        uuid.UUID        `json:"product_id"`
	Quantity         *decimal.Decimal `json:"quantity"`
	UnitPrice        *decimal.Decimal `json:"unit_price"`
	Discount         pricing.Discount `json:"discount"`
	BillingFrequency string           `json:"billing_frequency"`
	IsOptional       bool             `json:"is_optional"`
}

func (r addLineItemRequest) input() pricing.AddInput {
	qty := decimal.NewFromInt(1)
	if r.Quantity != nil {
		qty = *r.Quantity
	}

	return pricing.AddInput{
		ProductID:        r.ProductID,
		Quantity:         qty,
		UnitPrice:        r.UnitPrice,
		Discount:         r.Discount,
		BillingFrequency: r.BillingFrequency,
		IsOptional:       r.IsOptional,
	}
}

// updateLineItemRequest accepts the tagged discount, or the legacy
// discount_percent/discount_amount pair. A null discount clears it.
type updateLineItemRequest struct {
	Name             *string                                `json:"name"`
	Quantity         *decimal.Decimal                       `json:"quantity"`
	UnitPrice        *decimal.Decimal                       `json:"unit_price"`
	Discount         opportunity.Optional[pricing.Discount] `json:"discount"`
	DiscountPercent  *decimal.Decimal                       `json:"discount_percent"`
	DiscountAmount   *decimal.Decimal                       `json:"discount_amount"`
	BillingFrequency *string                                `json:"billing_frequency"`
	SortOrder        *int                                   `json:"sort_order"`
	IsOptional       *bool                                  `json:"is_optional"`
}

func (r updateLineItemRequest) update() pricing.LineItemUpdate {
	u := pricing.LineItemUpdate{
		Name:             r.Name,
		Quantity:         r.Quantity,
		UnitPrice:        r.UnitPrice,
		DiscountPercent:  r.DiscountPercent,
		DiscountAmount:   r.DiscountAmount,
		BillingFrequency: r.BillingFrequency,
		SortOrder:        r.SortOrder,
		IsOptional:       r.IsOptional,
	}

	if r.Discount.IsSet() {
		d := pricing.NoDiscount()
		if v := r.Discount.Get(); v != nil {
			d = *v
		}

		u.Discount = &d
	}

	return u
}

func optionalUUID(q url.Values, key string) (*uuid.UUID, error) {
	s := q.Get(key)
	if s == "" {
		return nil, nil
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", key)
	}

	return &id, nil
}

func optionalDate(q url.Values, key string) (*time.Time, error) {
	s := q.Get(key)
	if s == "" {
		return nil, nil
	}

	t, err := parseDate(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", key)
	}

	return &t, nil
}

func optionalInt(q url.Values, key string) (int, error) {
	s := q.Get(key)
	if s == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}

	return n, nil
}

func parseListQuery(q url.Values) (opportunity.ListFilter, opportunity.Page, opportunity.Sort, error) {
	var (
		filter opportunity.ListFilter
		page   opportunity.Page
		sort   opportunity.Sort
		err    error
	)

	for key, dst := range map[string]**uuid.UUID{
		"pipeline_id": &filter.PipelineID,
		"stage_id":    &filter.StageID,
		"owner_id":    &filter.OwnerID,
		"account_id":  &filter.AccountID,
	} {
		if *dst, err = optionalUUID(q, key); err != nil {
			return filter, page, sort, err
		}
	}

	if filter.CloseFrom, err = optionalDate(q, "close_from"); err != nil {
		return filter, page, sort, err
	}

	if filter.CloseTo, err = optionalDate(q, "close_to"); err != nil {
		return filter, page, sort, err
	}

	if s := q.Get("status"); s != "" {
		filter.Status = new(opportunity.Status(s))
	}

	if s := q.Get("forecast_category"); s != "" {
		filter.ForecastCategory = new(forecast.Category(s))
	}

	filter.Search = strings.TrimSpace(q.Get("search"))
	filter.Tag = q.Get("tag")

	if page.Number, err = optionalInt(q, "page"); err != nil {
		return filter, page, sort, err
	}

	if page.Size, err = optionalInt(q, "page_size"); err != nil {
		return filter, page, sort, err
	}

	sort.Field = opportunity.SortField(q.Get("sort"))

	switch strings.ToLower(q.Get("order")) {
	case "", "desc":
		sort.Desc = true
	case "asc":
	default:
		return filter, page, sort, fmt.Errorf("invalid order")
	}

	return filter, page, sort, nil
}
