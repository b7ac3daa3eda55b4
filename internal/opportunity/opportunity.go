package opportunity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/forecast"
	"github.com/MrJamesThe3rd/dealdesk/internal/pipeline"
	"github.com/MrJamesThe3rd/dealdesk/internal/pricing"
)

// Status is derived from the won/lost timestamps; it is never stored.
type Status string

const (
	StatusOpen Status = "open"
	StatusWon  Status = "won"
	StatusLost Status = "lost"
)

func (s Status) Valid() bool {
	return s == StatusOpen || s == StatusWon || s == StatusLost
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}

	return false
}

// Opportunity is a sales deal. WonAt and LostAt are never both set.
type Opportunity struct {
	ID               uuid.UUID
	Name             string
	PipelineID       uuid.UUID
	StageID          uuid.UUID
	Amount           decimal.Decimal
	Currency         string
	CloseDate        *time.Time
	Probability      int
	WeightedAmount   decimal.Decimal // maintained by the database
	ForecastCategory forecast.Category
	OwnerID          *uuid.UUID
	AccountID        *uuid.UUID
	PrimaryContactID *uuid.UUID
	Priority         Priority
	Type             string
	Source           string
	Description      string
	Tags             []string
	CustomFields     CustomFields
	WonAt            *time.Time
	LostAt           *time.Time
	CloseReasonID    *uuid.UUID
	CloseNotes       string
	Competitor       string
	StageEnteredAt   *time.Time
	CreatedBy        *uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        *time.Time
	DeletedAt        *time.Time
}

func (o *Opportunity) Status() Status {
	switch {
	case o.WonAt != nil:
		return StatusWon
	case o.LostAt != nil:
		return StatusLost
	default:
		return StatusOpen
	}
}

// Clone returns a copy that shares no mutable state with o.
func (o *Opportunity) Clone() *Opportunity {
	c := *o
	c.Tags = slices.Clone(o.Tags)
	c.CustomFields = maps.Clone(o.CustomFields)

	return &c
}

// hasField reports whether a structural field holds a non-empty value.
// known is false for names that are not structural fields.
func (o *Opportunity) hasField(name string) (present, known bool) {
	switch name {
	case "name":
		return strings.TrimSpace(o.Name) != "", true
	case "amount":
		return !o.Amount.IsZero(), true
	case "currency":
		return o.Currency != "", true
	case "close_date":
		return o.CloseDate != nil, true
	case "probability":
		return o.Probability > 0, true
	case "forecast_category":
		return o.ForecastCategory != "", true
	case "owner_id":
		return o.OwnerID != nil, true
	case "account_id":
		return o.AccountID != nil, true
	case "primary_contact_id":
		return o.PrimaryContactID != nil, true
	case "priority":
		return o.Priority != "", true
	case "type":
		return strings.TrimSpace(o.Type) != "", true
	case "source":
		return strings.TrimSpace(o.Source) != "", true
	case "description":
		return strings.TrimSpace(o.Description) != "", true
	case "competitor":
		return strings.TrimSpace(o.Competitor) != "", true
	case "tags":
		return len(o.Tags) > 0, true
	}

	return false, false
}

// HasValue resolves a required field name against the structural fields
// first and the custom fields second.
func (o *Opportunity) HasValue(name string) bool {
	if present, known := o.hasField(name); known {
		return present
	}

	return o.CustomFields.HasValue(name)
}

// snapshot is the audit representation of o. Values are comparable so that
// two snapshots can be diffed.
func (o *Opportunity) snapshot() map[string]any {
	return map[string]any{
		"name":              o.Name,
		"stage_id":          o.StageID.String(),
		"amount":            o.Amount.String(),
		"currency":          o.Currency,
		"close_date":        formatDate(o.CloseDate),
		"probability":       o.Probability,
		"forecast_category": string(o.ForecastCategory),
		"owner_id":          formatID(o.OwnerID),
		"account_id":        formatID(o.AccountID),
		"priority":          string(o.Priority),
		"type":              o.Type,
		"source":            o.Source,
		"competitor":        o.Competitor,
		"tags":              strings.Join(o.Tags, ","),
		"status":            string(o.Status()),
	}
}

func formatID(id *uuid.UUID) string {
	if id == nil {
		return ""
	}

	return id.String()
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(time.DateOnly)
}

// CustomFields is an open key to scalar map stored as jsonb.
type CustomFields map[string]any

// HasValue treats missing keys, nil and blank strings as empty. Numeric zero
// and false are values.
func (c CustomFields) HasValue(name string) bool {
	v, ok := c[name]
	if !ok || v == nil {
		return false
	}

	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}

	return true
}

// Validate rejects values that are not scalars.
func (c CustomFields) Validate() error {
	for k, v := range c {
		switch v.(type) {
		case nil, string, bool, float64, float32, int, int32, int64, json.Number:
		default:
			return fmt.Errorf("custom field %q must be a string, number or boolean", k)
		}
	}

	return nil
}

// Merge writes patch into c. A nil value deletes the key.
func (c CustomFields) Merge(patch CustomFields) CustomFields {
	if len(patch) == 0 {
		return c
	}

	out := maps.Clone(c)
	if out == nil {
		out = make(CustomFields, len(patch))
	}

	for k, v := range patch {
		if v == nil {
			delete(out, k)
			continue
		}

		out[k] = v
	}

	return out
}

func (c CustomFields) Value() (driver.Value, error) {
	if c == nil {
		return "{}", nil
	}

	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}

	return string(b), nil
}

func (c *CustomFields) Scan(src any) error {
	var data []byte

	switch v := src.(type) {
	case nil:
		*c = CustomFields{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scanning custom fields: unsupported type %T", src)
	}

	fields := CustomFields{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("scanning custom fields: %w", err)
	}

	*c = fields

	return nil
}

// StageHistoryEntry is an append-only record of a stage transition. FromStageID
// is nil for the entry written at creation; TimeInStage is nil when the
// previous stage entry time was unknown.
type StageHistoryEntry struct {
	ID            uuid.UUID
	OpportunityID uuid.UUID
	FromStageID   *uuid.UUID
	ToStageID     uuid.UUID
	FromStageName string
	ToStageName   string
	ChangedBy     uuid.UUID
	TimeInStage   *time.Duration
	Note          string
	CreatedAt     time.Time
}

type ContactRole struct {
	ID            uuid.UUID
	OpportunityID uuid.UUID
	ContactID     uuid.UUID
	ContactName   string
	Role          string
	IsPrimary     bool
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

type TeamMember struct {
	UserID uuid.UUID
	Name   string
	Role   string
}

// Names holds display names of referenced entities.
type Names struct {
	Pipeline       string
	Owner          string
	Account        string
	PrimaryContact string
}

// Detail is the enriched read model returned by Get.
type Detail struct {
	Opportunity  *Opportunity
	Stage        *pipeline.Stage
	Names        Names
	Team         []TeamMember
	History      []*StageHistoryEntry
	LineItems    []*pricing.LineItem
	LineSummary  pricing.Summary
	ContactRoles []*ContactRole
}

// Actor is the caller of a service operation. VisibleOwners restricts which
// owners' records the actor may read or change; nil means unrestricted.
type Actor struct {
	ID            uuid.UUID
	VisibleOwners []uuid.UUID
}

func (a Actor) canSee(o *Opportunity) bool {
	if a.VisibleOwners == nil {
		return true
	}

	return o.OwnerID != nil && slices.Contains(a.VisibleOwners, *o.OwnerID)
}
