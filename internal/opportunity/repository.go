package opportunity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/forecast"
	"github.com/MrJamesThe3rd/dealdesk/internal/pricing"
)

//go:generate mockgen -source=repository.go -destination=repository_mock.go -package=opportunity
type Repository interface {
	// Begin opens the transaction every mutation runs in.
	Begin(ctx context.Context) (Tx, error)

	GetOpportunity(ctx context.Context, id uuid.UUID) (*Opportunity, error)
	ListOpportunities(ctx context.Context, filter ListFilter, page Page, sort Sort) ([]*Opportunity, int, error)
	ListStageHistory(ctx context.Context, opportunityID uuid.UUID) ([]*StageHistoryEntry, error)
	ListLineItems(ctx context.Context, opportunityID uuid.UUID) ([]*pricing.LineItem, error)
	ListContactRoles(ctx context.Context, opportunityID uuid.UUID) ([]*ContactRole, error)
	ListTeam(ctx context.Context, opportunityID uuid.UUID) ([]TeamMember, error)
	LookupNames(ctx context.Context, o *Opportunity) (Names, error)
	FindDuplicates(ctx context.Context, criteria DuplicateCriteria) ([]*Opportunity, error)
	ForecastSummary(ctx context.Context, filter ForecastFilter) ([]ForecastRow, error)
}

// Tx is a unit of work over one opportunity aggregate. LockOpportunity must be
// called first; it holds a row lock until Commit or Rollback.
type Tx interface {
	LockOpportunity(ctx context.Context, id uuid.UUID) (*Opportunity, error)
	CreateOpportunity(ctx context.Context, o *Opportunity) error
	UpdateOpportunity(ctx context.Context, o *Opportunity) error
	SoftDeleteOpportunity(ctx context.Context, id uuid.UUID) error
	InsertStageHistory(ctx context.Context, entry *StageHistoryEntry) error

	ListLineItems(ctx context.Context, opportunityID uuid.UUID) ([]*pricing.LineItem, error)
	InsertLineItems(ctx context.Context, items []*pricing.LineItem) error
	UpdateLineItem(ctx context.Context, item *pricing.LineItem) error
	DeleteLineItems(ctx context.Context, ids []uuid.UUID) error

	UpsertContactRole(ctx context.Context, role *ContactRole) error
	ClearPrimaryContactRoles(ctx context.Context, opportunityID, exceptContactID uuid.UUID) error
	DeleteContactRole(ctx context.Context, opportunityID, contactID uuid.UUID) (*ContactRole, error)

	Commit() error
	Rollback() error
}

type ListFilter struct {
	PipelineID       *uuid.UUID
	StageID          *uuid.UUID
	OwnerID          *uuid.UUID
	AccountID        *uuid.UUID
	Status           *Status
	ForecastCategory *forecast.Category
	Search           string
	CloseFrom        *time.Time
	CloseTo          *time.Time
	Tag              string
	// OwnerIDs restricts results to these owners; nil means unrestricted.
	OwnerIDs []uuid.UUID
}

const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page into range.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}

	switch {
	case p.Size < 1:
		p.Size = DefaultPageSize
	case p.Size > MaxPageSize:
		p.Size = MaxPageSize
	}

	return p
}

func (p Page) Offset() int { return (p.Number - 1) * p.Size }

type SortField string

const (
	SortName      SortField = "name"
	SortAmount    SortField = "amount"
	SortCloseDate SortField = "close_date"
	SortCreatedAt SortField = "created_at"
	SortUpdatedAt SortField = "updated_at"
)

func (f SortField) Valid() bool {
	switch f {
	case SortName, SortAmount, SortCloseDate, SortCreatedAt, SortUpdatedAt:
		return true
	}

	return false
}

type Sort struct {
	Field SortField
	Desc  bool
}

type ListResult struct {
	Items    []*Opportunity
	Total    int
	Page     int
	PageSize int
}

// DuplicateCriteria selects open opportunities whose name contains any of
// Words or whose account is AccountID.
type DuplicateCriteria struct {
	Words     []string
	AccountID *uuid.UUID
	ExcludeID *uuid.UUID
	OwnerIDs  []uuid.UUID
	Limit     int
}

type ForecastFilter struct {
	PipelineID *uuid.UUID
	OwnerIDs   []uuid.UUID
}

type ForecastRow struct {
	Category       forecast.Category
	Count          int
	Amount         decimal.Decimal
	WeightedAmount decimal.Decimal
}
