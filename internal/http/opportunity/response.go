package opportunity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/forecast"
	"github.com/MrJamesThe3rd/dealdesk/internal/opportunity"
	"github.com/MrJamesThe3rd/dealdesk/internal/pipeline"
	"github.com/MrJamesThe3rd/dealdesk/internal/pricing"
)

type opportunityResponse struct {
	ID               uuid.UUID                `json:"id"`
	Name             string                   `json:"name"`
	Status           opportunity.Status       `json:"status"`
	PipelineID       uuid.UUID                `json:"pipeline_id"`
	StageID          uuid.UUID                `json:"stage_id"`
	Amount           decimal.Decimal          `json:"amount"`
	Currency         string                   `json:"currency"`
	CloseDate        *string                  `json:"close_date"`
	Probability      int                      `json:"probability"`
	WeightedAmount   decimal.Decimal          `json:"weighted_amount"`
	ForecastCategory forecast.Category        `json:"forecast_category"`
	OwnerID          *uuid.UUID               `json:"owner_id"`
	AccountID        *uuid.UUID               `json:"account_id"`
	PrimaryContactID *uuid.UUID               `json:"primary_contact_id"`
	Priority         opportunity.Priority     `json:"priority"`
	Type             string                   `json:"type,omitempty"`
	Source           string                   `json:"source,omitempty"`
	Description      string                   `json:"description,omitempty"`
	Tags             []string                 `json:"tags"`
	CustomFields     opportunity.CustomFields `json:"custom_fields"`
	WonAt            *time.Time               `json:"won_at,omitempty"`
	LostAt           *time.Time               `json:"lost_at,omitempty"`
	CloseReasonID    *uuid.UUID               `json:"close_reason_id,omitempty"`
	CloseNotes       string                   `json:"close_notes,omitempty"`
	Competitor       string                   `json:"competitor,omitempty"`
	StageEnteredAt   *time.Time               `json:"stage_entered_at,omitempty"`
	CreatedBy        *uuid.UUID               `json:"created_by,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        *time.Time               `json:"updated_at,omitempty"`
}

func toResponse(o *opportunity.Opportunity) opportunityResponse {
	resp := opportunityResponse{
		ID:               o.ID,
		Name:             o.Name,
		Status:           o.Status(),
		PipelineID:       o.PipelineID,
		StageID:          o.StageID,
		Amount:           o.Amount,
		Currency:         o.Currency,
		Probability:      o.Probability,
		WeightedAmount:   o.WeightedAmount,
		ForecastCategory: o.ForecastCategory,
		OwnerID:          o.OwnerID,
		AccountID:        o.AccountID,
		PrimaryContactID: o.PrimaryContactID,
		Priority:         o.Priority,
		Type:             o.Type,
		Source:           o.Source,
		Description:      o.Description,
		Tags:             o.Tags,
		CustomFields:     o.CustomFields,
		WonAt:            o.WonAt,
		LostAt:           o.LostAt,
		CloseReasonID:    o.CloseReasonID,
		CloseNotes:       o.CloseNotes,
		Competitor:       o.Competitor,
		StageEnteredAt:   o.StageEnteredAt,
		CreatedBy:        o.CreatedBy,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}

	if o.CloseDate != nil {
		resp.CloseDate = new(o.CloseDate.Format(time.DateOnly))
	}

	if resp.Tags == nil {
		resp.Tags = []string{}
	}

	if resp.CustomFields == nil {
		resp.CustomFields = opportunity.CustomFields{}
	}

	return resp
}

func toResponseList(opps []*opportunity.Opportunity) []opportunityResponse {
	resp := make([]opportunityResponse, len(opps))
	for i, o := range opps {
		resp[i] = toResponse(o)
	}

	return resp
}

type listResponse struct {
	Items    []opportunityResponse `json:"items"`
	Total    int                   `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}

type forecastRowResponse struct {
	Category       forecast.Category `json:"category"`
	Count          int               `json:"count"`
	Amount         decimal.Decimal   `json:"amount"`
	WeightedAmount decimal.Decimal   `json:"weighted_amount"`
}

type stageResponse struct {
	ID             uuid.UUID                `json:"id"`
	Name           string                   `json:"name"`
	Slug           string                   `json:"slug"`
	SortOrder      int                      `json:"sort_order"`
	Probability    int                      `json:"probability"`
	Kind           pipeline.Kind            `json:"kind"`
	RequiredFields []pipeline.RequiredField `json:"required_fields"`
}

type teamMemberResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Role   string    `json:"role"`
}

type summaryResponse struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Discounts decimal.Decimal `json:"discounts"`
	Total     decimal.Decimal `json:"total"`
}

type detailResponse struct {
	opportunityResponse
	Stage              *stageResponse        `json:"stage,omitempty"`
	PipelineName       string                `json:"pipeline_name,omitempty"`
	OwnerName          string                `json:"owner_name,omitempty"`
	AccountName        string                `json:"account_name,omitempty"`
	PrimaryContactName string                `json:"primary_contact_name,omitempty"`
	Team               []teamMemberResponse  `json:"team"`
	History            []historyResponse     `json:"stage_history"`
	LineItems          []lineItemResponse    `json:"line_items"`
	LineItemSummary    summaryResponse       `json:"line_item_summary"`
	ContactRoles       []contactRoleResponse `json:"contact_roles"`
}

func toDetailResponse(d *opportunity.Detail) detailResponse {
	resp := detailResponse{
		opportunityResponse: toResponse(d.Opportunity),
		PipelineName:        d.Names.Pipeline,
		OwnerName:           d.Names.Owner,
		AccountName:         d.Names.Account,
		PrimaryContactName:  d.Names.PrimaryContact,
		Team:                make([]teamMemberResponse, 0, len(d.Team)),
		History:             toHistoryResponse(d.History),
		LineItems:           toLineItemList(d.LineItems),
		LineItemSummary: summaryResponse{
			Subtotal:  d.LineSummary.Subtotal,
			Discounts: d.LineSummary.Discounts,
			Total:     d.LineSummary.Total,
		},
		ContactRoles: make([]contactRoleResponse, 0, len(d.ContactRoles)),
	}

	if s := d.Stage; s != nil {
		resp.Stage = &stageResponse{
			ID:             s.ID,
			Name:           s.Name,
			Slug:           s.Slug,
			SortOrder:      s.SortOrder,
			Probability:    s.Probability,
			Kind:           s.Kind,
			RequiredFields: s.RequiredFields,
		}
		if resp.Stage.RequiredFields == nil {
			resp.Stage.RequiredFields = []pipeline.RequiredField{}
		}
	}

	for _, m := range d.Team {
		resp.Team = append(resp.Team, teamMemberResponse{UserID: m.UserID, Name: m.Name, Role: m.Role})
	}

	for _, c := range d.ContactRoles {
		resp.ContactRoles = append(resp.ContactRoles, toContactRoleResponse(c))
	}

	return resp
}

type historyResponse struct {
	ID                 uuid.UUID  `json:"id"`
	FromStageID        *uuid.UUID `json:"from_stage_id"`
	FromStageName      string     `json:"from_stage_name,omitempty"`
	ToStageID          uuid.UUID  `json:"to_stage_id"`
	ToStageName        string     `json:"to_stage_name"`
	ChangedBy          uuid.UUID  `json:"changed_by"`
	TimeInStageSeconds *int64     `json:"time_in_stage_seconds"`
	Note               string     `json:"note,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

func toHistoryResponse(entries []*opportunity.StageHistoryEntry) []historyResponse {
	resp := make([]historyResponse, len(entries))
	for i, e := range entries {
		resp[i] = historyResponse{
			ID:            e.ID,
			FromStageID:   e.FromStageID,
			FromStageName: e.FromStageName,
			ToStageID:     e.ToStageID,
			ToStageName:   e.ToStageName,
			ChangedBy:     e.ChangedBy,
			Note:          e.Note,
			CreatedAt:     e.CreatedAt,
		}

		if e.TimeInStage != nil {
			resp[i].TimeInStageSeconds = new(int64(e.TimeInStage.Seconds()))
		}
	}

	return resp
}

type lineItemResponse struct {
	ID               uuid.UUID        `json:"id"`
	Type             pricing.ItemType `json:"type"`
	ParentID         *uuid.UUID       `json:"parent_id,omitempty"`
	ProductID        *uuid.UUID       `json:"product_id,omitempty"`
	Name             string           `json:"name"`
	Quantity         decimal.Decimal  `json:"quantity"`
	UnitPrice        decimal.Decimal  `json:"unit_price"`
	Discount         pricing.Discount `json:"discount"`
	TotalPrice       decimal.Decimal  `json:"total_price"`
	BillingFrequency string           `json:"billing_frequency,omitempty"`
	SortOrder        int              `json:"sort_order"`
	IsOptional       bool             `json:"is_optional"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        *time.Time       `json:"updated_at,omitempty"`
}

func toLineItemList(items []*pricing.LineItem) []lineItemResponse {
	resp := make([]lineItemResponse, len(items))
	for i, li := range items {
		resp[i] = lineItemResponse{
			ID:               li.ID,
			Type:             li.Type,
			ParentID:         li.ParentID,
			ProductID:        li.ProductID,
			Name:             li.Name,
			Quantity:         li.Quantity,
			UnitPrice:        li.UnitPrice,
			Discount:         li.Discount,
			TotalPrice:       li.TotalPrice,
			BillingFrequency: li.BillingFrequency,
			SortOrder:        li.SortOrder,
			IsOptional:       li.IsOptional,
			CreatedAt:        li.CreatedAt,
			UpdatedAt:        li.UpdatedAt,
		}
	}

	return resp
}

// lineItemChangeResponse reports the rows touched by a line item operation
// and the opportunity amount after recalculation.
type lineItemChangeResponse struct {
	Items  []lineItemResponse `json:"items"`
	Amount decimal.Decimal    `json:"amount"`
}

func toLineItemChange(c *opportunity.LineItemChange) lineItemChangeResponse {
	return lineItemChangeResponse{Items: toLineItemList(c.Items), Amount: c.Amount}
}

type contactRoleResponse struct {
	ID          uuid.UUID  `json:"id"`
	ContactID   uuid.UUID  `json:"contact_id"`
	ContactName string     `json:"contact_name,omitempty"`
	Role        string     `json:"role,omitempty"`
	IsPrimary   bool       `json:"is_primary"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func toContactRoleResponse(c *opportunity.ContactRole) contactRoleResponse {
	return contactRoleResponse{
		ID:          c.ID,
		ContactID:   c.ContactID,
		ContactName: c.ContactName,
		Role:        c.Role,
		IsPrimary:   c.IsPrimary,
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
