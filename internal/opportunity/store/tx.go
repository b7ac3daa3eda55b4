package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dealdesk/internal/opportunity"
	"github.com/MrJamesThe3rd/dealdesk/internal/pricing"
)

// Tx is one database transaction over an opportunity aggregate.
type Tx struct {
	tx *sql.Tx
}

func (t *Tx) Commit() error   { return t.tx.Commit() }
func (t *Tx) Rollback() error { return t.tx.Rollback() }

// LockOpportunity reads the opportunity with SELECT ... FOR UPDATE.
func (t *Tx) LockOpportunity(ctx context.Context, id uuid.UUID) (*opportunity.Opportunity, error) {
	return getOpportunity(ctx, t.tx, id, true)
}

func (t *Tx) CreateOpportunity(ctx context.Context, o *opportunity.Opportunity) error {
	query := `
		INSERT INTO opportunities (
			id, name, pipeline_id, stage_id, amount, currency, close_date, probability,
			forecast_category, owner_id, account_id, primary_contact_id, priority, type, source,
			description, tags, custom_fields, stage_entered_at, created_by, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $21)
		RETURNING weighted_amount, updated_at`

	err := t.tx.QueryRowContext(ctx, query,
		o.ID, o.Name, o.PipelineID, o.StageID, o.Amount, o.Currency, o.CloseDate, o.Probability,
		string(o.ForecastCategory), o.OwnerID, o.AccountID, o.PrimaryContactID, string(o.Priority),
		nullString(o.Type), nullString(o.Source), nullString(o.Description), tagArray(o.Tags),
		o.CustomFields, o.StageEnteredAt, o.CreatedBy, o.CreatedAt,
	).Scan(&o.WeightedAmount, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating opportunity: %w", err)
	}

	return nil
}

// UpdateOpportunity writes every mutable column of o.
func (t *Tx) UpdateOpportunity(ctx context.Context, o *opportunity.Opportunity) error {
	query := `
		UPDATE opportunities
		SET name = $1, stage_id = $2, amount = $3, currency = $4, close_date = $5,
			probability = $6, forecast_category = $7, owner_id = $8, account_id = $9,
			primary_contact_id = $10, priority = $11, type = $12, source = $13,
			description = $14, tags = $15, custom_fields = $16, won_at = $17, lost_at = $18,
			close_reason_id = $19, close_notes = $20, competitor = $21, stage_entered_at = $22,
			updated_at = NOW()
		WHERE id = $23 AND deleted_at IS NULL
		RETURNING weighted_amount, updated_at`

	err := t.tx.QueryRowContext(ctx, query,
		o.Name, o.StageID, o.Amount, o.Currency, o.CloseDate,
		o.Probability, string(o.ForecastCategory), o.OwnerID, o.AccountID,
		o.PrimaryContactID, string(o.Priority), nullString(o.Type), nullString(o.Source),
		nullString(o.Description), tagArray(o.Tags), o.CustomFields, o.WonAt, o.LostAt,
		o.CloseReasonID, nullString(o.CloseNotes), nullString(o.Competitor), o.StageEnteredAt,
		o.ID,
	).Scan(&o.WeightedAmount, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &opportunity.NotFoundError{Resource: "opportunity", ID: o.ID.String()}
		}

		return fmt.Errorf("updating opportunity: %w", err)
	}

	return nil
}

func (t *Tx) SoftDeleteOpportunity(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE opportunities
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	if _, err := t.tx.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting opportunity: %w", err)
	}

	return nil
}

func (t *Tx) InsertStageHistory(ctx context.Context, e *opportunity.StageHistoryEntry) error {
	query := `
		INSERT INTO opportunity_stage_history (
			id, opportunity_id, from_stage_id, to_stage_id, to_stage_name,
			changed_by, time_in_stage_seconds, note, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var seconds sql.NullInt64
	if e.TimeInStage != nil {
		seconds = sql.NullInt64{Int64: int64(e.TimeInStage.Seconds()), Valid: true}
	}

	_, err := t.tx.ExecContext(ctx, query,
		e.ID, e.OpportunityID, e.FromStageID, e.ToStageID, e.ToStageName,
		e.ChangedBy, seconds, nullString(e.Note), e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting stage history: %w", err)
	}

	return nil
}

func (t *Tx) ListLineItems(ctx context.Context, opportunityID uuid.UUID) ([]*pricing.LineItem, error) {
	return listLineItems(ctx, t.tx, opportunityID)
}

// InsertLineItems inserts items in order; bundle parents precede their rows.
func (t *Tx) InsertLineItems(ctx context.Context, items []*pricing.LineItem) error {
	query := `
		INSERT INTO opportunity_line_items (
			id, opportunity_id, item_type, parent_line_item_id, product_id, name, quantity,
			unit_price, discount_percent, discount_amount, total_price, billing_frequency,
			sort_order, is_optional, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
		RETURNING created_at`

	for _, li := range items {
		percent, amount := li.Discount.Columns()

		err := t.tx.QueryRowContext(ctx, query,
			li.ID, li.OpportunityID, string(li.Type), li.ParentID, li.ProductID, li.Name, li.Quantity,
			li.UnitPrice, nullDecimal(percent), nullDecimal(amount), li.TotalPrice,
			nullString(li.BillingFrequency), li.SortOrder, li.IsOptional,
		).Scan(&li.CreatedAt)
		if err != nil {
			return fmt.Errorf("inserting line item %s: %w", li.Name, err)
		}
	}

	return nil
}

func (t *Tx) UpdateLineItem(ctx context.Context, li *pricing.LineItem) error {
	query := `
		UPDATE opportunity_line_items
		SET name = $1, quantity = $2, unit_price = $3, discount_percent = $4, discount_amount = $5,
			total_price = $6, billing_frequency = $7, sort_order = $8, is_optional = $9,
			updated_at = NOW()
		WHERE id = $10 AND opportunity_id = $11
		RETURNING updated_at`

	percent, amount := li.Discount.Columns()

	err := t.tx.QueryRowContext(ctx, query,
		li.Name, li.Quantity, li.UnitPrice, nullDecimal(percent), nullDecimal(amount),
		li.TotalPrice, nullString(li.BillingFrequency), li.SortOrder, li.IsOptional,
		li.ID, li.OpportunityID,
	).Scan(&li.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &opportunity.NotFoundError{Resource: "line item", ID: li.ID.String()}
		}

		return fmt.Errorf("updating line item: %w", err)
	}

	return nil
}

func (t *Tx) DeleteLineItems(ctx context.Context, ids []uuid.UUID) error {
	query := `DELETE FROM opportunity_line_items WHERE id = ANY($1::uuid[])`

	if _, err := t.tx.ExecContext(ctx, query, uuidArray(ids)); err != nil {
		return fmt.Errorf("deleting line items: %w", err)
	}

	return nil
}

// UpsertContactRole inserts the association or updates the existing one for
// the same contact.
func (t *Tx) UpsertContactRole(ctx context.Context, r *opportunity.ContactRole) error {
	query := `
		INSERT INTO opportunity_contact_roles (id, opportunity_id, contact_id, role, is_primary, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (opportunity_id, contact_id) DO UPDATE
		SET role = EXCLUDED.role, is_primary = EXCLUDED.is_primary, notes = EXCLUDED.notes, updated_at = NOW()
		RETURNING id, created_at, updated_at`

	err := t.tx.QueryRowContext(ctx, query,
		r.ID, r.OpportunityID, r.ContactID, nullString(r.Role), r.IsPrimary, nullString(r.Notes), r.CreatedAt,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return &opportunity.ConflictError{Message: "opportunity already has a primary contact"}
		}

		return fmt.Errorf("upserting contact role: %w", err)
	}

	return nil
}

func (t *Tx) ClearPrimaryContactRoles(ctx context.Context, opportunityID, exceptContactID uuid.UUID) error {
	query := `
		UPDATE opportunity_contact_roles
		SET is_primary = FALSE, updated_at = NOW()
		WHERE opportunity_id = $1 AND contact_id <> $2 AND is_primary`

	if _, err := t.tx.ExecContext(ctx, query, opportunityID, exceptContactID); err != nil {
		return fmt.Errorf("clearing primary contact roles: %w", err)
	}

	return nil
}

func (t *Tx) DeleteContactRole(ctx context.Context, opportunityID, contactID uuid.UUID) (*opportunity.ContactRole, error) {
	query := `
		DELETE FROM opportunity_contact_roles
		WHERE opportunity_id = $1 AND contact_id = $2
		RETURNING id, role, is_primary, notes, created_at`

	r := &opportunity.ContactRole{OpportunityID: opportunityID, ContactID: contactID}

	var role, notes sql.NullString

	err := t.tx.QueryRowContext(ctx, query, opportunityID, contactID).
		Scan(&r.ID, &role, &r.IsPrimary, &notes, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &opportunity.NotFoundError{Resource: "contact role", ID: contactID.String()}
		}

		return nil, fmt.Errorf("deleting contact role: %w", err)
	}

	r.Role = role.String
	r.Notes = notes.String

	return r, nil
}
