package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/pricing"
)

const selectLineItemColumns = `
	li.id, li.opportunity_id, li.item_type, li.parent_line_item_id, li.product_id, li.name,
	li.quantity, li.unit_price, li.discount_percent, li.discount_amount, li.total_price,
	li.billing_frequency, li.sort_order, li.is_optional, li.created_at, li.updated_at
`

func scanLineItem(s scanner) (*pricing.LineItem, error) {
	var (
		li              pricing.LineItem
		itemType        string
		percent, amount decimal.NullDecimal
		billing         sql.NullString
	)

	if err := s.Scan(
		&li.ID, &li.OpportunityID, &itemType, &li.ParentID, &li.ProductID, &li.Name,
		&li.Quantity, &li.UnitPrice, &percent, &amount, &li.TotalPrice,
		&billing, &li.SortOrder, &li.IsOptional, &li.CreatedAt, &li.UpdatedAt,
	); err != nil {
		return nil, err
	}

	li.Type = pricing.ItemType(itemType)
	li.Discount = pricing.DiscountFromColumns(percent.Decimal, amount.Decimal)
	li.BillingFrequency = billing.String

	return &li, nil
}

func listLineItems(ctx context.Context, q querier, opportunityID uuid.UUID) ([]*pricing.LineItem, error) {
	query := `SELECT ` + selectLineItemColumns + `
		FROM opportunity_line_items li
		WHERE li.opportunity_id = $1
		ORDER BY li.sort_order, li.created_at`

	rows, err := q.QueryContext(ctx, query, opportunityID)
	if err != nil {
		return nil, fmt.Errorf("listing line items: %w", err)
	}
	defer rows.Close()

	items := []*pricing.LineItem{}

	for rows.Next() {
		li, err := scanLineItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning line item: %w", err)
		}

		items = append(items, li)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating line items: %w", err)
	}

	return items, nil
}
