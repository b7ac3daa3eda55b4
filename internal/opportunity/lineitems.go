package opportunity

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/MrJamesThe3rd/dealdesk/internal/catalog"
	"github.com/MrJamesThe3rd/dealdesk/internal/pricing"
	"github.com/MrJamesThe3rd/dealdesk/internal/sideeffect"
)

const lineItemEntity = "opportunity_line_item"

// LineItemChange is the outcome of a line item mutation: the affected rows
// and the opportunity amount after recalculation.
type LineItemChange struct {
	Items  []*pricing.LineItem
	Amount decimal.Decimal
}

func (s *Service) ListLineItems(ctx context.Context, id uuid.UUID, actor Actor) (_ []*pricing.LineItem, err error) {
	ctx, end := s.span(ctx, "ListLineItems", attribute.String("opportunity.id", id.String()))
	defer end(&err)

	if _, err := s.visible(ctx, id, actor); err != nil {
		return nil, err
	}

	items, err := s.repo.ListLineItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing line items: %w", err)
	}

	return items, nil
}

// AddLineItem adds a product to the opportunity. Bundle products expand into
// parent, child and discount rows.
func (s *Service) AddLineItem(ctx context.Context, id uuid.UUID, in pricing.AddInput, actor Actor) (_ *LineItemChange, err error) {
	ctx, end := s.span(ctx, "AddLineItem",
		attribute.String("opportunity.id", id.String()),
		attribute.String("product.id", in.ProductID.String()),
	)
	defer end(&err)

	product, bundle, err := s.lookupProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	change := &LineItemChange{}

	_, err = s.mutate(ctx, id, actor, func(ctx context.Context, tx Tx, o *Opportunity, q *sideeffect.Queue) error {
		if err := requireOpen(o, "add_line_item"); err != nil {
			return err
		}

		existing, err := tx.ListLineItems(ctx, o.ID)
		if err != nil {
			return fmt.Errorf("listing line items: %w", err)
		}

		rows, err := pricing.Expand(o.ID, product.Spec(), bundle, in, pricing.NextSortOrder(existing))
		if err != nil {
			return pricingError(err, uuid.Nil)
		}

		if err := tx.InsertLineItems(ctx, rows); err != nil {
			return fmt.Errorf("inserting line items: %w", err)
		}

		if err := s.recalculateAmount(ctx, tx, o, append(existing, rows...)); err != nil {
			return err
		}

		change.Items = rows
		change.Amount = o.Amount

		q.Audit(sideeffect.AuditEntry{
			EntityType: lineItemEntity,
			EntityID:   rows[0].ID,
			Action:     "create",
			NewValues: map[string]any{
				"opportunity_id": o.ID.String(),
				"product_id":     product.ID.String(),
				"type":           string(rows[0].Type),
				"rows":           len(rows),
				"amount":         o.Amount.String(),
			},
			ChangedBy: actor.ID,
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return change, nil
}

func (s *Service) lookupProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, *pricing.BundleSpec, error) {
	product, err := s.products.GetProduct(ctx, id)
	if errors.Is(err, catalog.ErrProductNotFound) {
		return nil, nil, notFound("product", id)
	}

	if err != nil {
		return nil, nil, fmt.Errorf("looking up product: %w", err)
	}

	if !product.Active {
		return nil, nil, fieldError("product_id", "product is inactive")
	}

	if !product.IsBundle {
		return product, nil, nil
	}

	cfg, err := s.products.GetBundleConfig(ctx, id)
	if errors.Is(err, catalog.ErrBundleNotFound) {
		return product, nil, nil
	}

	if err != nil {
		return nil, nil, fmt.Errorf("looking up bundle configuration: %w", err)
	}

	return product, cfg.Spec(), nil
}

// UpdateLineItem changes one row and recomputes its total and the opportunity amount.
func (s *Service) UpdateLineItem(ctx context.Context, id, itemID uuid.UUID, u pricing.LineItemUpdate, actor Actor) (_ *LineItemChange, err error) {
	ctx, end := s.span(ctx, "UpdateLineItem",
		attribute.String("opportunity.id", id.String()),
		attribute.String("line_item.id", itemID.String()),
	)
	defer end(&err)

	change := &LineItemChange{}

	_, err = s.mutate(ctx, id, actor, func(ctx context.Context, tx Tx, o *Opportunity, q *sideeffect.Queue) error {
		if err := requireOpen(o, "update_line_item"); err != nil {
			return err
		}

		items, err := tx.ListLineItems(ctx, o.ID)
		if err != nil {
			return fmt.Errorf("listing line items: %w", err)
		}

		idx := slices.IndexFunc(items, func(li *pricing.LineItem) bool { return li.ID == itemID })
		if idx < 0 {
			return notFound("line item", itemID)
		}

		item := *items[idx]
		before := item.TotalPrice

		if err := pricing.ApplyUpdate(&item, u); err != nil {
			return pricingError(err, itemID)
		}

		if err := tx.UpdateLineItem(ctx, &item); err != nil {
			return fmt.Errorf("updating line item: %w", err)
		}

		items[idx] = &item

		if err := s.recalculateAmount(ctx, tx, o, items); err != nil {
			return err
		}

		change.Items = []*pricing.LineItem{&item}
		change.Amount = o.Amount

		q.Audit(sideeffect.AuditEntry{
			EntityType:     lineItemEntity,
			EntityID:       item.ID,
			Action:         "update",
			PreviousValues: map[string]any{"total_price": before.String()},
			NewValues: map[string]any{
				"total_price": item.TotalPrice.String(),
				"amount":      o.Amount.String(),
			},
			ChangedBy: actor.ID,
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return change, nil
}

// RemoveLineItem deletes a row. Removing a bundle parent removes its child
// and discount rows too. When no rows remain the amount is left as it was.
func (s *Service) RemoveLineItem(ctx context.Context, id, itemID uuid.UUID, actor Actor) (_ *LineItemChange, err error) {
	ctx, end := s.span(ctx, "RemoveLineItem",
		attribute.String("opportunity.id", id.String()),
		attribute.String("line_item.id", itemID.String()),
	)
	defer end(&err)

	change := &LineItemChange{}

	_, err = s.mutate(ctx, id, actor, func(ctx context.Context, tx Tx, o *Opportunity, q *sideeffect.Queue) error {
		if err := requireOpen(o, "remove_line_item"); err != nil {
			return err
		}

		items, err := tx.ListLineItems(ctx, o.ID)
		if err != nil {
			return fmt.Errorf("listing line items: %w", err)
		}

		ids, err := pricing.RemovalSet(items, itemID)
		if err != nil {
			return pricingError(err, itemID)
		}

		if err := tx.DeleteLineItems(ctx, ids); err != nil {
			return fmt.Errorf("deleting line items: %w", err)
		}

		var removed, remaining []*pricing.LineItem

		for _, li := range items {
			if slices.Contains(ids, li.ID) {
				removed = append(removed, li)
			} else {
				remaining = append(remaining, li)
			}
		}

		if err := s.recalculateAmount(ctx, tx, o, remaining); err != nil {
			return err
		}

		change.Items = removed
		change.Amount = o.Amount

		q.Audit(sideeffect.AuditEntry{
			EntityType: lineItemEntity,
			EntityID:   itemID,
			Action:     "delete",
			PreviousValues: map[string]any{
				"opportunity_id": o.ID.String(),
				"rows":           len(ids),
			},
			NewValues: map[string]any{"amount": o.Amount.String()},
			ChangedBy: actor.ID,
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return change, nil
}

// recalculateAmount overwrites the opportunity amount with the sum of its
// line items. With no line items the manually entered amount is kept. A
// bundle's fixed discount can outgrow its children after they are repriced or
// removed; such a change is rejected rather than producing a negative amount.
func (s *Service) recalculateAmount(ctx context.Context, tx Tx, o *Opportunity, items []*pricing.LineItem) error {
	amount, ok := pricing.Recalculate(items)
	if !ok {
		return nil
	}

	if amount.IsNegative() {
		return fieldError("amount", "line items would make the amount negative")
	}

	o.Amount = amount

	if err := tx.UpdateOpportunity(ctx, o); err != nil {
		return fmt.Errorf("updating opportunity amount: %w", err)
	}

	return nil
}

func requireOpen(o *Opportunity, op string) error {
	if o.Status() != StatusOpen {
		return invalidState(op, "opportunity is closed; reopen it first")
	}

	return nil
}

// pricingError maps pricing engine failures onto the service error taxonomy.
func pricingError(err error, itemID uuid.UUID) error {
	switch {
	case errors.Is(err, pricing.ErrLineItemNotFound):
		return notFound("line item", itemID)
	case errors.Is(err, pricing.ErrInvalidQuantity):
		return fieldError("quantity", err.Error())
	case errors.Is(err, pricing.ErrInvalidPrice):
		return fieldError("unit_price", err.Error())
	case errors.Is(err, pricing.ErrConflictingDiscount), errors.Is(err, pricing.ErrInvalidDiscount):
		return fieldError("discount", err.Error())
	case errors.Is(err, pricing.ErrDerivedRow):
		return invalidState("update_line_item", err.Error())
	default:
		return err
	}
}
