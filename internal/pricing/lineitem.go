// Package pricing computes line item totals, expands bundle products into
// parent, child and discount rows and derives opportunity amounts.
package pricing

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrInvalidPrice     = errors.New("unit price must not be negative")
	ErrLineItemNotFound = errors.New("line item not found")
	ErrDerivedRow       = errors.New("bundle parent and discount rows are priced from the bundle")
)

type ItemType string

const (
	ItemStandard       ItemType = "standard"
	ItemBundleParent   ItemType = "bundle_parent"
	ItemBundleChild    ItemType = "bundle_child"
	ItemBundleDiscount ItemType = "bundle_discount"
)

type LineItem struct {
	ID               uuid.UUID
	OpportunityID    uuid.UUID
	Type             ItemType
	ParentID         *uuid.UUID
	ProductID        *uuid.UUID
	Name             string
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	Discount         Discount
	TotalPrice       decimal.Decimal
	BillingFrequency string
	SortOrder        int
	IsOptional       bool
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

// Derived reports whether the row's price comes from its bundle rather than
// from user input.
func (li *LineItem) Derived() bool {
	return li.Type == ItemBundleParent || li.Type == ItemBundleDiscount
}

// LineTotal is qty*price minus the discount, rounded to cents.
func LineTotal(qty, unitPrice decimal.Decimal, d Discount) decimal.Decimal {
	gross := qty.Mul(unitPrice)
	return gross.Sub(d.Amount(gross)).Round(2)
}

// Recalculate sums the totals of items. The bool is false when there are no
// items, in which case the opportunity keeps its manually entered amount.
func Recalculate(items []*LineItem) (decimal.Decimal, bool) {
	if len(items) == 0 {
		return decimal.Zero, false
	}

	sum := decimal.Zero
	for _, li := range items {
		sum = sum.Add(li.TotalPrice)
	}

	return sum.Round(2), true
}

// RemovalSet returns the ids deleted when id is removed: the row itself and,
// for a bundle parent, every row linked to it.
func RemovalSet(items []*LineItem, id uuid.UUID) ([]uuid.UUID, error) {
	var target *LineItem

	for _, li := range items {
		if li.ID == id {
			target = li
			break
		}
	}

	if target == nil {
		return nil, ErrLineItemNotFound
	}

	ids := []uuid.UUID{target.ID}

	if target.Type != ItemBundleParent {
		return ids, nil
	}

	for _, li := range items {
		if li.ParentID != nil && *li.ParentID == target.ID {
			ids = append(ids, li.ID)
		}
	}

	return ids, nil
}

// LineItemUpdate is a partial update. Discount takes precedence over the
// legacy DiscountPercent/DiscountAmount pair; when neither is set the stored
// discount is kept.
type LineItemUpdate struct {
	Name             *string
	Quantity         *decimal.Decimal
	UnitPrice        *decimal.Decimal
	Discount         *Discount
	DiscountPercent  *decimal.Decimal
	DiscountAmount   *decimal.Decimal
	BillingFrequency *string
	SortOrder        *int
	IsOptional       *bool
}

func (u LineItemUpdate) touchesPrice() bool {
	return u.Quantity != nil || u.UnitPrice != nil || u.Discount != nil ||
		u.DiscountPercent != nil || u.DiscountAmount != nil
}

// ApplyUpdate applies u to li and recomputes its total.
func ApplyUpdate(li *LineItem, u LineItemUpdate) error {
	if li.Derived() && u.touchesPrice() {
		return ErrDerivedRow
	}

	discount := li.Discount

	switch {
	case u.Discount != nil:
		discount = *u.Discount
	case u.DiscountPercent != nil || u.DiscountAmount != nil:
		d, err := NewDiscount(u.DiscountPercent, u.DiscountAmount)
		if err != nil {
			return err
		}

		discount = d
	}

	qty := li.Quantity
	if u.Quantity != nil {
		qty = *u.Quantity
	}

	price := li.UnitPrice
	if u.UnitPrice != nil {
		price = *u.UnitPrice
	}

	if !li.Derived() {
		if err := validateLine(qty, price, discount); err != nil {
			return err
		}
	}

	li.Quantity = qty
	li.UnitPrice = price
	li.Discount = discount
	li.TotalPrice = LineTotal(qty, price, discount)

	if u.Name != nil {
		li.Name = *u.Name
	}

	if u.BillingFrequency != nil {
		li.BillingFrequency = *u.BillingFrequency
	}

	if u.SortOrder != nil {
		li.SortOrder = *u.SortOrder
	}

	if u.IsOptional != nil {
		li.IsOptional = *u.IsOptional
	}

	return nil
}

func validateLine(qty, price decimal.Decimal, d Discount) error {
	if !qty.IsPositive() {
		return ErrInvalidQuantity
	}

	if price.IsNegative() {
		return ErrInvalidPrice
	}

	if err := d.Validate(); err != nil {
		return err
	}

	return d.within(qty.Mul(price))
}

// Summary is the subtotal/discount/total breakdown of a set of line items.
type Summary struct {
	Subtotal  decimal.Decimal
	Discounts decimal.Decimal
	Total     decimal.Decimal
}

func Summarize(items []*LineItem) Summary {
	var s Summary

	for _, li := range items {
		if li.Type == ItemBundleDiscount {
			s.Discounts = s.Discounts.Sub(li.TotalPrice)
			continue
		}

		gross := li.Quantity.Mul(li.UnitPrice)
		s.Subtotal = s.Subtotal.Add(gross)
		s.Discounts = s.Discounts.Add(gross.Sub(li.TotalPrice))
	}

	s.Subtotal = s.Subtotal.Round(2)
	s.Discounts = s.Discounts.Round(2)
	s.Total = s.Subtotal.Sub(s.Discounts)

	return s
}
