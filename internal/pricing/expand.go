package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSpec is the catalog data the engine needs about the added product.
type ProductSpec struct {
	ID               uuid.UUID
	Name             string
	BasePrice        decimal.Decimal
	BillingFrequency string
}

// BundleSpec describes the configured content of a bundle product.
type BundleSpec struct {
	Discount Discount
	Children []ChildSpec
}

type ChildSpec struct {
	ProductID        uuid.UUID
	Name             string
	BasePrice        decimal.Decimal
	PriceOverride    *decimal.Decimal
	Quantity         decimal.Decimal
	IsOptional       bool
	BillingFrequency string
}

// AddInput is a request to add a product to an opportunity. UnitPrice
// defaults to the product's base price.
type AddInput struct {
	ProductID        uuid.UUID
	Quantity         decimal.Decimal
	UnitPrice        *decimal.Decimal
	Discount         Discount
	BillingFrequency string
	IsOptional       bool
}

// Expand returns the rows to insert for in. A nil bundle, or a bundle with no
// children, yields a single standard row. Otherwise it yields a parent row
// carrying no price, one child row per configured item and, when the bundle
// has a discount, a negative discount row. Sort orders start at nextSort.
func Expand(opportunityID uuid.UUID, product ProductSpec, bundle *BundleSpec, in AddInput, nextSort int) ([]*LineItem, error) {
	price := product.BasePrice
	if in.UnitPrice != nil {
		price = *in.UnitPrice
	}

	billing := in.BillingFrequency
	if billing == "" {
		billing = product.BillingFrequency
	}

	if bundle == nil || len(bundle.Children) == 0 {
		if err := validateLine(in.Quantity, price, in.Discount); err != nil {
			return nil, err
		}

		return []*LineItem{{
			ID:               uuid.New(),
			OpportunityID:    opportunityID,
			Type:             ItemStandard,
			ProductID:        new(product.ID),
			Name:             product.Name,
			Quantity:         in.Quantity,
			UnitPrice:        price,
			Discount:         in.Discount,
			TotalPrice:       LineTotal(in.Quantity, price, in.Discount),
			BillingFrequency: billing,
			SortOrder:        nextSort,
			IsOptional:       in.IsOptional,
		}}, nil
	}

	if err := bundle.Discount.Validate(); err != nil {
		return nil, err
	}

	parent := &LineItem{
		ID:               uuid.New(),
		OpportunityID:    opportunityID,
		Type:             ItemBundleParent,
		ProductID:        new(product.ID),
		Name:             product.Name,
		Quantity:         decimal.NewFromInt(1),
		UnitPrice:        decimal.Zero,
		TotalPrice:       decimal.Zero,
		BillingFrequency: billing,
		SortOrder:        nextSort,
		IsOptional:       in.IsOptional,
	}

	rows := []*LineItem{parent}
	childSum := decimal.Zero

	for i, c := range bundle.Children {
		childPrice := c.BasePrice
		if c.PriceOverride != nil {
			childPrice = *c.PriceOverride
		}

		if err := validateLine(c.Quantity, childPrice, NoDiscount()); err != nil {
			return nil, err
		}

		childBilling := c.BillingFrequency
		if childBilling == "" {
			childBilling = billing
		}

		child := &LineItem{
			ID:               uuid.New(),
			OpportunityID:    opportunityID,
			Type:             ItemBundleChild,
			ParentID:         new(parent.ID),
			ProductID:        new(c.ProductID),
			Name:             c.Name,
			Quantity:         c.Quantity,
			UnitPrice:        childPrice,
			TotalPrice:       LineTotal(c.Quantity, childPrice, NoDiscount()),
			BillingFrequency: childBilling,
			SortOrder:        nextSort + 1 + i,
			IsOptional:       c.IsOptional,
		}

		childSum = childSum.Add(child.TotalPrice)
		rows = append(rows, child)
	}

	if bundle.Discount.IsZero() {
		return rows, nil
	}

	if err := bundle.Discount.within(childSum); err != nil {
		return nil, err
	}

	amount := bundle.Discount.Amount(childSum).Round(2)

	rows = append(rows, &LineItem{
		ID:               uuid.New(),
		OpportunityID:    opportunityID,
		Type:             ItemBundleDiscount,
		ParentID:         new(parent.ID),
		Name:             product.Name + " discount",
		Quantity:         decimal.NewFromInt(1),
		UnitPrice:        amount.Neg(),
		TotalPrice:       amount.Neg(),
		BillingFrequency: billing,
		SortOrder:        nextSort + 1 + len(bundle.Children),
	})

	return rows, nil
}

// NextSortOrder is one past the highest sort order in items.
func NextSortOrder(items []*LineItem) int {
	next := 0
	for _, li := range items {
		if li.SortOrder >= next {
			next = li.SortOrder + 1
		}
	}

	return next
}
