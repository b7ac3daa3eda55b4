// Package catalog is the read-only product and bundle catalog consumed by
// the line item pricing engine.
package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/pricing"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrBundleNotFound  = errors.New("bundle configuration not found")
)

type BundleType string

const (
	BundleFixed    BundleType = "fixed"
	BundleFlexible BundleType = "flexible"
)

type Product struct {
	ID               uuid.UUID
	Name             string
	SKU              string
	BasePrice        decimal.Decimal
	IsBundle         bool
	BillingFrequency string
	Active           bool
}

type BundleConfig struct {
	ProductID  uuid.UUID
	BundleType BundleType
	MinItems   *int
	MaxItems   *int
	Discount   pricing.Discount
	Items      []BundleItem
}

// BundleItem is one configured child. Name, BasePrice and BillingFrequency
// are read from the child product.
type BundleItem struct {
	ProductID        uuid.UUID
	Name             string
	BasePrice        decimal.Decimal
	BillingFrequency string
	Quantity         decimal.Decimal
	PriceOverride    *decimal.Decimal
	IsOptional       bool
	SortOrder        int
}

//go:generate mockgen -source=catalog.go -destination=catalog_mock.go -package=catalog
type Catalog interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	GetBundleConfig(ctx context.Context, productID uuid.UUID) (*BundleConfig, error)
}

func (p *Product) Spec() pricing.ProductSpec {
	return pricing.ProductSpec{
		ID:               p.ID,
		Name:             p.Name,
		BasePrice:        p.BasePrice,
		BillingFrequency: p.BillingFrequency,
	}
}

func (b *BundleConfig) Spec() *pricing.BundleSpec {
	spec := &pricing.BundleSpec{
		Discount: b.Discount,
		Children: make([]pricing.ChildSpec, 0, len(b.Items)),
	}

	for _, it := range b.Items {
		spec.Children = append(spec.Children, pricing.ChildSpec{
			ProductID:        it.ProductID,
			Name:             it.Name,
			BasePrice:        it.BasePrice,
			PriceOverride:    it.PriceOverride,
			Quantity:         it.Quantity,
			IsOptional:       it.IsOptional,
			BillingFrequency: it.BillingFrequency,
		})
	}

	return spec
}
