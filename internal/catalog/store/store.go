package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/catalog"
	"github.com/MrJamesThe3rd/dealdesk/internal/pricing"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	query := `
		SELECT id, name, sku, base_price, is_bundle, billing_frequency, is_active
		FROM products
		WHERE id = $1 AND deleted_at IS NULL`

	var (
		p       catalog.Product
		sku     sql.NullString
		billing sql.NullString
	)

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &sku, &p.BasePrice, &p.IsBundle, &billing, &p.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrProductNotFound
		}

		return nil, fmt.Errorf("getting product: %w", err)
	}

	p.SKU = sku.String
	p.BillingFrequency = billing.String

	return &p, nil
}

func (s *Store) GetBundleConfig(ctx context.Context, productID uuid.UUID) (*catalog.BundleConfig, error) {
	query := `
		SELECT product_id, bundle_type, min_items, max_items, discount_type, discount_value
		FROM product_bundles
		WHERE product_id = $1`

	var (
		cfg           catalog.BundleConfig
		minItems      sql.NullInt64
		maxItems      sql.NullInt64
		discountType  sql.NullString
		discountValue decimal.NullDecimal
	)

	err := s.db.QueryRowContext(ctx, query, productID).Scan(
		&cfg.ProductID, &cfg.BundleType, &minItems, &maxItems, &discountType, &discountValue,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrBundleNotFound
		}

		return nil, fmt.Errorf("getting bundle config: %w", err)
	}

	if minItems.Valid {
		cfg.MinItems = new(int(minItems.Int64))
	}

	if maxItems.Valid {
		cfg.MaxItems = new(int(maxItems.Int64))
	}

	if discountValue.Valid {
		switch pricing.DiscountKind(discountType.String) {
		case pricing.DiscountPercent:
			cfg.Discount = pricing.Percent(discountValue.Decimal)
		case pricing.DiscountFixed:
			cfg.Discount = pricing.Fixed(discountValue.Decimal)
		}
	}

	items, err := s.listBundleItems(ctx, productID)
	if err != nil {
		return nil, err
	}

	cfg.Items = items

	return &cfg, nil
}

func (s *Store) listBundleItems(ctx context.Context, productID uuid.UUID) ([]catalog.BundleItem, error) {
	query := `
		SELECT bi.child_product_id, p.name, p.base_price, p.billing_frequency,
			bi.quantity, bi.price_override, bi.is_optional, bi.sort_order
		FROM product_bundle_items bi
		JOIN products p ON p.id = bi.child_product_id
		WHERE bi.bundle_product_id = $1
		ORDER BY bi.sort_order ASC`

	rows, err := s.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("listing bundle items: %w", err)
	}
	defer rows.Close()

	var items []catalog.BundleItem

	for rows.Next() {
		var (
			it       catalog.BundleItem
			billing  sql.NullString
			override decimal.NullDecimal
		)

		if err := rows.Scan(
			&it.ProductID, &it.Name, &it.BasePrice, &billing,
			&it.Quantity, &override, &it.IsOptional, &it.SortOrder,
		); err != nil {
			return nil, fmt.Errorf("scanning bundle item: %w", err)
		}

		it.BillingFrequency = billing.String

		if override.Valid {
			it.PriceOverride = new(override.Decimal)
		}

		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bundle item rows: %w", err)
	}

	return items, nil
}
