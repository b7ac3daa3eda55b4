package pricing_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dealdesk/internal/pricing"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name     string
		qty      string
		price    string
		discount pricing.Discount
		want     string
	}{
		{name: "NoDiscount", qty: "2", price: "49.99", discount: pricing.NoDiscount(), want: "99.98"},
		{name: "Fixed", qty: "3", price: "100", discount: pricing.Fixed(dec("30")), want: "270"},
		{name: "Percent", qty: "4", price: "25", discount: pricing.Percent(dec("15")), want: "85"},
		{name: "RoundsToCents", qty: "1", price: "10", discount: pricing.Percent(dec("33.333")), want: "6.67"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.LineTotal(dec(tt.qty), dec(tt.price), tt.discount)
			assert.True(t, dec(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestNewDiscount(t *testing.T) {
	ten := dec("10")
	zero := decimal.Zero

	d, err := pricing.NewDiscount(&ten, nil)
	require.NoError(t, err)
	assert.Equal(t, pricing.DiscountPercent, d.Kind())

	d, err = pricing.NewDiscount(&zero, &ten)
	require.NoError(t, err)
	assert.Equal(t, pricing.DiscountFixed, d.Kind())

	d, err = pricing.NewDiscount(nil, nil)
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = pricing.NewDiscount(&ten, &ten)
	assert.ErrorIs(t, err, pricing.ErrConflictingDiscount)
}

func TestDiscount_ColumnsRoundTrip(t *testing.T) {
	for _, d := range []pricing.Discount{pricing.NoDiscount(), pricing.Percent(dec("12.5")), pricing.Fixed(dec("40"))} {
		p, a := d.Columns()
		assert.Equal(t, d, pricing.DiscountFromColumns(p, a))
	}
}

func TestDiscount_JSON(t *testing.T) {
	var d pricing.Discount
	require.NoError(t, json.Unmarshal([]byte(`{"type":"percent","value":"10"}`), &d))
	assert.Equal(t, pricing.DiscountPercent, d.Kind())
	assert.True(t, dec("10").Equal(d.Value()))

	data, err := json.Marshal(pricing.Fixed(dec("5")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"fixed","value":"5"}`, string(data))

	assert.Error(t, json.Unmarshal([]byte(`{"type":"bogus","value":"1"}`), &d))
}

func TestExpand_Standard(t *testing.T) {
	oppID := uuid.New()
	product := pricing.ProductSpec{ID: uuid.New(), Name: "Seat licence", BasePrice: dec("100"), BillingFrequency: "annual"}

	rows, err := pricing.Expand(oppID, product, nil, pricing.AddInput{
		ProductID: product.ID,
		Quantity:  dec("3"),
		Discount:  pricing.Fixed(dec("30")),
	}, 4)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, pricing.ItemStandard, row.Type)
	assert.True(t, dec("270").Equal(row.TotalPrice))
	assert.Equal(t, 4, row.SortOrder)
	assert.Equal(t, "annual", row.BillingFrequency)

	amount, ok := pricing.Recalculate(rows)
	assert.True(t, ok)
	assert.True(t, dec("270").Equal(amount))
}

func TestExpand_BundleWithPercentDiscount(t *testing.T) {
	oppID := uuid.New()
	product := pricing.ProductSpec{ID: uuid.New(), Name: "Starter pack", BasePrice: dec("999")}
	bundle := &pricing.BundleSpec{
		Discount: pricing.Percent(dec("10")),
		Children: []pricing.ChildSpec{
			{ProductID: uuid.New(), Name: "Onboarding", BasePrice: dec("80"), PriceOverride: new(dec("50")), Quantity: dec("1")},
			{ProductID: uuid.New(), Name: "Support", BasePrice: dec("75"), Quantity: dec("1"), IsOptional: true},
		},
	}

	rows, err := pricing.Expand(oppID, product, bundle, pricing.AddInput{ProductID: product.ID, Quantity: dec("1")}, 0)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	parent, first, second, discount := rows[0], rows[1], rows[2], rows[3]

	assert.Equal(t, pricing.ItemBundleParent, parent.Type)
	assert.True(t, parent.UnitPrice.IsZero())
	assert.True(t, parent.TotalPrice.IsZero())

	assert.Equal(t, pricing.ItemBundleChild, first.Type)
	assert.True(t, dec("50").Equal(first.TotalPrice))
	assert.Equal(t, parent.ID, *first.ParentID)

	assert.True(t, dec("75").Equal(second.TotalPrice))
	assert.True(t, second.IsOptional)

	assert.Equal(t, pricing.ItemBundleDiscount, discount.Type)
	assert.True(t, dec("-12.50").Equal(discount.TotalPrice), "got %s", discount.TotalPrice)
	assert.Equal(t, parent.ID, *discount.ParentID)
	assert.Nil(t, discount.ProductID)

	amount, ok := pricing.Recalculate(rows)
	assert.True(t, ok)
	assert.True(t, dec("112.50").Equal(amount))

	summary := pricing.Summarize(rows)
	assert.True(t, dec("125").Equal(summary.Subtotal))
	assert.True(t, dec("12.5").Equal(summary.Discounts))
	assert.True(t, dec("112.5").Equal(summary.Total))
}

func TestExpand_BundleFixedDiscountAndEmptyBundle(t *testing.T) {
	product := pricing.ProductSpec{ID: uuid.New(), Name: "Pack", BasePrice: dec("40")}

	rows, err := pricing.Expand(uuid.New(), product, &pricing.BundleSpec{
		Discount: pricing.Fixed(dec("20")),
		Children: []pricing.ChildSpec{{ProductID: uuid.New(), Name: "A", BasePrice: dec("60"), Quantity: dec("2")}},
	}, pricing.AddInput{ProductID: product.ID, Quantity: dec("1")}, 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.True(t, dec("-20").Equal(rows[2].TotalPrice))

	rows, err = pricing.Expand(uuid.New(), product, &pricing.BundleSpec{Discount: pricing.Percent(dec("10"))},
		pricing.AddInput{ProductID: product.ID, Quantity: dec("2")}, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, pricing.ItemStandard, rows[0].Type)
	assert.True(t, dec("80").Equal(rows[0].TotalPrice))
}

func TestExpand_RejectsBadInput(t *testing.T) {
	product := pricing.ProductSpec{ID: uuid.New(), Name: "Thing", BasePrice: dec("10")}

	_, err := pricing.Expand(uuid.New(), product, nil, pricing.AddInput{Quantity: decimal.Zero}, 0)
	assert.ErrorIs(t, err, pricing.ErrInvalidQuantity)

	_, err = pricing.Expand(uuid.New(), product, nil, pricing.AddInput{Quantity: dec("1"), UnitPrice: new(dec("-1"))}, 0)
	assert.ErrorIs(t, err, pricing.ErrInvalidPrice)

	_, err = pricing.Expand(uuid.New(), product, nil, pricing.AddInput{Quantity: dec("1"), Discount: pricing.Percent(dec("120"))}, 0)
	assert.ErrorIs(t, err, pricing.ErrInvalidDiscount)
}

func TestExpand_FixedDiscountCannotExceedValue(t *testing.T) {
	product := pricing.ProductSpec{ID: uuid.New(), Name: "Pack", BasePrice: dec("10")}

	tests := []struct {
		name   string
		bundle *pricing.BundleSpec
		in     pricing.AddInput
	}{
		{
			name: "StandardLine",
			in:   pricing.AddInput{ProductID: product.ID, Quantity: dec("1"), Discount: pricing.Fixed(dec("50"))},
		},
		{
			name: "BundleChildren",
			bundle: &pricing.BundleSpec{
				Discount: pricing.Fixed(dec("200")),
				Children: []pricing.ChildSpec{
					{ProductID: uuid.New(), Name: "A", BasePrice: dec("50"), Quantity: dec("1")},
					{ProductID: uuid.New(), Name: "B", BasePrice: dec("75"), Quantity: dec("1")},
				},
			},
			in: pricing.AddInput{ProductID: product.ID, Quantity: dec("1")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := pricing.Expand(uuid.New(), product, tt.bundle, tt.in, 0)
			assert.ErrorIs(t, err, pricing.ErrInvalidDiscount)
			assert.Nil(t, rows)
		})
	}

	rows, err := pricing.Expand(uuid.New(), product, nil,
		pricing.AddInput{ProductID: product.ID, Quantity: dec("3"), Discount: pricing.Fixed(dec("30"))}, 0)
	require.NoError(t, err)
	assert.True(t, decimal.Zero.Equal(rows[0].TotalPrice), "a discount equal to the value is allowed")
}

func TestApplyUpdate_FixedDiscountCannotExceedValue(t *testing.T) {
	li := &pricing.LineItem{Type: pricing.ItemStandard, Quantity: dec("2"), UnitPrice: dec("100"), TotalPrice: dec("200")}

	err := pricing.ApplyUpdate(li, pricing.LineItemUpdate{UnitPrice: new(dec("10")), Discount: new(pricing.Fixed(dec("25")))})
	assert.ErrorIs(t, err, pricing.ErrInvalidDiscount)
	assert.True(t, dec("200").Equal(li.TotalPrice))
}

func TestRecalculate_NoItemsLeavesAmount(t *testing.T) {
	_, ok := pricing.Recalculate(nil)
	assert.False(t, ok)
}

func TestRemovalSet(t *testing.T) {
	parentID := uuid.New()
	items := []*pricing.LineItem{
		{ID: parentID, Type: pricing.ItemBundleParent},
		{ID: uuid.New(), Type: pricing.ItemBundleChild, ParentID: new(parentID)},
		{ID: uuid.New(), Type: pricing.ItemBundleDiscount, ParentID: new(parentID)},
		{ID: uuid.New(), Type: pricing.ItemStandard},
	}

	ids, err := pricing.RemovalSet(items, parentID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{items[0].ID, items[1].ID, items[2].ID}, ids)

	ids, err = pricing.RemovalSet(items, items[1].ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{items[1].ID}, ids)

	_, err = pricing.RemovalSet(items, uuid.New())
	assert.ErrorIs(t, err, pricing.ErrLineItemNotFound)
}

func TestApplyUpdate_DiscountResolution(t *testing.T) {
	base := func() *pricing.LineItem {
		return &pricing.LineItem{
			Type:      pricing.ItemStandard,
			Quantity:  dec("2"),
			UnitPrice: dec("100"),
			Discount:  pricing.Percent(dec("10")),
		}
	}

	tests := []struct {
		name    string
		update  pricing.LineItemUpdate
		want    string
		wantErr error
	}{
		{name: "KeepsStoredDiscount", update: pricing.LineItemUpdate{Quantity: new(dec("3"))}, want: "270"},
		{name: "TaggedDiscountWins", update: pricing.LineItemUpdate{
			Discount:        new(pricing.Fixed(dec("50"))),
			DiscountPercent: new(dec("50")),
		}, want: "150"},
		{name: "LegacyAmountZeroesPercent", update: pricing.LineItemUpdate{DiscountAmount: new(dec("20"))}, want: "180"},
		{name: "LegacyBothRejected", update: pricing.LineItemUpdate{
			DiscountPercent: new(dec("5")),
			DiscountAmount:  new(dec("5")),
		}, wantErr: pricing.ErrConflictingDiscount},
		{name: "NegativeQuantity", update: pricing.LineItemUpdate{Quantity: new(dec("-1"))}, wantErr: pricing.ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			li := base()

			err := pricing.ApplyUpdate(li, tt.update)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, dec("2").Equal(li.Quantity))

				return
			}

			require.NoError(t, err)
			assert.True(t, dec(tt.want).Equal(li.TotalPrice), "got %s", li.TotalPrice)
		})
	}
}

func TestApplyUpdate_DerivedRowsRejectPriceChanges(t *testing.T) {
	li := &pricing.LineItem{Type: pricing.ItemBundleDiscount, Quantity: dec("1"), UnitPrice: dec("-12.5"), TotalPrice: dec("-12.5")}

	assert.ErrorIs(t, pricing.ApplyUpdate(li, pricing.LineItemUpdate{UnitPrice: new(dec("-1"))}), pricing.ErrDerivedRow)
	require.NoError(t, pricing.ApplyUpdate(li, pricing.LineItemUpdate{Name: new("Loyalty discount")}))
	assert.Equal(t, "Loyalty discount", li.Name)
	assert.True(t, dec("-12.5").Equal(li.TotalPrice))
}

func TestNextSortOrder(t *testing.T) {
	assert.Equal(t, 0, pricing.NextSortOrder(nil))
	assert.Equal(t, 8, pricing.NextSortOrder([]*pricing.LineItem{{SortOrder: 3}, {SortOrder: 7}}))
}
