package pricing

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrConflictingDiscount = errors.New("percent and fixed discounts are mutually exclusive")
	ErrInvalidDiscount     = errors.New("invalid discount")
)

var hundred = decimal.NewFromInt(100)

type DiscountKind string

const (
	DiscountNone    DiscountKind = ""
	DiscountPercent DiscountKind = "percent"
	DiscountFixed   DiscountKind = "fixed"
)

// Discount is either no discount, a percentage of the gross line value or a
// fixed amount subtracted from it.
type Discount struct {
	kind  DiscountKind
	value decimal.Decimal
}

func NoDiscount() Discount { return Discount{} }

func Percent(v decimal.Decimal) Discount {
	if v.IsZero() {
		return Discount{}
	}

	return Discount{kind: DiscountPercent, value: v}
}

func Fixed(v decimal.Decimal) Discount {
	if v.IsZero() {
		return Discount{}
	}

	return Discount{kind: DiscountFixed, value: v}
}

// NewDiscount builds a Discount from the legacy percent/amount pair. Supplying
// one zeroes the other; supplying both non-zero is an error.
func NewDiscount(percent, fixed *decimal.Decimal) (Discount, error) {
	p := decimal.Zero
	if percent != nil {
		p = *percent
	}

	f := decimal.Zero
	if fixed != nil {
		f = *fixed
	}

	switch {
	case !p.IsZero() && !f.IsZero():
		return Discount{}, ErrConflictingDiscount
	case !p.IsZero():
		return Percent(p), nil
	default:
		return Fixed(f), nil
	}
}

// DiscountFromColumns rebuilds a Discount from its stored columns.
func DiscountFromColumns(percent, amount decimal.Decimal) Discount {
	if !percent.IsZero() {
		return Percent(percent)
	}

	return Fixed(amount)
}

// Columns splits the discount into the discount_percent and discount_amount columns.
func (d Discount) Columns() (percent, amount decimal.Decimal) {
	switch d.kind {
	case DiscountPercent:
		return d.value, decimal.Zero
	case DiscountFixed:
		return decimal.Zero, d.value
	default:
		return decimal.Zero, decimal.Zero
	}
}

func (d Discount) Kind() DiscountKind    { return d.kind }
func (d Discount) Value() decimal.Decimal { return d.value }
func (d Discount) IsZero() bool           { return d.kind == DiscountNone }

func (d Discount) Validate() error {
	switch d.kind {
	case DiscountNone:
		return nil
	case DiscountPercent:
		if d.value.IsNegative() || d.value.GreaterThan(hundred) {
			return fmt.Errorf("%w: percent must be between 0 and 100", ErrInvalidDiscount)
		}
	case DiscountFixed:
		if d.value.IsNegative() {
			return fmt.Errorf("%w: fixed amount must not be negative", ErrInvalidDiscount)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidDiscount, d.kind)
	}

	return nil
}

// within rejects a fixed discount larger than the gross value it reduces.
func (d Discount) within(gross decimal.Decimal) error {
	if d.kind == DiscountFixed && d.value.GreaterThan(gross) {
		return fmt.Errorf("%w: fixed amount %s exceeds the value %s", ErrInvalidDiscount, d.value, gross.StringFixed(2))
	}

	return nil
}

// Amount is the reduction the discount applies to gross, unrounded.
func (d Discount) Amount(gross decimal.Decimal) decimal.Decimal {
	switch d.kind {
	case DiscountPercent:
		return gross.Mul(d.value).Div(hundred)
	case DiscountFixed:
		return d.value
	default:
		return decimal.Zero
	}
}

type discountDoc struct {
	Type  DiscountKind    `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// MarshalJSON renders {"type": "percent"|"fixed", "value": "10"}, or null for no discount.
func (d Discount) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}

	return json.Marshal(discountDoc{Type: d.kind, Value: d.value})
}

func (d *Discount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Discount{}
		return nil
	}

	var doc discountDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDiscount, err)
	}

	switch doc.Type {
	case DiscountPercent:
		*d = Percent(doc.Value)
	case DiscountFixed:
		*d = Fixed(doc.Value)
	case DiscountNone, "none":
		*d = Discount{}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidDiscount, doc.Type)
	}

	return nil
}
