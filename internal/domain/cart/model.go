package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the client-built checkout payload, consumed exactly once to
// produce billing line items. Immutable after submission.
type Cart struct {
	Currency    string          `json:"currency"`
	Products    []Product       `json:"products"`
	Groups      []Group         `json:"groups"`
	Adjustments Adjustments     `json:"adjustments"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

// ProductType distinguishes how a product's description is rendered
type ProductType string

const (
	ProductTypeRetail ProductType = "retail"
	ProductTypeClass  ProductType = "class"
	ProductTypeCourse ProductType = "course"
)

// Product is a single cart entry. A product either stands alone or is
// tagged with a GroupID, in which case it is billed through its group.
type Product struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Type      ProductType `json:"type"`
	GroupID   string      `json:"group_id,omitempty"`
	Quantity  int         `json:"quantity,omitempty"`
	Variation string      `json:"variation,omitempty"`

	// Amount is the single-price amount, used when Prices is empty
	Amount Amount `json:"amount"`

	// Prices carries the per-tier breakdown for class/course bookings
	// (e.g. Adult/Child counts), summed as qty x unit value.
	Prices []PriceTier `json:"prices,omitempty"`

	// Sessions are the selected class/course occurrences, appended to the
	// line description.
	Sessions []time.Time `json:"sessions,omitempty"`
}

// Amount carries a product's single-price value. Subtotal takes precedence;
// Value is the legacy field carried by older POS clients.
type Amount struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Value    decimal.Decimal `json:"value"`
}

// PriceTier is one participant tier of a class/course booking
type PriceTier struct {
	Name  string          `json:"name"`
	Qty   int             `json:"qty"`
	Value decimal.Decimal `json:"value"`
}

// Group bundles several cart products into a single billed line. The
// group's total is pre-computed by the POS client and used as-is rather
// than re-derived from members.
type Group struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Adjustments carries cart-level discounts and surcharges
type Adjustments struct {
	Discounts  AdjustmentSet `json:"discounts"`
	Surcharges AdjustmentSet `json:"surcharges"`
}

type AdjustmentSet struct {
	Items []Adjustment `json:"items"`
}

// Adjustment is a named cart-level amount (discount or surcharge)
type Adjustment struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}
