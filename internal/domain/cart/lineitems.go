package cart

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	ierr "github.com/venuebill/venuebill/internal/errors"
	"github.com/venuebill/venuebill/internal/types"
)

// LineItem is a single billing line destined for the provider invoice.
// Amounts are signed integer minor-currency units (cents): discounts are
// negative, everything else positive.
type LineItem struct {
	Description string            `json:"description"`
	AmountCents int64             `json:"amount_cents"`
	Currency    string            `json:"currency"`
	Type        types.LineItemType `json:"type"`
	Metadata    map[string]string `json:"metadata"`
}

var centsFactor = decimal.NewFromInt(100)

// toCents converts a decimal major-unit amount to integer cents, rounding
// at the point of emission so rounding error never accumulates across items.
func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(centsFactor).Round(0).IntPart()
}

// BuildLineItems flattens a cart into the ordered list of billing line
// items: products and groups first (cart order), then discounts as negative
// lines, surcharges, and finally tax.
func BuildLineItems(c *Cart) ([]LineItem, error) {
	if c == nil {
		return nil, ierr.NewError("cart is required").
			WithHint("Cart payload is missing").
			Mark(ierr.ErrValidation)
	}
	if c.Currency == "" {
		return nil, ierr.NewError("cart currency is required").
			WithHint("Cart is missing a currency").
			Mark(ierr.ErrValidation)
	}

	groupsByID := make(map[string]Group, len(c.Groups))
	for _, g := range c.Groups {
		groupsByID[g.ID] = g
	}

	items := make([]LineItem, 0, len(c.Products)+len(c.Adjustments.Discounts.Items)+len(c.Adjustments.Surcharges.Items)+1)
	emittedGroups := make(map[string]bool)

	for _, p := range c.Products {
		if p.GroupID != "" {
			// Grouped products are billed once through the group line,
			// using the group's pre-computed total.
			if emittedGroups[p.GroupID] {
				continue
			}
			group, ok := groupsByID[p.GroupID]
			if !ok {
				return nil, ierr.NewError("cart references unknown group").
					WithHintf("Product %s references group %s which is not in the cart", p.ID, p.GroupID).
					Mark(ierr.ErrValidation)
			}
			emittedGroups[p.GroupID] = true
			items = append(items, LineItem{
				Description: group.Name,
				AmountCents: toCents(group.Amount),
				Currency:    c.Currency,
				Type:        types.LineItemTypeGroup,
				Metadata: map[string]string{
					"line_type": string(types.LineItemTypeGroup),
					"group_id":  group.ID,
				},
			})
			continue
		}

		items = append(items, LineItem{
			Description: productDescription(p),
			AmountCents: toCents(productAmount(p)),
			Currency:    c.Currency,
			Type:        types.LineItemTypeProduct,
			Metadata: map[string]string{
				"line_type":  string(types.LineItemTypeProduct),
				"product_id": p.ID,
			},
		})
	}

	for _, d := range c.Adjustments.Discounts.Items {
		items = append(items, LineItem{
			Description: d.Name,
			AmountCents: -toCents(d.Amount),
			Currency:    c.Currency,
			Type:        types.LineItemTypeDiscount,
			Metadata:    map[string]string{"line_type": string(types.LineItemTypeDiscount)},
		})
	}

	for _, s := range c.Adjustments.Surcharges.Items {
		items = append(items, LineItem{
			Description: s.Name,
			AmountCents: toCents(s.Amount),
			Currency:    c.Currency,
			Type:        types.LineItemTypeSurcharge,
			Metadata:    map[string]string{"line_type": string(types.LineItemTypeSurcharge)},
		})
	}

	if c.Tax.GreaterThan(decimal.Zero) {
		items = append(items, LineItem{
			Description: "Tax",
			AmountCents: toCents(c.Tax),
			Currency:    c.Currency,
			Type:        types.LineItemTypeTax,
			Metadata:    map[string]string{"line_type": string(types.LineItemTypeTax)},
		})
	}

	return items, nil
}

// productAmount resolves the line amount for a standalone product: sum of
// tier qty x unit when a tier breakdown exists, otherwise the single-price
// amount times quantity (default 1).
func productAmount(p Product) decimal.Decimal {
	if len(p.Prices) > 0 {
		total := decimal.Zero
		for _, tier := range p.Prices {
			total = total.Add(tier.Value.Mul(decimal.NewFromInt(int64(tier.Qty))))
		}
		return total
	}

	unit := p.Amount.Subtotal
	if unit.IsZero() {
		unit = p.Amount.Value
	}

	qty := p.Quantity
	if qty <= 0 {
		qty = 1
	}
	return unit.Mul(decimal.NewFromInt(int64(qty)))
}

// productDescription renders the line description. Class and course
// products carry their selected session times (day/month/year, 24-hour
// clock) and a participant breakdown like "2x Adult, 1x Child".
func productDescription(p Product) string {
	var b strings.Builder
	b.WriteString(p.Name)

	if p.Type == ProductTypeClass || p.Type == ProductTypeCourse {
		for _, session := range p.Sessions {
			b.WriteString(" ")
			b.WriteString(session.Format("02/01/2006 15:04"))
		}
		if breakdown := participantBreakdown(p.Prices); breakdown != "" {
			b.WriteString(" - ")
			b.WriteString(breakdown)
		}
	}

	if p.Variation != "" {
		b.WriteString(" (")
		b.WriteString(p.Variation)
		b.WriteString(")")
	}

	return b.String()
}

func participantBreakdown(tiers []PriceTier) string {
	parts := make([]string, 0, len(tiers))
	for _, tier := range tiers {
		if tier.Qty <= 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%dx %s", tier.Qty, tier.Name))
	}
	return strings.Join(parts, ", ")
}

// SumCents totals a list of line items, used to enforce the invariant that
// emitted lines reconcile with the cart total.
func SumCents(items []LineItem) int64 {
	var sum int64
	for _, item := range items {
		sum += item.AmountCents
	}
	return sum
}
