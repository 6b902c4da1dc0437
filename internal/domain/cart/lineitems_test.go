package cart

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuebill/venuebill/internal/types"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBuildLineItems(t *testing.T) {
	t.Run("nil cart rejected", func(t *testing.T) {
		_, err := BuildLineItems(nil)
		require.Error(t, err)
	})

	t.Run("missing currency rejected", func(t *testing.T) {
		_, err := BuildLineItems(&Cart{})
		require.Error(t, err)
	})

	t.Run("standalone product uses subtotal times quantity", func(t *testing.T) {
		c := &Cart{
			Currency: "usd",
			Products: []Product{
				{
					ID:       "prod_1",
					Name:     "Protein Bar",
					Type:     ProductTypeRetail,
					Quantity: 3,
					Amount:   Amount{Subtotal: dec("2.50")},
				},
			},
		}

		items, err := BuildLineItems(c)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Protein Bar", items[0].Description)
		assert.Equal(t, int64(750), items[0].AmountCents)
		assert.Equal(t, "usd", items[0].Currency)
		assert.Equal(t, types.LineItemTypeProduct, items[0].Type)
		assert.Equal(t, "prod_1", items[0].Metadata["product_id"])
	})

	t.Run("legacy value field used when subtotal is zero", func(t *testing.T) {
		c := &Cart{
			Currency: "usd",
			Products: []Product{
				{ID: "prod_1", Name: "Day Pass", Amount: Amount{Value: dec("12.00")}},
			},
		}

		items, err := BuildLineItems(c)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, int64(1200), items[0].AmountCents)
	})

	t.Run("zero quantity defaults to one", func(t *testing.T) {
		c := &Cart{
			Currency: "usd",
			Products: []Product{
				{ID: "prod_1", Name: "Day Pass", Amount: Amount{Subtotal: dec("12.00")}},
			},
		}

		items, err := BuildLineItems(c)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, int64(1200), items[0].AmountCents)
	})

	t.Run("tiered prices sum qty times unit", func(t *testing.T) {
		c := &Cart{
			Currency: "usd",
			Products: []Product{
				{
					ID:   "prod_1",
					Name: "Yoga Class",
					Type: ProductTypeClass,
					Prices: []PriceTier{
						{Name: "Adult", Qty: 2, Value: dec("15.00")},
						{Name: "Child", Qty: 1, Value: dec("8.00")},
					},
					Sessions: []time.Time{
						time.Date(2025, 3, 5, 18, 30, 0, 0, time.UTC),
					},
				},
			},
		}

		items, err := BuildLineItems(c)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, int64(3800), items[0].AmountCents)
		assert.Equal(t, "Yoga Class 05/03/2025 18:30 - 2x Adult, 1x Child", items[0].Description)
	})

	t.Run("variation appended to description", func(t *testing.T) {
		c := &Cart{
			Currency: "usd",
			Products: []Product{
				{
					ID:        "prod_1",
					Name:      "Club Hoodie",
					Amount:    Amount{Subtotal: dec("40.00")},
					Variation: "Large / Black",
				},
			},
		}

		items, err := BuildLineItems(c)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Club Hoodie (Large / Black)", items[0].Description)
	})

	t.Run("grouped products emit the group line once", func(t *testing.T) {
		c := &Cart{
			Currency: "usd",
			Products: []Product{
				{ID: "prod_1", Name: "Court Hire", GroupID: "grp_1"},
				{ID: "prod_2", Name: "Racket Hire", GroupID: "grp_1"},
				{ID: "prod_3", Name: "Water", Amount: Amount{Subtotal: dec("1.50")}},
			},
			Groups: []Group{
				{ID: "grp_1", Name: "Court Package", Amount: dec("35.00")},
			},
		}

		items, err := BuildLineItems(c)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Court Package", items[0].Description)
		assert.Equal(t, int64(3500), items[0].AmountCents)
		assert.Equal(t, types.LineItemTypeGroup, items[0].Type)
		assert.Equal(t, "grp_1", items[0].Metadata["group_id"])
		assert.Equal(t, "Water", items[1].Description)
	})

	t.Run("unknown group reference rejected", func(t *testing.T) {
		c := &Cart{
			Currency: "usd",
			Products: []Product{
				{ID: "prod_1", Name: "Court Hire", GroupID: "grp_missing"},
			},
		}

		_, err := BuildLineItems(c)
		require.Error(t, err)
	})

	t.Run("discounts are negative and tax emitted last", func(t *testing.T) {
		c := &Cart{
			Currency: "usd",
			Products: []Product{
				{ID: "prod_1", Name: "Day Pass", Amount: Amount{Subtotal: dec("20.00")}},
			},
			Adjustments: Adjustments{
				Discounts: AdjustmentSet{Items: []Adjustment{
					{Name: "Member discount", Amount: dec("5.00")},
				}},
				Surcharges: AdjustmentSet{Items: []Adjustment{
					{Name: "Card surcharge", Amount: dec("0.50")},
				}},
			},
			Tax: dec("1.55"),
		}

		items, err := BuildLineItems(c)
		require.NoError(t, err)
		require.Len(t, items, 4)
		assert.Equal(t, int64(-500), items[1].AmountCents)
		assert.Equal(t, types.LineItemTypeDiscount, items[1].Type)
		assert.Equal(t, int64(50), items[2].AmountCents)
		assert.Equal(t, types.LineItemTypeSurcharge, items[2].Type)
		assert.Equal(t, "Tax", items[3].Description)
		assert.Equal(t, int64(155), items[3].AmountCents)
		assert.Equal(t, types.LineItemTypeTax, items[3].Type)
	})

	t.Run("zero tax emits no tax line", func(t *testing.T) {
		c := &Cart{
			Currency: "usd",
			Products: []Product{
				{ID: "prod_1", Name: "Day Pass", Amount: Amount{Subtotal: dec("20.00")}},
			},
		}

		items, err := BuildLineItems(c)
		require.NoError(t, err)
		require.Len(t, items, 1)
	})

	t.Run("line items reconcile with the cart total", func(t *testing.T) {
		c := &Cart{
			Currency: "usd",
			Products: []Product{
				{ID: "prod_1", Name: "Day Pass", Quantity: 2, Amount: Amount{Subtotal: dec("20.00")}},
				{ID: "prod_2", Name: "Court Hire", GroupID: "grp_1"},
			},
			Groups: []Group{
				{ID: "grp_1", Name: "Court Package", Amount: dec("35.00")},
			},
			Adjustments: Adjustments{
				Discounts: AdjustmentSet{Items: []Adjustment{
					{Name: "Member discount", Amount: dec("7.50")},
				}},
				Surcharges: AdjustmentSet{Items: []Adjustment{
					{Name: "Card surcharge", Amount: dec("1.00")},
				}},
			},
			Tax:   dec("6.85"),
			Total: dec("75.35"),
		}

		items, err := BuildLineItems(c)
		require.NoError(t, err)
		assert.Equal(t, c.Total.Mul(decimal.NewFromInt(100)).IntPart(), SumCents(items))
	})
}

func TestSumCents(t *testing.T) {
	assert.Equal(t, int64(0), SumCents(nil))
	assert.Equal(t, int64(1450), SumCents([]LineItem{
		{AmountCents: 2000},
		{AmountCents: -600},
		{AmountCents: 50},
	}))
}
