package dto

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/venuebill/venuebill/internal/domain/cart"
	ierr "github.com/venuebill/venuebill/internal/errors"
)

func TestCheckoutRequestValidate(t *testing.T) {
	valid := func() *CheckoutRequest {
		return &CheckoutRequest{
			CustomerID:       "cust_1",
			StripeCustomerID: "cus_1",
			Cart: &cart.Cart{
				Currency: "usd",
				Products: []cart.Product{{Name: "Day Pass"}},
			},
		}
	}

	assert.NoError(t, valid().Validate())

	missingCustomer := valid()
	missingCustomer.StripeCustomerID = ""
	assert.True(t, ierr.IsValidation(missingCustomer.Validate()))

	nilCart := valid()
	nilCart.Cart = nil
	assert.True(t, ierr.IsValidation(nilCart.Validate()))

	emptyCart := valid()
	emptyCart.Cart.Products = nil
	assert.True(t, ierr.IsValidation(emptyCart.Validate()))
}

func TestPauseMembershipRequestValidate(t *testing.T) {
	assert.NoError(t, (&PauseMembershipRequest{PauseDays: 3}).Validate())
	assert.True(t, ierr.IsValidation((&PauseMembershipRequest{}).Validate()))
	assert.True(t, ierr.IsValidation((&PauseMembershipRequest{PauseDays: -1}).Validate()))
}

func TestPaymentLinkPayRequestValidate(t *testing.T) {
	assert.NoError(t, (&PaymentLinkPayRequest{Amount: decimal.RequireFromString("25.00")}).Validate())
	assert.True(t, ierr.IsValidation((&PaymentLinkPayRequest{}).Validate()))
	assert.True(t, ierr.IsValidation((&PaymentLinkPayRequest{Amount: decimal.NewFromInt(-5)}).Validate()))
}

func TestUpdateBillingSettingsRequestValidate(t *testing.T) {
	pct := func(v int) *int { return &v }

	assert.NoError(t, (&UpdateBillingSettingsRequest{}).Validate())
	assert.NoError(t, (&UpdateBillingSettingsRequest{MinPaymentPercent: pct(50)}).Validate())
	assert.True(t, ierr.IsValidation((&UpdateBillingSettingsRequest{MinPaymentPercent: pct(101)}).Validate()))
	assert.True(t, ierr.IsValidation((&UpdateBillingSettingsRequest{MinPaymentPercent: pct(-1)}).Validate()))
}
