package types

import (
	"github.com/golang-jwt/jwt/v4"
)

// PaymentLinkClaims is the signed payload embedded in a public payment
// link. The token scopes the bearer to exactly one invoice in one
// organization.
type PaymentLinkClaims struct {
	InvoiceID      string `json:"invoice_id"`
	OrganizationID string `json:"organization_id"`
	jwt.RegisteredClaims
}
