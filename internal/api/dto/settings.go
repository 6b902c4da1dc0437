package dto

import (
	"github.com/venuebill/venuebill/internal/validator"
)

// UpdateBillingSettingsRequest updates organization billing settings
type UpdateBillingSettingsRequest struct {
	MinPaymentPercent  *int    `json:"min_payment_percent" validate:"omitempty,gte=0,lte=100"`
	ReceiptSenderName  *string `json:"receipt_sender_name"`
	ConnectedAccountID *string `json:"connected_account_id"`
}

func (r *UpdateBillingSettingsRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// BillingSettingsResponse returns the effective billing settings
type BillingSettingsResponse struct {
	ID                 string `json:"id"`
	MinPaymentPercent  int    `json:"min_payment_percent"`
	ReceiptSenderName  string `json:"receipt_sender_name"`
	ConnectedAccountID string `json:"connected_account_id"`
}
