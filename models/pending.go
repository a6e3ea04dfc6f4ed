package models

import "time"

// PendingOrder is the priced order held between checkout-session creation and
// payment confirmation, keyed by OrderReference. It is ephemeral: entries are
// deleted after a successful confirmation and expire otherwise.
type PendingOrder struct {
	OrderReference  string         `json:"order_reference"`
	Products        []OrderProduct `json:"products"`
	AmountToCharge  float64        `json:"amount_to_charge"`
	ShippingFee     float64        `json:"shipping_fee"`
	CustomerName    string         `json:"customer_name"`
	CustomerPhone   string         `json:"customer_phone"`
	Email           string         `json:"email"`
	Country         string         `json:"country"`
	Region          string         `json:"region"`
	Description     string         `json:"description"`
	Status          OrderStatus    `json:"status"`
	DepositMode     bool           `json:"deposit_mode"`
	RemainingAmount float64        `json:"remaining_amount"`
	GiftMessage     *GiftMessage   `json:"gift_message,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}
