package models

// CartItem is a single cart line as submitted at checkout. It has no identity
// beyond the product reference.
type CartItem struct {
	ProductID    string            `json:"product_id"`
	Name         string            `json:"name"`
	Price        float64           `json:"price"`
	Quantity     int               `json:"quantity"`
	Category     string            `json:"category"`
	Image        []string          `json:"image,omitempty"`
	Measurements map[string]string `json:"measurements,omitempty"`
	GiftMessage  *GiftMessage      `json:"gift_message,omitempty"`
}

// FirstImage returns the item's primary image reference, if any.
func (c CartItem) FirstImage() string {
	if len(c.Image) == 0 {
		return ""
	}
	return c.Image[0]
}

// LineItem is a gateway-facing line item; UnitAmount is in the gateway's
// minor currency unit.
type LineItem struct {
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	UnitAmount int64  `json:"unit_amount"`
}
