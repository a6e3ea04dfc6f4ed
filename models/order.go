package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the order lifecycle state. Transitions are validated with
// CanTransitionTo before every status write.
type OrderStatus string

const (
	StatusCreated         OrderStatus = "created"
	StatusAwaitingPayment OrderStatus = "awaiting_payment"
	StatusPaid            OrderStatus = "paid"
	StatusFulfilled       OrderStatus = "fulfilled"
	StatusCancelled       OrderStatus = "cancelled"
)

var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusCreated:         {StatusAwaitingPayment, StatusCancelled},
	StatusAwaitingPayment: {StatusPaid, StatusCancelled},
	StatusPaid:            {StatusFulfilled, StatusCancelled},
	StatusFulfilled:       {},
	StatusCancelled:       {},
}

// IsValid reports whether s is a known lifecycle state.
func (s OrderStatus) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is a legal lifecycle
// transition.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderProduct is a priced line item as stored on an order.
type OrderProduct struct {
	ProductID    string            `json:"product_id" bson:"product_id"`
	Quantity     int               `json:"quantity" bson:"quantity"`
	Name         string            `json:"name" bson:"name"`
	Price        float64           `json:"price" bson:"price"`
	Image        string            `json:"image" bson:"image"`
	Category     string            `json:"category" bson:"category"`
	Measurements map[string]string `json:"measurements,omitempty" bson:"measurements,omitempty"`
	GiftMessage  *GiftMessage      `json:"gift_message,omitempty" bson:"gift_message,omitempty"`
}

// Order is the durable order record. Amount is what the gateway actually
// confirmed as paid, which can differ from the amount requested at checkout
// under deposit mode.
type Order struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrderReference   string             `json:"order_reference" bson:"order_reference"`
	Products         []OrderProduct     `json:"products" bson:"products"`
	Amount           float64            `json:"amount" bson:"amount"`
	ShippingFee      float64            `json:"shipping_fee" bson:"shipping_fee"`
	CustomerName     string             `json:"customer_name" bson:"customer_name"`
	CustomerPhone    string             `json:"customer_phone" bson:"customer_phone"`
	Email            string             `json:"email" bson:"email"`
	Country          string             `json:"country" bson:"country"`
	Region           string             `json:"region" bson:"region"`
	Description      string             `json:"description" bson:"description"`
	Status           OrderStatus        `json:"status" bson:"status"`
	DepositMode      bool               `json:"deposit_mode" bson:"deposit_mode"`
	RemainingAmount  float64            `json:"remaining_amount" bson:"remaining_amount"`
	GiftMessage      *GiftMessage       `json:"gift_message,omitempty" bson:"gift_message,omitempty"`
	PaymentSessionID string             `json:"payment_session_id" bson:"payment_session_id"`
	PaidAt           *time.Time         `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}
