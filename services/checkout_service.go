package services

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bilal-alaabadi/arkan-b/models"
	"github.com/bilal-alaabadi/arkan-b/providers"
	"github.com/bilal-alaabadi/arkan-b/repository"
)

// CheckoutRequest is the inbound checkout payload: cart lines plus
// customer/shipping context.
type CheckoutRequest struct {
	Products       []models.CartItem   `json:"products"`
	Email          string              `json:"email"`
	CustomerName   string              `json:"customer_name"`
	CustomerPhone  string              `json:"customer_phone"`
	Country        string              `json:"country"`
	Region         string              `json:"region"`
	GulfCountry    string              `json:"gulf_country"`
	ShippingMethod string              `json:"shipping_method"`
	Description    string              `json:"description"`
	DepositMode    bool                `json:"deposit_mode"`
	GiftMessage    *models.GiftMessage `json:"gift_message"`
}

// CheckoutResult carries the gateway session id and the hosted payment link.
type CheckoutResult struct {
	SessionID   string `json:"session_id"`
	PaymentLink string `json:"payment_link"`
}

// CheckoutService composes the pricer, the payment provider and the
// pending-order store to turn a cart into a payment link.
type CheckoutService struct {
	pricer      *Pricer
	provider    providers.PaymentProvider
	pending     repository.PendingOrderStore
	frontendURL string
	logger      *zap.Logger
}

// NewCheckoutService creates a CheckoutService.
func NewCheckoutService(pricer *Pricer, provider providers.PaymentProvider, pending repository.PendingOrderStore, frontendURL string, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		pricer:      pricer,
		provider:    provider,
		pending:     pending,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// CreateCheckoutSession prices the cart, stores the priced order under a
// fresh reference, creates a gateway session and returns the payment link.
// The pending entry is written before the gateway call and rolled back when
// the gateway does not return a session id; the two steps are not
// transactional, an orphaned entry simply expires.
func (s *CheckoutService) CreateCheckoutSession(ctx context.Context, req *CheckoutRequest) (*CheckoutResult, *ServiceError) {
	if len(req.Products) == 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid or empty products array"}
	}

	sel := ShippingSelection{Country: req.Country, GulfCountry: req.GulfCountry, Method: req.ShippingMethod}
	quote := s.pricer.Price(req.Products, sel, req.DepositMode)

	orderReference := uuid.NewString()

	pendingProducts := make([]models.OrderProduct, 0, len(req.Products))
	for _, it := range req.Products {
		pendingProducts = append(pendingProducts, models.OrderProduct{
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			Name:         it.Name,
			Price:        it.Price,
			Image:        it.FirstImage(),
			Category:     it.Category,
			Measurements: it.Measurements,
			GiftMessage:  models.NormalizeGiftMessage(it.GiftMessage),
		})
	}

	pendingOrder := &models.PendingOrder{
		OrderReference:  orderReference,
		Products:        pendingProducts,
		AmountToCharge:  quote.AmountToCharge,
		ShippingFee:     quote.ShippingFee,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		Email:           req.Email,
		Country:         req.Country,
		Region:          req.Region,
		Description:     req.Description,
		Status:          models.StatusAwaitingPayment,
		DepositMode:     req.DepositMode,
		RemainingAmount: quote.RemainingAmount,
		GiftMessage:     models.NormalizeGiftMessage(req.GiftMessage),
		CreatedAt:       time.Now(),
	}

	if err := s.pending.Put(ctx, pendingOrder); err != nil {
		s.logger.Error("Failed to store pending order", zap.String("order_reference", orderReference), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to store pending order", Details: err.Error()}
	}

	// The metadata duplicates the customer/shipping context so confirmation
	// can still proceed when the pending entry is gone.
	metadata := map[string]string{
		"order_reference": orderReference,
		"email":           req.Email,
		"customer_name":   req.CustomerName,
		"customer_phone":  req.CustomerPhone,
		"country":         req.Country,
		"region":          req.Region,
		"gulf_country":    req.GulfCountry,
		"shipping_method": req.ShippingMethod,
		"description":     req.Description,
		"shipping_fee":    strconv.FormatFloat(quote.ShippingFee, 'f', -1, 64),
		"source":          "arkan-backend",
	}

	sessionID, err := s.provider.CreateSession(ctx, providers.CreateSessionRequest{
		ClientReferenceID: orderReference,
		Products:          quote.LineItems,
		SuccessURL:        s.frontendURL + "/payment-success?order_reference=" + orderReference,
		CancelURL:         s.frontendURL + "/payment-cancelled",
		Metadata:          metadata,
	})
	if err != nil {
		_ = s.pending.Delete(ctx, orderReference)
		s.logger.Error("Failed to create checkout session", zap.String("order_reference", orderReference), zap.Error(err))
		return nil, &ServiceError{StatusCode: 502, Message: "Failed to create checkout session", Details: err.Error()}
	}
	if sessionID == "" {
		_ = s.pending.Delete(ctx, orderReference)
		return nil, &ServiceError{StatusCode: 502, Message: "No session id returned from gateway"}
	}

	s.logger.Info("Checkout session created",
		zap.String("order_reference", orderReference),
		zap.String("session_id", sessionID),
		zap.Float64("amount_to_charge", quote.AmountToCharge),
		zap.Bool("deposit_mode", req.DepositMode),
	)

	return &CheckoutResult{
		SessionID:   sessionID,
		PaymentLink: s.provider.PaymentLink(sessionID),
	}, nil
}
