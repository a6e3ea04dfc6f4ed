package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/bilal-alaabadi/arkan-b/models"
	"github.com/bilal-alaabadi/arkan-b/providers"
	"github.com/bilal-alaabadi/arkan-b/repository"
)

// sessionListLimit bounds the gateway session listing used to map an order
// reference back to a session id.
const sessionListLimit = 20

// OrderEventPublisher publishes order lifecycle events. Publishing is
// best-effort: confirmation never fails because of it.
type OrderEventPublisher interface {
	PublishOrderPaid(ctx context.Context, order *models.Order) error
}

// ConfirmationResult is the reconciliation outcome: the persisted order plus
// any non-fatal stock-adjustment warnings.
type ConfirmationResult struct {
	Order    *models.Order `json:"order"`
	Warnings []string      `json:"warnings"`
}

// ConfirmationService reconciles gateway payment state with the local order
// state: it verifies the session is paid, upserts the order and decrements
// stock. Verification, persistence and stock adjustment are three separate
// fallible steps; a confirmed payment is never rolled back when a later step
// degrades.
type ConfirmationService struct {
	provider providers.PaymentProvider
	pending  repository.PendingOrderStore
	orders   repository.OrderRepository
	products repository.ProductRepository
	pricer   *Pricer
	events   OrderEventPublisher
	logger   *zap.Logger
}

// NewConfirmationService creates a ConfirmationService. events may be nil.
func NewConfirmationService(provider providers.PaymentProvider, pending repository.PendingOrderStore, orders repository.OrderRepository, products repository.ProductRepository, pricer *Pricer, events OrderEventPublisher, logger *zap.Logger) *ConfirmationService {
	return &ConfirmationService{
		provider: provider,
		pending:  pending,
		orders:   orders,
		products: products,
		pricer:   pricer,
		events:   events,
		logger:   logger,
	}
}

// ConfirmPayment durably records a paid order for the given reference and
// adjusts inventory. Calling it again for an already recorded reference
// updates the existing order instead of creating a duplicate.
func (s *ConfirmationService) ConfirmPayment(ctx context.Context, orderReference string) (*ConfirmationResult, *ServiceError) {
	if orderReference == "" {
		return nil, &ServiceError{StatusCode: 400, Message: "Order reference is required"}
	}

	// The gateway offers no lookup by client reference: list and match.
	summaries, err := s.provider.ListSessions(ctx, sessionListLimit, 0)
	if err != nil {
		return nil, &ServiceError{StatusCode: 502, Message: "Failed to query gateway sessions", Details: err.Error()}
	}

	var sessionID string
	for _, sum := range summaries {
		if sum.ClientReferenceID == orderReference {
			sessionID = sum.SessionID
			break
		}
	}
	if sessionID == "" {
		return nil, &ServiceError{StatusCode: 404, Message: "Session not found"}
	}

	session, err := s.provider.GetSession(ctx, sessionID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 502, Message: "Failed to fetch gateway session", Details: err.Error()}
	}
	if session == nil || session.PaymentStatus != providers.PaymentStatusPaid {
		return nil, &ServiceError{StatusCode: 400, Message: "Payment not confirmed"}
	}

	meta := session.Metadata
	paidAmount := float64(session.TotalAmount) / minorUnitFactor

	cached, err := s.pending.Get(ctx, orderReference)
	if err != nil {
		s.logger.Warn("Failed to read pending order store", zap.String("order_reference", orderReference), zap.Error(err))
		cached = nil
	}

	order, err := s.orders.FindByReference(ctx, orderReference)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to look up order", Details: err.Error()}
	}

	shippingFee := s.resolveShippingFee(meta, cached)
	isNew := order == nil

	if isNew {
		order = buildPaidOrder(orderReference, cached, meta, paidAmount, shippingFee)
	} else {
		applyConfirmation(order, cached, meta, paidAmount, shippingFee)
	}

	now := time.Now()
	order.PaymentSessionID = session.SessionID
	order.PaidAt = &now

	if isNew {
		err = s.orders.Insert(ctx, order)
	} else {
		err = s.orders.Save(ctx, order)
	}
	if err != nil {
		s.logger.Error("Failed to persist order", zap.String("order_reference", orderReference), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to persist order", Details: err.Error()}
	}

	warnings := s.adjustInventory(ctx, order)

	if err := s.pending.Delete(ctx, orderReference); err != nil {
		s.logger.Warn("Failed to delete pending order entry", zap.String("order_reference", orderReference), zap.Error(err))
	}

	if s.events != nil {
		if err := s.events.PublishOrderPaid(ctx, order); err != nil {
			s.logger.Warn("Failed to publish order paid event", zap.String("order_reference", orderReference), zap.Error(err))
		}
	}

	s.logger.Info("Payment confirmed",
		zap.String("order_reference", orderReference),
		zap.String("session_id", session.SessionID),
		zap.Float64("amount", paidAmount),
		zap.Int("warnings", len(warnings)),
	)

	return &ConfirmationResult{Order: order, Warnings: warnings}, nil
}

// resolveShippingFee picks the shipping fee with the fallback precedence:
// gateway metadata, then the cached priced order, then the fee table using
// best-available selectors (which defaults to the domestic home rate).
func (s *ConfirmationService) resolveShippingFee(meta map[string]string, cached *models.PendingOrder) float64 {
	if v := meta["shipping_fee"]; v != "" {
		if fee, err := strconv.ParseFloat(v, 64); err == nil {
			return fee
		}
	}
	if cached != nil && cached.ShippingFee > 0 {
		return cached.ShippingFee
	}

	country := meta["country"]
	if cached != nil && cached.Country != "" {
		country = cached.Country
	}
	return s.pricer.ShippingFee(ShippingSelection{
		Country:     country,
		GulfCountry: meta["gulf_country"],
		Method:      meta["shipping_method"],
	})
}

// buildPaidOrder constructs a fresh order from the cached priced order,
// falling back to gateway metadata for customer/shipping fields.
func buildPaidOrder(orderReference string, cached *models.PendingOrder, meta map[string]string, paidAmount, shippingFee float64) *models.Order {
	order := &models.Order{
		OrderReference: orderReference,
		Amount:         paidAmount,
		ShippingFee:    shippingFee,
		Status:         models.StatusPaid,
		CustomerName:   meta["customer_name"],
		CustomerPhone:  meta["customer_phone"],
		Email:          meta["email"],
		Country:        meta["country"],
		Region:         meta["region"],
		Description:    meta["description"],
	}

	if cached != nil {
		order.Products = cached.Products
		order.DepositMode = cached.DepositMode
		order.RemainingAmount = cached.RemainingAmount
		order.GiftMessage = models.NormalizeGiftMessage(cached.GiftMessage)
		order.CustomerName = firstNonEmpty(cached.CustomerName, order.CustomerName)
		order.CustomerPhone = firstNonEmpty(cached.CustomerPhone, order.CustomerPhone)
		order.Email = firstNonEmpty(cached.Email, order.Email)
		order.Country = firstNonEmpty(cached.Country, order.Country)
		order.Region = firstNonEmpty(cached.Region, order.Region)
		order.Description = firstNonEmpty(cached.Description, order.Description)
	}

	return order
}

// applyConfirmation updates an existing order in place: the status moves to
// paid, the amount is refreshed from the gateway, and missing fields are
// backfilled from metadata without ever overwriting locally populated ones.
func applyConfirmation(order *models.Order, cached *models.PendingOrder, meta map[string]string, paidAmount, shippingFee float64) {
	if order.Status != models.StatusPaid && order.Status.CanTransitionTo(models.StatusPaid) {
		order.Status = models.StatusPaid
	}
	order.Amount = paidAmount

	order.CustomerName = firstNonEmpty(order.CustomerName, meta["customer_name"])
	order.CustomerPhone = firstNonEmpty(order.CustomerPhone, meta["customer_phone"])
	order.Email = firstNonEmpty(order.Email, meta["email"])
	order.Country = firstNonEmpty(order.Country, meta["country"])
	order.Region = firstNonEmpty(order.Region, meta["region"])
	order.Description = firstNonEmpty(order.Description, meta["description"])

	if order.ShippingFee == 0 {
		order.ShippingFee = shippingFee
	}

	if cached != nil && len(cached.Products) > 0 {
		order.Products = cached.Products
	}
	if !order.GiftMessage.HasValues() && cached != nil && cached.GiftMessage.HasValues() {
		order.GiftMessage = models.NormalizeGiftMessage(cached.GiftMessage)
	}
}

// adjustInventory decrements stock once per line item. Failures never roll
// the order back: the payment is already confirmed, so shortfalls are
// collected as warnings.
func (s *ConfirmationService) adjustInventory(ctx context.Context, order *models.Order) []string {
	warnings := []string{}
	for _, item := range order.Products {
		if item.ProductID == "" || item.Quantity <= 0 {
			continue
		}

		err := s.products.DecrementStock(ctx, item.ProductID, item.Quantity)
		switch {
		case err == nil:
		case errors.Is(err, repository.ErrInsufficientStock):
			warnings = append(warnings, fmt.Sprintf("stock for product %s was not updated (insufficient quantity)", item.ProductID))
			s.logger.Warn("Stock not decremented",
				zap.String("product_id", item.ProductID),
				zap.Int("quantity", item.Quantity),
			)
		default:
			warnings = append(warnings, fmt.Sprintf("error updating stock for product %s", item.ProductID))
			s.logger.Warn("Stock decrement failed",
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
		}
	}
	return warnings
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
