package providers

import (
	"context"

	"github.com/bilal-alaabadi/arkan-b/models"
)

// PaymentStatusPaid is the gateway's payment status for a settled session.
const PaymentStatusPaid = "paid"

// CreateSessionRequest carries everything the gateway needs to host a
// checkout session. Metadata is stored verbatim on the session and is read
// back at confirmation time as a fallback source of customer/shipping data.
type CreateSessionRequest struct {
	ClientReferenceID string
	Products          []models.LineItem
	SuccessURL        string
	CancelURL         string
	Metadata          map[string]string
}

// SessionSummary is the listing view of a session; the gateway offers no
// direct lookup by client reference, so callers list and match.
type SessionSummary struct {
	SessionID         string
	ClientReferenceID string
}

// Session is the full session detail. TotalAmount is in the gateway's minor
// currency unit.
type Session struct {
	SessionID         string
	ClientReferenceID string
	PaymentStatus     string
	TotalAmount       int64
	Metadata          map[string]string
}

// PaymentProvider abstracts the hosted-checkout payment gateway. None of the
// operations retry internally.
type PaymentProvider interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (string, error)
	ListSessions(ctx context.Context, limit, skip int) ([]SessionSummary, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	PaymentLink(sessionID string) string
}
