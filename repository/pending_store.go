package repository

import (
	"context"

	"github.com/bilal-alaabadi/arkan-b/models"
)

// PendingOrderStore holds priced orders between checkout-session creation and
// payment confirmation, keyed by order reference. Get returns (nil, nil) when
// no entry exists; entries are ephemeral and expire after the configured TTL.
type PendingOrderStore interface {
	Put(ctx context.Context, order *models.PendingOrder) error
	Get(ctx context.Context, orderReference string) (*models.PendingOrder, error)
	Delete(ctx context.Context, orderReference string) error
}
