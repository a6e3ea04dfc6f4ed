package repository

import (
	"context"
	"sync"
	"time"

	"github.com/bilal-alaabadi/arkan-b/models"
)

type pendingEntry struct {
	order     *models.PendingOrder
	expiresAt time.Time
}

// MemoryPendingStore is the in-memory PendingOrderStore for single-process
// deployments. A background sweep evicts expired entries so abandoned carts
// do not accumulate until restart.
type MemoryPendingStore struct {
	mu      sync.RWMutex
	entries map[string]pendingEntry
	ttl     time.Duration
	stop    chan struct{}
	once    sync.Once
}

// NewMemoryPendingStore creates a MemoryPendingStore. A ttl of zero disables
// expiry; sweepInterval controls how often expired entries are evicted.
func NewMemoryPendingStore(ttl, sweepInterval time.Duration) *MemoryPendingStore {
	s := &MemoryPendingStore{
		entries: make(map[string]pendingEntry),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
	if ttl > 0 && sweepInterval > 0 {
		go s.sweep(sweepInterval)
	}
	return s
}

func (s *MemoryPendingStore) Put(_ context.Context, order *models.PendingOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := pendingEntry{order: order}
	if s.ttl > 0 {
		entry.expiresAt = time.Now().Add(s.ttl)
	}
	s.entries[order.OrderReference] = entry
	return nil
}

func (s *MemoryPendingStore) Get(_ context.Context, orderReference string) (*models.PendingOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[orderReference]
	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		return nil, nil
	}
	return entry.order, nil
}

func (s *MemoryPendingStore) Delete(_ context.Context, orderReference string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, orderReference)
	return nil
}

// Close stops the background sweep.
func (s *MemoryPendingStore) Close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *MemoryPendingStore) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for ref, entry := range s.entries {
				if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
					delete(s.entries, ref)
				}
			}
			s.mu.Unlock()
		}
	}
}
