package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dom/cv-builder-api/internal/domain"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache keeps serialized documents in process. Used when no redis URL is configured.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, userID string) (*domain.CVDocument, error) {
	c.mu.RLock()
	entry, ok := c.entries[Key(userID)]
	c.mu.RUnlock()

	if !ok {
		return nil, ErrMiss
	}
	if c.expired(entry) {
		c.mu.Lock()
		// A Set may have replaced the entry since the read lock was released.
		if current, ok := c.entries[Key(userID)]; ok && c.expired(current) {
			delete(c.entries, Key(userID))
		}
		c.mu.Unlock()
		return nil, ErrMiss
	}
	return Decode(entry.data)
}

func (c *MemoryCache) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt)
}

func (c *MemoryCache) Set(ctx context.Context, userID string, doc *domain.CVDocument) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}

	entry := memoryEntry{data: data}
	if c.ttl > 0 {
		entry.expiresAt = c.now().Add(c.ttl)
	}

	c.mu.Lock()
	c.entries[Key(userID)] = entry
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, userIDs ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range userIDs {
		delete(c.entries, Key(id))
	}
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
