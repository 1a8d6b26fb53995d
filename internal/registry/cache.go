package registry

import (
	"context"
	"sync"
	"time"
)

// DefaultCacheTTL matches the host CMS's discovery transient lifetime.
const DefaultCacheTTL = time.Hour

// Detector produces a fresh registry/catalog snapshot. A full rescan is
// assumed expensive (it may hit the CMS over the network), so callers wrap
// detectors in a CachedDetector.
type Detector interface {
	Detect(ctx context.Context) (*Snapshot, error)
}

// CachedDetector memoizes a detector's snapshot for a TTL. Snapshots are
// immutable, so handing the same pointer to concurrent callers is safe.
type CachedDetector struct {
	detector Detector
	ttl      time.Duration
	now      func() time.Time

	mu        sync.Mutex
	snapshot  *Snapshot
	fetchedAt time.Time
}

func NewCachedDetector(d Detector, ttl time.Duration) *CachedDetector {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedDetector{detector: d, ttl: ttl, now: time.Now}
}

// Detect returns the cached snapshot while it is fresh, otherwise rescans.
// A failed rescan falls back to the stale snapshot when one exists, since a
// stale catalog still resolves better than none.
func (c *CachedDetector) Detect(ctx context.Context) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.snapshot, nil
	}

	snap, err := c.detector.Detect(ctx)
	if err != nil {
		if c.snapshot != nil {
			return c.snapshot, nil
		}
		return nil, err
	}

	c.snapshot = snap
	c.fetchedAt = c.now()
	return snap, nil
}

// Invalidate drops the cached snapshot so the next Detect rescans.
func (c *CachedDetector) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.mu.Unlock()
}
