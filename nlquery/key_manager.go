package nlquery

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultCooldown is how long a failing key is skipped.
const DefaultCooldown = time.Minute

// KeyManager handles API key rotation
type KeyManager struct {
	keys     []string
	current  uint32
	mu       sync.RWMutex
	failed   map[string]time.Time
	cooldown time.Duration
	now      func() time.Time
}

// NewKeyManager creates a key manager over the given keys, dropping blanks
// and duplicates.
func NewKeyManager(keys []string) *KeyManager {
	seen := make(map[string]bool, len(keys))
	kept := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		kept = append(kept, k)
	}

	return &KeyManager{
		keys:     kept,
		failed:   make(map[string]time.Time),
		cooldown: DefaultCooldown,
		now:      time.Now,
	}
}

// Len returns the number of keys.
func (km *KeyManager) Len() int {
	return len(km.keys)
}

// GetNextKey returns the next API key in rotation, skipping keys that
// failed within the cooldown. When every key is cooling down it returns the
// next one anyway.
func (km *KeyManager) GetNextKey() string {
	km.mu.RLock()
	defer km.mu.RUnlock()

	if len(km.keys) == 0 {
		return ""
	}

	now := km.now()
	var fallback string
	for range km.keys {
		current := atomic.AddUint32(&km.current, 1)
		key := km.keys[(current-1)%uint32(len(km.keys))]
		if fallback == "" {
			fallback = key
		}
		if until, ok := km.failed[key]; !ok || !now.Before(until) {
			return key
		}
	}
	return fallback
}

// MarkKeyFailed skips key for the cooldown period.
func (km *KeyManager) MarkKeyFailed(key string) {
	km.mu.Lock()
	defer km.mu.Unlock()
	km.failed[key] = km.now().Add(km.cooldown)
}
