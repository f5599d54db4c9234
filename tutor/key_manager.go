package tutor

import (
	"fmt"
	"os"
	"sync"
	"time"
)

const maxRotatedKeys = 4

// KeyManager handles API key rotation
type KeyManager struct {
	keys     []string
	current  int
	failedAt map[string]time.Time
	cooldown time.Duration
	now      func() time.Time
	mu       sync.Mutex
}

// NewKeyManager creates a key manager over keys, dropping blanks and duplicates
func NewKeyManager(keys ...string) *KeyManager {
	seen := make(map[string]bool)
	var clean []string
	for _, k := range keys {
		if k != "" && !seen[k] {
			seen[k] = true
			clean = append(clean, k)
		}
	}
	return &KeyManager{
		keys:     clean,
		failedAt: make(map[string]time.Time),
		cooldown: time.Minute,
		now:      time.Now,
	}
}

// KeysFromEnv collects GEMINI_API_KEY_1..4 followed by GEMINI_API_KEY
func KeysFromEnv() []string {
	keys := make([]string, 0, maxRotatedKeys+1)
	for i := 1; i <= maxRotatedKeys; i++ {
		if key := os.Getenv(fmt.Sprintf("GEMINI_API_KEY_%d", i)); key != "" {
			keys = append(keys, key)
		}
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		keys = append(keys, key)
	}
	return keys
}

func (km *KeyManager) Len() int {
	km.mu.Lock()
	defer km.mu.Unlock()
	return len(km.keys)
}

// GetNextKey returns the next healthy key in rotation. If every key failed
// recently it still returns the next one rather than nothing.
func (km *KeyManager) GetNextKey() string {
	km.mu.Lock()
	defer km.mu.Unlock()

	if len(km.keys) == 0 {
		return ""
	}

	now := km.now()
	for range km.keys {
		key := km.keys[km.current%len(km.keys)]
		km.current++
		if failed, ok := km.failedAt[key]; !ok || now.Sub(failed) >= km.cooldown {
			delete(km.failedAt, key)
			return key
		}
	}
	key := km.keys[km.current%len(km.keys)]
	km.current++
	return key
}

// MarkKeyFailed benches key for the cooldown period
func (km *KeyManager) MarkKeyFailed(key string) {
	km.mu.Lock()
	defer km.mu.Unlock()
	km.failedAt[key] = km.now()
}
