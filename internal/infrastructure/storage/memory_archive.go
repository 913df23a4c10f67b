package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tradelink/backend/internal/domain/edi"
)

// Ensure InMemoryInterchangeArchive implements the archive port
var _ edi.InterchangeArchive = (*InMemoryInterchangeArchive)(nil)

// InMemoryInterchangeArchive keeps payloads in process memory. It backs
// development deployments and tests where no object store is available;
// archived payloads do not survive a restart.
type InMemoryInterchangeArchive struct {
	mu       sync.RWMutex
	payloads map[string]string
}

// NewInMemoryInterchangeArchive creates an empty in-memory archive
func NewInMemoryInterchangeArchive() *InMemoryInterchangeArchive {
	return &InMemoryInterchangeArchive{
		payloads: make(map[string]string),
	}
}

// Store archives the payload and returns the key it is retrievable under
func (a *InMemoryInterchangeArchive) Store(ctx context.Context, interchange *edi.Interchange, payload string) (string, error) {
	if interchange == nil {
		return "", errors.New("interchange is required")
	}
	if payload == "" {
		return "", errors.New("payload is required")
	}

	created := interchange.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	key := fmt.Sprintf("%s/%s/%s.edi",
		strings.ToLower(string(interchange.Direction)),
		created.UTC().Format("2006/01/02"),
		interchange.MessageRef,
	)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.payloads[key] = payload

	return key, nil
}

// Retrieve returns the payload stored under the key
func (a *InMemoryInterchangeArchive) Retrieve(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", errors.New("archive key is required")
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	payload, ok := a.payloads[key]
	if !ok {
		return "", fmt.Errorf("archived payload not found under key %s", key)
	}
	return payload, nil
}

// Len returns the number of archived payloads
func (a *InMemoryInterchangeArchive) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.payloads)
}
