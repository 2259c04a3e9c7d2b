// Package mock provides an in-memory stand-in for the item CRUD service. A
// *Mock satisfies crud.Backend, so crud.NewWithBackend(mock.New()) yields a
// client that behaves like one talking to the real service.
package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Ratio1/crud_sdk_go/internal/crudapi"
	"github.com/Ratio1/crud_sdk_go/internal/devseed"
	"github.com/Ratio1/crud_sdk_go/pkg/crud"
)

const (
	// StatusCreated is the status returned by Create.
	StatusCreated = "created"
	// StatusUpdated is the status returned by Update.
	StatusUpdated = "updated"
	// StatusDeleted is the status returned by Delete.
	StatusDeleted = "deleted"

	msgNotFound      = "Item not found"
	msgInvalidItem   = "Invalid input: value must be a number, txHash must be a string"
	msgUpdateMissing = "Update data is required"
	msgConflict      = "Item already exists"
)

type entry struct {
	item      crud.Item
	updatedAt time.Time
}

// Mock implements an in-memory item store with optional request quota.
type Mock struct {
	mu    sync.RWMutex
	items map[string]*entry
	now   func() time.Time
	newID func() string
	quota int
	used  int
}

// Option configures the mock instance.
type Option func(*Mock)

// WithClock overrides the clock used for timestamps (useful in tests).
func WithClock(fn func() time.Time) Option {
	return func(m *Mock) {
		if fn != nil {
			m.now = fn
		}
	}
}

// WithIDGenerator overrides the id generator (random UUIDs by default).
func WithIDGenerator(fn func() string) Option {
	return func(m *Mock) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// WithQuota limits the number of requests the mock accepts. Once spent, every
// call fails with crud.ErrQuotaExceeded. Zero means unlimited.
func WithQuota(n int) Option {
	return func(m *Mock) {
		if n > 0 {
			m.quota = n
		}
	}
}

// New creates an empty mock store.
func New(opts ...Option) *Mock {
	m := &Mock{
		items: make(map[string]*entry),
		now: func() time.Time {
			return time.Now().UTC()
		},
		newID: func() string {
			return uuid.NewString()
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Seed loads initial items from seed entries (typically decoded via
// devseed.LoadItemSeed). Seeding does not consume quota. A batch with any
// colliding id is rejected as a whole.
func (m *Mock) Seed(entries []devseed.ItemSeedEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, len(entries))
	batch := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		id := e.ID
		if id == "" {
			id = m.newID()
		}
		if _, exists := m.items[id]; exists {
			return fmt.Errorf("mock crud: seed id %q already present", id)
		}
		if _, dup := batch[id]; dup {
			return fmt.Errorf("mock crud: seed id %q repeated in batch", id)
		}
		batch[id] = struct{}{}
		ids[i] = id
	}

	now := m.now()
	for i, e := range entries {
		m.items[ids[i]] = &entry{
			item:      crud.Item{Value: e.Value, TxHash: e.TxHash},
			updatedAt: now,
		}
	}
	return nil
}

// Len returns the number of stored items.
func (m *Mock) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// IDs returns the stored ids in lexical order.
func (m *Mock) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Lookup returns the item stored under id and the time it was last written,
// without consuming quota.
func (m *Mock) Lookup(id string) (crud.Item, time.Time, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ent, ok := m.items[id]
	if !ok {
		return crud.Item{}, time.Time{}, false
	}
	return ent.item, ent.updatedAt, true
}

// Create validates payload and stores it under a fresh id.
func (m *Mock) Create(ctx context.Context, payload []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, crud.TransportFailure(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.charge(); err != nil {
		return nil, err
	}

	fields, err := crudapi.ParseItemFields(payload)
	if err != nil || !fields.Complete() {
		return nil, crud.RemoteFailure(http.StatusBadRequest, msgInvalidItem)
	}

	id := m.newID()
	if _, taken := m.items[id]; taken {
		return nil, crud.RemoteFailure(http.StatusConflict, msgConflict)
	}
	now := m.now()
	m.items[id] = &entry{
		item:      crud.Item{Value: *fields.Value, TxHash: *fields.TxHash},
		updatedAt: now,
	}
	return json.Marshal(crud.CreateResult{ID: id, Status: StatusCreated})
}

// Get returns the item stored under id.
func (m *Mock) Get(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, crud.TransportFailure(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.charge(); err != nil {
		return nil, err
	}

	ent, ok := m.items[id]
	if !ok {
		return nil, crud.RemoteFailure(http.StatusNotFound, msgNotFound)
	}
	return json.Marshal(crud.GetResult{Value: ent.item.Value, TxHash: ent.item.TxHash})
}

// Update applies the fields present in payload to id.
func (m *Mock) Update(ctx context.Context, id string, payload []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, crud.TransportFailure(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.charge(); err != nil {
		return nil, err
	}

	fields, err := crudapi.ParseItemFields(payload)
	if err != nil {
		return nil, crud.RemoteFailure(http.StatusBadRequest, msgInvalidItem)
	}
	if fields.Empty() {
		return nil, crud.RemoteFailure(http.StatusBadRequest, msgUpdateMissing)
	}
	ent, ok := m.items[id]
	if !ok {
		return nil, crud.RemoteFailure(http.StatusNotFound, msgNotFound)
	}
	if fields.Value != nil {
		ent.item.Value = *fields.Value
	}
	if fields.TxHash != nil {
		ent.item.TxHash = *fields.TxHash
	}
	ent.updatedAt = m.now()
	return json.Marshal(crud.UpdateResult{Status: StatusUpdated})
}

// Delete removes id.
func (m *Mock) Delete(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, crud.TransportFailure(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.charge(); err != nil {
		return nil, err
	}

	if _, ok := m.items[id]; !ok {
		return nil, crud.RemoteFailure(http.StatusNotFound, msgNotFound)
	}
	delete(m.items, id)
	return json.Marshal(crud.DeleteResult{Status: StatusDeleted})
}

// charge consumes one request from the quota. Callers hold m.mu.
func (m *Mock) charge() error {
	if m.quota == 0 {
		return nil
	}
	if m.used >= m.quota {
		return crud.QuotaExceeded()
	}
	m.used++
	return nil
}

var _ crud.Backend = (*Mock)(nil)
