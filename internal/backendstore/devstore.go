package backendstore

import (
	"context"
	"sync"
)

// DevStore is an in-process, mutex-guarded map. It is the development-only
// backend-store variant (SPEC_FULL.md §4.2.5): intended for local
// development and the test suite, never production. Grounded on the
// in-memory map idiom used by the teacher's literal/mock providers, adapted
// to the Put/Get/Delete/Update contract.
type DevStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewDevStore() *DevStore {
	return &DevStore{data: make(map[string][]byte)}
}

func (d *DevStore) Name() string { return "dev" }

func (d *DevStore) Put(ctx context.Context, id string, payload []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.data[id]; exists {
		return errConflict(d.Name(), id)
	}
	d.data[id] = append([]byte(nil), payload...)
	return nil
}

func (d *DevStore) Get(ctx context.Context, id string) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.data[id]
	if !ok {
		return nil, errNotFound(d.Name(), id)
	}
	return append([]byte(nil), v...), nil
}

func (d *DevStore) Delete(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.data, id)
	return nil
}

func (d *DevStore) Update(ctx context.Context, id string, payload []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.data[id]; !ok {
		return errNotFound(d.Name(), id)
	}
	d.data[id] = append([]byte(nil), payload...)
	return nil
}
