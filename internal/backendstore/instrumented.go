package backendstore

import (
	"context"
	"time"

	"github.com/systmms/secretcore/internal/observability"
)

// Instrumented wraps a Store, recording C12's backend-store-call counters
// and latency histogram around every call, labeled by the wrapped
// adapter's Name().
type Instrumented struct {
	Store
	metrics *observability.Metrics
}

// Instrument wraps store so its calls report into metrics. Returns store
// unchanged if metrics is nil.
func Instrument(store Store, metrics *observability.Metrics) Store {
	if metrics == nil {
		return store
	}
	return &Instrumented{Store: store, metrics: metrics}
}

func (i *Instrumented) Put(ctx context.Context, id string, payload []byte) error {
	start := time.Now()
	err := i.Store.Put(ctx, id, payload)
	i.record("put", start, err)
	return err
}

func (i *Instrumented) Get(ctx context.Context, id string) ([]byte, error) {
	start := time.Now()
	payload, err := i.Store.Get(ctx, id)
	i.record("get", start, err)
	return payload, err
}

func (i *Instrumented) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := i.Store.Delete(ctx, id)
	i.record("delete", start, err)
	return err
}

func (i *Instrumented) Update(ctx context.Context, id string, payload []byte) error {
	start := time.Now()
	err := i.Store.Update(ctx, id, payload)
	i.record("update", start, err)
	return err
}

func (i *Instrumented) record(operation string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	i.metrics.RecordBackendStoreCall(operation, i.Store.Name(), status, time.Since(start).Seconds())
}
