package kms

import (
	"context"
	"time"

	"github.com/systmms/secretcore/internal/observability"
)

// Instrumented wraps a Service, recording C12's KMS-call counters and
// latency histogram around every call, labeled by the wrapped adapter's
// Name().
type Instrumented struct {
	Service
	metrics *observability.Metrics
}

// Instrument wraps svc so its calls report into metrics. Returns svc
// unchanged if metrics is nil.
func Instrument(svc Service, metrics *observability.Metrics) Service {
	if metrics == nil {
		return svc
	}
	return &Instrumented{Service: svc, metrics: metrics}
}

func (i *Instrumented) GenerateDataKey(ctx context.Context, keyAlias string, context_ map[string]string) ([]byte, []byte, error) {
	start := time.Now()
	plaintext, wrapped, err := i.Service.GenerateDataKey(ctx, keyAlias, context_)
	i.record("generate_data_key", start, err)
	return plaintext, wrapped, err
}

func (i *Instrumented) DecryptDataKey(ctx context.Context, keyAlias string, wrappedKey []byte, context_ map[string]string) ([]byte, error) {
	start := time.Now()
	plaintext, err := i.Service.DecryptDataKey(ctx, keyAlias, wrappedKey, context_)
	i.record("decrypt_data_key", start, err)
	return plaintext, err
}

func (i *Instrumented) record(operation string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	i.metrics.RecordKMSCall(operation, i.Service.Name(), status, time.Since(start).Seconds())
}
