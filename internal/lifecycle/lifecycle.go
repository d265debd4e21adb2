// Package lifecycle is the Lifecycle Coordinator (SPEC_FULL.md §4.7): it
// sequences the metadata-store and backend-store writes a create/update/
// delete operation touches, and rolls back whatever already succeeded if a
// later step fails. This is write-ahead-rollback discipline, not a
// distributed transaction — there is no two-phase commit and no durable
// transaction log; a crash mid-sequence can still leave an orphaned record,
// same trade-off the original service makes.
//
// Grounded on the teacher's internal/rotation/rollback.Manager: a
// compensating-action stack, keyed here on record ID instead of
// service/environment, running its undo steps in reverse registration
// order on failure.
package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/systmms/secretcore/internal/logging"
	"github.com/systmms/secretcore/internal/observability"
)

// rollbackTimeout bounds unwind() so a cancelled request context never
// prevents already-applied steps from being undone (§5: rollbacks run under
// a detached context, not the request's).
const rollbackTimeout = 10 * time.Second

// Step is one unit of work in a Sequence: an action to perform and a
// compensating action to undo it if a later Step fails.
type Step struct {
	Name     string
	Do       func(ctx context.Context) error
	Undo     func(ctx context.Context) error
}

// Sequence runs a list of Steps in order. If any Step's Do fails, every
// previously-succeeded Step's Undo runs in reverse order before the
// original error is returned.
type Sequence struct {
	recordID string
	logger   *logging.Logger
	metrics  *observability.Metrics
	steps    []Step
	done     []Step
	mu       sync.Mutex
}

// New starts a Sequence for the given record ID, used only for logging
// context.
func New(recordID string, logger *logging.Logger) *Sequence {
	return &Sequence{recordID: recordID, logger: logger}
}

// WithMetrics attaches a Metrics recorder so unwind() reports every
// rollback step it runs. Optional: a Sequence built without it just skips
// recording.
func (s *Sequence) WithMetrics(metrics *observability.Metrics) *Sequence {
	s.metrics = metrics
	return s
}

// Add registers a Step. Steps run in the order Add is called.
func (s *Sequence) Add(step Step) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, step)
}

// Run executes every registered Step in order. On the first failure it
// unwinds the Steps that already succeeded, in reverse order, then returns
// the original failure as-is, preserving its errors.Kind (§7: a Conflict or
// Upstream error from a Step must reach the caller verbatim, not collapse
// to Internal). The unwind itself is best-effort: an Undo failure is
// logged, not returned, so the caller sees the root cause rather than a
// cleanup error.
func (s *Sequence) Run(ctx context.Context) error {
	s.mu.Lock()
	steps := s.steps
	s.mu.Unlock()

	for _, step := range steps {
		if err := step.Do(ctx); err != nil {
			s.warn("step failed, unwinding", logging.F("step", step.Name), logging.F("record_id", s.recordID))
			s.unwind()
			return err
		}
		s.mu.Lock()
		s.done = append(s.done, step)
		s.mu.Unlock()
	}
	return nil
}

// unwind runs Undo for every completed Step, most recently completed
// first, under a fresh detached context so a cancelled request can't block
// cleanup.
func (s *Sequence) unwind() {
	ctx, cancel := context.WithTimeout(context.Background(), rollbackTimeout)
	defer cancel()

	s.mu.Lock()
	done := s.done
	s.done = nil
	s.mu.Unlock()

	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.Undo == nil {
			continue
		}
		status := "ok"
		if err := step.Undo(ctx); err != nil {
			status = "failed"
			s.warn("rollback step failed", logging.F("step", step.Name), logging.F("record_id", s.recordID), logging.F("error", err.Error()))
		}
		if s.metrics != nil {
			s.metrics.RecordRollback(step.Name, status)
		}
	}
}

func (s *Sequence) warn(msg string, fields ...logging.Field) {
	if s.logger != nil {
		s.logger.Warn(msg, fields...)
	}
}
