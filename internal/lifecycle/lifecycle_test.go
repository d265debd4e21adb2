package lifecycle_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dserrors "github.com/systmms/secretcore/internal/errors"
	"github.com/systmms/secretcore/internal/lifecycle"
)

func TestSequenceRunsStepsInOrder(t *testing.T) {
	t.Parallel()
	var order []string

	seq := lifecycle.New("secret-1", nil)
	seq.Add(lifecycle.Step{Name: "metadata", Do: func(ctx context.Context) error {
		order = append(order, "metadata")
		return nil
	}})
	seq.Add(lifecycle.Step{Name: "backend", Do: func(ctx context.Context) error {
		order = append(order, "backend")
		return nil
	}})

	require.NoError(t, seq.Run(context.Background()))
	assert.Equal(t, []string{"metadata", "backend"}, order)
}

func TestSequenceUnwindsOnFailureInReverseOrder(t *testing.T) {
	t.Parallel()
	var undone []string

	seq := lifecycle.New("secret-1", nil)
	seq.Add(lifecycle.Step{
		Name: "metadata",
		Do:   func(ctx context.Context) error { return nil },
		Undo: func(ctx context.Context) error { undone = append(undone, "metadata"); return nil },
	})
	seq.Add(lifecycle.Step{
		Name: "backend",
		Do:   func(ctx context.Context) error { return nil },
		Undo: func(ctx context.Context) error { undone = append(undone, "backend"); return nil },
	})
	seq.Add(lifecycle.Step{
		Name: "kms",
		Do:   func(ctx context.Context) error { return errors.New("kms unreachable") },
	})

	err := seq.Run(context.Background())
	assert.Error(t, err)
	assert.Equal(t, []string{"backend", "metadata"}, undone)
}

func TestSequenceSurvivesFailingUndo(t *testing.T) {
	t.Parallel()

	seq := lifecycle.New("secret-1", nil)
	seq.Add(lifecycle.Step{
		Name: "metadata",
		Do:   func(ctx context.Context) error { return nil },
		Undo: func(ctx context.Context) error { return errors.New("undo also failed") },
	})
	seq.Add(lifecycle.Step{
		Name: "backend",
		Do:   func(ctx context.Context) error { return errors.New("backend write failed") },
	})

	err := seq.Run(context.Background())
	assert.Error(t, err)
}

func TestSequencePreservesFailureKind(t *testing.T) {
	t.Parallel()

	seq := lifecycle.New("secret-1", nil)
	seq.Add(lifecycle.Step{
		Name: "metadata",
		Do:   func(ctx context.Context) error { return dserrors.New(dserrors.KindNameConflict, "metadata", "secret-1 already exists") },
	})

	err := seq.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, dserrors.KindNameConflict, dserrors.KindOf(err))
}
