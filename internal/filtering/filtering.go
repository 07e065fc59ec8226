package filtering

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Filter represents a single filtering step applied to a collection. Steps
// are pure: they never reorder the collection and always return an
// order-preserving subsequence of their input.
type Filter[T any] interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate() error
	Apply(ctx context.Context, items []T) ([]T, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Run executes the supplied filters sequentially. Disabled steps (inactive
// dimensions, sentinel values, unparseable inputs) are skipped and never
// exclude records.
func Run[T any](ctx context.Context, logger *zap.Logger, steps []Filter[T], items []T) ([]T, error) {
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			if logger != nil {
				logger.Debug("filter disabled", zap.String("name", step.Name()))
			}
			continue
		}

		next, info, err := step.Apply(ctx, items)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if logger != nil {
			logger.Info("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		items = next
	}

	return items, nil
}

// predicateFilter adapts a keep function to the Filter interface. Every
// concrete dimension below is one of these; the constructors decide whether
// the dimension is active and build the predicate.
type predicateFilter[T any] struct {
	name     string
	disabled bool
	reason   string
	keep     func(T) bool
}

func (f *predicateFilter[T]) Name() string { return f.name }

func (f *predicateFilter[T]) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *predicateFilter[T]) IsEnabled() bool { return !f.disabled }

func (f *predicateFilter[T]) Validate() error {
	if !f.disabled && f.keep == nil {
		return fmt.Errorf("predicate is not initialized")
	}
	return nil
}

func (f *predicateFilter[T]) Apply(_ context.Context, items []T) ([]T, Step, error) {
	initial := len(items)
	left := lo.Filter(items, func(item T, _ int) bool {
		return f.keep(item)
	})

	return left, Step{Initial: initial, Dropped: initial - len(left), Left: len(left)}, nil
}

// passThrough marks a dimension inactive: it stays in the step list for
// logging but never excludes records.
func passThrough[T any](name, reason string) Filter[T] {
	f := &predicateFilter[T]{name: name}
	f.Disable(reason)
	return f
}
