package filtering

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestRunPreservesOrder(t *testing.T) {
	items := []int{5, 1, 4, 2, 3}

	even := &predicateFilter[int]{
		name: "drop_odd",
		keep: func(v int) bool { return v%2 == 0 },
	}

	left, err := Run(context.Background(), zap.NewNop(), []Filter[int]{even}, items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(left) != 2 || left[0] != 4 || left[1] != 2 {
		t.Fatalf("expected order-preserving subsequence [4 2], got %v", left)
	}
}

func TestRunSkipsDisabledSteps(t *testing.T) {
	items := []int{1, 2, 3}

	dropAll := &predicateFilter[int]{
		name: "drop_all",
		keep: func(int) bool { return false },
	}
	dropAll.Disable("turned off for the test")

	left, err := Run(context.Background(), zap.NewNop(), []Filter[int]{dropAll}, items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(left) != len(items) {
		t.Fatalf("disabled step must not exclude records, got %v", left)
	}
}

func TestRunFailsValidationBeforeApplying(t *testing.T) {
	items := []int{1, 2, 3}

	broken := &predicateFilter[int]{name: "broken"}
	counting := &predicateFilter[int]{
		name: "counting",
		keep: func(int) bool { return true },
	}

	_, err := Run(context.Background(), zap.NewNop(), []Filter[int]{counting, broken}, items)
	if err == nil {
		t.Fatal("expected validation error for uninitialized predicate")
	}
}
