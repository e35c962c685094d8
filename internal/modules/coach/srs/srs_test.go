package srs

import (
	"testing"
	"time"
)

func TestAdvance_SuccessDoublesUpToCeiling(t *testing.T) {
	t.Parallel()

	want := []int{2, 4, 8, 16, 30, 30, 30}
	cur := 1
	prev := cur
	for i, w := range want {
		next, _ := Advance(true, cur, time.Unix(0, 0))
		if next != w {
			t.Fatalf("step %d: expected %d got %d", i, w, next)
		}
		if next < prev {
			t.Fatalf("step %d: interval decreased %d -> %d", i, prev, next)
		}
		if next > MaxIntervalDays {
			t.Fatalf("step %d: interval %d above ceiling", i, next)
		}
		prev, cur = next, next
	}
}

func TestAdvance_FailureResets(t *testing.T) {
	t.Parallel()

	for _, cur := range []int{1, 2, 16, 30} {
		next, _ := Advance(false, cur, time.Unix(0, 0))
		if next != 1 {
			t.Fatalf("from %d: expected reset to 1 got %d", cur, next)
		}
	}
}

func TestAdvance_FloorsNonPositiveInterval(t *testing.T) {
	t.Parallel()

	for _, cur := range []int{0, -5} {
		next, _ := Advance(true, cur, time.Unix(0, 0))
		if next != 2 {
			t.Fatalf("from %d: expected 2 got %d", cur, next)
		}
	}
}

func TestAdvance_DueDateIsNowPlusInterval(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 10, 15, 4, 5, 0, time.UTC)
	next, due := Advance(true, 4, now)
	if next != 8 {
		t.Fatalf("expected 8 got %d", next)
	}
	if want := now.AddDate(0, 0, 8); !due.Equal(want) {
		t.Fatalf("expected due %s got %s", want, due)
	}

	_, due = Advance(false, 8, now)
	if want := now.Add(24 * time.Hour); !due.Equal(want) {
		t.Fatalf("expected due %s got %s", want, due)
	}
}
