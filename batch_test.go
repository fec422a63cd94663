package ighist

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestGenerateBatches(t *testing.T) {
	batches, err := GenerateBatches("2020-01-01T00:00:00Z", "2020-06-01T00:00:00Z", 2)
	if err != nil {
		t.Fatalf("GenerateBatches() error = %v", err)
	}
	if len(batches) != 3 {
		t.Fatalf("got %d batches, want 3", len(batches))
	}

	wantFroms := []time.Time{
		day(2020, time.January, 1),
		day(2020, time.March, 1),
		day(2020, time.May, 1),
	}
	for i, b := range batches {
		if !b.From.Equal(wantFroms[i]) {
			t.Errorf("batch %d From = %v, want %v", i, b.From, wantFroms[i])
		}
		if b.FailCount != 0 {
			t.Errorf("batch %d FailCount = %d, want 0", i, b.FailCount)
		}
	}

	t.Run("batches are contiguous", func(t *testing.T) {
		for i := 1; i < len(batches); i++ {
			if !batches[i].From.Equal(batches[i-1].To) {
				t.Errorf("batch %d From = %v, previous To = %v", i, batches[i].From, batches[i-1].To)
			}
		}
	})

	t.Run("last batch is clipped", func(t *testing.T) {
		if want := day(2020, time.June, 1); !batches[2].To.Equal(want) {
			t.Errorf("last To = %v, want %v", batches[2].To, want)
		}
	})
}

func TestGenerateBatches_Idempotent(t *testing.T) {
	// the same bounds always cut the same batches, so a resumed backfill
	// lines up with the one it resumes.
	first, err := GenerateBatches("2020-01-01T00:00:00Z", "2020-06-01T00:00:00Z", 2)
	if err != nil {
		t.Fatalf("GenerateBatches() error = %v", err)
	}
	again, err := GenerateBatches("2020-01-01T00:00:00Z", "2020-06-01T00:00:00Z", 2)
	if err != nil {
		t.Fatalf("GenerateBatches() error = %v", err)
	}
	if !reflect.DeepEqual(first, again) {
		t.Errorf("same bounds cut different batches:\n%v\n%v", first, again)
	}
}

func TestGenerateBatches_NamesTheBadBound(t *testing.T) {
	_, err := GenerateBatches("january", "2020-06-01T00:00:00Z", 2)
	if err == nil || !strings.Contains(err.Error(), "start") || !strings.Contains(err.Error(), "january") {
		t.Errorf("error = %v, want it to name the failing start bound", err)
	}

	_, err = GenerateBatches("2020-01-01T00:00:00Z", "june", 2)
	if err == nil || !strings.Contains(err.Error(), "end") || !strings.Contains(err.Error(), "june") {
		t.Errorf("error = %v, want it to name the failing end bound", err)
	}
}

func TestGenerateBatches_EmptyRange(t *testing.T) {
	batches, err := GenerateBatches("2020-06-01T00:00:00Z", "2020-06-01T00:00:00Z", 2)
	if err != nil {
		t.Fatalf("GenerateBatches() error = %v", err)
	}
	if len(batches) != 0 {
		t.Errorf("got %d batches, want 0", len(batches))
	}
}

func TestRehydration(t *testing.T) {
	batches, _ := GenerateBatches("2020-01-01T00:00:00Z", "2020-06-01T00:00:00Z", 2)
	r := Rehydration{Pending: batches}

	r.Complete(batches[0])
	if len(r.Pending) != 2 {
		t.Errorf("got %d pending, want 2", len(r.Pending))
	}
	if want := day(2020, time.March, 1); !r.LastCompleted.Equal(want) {
		t.Errorf("LastCompleted = %v, want %v", r.LastCompleted, want)
	}

	failed := r.Pending[0]
	r.Pending = r.Pending[1:]
	r.Requeue(failed)
	if len(r.Pending) != 2 {
		t.Fatalf("got %d pending after requeue, want 2", len(r.Pending))
	}
	back := r.Pending[len(r.Pending)-1]
	if back.FailCount != 1 {
		t.Errorf("FailCount = %d, want 1", back.FailCount)
	}
	if !back.From.Equal(failed.From) {
		t.Errorf("requeued From = %v, want %v", back.From, failed.From)
	}
}
