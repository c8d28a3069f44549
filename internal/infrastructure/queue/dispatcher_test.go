package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/studorg/counter-system/internal/core/domain"
)

type stubAttendanceRepo struct {
	mu      sync.Mutex
	records []domain.Permanency
}

func (s *stubAttendanceRepo) Append(_ context.Context, p *domain.Permanency) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, *p)
	return nil
}

func (s *stubAttendanceRepo) ListByCounter(_ context.Context, counterID string, _ int) ([]*domain.Permanency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Permanency
	for i := range s.records {
		if s.records[i].CounterID == counterID {
			out = append(out, &s.records[i])
		}
	}
	return out, nil
}

func (s *stubAttendanceRepo) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestDispatcher_PersistsRecords(t *testing.T) {
	repo := &stubAttendanceRepo{}
	d := NewDispatcher(2, repo, zerolog.Nop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < 20; i++ {
		d.Record(domain.Permanency{
			OperatorID: fmt.Sprintf("op-%d", i),
			CounterID:  fmt.Sprintf("counter-%d", i%3),
			Start:      time.Now().Add(-time.Hour),
			End:        time.Now(),
		})
	}

	waitFor(t, func() bool { return repo.count() == 20 })
}

func TestDispatcher_PerCounterOrderPreserved(t *testing.T) {
	repo := &stubAttendanceRepo{}
	d := NewDispatcher(3, repo, zerolog.Nop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	base := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		d.Record(domain.Permanency{
			OperatorID: fmt.Sprintf("op-%d", i),
			CounterID:  "counter-1",
			Start:      base.Add(time.Duration(i) * time.Minute),
			End:        base.Add(time.Duration(i+1) * time.Minute),
		})
	}

	waitFor(t, func() bool { return repo.count() == 10 })

	got, err := repo.ListByCounter(context.Background(), "counter-1", 100)
	if err != nil {
		t.Fatalf("ListByCounter: %v", err)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Start.Before(got[i-1].Start) {
			t.Fatalf("records out of order at %d: %v before %v", i, got[i].Start, got[i-1].Start)
		}
	}
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	repo := &stubAttendanceRepo{}
	var dropped int
	var mu sync.Mutex
	d := NewDispatcher(1, repo, zerolog.Nop(), func() {
		mu.Lock()
		dropped++
		mu.Unlock()
	})
	// not started: the single worker queue fills at channelBuffer

	for i := 0; i < channelBuffer+5; i++ {
		d.Record(domain.Permanency{OperatorID: "op-1", CounterID: "counter-1"})
	}

	mu.Lock()
	defer mu.Unlock()
	if dropped != 5 {
		t.Fatalf("dropped = %d, want 5", dropped)
	}
}
