package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/studorg/counter-system/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// fakeClock is a controllable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// memRecorder collects attendance records synchronously.
type memRecorder struct {
	mu      sync.Mutex
	records []domain.Permanency
}

func (r *memRecorder) Record(p domain.Permanency) {
	r.mu.Lock()
	r.records = append(r.records, p)
	r.mu.Unlock()
}

func (r *memRecorder) all() []domain.Permanency {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Permanency, len(r.records))
	copy(out, r.records)
	return out
}

const testTimeout = 10 * time.Minute

func newTestRegistry(t *testing.T) (*Registry, *fakeClock, *memRecorder) {
	t.Helper()
	clock := newFakeClock(time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC))
	rec := &memRecorder{}
	reg := NewRegistry(testTimeout, rec, zerolog.Nop(), WithClock(clock.Now))
	return reg, clock, rec
}

// ---------------------------------------------------------------------------
// Login / Logout
// ---------------------------------------------------------------------------

func TestRegistry_Login_Idempotent(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	reg.Login("bar-1", "op-1")
	reg.Login("bar-1", "op-1")

	active := reg.TouchAndList("bar-1")
	if len(active) != 1 {
		t.Fatalf("expected exactly 1 active entry, got %d", len(active))
	}
	if active[0].OperatorID != "op-1" {
		t.Errorf("unexpected operator: %s", active[0].OperatorID)
	}
}

func TestRegistry_Login_SecondLoginKeepsOriginalLoginTime(t *testing.T) {
	reg, clock, _ := newTestRegistry(t)

	t0 := clock.Now()
	reg.Login("bar-1", "op-1")
	clock.Advance(2 * time.Minute)
	reg.Login("bar-1", "op-1")

	active := reg.TouchAndList("bar-1")
	if !active[0].LoginTime.Equal(t0) {
		t.Errorf("login time must not change on repeat login: want %v, got %v", t0, active[0].LoginTime)
	}
}

func TestRegistry_Logout_RecordsAttendance(t *testing.T) {
	reg, clock, rec := newTestRegistry(t)

	t0 := clock.Now()
	reg.Login("bar-1", "op-1")
	clock.Advance(5 * time.Minute)
	// Stay inside the idle window; this query refreshes the activity clock and
	// becomes the end of the logout interval.
	reg.TouchAndList("bar-1")
	tEnd := clock.Now()

	if err := reg.Logout("bar-1", "op-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}

	records := rec.all()
	if len(records) != 1 {
		t.Fatalf("expected 1 attendance record, got %d", len(records))
	}
	if !records[0].Start.Equal(t0) {
		t.Errorf("start: want %v, got %v", t0, records[0].Start)
	}
	if !records[0].End.Equal(tEnd) {
		t.Errorf("end: want %v, got %v", tEnd, records[0].End)
	}
	if records[0].End.Before(records[0].Start) {
		t.Error("attendance end must not precede start")
	}
}

func TestRegistry_Logout_WithoutLogin_IsReportedNoOp(t *testing.T) {
	reg, _, rec := newTestRegistry(t)

	err := reg.Logout("bar-1", "ghost")
	if !errors.Is(err, domain.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
	if len(rec.all()) != 0 {
		t.Error("no attendance record must be written for an absent session")
	}
}

func TestRegistry_Logout_UnknownOperatorAtActiveCounter(t *testing.T) {
	reg, _, rec := newTestRegistry(t)

	reg.Login("bar-1", "op-1")
	err := reg.Logout("bar-1", "op-2")
	if !errors.Is(err, domain.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
	if len(rec.all()) != 0 {
		t.Error("no attendance record expected")
	}
	if got := reg.ActiveCount("bar-1"); got != 1 {
		t.Errorf("op-1 must remain logged in, active=%d", got)
	}
}

// ---------------------------------------------------------------------------
// Idle timeout
// ---------------------------------------------------------------------------

func TestRegistry_TimeoutEviction_IntervalEndsAtLastActivity(t *testing.T) {
	reg, clock, rec := newTestRegistry(t)

	t0 := clock.Now()
	reg.Login("bar-1", "op-1")

	// A query 5 minutes in refreshes the idle clock.
	clock.Advance(5 * time.Minute)
	lastSeen := clock.Now()
	if got := reg.TouchAndList("bar-1"); len(got) != 1 {
		t.Fatalf("operator should still be active, got %d", len(got))
	}

	// Then the counter goes quiet past the timeout.
	clock.Advance(testTimeout + time.Second)
	active := reg.TouchAndList("bar-1")
	if len(active) != 0 {
		t.Fatalf("expected mass eviction, still %d active", len(active))
	}

	records := rec.all()
	if len(records) != 1 {
		t.Fatalf("expected 1 attendance record, got %d", len(records))
	}
	if !records[0].Start.Equal(t0) {
		t.Errorf("start: want %v, got %v", t0, records[0].Start)
	}
	// End is the last refresh, not the query that detected the timeout.
	if !records[0].End.Equal(lastSeen) {
		t.Errorf("end: want %v (last activity), got %v", lastSeen, records[0].End)
	}
}

func TestRegistry_TimeoutEviction_EvictsWholeCounter(t *testing.T) {
	reg, clock, rec := newTestRegistry(t)

	reg.Login("bar-1", "op-1")
	reg.Login("bar-1", "op-2")
	reg.Login("bar-1", "op-3")

	clock.Advance(testTimeout + time.Minute)
	if active := reg.TouchAndList("bar-1"); len(active) != 0 {
		t.Fatalf("expected empty set after eviction, got %d", len(active))
	}
	if len(rec.all()) != 3 {
		t.Errorf("expected 3 attendance records, got %d", len(rec.all()))
	}
}

func TestRegistry_QueryWithinTimeout_RefreshesIdleClock(t *testing.T) {
	reg, clock, _ := newTestRegistry(t)

	reg.Login("bar-1", "op-1")

	// Repeated queries each within the window keep the session alive far
	// beyond a single timeout span.
	for i := 0; i < 5; i++ {
		clock.Advance(testTimeout - time.Minute)
		if got := reg.TouchAndList("bar-1"); len(got) != 1 {
			t.Fatalf("iteration %d: session must survive while polled, got %d active", i, len(got))
		}
	}
}

func TestRegistry_CountersTimeOutIndependently(t *testing.T) {
	reg, clock, _ := newTestRegistry(t)

	reg.Login("bar-1", "op-1")
	clock.Advance(testTimeout / 2)
	reg.Login("office-1", "op-2")

	clock.Advance(testTimeout/2 + time.Second)
	if got := reg.TouchAndList("bar-1"); len(got) != 0 {
		t.Errorf("bar-1 should have timed out, got %d active", len(got))
	}
	if got := reg.TouchAndList("office-1"); len(got) != 1 {
		t.Errorf("office-1 should still be active, got %d", len(got))
	}
}

// ---------------------------------------------------------------------------
// PickRandomActive
// ---------------------------------------------------------------------------

func TestRegistry_PickRandomActive_Empty(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	_, err := reg.PickRandomActive("bar-1")
	if !errors.Is(err, domain.ErrEmptySession) {
		t.Fatalf("expected ErrEmptySession, got %v", err)
	}
}

func TestRegistry_PickRandomActive_ReturnsMember(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	reg.Login("bar-1", "op-1")
	reg.Login("bar-1", "op-2")

	picked, err := reg.PickRandomActive("bar-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if picked != "op-1" && picked != "op-2" {
		t.Errorf("picked operator %q is not a member of the active set", picked)
	}
}

func TestRegistry_PickRandomActive_AfterTimeout(t *testing.T) {
	reg, clock, _ := newTestRegistry(t)

	reg.Login("bar-1", "op-1")
	clock.Advance(testTimeout + time.Second)

	_, err := reg.PickRandomActive("bar-1")
	if !errors.Is(err, domain.ErrEmptySession) {
		t.Fatalf("timed-out session must look empty, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Sweep
// ---------------------------------------------------------------------------

func TestRegistry_Sweep_EvictsOnlyIdleCounters(t *testing.T) {
	reg, clock, rec := newTestRegistry(t)

	reg.Login("bar-1", "op-1")
	clock.Advance(testTimeout / 2)
	reg.Login("bar-2", "op-2") // refreshes bar-2 only

	clock.Advance(testTimeout/2 + time.Second)
	evicted := reg.Sweep()

	if evicted != 1 {
		t.Fatalf("expected 1 eviction, got %d", evicted)
	}
	records := rec.all()
	if len(records) != 1 || records[0].CounterID != "bar-1" {
		t.Fatalf("expected one record for bar-1, got %+v", records)
	}
	if got := reg.ActiveCount("bar-2"); got != 1 {
		t.Errorf("bar-2 must be untouched, active=%d", got)
	}
}

func TestRegistry_Sweep_DoesNotRefreshIdleClock(t *testing.T) {
	reg, clock, _ := newTestRegistry(t)

	reg.Login("bar-1", "op-1")
	clock.Advance(testTimeout - time.Second)
	if n := reg.Sweep(); n != 0 {
		t.Fatalf("nothing should be evicted yet, got %d", n)
	}

	// Had Sweep refreshed the clock this would still be within the window.
	clock.Advance(2 * time.Second)
	if got := reg.TouchAndList("bar-1"); len(got) != 0 {
		t.Errorf("session should have expired, got %d active", len(got))
	}
}

// ---------------------------------------------------------------------------
// Concurrency
// ---------------------------------------------------------------------------

func TestRegistry_ConcurrentLoginsSameCounter(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reg.Login("bar-1", operatorID(i))
		}(i)
	}
	wg.Wait()

	if got := len(reg.TouchAndList("bar-1")); got != n {
		t.Errorf("expected %d active operators, got %d", n, got)
	}
}

func TestRegistry_ConcurrentLoginLogoutListDoesNotLoseRecords(t *testing.T) {
	reg, _, rec := newTestRegistry(t)

	const n = 32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := operatorID(i)
			reg.Login("bar-1", id)
			reg.TouchAndList("bar-1")
			if err := reg.Logout("bar-1", id); err != nil {
				t.Errorf("logout %s: %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	if got := len(rec.all()); got != n {
		t.Errorf("expected %d attendance records, got %d", n, got)
	}
	if got := reg.ActiveCount("bar-1"); got != 0 {
		t.Errorf("expected empty counter, got %d active", got)
	}
}

func operatorID(i int) string {
	return "op-" + string(rune('a'+i%26)) + string(rune('a'+(i/26)%26))
}
