// Package session tracks which operators are currently clocked in at which
// counters. The registry is process-local shared state: every mutating
// operation runs under one mutex, and all reads of the active list double as
// liveness signals that refresh the counter's idle clock. Only the absence of
// any query for longer than the idle timeout triggers eviction, which turns
// each open login into a durable attendance record.
package session

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/studorg/counter-system/internal/core/domain"
)

// AttendanceRecorder receives the attendance record produced when an operator
// leaves a counter, by explicit logout or by idle-timeout eviction.
type AttendanceRecorder interface {
	Record(p domain.Permanency)
}

// ActiveOperator is one member of a counter's active set.
type ActiveOperator struct {
	OperatorID string
	LoginTime  time.Time
}

type counterSession struct {
	// operators maps operator ID to login time.
	operators    map[string]time.Time
	lastActivity time.Time
}

// Registry is the in-memory session registry. State is lost on restart; in a
// multi-replica deployment each replica holds its own independent view.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*counterSession

	timeout  time.Duration
	now      func() time.Time
	recorder AttendanceRecorder
	log      zerolog.Logger

	// onEvict, when set, is called with the counter ID and the number of
	// operators removed by a timeout eviction.
	onEvict func(counterID string, evicted int)
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock injects the time source. Tests use this to drive the idle timeout
// deterministically.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithEvictionHook registers a callback fired on every timeout eviction.
func WithEvictionHook(hook func(counterID string, evicted int)) Option {
	return func(r *Registry) { r.onEvict = hook }
}

// NewRegistry creates a Registry with the given idle timeout. Attendance
// records for every logout and eviction are handed to recorder.
func NewRegistry(timeout time.Duration, recorder AttendanceRecorder, log zerolog.Logger, opts ...Option) *Registry {
	r := &Registry{
		sessions: make(map[string]*counterSession),
		timeout:  timeout,
		now:      time.Now,
		recorder: recorder,
		log:      log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Login clocks an operator in at a counter. Logging in twice without an
// intervening logout keeps the original entry and its login time; either way
// the counter's idle clock is refreshed.
func (r *Registry) Login(counterID, operatorID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cs, ok := r.sessions[counterID]
	if !ok {
		cs = &counterSession{operators: make(map[string]time.Time)}
		r.sessions[counterID] = cs
	}
	if _, present := cs.operators[operatorID]; !present {
		cs.operators[operatorID] = now
	}
	cs.lastActivity = now

	r.log.Debug().Str("counter_id", counterID).Str("operator_id", operatorID).Msg("operator logged in")
}

// Logout clocks an operator out and records the attendance interval. The
// interval ends at the counter's last recorded activity, not at the wall
// clock: for a timeout eviction that credits presence only up to the moment
// the counter actually went idle.
func (r *Registry) Logout(counterID, operatorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.logoutLocked(counterID, operatorID)
}

func (r *Registry) logoutLocked(counterID, operatorID string) error {
	cs, ok := r.sessions[counterID]
	if !ok {
		return domain.ErrNotLoggedIn
	}
	loginTime, present := cs.operators[operatorID]
	if !present {
		return domain.ErrNotLoggedIn
	}
	delete(cs.operators, operatorID)

	r.recorder.Record(domain.Permanency{
		OperatorID: operatorID,
		CounterID:  counterID,
		Start:      loginTime,
		End:        cs.lastActivity,
	})

	r.log.Debug().Str("counter_id", counterID).Str("operator_id", operatorID).Msg("operator logged out")
	return nil
}

// TouchAndList returns the operators currently clocked in at a counter,
// ordered by login time. The call itself counts as counter activity: it
// refreshes the idle clock. When the counter has been idle for longer than
// the timeout the whole active set is evicted first, each member producing an
// attendance record ending at the stale last-activity timestamp, and the
// returned list is empty.
func (r *Registry) TouchAndList(counterID string) []ActiveOperator {
	r.mu.Lock()
	defer r.mu.Unlock()

	cs, ok := r.sessions[counterID]
	if !ok {
		return nil
	}

	now := r.now()
	if now.Sub(cs.lastActivity) > r.timeout {
		evicted := len(cs.operators)
		for operatorID := range cs.operators {
			// logoutLocked uses the stale lastActivity as the interval end.
			_ = r.logoutLocked(counterID, operatorID)
		}
		if evicted > 0 {
			r.log.Info().Str("counter_id", counterID).Int("evicted", evicted).Msg("idle timeout, session evicted")
			if r.onEvict != nil {
				r.onEvict(counterID, evicted)
			}
		}
		return nil
	}

	cs.lastActivity = now
	return activeList(cs)
}

// PickRandomActive returns an arbitrary member of the post-timeout-check
// active set, for attributing a sale to whoever is behind the bar.
func (r *Registry) PickRandomActive(counterID string) (string, error) {
	active := r.TouchAndList(counterID)
	if len(active) == 0 {
		return "", domain.ErrEmptySession
	}
	return active[rand.Intn(len(active))].OperatorID, nil
}

// Sweep applies the idle-timeout check to every counter without refreshing
// any idle clock. It exists so a periodic job can flush attendance records
// for counters that never receive another request; the eviction path and the
// recorded intervals are identical to the lazy check in TouchAndList.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	total := 0
	for counterID, cs := range r.sessions {
		if now.Sub(cs.lastActivity) <= r.timeout {
			continue
		}
		evicted := len(cs.operators)
		for operatorID := range cs.operators {
			_ = r.logoutLocked(counterID, operatorID)
		}
		if evicted > 0 {
			total += evicted
			r.log.Info().Str("counter_id", counterID).Int("evicted", evicted).Msg("sweep evicted idle session")
			if r.onEvict != nil {
				r.onEvict(counterID, evicted)
			}
		}
	}
	return total
}

// ActiveCount reports the current number of clocked-in operators at a counter
// without touching the idle clock.
func (r *Registry) ActiveCount(counterID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cs, ok := r.sessions[counterID]
	if !ok {
		return 0
	}
	return len(cs.operators)
}

func activeList(cs *counterSession) []ActiveOperator {
	out := make([]ActiveOperator, 0, len(cs.operators))
	for id, loginTime := range cs.operators {
		out = append(out, ActiveOperator{OperatorID: id, LoginTime: loginTime})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LoginTime.Equal(out[j].LoginTime) {
			return out[i].OperatorID < out[j].OperatorID
		}
		return out[i].LoginTime.Before(out[j].LoginTime)
	})
	return out
}
