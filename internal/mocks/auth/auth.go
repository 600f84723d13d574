package auth

// Package auth contains simple hand-written test doubles for the session
// ports. These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sort"
	"sync"
	"time"

	domainauth "github.com/bistronome/resto-ui-api/internal/domain/auth"
	"github.com/bistronome/resto-ui-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.Directory        = (*MockDirectory)(nil)
	_ ports.StateStore       = (*MemoryStateStore)(nil)
	_ ports.Scheduler        = (*ManualScheduler)(nil)
	_ ports.Clock            = (*FixedClock)(nil)
	_ ports.NotificationFeed = (*RecordingSink)(nil)
)

// MockDirectory simulates a credential directory with a fixed account set.
type MockDirectory struct {
	AuthenticateFunc func(ctx context.Context, email, password string) (*domainauth.Principal, error)

	// Accounts maps email -> password/principal when AuthenticateFunc is nil.
	Accounts map[string]MockAccount

	mu    sync.Mutex
	calls int
}

// MockAccount is one entry in the mock directory.
type MockAccount struct {
	Password  string
	Principal domainauth.Principal
}

// NewMockDirectory creates a MockDirectory with a single owner account
// (admin@restaurant.com / admin123).
func NewMockDirectory() *MockDirectory {
	return &MockDirectory{
		Accounts: map[string]MockAccount{
			"admin@restaurant.com": {
				Password: "admin123",
				Principal: domainauth.Principal{
					ID: "1", Nom: "SUPER", Prenoms: "Admin",
					Email: "admin@restaurant.com", Role: domainauth.RoleOwner,
				},
			},
		},
	}
}

func (m *MockDirectory) Authenticate(ctx context.Context, email, password string) (*domainauth.Principal, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, email, password)
	}
	account, ok := m.Accounts[email]
	if !ok || account.Password != password {
		return nil, nil
	}
	p := account.Principal
	return &p, nil
}

// Calls reports how many times Authenticate ran.
func (m *MockDirectory) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MemoryStateStore is an in-memory state store for unit tests. Error fields
// let tests simulate storage outages per operation.
type MemoryStateStore struct {
	mu     sync.Mutex
	values map[string][]byte

	SetErr    error
	GetErr    error
	DeleteErr error
}

// NewMemoryStateStore creates a new in-memory state store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{values: make(map[string][]byte)}
}

func (m *MemoryStateStore) Set(_ context.Context, key string, value []byte) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.values[key] = cp
	return nil
}

func (m *MemoryStateStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	if !ok {
		return nil, notFoundError{}
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, nil
}

func (m *MemoryStateStore) Delete(_ context.Context, keys ...string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

// Put seeds a raw value, bypassing error simulation.
func (m *MemoryStateStore) Put(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Keys returns the stored keys, sorted.
func (m *MemoryStateStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored keys.
func (m *MemoryStateStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}

type notFoundError struct{}

func (notFoundError) Error() string { return "state store key not found" }

// FixedClock is a settable clock for deterministic tests.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a FixedClock at the given instant.
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to the given instant.
func (c *FixedClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Advance moves the clock forward by d and returns the new instant.
func (c *FixedClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// scheduledTask is one pending callback in the manual scheduler.
type scheduledTask struct {
	id       int
	deadline time.Time
	fn       func()
}

// ManualScheduler is a virtual-time scheduler. Tasks fire only when the test
// calls Fire with a cutoff instant, so timer behavior is fully deterministic.
type ManualScheduler struct {
	mu        sync.Mutex
	nextID    int
	tasks     map[int]scheduledTask
	cancelled int
}

// NewManualScheduler creates an empty manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{tasks: make(map[int]scheduledTask)}
}

func (s *ManualScheduler) ScheduleAt(deadline time.Time, fn func()) ports.CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.tasks[id] = scheduledTask{id: id, deadline: deadline, fn: fn}
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.tasks[id]; ok {
			delete(s.tasks, id)
			s.cancelled++
		}
	}
}

// Fire runs every task whose deadline is at or before the cutoff, in deadline
// order. Tasks scheduled by fired callbacks are picked up too, so a chain of
// deadlines can be driven with a single call.
func (s *ManualScheduler) Fire(cutoff time.Time) int {
	fired := 0
	for {
		task, ok := s.nextDue(cutoff)
		if !ok {
			return fired
		}
		task.fn()
		fired++
	}
}

func (s *ManualScheduler) nextDue(cutoff time.Time) (scheduledTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	best := scheduledTask{}
	found := false
	for _, task := range s.tasks {
		if task.deadline.After(cutoff) {
			continue
		}
		if !found || task.deadline.Before(best.deadline) {
			best = task
			found = true
		}
	}
	if found {
		delete(s.tasks, best.id)
	}
	return best, found
}

// Pending reports how many tasks are scheduled and uncancelled.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Cancelled reports how many tasks were cancelled before firing.
func (s *ManualScheduler) Cancelled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// RecordingSink captures notifications and serves them back as a feed.
type RecordingSink struct {
	mu        sync.Mutex
	delivered []ports.Delivered
	clock     ports.Clock
}

// NewRecordingSink creates a RecordingSink stamping deliveries with the given
// clock. A nil clock falls back to the system clock.
func NewRecordingSink(clock ports.Clock) *RecordingSink {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &RecordingSink{clock: clock}
}

func (r *RecordingSink) Notify(n ports.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delivered = append(r.delivered, ports.Delivered{Notification: n, At: r.clock.Now()})
}

func (r *RecordingSink) Recent(since time.Time) []ports.Delivered {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ports.Delivered, 0, len(r.delivered))
	for _, d := range r.delivered {
		if d.At.Before(since) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// All returns every recorded notification.
func (r *RecordingSink) All() []ports.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ports.Notification, 0, len(r.delivered))
	for _, d := range r.delivered {
		out = append(out, d.Notification)
	}
	return out
}

// Kinds returns the recorded notification kinds in order.
func (r *RecordingSink) Kinds() []ports.NotificationKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ports.NotificationKind, 0, len(r.delivered))
	for _, d := range r.delivered {
		out = append(out, d.Notification.Kind)
	}
	return out
}
