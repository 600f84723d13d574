package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bistronome/resto-ui-api/internal/ports"
)

// IdleState names the idle monitor's state machine states.
type IdleState string

const (
	// IdleStateInactive means the monitor is not running (no authenticated session).
	IdleStateInactive IdleState = "inactive"
	// IdleStateArmed means the monitor is running with no warning shown.
	IdleStateArmed IdleState = "armed"
	// IdleStateWarning means the expiry warning has been issued.
	IdleStateWarning IdleState = "warning"
)

// IdleConfig holds the idle monitor timing configuration.
type IdleConfig struct {
	// Timeout is the total inactivity duration before forced logout.
	Timeout time.Duration
	// WarningLead is how long before forced logout the warning fires.
	// Must be in (0, Timeout).
	WarningLead time.Duration
	// BookkeepInterval is the cadence of the best-effort activity mirror.
	BookkeepInterval time.Duration
}

// DefaultIdleConfig returns the production timings: 30 minutes of idle
// tolerance with a 5 minute warning lead.
func DefaultIdleConfig() IdleConfig {
	return IdleConfig{
		Timeout:          30 * time.Minute,
		WarningLead:      5 * time.Minute,
		BookkeepInterval: time.Minute,
	}
}

// SessionControl is the slice of SessionService the idle monitor needs. The
// monitor never touches principal fields; it only ends the session and asks
// the store to mirror activity bookkeeping.
type SessionControl interface {
	Authenticated() bool
	Logout(ctx context.Context)
	TouchActivity()
	RecordActivity(ctx context.Context)
}

// IdleMonitorOptions groups dependencies for IdleMonitor.
type IdleMonitorOptions struct {
	Sessions  SessionControl
	Notifier  ports.NotificationSink
	Scheduler ports.Scheduler
	Clock     ports.Clock
	Config    IdleConfig
	Logger    *slog.Logger
	// OnExpired, when set, runs after an inactivity logout completes.
	OnExpired func()
}

// IdleMonitor enforces the inactivity timeout for one authenticated session.
//
// States: Inactive -> Armed on Start; Armed/Warning -> Armed on Activity
// (deadlines rewound to now+offsets); Armed -> Warning when the warning
// deadline elapses; Warning -> Inactive when the logout deadline elapses
// (after notifying and logging the session out); any state -> Inactive on
// Stop. Every reset cancels the previous deadline pair before scheduling the
// next one, so exactly one pair is ever pending.
type IdleMonitor struct {
	sessions  SessionControl
	notifier  ports.NotificationSink
	scheduler ports.Scheduler
	clock     ports.Clock
	cfg       IdleConfig
	logger    *slog.Logger
	onExpired func()

	mu             sync.Mutex
	state          IdleState
	gen            uint64
	warnDeadline   time.Time
	logoutDeadline time.Time
	cancelWarn     ports.CancelFunc
	cancelLogout   ports.CancelFunc
	cancelBookkeep ports.CancelFunc
}

// NewIdleMonitor constructs an IdleMonitor in the Inactive state.
func NewIdleMonitor(opts IdleMonitorOptions) *IdleMonitor {
	cfg := opts.Config
	if cfg.Timeout <= 0 {
		cfg = DefaultIdleConfig()
	}
	if cfg.WarningLead <= 0 || cfg.WarningLead >= cfg.Timeout {
		cfg.WarningLead = cfg.Timeout / 6
	}
	clock := opts.Clock
	if clock == nil {
		clock = ports.SystemClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &IdleMonitor{
		sessions:  opts.Sessions,
		notifier:  opts.Notifier,
		scheduler: opts.Scheduler,
		clock:     clock,
		cfg:       cfg,
		logger:    logger,
		onExpired: opts.OnExpired,
		state:     IdleStateInactive,
	}
}

// Start arms the monitor. A monitor that is already running resets instead.
// Starting without an authenticated session is a no-op.
func (m *IdleMonitor) Start() {
	if !m.sessions.Authenticated() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = IdleStateArmed
	m.rescheduleLocked()
	m.scheduleBookkeepLocked()
}

// Activity records a qualifying activity event: both deadlines are rewound to
// now+offsets and any warning is cleared. A reset out of the warning state
// additionally confirms the extension to the user. Resets are idempotent;
// among rapid-fire events the last one wins.
func (m *IdleMonitor) Activity() {
	m.mu.Lock()
	if m.state == IdleStateInactive {
		m.mu.Unlock()
		return
	}
	wasWarning := m.state == IdleStateWarning
	m.state = IdleStateArmed
	m.rescheduleLocked()
	m.mu.Unlock()

	m.sessions.TouchActivity()
	if wasWarning {
		m.notifier.Notify(ports.Notification{
			Kind:        ports.NotificationSessionExtended,
			Title:       "Session prolongée",
			Description: "Votre session a été prolongée avec succès.",
			Duration:    5 * time.Second,
		})
	}
}

// Stop tears the monitor down: all pending deadlines are cancelled
// synchronously before it returns. Safe to call repeatedly.
func (m *IdleMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = IdleStateInactive
	m.cancelDeadlinesLocked()
	if m.cancelBookkeep != nil {
		m.cancelBookkeep()
		m.cancelBookkeep = nil
	}
}

// State returns the current state.
func (m *IdleMonitor) State() IdleState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Deadlines returns the pending warning and forced-logout deadlines. Both are
// zero when Inactive.
func (m *IdleMonitor) Deadlines() (warning, logout time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == IdleStateInactive {
		return time.Time{}, time.Time{}
	}
	return m.warnDeadline, m.logoutDeadline
}

// rescheduleLocked cancels the pending deadline pair and schedules a fresh
// one from now. Cancelling a timer cannot stop a callback that already fired,
// so each pair is additionally stamped with a generation: a callback whose
// generation has moved on is dropped under the mutex before it can act.
func (m *IdleMonitor) rescheduleLocked() {
	m.cancelDeadlinesLocked()
	gen := m.gen
	now := m.clock.Now()
	m.warnDeadline = now.Add(m.cfg.Timeout - m.cfg.WarningLead)
	m.logoutDeadline = now.Add(m.cfg.Timeout)
	m.cancelWarn = m.scheduler.ScheduleAt(m.warnDeadline, func() { m.onWarningDeadline(gen) })
	m.cancelLogout = m.scheduler.ScheduleAt(m.logoutDeadline, func() { m.onLogoutDeadline(gen) })
}

func (m *IdleMonitor) cancelDeadlinesLocked() {
	m.gen++
	if m.cancelWarn != nil {
		m.cancelWarn()
		m.cancelWarn = nil
	}
	if m.cancelLogout != nil {
		m.cancelLogout()
		m.cancelLogout = nil
	}
	m.warnDeadline = time.Time{}
	m.logoutDeadline = time.Time{}
}

// onWarningDeadline moves Armed -> Warning and emits the expiry warning.
func (m *IdleMonitor) onWarningDeadline(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || m.state != IdleStateArmed {
		m.mu.Unlock()
		return
	}
	m.state = IdleStateWarning
	m.mu.Unlock()

	m.notifier.Notify(ports.Notification{
		Kind:        ports.NotificationExpiringSoon,
		Title:       "Session expirée bientôt",
		Description: "Votre session expirera dans 5 minutes. Toute activité la prolongera.",
		Duration:    10 * time.Second,
	})
}

// onLogoutDeadline handles expiry: notify, end the session through the
// session store, then go Inactive.
func (m *IdleMonitor) onLogoutDeadline(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || m.state == IdleStateInactive {
		m.mu.Unlock()
		return
	}
	m.state = IdleStateInactive
	m.cancelDeadlinesLocked()
	if m.cancelBookkeep != nil {
		m.cancelBookkeep()
		m.cancelBookkeep = nil
	}
	m.mu.Unlock()

	m.notifier.Notify(ports.Notification{
		Kind:        ports.NotificationInactivityLogout,
		Title:       "Session expirée",
		Description: "Vous avez été déconnecté pour inactivité.",
		Duration:    5 * time.Second,
	})
	m.sessions.Logout(context.Background())
	m.logger.Info("session ended for inactivity")
	if m.onExpired != nil {
		m.onExpired()
	}
}

// scheduleBookkeepLocked arms the periodic activity mirror. Each tick
// reschedules itself while the monitor is running.
func (m *IdleMonitor) scheduleBookkeepLocked() {
	if m.cancelBookkeep != nil {
		m.cancelBookkeep()
	}
	interval := m.cfg.BookkeepInterval
	if interval <= 0 {
		interval = time.Minute
	}
	m.cancelBookkeep = m.scheduler.ScheduleAt(m.clock.Now().Add(interval), m.onBookkeepTick)
}

func (m *IdleMonitor) onBookkeepTick() {
	m.mu.Lock()
	if m.state == IdleStateInactive {
		m.mu.Unlock()
		return
	}
	m.scheduleBookkeepLocked()
	m.mu.Unlock()

	// Best-effort: the session store swallows mirror failures.
	m.sessions.RecordActivity(context.Background())
}
