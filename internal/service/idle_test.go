package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mockauth "github.com/bistronome/resto-ui-api/internal/mocks/auth"
	"github.com/bistronome/resto-ui-api/internal/ports"
	"github.com/bistronome/resto-ui-api/internal/service"
)

type idleFixture struct {
	*sessionFixture
	scheduler *mockauth.ManualScheduler
	sink      *mockauth.RecordingSink
	monitor   *service.IdleMonitor
	expired   int
}

func newIdleFixture(t *testing.T) *idleFixture {
	t.Helper()
	f := &idleFixture{
		sessionFixture: newSessionFixture(t),
		scheduler:      mockauth.NewManualScheduler(),
	}
	f.sink = mockauth.NewRecordingSink(f.clock)
	f.monitor = service.NewIdleMonitor(service.IdleMonitorOptions{
		Sessions:  f.sessions,
		Notifier:  f.sink,
		Scheduler: f.scheduler,
		Clock:     f.clock,
		Config: service.IdleConfig{
			Timeout:          30 * time.Minute,
			WarningLead:      5 * time.Minute,
			BookkeepInterval: 10 * time.Minute,
		},
		OnExpired: func() { f.expired++ },
	})
	return f
}

func (f *idleFixture) login(t *testing.T) {
	t.Helper()
	ok, err := f.sessions.Login(context.Background(), "admin@restaurant.com", "admin123")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestIdleMonitor_StartRequiresSession(t *testing.T) {
	f := newIdleFixture(t)

	f.monitor.Start()
	assert.Equal(t, service.IdleStateInactive, f.monitor.State())
	assert.Zero(t, f.scheduler.Pending())
}

func TestIdleMonitor_StartArmsDeadlines(t *testing.T) {
	f := newIdleFixture(t)
	f.login(t)

	f.monitor.Start()
	assert.Equal(t, service.IdleStateArmed, f.monitor.State())

	warn, logout := f.monitor.Deadlines()
	assert.Equal(t, testEpoch.Add(25*time.Minute), warn)
	assert.Equal(t, testEpoch.Add(30*time.Minute), logout)
	// Warning deadline, logout deadline, and the bookkeeping tick.
	assert.Equal(t, 3, f.scheduler.Pending())
}

func TestIdleMonitor_WarningFires(t *testing.T) {
	f := newIdleFixture(t)
	f.login(t)
	f.monitor.Start()

	cutoff := f.clock.Advance(25 * time.Minute)
	f.scheduler.Fire(cutoff)

	assert.Equal(t, service.IdleStateWarning, f.monitor.State())
	kinds := f.sink.Kinds()
	require.NotEmpty(t, kinds)
	assert.Equal(t, ports.NotificationExpiringSoon, kinds[len(kinds)-1])

	last := f.sink.All()[len(kinds)-1]
	assert.Equal(t, "Session expirée bientôt", last.Title)
	assert.Equal(t, 10*time.Second, last.Duration)
}

func TestIdleMonitor_ActivityReschedules(t *testing.T) {
	f := newIdleFixture(t)
	f.login(t)
	f.monitor.Start()
	cancelledBefore := f.scheduler.Cancelled()

	now := f.clock.Advance(10 * time.Minute)
	f.monitor.Activity()

	assert.Equal(t, service.IdleStateArmed, f.monitor.State())
	warn, logout := f.monitor.Deadlines()
	assert.Equal(t, now.Add(25*time.Minute), warn)
	assert.Equal(t, now.Add(30*time.Minute), logout)
	// The stale deadline pair was cancelled, not left to fire.
	assert.Equal(t, cancelledBefore+2, f.scheduler.Cancelled())
	assert.Empty(t, f.sink.All(), "a quiet reset confirms nothing")

	assert.Equal(t, now, f.sessions.Snapshot().LastActivity)
}

func TestIdleMonitor_ActivityDuringWarningExtends(t *testing.T) {
	f := newIdleFixture(t)
	f.login(t)
	f.monitor.Start()

	cutoff := f.clock.Advance(25 * time.Minute)
	f.scheduler.Fire(cutoff)
	require.Equal(t, service.IdleStateWarning, f.monitor.State())

	f.clock.Advance(time.Minute)
	f.monitor.Activity()

	assert.Equal(t, service.IdleStateArmed, f.monitor.State())
	kinds := f.sink.Kinds()
	require.NotEmpty(t, kinds)
	assert.Equal(t, ports.NotificationSessionExtended, kinds[len(kinds)-1])
	assert.Equal(t, "Session prolongée", f.sink.All()[len(kinds)-1].Title)
}

func TestIdleMonitor_ForcedLogout(t *testing.T) {
	f := newIdleFixture(t)
	f.login(t)
	f.monitor.Start()

	cutoff := f.clock.Advance(30 * time.Minute)
	f.scheduler.Fire(cutoff)

	assert.Equal(t, service.IdleStateInactive, f.monitor.State())
	assert.False(t, f.sessions.Authenticated())
	assert.Zero(t, f.state.Len(), "logout purges the durable mirror")
	assert.Equal(t, 1, f.expired)
	assert.Zero(t, f.scheduler.Pending())

	kinds := f.sink.Kinds()
	require.NotEmpty(t, kinds)
	// Warning precedes the forced logout.
	assert.Contains(t, kinds, ports.NotificationExpiringSoon)
	assert.Equal(t, ports.NotificationInactivityLogout, kinds[len(kinds)-1])
	assert.Equal(t, "Session expirée", f.sink.All()[len(kinds)-1].Title)
}

func TestIdleMonitor_ActivityAfterStopIsNoop(t *testing.T) {
	f := newIdleFixture(t)
	f.login(t)
	f.monitor.Start()

	f.monitor.Stop()
	assert.Equal(t, service.IdleStateInactive, f.monitor.State())
	assert.Zero(t, f.scheduler.Pending())

	f.monitor.Activity()
	assert.Equal(t, service.IdleStateInactive, f.monitor.State())
	assert.Zero(t, f.scheduler.Pending())
}

// racingScheduler captures every callback and ignores cancellation, modelling
// a time.AfterFunc callback that already fired when Cancel ran.
type racingScheduler struct {
	fns []func()
}

func (s *racingScheduler) ScheduleAt(_ time.Time, fn func()) ports.CancelFunc {
	s.fns = append(s.fns, fn)
	return func() {}
}

func TestIdleMonitor_StaleWarningCallbackDropped(t *testing.T) {
	f := newIdleFixture(t)
	f.login(t)

	racing := &racingScheduler{}
	monitor := service.NewIdleMonitor(service.IdleMonitorOptions{
		Sessions:  f.sessions,
		Notifier:  f.sink,
		Scheduler: racing,
		Clock:     f.clock,
		Config: service.IdleConfig{
			Timeout:          30 * time.Minute,
			WarningLead:      5 * time.Minute,
			BookkeepInterval: 10 * time.Minute,
		},
	})
	monitor.Start()
	require.Len(t, racing.fns, 3)
	staleWarn := racing.fns[0]
	staleLogout := racing.fns[1]

	f.clock.Advance(25 * time.Minute)
	monitor.Activity()
	warnBefore, logoutBefore := monitor.Deadlines()

	// The old warning callback fired before Activity could cancel it. It must
	// not flip the just-reset monitor into Warning.
	staleWarn()
	assert.Equal(t, service.IdleStateArmed, monitor.State())
	assert.Empty(t, f.sink.All())

	warnAfter, logoutAfter := monitor.Deadlines()
	assert.Equal(t, warnBefore, warnAfter)
	assert.Equal(t, logoutBefore, logoutAfter)

	// The fresh warning still fires against the new pair.
	require.Len(t, racing.fns, 5)
	racing.fns[3]()
	assert.Equal(t, service.IdleStateWarning, monitor.State())
	kinds := f.sink.Kinds()
	require.NotEmpty(t, kinds)
	assert.Equal(t, ports.NotificationExpiringSoon, kinds[len(kinds)-1])

	// A stale logout callback must not end the session either.
	staleLogout()
	assert.True(t, f.sessions.Authenticated())
	assert.Equal(t, service.IdleStateWarning, monitor.State())
}

func TestIdleMonitor_BookkeepTickMirrorsActivity(t *testing.T) {
	f := newIdleFixture(t)
	f.login(t)
	f.monitor.Start()
	// Drop the mirror keys written at login so the tick's writes stand out.
	require.NoError(t, f.state.Delete(context.Background(), "auth_user", "last_login", "session_id"))

	cutoff := f.clock.Advance(10 * time.Minute)
	f.scheduler.Fire(cutoff)

	keys := f.state.Keys()
	assert.Contains(t, keys, "last_activity")
	assert.Contains(t, keys, "active_user")
	// The tick rescheduled itself alongside the deadline pair.
	assert.Equal(t, 3, f.scheduler.Pending())
}
