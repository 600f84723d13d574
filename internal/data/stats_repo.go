package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bistronome/resto-ui-api/internal/data/pgxutil"
	"github.com/bistronome/resto-ui-api/internal/domain/model"
)

// StatsRepo computes dashboard aggregates. The location decides where "today"
// begins; a restaurant's revenue day rolls over at its local midnight, not UTC.
type StatsRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	loc          *time.Location
}

// NewStatsRepo creates a new StatsRepo with real time provider. A nil location
// falls back to the server's local time.
func NewStatsRepo(db *sql.DB, loc *time.Location) *StatsRepo {
	return NewStatsRepoWithTimeProvider(db, &RealTimeProvider{}, loc)
}

// NewStatsRepoWithTimeProvider creates a new StatsRepo with a custom time provider (useful for tests).
func NewStatsRepoWithTimeProvider(db *sql.DB, tp TimeProvider, loc *time.Location) *StatsRepo {
	if loc == nil {
		loc = time.Local
	}
	return &StatsRepo{DB: db, timeProvider: tp, loc: loc}
}

// startOfDay returns midnight of now's calendar date in loc.
func startOfDay(now time.Time, loc *time.Location) time.Time {
	year, month, day := now.In(loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// dashboardStatsQuery computes everything in one round trip. Cancelled orders
// are excluded from revenue; today's boundary is passed in from the caller so
// the clock stays injectable.
const dashboardStatsQuery = `
	SELECT
		(SELECT COUNT(*) FROM orders) AS total_orders,
		(SELECT COUNT(*) FROM orders WHERE status = 'pending') AS pending_orders,
		(SELECT COUNT(*) FROM orders WHERE status = 'served') AS served_orders,
		(SELECT COALESCE(SUM(total_price), 0) FROM orders WHERE status != 'cancelled') AS total_revenue,
		(SELECT COALESCE(SUM(total_price), 0) FROM orders WHERE status != 'cancelled' AND created_at >= $1) AS today_revenue,
		(SELECT COUNT(*) FROM users WHERE role IN ('manager', 'employee')) AS active_servers`

// DashboardStats computes the dashboard figures at read time.
func (r *StatsRepo) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	dayStart := startOfDay(r.timeProvider.Now(), r.loc)

	var out model.DashboardStats
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, dashboardStatsQuery, dayStart)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.DashboardStats])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}
	return &out, nil
}
