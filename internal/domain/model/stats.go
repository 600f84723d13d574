//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

// DashboardStats aggregates the figures shown on the manager dashboard.
// All values are computed by SQL aggregates at read time.
type DashboardStats struct {
	TotalOrders   int     `json:"total_orders"   db:"total_orders"`
	PendingOrders int     `json:"pending_orders" db:"pending_orders"`
	ServedOrders  int     `json:"served_orders"  db:"served_orders"`
	TotalRevenue  float64 `json:"total_revenue"  db:"total_revenue"`
	TodayRevenue  float64 `json:"today_revenue"  db:"today_revenue"`
	ActiveServers int     `json:"active_servers" db:"active_servers"`
}
