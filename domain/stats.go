package domain

// DashboardStats is computed on demand from the current collections;
// it is never persisted.
type DashboardStats struct {
	TotalMedicines int     `json:"totalMedicines"`
	LowStockCount  int     `json:"lowStockCount"`
	ExpiringCount  int     `json:"expiringCount"`
	ExpiredCount   int     `json:"expiredCount"`
	TodaySales     float64 `json:"todaySales"`
	MonthlySales   float64 `json:"monthlySales"`
	PendingOrders  int     `json:"pendingOrders"`
}
