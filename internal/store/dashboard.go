package store

import (
	"time"

	"medstock/m/domain"
)

// DashboardStats scans the current collections relative to local
// midnight and the first day of the current month. Nothing is cached;
// callers get fresh numbers on every call.
func (s *Store) DashboardStats() (domain.DashboardStats, error) {
	var stats domain.DashboardStats

	medicines, err := s.Medicines()
	if err != nil {
		return stats, err
	}
	sales, err := s.Sales()
	if err != nil {
		return stats, err
	}
	orders, err := s.PurchaseOrders()
	if err != nil {
		return stats, err
	}

	now := s.now()
	today := midnight(now)
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats.TotalMedicines = len(medicines)
	for _, m := range medicines {
		if m.Quantity <= m.MinStockLevel {
			stats.LowStockCount++
		}
		switch days := daysUntilExpiry(m.ExpiryDate, now); {
		case days > 0 && days <= expiryWindowDays:
			stats.ExpiringCount++
		case days <= 0:
			stats.ExpiredCount++
		}
	}

	for _, sale := range sales {
		if !sale.SaleDate.Before(today) {
			stats.TodaySales += sale.Total
		}
		if !sale.SaleDate.Before(firstOfMonth) {
			stats.MonthlySales += sale.Total
		}
	}

	for _, o := range orders {
		if o.Status == domain.OrderPending || o.Status == domain.OrderOrdered {
			stats.PendingOrders++
		}
	}

	return stats, nil
}
