package store

import (
	"fmt"
	"math"
	"time"

	"medstock/m/domain"
)

// expiryWindowDays is how far ahead a medicine counts as expiring soon.
const expiryWindowDays = 30

// daysUntilExpiry compares calendar dates at local midnight, ceiling
// rounded, so "expires tomorrow" is 1 and "expired today" is 0.
func daysUntilExpiry(expiry, now time.Time) int {
	diff := midnight(expiry).Sub(midnight(now))
	return int(math.Ceil(diff.Hours() / 24))
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// evaluateAlerts derives low-stock and expiry alerts for the medicine's
// current state. It runs inside the same atomic update as the medicine
// write. Alerts are deduplicated per medicine, title and calendar day: a
// repeated trigger the same day refreshes the existing alert's message
// and leaves its read flag alone instead of appending a duplicate.
func (s *Store) evaluateAlerts(tx Tx, m domain.Medicine) error {
	now := s.now()
	var derived []domain.Alert

	if m.Quantity <= m.MinStockLevel {
		derived = append(derived, domain.Alert{
			Type:  domain.AlertLowStock,
			Title: "Low Stock Alert",
			Message: fmt.Sprintf("%s (%s) is running low on stock. Current quantity: %d",
				m.Name, m.BatchNumber, m.Quantity),
		})
	}

	// The expiring and expired windows are mutually exclusive.
	days := daysUntilExpiry(m.ExpiryDate, now)
	expiryStr := m.ExpiryDate.Format("02 Jan 2006")
	switch {
	case days > 0 && days <= expiryWindowDays:
		derived = append(derived, domain.Alert{
			Type:    domain.AlertExpiry,
			Title:   "Expiry Alert",
			Message: fmt.Sprintf("%s (%s) will expire on %s", m.Name, m.BatchNumber, expiryStr),
		})
	case days <= 0:
		derived = append(derived, domain.Alert{
			Type:    domain.AlertExpiry,
			Title:   "Expired Medicine",
			Message: fmt.Sprintf("%s (%s) has expired on %s", m.Name, m.BatchNumber, expiryStr),
		})
	}

	if len(derived) == 0 {
		return nil
	}

	alerts, err := loadCollection[domain.Alert](tx, keyAlerts)
	if err != nil {
		return err
	}
	for _, alert := range derived {
		alert.MedicineID = m.ID
		alert.MedicineName = m.Name
		idx := findAlert(alerts, m.ID, alert.Title, now)
		if idx >= 0 {
			alerts[idx].Message = alert.Message
			alerts[idx].MedicineName = alert.MedicineName
			continue
		}
		alert.ID = s.newID()
		alert.CreatedAt = now
		alerts = append(alerts, alert)
	}
	return saveCollection(tx, keyAlerts, alerts)
}

func findAlert(alerts []domain.Alert, medicineID, title string, now time.Time) int {
	day := midnight(now)
	for i, a := range alerts {
		if a.MedicineID == medicineID && a.Title == title && midnight(a.CreatedAt).Equal(day) {
			return i
		}
	}
	return -1
}

func (s *Store) Alerts() ([]domain.Alert, error) {
	return loadCollection[domain.Alert](s.kv, keyAlerts)
}

func (s *Store) UnreadAlerts() ([]domain.Alert, error) {
	alerts, err := s.Alerts()
	if err != nil {
		return nil, err
	}
	unread := make([]domain.Alert, 0, len(alerts))
	for _, a := range alerts {
		if !a.IsRead {
			unread = append(unread, a)
		}
	}
	return unread, nil
}

// AddAlert records a manually raised alert, e.g. a system notice.
func (s *Store) AddAlert(a domain.Alert) (domain.Alert, error) {
	err := s.kv.Update(func(tx Tx) error {
		alerts, err := loadCollection[domain.Alert](tx, keyAlerts)
		if err != nil {
			return err
		}
		a.ID = s.newID()
		a.CreatedAt = s.now()
		return saveCollection(tx, keyAlerts, append(alerts, a))
	})
	if err != nil {
		return domain.Alert{}, err
	}
	return a, nil
}

func (s *Store) MarkAlertRead(id string) error {
	return s.kv.Update(func(tx Tx) error {
		alerts, err := loadCollection[domain.Alert](tx, keyAlerts)
		if err != nil {
			return err
		}
		for i := range alerts {
			if alerts[i].ID == id {
				alerts[i].IsRead = true
				return saveCollection(tx, keyAlerts, alerts)
			}
		}
		return ErrNotFound
	})
}

func (s *Store) MarkAllAlertsRead() error {
	return s.kv.Update(func(tx Tx) error {
		alerts, err := loadCollection[domain.Alert](tx, keyAlerts)
		if err != nil {
			return err
		}
		for i := range alerts {
			alerts[i].IsRead = true
		}
		return saveCollection(tx, keyAlerts, alerts)
	})
}

func (s *Store) DeleteAlert(id string) (bool, error) {
	removed := false
	err := s.kv.Update(func(tx Tx) error {
		alerts, err := loadCollection[domain.Alert](tx, keyAlerts)
		if err != nil {
			return err
		}
		kept := alerts[:0]
		for _, a := range alerts {
			if a.ID == id {
				removed = true
				continue
			}
			kept = append(kept, a)
		}
		if !removed {
			return nil
		}
		return saveCollection(tx, keyAlerts, kept)
	})
	return removed, err
}
