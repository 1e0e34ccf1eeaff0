package domain

import "time"

type AlertType string

const (
	AlertLowStock AlertType = "low_stock"
	AlertExpiry   AlertType = "expiry"
	AlertSystem   AlertType = "system"
)

type Alert struct {
	ID           string    `json:"id"`
	Type         AlertType `json:"type"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	MedicineID   string    `json:"medicineId,omitempty"`
	MedicineName string    `json:"medicineName,omitempty"`
	IsRead       bool      `json:"isRead"`
	CreatedAt    time.Time `json:"createdAt"`
}
