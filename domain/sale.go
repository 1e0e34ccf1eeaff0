package domain

import "time"

type PaymentMethod string

const (
	PayCash  PaymentMethod = "cash"
	PayCard  PaymentMethod = "card"
	PayUPI   PaymentMethod = "upi"
	PayOther PaymentMethod = "other"
)

type Sale struct {
	ID            string        `json:"id"`
	InvoiceNumber string        `json:"invoiceNumber"`
	CustomerName  string        `json:"customerName,omitempty"`
	CustomerPhone string        `json:"customerPhone,omitempty"`
	Items         []SaleItem    `json:"items"`
	Subtotal      float64       `json:"subtotal"`
	Discount      float64       `json:"discount"`
	Tax           float64       `json:"tax"`
	Total         float64       `json:"total"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	SaleDate      time.Time     `json:"saleDate"`
	CreatedBy     string        `json:"createdBy"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// SaleItem snapshots the medicine's name, batch and expiry at the time
// of sale so later edits to the medicine do not rewrite old invoices.
type SaleItem struct {
	ID           string    `json:"id"`
	MedicineID   string    `json:"medicineId"`
	MedicineName string    `json:"medicineName"`
	BatchNumber  string    `json:"batchNumber"`
	ExpiryDate   time.Time `json:"expiryDate"`
	Quantity     int       `json:"quantity"`
	UnitPrice    float64   `json:"unitPrice"`
	Discount     float64   `json:"discount"`
	TotalPrice   float64   `json:"totalPrice"`
}
