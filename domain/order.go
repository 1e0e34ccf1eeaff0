package domain

import "time"

// OrderStatus is the lifecycle state of a purchase order.
// Valid transitions: pending -> ordered -> received, and any state
// other than received may be cancelled.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderOrdered   OrderStatus = "ordered"
	OrderReceived  OrderStatus = "received"
	OrderCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

type PurchaseOrder struct {
	ID                   string              `json:"id"`
	OrderNumber          string              `json:"orderNumber"`
	SupplierID           string              `json:"supplierId"`
	SupplierName         string              `json:"supplierName"`
	Status               OrderStatus         `json:"status"`
	OrderDate            time.Time           `json:"orderDate"`
	ExpectedDeliveryDate *time.Time          `json:"expectedDeliveryDate,omitempty"`
	ReceivedDate         *time.Time          `json:"receivedDate,omitempty"`
	TotalAmount          float64             `json:"totalAmount"`
	PaymentStatus        PaymentStatus       `json:"paymentStatus"`
	Items                []PurchaseOrderItem `json:"items"`
	Notes                string              `json:"notes,omitempty"`
	CreatedAt            time.Time           `json:"createdAt"`
	UpdatedAt            time.Time           `json:"updatedAt"`
}

// PurchaseOrderItem carries a denormalized medicine name copied at
// creation time; it is not kept in sync with later renames.
type PurchaseOrderItem struct {
	ID               string  `json:"id"`
	MedicineID       string  `json:"medicineId"`
	MedicineName     string  `json:"medicineName"`
	Quantity         int     `json:"quantity"`
	UnitPrice        float64 `json:"unitPrice"`
	TotalPrice       float64 `json:"totalPrice"`
	ReceivedQuantity int     `json:"receivedQuantity,omitempty"`
}
