package domain

import "time"

type Medicine struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category"`
	Manufacturer    string    `json:"manufacturer"`
	BatchNumber     string    `json:"batchNumber"`
	Barcode         string    `json:"barcode,omitempty"`
	PurchasePrice   float64   `json:"purchasePrice"`
	SellingPrice    float64   `json:"sellingPrice"`
	Quantity        int       `json:"quantity"`
	MinStockLevel   int       `json:"minStockLevel"`
	ManufactureDate time.Time `json:"manufactureDate"`
	ExpiryDate      time.Time `json:"expiryDate"`
	Location        string    `json:"location,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
