// Package seed generates demo data for a fresh shop. Everything goes
// through the real store Add/Update paths so document numbering, stock
// cascades and alert evaluation fire exactly as they do in production.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"medstock/m/domain"
	"medstock/m/internal/store"
)

var (
	categories    = []string{"Tablet", "Syrup", "Injection", "Capsule", "Cream", "Drops", "Powder"}
	manufacturers = []string{"Sun Pharma", "Cipla", "Dr. Reddy's", "Lupin", "Zydus Cadila", "Mankind", "Alkem"}
	medicineNames = []string{
		"Paracetamol", "Amoxicillin", "Azithromycin", "Cetirizine",
		"Diclofenac", "Metformin", "Omeprazole", "Pantoprazole",
		"Atorvastatin", "Losartan", "Amlodipine", "Aspirin",
		"Ibuprofen", "Ranitidine", "Domperidone", "Ondansetron",
	}
	supplierNames = []string{
		"MediSupply Inc.", "PharmaDistributors", "HealthCare Supplies",
		"MediWholesale Ltd.", "National Medical Distributors",
	}
)

// Sample populates the store with a plausible mix of medicines,
// suppliers, purchase orders and sales.
func Sample(st *store.Store, createdBy string) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now()

	for i := 0; i < 20; i++ {
		name := medicineNames[rng.Intn(len(medicineNames))]
		category := categories[rng.Intn(len(categories))]
		manufacturer := manufacturers[rng.Intn(len(manufacturers))]

		manufactured := now.AddDate(0, -rng.Intn(12), 0)
		expiry := manufactured.AddDate(2+rng.Intn(2), 0, 0)
		purchasePrice := float64(10 + rng.Intn(490))

		if _, err := st.AddMedicine(domain.Medicine{
			Name:            name,
			Description:     fmt.Sprintf("%s %s by %s", name, category, manufacturer),
			Category:        category,
			Manufacturer:    manufacturer,
			BatchNumber:     fmt.Sprintf("B%04d", rng.Intn(10000)),
			Barcode:         fmt.Sprintf("MED%07d", rng.Intn(1000000)),
			PurchasePrice:   purchasePrice,
			SellingPrice:    purchasePrice * (1.1 + rng.Float64()*0.5),
			Quantity:        rng.Intn(100),
			MinStockLevel:   10 + rng.Intn(20),
			ManufactureDate: manufactured,
			ExpiryDate:      expiry,
			Location:        fmt.Sprintf("Shelf %c-%d", 'A'+rune(rng.Intn(6)), rng.Intn(10)+1),
		}); err != nil {
			return fmt.Errorf("seed medicine: %w", err)
		}
	}

	for i, name := range supplierNames {
		if _, err := st.AddSupplier(domain.Supplier{
			Name:          name,
			ContactPerson: fmt.Sprintf("Contact Person %d", i+1),
			Email:         fmt.Sprintf("supplier%d@example.com", i+1),
			Phone:         fmt.Sprintf("+91%010d", rng.Int63n(10000000000)),
			Address:       fmt.Sprintf("Address Line %d, City %d", i+1, i+1),
			GSTNumber:     fmt.Sprintf("GST%010d", rng.Int63n(10000000000)),
			PaymentTerms:  fmt.Sprintf("Net %d days", []int{15, 30, 45, 60}[rng.Intn(4)]),
		}); err != nil {
			return fmt.Errorf("seed supplier: %w", err)
		}
	}

	medicines, err := st.Medicines()
	if err != nil {
		return err
	}
	suppliers, err := st.Suppliers()
	if err != nil {
		return err
	}

	for i := 0; i < 5; i++ {
		supplier := suppliers[rng.Intn(len(suppliers))]
		itemCount := 2 + rng.Intn(4)
		var items []domain.PurchaseOrderItem
		var totalAmount float64
		for j := 0; j < itemCount; j++ {
			m := medicines[rng.Intn(len(medicines))]
			qty := 10 + rng.Intn(50)
			items = append(items, domain.PurchaseOrderItem{
				MedicineID:   m.ID,
				MedicineName: m.Name,
				Quantity:     qty,
				UnitPrice:    m.PurchasePrice,
				TotalPrice:   float64(qty) * m.PurchasePrice,
			})
			totalAmount += float64(qty) * m.PurchasePrice
		}

		orderDate := now.AddDate(0, 0, -rng.Intn(30))
		expected := orderDate.AddDate(0, 0, 7+rng.Intn(7))

		order, err := st.AddPurchaseOrder(domain.PurchaseOrder{
			SupplierID:           supplier.ID,
			SupplierName:         supplier.Name,
			Status:               domain.OrderPending,
			OrderDate:            orderDate,
			ExpectedDeliveryDate: &expected,
			TotalAmount:          totalAmount,
			PaymentStatus:        []domain.PaymentStatus{domain.PaymentUnpaid, domain.PaymentPartial, domain.PaymentPaid}[rng.Intn(3)],
			Items:                items,
			Notes:                fmt.Sprintf("Sample purchase order %d", i+1),
		})
		if err != nil {
			return fmt.Errorf("seed order: %w", err)
		}

		// Walk some orders through the lifecycle so the receipt cascade
		// gets exercised on seeded data too.
		switch rng.Intn(3) {
		case 1:
			order.Status = domain.OrderOrdered
			if _, err := st.UpdatePurchaseOrder(order); err != nil {
				return fmt.Errorf("seed order transition: %w", err)
			}
		case 2:
			order.Status = domain.OrderOrdered
			order, err = st.UpdatePurchaseOrder(order)
			if err != nil {
				return fmt.Errorf("seed order transition: %w", err)
			}
			received := expected.AddDate(0, 0, rng.Intn(3))
			order.Status = domain.OrderReceived
			order.ReceivedDate = &received
			for k := range order.Items {
				order.Items[k].ReceivedQuantity = order.Items[k].Quantity
			}
			if _, err := st.UpdatePurchaseOrder(order); err != nil {
				return fmt.Errorf("seed order receipt: %w", err)
			}
		}
	}

	for i := 0; i < 10; i++ {
		itemCount := 1 + rng.Intn(3)
		var items []domain.SaleItem
		var subtotal float64
		for j := 0; j < itemCount; j++ {
			m := medicines[rng.Intn(len(medicines))]
			qty := 1 + rng.Intn(5)
			discount := 0.0
			if rng.Float64() < 0.3 {
				discount = m.SellingPrice * 0.05
			}
			totalPrice := (m.SellingPrice - discount) * float64(qty)
			subtotal += totalPrice
			items = append(items, domain.SaleItem{
				MedicineID:   m.ID,
				MedicineName: m.Name,
				BatchNumber:  m.BatchNumber,
				ExpiryDate:   m.ExpiryDate,
				Quantity:     qty,
				UnitPrice:    m.SellingPrice,
				Discount:     discount,
				TotalPrice:   totalPrice,
			})
		}

		discount := 0.0
		if rng.Float64() < 0.2 {
			discount = subtotal * 0.05
		}
		tax := subtotal * 0.18

		sale := domain.Sale{
			Items:         items,
			Subtotal:      subtotal,
			Discount:      discount,
			Tax:           tax,
			Total:         subtotal - discount + tax,
			PaymentMethod: []domain.PaymentMethod{domain.PayCash, domain.PayCard, domain.PayUPI}[rng.Intn(3)],
			PaymentStatus: domain.PaymentPaid,
			SaleDate:      now.AddDate(0, 0, -rng.Intn(30)),
			CreatedBy:     createdBy,
		}
		if rng.Float64() < 0.7 {
			sale.CustomerName = fmt.Sprintf("Customer %d", i+1)
		}
		if rng.Float64() < 0.5 {
			sale.CustomerPhone = fmt.Sprintf("+91%010d", rng.Int63n(10000000000))
		}
		if _, err := st.AddSale(sale); err != nil {
			return fmt.Errorf("seed sale: %w", err)
		}
	}

	log.Printf("seeded sample data: %d medicines, %d suppliers, 5 orders, 10 sales", len(medicines), len(suppliers))
	return nil
}
