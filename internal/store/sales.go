package store

import "medstock/m/domain"

func (s *Store) Sales() ([]domain.Sale, error) {
	return loadCollection[domain.Sale](s.kv, keySales)
}

func (s *Store) SaleByID(id string) (domain.Sale, error) {
	sales, err := s.Sales()
	if err != nil {
		return domain.Sale{}, err
	}
	for _, sale := range sales {
		if sale.ID == id {
			return sale, nil
		}
	}
	return domain.Sale{}, ErrNotFound
}

// AddSale persists the sale and then walks its line items decrementing
// each referenced medicine's stock, floored at zero: over-selling clamps
// rather than failing. Stock changes re-trigger alert evaluation. The
// sale is written before the dependent medicine updates and the whole
// batch commits atomically.
func (s *Store) AddSale(sale domain.Sale) (domain.Sale, error) {
	err := s.kv.Update(func(tx Tx) error {
		sales, err := loadCollection[domain.Sale](tx, keySales)
		if err != nil {
			return err
		}
		now := s.now()
		sale.ID = s.newID()
		sale.CreatedAt = now
		if sale.SaleDate.IsZero() {
			sale.SaleDate = now
		}
		for i := range sale.Items {
			if sale.Items[i].ID == "" {
				sale.Items[i].ID = s.newID()
			}
		}
		sale.InvoiceNumber, err = nextDocNumber(tx, invoicePrefix, now)
		if err != nil {
			return err
		}
		if err := saveCollection(tx, keySales, append(sales, sale)); err != nil {
			return err
		}
		for _, item := range sale.Items {
			medicines, err := loadCollection[domain.Medicine](tx, keyMedicines)
			if err != nil {
				return err
			}
			for _, m := range medicines {
				if m.ID != item.MedicineID {
					continue
				}
				m.Quantity -= item.Quantity
				if m.Quantity < 0 {
					m.Quantity = 0
				}
				if _, err := s.updateMedicineTx(tx, m); err != nil {
					return err
				}
				break
			}
		}
		return nil
	})
	if err != nil {
		return domain.Sale{}, err
	}
	return sale, nil
}

// UpdateSale replaces the stored record. It does not revisit stock:
// recorded sales are corrected by compensating entries, not by editing
// quantities after the fact.
func (s *Store) UpdateSale(sale domain.Sale) (domain.Sale, error) {
	err := s.kv.Update(func(tx Tx) error {
		sales, err := loadCollection[domain.Sale](tx, keySales)
		if err != nil {
			return err
		}
		for i := range sales {
			if sales[i].ID != sale.ID {
				continue
			}
			sale.CreatedAt = sales[i].CreatedAt
			sale.InvoiceNumber = sales[i].InvoiceNumber
			sales[i] = sale
			return saveCollection(tx, keySales, sales)
		}
		return ErrNotFound
	})
	if err != nil {
		return domain.Sale{}, err
	}
	return sale, nil
}

func (s *Store) DeleteSale(id string) (bool, error) {
	removed := false
	err := s.kv.Update(func(tx Tx) error {
		sales, err := loadCollection[domain.Sale](tx, keySales)
		if err != nil {
			return err
		}
		kept := sales[:0]
		for _, sale := range sales {
			if sale.ID == id {
				removed = true
				continue
			}
			kept = append(kept, sale)
		}
		if !removed {
			return nil
		}
		return saveCollection(tx, keySales, kept)
	})
	return removed, err
}
