package store

import (
	"fmt"

	"medstock/m/domain"
)

func (s *Store) PurchaseOrders() ([]domain.PurchaseOrder, error) {
	return loadCollection[domain.PurchaseOrder](s.kv, keyOrders)
}

func (s *Store) PurchaseOrderByID(id string) (domain.PurchaseOrder, error) {
	orders, err := s.PurchaseOrders()
	if err != nil {
		return domain.PurchaseOrder{}, err
	}
	for _, o := range orders {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.PurchaseOrder{}, ErrNotFound
}

// AddPurchaseOrder assigns identity, timestamps and the next order
// number for the current day. Line items get ids of their own but no
// separate lifecycle. A blank status starts the order as pending.
func (s *Store) AddPurchaseOrder(o domain.PurchaseOrder) (domain.PurchaseOrder, error) {
	err := s.kv.Update(func(tx Tx) error {
		orders, err := loadCollection[domain.PurchaseOrder](tx, keyOrders)
		if err != nil {
			return err
		}
		now := s.now()
		o.ID = s.newID()
		o.CreatedAt = now
		o.UpdatedAt = now
		if o.Status == "" {
			o.Status = domain.OrderPending
		}
		for i := range o.Items {
			if o.Items[i].ID == "" {
				o.Items[i].ID = s.newID()
			}
		}
		o.OrderNumber, err = nextDocNumber(tx, orderPrefix, now)
		if err != nil {
			return err
		}
		return saveCollection(tx, keyOrders, append(orders, o))
	})
	if err != nil {
		return domain.PurchaseOrder{}, err
	}
	return o, nil
}

// UpdatePurchaseOrder replaces the record matching o.ID after checking
// the status transition. Moving into received with a received date set
// runs the stock cascade: every line item with a positive received
// quantity increments the referenced medicine and re-triggers alert
// evaluation. The order write and all cascaded writes commit in one
// atomic update, order first.
func (s *Store) UpdatePurchaseOrder(o domain.PurchaseOrder) (domain.PurchaseOrder, error) {
	err := s.kv.Update(func(tx Tx) error {
		orders, err := loadCollection[domain.PurchaseOrder](tx, keyOrders)
		if err != nil {
			return err
		}
		for i := range orders {
			if orders[i].ID != o.ID {
				continue
			}
			prev := orders[i].Status
			if !validTransition(prev, o.Status) {
				return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, prev, o.Status)
			}
			o.CreatedAt = orders[i].CreatedAt
			o.OrderNumber = orders[i].OrderNumber
			o.UpdatedAt = s.now()
			orders[i] = o
			if err := saveCollection(tx, keyOrders, orders); err != nil {
				return err
			}
			if prev != domain.OrderReceived && o.Status == domain.OrderReceived && o.ReceivedDate != nil {
				return s.applyReceipt(tx, o)
			}
			return nil
		}
		return ErrNotFound
	})
	if err != nil {
		return domain.PurchaseOrder{}, err
	}
	return o, nil
}

// applyReceipt fires once per order, on the transition into received,
// so re-saving a received order cannot double-count stock.
func (s *Store) applyReceipt(tx Tx, o domain.PurchaseOrder) error {
	for _, item := range o.Items {
		if item.ReceivedQuantity <= 0 {
			continue
		}
		medicines, err := loadCollection[domain.Medicine](tx, keyMedicines)
		if err != nil {
			return err
		}
		for _, m := range medicines {
			if m.ID != item.MedicineID {
				continue
			}
			m.Quantity += item.ReceivedQuantity
			if _, err := s.updateMedicineTx(tx, m); err != nil {
				return err
			}
			break
		}
	}
	return nil
}

func validTransition(from, to domain.OrderStatus) bool {
	if from == to {
		return true
	}
	switch {
	case to == domain.OrderCancelled:
		return from != domain.OrderReceived
	case from == domain.OrderPending && to == domain.OrderOrdered:
		return true
	case from == domain.OrderOrdered && to == domain.OrderReceived:
		return true
	}
	return false
}

func (s *Store) DeletePurchaseOrder(id string) (bool, error) {
	removed := false
	err := s.kv.Update(func(tx Tx) error {
		orders, err := loadCollection[domain.PurchaseOrder](tx, keyOrders)
		if err != nil {
			return err
		}
		kept := orders[:0]
		for _, o := range orders {
			if o.ID == id {
				removed = true
				continue
			}
			kept = append(kept, o)
		}
		if !removed {
			return nil
		}
		return saveCollection(tx, keyOrders, kept)
	})
	return removed, err
}
