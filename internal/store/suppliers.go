package store

import "medstock/m/domain"

func (s *Store) Suppliers() ([]domain.Supplier, error) {
	return loadCollection[domain.Supplier](s.kv, keySuppliers)
}

func (s *Store) SupplierByID(id string) (domain.Supplier, error) {
	suppliers, err := s.Suppliers()
	if err != nil {
		return domain.Supplier{}, err
	}
	for _, sp := range suppliers {
		if sp.ID == id {
			return sp, nil
		}
	}
	return domain.Supplier{}, ErrNotFound
}

func (s *Store) AddSupplier(sp domain.Supplier) (domain.Supplier, error) {
	err := s.kv.Update(func(tx Tx) error {
		suppliers, err := loadCollection[domain.Supplier](tx, keySuppliers)
		if err != nil {
			return err
		}
		now := s.now()
		sp.ID = s.newID()
		sp.CreatedAt = now
		sp.UpdatedAt = now
		return saveCollection(tx, keySuppliers, append(suppliers, sp))
	})
	if err != nil {
		return domain.Supplier{}, err
	}
	return sp, nil
}

func (s *Store) UpdateSupplier(sp domain.Supplier) (domain.Supplier, error) {
	err := s.kv.Update(func(tx Tx) error {
		suppliers, err := loadCollection[domain.Supplier](tx, keySuppliers)
		if err != nil {
			return err
		}
		for i := range suppliers {
			if suppliers[i].ID != sp.ID {
				continue
			}
			sp.CreatedAt = suppliers[i].CreatedAt
			sp.UpdatedAt = s.now()
			suppliers[i] = sp
			return saveCollection(tx, keySuppliers, suppliers)
		}
		return ErrNotFound
	})
	if err != nil {
		return domain.Supplier{}, err
	}
	return sp, nil
}

func (s *Store) DeleteSupplier(id string) (bool, error) {
	removed := false
	err := s.kv.Update(func(tx Tx) error {
		suppliers, err := loadCollection[domain.Supplier](tx, keySuppliers)
		if err != nil {
			return err
		}
		kept := suppliers[:0]
		for _, sp := range suppliers {
			if sp.ID == id {
				removed = true
				continue
			}
			kept = append(kept, sp)
		}
		if !removed {
			return nil
		}
		return saveCollection(tx, keySuppliers, kept)
	})
	return removed, err
}
