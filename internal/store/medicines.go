package store

import "medstock/m/domain"

func (s *Store) Medicines() ([]domain.Medicine, error) {
	return loadCollection[domain.Medicine](s.kv, keyMedicines)
}

func (s *Store) MedicineByID(id string) (domain.Medicine, error) {
	medicines, err := s.Medicines()
	if err != nil {
		return domain.Medicine{}, err
	}
	for _, m := range medicines {
		if m.ID == id {
			return m, nil
		}
	}
	return domain.Medicine{}, ErrNotFound
}

// AddMedicine assigns identity and timestamps, persists the medicine and
// evaluates the alert rules against its state, all in one atomic update.
func (s *Store) AddMedicine(m domain.Medicine) (domain.Medicine, error) {
	err := s.kv.Update(func(tx Tx) error {
		medicines, err := loadCollection[domain.Medicine](tx, keyMedicines)
		if err != nil {
			return err
		}
		now := s.now()
		m.ID = s.newID()
		m.CreatedAt = now
		m.UpdatedAt = now
		if err := saveCollection(tx, keyMedicines, append(medicines, m)); err != nil {
			return err
		}
		return s.evaluateAlerts(tx, m)
	})
	if err != nil {
		return domain.Medicine{}, err
	}
	return m, nil
}

// UpdateMedicine replaces the record matching m.ID, refreshes UpdatedAt
// and re-runs the alert rules whether or not stock or expiry changed.
func (s *Store) UpdateMedicine(m domain.Medicine) (domain.Medicine, error) {
	err := s.kv.Update(func(tx Tx) error {
		var uerr error
		m, uerr = s.updateMedicineTx(tx, m)
		return uerr
	})
	if err != nil {
		return domain.Medicine{}, err
	}
	return m, nil
}

// updateMedicineTx is the in-transaction body of UpdateMedicine, shared
// with the purchase-receipt and sale cascades.
func (s *Store) updateMedicineTx(tx Tx, m domain.Medicine) (domain.Medicine, error) {
	medicines, err := loadCollection[domain.Medicine](tx, keyMedicines)
	if err != nil {
		return domain.Medicine{}, err
	}
	for i := range medicines {
		if medicines[i].ID != m.ID {
			continue
		}
		m.CreatedAt = medicines[i].CreatedAt
		m.UpdatedAt = s.now()
		medicines[i] = m
		if err := saveCollection(tx, keyMedicines, medicines); err != nil {
			return domain.Medicine{}, err
		}
		return m, s.evaluateAlerts(tx, m)
	}
	return domain.Medicine{}, ErrNotFound
}

func (s *Store) DeleteMedicine(id string) (bool, error) {
	removed := false
	err := s.kv.Update(func(tx Tx) error {
		medicines, err := loadCollection[domain.Medicine](tx, keyMedicines)
		if err != nil {
			return err
		}
		kept := medicines[:0]
		for _, m := range medicines {
			if m.ID == id {
				removed = true
				continue
			}
			kept = append(kept, m)
		}
		if !removed {
			return nil
		}
		return saveCollection(tx, keyMedicines, kept)
	})
	return removed, err
}
