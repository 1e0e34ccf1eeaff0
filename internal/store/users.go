package store

import (
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"medstock/m/domain"
)

// Username uniqueness is the caller's responsibility; the store only
// owns identity and timestamps.

func (s *Store) Users() ([]domain.User, error) {
	return loadCollection[domain.User](s.kv, keyUsers)
}

func (s *Store) UserByID(id string) (domain.User, error) {
	users, err := s.Users()
	if err != nil {
		return domain.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, ErrNotFound
}

// AddUser assigns a fresh id and creation timestamp and stores the
// password as a bcrypt hash.
func (s *Store) AddUser(u domain.User) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	u.Password = string(hash)
	err = s.kv.Update(func(tx Tx) error {
		users, err := loadCollection[domain.User](tx, keyUsers)
		if err != nil {
			return err
		}
		u.ID = s.newID()
		u.CreatedAt = s.now()
		return saveCollection(tx, keyUsers, append(users, u))
	})
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// UpdateUser replaces the record matching u.ID. An empty password keeps
// the stored hash; a non-empty one is re-hashed.
func (s *Store) UpdateUser(u domain.User) (domain.User, error) {
	err := s.kv.Update(func(tx Tx) error {
		users, err := loadCollection[domain.User](tx, keyUsers)
		if err != nil {
			return err
		}
		for i := range users {
			if users[i].ID != u.ID {
				continue
			}
			if u.Password == "" {
				u.Password = users[i].Password
			} else if u.Password != users[i].Password {
				hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
				if err != nil {
					return fmt.Errorf("hash password: %w", err)
				}
				u.Password = string(hash)
			}
			users[i] = u
			return saveCollection(tx, keyUsers, users)
		}
		return ErrNotFound
	})
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (s *Store) DeleteUser(id string) (bool, error) {
	removed := false
	err := s.kv.Update(func(tx Tx) error {
		users, err := loadCollection[domain.User](tx, keyUsers)
		if err != nil {
			return err
		}
		kept := users[:0]
		for _, u := range users {
			if u.ID == id {
				removed = true
				continue
			}
			kept = append(kept, u)
		}
		if !removed {
			return nil
		}
		return saveCollection(tx, keyUsers, kept)
	})
	return removed, err
}

// Authenticate returns nil on any failure; a wrong username and a wrong
// password are deliberately indistinguishable. On success it stamps
// LastLogin and records the session user under the currentUser key.
func (s *Store) Authenticate(username, password string) (*domain.User, error) {
	var match *domain.User
	err := s.kv.Update(func(tx Tx) error {
		users, err := loadCollection[domain.User](tx, keyUsers)
		if err != nil {
			return err
		}
		for i := range users {
			if users[i].Username != username {
				continue
			}
			if bcrypt.CompareHashAndPassword([]byte(users[i].Password), []byte(password)) != nil {
				return nil
			}
			now := s.now()
			users[i].LastLogin = &now
			if err := saveCollection(tx, keyUsers, users); err != nil {
				return err
			}
			raw, err := json.Marshal(users[i])
			if err != nil {
				return fmt.Errorf("encode current user: %w", err)
			}
			if err := tx.Put(keyCurrentUser, raw); err != nil {
				return err
			}
			u := users[i]
			match = &u
			return nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

// CurrentUser returns the logged-in session user, or nil when the
// session record is empty.
func (s *Store) CurrentUser() (*domain.User, error) {
	raw, ok, err := s.kv.Get(keyCurrentUser)
	if err != nil {
		return nil, err
	}
	if !ok || len(raw) == 0 {
		return nil, nil
	}
	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("%w: decode current user: %v", ErrCorruptState, err)
	}
	return &u, nil
}

func (s *Store) Logout() error {
	return s.kv.Put(keyCurrentUser, []byte{})
}
