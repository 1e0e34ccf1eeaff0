package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"medstock/m/domain"
)

// Fixed substrate keys. Every collection is one JSON array rewritten in
// full on each mutation; currentUser holds the serialized session user
// (empty when logged out) and counters the per-day document counters.
const (
	keyUsers       = "users"
	keyMedicines   = "medicines"
	keySuppliers   = "suppliers"
	keyOrders      = "purchaseOrders"
	keySales       = "sales"
	keyAlerts      = "alerts"
	keyCurrentUser = "currentUser"
	keyCounters    = "counters"
)

var collectionKeys = []string{keyUsers, keyMedicines, keySuppliers, keyOrders, keySales, keyAlerts}

// Store owns identity and timestamp assignment for every collection and
// coordinates the cascades between them. It assumes a single logical
// caller; the substrate's Update provides atomicity, not isolation
// between concurrent writers.
type Store struct {
	kv    KV
	now   func() time.Time
	newID func() string
}

func New(kv KV) *Store {
	return &Store{kv: kv, now: time.Now, newID: uuid.NewString}
}

// Init creates any missing collection and seeds the users collection
// with a default administrator on first use.
func (s *Store) Init() error {
	return s.kv.Update(func(tx Tx) error {
		for _, key := range collectionKeys {
			_, ok, err := tx.Get(key)
			if err != nil {
				return err
			}
			if ok {
				continue
			}
			if key == keyUsers {
				admin, err := s.defaultAdmin()
				if err != nil {
					return err
				}
				if err := saveCollection(tx, keyUsers, []domain.User{admin}); err != nil {
					return err
				}
				continue
			}
			if err := tx.Put(key, []byte("[]")); err != nil {
				return err
			}
		}
		if _, ok, err := tx.Get(keyCurrentUser); err != nil {
			return err
		} else if !ok {
			// Zero-length, not nil: the sqlite substrate stores payloads
			// NOT NULL and a nil slice binds as SQL NULL.
			if err := tx.Put(keyCurrentUser, []byte{}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) defaultAdmin() (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash default admin password: %w", err)
	}
	return domain.User{
		ID:        s.newID(),
		Username:  "admin",
		Password:  string(hash),
		Name:      "Admin User",
		Role:      domain.RoleAdmin,
		Email:     "admin@medicalshop.com",
		CreatedAt: s.now(),
	}, nil
}

func loadCollection[T any](tx Tx, key string) ([]T, error) {
	raw, ok, err := tx.Get(key)
	if err != nil {
		return nil, err
	}
	if !ok || len(raw) == 0 {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrCorruptState, key, err)
	}
	return items, nil
}

func saveCollection[T any](tx Tx, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return tx.Put(key, raw)
}
