// Package store implements the persistence and business-rule core of the
// shop: a generic entity store over a key-value substrate, document
// numbering, alert derivation and the stock cascades triggered by purchase
// receipts and sales.
package store

import "errors"

var (
	// ErrNotFound is returned by lookups and updates that reference an
	// id no record carries.
	ErrNotFound = errors.New("record not found")

	// ErrCorruptState is returned when a persisted collection cannot be
	// decoded. The caller sees the failure instead of an empty collection.
	ErrCorruptState = errors.New("corrupt persisted state")

	// ErrInvalidTransition is returned for purchase-order status changes
	// the lifecycle does not allow.
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// Tx is the view of the substrate inside an atomic update.
type Tx interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
}

// KV is the durable substrate collections are persisted to. Update runs
// fn atomically: either every Put in fn is applied or none is.
type KV interface {
	Tx
	Update(fn func(tx Tx) error) error
	Close() error
}
