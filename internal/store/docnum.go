package store

import (
	"encoding/json"
	"fmt"
	"time"
)

// Document number prefixes.
const (
	orderPrefix   = "PO"
	invoicePrefix = "INV"
)

// nextDocNumber produces <PREFIX>-<YYYYMMDD>-<NNN> from a per-day counter
// stored in the counters document. The counter is read and rewritten
// inside the same atomic update that persists the new document, so the
// date component and the sequence are always jointly consistent and the
// sequence restarts each day.
func nextDocNumber(tx Tx, prefix string, now time.Time) (string, error) {
	counters, err := loadCounters(tx)
	if err != nil {
		return "", err
	}
	key := prefix + "-" + now.Format("20060102")
	n := counters[key] + 1
	counters[key] = n
	raw, err := json.Marshal(counters)
	if err != nil {
		return "", fmt.Errorf("encode counters: %w", err)
	}
	if err := tx.Put(keyCounters, raw); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%03d", key, n), nil
}

func loadCounters(tx Tx) (map[string]int, error) {
	raw, ok, err := tx.Get(keyCounters)
	if err != nil {
		return nil, err
	}
	counters := make(map[string]int)
	if !ok || len(raw) == 0 {
		return counters, nil
	}
	if err := json.Unmarshal(raw, &counters); err != nil {
		return nil, fmt.Errorf("%w: decode counters: %v", ErrCorruptState, err)
	}
	return counters, nil
}
