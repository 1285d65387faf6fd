// Package pebblestore provides a thin wrapper around Pebble with snapshots,
// batches, and minimal metrics hooks. The relay normally runs it on an
// in-process filesystem (Options.Memory), so all buffered track state is
// session-scoped and nothing is persisted; an on-disk mode with fsync policy
// exists for debugging oversized live windows.
//
// Usage:
//
//	db, err := pebblestore.Open(pebblestore.Options{Memory: true})
//	if err != nil { /* handle */ }
//	defer db.Close()
//
//	// Atomic updates with batches
//	b := db.NewBatch()
//	_ = b.Set([]byte("k"), []byte("v"), nil)
//	_ = db.CommitBatch(context.Background(), b)
//	b.Close()
//
//	// Point ops
//	_ = db.Set([]byte("k2"), []byte("v2"))
//	v, _ := db.Get([]byte("k2"))
package pebblestore
