// Package id provides the relay's ingest identifiers: 128-bit,
// lexicographically sortable values stamped onto every accepted object.
//
// # Format
//
// An IngestID is 16 bytes big-endian: [8 bytes ms_arrival][8 bytes sequence].
// Byte-wise comparison preserves arrival order, and IDs generated within the
// same millisecond remain strictly increasing by sequence. The scheduler
// relies on this as its stable final tie-break.
//
// # Monotonicity
//
// The Generator ensures per-process monotonicity:
//   - If the system clock regresses, it pins to the last seen millisecond and
//     increments the sequence to avoid going backwards.
//   - If the sequence would overflow within a millisecond, it waits for the
//     next millisecond before emitting the next ID.
//
// Usage
//
//	g := id.NewGenerator()
//	ingest := g.Next()
//	_ = ingest.Compare(g.Next()) // always -1
package id
