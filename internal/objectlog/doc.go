// Package objectlog implements the relay's bounded per-track live history.
//
// # Overview
//
// Each announced track owns one Log keyed by its alias in the session store.
// Keys are lexicographically ordered so range scans replay publish order and
// whole groups evict as a single range delete:
//   - tk/{alias_be8}/m                          (track meta: head key, boundary, group count)
//   - tk/{alias_be8}/e/{group_be8}{object_be8}  (object entries)
//   - tk/{alias_be8}/g/{group_be8}              (retained-group markers)
//
// Records are stored as: varint headerLen | cbor header | payload |
// crc32c(header|payload). Payloads above the codec threshold are
// zstd-compressed in place.
//
// API surface (internal)
//
//	l, _ := OpenLog(db, alias, Codec{}, gen)
//	// Ingest; rejects regressions, dedupes identical re-ingests
//	res, err := l.Append(ctx, obj)
//
//	// Range reads in either direction
//	items := l.Read(ReadOptions{Start: start, End: end})
//	items = l.Read(ReadOptions{Start: start, End: moq.LiveEdge, Reverse: true})
//
//	// Retention: keep the newest N groups
//	evicted, boundary, _ := l.EnforceRetention(ctx, 3)
//
//	// Blocking tail
//	woke := l.WaitForAppend(200 * time.Millisecond)
//	_ = woke
//
// Ingestion for a track is serialized under the log mutex; committed entries
// are immutable until evicted, so fan-out readers iterate without locks and
// never observe partially written entries.
package objectlog
