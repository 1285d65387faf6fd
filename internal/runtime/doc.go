// Package runtime wires the buffer store, track registry, and ingest
// stamping into a single relay instance. It exposes Open/Close, a basic
// health check, and helpers to open per-track object logs.
//
// Example:
//
//	cfg := config.Default()
//	rt, _ := runtime.Open(runtime.Options{Config: cfg})
//	defer rt.Close()
//	_ = rt.CheckHealth(context.Background())
//	meta, _ := rt.EnsureTrack(name)
//	log, _ := rt.OpenLog(meta.Alias)
package runtime
