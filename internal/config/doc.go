// Package config provides loading and environment overlay for the relay's
// session configuration. Session parameters (version, partial-object
// delivery, max request id) are negotiated once at session start and passed
// explicitly; there is no process-wide protocol state.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/moqrelay.yaml"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
//	rt, _ := runtime.Open(runtime.Options{Config: cfg})
//	defer rt.Close()
package config
