package relaycmd

import (
	"context"
	"testing"

	cfgpkg "github.com/shiguredo-webrtc-build/moqt-build/internal/config"
	logpkg "github.com/shiguredo-webrtc-build/moqt-build/pkg/log"
)

func TestRunDemoCompletes(t *testing.T) {
	err := RunDemo(context.Background(), DemoOptions{
		Config:          cfgpkg.Default(),
		Groups:          4,
		ObjectsPerGroup: 2,
		Logger:          logpkg.NewNop(),
	})
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
}

func TestRunDemoHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RunDemo(ctx, DemoOptions{Config: cfgpkg.Default(), Logger: logpkg.NewNop()})
	if err == nil {
		t.Fatalf("expected context error")
	}
}
