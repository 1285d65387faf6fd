package runtime

import (
	"context"
	"testing"

	cfgpkg "github.com/shiguredo-webrtc-build/moqt-build/internal/config"
	"github.com/shiguredo-webrtc-build/moqt-build/internal/moq"
)

func TestOpenAndHealth(t *testing.T) {
	rt, err := Open(Options{Config: cfgpkg.Default()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rt.Close()
	if err := rt.CheckHealth(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
}

func TestEnsureTrackAndOpenLog(t *testing.T) {
	rt, err := Open(Options{Config: cfgpkg.Default()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rt.Close()

	name := moq.FullTrackName{
		Namespace: moq.NewTrackNamespace("live", "camera"),
		Name:      "video",
	}
	meta, err := rt.EnsureTrack(name)
	if err != nil {
		t.Fatalf("ensure track: %v", err)
	}
	again, err := rt.EnsureTrack(name)
	if err != nil {
		t.Fatalf("ensure track again: %v", err)
	}
	if meta.Alias != again.Alias {
		t.Fatalf("alias not stable: %d vs %d", meta.Alias, again.Alias)
	}

	l, err := rt.OpenLog(meta.Alias)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	if _, err := l.Append(context.Background(), moq.Object{Payload: []byte("x")}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if head, ok := l.Head(); !ok || head != (moq.Location{}) {
		t.Fatalf("head = %v, %v", head, ok)
	}
}
