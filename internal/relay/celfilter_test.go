package relay

import (
	"testing"

	"github.com/shiguredo-webrtc-build/moqt-build/internal/moq"
)

func TestEmptyFilterMatchesEverything(t *testing.T) {
	f, err := newCELFilter("  ")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !f.Eval(moq.Object{Location: moq.Location{Group: 9, Object: 9}}) {
		t.Fatalf("empty filter rejected an object")
	}
}

func TestFilterEvaluatesObjectFields(t *testing.T) {
	f, err := newCELFilter("group >= 2u && size > 3")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	match := moq.Object{Location: moq.Location{Group: 2}, Payload: []byte("long")}
	miss := moq.Object{Location: moq.Location{Group: 1}, Payload: []byte("long")}
	small := moq.Object{Location: moq.Location{Group: 2}, Payload: []byte("x")}
	if !f.Eval(match) {
		t.Fatalf("matching object rejected")
	}
	if f.Eval(miss) || f.Eval(small) {
		t.Fatalf("non-matching object accepted")
	}
}

func TestFilterAlwaysPassesStatusMarkers(t *testing.T) {
	f, err := newCELFilter("false")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	marker := moq.Object{Status: moq.StatusEndOfGroup}
	if !f.Eval(marker) {
		t.Fatalf("status marker filtered out")
	}
	if f.Eval(moq.Object{}) {
		t.Fatalf("normal object passed a false filter")
	}
}

func TestFilterCompileErrors(t *testing.T) {
	if _, err := newCELFilter("group =="); err == nil {
		t.Fatalf("malformed expression compiled")
	}
	if _, err := newCELFilter("no_such_var > 1"); err == nil {
		t.Fatalf("unknown variable compiled")
	}
	// Markers bypass filters, so there is no status variable to match on.
	if _, err := newCELFilter(`status == "normal"`); err == nil {
		t.Fatalf("status variable should not be declared")
	}
}
