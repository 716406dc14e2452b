package gallery

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// captureStderr runs fn with os.Stderr redirected and returns what it wrote.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	oldStderr := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stderr = w

	fn()

	w.Close()
	os.Stderr = oldStderr

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String()
}

func TestDebugLogOutput(t *testing.T) {
	s, _, _ := newTestSurface(t, SurfaceConfig{})
	s.SetDebugMode(true)
	s.PointerMove(400, 300)

	out := captureStderr(t, func() { s.Update(1.0 / 60) })

	if !strings.Contains(out, "[gallery] tick:") {
		t.Errorf("expected tick line, got: %q", out)
	}
	if !strings.Contains(out, "events: 1") {
		t.Errorf("expected one drained event, got: %q", out)
	}
	if !strings.Contains(out, "nodes: 1 | onscreen: 1 | active: 1 | projected: 1 | hovered: 1") {
		t.Errorf("unexpected node stats: %q", out)
	}
}

func TestDebugLogDisabled(t *testing.T) {
	s, _, _ := newTestSurface(t, SurfaceConfig{})
	out := captureStderr(t, func() { s.Update(1.0 / 60) })
	if out != "" {
		t.Errorf("expected no output without debug mode, got: %q", out)
	}
}

func TestDebugCheckPending(t *testing.T) {
	n := NewInteractionNode(NewAnchor(mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, 0.2), nil)
	n.Label = "Untitled"

	out := captureStderr(t, func() {
		debugCheckPending(n, debugPendingTicks-1)
	})
	if out != "" {
		t.Errorf("expected no warning before the limit, got: %q", out)
	}

	out = captureStderr(t, func() {
		debugCheckPending(n, debugPendingTicks)
	})
	if !strings.Contains(out, "warning") || !strings.Contains(out, `"Untitled"`) {
		t.Errorf("expected pending warning, got: %q", out)
	}
}

func TestDebugPendingTicksReset(t *testing.T) {
	s, sc, _ := newTestSurface(t, SurfaceConfig{})
	s.SetDebugMode(true)
	sc.node.SetCorners(mgl64.Vec3{})

	captureStderr(t, func() {
		for i := 0; i < 3; i++ {
			s.Update(1.0 / 60)
		}
	})
	if sc.node.pendingTicks != 3 {
		t.Fatalf("pendingTicks = %d, want 3", sc.node.pendingTicks)
	}

	sc.node.SetCorners(mgl64.Vec3{4, 3, 0.2})
	captureStderr(t, func() { s.Update(1.0 / 60) })
	if sc.node.pendingTicks != 0 {
		t.Errorf("pendingTicks = %d, want 0 once corners exist", sc.node.pendingTicks)
	}
}
