package gallery

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"simple", "simple"},
		{"with spaces", "with_spaces"},
		{"path/to/file", "path_to_file"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"ok-name.v2", "ok-name.v2"},
		{"gallery overview", "gallery_overview"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueue(t *testing.T) {
	s, _, _ := newTestSurface(t, SurfaceConfig{})
	s.Screenshot("first")
	s.Screenshot("second")
	if len(s.screenshotQueue) != 2 {
		t.Fatalf("expected 2 queued screenshots, got %d", len(s.screenshotQueue))
	}

	labels := s.takeScreenshots()
	if len(labels) != 2 || labels[0] != "first" || labels[1] != "second" {
		t.Errorf("labels = %v", labels)
	}
	if len(s.screenshotQueue) != 0 {
		t.Error("queue should be empty after take")
	}
	if s.takeScreenshots() != nil {
		t.Error("second take should return nil")
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		255, 0, 0, 255, // opaque red
		64, 32, 0, 128, // half-transparent
		0, 0, 0, 0, // transparent
	}
	img := unpremultiply(pixels, 3, 1)

	want := [][4]uint8{
		{255, 0, 0, 255},
		{127, 63, 0, 128},
		{0, 0, 0, 0},
	}
	for i, w := range want {
		c := img.NRGBAAt(i, 0)
		got := [4]uint8{c.R, c.G, c.B, c.A}
		if got != w {
			t.Errorf("pixel %d = %v, want %v", i, got, w)
		}
	}
}

func TestWritePNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frame.png")
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))

	if err := writePNG(path, img); err != nil {
		t.Fatalf("writePNG: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 4 || cfg.Height != 2 {
		t.Errorf("size = %dx%d, want 4x2", cfg.Width, cfg.Height)
	}
}

func TestWritePNGBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "frame.png")
	if err := writePNG(path, image.NewNRGBA(image.Rect(0, 0, 1, 1))); err == nil {
		t.Error("expected error for missing directory")
	}
}
