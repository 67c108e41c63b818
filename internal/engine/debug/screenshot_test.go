package debug

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
}

func TestFlipRows(t *testing.T) {
	// Two rows: bottom red, top blue, as OpenGL returns them.
	pixels := []byte{
		255, 0, 0, 255, 255, 0, 0, 255,
		0, 0, 255, 255, 0, 0, 255, 255,
	}

	img, err := FlipRows(pixels, 2, 2)
	if err != nil {
		t.Fatalf("FlipRows: %v", err)
	}
	if got := img.RGBAAt(1, 0); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("top row = %v, want blue", got)
	}
	if got := img.RGBAAt(0, 1); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("bottom row = %v, want red", got)
	}

	if _, err := FlipRows(pixels, 3, 2); err == nil {
		t.Error("FlipRows should reject a size mismatch")
	}
	if _, err := FlipRows(nil, 0, 0); err == nil {
		t.Error("FlipRows should reject an empty frame")
	}
}

func TestCaptureFromPixels(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewScreenshotCapture(dir, "portal")
	sc.now = fixedClock

	want := filepath.Join(dir, "portal_2024-03-09_14-05-07.png")
	if got := sc.GenerateFilename(); got != want {
		t.Errorf("GenerateFilename() = %s, want %s", got, want)
	}

	pixels := make([]byte, 4*3*4)
	for i := range pixels {
		pixels[i] = 200
	}

	first, err := sc.CaptureFromPixels(pixels, 4, 3)
	if err != nil {
		t.Fatalf("CaptureFromPixels: %v", err)
	}
	if first != want {
		t.Errorf("first capture = %s, want %s", first, want)
	}

	// Same second: the name gets a counter instead of overwriting.
	second, err := sc.CaptureFromPixels(pixels, 4, 3)
	if err != nil {
		t.Fatalf("second capture: %v", err)
	}
	if second != filepath.Join(dir, "portal_2024-03-09_14-05-07_2.png") {
		t.Errorf("second capture = %s", second)
	}

	f, err := os.Open(first)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("saved size = %v, want 4x3", b)
	}
}
