package testkit

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes body to name inside a fresh temp dir and returns the path
func WriteFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

// WriteCSV writes a capture file and returns its path
func WriteCSV(t *testing.T, body string) string {
	t.Helper()
	return WriteFile(t, "capture.csv", body)
}

// WritePNG writes an opaque w×h gradient PNG to path
func WritePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: 80, B: uint8(y * 4), A: 255})
		}
	}
	var b bytes.Buffer
	if err := png.Encode(&b, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// AssertPNG fails unless path is a non-empty, decodable PNG; it returns the
// file size and image dimensions
func AssertPNG(t *testing.T, path string) (int64, image.Config) {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if len(b) == 0 {
		t.Fatalf("%s is empty", path)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("%s is not a png: %v", path, err)
	}
	return int64(len(b)), cfg
}

// AssertPDF fails unless path starts with a PDF header and ends with an EOF
// marker; it returns the file bytes
func AssertPDF(t *testing.T, path string) []byte {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Fatalf("%s is not a PDF: %q", path, b[:min(len(b), 16)])
	}
	if !bytes.Contains(b[max(0, len(b)-32):], []byte("%EOF")) {
		t.Fatalf("%s is truncated: no EOF marker", path)
	}
	return b
}
