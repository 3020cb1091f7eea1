package snapshot

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/gamerunner/internal/core"
)

func TestText(t *testing.T) {
	s := core.NewScreen(4, 2)
	s.DrawText(0, 0, "ab")
	s.DrawText(1, 1, "cd")

	if got := Text(s); got != "ab  \n cd \n" {
		t.Errorf("Text() = %q, expected %q", got, "ab  \n cd \n")
	}
}

func TestImageSizeAndInk(t *testing.T) {
	s := core.NewScreen(3, 2)
	s.SetColor(1, 1, '#', core.ColorBrightRed)

	img, err := Image(s)
	if err != nil {
		t.Fatalf("Image() failed: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 3*CellWidth || b.Dy() != 2*CellHeight {
		t.Fatalf("image size = %dx%d, expected %dx%d", b.Dx(), b.Dy(), 3*CellWidth, 2*CellHeight)
	}

	// Blank cells stay background
	if img.RGBAAt(2, 2) != background {
		t.Errorf("blank pixel = %v, expected background", img.RGBAAt(2, 2))
	}

	// The '#' cell contains red ink somewhere
	inked := false
	for y := CellHeight; y < 2*CellHeight; y++ {
		for x := CellWidth; x < 2*CellWidth; x++ {
			if c := img.RGBAAt(x, y); c.R > c.G+0x40 {
				inked = true
			}
		}
	}
	if !inked {
		t.Error("expected red pixels inside the '#' cell")
	}
}

// glyph renders r alone on a one-cell surface.
func glyph(t *testing.T, r rune) *image.RGBA {
	t.Helper()
	s := core.NewScreen(1, 1)
	s.Set(0, 0, r)
	img, err := Image(s)
	if err != nil {
		t.Fatalf("Image() failed: %v", err)
	}
	return img
}

func inkCount(img *image.RGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) != background {
				n++
			}
		}
	}
	return n
}

func TestGameGlyphsRendered(t *testing.T) {
	replacement := glyph(t, '\uFFFD')

	for _, r := range []rune{'█', '●', '│', '─', '┌', '@'} {
		t.Run(string(r), func(t *testing.T) {
			img := glyph(t, r)
			if inkCount(img) == 0 {
				t.Fatalf("%q drew nothing", r)
			}
			if bytes.Equal(img.Pix, replacement.Pix) {
				t.Errorf("%q rendered as the replacement glyph", r)
			}
		})
	}
}

func TestFullBlockFillsCell(t *testing.T) {
	if n := inkCount(glyph(t, '█')); n < CellWidth*CellHeight/3 {
		t.Errorf("full block inked %d of %d pixels, expected at least a third", n, CellWidth*CellHeight)
	}
	if inkCount(glyph(t, '─')) >= inkCount(glyph(t, '█')) {
		t.Error("a line should ink less than a full block")
	}
}

func TestRGBADefault(t *testing.T) {
	if RGBA(core.ColorDefault) != foreground {
		t.Error("default color should map to the foreground")
	}
	if RGBA(core.ColorGreen) == foreground {
		t.Error("palette colors should differ from the foreground")
	}
}

func TestWritePNGDecodes(t *testing.T) {
	s := core.NewScreen(5, 1)
	s.DrawText(0, 0, "hello")

	var buf bytes.Buffer
	if err := WritePNG(&buf, s); err != nil {
		t.Fatalf("WritePNG() failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() failed: %v", err)
	}
	if img.Bounds().Dx() != 5*CellWidth {
		t.Errorf("decoded width = %d, expected %d", img.Bounds().Dx(), 5*CellWidth)
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s := core.NewScreen(3, 1)
	s.DrawText(0, 0, "abc")

	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	paths, err := Save(dir, "pong", s, at)
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("Save() returned %d paths, expected 2", len(paths))
	}
	if filepath.Base(paths[0]) != "pong_20240506_070809.txt" {
		t.Errorf("text path = %q", paths[0])
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if string(data) != "abc\n" {
		t.Errorf("text snapshot = %q, expected %q", data, "abc\n")
	}
	if _, err := os.Stat(paths[1]); err != nil {
		t.Errorf("png snapshot missing: %v", err)
	}
}
