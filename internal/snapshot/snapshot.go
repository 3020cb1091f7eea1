// Package snapshot saves the content of a surface as plain text and as a
// PNG image rendered with the Go Mono font, which covers the box-drawing and
// block glyphs games draw with.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/vovakirdan/gamerunner/internal/core"
)

// Cell size in pixels. Go Mono at fontSize fits one glyph per cell.
const (
	CellWidth  = 8
	CellHeight = 16
	fontSize   = 13
)

// mono is shared; faces are not safe for concurrent use, so every image
// gets its own.
var mono = mustParse(gomono.TTF)

func mustParse(ttf []byte) *opentype.Font {
	f, err := opentype.Parse(ttf)
	if err != nil {
		panic(fmt.Sprintf("snapshot: cannot parse font: %v", err))
	}
	return f
}

var (
	background = color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}
	foreground = color.RGBA{R: 0xd0, G: 0xd0, B: 0xd0, A: 0xff}
)

// palette maps cell colors to RGB, approximating the xterm palette.
var palette = map[core.Color]color.RGBA{
	core.ColorRed:           {R: 0xcd, A: 0xff},
	core.ColorGreen:         {G: 0xcd, A: 0xff},
	core.ColorYellow:        {R: 0xcd, G: 0xcd, A: 0xff},
	core.ColorBlue:          {B: 0xee, A: 0xff},
	core.ColorMagenta:       {R: 0xcd, B: 0xcd, A: 0xff},
	core.ColorCyan:          {G: 0xcd, B: 0xcd, A: 0xff},
	core.ColorWhite:         {R: 0xe5, G: 0xe5, B: 0xe5, A: 0xff},
	core.ColorBrightRed:     {R: 0xff, A: 0xff},
	core.ColorBrightGreen:   {G: 0xff, A: 0xff},
	core.ColorBrightYellow:  {R: 0xff, G: 0xff, A: 0xff},
	core.ColorBrightBlue:    {R: 0x5c, G: 0x5c, B: 0xff, A: 0xff},
	core.ColorBrightMagenta: {R: 0xff, B: 0xff, A: 0xff},
	core.ColorBrightCyan:    {G: 0xff, B: 0xff, A: 0xff},
	core.ColorBrightWhite:   {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	core.ColorOrange:        {R: 0xff, G: 0x87, A: 0xff},
	core.ColorGray:          {R: 0x8a, G: 0x8a, B: 0x8a, A: 0xff},
}

// RGBA returns the pixel color used for a cell color.
func RGBA(c core.Color) color.RGBA {
	if rgba, ok := palette[c]; ok {
		return rgba
	}
	return foreground
}

// Text returns the surface content as plain text with a trailing newline.
func Text(s *core.Screen) string {
	return s.String() + "\n"
}

// Image rasterises the surface, one CellWidth x CellHeight block per cell.
func Image(s *core.Screen) (*image.RGBA, error) {
	face, err := opentype.NewFace(mono, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot: cannot load font: %w", err)
	}
	defer face.Close()
	ascent := face.Metrics().Ascent.Ceil()

	img := image.NewRGBA(image.Rect(0, 0, s.Width()*CellWidth, s.Height()*CellHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Face: face,
	}
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			cell := s.GetCell(x, y)
			if cell.Rune == ' ' || cell.Rune == 0 {
				continue
			}
			d.Src = image.NewUniform(RGBA(cell.Color))
			d.Dot = fixed.P(x*CellWidth, y*CellHeight+ascent)
			d.DrawString(string(cell.Rune))
		}
	}
	return img, nil
}

// WritePNG encodes the rasterised surface as PNG.
func WritePNG(w io.Writer, s *core.Screen) error {
	img, err := Image(s)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("snapshot: cannot encode png: %w", err)
	}
	return nil
}

// Save writes <id>_<timestamp>.txt and .png into dir, creating it if needed,
// and returns the paths written.
func Save(dir, id string, s *core.Screen, at time.Time) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot: cannot create %s: %w", dir, err)
	}

	base := filepath.Join(dir, fmt.Sprintf("%s_%s", id, at.Format("20060102_150405")))
	txtPath := base + ".txt"
	if err := os.WriteFile(txtPath, []byte(Text(s)), 0o600); err != nil {
		return nil, fmt.Errorf("snapshot: cannot write %s: %w", txtPath, err)
	}

	pngPath := base + ".png"
	f, err := os.OpenFile(pngPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("snapshot: cannot create %s: %w", pngPath, err)
	}
	if err := WritePNG(f, s); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("snapshot: cannot close %s: %w", pngPath, err)
	}

	return []string{txtPath, pngPath}, nil
}
