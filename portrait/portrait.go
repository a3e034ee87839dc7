// Package portrait crops the fixed-proportion photo region out of an
// enhanced document image and normalizes it into the canonical portrait
// canvas expected by downstream face comparison.
package portrait

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/MatFragg/dniscan/observability"
)

// Config tunes the crop geometry and output canvas. The zero value is
// usable; zero fields take the defaults below.
type Config struct {
	// Crop rectangle as fractions of the document image, clamped to bounds.
	LeftFrac   float64
	TopFrac    float64
	WidthFrac  float64
	HeightFrac float64
	// Canonical output canvas in pixels.
	CanvasWidth  int
	CanvasHeight int
	// Gamma exponent for the contrast boost. Below 1 lifts midtones without
	// raising the brightness floor; a linear rescale washed out skin texture.
	Gamma       float64
	JPEGQuality int
}

// DefaultConfig returns the production geometry for the modeled document
// layout: the photo sits on the left edge, under the header band.
func DefaultConfig() Config {
	return Config{
		LeftFrac:     0.045,
		TopFrac:      0.16,
		WidthFrac:    0.25,
		HeightFrac:   0.56,
		CanvasWidth:  500,
		CanvasHeight: 630,
		Gamma:        0.9,
		JPEGQuality:  95,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.LeftFrac == 0 {
		c.LeftFrac = d.LeftFrac
	}
	if c.TopFrac == 0 {
		c.TopFrac = d.TopFrac
	}
	if c.WidthFrac == 0 {
		c.WidthFrac = d.WidthFrac
	}
	if c.HeightFrac == 0 {
		c.HeightFrac = d.HeightFrac
	}
	if c.CanvasWidth == 0 {
		c.CanvasWidth = d.CanvasWidth
	}
	if c.CanvasHeight == 0 {
		c.CanvasHeight = d.CanvasHeight
	}
	if c.Gamma == 0 {
		c.Gamma = d.Gamma
	}
	if c.JPEGQuality == 0 {
		c.JPEGQuality = d.JPEGQuality
	}
	return c
}

// Extractor produces canonical portrait crops. Safe for concurrent use.
type Extractor struct {
	cfg Config
	log observability.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger routes geometry-fallback warnings to log.
func WithLogger(log observability.Logger) Option {
	return func(x *Extractor) { x.log = log }
}

// New builds an Extractor.
func New(cfg Config, opts ...Option) *Extractor {
	x := &Extractor{cfg: cfg.withDefaults(), log: observability.NopLogger{}}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// canvasBackground is the neutral near-white the portrait sits on.
var canvasBackground = color.NRGBA{R: 245, G: 245, B: 245, A: 255}

// Extract decodes the document image, straightens it when document edges
// can be detected, and renders the canonical portrait. A failed geometric
// correction falls back to the uncorrected image; only an undecodable or
// unencodable image fails.
func (x *Extractor) Extract(documentImage []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(documentImage))
	if err != nil {
		return nil, fmt.Errorf("decode document image: %w", err)
	}

	working := imaging.Clone(src)
	if corrected, err := correctGeometry(working); err != nil {
		x.log.Warn("geometric correction failed, using uncorrected image",
			observability.Error("error", err))
	} else {
		working = corrected
	}

	out := x.render(working)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(x.cfg.JPEGQuality)); err != nil {
		return nil, fmt.Errorf("encode portrait: %w", err)
	}
	return buf.Bytes(), nil
}

// Gaussian-like 3x3 denoise kernel.
var gaussianKernel = [9]float64{
	1.0 / 16, 1.0 / 8, 1.0 / 16,
	1.0 / 8, 1.0 / 4, 1.0 / 8,
	1.0 / 16, 1.0 / 8, 1.0 / 16,
}

func (x *Extractor) render(doc *image.NRGBA) *image.NRGBA {
	crop := imaging.Crop(doc, x.cropRect(doc.Bounds()))

	fitted := imaging.Fit(crop, x.cfg.CanvasWidth, x.cfg.CanvasHeight, imaging.CatmullRom)
	canvas := imaging.New(x.cfg.CanvasWidth, x.cfg.CanvasHeight, canvasBackground)
	out := imaging.PasteCenter(canvas, fitted)

	out = imaging.Convolve3x3(out, gaussianKernel, nil)
	return imaging.AdjustFunc(out, x.gammaCorrect)
}

// cropRect maps the fractional geometry onto bounds, clamped so the
// rectangle never leaves the image.
func (x *Extractor) cropRect(bounds image.Rectangle) image.Rectangle {
	w, h := bounds.Dx(), bounds.Dy()
	left := bounds.Min.X + int(float64(w)*x.cfg.LeftFrac)
	top := bounds.Min.Y + int(float64(h)*x.cfg.TopFrac)
	right := left + int(float64(w)*x.cfg.WidthFrac)
	bottom := top + int(float64(h)*x.cfg.HeightFrac)
	return image.Rect(left, top, right, bottom).Intersect(bounds)
}

// gammaCorrect applies channel' = (channel/255)^gamma * 255, truncated.
func (x *Extractor) gammaCorrect(c color.NRGBA) color.NRGBA {
	return color.NRGBA{
		R: gammaByte(c.R, x.cfg.Gamma),
		G: gammaByte(c.G, x.cfg.Gamma),
		B: gammaByte(c.B, x.cfg.Gamma),
		A: c.A,
	}
}

func gammaByte(v uint8, gamma float64) uint8 {
	return uint8(math.Pow(float64(v)/255, gamma) * 255)
}
