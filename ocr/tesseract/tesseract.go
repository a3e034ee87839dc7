// Package tesseract provides the default ocr.Engine backed by the gosseract
// client. Importing the package registers it as the library default.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"math"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/MatFragg/dniscan/ocr"
)

func init() {
	ocr.SetDefaultEngine(New())
}

// Engine recognizes document faces through a local Tesseract installation.
type Engine struct {
	clientFactory func() *gosseract.Client
}

// New constructs a Tesseract-backed recognizer engine.
func New() *Engine {
	return &Engine{clientFactory: gosseract.NewClient}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize performs OCR on a single document face.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	if err := ctx.Err(); err != nil {
		return ocr.Result{}, err
	}
	c := e.clientFactory()
	defer c.Close()
	return recognize(c, in)
}

// RecognizeBatch processes inputs sequentially on one shared client to
// amortize engine setup. Both faces of a document are typically submitted
// together.
func (e *Engine) RecognizeBatch(ctx context.Context, inputs []ocr.Input) ([]ocr.Result, error) {
	c := e.clientFactory()
	defer c.Close()

	results := make([]ocr.Result, 0, len(inputs))
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := recognize(c, in)
		if err != nil {
			return nil, fmt.Errorf("recognize %s: %w", in.ID, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func recognize(c *gosseract.Client, in ocr.Input) (ocr.Result, error) {
	payload, err := regionBytes(in)
	if err != nil {
		return ocr.Result{}, err
	}
	if err := c.SetImageFromBytes(payload); err != nil {
		return ocr.Result{}, fmt.Errorf("set image: %w", err)
	}
	if len(in.Languages) > 0 {
		if err := c.SetLanguage(in.Languages...); err != nil {
			return ocr.Result{}, fmt.Errorf("set languages: %w", err)
		}
	}
	if in.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(in.DPI)); err != nil {
			return ocr.Result{}, fmt.Errorf("set dpi: %w", err)
		}
	}
	for k, v := range in.Metadata {
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return ocr.Result{}, fmt.Errorf("set variable %s: %w", k, err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return ocr.Result{}, fmt.Errorf("recognize text: %w", err)
	}
	plain := strings.TrimSpace(text)

	words, confidence := wordBoxes(c)
	bounds := unionBounds(words)
	return ocr.Result{
		InputID:   in.ID,
		Side:      in.Side,
		PlainText: plain,
		Blocks: []ocr.TextBlock{{
			Text:       plain,
			Bounds:     bounds,
			Lines:      []ocr.TextLine{{Text: plain, Bounds: bounds, Words: words, Confidence: confidence}},
			Confidence: confidence,
		}},
		Language: firstLanguage(in.Languages),
	}, nil
}

// wordBoxes reads per-word boxes and confidences; confidence is the mean
// over all words, scaled to [0,1].
func wordBoxes(c *gosseract.Client) ([]ocr.TextWord, float64) {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return nil, 0
	}
	words := make([]ocr.TextWord, 0, len(boxes))
	var sum float64
	for _, b := range boxes {
		conf := b.Confidence / 100.0
		sum += conf
		words = append(words, ocr.TextWord{
			Text: b.Word,
			Bounds: ocr.Region{
				X:      float64(b.Box.Min.X),
				Y:      float64(b.Box.Min.Y),
				Width:  float64(b.Box.Dx()),
				Height: float64(b.Box.Dy()),
			},
			Confidence: conf,
		})
	}
	return words, sum / float64(len(words))
}

func unionBounds(words []ocr.TextWord) ocr.Region {
	if len(words) == 0 {
		return ocr.Region{}
	}
	minX, minY := math.MaxFloat64, math.MaxFloat64
	var maxX, maxY float64
	for _, w := range words {
		minX = math.Min(minX, w.Bounds.X)
		minY = math.Min(minY, w.Bounds.Y)
		maxX = math.Max(maxX, w.Bounds.X+w.Bounds.Width)
		maxY = math.Max(maxY, w.Bounds.Y+w.Bounds.Height)
	}
	return ocr.Region{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func firstLanguage(langs []string) string {
	if len(langs) == 0 {
		return ""
	}
	return langs[0]
}

// regionBytes crops the input to its recognition region, re-encoding as PNG.
// A nil or empty region passes the payload through untouched.
func regionBytes(in ocr.Input) ([]byte, error) {
	if in.Region == nil || in.Region.IsEmpty() {
		return in.Image, nil
	}
	img, _, err := image.Decode(bytes.NewReader(in.Image))
	if err != nil {
		return nil, fmt.Errorf("decode for region: %w", err)
	}
	rect := image.Rect(
		int(math.Round(in.Region.X)),
		int(math.Round(in.Region.Y)),
		int(math.Round(in.Region.X+in.Region.Width)),
		int(math.Round(in.Region.Y+in.Region.Height)),
	).Intersect(img.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("region outside image bounds")
	}
	sub, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	})
	if !ok {
		return nil, fmt.Errorf("image does not support sub-image")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, sub.SubImage(rect)); err != nil {
		return nil, fmt.Errorf("encode cropped image: %w", err)
	}
	return buf.Bytes(), nil
}
