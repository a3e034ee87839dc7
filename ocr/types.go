package ocr

import "context"

// ImageFormat identifies the content type of an OCR input image.
type ImageFormat string

const (
	ImageFormatPNG  ImageFormat = "image/png"
	ImageFormatJPEG ImageFormat = "image/jpeg"
)

// Side identifies which face of an identity document an image shows.
type Side string

const (
	SideFront Side = "front"
	SideBack  Side = "back"
)

// Region describes a rectangular area in pixel coordinates with the origin in
// the upper-left corner of the image.
type Region struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// IsEmpty reports whether the region has non-positive dimensions.
func (r Region) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Input encapsulates a single document-face image submitted for recognition.
type Input struct {
	// ID is an optional caller-provided identifier that is echoed back in the
	// corresponding Result.
	ID string
	// Side declares which document face the image shows.
	Side Side
	// Image is the encoded image payload in the format specified by Format.
	Image []byte
	// Format declares the image content type (e.g., image/jpeg).
	Format ImageFormat
	// DPI carries the effective dots-per-inch for the image. Providers such as
	// Tesseract use this for scaling and layout heuristics; zero means unknown.
	DPI int
	// Languages is a list of language hints (e.g., "spa", "eng") that
	// providers can use to select trained data.
	Languages []string
	// Region restricts recognition to a subsection of the image. Nil means the
	// full image should be processed.
	Region *Region
	// Metadata allows callers to pass through engine-specific knobs (e.g.,
	// "psm" for Tesseract) without hard-coding them into the API surface.
	Metadata map[string]string
}

// TextWord represents a single recognized token.
type TextWord struct {
	Text       string
	Bounds     Region
	Confidence float64
}

// TextLine groups words that share a baseline.
type TextLine struct {
	Text       string
	Bounds     Region
	Words      []TextWord
	Confidence float64
}

// TextBlock aggregates lines that form a logical block (paragraph, heading, etc).
type TextBlock struct {
	Text       string
	Bounds     Region
	Lines      []TextLine
	Confidence float64
}

// Result captures recognizer output for a single input image.
type Result struct {
	// InputID mirrors the Input.ID that produced this result.
	InputID string
	// Side mirrors the Input.Side.
	Side Side
	// PlainText contains the linearized text extracted from the image.
	PlainText string
	// Blocks carries the structured layout with positional metadata.
	Blocks []TextBlock
	// Language indicates the dominant language detected, if known.
	Language string
}

// Engine is the simplest recognizer contract: one image in, one result out.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}

// BatchEngine handles multiple images in a single call, enabling providers
// that amortize setup costs or remote round-trips.
type BatchEngine interface {
	Engine
	RecognizeBatch(ctx context.Context, inputs []Input) ([]Result, error)
}
