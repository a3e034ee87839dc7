package ocr

import "strconv"

// Tesseract-specific knobs travel through Input.Metadata so the core input
// surface stays provider-agnostic.

// MRZCharset is the recognition whitelist for machine-readable zone reads:
// upper-case letters, digits and the filler character.
const MRZCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789<"

// WithTesseractPSM sets the page segmentation mode (PSM). Single-block modes
// tend to beat automatic segmentation on card-shaped document faces.
// See https://tesseract-ocr.github.io/tessdoc/ImproveQuality.html#page-segmentation-method for values.
func WithTesseractPSM(mode int) InputOption {
	return func(in *Input) {
		if in.Metadata == nil {
			in.Metadata = make(map[string]string)
		}
		in.Metadata["tessedit_pageseg_mode"] = strconv.Itoa(mode)
	}
}

// WithTesseractWhitelist restricts recognition to the provided characters.
// Pass MRZCharset when targeting the machine-readable zone.
func WithTesseractWhitelist(chars string) InputOption {
	return func(in *Input) {
		if in.Metadata == nil {
			in.Metadata = make(map[string]string)
		}
		in.Metadata["tessedit_char_whitelist"] = chars
	}
}
