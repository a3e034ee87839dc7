package ocr

// InputOption mutates a recognizer input built from a document-face image.
type InputOption func(*Input)

// WithLanguages sets language hints on the input.
func WithLanguages(langs ...string) InputOption {
	return func(in *Input) { in.Languages = append([]string(nil), langs...) }
}

// WithRegion sets the recognition region on the input.
func WithRegion(region Region) InputOption {
	return func(in *Input) {
		if region.IsEmpty() {
			in.Region = nil
			return
		}
		in.Region = &region
	}
}

// WithDPI overrides the DPI value on the input.
func WithDPI(dpi int) InputOption {
	return func(in *Input) { in.DPI = dpi }
}

// WithMetadata sets provider-specific metadata for the input.
func WithMetadata(metadata map[string]string) InputOption {
	return func(in *Input) {
		if len(metadata) == 0 {
			in.Metadata = nil
			return
		}
		in.Metadata = make(map[string]string, len(metadata))
		for k, v := range metadata {
			in.Metadata[k] = v
		}
	}
}

// InputFromFace builds a recognizer input for one face of a document. The
// generated ID is stable per side to simplify correlation with downstream
// results.
func InputFromFace(side Side, image []byte, format ImageFormat, opts ...InputOption) Input {
	in := Input{
		ID:     "face-" + string(side),
		Side:   side,
		Image:  image,
		Format: format,
	}
	for _, opt := range opts {
		opt(&in)
	}
	return in
}
