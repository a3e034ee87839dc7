package pipeline

import (
	"errors"
	"fmt"

	"github.com/MatFragg/dniscan/ocr"
)

// ErrNoText reports that the recognizer produced no usable text for a face.
var ErrNoText = errors.New("recognizer returned no text")

// RecognitionError wraps an upstream recognizer failure. Side names the
// failing face when it is known; batch failures cover both faces and leave
// it empty. It is fatal for the request and never retried here; retries
// belong to the recognizer boundary.
type RecognitionError struct {
	Side ocr.Side
	Err  error
}

func (e *RecognitionError) Error() string {
	if e.Side == "" {
		return fmt.Sprintf("recognize document: %v", e.Err)
	}
	return fmt.Sprintf("recognize %s face: %v", e.Side, e.Err)
}

func (e *RecognitionError) Unwrap() error { return e.Err }
