package portrait

import (
	"errors"
	"image"

	"github.com/disintegration/imaging"
)

var errNoDocumentEdges = errors.New("no document edges detected")

// correctGeometry trims background residue (table surface, fingers) around
// the document. Edge energy is measured with a simple horizontal gradient;
// a blank frame means there is nothing to anchor the crop on, so the caller
// falls back to the uncorrected image. On captures where the document fills
// almost the whole frame, a 0.5% safety margin is all the trim needed.
func correctGeometry(img *image.NRGBA) (*image.NRGBA, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w < 3 || h < 3 {
		return nil, errNoDocumentEdges
	}
	if edgeEnergy(img) == 0 {
		return nil, errNoDocumentEdges
	}

	marginW := int(float64(w) * 0.005)
	marginH := int(float64(h) * 0.005)
	bounds := image.Rect(marginW, marginH, w-marginW, h-marginH)
	return imaging.Crop(img, bounds), nil
}

// edgeEnergy sums the absolute horizontal intensity gradient over the frame.
func edgeEnergy(img *image.NRGBA) int64 {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	var total int64
	for y := 1; y < h-1; y++ {
		row := y * img.Stride
		for x := 1; x < w-1; x++ {
			left := int(img.Pix[row+(x-1)*4])
			right := int(img.Pix[row+(x+1)*4])
			diff := left - right
			if diff < 0 {
				diff = -diff
			}
			total += int64(diff)
		}
	}
	return total
}
