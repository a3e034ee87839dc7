package enhance

import (
	"image"

	"golang.org/x/image/draw"
)

// upscale resizes src to targetWidth with Catmull-Rom resampling, preserving
// aspect ratio. Images already at or past the target pass through untouched.
func upscale(src image.Image, targetWidth int) image.Image {
	b := src.Bounds()
	if targetWidth <= 0 || b.Dx() == 0 || b.Dx() >= targetWidth {
		return src
	}
	scale := float64(targetWidth) / float64(b.Dx())
	height := int(float64(b.Dy())*scale + 0.5)
	dst := image.NewNRGBA(image.Rect(0, 0, targetWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// toNRGBA normalizes any decoded image to an origin-anchored NRGBA buffer so
// the pixel passes can index Pix directly.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Bounds().Min == image.Pt(0, 0) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// adjustContrast applies the fixed linear rescale v*scale+offset in place,
// clamping each color channel to [0,255]. Alpha is untouched.
func adjustContrast(img *image.NRGBA, scale float64, offset int) {
	for i := 0; i < len(img.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			img.Pix[i+c] = clampByte(float64(img.Pix[i+c])*scale + float64(offset))
		}
	}
}

// The unsharp-style kernel. Border pixels keep their input value: the kernel
// only runs where all nine taps exist.
var sharpenKernel = [9]int{0, -1, 0, -1, 5, -1, 0, -1, 0}

func sharpen(src *image.NRGBA) *image.NRGBA {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(dst.Pix, src.Pix)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			for c := 0; c < 3; c++ {
				sum, k := 0, 0
				for ky := -1; ky <= 1; ky++ {
					row := (y + ky) * src.Stride
					for kx := -1; kx <= 1; kx++ {
						sum += int(src.Pix[row+(x+kx)*4+c]) * sharpenKernel[k]
						k++
					}
				}
				dst.Pix[y*dst.Stride+x*4+c] = clampInt(sum)
			}
		}
	}
	return dst
}

// denoise is a 3x3 median filter. It sits outside the default pipeline: the
// pass was cut from the hot path for throughput and stays behind
// Config.Denoise for documents where sharpening amplifies sensor noise.
func denoise(src *image.NRGBA) *image.NRGBA {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(dst.Pix, src.Pix)
	var window [9]uint8
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			for c := 0; c < 3; c++ {
				k := 0
				for ky := -1; ky <= 1; ky++ {
					row := (y + ky) * src.Stride
					for kx := -1; kx <= 1; kx++ {
						window[k] = src.Pix[row+(x+kx)*4+c]
						k++
					}
				}
				dst.Pix[y*dst.Stride+x*4+c] = median9(window)
			}
		}
	}
	return dst
}

func median9(w [9]uint8) uint8 {
	for i := 1; i < len(w); i++ {
		for j := i; j > 0 && w[j] < w[j-1]; j-- {
			w[j], w[j-1] = w[j-1], w[j]
		}
	}
	return w[4]
}

func clampByte(v float64) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}

func clampInt(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}
