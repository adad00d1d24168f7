package palette

import (
	"errors"
	"image"

	"golang.org/x/image/draw"
)

// SampleSize is the edge of the square raster an image is reduced to
// before averaging.
const SampleSize = 16

var ErrEmptyImage = errors.New("image has no pixels")

// Sample reduces img to SampleSize x SampleSize and returns the mean of
// the red, green and blue channels. Alpha is ignored.
func Sample(img image.Image) (RGB, error) {
	if img == nil {
		return RGB{}, ErrEmptyImage
	}
	srcBounds := img.Bounds()
	if srcBounds.Empty() {
		return RGB{}, ErrEmptyImage
	}

	// The scaler only reads sources through RGBA64At when drawing into an
	// NRGBA raster, so anything else is flattened first.
	if _, ok := img.(image.RGBA64Image); !ok {
		flat := image.NewNRGBA(image.Rect(0, 0, srcBounds.Dx(), srcBounds.Dy()))
		draw.Draw(flat, flat.Bounds(), img, srcBounds.Min, draw.Src)
		img, srcBounds = flat, flat.Bounds()
	}

	destBounds := image.Rect(0, 0, SampleSize, SampleSize)
	dest := image.NewNRGBA(destBounds)
	if (srcBounds.Dx() == SampleSize) && (srcBounds.Dy() == SampleSize) {
		draw.Draw(dest, destBounds, img, srcBounds.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(dest, destBounds, img, srcBounds, draw.Src, nil)
	}

	var r, g, b float64
	for i := 0; i < len(dest.Pix); i += 4 {
		r += float64(dest.Pix[i])
		g += float64(dest.Pix[i+1])
		b += float64(dest.Pix[i+2])
	}

	count := float64(SampleSize * SampleSize)
	return RGB{r / count, g / count, b / count}, nil
}

// FromImage samples img and derives its palette.
func FromImage(img image.Image) (Spec, RGB, error) {
	base, err := Sample(img)
	if err != nil {
		return Fallback(), RGB{}, err
	}
	return FromBase(base), base, nil
}
