// Package scanner turns camera frames and still images into barcode text.
package scanner

import (
	"fmt"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/pdf417"

	"frontdesk_kiosk/internal/domain"
)

// Engine decodes one barcode from an image.
type Engine interface {
	Name() string
	Decode(img image.Image) (string, error)
}

// Region of a live frame the engine looks at, as fractions of width and height.
// The operator lines the licence up inside this box.
const (
	regionWidth  = 0.90
	regionHeight = 0.55
)

// PDF417 reads the barcode on the back of a driving licence.
type PDF417 struct {
	// Crop limits decoding to the centered scan region.
	Crop bool
}

func NewPDF417(crop bool) *PDF417 { return &PDF417{Crop: crop} }

func (e *PDF417) Name() string { return "gozxing-pdf417" }

func (e *PDF417) Decode(img image.Image) (string, error) {
	if e.Crop {
		img = centerRegion(img, regionWidth, regionHeight)
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("binarize frame: %w", err)
	}
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	// readers keep per-decode state
	var r gozxing.Reader = pdf417.NewPDF417Reader()
	res, err := r.Decode(bmp, hints)
	if err != nil || res.GetText() == "" {
		return "", domain.ErrNoBarcode
	}
	return res.GetText(), nil
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// centerRegion returns the centered w×h fraction of img, or img itself when
// it cannot be cropped without copying.
func centerRegion(img image.Image, w, h float64) image.Image {
	si, ok := img.(subImager)
	if !ok {
		return img
	}
	b := img.Bounds()
	cw := int(float64(b.Dx()) * w)
	ch := int(float64(b.Dy()) * h)
	if cw <= 0 || ch <= 0 {
		return img
	}
	x0 := b.Min.X + (b.Dx()-cw)/2
	y0 := b.Min.Y + (b.Dy()-ch)/2
	return si.SubImage(image.Rect(x0, y0, x0+cw, y0+ch))
}
