package scanner

import (
	"image"
	"testing"
)

func TestCenterRegion(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	got := centerRegion(img, 0.9, 0.55).Bounds()
	want := image.Rect(10, 22, 190, 77)
	if got != want {
		t.Fatalf("region = %v, want %v", got, want)
	}

	tiny := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if b := centerRegion(tiny, 0.5, 0.5).Bounds(); b != tiny.Bounds() {
		t.Fatalf("tiny image cropped to %v", b)
	}
}
