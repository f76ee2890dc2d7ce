// Package vision wraps the OpenCV feature primitives behind the locator's
// keypoint and descriptor types.
package vision

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Grayscale converts img to a single-channel intensity image of identical
// bounds using the standard BT.601 luminance weighting.
func Grayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			gray.SetGray(x, y, color.Gray{Y: uint8((19595*r + 38470*g + 7471*b + 1<<15) >> 24)})
		}
	}
	return gray
}

// ToGray returns a single-channel copy of src. Camera frames arrive as BGR
// or BGRA; single-channel input is cloned as-is. Caller closes the returned
// Mat.
func ToGray(src gocv.Mat) gocv.Mat {
	switch src.Channels() {
	case 1:
		return src.Clone()
	case 4:
		dst := gocv.NewMat()
		gocv.CvtColor(src, &dst, gocv.ColorBGRAToGray)
		return dst
	default:
		dst := gocv.NewMat()
		gocv.CvtColor(src, &dst, gocv.ColorBGRToGray)
		return dst
	}
}

// MatFromImage converts a decoded image into the single-channel Mat the
// detector consumes. Caller closes the returned Mat.
func MatFromImage(img image.Image) (gocv.Mat, error) {
	mat, err := gocv.ImageGrayToMatGray(Grayscale(img))
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("convert image to mat: %w", err)
	}
	return mat, nil
}
