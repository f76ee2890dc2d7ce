package vision

import (
	"gocv.io/x/gocv"

	"github.com/MetaKor/comprobo-fiducial/internal/feature"
)

// Detector finds scale-space keypoints and their gradient descriptors using
// SIFT. Not safe for concurrent use; Close releases the OpenCV resources.
type Detector struct {
	sift gocv.SIFT
}

// NewDetector creates a SIFT-backed detector.
func NewDetector() *Detector {
	return &Detector{sift: gocv.NewSIFT()}
}

// Close releases the underlying SIFT instance.
func (d *Detector) Close() error {
	return d.sift.Close()
}

// Detect finds keypoints in the intensity image whose response strictly
// exceeds cornerThreshold. Order follows SIFT's emission order, which is
// stable for identical input. An image with no qualifying extrema yields an
// empty result.
func (d *Detector) Detect(gray gocv.Mat, cornerThreshold float64) []feature.Keypoint {
	if gray.Empty() {
		return nil
	}
	kps, _ := feature.FilterByResponse(fromKeyPoints(d.sift.Detect(gray)), nil, cornerThreshold)
	return kps
}

// DetectAndDescribe finds keypoints above cornerThreshold together with
// their descriptors in a single SIFT pass. The returned descriptors stay
// index-aligned with the returned keypoints.
func (d *Detector) DetectAndDescribe(gray gocv.Mat, cornerThreshold float64) ([]feature.Keypoint, []feature.Descriptor) {
	if gray.Empty() {
		return nil, nil
	}

	mask := gocv.NewMat()
	defer mask.Close()
	kps, descMat := d.sift.DetectAndCompute(gray, mask)
	defer descMat.Close()

	return feature.FilterByResponse(fromKeyPoints(kps), matToDescriptors(descMat), cornerThreshold)
}

// fromKeyPoints converts gocv keypoints, keeping position and response.
func fromKeyPoints(kps []gocv.KeyPoint) []feature.Keypoint {
	if len(kps) == 0 {
		return nil
	}
	out := make([]feature.Keypoint, len(kps))
	for i, kp := range kps {
		out[i] = feature.Keypoint{X: kp.X, Y: kp.Y, Response: kp.Response}
	}
	return out
}

// matToDescriptors copies each CV_32F row of m into a descriptor vector.
func matToDescriptors(m gocv.Mat) []feature.Descriptor {
	if m.Empty() {
		return nil
	}
	rows, cols := m.Rows(), m.Cols()
	out := make([]feature.Descriptor, rows)
	for i := 0; i < rows; i++ {
		d := make(feature.Descriptor, cols)
		for j := 0; j < cols; j++ {
			d[j] = float64(m.GetFloatAt(i, j))
		}
		out[i] = d
	}
	return out
}
