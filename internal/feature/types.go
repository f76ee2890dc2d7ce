// Package feature defines image keypoints and descriptors, plus the filters
// that decide which keypoints of a live frame correspond to a reference
// object.
package feature

// Keypoint is a locally distinctive image point found by a detector.
type Keypoint struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Response float64 `json:"response"` // detector strength score; higher is more reliable
}

// Descriptor is a fixed-length numeric summary of the local gradient pattern
// around a keypoint, used to match keypoints across images. All descriptors
// from one extraction share the same length (128 for SIFT).
type Descriptor []float64
