package feature

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// FilterByResponse returns the keypoints whose response strictly exceeds
// threshold, with their matching descriptors, preserving order. descs may be
// nil when only keypoints are wanted; otherwise descs[i] must describe
// kps[i].
func FilterByResponse(kps []Keypoint, descs []Descriptor, threshold float64) ([]Keypoint, []Descriptor) {
	var outKps []Keypoint
	var outDescs []Descriptor
	for i, kp := range kps {
		if kp.Response > threshold {
			outKps = append(outKps, kp)
			if descs != nil {
				outDescs = append(outDescs, descs[i])
			}
		}
	}
	return outKps, outDescs
}

// Filter returns the subsequence of queryKps whose descriptors matched the
// reference set distinctly enough. A query keypoint is accepted when the
// distance d1 to its nearest reference descriptor satisfies
// d1 < matchRatio*d2 against the second-nearest distance d2, and its
// response exceeds cornerThreshold. A ratio near 1.0 is permissive; values
// well below 1.0 demand a pronounced distinctness gap.
//
// query[i] must describe queryKps[i], and all descriptors must share one
// length. Fewer than two reference descriptors leave no second neighbor to
// judge distinctness against, so the result is empty; empty inputs are
// likewise empty results, never errors. Output preserves query order and
// contains each keypoint at most once.
func Filter(ref, query []Descriptor, queryKps []Keypoint, cornerThreshold, matchRatio float64) []Keypoint {
	if len(ref) < 2 || len(query) == 0 || len(query) != len(queryKps) {
		return nil
	}

	var accepted []Keypoint
	for i, q := range query {
		d1, d2 := twoNearest(q, ref)
		if d1 < matchRatio*d2 && queryKps[i].Response > cornerThreshold {
			accepted = append(accepted, queryKps[i])
		}
	}
	return accepted
}

// twoNearest returns the Euclidean distances from q to its nearest and
// second-nearest descriptors in ref. ref must hold at least two entries.
func twoNearest(q Descriptor, ref []Descriptor) (d1, d2 float64) {
	d1, d2 = math.Inf(1), math.Inf(1)
	for _, r := range ref {
		d := floats.Distance(q, r, 2)
		switch {
		case d < d1:
			d1, d2 = d, d1
		case d < d2:
			d2 = d
		}
	}
	return d1, d2
}
