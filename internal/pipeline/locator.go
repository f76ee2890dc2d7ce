package pipeline

import (
	"fmt"
	"math/rand"
	"time"

	"gocv.io/x/gocv"

	"github.com/MetaKor/comprobo-fiducial/internal/cluster"
	"github.com/MetaKor/comprobo-fiducial/internal/feature"
	"github.com/MetaKor/comprobo-fiducial/internal/vision"
	"github.com/MetaKor/comprobo-fiducial/pkg/geometry"
)

const (
	// minFrameKeypoints is the fewest detected keypoints worth matching.
	// Frames below it are skipped without touching the matcher.
	minFrameKeypoints = 2

	// minClusterMatches is the fewest accepted matches before corner
	// clustering is attempted.
	minClusterMatches = 6
)

// ReferenceModel is the cached detection result of the reference image,
// immutable once loaded.
type ReferenceModel struct {
	Keypoints   []feature.Keypoint
	Descriptors []feature.Descriptor
}

// FrameResult is one frame's outcome. Keypoints holds the accepted matches;
// Centroids holds the four cluster centers when clustering ran and
// converged. Both are nil for a skipped frame, and neither ever carries
// over from an earlier frame.
type FrameResult struct {
	Keypoints []feature.Keypoint
	Centroids []geometry.Point2D
}

// Locator matches live frames against a reference model loaded once at
// startup. Frames are processed one at a time; only the threshold store is
// shared with other goroutines.
type Locator struct {
	det   *vision.Detector
	store *Store
	model *ReferenceModel
	rng   *rand.Rand
}

// NewLocator creates a locator reading its thresholds from store.
func NewLocator(det *vision.Detector, store *Store) *Locator {
	return &Locator{
		det:   det,
		store: store,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetRand replaces the randomness source used to seed clustering.
func (l *Locator) SetRand(rng *rand.Rand) {
	l.rng = rng
}

// Reference returns the loaded model, or nil before LoadReference.
func (l *Locator) Reference() *ReferenceModel {
	return l.model
}

// LoadReference extracts and caches the reference model from ref using the
// corner threshold current at call time. It fails on an empty image or when
// the image yields fewer than two keypoints, since matching needs a second
// neighbor to judge distinctness.
func (l *Locator) LoadReference(ref gocv.Mat) error {
	if ref.Empty() {
		return fmt.Errorf("empty reference image")
	}

	gray := vision.ToGray(ref)
	defer gray.Close()

	p := l.store.Snapshot()
	kps, descs := l.det.DetectAndDescribe(gray, p.CornerThreshold)
	if len(kps) < minFrameKeypoints {
		return fmt.Errorf("reference image yields %d keypoints, need at least %d", len(kps), minFrameKeypoints)
	}

	l.model = &ReferenceModel{Keypoints: kps, Descriptors: descs}
	return nil
}

// ProcessFrame runs the per-frame pipeline: intensity conversion, keypoint
// detection, descriptor matching against the reference model, and
// clustering of the accepted matches. Sparse frames, few matches, and
// degenerate cluster geometry all produce a partial or zero result rather
// than an error; the only error is processing before a reference model has
// been loaded.
func (l *Locator) ProcessFrame(frame gocv.Mat) (FrameResult, error) {
	if l.model == nil {
		return FrameResult{}, fmt.Errorf("no reference model loaded")
	}
	if frame.Empty() {
		return FrameResult{}, nil
	}

	gray := vision.ToGray(frame)
	defer gray.Close()

	p := l.store.Snapshot()
	kps, descs := l.det.DetectAndDescribe(gray, p.CornerThreshold)

	return evaluate(l.model, kps, descs, p, l.rng), nil
}

// evaluate applies the per-frame decision rules to an already-detected
// keypoint set. The result is computed fresh on every call.
func evaluate(model *ReferenceModel, kps []feature.Keypoint, descs []feature.Descriptor, p Params, rng *rand.Rand) FrameResult {
	if len(kps) < minFrameKeypoints {
		return FrameResult{}
	}

	accepted := feature.Filter(model.Descriptors, descs, kps, p.CornerThreshold, p.MatchRatio)
	if len(accepted) < minClusterMatches {
		return FrameResult{Keypoints: accepted}
	}

	points := make([]geometry.Point2D, len(accepted))
	for i, kp := range accepted {
		points[i] = geometry.Point2D{X: kp.X, Y: kp.Y}
	}

	centroids, ok := cluster.FourMeans(points, rng)
	if !ok {
		return FrameResult{Keypoints: accepted}
	}
	return FrameResult{Keypoints: accepted, Centroids: centroids}
}
