// Package cluster groups matched image points into four spatial clusters by
// iterative centroid refinement.
package cluster

import (
	"math"
	"math/rand"

	"github.com/MetaKor/comprobo-fiducial/pkg/geometry"
)

const (
	numClusters   = 4
	maxIterations = 100
)

// FourMeans clusters points into exactly four groups and returns the cluster
// centroids. Initial placement draws from rng, so exact centroid values are
// not reproducible across seeds; callers needing repeatability inject a
// fixed-seed source. Returns ok=false when the input cannot support four
// clusters (fewer than four distinct coordinates). rng must not be nil.
func FourMeans(points []geometry.Point2D, rng *rand.Rand) ([]geometry.Point2D, bool) {
	distinct := dedupe(points)
	if len(distinct) < numClusters {
		return nil, false
	}

	centroids := seedCentroids(distinct, rng)
	assign := make([]int, len(points))
	for i := range assign {
		assign[i] = -1
	}

	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, p := range points {
			if c := nearest(p, centroids); c != assign[i] {
				assign[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}
		updateCentroids(points, assign, centroids)
	}

	return centroids, true
}

// seedCentroids picks the first centroid uniformly at random and each later
// one as the distinct point farthest from those already chosen. Well
// separated groups therefore each receive one seed no matter how the first
// draw lands.
func seedCentroids(distinct []geometry.Point2D, rng *rand.Rand) []geometry.Point2D {
	centroids := make([]geometry.Point2D, 0, numClusters)
	centroids = append(centroids, distinct[rng.Intn(len(distinct))])

	for len(centroids) < numClusters {
		best, bestDist := 0, -1.0
		for i, p := range distinct {
			d := math.Inf(1)
			for _, c := range centroids {
				if dc := p.Distance(c); dc < d {
					d = dc
				}
			}
			if d > bestDist {
				best, bestDist = i, d
			}
		}
		centroids = append(centroids, distinct[best])
	}
	return centroids
}

// nearest returns the index of the centroid closest to p, breaking ties
// toward the lowest index.
func nearest(p geometry.Point2D, centroids []geometry.Point2D) int {
	best, bestDist := 0, p.Distance(centroids[0])
	for c := 1; c < len(centroids); c++ {
		if d := p.Distance(centroids[c]); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// updateCentroids recomputes each centroid as the mean of its assigned
// points. An emptied cluster is reseeded from the point farthest from its
// assigned centroid so four non-empty clusters survive the next pass.
func updateCentroids(points []geometry.Point2D, assign []int, centroids []geometry.Point2D) {
	var sums [numClusters]geometry.Point2D
	var counts [numClusters]int
	for i, p := range points {
		c := assign[i]
		sums[c] = sums[c].Add(p)
		counts[c]++
	}

	var reseeded []int
	for c := range centroids {
		if counts[c] > 0 {
			centroids[c] = sums[c].Scale(1 / float64(counts[c]))
			continue
		}
		if j := farthestAssigned(points, assign, centroids, reseeded); j >= 0 {
			centroids[c] = points[j]
			reseeded = append(reseeded, j)
		}
	}
}

// farthestAssigned returns the index of the point farthest from its assigned
// centroid, skipping indices listed in exclude. Returns -1 when no point
// qualifies.
func farthestAssigned(points []geometry.Point2D, assign []int, centroids []geometry.Point2D, exclude []int) int {
	best, bestDist := -1, -1.0
	for i, p := range points {
		if intsContain(exclude, i) {
			continue
		}
		if d := p.Distance(centroids[assign[i]]); d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// dedupe returns the distinct coordinates in first-seen order.
func dedupe(points []geometry.Point2D) []geometry.Point2D {
	seen := make(map[geometry.Point2D]struct{}, len(points))
	var distinct []geometry.Point2D
	for _, p := range points {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		distinct = append(distinct, p)
	}
	return distinct
}

func intsContain(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
