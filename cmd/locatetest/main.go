// Command locatetest runs the reference locator over still images and
// prints match and centroid results.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math/rand"
	"os"

	"gocv.io/x/gocv"

	_ "golang.org/x/image/tiff"

	"github.com/MetaKor/comprobo-fiducial/internal/pipeline"
	"github.com/MetaKor/comprobo-fiducial/internal/vision"
	"github.com/MetaKor/comprobo-fiducial/pkg/geometry"
)

func main() {
	refPath := flag.String("ref", "", "Path to reference image (TIFF, PNG, or JPEG)")
	corner := flag.Float64("corner", 0, "Corner response threshold")
	ratio := flag.Float64("ratio", 1.0, "Nearest-neighbor distance ratio threshold")
	seed := flag.Int64("seed", 1, "Seed for reproducible centroid placement")
	flag.Parse()

	if *refPath == "" || flag.NArg() == 0 {
		fmt.Println("Usage: locatetest -ref <path> [-corner 0.0] [-ratio 1.0] [-seed 1] <query image>...")
		os.Exit(1)
	}

	params := pipeline.DefaultParams().WithCornerThreshold(*corner).WithMatchRatio(*ratio)
	fmt.Printf("Locator parameters:\n")
	fmt.Printf("  Corner threshold: %.3f\n", params.CornerThreshold)
	fmt.Printf("  Match ratio:      %.2f\n", params.MatchRatio)
	fmt.Printf("  Cluster seed:     %d\n", *seed)

	det := vision.NewDetector()
	defer det.Close()
	loc := pipeline.NewLocator(det, pipeline.NewStore(params))
	loc.SetRand(rand.New(rand.NewSource(*seed)))

	fmt.Printf("\n=== Reference: %s ===\n", *refPath)
	ref, err := loadMat(*refPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load reference: %v\n", err)
		os.Exit(1)
	}
	if err := loc.LoadReference(ref); err != nil {
		ref.Close()
		fmt.Fprintf(os.Stderr, "Failed to build reference model: %v\n", err)
		os.Exit(1)
	}
	ref.Close()
	fmt.Printf("Reference model: %d keypoints\n", len(loc.Reference().Keypoints))

	for _, path := range flag.Args() {
		fmt.Printf("\n=== Locating in: %s ===\n", path)
		frame, err := loadMat(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load query image: %v\n", err)
			os.Exit(1)
		}
		res, err := loc.ProcessFrame(frame)
		frame.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Processing failed: %v\n", err)
			os.Exit(1)
		}
		report(res)
	}
}

// loadMat decodes an image file into the single-channel Mat the locator
// consumes.
func loadMat(path string) (gocv.Mat, error) {
	f, err := os.Open(path)
	if err != nil {
		return gocv.Mat{}, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("decode %s: %w", path, err)
	}
	bounds := img.Bounds()
	fmt.Printf("Loaded %s image: %dx%d pixels\n", format, bounds.Dx(), bounds.Dy())

	return vision.MatFromImage(img)
}

func report(res pipeline.FrameResult) {
	fmt.Printf("Accepted matches: %d\n", len(res.Keypoints))
	if len(res.Keypoints) == 0 {
		return
	}

	var points []geometry.Point2D
	for _, kp := range res.Keypoints {
		points = append(points, geometry.Point2D{X: kp.X, Y: kp.Y})
	}
	box := geometry.BoundingBox(points)
	fmt.Printf("Match bounding box: origin (%.1f, %.1f) size %.1fx%.1f\n", box.X, box.Y, box.Width, box.Height)

	if res.Centroids == nil {
		fmt.Println("No centroid estimate (too few matches to cluster)")
		return
	}

	fmt.Printf("Centroids:\n")
	fmt.Printf("%-4s %10s %10s\n", "#", "X", "Y")
	for i, c := range res.Centroids {
		fmt.Printf("%-4d %10.1f %10.1f\n", i, c.X, c.Y)
	}
}
