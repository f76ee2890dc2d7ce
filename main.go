// Package main provides the entry point for the fiducial locator application.
package main

import (
	"flag"
	"image"
	"log"
	"os"

	"gocv.io/x/gocv"

	"github.com/MetaKor/comprobo-fiducial/internal/pipeline"
	"github.com/MetaKor/comprobo-fiducial/internal/version"
	"github.com/MetaKor/comprobo-fiducial/internal/vision"
	"github.com/MetaKor/comprobo-fiducial/pkg/colorutil"
)

const (
	appTitle = "Fiducial Locator"

	cornerTrackbar = "Corner Threshold"
	ratioTrackbar  = "Ratio Threshold"
	trackbarMax    = 100

	markerRadius = 5
)

func main() {
	refPath := flag.String("ref", "", "reference image containing the object to locate")
	camID := flag.Int("cam", 0, "capture device id")
	paramsPath := flag.String("params", "", "JSON parameter profile to load, and to save with 's'")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s %s", appTitle, version.Version)

	if *refPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	params := pipeline.DefaultParams()
	if *paramsPath != "" {
		loaded, err := pipeline.LoadParams(*paramsPath)
		if err != nil {
			log.Printf("Parameter profile %s not loaded: %v", *paramsPath, err)
		} else {
			params = loaded
			log.Printf("Loaded parameter profile %s", *paramsPath)
		}
	}

	store := pipeline.NewStore(params)
	det := vision.NewDetector()
	defer det.Close()
	loc := pipeline.NewLocator(det, store)

	ref := gocv.IMRead(*refPath, gocv.IMReadColor)
	defer ref.Close()
	if ref.Empty() {
		log.Fatalf("Cannot read reference image %s", *refPath)
	}
	if err := loc.LoadReference(ref); err != nil {
		log.Fatalf("Reference image %s: %v", *refPath, err)
	}
	log.Printf("Reference model: %d keypoints", len(loc.Reference().Keypoints))

	cam, err := gocv.OpenVideoCapture(*camID)
	if err != nil {
		log.Fatalf("Cannot open capture device %d: %v", *camID, err)
	}
	defer cam.Close()

	runLoop(loc, store, cam, *paramsPath)
}

// runLoop owns the display window and is the store's only writer. Trackbar
// positions are pushed into the store before each frame is processed, so a
// slider change is picked up on the very next frame.
func runLoop(loc *pipeline.Locator, store *pipeline.Store, cam *gocv.VideoCapture, paramsPath string) {
	window := gocv.NewWindow(appTitle)
	defer window.Close()

	p := store.Snapshot()
	corner := window.CreateTrackbar(cornerTrackbar, trackbarMax)
	corner.SetPos(clampPos(int(p.CornerThreshold * 1000)))
	ratio := window.CreateTrackbar(ratioTrackbar, trackbarMax)
	ratio.SetPos(clampPos(int(p.MatchRatio * 100)))

	frame := gocv.NewMat()
	defer frame.Close()

	for {
		if ok := cam.Read(&frame); !ok {
			log.Println("Capture device closed")
			return
		}
		if frame.Empty() {
			continue
		}

		store.SetCornerThreshold(corner.GetPos())
		store.SetMatchRatioThreshold(ratio.GetPos())

		res, err := loc.ProcessFrame(frame)
		if err != nil {
			log.Printf("Frame dropped: %v", err)
		} else {
			drawResult(&frame, res)
		}
		window.IMShow(frame)

		switch window.WaitKey(27) {
		case 27, 'q':
			return
		case 's':
			saveParams(store, paramsPath)
		}
	}
}

// drawResult overlays the frame's own detections, green centroids first and
// red accepted keypoints on top.
func drawResult(frame *gocv.Mat, res pipeline.FrameResult) {
	for _, c := range res.Centroids {
		gocv.Circle(frame, image.Pt(int(c.X), int(c.Y)), markerRadius, colorutil.Green, -1)
	}
	for _, kp := range res.Keypoints {
		gocv.Circle(frame, image.Pt(int(kp.X), int(kp.Y)), markerRadius, colorutil.Red, -1)
	}
}

func saveParams(store *pipeline.Store, path string) {
	if path == "" {
		log.Println("No -params path given, nothing saved")
		return
	}
	if err := store.Snapshot().Save(path); err != nil {
		log.Printf("Save parameter profile: %v", err)
		return
	}
	log.Printf("Saved parameter profile %s", path)
}

func clampPos(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > trackbarMax {
		return trackbarMax
	}
	return pos
}
