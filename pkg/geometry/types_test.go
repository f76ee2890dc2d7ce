package geometry

import (
	"math"
	"testing"
)

const tol = 1e-9

func almostEqual(a, b Point2D) bool {
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol
}

func TestPointArithmetic(t *testing.T) {
	tests := []struct {
		name string
		got  Point2D
		want Point2D
	}{
		{"add", Point2D{X: 1, Y: 2}.Add(Point2D{X: 3, Y: -1}), Point2D{X: 4, Y: 1}},
		{"sub", Point2D{X: 1, Y: 2}.Sub(Point2D{X: 3, Y: -1}), Point2D{X: -2, Y: 3}},
		{"scale", Point2D{X: 2, Y: -4}.Scale(0.5), Point2D{X: 1, Y: -2}},
		{"scale zero", Point2D{X: 2, Y: -4}.Scale(0), Point2D{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !almostEqual(tt.got, tt.want) {
				t.Errorf("got %+v, want %+v", tt.got, tt.want)
			}
		})
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point2D
		want float64
	}{
		{"same point", Point2D{X: 5, Y: 5}, Point2D{X: 5, Y: 5}, 0},
		{"unit x", Point2D{}, Point2D{X: 1}, 1},
		{"3-4-5", Point2D{}, Point2D{X: 3, Y: 4}, 5},
		{"symmetric", Point2D{X: -3, Y: -4}, Point2D{}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Distance(tt.b); math.Abs(got-tt.want) > tol {
				t.Errorf("Distance(%+v, %+v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCentroid(t *testing.T) {
	tests := []struct {
		name   string
		points []Point2D
		want   Point2D
	}{
		{"empty", nil, Point2D{}},
		{"single", []Point2D{{X: 3, Y: 7}}, Point2D{X: 3, Y: 7}},
		{"square", []Point2D{{0, 0}, {2, 0}, {2, 2}, {0, 2}}, Point2D{X: 1, Y: 1}},
		{"weighted line", []Point2D{{0, 0}, {0, 0}, {3, 0}}, Point2D{X: 1, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Centroid(tt.points); !almostEqual(got, tt.want) {
				t.Errorf("Centroid = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBoundingBox(t *testing.T) {
	points := []Point2D{{X: 2, Y: 8}, {X: -1, Y: 3}, {X: 5, Y: 4}}
	box := BoundingBox(points)

	want := Rect{X: -1, Y: 3, Width: 6, Height: 5}
	if box != want {
		t.Fatalf("BoundingBox = %+v, want %+v", box, want)
	}

	for _, p := range points {
		if !box.Contains(p) {
			t.Errorf("bounding box %+v does not contain input point %+v", box, p)
		}
	}
	if c := box.Center(); !almostEqual(c, Point2D{X: 2, Y: 5.5}) {
		t.Errorf("Center = %+v, want {2 5.5}", c)
	}
}

func TestBoundingBoxEmpty(t *testing.T) {
	if box := BoundingBox(nil); box != (Rect{}) {
		t.Errorf("BoundingBox(nil) = %+v, want zero Rect", box)
	}
}

func TestRectContainsEdges(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	tests := []struct {
		name string
		p    Point2D
		want bool
	}{
		{"interior", Point2D{X: 5, Y: 5}, true},
		{"corner", Point2D{X: 0, Y: 0}, true},
		{"far corner", Point2D{X: 10, Y: 10}, true},
		{"outside x", Point2D{X: 10.01, Y: 5}, false},
		{"outside y", Point2D{X: 5, Y: -0.01}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}
