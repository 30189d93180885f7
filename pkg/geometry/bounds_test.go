package geometry

import (
	"errors"
	"math/rand"
	"testing"
)

func TestCalculateBounds(t *testing.T) {
	points := []Vector3{
		NewVector3(1, 2, 3),
		NewVector3(4, 5, 6),
		NewVector3(-1, 0, 2),
	}

	bbox, err := CalculateBounds(points)
	if err != nil {
		t.Fatalf("CalculateBounds failed: %v", err)
	}

	expectedMin := NewVector3(-1, 0, 2)
	expectedMax := NewVector3(4, 5, 6)

	if bbox.Min != expectedMin {
		t.Errorf("Min failed: expected %v, got %v", expectedMin, bbox.Min)
	}
	if bbox.Max != expectedMax {
		t.Errorf("Max failed: expected %v, got %v", expectedMax, bbox.Max)
	}
}

func TestCalculateBoundsEmpty(t *testing.T) {
	_, err := CalculateBounds(nil)
	if !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("expected ErrEmptyMesh, got %v", err)
	}
}

func TestCalculateBoundsSinglePoint(t *testing.T) {
	p := NewVector3(7, -3, 2)
	bbox, err := CalculateBounds([]Vector3{p})
	if err != nil {
		t.Fatalf("CalculateBounds failed: %v", err)
	}
	if bbox.Min != p || bbox.Max != p {
		t.Errorf("expected degenerate box at %v, got %v", p, bbox)
	}
	if !bbox.Valid() {
		t.Error("degenerate box should be valid")
	}
}

func TestCalculateBoundsMinNotAboveMax(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 50; run++ {
		points := make([]Vector3, 1+rng.Intn(200))
		for i := range points {
			points[i] = NewVector3(
				rng.NormFloat64()*100,
				rng.NormFloat64()*0.01,
				rng.NormFloat64()*1e6,
			)
		}

		bbox, err := CalculateBounds(points)
		if err != nil {
			t.Fatalf("run %d: CalculateBounds failed: %v", run, err)
		}
		if !bbox.Valid() {
			t.Fatalf("run %d: min %v above max %v", run, bbox.Min, bbox.Max)
		}
		for _, p := range points {
			if p.X < bbox.Min.X || p.Y < bbox.Min.Y || p.Z < bbox.Min.Z ||
				p.X > bbox.Max.X || p.Y > bbox.Max.Y || p.Z > bbox.Max.Z {
				t.Fatalf("run %d: point %v outside %v", run, p, bbox)
			}
		}
	}
}

func TestBoundingBoxPad(t *testing.T) {
	bbox := BoundingBox{Min: NewVector3(0, 0, 0), Max: NewVector3(1, 2, 3)}

	padded := bbox.Pad(0.5)
	if padded.Min != NewVector3(-0.5, -0.5, -0.5) {
		t.Errorf("Pad min failed: got %v", padded.Min)
	}
	if padded.Max != NewVector3(1.5, 2.5, 3.5) {
		t.Errorf("Pad max failed: got %v", padded.Max)
	}
}

func TestBoundingBoxSizeAndCenter(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(10, 20, 30))

	if size := bbox.Size(); size != NewVector3(10, 20, 30) {
		t.Errorf("Size failed: got %v", size)
	}
	if center := bbox.Center(); center != NewVector3(5, 10, 15) {
		t.Errorf("Center failed: got %v", center)
	}
}
