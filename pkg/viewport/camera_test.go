package viewport

import (
	"math"
	"testing"

	"github.com/structhealth/twinview/pkg/geometry"
)

func testBounds() geometry.BoundingBox {
	return geometry.BoundingBox{
		Min: geometry.NewVector3(-7, 0, -10.5),
		Max: geometry.NewVector3(7, 8.8, 10.5),
	}
}

func TestNewCameraFramesBounds(t *testing.T) {
	cam := NewCamera(testBounds())

	if cam.Target != testBounds().Center() {
		t.Errorf("Target failed: expected %v, got %v", testBounds().Center(), cam.Target)
	}
	dist := cam.Distance()
	if dist < cam.MinDistance || dist > cam.MaxDistance {
		t.Errorf("Initial distance %v outside [%v, %v]", dist, cam.MinDistance, cam.MaxDistance)
	}
	if cam.Position.Y < cam.MinHeight || cam.Position.Y > cam.MaxHeight {
		t.Errorf("Initial height %v outside [%v, %v]", cam.Position.Y, cam.MinHeight, cam.MaxHeight)
	}
}

func TestProjectTargetCentered(t *testing.T) {
	cam := NewCamera(testBounds())

	x, y, depth := cam.Project(cam.Target, 800, 600)
	if math.Abs(x-400) > 1e-9 || math.Abs(y-300) > 1e-9 {
		t.Errorf("Target projection failed: expected (400, 300), got (%v, %v)", x, y)
	}
	if depth <= nearPlane {
		t.Errorf("Target depth failed: expected positive, got %v", depth)
	}
}

func TestProjectBehindCamera(t *testing.T) {
	cam := NewCamera(testBounds())

	// A point past the camera, away from the target.
	behind := cam.Position.Add(cam.Position.Sub(cam.Target).Normalize().Mul(5))
	_, _, depth := cam.Project(behind, 800, 600)
	if depth > nearPlane {
		t.Errorf("Behind-camera depth failed: expected <= %v, got %v", nearPlane, depth)
	}
}

func TestUnprojectRoundTrip(t *testing.T) {
	cam := NewCamera(testBounds())

	points := []geometry.Vector3{
		cam.Target,
		geometry.NewVector3(3, 4, -2),
		geometry.NewVector3(-6, 1, 8),
	}
	for _, p := range points {
		x, y, depth := cam.Project(p, 800, 600)
		if depth <= nearPlane {
			t.Fatalf("Test point %v projects behind the camera", p)
		}
		ray := cam.Unproject(x, y, 800, 600)
		if dist := ray.DistanceToPoint(p); dist > 1e-9 {
			t.Errorf("Round trip failed for %v: ray misses by %v", p, dist)
		}
	}
}

func TestOrbitPreservesRadius(t *testing.T) {
	cam := NewCamera(testBounds())
	before := cam.Distance()
	azimuthBefore := cam.Spherical().Azimuth

	cam.OrbitBy(0.3)

	if math.Abs(cam.Distance()-before) > 1e-9 {
		t.Errorf("Orbit changed distance: expected %v, got %v", before, cam.Distance())
	}
	if cam.Target != testBounds().Center() {
		t.Error("Orbit moved the target")
	}
	got := cam.Spherical().Azimuth
	if math.Abs(got-(azimuthBefore+0.3)) > 1e-9 {
		t.Errorf("Azimuth failed: expected %v, got %v", azimuthBefore+0.3, got)
	}
}

func TestLiftClampsToBand(t *testing.T) {
	cam := NewCamera(testBounds())

	cam.Lift(1e9)
	if cam.Position.Y != cam.MaxHeight {
		t.Errorf("Lift max clamp failed: expected %v, got %v", cam.MaxHeight, cam.Position.Y)
	}
	cam.Lift(-1e9)
	if cam.Position.Y != cam.MinHeight {
		t.Errorf("Lift min clamp failed: expected %v, got %v", cam.MinHeight, cam.Position.Y)
	}
}

func TestZoomClampsToBand(t *testing.T) {
	cam := NewCamera(testBounds())

	cam.ZoomBy(1e-9)
	if math.Abs(cam.Distance()-cam.MinDistance) > 1e-9 {
		t.Errorf("Zoom min clamp failed: expected %v, got %v", cam.MinDistance, cam.Distance())
	}
	cam.ZoomBy(1e9)
	if math.Abs(cam.Distance()-cam.MaxDistance) > 1e-9 {
		t.Errorf("Zoom max clamp failed: expected %v, got %v", cam.MaxDistance, cam.Distance())
	}
}

func TestResetRestoresHome(t *testing.T) {
	cam := NewCamera(testBounds())
	home := cam.Position

	cam.OrbitBy(1.1)
	cam.Lift(2)
	cam.ZoomBy(0.5)
	cam.Reset()

	if cam.Position != home {
		t.Errorf("Reset failed: expected %v, got %v", home, cam.Position)
	}
	if cam.Target != testBounds().Center() {
		t.Errorf("Reset target failed: expected %v, got %v", testBounds().Center(), cam.Target)
	}
}
