package render

import (
	"math"
	"testing"

	"github.com/df07/mirror-raytracer/pkg/core"
)

func TestFramebuffer_SetClamps(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	fb.Set(0, 0, core.NewVec3(-1, 0.5, 2))

	got := fb.Get(0, 0)
	want := core.NewVec3(0, 0.5, 1)
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestFramebuffer_ClearResetsSampleCount(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fb.AddSamples(10)
	fb.Clear(core.NewVec3(0.2, 0.2, 0.2))

	if fb.SampleCount() != 0 {
		t.Errorf("Clear should reset TimesSampled, got %d", fb.SampleCount())
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := fb.Get(x, y); got != core.NewVec3(0.2, 0.2, 0.2) {
				t.Errorf("pixel (%d,%d) = %+v, want (0.2,0.2,0.2)", x, y, got)
			}
		}
	}
}

func TestWeightedMerge(t *testing.T) {
	merge := WeightedMerge(3, 1)
	current := core.NewVec3(1, 1, 1)
	new := core.NewVec3(0, 0, 0)

	got := merge(current, new)
	want := core.NewVec3(0.75, 0.75, 0.75)
	const eps = 1e-9
	if math.Abs(got.X-want.X) > eps || math.Abs(got.Y-want.Y) > eps || math.Abs(got.Z-want.Z) > eps {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestFramebuffer_InsertTileBy_ExactlyOnce(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	tile := NewTile(Point{X: 1, Y: 1}, Point{X: 2, Y: 2})
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			tile.Set(x, y, core.NewVec3(1, 1, 1))
		}
	}

	fb.InsertTileBy(tile, Point{X: 1, Y: 1}, WeightedMerge(0, 1))

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			inTile := x >= 1 && x < 3 && y >= 1 && y < 3
			got := fb.Get(x, y)
			if inTile {
				if got != core.NewVec3(1, 1, 1) {
					t.Errorf("pixel (%d,%d) should be spliced to (1,1,1), got %+v", x, y, got)
				}
			} else if got != (core.Vec3{}) {
				t.Errorf("pixel (%d,%d) outside tile should be untouched, got %+v", x, y, got)
			}
		}
	}
}
