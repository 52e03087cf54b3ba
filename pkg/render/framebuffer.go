package render

import (
	"math"
	"sync"

	"github.com/df07/mirror-raytracer/pkg/core"
)

// Framebuffer is the progressive accumulator: a W×H grid of linear-luminance
// pixels plus a shared sample count. Multiple readers, single writer; tile
// splices require the write lock.
type Framebuffer struct {
	mu           sync.RWMutex
	width        int
	height       int
	pixels       []core.Vec3
	TimesSampled int
}

// NewFramebuffer allocates a zeroed framebuffer of the given size.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		width:  width,
		height: height,
		pixels: make([]core.Vec3, width*height),
	}
}

// Size returns the framebuffer's (width, height) under a read lock.
func (fb *Framebuffer) Size() Point {
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	return Point{X: fb.width, Y: fb.height}
}

// SampleCount returns TimesSampled under a read lock.
func (fb *Framebuffer) SampleCount() int {
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	return fb.TimesSampled
}

// AddSamples records that n additional samples were merged into every pixel
// of a completed progressive pass.
func (fb *Framebuffer) AddSamples(n int) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.TimesSampled += n
}

// Get returns the pixel at (x, y).
func (fb *Framebuffer) Get(x, y int) core.Vec3 {
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	return fb.pixels[y*fb.width+x]
}

// Set writes the pixel at (x, y), clamping each channel to [0, 1].
func (fb *Framebuffer) Set(x, y int, c core.Vec3) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.setLocked(x, y, c)
}

func (fb *Framebuffer) setLocked(x, y int, c core.Vec3) {
	fb.pixels[y*fb.width+x] = core.Vec3{
		X: clamp01(c.X),
		Y: clamp01(c.Y),
		Z: clamp01(c.Z),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Resize reallocates the framebuffer to a new size and resets TimesSampled.
func (fb *Framebuffer) Resize(width, height int) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.width = width
	fb.height = height
	fb.pixels = make([]core.Vec3, width*height)
	fb.TimesSampled = 0
}

// Clear fills every pixel with c and resets TimesSampled to 0.
func (fb *Framebuffer) Clear(c core.Vec3) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for i := range fb.pixels {
		fb.pixels[i] = c
	}
	fb.TimesSampled = 0
}

// MergeFunc combines a framebuffer's current pixel with a tile's new pixel.
type MergeFunc func(current, new core.Vec3) core.Vec3

// WeightedMerge builds the progressive-accumulation merge for a render of
// newSamples samples against a framebuffer that already holds priorSamples:
// out = current*P/(P+N) + new*N/(P+N).
func WeightedMerge(priorSamples, newSamples int) MergeFunc {
	total := priorSamples + newSamples
	if total == 0 {
		return func(current, new core.Vec3) core.Vec3 { return new }
	}
	priorWeight := float64(priorSamples) / float64(total)
	newWeight := float64(newSamples) / float64(total)
	return func(current, new core.Vec3) core.Vec3 {
		return current.Multiply(priorWeight).Add(new.Multiply(newWeight))
	}
}

// InsertTileBy splices tile into the framebuffer at pos, combining every
// overlapping pixel with f. Requires the write lock for the whole splice.
func (fb *Framebuffer) InsertTileBy(tile *Tile, pos Point, f MergeFunc) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for ty := 0; ty < tile.Size.Y; ty++ {
		for tx := 0; tx < tile.Size.X; tx++ {
			x, y := pos.X+tx, pos.Y+ty
			current := fb.pixels[y*fb.width+x]
			fb.setLocked(x, y, f(current, tile.Get(tx, ty)))
		}
	}
}

// ToBytes gamma-corrects (v -> sqrt(max(v,0))) and quantizes every channel of
// every pixel to [0,255], row-major RGB triples.
func (fb *Framebuffer) ToBytes() []byte {
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	out := make([]byte, 0, len(fb.pixels)*3)
	toByte := func(v float64) byte {
		g := math.Sqrt(math.Max(v, 0))
		if g > 1 {
			g = 1
		}
		return byte(g * 255)
	}
	for _, p := range fb.pixels {
		out = append(out, toByte(p.X), toByte(p.Y), toByte(p.Z))
	}
	return out
}
