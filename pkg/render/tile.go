// Package render holds the distributed core's view of an image: tiles of
// pixels produced by the kernel, and the accumulated framebuffer they splice
// into.
package render

import "github.com/df07/mirror-raytracer/pkg/core"

// Point is an integer 2D position or extent (pixel coordinates, tile sizes).
type Point struct {
	X, Y int
}

// Tile is a small rectangular block of pixels produced by a single worker for
// a single TileRenderWork. Consumed once by the accumulator's splice step.
type Tile struct {
	BeginPos Point
	Size     Point
	Pixels   []core.Vec3 // row-major, len == Size.X*Size.Y
}

// NewTile allocates a tile of the given size at beginPos, zero-filled.
func NewTile(beginPos, size Point) *Tile {
	return &Tile{
		BeginPos: beginPos,
		Size:     size,
		Pixels:   make([]core.Vec3, size.X*size.Y),
	}
}

// Get returns the pixel at local tile coordinates (x, y).
func (t *Tile) Get(x, y int) core.Vec3 {
	return t.Pixels[y*t.Size.X+x]
}

// Set writes the pixel at local tile coordinates (x, y).
func (t *Tile) Set(x, y int, c core.Vec3) {
	t.Pixels[y*t.Size.X+x] = c
}

// TileRenderWork is the descriptor placed on the scheduler's work channel: a
// begin position and a tile size, immutable once enqueued.
type TileRenderWork struct {
	BeginPos Point
	TileSize Point
}

// MaxTileSize is the largest edge a tile may have; border tiles are
// truncated to fit the image exactly.
const MaxTileSize = 64

// PartitionTiles splits an image of the given size into MaxTileSize×MaxTileSize
// tiles (border tiles truncated), covering [0,imageSize.X)×[0,imageSize.Y)
// exactly once.
func PartitionTiles(imageSize Point) []TileRenderWork {
	numTilesX := ceilDiv(imageSize.X, MaxTileSize)
	numTilesY := ceilDiv(imageSize.Y, MaxTileSize)

	tiles := make([]TileRenderWork, 0, numTilesX*numTilesY)
	for ty := 0; ty < numTilesY; ty++ {
		beginY := ty * MaxTileSize
		height := min(MaxTileSize, imageSize.Y-beginY)
		for tx := 0; tx < numTilesX; tx++ {
			beginX := tx * MaxTileSize
			width := min(MaxTileSize, imageSize.X-beginX)
			tiles = append(tiles, TileRenderWork{
				BeginPos: Point{X: beginX, Y: beginY},
				TileSize: Point{X: width, Y: height},
			})
		}
	}
	return tiles
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
