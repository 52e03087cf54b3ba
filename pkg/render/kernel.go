package render

import "github.com/df07/mirror-raytracer/pkg/core"

// RenderTile is the path-tracing kernel's external contract: given a scene
// and a tile descriptor, produce pixel samples for that tile. For each pixel
// it fires samplesPerPixel jittered primary rays in normalized device
// coordinates derived from the pixel's position against imageSize, traces
// each through integrator.RayColor, and averages the radiances with weight
// 1/samplesPerPixel. Safe to call concurrently as long as each call owns its
// own sampler.
func RenderTile(scene core.Scene, integrator core.Integrator, samplesPerPixel int, beginPos, tileSize, imageSize Point, sampler core.Sampler) *Tile {
	tile := NewTile(beginPos, tileSize)
	camera := scene.GetCamera()

	for y := 0; y < tileSize.Y; y++ {
		for x := 0; x < tileSize.X; x++ {
			px := beginPos.X + x
			py := beginPos.Y + y

			var accum core.Vec3
			for s := 0; s < samplesPerPixel; s++ {
				jitter := sampler.Get2D()
				u := 2*(float64(px)+jitter.X)/float64(imageSize.X) - 1
				v := 1 - 2*(float64(py)+jitter.Y)/float64(imageSize.Y)

				ray := camera.CreateRay(u, v)
				accum = accum.Add(integrator.RayColor(ray, scene, sampler))
			}

			tile.Set(x, y, accum.Multiply(1.0/float64(samplesPerPixel)))
		}
	}

	return tile
}
