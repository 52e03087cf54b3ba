package scene

import (
	"github.com/df07/mirror-raytracer/pkg/core"
	"github.com/df07/mirror-raytracer/pkg/geometry"
	"github.com/df07/mirror-raytracer/pkg/lights"
	"github.com/df07/mirror-raytracer/pkg/material"
)

// Preprocessor is implemented by lights and shapes that need to know the
// scene's finite bounds (e.g. infinite lights, which need a world radius to
// report a meaningful emission PDF) before rendering starts.
type Preprocessor interface {
	Preprocess(worldCenter core.Vec3, worldRadius float64) error
}

// Scene contains all the elements needed for rendering and implements
// core.Scene, the kernel's read-only view of what to render.
type Scene struct {
	Camera         core.Camera
	TopColor       core.Vec3
	BottomColor    core.Vec3
	Shapes         []core.Shape
	Lights         []core.Light
	LightSampler   core.LightSampler
	SamplingConfig core.SamplingConfig
	CameraConfig   geometry.CameraConfig
	BVH            *core.BVH
}

func (s *Scene) GetCamera() core.Camera                      { return s.Camera }
func (s *Scene) GetShapes() []core.Shape                     { return s.Shapes }
func (s *Scene) GetLights() []core.Light                     { return s.Lights }
func (s *Scene) GetBVH() *core.BVH                           { return s.BVH }
func (s *Scene) GetLightSampler() core.LightSampler          { return s.LightSampler }
func (s *Scene) GetSamplingConfig() core.SamplingConfig      { return s.SamplingConfig }
func (s *Scene) GetBackgroundColors() (core.Vec3, core.Vec3) { return s.TopColor, s.BottomColor }

// NewGroundQuad creates a large quad to replace infinite ground planes.
// Creates a horizontal quad centered at the given point with normal pointing up (0,1,0).
func NewGroundQuad(center core.Vec3, size float64, mat core.Material) *geometry.Quad {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	u := core.NewVec3(size, 0, 0)
	v := core.NewVec3(0, 0, size)
	return geometry.NewQuad(corner, u, v, mat)
}

// Preprocess prepares the scene for rendering: builds the BVH, lets lights
// and shapes that implement Preprocessor learn the scene's finite bounds,
// and (if none was set explicitly) creates a uniform light sampler.
func (s *Scene) Preprocess() error {
	s.BVH = core.NewBVH(s.Shapes)

	for _, light := range s.Lights {
		if preprocessor, ok := light.(Preprocessor); ok {
			if err := preprocessor.Preprocess(s.BVH.FiniteWorldCenter, s.BVH.FiniteWorldRadius); err != nil {
				return err
			}
		}
	}

	if s.LightSampler == nil {
		s.LightSampler = core.NewUniformLightSampler(s.Lights, s.BVH.FiniteWorldRadius)
	}

	for _, shape := range s.Shapes {
		if preprocessor, ok := shape.(Preprocessor); ok {
			if err := preprocessor.Preprocess(s.BVH.FiniteWorldCenter, s.BVH.FiniteWorldRadius); err != nil {
				return err
			}
		}
	}

	return nil
}

// AddSphereLight adds a spherical light to the scene
func (s *Scene) AddSphereLight(center core.Vec3, radius float64, emission core.Vec3) {
	emissiveMat := material.NewEmissive(emission)
	sphereLight := lights.NewSphereLight(center, radius, emissiveMat)
	s.Lights = append(s.Lights, sphereLight)
	s.Shapes = append(s.Shapes, sphereLight.Sphere)
}

// AddQuadLight adds a rectangular area light to the scene
func (s *Scene) AddQuadLight(corner, u, v core.Vec3, emission core.Vec3) {
	emissiveMat := material.NewEmissive(emission)
	quadLight := lights.NewQuadLight(corner, u, v, emissiveMat)
	s.Lights = append(s.Lights, quadLight)
	s.Shapes = append(s.Shapes, quadLight.Quad)
}

// AddUniformInfiniteLight adds a uniform infinite light to the scene
func (s *Scene) AddUniformInfiniteLight(emission core.Vec3) {
	s.Lights = append(s.Lights, lights.NewUniformInfiniteLight(emission))
}

// AddGradientInfiniteLight adds a gradient infinite light to the scene
func (s *Scene) AddGradientInfiniteLight(topColor, bottomColor core.Vec3) {
	s.Lights = append(s.Lights, lights.NewGradientInfiniteLight(topColor, bottomColor))
}
