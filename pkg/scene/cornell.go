package scene

import (
	"github.com/df07/mirror-raytracer/pkg/core"
	"github.com/df07/mirror-raytracer/pkg/geometry"
	"github.com/df07/mirror-raytracer/pkg/material"
)

// NewCornellScene creates a classic Cornell box scene with quad walls and area lighting
func NewCornellScene() *Scene {
	config := geometry.CameraConfig{
		Center:      core.NewVec3(278, 278, -800),
		LookAt:      core.NewVec3(278, 278, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 1.0,
		VFov:        40.0,
	}

	samplingConfig := core.SamplingConfig{
		SamplesPerPixel:           150,
		MaxDepth:                  40,
		RussianRouletteMinBounces: 4,
	}

	camera := geometry.NewCamera(config)

	s := &Scene{
		Camera:         camera,
		TopColor:       core.NewVec3(0, 0, 0),
		BottomColor:    core.NewVec3(0, 0, 0),
		Shapes:         make([]core.Shape, 0),
		Lights:         make([]core.Light, 0),
		SamplingConfig: samplingConfig,
		CameraConfig:   config,
	}

	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))

	boxSize := 555.0

	floor := geometry.NewQuad(
		core.NewVec3(0, 0, 0),
		core.NewVec3(boxSize, 0, 0),
		core.NewVec3(0, 0, boxSize),
		white,
	)
	ceiling := geometry.NewQuad(
		core.NewVec3(0, boxSize, 0),
		core.NewVec3(boxSize, 0, 0),
		core.NewVec3(0, 0, boxSize),
		white,
	)
	backWall := geometry.NewQuad(
		core.NewVec3(0, 0, boxSize),
		core.NewVec3(boxSize, 0, 0),
		core.NewVec3(0, boxSize, 0),
		white,
	)
	leftWall := geometry.NewQuad(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 0, boxSize),
		core.NewVec3(0, boxSize, 0),
		red,
	)
	rightWall := geometry.NewQuad(
		core.NewVec3(boxSize, 0, 0),
		core.NewVec3(0, boxSize, 0),
		core.NewVec3(0, 0, boxSize),
		green,
	)

	s.Shapes = append(s.Shapes, floor, ceiling, backWall, leftWall, rightWall)

	lightSize := 130.0
	lightOffset := (boxSize - lightSize) / 2.0
	s.AddQuadLight(
		core.NewVec3(lightOffset, boxSize-1, lightOffset),
		core.NewVec3(lightSize, 0, 0),
		core.NewVec3(0, 0, lightSize),
		core.NewVec3(15.0, 15.0, 15.0),
	)

	leftSphere := geometry.NewSphere(
		core.NewVec3(185, 82.5, 169),
		82.5,
		material.NewMetal(core.NewVec3(0.8, 0.8, 0.9), 0.0),
	)
	rightSphere := geometry.NewSphere(
		core.NewVec3(370, 90, 351),
		90,
		material.NewDielectric(1.5),
	)

	s.Shapes = append(s.Shapes, leftSphere, rightSphere)

	return s
}
