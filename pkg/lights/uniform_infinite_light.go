package lights

import (
	"math"

	"github.com/df07/mirror-raytracer/pkg/core"
)

// uniformInfiniteLightMaterial implements uniform emission for infinite lights
type uniformInfiniteLightMaterial struct {
	emission core.Vec3
}

func (uilm *uniformInfiniteLightMaterial) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	return core.ScatterResult{}, false
}

func (uilm *uniformInfiniteLightMaterial) Emit(rayIn core.Ray) core.Vec3 {
	return uilm.emission
}

func (uilm *uniformInfiniteLightMaterial) EvaluateBRDF(incomingDir, outgoingDir, normal core.Vec3) core.Vec3 {
	return core.Vec3{}
}

func (uilm *uniformInfiniteLightMaterial) PDF(incomingDir, outgoingDir, normal core.Vec3) (float64, bool) {
	return 0.0, true
}

// UniformInfiniteLight is a constant-radiance environment light.
type UniformInfiniteLight struct {
	emission    core.Vec3
	worldCenter core.Vec3
	worldRadius float64
	material    core.Material
}

// NewUniformInfiniteLight creates a new uniform infinite light
func NewUniformInfiniteLight(emission core.Vec3) *UniformInfiniteLight {
	return &UniformInfiniteLight{
		emission: emission,
		material: &uniformInfiniteLightMaterial{emission: emission},
	}
}

func (uil *UniformInfiniteLight) Type() core.LightType {
	return core.LightTypeInfinite
}

// GetMaterial returns the material used for emission evaluation.
func (uil *UniformInfiniteLight) GetMaterial() core.Material {
	return uil.material
}

// Sample implements core.Light - cosine-weighted hemisphere sampling around normal.
func (uil *UniformInfiniteLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) core.LightSample {
	direction := core.RandomCosineDirection(normal, sample)
	cosTheta := direction.Dot(normal)

	return core.LightSample{
		Point:     point.Add(direction.Multiply(1e10)),
		Normal:    direction.Multiply(-1),
		Direction: direction,
		Distance:  math.Inf(1),
		Emission:  uil.emission,
		PDF:       cosTheta / math.Pi,
	}
}

// PDF implements core.Light.
func (uil *UniformInfiniteLight) PDF(point, normal, direction core.Vec3) float64 {
	cosTheta := direction.Dot(normal)
	if cosTheta <= 0 {
		return 0.0
	}
	return cosTheta / math.Pi
}

// Emit implements core.Light - same radiance from every direction.
func (uil *UniformInfiniteLight) Emit(ray core.Ray) core.Vec3 {
	return uil.emission
}

// Preprocess implements scene.Preprocessor, recording the finite scene bounds.
func (uil *UniformInfiniteLight) Preprocess(worldCenter core.Vec3, worldRadius float64) error {
	uil.worldCenter = worldCenter
	uil.worldRadius = worldRadius
	return nil
}

// Emission returns the constant radiance this light emits in every direction.
func (uil *UniformInfiniteLight) Emission() core.Vec3 {
	return uil.emission
}

// GradientInfiniteLight is a two-color sky gradient environment light, sampled
// the same way as UniformInfiniteLight but with direction-dependent emission.
type GradientInfiniteLight struct {
	topColor    core.Vec3
	bottomColor core.Vec3
}

// NewGradientInfiniteLight creates a new gradient sky light.
func NewGradientInfiniteLight(topColor, bottomColor core.Vec3) *GradientInfiniteLight {
	return &GradientInfiniteLight{topColor: topColor, bottomColor: bottomColor}
}

func (gil *GradientInfiniteLight) Type() core.LightType {
	return core.LightTypeInfinite
}

// TopColor returns the emission at the zenith.
func (gil *GradientInfiniteLight) TopColor() core.Vec3 { return gil.topColor }

// BottomColor returns the emission at the horizon/nadir.
func (gil *GradientInfiniteLight) BottomColor() core.Vec3 { return gil.bottomColor }

func (gil *GradientInfiniteLight) colorAt(direction core.Vec3) core.Vec3 {
	t := 0.5 * (direction.Normalize().Y + 1.0)
	return gil.bottomColor.Multiply(1.0 - t).Add(gil.topColor.Multiply(t))
}

func (gil *GradientInfiniteLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) core.LightSample {
	direction := core.RandomCosineDirection(normal, sample)
	cosTheta := direction.Dot(normal)

	return core.LightSample{
		Point:     point.Add(direction.Multiply(1e10)),
		Normal:    direction.Multiply(-1),
		Direction: direction,
		Distance:  math.Inf(1),
		Emission:  gil.colorAt(direction),
		PDF:       cosTheta / math.Pi,
	}
}

func (gil *GradientInfiniteLight) PDF(point, normal, direction core.Vec3) float64 {
	cosTheta := direction.Dot(normal)
	if cosTheta <= 0 {
		return 0.0
	}
	return cosTheta / math.Pi
}

func (gil *GradientInfiniteLight) Emit(ray core.Ray) core.Vec3 {
	return gil.colorAt(ray.Direction)
}
