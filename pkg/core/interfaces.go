package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// Sampler supplies the random numbers the kernel needs to jitter primary rays
// and drive Monte-Carlo scattering decisions. A sampler is owned by exactly
// one worker goroutine and must never be shared across goroutines.
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// SamplingConfig controls how many samples a render takes and where
// Russian-roulette path termination kicks in.
type SamplingConfig struct {
	SamplesPerPixel           int
	MaxDepth                  int
	RussianRouletteMinBounces int
}

// HitRecord describes a ray/shape intersection.
type HitRecord struct {
	Point     Vec3
	Normal    Vec3
	T         float64
	FrontFace bool
	Material  Material
}

// SetFaceNormal orients Normal to always point against the incoming ray and
// records which face was hit.
func (h *HitRecord) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// Shape is anything the BVH can intersect.
type Shape interface {
	Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool)
	BoundingBox() AABB
}

// ScatterResult is what a Material produces when a ray bounces off a surface.
type ScatterResult struct {
	Incoming    Ray
	Scattered   Ray
	Attenuation Vec3
	PDF         float64 // 0 for specular (delta) scattering
}

// IsSpecular reports whether this scatter event has no associated PDF.
func (s ScatterResult) IsSpecular() bool {
	return s.PDF <= 0
}

// Material decides how light scatters at a surface.
type Material interface {
	Scatter(rayIn Ray, hit HitRecord, sampler Sampler) (ScatterResult, bool)
	EvaluateBRDF(incomingDir, outgoingDir, normal Vec3) Vec3
	// PDF returns the probability density for outgoingDir and whether this
	// material is a delta (specular) distribution.
	PDF(incomingDir, outgoingDir, normal Vec3) (pdf float64, isDelta bool)
}

// Emitter is implemented by materials that radiate light.
type Emitter interface {
	Emit(rayIn Ray) Vec3
}

// LightType classifies a Light for diagnostics and sampler weighting.
type LightType string

const (
	LightTypeArea     LightType = "area"
	LightTypeInfinite LightType = "infinite"
)

// LightSample is a single sampled direction toward a light, used for
// next-event-estimation (direct lighting).
type LightSample struct {
	Point     Vec3
	Normal    Vec3
	Direction Vec3 // from the shading point toward the light
	Distance  float64
	Emission  Vec3
	PDF       float64
}

// Light is a scene light that can be sampled for direct illumination and
// queried for emission along an arbitrary ray (infinite lights / area lights
// hit directly by a camera ray).
type Light interface {
	Type() LightType
	Sample(point Vec3, normal Vec3, sample Vec2) LightSample
	PDF(point Vec3, normal Vec3, direction Vec3) float64
	Emit(ray Ray) Vec3
}

// LightSampler picks which light to next-event-estimate against.
type LightSampler interface {
	SampleLight(point Vec3, normal Vec3, u float64) (Light, float64, int)
	GetLightProbability(lightIndex int, point Vec3, normal Vec3) float64
	GetLightCount() int
}

// Camera turns a normalized-device-coordinate sample into a world-space ray.
// Implementations live in package geometry; the interface lives here so
// Scene can expose a camera without an import cycle.
type Camera interface {
	// CreateRay produces a ray for viewport coordinates u, v in [-1, 1].
	CreateRay(u, v float64) Ray
}

// Scene is the external collaborator the kernel renders against. It bundles
// everything needed to trace a tile: the camera, the accelerated shape set,
// the lights, and the background radiance. Scenes are immutable once built
// and are shared read-only across every worker tracing a render.
type Scene interface {
	GetCamera() Camera
	GetShapes() []Shape
	GetLights() []Light
	GetBVH() *BVH
	GetLightSampler() LightSampler
	GetSamplingConfig() SamplingConfig
	GetBackgroundColors() (top, bottom Vec3)
}

// Integrator computes the radiance arriving along a camera ray.
type Integrator interface {
	RayColor(ray Ray, scene Scene, sampler Sampler) Vec3
}
