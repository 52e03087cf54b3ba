package core

import (
	"math"
	"math/rand"
)

// RandSampler adapts a *rand.Rand to the Sampler interface. Each kernel
// worker owns one: *rand.Rand is not safe for concurrent use, so no
// RandSampler may be shared across goroutines.
type RandSampler struct {
	Rand *rand.Rand
}

// NewRandSampler seeds a fresh sampler. Callers that need reproducible
// renders (e.g. tests comparing local vs. remote output) should derive seeds
// deterministically from tile coordinates rather than wall-clock time.
func NewRandSampler(seed int64) *RandSampler {
	return &RandSampler{Rand: rand.New(rand.NewSource(seed))}
}

func (s *RandSampler) Get1D() float64 {
	return s.Rand.Float64()
}

func (s *RandSampler) Get2D() Vec2 {
	return Vec2{X: s.Rand.Float64(), Y: s.Rand.Float64()}
}

func (s *RandSampler) Get3D() Vec3 {
	return Vec3{X: s.Rand.Float64(), Y: s.Rand.Float64(), Z: s.Rand.Float64()}
}

// RandomCosineDirection returns a cosine-weighted random direction in the
// hemisphere around normal, using the two uniform variates in u.
func RandomCosineDirection(normal Vec3, u Vec2) Vec3 {
	r := math.Sqrt(u.X)
	theta := 2 * math.Pi * u.Y

	x := r * math.Cos(theta)
	y := r * math.Sin(theta)
	z := math.Sqrt(math.Max(0, 1-u.X))

	w := normal
	var a Vec3
	if math.Abs(w.X) > 0.9 {
		a = Vec3{X: 0, Y: 1, Z: 0}
	} else {
		a = Vec3{X: 1, Y: 0, Z: 0}
	}
	v := w.Cross(a).Normalize()
	uAxis := w.Cross(v)

	return uAxis.Multiply(x).Add(v.Multiply(y)).Add(w.Multiply(z)).Normalize()
}

// RandomInUnitSphere returns a uniformly distributed point inside the unit
// sphere, used to fuzz specular reflections.
func RandomInUnitSphere(u Vec3) Vec3 {
	z := 1 - 2*u.X
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * u.Y
	radius := math.Cbrt(u.Z)

	return Vec3{X: radius * r * math.Cos(phi), Y: radius * r * math.Sin(phi), Z: radius * z}
}
