package wire

import (
	"fmt"

	"github.com/df07/mirror-raytracer/pkg/core"
	"github.com/df07/mirror-raytracer/pkg/geometry"
	"github.com/df07/mirror-raytracer/pkg/lights"
	"github.com/df07/mirror-raytracer/pkg/material"
	"github.com/df07/mirror-raytracer/pkg/scene"
)

// MaterialSnapshot is a tagged union over the kernel's concrete material
// types. Exactly one field is non-nil.
type MaterialSnapshot struct {
	Lambertian *LambertianSnapshot `cbor:"lambertian,omitempty"`
	Metal      *MetalSnapshot      `cbor:"metal,omitempty"`
	Dielectric *DielectricSnapshot `cbor:"dielectric,omitempty"`
	Emissive   *EmissiveSnapshot   `cbor:"emissive,omitempty"`
}

type LambertianSnapshot struct {
	Albedo core.Vec3 `cbor:"albedo"`
}

type MetalSnapshot struct {
	Albedo   core.Vec3 `cbor:"albedo"`
	Fuzzness float64   `cbor:"fuzzness"`
}

type DielectricSnapshot struct {
	RefractiveIndex float64 `cbor:"refractiveIndex"`
}

type EmissiveSnapshot struct {
	Emission core.Vec3 `cbor:"emission"`
}

// snapshotMaterial converts a kernel material to its wire form.
func snapshotMaterial(m core.Material) (MaterialSnapshot, error) {
	switch mat := m.(type) {
	case *material.Lambertian:
		return MaterialSnapshot{Lambertian: &LambertianSnapshot{Albedo: mat.Albedo}}, nil
	case *material.Metal:
		return MaterialSnapshot{Metal: &MetalSnapshot{Albedo: mat.Albedo, Fuzzness: mat.Fuzzness}}, nil
	case *material.Dielectric:
		return MaterialSnapshot{Dielectric: &DielectricSnapshot{RefractiveIndex: mat.RefractiveIndex}}, nil
	case *material.Emissive:
		return MaterialSnapshot{Emissive: &EmissiveSnapshot{Emission: mat.Emission}}, nil
	default:
		return MaterialSnapshot{}, fmt.Errorf("wire: unsupported material type %T", m)
	}
}

func (m MaterialSnapshot) toMaterial() (core.Material, error) {
	switch {
	case m.Lambertian != nil:
		return material.NewLambertian(m.Lambertian.Albedo), nil
	case m.Metal != nil:
		return material.NewMetal(m.Metal.Albedo, m.Metal.Fuzzness), nil
	case m.Dielectric != nil:
		return material.NewDielectric(m.Dielectric.RefractiveIndex), nil
	case m.Emissive != nil:
		return material.NewEmissive(m.Emissive.Emission), nil
	default:
		return nil, fmt.Errorf("wire: empty material snapshot")
	}
}

// ShapeSnapshot is a tagged union over the kernel's concrete shape types that
// are not owned by a light (light-owned shapes travel inside their
// LightSnapshot instead, see lightShapeSet in ToSnapshot).
type ShapeSnapshot struct {
	Sphere *SphereSnapshot `cbor:"sphere,omitempty"`
	Quad   *QuadSnapshot   `cbor:"quad,omitempty"`
	Disc   *DiscSnapshot   `cbor:"disc,omitempty"`
	Plane  *PlaneSnapshot  `cbor:"plane,omitempty"`
}

type SphereSnapshot struct {
	Center   core.Vec3        `cbor:"center"`
	Radius   float64          `cbor:"radius"`
	Material MaterialSnapshot `cbor:"material"`
}

type QuadSnapshot struct {
	Corner   core.Vec3        `cbor:"corner"`
	U        core.Vec3        `cbor:"u"`
	V        core.Vec3        `cbor:"v"`
	Material MaterialSnapshot `cbor:"material"`
}

type DiscSnapshot struct {
	Center   core.Vec3        `cbor:"center"`
	Normal   core.Vec3        `cbor:"normal"`
	Radius   float64          `cbor:"radius"`
	Material MaterialSnapshot `cbor:"material"`
}

type PlaneSnapshot struct {
	Point    core.Vec3        `cbor:"point"`
	Normal   core.Vec3        `cbor:"normal"`
	Material MaterialSnapshot `cbor:"material"`
}

func snapshotShape(s core.Shape) (ShapeSnapshot, error) {
	switch sh := s.(type) {
	case *geometry.Sphere:
		matSnap, err := snapshotMaterial(sh.Material)
		if err != nil {
			return ShapeSnapshot{}, err
		}
		return ShapeSnapshot{Sphere: &SphereSnapshot{Center: sh.Center, Radius: sh.Radius, Material: matSnap}}, nil
	case *geometry.Quad:
		matSnap, err := snapshotMaterial(sh.Material)
		if err != nil {
			return ShapeSnapshot{}, err
		}
		return ShapeSnapshot{Quad: &QuadSnapshot{Corner: sh.Corner, U: sh.U, V: sh.V, Material: matSnap}}, nil
	case *geometry.Disc:
		matSnap, err := snapshotMaterial(sh.Material)
		if err != nil {
			return ShapeSnapshot{}, err
		}
		return ShapeSnapshot{Disc: &DiscSnapshot{Center: sh.Center, Normal: sh.Normal, Radius: sh.Radius, Material: matSnap}}, nil
	case *geometry.Plane:
		matSnap, err := snapshotMaterial(sh.Material)
		if err != nil {
			return ShapeSnapshot{}, err
		}
		return ShapeSnapshot{Plane: &PlaneSnapshot{Point: sh.Point, Normal: sh.Normal, Material: matSnap}}, nil
	default:
		return ShapeSnapshot{}, fmt.Errorf("wire: unsupported shape type %T", s)
	}
}

func (s ShapeSnapshot) toShape() (core.Shape, error) {
	switch {
	case s.Sphere != nil:
		mat, err := s.Sphere.Material.toMaterial()
		if err != nil {
			return nil, err
		}
		return geometry.NewSphere(s.Sphere.Center, s.Sphere.Radius, mat), nil
	case s.Quad != nil:
		mat, err := s.Quad.Material.toMaterial()
		if err != nil {
			return nil, err
		}
		return geometry.NewQuad(s.Quad.Corner, s.Quad.U, s.Quad.V, mat), nil
	case s.Disc != nil:
		mat, err := s.Disc.Material.toMaterial()
		if err != nil {
			return nil, err
		}
		return geometry.NewDisc(s.Disc.Center, s.Disc.Normal, s.Disc.Radius, mat), nil
	case s.Plane != nil:
		mat, err := s.Plane.Material.toMaterial()
		if err != nil {
			return nil, err
		}
		return geometry.NewPlane(s.Plane.Point, s.Plane.Normal, mat), nil
	default:
		return nil, fmt.Errorf("wire: empty shape snapshot")
	}
}

// LightSnapshot is a tagged union over the kernel's concrete light types.
// SphereLight and QuadLight carry their own shape parameters rather than a
// ShapeSnapshot, since reconstruction goes through scene.Scene.AddSphereLight
// / AddQuadLight, which allocate the shape themselves.
type LightSnapshot struct {
	SphereLight    *SphereLightSnapshot    `cbor:"sphereLight,omitempty"`
	QuadLight      *QuadLightSnapshot      `cbor:"quadLight,omitempty"`
	UniformInfinite *UniformInfiniteSnapshot `cbor:"uniformInfinite,omitempty"`
	GradientInfinite *GradientInfiniteSnapshot `cbor:"gradientInfinite,omitempty"`
}

type SphereLightSnapshot struct {
	Center   core.Vec3 `cbor:"center"`
	Radius   float64   `cbor:"radius"`
	Emission core.Vec3 `cbor:"emission"`
}

type QuadLightSnapshot struct {
	Corner   core.Vec3 `cbor:"corner"`
	U        core.Vec3 `cbor:"u"`
	V        core.Vec3 `cbor:"v"`
	Emission core.Vec3 `cbor:"emission"`
}

type UniformInfiniteSnapshot struct {
	Emission core.Vec3 `cbor:"emission"`
}

type GradientInfiniteSnapshot struct {
	TopColor    core.Vec3 `cbor:"topColor"`
	BottomColor core.Vec3 `cbor:"bottomColor"`
}

// SceneSnapshot is the full wire-safe representation of a scene.Scene: enough
// to reconstruct an equivalent scene (camera, non-light shapes, lights,
// sampling config) on the receiving peer via FromSnapshot.
type SceneSnapshot struct {
	CameraConfig   geometry.CameraConfig `cbor:"cameraConfig"`
	TopColor       core.Vec3             `cbor:"topColor"`
	BottomColor    core.Vec3             `cbor:"bottomColor"`
	Shapes         []ShapeSnapshot       `cbor:"shapes"`
	Lights         []LightSnapshot       `cbor:"lights"`
	SamplesPerPixel int                  `cbor:"samplesPerPixel"`
	MaxDepth        int                  `cbor:"maxDepth"`
	RussianRouletteMinBounces int        `cbor:"russianRouletteMinBounces"`
}

// ToSnapshot converts a live scene to its wire-safe form. Shapes owned by a
// SphereLight or QuadLight (i.e. appended to s.Shapes as a side effect of
// AddSphereLight/AddQuadLight) are carried inside the light's own snapshot
// instead of being duplicated in Shapes.
func ToSnapshot(s *scene.Scene) (SceneSnapshot, error) {
	lightShapes := make(map[core.Shape]bool)

	var lightSnaps []LightSnapshot
	for _, l := range s.Lights {
		switch light := l.(type) {
		case *lights.SphereLight:
			lightShapes[core.Shape(light.Sphere)] = true
			emissive, ok := light.Sphere.Material.(*material.Emissive)
			if !ok {
				return SceneSnapshot{}, fmt.Errorf("wire: sphere light material is %T, want *material.Emissive", light.Sphere.Material)
			}
			lightSnaps = append(lightSnaps, LightSnapshot{SphereLight: &SphereLightSnapshot{
				Center: light.Sphere.Center, Radius: light.Sphere.Radius, Emission: emissive.Emission,
			}})
		case *lights.QuadLight:
			lightShapes[core.Shape(light.Quad)] = true
			emissive, ok := light.Quad.Material.(*material.Emissive)
			if !ok {
				return SceneSnapshot{}, fmt.Errorf("wire: quad light material is %T, want *material.Emissive", light.Quad.Material)
			}
			lightSnaps = append(lightSnaps, LightSnapshot{QuadLight: &QuadLightSnapshot{
				Corner: light.Quad.Corner, U: light.Quad.U, V: light.Quad.V, Emission: emissive.Emission,
			}})
		case *lights.UniformInfiniteLight:
			lightSnaps = append(lightSnaps, LightSnapshot{UniformInfinite: &UniformInfiniteSnapshot{Emission: light.Emission()}})
		case *lights.GradientInfiniteLight:
			lightSnaps = append(lightSnaps, LightSnapshot{GradientInfinite: &GradientInfiniteSnapshot{
				TopColor: light.TopColor(), BottomColor: light.BottomColor(),
			}})
		default:
			return SceneSnapshot{}, fmt.Errorf("wire: unsupported light type %T", l)
		}
	}

	var shapeSnaps []ShapeSnapshot
	for _, sh := range s.Shapes {
		if lightShapes[sh] {
			continue
		}
		snap, err := snapshotShape(sh)
		if err != nil {
			return SceneSnapshot{}, err
		}
		shapeSnaps = append(shapeSnaps, snap)
	}

	return SceneSnapshot{
		CameraConfig:              s.CameraConfig,
		TopColor:                  s.TopColor,
		BottomColor:               s.BottomColor,
		Shapes:                    shapeSnaps,
		Lights:                    lightSnaps,
		SamplesPerPixel:           s.SamplingConfig.SamplesPerPixel,
		MaxDepth:                  s.SamplingConfig.MaxDepth,
		RussianRouletteMinBounces: s.SamplingConfig.RussianRouletteMinBounces,
	}, nil
}

// FromSnapshot rebuilds a scene from its wire-safe form, including the BVH
// and a default light sampler (via scene.Scene.Preprocess).
func FromSnapshot(snap SceneSnapshot) (*scene.Scene, error) {
	s := &scene.Scene{
		Camera:      geometry.NewCamera(snap.CameraConfig),
		TopColor:    snap.TopColor,
		BottomColor: snap.BottomColor,
		CameraConfig: snap.CameraConfig,
		SamplingConfig: core.SamplingConfig{
			SamplesPerPixel:           snap.SamplesPerPixel,
			MaxDepth:                  snap.MaxDepth,
			RussianRouletteMinBounces: snap.RussianRouletteMinBounces,
		},
	}

	for _, shapeSnap := range snap.Shapes {
		sh, err := shapeSnap.toShape()
		if err != nil {
			return nil, err
		}
		s.Shapes = append(s.Shapes, sh)
	}

	for _, lightSnap := range snap.Lights {
		switch {
		case lightSnap.SphereLight != nil:
			sl := lightSnap.SphereLight
			s.AddSphereLight(sl.Center, sl.Radius, sl.Emission)
		case lightSnap.QuadLight != nil:
			ql := lightSnap.QuadLight
			s.AddQuadLight(ql.Corner, ql.U, ql.V, ql.Emission)
		case lightSnap.UniformInfinite != nil:
			s.AddUniformInfiniteLight(lightSnap.UniformInfinite.Emission)
		case lightSnap.GradientInfinite != nil:
			gi := lightSnap.GradientInfinite
			s.AddGradientInfiniteLight(gi.TopColor, gi.BottomColor)
		default:
			return nil, fmt.Errorf("wire: empty light snapshot")
		}
	}

	if err := s.Preprocess(); err != nil {
		return nil, fmt.Errorf("wire: preprocess reconstructed scene: %w", err)
	}

	return s, nil
}
