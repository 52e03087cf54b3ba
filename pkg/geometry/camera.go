package geometry

import (
	"math"

	"github.com/df07/mirror-raytracer/pkg/core"
)

// CameraConfig describes a pinhole/thin-lens camera in scene-definition terms.
// Zero-valued fields in an override are left at the base value by MergeCameraConfig.
type CameraConfig struct {
	Center        core.Vec3
	LookAt        core.Vec3
	Up            core.Vec3
	Width         int
	AspectRatio   float64
	VFov          float64 // vertical field of view, degrees
	Aperture      float64 // lens aperture diameter; 0 disables depth of field
	FocusDistance float64 // 0 auto-computes from Center/LookAt distance
}

// MergeCameraConfig overlays non-zero fields of override onto base.
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	merged := base
	if override.Center != (core.Vec3{}) {
		merged.Center = override.Center
	}
	if override.LookAt != (core.Vec3{}) {
		merged.LookAt = override.LookAt
	}
	if override.Up != (core.Vec3{}) {
		merged.Up = override.Up
	}
	if override.Width != 0 {
		merged.Width = override.Width
	}
	if override.AspectRatio != 0 {
		merged.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		merged.VFov = override.VFov
	}
	if override.Aperture != 0 {
		merged.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		merged.FocusDistance = override.FocusDistance
	}
	return merged
}

// Camera implements core.Camera: a thin-lens camera producing rays from
// normalized viewport coordinates in [-1, 1].
type Camera struct {
	config        CameraConfig
	origin        core.Vec3
	lowerLeft     core.Vec3
	horizontal    core.Vec3
	vertical      core.Vec3
	u, v, w       core.Vec3
	lensRadius    float64
	focusDistance float64
}

// NewCamera builds a Camera from a CameraConfig.
func NewCamera(config CameraConfig) *Camera {
	theta := config.VFov * math.Pi / 180.0
	h := math.Tan(theta / 2)
	viewportHeight := 2.0 * h
	viewportWidth := config.AspectRatio * viewportHeight

	focusDistance := config.FocusDistance
	if focusDistance <= 0 {
		focusDistance = config.LookAt.Subtract(config.Center).Length()
		if focusDistance <= 0 {
			focusDistance = 1.0
		}
	}

	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Multiply(viewportWidth * focusDistance)
	vertical := v.Multiply(viewportHeight * focusDistance)
	lowerLeft := config.Center.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDistance))

	return &Camera{
		config:        config,
		origin:        config.Center,
		lowerLeft:     lowerLeft,
		horizontal:    horizontal,
		vertical:      vertical,
		u:             u,
		v:             v,
		w:             w,
		lensRadius:    config.Aperture / 2.0,
		focusDistance: focusDistance,
	}
}

// CreateRay implements core.Camera. u, v are viewport coordinates in [-1, 1];
// this maps them into [0, 1] before tracing into the scene. Every ray starts
// at the camera origin: CreateRay applies no lens jitter, and the kernel's
// per-sample u, v jitter stays within the pixel, so Aperture does not blur
// rendered images.
func (c *Camera) CreateRay(u, v float64) core.Ray {
	s := (u + 1.0) / 2.0
	t := (v + 1.0) / 2.0

	target := c.lowerLeft.Add(c.horizontal.Multiply(s)).Add(c.vertical.Multiply(t))
	direction := target.Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}

// LensRadius reports the configured aperture radius (0 disables depth of field).
func (c *Camera) LensRadius() float64 { return c.lensRadius }

// Basis returns the camera's right (u) and up (v) axes, the axes of the lens
// disk. No code in this module samples the lens.
func (c *Camera) Basis() (u, v core.Vec3) { return c.u, c.v }
