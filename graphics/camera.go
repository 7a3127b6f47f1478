package graphics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera holds the per-window view state a scene is rendered with.
type Camera struct {
	Position mgl32.Vec3
	Front    mgl32.Vec3
	Up       mgl32.Vec3

	// Fovy is the vertical field of view in degrees.
	Fovy float32
	Near float32
	Far  float32

	// Ortho switches to an orthographic projection whose vertical extent is
	// OrthoHeight world units.
	Ortho       bool
	OrthoHeight float32
}

// NewCamera returns a perspective camera at position looking along direction.
func NewCamera(position, direction mgl32.Vec3) *Camera {
	return &Camera{
		Position:    position,
		Front:       direction.Normalize(),
		Up:          mgl32.Vec3{0, 1, 0},
		Fovy:        45,
		Near:        0.1,
		Far:         100,
		OrthoHeight: 2,
	}
}

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

// Projection returns the projection matrix for a target of the given aspect
// ratio (width / height).
func (c *Camera) Projection(aspect float32) mgl32.Mat4 {
	if c.Ortho {
		h := c.OrthoHeight / 2
		w := h * aspect
		return mgl32.Ortho(-w, w, -h, h, c.Near, c.Far)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.Fovy), aspect, c.Near, c.Far)
}

// Pan moves the camera in its own right/up plane.
func (c *Camera) Pan(dx, dy float32) {
	right := c.Front.Cross(c.Up).Normalize()
	up := right.Cross(c.Front).Normalize()
	c.Position = c.Position.Add(right.Mul(dx)).Add(up.Mul(dy))
}
