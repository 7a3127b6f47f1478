package graphics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestCameraViewMapsTargetOntoForwardAxis(t *testing.T) {
	cam := NewCamera(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -2})
	assert.True(t, cam.Front.ApproxEqual(mgl32.Vec3{0, 0, -1}))

	p := cam.View().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.True(t, p.Vec3().ApproxEqual(mgl32.Vec3{0, 0, -5}), "got %v", p)
}

func TestCameraPan(t *testing.T) {
	cam := NewCamera(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1})
	cam.Pan(1, 2)
	assert.True(t, cam.Position.ApproxEqual(mgl32.Vec3{1, 2, 5}), "got %v", cam.Position)
	assert.True(t, cam.Front.ApproxEqual(mgl32.Vec3{0, 0, -1}))
}

func TestCameraProjection(t *testing.T) {
	cam := NewCamera(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1})
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(45), 2, 0.1, 100), cam.Projection(2))

	cam.Ortho = true
	cam.OrthoHeight = 4
	assert.Equal(t, mgl32.Ortho(-4, 4, -2, 2, 0.1, 100), cam.Projection(2))
}
