package main

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/richinsley/gosharedview/gpu"
	"github.com/richinsley/gosharedview/graphics"
)

type marker struct {
	pos   mgl32.Vec3
	color [4]float32
}

// markerScene draws a grid of solid squares at fixed world positions, so the
// two windows visibly differ when their cameras do.
type markerScene struct {
	driver  gpu.Driver
	markers []marker
	// half-size of a marker in pixels at unit distance
	size float32
}

func newMarkerScene(driver gpu.Driver) *markerScene {
	s := &markerScene{driver: driver, size: 40}
	for x := -2; x <= 2; x++ {
		for y := -1; y <= 1; y++ {
			s.markers = append(s.markers, marker{
				pos:   mgl32.Vec3{float32(x), float32(y), 0},
				color: [4]float32{float32(x+2) / 4, float32(y+1) / 2, 0.6, 1},
			})
		}
	}
	return s
}

func (s *markerScene) Render(camera *graphics.Camera) {
	vp := s.driver.CurrentViewport()
	if vp.Empty() {
		return
	}

	view := camera.View()
	proj := camera.Projection(float32(vp.Dx()) / float32(vp.Dy()))
	for _, m := range s.markers {
		eye := view.Mul4x1(m.pos.Vec4(1))
		if -eye.Z() < camera.Near {
			continue
		}
		win := mgl32.Project(m.pos, view, proj, vp.Min.X, vp.Min.Y, vp.Dx(), vp.Dy())
		half := int(s.size / -eye.Z())
		center := image.Pt(int(win.X()), int(win.Y()))
		rect := image.Rectangle{Min: center.Sub(image.Pt(half, half)), Max: center.Add(image.Pt(half, half))}
		rect = rect.Intersect(vp)
		if rect.Empty() {
			continue
		}
		s.driver.FillRect(rect, m.color[0], m.color[1], m.color[2], m.color[3])
	}
}
