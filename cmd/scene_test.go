package main

import (
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/gosharedview/gpu/gputest"
	"github.com/richinsley/gosharedview/graphics"
)

func TestMarkerSceneUsesDriverViewport(t *testing.T) {
	d := gputest.NewDriver()
	gputest.NewContext(d, "host", 800, 600).MakeCurrent()
	d.Viewport(0, 0, 800, 600)
	d.Reset()

	newMarkerScene(d).Render(graphics.NewCamera(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}))

	fills := d.CallsOf("FillRect")
	require.Len(t, fills, 15)
	bounds := image.Rect(0, 0, 800, 600)
	var centre bool
	for _, f := range fills {
		rect := f.Args[0].(image.Rectangle)
		assert.True(t, rect.In(bounds), "%v outside viewport", rect)
		if f.Args[1] == [4]float32{0.5, 0.5, 0.6, 1} {
			centre = true
			assert.True(t, image.Pt(400, 300).In(rect), "origin marker at %v", rect)
		}
	}
	assert.True(t, centre, "origin marker not drawn")
	assert.Empty(t, d.Errors)
}

func TestMarkerSceneFollowsViewportPerContext(t *testing.T) {
	d := gputest.NewDriver()
	host := gputest.NewContext(d, "host", 800, 600)
	pres := gputest.NewContext(d, "presentation", 320, 240)
	host.MakeCurrent()
	d.Viewport(0, 0, 800, 600)
	pres.MakeCurrent()
	d.Viewport(0, 0, 320, 240)
	d.Reset()

	newMarkerScene(d).Render(graphics.NewCamera(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}))

	for _, f := range d.CallsOf("FillRect") {
		rect := f.Args[0].(image.Rectangle)
		assert.True(t, rect.In(image.Rect(0, 0, 320, 240)), "%v outside presentation viewport", rect)
	}
}

func TestMarkerSceneDrawsNothing(t *testing.T) {
	tests := []struct {
		name     string
		viewport image.Rectangle
		front    mgl32.Vec3
	}{
		{"ZeroViewport", image.Rectangle{}, mgl32.Vec3{0, 0, -1}},
		{"FacingAway", image.Rect(0, 0, 800, 600), mgl32.Vec3{0, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := gputest.NewDriver()
			gputest.NewContext(d, "host", 800, 600).MakeCurrent()
			d.Viewport(tt.viewport.Min.X, tt.viewport.Min.Y, tt.viewport.Dx(), tt.viewport.Dy())
			d.Reset()

			newMarkerScene(d).Render(graphics.NewCamera(mgl32.Vec3{0, 0, 5}, tt.front))

			assert.Empty(t, d.CallsOf("FillRect"))
		})
	}
}
