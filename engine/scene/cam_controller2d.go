package scene

import (
	"github.com/chewxy/math32"

	"github.com/hubastard/glint/engine/core"
)

// CameraController2D drives a camera from input: WASD pans, the wheel zooms.
type CameraController2D struct {
	Camera    *Camera2D
	PanSpeed  float32 // points per second at zoom 1
	ZoomSpeed float32 // zoom factor per wheel notch
}

func NewCameraController2D(cam *Camera2D) *CameraController2D {
	return &CameraController2D{Camera: cam, PanSpeed: 300, ZoomSpeed: 1.1}
}

// Update advances the camera by dt seconds.
func (cc *CameraController2D) Update(in *core.Input, dt float64) {
	step := cc.PanSpeed * float32(dt) / cc.Camera.Zoom
	var dx, dy float32
	if in.IsKeyDown(core.KeyA) {
		dx -= step
	}
	if in.IsKeyDown(core.KeyD) {
		dx += step
	}
	if in.IsKeyDown(core.KeyW) {
		dy -= step
	}
	if in.IsKeyDown(core.KeyS) {
		dy += step
	}
	cc.Camera.Move(dx, dy)

	if s := in.TakeScroll(); s != 0 {
		cc.Camera.SetZoom(cc.Camera.Zoom * math32.Pow(cc.ZoomSpeed, float32(s)))
	}
}
