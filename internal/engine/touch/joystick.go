package touch

import (
	"github.com/Faultbox/portalview/pkg/math"
)

// Joystick is a virtual thumbstick: a fixed outer disc and a knob that
// follows the capturing touch, limited to Outer-Inner from the origin.
type Joystick struct {
	Origin math.Vec2
	Outer  float32
	Inner  float32

	pos     math.Vec2
	pointer int
}

// NewJoystick places a joystick at (x, y) sized for a width x height surface.
func NewJoystick(x, y, width, height float32) *Joystick {
	outer := min(width, height) / 7
	return &Joystick{
		Origin:  math.Vec2{X: x, Y: y},
		Outer:   outer,
		Inner:   outer / 2,
		pointer: -1,
	}
}

// Active reports whether a touch is holding the joystick.
func (j *Joystick) Active() bool {
	return j.pointer >= 0
}

// Update captures the first pressed touch inside the outer disc, follows it
// while held and recenters on release.
func (j *Joystick) Update(touches *Array) {
	if !j.Active() {
		for i := range touches.Points {
			t := &touches.Points[i]
			if t.Pressed && j.Origin.Distance(math.Vec2{X: t.X, Y: t.Y}) <= j.Outer {
				j.pointer = i
				break
			}
		}
	}
	if !j.Active() {
		return
	}

	t := &touches.Points[j.pointer]
	if !t.Pressed {
		j.pointer = -1
		j.pos = math.Vec2{}
		return
	}

	j.pos = math.Vec2{X: t.X, Y: t.Y}.Sub(j.Origin)
	if limit := j.Outer - j.Inner; j.pos.Length() >= limit {
		j.pos = j.pos.Normalize().Scale(limit)
	}
}

// Axis returns the knob displacement scaled to [-1, 1] on each axis.
// Screen Y grows downwards, so pushing up gives a negative Y.
func (j *Joystick) Axis() math.Vec2 {
	limit := j.Outer - j.Inner
	if limit <= 0 {
		return math.Vec2{}
	}
	return j.pos.Scale(1 / limit)
}

// Knob returns the knob center in pixels.
func (j *Joystick) Knob() math.Vec2 {
	return j.Origin.Add(j.pos)
}

// Controls pairs the movement and look joysticks.
type Controls struct {
	Move *Joystick
	Look *Joystick
}

// NewControls lays out the two joysticks at the bottom corners of the screen.
func NewControls(width, height float32) *Controls {
	return &Controls{
		Move: NewJoystick(width*0.2, height*0.85, width, height),
		Look: NewJoystick(width*0.8, height*0.85, width, height),
	}
}

// Update feeds the touches to both joysticks.
func (c *Controls) Update(touches *Array) {
	c.Move.Update(touches)
	c.Look.Update(touches)
}

// Axes returns the joystick axes with extra input (e.g. keyboard) added,
// each component clamped to [-1, 1].
func (c *Controls) Axes(extraMove, extraLook math.Vec2) (move, look math.Vec2) {
	return clampAxis(c.Move.Axis().Add(extraMove)), clampAxis(c.Look.Axis().Add(extraLook))
}

func clampAxis(v math.Vec2) math.Vec2 {
	return math.Vec2{X: max(-1, min(1, v.X)), Y: max(-1, min(1, v.Y))}
}
