// Package touch tracks touch points and turns them into on-screen joystick axes.
package touch

// MaxTouches is the number of simultaneous touch points tracked.
const MaxTouches = 10

// Point is one tracked touch in pixel coordinates. PX/PY hold the position
// before the last move.
type Point struct {
	X, Y    float32
	PX, PY  float32
	Pressed bool
}

// Array holds a fixed set of touch slots. Device pointer IDs are mapped to
// the lowest free slot on press and released on lift.
type Array struct {
	Points [MaxTouches]Point
	slots  map[int64]int
}

// NewArray creates an empty touch array.
func NewArray() *Array {
	return &Array{slots: make(map[int64]int, MaxTouches)}
}

// Press starts tracking pointer id at (x, y). Presses beyond MaxTouches are
// ignored.
func (a *Array) Press(id int64, x, y float32) {
	slot, ok := a.slots[id]
	if !ok {
		slot = a.freeSlot()
		if slot < 0 {
			return
		}
		a.slots[id] = slot
	}
	a.Points[slot] = Point{X: x, Y: y, PX: x, PY: y, Pressed: true}
}

// Move updates a tracked pointer. Unknown ids are ignored.
func (a *Array) Move(id int64, x, y float32) {
	slot, ok := a.slots[id]
	if !ok {
		return
	}
	p := &a.Points[slot]
	p.PX, p.PY = p.X, p.Y
	p.X, p.Y = x, y
}

// Release marks a pointer as lifted and frees its slot. The last position
// is kept so a joystick holding the slot can see the release.
func (a *Array) Release(id int64) {
	slot, ok := a.slots[id]
	if !ok {
		return
	}
	a.Points[slot].Pressed = false
	delete(a.slots, id)
}

// ReleaseAll lifts every pointer, e.g. when the window loses focus.
func (a *Array) ReleaseAll() {
	for id := range a.slots {
		a.Release(id)
	}
}

func (a *Array) freeSlot() int {
	used := [MaxTouches]bool{}
	for _, s := range a.slots {
		used[s] = true
	}
	for i, u := range used {
		if !u {
			return i
		}
	}
	return -1
}
