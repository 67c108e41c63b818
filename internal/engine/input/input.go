// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/portalview/internal/engine/touch"
	"github.com/Faultbox/portalview/pkg/math"
)

const (
	// mousePointer is the touch id used for the left mouse button.
	mousePointer = -1
	// touchMouseID marks mouse events SDL synthesizes from touches (SDL_TOUCH_MOUSEID).
	touchMouseID = 0xFFFFFFFF
)

// Event types for game use
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventFocusLost
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8
}

// Input handles all input processing. Finger events and the left mouse
// button feed the same touch array.
type Input struct {
	events  []Event
	held    map[sdl.Scancode]bool
	touches *touch.Array

	width, height int
}

// New creates a new input handler for a window of the given size.
func New(width, height int) *Input {
	return &Input{
		events:  make([]Event, 0, 16),
		held:    make(map[sdl.Scancode]bool),
		touches: touch.NewArray(),
		width:   width,
		height:  height,
	}
}

// Touches returns the tracked touch points.
func (i *Input) Touches() *touch.Array {
	return i.touches
}

// Update polls SDL events and converts them to game events.
// Returns true if the game should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0] // Clear previous events

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_RESIZED:
				i.width, i.height = int(e.Data1), int(e.Data2)
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  i.width,
					Height: i.height,
				})
			case sdl.WINDOWEVENT_FOCUS_LOST:
				i.touches.ReleaseAll()
				clear(i.held)
				i.events = append(i.events, Event{Type: EventFocusLost})
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN {
				i.held[e.Keysym.Scancode] = true
				i.events = append(i.events, Event{
					Type: EventKeyDown,
					Key:  e.Keysym.Scancode,
				})
			} else if e.Type == sdl.KEYUP {
				delete(i.held, e.Keysym.Scancode)
				i.events = append(i.events, Event{
					Type: EventKeyUp,
					Key:  e.Keysym.Scancode,
				})
			}

		case *sdl.TouchFingerEvent:
			// Finger coordinates are normalized to [0, 1].
			x, y := e.X*float32(i.width), e.Y*float32(i.height)
			id := int64(e.FingerID)
			switch e.Type {
			case sdl.FINGERDOWN:
				i.touches.Press(id, x, y)
			case sdl.FINGERMOTION:
				i.touches.Move(id, x, y)
			case sdl.FINGERUP:
				i.touches.Release(id)
			}

		case *sdl.MouseMotionEvent:
			if e.Which != touchMouseID {
				i.touches.Move(mousePointer, float32(e.X), float32(e.Y))
			}
			i.events = append(i.events, Event{
				Type:   EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
			})

		case *sdl.MouseButtonEvent:
			if e.Which != touchMouseID && e.Button == sdl.BUTTON_LEFT {
				if e.Type == sdl.MOUSEBUTTONDOWN {
					i.touches.Press(mousePointer, float32(e.X), float32(e.Y))
				} else {
					i.touches.Release(mousePointer)
				}
			}
			if e.Type == sdl.MOUSEBUTTONDOWN {
				i.events = append(i.events, Event{
					Type:   EventMouseDown,
					MouseX: int(e.X),
					MouseY: int(e.Y),
					Button: e.Button,
				})
			} else if e.Type == sdl.MOUSEBUTTONUP {
				i.events = append(i.events, Event{
					Type:   EventMouseUp,
					MouseX: int(e.X),
					MouseY: int(e.Y),
					Button: e.Button,
				})
			}
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// IsKeyHeld reports whether a key is currently down.
func (i *Input) IsKeyHeld(scancode sdl.Scancode) bool {
	return i.held[scancode]
}

// KeyboardAxes maps WASD to the move axis and the arrow keys to the look
// axis, using the same orientation as the on-screen joysticks.
func (i *Input) KeyboardAxes() (move, look math.Vec2) {
	axis := func(neg, pos sdl.Scancode) float32 {
		var v float32
		if i.held[neg] {
			v--
		}
		if i.held[pos] {
			v++
		}
		return v
	}

	move = math.Vec2{X: axis(sdl.SCANCODE_A, sdl.SCANCODE_D), Y: axis(sdl.SCANCODE_W, sdl.SCANCODE_S)}
	look = math.Vec2{X: axis(sdl.SCANCODE_LEFT, sdl.SCANCODE_RIGHT), Y: axis(sdl.SCANCODE_UP, sdl.SCANCODE_DOWN)}
	return move, look
}
