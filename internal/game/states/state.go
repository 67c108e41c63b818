// Package states implements the application's state machine: a loading
// screen followed by the portal view.
package states

import (
	"go.uber.org/zap"

	"github.com/Faultbox/portalview/internal/assets"
	"github.com/Faultbox/portalview/internal/config"
	"github.com/Faultbox/portalview/internal/engine/input"
	"github.com/Faultbox/portalview/internal/engine/renderer"
	"github.com/Faultbox/portalview/internal/engine/texture"
	"github.com/Faultbox/portalview/internal/game/overlay"
)

// State represents an application state (loading, playing).
type State interface {
	// Enter is called when entering this state.
	Enter() error

	// Exit is called when leaving this state.
	Exit() error

	// Update is called every frame.
	Update(dt float64) error

	// Render is called every frame to draw the state.
	Render() error

	// HandleEvent processes a window or keyboard event.
	HandleEvent(ev input.Event) error
}

// Context holds the services every state draws on.
type Context struct {
	Config   *config.Config
	Renderer *renderer.Renderer
	Input    *input.Input
	Assets   *assets.Manager
	Log      *zap.Logger

	// HUD is rasterized on the CPU and uploaded to HUDTexture when it changes.
	HUD        *overlay.HUD
	HUDTexture *texture.Texture

	// Width and Height are the window size in input (touch) coordinates.
	Width, Height int
}

// DrawHUD rasterizes f if it changed and blends the overlay over the frame.
func (c *Context) DrawHUD(f overlay.Frame) {
	if c.HUD.Draw(f) {
		c.HUDTexture.Apply(c.HUD.Image())
	}
	c.Renderer.DrawOverlay(c.HUDTexture)
}

// Manager manages state transitions.
type Manager struct {
	current State
	next    State
}

// NewManager creates a new state manager.
func NewManager() *Manager {
	return &Manager{}
}

// Current returns the current state.
func (m *Manager) Current() State {
	return m.current
}

// Change schedules a state change.
func (m *Manager) Change(next State) {
	m.next = next
}

// Update processes state changes and updates current state.
func (m *Manager) Update(dt float64) error {
	// Handle state transition
	if m.next != nil {
		if m.current != nil {
			if err := m.current.Exit(); err != nil {
				return err
			}
		}
		m.current = m.next
		m.next = nil
		if err := m.current.Enter(); err != nil {
			return err
		}
	}

	// Update current state
	if m.current != nil {
		return m.current.Update(dt)
	}
	return nil
}

// Render renders the current state.
func (m *Manager) Render() error {
	if m.current != nil {
		return m.current.Render()
	}
	return nil
}

// HandleEvent forwards an event to the current state.
func (m *Manager) HandleEvent(ev input.Event) error {
	if m.current != nil {
		return m.current.HandleEvent(ev)
	}
	return nil
}

// Close exits the current state and drops any pending one.
func (m *Manager) Close() error {
	m.next = nil
	if m.current == nil {
		return nil
	}
	err := m.current.Exit()
	m.current = nil
	return err
}
