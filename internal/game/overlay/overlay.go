// Package overlay rasterizes the 2D HUD: joysticks, loading progress and a
// debug line. The image is redrawn only when what it shows changes.
package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/Faultbox/portalview/internal/engine/touch"
	"github.com/Faultbox/portalview/pkg/math"
)

// bezierCircle is the control distance that makes four cubic segments
// approximate a circle.
const bezierCircle = 0.5522847

var (
	discColor = color.NRGBA{R: 255, G: 255, B: 255, A: 64}
	knobColor = color.NRGBA{R: 255, G: 255, B: 255, A: 128}
	textColor = color.White
	barColor  = color.NRGBA{R: 255, G: 255, B: 255, A: 200}
)

// Stick is the drawable state of one joystick.
type Stick struct {
	Origin math.Vec2
	Knob   math.Vec2
	Outer  float32
	Inner  float32
}

// StickFrom captures a joystick's current state.
func StickFrom(j *touch.Joystick) Stick {
	return Stick{Origin: j.Origin, Knob: j.Knob(), Outer: j.Outer, Inner: j.Inner}
}

// Frame is everything the HUD shows. Frames compare with ==.
type Frame struct {
	Move, Look Stick
	ShowSticks bool

	// Progress is a loading percentage, shown when ShowProgress is set.
	Progress     int
	ShowProgress bool

	Debug string
}

// HUD owns the overlay image.
type HUD struct {
	img    *image.RGBA
	raster *vector.Rasterizer
	last   Frame
	valid  bool
	face   font.Face
}

// New creates a HUD covering a width x height screen.
func New(width, height int) *HUD {
	return &HUD{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		raster: vector.NewRasterizer(width, height),
		face:   basicfont.Face7x13,
	}
}

// Resize changes the image size; the next Draw repaints.
func (h *HUD) Resize(width, height int) {
	if b := h.img.Bounds(); b.Dx() == width && b.Dy() == height {
		return
	}
	h.img = image.NewRGBA(image.Rect(0, 0, width, height))
	h.valid = false
}

// Image returns the last rasterized overlay.
func (h *HUD) Image() *image.RGBA {
	return h.img
}

// Draw rasterizes f unless it matches the previous frame. It reports whether
// the image changed and needs uploading.
func (h *HUD) Draw(f Frame) bool {
	if h.valid && f == h.last {
		return false
	}
	h.last, h.valid = f, true

	draw.Draw(h.img, h.img.Bounds(), image.Transparent, image.Point{}, draw.Src)

	if f.ShowSticks {
		h.drawStick(f.Move)
		h.drawStick(f.Look)
	}
	if f.ShowProgress {
		h.drawProgress(f.Progress)
	}
	if f.Debug != "" {
		h.drawText(f.Debug, fixed.P(4, 4+h.face.Metrics().Ascent.Ceil()))
	}
	return true
}

func (h *HUD) drawStick(s Stick) {
	h.fillCircle(s.Origin, s.Outer, discColor)
	h.fillCircle(s.Knob, s.Inner, knobColor)
}

func (h *HUD) fillCircle(c math.Vec2, r float32, col color.Color) {
	if r <= 0 {
		return
	}
	b := h.img.Bounds()
	z := h.raster
	z.Reset(b.Dx(), b.Dy())
	z.DrawOp = draw.Over

	k := r * bezierCircle
	z.MoveTo(c.X+r, c.Y)
	z.CubeTo(c.X+r, c.Y+k, c.X+k, c.Y+r, c.X, c.Y+r)
	z.CubeTo(c.X-k, c.Y+r, c.X-r, c.Y+k, c.X-r, c.Y)
	z.CubeTo(c.X-r, c.Y-k, c.X-k, c.Y-r, c.X, c.Y-r)
	z.CubeTo(c.X+k, c.Y-r, c.X+r, c.Y-k, c.X+r, c.Y)
	z.ClosePath()

	z.Draw(h.img, b, image.NewUniform(col), image.Point{})
}

// drawProgress writes the percentage large in the middle of the screen with
// a bar underneath. The 7x13 glyphs are scaled up to about a tenth of the
// smaller screen edge.
func (h *HUD) drawProgress(percent int) {
	percent = max(0, min(100, percent))
	b := h.img.Bounds()
	side := min(b.Dx(), b.Dy())

	label := strconv.Itoa(percent) + "%"
	textW := font.MeasureString(h.face, label).Ceil()
	textH := h.face.Metrics().Height.Ceil()
	small := image.NewRGBA(image.Rect(0, 0, textW, textH))
	d := font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(textColor),
		Face: h.face,
		Dot:  fixed.P(0, h.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(label)

	scale := max(1, side/10/textH)
	w, ht := textW*scale, textH*scale
	cx, cy := b.Dx()/2, b.Dy()/2
	dst := image.Rect(cx-w/2, cy-ht/2, cx-w/2+w, cy-ht/2+ht)
	xdraw.NearestNeighbor.Scale(h.img, dst, small, small.Bounds(), draw.Over, nil)

	barW := side / 2
	bar := image.Rect(cx-barW/2, dst.Max.Y+ht/4, cx-barW/2+barW*percent/100, dst.Max.Y+ht/4+max(2, ht/8))
	draw.Draw(h.img, bar, image.NewUniform(barColor), image.Point{}, draw.Over)
}

func (h *HUD) drawText(s string, dot fixed.Point26_6) {
	d := font.Drawer{
		Dst:  h.img,
		Src:  image.NewUniform(textColor),
		Face: h.face,
		Dot:  dot,
	}
	d.DrawString(s)
}
