// Package texture decodes images and uploads them as GL textures.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// ErrTGA is wrapped by every TGA decoding error.
var ErrTGA = errors.New("invalid TGA")

// TGA image types.
const (
	TGATypeUncompressed = 2  // true-color
	TGATypeGray         = 3  // 8-bit grayscale
	TGATypeRLE          = 10 // run-length encoded true-color
	TGATypeRLEGray      = 11 // run-length encoded grayscale
)

const (
	tgaHeaderSize  = 18
	tgaTopToBottom = 0x20 // image descriptor bit
)

type tgaInfo struct {
	imageType     uint8
	width, height int
	pixelSize     int // bytes
	topToBottom   bool
	pixels        []byte
}

func parseTGA(data []byte) (tgaInfo, error) {
	if len(data) < tgaHeaderSize {
		return tgaInfo{}, fmt.Errorf("%w: %d byte header", ErrTGA, len(data))
	}
	if data[1] != 0 {
		return tgaInfo{}, fmt.Errorf("%w: color-mapped images are not supported", ErrTGA)
	}

	info := tgaInfo{
		imageType:   data[2],
		width:       int(data[12]) | int(data[13])<<8,
		height:      int(data[14]) | int(data[15])<<8,
		pixelSize:   int(data[16]) / 8,
		topToBottom: data[17]&tgaTopToBottom != 0,
	}

	gray := info.imageType == TGATypeGray || info.imageType == TGATypeRLEGray
	switch {
	case gray && data[16] != 8:
		return tgaInfo{}, fmt.Errorf("%w: %d-bit grayscale", ErrTGA, data[16])
	case !gray && info.imageType != TGATypeUncompressed && info.imageType != TGATypeRLE:
		return tgaInfo{}, fmt.Errorf("%w: image type %d", ErrTGA, info.imageType)
	case !gray && data[16] != 24 && data[16] != 32:
		return tgaInfo{}, fmt.Errorf("%w: %d-bit color", ErrTGA, data[16])
	}

	offset := tgaHeaderSize + int(data[0])
	if offset > len(data) {
		return tgaInfo{}, fmt.Errorf("%w: image ID runs past end", ErrTGA)
	}
	info.pixels = data[offset:]
	return info, nil
}

// DecodeTGA decodes uncompressed and RLE TGA files in 24/32-bit color or
// 8-bit grayscale.
func DecodeTGA(data []byte) (image.Image, error) {
	info, err := parseTGA(data)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, info.width, info.height))
	next := info.reader()
	for i := 0; i < info.width*info.height; i++ {
		c, ok := next()
		if !ok {
			return nil, fmt.Errorf("%w: pixel data ends at pixel %d of %d", ErrTGA, i, info.width*info.height)
		}
		x, y := i%info.width, i/info.width
		if !info.topToBottom {
			y = info.height - 1 - y
		}
		img.SetRGBA(x, y, c)
	}
	return img, nil
}

// reader returns a function yielding pixels in file order.
func (info tgaInfo) reader() func() (color.RGBA, bool) {
	src := info.pixels
	read := func() (color.RGBA, bool) {
		if len(src) < info.pixelSize {
			return color.RGBA{}, false
		}
		p := src[:info.pixelSize]
		src = src[info.pixelSize:]
		switch info.pixelSize {
		case 1:
			return color.RGBA{R: p[0], G: p[0], B: p[0], A: 255}, true
		case 4:
			return color.RGBA{R: p[2], G: p[1], B: p[0], A: p[3]}, true
		}
		return color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}, true
	}

	if info.imageType == TGATypeUncompressed || info.imageType == TGATypeGray {
		return read
	}

	// Run-length packets: the high bit marks a repeated pixel, the low
	// seven bits hold count-1.
	var (
		left   int
		repeat bool
		last   color.RGBA
	)
	return func() (color.RGBA, bool) {
		if left == 0 {
			if len(src) == 0 {
				return color.RGBA{}, false
			}
			packet := src[0]
			src = src[1:]
			left = int(packet&0x7F) + 1
			repeat = packet&0x80 != 0
			if repeat {
				var ok bool
				if last, ok = read(); !ok {
					return color.RGBA{}, false
				}
			}
		}
		left--
		if repeat {
			return last, true
		}
		return read()
	}
}

// ImageToRGBA converts any image.Image to *image.RGBA.
// An *image.RGBA is returned as is.
func ImageToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	xdraw.Copy(rgba, b.Min, img, b, xdraw.Src, nil)
	return rgba
}
