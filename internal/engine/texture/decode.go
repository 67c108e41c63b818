package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png" // register PNG decoder
	"path"
	"strings"

	_ "golang.org/x/image/bmp" // register BMP decoder
)

// Decode decodes image data, choosing the decoder from the file name.
// TGA is handled by DecodeTGA; PNG and BMP go through image.Decode.
func Decode(name string, data []byte) (*image.RGBA, error) {
	var img image.Image
	var err error

	if strings.EqualFold(path.Ext(name), ".tga") {
		img, err = DecodeTGA(data)
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return ImageToRGBA(img), nil
}
