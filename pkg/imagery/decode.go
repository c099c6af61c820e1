// Package imagery handles getting rooftop image dimensions into the system,
// either from uploaded bytes or by fetching a URL. Only JPEG and PNG are
// supported.
package imagery

import (
	"errors"
	"fmt"
	"image"
	"io"

	// registered for image.DecodeConfig
	_ "image/jpeg"
	_ "image/png"
)

// ErrDecode indicates the supplied bytes are not a decodable JPEG or PNG.
var ErrDecode = errors.New("image could not be decoded")

// DecodeDimensions reads just enough of r to determine the image dimensions.
// It never decodes the full pixel data.
func DecodeDimensions(r io.Reader) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("%w: image has no pixels", ErrDecode)
	}
	return cfg.Width, cfg.Height, nil
}
