package docx

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoding
	_ "image/jpeg" // register JPEG decoding
	"image/png"

	_ "golang.org/x/image/bmp"  // register BMP decoding
	_ "golang.org/x/image/tiff" // register TIFF decoding
	_ "golang.org/x/image/webp" // register WebP decoding
)

// EMU (English Metric Units) conversions.
const (
	EMUPerInch  = 914400
	emuPerPixel = 9525 // at 96 DPI
)

// ErrInvalidImage indicates picture data that cannot be decoded.
var ErrInvalidImage = errors.New("invalid image")

// formats Word renders natively, keyed by image.Decode format name.
var nativeFormats = map[string]struct{ ext, mime string }{
	"png":  {"png", "image/png"},
	"jpeg": {"jpeg", "image/jpeg"},
	"gif":  {"gif", "image/gif"},
	"bmp":  {"bmp", "image/bmp"},
	"tiff": {"tiff", "image/tiff"},
}

// picture is decoded picture data ready for embedding.
type picture struct {
	data          []byte
	ext, mime     string
	width, height int
}

// decodePicture reads dimensions and format. Formats Word cannot display
// are transcoded to PNG.
func decodePicture(data []byte) (*picture, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty dimensions %dx%d", ErrInvalidImage, cfg.Width, cfg.Height)
	}

	if f, ok := nativeFormats[format]; ok {
		return &picture{data: data, ext: f.ext, mime: f.mime, width: cfg.Width, height: cfg.Height}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: transcoding %s: %v", ErrInvalidImage, format, err)
	}
	return &picture{data: buf.Bytes(), ext: "png", mime: "image/png", width: cfg.Width, height: cfg.Height}, nil
}

// extent scales the picture to maxWidth EMU, preserving aspect ratio.
// Pictures narrower than maxWidth keep their natural 96 DPI size.
func (p *picture) extent(maxWidth int64) (cx, cy int64) {
	cx = int64(p.width) * emuPerPixel
	cy = int64(p.height) * emuPerPixel
	if maxWidth > 0 && cx > maxWidth {
		cy = cy * maxWidth / cx
		cx = maxWidth
	}
	return cx, max(cy, 1)
}
