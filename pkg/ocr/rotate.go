package ocr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// Rotate returns imageBytes rotated counter-clockwise by degrees. The canvas
// is expanded as needed (90/270 swap width and height) so no content is
// cropped. A multiple of 360 returns the input unchanged.
func Rotate(imageBytes []byte, degrees int) ([]byte, error) {
	deg := ((degrees % 360) + 360) % 360
	if deg == 0 {
		return imageBytes, nil
	}
	img, err := imaging.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	var rotated image.Image
	switch deg {
	case 90:
		rotated = imaging.Rotate90(img)
	case 180:
		rotated = imaging.Rotate180(img)
	case 270:
		rotated = imaging.Rotate270(img)
	default:
		return nil, fmt.Errorf("unsupported rotation angle %d", degrees)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, rotated, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode rotated image: %w", err)
	}
	return buf.Bytes(), nil
}

// Dimensions reports the pixel size of an encoded image without decoding the
// full pixel data.
func Dimensions(imageBytes []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(imageBytes))
	if err != nil {
		return 0, 0, fmt.Errorf("decode image config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
