package converter

import (
	"bytes"
	"fmt"

	"scristobal/astcbot/failure"

	"github.com/disintegration/imaging"
)

// fit checks that output is a decodable image and shrinks it when its longer
// side exceeds maxSide. Images already within bounds are returned untouched.
func (c *Converter) fit(output []byte) ([]byte, error) {

	img, err := imaging.Decode(bytes.NewReader(output))

	if err != nil {
		return nil, failure.New(failure.ConversionFailure, "convert", fmt.Errorf("astcenc output is not an image: %w", err))
	}

	bounds := img.Bounds()

	if c.maxSide <= 0 || (bounds.Dx() <= c.maxSide && bounds.Dy() <= c.maxSide) {
		return output, nil
	}

	resized := imaging.Fit(img, c.maxSide, c.maxSide, imaging.Lanczos)

	var buf bytes.Buffer

	err = imaging.Encode(&buf, resized, imaging.PNG)

	if err != nil {
		return nil, failure.New(failure.Unknown, "convert", fmt.Errorf("can't encode resized image: %w", err))
	}

	return buf.Bytes(), nil
}
