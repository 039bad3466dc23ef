package render

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const labelFontSize = 18

var (
	labelFontOnce sync.Once
	labelFont     *truetype.Font
	labelFontErr  error
)

// captionFace returns a face for board labels and HUD text. Faces keep a
// glyph cache and are not safe for concurrent use, so each render gets its own.
func captionFace() (font.Face, error) {
	labelFontOnce.Do(func() {
		labelFont, labelFontErr = truetype.Parse(goregular.TTF)
		if labelFontErr != nil {
			labelFontErr = fmt.Errorf("parse label font: %w", labelFontErr)
		}
	})
	if labelFontErr != nil {
		return nil, labelFontErr
	}
	return truetype.NewFace(labelFont, &truetype.Options{
		Size:    labelFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
