package render

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/park285/jumpchess/internal/game"
)

//go:embed assets/pieces/*.svg
var pieceFiles embed.FS

// spriteKey identifies one rasterised piece. Only Kind and Color matter.
type spriteKey struct {
	kind  game.Kind
	color game.Color
	size  int
}

// spriteCache rasterises each piece SVG once per size.
type spriteCache struct {
	once    sync.Once
	sources map[spriteKey][]byte
	loadErr error

	mu      sync.RWMutex
	sprites map[spriteKey]*image.RGBA
}

var sprites = &spriteCache{sprites: map[spriteKey]*image.RGBA{}}

func renderPieceImage(piece game.Piece, size int) (image.Image, error) {
	img, err := sprites.get(piece, size)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (c *spriteCache) get(piece game.Piece, size int) (*image.RGBA, error) {
	if piece.IsZero() {
		return nil, fmt.Errorf("no sprite for an empty square")
	}
	key := spriteKey{kind: piece.Kind, color: piece.Color, size: size}

	c.mu.RLock()
	img, ok := c.sprites[key]
	c.mu.RUnlock()
	if ok {
		return img, nil
	}

	c.once.Do(c.load)
	if c.loadErr != nil {
		return nil, c.loadErr
	}
	src := c.sources[spriteKey{kind: piece.Kind, color: piece.Color}]
	img, err := rasterizeSVG(src, size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pieceAssetName(piece), err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.sprites[key]; ok {
		return prev, nil
	}
	c.sprites[key] = img
	return img, nil
}

func (c *spriteCache) load() {
	c.sources = make(map[spriteKey][]byte, 4)
	for _, col := range []game.Color{game.White, game.Black} {
		for _, p := range []game.Piece{game.NewPawn(col), game.NewQueen(col)} {
			name := pieceAssetName(p)
			data, err := pieceFiles.ReadFile(name)
			if err != nil {
				c.loadErr = fmt.Errorf("read piece asset %s: %w", name, err)
				return
			}
			c.sources[spriteKey{kind: p.Kind, color: p.Color}] = sanitizeSVG(data)
		}
	}
}

// rasterizeSVG draws src scaled to a size×size transparent image. The icon is
// parsed per call since SetTarget mutates it.
func rasterizeSVG(src []byte, size int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		icon.ViewBox.W, icon.ViewBox.H = float64(size), float64(size)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1.0)
	return img, nil
}

// pieceAssetName maps a piece to assets/pieces/{w,b}{P,Q}.svg.
func pieceAssetName(piece game.Piece) string {
	side := "w"
	if piece.Color == game.Black {
		side = "b"
	}
	kind := "P"
	if piece.Kind == game.Queen {
		kind = "Q"
	}
	return fmt.Sprintf("assets/pieces/%s%s.svg", side, kind)
}
