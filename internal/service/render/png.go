package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"math"
	"strings"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/park285/jumpchess/internal/game"
)

// MoveHighlight marks the last half-move on the board.
type MoveHighlight struct {
	From game.Coord
	To   game.Coord
}

type Options struct {
	Highlight *MoveHighlight
	// Captured squares are tinted; used for the cells emptied by a chain.
	Captured []game.Coord
	Header   string
	Turn     string
}

// BoardRenderer draws a board snapshot as PNG.
type BoardRenderer interface {
	RenderPNG(ctx context.Context, grid game.Grid, opts Options) ([]byte, error)
}

type pngBoardRenderer struct{}

func NewPNGRenderer() BoardRenderer {
	return &pngBoardRenderer{}
}

const (
	squareSize   = 64
	boardPixels  = squareSize * game.BoardSize
	sideMargin   = 36
	topMargin    = 96
	bottomMargin = 36
	panelHeight  = 36
	panelRadius  = 10
	panelPadX    = 20
	panelMinW    = 120
	gapToBoard   = 18
)

var (
	backgroundColor     = color.RGBA{R: 24, G: 26, B: 38, A: 255}
	lightSquare         = color.RGBA{R: 233, G: 207, B: 163, A: 255}
	darkSquare          = color.RGBA{R: 187, G: 136, B: 96, A: 255}
	whiteMoveFill       = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	blackMoveArrow      = color.NRGBA{R: 148, G: 207, B: 255, A: 170}
	neutralMoveArrow    = color.NRGBA{R: 182, G: 184, B: 190, A: 140}
	capturedMarkColor   = color.NRGBA{R: 220, G: 70, B: 60, A: 150}
	hudPanelColor       = color.NRGBA{R: 40, G: 44, B: 64, A: 250}
	hudTurnPanelColor   = color.NRGBA{R: 48, G: 52, B: 74, A: 245}
	hudTextPrimary      = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	hudTurnTextColor    = color.NRGBA{R: 204, G: 210, B: 236, A: 255}
	coordinateTextColor = color.NRGBA{R: 8, G: 214, B: 120, A: 255}
)

func (r *pngBoardRenderer) RenderPNG(ctx context.Context, grid game.Grid, opts Options) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	img := image.NewRGBA(image.Rect(0, 0, boardPixels+sideMargin*2, boardPixels+topMargin+bottomMargin))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)

	origin := image.Pt(sideMargin, topMargin)
	boardRect := image.Rect(origin.X, origin.Y, origin.X+boardPixels, origin.Y+boardPixels)

	face, err := captionFace()
	if err != nil {
		return nil, err
	}
	defer face.Close()

	drawHUD(img, face, opts, boardRect)
	drawSquares(img, origin)
	for _, c := range opts.Captured {
		drawCapturedMark(img, c, origin)
	}
	if err := drawPieces(ctx, img, &grid, origin); err != nil {
		return nil, err
	}
	drawHighlight(img, &grid, opts.Highlight, origin)
	drawCoordinates(img, face, origin)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// squareRect places rank 0 on the top row, matching the text board.
func squareRect(c game.Coord, origin image.Point) image.Rectangle {
	x := origin.X + c.File*squareSize
	y := origin.Y + c.Rank*squareSize
	return image.Rect(x, y, x+squareSize, y+squareSize)
}

func squareColor(c game.Coord) color.Color {
	if c.File%2 != c.Rank%2 {
		return darkSquare
	}
	return lightSquare
}

func drawSquares(dst imagedraw.Image, origin image.Point) {
	for rank := 0; rank < game.BoardSize; rank++ {
		for file := 0; file < game.BoardSize; file++ {
			c := game.Coord{Rank: rank, File: file}
			imagedraw.Draw(dst, squareRect(c, origin), image.NewUniform(squareColor(c)), image.Point{}, imagedraw.Src)
		}
	}
}

func drawPieces(ctx context.Context, dst imagedraw.Image, grid *game.Grid, origin image.Point) error {
	for _, cell := range grid.Cells() {
		if cell.Empty() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		img, err := renderPieceImage(cell.Piece, squareSize)
		if err != nil {
			return err
		}
		imagedraw.Draw(dst, squareRect(cell.Coord, origin), img, image.Point{}, imagedraw.Over)
	}
	return nil
}

func drawCapturedMark(img *image.RGBA, c game.Coord, origin image.Point) {
	if !c.Valid() {
		return
	}
	rect := squareRect(c, origin)
	cx := float64(rect.Min.X) + squareSize/2
	cy := float64(rect.Min.Y) + squareSize/2
	fillPath(img, capturedMarkColor, func(p rasterx.Adder) {
		rasterx.AddCircle(cx, cy, squareSize*0.22, p)
	})
}

func drawHighlight(img *image.RGBA, grid *game.Grid, h *MoveHighlight, origin image.Point) {
	if h == nil || !h.From.Valid() || !h.To.Valid() {
		return
	}
	mover, ok := highlightMover(grid, h)
	switch {
	case ok && mover == game.White:
		for _, c := range []game.Coord{h.From, h.To} {
			imagedraw.Draw(img, squareRect(c, origin), image.NewUniform(whiteMoveFill), image.Point{}, imagedraw.Over)
		}
	case ok && mover == game.Black:
		drawArrow(img, h.From, h.To, origin, blackMoveArrow)
	default:
		drawArrow(img, h.From, h.To, origin, neutralMoveArrow)
	}
}

func highlightMover(grid *game.Grid, h *MoveHighlight) (game.Color, bool) {
	for _, c := range []game.Coord{h.To, h.From} {
		cell, err := grid.CellAt(c)
		if err == nil && !cell.Empty() {
			return cell.Piece.Color, true
		}
	}
	return game.White, false
}

func drawArrow(img *image.RGBA, from, to game.Coord, origin image.Point, clr color.Color) {
	if from == to {
		return
	}
	startRect := squareRect(from, origin)
	endRect := squareRect(to, origin)
	sx := float64(startRect.Min.X) + squareSize/2
	sy := float64(startRect.Min.Y) + squareSize/2
	ex := float64(endRect.Min.X) + squareSize/2
	ey := float64(endRect.Min.Y) + squareSize/2

	dx, dy := ex-sx, ey-sy
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	dirX, dirY := dx/length, dy/length
	perpX, perpY := -dirY, dirX

	shaft := length - squareSize*0.45
	if shaft < squareSize*0.35 {
		shaft = length * 0.6
	}
	half := squareSize * 0.12
	head := squareSize * 0.22
	bx, by := sx+dirX*shaft, sy+dirY*shaft

	fillPath(img, clr, func(p rasterx.Adder) {
		p.Start(fp(sx-perpX*half, sy-perpY*half))
		p.Line(fp(bx-perpX*half, by-perpY*half))
		p.Line(fp(bx-perpX*head, by-perpY*head))
		p.Line(fp(ex, ey))
		p.Line(fp(bx+perpX*head, by+perpY*head))
		p.Line(fp(bx+perpX*half, by+perpY*half))
		p.Line(fp(sx+perpX*half, sy+perpY*half))
		p.Stop(true)
	})
}

func drawHUD(img *image.RGBA, face font.Face, opts Options, boardRect image.Rectangle) {
	drawer := &font.Drawer{Dst: img, Face: face}

	title := strings.TrimSpace(opts.Header)
	if title == "" {
		title = "White vs Black"
	}
	turn := strings.TrimSpace(opts.Turn)

	bottom := boardRect.Min.Y - gapToBoard
	top := bottom - panelHeight

	turnWidth := 0
	if turn != "" {
		turnWidth = max(panelMinW, drawer.MeasureString(turn).Round()+panelPadX*2)
		turnWidth = min(turnWidth, boardRect.Dx()/2)
	}
	titleWidth := max(panelMinW, drawer.MeasureString(title).Round()+panelPadX*2)
	titleWidth = min(titleWidth, boardRect.Dx()-turnWidth-gapToBoard)

	titleRect := image.Rect(boardRect.Min.X, top, boardRect.Min.X+titleWidth, bottom)
	drawRoundedPanel(img, titleRect, panelRadius, hudPanelColor)
	title = truncateWithEllipsis(face, title, titleRect.Dx()-panelPadX*2)
	drawCenteredString(drawer, titleRect, title, hudTextPrimary)

	if turn == "" {
		return
	}
	turnRect := image.Rect(boardRect.Max.X-turnWidth, top, boardRect.Max.X, bottom)
	drawRoundedPanel(img, turnRect, panelRadius, hudTurnPanelColor)
	turn = truncateWithEllipsis(face, turn, turnRect.Dx()-panelPadX*2)
	drawCenteredString(drawer, turnRect, turn, hudTurnTextColor)
}

func drawRoundedPanel(img *image.RGBA, rect image.Rectangle, radius int, clr color.Color) {
	if rect.Empty() {
		return
	}
	r := float64(min(radius, rect.Dx()/2, rect.Dy()/2))
	x0, y0 := float64(rect.Min.X), float64(rect.Min.Y)
	x1, y1 := float64(rect.Max.X), float64(rect.Max.Y)
	fillPath(img, clr, func(p rasterx.Adder) {
		p.Start(fp(x0+r, y0))
		p.Line(fp(x1-r, y0))
		p.QuadBezier(fp(x1, y0), fp(x1, y0+r))
		p.Line(fp(x1, y1-r))
		p.QuadBezier(fp(x1, y1), fp(x1-r, y1))
		p.Line(fp(x0+r, y1))
		p.QuadBezier(fp(x0, y1), fp(x0, y1-r))
		p.Line(fp(x0, y0+r))
		p.QuadBezier(fp(x0, y0), fp(x0+r, y0))
		p.Stop(true)
	})
}

func drawCoordinates(dst imagedraw.Image, face font.Face, origin image.Point) {
	drawer := &font.Drawer{Dst: dst, Face: face, Src: image.NewUniform(coordinateTextColor)}
	ascent := face.Metrics().Ascent.Ceil()
	for i := 0; i < game.BoardSize; i++ {
		center := i*squareSize + squareSize/2
		drawCenteredText(drawer, string(rune('1'+i)), origin.X-sideMargin/2, origin.Y+center+ascent/2)
		drawCenteredText(drawer, string(rune('A'+i)), origin.X+center, origin.Y+boardPixels+ascent)
	}
}

func truncateWithEllipsis(face font.Face, text string, maxWidth int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || maxWidth <= 0 {
		return trimmed
	}
	drawer := font.Drawer{Face: face}
	if drawer.MeasureString(trimmed).Round() <= maxWidth {
		return trimmed
	}
	const ellipsis = "..."
	if drawer.MeasureString(ellipsis).Round() > maxWidth {
		return ""
	}
	runes := []rune(trimmed)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if drawer.MeasureString(candidate).Round() <= maxWidth {
			return candidate
		}
	}
	return ellipsis
}

func drawCenteredString(drawer *font.Drawer, rect image.Rectangle, text string, clr color.Color) {
	if text == "" {
		return
	}
	metrics := drawer.Face.Metrics()
	width := drawer.MeasureString(text).Round()
	x := max(rect.Min.X+(rect.Dx()-width)/2, rect.Min.X)
	baseline := rect.Min.Y + (rect.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Src = image.NewUniform(clr)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}

// fillPath rasterises one closed shape onto img with non-zero winding.
func fillPath(img *image.RGBA, clr color.Color, build func(p rasterx.Adder)) {
	b := img.Bounds()
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), img, b)
	filler := rasterx.NewFiller(b.Dx(), b.Dy(), scanner)
	filler.SetWinding(true)
	filler.SetColor(clr)
	build(filler)
	filler.Draw()
}

func fp(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
}
