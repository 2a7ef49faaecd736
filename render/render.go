// Package render draws the play field onto an in-memory 2D canvas.
package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/hoshinonyaruko/gridsnake/grid"
	"github.com/hoshinonyaruko/gridsnake/memimg"
	"github.com/hoshinonyaruko/gridsnake/structs"
)

// FoodSprite is the file looked up in the food image cache. When it is
// missing food is drawn as a plain square.
const FoodSprite = "food.png"

// Canvas implements the game renderer on top of a gg context. Draw calls
// come from the game loop only; the finished frame can be read from any
// goroutine.
type Canvas struct {
	grid      grid.Grid
	foodColor string
	dc        *gg.Context
	bg        image.Image

	spriteSrc image.Image
	sprite    image.Image

	mu    sync.RWMutex
	frame *image.NRGBA
}

func NewCanvas(g grid.Grid, foodColor string) *Canvas {
	c := &Canvas{
		grid:      g,
		foodColor: foodColor,
		dc:        gg.NewContext(g.Width, g.Height),
	}
	c.bg = renderBackground(g)
	c.frame = imaging.Clone(c.bg)
	return c
}

// renderBackground 绘制白色背景和网格
func renderBackground(g grid.Grid) image.Image {
	dc := gg.NewContext(g.Width, g.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0.9, 0.9, 0.9)
	dc.SetLineWidth(1)
	for x := 0; x <= g.Width; x += g.CellSize {
		dc.DrawLine(float64(x), 0, float64(x), float64(g.Height))
		dc.Stroke()
	}
	for y := 0; y <= g.Height; y += g.CellSize {
		dc.DrawLine(0, float64(y), float64(g.Width), float64(y))
		dc.Stroke()
	}
	return dc.Image()
}

func (c *Canvas) Clear() {
	c.dc.Clear()
	c.dc.DrawImage(c.bg, 0, 0)
}

// DrawCell fills a cell and strokes its outline. Invalid colors fall back
// to black.
func (c *Canvas) DrawCell(cell structs.Cell, color string) {
	size := float64(c.grid.CellSize)
	x, y := float64(cell.X), float64(cell.Y)

	c.dc.SetRGB(0, 0, 0)
	if color != "" {
		c.dc.SetHexColor(color)
	}
	c.dc.DrawRectangle(x, y, size, size)
	c.dc.Fill()

	c.dc.SetRGB(0, 0, 0)
	c.dc.SetLineWidth(1)
	c.dc.DrawRectangle(x+0.5, y+0.5, size-1, size-1)
	c.dc.Stroke()
}

func (c *Canvas) DrawFood(cell structs.Cell) {
	if sprite := c.foodSprite(); sprite != nil {
		c.dc.DrawImage(sprite, cell.X, cell.Y)
		return
	}
	c.DrawCell(cell, c.foodColor)
}

// foodSprite returns the cached sprite fitted to the cell size, rescaling
// only when the cached source image was replaced.
func (c *Canvas) foodSprite() image.Image {
	src, ok := memimg.GetFoodFromMemory(FoodSprite)
	if !ok {
		return nil
	}
	if src != c.spriteSrc {
		c.spriteSrc = src
		c.sprite = imaging.Fit(src, c.grid.CellSize, c.grid.CellSize, imaging.Lanczos)
	}
	return c.sprite
}

// Present publishes the drawn frame.
func (c *Canvas) Present() error {
	frame := imaging.Clone(c.dc.Image())
	c.mu.Lock()
	c.frame = frame
	c.mu.Unlock()
	return nil
}

// Frame returns the last presented frame.
func (c *Canvas) Frame() image.Image {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.frame
}

// FrameOptions control how a frame is exported.
type FrameOptions struct {
	Scale  float64 // 1 keeps the field size
	Banner string  // drawn centered over a dimmed frame when set
}

// Export returns the last frame, scaled and annotated.
func (c *Canvas) Export(opts FrameOptions) image.Image {
	var img image.Image = c.Frame()
	if opts.Banner != "" {
		img = drawBanner(img, opts.Banner)
	}
	if opts.Scale > 0 && opts.Scale != 1 {
		w := int(float64(img.Bounds().Dx()) * opts.Scale)
		h := int(float64(img.Bounds().Dy()) * opts.Scale)
		if w < 1 || h < 1 {
			return img
		}
		img = imaging.Resize(img, w, h, imaging.NearestNeighbor)
	}
	return img
}

func (c *Canvas) WritePNG(w io.Writer, opts FrameOptions) error {
	return png.Encode(w, c.Export(opts))
}

// SavePNG 保存图片
func (c *Canvas) SavePNG(fileName string, opts FrameOptions) error {
	if err := os.MkdirAll(filepath.Dir(fileName), os.ModePerm); err != nil {
		return err
	}
	if err := imaging.Save(c.Export(opts), fileName); err != nil {
		return fmt.Errorf("save frame %s: %w", fileName, err)
	}
	return nil
}

func drawBanner(img image.Image, text string) image.Image {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	dc := gg.NewContext(w, h)
	dc.DrawImage(img, 0, 0)
	dc.SetRGBA(0, 0, 0, 0.5)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(text, float64(w)/2, float64(h)/2, 0.5, 0.5)
	return dc.Image()
}
