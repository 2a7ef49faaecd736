package render

import (
	"bytes"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/hoshinonyaruko/gridsnake/grid"
	"github.com/hoshinonyaruko/gridsnake/structs"
)

func rgb(c color.Color) (uint8, uint8, uint8) {
	r, g, b, _ := c.RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

func TestDrawCellFillsCell(t *testing.T) {
	c := NewCanvas(grid.Default(), "#ff0000")
	c.Clear()
	c.DrawCell(structs.Cell{X: 40, Y: 60}, "#00ff00")
	if err := c.Present(); err != nil {
		t.Fatal(err)
	}

	r, g, b := rgb(c.Frame().At(50, 70))
	if r != 0 || g != 255 || b != 0 {
		t.Errorf("Expected green cell center, got (%d,%d,%d)", r, g, b)
	}
	r, g, b = rgb(c.Frame().At(110, 110))
	if r != 255 || g != 255 || b != 255 {
		t.Errorf("Expected white background, got (%d,%d,%d)", r, g, b)
	}
}

func TestDrawFoodUsesFoodColor(t *testing.T) {
	c := NewCanvas(grid.Default(), "#ff0000")
	c.Clear()
	c.DrawFood(structs.Cell{X: 0, Y: 0})
	c.Present()

	r, g, b := rgb(c.Frame().At(10, 10))
	if r != 255 || g != 0 || b != 0 {
		t.Errorf("Expected red food, got (%d,%d,%d)", r, g, b)
	}
}

func TestClearRemovesPreviousCells(t *testing.T) {
	c := NewCanvas(grid.Default(), "#ff0000")
	c.DrawCell(structs.Cell{X: 40, Y: 60}, "#00ff00")
	c.Present()
	c.Clear()
	c.Present()

	r, g, b := rgb(c.Frame().At(50, 70))
	if r != 255 || g != 255 || b != 255 {
		t.Errorf("Expected cleared cell, got (%d,%d,%d)", r, g, b)
	}
}

func TestFrameIsolatedFromDrawing(t *testing.T) {
	c := NewCanvas(grid.Default(), "#ff0000")
	c.Clear()
	c.Present()
	c.DrawCell(structs.Cell{X: 40, Y: 60}, "#00ff00")

	r, _, _ := rgb(c.Frame().At(50, 70))
	if r != 255 {
		t.Error("Expected unpresented drawing to stay out of the frame")
	}
}

func TestExportScaleAndBanner(t *testing.T) {
	c := NewCanvas(grid.Default(), "#ff0000")
	c.Clear()
	c.Present()

	img := c.Export(FrameOptions{Scale: 0.5})
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 200 {
		t.Errorf("Expected 200x200, got %v", img.Bounds())
	}

	img = c.Export(FrameOptions{Banner: "GAME OVER"})
	r, _, _ := rgb(img.At(5, 5))
	if r == 255 {
		t.Error("Expected banner to dim the frame")
	}
}

func TestWriteAndSavePNG(t *testing.T) {
	c := NewCanvas(grid.Default(), "#ff0000")
	c.Clear()
	c.Present()

	var buf bytes.Buffer
	if err := c.WritePNG(&buf, FrameOptions{Scale: 1}); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if img.Bounds().Dx() != 400 {
		t.Errorf("Expected width 400, got %d", img.Bounds().Dx())
	}

	path := filepath.Join(t.TempDir(), "out", "last.png")
	if err := c.SavePNG(path, FrameOptions{}); err != nil {
		t.Errorf("SavePNG failed: %v", err)
	}
}
