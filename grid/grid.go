// Package grid converts between pixel coordinates and the fixed-size cells
// of the play field.
package grid

import "github.com/hoshinonyaruko/gridsnake/structs"

// Grid describes a rectangular play field measured in pixel units and
// divided into square cells of CellSize.
type Grid struct {
	CellSize int
	Width    int
	Height   int
}

// New returns a grid. Width and height must be multiples of cellSize.
func New(cellSize, width, height int) Grid {
	return Grid{CellSize: cellSize, Width: width, Height: height}
}

// Default is the 400x400 field with 20 unit cells.
func Default() Grid {
	return New(20, 400, 400)
}

func (g Grid) Columns() int { return g.Width / g.CellSize }

func (g Grid) Rows() int { return g.Height / g.CellSize }

// Cells returns the number of cells on the field.
func (g Grid) Cells() int { return g.Columns() * g.Rows() }

// ToCell snaps a pixel coordinate down to the cell containing it.
func (g Grid) ToCell(px, py int) structs.Cell {
	return structs.Cell{X: floorTo(px, g.CellSize), Y: floorTo(py, g.CellSize)}
}

// CellAt returns the cell at the given column and row.
func (g Grid) CellAt(col, row int) structs.Cell {
	return structs.Cell{X: col * g.CellSize, Y: row * g.CellSize}
}

func (g Grid) InBounds(c structs.Cell) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// Wrap folds an out of bounds cell back onto the field, each axis
// independently. The result is snapped to the cell containing it, so x=-1
// lands on the last column.
func (g Grid) Wrap(c structs.Cell) structs.Cell {
	return g.ToCell(mod(c.X, g.Width), mod(c.Y, g.Height))
}

func mod(v, m int) int {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}

func floorTo(v, size int) int {
	return v - mod(v, size)
}
