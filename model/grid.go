package model

import (
	"crypto/md5"
	"fmt"
	"math/rand/v2"
)

// historySize bounds the hashes kept for cycle detection
const historySize = 5

// Point is a grid coordinate or a relative offset
type Point struct {
	X, Y int
}

// Grid represents one generation of the board in a single row-major buffer
type Grid struct {
	width  int
	height int
	torus  bool
	cells  []bool
}

// NewGrid creates a new grid with the specified dimensions and edge mode
func NewGrid(width, height int, torus bool) *Grid {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return &Grid{
		width:  width,
		height: height,
		torus:  torus,
		cells:  make([]bool, width*height),
	}
}

// GetWidth returns the width of the grid
func (g *Grid) GetWidth() int {
	return g.width
}

// GetHeight returns the height of the grid
func (g *Grid) GetHeight() int {
	return g.height
}

func (g *Grid) index(x, y int) int {
	return y*g.width + x
}

// Clear clears all cells
func (g *Grid) Clear() {
	clear(g.cells)
}

// CopyFrom overwrites every cell with the matching cell of src.
// Both grids must share dimensions.
func (g *Grid) CopyFrom(src *Grid) {
	copy(g.cells, src.cells)
}

// Set sets a cell to alive (true) or dead (false)
func (g *Grid) Set(x, y int, alive bool) {
	if x >= 0 && x < g.width && y >= 0 && y < g.height {
		g.cells[g.index(x, y)] = alive
	}
}

// Get returns the state of a cell
func (g *Grid) Get(x, y int) bool {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return false
	}
	return g.cells[g.index(x, y)]
}

// Wrap maps any coordinate onto the grid modulo its dimensions
func (g *Grid) Wrap(x, y int) (int, int) {
	x = (x%g.width + g.width) % g.width
	y = (y%g.height + g.height) % g.height
	return x, y
}

// NeighborCount counts the living cells of the Moore neighborhood of (x, y).
// On a torus offsets wrap to the opposite edge, otherwise cells past the
// boundary are left out of the sum.
func (g *Grid) NeighborCount(x, y int) int {
	if g.torus {
		return g.countWrapped(x, y)
	}
	return g.countBounded(x, y)
}

func (g *Grid) countWrapped(x, y int) int {
	count := 0
	for dy := -1; dy <= 1; dy++ {
		ny := (y + dy + g.height) % g.height
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx := (x + dx + g.width) % g.width
			if g.cells[g.index(nx, ny)] {
				count++
			}
		}
	}
	return count
}

func (g *Grid) countBounded(x, y int) int {
	count := 0

	minX := max(0, x-1)
	maxX := min(g.width-1, x+1)
	minY := max(0, y-1)
	maxY := min(g.height-1, y+1)

	for ny := minY; ny <= maxY; ny++ {
		for nx := minX; nx <= maxX; nx++ {
			if nx == x && ny == y {
				continue
			}
			if g.cells[g.index(nx, ny)] {
				count++
			}
		}
	}

	return count
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() (count int) {
	for _, alive := range g.cells {
		if alive {
			count++
		}
	}
	return
}

// GetGridHash returns an MD5 hash of the current grid state
func (g *Grid) GetGridHash() string {
	h := md5.New()
	buf := make([]byte, len(g.cells))
	for i, alive := range g.cells {
		if alive {
			buf[i] = 1
		}
	}
	h.Write(buf)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Randomize sets every cell alive independently with the given probability
func (g *Grid) Randomize(rng *rand.Rand, density float64) {
	for i := range g.cells {
		g.cells[i] = rng.Float64() < density
	}
}

// Stamp sets every offset of pattern, relative to anchor, alive.
// Positions past an edge wrap onto the opposite side.
func (g *Grid) Stamp(anchor Point, pattern []Point) {
	for _, p := range pattern {
		x, y := g.Wrap(anchor.X+p.X, anchor.Y+p.Y)
		g.cells[g.index(x, y)] = true
	}
}

// history keeps recent grid hashes to spot static or cycling boards
type history struct {
	hashes []string
}

// push records a hash and reports whether it matches one of the last three
func (h *history) push(hash string) bool {
	repeat := false
	for i := len(h.hashes) - 1; i >= 0 && i >= len(h.hashes)-3; i-- {
		if h.hashes[i] == hash {
			repeat = true
			break
		}
	}

	h.hashes = append(h.hashes, hash)
	if len(h.hashes) > historySize {
		h.hashes = h.hashes[1:]
	}
	return repeat
}
