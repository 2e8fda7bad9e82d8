package viz

import (
	"math"
	"strings"

	"github.com/san-kum/partprop/internal/vec"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a character grid where every cell holds 2x4 Braille dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// SubWidth and SubHeight give the canvas size in dots.
func (c *Canvas) SubWidth() int  { return 2 * c.Width }
func (c *Canvas) SubHeight() int { return 4 * c.Height }

func (c *Canvas) cell(x, y int) (row, col int, mask rune, ok bool) {
	if x < 0 || y < 0 || x >= c.SubWidth() || y >= c.SubHeight() {
		return 0, 0, 0, false
	}
	return y / 4, x / 2, rune(pixelMap[y%4][x%2]), true
}

// Set turns on the dot at (x, y). Dots outside the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if row, col, mask, ok := c.cell(x, y); ok {
		c.Grid[row][col] |= mask
	}
}

func (c *Canvas) IsSet(x, y int) bool {
	row, col, mask, ok := c.cell(x, y)
	return ok && c.Grid[row][col]&mask != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Plane selects the two coordinates a position is projected onto.
type Plane struct {
	Name string
	U, V int
}

var planes = map[string]Plane{
	"xy": {"xy", 0, 1},
	"xz": {"xz", 0, 2},
	"yz": {"yz", 1, 2},
}

func ParsePlane(name string) (Plane, bool) {
	p, ok := planes[name]
	return p, ok
}

// Project returns the in-plane coordinates of v.
func (p Plane) Project(v vec.Vector3) (u, w float64) {
	return v.Elem(p.U), v.Elem(p.V)
}

// Bounds returns the projected bounding box of points, grown to a square
// around its centre so both axes share one scale.
func (p Plane) Bounds(points []vec.Vector3) (minU, minV, size float64) {
	if len(points) == 0 {
		return -1, -1, 2
	}
	loU, loV := math.Inf(1), math.Inf(1)
	hiU, hiV := math.Inf(-1), math.Inf(-1)
	for _, pt := range points {
		u, v := p.Project(pt)
		loU, hiU = min(loU, u), max(hiU, u)
		loV, hiV = min(loV, v), max(hiV, v)
	}
	size = max(hiU-loU, hiV-loV)
	if size == 0 {
		size = max(math.Abs(loU), math.Abs(loV), 1)
	}
	size *= 1.1
	return (loU+hiU)/2 - size/2, (loV+hiV)/2 - size/2, size
}

// ScatterMap plots the projection of points onto a canvas of w x h cells.
// The plane origin is marked with a cross when it is in view.
func ScatterMap(points []vec.Vector3, p Plane, w, h int) *Canvas {
	c := NewCanvas(w, h)
	minU, minV, size := p.Bounds(points)

	toDot := func(u, v float64) (int, int) {
		x := int((u - minU) / size * float64(c.SubWidth()-1))
		y := int((1 - (v-minV)/size) * float64(c.SubHeight()-1))
		return x, y
	}

	if ox, oy := toDot(0, 0); ox >= 0 && ox < c.SubWidth() && oy >= 0 && oy < c.SubHeight() {
		c.DrawLine(ox-2, oy, ox+2, oy)
		c.DrawLine(ox, oy-2, ox, oy+2)
	}
	for _, pt := range points {
		c.Set(toDot(p.Project(pt)))
	}
	return c
}
