package graphic

// BrailleBase is the blank braille pattern. Dots are added as bits.
const BrailleBase rune = '⠀'

// braille dot bits by [column][row] inside one cell:
//
//	1 4      0x01  0x08
//	2 5      0x02  0x10
//	3 6      0x04  0x20
//	7 8      0x40  0x80
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// canvas is a grid of braille cells, each two dots wide and four dots tall.
// Every cell remembers which line drew into it last so it can be colored.
type canvas struct {
	width, height int // in cells

	dots  []uint8
	owner []int
	bold  []bool
}

func newCanvas(width, height int) *canvas {
	c := &canvas{}
	c.reset(width, height)
	return c
}

// reset clears the canvas, resizing it when needed.
func (c *canvas) reset(width, height int) {
	if width < 0 {
		width = 0
	}

	if height < 0 {
		height = 0
	}

	c.width, c.height = width, height

	n := width * height
	if cap(c.dots) < n {
		c.dots = make([]uint8, n)
		c.owner = make([]int, n)
		c.bold = make([]bool, n)
	}

	c.dots = c.dots[:n]
	c.owner = c.owner[:n]
	c.bold = c.bold[:n]

	for i := range c.dots {
		c.dots[i] = 0
		c.owner[i] = -1
		c.bold[i] = false
	}
}

// dotsSize returns the canvas size in dots.
func (c *canvas) dotsSize() (int, int) {
	return c.width * 2, c.height * 4
}

// set turns on one dot. Dots outside the canvas are ignored. A highlighted
// line keeps ownership of a cell over lines that are not.
func (c *canvas) set(x, y, line int, highlight bool) {
	if x < 0 || y < 0 || x >= c.width*2 || y >= c.height*4 {
		return
	}

	idx := (y/4)*c.width + x/2
	c.dots[idx] |= brailleBits[x%2][y%4]

	if highlight || !c.bold[idx] {
		c.owner[idx] = line
		c.bold[idx] = highlight
	}
}

// line draws from (x0, y0) to (x1, y1) with Bresenham's algorithm.
func (c *canvas) line(x0, y0, x1, y1, line int, highlight bool) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)

	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}

	if y0 > y1 {
		sy = -1
	}

	err := dx + dy

	for {
		c.set(x0, y0, line, highlight)

		if x0 == x1 && y0 == y1 {
			return
		}

		if e2 := 2 * err; e2 >= dy {
			err += dy
			x0 += sx
		} else {
			err += dx
			y0 += sy
		}
	}
}

// cell returns the braille rune of a cell and the line that owns it, or -1.
func (c *canvas) cell(col, row int) (rune, int) {
	idx := row*c.width + col
	return BrailleBase + rune(c.dots[idx]), c.owner[idx]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
