/*
	Package universe implements the toroidal Game of Life grid
	The state is bit-packed: linear cell i = row*width + col is bit i%8 (LSB first) of byte i/8
	Every generation is computed into the scratch buffer which is swapped with the current one afterwards
*/
package universe

import (
	"fmt"
	"math/rand"
	"time"

	"packedlife/src/shapes"
)

//Coord is the cell position
type Coord struct {
	Row int
	Col int
}

//Options represents the optional construction parameters
type Options struct {
	Workers int        //the number of goroutines used by Tick, 0 or 1 means sequential
	Rand    *rand.Rand //the source for the FiftyFifty strategy, seeded from the clock when nil
}

type Universe struct {
	width   int
	height  int
	cells   []byte
	scratch []byte
	workers int
	bands   []band
	rnd     *rand.Rand
}

//neighborOffsets is the Neighbors mask unpacked once
var neighborOffsets = func() []Coord {
	offsets := make([]Coord, 0, 8)
	shapes.Neighbors.Each(func(dRow int, dCol int, alive bool) {
		if alive {
			offsets = append(offsets, Coord{dRow, dCol})
		}
	})
	return offsets
}()

//New creates the sequential universe, all cells are dead
func New(width int, height int) *Universe {
	return NewWithOptions(width, height, Options{})
}

//NewWithOptions creates the universe, all cells are dead
//zero width or height gives the valid universe without cells
func NewWithOptions(width int, height int, o Options) *Universe {
	u := &Universe{workers: o.Workers, rnd: o.Rand}
	if u.rnd == nil {
		u.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	u.resize(width, height)
	return u
}

func (u *Universe) Width() int {
	return u.width
}

func (u *Universe) Height() int {
	return u.height
}

//Cells returns the packed cell buffer
//the slice is the universe's own storage: read it, never write it
func (u *Universe) Cells() []byte {
	return u.cells
}

//Cell reports whether the cell at row, col is alive
func (u *Universe) Cell(row int, col int) bool {
	u.checkBounds("Cell", row, col)
	return getBit(u.cells, u.Index(row, col))
}

//Index returns the linear index of the cell
func (u *Universe) Index(row int, col int) int {
	return row*u.width + col
}

//LiveCells returns the count of live cells
func (u *Universe) LiveCells() int {
	return popCount(u.cells)
}

//SetWidth changes the width and kills all cells
func (u *Universe) SetWidth(width int) {
	u.resize(width, u.height)
}

//SetHeight changes the height and kills all cells
func (u *Universe) SetHeight(height int) {
	u.resize(u.width, height)
}

//Init overwrites every cell using the seeding strategy
func (u *Universe) Init(s Strategy) {
	for i := 0; i < u.width*u.height; i++ {
		setBit(u.cells, i, u.alive(s, i))
	}
}

//SetCells makes the listed cells alive, other cells are left as is
//coordinates outside the grid are not wrapped: it panics
func (u *Universe) SetCells(cells []Coord) {
	for _, c := range cells {
		u.checkBounds("SetCells", c.Row, c.Col)
		setBit(u.cells, u.Index(c.Row, c.Col), true)
	}
}

//ToggleCell inverts the state of one cell
func (u *Universe) ToggleCell(row int, col int) {
	u.checkBounds("ToggleCell", row, col)
	i := u.Index(row, col)
	setBit(u.cells, i, !getBit(u.cells, i))
}

//DrawObject stamps the shape so that its anchor lands on row, col
//the whole footprint is overwritten, dead bitmap cells kill the cells under them
//every destination wraps around both edges
func (u *Universe) DrawObject(id shapes.ID, row int, col int) {
	if u.width == 0 || u.height == 0 {
		return
	}
	shapes.Lookup(id).Each(func(dRow int, dCol int, alive bool) {
		setBit(u.cells, u.deltaIndex(row, col, dRow, dCol), alive)
	})
}

//LiveNeighborCount counts live cells among the 8 wrapped neighbors
func (u *Universe) LiveNeighborCount(row int, col int) int {
	u.checkBounds("LiveNeighborCount", row, col)
	n := 0
	for _, d := range neighborOffsets {
		if getBit(u.cells, u.deltaIndex(row, col, d.Row, d.Col)) {
			n++
		}
	}
	return n
}

//deltaIndex returns the index of the cell shifted by dRow, dCol with wraparound
func (u *Universe) deltaIndex(row int, col int, dRow int, dCol int) int {
	return u.Index(wrap(row+dRow, u.height), wrap(col+dCol, u.width))
}

func (u *Universe) checkBounds(op string, row int, col int) {
	if row < 0 || col < 0 || row >= u.height || col >= u.width {
		panic(fmt.Sprintf("universe: %s: cell (%d,%d) outside %dx%d grid", op, row, col, u.width, u.height))
	}
}

//resize allocates both buffers for the new dimension, all cells become dead
func (u *Universe) resize(width int, height int) {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("universe: negative dimension %dx%d", width, height))
	}
	u.width = width
	u.height = height
	size := bufLen(width * height)
	u.cells = make([]byte, size)
	u.scratch = make([]byte, size)
	u.splitBands()
}
