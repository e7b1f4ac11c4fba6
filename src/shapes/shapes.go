package shapes

import (
	"errors"
	"fmt"
	"strings"
)

//ID identifies one of the predefined shapes which can be stamped onto the universe
type ID int

const (
	Spaceship ID = iota
	Glider
	Pulsar
)

var ErrUnknownShape = errors.New("unknown shape")

//Shape is an immutable rectangular bitmap with the anchor offset
//Pattern is row-major, most significant bit first within each byte
//RowOffset, ColOffset tell where the bitmap's first cell sits relative to the stamp point
type Shape struct {
	Name      string
	RowOffset int
	ColOffset int
	Width     int
	Height    int
	Pattern   []byte
}

var catalog = map[ID]Shape{
	Spaceship: spaceship,
	Glider:    glider,
	Pulsar:    pulsar,
}

var names = map[ID]string{
	Spaceship: "spaceship",
	Glider:    "glider",
	Pulsar:    "pulsar",
}

func init() {
	for _, s := range catalog {
		s.validate()
	}
	Neighbors.validate()
}

func (id ID) String() string {
	if n, ok := names[id]; ok {
		return n
	}
	return fmt.Sprintf("ID(%d)", int(id))
}

//IDs returns the stampable shapes in declaration order
func IDs() []ID {
	return []ID{Spaceship, Glider, Pulsar}
}

//ParseID resolves a shape name (case insensitive)
func ParseID(name string) (ID, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for id, v := range names {
		if v == n {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

//Lookup returns the shape for id, panics if the id is not in the catalog
func Lookup(id ID) Shape {
	s, ok := catalog[id]
	if !ok {
		panic(fmt.Sprintf("shapes: Lookup: %v", id))
	}
	return s
}

//Cells returns the number of cells covered by the bitmap
func (s Shape) Cells() int {
	return s.Width * s.Height
}

//Bit reports the bitmap value of the i-th cell in row-major order
func (s Shape) Bit(i int) bool {
	return s.Pattern[i/8]&(0x80>>uint(i%8)) != 0
}

//Each calls fn for every bitmap cell with its offset from the stamp point
func (s Shape) Each(fn func(dRow int, dCol int, alive bool)) {
	for r := 0; r < s.Height; r++ {
		for c := 0; c < s.Width; c++ {
			fn(r+s.RowOffset, c+s.ColOffset, s.Bit(r*s.Width+c))
		}
	}
}

func (s Shape) validate() {
	if s.Width < 0 || s.Height < 0 || len(s.Pattern)*8 < s.Cells() {
		panic(fmt.Sprintf("shapes: %s: %d bytes cannot hold %dx%d cells", s.Name, len(s.Pattern), s.Width, s.Height))
	}
}
