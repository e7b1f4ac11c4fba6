package shapes

//the lightweight-spaceship based "golden head" ship, 10 columns x 13 rows
//
//	....##....
//	...####...
//	..........
//	..######..
//	...####...
//	..........
//	..##..##..
//	##.#..#.##
//	...#..#...
//	..........
//	..........
//	....##....
//	....##....
var spaceship = Shape{
	Name:      "spaceship",
	RowOffset: -6,
	ColOffset: -4,
	Width:     10,
	Height:    13,
	Pattern: []byte{
		0b00001100,
		0b00000111,
		0b10000000,
		0b00000000,
		0b11111100,
		0b00011110,
		0b00000000,
		0b00000011,
		0b00110011,
		0b01001011,
		0b00010010,
		0b00000000,
		0b00000000,
		0b00000000,
		0b00110000,
		0b00001100,
		0b00000000,
	},
}

//period 3 oscillator, centered on the stamp point
var pulsar = Shape{
	Name:      "pulsar",
	RowOffset: -6,
	ColOffset: -6,
	Width:     13,
	Height:    13,
	Pattern: []byte{
		0b00111000,
		0b11100000,
		0b00000000,
		0b00100001,
		0b01000011,
		0b00001010,
		0b00011000,
		0b01010000,
		0b10011100,
		0b01110000,
		0b00000000,
		0b00000111,
		0b00011100,
		0b10000101,
		0b00001100,
		0b00101000,
		0b01100001,
		0b01000010,
		0b00000000,
		0b00000011,
		0b10001110,
		0b00000000,
	},
}

//	..#
//	#.#
//	.##
var glider = Shape{
	Name:      "glider",
	RowOffset: -1,
	ColOffset: -1,
	Width:     3,
	Height:    3,
	Pattern:   []byte{0b00110101, 0b10000000},
}

//Neighbors is the 3x3 mask of the 8 cells around the center, used for neighbor counting
var Neighbors = Shape{
	Name:      "neighbors",
	RowOffset: -1,
	ColOffset: -1,
	Width:     3,
	Height:    3,
	Pattern:   []byte{0b11110111, 0b10000000},
}
