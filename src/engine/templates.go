package engine

import "packedlife/src/universe"

//DefaultTemplates are registered by every new engine
var DefaultTemplates = []Template{
	{
		Name:  "testSample",
		Descr: "collapses into a single block after 18 generations",
		Cells: []universe.Coord{
			{Row: 1, Col: 1}, {Row: 2, Col: 1},
			{Row: 1, Col: 2}, {Row: 2, Col: 2},
			{Row: 3, Col: 3},
			{Row: 2, Col: 4},
			{Row: 3, Col: 4},
			{Row: 3, Col: 5},
		},
	},
	{
		Name:  "glider",
		Descr: "the single glider moving down-right",
		Cells: []universe.Coord{{Row: 1, Col: 2}, {Row: 2, Col: 3}, {Row: 3, Col: 1}, {Row: 3, Col: 2}, {Row: 3, Col: 3}},
	},
	{
		Name:  "blinker",
		Descr: "period 2 oscillator",
		Cells: []universe.Coord{{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}},
	},
	{
		Name:  "block",
		Descr: "still life",
		Cells: []universe.Coord{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 0}, {Row: 1, Col: 1}},
	},
}
