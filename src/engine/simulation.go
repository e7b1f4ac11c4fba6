package engine

import (
	"packedlife/src/shapes"
	"packedlife/src/universe"
)

//Simulation is the control surface used by the viewers
type Simulation interface {
	Status() Status
	Options() Options
	Snapshot() Frame
	StateCh() chan Status
	AddTemplate(tmpl Template)
	SettleTemplate(name string) error
	Settle(cells []universe.Coord)
	Init(s universe.Strategy)
	ToggleCell(row int, col int)
	DrawObject(id shapes.ID, row int, col int)
	Resize(width int, height int)
	RegisterViewer(v Viewer)
	Run()
	Stop()
	Step()
	Clear()
	Close()
}

var _ Simulation = (*Engine)(nil)
