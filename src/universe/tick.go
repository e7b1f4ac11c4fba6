package universe

//Tick advances the universe by one generation
//the next state is written to the scratch buffer only, neighbors are always read from the previous generation
func (u *Universe) Tick() {
	if len(u.bands) > 1 {
		u.tickParallel()
	} else {
		u.tickRows(0, u.height)
	}
	u.cells, u.scratch = u.scratch, u.cells
}

//tickRows calculates rows [y1, y2) into the scratch buffer
func (u *Universe) tickRows(y1 int, y2 int) {
	for row := y1; row < y2; row++ {
		for col := 0; col < u.width; col++ {
			i := u.Index(row, col)
			setBit(u.scratch, i, nextState(getBit(u.cells, i), u.LiveNeighborCount(row, col)))
		}
	}
}

//nextState applies B3/S23
func nextState(alive bool, liveNeighbors int) bool {
	switch {
	case alive && liveNeighbors < 2:
		//underpopulation
		return false
	case alive && (liveNeighbors == 2 || liveNeighbors == 3):
		return true
	case alive && liveNeighbors > 3:
		//overpopulation
		return false
	case !alive && liveNeighbors == 3:
		//reproduction
		return true
	}
	return alive
}
