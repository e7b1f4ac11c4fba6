package universe

import "sync"

/*
	Multithreaded tick
	the field is split into horizontal bands each of which is computed by an individual goroutine
	every band starts on a byte boundary so the bands write disjoint bytes of the scratch buffer
*/

const (
	DefMinRowsPerWorker = 3 //minimum rows for one worker
)

//band describes the rows [y1, y2) calculated by one worker
type band struct {
	y1 int
	y2 int
}

//Workers returns the number of bands the tick is split into, 1 for sequential
func (u *Universe) Workers() int {
	if len(u.bands) > 1 {
		return len(u.bands)
	}
	return 1
}

//splitBands prepares the bands for the current dimension
func (u *Universe) splitBands() {
	u.bands = u.bands[:0]
	if u.workers < 2 || u.width == 0 || u.height == 0 {
		return
	}
	//the number of rows whose cells fill whole bytes
	align := 8 / gcd(u.width, 8)

	rowsPerWorker := u.height / u.workers
	if rowsPerWorker < DefMinRowsPerWorker {
		rowsPerWorker = DefMinRowsPerWorker
	} else if rowsPerWorker*u.workers < u.height {
		rowsPerWorker++
	}
	rowsPerWorker = (rowsPerWorker + align - 1) / align * align

	for y1 := 0; y1 < u.height; y1 += rowsPerWorker {
		y2 := y1 + rowsPerWorker
		if y2 > u.height {
			y2 = u.height
		}
		u.bands = append(u.bands, band{y1, y2})
	}
	if len(u.bands) < 2 {
		u.bands = u.bands[:0]
	}
}

//tickParallel starts a goroutine per band and waits for all of them
//the cells buffer is only read until every band is done
func (u *Universe) tickParallel() {
	var waitGroup sync.WaitGroup
	for _, b := range u.bands {
		waitGroup.Add(1)
		go func(b band) {
			defer waitGroup.Done()
			u.tickRows(b.y1, b.y2)
		}(b)
	}
	waitGroup.Wait()
}
