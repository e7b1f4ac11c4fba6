package engine

import (
	"errors"
	"fmt"
	"math/bits"
	"math/rand"
	"sync"
	"time"

	"packedlife/src/shapes"
	"packedlife/src/universe"
)

//Options represents the Engine's configurable options
type Options struct {
	Width           int
	Height          int
	Interval        time.Duration
	MaxSteps        int
	MaxSkippedTicks int
	Workers         int
	Seed            int64                  //seed for the random strategy, 0 means the clock
	Advanced        map[string]interface{} //advanced options (engine specific)
}

//Status represents the status of the Engine at concrete moment
type Status struct {
	Generation    int
	RunningMode   RunningState
	LiveCells     int
	Births        int
	Deaths        int
	IterationTime time.Duration
}

//Frame is the packed cell buffer with its dimension
type Frame struct {
	Width  int
	Height int
	Cells  []byte
}

//Alive reports whether the cell at row, col is alive in the frame
func (f Frame) Alive(row int, col int) bool {
	i := row*f.Width + col
	return f.Cells[i/8]&(1<<uint(i%8)) != 0
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(s Simulation)
	Start()
}

//Observer is called from the engine loop after every generation
//prev and next share the engine's buffers and are valid during the call only
type Observer func(prev Frame, next Frame, st Status)

//Template represent the seeding template which can used to settle the universe with predefined data
type Template struct {
	Name  string          //template name
	Descr string          //template descr
	Cells []universe.Coord //live cells
}

//The engine running status at the concrete moment
type RunningState int

//default options
const (
	DefSimulationInterval = time.Millisecond * 100
	DefMaxSteps           = 1000
	DefWidth              = 64
	DefHeight             = 32
	DefMaxSkippedTicks    = 5
)

const (
	RunningStateManual   RunningState = 0x0
	RunningStateStep     RunningState = 0x1
	RunningStateRun      RunningState = 0x2
	RunningStateFinished RunningState = 0x3
)

var ErrUnknownTemplate = errors.New("unknown template")

var DefaultOptions = Options{
	Width:           DefWidth,
	Height:          DefHeight,
	Interval:        DefSimulationInterval,
	MaxSteps:        DefMaxSteps,
	MaxSkippedTicks: DefMaxSkippedTicks,
}

func (s RunningState) String() string {
	switch s {
	case RunningStateManual:
		return "waiting"
	case RunningStateStep:
		return "step"
	case RunningStateRun:
		return "running"
	case RunningStateFinished:
		return "finished"
	}
	return fmt.Sprintf("RunningState(%d)", int(s))
}

//Engine drives a packed universe
//every mutation is executed by the single mainLoop goroutine in the order of the commands
type Engine struct {
	options Options
	state   struct {
		Status
		sync.Mutex
	}
	area struct {
		*universe.Universe
		prev []byte
		sync.Mutex
	}
	stateCh   chan Status
	views     []Viewer
	observers []Observer
	templates map[string]Template
	controlCh chan func()
	quit      chan struct{}
	closeOnce sync.Once
}

//New creates the Engine instance and starts its loop
//stateCh is optional, when given it must be drained by the caller
func New(o *Options, stateCh chan Status) *Engine {
	if o == nil {
		o = &DefaultOptions
	}
	opts := *o
	opts.Advanced = make(map[string]interface{})

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	if opts.Seed != 0 {
		rnd = rand.New(rand.NewSource(opts.Seed))
	}
	u := universe.NewWithOptions(opts.Width, opts.Height, universe.Options{Workers: opts.Workers, Rand: rnd})
	opts.Advanced["engine"] = "sequential"
	if u.Workers() > 1 {
		opts.Advanced["engine"] = "parallel"
		opts.Advanced["Workers"] = u.Workers()
	}

	e := &Engine{
		options:   opts,
		controlCh: make(chan func(), 1),
		quit:      make(chan struct{}),
		stateCh:   stateCh,
		templates: map[string]Template{},
	}
	e.area.Universe = u
	e.area.prev = make([]byte, len(u.Cells()))
	for _, t := range DefaultTemplates {
		e.AddTemplate(t)
	}
	go e.mainLoop()
	return e
}

//AddTemplate adds the seeding template to the internal storage
//should be called before the engine is shared between goroutines
func (e *Engine) AddTemplate(tmpl Template) {
	e.templates[tmpl.Name] = tmpl
}

//AddObserver registers fn to be called after every generation
//it runs on the engine loop, after the commands queued before it
func (e *Engine) AddObserver(fn Observer) {
	e.await(func() {
		e.observers = append(e.observers, fn)
	})
}

//RegisterViewer registers the viewer - the engine will call the viewer when the state is changed
//the viewer is registered on the engine loop, Refresh is never called before Register returns
func (e *Engine) RegisterViewer(v Viewer) {
	e.await(func() {
		e.views = append(e.views, v)
		v.Register(e)
	})
}

//StateCh returns the channel with the engine's status updates
func (e *Engine) StateCh() chan Status {
	return e.stateCh
}

//Status returns current engine status represented by Status struct
func (e *Engine) Status() Status {
	e.state.Lock()
	defer e.state.Unlock()
	return e.state.Status
}

//Options returns current engine configuration represented by Options struct
func (e *Engine) Options() Options {
	e.state.Lock()
	defer e.state.Unlock()
	return e.options
}

//Snapshot returns the copy of the current universe
func (e *Engine) Snapshot() Frame {
	e.area.Lock()
	defer e.area.Unlock()
	return Frame{
		Width:  e.area.Width(),
		Height: e.area.Height(),
		Cells:  append([]byte(nil), e.area.Cells()...),
	}
}

//Run starts the simulation, returns immediately
func (e *Engine) Run() {
	e.do(e.run)
}

//Stop stops the simulation, returns immediately
//the Status struct will be written the stateCh on finish
func (e *Engine) Stop() {
	e.do(e.stop)
}

//Step does one generation, returns immediately
//the Status struct will be written to the stateCh on start and on finish
func (e *Engine) Step() {
	e.do(e.step)
}

//Clear kills all cells and resets all counters, returns immediately
//the Status struct will be written to the stateCh on finish
func (e *Engine) Clear() {
	e.do(e.clear)
}

//Init reseeds the universe with the strategy, returns immediately
func (e *Engine) Init(s universe.Strategy) {
	e.do(func() {
		e.mutate(func(u *universe.Universe) { u.Init(s) })
	})
}

//ToggleCell inverses the cell state, the coordinates outside the universe are ignored
func (e *Engine) ToggleCell(row int, col int) {
	e.do(func() {
		e.mutate(func(u *universe.Universe) {
			if row < 0 || col < 0 || row >= u.Height() || col >= u.Width() {
				return
			}
			u.ToggleCell(row, col)
		})
	})
}

//DrawObject stamps the shape at row, col
func (e *Engine) DrawObject(id shapes.ID, row int, col int) {
	e.do(func() {
		e.mutate(func(u *universe.Universe) { u.DrawObject(id, row, col) })
	})
}

//Settle makes the cells alive, the cells outside the universe are skipped
func (e *Engine) Settle(cells []universe.Coord) {
	e.do(func() {
		e.mutate(func(u *universe.Universe) { settle(u, cells) })
	})
}

//SettleTemplate populates the universe with the seeding template
func (e *Engine) SettleTemplate(name string) error {
	tmpl, ok := e.templates[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	e.Settle(tmpl.Cells)
	return nil
}

//Resize changes the dimension, all cells die and the counters are reset
//negative dimensions are ignored
func (e *Engine) Resize(width int, height int) {
	if width < 0 || height < 0 {
		return
	}
	e.do(func() {
		e.area.Lock()
		e.area.SetWidth(width)
		e.area.SetHeight(height)
		e.area.prev = make([]byte, len(e.area.Cells()))
		e.area.Unlock()
		e.state.Lock()
		e.options.Width, e.options.Height = width, height
		e.state.Unlock()
		e.clear()
	})
}

//Close stops the main loop, returns immediately
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		close(e.quit)
	})
}

//do queues the command for the main loop, dropped after Close
func (e *Engine) do(cmd func()) {
	select {
	case e.controlCh <- cmd:
	case <-e.quit:
	}
}

//await queues the command and waits until it is executed or the engine is closed
func (e *Engine) await(cmd func()) {
	done := make(chan struct{})
	e.do(func() {
		defer close(done)
		cmd()
	})
	select {
	case <-done:
	case <-e.quit:
	}
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (e *Engine) mainLoop() {
	for {
		select {
		case cmd := <-e.controlCh:
			cmd()
		case <-e.quit:
			return
		}
	}
}

//mutate applies fn to the universe and refreshes the live cells counter and the viewers
func (e *Engine) mutate(fn func(u *universe.Universe)) {
	e.area.Lock()
	fn(e.area.Universe)
	live := e.area.LiveCells()
	e.area.Unlock()
	e.state.Lock()
	e.state.LiveCells = live
	e.state.Unlock()
	e.refreshView()
}

//settle places the live cells, skipping the ones outside the area
func settle(u *universe.Universe, cells []universe.Coord) {
	inside := make([]universe.Coord, 0, len(cells))
	for _, c := range cells {
		if c.Row < 0 || c.Col < 0 || c.Row >= u.Height() || c.Col >= u.Width() {
			continue
		}
		inside = append(inside, c)
	}
	u.SetCells(inside)
}

func (e *Engine) runningMode() RunningState {
	e.state.Lock()
	defer e.state.Unlock()
	return e.state.RunningMode
}

//switchRunningState switch the state of the engine to RunningState
//also writes the new state to the stateCh to signal upper control software
func (e *Engine) switchRunningState(to RunningState) {
	e.state.Lock()
	e.state.RunningMode = to
	st := e.state.Status
	e.state.Unlock()
	if e.stateCh != nil {
		select {
		case e.stateCh <- st:
		case <-e.quit:
		}
	}
}

//run starts the simulation
//simulation will stop on Stop() calling or when the boundary conditions are reached
//a tick is skipped while the previous step is still waiting or calculating
func (e *Engine) run() {
	if mode := e.runningMode(); mode == RunningStateRun {
		return
	}
	e.switchRunningState(RunningStateRun)
	go func() {
		done := make(chan struct{}, 1)
		pending := false
		skipped := 0
		for {
			mode := e.runningMode()
			if mode != RunningStateRun && mode != RunningStateStep {
				return
			}
			if pending {
				select {
				case <-done:
					pending = false
				default:
				}
			}
			if pending {
				skipped++
				if skipped > e.options.MaxSkippedTicks {
					e.do(func() {
						if e.runningMode() == RunningStateRun {
							e.switchRunningState(RunningStateFinished)
						}
					})
					return
				}
			} else {
				skipped = 0
				pending = true
				e.do(func() {
					if e.runningMode() == RunningStateRun {
						e.step()
					}
					done <- struct{}{}
				})
			}
			select {
			case <-e.quit:
				return
			default:
			}
			if e.options.Interval > 0 {
				time.Sleep(e.options.Interval)
			} else {
				select {
				case <-done:
					pending = false
				case <-e.quit:
					return
				}
			}
		}
	}()
}

//stop stops the running cycle
func (e *Engine) stop() {
	if e.runningMode() == RunningStateRun {
		e.switchRunningState(RunningStateManual)
	}
}

//step does the one generation for the entire universe
func (e *Engine) step() {
	finished := false
	rm := e.runningMode()
	if rm == RunningStateFinished {
		rm = RunningStateManual
	}
	defer func() {
		if finished {
			e.switchRunningState(RunningStateFinished)
		} else {
			e.switchRunningState(rm)
		}
		e.refreshView()
	}()

	if e.options.MaxSteps != 0 && e.Status().Generation >= e.options.MaxSteps {
		finished = true
		return
	}
	e.switchRunningState(RunningStateStep)
	isAlive, changed := e.nextGeneration()
	if !isAlive || !changed {
		finished = true
	}
}

//clear kills all cells, reset all counters
func (e *Engine) clear() {
	e.area.Lock()
	e.state.Lock()

	e.area.Init(universe.Empty)
	e.state.Status = Status{RunningMode: RunningStateManual}

	e.state.Unlock()
	e.area.Unlock()
	e.switchRunningState(RunningStateManual)
	e.refreshView()
}

//nextGeneration ticks the universe and updates all related metrics
func (e *Engine) nextGeneration() (hasLiveEntities bool, changed bool) {
	e.area.Lock()
	defer e.area.Unlock()
	copy(e.area.prev, e.area.Cells())
	start := time.Now()
	e.area.Tick()
	elapsed := time.Since(start)

	births, deaths := diff(e.area.prev, e.area.Cells())
	live := e.area.LiveCells()

	e.state.Lock()
	e.state.Generation++
	e.state.LiveCells = live
	e.state.Births = births
	e.state.Deaths = deaths
	e.state.IterationTime = elapsed
	st := e.state.Status
	e.state.Unlock()

	if len(e.observers) > 0 {
		w, h := e.area.Width(), e.area.Height()
		prev := Frame{Width: w, Height: h, Cells: e.area.prev}
		next := Frame{Width: w, Height: h, Cells: e.area.Cells()}
		for _, o := range e.observers {
			o(prev, next, st)
		}
	}
	return live > 0, births+deaths > 0
}

//diff counts the cells which were born and which died between two generations
func diff(prev []byte, next []byte) (births int, deaths int) {
	for i := range next {
		births += bits.OnesCount8(next[i] &^ prev[i])
		deaths += bits.OnesCount8(prev[i] &^ next[i])
	}
	return
}

//refreshView calls Refresh event for all registered views
func (e *Engine) refreshView() {
	for _, v := range e.views {
		v.Refresh()
	}
}
