package engine

import (
	"bytes"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"packedlife/src/shapes"
	"packedlife/src/universe"
)

func newTestEngine(width int, height int, maxSteps int) (*Engine, chan Status) {
	o := DefaultOptions
	o.Width = width
	o.Height = height
	o.Interval = 0
	o.MaxSteps = maxSteps
	stateCh := make(chan Status, 10)
	return New(&o, stateCh), stateCh
}

//barrier waits until every command queued before it is executed
func barrier(e *Engine) {
	done := make(chan struct{})
	e.do(func() { close(done) })
	<-done
}

func waitFor(t *testing.T, stateCh chan Status, mode RunningState) Status {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case st := <-stateCh:
			if st.RunningMode == mode {
				return st
			}
		case <-timeout:
			t.Fatalf("timeout waiting for %v", mode)
		}
	}
}

func TestStep(t *testing.T) {
	e, stateCh := newTestEngine(6, 6, 0)
	defer e.Close()
	if err := e.SettleTemplate("glider"); err != nil {
		t.Fatal(err)
	}
	e.Step()
	st := waitFor(t, stateCh, RunningStateManual)
	if st.Generation != 1 || st.LiveCells != 5 || st.Births != 2 || st.Deaths != 2 {
		t.Errorf("status = %+v", st)
	}

	want := universe.New(6, 6)
	want.SetCells([]universe.Coord{{Row: 2, Col: 1}, {Row: 2, Col: 3}, {Row: 3, Col: 2}, {Row: 3, Col: 3}, {Row: 4, Col: 2}})
	if f := e.Snapshot(); !bytes.Equal(f.Cells, want.Cells()) || f.Width != 6 || f.Height != 6 {
		t.Errorf("snapshot = %+v", f)
	}
}

func TestRunFinishesOnStillLife(t *testing.T) {
	e, stateCh := newTestEngine(16, 16, 0)
	defer e.Close()
	if err := e.SettleTemplate("testSample"); err != nil {
		t.Fatal(err)
	}
	e.Run()
	st := waitFor(t, stateCh, RunningStateFinished)
	if st.Generation != 19 || st.LiveCells != 4 {
		t.Errorf("status = %+v", st)
	}
}

func TestRunFinishesOnMaxSteps(t *testing.T) {
	e, stateCh := newTestEngine(16, 16, 10)
	defer e.Close()
	e.DrawObject(shapes.Glider, 4, 4)
	e.Run()
	st := waitFor(t, stateCh, RunningStateFinished)
	if st.Generation != 10 || st.LiveCells != 5 {
		t.Errorf("status = %+v", st)
	}
}

func TestRunFinishesWhenEmpty(t *testing.T) {
	e, stateCh := newTestEngine(8, 8, 0)
	defer e.Close()
	e.Settle([]universe.Coord{{Row: 3, Col: 3}})
	e.Run()
	st := waitFor(t, stateCh, RunningStateFinished)
	if st.Generation != 1 || st.LiveCells != 0 || st.Deaths != 1 {
		t.Errorf("status = %+v", st)
	}
}

func TestStop(t *testing.T) {
	o := DefaultOptions
	o.Width, o.Height = 32, 32
	o.Interval = time.Millisecond
	o.MaxSteps = 0
	stateCh := make(chan Status, 10)
	e := New(&o, stateCh)
	defer e.Close()
	e.DrawObject(shapes.Pulsar, 16, 16)
	e.Run()
	waitFor(t, stateCh, RunningStateRun)
	e.Stop()
	waitFor(t, stateCh, RunningStateManual)
	barrier(e)
	if mode := e.Status().RunningMode; mode != RunningStateManual {
		t.Errorf("mode = %v", mode)
	}
}

func TestClear(t *testing.T) {
	e, stateCh := newTestEngine(10, 10, 0)
	defer e.Close()
	e.Init(universe.Deterministic)
	e.Step()
	waitFor(t, stateCh, RunningStateManual)
	e.Clear()
	st := waitFor(t, stateCh, RunningStateManual)
	if st.Generation != 0 || st.LiveCells != 0 {
		t.Errorf("status = %+v", st)
	}
	for _, b := range e.Snapshot().Cells {
		if b != 0 {
			t.Fatalf("cells not cleared")
		}
	}
}

func TestMutations(t *testing.T) {
	e, _ := newTestEngine(10, 10, 0)
	defer e.Close()
	e.ToggleCell(2, 3)
	e.ToggleCell(10, 3)
	e.ToggleCell(-1, 0)
	e.Settle([]universe.Coord{{Row: 9, Col: 9}, {Row: 12, Col: 0}})
	barrier(e)
	f := e.Snapshot()
	if !f.Alive(2, 3) || !f.Alive(9, 9) || e.Status().LiveCells != 2 {
		t.Errorf("live = %d", e.Status().LiveCells)
	}

	e.Init(universe.Deterministic)
	barrier(e)
	ref := universe.New(10, 10)
	ref.Init(universe.Deterministic)
	if !bytes.Equal(e.Snapshot().Cells, ref.Cells()) {
		t.Errorf("Init did not seed deterministically")
	}
}

func TestResize(t *testing.T) {
	e, stateCh := newTestEngine(10, 10, 0)
	defer e.Close()
	e.Init(universe.Deterministic)
	e.Resize(20, 5)
	waitFor(t, stateCh, RunningStateManual)
	f := e.Snapshot()
	if f.Width != 20 || f.Height != 5 || len(f.Cells) != 13 {
		t.Errorf("frame = %dx%d/%d", f.Width, f.Height, len(f.Cells))
	}
	for _, b := range f.Cells {
		if b != 0 {
			t.Fatalf("cells survived resize")
		}
	}
	if o := e.Options(); o.Width != 20 || o.Height != 5 {
		t.Errorf("options = %dx%d", o.Width, o.Height)
	}
	e.DrawObject(shapes.Glider, 0, 0)
	e.Step()
	st := waitFor(t, stateCh, RunningStateManual)
	if st.LiveCells != 5 {
		t.Errorf("glider after resize: %+v", st)
	}
}

func TestResizeIgnoresNegative(t *testing.T) {
	e, stateCh := newTestEngine(10, 8, 0)
	defer e.Close()
	e.Resize(-1, 5)
	e.Resize(5, -1)
	barrier(e)
	if f := e.Snapshot(); f.Width != 10 || f.Height != 8 {
		t.Errorf("frame = %dx%d", f.Width, f.Height)
	}
	if o := e.Options(); o.Width != 10 || o.Height != 8 {
		t.Errorf("options = %dx%d", o.Width, o.Height)
	}
	e.DrawObject(shapes.Glider, 2, 2)
	e.Step()
	if st := waitFor(t, stateCh, RunningStateManual); st.Generation != 1 || st.LiveCells != 5 {
		t.Errorf("status = %+v", st)
	}
}

//slowViewer takes its time in Register and counts the refreshes arriving before it is done
type slowViewer struct {
	registered atomic.Bool
	early      atomic.Int32
	refreshes  atomic.Int32
}

func (v *slowViewer) Register(s Simulation) {
	time.Sleep(20 * time.Millisecond)
	_ = s.Options()
	v.registered.Store(true)
}

func (v *slowViewer) Refresh() {
	if !v.registered.Load() {
		v.early.Add(1)
	}
	v.refreshes.Add(1)
}

func (v *slowViewer) Start() {}

func TestRegisterViewerAfterSeeding(t *testing.T) {
	e, stateCh := newTestEngine(500, 500, 0)
	defer e.Close()
	e.Init(universe.FiftyFifty)
	e.Init(universe.Deterministic)
	e.DrawObject(shapes.Pulsar, 20, 20)

	v := &slowViewer{}
	e.RegisterViewer(v)
	if !v.registered.Load() {
		t.Fatal("RegisterViewer returned before Register")
	}
	e.AddObserver(func(prev Frame, next Frame, st Status) {})
	e.Step()
	waitFor(t, stateCh, RunningStateManual)
	if n := v.early.Load(); n != 0 {
		t.Errorf("%d refreshes before Register", n)
	}
	if v.refreshes.Load() == 0 {
		t.Errorf("viewer never refreshed")
	}
}

func TestObserver(t *testing.T) {
	e, stateCh := newTestEngine(6, 6, 0)
	defer e.Close()
	var gotPrev, gotNext []byte
	var gotStatus Status
	e.AddObserver(func(prev Frame, next Frame, st Status) {
		gotPrev = append([]byte(nil), prev.Cells...)
		gotNext = append([]byte(nil), next.Cells...)
		gotStatus = st
	})
	e.Settle([]universe.Coord{{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}})
	barrier(e)
	before := e.Snapshot().Cells
	e.Step()
	waitFor(t, stateCh, RunningStateManual)
	if !bytes.Equal(gotPrev, before) || !bytes.Equal(gotNext, e.Snapshot().Cells) {
		t.Errorf("observer frames do not match")
	}
	if gotStatus.Generation != 1 || gotStatus.Births != 2 || gotStatus.Deaths != 2 {
		t.Errorf("observer status = %+v", gotStatus)
	}
}

func TestSettleTemplateUnknown(t *testing.T) {
	e, _ := newTestEngine(6, 6, 0)
	defer e.Close()
	if err := e.SettleTemplate("nope"); !errors.Is(err, ErrUnknownTemplate) {
		t.Errorf("err = %v", err)
	}
	e.AddTemplate(Template{Name: "corner", Cells: []universe.Coord{{Row: 5, Col: 5}}})
	if err := e.SettleTemplate("corner"); err != nil {
		t.Errorf("err = %v", err)
	}
	barrier(e)
	if !e.Snapshot().Alive(5, 5) {
		t.Errorf("template was not settled")
	}
}

func TestCloseDropsCommands(t *testing.T) {
	e, _ := newTestEngine(6, 6, 0)
	e.Close()
	e.Close()
	done := make(chan struct{})
	go func() {
		e.Step()
		e.Run()
		e.Clear()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("commands block after Close")
	}
}

func TestParallelOptions(t *testing.T) {
	o := DefaultOptions
	o.Width, o.Height, o.Workers = 64, 64, 4
	e := New(&o, nil)
	defer e.Close()
	if got := e.Options().Advanced["engine"]; got != "parallel" {
		t.Errorf("engine = %v", got)
	}
	if DefaultOptions.Advanced != nil {
		t.Errorf("New modified DefaultOptions")
	}
}

func TestDiff(t *testing.T) {
	births, deaths := diff([]byte{0b1100, 0xFF}, []byte{0b1010, 0x0F})
	if births != 1 || deaths != 5 {
		t.Errorf("diff = %d, %d", births, deaths)
	}
}
