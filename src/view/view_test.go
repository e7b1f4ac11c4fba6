package view

import (
	"strings"
	"testing"
	"time"

	"packedlife/src/engine"
	"packedlife/src/shapes"
	"packedlife/src/universe"
)

func TestHelpLine(t *testing.T) {
	k := []keyBindings{{name: "N", descr: "Next step"}, {name: "R", descr: "Run"}}
	got := helpLine(k)
	if !strings.Contains(got, "Next step") || !strings.Contains(got, "Run") || strings.Count(got, ", ") != 1 {
		t.Errorf("helpLine = %q", got)
	}
}

func TestConsoleOutFollowsRun(t *testing.T) {
	o := engine.DefaultOptions
	o.Width, o.Height, o.Interval, o.MaxSteps = 16, 16, 0, 25
	stateCh := make(chan engine.Status, 10)
	e := engine.New(&o, stateCh)
	defer e.Close()

	if err := e.SettleTemplate("glider"); err != nil {
		t.Fatal(err)
	}
	e.Init(universe.Empty)
	e.DrawObject(shapes.Glider, 4, 4)
	c := NewConsoleOut(10)
	e.RegisterViewer(c)
	c.Start()
	e.Run()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case st := <-stateCh:
			if st.RunningMode != engine.RunningStateFinished {
				continue
			}
			if st.Generation != 25 {
				t.Errorf("generation = %d", st.Generation)
			}
			return
		case <-timeout:
			t.Fatal("run timeout")
		}
	}
}
