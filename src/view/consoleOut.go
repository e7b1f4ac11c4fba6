package view

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/logrusorgru/aurora"

	"packedlife/src/engine"
)

//ConsoleOut prints the progress of a headless run
type ConsoleOut struct {
	mu            sync.Mutex
	s             engine.Simulation
	startTime     time.Time
	progressEvery int
	lastReported  int
}

func NewConsoleOut(progressEvery int) *ConsoleOut {
	if progressEvery < 1 {
		progressEvery = 10
	}
	return &ConsoleOut{progressEvery: progressEvery}
}

func (c *ConsoleOut) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.s.Status()
	if st.RunningMode == engine.RunningStateFinished {
		if c.lastReported == -1 {
			return
		}
		c.lastReported = -1
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		resultData := map[string]interface{}{
			"Last generation": st.Generation,
			"Total time":      totalTime,
			"Live cells":      st.LiveCells,
		}
		fmt.Println(aurora.Red("\nFinished:"))
		c.printHashData(resultData)
	} else if st.RunningMode == engine.RunningStateRun {
		if st.Generation%c.progressEvery == 0 && st.Generation != c.lastReported {
			c.lastReported = st.Generation
			fmt.Printf("  Generations done: %v, live cells: %v\n", st.Generation, st.LiveCells)
		}
	}
}

func (c *ConsoleOut) Register(s engine.Simulation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s = s
	o := s.Options()
	fmt.Println(aurora.Green("Running configuration:"))
	fmt.Printf("  Dimension: %v x %v\n", o.Width, o.Height)
	fmt.Printf("  Interval: %v\n", o.Interval)
	fmt.Printf("  Max generations: %v steps\n", o.MaxSteps)
	c.printHashData(o.Advanced)
}

func (c *ConsoleOut) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startTime = time.Now()
	c.lastReported = 0
	fmt.Println(aurora.Cyan("\nSimulation started..."))
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		fmt.Printf("  %s: %v\n", propName, d[propName])
	}
}
