// Package telemetry records per-generation statistics of a running engine.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gocarina/gocsv"

	"packedlife/src/config"
	"packedlife/src/engine"
)

// GenerationRecord is one row of generations.csv.
type GenerationRecord struct {
	Generation int   `csv:"generation"`
	Population int   `csv:"population"`
	Births     int   `csv:"births"`
	Deaths     int   `csv:"deaths"`
	TickMicros int64 `csv:"tick_us"`
}

// Recorder collects generation records, optionally streaming them to CSV.
// Observe is called from the engine loop; the other methods may be called from any goroutine.
type Recorder struct {
	mu            sync.Mutex
	every         int
	dir           string
	file          *os.File
	headerWritten bool
	population    []float64
	turnover      []float64
	err           error
}

// NewRecorder creates a recorder keeping every n-th generation.
// With an empty dir nothing is written to disk but the summary is still collected.
func NewRecorder(dir string, every int) (*Recorder, error) {
	if every < 1 {
		every = 1
	}
	r := &Recorder{every: every, dir: dir}
	if dir == "" {
		return r, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "generations.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating generations.csv: %w", err)
	}
	r.file = f
	return r, nil
}

// Attach registers the recorder as the engine observer.
func (r *Recorder) Attach(e *engine.Engine) {
	e.AddObserver(r.Observe)
}

// Observe is the engine.Observer.
func (r *Recorder) Observe(_ engine.Frame, _ engine.Frame, st engine.Status) {
	if st.Generation%r.every != 0 {
		return
	}
	rec := GenerationRecord{
		Generation: st.Generation,
		Population: st.LiveCells,
		Births:     st.Births,
		Deaths:     st.Deaths,
		TickMicros: st.IterationTime.Microseconds(),
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.population = append(r.population, float64(rec.Population))
	r.turnover = append(r.turnover, float64(rec.Births+rec.Deaths))
	if err := r.write(rec); err != nil && r.err == nil {
		r.err = err
	}
}

func (r *Recorder) write(rec GenerationRecord) error {
	if r.file == nil {
		return nil
	}
	records := []GenerationRecord{rec}
	if !r.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, r.file); err != nil {
			return fmt.Errorf("writing generations: %w", err)
		}
		r.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, r.file); err != nil {
		return fmt.Errorf("writing generations: %w", err)
	}
	return nil
}

// Summary computes the statistics of the recorded generations.
func (r *Recorder) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Summarize(r.population, r.turnover)
}

// WriteConfig saves the effective configuration next to the CSV.
func (r *Recorder) WriteConfig(cfg *config.Config) error {
	if r.dir == "" {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(r.dir, "config.yaml"))
}

// Dir returns the output directory path.
func (r *Recorder) Dir() string {
	return r.dir
}

// Close writes summary.yaml and closes the CSV, returning the first write error.
func (r *Recorder) Close() error {
	r.mu.Lock()
	firstErr := r.err
	f := r.file
	r.file = nil
	r.mu.Unlock()
	if f == nil {
		return firstErr
	}
	if err := r.Summary().WriteYAML(filepath.Join(r.dir, "summary.yaml")); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := f.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
