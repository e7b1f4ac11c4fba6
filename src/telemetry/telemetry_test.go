package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gocarina/gocsv"

	"packedlife/src/config"
	"packedlife/src/engine"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name       string
		population []float64
		turnover   []float64
		want       Summary
	}{
		{"empty", nil, nil, Summary{}},
		{"single", []float64{5}, []float64{4}, Summary{Generations: 1, MeanPopulation: 5, MinPopulation: 5, P50Population: 5, MaxPopulation: 5, MeanTurnover: 4}},
		{
			"series",
			[]float64{2, 4, 4, 4, 5, 5, 7, 9},
			[]float64{1, 1, 2, 2, 3, 3, 4, 4},
			Summary{Generations: 8, MeanPopulation: 5, StdPopulation: math.Sqrt(32.0 / 7), MinPopulation: 2, P50Population: 4, MaxPopulation: 9, MeanTurnover: 2.5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.population, tt.turnover)
			if got.Generations != tt.want.Generations ||
				math.Abs(got.MeanPopulation-tt.want.MeanPopulation) > 1e-9 ||
				math.Abs(got.StdPopulation-tt.want.StdPopulation) > 1e-9 ||
				got.MinPopulation != tt.want.MinPopulation ||
				got.P50Population != tt.want.P50Population ||
				got.MaxPopulation != tt.want.MaxPopulation ||
				math.Abs(got.MeanTurnover-tt.want.MeanTurnover) > 1e-9 {
				t.Errorf("Summarize = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func runGlider(t *testing.T, r *Recorder, steps int) {
	t.Helper()
	o := engine.DefaultOptions
	o.Width, o.Height, o.Interval = 8, 8, 0
	stateCh := make(chan engine.Status, 10)
	e := engine.New(&o, stateCh)
	defer e.Close()
	r.Attach(e)
	if err := e.SettleTemplate("glider"); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < steps; i++ {
		e.Step()
		timeout := time.After(5 * time.Second)
	wait:
		for {
			select {
			case st := <-stateCh:
				if st.RunningMode == engine.RunningStateManual {
					break wait
				}
			case <-timeout:
				t.Fatal("step timeout")
			}
		}
	}
}

func TestRecorderCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	r, err := NewRecorder(dir, 1)
	if err != nil {
		t.Fatal(err)
	}
	runGlider(t, r, 4)
	if err := r.WriteConfig(config.Defaults()); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "generations.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "generation,"); n != 1 {
		t.Errorf("header written %d times", n)
	}
	var records []*GenerationRecord
	if err := gocsv.UnmarshalBytes(data, &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 4 {
		t.Fatalf("records = %d, want 4", len(records))
	}
	for i, rec := range records {
		if rec.Generation != i+1 || rec.Population != 5 {
			t.Errorf("record %d = %+v", i, rec)
		}
	}
	if records[0].Births != 2 || records[0].Deaths != 2 {
		t.Errorf("first record = %+v", records[0])
	}

	for _, name := range []string{"summary.yaml", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestRecorderEvery(t *testing.T) {
	r, err := NewRecorder("", 2)
	if err != nil {
		t.Fatal(err)
	}
	runGlider(t, r, 5)
	s := r.Summary()
	if s.Generations != 2 || s.MeanPopulation != 5 {
		t.Errorf("summary = %+v", s)
	}
	if err := r.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}
