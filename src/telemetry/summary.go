package telemetry

import (
	"fmt"
	"os"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"
)

// Summary describes the population over a run.
type Summary struct {
	Generations    int     `yaml:"generations"`
	MeanPopulation float64 `yaml:"mean_population"`
	StdPopulation  float64 `yaml:"std_population"`
	MinPopulation  float64 `yaml:"min_population"`
	P50Population  float64 `yaml:"p50_population"`
	MaxPopulation  float64 `yaml:"max_population"`
	MeanTurnover   float64 `yaml:"mean_turnover"` // births + deaths per generation
}

// Summarize computes the summary from the population and turnover series.
func Summarize(population []float64, turnover []float64) Summary {
	s := Summary{Generations: len(population)}
	if len(population) == 0 {
		return s
	}
	sorted := append([]float64(nil), population...)
	sort.Float64s(sorted)

	s.MeanPopulation, s.StdPopulation = stat.MeanStdDev(population, nil)
	if len(population) < 2 {
		s.StdPopulation = 0
	}
	s.MinPopulation = sorted[0]
	s.MaxPopulation = sorted[len(sorted)-1]
	s.P50Population = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	if len(turnover) > 0 {
		s.MeanTurnover = stat.Mean(turnover, nil)
	}
	return s
}

// WriteYAML writes the summary to path.
func (s Summary) WriteYAML(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}
