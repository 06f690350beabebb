package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	sim "github.com/mmc-sim/mmc-sim/sim"
)

// ParamsFile represents a YAML parameter file.
// All fields are listed to satisfy KnownFields(true) strict parsing.
type ParamsFile struct {
	Lambda           float64 `yaml:"lambda"`
	Mu               float64 `yaml:"mu"`
	Servers          int     `yaml:"servers"`
	Events           int     `yaml:"events"`
	Seed             *int64  `yaml:"seed,omitempty"`
	ScheduleCapacity int     `yaml:"schedule_capacity,omitempty"`
}

// Params is a loaded parameter set: the engine config plus an optional seed.
type Params struct {
	Config sim.Config
	Seed   *int64
}

// LoadParams reads a parameter file. Files ending in .yaml or .yml are
// decoded strictly as ParamsFile; anything else is read as four
// whitespace-separated values in the order lambda, mu, servers, events.
func LoadParams(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, fmt.Errorf("reading parameter file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAMLParams(data)
	default:
		return parseTextParams(data)
	}
}

func parseYAMLParams(data []byte) (Params, error) {
	// Parse YAML with strict field checking: typos must cause errors
	var pf ParamsFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&pf); err != nil {
		return Params{}, fmt.Errorf("parsing parameter YAML: %w", err)
	}
	cfg := sim.NewConfig(pf.Lambda, pf.Mu, pf.Servers, pf.Events)
	cfg.ScheduleCapacity = pf.ScheduleCapacity
	return Params{Config: cfg, Seed: pf.Seed}, nil
}

func parseTextParams(data []byte) (Params, error) {
	var (
		lambda, mu      float64
		servers, events int
	)
	n, err := fmt.Fscan(bytes.NewReader(data), &lambda, &mu, &servers, &events)
	if err != nil {
		return Params{}, fmt.Errorf("parsing parameter file: read %d of 4 values (lambda mu servers events): %w", n, err)
	}
	return Params{Config: sim.NewConfig(lambda, mu, servers, events)}, nil
}
