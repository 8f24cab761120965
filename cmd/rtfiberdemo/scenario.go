package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// scenarioTask describes one fiber to admit into the scheduler. The
// "kind" field selects the ScheduleStrategy: "periodic" (fixed period),
// "soft-periodic" (drift-corrected), or "once" (DefaultStrategy).
type scenarioTask struct {
	Name        string        `yaml:"name"`
	Kind        string        `yaml:"kind"`
	Period      time.Duration `yaml:"period"`
	RelDeadline time.Duration `yaml:"rel_deadline"`
	Work        time.Duration `yaml:"work"`
}

// scenario is the root of a demo fixture: a fixed-capacity run of
// scenarioTasks, loaded from YAML per the teacher pack's config-as-data
// convention (yaml.v3 is the pack's own choice for structured fixtures).
type scenario struct {
	Capacity int            `yaml:"capacity"`
	Tasks    []scenarioTask `yaml:"tasks"`
}

func loadScenario(path string) (*scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rtfiberdemo: opening scenario: %w", err)
	}
	defer f.Close()

	var s scenario
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("rtfiberdemo: decoding scenario: %w", err)
	}
	if s.Capacity <= 0 {
		s.Capacity = 32
	}
	return &s, nil
}
