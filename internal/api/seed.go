package api

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/impactasaurus/impact/internal/models"
	"github.com/impactasaurus/impact/internal/services"
)

// Seed is a YAML fixture of questionnaires and meetings used to populate a
// fresh store for demos and tests.
type Seed struct {
	OutcomeSets []models.OutcomeSet `yaml:"outcome_sets"`
	Meetings    []models.Meeting    `yaml:"meetings"`
}

func ParseSeed(data []byte) (*Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &s, nil
}

func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return ParseSeed(data)
}

// ApplySeed writes the fixture into store. Completed meetings without
// aggregates get them computed from their answers.
func ApplySeed(store Store, s *Seed) error {
	sets := map[string]models.OutcomeSet{}
	for i := range s.OutcomeSets {
		set := s.OutcomeSets[i]
		if err := store.AddOutcomeSet(&set); err != nil {
			return fmt.Errorf("seed outcome set %s: %w", set.ID, err)
		}
		sets[set.ID] = set
	}
	for i := range s.Meetings {
		m := s.Meetings[i]
		if !m.Incomplete && len(m.Aggregates.Category) == 0 {
			m.OutcomeSet = sets[m.OutcomeSetID]
			m.Aggregates.Category = services.CategoryAggregates(&m)
		}
		if err := store.AddMeeting(&m); err != nil {
			return fmt.Errorf("seed meeting %s: %w", m.ID, err)
		}
	}
	return nil
}
