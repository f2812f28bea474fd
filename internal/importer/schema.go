package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// PlanSchema is the top-level JSON structure for plan import. Authors
// reference disciplines, topics and simulados by ref strings; Convert
// maps them to real ids.
type PlanSchema struct {
	Plan        PlanImport         `json:"plan"`
	Disciplines []DisciplineImport `json:"disciplines"`
	Simulados   []SimuladoImport   `json:"simulados,omitempty"`
	Cycles      []CycleImport      `json:"cycles"`
}

// PlanImport defines the plan-level fields in the import file.
type PlanImport struct {
	ShortID string `json:"short_id"`
	Name    string `json:"name"`
}

// DisciplineImport defines a discipline with its nested topics.
type DisciplineImport struct {
	Ref    string        `json:"ref"`
	Name   string        `json:"name"`
	Color  string        `json:"color,omitempty"`
	Topics []TopicImport `json:"topics"`
}

// TopicImport defines a topic with its nested goals.
type TopicImport struct {
	Ref   string       `json:"ref"`
	Name  string       `json:"name"`
	Goals []GoalImport `json:"goals"`
}

// GoalImport defines one study goal under a topic.
type GoalImport struct {
	Title           string `json:"title"`
	Type            string `json:"type"`
	DurationMin     int    `json:"duration_min"`
	ReviewIntervals string `json:"review_intervals,omitempty"`
}

// SimuladoImport defines a mock exam referenced from cycle items.
type SimuladoImport struct {
	Ref         string `json:"ref"`
	Title       string `json:"title"`
	DurationMin int    `json:"duration_min"`
}

// CycleImport defines one ordered pass of the curriculum.
type CycleImport struct {
	Name  string            `json:"name"`
	Items []CycleItemImport `json:"items"`
}

// CycleItemImport is either a topic reference or a simulado reference;
// exactly one must be set.
type CycleItemImport struct {
	TopicRef    string `json:"topic_ref,omitempty"`
	SimuladoRef string `json:"simulado_ref,omitempty"`
}

// LoadPlanSchema reads and parses a plan import JSON file.
func LoadPlanSchema(path string) (*PlanSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema PlanSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
