package importer

import (
	"fmt"
	"regexp"

	"github.com/insanusapp/planner/internal/domain"
)

var shortIDPattern = regexp.MustCompile(`^[A-Z]{3,6}[0-9]{2,4}$`)

// ValidatePlanSchema checks the import schema for errors before
// conversion. Returns a slice of all validation errors found.
func ValidatePlanSchema(schema *PlanSchema) []error {
	var errs []error

	errs = append(errs, validatePlan(&schema.Plan)...)

	topicRefs := make(map[string]bool)
	errs = append(errs, validateDisciplines(schema.Disciplines, topicRefs)...)

	simuladoRefs := make(map[string]bool)
	errs = append(errs, validateSimulados(schema.Simulados, simuladoRefs)...)

	errs = append(errs, validateCycles(schema.Cycles, topicRefs, simuladoRefs)...)

	return errs
}

func validatePlan(p *PlanImport) []error {
	var errs []error

	if p.ShortID == "" {
		errs = append(errs, fmt.Errorf("plan.short_id is required"))
	} else if !shortIDPattern.MatchString(p.ShortID) {
		errs = append(errs, fmt.Errorf("plan.short_id: invalid value %q (expected e.g. TRF01)", p.ShortID))
	}
	if p.Name == "" {
		errs = append(errs, fmt.Errorf("plan.name is required"))
	}

	return errs
}

func validateDisciplines(disciplines []DisciplineImport, topicRefs map[string]bool) []error {
	var errs []error

	if len(disciplines) == 0 {
		errs = append(errs, fmt.Errorf("at least one discipline is required"))
	}

	disciplineRefs := make(map[string]bool)
	for i, d := range disciplines {
		prefix := fmt.Sprintf("disciplines[%d]", i)

		if d.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if disciplineRefs[d.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, d.Ref))
		} else {
			disciplineRefs[d.Ref] = true
		}
		if d.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}

		for j, t := range d.Topics {
			tPrefix := fmt.Sprintf("%s.topics[%d]", prefix, j)

			if t.Ref == "" {
				errs = append(errs, fmt.Errorf("%s.ref is required", tPrefix))
			} else if topicRefs[t.Ref] {
				errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", tPrefix, t.Ref))
			} else {
				topicRefs[t.Ref] = true
			}
			if t.Name == "" {
				errs = append(errs, fmt.Errorf("%s.name is required", tPrefix))
			}

			errs = append(errs, validateGoals(tPrefix, t.Goals)...)
		}
	}

	return errs
}

func validateGoals(prefix string, goals []GoalImport) []error {
	var errs []error

	for k, g := range goals {
		gPrefix := fmt.Sprintf("%s.goals[%d]", prefix, k)

		if g.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", gPrefix))
		}
		if g.Type == "" {
			errs = append(errs, fmt.Errorf("%s.type is required", gPrefix))
		} else if !domain.ValidGoalTypes[g.Type] {
			errs = append(errs, fmt.Errorf("%s.type: invalid value %q", gPrefix, g.Type))
		}
		if g.DurationMin < 0 {
			errs = append(errs, fmt.Errorf("%s.duration_min must be >= 0", gPrefix))
		}
	}

	return errs
}

func validateSimulados(simulados []SimuladoImport, simuladoRefs map[string]bool) []error {
	var errs []error

	for i, s := range simulados {
		prefix := fmt.Sprintf("simulados[%d]", i)

		if s.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if simuladoRefs[s.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, s.Ref))
		} else {
			simuladoRefs[s.Ref] = true
		}
		if s.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if s.DurationMin <= 0 {
			errs = append(errs, fmt.Errorf("%s.duration_min must be positive", prefix))
		}
	}

	return errs
}

func validateCycles(cycles []CycleImport, topicRefs, simuladoRefs map[string]bool) []error {
	var errs []error

	if len(cycles) == 0 {
		errs = append(errs, fmt.Errorf("at least one cycle is required"))
	}

	for i, c := range cycles {
		prefix := fmt.Sprintf("cycles[%d]", i)

		if c.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if len(c.Items) == 0 {
			errs = append(errs, fmt.Errorf("%s.items must not be empty", prefix))
		}

		for j, item := range c.Items {
			iPrefix := fmt.Sprintf("%s.items[%d]", prefix, j)

			switch {
			case item.TopicRef != "" && item.SimuladoRef != "":
				errs = append(errs, fmt.Errorf("%s: topic_ref and simulado_ref are mutually exclusive", iPrefix))
			case item.TopicRef == "" && item.SimuladoRef == "":
				errs = append(errs, fmt.Errorf("%s: one of topic_ref or simulado_ref is required", iPrefix))
			case item.TopicRef != "" && !topicRefs[item.TopicRef]:
				errs = append(errs, fmt.Errorf("%s.topic_ref: ref %q not found in disciplines", iPrefix, item.TopicRef))
			case item.SimuladoRef != "" && !simuladoRefs[item.SimuladoRef]:
				errs = append(errs, fmt.Errorf("%s.simulado_ref: ref %q not found in simulados", iPrefix, item.SimuladoRef))
			}
		}
	}

	return errs
}
