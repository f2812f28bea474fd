package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/insanusapp/planner/internal/domain"
)

// GeneratedPlan holds the converted domain objects ready for persistence.
type GeneratedPlan struct {
	Plan        *domain.Plan
	Disciplines []*domain.Discipline
	Topics      []*domain.Topic
	Goals       []*domain.Goal
	Simulados   []*domain.Simulado
	Cycles      []*domain.Cycle
	CycleItems  []*domain.CycleItem
}

// Convert transforms a validated PlanSchema into domain objects ready for
// persistence. Call ValidatePlanSchema first; Convert assumes the schema
// is valid.
func Convert(schema *PlanSchema) (*GeneratedPlan, error) {
	now := time.Now().UTC()

	plan := &domain.Plan{
		ID:        uuid.New().String(),
		ShortID:   strings.ToUpper(schema.Plan.ShortID),
		Name:      schema.Plan.Name,
		Status:    domain.PlanDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	out := &GeneratedPlan{Plan: plan}
	topicIDs := make(map[string]string)    // ref -> UUID
	simuladoIDs := make(map[string]string) // ref -> UUID

	for di, d := range schema.Disciplines {
		discipline := &domain.Discipline{
			ID:        uuid.New().String(),
			PlanID:    plan.ID,
			Name:      d.Name,
			Color:     d.Color,
			Position:  di,
			CreatedAt: now,
			UpdatedAt: now,
		}
		out.Disciplines = append(out.Disciplines, discipline)

		for ti, t := range d.Topics {
			topic := &domain.Topic{
				ID:           uuid.New().String(),
				DisciplineID: discipline.ID,
				Name:         t.Name,
				Position:     ti,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			topicIDs[t.Ref] = topic.ID
			out.Topics = append(out.Topics, topic)

			for gi, g := range t.Goals {
				out.Goals = append(out.Goals, &domain.Goal{
					ID:              uuid.New().String(),
					TopicID:         topic.ID,
					Title:           g.Title,
					Type:            domain.GoalType(g.Type),
					DurationMin:     g.DurationMin,
					Position:        gi,
					ReviewIntervals: g.ReviewIntervals,
					CreatedAt:       now,
					UpdatedAt:       now,
				})
			}
		}
	}

	for si, s := range schema.Simulados {
		simulado := &domain.Simulado{
			ID:          uuid.New().String(),
			PlanID:      plan.ID,
			Title:       s.Title,
			DurationMin: s.DurationMin,
			Position:    si,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		simuladoIDs[s.Ref] = simulado.ID
		out.Simulados = append(out.Simulados, simulado)
	}

	for ci, c := range schema.Cycles {
		cycle := &domain.Cycle{
			ID:        uuid.New().String(),
			PlanID:    plan.ID,
			Name:      c.Name,
			Position:  ci,
			CreatedAt: now,
			UpdatedAt: now,
		}
		out.Cycles = append(out.Cycles, cycle)

		for ii, item := range c.Items {
			converted := &domain.CycleItem{
				ID:        uuid.New().String(),
				CycleID:   cycle.ID,
				Position:  ii,
				CreatedAt: now,
				UpdatedAt: now,
			}
			switch {
			case item.TopicRef != "":
				id, ok := topicIDs[item.TopicRef]
				if !ok {
					return nil, fmt.Errorf("topic_ref %q not found for cycle %q", item.TopicRef, c.Name)
				}
				converted.Kind = domain.ItemTopic
				converted.TopicID = id
			case item.SimuladoRef != "":
				id, ok := simuladoIDs[item.SimuladoRef]
				if !ok {
					return nil, fmt.Errorf("simulado_ref %q not found for cycle %q", item.SimuladoRef, c.Name)
				}
				converted.Kind = domain.ItemSimulado
				converted.SimuladoID = id
			default:
				return nil, fmt.Errorf("cycle %q item %d references neither topic nor simulado", c.Name, ii)
			}
			out.CycleItems = append(out.CycleItems, converted)
		}
	}

	return out, nil
}
