package curriculum

import (
	"log/slog"

	"github.com/insanusapp/planner/internal/domain"
)

// SimuladoGate is a mock-exam placeholder surfaced by the flattener. The
// simulado unlocks only once every work unit accumulated before it in the
// flattened sequence is completed.
type SimuladoGate struct {
	Simulado *domain.Simulado
	// Meta ids of every work unit preceding the gate in author order.
	RequiredMetaIDs []string
}

// Flatten walks the plan's cycles and items in author-specified order and
// expands topic items into one work unit per goal, depth-first, with no
// reordering heuristics. Simulado items do not expand; they are returned
// as gates positioned after the units accumulated so far.
//
// A dangling reference (topic, discipline or simulado id that no longer
// exists) is skipped and logged, never fatal: one broken item must not
// abort a whole generation.
func Flatten(tree *Tree, logger *slog.Logger) ([]domain.WorkUnit, []SimuladoGate) {
	if logger == nil {
		logger = slog.Default()
	}

	var units []domain.WorkUnit
	var gates []SimuladoGate

	for _, cycle := range tree.Cycles {
		for _, item := range tree.ItemsByCycle[cycle.ID] {
			switch item.Kind {
			case domain.ItemSimulado:
				sim, ok := tree.Simulados[item.SimuladoID]
				if !ok {
					logger.Warn("skipping cycle item with dangling simulado reference",
						"cycle_id", cycle.ID, "item_id", item.ID, "simulado_id", item.SimuladoID)
					continue
				}
				required := make([]string, len(units))
				for i, u := range units {
					required[i] = u.MetaID
				}
				gates = append(gates, SimuladoGate{Simulado: sim, RequiredMetaIDs: required})

			case domain.ItemTopic:
				topic, ok := tree.Topics[item.TopicID]
				if !ok {
					logger.Warn("skipping cycle item with dangling topic reference",
						"cycle_id", cycle.ID, "item_id", item.ID, "topic_id", item.TopicID)
					continue
				}
				discipline := tree.Discipline(topic)
				if discipline == nil {
					logger.Warn("skipping topic with dangling discipline reference",
						"topic_id", topic.ID, "discipline_id", topic.DisciplineID)
					continue
				}
				for _, goal := range tree.GoalsByTopic[topic.ID] {
					units = append(units, domain.WorkUnit{
						MetaID:          goal.ID,
						Title:           goal.Title,
						Type:            goal.Type,
						DisciplineName:  discipline.Name,
						TopicName:       topic.Name,
						Color:           discipline.Color,
						DurationMin:     goal.DurationMin,
						Order:           len(units),
						ReviewIntervals: goal.ReviewIntervals,
					})
				}

			default:
				logger.Warn("skipping cycle item with unknown kind",
					"item_id", item.ID, "kind", string(item.Kind))
			}
		}
	}

	return units, gates
}

// GateStatus resolves a gate against the student's completed meta set and
// scheduled attempts: scheduled wins, then released once every required
// unit is done, otherwise blocked.
func GateStatus(gate SimuladoGate, completedMetaIDs map[string]bool, scheduledSimuladoIDs map[string]bool) domain.SimuladoStatus {
	if scheduledSimuladoIDs[gate.Simulado.ID] {
		return domain.SimuladoScheduled
	}
	for _, id := range gate.RequiredMetaIDs {
		if !completedMetaIDs[id] {
			return domain.SimuladoBlocked
		}
	}
	return domain.SimuladoReleased
}
