package curriculum

import "github.com/insanusapp/planner/internal/domain"

// Tree is the fully loaded curriculum of one plan, assembled by the
// repository layer. Lookup maps are keyed by id; cycle items reference
// into them and may dangle after a republish.
type Tree struct {
	Plan         *domain.Plan
	Cycles       []*domain.Cycle
	ItemsByCycle map[string][]*domain.CycleItem
	Disciplines  map[string]*domain.Discipline
	Topics       map[string]*domain.Topic
	GoalsByTopic map[string][]*domain.Goal
	Simulados    map[string]*domain.Simulado
}

// Discipline resolves the discipline owning a topic, or nil.
func (t *Tree) Discipline(topic *domain.Topic) *domain.Discipline {
	if topic == nil {
		return nil
	}
	return t.Disciplines[topic.DisciplineID]
}
