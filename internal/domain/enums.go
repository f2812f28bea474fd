package domain

type GoalType string

const (
	GoalLesson    GoalType = "lesson"
	GoalMaterial  GoalType = "material"
	GoalQuestions GoalType = "questions"
	GoalLaw       GoalType = "law"
	GoalReview    GoalType = "review"
	GoalSummary   GoalType = "summary"
	GoalSimulado  GoalType = "simulado"
)

// ValidGoalTypes is the canonical set of accepted goal type strings.
var ValidGoalTypes = map[string]bool{
	"lesson": true, "material": true, "questions": true,
	"law": true, "review": true, "summary": true, "simulado": true,
}

type EventStatus string

const (
	EventPending   EventStatus = "pending"
	EventCompleted EventStatus = "completed"
)

type PlanStatus string

const (
	PlanDraft     PlanStatus = "draft"
	PlanPublished PlanStatus = "published"
	PlanArchived  PlanStatus = "archived"
)

type CycleItemKind string

const (
	ItemTopic    CycleItemKind = "topic"
	ItemSimulado CycleItemKind = "simulado"
)

type SimuladoStatus string

const (
	SimuladoBlocked   SimuladoStatus = "blocked"
	SimuladoReleased  SimuladoStatus = "released"
	SimuladoScheduled SimuladoStatus = "scheduled"
	SimuladoSubmitted SimuladoStatus = "submitted"
)

type RescheduleTrigger string

const (
	TriggerManual       RescheduleTrigger = "MANUAL"
	TriggerAnticipation RescheduleTrigger = "ANTICIPATION"
	TriggerMerge        RescheduleTrigger = "MERGE"
	TriggerSimulado     RescheduleTrigger = "SIMULADO"
	TriggerSync         RescheduleTrigger = "SYNC"
)
