package contract

type ScheduleErrorCode string

const (
	ErrNoBudget         ScheduleErrorCode = "NO_BUDGET"
	ErrNoActivePlan     ScheduleErrorCode = "NO_ACTIVE_PLAN"
	ErrPlanNotPublished ScheduleErrorCode = "PLAN_NOT_PUBLISHED"
	ErrDuplicateAttempt ScheduleErrorCode = "DUPLICATE_ATTEMPT"
	ErrSimuladoBlocked  ScheduleErrorCode = "SIMULADO_BLOCKED"
	ErrNothingToOffer   ScheduleErrorCode = "NOTHING_TO_OFFER"
	ErrInternal         ScheduleErrorCode = "INTERNAL_ERROR"
)

// ScheduleError is the typed error surfaced by the scheduling use cases.
// Callers branch on Code; Message is for display.
type ScheduleError struct {
	Code    ScheduleErrorCode
	Message string
}

func (e *ScheduleError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func NewScheduleError(code ScheduleErrorCode, message string) *ScheduleError {
	return &ScheduleError{Code: code, Message: message}
}
