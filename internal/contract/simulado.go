package contract

import (
	"time"

	"github.com/insanusapp/planner/internal/domain"
)

// SimuladoGateView is one simulado with its computed gate state for a
// student: blocked until every goal preceding it in the cycle is
// completed, then released, then scheduled/submitted by the student.
type SimuladoGateView struct {
	Simulado  *domain.Simulado
	Status    domain.SimuladoStatus
	Remaining int // goals still pending before release
	Attempt   *domain.UserSimulado
}

type ScheduleSimuladoRequest struct {
	UserID     string
	PlanID     string
	SimuladoID string
	Date       time.Time
	Now        *time.Time
}

type ScheduleSimuladoResult struct {
	AttemptID  string
	Date       time.Time
	Displaced  int // pending events pushed off the blocked day
	MovedCount int
}

type SubmitSimuladoRequest struct {
	UserID     string
	SimuladoID string
	Score      float64
	Now        *time.Time
}
