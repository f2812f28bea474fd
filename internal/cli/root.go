package cli

import (
	"github.com/spf13/cobra"

	"github.com/insanusapp/planner/internal/service"
)

// App holds references to all service interfaces used by CLI commands,
// plus the ambient identity of the local student.
type App struct {
	Plans        service.PlanService
	Schedule     service.ScheduleService
	Reschedule   service.RescheduleService
	Study        service.StudyService
	Anticipation service.AnticipationService
	Simulados    service.SimuladoService
	Profile      service.ProfileService
	Import       service.ImportService

	// UserID identifies the local student; the store is multi-user but
	// the CLI always acts as one.
	UserID string

	// IsInteractive gates the bubbletea/huh surfaces; plain output is
	// used when stdin is not a terminal.
	IsInteractive func() bool
}

// Interactive reports whether prompts and TUI views may be used.
func (a *App) Interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "planner" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "planner",
		Short: "Adaptive study planner for concurso preparation",
	}

	root.AddCommand(
		newPlanCmd(app),
		newGenerateCmd(app),
		newTodayCmd(app),
		newWeekCmd(app),
		newReplanCmd(app),
		newDoneCmd(app),
		newLogCmd(app),
		newHistoryCmd(app),
		newAnticipateCmd(app),
		newSimuladoCmd(app),
		newProfileCmd(app),
	)

	return root
}
