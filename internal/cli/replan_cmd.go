package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/insanusapp/planner/internal/cli/formatter"
	"github.com/insanusapp/planner/internal/contract"
	"github.com/insanusapp/planner/internal/domain"
)

func newReplanCmd(app *App) *cobra.Command {
	var planID string
	var keepToday bool

	cmd := &cobra.Command{
		Use:   "replan",
		Short: "Melt overdue and future work and re-cast it forward",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			plan, err := resolveActivePlan(ctx, app, planID)
			if err != nil {
				return err
			}

			req := contract.NewRescheduleRequest(app.UserID, plan.ID, domain.TriggerManual)
			req.PreserveToday = keepToday

			stop := func() {}
			if app.Interactive() {
				stop = formatter.StartSpinner("Melting and re-casting the queue...")
			}
			resp, err := app.Reschedule.Reschedule(ctx, req)
			stop()
			if err != nil {
				var schedErr *contract.ScheduleError
				if errors.As(err, &schedErr) && schedErr.Code == contract.ErrNoBudget {
					return fmt.Errorf("your routine has no study minutes; set one with: planner profile --edit")
				}
				return err
			}

			fmt.Print(formatter.FormatReplan(resp))
			return nil
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "Plan short ID (defaults to the single published plan)")
	cmd.Flags().BoolVar(&keepToday, "keep-today", false, "Leave today's events in place and re-cast from tomorrow")

	return cmd
}
