package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/insanusapp/planner/internal/cli/formatter"
	"github.com/insanusapp/planner/internal/domain"
)

func newWeekCmd(app *App) *cobra.Command {
	var planID string
	var days int

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the coming week's agenda",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			plan, err := resolveActivePlan(ctx, app, planID)
			if err != nil {
				return err
			}

			now := time.Now()
			from := domain.Day(now)
			to := from.AddDate(0, 0, days-1)

			schedule, err := app.Schedule.GetRange(ctx, app.UserID, plan.ID, from, to)
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatWeek(schedule, now))
			return nil
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "Plan short ID (defaults to the single published plan)")
	cmd.Flags().IntVar(&days, "days", 7, "Number of days to show")

	return cmd
}
