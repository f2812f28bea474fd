package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/insanusapp/planner/internal/cli/formatter"
)

func newDoneCmd(app *App) *cobra.Command {
	var planID string

	cmd := &cobra.Command{
		Use:   "done EVENT",
		Short: "Mark a scheduled event as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			plan, err := resolveActivePlan(ctx, app, planID)
			if err != nil {
				return err
			}

			eventID, err := resolveEventID(ctx, app, plan.ID, args[0])
			if err != nil {
				return err
			}

			result, err := app.Study.CompleteEvent(ctx, app.UserID, eventID, time.Now())
			if err != nil {
				return err
			}

			fmt.Printf("Completed event %s\n", formatter.TruncID(result.EventID))
			if result.ReviewsSpawned > 0 {
				dates := make([]string, len(result.ReviewDates))
				for i, d := range result.ReviewDates {
					dates[i] = d.Format("2006-01-02")
				}
				fmt.Printf("Scheduled %d spaced reviews: %v\n", result.ReviewsSpawned, dates)
			}
			for _, w := range result.ReviewWarnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "WARNING: %s\n", w)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "Plan short ID (defaults to the single published plan)")

	return cmd
}
