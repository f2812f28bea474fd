package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/insanusapp/planner/internal/cli/formatter"
	"github.com/insanusapp/planner/internal/contract"
)

func newAnticipateCmd(app *App) *cobra.Command {
	var planID string
	var yes bool

	cmd := &cobra.Command{
		Use:   "anticipate",
		Short: "Pull tomorrow's work into today's spare time",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			plan, err := resolveActivePlan(ctx, app, planID)
			if err != nil {
				return err
			}

			offer, err := app.Anticipation.Offer(ctx, app.UserID, plan.ID, time.Now())
			if err != nil {
				var schedErr *contract.ScheduleError
				if errors.As(err, &schedErr) && schedErr.Code == contract.ErrNothingToOffer {
					fmt.Println(formatter.Dim("Nothing to anticipate: " + schedErr.Message))
					return nil
				}
				return err
			}

			fmt.Println(formatter.Header("Anticipation Offer"))
			fmt.Printf("  Budget left today: %s\n\n", formatter.FormatMinutes(offer.BudgetMin))
			for _, e := range offer.Events {
				fmt.Println("  " + formatter.EventRow(e))
			}
			fmt.Printf("\n  Total: %s\n", formatter.FormatMinutes(offer.TotalMin))

			accept := yes
			if !accept && app.Interactive() {
				prompt := fmt.Sprintf("Pull %d event(s) into today?", len(offer.Events))
				if err := confirmForm(prompt, &accept).Run(); err != nil {
					return err
				}
			}
			if !accept {
				fmt.Println(formatter.Dim("Offer declined; the schedule is unchanged."))
				return nil
			}

			result, err := app.Anticipation.Accept(ctx, app.UserID, plan.ID, offer)
			if err != nil {
				return err
			}
			fmt.Printf("Anticipated %d event(s), %s of work; %d future units compacted forward\n",
				result.MovedCount, formatter.FormatMinutes(result.MovedMin), result.Backfilled)
			return nil
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "Plan short ID (defaults to the single published plan)")
	cmd.Flags().BoolVar(&yes, "yes", false, "Accept the offer without prompting")

	return cmd
}
