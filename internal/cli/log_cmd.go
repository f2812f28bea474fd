package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/insanusapp/planner/internal/cli/formatter"
	"github.com/insanusapp/planner/internal/contract"
)

func newLogCmd(app *App) *cobra.Command {
	var planID, note string
	var minutes int
	var acceptMerge bool

	cmd := &cobra.Command{
		Use:   "log EVENT",
		Short: "Record study minutes against an event",
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

			result, err := app.Study.LogStudy(ctx, contract.LogStudyRequest{
				UserID:  app.UserID,
				EventID: eventID,
				Minutes: minutes,
				Note:    note,
			})
			if err != nil {
				return err
			}

			sessions := ""
			if result.Sessions > 1 {
				sessions = fmt.Sprintf(" across %d sessions", result.Sessions)
			}
			fmt.Printf("Logged %s against %s (%s total%s)\n",
				formatter.FormatMinutes(minutes),
				formatter.TruncID(result.EventID),
				formatter.FormatMinutes(result.RecordedMin),
				sessions)

			if result.Offer == nil {
				return nil
			}

			offer := result.Offer
			fmt.Printf("\nYou ran %s over the allotted time for %q.\n",
				formatter.FormatMinutes(offer.OverflowMin), offer.Title)

			accept := acceptMerge
			if !accept && app.Interactive() {
				prompt := fmt.Sprintf("Fold the %s overflow into this session and shrink the follow-up?",
					formatter.FormatMinutes(offer.OverflowMin))
				if err := confirmForm(prompt, &accept).Run(); err != nil {
					return err
				}
			}
			if !accept {
				fmt.Println(formatter.Dim("Overflow kept; the follow-up fragments stay as planned."))
				return nil
			}

			merge, err := app.Study.AcceptMerge(ctx, app.UserID, eventID)
			if err != nil {
				return err
			}
			fmt.Printf("Merged %s forward: %d fragments shrunk, %d removed\n",
				formatter.FormatMinutes(merge.AbsorbedMin), merge.ShrunkEvents, merge.RemovedEvents)
			if merge.Backfilled > 0 {
				fmt.Printf("Pulled %d later units into the freed time\n", merge.Backfilled)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "Plan short ID (defaults to the single published plan)")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Minutes studied")
	cmd.Flags().StringVar(&note, "note", "", "Optional note for the study log")
	cmd.Flags().BoolVar(&acceptMerge, "merge", false, "Accept a smart-extension merge offer without prompting")
	_ = cmd.MarkFlagRequired("minutes")

	return cmd
}
