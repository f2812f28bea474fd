package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/insanusapp/planner/internal/cli/formatter"
	"github.com/insanusapp/planner/internal/contract"
)

func newGenerateCmd(app *App) *cobra.Command {
	var planID, start string
	var sync bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the schedule from the active plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			plan, err := resolveActivePlan(ctx, app, planID)
			if err != nil {
				return err
			}

			startDate, err := parseDateFlag(start)
			if err != nil {
				return err
			}

			req := contract.GenerateRequest{
				UserID:    app.UserID,
				PlanID:    plan.ID,
				StartDate: startDate,
				Sync:      sync,
			}

			stop := func() {}
			if app.Interactive() {
				stop = formatter.StartSpinner("Packing the curriculum into your routine...")
			}
			resp, err := app.Schedule.Generate(ctx, req)
			stop()
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatGenerate(resp))
			return nil
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "Plan short ID (defaults to the single published plan)")
	cmd.Flags().StringVar(&start, "start", "", "First schedule day (YYYY-MM-DD, defaults to today)")
	cmd.Flags().BoolVar(&sync, "sync", false, "Keep completed history and regenerate only remaining work")

	return cmd
}
