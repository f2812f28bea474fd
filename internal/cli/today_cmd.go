package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/insanusapp/planner/internal/cli/formatter"
)

func newTodayCmd(app *App) *cobra.Command {
	var planID string
	var plain bool

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's agenda",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			plan, err := resolveActivePlan(ctx, app, planID)
			if err != nil {
				return err
			}

			now := time.Now()
			if plain || !app.Interactive() {
				day, err := app.Schedule.Today(ctx, app.UserID, plan.ID, now)
				if err != nil {
					return err
				}
				fmt.Print(formatter.FormatDay(day, now))
				return nil
			}

			model := newTodayModel(app, plan.ID)
			_, err = tea.NewProgram(model).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "Plan short ID (defaults to the single published plan)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print a static table instead of the interactive view")

	return cmd
}
