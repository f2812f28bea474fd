package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/insanusapp/planner/internal/cli/formatter"
	"github.com/insanusapp/planner/internal/contract"
)

func newSimuladoCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulado",
		Short: "Manage mock exams and their gates",
	}

	cmd.AddCommand(
		newSimuladoListCmd(app),
		newSimuladoScheduleCmd(app),
		newSimuladoSubmitCmd(app),
	)

	return cmd
}

// resolveSimuladoID matches input against the plan's simulados by ID,
// ID prefix, or case-insensitive title.
func resolveSimuladoID(ctx context.Context, app *App, planID, input string) (string, error) {
	views, err := app.Simulados.GateStatuses(ctx, app.UserID, planID)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, v := range views {
		if v.Simulado.ID == input || strings.EqualFold(v.Simulado.Title, input) {
			return v.Simulado.ID, nil
		}
		if strings.HasPrefix(v.Simulado.ID, input) {
			matches = append(matches, v.Simulado.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("simulado not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("simulado %q is ambiguous (%d matches)", input, len(matches))
	}
}

func newSimuladoListCmd(app *App) *cobra.Command {
	var planID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List simulados with their gate states",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			plan, err := resolveActivePlan(ctx, app, planID)
			if err != nil {
				return err
			}

			views, err := app.Simulados.GateStatuses(ctx, app.UserID, plan.ID)
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatGateList(views))
			return nil
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "Plan short ID (defaults to the single published plan)")

	return cmd
}

func newSimuladoScheduleCmd(app *App) *cobra.Command {
	var planID, date string

	cmd := &cobra.Command{
		Use:   "schedule SIMULADO",
		Short: "Book a released simulado on a full day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			plan, err := resolveActivePlan(ctx, app, planID)
			if err != nil {
				return err
			}

			simuladoID, err := resolveSimuladoID(ctx, app, plan.ID, args[0])
			if err != nil {
				return err
			}

			day, err := parseDateFlag(date)
			if err != nil {
				return err
			}
			if day == nil {
				return fmt.Errorf("a date is required (use --date YYYY-MM-DD)")
			}

			result, err := app.Simulados.Schedule(ctx, contract.ScheduleSimuladoRequest{
				UserID:     app.UserID,
				PlanID:     plan.ID,
				SimuladoID: simuladoID,
				Date:       *day,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Simulado booked for %s; the whole day is blocked for it\n",
				result.Date.Format("2006-01-02"))
			if result.Displaced > 0 {
				fmt.Printf("Displaced %d pending event(s); %d unit(s) moved to later days\n",
					result.Displaced, result.MovedCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "Plan short ID (defaults to the single published plan)")
	cmd.Flags().StringVar(&date, "date", "", "Exam day (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func newSimuladoSubmitCmd(app *App) *cobra.Command {
	var planID, scoreStr string

	cmd := &cobra.Command{
		Use:   "submit SIMULADO",
		Short: "Submit a simulado score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			plan, err := resolveActivePlan(ctx, app, planID)
			if err != nil {
				return err
			}

			simuladoID, err := resolveSimuladoID(ctx, app, plan.ID, args[0])
			if err != nil {
				return err
			}

			score, err := strconv.ParseFloat(scoreStr, 64)
			if err != nil || score < 0 || score > 100 {
				return fmt.Errorf("invalid score %q, expected 0-100", scoreStr)
			}

			attempt, err := app.Simulados.Submit(ctx, contract.SubmitSimuladoRequest{
				UserID:     app.UserID,
				SimuladoID: simuladoID,
				Score:      score,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Submitted with score %.1f\n", *attempt.Score)
			return nil
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "Plan short ID (defaults to the single published plan)")
	cmd.Flags().StringVar(&scoreStr, "score", "", "Score between 0 and 100")
	_ = cmd.MarkFlagRequired("score")

	return cmd
}
