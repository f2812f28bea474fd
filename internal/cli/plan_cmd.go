package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/insanusapp/planner/internal/cli/formatter"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage study plans",
	}

	cmd.AddCommand(
		newPlanImportCmd(app),
		newPlanListCmd(app),
		newPlanPublishCmd(app),
		newPlanRemoveCmd(app),
	)

	return cmd
}

func newPlanImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a plan from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Import.ImportPlan(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Imported plan %s [%s]: %d disciplines, %d topics, %d goals, %d simulados\n",
				result.Plan.Name, result.Plan.ShortID,
				result.DisciplineCount, result.TopicCount,
				result.GoalCount, result.SimuladoCount)
			fmt.Println(formatter.Dim("Publish it with: planner plan publish " + result.Plan.ShortID))
			return nil
		},
	}
}

func newPlanListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := app.Plans.List(context.Background())
			if err != nil {
				return err
			}

			if len(plans) == 0 {
				fmt.Println("No plans found. Import one with: planner plan import FILE")
				return nil
			}

			fmt.Print(formatter.FormatPlanList(plans))
			return nil
		},
	}
}

func newPlanPublishCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "publish ID",
		Short: "Publish a plan so schedules can be generated from it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := app.Plans.Publish(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Published plan %s [%s]\n", plan.Name, plan.ShortID)
			return nil
		},
	}
}

func newPlanRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a plan and its curriculum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Plans.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed plan %s\n", args[0])
			return nil
		},
	}
}
