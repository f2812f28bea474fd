package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/insanusapp/planner/internal/cli/formatter"
)

func newHistoryCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently logged study sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			logs, err := app.Study.RecentLogs(ctx, app.UserID, days)
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatHistory(logs, days))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "How many days back to list")

	return cmd
}
