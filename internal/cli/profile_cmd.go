package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/insanusapp/planner/internal/cli/formatter"
	"github.com/insanusapp/planner/internal/domain"
)

func newProfileCmd(app *App) *cobra.Command {
	var planID, routineStr string
	var tolerance int
	var edit bool

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit the study routine",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			profile, err := app.Profile.Get(ctx, app.UserID)
			if err != nil {
				return err
			}

			changed := false
			if cmd.Flags().Changed("routine") {
				routine, err := parseRoutineFlag(routineStr)
				if err != nil {
					return err
				}
				profile.Routine = routine
				changed = true
			}
			if cmd.Flags().Changed("tolerance") {
				profile.SmartMergeTolerance = tolerance
				changed = true
			}

			if edit && !changed {
				if !app.Interactive() {
					return fmt.Errorf("--edit needs a terminal; use --routine and --tolerance instead")
				}
				if err := runProfileForm(profile); err != nil {
					return err
				}
				changed = true
			}

			if changed {
				if planID != "" {
					plan, err := resolveActivePlan(ctx, app, planID)
					if err != nil {
						return err
					}
					profile.PlanID = plan.ID
				}
				if err := app.Profile.Update(ctx, profile); err != nil {
					return err
				}
				fmt.Println("Profile updated.")
			}

			fmt.Print(formatter.FormatProfile(profile))
			return nil
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "Plan short ID to bind the profile to")
	cmd.Flags().BoolVar(&edit, "edit", false, "Edit the routine interactively")
	cmd.Flags().StringVar(&routineStr, "routine", "", "Weekly minutes Sun..Sat, e.g. 0,60,60,60,60,60,0")
	cmd.Flags().IntVar(&tolerance, "tolerance", 0, "Smart-merge tolerance in minutes (15-60)")

	return cmd
}

// parseRoutineFlag parses "0,60,60,60,60,60,0" into a weekly routine.
func parseRoutineFlag(value string) (domain.Routine, error) {
	var routine domain.Routine
	parts := strings.Split(value, ",")
	if len(parts) != 7 {
		return routine, fmt.Errorf("routine needs 7 comma-separated values (Sun..Sat), got %d", len(parts))
	}
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 {
			return routine, fmt.Errorf("invalid routine value %q", p)
		}
		routine[i] = v
	}
	return routine, nil
}

// runProfileForm edits the profile in place through a huh form, keeping
// current values for fields left blank.
func runProfileForm(profile *domain.StudyProfile) error {
	var values [8]string
	for i, min := range profile.Routine {
		if min > 0 {
			values[i] = strconv.Itoa(min)
		}
	}
	if profile.SmartMergeTolerance > 0 {
		values[7] = strconv.Itoa(profile.SmartMergeTolerance)
	}

	if err := routineForm(&values).Run(); err != nil {
		return err
	}

	for i := 0; i < 7; i++ {
		profile.Routine[i] = parseMinutes(values[i], 0)
	}
	profile.SmartMergeTolerance = parseMinutes(values[7], profile.SmartMergeTolerance)
	return nil
}
