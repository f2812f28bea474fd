package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/insanusapp/planner/internal/contract"
	"github.com/insanusapp/planner/internal/domain"
)

// resolveActivePlan picks the plan commands operate on. An explicit
// --plan short ID wins; otherwise a single published plan is used
// implicitly, and anything else asks the student to disambiguate.
func resolveActivePlan(ctx context.Context, app *App, shortID string) (*domain.Plan, error) {
	if shortID != "" {
		return app.Plans.GetByShortID(ctx, strings.ToUpper(shortID))
	}

	plans, err := app.Plans.List(ctx)
	if err != nil {
		return nil, err
	}

	var published []*domain.Plan
	for _, p := range plans {
		if p.Status == domain.PlanPublished {
			published = append(published, p)
		}
	}

	switch len(published) {
	case 0:
		return nil, contract.NewScheduleError(contract.ErrNoActivePlan,
			"no published plan found; import and publish one first")
	case 1:
		return published[0], nil
	default:
		ids := make([]string, len(published))
		for i, p := range published {
			ids[i] = p.DisplayID()
		}
		return nil, fmt.Errorf("multiple published plans (%s); pick one with --plan",
			strings.Join(ids, ", "))
	}
}

// resolveEventID matches user input against the schedule around today:
// exact event ID first, then unique ID prefix. The window covers a month
// back and two ahead so overdue and upcoming work stay addressable.
func resolveEventID(ctx context.Context, app *App, planID, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("event ID is required")
	}

	today := domain.Day(time.Now())
	days, err := app.Schedule.GetRange(ctx, app.UserID, planID,
		today.AddDate(0, 0, -30), today.AddDate(0, 0, 60))
	if err != nil {
		return "", err
	}

	var matches []string
	for _, day := range days {
		for _, e := range day.Events {
			if e.ID == input {
				return e.ID, nil
			}
			if strings.HasPrefix(e.ID, input) {
				matches = append(matches, e.ID)
			}
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("event not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("event ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// parseDateFlag parses an optional YYYY-MM-DD flag into a local calendar day.
func parseDateFlag(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, use YYYY-MM-DD", value)
	}
	return &t, nil
}
