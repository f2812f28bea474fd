package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/insanusapp/planner/internal/contract"
	"github.com/insanusapp/planner/internal/domain"
)

// EventRow renders one schedule line: status icon, dimmed short id,
// discipline badge, title (with review/part/extension markers) and the
// allotted duration.
func EventRow(e *domain.ScheduledEvent) string {
	title := e.Title
	if e.ReviewLabel != "" {
		title = StyleBlue.Render(e.ReviewLabel) + " " + title
	}
	if e.Part > 0 {
		title += Dim(fmt.Sprintf(" (part %d)", e.Part))
	}
	if e.ExtensionMin > 0 {
		title += Dim(fmt.Sprintf(" (+%dm merged)", e.ExtensionMin))
	}

	duration := FormatMinutes(e.DurationMin)
	if e.RecordedMin > 0 && e.RecordedMin != e.DurationMin {
		duration = fmt.Sprintf("%s/%s", FormatMinutes(e.RecordedMin), duration)
	}

	return fmt.Sprintf("%s %s %s  %s  %s",
		EventStatusIcon(e),
		TruncID(e.ID),
		DisciplineBadge(e.DisciplineName, e.Color),
		title,
		Dim(duration),
	)
}

// FormatDay renders one day's agenda with a completion bar.
func FormatDay(day *contract.DaySchedule, now time.Time) string {
	var b strings.Builder
	b.WriteString(Header(DayLabel(day.Date, now)))
	b.WriteString("\n")

	if len(day.Events) == 0 {
		b.WriteString(Dim("  Nothing scheduled. Enjoy the rest day."))
		b.WriteString("\n")
		return b.String()
	}

	doneMin := 0
	for _, e := range day.Events {
		if e.Status == domain.EventCompleted {
			doneMin += e.DurationMin
		}
		b.WriteString("  " + EventRow(e) + "\n")
	}

	total := day.TotalMin()
	pct := 0.0
	if total > 0 {
		pct = float64(doneMin) / float64(total)
	}
	b.WriteString(fmt.Sprintf("\n  %s  %s planned\n",
		RenderProgress(pct, 12), FormatMinutes(total)))
	return b.String()
}

// FormatWeek renders a multi-day agenda. Days with no events are omitted
// by the service, so every section has content.
func FormatWeek(days []contract.DaySchedule, now time.Time) string {
	if len(days) == 0 {
		return Dim("Nothing scheduled in this range.") + "\n"
	}
	var b strings.Builder
	for i := range days {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatDay(&days[i], now))
	}
	return b.String()
}

// FormatGenerate summarizes a schedule generation pass.
func FormatGenerate(resp *contract.GenerateResponse) string {
	var b strings.Builder
	b.WriteString(Header("Schedule Generated"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Events:   %d\n", resp.EventCount))
	if resp.EventCount > 0 {
		b.WriteString(fmt.Sprintf("  Range:    %s to %s\n",
			resp.FirstDate.Format("2006-01-02"), resp.LastDate.Format("2006-01-02")))
	}
	if resp.SkippedDone > 0 {
		b.WriteString(fmt.Sprintf("  Skipped:  %d already-completed goals\n", resp.SkippedDone))
	}
	for _, w := range resp.Warnings {
		b.WriteString("  " + StyleYellow.Render("WARNING: "+w) + "\n")
	}
	return b.String()
}

// FormatReplan summarizes a melt-and-recast pass.
func FormatReplan(resp *contract.RescheduleResponse) string {
	var b strings.Builder
	b.WriteString(Header("Replan Results"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Melted:   %d pending events\n", resp.MeltedCount))
	b.WriteString(fmt.Sprintf("  Moved:    %d units landed on a new day\n", resp.MovedCount))
	if resp.MeltedCount > 0 {
		b.WriteString(fmt.Sprintf("  Range:    %s to %s\n",
			resp.FirstDate.Format("2006-01-02"), resp.LastDate.Format("2006-01-02")))
	}
	return b.String()
}

// FormatGateList renders the plan's simulados with their gate states.
func FormatGateList(views []contract.SimuladoGateView) string {
	if len(views) == 0 {
		return Dim("This plan has no simulados.") + "\n"
	}

	headers := []string{"Simulado", "Duration", "Gate", "Detail"}
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		detail := ""
		switch v.Status {
		case domain.SimuladoBlocked:
			detail = fmt.Sprintf("%d goals remaining", v.Remaining)
		case domain.SimuladoScheduled:
			if v.Attempt != nil {
				detail = v.Attempt.Date.Format("2006-01-02")
			}
		case domain.SimuladoSubmitted:
			if v.Attempt != nil && v.Attempt.Score != nil {
				detail = fmt.Sprintf("score %.1f", *v.Attempt.Score)
			}
		}
		rows = append(rows, []string{
			v.Simulado.Title,
			FormatMinutes(v.Simulado.DurationMin),
			GateIndicator(v.Status),
			detail,
		})
	}
	return RenderTable(headers, rows)
}

// FormatHistory renders recent study logs, newest first, with a total.
func FormatHistory(logs []*domain.StudyLog, days int) string {
	if len(logs) == 0 {
		return Dim(fmt.Sprintf("No study logged in the last %d days.", days)) + "\n"
	}

	headers := []string{"When", "Event", "Minutes", "Note"}
	rows := make([][]string, 0, len(logs))
	total := 0
	for _, l := range logs {
		total += l.Minutes
		rows = append(rows, []string{
			l.StartedAt.Local().Format("Mon 02 Jan 15:04"),
			TruncID(l.EventID),
			FormatMinutes(l.Minutes),
			l.Note,
		})
	}
	return RenderTable(headers, rows) +
		fmt.Sprintf("\n  %s in %d sessions\n", Bold(FormatMinutes(total)), len(logs))
}

// FormatPlanList renders the plan catalog.
func FormatPlanList(plans []*domain.Plan) string {
	headers := []string{"ID", "Name", "Status", "Published"}
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		published := Dim("--")
		if p.PublishedAt != nil {
			published = p.PublishedAt.Format("2006-01-02")
		}
		rows = append(rows, []string{
			Bold(p.DisplayID()),
			p.Name,
			PlanStatusPill(p.Status),
			published,
		})
	}
	return RenderTable(headers, rows)
}

// FormatProfile renders the study profile: weekly routine and tolerance.
func FormatProfile(p *domain.StudyProfile) string {
	var b strings.Builder
	b.WriteString(Header("Study Profile"))
	b.WriteString("\n")

	labels := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	for i, label := range labels {
		min := p.Routine[i]
		value := Dim("rest")
		if min > 0 {
			value = FormatMinutes(min)
		}
		b.WriteString(fmt.Sprintf("  %s  %s\n", Bold(label), value))
	}
	b.WriteString(fmt.Sprintf("\n  Weekly total:    %s\n", FormatMinutes(p.Routine.TotalWeekMin())))
	b.WriteString(fmt.Sprintf("  Merge tolerance: %s\n", FormatMinutes(p.EffectiveTolerance())))
	return b.String()
}
