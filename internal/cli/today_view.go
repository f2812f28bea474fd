package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/insanusapp/planner/internal/cli/formatter"
	"github.com/insanusapp/planner/internal/contract"
	"github.com/insanusapp/planner/internal/domain"
)

// dayLoadedMsg signals that today's schedule was (re)loaded.
type dayLoadedMsg struct {
	day *contract.DaySchedule
	err error
}

// eventCompletedMsg reports the outcome of a completion triggered from
// the view, including any spaced reviews it spawned.
type eventCompletedMsg struct {
	result *contract.CompleteResult
	err    error
}

type todayKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Complete key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

var todayKeys = todayKeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Complete: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "complete")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// todayModel is the interactive day review: navigate today's events and
// complete them in place.
type todayModel struct {
	app    *App
	planID string

	day     *contract.DaySchedule
	cursor  int
	loading bool
	status  string
	err     error
}

func newTodayModel(app *App, planID string) *todayModel {
	return &todayModel{app: app, planID: planID, loading: true}
}

func (m *todayModel) Init() tea.Cmd {
	return m.loadDay()
}

func (m *todayModel) loadDay() tea.Cmd {
	app, planID := m.app, m.planID
	return func() tea.Msg {
		day, err := app.Schedule.Today(context.Background(), app.UserID, planID, time.Now())
		return dayLoadedMsg{day: day, err: err}
	}
}

func (m *todayModel) completeSelected() tea.Cmd {
	if m.day == nil || m.cursor >= len(m.day.Events) {
		return nil
	}
	event := m.day.Events[m.cursor]
	if !event.IsPending() {
		m.status = "already completed"
		return nil
	}
	app := m.app
	return func() tea.Msg {
		result, err := app.Study.CompleteEvent(context.Background(), app.UserID, event.ID, time.Now())
		return eventCompletedMsg{result: result, err: err}
	}
}

func (m *todayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dayLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.day = msg.day
		if m.cursor >= len(m.day.Events) && len(m.day.Events) > 0 {
			m.cursor = len(m.day.Events) - 1
		}
		return m, nil

	case eventCompletedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		if msg.result.ReviewsSpawned > 0 {
			m.status = fmt.Sprintf("done, %d reviews scheduled", msg.result.ReviewsSpawned)
		} else {
			m.status = "done"
		}
		m.loading = true
		return m, m.loadDay()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, todayKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, todayKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, todayKeys.Down):
			if m.day != nil && m.cursor < len(m.day.Events)-1 {
				m.cursor++
			}
		case key.Matches(msg, todayKeys.Complete):
			return m, m.completeSelected()
		case key.Matches(msg, todayKeys.Refresh):
			m.loading = true
			m.status = ""
			return m, m.loadDay()
		}
	}
	return m, nil
}

func (m *todayModel) View() string {
	if m.loading && m.day == nil {
		return "\n  " + formatter.Dim("Loading today...")
	}
	if m.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+m.err.Error())
	}

	var b strings.Builder
	b.WriteString("\n" + formatter.Header(formatter.DayLabel(m.day.Date, time.Now())) + "\n")

	if len(m.day.Events) == 0 {
		b.WriteString("  " + formatter.Dim("Nothing scheduled. Enjoy the rest day.") + "\n")
	}

	doneMin := 0
	for i, e := range m.day.Events {
		cursor := "  "
		if i == m.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
		}
		if e.Status == domain.EventCompleted {
			doneMin += e.DurationMin
		}
		b.WriteString(cursor + formatter.EventRow(e) + "\n")
	}

	if total := m.day.TotalMin(); total > 0 {
		b.WriteString(fmt.Sprintf("\n  %s  %s planned\n",
			formatter.RenderProgress(float64(doneMin)/float64(total), 12),
			formatter.FormatMinutes(total)))
	}

	if m.status != "" {
		b.WriteString("\n  " + formatter.StyleYellow.Render(m.status) + "\n")
	}
	b.WriteString("\n  " + formatter.Dim("↑/↓ move · space complete · r refresh · q quit") + "\n")
	return b.String()
}
