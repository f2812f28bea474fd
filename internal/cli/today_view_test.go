package cli

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insanusapp/planner/internal/contract"
	"github.com/insanusapp/planner/internal/domain"
)

type stubScheduleService struct {
	day *contract.DaySchedule
}

func (s *stubScheduleService) Generate(ctx context.Context, req contract.GenerateRequest) (*contract.GenerateResponse, error) {
	return nil, assert.AnError
}

func (s *stubScheduleService) Today(ctx context.Context, userID, planID string, now time.Time) (*contract.DaySchedule, error) {
	return s.day, nil
}

func (s *stubScheduleService) GetRange(ctx context.Context, userID, planID string, from, to time.Time) ([]contract.DaySchedule, error) {
	return []contract.DaySchedule{*s.day}, nil
}

type stubStudyService struct {
	completed []string
}

func (s *stubStudyService) CompleteEvent(ctx context.Context, userID, eventID string, now time.Time) (*contract.CompleteResult, error) {
	s.completed = append(s.completed, eventID)
	return &contract.CompleteResult{EventID: eventID, ReviewsSpawned: 2}, nil
}

func (s *stubStudyService) LogStudy(ctx context.Context, req contract.LogStudyRequest) (*contract.LogStudyResult, error) {
	return nil, assert.AnError
}

func (s *stubStudyService) AcceptMerge(ctx context.Context, userID, eventID string) (*contract.MergeResult, error) {
	return nil, assert.AnError
}

func (s *stubStudyService) RecentLogs(ctx context.Context, userID string, days int) ([]*domain.StudyLog, error) {
	return nil, nil
}

func testDay() *contract.DaySchedule {
	date := domain.Day(time.Now())
	return &contract.DaySchedule{
		Date: date,
		Events: []*domain.ScheduledEvent{
			{ID: "ev-1", Title: "Aula 01", DurationMin: 40, Status: domain.EventPending, Date: date},
			{ID: "ev-2", Title: "Questões 01", DurationMin: 20, Status: domain.EventPending, Date: date},
		},
	}
}

func keyPress(k string) tea.KeyMsg {
	if k == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestTodayModel_LoadsAndRenders(t *testing.T) {
	schedule := &stubScheduleService{day: testDay()}
	m := newTodayModel(&App{Schedule: schedule, UserID: "u1"}, "p1")

	msg := m.loadDay()()
	updated, _ := m.Update(msg)
	model := updated.(*todayModel)

	view := model.View()
	assert.Contains(t, view, "Aula 01")
	assert.Contains(t, view, "Questões 01")
	assert.Contains(t, view, "1h planned")
}

func TestTodayModel_CursorNavigation(t *testing.T) {
	schedule := &stubScheduleService{day: testDay()}
	m := newTodayModel(&App{Schedule: schedule, UserID: "u1"}, "p1")
	m.Update(m.loadDay()())

	m.Update(keyPress("j"))
	assert.Equal(t, 1, m.cursor)

	// Cursor clamps at the last row.
	m.Update(keyPress("j"))
	assert.Equal(t, 1, m.cursor)

	m.Update(keyPress("k"))
	assert.Equal(t, 0, m.cursor)
}

func TestTodayModel_CompleteSelected(t *testing.T) {
	schedule := &stubScheduleService{day: testDay()}
	study := &stubStudyService{}
	m := newTodayModel(&App{Schedule: schedule, Study: study, UserID: "u1"}, "p1")
	m.Update(m.loadDay()())

	m.Update(keyPress("j"))
	_, cmd := m.Update(keyPress(" "))
	require.NotNil(t, cmd)

	msg := cmd()
	completedMsg, ok := msg.(eventCompletedMsg)
	require.True(t, ok)
	require.NoError(t, completedMsg.err)
	assert.Equal(t, []string{"ev-2"}, study.completed)

	_, reload := m.Update(completedMsg)
	assert.Contains(t, m.status, "2 reviews scheduled")
	assert.NotNil(t, reload, "completion triggers a reload")
}

func TestTodayModel_CompletedRowRejected(t *testing.T) {
	day := testDay()
	day.Events[0].Status = domain.EventCompleted
	schedule := &stubScheduleService{day: day}
	m := newTodayModel(&App{Schedule: schedule, UserID: "u1"}, "p1")
	m.Update(m.loadDay()())

	_, cmd := m.Update(keyPress(" "))
	assert.Nil(t, cmd)
	assert.Equal(t, "already completed", m.status)
}

func TestTodayModel_QuitKeys(t *testing.T) {
	schedule := &stubScheduleService{day: testDay()}
	m := newTodayModel(&App{Schedule: schedule, UserID: "u1"}, "p1")
	m.Update(m.loadDay()())

	_, cmd := m.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
