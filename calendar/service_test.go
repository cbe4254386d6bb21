package calendar_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jrsteele09/squadhub/apiclient/apiclienttest"
	"github.com/jrsteele09/squadhub/calendar"
	apperrors "github.com/jrsteele09/squadhub/internal/errors"
	"github.com/stretchr/testify/require"
)

const eventsJSON = `{"results":[
	{"id":2,"title":"Match","team":3,"team_name":"Reds","event_type":"MATCH","start_time":"2026-04-04T15:00:00Z","end_time":"2026-04-04T17:00:00Z","is_mandatory":true},
	{"id":1,"title":"Training","team":3,"team_name":"Reds","event_type":"TRAINING","start_time":"2026-04-01T18:00:00Z","end_time":"2026-04-01T19:30:00Z","is_mandatory":false}]}`

type testFixture struct {
	backend *apiclienttest.Backend
	service *calendar.Service
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	b := apiclienttest.New(t)
	return &testFixture{backend: b, service: calendar.NewService(b.Client)}
}

func TestService_Events(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	f.backend.Reply(http.MethodGet, "calendar/events/", http.StatusOK, eventsJSON)
	f.backend.Reply(http.MethodPost, "calendar/events/", http.StatusCreated, `{"id":9,"title":"Recovery","event_type":"RECOVERY"}`)
	f.backend.Reply(http.MethodPut, "calendar/events/9/", http.StatusOK, `{"id":9,"title":"Recovery swim","event_type":"RECOVERY"}`)
	f.backend.Reply(http.MethodDelete, "calendar/events/9/", http.StatusNoContent, nil)

	events, err := f.service.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "Training", events[0].Title)
	require.Equal(t, 90*time.Minute, events[0].Duration())
	require.True(t, events[1].Upcoming(time.Date(2026, 4, 4, 16, 0, 0, 0, time.UTC)))

	start := time.Date(2026, 4, 5, 10, 0, 0, 0, time.UTC)
	in := calendar.EventInput{
		Title:     "Recovery",
		Team:      3,
		EventType: calendar.EventRecovery,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	}
	created, err := f.service.CreateEvent(ctx, in)
	require.NoError(t, err)
	require.Equal(t, int64(9), created.ID)
	require.JSONEq(t, `{"title":"Recovery","description":null,"team":3,"event_type":"RECOVERY",
		"start_time":"2026-04-05T10:00:00Z","end_time":"2026-04-05T11:00:00Z","location":null,"is_mandatory":false,"notes":null}`,
		string(f.backend.Last(t).Body))

	in.Title = "Recovery swim"
	updated, err := f.service.UpdateEvent(ctx, 9, in)
	require.NoError(t, err)
	require.Equal(t, "Recovery swim", updated.Title)

	require.NoError(t, f.service.DeleteEvent(ctx, 9))
}

func TestService_Attendance(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	f.backend.Reply(http.MethodGet, "calendar/events/1/attendance/", http.StatusOK,
		`[{"id":1,"event":1,"player":10,"player_name":"Gina Keeper","player_position":"GK","status":"PENDING_CONFIRMATION"}]`)
	f.backend.Reply(http.MethodPut, "calendar/events/1/attendance/10/", http.StatusOK,
		`{"id":1,"event":1,"player":10,"status":"INJURED"}`)

	list, err := f.service.ListAttendance(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, calendar.StatusPendingConfirmation, list[0].Status)

	a, err := f.service.UpdateAttendance(ctx, 1, 10, calendar.AttendanceUpdate{Status: calendar.StatusInjured})
	require.NoError(t, err)
	require.Equal(t, calendar.StatusInjured, a.Status)
	require.JSONEq(t, `{"status":"INJURED"}`, string(f.backend.Last(t).Body))

	_, err = f.service.UpdateAttendance(ctx, 1, 10, calendar.AttendanceUpdate{Status: "LATE"})
	require.ErrorIs(t, err, apperrors.ErrValidation)
	require.Len(t, f.backend.Requests(), 2)
}
