package calendar

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jrsteele09/squadhub/apiclient"
	apperrors "github.com/jrsteele09/squadhub/internal/errors"
)

const eventsPath = "calendar/events/"

type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// EventInput is the body for creating or replacing an event.
type EventInput struct {
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Team        int64     `json:"team"`
	EventType   EventType `json:"event_type"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Location    *string   `json:"location"`
	IsMandatory bool      `json:"is_mandatory"`
	Notes       *string   `json:"notes"`
}

// AttendanceUpdate is the body for marking a player's attendance.
type AttendanceUpdate struct {
	Status AttendanceStatus `json:"status"`
	Notes  *string          `json:"notes,omitempty"`
}

// ListEvents returns events sorted by start time.
func (s *Service) ListEvents(ctx context.Context) ([]Event, error) {
	events, err := apiclient.GetList[Event](ctx, s.client, eventsPath, nil)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
	return events, nil
}

func (s *Service) CreateEvent(ctx context.Context, in EventInput) (*Event, error) {
	var e Event
	if err := s.client.Post(ctx, eventsPath, in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Service) UpdateEvent(ctx context.Context, id int64, in EventInput) (*Event, error) {
	var e Event
	if err := s.client.Put(ctx, eventPath(id), in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Service) DeleteEvent(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, eventPath(id))
}

func (s *Service) ListAttendance(ctx context.Context, eventID int64) ([]Attendance, error) {
	return apiclient.GetList[Attendance](ctx, s.client, eventPath(eventID)+"attendance/", nil)
}

func (s *Service) UpdateAttendance(ctx context.Context, eventID, playerID int64, update AttendanceUpdate) (*Attendance, error) {
	if !update.Status.Valid() {
		return nil, apperrors.Wrapf(apperrors.ErrValidation, "attendance status %q", update.Status)
	}
	var a Attendance
	path := fmt.Sprintf("%sattendance/%d/", eventPath(eventID), playerID)
	if err := s.client.Put(ctx, path, update, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func eventPath(id int64) string {
	return fmt.Sprintf("%s%d/", eventsPath, id)
}
