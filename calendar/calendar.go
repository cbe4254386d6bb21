package calendar

import (
	"time"

	"github.com/jrsteele09/squadhub/users"
)

type EventType string

const (
	EventTraining EventType = "TRAINING"
	EventMatch    EventType = "MATCH"
	EventMeeting  EventType = "MEETING"
	EventTravel   EventType = "TRAVEL"
	EventRecovery EventType = "RECOVERY"
	EventOther    EventType = "OTHER"
)

var EventTypes = []EventType{EventTraining, EventMatch, EventMeeting, EventTravel, EventRecovery, EventOther}

type AttendanceStatus string

const (
	StatusPresent             AttendanceStatus = "PRESENT"
	StatusAbsent              AttendanceStatus = "ABSENT"
	StatusInjured             AttendanceStatus = "INJURED"
	StatusExcused             AttendanceStatus = "EXCUSED"
	StatusPendingConfirmation AttendanceStatus = "PENDING_CONFIRMATION"
)

// MarkableStatuses are the statuses a coach can set by hand.
var MarkableStatuses = []AttendanceStatus{StatusPresent, StatusAbsent, StatusInjured, StatusExcused}

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusInjured, StatusExcused, StatusPendingConfirmation:
		return true
	}
	return false
}

type Event struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	Team          int64     `json:"team"`
	TeamName      string    `json:"team_name"`
	EventType     EventType `json:"event_type"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Location      *string   `json:"location"`
	CreatedBy     *int64    `json:"created_by"`
	CreatedByName string    `json:"created_by_name"`
	IsMandatory   bool      `json:"is_mandatory"`
	Notes         *string   `json:"notes"`
	CreatedAt     string    `json:"created_at"`
	UpdatedAt     string    `json:"updated_at"`
}

// Duration is the scheduled length of the event.
func (e *Event) Duration() time.Duration {
	return e.EndTime.Sub(e.StartTime)
}

// Upcoming reports whether the event has not ended by now.
func (e *Event) Upcoming(now time.Time) bool {
	return e.EndTime.After(now)
}

type Attendance struct {
	ID             int64            `json:"id"`
	Event          int64            `json:"event"`
	EventTitle     string           `json:"event_title"`
	Player         int64            `json:"player"`
	PlayerName     string           `json:"player_name"`
	PlayerPosition *users.Position  `json:"player_position"`
	Status         AttendanceStatus `json:"status"`
	Notes          *string          `json:"notes"`
	ReportedBy     *int64           `json:"reported_by"`
	ReportedByName string           `json:"reported_by_name"`
	Timestamp      string           `json:"timestamp"`
}
