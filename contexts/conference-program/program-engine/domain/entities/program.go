package entities

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

type Event struct {
	EventID   string
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// DayCount is ceil((end-start)/24h)+1. A window ending before it starts has
// no days.
func (e Event) DayCount() int {
	span := e.EndDate.Sub(e.StartDate)
	if span < 0 {
		return 0
	}
	days := int(span / (24 * time.Hour))
	if span%(24*time.Hour) != 0 {
		days++
	}
	return days + 1
}

type Topic struct {
	TopicID         string
	EventID         string
	Name            string
	DurationMinutes int
}

type SessionKind string

const (
	SessionKindTalk    SessionKind = "talk"
	SessionKindPoster  SessionKind = "poster"
	SessionKindPlenary SessionKind = "plenary"
	SessionKindKeynote SessionKind = "keynote"
	SessionKindBreak   SessionKind = "break"
)

func (k SessionKind) Valid() bool {
	switch k {
	case SessionKindTalk, SessionKindPoster, SessionKindPlenary, SessionKindKeynote, SessionKindBreak:
		return true
	default:
		return false
	}
}

// Session is a same-day time block. Date is YYYY-MM-DD and the times are
// zero-padded HH:MM, so lexical order equals chronological order.
type Session struct {
	SessionID     string
	EventID       string
	Title         string
	TopicID       string
	Date          string
	StartTime     string
	EndTime       string
	Location      string
	Kind          SessionKind
	SubmissionIDs []string
	OrderIndex    int
	Generation    int64
	CreatedAt     time.Time
}

func (s Session) Overlaps(other Session) bool {
	if s.Date != other.Date {
		return false
	}
	return s.StartTime < other.EndTime && s.EndTime > other.StartTime
}

// Validate checks the fields required for a manually created session.
func (s Session) Validate() error {
	if strings.TrimSpace(s.EventID) == "" {
		return fmt.Errorf("event id is required")
	}
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if _, err := time.Parse(DateLayout, s.Date); err != nil {
		return fmt.Errorf("date %q must be YYYY-MM-DD", s.Date)
	}
	if !isClock(s.StartTime) {
		return fmt.Errorf("start time %q must be HH:MM", s.StartTime)
	}
	if !isClock(s.EndTime) {
		return fmt.Errorf("end time %q must be HH:MM", s.EndTime)
	}
	if s.StartTime >= s.EndTime {
		return fmt.Errorf("start time must be before end time")
	}
	if !s.Kind.Valid() {
		return fmt.Errorf("unknown session kind %q", s.Kind)
	}
	return nil
}

func isClock(value string) bool {
	if len(value) != len(ClockLayout) {
		return false
	}
	_, err := time.Parse(ClockLayout, value)
	return err == nil
}

type AttendeeAgenda struct {
	AttendeeID string
	EventID    string
	SessionIDs []string
	UpdatedAt  time.Time
}

type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ScheduleWarning is advisory. It is returned alongside a successful result
// and never blocks a save.
type ScheduleWarning struct {
	Code       string
	Severity   Severity
	SessionAID string
	SessionBID string
	Message    string
}

const WarningCodeScheduleConflict = "schedule_conflict"
