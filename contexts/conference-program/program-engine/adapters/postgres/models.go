package postgresadapter

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"confhub/contexts/conference-program/program-engine/domain/entities"
	"confhub/contexts/conference-program/program-engine/domain/services"
)

// stringList is stored as a jsonb array.
type stringList []string

func (l stringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (l *stringList) Scan(src any) error {
	var raw []byte
	switch value := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		raw = value
	case string:
		raw = []byte(value)
	default:
		return fmt.Errorf("scan string list: unsupported type %T", src)
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("scan string list: %w", err)
	}
	if len(items) == 0 {
		items = nil
	}
	*l = items
	return nil
}

type eventModel struct {
	EventID   string    `gorm:"column:event_id;primaryKey"`
	Name      string    `gorm:"column:name"`
	StartDate time.Time `gorm:"column:start_date;type:date"`
	EndDate   time.Time `gorm:"column:end_date;type:date"`
	Position  int       `gorm:"column:position"`
}

func (eventModel) TableName() string {
	return "program_events"
}

func (m eventModel) toEntity() entities.Event {
	return entities.Event{
		EventID:   m.EventID,
		Name:      m.Name,
		StartDate: services.CalendarDay(m.StartDate),
		EndDate:   services.CalendarDay(m.EndDate),
	}
}

type submissionModel struct {
	SubmissionID        string     `gorm:"column:submission_id;primaryKey"`
	EventID             string     `gorm:"column:event_id;index"`
	Title               string     `gorm:"column:title"`
	AuthorID            string     `gorm:"column:author_id"`
	Status              string     `gorm:"column:status"`
	TopicID             string     `gorm:"column:topic_id"`
	SessionID           string     `gorm:"column:session_id"`
	AssignedReviewerIDs stringList `gorm:"column:assigned_reviewer_ids;type:jsonb"`
	AssignedReviewerID  string     `gorm:"column:assigned_reviewer_id"`
	Position            int        `gorm:"column:position"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
}

func (submissionModel) TableName() string {
	return "program_submissions"
}

func submissionModelFromEntity(submission entities.Submission, position int) submissionModel {
	return submissionModel{
		SubmissionID:        submission.SubmissionID,
		EventID:             submission.EventID,
		Title:               submission.Title,
		AuthorID:            submission.AuthorID,
		Status:              string(submission.Status),
		TopicID:             submission.TopicID,
		SessionID:           submission.SessionID,
		AssignedReviewerIDs: stringList(submission.AssignedReviewerIDs),
		AssignedReviewerID:  submission.AssignedReviewerID,
		Position:            position,
		CreatedAt:           submission.CreatedAt.UTC(),
		UpdatedAt:           submission.UpdatedAt.UTC(),
	}
}

func (m submissionModel) toEntity() entities.Submission {
	return entities.Submission{
		SubmissionID:        m.SubmissionID,
		EventID:             m.EventID,
		Title:               m.Title,
		AuthorID:            m.AuthorID,
		Status:              entities.SubmissionStatus(m.Status),
		TopicID:             m.TopicID,
		SessionID:           m.SessionID,
		AssignedReviewerIDs: []string(m.AssignedReviewerIDs),
		AssignedReviewerID:  m.AssignedReviewerID,
		CreatedAt:           m.CreatedAt.UTC(),
		UpdatedAt:           m.UpdatedAt.UTC(),
	}
}

type reviewerModel struct {
	ReviewerID string     `gorm:"column:reviewer_id;primaryKey"`
	Name       string     `gorm:"column:name"`
	Email      string     `gorm:"column:email"`
	Active     bool       `gorm:"column:active"`
	EventIDs   stringList `gorm:"column:event_ids;type:jsonb"`
	Position   int        `gorm:"column:position"`
}

func (reviewerModel) TableName() string {
	return "program_reviewers"
}

func (m reviewerModel) toEntity() entities.Reviewer {
	return entities.Reviewer{
		ReviewerID: m.ReviewerID,
		Name:       m.Name,
		Email:      m.Email,
		Active:     m.Active,
		EventIDs:   []string(m.EventIDs),
	}
}

type topicModel struct {
	TopicID         string `gorm:"column:topic_id;primaryKey"`
	EventID         string `gorm:"column:event_id;index"`
	Name            string `gorm:"column:name"`
	DurationMinutes int    `gorm:"column:duration_minutes"`
	Position        int    `gorm:"column:position"`
}

func (topicModel) TableName() string {
	return "program_topics"
}

func (m topicModel) toEntity() entities.Topic {
	return entities.Topic{
		TopicID:         m.TopicID,
		EventID:         m.EventID,
		Name:            m.Name,
		DurationMinutes: m.DurationMinutes,
	}
}

type bulkAssignmentModel struct {
	AssignmentID string    `gorm:"column:assignment_id;primaryKey"`
	EventID      string    `gorm:"column:event_id;index"`
	ReviewerID   string    `gorm:"column:reviewer_id"`
	SubmissionID string    `gorm:"column:submission_id"`
	Status       string    `gorm:"column:status"`
	Generation   int64     `gorm:"column:generation"`
	Position     int       `gorm:"column:position"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (bulkAssignmentModel) TableName() string {
	return "program_bulk_assignments"
}

func (m bulkAssignmentModel) toEntity() entities.BulkAssignment {
	return entities.BulkAssignment{
		AssignmentID: m.AssignmentID,
		EventID:      m.EventID,
		ReviewerID:   m.ReviewerID,
		SubmissionID: m.SubmissionID,
		Status:       entities.AssignmentStatus(m.Status),
		Generation:   m.Generation,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

type manualAssignmentModel struct {
	AssignmentID string    `gorm:"column:assignment_id;primaryKey"`
	SubmissionID string    `gorm:"column:submission_id;uniqueIndex"`
	ReviewerID   string    `gorm:"column:reviewer_id"`
	AssignedBy   string    `gorm:"column:assigned_by"`
	Status       string    `gorm:"column:status"`
	Position     int       `gorm:"column:position"`
	AssignedAt   time.Time `gorm:"column:assigned_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (manualAssignmentModel) TableName() string {
	return "program_manual_assignments"
}

func (m manualAssignmentModel) toEntity() entities.ManualAssignment {
	return entities.ManualAssignment{
		AssignmentID: m.AssignmentID,
		SubmissionID: m.SubmissionID,
		ReviewerID:   m.ReviewerID,
		AssignedBy:   m.AssignedBy,
		Status:       entities.AssignmentStatus(m.Status),
		AssignedAt:   m.AssignedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

type sessionModel struct {
	SessionID     string     `gorm:"column:session_id;primaryKey"`
	EventID       string     `gorm:"column:event_id;index"`
	Title         string     `gorm:"column:title"`
	TopicID       string     `gorm:"column:topic_id"`
	Date          string     `gorm:"column:session_date"`
	StartTime     string     `gorm:"column:start_time"`
	EndTime       string     `gorm:"column:end_time"`
	Location      string     `gorm:"column:location"`
	Kind          string     `gorm:"column:kind"`
	SubmissionIDs stringList `gorm:"column:submission_ids;type:jsonb"`
	OrderIndex    int        `gorm:"column:order_index"`
	Generation    int64      `gorm:"column:generation"`
	Position      int        `gorm:"column:position"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
}

func (sessionModel) TableName() string {
	return "program_sessions"
}

func (m sessionModel) toEntity() entities.Session {
	return entities.Session{
		SessionID:     m.SessionID,
		EventID:       m.EventID,
		Title:         m.Title,
		TopicID:       m.TopicID,
		Date:          m.Date,
		StartTime:     m.StartTime,
		EndTime:       m.EndTime,
		Location:      m.Location,
		Kind:          entities.SessionKind(m.Kind),
		SubmissionIDs: []string(m.SubmissionIDs),
		OrderIndex:    m.OrderIndex,
		Generation:    m.Generation,
		CreatedAt:     m.CreatedAt.UTC(),
	}
}

type agendaModel struct {
	AttendeeID string     `gorm:"column:attendee_id;primaryKey"`
	EventID    string     `gorm:"column:event_id;primaryKey"`
	SessionIDs stringList `gorm:"column:session_ids;type:jsonb"`
	Position   int        `gorm:"column:position"`
	UpdatedAt  time.Time  `gorm:"column:updated_at"`
}

func (agendaModel) TableName() string {
	return "program_attendee_agendas"
}

func (m agendaModel) toEntity() entities.AttendeeAgenda {
	return entities.AttendeeAgenda{
		AttendeeID: m.AttendeeID,
		EventID:    m.EventID,
		SessionIDs: []string(m.SessionIDs),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

type generationModel struct {
	EventID     string    `gorm:"column:event_id;primaryKey"`
	Kind        string    `gorm:"column:kind;primaryKey"`
	Number      int64     `gorm:"column:number"`
	RecordCount int       `gorm:"column:record_count"`
	ReplacedBy  string    `gorm:"column:replaced_by"`
	ReplacedAt  time.Time `gorm:"column:replaced_at"`
	Position    int       `gorm:"column:position"`
}

func (generationModel) TableName() string {
	return "program_generations"
}

func (m generationModel) toEntity() entities.Generation {
	return entities.Generation{
		EventID:     m.EventID,
		Kind:        entities.GenerationKind(m.Kind),
		Number:      m.Number,
		RecordCount: m.RecordCount,
		ReplacedBy:  m.ReplacedBy,
		ReplacedAt:  m.ReplacedAt.UTC(),
	}
}

func allModels() []any {
	return []any{
		&eventModel{},
		&submissionModel{},
		&reviewerModel{},
		&topicModel{},
		&bulkAssignmentModel{},
		&manualAssignmentModel{},
		&sessionModel{},
		&agendaModel{},
		&generationModel{},
	}
}
