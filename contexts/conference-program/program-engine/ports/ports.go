package ports

import (
	"context"
	"time"

	"confhub/contexts/conference-program/program-engine/domain/entities"
)

// Collections are read and written whole. List returns records in stable
// insertion order; Replace swaps the entire collection.

type EventReader interface {
	ListEvents(ctx context.Context) ([]entities.Event, error)
}

type SubmissionRepository interface {
	ListSubmissions(ctx context.Context) ([]entities.Submission, error)
	ReplaceSubmissions(ctx context.Context, submissions []entities.Submission) error
}

type ReviewerReader interface {
	ListReviewers(ctx context.Context) ([]entities.Reviewer, error)
}

type TopicReader interface {
	ListTopics(ctx context.Context) ([]entities.Topic, error)
}

type BulkAssignmentRepository interface {
	ListBulkAssignments(ctx context.Context) ([]entities.BulkAssignment, error)
	ReplaceBulkAssignments(ctx context.Context, assignments []entities.BulkAssignment) error
}

type ManualAssignmentRepository interface {
	ListManualAssignments(ctx context.Context) ([]entities.ManualAssignment, error)
	ReplaceManualAssignments(ctx context.Context, assignments []entities.ManualAssignment) error
}

type SessionRepository interface {
	ListSessions(ctx context.Context) ([]entities.Session, error)
	ReplaceSessions(ctx context.Context, sessions []entities.Session) error
}

type AgendaRepository interface {
	ListAgendas(ctx context.Context) ([]entities.AttendeeAgenda, error)
	ReplaceAgendas(ctx context.Context, agendas []entities.AttendeeAgenda) error
}

type GenerationRepository interface {
	ListGenerations(ctx context.Context) ([]entities.Generation, error)
	ReplaceGenerations(ctx context.Context, generations []entities.Generation) error
}

// UnitOfWork runs fn as one isolated read-modify-write cycle: no other
// unit's writes interleave with it, and a returned error discards the
// writes fn made where the adapter can roll them back. Repository calls
// made inside fn must use the ctx passed to it.
type UnitOfWork interface {
	Atomically(ctx context.Context, fn func(ctx context.Context) error) error
}

type Repository interface {
	UnitOfWork
	EventReader
	SubmissionRepository
	ReviewerReader
	TopicReader
	BulkAssignmentRepository
	ManualAssignmentRepository
	SessionRepository
	AgendaRepository
	GenerationRepository
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Notifier delivers a message to a user. Delivery is fire-and-forget:
// implementations report their own failures and never block the caller on
// them.
type Notifier interface {
	Notify(ctx context.Context, notification entities.Notification)
}

type Metrics interface {
	ObserveAllocation(eventID string, reviewers int, submissions int)
	ObserveProgram(eventID string, sessions int, scheduled int, unscheduled int)
	ObserveManualAssignment(action string)
}
