package memory

import (
	"context"
	"sync"
	"time"

	"confhub/contexts/conference-program/program-engine/domain/entities"
	"confhub/contexts/conference-program/program-engine/ports"

	"github.com/google/uuid"
)

type Seed struct {
	Events      []entities.Event
	Submissions []entities.Submission
	Reviewers   []entities.Reviewer
	Topics      []entities.Topic
}

// Store keeps every collection as an ordered slice so List calls return
// records in insertion order. Reads and writes copy, callers never share
// backing arrays with the store.
type Store struct {
	// work serializes Atomically; mu guards the collections.
	work sync.Mutex
	mu   sync.RWMutex

	events            []entities.Event
	submissions       []entities.Submission
	reviewers         []entities.Reviewer
	topics            []entities.Topic
	bulkAssignments   []entities.BulkAssignment
	manualAssignments []entities.ManualAssignment
	sessions          []entities.Session
	agendas           []entities.AttendeeAgenda
	generations       []entities.Generation
	notifications     []entities.Notification
}

func NewStore(seed Seed) *Store {
	return &Store{
		events:      append([]entities.Event(nil), seed.Events...),
		submissions: cloneSubmissions(seed.Submissions),
		reviewers:   cloneReviewers(seed.Reviewers),
		topics:      append([]entities.Topic(nil), seed.Topics...),
	}
}

// Atomically runs fn while holding the store's unit-of-work lock. When fn
// fails, every writable collection is restored to its state before fn ran.
// It is not reentrant: fn must not call Atomically.
func (s *Store) Atomically(ctx context.Context, fn func(ctx context.Context) error) error {
	s.work.Lock()
	defer s.work.Unlock()

	before := s.snapshot()
	if err := fn(ctx); err != nil {
		s.restore(before)
		return err
	}
	return nil
}

type collections struct {
	submissions       []entities.Submission
	bulkAssignments   []entities.BulkAssignment
	manualAssignments []entities.ManualAssignment
	sessions          []entities.Session
	agendas           []entities.AttendeeAgenda
	generations       []entities.Generation
}

func (s *Store) snapshot() collections {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return collections{
		submissions:       cloneSubmissions(s.submissions),
		bulkAssignments:   append([]entities.BulkAssignment(nil), s.bulkAssignments...),
		manualAssignments: append([]entities.ManualAssignment(nil), s.manualAssignments...),
		sessions:          cloneSessions(s.sessions),
		agendas:           cloneAgendas(s.agendas),
		generations:       append([]entities.Generation(nil), s.generations...),
	}
}

func (s *Store) restore(c collections) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = c.submissions
	s.bulkAssignments = c.bulkAssignments
	s.manualAssignments = c.manualAssignments
	s.sessions = c.sessions
	s.agendas = c.agendas
	s.generations = c.generations
}

func (s *Store) PutEvent(event entities.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.events {
		if existing.EventID == event.EventID {
			s.events[i] = event
			return
		}
	}
	s.events = append(s.events, event)
}

func (s *Store) PutSubmission(submission entities.Submission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	submission = cloneSubmission(submission)
	for i, existing := range s.submissions {
		if existing.SubmissionID == submission.SubmissionID {
			s.submissions[i] = submission
			return
		}
	}
	s.submissions = append(s.submissions, submission)
}

func (s *Store) PutReviewer(reviewer entities.Reviewer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reviewer.EventIDs = append([]string(nil), reviewer.EventIDs...)
	for i, existing := range s.reviewers {
		if existing.ReviewerID == reviewer.ReviewerID {
			s.reviewers[i] = reviewer
			return
		}
	}
	s.reviewers = append(s.reviewers, reviewer)
}

func (s *Store) PutTopic(topic entities.Topic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.topics {
		if existing.TopicID == topic.TopicID {
			s.topics[i] = topic
			return
		}
	}
	s.topics = append(s.topics, topic)
}

func (s *Store) ListEvents(_ context.Context) ([]entities.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.Event(nil), s.events...), nil
}

func (s *Store) ListSubmissions(_ context.Context) ([]entities.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSubmissions(s.submissions), nil
}

func (s *Store) ReplaceSubmissions(_ context.Context, submissions []entities.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = cloneSubmissions(submissions)
	return nil
}

func (s *Store) ListReviewers(_ context.Context) ([]entities.Reviewer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneReviewers(s.reviewers), nil
}

func (s *Store) ListTopics(_ context.Context) ([]entities.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.Topic(nil), s.topics...), nil
}

func (s *Store) ListBulkAssignments(_ context.Context) ([]entities.BulkAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.BulkAssignment(nil), s.bulkAssignments...), nil
}

func (s *Store) ReplaceBulkAssignments(_ context.Context, assignments []entities.BulkAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bulkAssignments = append([]entities.BulkAssignment(nil), assignments...)
	return nil
}

func (s *Store) ListManualAssignments(_ context.Context) ([]entities.ManualAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.ManualAssignment(nil), s.manualAssignments...), nil
}

func (s *Store) ReplaceManualAssignments(_ context.Context, assignments []entities.ManualAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manualAssignments = append([]entities.ManualAssignment(nil), assignments...)
	return nil
}

func (s *Store) ListSessions(_ context.Context) ([]entities.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSessions(s.sessions), nil
}

func (s *Store) ReplaceSessions(_ context.Context, sessions []entities.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = cloneSessions(sessions)
	return nil
}

func (s *Store) ListAgendas(_ context.Context) ([]entities.AttendeeAgenda, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAgendas(s.agendas), nil
}

func (s *Store) ReplaceAgendas(_ context.Context, agendas []entities.AttendeeAgenda) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agendas = cloneAgendas(agendas)
	return nil
}

func (s *Store) ListGenerations(_ context.Context) ([]entities.Generation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.Generation(nil), s.generations...), nil
}

func (s *Store) ReplaceGenerations(_ context.Context, generations []entities.Generation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations = append([]entities.Generation(nil), generations...)
	return nil
}

// Notify records the notification; tests read them back with Notifications.
func (s *Store) Notify(_ context.Context, notification entities.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, notification)
}

func (s *Store) Notifications() []entities.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.Notification(nil), s.notifications...)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func cloneSubmission(submission entities.Submission) entities.Submission {
	submission.AssignedReviewerIDs = append([]string(nil), submission.AssignedReviewerIDs...)
	return submission
}

func cloneSubmissions(items []entities.Submission) []entities.Submission {
	if items == nil {
		return nil
	}
	out := make([]entities.Submission, len(items))
	for i, item := range items {
		out[i] = cloneSubmission(item)
	}
	return out
}

func cloneReviewers(items []entities.Reviewer) []entities.Reviewer {
	if items == nil {
		return nil
	}
	out := make([]entities.Reviewer, len(items))
	for i, item := range items {
		item.EventIDs = append([]string(nil), item.EventIDs...)
		out[i] = item
	}
	return out
}

func cloneSessions(items []entities.Session) []entities.Session {
	if items == nil {
		return nil
	}
	out := make([]entities.Session, len(items))
	for i, item := range items {
		item.SubmissionIDs = append([]string(nil), item.SubmissionIDs...)
		out[i] = item
	}
	return out
}

func cloneAgendas(items []entities.AttendeeAgenda) []entities.AttendeeAgenda {
	if items == nil {
		return nil
	}
	out := make([]entities.AttendeeAgenda, len(items))
	for i, item := range items {
		item.SessionIDs = append([]string(nil), item.SessionIDs...)
		out[i] = item
	}
	return out
}

var (
	_ ports.Repository  = (*Store)(nil)
	_ ports.Clock       = (*Store)(nil)
	_ ports.IDGenerator = (*Store)(nil)
	_ ports.Notifier    = (*Store)(nil)
)
