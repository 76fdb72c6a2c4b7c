package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	application "confhub/contexts/conference-program/program-engine/application"
	"confhub/contexts/conference-program/program-engine/domain/entities"
	domainerrors "confhub/contexts/conference-program/program-engine/domain/errors"
	"confhub/contexts/conference-program/program-engine/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	insertBatchSize = 200
	// unitOfWorkLockKey is the transaction-scoped advisory lock every unit of
	// work takes, across all processes sharing the database.
	unitOfWorkLockKey int64 = 0x636f6e66686231
)

type txKey struct{}

// Repository stores each collection in its own table. Replace swaps a table's
// contents inside one transaction; List orders by the position written on the
// last replace so callers see stable insertion order.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(allModels()...); err != nil {
		return r.logError("program_repo_migrate_failed", err)
	}
	return nil
}

// Atomically runs fn in one transaction holding the unit-of-work advisory
// lock. Repository calls made with the ctx handed to fn join that
// transaction; a nested Atomically reuses it.
func (r *Repository) Atomically(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", unitOfWorkLockKey).Error; err != nil {
			return r.logError("program_repo_unit_of_work_lock_failed", err)
		}
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction carried by ctx, or the pool handle.
func (r *Repository) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func (r *Repository) ListEvents(ctx context.Context) ([]entities.Event, error) {
	var rows []eventModel
	if err := r.ordered(ctx, "event_id").Find(&rows).Error; err != nil {
		return nil, r.logError("program_repo_list_events_failed", err)
	}
	items := make([]entities.Event, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListSubmissions(ctx context.Context) ([]entities.Submission, error) {
	var rows []submissionModel
	if err := r.ordered(ctx, "created_at", "submission_id").Find(&rows).Error; err != nil {
		return nil, r.logError("program_repo_list_submissions_failed", err)
	}
	items := make([]entities.Submission, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ReplaceSubmissions(ctx context.Context, submissions []entities.Submission) error {
	rows := make([]submissionModel, 0, len(submissions))
	for i, submission := range submissions {
		rows = append(rows, submissionModelFromEntity(submission, i))
	}
	if err := replaceAll(r.conn(ctx), rows); err != nil {
		return r.logError("program_repo_replace_submissions_failed", err, "count", len(rows))
	}
	return nil
}

func (r *Repository) ListReviewers(ctx context.Context) ([]entities.Reviewer, error) {
	var rows []reviewerModel
	if err := r.ordered(ctx, "reviewer_id").Find(&rows).Error; err != nil {
		return nil, r.logError("program_repo_list_reviewers_failed", err)
	}
	items := make([]entities.Reviewer, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListTopics(ctx context.Context) ([]entities.Topic, error) {
	var rows []topicModel
	if err := r.ordered(ctx, "topic_id").Find(&rows).Error; err != nil {
		return nil, r.logError("program_repo_list_topics_failed", err)
	}
	items := make([]entities.Topic, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListBulkAssignments(ctx context.Context) ([]entities.BulkAssignment, error) {
	var rows []bulkAssignmentModel
	if err := r.ordered(ctx, "assignment_id").Find(&rows).Error; err != nil {
		return nil, r.logError("program_repo_list_bulk_assignments_failed", err)
	}
	items := make([]entities.BulkAssignment, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ReplaceBulkAssignments(ctx context.Context, assignments []entities.BulkAssignment) error {
	rows := make([]bulkAssignmentModel, 0, len(assignments))
	for i, assignment := range assignments {
		rows = append(rows, bulkAssignmentModel{
			AssignmentID: assignment.AssignmentID,
			EventID:      assignment.EventID,
			ReviewerID:   assignment.ReviewerID,
			SubmissionID: assignment.SubmissionID,
			Status:       string(assignment.Status),
			Generation:   assignment.Generation,
			Position:     i,
			CreatedAt:    assignment.CreatedAt.UTC(),
		})
	}
	if err := replaceAll(r.conn(ctx), rows); err != nil {
		return r.logError("program_repo_replace_bulk_assignments_failed", err, "count", len(rows))
	}
	return nil
}

func (r *Repository) ListManualAssignments(ctx context.Context) ([]entities.ManualAssignment, error) {
	var rows []manualAssignmentModel
	if err := r.ordered(ctx, "assignment_id").Find(&rows).Error; err != nil {
		return nil, r.logError("program_repo_list_manual_assignments_failed", err)
	}
	items := make([]entities.ManualAssignment, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// ReplaceManualAssignments relies on the unique index on submission_id as a
// second line behind the registry's own check.
func (r *Repository) ReplaceManualAssignments(ctx context.Context, assignments []entities.ManualAssignment) error {
	rows := make([]manualAssignmentModel, 0, len(assignments))
	for i, assignment := range assignments {
		rows = append(rows, manualAssignmentModel{
			AssignmentID: assignment.AssignmentID,
			SubmissionID: assignment.SubmissionID,
			ReviewerID:   assignment.ReviewerID,
			AssignedBy:   assignment.AssignedBy,
			Status:       string(assignment.Status),
			Position:     i,
			AssignedAt:   assignment.AssignedAt.UTC(),
			UpdatedAt:    assignment.UpdatedAt.UTC(),
		})
	}
	if err := replaceAll(r.conn(ctx), rows); err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateAssignment
		}
		return r.logError("program_repo_replace_manual_assignments_failed", err, "count", len(rows))
	}
	return nil
}

func (r *Repository) ListSessions(ctx context.Context) ([]entities.Session, error) {
	var rows []sessionModel
	if err := r.ordered(ctx, "order_index", "session_id").Find(&rows).Error; err != nil {
		return nil, r.logError("program_repo_list_sessions_failed", err)
	}
	items := make([]entities.Session, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ReplaceSessions(ctx context.Context, sessions []entities.Session) error {
	rows := make([]sessionModel, 0, len(sessions))
	for i, session := range sessions {
		rows = append(rows, sessionModel{
			SessionID:     session.SessionID,
			EventID:       session.EventID,
			Title:         session.Title,
			TopicID:       session.TopicID,
			Date:          session.Date,
			StartTime:     session.StartTime,
			EndTime:       session.EndTime,
			Location:      session.Location,
			Kind:          string(session.Kind),
			SubmissionIDs: stringList(session.SubmissionIDs),
			OrderIndex:    session.OrderIndex,
			Generation:    session.Generation,
			Position:      i,
			CreatedAt:     session.CreatedAt.UTC(),
		})
	}
	if err := replaceAll(r.conn(ctx), rows); err != nil {
		return r.logError("program_repo_replace_sessions_failed", err, "count", len(rows))
	}
	return nil
}

func (r *Repository) ListAgendas(ctx context.Context) ([]entities.AttendeeAgenda, error) {
	var rows []agendaModel
	if err := r.ordered(ctx, "attendee_id", "event_id").Find(&rows).Error; err != nil {
		return nil, r.logError("program_repo_list_agendas_failed", err)
	}
	items := make([]entities.AttendeeAgenda, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ReplaceAgendas(ctx context.Context, agendas []entities.AttendeeAgenda) error {
	rows := make([]agendaModel, 0, len(agendas))
	for i, agenda := range agendas {
		rows = append(rows, agendaModel{
			AttendeeID: agenda.AttendeeID,
			EventID:    agenda.EventID,
			SessionIDs: stringList(agenda.SessionIDs),
			Position:   i,
			UpdatedAt:  agenda.UpdatedAt.UTC(),
		})
	}
	if err := replaceAll(r.conn(ctx), rows); err != nil {
		return r.logError("program_repo_replace_agendas_failed", err, "count", len(rows))
	}
	return nil
}

func (r *Repository) ListGenerations(ctx context.Context) ([]entities.Generation, error) {
	var rows []generationModel
	if err := r.ordered(ctx, "event_id", "kind").Find(&rows).Error; err != nil {
		return nil, r.logError("program_repo_list_generations_failed", err)
	}
	items := make([]entities.Generation, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ReplaceGenerations(ctx context.Context, generations []entities.Generation) error {
	rows := make([]generationModel, 0, len(generations))
	for i, generation := range generations {
		rows = append(rows, generationModel{
			EventID:     generation.EventID,
			Kind:        string(generation.Kind),
			Number:      generation.Number,
			RecordCount: generation.RecordCount,
			ReplacedBy:  generation.ReplacedBy,
			ReplacedAt:  generation.ReplacedAt.UTC(),
			Position:    i,
		})
	}
	if err := replaceAll(r.conn(ctx), rows); err != nil {
		return r.logError("program_repo_replace_generations_failed", err, "count", len(rows))
	}
	return nil
}

// ordered applies position ordering followed by the given tie-break columns.
func (r *Repository) ordered(ctx context.Context, tieBreak ...string) *gorm.DB {
	tx := r.conn(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: "position"}})
	for _, column := range tieBreak {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: column}})
	}
	return tx
}

func replaceAll[T any](db *gorm.DB, rows []T) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(new(T)).Error; err != nil {
			return fmt.Errorf("clear table: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, insertBatchSize).Error; err != nil {
			return fmt.Errorf("insert rows: %w", err)
		}
		return nil
	})
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", application.LogModule,
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("program repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.Repository = (*Repository)(nil)
