package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shyrus-os/study-hub/internal/domain/shared"
	"github.com/shyrus-os/study-hub/internal/domain/subject"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBJECT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// SubjectRepository implements subject.Repository for PostgreSQL.
type SubjectRepository struct {
	conn *Connection
}

// NewSubjectRepository creates a new SubjectRepository.
func NewSubjectRepository(conn *Connection) *SubjectRepository {
	return &SubjectRepository{conn: conn}
}

const subjectColumns = `id, name, priority, topics_total, topics_completed, revision_count, last_studied_at`

// List returns all subjects ordered by priority then name.
func (r *SubjectRepository) List(ctx context.Context) ([]subject.Subject, error) {
	query := `
		SELECT ` + subjectColumns + `
		FROM subjects
		ORDER BY
			CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END,
			name
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []subject.Subject
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}

	return subjects, rows.Err()
}

// FindByID returns a subject by its ID.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (subject.Subject, error) {
	query := `SELECT ` + subjectColumns + ` FROM subjects WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, id)
	s, err := scanSubject(row)
	if err != nil {
		if IsNoRows(err) {
			return subject.Subject{}, shared.ErrSubjectNotFound
		}
		return subject.Subject{}, err
	}
	return s, nil
}

// Save inserts or updates a subject.
func (r *SubjectRepository) Save(ctx context.Context, s subject.Subject) error {
	if err := s.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO subjects (
			id, name, priority, topics_total, topics_completed,
			revision_count, last_studied_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			priority = EXCLUDED.priority,
			topics_total = EXCLUDED.topics_total,
			topics_completed = EXCLUDED.topics_completed,
			revision_count = EXCLUDED.revision_count,
			last_studied_at = EXCLUDED.last_studied_at,
			updated_at = NOW()
	`

	var lastStudied interface{}
	if !s.LastStudiedAt.IsZero() {
		lastStudied = s.LastStudiedAt
	}

	_, err := r.conn.Exec(ctx, query,
		s.ID,
		s.Name,
		string(s.Priority),
		s.TopicsTotal,
		s.TopicsCompleted,
		s.RevisionCount,
		lastStudied,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.NewDomainError("subject", "Save", shared.ErrInvalidInput,
				fmt.Sprintf("subject name %q is already taken", s.Name))
		}
		return fmt.Errorf("failed to save subject: %w", err)
	}

	return nil
}

// LastWarnedOn returns the day a decay warning was last emitted for the
// subject, or the zero day if never.
func (r *SubjectRepository) LastWarnedOn(ctx context.Context, id string) (shared.CalendarDay, error) {
	var warnedOn *time.Time
	err := r.conn.QueryRow(ctx,
		`SELECT last_warned_date FROM subjects WHERE id = $1`, id,
	).Scan(&warnedOn)
	if err != nil {
		if IsNoRows(err) {
			return "", shared.ErrSubjectNotFound
		}
		return "", fmt.Errorf("failed to load warning guard: %w", err)
	}

	if warnedOn == nil {
		return "", nil
	}
	return shared.DayOf(*warnedOn), nil
}

// MarkWarned records that a decay warning was emitted on the given day.
func (r *SubjectRepository) MarkWarned(ctx context.Context, id string, day shared.CalendarDay) error {
	tag, err := r.conn.Exec(ctx,
		`UPDATE subjects SET last_warned_date = $1, updated_at = NOW() WHERE id = $2`,
		string(day), id,
	)
	if err != nil {
		return fmt.Errorf("failed to persist warning guard: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrSubjectNotFound
	}
	return nil
}

// scanSubject scans a subject row.
func scanSubject(row pgx.Row) (subject.Subject, error) {
	var (
		s           subject.Subject
		priority    string
		lastStudied *time.Time
	)

	err := row.Scan(
		&s.ID,
		&s.Name,
		&priority,
		&s.TopicsTotal,
		&s.TopicsCompleted,
		&s.RevisionCount,
		&lastStudied,
	)
	if err != nil {
		return subject.Subject{}, err
	}

	s.Priority = subject.Priority(priority)
	if lastStudied != nil {
		s.LastStudiedAt = *lastStudied
	}

	return s, nil
}
