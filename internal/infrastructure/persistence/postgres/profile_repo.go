package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shyrus-os/study-hub/internal/domain/profile"
	"github.com/shyrus-os/study-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ProfileRepository implements profile.Repository for PostgreSQL.
// The ledger is a single guarded row; the duty calendar lives beside it.
type ProfileRepository struct {
	conn *Connection
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(conn *Connection) *ProfileRepository {
	return &ProfileRepository{conn: conn}
}

// Get returns the single operator ledger.
func (r *ProfileRepository) Get(ctx context.Context) (profile.Profile, error) {
	query := `
		SELECT level, experience, experience_to_next_level,
		       focus_rating, discipline_rating, consistency,
		       streak, best_streak, medals, last_activity_date
		FROM profile
		WHERE id = 1
	`

	var (
		p                          profile.Profile
		focus, discipline, consist int
		medalsJSON                 []byte
		lastActivity               *time.Time
	)

	err := r.conn.QueryRow(ctx, query).Scan(
		&p.Level,
		&p.Experience,
		&p.ExperienceToNextLevel,
		&focus,
		&discipline,
		&consist,
		&p.Streak,
		&p.BestStreak,
		&medalsJSON,
		&lastActivity,
	)
	if err != nil {
		if IsNoRows(err) {
			// Seed row is created by migration 001; a missing row means
			// a fresh database, so hand back a fresh ledger.
			return profile.New(), nil
		}
		return profile.Profile{}, fmt.Errorf("failed to load profile: %w", err)
	}

	p.FocusRating = profile.Rating(focus)
	p.DisciplineRating = profile.Rating(discipline)
	p.Consistency = profile.Rating(consist)

	if len(medalsJSON) > 0 {
		if err := json.Unmarshal(medalsJSON, &p.Medals); err != nil {
			return profile.Profile{}, fmt.Errorf("failed to unmarshal medals: %w", err)
		}
	}
	if lastActivity != nil {
		p.LastActivityDate = shared.DayOf(*lastActivity)
	}

	return p, nil
}

// Save persists the ledger after an engine transition.
func (r *ProfileRepository) Save(ctx context.Context, p profile.Profile) error {
	medalsJSON, err := json.Marshal(p.Medals)
	if err != nil {
		return fmt.Errorf("failed to marshal medals: %w", err)
	}
	if p.Medals == nil {
		medalsJSON = []byte("[]")
	}

	query := `
		INSERT INTO profile (
			id, level, experience, experience_to_next_level,
			focus_rating, discipline_rating, consistency,
			streak, best_streak, medals, last_activity_date, updated_at
		) VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (id) DO UPDATE SET
			level = EXCLUDED.level,
			experience = EXCLUDED.experience,
			experience_to_next_level = EXCLUDED.experience_to_next_level,
			focus_rating = EXCLUDED.focus_rating,
			discipline_rating = EXCLUDED.discipline_rating,
			consistency = EXCLUDED.consistency,
			streak = EXCLUDED.streak,
			best_streak = EXCLUDED.best_streak,
			medals = EXCLUDED.medals,
			last_activity_date = EXCLUDED.last_activity_date,
			updated_at = NOW()
	`

	_, err = r.conn.Exec(ctx, query,
		p.Level,
		p.Experience,
		p.ExperienceToNextLevel,
		int(p.FocusRating),
		int(p.DisciplineRating),
		int(p.Consistency),
		p.Streak,
		p.BestStreak,
		medalsJSON,
		calendarDayParam(p.LastActivityDate),
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	return nil
}

// DutyDates returns the duty-date calendar.
func (r *ProfileRepository) DutyDates(ctx context.Context) (shared.DaySet, error) {
	rows, err := r.conn.Query(ctx, `SELECT day FROM duty_dates`)
	if err != nil {
		return nil, fmt.Errorf("failed to load duty dates: %w", err)
	}
	defer rows.Close()

	set := shared.NewDaySet()
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("failed to scan duty date: %w", err)
		}
		set.Add(shared.DayOf(day))
	}

	return set, rows.Err()
}

// AddDutyDate marks a day as a duty day.
func (r *ProfileRepository) AddDutyDate(ctx context.Context, day shared.CalendarDay) error {
	if !day.IsValid() {
		return shared.ErrInvalidFormat
	}

	_, err := r.conn.Exec(ctx,
		`INSERT INTO duty_dates (day) VALUES ($1) ON CONFLICT (day) DO NOTHING`,
		string(day),
	)
	if err != nil {
		return fmt.Errorf("failed to add duty date: %w", err)
	}
	return nil
}

// RemoveDutyDate unmarks a duty day.
func (r *ProfileRepository) RemoveDutyDate(ctx context.Context, day shared.CalendarDay) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM duty_dates WHERE day = $1`, string(day))
	if err != nil {
		return fmt.Errorf("failed to remove duty date: %w", err)
	}
	return nil
}

// DutyMode reports whether the duty-mode flag is on.
func (r *ProfileRepository) DutyMode(ctx context.Context) (bool, error) {
	var on bool
	err := r.conn.QueryRow(ctx, `SELECT duty_mode FROM profile WHERE id = 1`).Scan(&on)
	if err != nil {
		if IsNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load duty mode: %w", err)
	}
	return on, nil
}

// SetDutyMode toggles the duty-mode flag.
func (r *ProfileRepository) SetDutyMode(ctx context.Context, on bool) error {
	_, err := r.conn.Exec(ctx,
		`UPDATE profile SET duty_mode = $1, updated_at = NOW() WHERE id = 1`,
		on,
	)
	if err != nil {
		return fmt.Errorf("failed to set duty mode: %w", err)
	}
	return nil
}

// calendarDayParam converts a CalendarDay into a nullable SQL parameter.
func calendarDayParam(d shared.CalendarDay) interface{} {
	if d.IsZero() {
		return nil
	}
	return string(d)
}
