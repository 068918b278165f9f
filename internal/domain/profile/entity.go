// Package profile содержит доменную модель журнала прогресса:
// уровень, опыт, серии активных дней и медали оператора.
package profile

import (
	"github.com/shyrus-os/study-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE LEDGER
// ══════════════════════════════════════════════════════════════════════════════

// InitialThreshold is the experience required to leave level 1.
const InitialThreshold = 1000

// Rating is a bounded 0..100 secondary stat (focus, discipline, consistency).
type Rating int

// Clamped returns the rating clamped into [0, 100].
func (r Rating) Clamped() Rating {
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}

// Int returns the underlying int value.
func (r Rating) Int() int {
	return int(r)
}

// Profile is the progression ledger. It is pure data: only the progression
// engine and the streak tracker mutate it, and both return copies.
type Profile struct {
	// Level - текущий уровень (≥1).
	Level int

	// Experience - накопленный опыт внутри текущего уровня.
	// Инвариант: Experience < ExperienceToNextLevel после каждого перехода.
	Experience int

	// ExperienceToNextLevel - порог опыта для следующего уровня.
	ExperienceToNextLevel int

	// FocusRating - вторичный рейтинг концентрации (0..100).
	FocusRating Rating

	// DisciplineRating - вторичный рейтинг дисциплины (0..100).
	DisciplineRating Rating

	// Consistency - рейтинг стабильности (0..100).
	Consistency Rating

	// Streak - текущая серия активных дней.
	Streak int

	// BestStreak - лучшая серия активных дней.
	BestStreak int

	// Medals - полученные медали (без дубликатов).
	Medals []string

	// LastActivityDate - календарный день последней активности.
	LastActivityDate shared.CalendarDay
}

// New returns a fresh ledger at level 1 with no activity recorded.
func New() Profile {
	return Profile{
		Level:                 1,
		Experience:            0,
		ExperienceToNextLevel: InitialThreshold,
	}
}

// Validate checks the ledger's structural invariants.
func (p Profile) Validate() error {
	if p.Level < 1 {
		return shared.NewDomainError("profile", "Validate", shared.ErrValueOutOfRange, "level must be at least 1")
	}
	if p.Experience < 0 {
		return shared.NewDomainError("profile", "Validate", shared.ErrNegativeValue, "experience cannot be negative")
	}
	if p.ExperienceToNextLevel <= 0 {
		return shared.ErrInvalidThreshold
	}
	if p.Streak < 0 {
		return shared.NewDomainError("profile", "Validate", shared.ErrNegativeValue, "streak cannot be negative")
	}
	for _, r := range []Rating{p.FocusRating, p.DisciplineRating, p.Consistency} {
		if r < 0 || r > 100 {
			return shared.ErrInvalidRating
		}
	}
	return nil
}

// HasMedal reports whether the medal has already been awarded.
func (p Profile) HasMedal(name string) bool {
	for _, m := range p.Medals {
		if m == name {
			return true
		}
	}
	return false
}

// awardMedal appends the medal unless it is already present.
// Repeated tier crossings re-grant XP/rating bonuses but never duplicate
// the medal itself.
func (p *Profile) awardMedal(name string) {
	if p.HasMedal(name) {
		return
	}
	p.Medals = append(p.Medals, name)
}

// clone returns a deep copy so engine transitions never alias the caller's
// medal slice.
func (p Profile) clone() Profile {
	out := p
	out.Medals = make([]string, len(p.Medals))
	copy(out.Medals, p.Medals)
	return out
}
