package profile

import (
	"strconv"

	"github.com/shyrus-os/study-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESSION ENGINE
// Чистый редуктор: (ledger, gain) -> (ledger, milestone).
// ══════════════════════════════════════════════════════════════════════════════

// Progression tuning constants.
const (
	// ThresholdGrowthFactor - во сколько раз растёт порог при каждом уровне.
	ThresholdGrowthFactor = 1.2

	// MilestoneInterval - каждый кратный 10 уровень является вехой.
	MilestoneInterval = 10

	// IronVanguardBonus - бонус XP за уровень 10.
	IronVanguardBonus = 500

	// GoldTierBonus - бонус XP за уровни 40, 50, 60...
	GoldTierBonus = 1000

	// TierRatingBonus - прибавка к focus/discipline на уровнях 20 и 30.
	TierRatingBonus = 5
)

// Medal names, one per tier. Gold tiers are numbered ("Gold Tier 4", ...).
const (
	MedalIronVanguard     = "Iron Vanguard"
	MedalBronzeSpecialist = "Bronze Specialist"
	MedalSilverConsultant = "Silver Consultant"
	medalGoldTierPrefix   = "Gold Tier "
)

// ActivityContext carries the duty-exemption signals the streak tracker
// consults before experience is applied.
type ActivityContext struct {
	// DutyMode - включён ли режим дежурства (госпиталь).
	DutyMode bool

	// DutyDates - календарь дней дежурств.
	DutyDates shared.DaySet
}

// ExemptOn reports whether the day is covered by a duty exemption.
func (c ActivityContext) ExemptOn(day shared.CalendarDay) bool {
	return c.DutyMode || c.DutyDates.Contains(day)
}

// GainResult describes the outcome of one experience-gain transition.
type GainResult struct {
	// Profile - обновлённый журнал.
	Profile Profile

	// MilestoneLevel - последняя достигнутая веха в этом вызове, 0 если нет.
	MilestoneLevel int

	// LevelsGained - на сколько уровней поднялся оператор.
	LevelsGained int
}

// Milestone reports whether this transition crossed a decade boundary.
func (r GainResult) Milestone() bool {
	return r.MilestoneLevel > 0
}

// ApplyExperienceGain runs the full progression transition: streak first,
// then the level-up loop with tier bonuses. The returned ledger always
// satisfies Experience < ExperienceToNextLevel.
//
// Malformed input (negative amount, broken ledger) fails loudly with a
// validation error instead of producing silently wrong medal state.
func ApplyExperienceGain(p Profile, amount int, actx ActivityContext, today shared.CalendarDay) (GainResult, error) {
	if amount < 0 {
		return GainResult{}, shared.ErrNegativeGain
	}
	if err := p.Validate(); err != nil {
		return GainResult{}, err
	}
	if !today.IsValid() {
		return GainResult{}, shared.NewDomainError("profile", "ApplyGain", shared.ErrInvalidFormat, "today must be a valid calendar day")
	}

	out := UpdateStreak(p, today, actx.ExemptOn(today))
	startLevel := out.Level

	out.Experience += amount
	milestone := 0

	// Порог только растёт, поэтому цикл конечен.
	for out.Experience >= out.ExperienceToNextLevel {
		out.Experience -= out.ExperienceToNextLevel
		out.Level++
		out.ExperienceToNextLevel = int(float64(out.ExperienceToNextLevel) * ThresholdGrowthFactor)

		if out.Level%MilestoneInterval != 0 {
			continue
		}

		// Веха: последняя побеждает, бонус может снова запустить цикл.
		milestone = out.Level
		out.applyTierBonus(out.Level)
	}

	return GainResult{
		Profile:        out,
		MilestoneLevel: milestone,
		LevelsGained:   out.Level - startLevel,
	}, nil
}

// applyTierBonus grants the one-time reward for a decade level.
func (p *Profile) applyTierBonus(level int) {
	switch {
	case level == 10:
		p.awardMedal(MedalIronVanguard)
		p.Experience += IronVanguardBonus
	case level == 20:
		p.awardMedal(MedalBronzeSpecialist)
		p.FocusRating = (p.FocusRating + TierRatingBonus).Clamped()
	case level == 30:
		p.awardMedal(MedalSilverConsultant)
		p.DisciplineRating = (p.DisciplineRating + TierRatingBonus).Clamped()
	case level >= 40:
		p.awardMedal(goldTierMedal(level))
		p.Experience += GoldTierBonus
	}
}

// goldTierMedal names the medal for level 40 and above ("Gold Tier 4"...).
func goldTierMedal(level int) string {
	return medalGoldTierPrefix + strconv.Itoa(level/MilestoneInterval)
}
