package profile

import (
	"github.com/shyrus-os/study-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// STREAK TRACKER
// ══════════════════════════════════════════════════════════════════════════════

// UpdateStreak credits today's activity to the ledger's streak counters.
//
// Дни дежурств (exempt) сохраняют серию без учебного действия: день
// помечается активным, но счётчик не меняется. Обычный день либо продолжает
// серию (вчера была активность), либо начинает новую с единицы. Сравнения
// идут по календарным дням, время суток отбрасывается.
func UpdateStreak(p Profile, today shared.CalendarDay, exempt bool) Profile {
	out := p.clone()

	if exempt {
		out.LastActivityDate = today
		return out
	}

	// Уже засчитано сегодня.
	if out.LastActivityDate == today {
		return out
	}

	yesterday := today.AddDays(-1)
	if out.LastActivityDate == yesterday {
		out.Streak++
	} else {
		// Разорванная цепочка (или самый первый день): сегодня - день 1.
		out.Streak = 1
	}
	if out.Streak > out.BestStreak {
		out.BestStreak = out.Streak
	}
	out.LastActivityDate = today
	return out
}

// StreakBrokenSince reports whether the chain has already lapsed as of today,
// i.e. the last credited day is neither today nor yesterday.
func StreakBrokenSince(p Profile, today shared.CalendarDay) bool {
	if p.LastActivityDate.IsZero() {
		return false
	}
	return p.LastActivityDate != today && p.LastActivityDate != today.AddDays(-1)
}
