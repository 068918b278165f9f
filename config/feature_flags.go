package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// FeatureFlags manages feature toggles.
// The app serves a single operator, so flags are plain on/off switches
// loaded once at startup and overridable per flag via environment.
type FeatureFlags struct {
	mu sync.RWMutex

	features map[string]*Feature
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool
}

// Predefined feature flag names.
const (
	// === Progression Features ===
	FeatureProgressionMilestones = "progression.milestones" // decade medals and tier bonuses
	FeatureProgressionStreaks    = "progression.streaks"    // daily streak tracking

	// === Notification Features ===
	FeatureNotifySchedule  = "notify.schedule"  // timetable block alerts
	FeatureNotifyReminders = "notify.reminders" // one-time and recurring alarms
	FeatureNotifyRetention = "notify.retention" // knowledge decay warnings

	// === Mentor Features ===
	FeatureMentorBriefing = "mentor.briefing" // AI daily briefing
	FeatureMentorQuiz     = "mentor.quiz"     // AI quiz generation

	// === Experimental Features ===
	FeatureExperimentalRevisionQueue = "experimental.revision_queue" // priority-ordered revision list
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features: make(map[string]*Feature),
	}

	ff.initializeDefaults()
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	defaults := []Feature{
		{FeatureProgressionMilestones, "Decade milestone medals and tier bonuses", true},
		{FeatureProgressionStreaks, "Daily streak tracking with duty exemptions", true},
		{FeatureNotifySchedule, "Timetable block start alerts", true},
		{FeatureNotifyReminders, "One-time and recurring reminder alarms", true},
		{FeatureNotifyRetention, "Knowledge decay warnings", true},
		{FeatureMentorBriefing, "AI-generated daily briefing", true},
		{FeatureMentorQuiz, "AI-generated revision quizzes", true},
		{FeatureExperimentalRevisionQueue, "Priority-ordered revision queue", true},
	}

	for i := range defaults {
		f := defaults[i]
		ff.features[f.Name] = &f
	}
}

// loadFromEnvironment applies per-flag overrides.
// Example: FEATURE_NOTIFY_RETENTION=false disables decay warnings.
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := "FEATURE_" + strings.ToUpper(strings.ReplaceAll(name, ".", "_"))
		val := os.Getenv(envKey)
		if val == "" {
			continue
		}
		enabled, err := strconv.ParseBool(val)
		if err != nil {
			continue
		}
		feature.Enabled = enabled
	}
}

// IsEnabled reports whether a feature is turned on.
// Unknown flags are disabled.
func (ff *FeatureFlags) IsEnabled(name string) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	f, ok := ff.features[name]
	return ok && f.Enabled
}

// Set toggles a feature at runtime.
func (ff *FeatureFlags) Set(name string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if f, ok := ff.features[name]; ok {
		f.Enabled = enabled
	}
}

// All returns a snapshot of every flag and its state.
func (ff *FeatureFlags) All() map[string]bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	out := make(map[string]bool, len(ff.features))
	for name, f := range ff.features {
		out[name] = f.Enabled
	}
	return out
}
