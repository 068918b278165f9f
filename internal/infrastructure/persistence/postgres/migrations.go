package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE PROFILE
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create profile ledger
-- Version: 001

-- The app serves one operator, so the ledger is a single guarded row.
CREATE TABLE IF NOT EXISTS profile (
    id SMALLINT PRIMARY KEY DEFAULT 1,
    level INTEGER NOT NULL DEFAULT 1,
    experience INTEGER NOT NULL DEFAULT 0,
    experience_to_next_level INTEGER NOT NULL DEFAULT 1000,
    focus_rating INTEGER NOT NULL DEFAULT 0,
    discipline_rating INTEGER NOT NULL DEFAULT 0,
    consistency INTEGER NOT NULL DEFAULT 0,
    streak INTEGER NOT NULL DEFAULT 0,
    best_streak INTEGER NOT NULL DEFAULT 0,
    medals JSONB NOT NULL DEFAULT '[]'::jsonb,
    last_activity_date DATE,
    duty_mode BOOLEAN NOT NULL DEFAULT FALSE,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT single_row CHECK (id = 1),
    CONSTRAINT valid_level CHECK (level >= 1),
    CONSTRAINT valid_experience CHECK (experience >= 0 AND experience < experience_to_next_level),
    CONSTRAINT valid_threshold CHECK (experience_to_next_level >= 1),
    CONSTRAINT valid_focus CHECK (focus_rating >= 0 AND focus_rating <= 100),
    CONSTRAINT valid_discipline CHECK (discipline_rating >= 0 AND discipline_rating <= 100),
    CONSTRAINT valid_consistency CHECK (consistency >= 0 AND consistency <= 100),
    CONSTRAINT valid_streak CHECK (streak >= 0 AND best_streak >= streak)
);

INSERT INTO profile (id) VALUES (1) ON CONFLICT (id) DO NOTHING;

-- Duty calendar: days on which streaks are exempt.
CREATE TABLE IF NOT EXISTS duty_dates (
    day DATE PRIMARY KEY,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`

const migration001Down = `
DROP TABLE IF EXISTS duty_dates;
DROP TABLE IF EXISTS profile;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE SUBJECTS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create subjects
-- Version: 002

CREATE TABLE IF NOT EXISTS subjects (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(100) NOT NULL UNIQUE,
    priority VARCHAR(10) NOT NULL DEFAULT 'medium',
    topics_total INTEGER NOT NULL DEFAULT 0,
    topics_completed INTEGER NOT NULL DEFAULT 0,
    revision_count INTEGER NOT NULL DEFAULT 0,
    last_studied_at TIMESTAMP WITH TIME ZONE,
    last_warned_date DATE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_priority CHECK (priority IN ('high', 'medium', 'low')),
    CONSTRAINT valid_topics CHECK (topics_total >= 0 AND topics_completed >= 0 AND topics_completed <= topics_total),
    CONSTRAINT valid_revisions CHECK (revision_count >= 0)
);

CREATE INDEX IF NOT EXISTS idx_subjects_priority ON subjects(priority);
CREATE INDEX IF NOT EXISTS idx_subjects_last_studied ON subjects(last_studied_at);
`

const migration002Down = `
DROP TABLE IF EXISTS subjects;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE TEMPORAL
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create timetable, reminders, and notifications
-- Version: 003

-- Daily timetable blocks. last_notified_date is the at-most-once-per-day
-- notification guard and must survive restarts.
CREATE TABLE IF NOT EXISTS schedule_entries (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    start_time CHAR(5) NOT NULL,
    end_time CHAR(5) NOT NULL,
    label VARCHAR(150) NOT NULL,
    category VARCHAR(20) NOT NULL DEFAULT 'study',
    last_notified_date DATE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_category CHECK (category IN ('study', 'hospital', 'revision', 'rest'))
);

-- Reminders: recurrence_days empty means one-time with fire_date set.
CREATE TABLE IF NOT EXISTS reminders (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    label VARCHAR(150) NOT NULL,
    fire_time CHAR(5) NOT NULL,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    recurrence_days JSONB NOT NULL DEFAULT '[]'::jsonb,
    fire_date DATE,
    last_triggered_date DATE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_reminders_active ON reminders(active) WHERE active;

CREATE TABLE IF NOT EXISTS notifications (
    id UUID PRIMARY KEY,
    message TEXT NOT NULL,
    category VARCHAR(20) NOT NULL DEFAULT 'general',
    read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_notification_category CHECK (category IN ('schedule', 'alarm', 'revision', 'general'))
);

CREATE INDEX IF NOT EXISTS idx_notifications_created ON notifications(created_at DESC);
`

const migration003Down = `
DROP TABLE IF EXISTS notifications;
DROP TABLE IF EXISTS reminders;
DROP TABLE IF EXISTS schedule_entries;
`
