package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/shyrus-os/study-hub/internal/domain/profile"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS CACHE
// ══════════════════════════════════════════════════════════════════════════════

// Store is the key-value surface ProgressCache needs from the cache client.
// *Cache satisfies it.
type Store interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
}

// ProgressCache caches the dashboard's hot reads: the profile snapshot and
// per-subject retention values. Writers invalidate, readers fall through to
// PostgreSQL on a miss.
type ProgressCache struct {
	cache        Store
	profileTTL   time.Duration
	retentionTTL time.Duration
}

// NewProgressCache creates a new ProgressCache with the given TTLs.
func NewProgressCache(cache Store, profileTTL, retentionTTL time.Duration) *ProgressCache {
	return &ProgressCache{
		cache:        cache,
		profileTTL:   profileTTL,
		retentionTTL: retentionTTL,
	}
}

// GetProfile returns the cached profile snapshot.
// Returns ErrCacheMiss when no snapshot is cached.
func (p *ProgressCache) GetProfile(ctx context.Context) (profile.Profile, error) {
	var prof profile.Profile
	if err := p.cache.Get(ctx, ProfileKey(), &prof); err != nil {
		return profile.Profile{}, err
	}
	return prof, nil
}

// SetProfile caches the profile snapshot.
func (p *ProgressCache) SetProfile(ctx context.Context, prof profile.Profile) error {
	return p.cache.Set(ctx, ProfileKey(), prof, p.profileTTL)
}

// InvalidateProfile drops the cached snapshot. Called after every engine
// transition so the next read sees the persisted state.
func (p *ProgressCache) InvalidateProfile(ctx context.Context) error {
	return p.cache.Delete(ctx, ProfileKey())
}

// GetRetention returns a subject's cached retention percentage.
// Returns ErrCacheMiss when the value has expired or was never cached.
func (p *ProgressCache) GetRetention(ctx context.Context, subjectID string) (int, error) {
	val, err := p.cache.GetString(ctx, RetentionKey(subjectID))
	if err != nil {
		return 0, err
	}

	retention, err := strconv.Atoi(val)
	if err != nil {
		return 0, ErrCacheSerialization
	}
	return retention, nil
}

// SetRetention caches a subject's retention percentage. The short TTL keeps
// the value honest while the decay clock keeps ticking.
func (p *ProgressCache) SetRetention(ctx context.Context, subjectID string, retention int) error {
	return p.cache.SetString(ctx, RetentionKey(subjectID), strconv.Itoa(retention), p.retentionTTL)
}

// InvalidateRetention drops a subject's cached retention. Called after a
// revision pass resets the decay clock.
func (p *ProgressCache) InvalidateRetention(ctx context.Context, subjectID string) error {
	return p.cache.Delete(ctx, RetentionKey(subjectID))
}

// SetBriefing caches the mentor's daily briefing so repeated dashboard loads
// do not re-query the mentor API.
func (p *ProgressCache) SetBriefing(ctx context.Context, text string, ttl time.Duration) error {
	return p.cache.SetString(ctx, MentorKey("briefing"), text, ttl)
}

// GetBriefing returns the cached daily briefing.
func (p *ProgressCache) GetBriefing(ctx context.Context) (string, error) {
	return p.cache.GetString(ctx, MentorKey("briefing"))
}
