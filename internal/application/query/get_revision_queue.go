package query

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shyrus-os/study-hub/internal/domain/subject"
	"github.com/shyrus-os/study-hub/pkg/clock"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET REVISION QUEUE QUERY
// Orders subjects by decayed retention so the weakest memory is revised first.
// ══════════════════════════════════════════════════════════════════════════════

// RevisionItem is one row of the revision queue.
type RevisionItem struct {
	SubjectID      string `json:"subject_id"`
	Name           string `json:"name"`
	Priority       string `json:"priority"`
	Retention      int    `json:"retention"`
	Coverage       int    `json:"coverage"`
	DaysIdle       int    `json:"days_idle"`
	Critical       bool   `json:"critical"`
	NeedsAttention bool   `json:"needs_attention"`
}

// RevisionQueueView is the read model for the revision queue.
type RevisionQueueView struct {
	Items         []RevisionItem `json:"items"`
	CriticalCount int            `json:"critical_count"`
}

// RetentionCache caches computed retention values per subject. Implemented
// by the Redis progress cache; nil disables caching.
type RetentionCache interface {
	GetRetention(ctx context.Context, subjectID string) (int, error)
	SetRetention(ctx context.Context, subjectID string, retention int) error
}

// GetRevisionQueueHandler handles the revision queue query.
type GetRevisionQueueHandler struct {
	subjectRepo subject.Repository
	clk         clock.Clock
	cache       RetentionCache
}

// NewGetRevisionQueueHandler creates a new GetRevisionQueueHandler.
// Pass a nil cache to always recompute retention.
func NewGetRevisionQueueHandler(subjectRepo subject.Repository, clk clock.Clock, cache RetentionCache) *GetRevisionQueueHandler {
	return &GetRevisionQueueHandler{subjectRepo: subjectRepo, clk: clk, cache: cache}
}

// Handle returns the revision queue, weakest retention first. Unstarted
// subjects are excluded: there is nothing to revise yet.
func (h *GetRevisionQueueHandler) Handle(ctx context.Context) (*RevisionQueueView, error) {
	subjects, err := h.subjectRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_revision_queue: failed to list subjects: %w", err)
	}

	now := h.clk.Now()
	view := &RevisionQueueView{Items: make([]RevisionItem, 0, len(subjects))}

	for _, s := range subjects {
		if s.Unstarted() || s.LastStudiedAt.IsZero() {
			continue
		}

		retention := h.retention(ctx, s, now)

		item := RevisionItem{
			SubjectID:      s.ID,
			Name:           s.Name,
			Priority:       string(s.Priority),
			Retention:      retention,
			Coverage:       s.Coverage(),
			DaysIdle:       subject.DaysIdle(s.LastStudiedAt, now),
			Critical:       retention < subject.CriticalThreshold,
			NeedsAttention: retention < subject.AttentionThreshold,
		}
		if item.Critical {
			view.CriticalCount++
		}
		view.Items = append(view.Items, item)
	}

	sort.SliceStable(view.Items, func(i, j int) bool {
		return view.Items[i].Retention < view.Items[j].Retention
	})

	return view, nil
}

// retention returns the subject's retention, served from the cache when a
// fresh value is there. Cache errors are treated as misses.
func (h *GetRevisionQueueHandler) retention(ctx context.Context, s subject.Subject, now time.Time) int {
	if h.cache != nil {
		if cached, err := h.cache.GetRetention(ctx, s.ID); err == nil {
			return cached
		}
	}

	retention := s.RetentionAt(now)
	if h.cache != nil {
		_ = h.cache.SetRetention(ctx, s.ID, retention)
	}
	return retention
}
