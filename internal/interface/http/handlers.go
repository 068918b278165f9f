package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/shyrus-os/study-hub/internal/application/command"
	"github.com/shyrus-os/study-hub/internal/domain/schedule"
	"github.com/shyrus-os/study-hub/internal/domain/shared"
	"github.com/shyrus-os/study-hub/internal/domain/subject"
	"github.com/shyrus-os/study-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "Study Hub API",
		"version":     "v1",
		"description": "Progression, retention, and scheduling engine for medical study",
		"endpoints": map[string]string{
			"health":         "/health",
			"progress":       "/api/v1/progress",
			"subjects":       "/api/v1/subjects",
			"revision_queue": "/api/v1/revision-queue",
			"schedule":       "/api/v1/schedule",
			"reminders":      "/api/v1/reminders",
			"notifications":  "/api/v1/notifications",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleReady handles the readiness probe endpoint.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESSION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetProgress handles GET /api/v1/progress
func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	view, err := s.deps.GetProgressHandler.Handle(r.Context())
	if err != nil {
		s.logger.Error("failed to get progress", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to load progress")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// handleCompleteDutyTask handles POST /api/v1/actions/duty-task
func (s *Server) handleCompleteDutyTask(w http.ResponseWriter, r *http.Request) {
	s.applyGain(w, r, command.GainExperienceCommand{Amount: command.XPDutyTask, Source: "duty_task"})
}

// handleCompleteQuest handles POST /api/v1/actions/quest
func (s *Server) handleCompleteQuest(w http.ResponseWriter, r *http.Request) {
	s.applyGain(w, r, command.GainExperienceCommand{Amount: command.XPQuest, Source: "quest"})
}

// handleGainExperience handles POST /api/v1/actions/xp with a caller-chosen amount.
func (s *Server) handleGainExperience(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int    `json:"amount"`
		Source string `json:"source"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return
	}
	if req.Source == "" {
		req.Source = "manual"
	}

	s.applyGain(w, r, command.GainExperienceCommand{Amount: req.Amount, Source: req.Source})
}

// applyGain runs the progression transition and writes the result.
func (s *Server) applyGain(w http.ResponseWriter, r *http.Request, cmd command.GainExperienceCommand) {
	res, err := s.deps.GainExperienceHandler.Handle(r.Context(), cmd)
	if err != nil {
		if errors.Is(err, shared.ErrNegativeGain) {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "XP amount cannot be negative")
			return
		}
		s.logger.Error("failed to apply experience gain", logger.Err(err), logger.String("source", cmd.Source))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to apply experience gain")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"level":           res.Profile.Level,
		"experience":      res.Profile.Experience,
		"levels_gained":   res.LevelsGained,
		"milestone_level": res.MilestoneLevel,
		"medals":          res.Profile.Medals,
		"streak":          res.Profile.Streak,
		"streak_exempt":   res.StreakExempt,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// SUBJECT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// subjectPayload is the write model for subject create/update.
type subjectPayload struct {
	Name            string `json:"name"`
	Priority        string `json:"priority"`
	TopicsTotal     int    `json:"topics_total"`
	TopicsCompleted int    `json:"topics_completed"`
}

// subjectView is the read model for one subject row.
type subjectView struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Priority        string `json:"priority"`
	TopicsTotal     int    `json:"topics_total"`
	TopicsCompleted int    `json:"topics_completed"`
	Coverage        int    `json:"coverage"`
	RevisionCount   int    `json:"revision_count"`
	Retention       int    `json:"retention"`
	Critical        bool   `json:"critical"`
	LastStudiedAt   string `json:"last_studied_at,omitempty"`
}

func (s *Server) subjectToView(subj subject.Subject, now time.Time) subjectView {
	view := subjectView{
		ID:              subj.ID,
		Name:            subj.Name,
		Priority:        string(subj.Priority),
		TopicsTotal:     subj.TopicsTotal,
		TopicsCompleted: subj.TopicsCompleted,
		Coverage:        subj.Coverage(),
		RevisionCount:   subj.RevisionCount,
		Retention:       subj.RetentionAt(now),
		Critical:        subj.Critical(now),
	}
	if !subj.LastStudiedAt.IsZero() {
		view.LastStudiedAt = subj.LastStudiedAt.Format(time.RFC3339)
	}
	return view
}

// handleListSubjects handles GET /api/v1/subjects
func (s *Server) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := s.deps.SubjectRepo.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list subjects", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to list subjects")
		return
	}

	now := s.clk.Now()
	views := make([]subjectView, 0, len(subjects))
	for _, subj := range subjects {
		views = append(views, s.subjectToView(subj, now))
	}

	writeJSON(w, http.StatusOK, views)
}

// handleCreateSubject handles POST /api/v1/subjects
func (s *Server) handleCreateSubject(w http.ResponseWriter, r *http.Request) {
	var req subjectPayload
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return
	}

	subj := subject.Subject{
		ID:              uuid.New().String(),
		Name:            req.Name,
		Priority:        subject.Priority(req.Priority),
		TopicsTotal:     req.TopicsTotal,
		TopicsCompleted: req.TopicsCompleted,
	}
	if req.Priority == "" {
		subj.Priority = subject.PriorityMedium
	}

	if err := s.deps.SubjectRepo.Save(r.Context(), subj); err != nil {
		s.writeDomainError(w, err, "failed to create subject")
		return
	}

	writeJSON(w, http.StatusCreated, s.subjectToView(subj, s.clk.Now()))
}

// handleUpdateSubject handles PUT /api/v1/subjects/{id}
func (s *Server) handleUpdateSubject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	subj, err := s.deps.SubjectRepo.FindByID(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err, "failed to load subject")
		return
	}

	var req subjectPayload
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return
	}

	if req.Name != "" {
		subj.Name = req.Name
	}
	if req.Priority != "" {
		subj.Priority = subject.Priority(req.Priority)
	}
	subj.TopicsTotal = req.TopicsTotal
	subj.TopicsCompleted = req.TopicsCompleted

	if err := s.deps.SubjectRepo.Save(r.Context(), subj); err != nil {
		s.writeDomainError(w, err, "failed to update subject")
		return
	}

	writeJSON(w, http.StatusOK, s.subjectToView(subj, s.clk.Now()))
}

// handleLogRevision handles POST /api/v1/subjects/{id}/revision
func (s *Server) handleLogRevision(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	res, err := s.deps.LogRevisionHandler.Handle(r.Context(), command.LogRevisionCommand{SubjectID: id})
	if err != nil {
		s.writeDomainError(w, err, "failed to log revision")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"subject":        s.subjectToView(res.Subject, s.clk.Now()),
		"retention":      res.Retention,
		"xp_awarded":     command.XPRevision,
		"level":          res.Gain.Profile.Level,
		"levels_gained":  res.Gain.LevelsGained,
		"milestone":      res.Gain.MilestoneLevel,
	})
}

// handleGetRevisionQueue handles GET /api/v1/revision-queue
func (s *Server) handleGetRevisionQueue(w http.ResponseWriter, r *http.Request) {
	view, err := s.deps.GetRevisionQueueHandler.Handle(r.Context())
	if err != nil {
		s.logger.Error("failed to get revision queue", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to load revision queue")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// ══════════════════════════════════════════════════════════════════════════════
// TIMETABLE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// entryPayload is the write model for schedule entries.
type entryPayload struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Label     string `json:"label"`
	Category  string `json:"category"`
}

// handleListEntries handles GET /api/v1/schedule
func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.deps.EntryRepo.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list schedule entries", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to list schedule")
		return
	}
	if entries == nil {
		entries = []schedule.Entry{}
	}

	writeJSON(w, http.StatusOK, entries)
}

// handleCreateEntry handles POST /api/v1/schedule
func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryPayload
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return
	}

	entry := schedule.Entry{
		ID:        uuid.New().String(),
		StartTime: shared.DayTime(req.StartTime),
		EndTime:   shared.DayTime(req.EndTime),
		Label:     req.Label,
		Category:  schedule.Category(req.Category),
	}
	if req.Category == "" {
		entry.Category = schedule.CategoryStudy
	}

	if err := s.deps.EntryRepo.Save(r.Context(), entry); err != nil {
		s.writeDomainError(w, err, "failed to create schedule entry")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// handleUpdateEntry handles PUT /api/v1/schedule/{id}
func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	entries, err := s.deps.EntryRepo.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list schedule entries", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to load schedule")
		return
	}

	var existing *schedule.Entry
	for i := range entries {
		if entries[i].ID == id {
			existing = &entries[i]
			break
		}
	}
	if existing == nil {
		writeJSONError(w, http.StatusNotFound, "not_found", "Schedule entry not found")
		return
	}

	var req entryPayload
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return
	}

	if req.StartTime != "" {
		existing.StartTime = shared.DayTime(req.StartTime)
	}
	if req.EndTime != "" {
		existing.EndTime = shared.DayTime(req.EndTime)
	}
	if req.Label != "" {
		existing.Label = req.Label
	}
	if req.Category != "" {
		existing.Category = schedule.Category(req.Category)
	}

	if err := s.deps.EntryRepo.Save(r.Context(), *existing); err != nil {
		s.writeDomainError(w, err, "failed to update schedule entry")
		return
	}

	writeJSON(w, http.StatusOK, existing)
}

// handleDeleteEntry handles DELETE /api/v1/schedule/{id}
func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.EntryRepo.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeDomainError(w, err, "failed to delete schedule entry")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ══════════════════════════════════════════════════════════════════════════════
// REMINDER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// reminderPayload is the write model for reminders.
type reminderPayload struct {
	Label          string `json:"label"`
	Time           string `json:"time"`
	Active         *bool  `json:"active"`
	RecurrenceDays []int  `json:"recurrence_days"`
	FireDate       string `json:"fire_date"`
}

func (p reminderPayload) apply(rem *schedule.Reminder) {
	if p.Label != "" {
		rem.Label = p.Label
	}
	if p.Time != "" {
		rem.Time = shared.DayTime(p.Time)
	}
	if p.Active != nil {
		rem.Active = *p.Active
	}
	if p.RecurrenceDays != nil {
		rem.RecurrenceDays = rem.RecurrenceDays[:0]
		for _, d := range p.RecurrenceDays {
			rem.RecurrenceDays = append(rem.RecurrenceDays, time.Weekday(d))
		}
	}
	if p.FireDate != "" {
		rem.FireDate = shared.CalendarDay(p.FireDate)
	}
}

// handleListReminders handles GET /api/v1/reminders
func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := s.deps.ReminderRepo.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list reminders", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to list reminders")
		return
	}
	if reminders == nil {
		reminders = []schedule.Reminder{}
	}

	writeJSON(w, http.StatusOK, reminders)
}

// handleCreateReminder handles POST /api/v1/reminders
func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	var req reminderPayload
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return
	}

	rem := schedule.Reminder{
		ID:     uuid.New().String(),
		Active: true,
	}
	req.apply(&rem)

	if err := s.deps.ReminderRepo.Save(r.Context(), rem); err != nil {
		s.writeDomainError(w, err, "failed to create reminder")
		return
	}

	writeJSON(w, http.StatusCreated, rem)
}

// handleUpdateReminder handles PUT /api/v1/reminders/{id}
func (s *Server) handleUpdateReminder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	reminders, err := s.deps.ReminderRepo.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list reminders", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to load reminders")
		return
	}

	var existing *schedule.Reminder
	for i := range reminders {
		if reminders[i].ID == id {
			existing = &reminders[i]
			break
		}
	}
	if existing == nil {
		writeJSONError(w, http.StatusNotFound, "not_found", "Reminder not found")
		return
	}

	var req reminderPayload
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return
	}
	req.apply(existing)

	if err := s.deps.ReminderRepo.Save(r.Context(), *existing); err != nil {
		s.writeDomainError(w, err, "failed to update reminder")
		return
	}

	writeJSON(w, http.StatusOK, existing)
}

// handleDeleteReminder handles DELETE /api/v1/reminders/{id}
func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.ReminderRepo.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeDomainError(w, err, "failed to delete reminder")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListNotifications handles GET /api/v1/notifications
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := s.deps.NotificationRepo.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list notifications", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to list notifications")
		return
	}

	limit := getQueryParamInt(r, "limit", 0)
	if limit > 0 && len(notifications) > limit {
		notifications = notifications[:limit]
	}

	writeJSON(w, http.StatusOK, notifications)
}

// handleMarkNotificationRead handles POST /api/v1/notifications/{id}/read
func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.NotificationRepo.MarkRead(r.Context(), r.PathValue("id")); err != nil {
		s.writeDomainError(w, err, "failed to mark notification read")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// handleDismissNotification handles DELETE /api/v1/notifications/{id}
func (s *Server) handleDismissNotification(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.NotificationRepo.Dismiss(r.Context(), r.PathValue("id")); err != nil {
		s.writeDomainError(w, err, "failed to dismiss notification")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "dismissed"})
}

// ══════════════════════════════════════════════════════════════════════════════
// DUTY HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetDutyState handles GET /api/v1/duty
func (s *Server) handleGetDutyState(w http.ResponseWriter, r *http.Request) {
	state, err := s.deps.ManageDutyHandler.DutyState(r.Context())
	if err != nil {
		s.logger.Error("failed to get duty state", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to load duty state")
		return
	}

	days := state.DutyDates.Days()
	dates := make([]string, 0, len(days))
	for _, d := range days {
		dates = append(dates, string(d))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"duty_mode":  state.DutyMode,
		"duty_dates": dates,
	})
}

// handleSetDutyMode handles PUT /api/v1/duty/mode
func (s *Server) handleSetDutyMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return
	}

	if err := s.deps.ManageDutyHandler.SetDutyMode(r.Context(), req.Enabled); err != nil {
		s.logger.Error("failed to set duty mode", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to set duty mode")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"duty_mode": req.Enabled})
}

// handleAddDutyDate handles POST /api/v1/duty/dates/{day}
func (s *Server) handleAddDutyDate(w http.ResponseWriter, r *http.Request) {
	day := shared.CalendarDay(r.PathValue("day"))
	if err := s.deps.ManageDutyHandler.AddDutyDate(r.Context(), day); err != nil {
		s.writeDomainError(w, err, "failed to add duty date")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"day": string(day)})
}

// handleRemoveDutyDate handles DELETE /api/v1/duty/dates/{day}
func (s *Server) handleRemoveDutyDate(w http.ResponseWriter, r *http.Request) {
	day := shared.CalendarDay(r.PathValue("day"))
	if err := s.deps.ManageDutyHandler.RemoveDutyDate(r.Context(), day); err != nil {
		s.writeDomainError(w, err, "failed to remove duty date")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// ══════════════════════════════════════════════════════════════════════════════
// MENTOR HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleMentorAsk handles POST /api/v1/mentor/ask
func (s *Server) handleMentorAsk(w http.ResponseWriter, r *http.Request) {
	if s.deps.Mentor == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Mentor is not configured")
		return
	}

	var req struct {
		Question string `json:"question"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Question == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "A question is required")
		return
	}

	answer, err := s.deps.Mentor.Ask(r.Context(), req.Question)
	if err != nil {
		s.logger.Error("mentor ask failed", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Mentor request failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

// handleMentorQuiz handles POST /api/v1/mentor/quiz
func (s *Server) handleMentorQuiz(w http.ResponseWriter, r *http.Request) {
	if s.deps.Mentor == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Mentor is not configured")
		return
	}

	var req struct {
		SubjectID string `json:"subject_id"`
		Questions int    `json:"questions"`
	}
	if err := decodeJSON(r, &req); err != nil || req.SubjectID == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "A subject_id is required")
		return
	}

	subj, err := s.deps.SubjectRepo.FindByID(r.Context(), req.SubjectID)
	if err != nil {
		s.writeDomainError(w, err, "failed to load subject")
		return
	}

	quiz, err := s.deps.Mentor.RevisionQuiz(r.Context(), subj.Name, req.Questions)
	if err != nil {
		s.logger.Error("mentor quiz failed", logger.Err(err), logger.String("subject", subj.Name))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Quiz generation failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"subject": subj.Name,
		"quiz":    quiz,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// decodeJSON decodes a request body with a 1MB cap.
func decodeJSON(r *http.Request, dest interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return dec.Decode(dest)
}

// writeDomainError maps domain errors to HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		s.logger.Error(logMsg, logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An internal error occurred")
	}
}
