package handler

import (
	"net/http"
	"net/url"
	"time"

	"github.com/fixora/accounts/application/port/inbound"
	"github.com/fixora/accounts/infrastructure/http/response"
	apperror "github.com/fixora/accounts/pkg/error"
)

type AuditLogHandler struct {
	auditLogUseCase inbound.AuditLogUseCase
}

func NewAuditLogHandler(auditLogUseCase inbound.AuditLogUseCase) *AuditLogHandler {
	return &AuditLogHandler{auditLogUseCase: auditLogUseCase}
}

type logsBody struct {
	Logs []inbound.AuditLogView `json:"logs"`
}

// View lists manipulation log entries filtered by the action, entity_id,
// by_user and created_at query parameters.
func (h *AuditLogHandler) View(w http.ResponseWriter, r *http.Request) {
	query, err := parseAuditLogQuery(r.URL.Query())
	if err != nil {
		response.Error(w, err)
		return
	}

	logs, err := h.auditLogUseCase.View(r.Context(), query)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, logsBody{Logs: logs})
}

func parseAuditLogQuery(values url.Values) (inbound.AuditLogQuery, error) {
	var query inbound.AuditLogQuery
	errs := map[string][]string{}

	if v := values.Get("action"); v != "" {
		query.Action = &v
	}
	if v := values.Get("by_user"); v != "" {
		query.ByUser = &v
	}
	if v := values.Get("entity_id"); v != "" {
		id, ok := optionalID(v)
		if !ok {
			errs["entity_id"] = []string{"The entity id must be an integer."}
		}
		query.EntityID = id
	}
	if v := values.Get("created_at"); v != "" {
		day, err := parseDay(v)
		if err != nil {
			errs["created_at"] = []string{"The created at is not a valid date."}
		} else {
			query.CreatedAt = &day
		}
	}

	if len(errs) > 0 {
		return query, apperror.NewValidation(errs)
	}
	return query, nil
}

// parseDay accepts a calendar date or a full timestamp. A timestamp keeps the
// date as written in its own offset, not the date it falls on in UTC.
func parseDay(value string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
