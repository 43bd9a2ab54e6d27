package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/codeteak/backend/internal/metrics"
	"github.com/codeteak/backend/internal/model"
	"github.com/codeteak/backend/internal/repository"
	"github.com/codeteak/backend/internal/service"
)

const (
	maxMessageLength = 5000
	defaultPageLimit = 100
	maxPageLimit     = 500
)

// emailPattern is deliberately loose: one local part, one @, one domain with
// a dot. Real deliverability is verified by the auto-reply bounce, not here.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ContactHandler handles contact-form submission and the admin inbox.
type ContactHandler struct {
	service service.SubmissionService
	// databaseConfigured disambiguates an empty list (no data vs. running
	// on the ephemeral tier) for the admin UI.
	databaseConfigured bool
	recorder           *metrics.Recorder
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(svc service.SubmissionService, databaseConfigured bool, recorder *metrics.Recorder) *ContactHandler {
	return &ContactHandler{service: svc, databaseConfigured: databaseConfigured, recorder: recorder}
}

// submitRequest is the expected JSON body for POST /api/contact.
type submitRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Message   string `json:"message"`
}

// validate trims all fields and returns a field-describing error message, or
// "" when the request is acceptable.
func (r *submitRequest) validate() string {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.Message = strings.TrimSpace(r.Message)

	switch {
	case r.FirstName == "":
		return "first_name_required"
	case r.Email == "":
		return "email_required"
	case r.Message == "":
		return "message_required"
	case !emailPattern.MatchString(r.Email):
		return "invalid_email_format"
	case len([]rune(r.Message)) > maxMessageLength:
		return "message_too_long"
	}
	return ""
}

// Submit handles POST /api/contact.
// firstName, email and message are required; lastName is optional.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	if msg := req.validate(); msg != "" {
		h.recorder.Submission("rejected")
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	sub := &model.Submission{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Message:   req.Message,
	}

	if err := h.service.Submit(r.Context(), sub); err != nil {
		h.recorder.Submission("failed")
		writeError(w, http.StatusInternalServerError, "submit_failed")
		return
	}

	h.recorder.Submission("stored")
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Thank you for your message! We will get back to you soon.",
	})
}

// listResponse is the JSON response for GET /api/contact.
type listResponse struct {
	Success            bool                `json:"success"`
	Submissions        []*model.Submission `json:"submissions"`
	Count              int                 `json:"count"`
	TotalCount         int                 `json:"totalCount"`
	Page               int                 `json:"page"`
	Limit              int                 `json:"limit"`
	TotalPages         int                 `json:"totalPages"`
	DatabaseConfigured bool                `json:"databaseConfigured"`
}

// List handles GET /api/contact (admin). Query params: page (default 1),
// limit (default 100, capped at 500). A page beyond the data returns an
// empty list, not an error.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := model.SubmissionListOptions{Page: 1, Limit: defaultPageLimit}

	if p := r.URL.Query().Get("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			opts.Page = n
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			if n > maxPageLimit {
				n = maxPageLimit
			}
			opts.Limit = n
		}
	}

	page, err := h.service.List(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_failed")
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Success:            true,
		Submissions:        page.Items,
		Count:              len(page.Items),
		TotalCount:         page.TotalCount,
		Page:               page.Page,
		Limit:              page.Limit,
		TotalPages:         page.TotalPages,
		DatabaseConfigured: h.databaseConfigured,
	})
}

// updateStatusRequest is the expected JSON body for PATCH /api/contact/{id}.
type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /api/contact/{id} (admin). The body must carry
// status "new" or "solved"; anything else is rejected before the store is
// touched. Setting the current status again succeeds.
func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if !model.ValidStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "invalid_status")
		return
	}

	sub, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "update_failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    "Status updated successfully",
		"submission": sub,
	})
}

// Delete handles DELETE /api/contact/{id} (admin). Deleting an unknown id is
// a 404, so a second delete of the same id reports not found rather than
// erroring.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.service.Delete(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "delete_failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Message deleted successfully",
	})
}
