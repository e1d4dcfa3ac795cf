package httpd

import (
	"net/http"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/models"
)

const resourceWeeks = "weeks"

func (h *Handler) GetWeeks(w http.ResponseWriter, r *http.Request) {
	resource, ok := childResource(w, r, resourceWeeks, resourceComments)
	if !ok {
		return
	}
	if resource == resourceComments {
		h.ListWeekComments(w, r)
		return
	}

	if weekID := keyQuery(r, "week_id"); weekID != "" {
		week, err := h.weekService.GetWeek(r.Context(), weekID)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeSuccess(w, week)
		return
	}

	weeks, err := h.weekService.ListWeeks(r.Context(), listOptions(r))
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeSuccess(w, weeks)
}

func (h *Handler) PostWeeks(w http.ResponseWriter, r *http.Request) {
	resource, ok := childResource(w, r, resourceWeeks, resourceComments)
	if !ok {
		return
	}
	if resource == resourceComments {
		h.CreateWeekComment(w, r)
		return
	}

	h.guarded(h.CreateWeek)(w, r)
}

func (h *Handler) CreateWeek(w http.ResponseWriter, r *http.Request) {
	var req models.CreateWeekRequest
	if !decodeBody(w, r, &req) {
		return
	}

	week, err := h.weekService.CreateWeek(r.Context(), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeCreated(w, week)
}

func (h *Handler) UpdateWeek(w http.ResponseWriter, r *http.Request) {
	if !parentResource(r, resourceWeeks) {
		h.MethodNotAllowed(w, r)
		return
	}

	var req models.UpdateWeekRequest
	if !decodeBody(w, r, &req) {
		return
	}

	week, err := h.weekService.UpdateWeek(r.Context(), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeSuccess(w, week)
}

func (h *Handler) DeleteWeeks(w http.ResponseWriter, r *http.Request) {
	resource, ok := childResource(w, r, resourceWeeks, resourceComments)
	if !ok {
		return
	}
	if resource == resourceComments {
		h.DeleteWeekComment(w, r)
		return
	}

	h.guarded(h.DeleteWeek)(w, r)
}

func (h *Handler) DeleteWeek(w http.ResponseWriter, r *http.Request) {
	weekID, ok := keyParam(w, r, "week_id")
	if !ok {
		return
	}

	if err := h.weekService.DeleteWeek(r.Context(), weekID); err != nil {
		handleError(w, r, err)
		return
	}

	writeDeleted(w, "week")
}

func (h *Handler) ListWeekComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.weekService.ListComments(r.Context(), keyQuery(r, "week_id"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeSuccess(w, comments)
}

func (h *Handler) CreateWeekComment(w http.ResponseWriter, r *http.Request) {
	var req models.CreateWeekCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	comment, err := h.weekService.CreateComment(r.Context(), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeCreated(w, comment)
}

func (h *Handler) DeleteWeekComment(w http.ResponseWriter, r *http.Request) {
	id, ok := numericParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.weekService.DeleteComment(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}

	writeDeleted(w, "comment")
}
