package httpd

import (
	"net/http"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/models"
)

const (
	resourceAssignments = "assignments"
	resourceComments    = "comments"
)

func (h *Handler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	resource, ok := childResource(w, r, resourceAssignments, resourceComments)
	if !ok {
		return
	}
	if resource == resourceComments {
		h.ListAssignmentComments(w, r)
		return
	}

	if r.URL.Query().Get("id") != "" {
		id, ok := numericQuery(w, r, "id")
		if !ok {
			return
		}
		assignment, err := h.assignmentService.GetAssignment(r.Context(), id)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeSuccess(w, assignment)
		return
	}

	assignments, err := h.assignmentService.ListAssignments(r.Context(), listOptions(r))
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeSuccess(w, assignments)
}

func (h *Handler) PostAssignments(w http.ResponseWriter, r *http.Request) {
	resource, ok := childResource(w, r, resourceAssignments, resourceComments)
	if !ok {
		return
	}
	if resource == resourceComments {
		h.CreateAssignmentComment(w, r)
		return
	}

	h.guarded(h.CreateAssignment)(w, r)
}

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAssignmentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	assignment, err := h.assignmentService.CreateAssignment(r.Context(), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeCreated(w, assignment)
}

func (h *Handler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	if !parentResource(r, resourceAssignments) {
		h.MethodNotAllowed(w, r)
		return
	}

	var req models.UpdateAssignmentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	assignment, err := h.assignmentService.UpdateAssignment(r.Context(), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeSuccess(w, assignment)
}

func (h *Handler) DeleteAssignments(w http.ResponseWriter, r *http.Request) {
	resource, ok := childResource(w, r, resourceAssignments, resourceComments)
	if !ok {
		return
	}
	if resource == resourceComments {
		h.DeleteAssignmentComment(w, r)
		return
	}

	h.guarded(h.DeleteAssignment)(w, r)
}

func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := numericParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.assignmentService.DeleteAssignment(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}

	writeDeleted(w, "assignment")
}

func (h *Handler) ListAssignmentComments(w http.ResponseWriter, r *http.Request) {
	assignmentID, ok := numericQuery(w, r, "assignment_id")
	if !ok {
		return
	}

	comments, err := h.assignmentService.ListComments(r.Context(), assignmentID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeSuccess(w, comments)
}

func (h *Handler) CreateAssignmentComment(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAssignmentCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	comment, err := h.assignmentService.CreateComment(r.Context(), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeCreated(w, comment)
}

func (h *Handler) DeleteAssignmentComment(w http.ResponseWriter, r *http.Request) {
	id, ok := numericParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.assignmentService.DeleteComment(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}

	writeDeleted(w, "comment")
}
