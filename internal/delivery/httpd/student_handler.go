package httpd

import (
	"net/http"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/models"
)

const actionChangePassword = "change_password"

// PostStudents creates a student (admin) or, with
// ?action=change_password, changes a password.
func (h *Handler) PostStudents(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("action") {
	case "":
		h.guarded(h.CreateStudent)(w, r)
	case actionChangePassword:
		h.credentialLimit(http.HandlerFunc(h.ChangePassword)).ServeHTTP(w, r)
	default:
		writeError(w, http.StatusBadRequest, "invalid action")
	}
}

func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStudentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	student, err := h.studentService.CreateStudent(r.Context(), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeCreated(w, student)
}

// GetStudents returns one student for ?student_id=, else the list.
func (h *Handler) GetStudents(w http.ResponseWriter, r *http.Request) {
	if studentID := keyQuery(r, "student_id"); studentID != "" {
		student, err := h.studentService.GetStudent(r.Context(), studentID)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeSuccess(w, student)
		return
	}

	students, err := h.studentService.ListStudents(r.Context(), listOptions(r))
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeSuccess(w, students)
}

func (h *Handler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateStudentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	student, err := h.studentService.UpdateStudent(r.Context(), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeSuccess(w, student)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.studentService.ChangePassword(r.Context(), &req); err != nil {
		handleError(w, r, err)
		return
	}

	writeSuccess(w, map[string]string{"message": "password updated successfully"})
}

func (h *Handler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	studentID, ok := keyParam(w, r, "student_id")
	if !ok {
		return
	}

	if err := h.studentService.DeleteStudent(r.Context(), studentID); err != nil {
		handleError(w, r, err)
		return
	}

	writeDeleted(w, "student")
}
