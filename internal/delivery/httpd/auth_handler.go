package httpd

import (
	"net/http"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/models"
)

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeSuccess(w, resp)
}
