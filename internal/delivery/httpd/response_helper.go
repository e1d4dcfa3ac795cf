package httpd

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/middleware"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/models"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/service"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/validation"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/pkg/utils"
)

const maxBodySize = 1 << 20

const msgServerError = "database error occurred"

func writeSuccess(w http.ResponseWriter, data interface{}) {
	utils.SuccessResponse(w, http.StatusOK, data)
}

func writeCreated(w http.ResponseWriter, data interface{}) {
	utils.SuccessResponse(w, http.StatusCreated, data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	utils.ErrorResponse(w, status, message)
}

func writeDeleted(w http.ResponseWriter, what string) {
	writeSuccess(w, map[string]string{"message": what + " deleted successfully"})
}

// handleError maps service errors to status codes. Domain and validation
// errors carry client-safe text; anything else is logged and hidden.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *validation.Error
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, validationErr.Error())
		return
	}

	var domainErr *service.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, statusForDomainError(domainErr), domainErr.Error())
		return
	}

	log := middleware.GetLoggerFromContext(r.Context())
	log.Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("Request failed")
	writeError(w, http.StatusInternalServerError, msgServerError)
}

func statusForDomainError(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

// decodeBody reads a JSON body of at most maxBodySize bytes into dst and
// writes a 400 when it cannot. An empty body is accepted.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := utils.ReadJSON(r, dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func listOptions(r *http.Request) models.ListOptions {
	q := r.URL.Query()
	return models.ListOptions{
		Search: strings.TrimSpace(q.Get("search")),
		Sort:   strings.TrimSpace(q.Get("sort")),
		Order:  strings.TrimSpace(q.Get("order")),
	}
}

// idValue accepts an identifier sent as a JSON string or number.
type idValue string

func (v *idValue) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = idValue(strings.TrimSpace(s))
		return nil
	}
	if _, err := strconv.ParseFloat(raw, 64); err != nil {
		return errors.New("id must be a string or a number")
	}
	*v = idValue(raw)
	return nil
}

// keyParam returns the first non-empty query parameter among names, then
// falls back to the same names in a JSON body. The second result is false
// when a 400 has already been written.
func keyParam(w http.ResponseWriter, r *http.Request, names ...string) (string, bool) {
	if v := keyQuery(r, names...); v != "" {
		return v, true
	}

	var body map[string]idValue
	if !decodeBody(w, r, &body) {
		return "", false
	}
	for _, name := range names {
		if v := body[name]; v != "" {
			return validation.CleanString(string(v)), true
		}
	}
	return "", true
}

// keyQuery returns the first non-empty query parameter among names,
// cleaned the same way as body fields.
func keyQuery(r *http.Request, names ...string) string {
	q := r.URL.Query()
	for _, name := range names {
		if v := validation.CleanString(q.Get(name)); v != "" {
			return v
		}
	}
	return ""
}

// numericParam is keyParam for BIGSERIAL ids. A missing value yields 0,
// which the services reject as missing.
func numericParam(w http.ResponseWriter, r *http.Request, names ...string) (int64, bool) {
	raw, ok := keyParam(w, r, names...)
	if !ok {
		return 0, false
	}
	return parseID(w, raw, names[0])
}

func numericQuery(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	return parseID(w, strings.TrimSpace(r.URL.Query().Get(name)), name)
}

func parseID(w http.ResponseWriter, raw, name string) (int64, bool) {
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
