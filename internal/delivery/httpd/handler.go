package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/config"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/middleware"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/service"
)

// Services groups the business services behind the HTTP API.
// Attachments may be nil when object storage is disabled.
type Services struct {
	Students    service.StudentService
	Assignments service.AssignmentService
	Topics      service.TopicService
	Weeks       service.WeekService
	Auth        service.AuthService
	Attachments service.AttachmentService
}

type Handler struct {
	studentService    service.StudentService
	assignmentService service.AssignmentService
	topicService      service.TopicService
	weekService       service.WeekService
	authService       service.AuthService
	attachmentService service.AttachmentService

	health          []HealthCheck
	admin           func(http.Handler) http.Handler
	credentialLimit func(http.Handler) http.Handler
	maxUpload       int64
	logger          zerolog.Logger
}

type Options struct {
	// Tokens guards admin routes; nil disables the guard.
	Tokens        middleware.TokenValidator
	// RateLimit is one per-IP budget shared by login and change_password.
	RateLimit     config.RateLimitConfig
	MaxUploadSize int64
	HealthChecks  []HealthCheck
}

func NewHandler(services Services, opts Options, logger zerolog.Logger) *Handler {
	return &Handler{
		studentService:    services.Students,
		assignmentService: services.Assignments,
		topicService:      services.Topics,
		weekService:       services.Weeks,
		authService:       services.Auth,
		attachmentService: services.Attachments,
		health:            opts.HealthChecks,
		admin:             middleware.RequireAdmin(opts.Tokens),
		credentialLimit:   middleware.RateLimitByIP(opts.RateLimit.LoginRequests, opts.RateLimit.LoginWindow),
		maxUpload:         opts.MaxUploadSize,
		logger:            logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	// Set before mounting so sub-routers inherit them.
	router.NotFound(h.NotFound)
	router.MethodNotAllowed(h.MethodNotAllowed)

	router.Get("/health", h.HealthCheck)

	router.Route("/api/v1", func(api chi.Router) {
		api.With(h.credentialLimit).Post("/auth/login", h.Login)

		api.Route("/students", func(r chi.Router) {
			// change_password is public, verified by the current password
			// and rate limited with login.
			r.Post("/", h.PostStudents)

			r.Group(func(r chi.Router) {
				r.Use(h.admin)
				r.Get("/", h.GetStudents)
				r.Put("/", h.UpdateStudent)
				r.Delete("/", h.DeleteStudent)
			})
		})

		api.Route("/assignments", func(r chi.Router) {
			r.Get("/", h.GetAssignments)
			r.Post("/", h.PostAssignments)
			r.With(h.admin).Put("/", h.UpdateAssignment)
			r.Delete("/", h.DeleteAssignments)

			r.Get("/comments", h.ListAssignmentComments)
			r.Post("/comments", h.CreateAssignmentComment)
			r.Delete("/comments", h.DeleteAssignmentComment)

			if h.attachmentService != nil {
				r.With(h.admin).Post("/files", h.UploadFile)
			}
		})

		api.Route("/topics", func(r chi.Router) {
			r.Get("/", h.GetTopics)
			r.Post("/", h.PostTopics)
			r.Put("/", h.UpdateTopic)
			r.Delete("/", h.DeleteTopics)

			r.Get("/replies", h.ListReplies)
			r.Post("/replies", h.CreateReply)
			r.Delete("/replies", h.DeleteReply)
		})

		api.Route("/weeks", func(r chi.Router) {
			r.Get("/", h.GetWeeks)
			r.Post("/", h.PostWeeks)
			r.With(h.admin).Put("/", h.UpdateWeek)
			r.Delete("/", h.DeleteWeeks)

			r.Get("/comments", h.ListWeekComments)
			r.Post("/comments", h.CreateWeekComment)
			r.Delete("/comments", h.DeleteWeekComment)
		})

		if h.attachmentService != nil {
			api.Get("/files/{key}", h.DownloadFile)
			api.With(h.admin).Delete("/files/{key}", h.DeleteFile)
		}
	})
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "endpoint not found")
}

func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// guarded runs next behind the admin check.
func (h *Handler) guarded(next http.HandlerFunc) http.HandlerFunc {
	return h.admin(next).ServeHTTP
}

// childResource reads the resource selector of a parent path. Naming the
// parent itself is the same as omitting the selector. It writes a 400 and
// returns false for any value other than "", parent and child.
func childResource(w http.ResponseWriter, r *http.Request, parent, child string) (string, bool) {
	switch resource := r.URL.Query().Get("resource"); resource {
	case "", parent:
		return "", true
	case child:
		return child, true
	default:
		writeError(w, http.StatusBadRequest, "invalid resource")
		return "", false
	}
}

// parentResource reports whether the selector is absent or names parent.
func parentResource(r *http.Request, parent string) bool {
	resource := r.URL.Query().Get("resource")
	return resource == "" || resource == parent
}
