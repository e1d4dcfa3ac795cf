package httpd

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/service"
)

const multipartMemory = 8 << 20

func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if h.maxUpload > 0 {
		// Room for the multipart envelope around the file itself.
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+maxBodySize)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			handleError(w, r, service.ErrFileTooLarge)
			return
		}
		if errors.Is(err, http.ErrNotMultipart) {
			writeError(w, http.StatusBadRequest, "request must be multipart/form-data")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			handleError(w, r, service.ErrFileRequired)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid file upload")
		return
	}
	defer file.Close()

	attachment, err := h.attachmentService.Upload(
		r.Context(),
		header.Filename,
		header.Header.Get("Content-Type"),
		file,
		header.Size,
	)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeCreated(w, attachment)
}

func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	body, attachment, err := h.attachmentService.Download(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	defer body.Close()

	contentType := attachment.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(attachment.Size, 10))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": attachment.Name,
	}))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn().Err(err).Str("key", attachment.Key).Msg("Failed to stream attachment")
	}
}

func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	if err := h.attachmentService.Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
		handleError(w, r, err)
		return
	}

	writeDeleted(w, "file")
}
