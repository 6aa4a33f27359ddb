package api

import (
	"fmt"
	"net/http"

	"github.com/okian/reviewlens/pkg/logger"
)

// UploadsHandler handles asynchronous uploads.
type UploadsHandler struct {
	uploader Uploader
	maxBytes int64
	logger   logger.Logger
}

// NewUploadsHandler creates a new uploads handler.
func NewUploadsHandler(uploader Uploader, maxBytes int64, l logger.Logger) *UploadsHandler {
	return &UploadsHandler{uploader: uploader, maxBytes: maxBytes, logger: l}
}

// HandleSubmit handles POST /uploads requests. The payload is validated
// before it is queued; 202 means a worker will apply it.
func (h *UploadsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_upload"

	raw, err := readBody(w, r, h.maxBytes)
	if err != nil {
		writeServiceError(w, fmt.Errorf("%s: %w", op, err))
		return
	}
	st, err := h.uploader.Submit(r.Context(), raw)
	if err != nil {
		h.logger.Debug(r.Context(), "upload not queued", logger.String("op", op), logger.Error(err))
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Location", "/uploads/"+st.ID)
	writeJSON(w, http.StatusAccepted, st)
}

// HandleStatus handles GET /uploads/{id} requests.
func (h *UploadsHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.uploader.UploadStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
