package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/okian/reviewlens/pkg/logger"
)

// ReviewsHandler serves the collection and synchronous replacement.
type ReviewsHandler struct {
	uploader Uploader
	reader   Reader
	maxBytes int64
	logger   logger.Logger
}

// NewReviewsHandler creates a new reviews handler.
func NewReviewsHandler(uploader Uploader, reader Reader, maxBytes int64, l logger.Logger) *ReviewsHandler {
	return &ReviewsHandler{uploader: uploader, reader: reader, maxBytes: maxBytes, logger: l}
}

// HandleList handles GET /reviews requests.
func (h *ReviewsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.reader.Reviews(r.Context()))
}

// HandleReplace handles POST /reviews requests. The body is the whole new collection.
func (h *ReviewsHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	const op = "api.replace_reviews"

	raw, err := readBody(w, r, h.maxBytes)
	if err != nil {
		writeServiceError(w, fmt.Errorf("%s: %w", op, err))
		return
	}
	res, err := h.uploader.Upload(r.Context(), raw)
	if err != nil {
		h.logger.Debug(r.Context(), "upload rejected", logger.String("op", op), logger.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// readBody reads at most maxBytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request, maxBytes int64) ([]byte, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadBody, err)
	}
	return raw, nil
}
