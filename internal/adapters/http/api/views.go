package api

import "net/http"

const defaultNotificationLimit = 20

// ViewsHandler serves the aggregated dashboard views.
type ViewsHandler struct {
	reader Reader
}

// NewViewsHandler creates a new views handler.
func NewViewsHandler(reader Reader) *ViewsHandler {
	return &ViewsHandler{reader: reader}
}

// busyHeader marks responses computed while a replacement was in flight.
func (h *ViewsHandler) busyHeader(w http.ResponseWriter) {
	if h.reader.Busy() {
		w.Header().Set("X-Store-Busy", "true")
	}
}

// HandleDashboard handles GET /dashboard?page=N requests.
func (h *ViewsHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	page, err := intQuery(r, "page", 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	h.busyHeader(w)
	writeJSON(w, http.StatusOK, h.reader.Dashboard(r.Context(), page))
}

// HandleSummary handles GET /summary requests.
func (h *ViewsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	h.busyHeader(w)
	writeJSON(w, http.StatusOK, h.reader.Summary(r.Context()))
}

// HandleRatings handles GET /ratings requests.
func (h *ViewsHandler) HandleRatings(w http.ResponseWriter, r *http.Request) {
	h.busyHeader(w)
	writeJSON(w, http.StatusOK, h.reader.Ratings(r.Context()))
}

// HandleLocations handles GET /locations requests.
func (h *ViewsHandler) HandleLocations(w http.ResponseWriter, r *http.Request) {
	h.busyHeader(w)
	writeJSON(w, http.StatusOK, h.reader.Locations(r.Context()))
}

// HandleTrend handles GET /trend requests.
func (h *ViewsHandler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	h.busyHeader(w)
	writeJSON(w, http.StatusOK, nonNil(h.reader.Trend(r.Context())))
}

// HandleWords handles GET /words?limit=N requests.
func (h *ViewsHandler) HandleWords(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	h.busyHeader(w)
	writeJSON(w, http.StatusOK, nonNil(h.reader.Words(r.Context(), limit)))
}

// HandleRecent handles GET /recent?page=N requests.
func (h *ViewsHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	page, err := intQuery(r, "page", 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	h.busyHeader(w)
	writeJSON(w, http.StatusOK, h.reader.Recent(r.Context(), page))
}

// HandleNotifications handles GET /notifications?limit=N requests.
func (h *ViewsHandler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", defaultNotificationLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(h.reader.Notifications(r.Context(), limit)))
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
