package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/tracklive/internal/db"
	"github.com/ukydev/tracklive/internal/ingest"
)

// Envelope is the common response shape for every endpoint. Error is only
// populated in development builds.
type Envelope struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message,omitempty"`
	Data        any         `json:"data,omitempty"`
	Errors      []string    `json:"errors,omitempty"`
	ValidFields []string    `json:"validFields,omitempty"`
	Error       string      `json:"error,omitempty"`
	Pagination  *Pagination `json:"pagination,omitempty"`
}

// Pagination describes one page of a limit/offset query.
type Pagination struct {
	CurrentPage     int   `json:"currentPage"`
	TotalPages      int   `json:"totalPages"`
	Limit           int64 `json:"limit"`
	Offset          int64 `json:"offset"`
	Total           int64 `json:"total"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
	ResultCount     int   `json:"resultCount"`
}

// NewPagination computes page metadata for a limit/offset window.
func NewPagination(limit, offset, total int64, resultCount int) *Pagination {
	currentPage := int(offset/limit) + 1
	totalPages := int((total + limit - 1) / limit)
	return &Pagination{
		CurrentPage:     currentPage,
		TotalPages:      totalPages,
		Limit:           limit,
		Offset:          offset,
		Total:           total,
		HasNextPage:     currentPage < totalPages,
		HasPreviousPage: currentPage > 1,
		ResultCount:     resultCount,
	}
}

// API holds the handler dependencies: the shared store handle, the ingestion
// service and the build mode.
type API struct {
	Store   *db.Store
	Ingest  *ingest.Service
	DevMode bool
}

func (a *API) writeJSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.WithError(err).Error("failed to encode response")
	}
}

// fail writes an error envelope; the underlying error detail is exposed only
// in development mode.
func (a *API) fail(w http.ResponseWriter, status int, message string, err error) {
	env := Envelope{Success: false, Message: message}
	if a.DevMode && err != nil {
		env.Error = err.Error()
	}
	if status >= http.StatusInternalServerError && err != nil {
		log.WithError(err).Error(message)
	}
	a.writeJSON(w, status, env)
}

// parsePage reads limit/offset query parameters with the 50/0 defaults.
func parsePage(r *http.Request) (limit, offset int64) {
	limit, offset = 50, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
