package api

import (
	"net/http"

	"github.com/Lllllllleong/toolsuite/internal/registry"
	"github.com/Lllllllleong/toolsuite/internal/tools"
	"github.com/go-chi/chi/v5"
)

// Handler serves the catalog, one-shot tool runs and tool sessions.
type Handler struct {
	registry       *registry.Registry
	sessions       *SessionStore
	maxUploadBytes int64
}

func NewHandler(reg *registry.Registry, sessions *SessionStore, maxUploadBytes int64) *Handler {
	return &Handler{registry: reg, sessions: sessions, maxUploadBytes: maxUploadBytes}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, map[string]any{"status": "ok", "sessions": h.sessions.Len()})
}

// ListTools handles GET /api/tools with an optional ?category= filter.
func (h *Handler) ListTools(w http.ResponseWriter, r *http.Request) {
	list := h.registry.List()
	if category := r.URL.Query().Get("category"); category != "" {
		list = h.registry.ByCategory(category)
	}
	respond(w, r, http.StatusOK, map[string]any{"tools": list, "total": len(list)})
}

func (h *Handler) GetTool(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "toolId")
	d, err := h.registry.Describe(id)
	if err != nil {
		respondError(w, r, toolError(id, err))
		return
	}
	respond(w, r, http.StatusOK, d)
}

func (h *Handler) ListSuites(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, map[string]any{"suites": h.registry.Suites()})
}

func (h *Handler) GetSuite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "suiteId")
	s, members, err := h.registry.Suite(id)
	if err != nil {
		respondError(w, r, NewNotFoundError("suite", id))
		return
	}
	respond(w, r, http.StatusOK, map[string]any{"suite": s, "tools": members})
}

// RunTool handles POST /api/tools/{toolId}/run: a stateless invocation.
func (h *Handler) RunTool(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "toolId")
	if _, _, err := h.registry.Lookup(id); err != nil {
		respondError(w, r, toolError(id, err))
		return
	}
	in, apiErr := readInput(w, r, h.maxUploadBytes)
	if apiErr != nil {
		respondError(w, r, apiErr)
		return
	}
	respondResult(w, r, h.registry.Run(r.Context(), id, in))
}

type createSessionRequest struct {
	ToolID string `json:"toolId"`
}

type invokeResponse struct {
	Published bool           `json:"published"`
	Session   tools.Snapshot `json:"session"`
	Result    *resultSummary `json:"result,omitempty"`
}

// resultSummary describes a result without its file bytes.
type resultSummary struct {
	Kind          string         `json:"kind"`
	SuggestedName string         `json:"suggestedName,omitempty"`
	MIMEType      string         `json:"mimeType,omitempty"`
	Size          int            `json:"size,omitempty"`
	Value         string         `json:"value,omitempty"`
	Message       string         `json:"message,omitempty"`
	Stats         map[string]any `json:"stats,omitempty"`
}
