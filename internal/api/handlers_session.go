package api

import (
	"encoding/json"
	"net/http"

	"github.com/Lllllllleong/toolsuite/internal/tools"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*tools.Session, bool) {
	id := chi.URLParam(r, "sessionId")
	sess, ok := h.sessions.Get(id)
	if !ok {
		respondError(w, r, NewNotFoundError("session", id))
	}
	return sess, ok
}

// CreateSession handles POST /api/sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		respondError(w, r, NewBadRequestError("could not parse JSON", err))
		return
	}
	if req.ToolID == "" {
		respondError(w, r, NewBadRequestError("toolId is required", nil))
		return
	}
	sess, err := h.registry.NewSession(req.ToolID)
	if err != nil {
		respondError(w, r, toolError(req.ToolID, err))
		return
	}
	h.sessions.Add(sess)
	respond(w, r, http.StatusCreated, sess.Snapshot())
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	if sess, ok := h.session(w, r); ok {
		respond(w, r, http.StatusOK, sess.Snapshot())
	}
}

// SetSessionInput handles POST /api/sessions/{sessionId}/input. Replacing
// the input makes any in-flight invocation stale.
func (h *Handler) SetSessionInput(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	in, apiErr := readInput(w, r, h.maxUploadBytes)
	if apiErr != nil {
		respondError(w, r, apiErr)
		return
	}
	if err := sess.SetInput(in); err != nil {
		respondError(w, r, toolError(sess.ToolID, err))
		return
	}
	respond(w, r, http.StatusOK, sess.Snapshot())
}

// InvokeSession handles POST /api/sessions/{sessionId}/invoke. The call
// blocks until the invocation finishes. File bytes are fetched separately
// from the result endpoint.
func (h *Handler) InvokeSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	res, published, err := sess.Invoke(r.Context())
	if err != nil {
		respondError(w, r, toolError(sess.ToolID, err))
		return
	}
	resp := invokeResponse{Published: published, Session: sess.Snapshot()}
	if published {
		resp.Result = summarize(res)
	}
	respond(w, r, http.StatusOK, resp)
}

// SessionResult handles GET /api/sessions/{sessionId}/result. Downloading a
// file result releases its buffer.
func (h *Handler) SessionResult(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	res, ticket, ok := sess.Result()
	if !ok {
		respondError(w, r, NewNotFoundError("result for session", sess.ID))
		return
	}
	respondResult(w, r, res)
	if res.Kind == tools.KindFile {
		sess.ReleaseIf(ticket)
	}
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionId")
	if !h.sessions.Delete(id) {
		respondError(w, r, NewNotFoundError("session", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func summarize(res tools.Result) *resultSummary {
	return &resultSummary{
		Kind:          string(res.Kind),
		SuggestedName: res.SuggestedName,
		MIMEType:      res.MIMEType,
		Size:          len(res.Data),
		Value:         res.Value,
		Message:       res.Message,
		Stats:         res.Stats,
	}
}
