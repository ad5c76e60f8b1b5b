package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/Lllllllleong/toolsuite/internal/tools"
	"github.com/vmihailenco/msgpack/v5"
)

const mimeMsgpack = "application/msgpack"

// wantsMsgpack reports whether the client asked for the binary envelope.
func wantsMsgpack(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && (mediaType == mimeMsgpack || mediaType == "application/x-msgpack") {
			return true
		}
	}
	return false
}

func encodeMsgpack(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// respond writes v as JSON, or as msgpack when negotiated.
func respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	if wantsMsgpack(r) {
		data, err := encodeMsgpack(v)
		if err != nil {
			slog.Error("Failed to encode msgpack response.", "error", err)
			http.Error(w, "failed to encode msgpack", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", mimeMsgpack)
		w.WriteHeader(status)
		_, _ = w.Write(data)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode JSON response.", "error", err)
	}
}

func respondError(w http.ResponseWriter, r *http.Request, err *APIError) {
	if err.Status >= http.StatusInternalServerError {
		slog.Error("Request failed.", "path", r.URL.Path, "code", err.Code, "details", err.Details)
	}
	respond(w, r, err.Status, err)
}

// respondResult sends a file result as a download and any other result as
// an envelope. Error results use 422 so clients can tell them from
// transport failures.
func respondResult(w http.ResponseWriter, r *http.Request, res tools.Result) {
	switch res.Kind {
	case tools.KindFile:
		if len(res.Stats) > 0 {
			if stats, err := json.Marshal(res.Stats); err == nil {
				w.Header().Set("X-Result-Stats", string(stats))
			}
		}
		mimeType := res.MIMEType
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", mimeType)
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.SuggestedName}))
		w.Header().Set("Content-Length", fmt.Sprint(len(res.Data)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(res.Data)
	case tools.KindError:
		respond(w, r, http.StatusUnprocessableEntity, res)
	default:
		respond(w, r, http.StatusOK, res)
	}
}
