package web

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"path"

	"github.com/google/uuid"

	"directory/internal/adapters/objectstore"
	"directory/internal/adapters/storage"
	"directory/internal/application/listutil"
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response_encode_failed", "error", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// readError maps a projection error to a response: 404 for missing rows, 500 otherwise.
func readError(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, what+" not found")
		return
	}
	internalError(w, err)
}

func (s *server) pageParams(r *http.Request) listutil.PageParams {
	return listutil.ParsePageParams(r.URL.Query(), s.opts.Limits)
}

// handleHealth handles GET /healthz
func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.opts.Ping != nil {
		if err := s.opts.Ping(r.Context()); err != nil {
			slog.Warn("health_check_failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleFile handles GET /files/{bucket}/{key...} from the local object store.
func (s *server) handleFile(w http.ResponseWriter, r *http.Request) {
	bucket, key := r.PathValue("bucket"), r.PathValue("key")
	f, err := s.opts.LocalFiles.Open(bucket, key)
	if err != nil {
		if errors.Is(err, objectstore.ErrInvalidKey) || errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		internalError(w, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		internalError(w, err)
		return
	}
	if info.IsDir() {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeContent(w, r, path.Base(key), info.ModTime(), f)
}
