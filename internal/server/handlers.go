package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"quicktransfer/internal/api"
	"quicktransfer/internal/errors"
	"quicktransfer/internal/log"

	"github.com/gorilla/mux"
)

// maxMemory is how much of a multipart upload is buffered in memory
// before spilling to temporary files.
const maxMemory = 32 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debugf("failed to write response: %v", err)
	}
}

// writeError maps storage errors to plain-text responses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.IsFileAccessDenied(err), errors.IsInvalidPath(err):
		http.Error(w, "Access denied", http.StatusForbidden)
	case errors.IsFileNotFound(err):
		http.Error(w, "Not found", http.StatusNotFound)
	default:
		log.LogWithError(err).Error("request failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":       "quicktransfer",
		"authorized": s.sessions.authorized(r),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.check(r.FormValue("password")) {
		log.Warnf("failed login from %s", r.RemoteAddr)
		http.Error(w, "Wrong password", http.StatusForbidden)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    s.sessions.issue(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	rel := r.URL.Query().Get("path")
	items, err := s.storage.List(rel)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.Listing{Path: rel, Items: items})
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	rel := mux.Vars(r)["path"]
	f, info, err := s.storage.Open(rel)
	if err != nil {
		writeError(w, err)
		return
	}
	defer f.Close()
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, api.ErrorBody{Error: "No files"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[api.UploadField]
	if len(headers) == 0 {
		writeJSON(w, http.StatusBadRequest, api.ErrorBody{Error: "No files uploaded"})
		return
	}
	dir := r.FormValue(api.UploadPathField)

	saved := make([]string, 0, len(headers))
	for _, fh := range headers {
		if fh.Filename == "" {
			continue
		}
		src, err := fh.Open()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, api.ErrorBody{Error: fmt.Sprintf("cannot read %s", fh.Filename)})
			return
		}
		name, err := s.storage.Save(dir, fh.Filename, src)
		src.Close()
		if err != nil {
			status := http.StatusInternalServerError
			if errors.IsFileAccessDenied(err) {
				status = http.StatusForbidden
			}
			log.LogWithError(err).Warn("upload failed")
			writeJSON(w, status, api.ErrorBody{Error: err.Error()})
			return
		}
		saved = append(saved, name)
	}

	log.LogWithFields(log.F("dir", dir), log.F("count", len(saved))).Info("files uploaded")
	writeJSON(w, http.StatusOK, api.UploadResult{Success: true, Saved: saved})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	rel := mux.Vars(r)["path"]
	dst, err := s.storage.Trash(rel)
	if err != nil {
		writeError(w, err)
		return
	}
	log.LogWithFields(log.F("path", rel)).Info("file moved to trash")
	writeJSON(w, http.StatusOK, api.DeleteResult{
		Status:  "success",
		Message: fmt.Sprintf("File moved to %s", dst),
	})
}
