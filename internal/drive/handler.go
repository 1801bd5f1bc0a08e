package drive

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/stockdash/internal/service"
)

// FolderFinder turns a folder path into a Drive folder ID.
type FolderFinder interface {
	FindFolderByPath(ctx context.Context, path string) (string, error)
}

type Handler struct {
	source        Source
	folders       FolderFinder
	ingestService *IngestService
}

// NewHandler builds the Drive routes. folders may be nil, in which case the
// path query parameter is not supported.
func NewHandler(source Source, folders FolderFinder, ingestService *IngestService) *Handler {
	return &Handler{
		source:        source,
		folders:       folders,
		ingestService: ingestService,
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/drive/files", h.ListFiles).Methods(http.MethodGet)
	router.HandleFunc("/api/drive/files/download", h.DownloadFile).Methods(http.MethodGet)
	router.HandleFunc("/api/drive/consolidate", h.Consolidate).Methods(http.MethodPost)
	router.HandleFunc("/api/drive/export", h.Export).Methods(http.MethodPost)
}

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	folderID := query.Get("folderId")

	if folderPath := query.Get("path"); folderPath != "" {
		if h.folders == nil {
			writeError(w, http.StatusBadRequest, "folder paths are not supported", nil)
			return
		}
		id, err := h.folders.FindFolderByPath(r.Context(), folderPath)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error(), nil)
			return
		}
		folderID = id
	}

	files, err := h.source.ListFiles(r.Context(), folderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if files == nil {
		files = []*File{}
	}
	writeJSON(w, http.StatusOK, files)
}

func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	fileID := r.URL.Query().Get("fileId")
	if fileID == "" {
		writeError(w, http.StatusBadRequest, "fileId parameter is required", nil)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(fileID))

	if err := h.source.DownloadFile(r.Context(), fileID, w); err != nil {
		log.Error().Err(err).Str("file_id", fileID).Msg("drive: download failed")
	}
}

func (h *Handler) Consolidate(w http.ResponseWriter, r *http.Request) {
	req, ok := ingestRequest(w, r)
	if !ok {
		return
	}

	result, err := h.ingestService.Consolidate(r.Context(), req)
	if err != nil {
		writeError(w, service.StatusFor(err), "consolidation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	req, ok := ingestRequest(w, r)
	if !ok {
		return
	}

	out, err := h.ingestService.Export(r.Context(), req)
	if err != nil {
		writeError(w, service.StatusFor(err), "export failed", err)
		return
	}

	w.Header().Set("Content-Type", MimeXLSX)
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(out.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Data)
}

func ingestRequest(w http.ResponseWriter, r *http.Request) (IngestRequest, bool) {
	query := r.URL.Query()
	req := IngestRequest{
		FileID:   query.Get("fileId"),
		Country:  query.Get("country"),
		Category: query.Get("category"),
	}
	if req.FileID == "" {
		writeError(w, http.StatusBadRequest, "fileId parameter is required", nil)
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("drive: encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	body := map[string]string{"error": msg}
	if err != nil {
		body["details"] = err.Error()
		body["kind"] = service.ErrorKind(err)
	}
	writeJSON(w, status, body)
}
