package drive

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

// Handler exposes the Drive sync operations on the admin listener.
type Handler struct {
	service     *Service
	downloader  *Downloader
	downloadDir string
}

func NewHandler(service *Service, downloadDir string) *Handler {
	return &Handler{
		service:     service,
		downloader:  NewDownloader(service),
		downloadDir: downloadDir,
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/drive/files", h.ListFiles).Methods("GET")
	router.HandleFunc("/api/drive/sync", h.Sync).Methods("POST")
}

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	folderID := query.Get("folderId")
	folderPath := query.Get("path")

	var err error
	if folderPath != "" {
		folderID, err = h.service.FindFolderByPath(folderPath)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
	}

	files, err := h.service.ListFiles(folderID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(files)
}

// Sync downloads the folder's demand files into the local download dir so
// they can be ingested into planning sessions.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	folderID := r.URL.Query().Get("folderId")

	paths, err := h.downloader.DownloadDemandFiles(r.Context(), DownloadOptions{
		FolderID:    folderID,
		DownloadDir: h.downloadDir,
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("drive sync failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "success",
		"files":  paths,
	})
}
