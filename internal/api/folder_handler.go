package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/quizforge/backend/internal/domain/folder"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateFolderRequest struct {
	Name        string `json:"name" example:"Physics"`
	Description string `json:"description" example:"Mechanics and thermodynamics"`
}

func (r *CreateFolderRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type UpdateFolderRequest struct {
	Name        string `json:"name" example:"Physics II"`
	Description string `json:"description" example:"Electromagnetism"`
}

func (r *UpdateFolderRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type FolderResponse struct {
	ID          string    `json:"id" example:"f1o2l3d4e5r6i7d8"`
	Name        string    `json:"name" example:"Physics"`
	Description string    `json:"description" example:"Mechanics and thermodynamics"`
	LinkCount   int       `json:"link_count" example:"4"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type GetFolderResponse struct {
	FolderResponse
	Links []LinkResponse `json:"links"`
	Tests []TestSummary  `json:"tests"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createFolder creates a new folder.
// @Summary      Create a folder
// @Description  Create a new folder for grouping study content.
// @Tags         Folders
// @Accept       json
// @Produce      json
// @Param        body  body      CreateFolderRequest  true  "Folder to create"
// @Success      201   {object}  FolderResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/folders [post]
func (h *Handler) createFolder(w http.ResponseWriter, r *http.Request) {
	var req CreateFolderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	f := folder.New(req.Name, req.Description)
	if err := h.store.SaveFolder(f); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save folder")
		return
	}

	respondJSON(w, http.StatusCreated, folderResponse(f, 0))
}

// listFolders lists all folders with their link counts.
// @Summary      List folders
// @Description  Returns all folders, most recently used first.
// @Tags         Folders
// @Produce      json
// @Success      200  {array}   FolderResponse
// @Failure      500  {object}  map[string]string
// @Router       /api/folders [get]
func (h *Handler) listFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.store.ListFolders()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load folders")
		return
	}

	response := make([]FolderResponse, len(folders))
	for i, f := range folders {
		response[i] = folderResponse(f.Folder, f.LinkCount)
	}
	respondJSON(w, http.StatusOK, response)
}

// getFolder returns a folder with its links and tests.
// @Summary      Get a folder
// @Description  Returns a folder with its content sources and generated tests.
// @Tags         Folders
// @Produce      json
// @Param        folderID  path      string  true  "Folder ID"
// @Success      200       {object}  GetFolderResponse
// @Failure      404       {object}  map[string]string
// @Router       /api/folders/{folderID} [get]
func (h *Handler) getFolder(w http.ResponseWriter, r *http.Request) {
	folderID := r.PathValue("folderID")

	f, err := h.store.GetFolder(folderID)
	if h.handleStoreError(w, err, "folder") {
		return
	}

	links, err := h.store.ListLinksByFolder(folderID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load links")
		return
	}
	tests, err := h.store.ListTestsByFolder(folderID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load tests")
		return
	}

	resp := GetFolderResponse{
		FolderResponse: folderResponse(f, len(links)),
		Links:          make([]LinkResponse, len(links)),
		Tests:          make([]TestSummary, len(tests)),
	}
	for i, l := range links {
		resp.Links[i] = linkResponse(l)
	}
	for i, t := range tests {
		resp.Tests[i] = testSummary(t)
	}

	respondJSON(w, http.StatusOK, resp)
}

// updateFolder renames a folder or changes its description.
// @Summary      Update a folder
// @Tags         Folders
// @Accept       json
// @Produce      json
// @Param        folderID  path      string               true  "Folder ID"
// @Param        body      body      UpdateFolderRequest  true  "New folder data"
// @Success      200       {object}  FolderResponse
// @Failure      400       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Router       /api/folders/{folderID} [put]
func (h *Handler) updateFolder(w http.ResponseWriter, r *http.Request) {
	folderID := r.PathValue("folderID")

	var req UpdateFolderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	f := &folder.Folder{
		ID:          folderID,
		Name:        req.Name,
		Description: req.Description,
	}
	if h.handleStoreError(w, h.store.UpdateFolder(f), "folder") {
		return
	}

	updated, err := h.store.GetFolder(folderID)
	if h.handleStoreError(w, err, "folder") {
		return
	}
	respondJSON(w, http.StatusOK, folderResponse(updated, 0))
}

// deleteFolder removes a folder. Its links are deleted with it; tests
// generated from the folder survive as ad-hoc tests.
// @Summary      Delete a folder
// @Tags         Folders
// @Param        folderID  path  string  true  "Folder ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/folders/{folderID} [delete]
func (h *Handler) deleteFolder(w http.ResponseWriter, r *http.Request) {
	folderID := r.PathValue("folderID")

	if h.handleStoreError(w, h.store.DeleteFolder(folderID), "folder") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func folderResponse(f *folder.Folder, linkCount int) FolderResponse {
	return FolderResponse{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		LinkCount:   linkCount,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}
