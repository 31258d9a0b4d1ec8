package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/quizforge/backend/internal/domain/link"
	"github.com/quizforge/backend/internal/id"
)

// ── Request / Response types ────────────────────────────────────────────────

type AddLinksRequest struct {
	URLs []string `json:"urls"`
	// CustomNames maps URL indices (as strings) to display names.
	CustomNames map[string]string `json:"custom_names,omitempty"`
}

func (r *AddLinksRequest) Validate() error {
	if len(r.URLs) == 0 {
		return errors.New("urls is required")
	}
	return nil
}

type RenameLinkRequest struct {
	CustomName string `json:"custom_name" example:"Lecture 3 notes"`
}

func (r *RenameLinkRequest) Validate() error {
	if r.CustomName == "" {
		return errors.New("custom_name is required")
	}
	return nil
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

func (r *BulkDeleteRequest) Validate() error {
	if len(r.IDs) == 0 {
		return errors.New("ids is required")
	}
	return nil
}

type LinkResponse struct {
	ID           string    `json:"id" example:"l1i2n3k4i5d6n7o8"`
	FolderID     string    `json:"folder_id"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	CustomName   string    `json:"custom_name,omitempty"`
	DisplayName  string    `json:"display_name"`
	Preview      string    `json:"preview"`
	Type         string    `json:"type" example:"url"`
	CreatedAt    time.Time `json:"created_at"`
	LastAccessed time.Time `json:"last_accessed"`
}

type AddLinksResponse struct {
	Added  []LinkResponse `json:"added"`
	Failed []FailedSource `json:"failed"`
}

type FailedSource struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

type BulkDeleteResponse struct {
	Deleted int `json:"deleted"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// addLinks extracts the given URLs and saves them into the folder.
// Extraction failures are reported per URL without failing the batch.
// @Summary      Add links to a folder
// @Description  Fetches each URL (web page or YouTube), extracts its content and stores it.
// @Tags         Links
// @Accept       json
// @Produce      json
// @Param        folderID  path      string           true  "Folder ID"
// @Param        body      body      AddLinksRequest  true  "URLs to add"
// @Success      201       {object}  AddLinksResponse
// @Failure      400       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Router       /api/folders/{folderID}/links [post]
func (h *Handler) addLinks(w http.ResponseWriter, r *http.Request) {
	folderID := r.PathValue("folderID")

	if _, err := h.store.GetFolder(folderID); h.handleStoreError(w, err, "folder") {
		return
	}

	var req AddLinksRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	results := h.extractor.FromURLs(r.Context(), req.URLs)

	resp := AddLinksResponse{Added: []LinkResponse{}, Failed: []FailedSource{}}
	for i, res := range results {
		if res.Type == link.TypeError {
			resp.Failed = append(resp.Failed, FailedSource{URL: res.URL, Reason: res.Content})
			continue
		}

		l := link.New(folderID, res.URL, res.Title, res.Content, res.Type)
		l.CustomName = req.CustomNames[strconv.Itoa(i)]
		if err := h.store.SaveLink(l); err != nil {
			h.logger.Error("failed to save link", "url", res.URL, "error", err)
			resp.Failed = append(resp.Failed, FailedSource{URL: res.URL, Reason: "failed to save"})
			continue
		}
		resp.Added = append(resp.Added, linkResponse(l))
	}

	h.store.TouchFolder(folderID)
	respondJSON(w, http.StatusCreated, resp)
}

// listLinks lists a folder's links.
// @Summary      List links in a folder
// @Tags         Links
// @Produce      json
// @Param        folderID  path      string  true  "Folder ID"
// @Success      200       {array}   LinkResponse
// @Failure      404       {object}  map[string]string
// @Router       /api/folders/{folderID}/links [get]
func (h *Handler) listLinks(w http.ResponseWriter, r *http.Request) {
	folderID := r.PathValue("folderID")

	if _, err := h.store.GetFolder(folderID); h.handleStoreError(w, err, "folder") {
		return
	}

	links, err := h.store.ListLinksByFolder(folderID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load links")
		return
	}

	response := make([]LinkResponse, len(links))
	for i, l := range links {
		response[i] = linkResponse(l)
	}
	respondJSON(w, http.StatusOK, response)
}

const maxPDFSize = 32 << 20 // 32 MiB

type UploadResult struct {
	Filename string `json:"filename"`
	Status   string `json:"status"` // "success" or "failed"
	LinkID   string `json:"link_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

type UploadPDFResponse struct {
	Message string         `json:"message"`
	Results []UploadResult `json:"results"`
}

// uploadPDF accepts one or more PDF files, extracts their text and stores
// each as a link. Files are processed independently: a bad file fails its
// own row, not the batch.
// @Summary      Upload PDFs into a folder
// @Description  Multipart upload; every "files" part must be a PDF. Text is extracted server-side.
// @Tags         Links
// @Accept       multipart/form-data
// @Produce      json
// @Param        folderID  path      string  true  "Folder ID"
// @Param        files     formData  file    true  "PDF files"
// @Success      200       {object}  UploadPDFResponse
// @Failure      400       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Router       /api/folders/{folderID}/upload-pdf [post]
func (h *Handler) uploadPDF(w http.ResponseWriter, r *http.Request) {
	folderID := r.PathValue("folderID")

	if _, err := h.store.GetFolder(folderID); h.handleStoreError(w, err, "folder") {
		return
	}

	if err := r.ParseMultipartForm(maxPDFSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		respondError(w, http.StatusBadRequest, "at least one file is required in the files part")
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to prepare upload directory")
		return
	}

	results := make([]UploadResult, 0, len(headers))
	saved := 0
	for _, header := range headers {
		linkID, err := h.savePDF(r, folderID, header)
		if err != nil {
			h.logger.Error("pdf upload failed", "filename", header.Filename, "error", err)
			results = append(results, UploadResult{Filename: header.Filename, Status: "failed", Error: err.Error()})
			continue
		}
		results = append(results, UploadResult{Filename: header.Filename, Status: "success", LinkID: linkID})
		saved++
	}

	if saved > 0 {
		h.store.TouchFolder(folderID)
	}

	respondJSON(w, http.StatusOK, UploadPDFResponse{
		Message: fmt.Sprintf("Processed %d file(s). %d successful.", len(headers), saved),
		Results: results,
	})
}

// savePDF stores one uploaded PDF on disk, extracts its text and saves the
// resulting link. The file is removed again when extraction fails.
func (h *Handler) savePDF(r *http.Request, folderID string, header *multipart.FileHeader) (string, error) {
	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		return "", errors.New("invalid file, must be a PDF")
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer file.Close()

	path := filepath.Join(h.uploadDir, id.GenerateID()+".pdf")
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("storing upload: %w", err)
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("storing upload: %w", err)
	}
	dst.Close()

	content, err := h.extractor.FromPDF(r.Context(), path)
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("extracting text: %w", err)
	}

	l := link.New(folderID, path, pdfTitle(header.Filename), content, link.TypePDF)
	if err := h.store.SaveLink(l); err != nil {
		return "", fmt.Errorf("saving link: %w", err)
	}
	return l.ID, nil
}

// pdfTitle derives a readable title from an uploaded filename.
func pdfTitle(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	return strings.ReplaceAll(name, "_", " ")
}

// getLink returns one link with its full extracted content.
// @Summary      Get a link
// @Tags         Links
// @Produce      json
// @Param        linkID  path      string  true  "Link ID"
// @Success      200     {object}  map[string]any
// @Failure      404     {object}  map[string]string
// @Router       /api/links/{linkID} [get]
func (h *Handler) getLink(w http.ResponseWriter, r *http.Request) {
	l, err := h.store.GetLink(r.PathValue("linkID"))
	if h.handleStoreError(w, err, "link") {
		return
	}

	resp := struct {
		LinkResponse
		Content string `json:"content"`
	}{linkResponse(l), l.Content}
	respondJSON(w, http.StatusOK, resp)
}

// renameLink sets a custom display name on a link.
// @Summary      Rename a link
// @Tags         Links
// @Accept       json
// @Produce      json
// @Param        linkID  path      string             true  "Link ID"
// @Param        body    body      RenameLinkRequest  true  "New name"
// @Success      200     {object}  LinkResponse
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/links/{linkID} [put]
func (h *Handler) renameLink(w http.ResponseWriter, r *http.Request) {
	linkID := r.PathValue("linkID")

	var req RenameLinkRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if h.handleStoreError(w, h.store.RenameLink(linkID, req.CustomName), "link") {
		return
	}

	l, err := h.store.GetLink(linkID)
	if h.handleStoreError(w, err, "link") {
		return
	}
	respondJSON(w, http.StatusOK, linkResponse(l))
}

// deleteLink removes one link.
// @Summary      Delete a link
// @Tags         Links
// @Param        linkID  path  string  true  "Link ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/links/{linkID} [delete]
func (h *Handler) deleteLink(w http.ResponseWriter, r *http.Request) {
	if h.handleStoreError(w, h.store.DeleteLink(r.PathValue("linkID")), "link") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// bulkDeleteLinks removes several links at once.
// @Summary      Bulk-delete links
// @Tags         Links
// @Accept       json
// @Produce      json
// @Param        body  body      BulkDeleteRequest  true  "Link IDs"
// @Success      200   {object}  BulkDeleteResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/links/bulk-delete [post]
func (h *Handler) bulkDeleteLinks(w http.ResponseWriter, r *http.Request) {
	var req BulkDeleteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	deleted, err := h.store.DeleteLinks(req.IDs)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete links")
		return
	}
	respondJSON(w, http.StatusOK, BulkDeleteResponse{Deleted: deleted})
}

func linkResponse(l *link.Link) LinkResponse {
	return LinkResponse{
		ID:           l.ID,
		FolderID:     l.FolderID,
		URL:          l.URL,
		Title:        l.Title,
		CustomName:   l.CustomName,
		DisplayName:  l.DisplayName(),
		Preview:      l.Preview,
		Type:         string(l.Type),
		CreatedAt:    l.CreatedAt,
		LastAccessed: l.LastAccessed,
	}
}
