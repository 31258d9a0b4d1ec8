package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/quizforge/backend/internal/domain/folder"
	"github.com/quizforge/backend/internal/domain/quiz"
	"github.com/quizforge/backend/internal/domain/submission"
)

// ── Response types ──────────────────────────────────────────────────────────

type ExportLink struct {
	URL         string `json:"url"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
	Content     string `json:"content"`
}

type ExportTest struct {
	Name          string             `json:"name"`
	Kind          string             `json:"test_type"`
	Difficulty    string             `json:"difficulty"`
	Tags          []string           `json:"tags"`
	EstimatedTime int                `json:"estimated_time"`
	Questions     []quiz.Question    `json:"questions"`
	Submissions   []ExportSubmission `json:"submissions,omitempty"`
}

type ExportSubmission struct {
	Answers     map[string]string   `json:"answers"`
	Scores      map[string]int      `json:"scores"`
	Metrics     *submission.Metrics `json:"performance_metrics,omitempty"`
	SubmittedAt string              `json:"submitted_at"`
}

type ExportFolder struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Links       []ExportLink `json:"links"`
	Tests       []ExportTest `json:"tests"`
}

type ExportData struct {
	Version    string         `json:"version"`
	ExportedAt string         `json:"exported_at"`
	Folders    []ExportFolder `json:"folders"`
	AdHocTests []ExportTest   `json:"ad_hoc_tests"`
}

type FolderExportResponse struct {
	Version    string       `json:"version"`
	ExportedAt string       `json:"exported_at"`
	Folder     ExportFolder `json:"folder"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// exportAll dumps every folder with its links and tests as a downloadable
// JSON document.
// @Summary      Export all data
// @Tags         Export
// @Produce      json
// @Success      200  {object}  ExportData
// @Failure      500  {object}  map[string]string
// @Router       /api/export [get]
func (h *Handler) exportAll(w http.ResponseWriter, r *http.Request) {
	folders, err := h.store.ListFolders()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load folders")
		return
	}

	exportData := ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Folders:    make([]ExportFolder, 0),
		AdHocTests: make([]ExportTest, 0),
	}

	for _, f := range folders {
		exportFolder, err := h.exportFolder(f.Folder)
		if err != nil {
			continue
		}
		exportData.Folders = append(exportData.Folders, exportFolder)
	}

	all, err := h.store.ListTests()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load tests")
		return
	}
	for _, t := range all {
		if t.FolderID == nil {
			exportData.AdHocTests = append(exportData.AdHocTests, h.exportTest(t))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=quizforge-export.json")
	json.NewEncoder(w).Encode(exportData)
}

// exportFolderData dumps one folder with its links, tests and submissions.
// @Summary      Export a folder
// @Tags         Export
// @Produce      json
// @Param        folderID  path      string  true  "Folder ID"
// @Success      200       {object}  FolderExportResponse
// @Failure      404       {object}  map[string]string
// @Failure      500       {object}  map[string]string
// @Router       /api/folders/{folderID}/export [get]
func (h *Handler) exportFolderData(w http.ResponseWriter, r *http.Request) {
	f, err := h.store.GetFolder(r.PathValue("folderID"))
	if h.handleStoreError(w, err, "folder") {
		return
	}

	exportFolder, err := h.exportFolder(f)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to export folder")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=quizforge-folder-export.json")
	json.NewEncoder(w).Encode(FolderExportResponse{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Folder:     exportFolder,
	})
}

func (h *Handler) exportFolder(f *folder.Folder) (ExportFolder, error) {
	links, err := h.store.ListLinksByFolder(f.ID)
	if err != nil {
		return ExportFolder{}, err
	}
	tests, err := h.store.ListTestsByFolder(f.ID)
	if err != nil {
		return ExportFolder{}, err
	}

	out := ExportFolder{
		Name:        f.Name,
		Description: f.Description,
		Links:       make([]ExportLink, len(links)),
		Tests:       make([]ExportTest, len(tests)),
	}
	for i, l := range links {
		out.Links[i] = ExportLink{
			URL:         l.URL,
			DisplayName: l.DisplayName(),
			Type:        string(l.Type),
			Content:     l.Content,
		}
	}
	for i, t := range tests {
		out.Tests[i] = h.exportTest(t)
	}
	return out, nil
}

func (h *Handler) exportTest(t *quiz.Test) ExportTest {
	out := ExportTest{
		Name:          t.Name,
		Kind:          string(t.Kind),
		Difficulty:    string(t.Difficulty),
		Tags:          t.Tags,
		EstimatedTime: t.EstimatedTime,
		Questions:     t.Questions,
	}

	subs, err := h.store.ListSubmissionsByTest(t.ID)
	if err != nil {
		return out
	}
	for _, sub := range subs {
		out.Submissions = append(out.Submissions, ExportSubmission{
			Answers:     sub.Answers,
			Scores:      sub.Scores,
			Metrics:     sub.Metrics,
			SubmittedAt: sub.SubmittedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}
