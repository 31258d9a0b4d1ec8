package api

import (
	"errors"
	"net/http"

	"github.com/quizforge/backend/internal/analytics"
	"github.com/quizforge/backend/internal/domain/quiz"
)

// ── Response types ──────────────────────────────────────────────────────────

type InsightsResponse struct {
	Insights string `json:"insights"`
}

type ComprehensiveSubmissionResponse struct {
	SubmissionResponse
	TestName string   `json:"test_name"`
	TestTags []string `json:"test_tags,omitempty"`
}

type AvailableContentResponse struct {
	FolderID           string `json:"folder_id"`
	Links              int    `json:"links"`
	ComprehensiveTests int    `json:"comprehensive_tests"`
	Submissions        int    `json:"submissions"`
	AnalyticsReady     bool   `json:"analytics_ready"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// performanceAnalytics returns the folder's aggregated performance report.
// @Summary      Folder performance analytics
// @Description  Aggregates all comprehensive-test submissions of the folder into skill, topic and difficulty averages, weak areas and a trend.
// @Tags         Analytics
// @Produce      json
// @Param        folderID  path      string  true  "Folder ID"
// @Success      200       {object}  analytics.Report
// @Failure      404       {object}  map[string]string
// @Failure      500       {object}  map[string]string
// @Router       /api/folders/{folderID}/performance-analytics [get]
func (h *Handler) performanceAnalytics(w http.ResponseWriter, r *http.Request) {
	folderID := r.PathValue("folderID")

	if _, err := h.store.GetFolder(folderID); h.handleStoreError(w, err, "folder") {
		return
	}

	report, err := h.analytics.FolderReport(folderID)
	if errors.Is(err, analytics.ErrNoData) {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("analytics failed", "folder_id", folderID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to analyze folder")
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// performanceInsights returns an AI-written narrative over the folder report.
// @Summary      Folder performance insights
// @Description  Runs the analytics report through the LLM and returns rendered HTML insights.
// @Tags         Analytics
// @Produce      json
// @Param        folderID  path      string  true  "Folder ID"
// @Success      200       {object}  InsightsResponse
// @Failure      404       {object}  map[string]string
// @Failure      502       {object}  map[string]string
// @Router       /api/folders/{folderID}/performance-insights [get]
func (h *Handler) performanceInsights(w http.ResponseWriter, r *http.Request) {
	folderID := r.PathValue("folderID")

	if _, err := h.store.GetFolder(folderID); h.handleStoreError(w, err, "folder") {
		return
	}

	insights, err := h.analytics.Insights(r.Context(), folderID)
	if errors.Is(err, analytics.ErrNoData) {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusBadGateway, "failed to generate insights")
		return
	}

	respondJSON(w, http.StatusOK, InsightsResponse{Insights: insights})
}

// listComprehensiveSubmissions lists the raw submissions behind the folder's
// analytics, newest first.
// @Summary      List comprehensive submissions of a folder
// @Tags         Analytics
// @Produce      json
// @Param        folderID  path      string  true  "Folder ID"
// @Success      200       {array}   ComprehensiveSubmissionResponse
// @Failure      404       {object}  map[string]string
// @Router       /api/folders/{folderID}/comprehensive-submissions [get]
func (h *Handler) listComprehensiveSubmissions(w http.ResponseWriter, r *http.Request) {
	folderID := r.PathValue("folderID")

	if _, err := h.store.GetFolder(folderID); h.handleStoreError(w, err, "folder") {
		return
	}

	subs, err := h.store.ListComprehensiveSubmissions(folderID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load submissions")
		return
	}

	response := make([]ComprehensiveSubmissionResponse, len(subs))
	for i, swt := range subs {
		response[i] = ComprehensiveSubmissionResponse{
			SubmissionResponse: submissionResponse(swt.Submission),
			TestName:           swt.TestName,
			TestTags:           swt.TestTags,
		}
	}
	respondJSON(w, http.StatusOK, response)
}

// availableContent tells the frontend whether a folder can show analytics
// yet, without shipping the full report.
// @Summary      Folder content availability
// @Tags         Analytics
// @Produce      json
// @Param        folderID  path      string  true  "Folder ID"
// @Success      200       {object}  AvailableContentResponse
// @Failure      404       {object}  map[string]string
// @Router       /api/folders/{folderID}/available-content [get]
func (h *Handler) availableContent(w http.ResponseWriter, r *http.Request) {
	folderID := r.PathValue("folderID")

	if _, err := h.store.GetFolder(folderID); h.handleStoreError(w, err, "folder") {
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
	subs, err := h.store.ListComprehensiveSubmissions(folderID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load submissions")
		return
	}

	comprehensive := 0
	for _, t := range tests {
		if t.Kind == quiz.TestComprehensive {
			comprehensive++
		}
	}

	respondJSON(w, http.StatusOK, AvailableContentResponse{
		FolderID:           folderID,
		Links:              len(links),
		ComprehensiveTests: comprehensive,
		Submissions:        len(subs),
		AnalyticsReady:     len(subs) > 0,
	})
}
