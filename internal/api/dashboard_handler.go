package api

import (
	"net/http"
	"time"
)

type DashboardResponse struct {
	Folders           int                        `json:"folders"`
	Links             int                        `json:"links"`
	Tests             int                        `json:"tests"`
	Submissions       int                        `json:"submissions"`
	KindDistribution  map[string]int             `json:"test_type_distribution"`
	RecentTests       []TestSummary              `json:"recent_tests"`
	RecentSubmissions []RecentSubmissionResponse `json:"recent_submissions"`
}

type RecentSubmissionResponse struct {
	TestName    string    `json:"test_name"`
	TestKind    string    `json:"test_type"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// dashboard returns entity counts, the test-kind distribution and the most
// recent tests and submissions.
// @Summary      Dashboard stats
// @Tags         Dashboard
// @Produce      json
// @Success      200  {object}  DashboardResponse
// @Failure      500  {object}  map[string]string
// @Router       /api/dashboard [get]
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Dashboard()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	resp := DashboardResponse{
		Folders:           stats.Folders,
		Links:             stats.Links,
		Tests:             stats.Tests,
		Submissions:       stats.Submissions,
		KindDistribution:  stats.KindDistribution,
		RecentTests:       make([]TestSummary, len(stats.RecentTests)),
		RecentSubmissions: make([]RecentSubmissionResponse, len(stats.RecentSubmissions)),
	}
	for i, t := range stats.RecentTests {
		resp.RecentTests[i] = testSummary(t)
	}
	for i, s := range stats.RecentSubmissions {
		resp.RecentSubmissions[i] = RecentSubmissionResponse{
			TestName:    s.TestName,
			TestKind:    s.TestKind,
			SubmittedAt: s.SubmittedAt,
		}
	}
	respondJSON(w, http.StatusOK, resp)
}
