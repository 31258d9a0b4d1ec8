package api

import "net/http"

// RegisterRoutes attaches all API routes to the mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Folders
	mux.HandleFunc("POST /api/folders", h.createFolder)
	mux.HandleFunc("GET /api/folders", h.listFolders)
	mux.HandleFunc("GET /api/folders/{folderID}", h.getFolder)
	mux.HandleFunc("PUT /api/folders/{folderID}", h.updateFolder)
	mux.HandleFunc("DELETE /api/folders/{folderID}", h.deleteFolder)

	// Links
	mux.HandleFunc("POST /api/folders/{folderID}/links", h.addLinks)
	mux.HandleFunc("GET /api/folders/{folderID}/links", h.listLinks)
	mux.HandleFunc("POST /api/folders/{folderID}/upload-pdf", h.uploadPDF)
	mux.HandleFunc("GET /api/links/{linkID}", h.getLink)
	mux.HandleFunc("PUT /api/links/{linkID}", h.renameLink)
	mux.HandleFunc("DELETE /api/links/{linkID}", h.deleteLink)
	mux.HandleFunc("POST /api/links/bulk-delete", h.bulkDeleteLinks)

	// Tests
	mux.HandleFunc("POST /api/tests/generate", h.generateTest)
	mux.HandleFunc("POST /api/tests/generate-from-urls", h.generateTestFromURLs)
	mux.HandleFunc("POST /api/folders/{folderID}/comprehensive-test", h.generateComprehensiveTest)
	mux.HandleFunc("GET /api/tests", h.listTests)
	mux.HandleFunc("GET /api/tests/{testID}", h.getTest)
	mux.HandleFunc("DELETE /api/tests/{testID}", h.deleteTest)
	mux.HandleFunc("POST /api/tests/bulk-delete", h.bulkDeleteTests)

	// Submissions
	mux.HandleFunc("POST /api/tests/{testID}/submissions", h.submitTest)
	mux.HandleFunc("GET /api/tests/{testID}/submissions", h.listSubmissions)
	mux.HandleFunc("GET /api/submissions/{submissionID}", h.getSubmission)
	mux.HandleFunc("PUT /api/submissions/{submissionID}/scores", h.updateSubmissionScores)
	mux.HandleFunc("POST /api/submissions/{submissionID}/explain", h.explainAnswer)
	mux.HandleFunc("GET /api/submissions/{submissionID}/feedback", h.listFeedback)

	// Folder analytics
	mux.HandleFunc("GET /api/folders/{folderID}/performance-analytics", h.performanceAnalytics)
	mux.HandleFunc("GET /api/folders/{folderID}/performance-insights", h.performanceInsights)
	mux.HandleFunc("GET /api/folders/{folderID}/comprehensive-submissions", h.listComprehensiveSubmissions)
	mux.HandleFunc("GET /api/folders/{folderID}/available-content", h.availableContent)

	// Chat
	mux.HandleFunc("POST /api/chat/initialize", h.initChat)
	mux.HandleFunc("POST /api/chat/update-context", h.updateChatContext)
	mux.HandleFunc("POST /api/chat/message", h.chatMessage)
	mux.HandleFunc("GET /api/chat/history", h.chatHistory)
	mux.HandleFunc("GET /api/chat/context", h.chatContext)
	mux.HandleFunc("POST /api/chat/clear", h.clearChat)
	mux.HandleFunc("GET /api/chat/sessions/info", h.sessionInfo)
	mux.HandleFunc("POST /api/chat/sessions/clear-all", h.clearAllSessions)

	// Dashboard and export
	mux.HandleFunc("GET /api/dashboard", h.dashboard)
	mux.HandleFunc("GET /api/export", h.exportAll)
	mux.HandleFunc("GET /api/folders/{folderID}/export", h.exportFolderData)
}
