package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/quizforge/backend/internal/domain/quiz"
	"github.com/quizforge/backend/internal/generator"
	"github.com/quizforge/backend/internal/service"
	"github.com/quizforge/backend/internal/store"
)

// ── Request / Response types ────────────────────────────────────────────────

const (
	defaultNumQuestions = 15
	maxNumQuestions     = 50
)

type generationOptions struct {
	Name          string   `json:"name" example:"Mechanics quiz"`
	QuestionTypes []string `json:"question_types" example:"mcq,short_answer"`
	Difficulty    string   `json:"difficulty" example:"medium"`
	NumQuestions  int      `json:"num_questions" example:"15"`
}

func (o *generationOptions) validate() error {
	if o.Name == "" {
		return errors.New("name is required")
	}
	if len(o.QuestionTypes) == 0 {
		return errors.New("question_types is required")
	}
	for _, qt := range o.QuestionTypes {
		if !quiz.Kind(qt).Valid() {
			return fmt.Errorf("unknown question type %q", qt)
		}
	}
	switch quiz.Difficulty(o.Difficulty) {
	case quiz.DifficultyEasy, quiz.DifficultyMedium, quiz.DifficultyHard, quiz.DifficultyMixed:
	default:
		return fmt.Errorf("unknown difficulty %q", o.Difficulty)
	}
	if o.NumQuestions < 0 || o.NumQuestions > maxNumQuestions {
		return fmt.Errorf("num_questions must be between 1 and %d", maxNumQuestions)
	}
	return nil
}

func (o *generationOptions) kinds() []quiz.Kind {
	kinds := make([]quiz.Kind, len(o.QuestionTypes))
	for i, qt := range o.QuestionTypes {
		kinds[i] = quiz.Kind(qt)
	}
	return kinds
}

func (o *generationOptions) numQuestions() int {
	if o.NumQuestions == 0 {
		return defaultNumQuestions
	}
	return o.NumQuestions
}

type GenerateTestRequest struct {
	generationOptions
	LinkIDs []string `json:"link_ids"`
}

func (r *GenerateTestRequest) Validate() error {
	if len(r.LinkIDs) == 0 {
		return errors.New("link_ids is required")
	}
	return r.validate()
}

type GenerateFromURLsRequest struct {
	generationOptions
	URLs []string `json:"urls"`
}

func (r *GenerateFromURLsRequest) Validate() error {
	if len(r.URLs) == 0 {
		return errors.New("urls is required")
	}
	return r.validate()
}

type GenerateComprehensiveRequest struct {
	generationOptions
}

func (r *GenerateComprehensiveRequest) Validate() error {
	return r.validate()
}

// TestSummary is a test without its questions, for list views.
type TestSummary struct {
	ID            string    `json:"id" example:"t1e2s3t4i5d6n7o8"`
	Name          string    `json:"name" example:"Mechanics quiz"`
	FolderID      *string   `json:"folder_id,omitempty"`
	Kind          string    `json:"test_type" example:"normal"`
	Difficulty    string    `json:"difficulty" example:"medium"`
	NumQuestions  int       `json:"num_questions" example:"15"`
	EstimatedTime int       `json:"estimated_time" example:"23"`
	Tags          []string  `json:"tags"`
	CreatedAt     time.Time `json:"created_at"`
}

// TestResponse is a full test including questions.
type TestResponse struct {
	TestSummary
	QuestionTypes []quiz.Kind     `json:"question_types"`
	Questions     []quiz.Question `json:"questions"`
	SourceURLs    []string        `json:"source_urls,omitempty"`
	LinkIDs       []string        `json:"link_ids,omitempty"`
}

type GenerateTestResponse struct {
	TestResponse
	Sources []service.SourceInfo `json:"sources,omitempty"`
	Failed  []FailedSource       `json:"failed_sources,omitempty"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// generateTest creates a test from stored links.
// @Summary      Generate a test from links
// @Description  Combines the selected links' content and asks the model for questions.
// @Tags         Tests
// @Accept       json
// @Produce      json
// @Param        body  body      GenerateTestRequest  true  "Generation parameters"
// @Success      201   {object}  GenerateTestResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/tests/generate [post]
func (h *Handler) generateTest(w http.ResponseWriter, r *http.Request) {
	var req GenerateTestRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	test, sources, err := h.generation.FromLinks(r.Context(), req.Name, req.LinkIDs,
		req.kinds(), quiz.Difficulty(req.Difficulty), req.numQuestions())
	if h.handleGenerationError(w, err) {
		return
	}

	respondJSON(w, http.StatusCreated, GenerateTestResponse{
		TestResponse: testResponse(test),
		Sources:      sources,
	})
}

// generateComprehensiveTest creates a comprehensive test from a whole folder.
// @Summary      Generate a comprehensive folder test
// @Description  Uses every link in the folder; questions carry detailed tags for performance analytics.
// @Tags         Tests
// @Accept       json
// @Produce      json
// @Param        folderID  path      string                        true  "Folder ID"
// @Param        body      body      GenerateComprehensiveRequest  true  "Generation parameters"
// @Success      201       {object}  GenerateTestResponse
// @Failure      400       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Failure      502       {object}  map[string]string
// @Router       /api/folders/{folderID}/comprehensive-test [post]
func (h *Handler) generateComprehensiveTest(w http.ResponseWriter, r *http.Request) {
	folderID := r.PathValue("folderID")

	var req GenerateComprehensiveRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	test, sources, err := h.generation.Comprehensive(r.Context(), folderID, req.Name,
		req.kinds(), quiz.Difficulty(req.Difficulty), req.numQuestions())
	if h.handleGenerationError(w, err) {
		return
	}

	respondJSON(w, http.StatusCreated, GenerateTestResponse{
		TestResponse: testResponse(test),
		Sources:      sources,
	})
}

// generateTestFromURLs creates an ad-hoc test straight from URLs.
// @Summary      Generate a test from raw URLs
// @Description  Extracts the URLs on the fly; no folder or links are created.
// @Tags         Tests
// @Accept       json
// @Produce      json
// @Param        body  body      GenerateFromURLsRequest  true  "Generation parameters"
// @Success      201   {object}  GenerateTestResponse
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/tests/generate-from-urls [post]
func (h *Handler) generateTestFromURLs(w http.ResponseWriter, r *http.Request) {
	var req GenerateFromURLsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	test, results, err := h.generation.FromURLs(r.Context(), req.Name, req.URLs,
		req.kinds(), quiz.Difficulty(req.Difficulty), req.numQuestions())

	var failed []FailedSource
	for _, res := range results {
		if res.Type == "error" {
			failed = append(failed, FailedSource{URL: res.URL, Reason: res.Content})
		}
	}

	if h.handleGenerationError(w, err) {
		return
	}

	respondJSON(w, http.StatusCreated, GenerateTestResponse{
		TestResponse: testResponse(test),
		Failed:       failed,
	})
}

// listTests lists tests, optionally filtered by search query, difficulty,
// folder or kind. All filters combine.
// @Summary      List or search tests
// @Tags         Tests
// @Produce      json
// @Param        q           query     string  false  "Search query (matches names and tags)"
// @Param        difficulty  query     string  false  "Only tests of this difficulty"
// @Param        folder_id   query     string  false  "Only tests of this folder"
// @Param        test_type   query     string  false  "normal or comprehensive"
// @Success      200         {array}   TestSummary
// @Failure      500         {object}  map[string]string
// @Router       /api/tests [get]
func (h *Handler) listTests(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	tests, err := h.store.SearchTests(store.TestFilter{
		Query:      query.Get("q"),
		Difficulty: query.Get("difficulty"),
		FolderID:   query.Get("folder_id"),
		Kind:       query.Get("test_type"),
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load tests")
		return
	}

	response := make([]TestSummary, len(tests))
	for i, t := range tests {
		response[i] = testSummary(t)
	}
	respondJSON(w, http.StatusOK, response)
}

// getTest returns a full test. Answers are included; the frontend hides them
// until submission.
// @Summary      Get a test
// @Tags         Tests
// @Produce      json
// @Param        testID  path      string  true  "Test ID"
// @Success      200     {object}  TestResponse
// @Failure      404     {object}  map[string]string
// @Router       /api/tests/{testID} [get]
func (h *Handler) getTest(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.GetTest(r.PathValue("testID"))
	if h.handleStoreError(w, err, "test") {
		return
	}
	respondJSON(w, http.StatusOK, testResponse(t))
}

// deleteTest removes a test and its submissions.
// @Summary      Delete a test
// @Tags         Tests
// @Param        testID  path  string  true  "Test ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/tests/{testID} [delete]
func (h *Handler) deleteTest(w http.ResponseWriter, r *http.Request) {
	if h.handleStoreError(w, h.store.DeleteTest(r.PathValue("testID")), "test") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// bulkDeleteTests removes several tests at once.
// @Summary      Bulk-delete tests
// @Tags         Tests
// @Accept       json
// @Produce      json
// @Param        body  body      BulkDeleteRequest  true  "Test IDs"
// @Success      200   {object}  BulkDeleteResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/tests/bulk-delete [post]
func (h *Handler) bulkDeleteTests(w http.ResponseWriter, r *http.Request) {
	var req BulkDeleteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	deleted, err := h.store.DeleteTests(req.IDs)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete tests")
		return
	}
	respondJSON(w, http.StatusOK, BulkDeleteResponse{Deleted: deleted})
}

// handleGenerationError maps generation failures onto HTTP statuses:
// bad model output is a 502 (the request was fine, the upstream was not),
// missing entities are 404s.
func (h *Handler) handleGenerationError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, generator.ErrBadGeneration) {
		h.logger.Error("generation failed", "error", err)
		respondError(w, http.StatusBadGateway, "the model did not produce usable questions, try again")
		return true
	}
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "content not found")
		return true
	}
	respondError(w, http.StatusBadRequest, err.Error())
	return true
}

func testSummary(t *quiz.Test) TestSummary {
	return TestSummary{
		ID:            t.ID,
		Name:          t.Name,
		FolderID:      t.FolderID,
		Kind:          string(t.Kind),
		Difficulty:    string(t.Difficulty),
		NumQuestions:  len(t.Questions),
		EstimatedTime: t.EstimatedTime,
		Tags:          t.Tags,
		CreatedAt:     t.CreatedAt,
	}
}

func testResponse(t *quiz.Test) TestResponse {
	return TestResponse{
		TestSummary:   testSummary(t),
		QuestionTypes: t.QuestionTypes,
		Questions:     t.Questions,
		SourceURLs:    t.SourceURLs,
		LinkIDs:       t.LinkIDs,
	}
}
