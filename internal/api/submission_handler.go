package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/quizforge/backend/internal/domain/submission"
	"github.com/quizforge/backend/internal/store"
)

// ── Request / Response types ────────────────────────────────────────────────

type SubmitTestRequest struct {
	Answers map[string]string `json:"answers"`
	Scores  map[string]int    `json:"scores"`
}

func (r *SubmitTestRequest) Validate() error {
	if len(r.Answers) == 0 && len(r.Scores) == 0 {
		return errors.New("answers or scores are required")
	}
	for key, score := range r.Scores {
		if score < 0 || score > 100 {
			return fmt.Errorf("score for question %s must be between 0 and 100", key)
		}
	}
	return nil
}

type UpdateScoresRequest struct {
	Scores map[string]int `json:"scores"`
}

func (r *UpdateScoresRequest) Validate() error {
	if len(r.Scores) == 0 {
		return errors.New("scores is required")
	}
	for key, score := range r.Scores {
		if score < 0 || score > 100 {
			return fmt.Errorf("score for question %s must be between 0 and 100", key)
		}
	}
	return nil
}

type SubmissionResponse struct {
	ID          string              `json:"id" example:"s1u2b3m4i5s6i7d8"`
	TestID      string              `json:"test_id"`
	Answers     map[string]string   `json:"answers"`
	Scores      map[string]int      `json:"scores"`
	Metrics     *submission.Metrics `json:"performance_metrics,omitempty"`
	SubmittedAt time.Time           `json:"submitted_at"`
}

// SubmitTestResponse reveals the answer key alongside the stored submission
// so the frontend can show a review screen.
type SubmitTestResponse struct {
	SubmissionResponse
	QuestionsWithAnswers []QuestionReview `json:"questions_with_answers"`
}

type QuestionReview struct {
	Index         int      `json:"index"`
	Question      string   `json:"question"`
	Type          string   `json:"type"`
	Difficulty    string   `json:"difficulty,omitempty"`
	UserAnswer    string   `json:"user_answer"`
	CorrectAnswer any      `json:"correct_answer,omitempty"`
	SampleAnswer  string   `json:"sample_answer,omitempty"`
	KeyPoints     []string `json:"key_points,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
	Score         *int     `json:"score,omitempty"`
}

type ExplainRequest struct {
	QuestionIndex int    `json:"question_index"`
	Context       string `json:"context,omitempty"`
}

func (r *ExplainRequest) Validate() error {
	if r.QuestionIndex < 0 {
		return errors.New("question_index must not be negative")
	}
	return nil
}

type ExplainResponse struct {
	Explanation string `json:"explanation"`
}

type FeedbackResponse struct {
	QuestionIndex int       `json:"question_index"`
	Feedback      string    `json:"feedback"`
	CreatedAt     time.Time `json:"created_at"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// submitTest records a test attempt. Comprehensive tests get their
// performance metrics computed immediately; the response includes the answer
// key for review.
// @Summary      Submit a test attempt
// @Tags         Submissions
// @Accept       json
// @Produce      json
// @Param        testID  path      string             true  "Test ID"
// @Param        body    body      SubmitTestRequest  true  "Answers and optional self-assessment scores"
// @Success      201     {object}  SubmitTestResponse
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/tests/{testID}/submissions [post]
func (h *Handler) submitTest(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.GetTest(r.PathValue("testID"))
	if h.handleStoreError(w, err, "test") {
		return
	}

	var req SubmitTestRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sub := submission.New(t, req.Answers, req.Scores)
	if err := h.store.SaveSubmission(sub); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save submission")
		return
	}

	review := make([]QuestionReview, len(t.Questions))
	for i, q := range t.Questions {
		key := fmt.Sprintf("%d", i)
		review[i] = QuestionReview{
			Index:         i,
			Question:      q.Text,
			Type:          string(q.Kind),
			Difficulty:    string(q.Difficulty),
			UserAnswer:    sub.Answers[key],
			CorrectAnswer: q.CorrectAnswer,
			SampleAnswer:  q.SampleAnswer,
			KeyPoints:     q.KeyPoints,
			Explanation:   q.Explanation,
		}
		if len(q.CorrectAnswers) > 0 {
			review[i].CorrectAnswer = q.CorrectAnswers
		}
		if score, ok := sub.Scores[key]; ok {
			s := score
			review[i].Score = &s
		}
	}

	respondJSON(w, http.StatusCreated, SubmitTestResponse{
		SubmissionResponse:   submissionResponse(sub),
		QuestionsWithAnswers: review,
	})
}

// listSubmissions lists a test's submissions, newest first.
// @Summary      List submissions of a test
// @Tags         Submissions
// @Produce      json
// @Param        testID  path      string  true  "Test ID"
// @Success      200     {array}   SubmissionResponse
// @Failure      404     {object}  map[string]string
// @Router       /api/tests/{testID}/submissions [get]
func (h *Handler) listSubmissions(w http.ResponseWriter, r *http.Request) {
	testID := r.PathValue("testID")

	if _, err := h.store.GetTest(testID); h.handleStoreError(w, err, "test") {
		return
	}

	subs, err := h.store.ListSubmissionsByTest(testID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load submissions")
		return
	}

	response := make([]SubmissionResponse, len(subs))
	for i, sub := range subs {
		response[i] = submissionResponse(sub)
	}
	respondJSON(w, http.StatusOK, response)
}

// getSubmission returns one submission.
// @Summary      Get a submission
// @Tags         Submissions
// @Produce      json
// @Param        submissionID  path      string  true  "Submission ID"
// @Success      200           {object}  SubmissionResponse
// @Failure      404           {object}  map[string]string
// @Router       /api/submissions/{submissionID} [get]
func (h *Handler) getSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := h.store.GetSubmission(r.PathValue("submissionID"))
	if h.handleStoreError(w, err, "submission") {
		return
	}
	respondJSON(w, http.StatusOK, submissionResponse(sub))
}

// updateSubmissionScores replaces the self-assessment scores of a submission
// and recomputes its metrics when the test is comprehensive. Score keys that
// do not name a question of the test are dropped, as at submit time.
// @Summary      Update self-assessment scores
// @Tags         Submissions
// @Accept       json
// @Produce      json
// @Param        submissionID  path      string               true  "Submission ID"
// @Param        body          body      UpdateScoresRequest  true  "New scores"
// @Success      200           {object}  SubmissionResponse
// @Failure      400           {object}  map[string]string
// @Failure      404           {object}  map[string]string
// @Router       /api/submissions/{submissionID}/scores [put]
func (h *Handler) updateSubmissionScores(w http.ResponseWriter, r *http.Request) {
	submissionID := r.PathValue("submissionID")

	var req UpdateScoresRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	swt, err := h.store.GetSubmissionWithTest(submissionID)
	if h.handleStoreError(w, err, "submission") {
		return
	}

	scores := submission.ClampScores(req.Scores, len(swt.Questions))

	var metrics *submission.Metrics
	if swt.Submission.Metrics != nil {
		metrics = submission.ComputeMetrics(swt.Questions, scores)
	}

	if h.handleStoreError(w, h.store.UpdateSubmissionScores(submissionID, scores, metrics), "submission") {
		return
	}

	updated, err := h.store.GetSubmission(submissionID)
	if h.handleStoreError(w, err, "submission") {
		return
	}
	respondJSON(w, http.StatusOK, submissionResponse(updated))
}

// explainAnswer asks the model to explain one answered question.
// @Summary      Explain an answer
// @Description  Generates AI feedback for a single question of a submission and stores it.
// @Tags         Submissions
// @Accept       json
// @Produce      json
// @Param        submissionID  path      string          true  "Submission ID"
// @Param        body          body      ExplainRequest  true  "Question to explain"
// @Success      200           {object}  ExplainResponse
// @Failure      400           {object}  map[string]string
// @Failure      404           {object}  map[string]string
// @Failure      502           {object}  map[string]string
// @Router       /api/submissions/{submissionID}/explain [post]
func (h *Handler) explainAnswer(w http.ResponseWriter, r *http.Request) {
	submissionID := r.PathValue("submissionID")

	var req ExplainRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	explanation, err := h.explain.Explain(r.Context(), submissionID, req.QuestionIndex, req.Context)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "submission not found")
		return
	}
	if err != nil {
		h.logger.Error("explanation failed", "submission_id", submissionID, "error", err)
		respondError(w, http.StatusBadGateway, "failed to generate explanation")
		return
	}

	respondJSON(w, http.StatusOK, ExplainResponse{Explanation: explanation})
}

// listFeedback returns the stored explanations of a submission.
// @Summary      List stored feedback
// @Tags         Submissions
// @Produce      json
// @Param        submissionID  path      string  true  "Submission ID"
// @Success      200           {array}   FeedbackResponse
// @Failure      500           {object}  map[string]string
// @Router       /api/submissions/{submissionID}/feedback [get]
func (h *Handler) listFeedback(w http.ResponseWriter, r *http.Request) {
	feedback, err := h.store.ListFeedback(r.PathValue("submissionID"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load feedback")
		return
	}

	response := make([]FeedbackResponse, len(feedback))
	for i, f := range feedback {
		response[i] = FeedbackResponse{
			QuestionIndex: f.QuestionIndex,
			Feedback:      f.Text,
			CreatedAt:     f.CreatedAt,
		}
	}
	respondJSON(w, http.StatusOK, response)
}

func submissionResponse(sub *submission.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:          sub.ID,
		TestID:      sub.TestID,
		Answers:     sub.Answers,
		Scores:      sub.Scores,
		Metrics:     sub.Metrics,
		SubmittedAt: sub.SubmittedAt,
	}
}
