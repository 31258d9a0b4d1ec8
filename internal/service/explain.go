package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/quizforge/backend/internal/domain/quiz"
	"github.com/quizforge/backend/internal/id"
	"github.com/quizforge/backend/internal/llm"
	"github.com/quizforge/backend/internal/store"
)

const explainTemperature = 0.2

const explainSystem = "You are an expert tutor. Your feedback is clear, educational, and well-formatted using markdown."

// ExplainService produces per-question feedback on a submitted answer and
// persists it so the frontend never pays for the same explanation twice.
type ExplainService struct {
	store  *store.SQLiteStore
	client llm.Client
	logger *slog.Logger
}

func NewExplainService(s *store.SQLiteStore, client llm.Client, logger *slog.Logger) *ExplainService {
	return &ExplainService{store: s, client: client, logger: logger}
}

// Explain generates feedback for one question of a submission and stores it.
// extra is optional free-text context from the caller. The returned string
// is rendered HTML.
func (es *ExplainService) Explain(ctx context.Context, submissionID string, questionIndex int, extra string) (string, error) {
	swt, err := es.store.GetSubmissionWithTest(submissionID)
	if err != nil {
		return "", err
	}
	if questionIndex < 0 || questionIndex >= len(swt.Questions) {
		return "", fmt.Errorf("question index %d out of range for submission %s", questionIndex, submissionID)
	}

	q := swt.Questions[questionIndex]
	userAnswer := swt.Submission.Answers[fmt.Sprintf("%d", questionIndex)]

	raw, err := es.client.Complete(ctx, llm.Request{
		System:      explainSystem,
		Prompt:      explainPrompt(q, userAnswer, extra),
		Temperature: explainTemperature,
	})
	if err != nil {
		es.logger.Error("explanation failed",
			"submission_id", submissionID,
			"question_index", questionIndex,
			"error", err,
		)
		return "", err
	}

	feedback := &store.Feedback{
		ID:            id.GenerateID(),
		SubmissionID:  submissionID,
		QuestionIndex: questionIndex,
		Text:          raw,
		CreatedAt:     time.Now().UTC(),
	}
	if err := es.store.SaveFeedback(feedback); err != nil {
		es.logger.Error("failed to save feedback", "submission_id", submissionID, "error", err)
	}

	return renderMarkdown(raw), nil
}

// History returns previously generated feedback for a submission, rendered.
func (es *ExplainService) History(submissionID string) (map[int]string, error) {
	feedback, err := es.store.ListFeedback(submissionID)
	if err != nil {
		return nil, err
	}

	out := make(map[int]string, len(feedback))
	for _, f := range feedback {
		out[f.QuestionIndex] = renderMarkdown(f.Text)
	}
	return out, nil
}

func explainPrompt(q quiz.Question, userAnswer, extra string) string {
	expected := q.SampleAnswer
	if q.CorrectAnswer != nil {
		expected = fmt.Sprintf("%v", q.CorrectAnswer)
	}
	if len(q.CorrectAnswers) > 0 {
		expected = strings.Join(q.CorrectAnswers, ", ")
	}

	return fmt.Sprintf(`You are a subject matter expert providing direct, constructive feedback on a quiz answer. Your goal is to clarify concepts and provide educational value.

Analyze the user's response based on the following:
- **Question Type**: %s
- **Difficulty**: %s
- **Question**: %q
- **Correct Answer**: %q
- **User's Answer**: %q
- **Tags/Topics**: %s
- **Additional Context**: %q

Provide a well-formatted explanation following these guidelines:
1. **Assessment**: Start with whether the answer is correct/incorrect/partially correct
2. **Analysis**: Compare the user's answer to the ideal answer
3. **Explanation**: Provide a clear, correct explanation of the concept
4. **Key Points**: Highlight the most important takeaways
5. **Tips**: If applicable, provide study tips for this topic

Format your response using markdown for better readability. Be encouraging but accurate.`,
		strings.ToUpper(string(q.Kind)),
		strings.ToUpper(string(q.Difficulty)),
		q.Text, expected, userAnswer,
		strings.Join(q.Tags, ", "), extra)
}
