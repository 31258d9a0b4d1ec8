package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/quizforge/backend/internal/analytics"
	"github.com/quizforge/backend/internal/llm"
	"github.com/quizforge/backend/internal/store"
)

// AnalyticsService computes folder performance reports and turns them into
// AI-written study insights.
type AnalyticsService struct {
	store        *store.SQLiteStore
	client       llm.Client
	insightModel string // may be empty, falls back to the client default
	logger       *slog.Logger
}

func NewAnalyticsService(s *store.SQLiteStore, client llm.Client, insightModel string, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{store: s, client: client, insightModel: insightModel, logger: logger}
}

// FolderReport aggregates all comprehensive-test submissions of a folder.
// Returns analytics.ErrNoData when the folder has none.
func (as *AnalyticsService) FolderReport(folderID string) (*analytics.Report, error) {
	subs, err := as.store.ListComprehensiveSubmissions(folderID)
	if err != nil {
		return nil, err
	}
	return analytics.Analyze(toRecords(subs))
}

func toRecords(subs []store.SubmissionWithTest) []analytics.SubmissionRecord {
	records := make([]analytics.SubmissionRecord, len(subs))
	for i, swt := range subs {
		questions := make([]analytics.QuestionRecord, len(swt.Questions))
		for j, q := range swt.Questions {
			questions[j] = analytics.QuestionRecord{
				Kind:       string(q.Kind),
				Difficulty: string(q.Difficulty),
				Tags:       q.Tags,
			}
		}
		records[i] = analytics.SubmissionRecord{
			ID:          swt.Submission.ID,
			TestID:      swt.Submission.TestID,
			TestName:    swt.TestName,
			SubmittedAt: swt.Submission.SubmittedAt,
			Answers:     swt.Submission.Answers,
			Scores:      swt.Submission.Scores,
			Questions:   questions,
		}
	}
	return records
}

const insightTemperature = 0.4

// Insights asks the LLM for a narrative reading of the folder report and
// returns it as rendered HTML.
func (as *AnalyticsService) Insights(ctx context.Context, folderID string) (string, error) {
	report, err := as.FolderReport(folderID)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}

	raw, err := as.client.Complete(ctx, llm.Request{
		Prompt:      insightPrompt(string(data)),
		Temperature: insightTemperature,
		Model:       as.insightModel,
	})
	if err != nil {
		as.logger.Error("insight generation failed", "folder_id", folderID, "error", err)
		return "", err
	}

	return renderMarkdown(raw), nil
}

func insightPrompt(reportJSON string) string {
	return fmt.Sprintf(`You are an expert learning analyst. Based on the following comprehensive test performance data, provide detailed insights and recommendations.

**Performance Data:**
%s

Please provide a comprehensive analysis using markdown formatting that includes:

## 📊 Overall Performance Summary
Brief overview of the student's performance across all comprehensive tests.

## 💪 Strong Areas
Skills, topics, and question types where the student excels (>80%% average).

## 🎯 Areas Needing Improvement
Specific skills, topics, or difficulty levels where performance is below 70%%.

## 📈 Progress Tracking
Analysis of performance trends over time - is the student improving?

## 🧠 Skill-Based Analysis
Breakdown of performance by cognitive skills (analytical, problem-solving, etc.).

## 📚 Topic-Specific Insights
Performance analysis by subject areas and topics.

## 🎲 Difficulty Analysis
How the student performs across different difficulty levels.

## 🔧 Actionable Recommendations
7-10 specific, practical recommendations for improvement based on the data.

## 📅 Study Plan Suggestions
Suggested focus areas and study strategies based on weak areas identified.

Use emojis, bullet points, and clear formatting. Be encouraging but honest about areas needing work.
Provide specific, actionable advice rather than generic suggestions.`, reportJSON)
}
