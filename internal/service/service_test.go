package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/backend/internal/analytics"
	"github.com/quizforge/backend/internal/domain/folder"
	"github.com/quizforge/backend/internal/domain/link"
	"github.com/quizforge/backend/internal/domain/quiz"
	"github.com/quizforge/backend/internal/domain/submission"
	"github.com/quizforge/backend/internal/generator"
	"github.com/quizforge/backend/internal/llm"
	"github.com/quizforge/backend/internal/session"
	"github.com/quizforge/backend/internal/store"
)

type fakeClient struct {
	reply    string
	err      error
	requests []llm.Request
}

func (f *fakeClient) Complete(_ context.Context, req llm.Request) (string, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newGenerator(c llm.Client) *generator.Generator {
	return generator.New(c, discardLogger())
}

func newSessions(t *testing.T) *session.Store {
	t.Helper()
	sessions := session.NewStore(time.Hour, time.Hour)
	t.Cleanup(sessions.Close)
	return sessions
}

func newStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedComprehensive(t *testing.T, s *store.SQLiteStore) (folderID string, testID string, submissionID string) {
	t.Helper()

	f := folder.New("Physics", "Mechanics")
	require.NoError(t, s.SaveFolder(f))

	questions := []quiz.Question{
		{Text: "State Newton's second law.", Kind: quiz.KindShortAnswer, Difficulty: quiz.DifficultyHard,
			Tags: []string{"analytical", "physics"}, SampleAnswer: "F = ma"},
		{Text: "Force is a vector.", Kind: quiz.KindTrueFalse, Difficulty: quiz.DifficultyEasy, CorrectAnswer: true},
	}
	test := quiz.New("Mechanics Review", []quiz.Kind{quiz.KindShortAnswer, quiz.KindTrueFalse},
		quiz.DifficultyMixed, questions, quiz.TestComprehensive)
	test.FolderID = &f.ID
	require.NoError(t, s.SaveTest(test))

	sub := submission.New(test, map[string]string{"0": "F equals ma", "1": "true"}, map[string]int{"0": 80, "1": 40})
	require.NoError(t, s.SaveSubmission(sub))

	return f.ID, test.ID, sub.ID
}

func TestAnalyticsService_FolderReport(t *testing.T) {
	s := newStore(t)
	folderID, _, _ := seedComprehensive(t, s)

	as := NewAnalyticsService(s, &fakeClient{}, "", discardLogger())

	report, err := as.FolderReport(folderID)
	require.NoError(t, err)
	assert.Equal(t, 1, report.OverallStats.TotalSubmissions)
	assert.Equal(t, map[string]float64{"analytical": 80}, report.SkillAverages)
	assert.Equal(t, map[string]float64{"physics": 80}, report.TopicAverages)
}

func TestAnalyticsService_FolderReportNoData(t *testing.T) {
	s := newStore(t)
	f := folder.New("Empty", "")
	require.NoError(t, s.SaveFolder(f))

	as := NewAnalyticsService(s, &fakeClient{}, "", discardLogger())

	_, err := as.FolderReport(f.ID)
	assert.ErrorIs(t, err, analytics.ErrNoData)
}

func TestAnalyticsService_Insights(t *testing.T) {
	s := newStore(t)
	folderID, _, _ := seedComprehensive(t, s)

	client := &fakeClient{reply: "## Summary\nYou are doing **well**."}
	as := NewAnalyticsService(s, client, "insight-model", discardLogger())

	html, err := as.Insights(context.Background(), folderID)
	require.NoError(t, err)
	assert.Contains(t, html, "<h2")
	assert.Contains(t, html, "<strong>well</strong>")

	require.Len(t, client.requests, 1)
	assert.Equal(t, "insight-model", client.requests[0].Model)
	assert.Contains(t, client.requests[0].Prompt, `"skill_averages"`)
}

func TestChatService_ContextTypeAndHistory(t *testing.T) {
	s := newStore(t)
	folderID, testID, submissionID := seedComprehensive(t, s)

	sessions := newSessions(t)

	client := &fakeClient{reply: "Keep practicing mechanics."}
	cs := NewChatService(s, sessions, client, discardLogger())

	sess, err := cs.InitContext("sess1", folderID, nil, []string{testID}, []string{submissionID})
	require.NoError(t, err)
	assert.Equal(t, "test_assistance", ContextType(sess))
	require.Len(t, sess.Data.Submissions, 1)
	assert.Equal(t, 60.0, sess.Data.Submissions[0].AverageScore)

	reply, contextType, err := cs.Message(context.Background(), "sess1", "How am I doing?")
	require.NoError(t, err)
	assert.Equal(t, "test_assistance", contextType)
	assert.Contains(t, reply, "Keep practicing mechanics.")

	got, ok := sessions.Get("sess1")
	require.True(t, ok)
	require.Len(t, got.History, 1)
	assert.Equal(t, "How am I doing?", got.History[0].UserMessage)

	assert.Contains(t, client.requests[0].Prompt, "Mechanics Review")
	assert.Contains(t, client.requests[0].Prompt, "Test Assistance")
}

func TestChatService_GeneralFallbackWithoutSession(t *testing.T) {
	s := newStore(t)
	sessions := newSessions(t)

	client := &fakeClient{reply: "General advice."}
	cs := NewChatService(s, sessions, client, discardLogger())

	reply, contextType, err := cs.Message(context.Background(), "unknown", "What is osmosis?")
	require.NoError(t, err)
	assert.Equal(t, "general", contextType)
	assert.Contains(t, reply, "General advice.")
}

func TestChatService_UpdateContextKeepsHistory(t *testing.T) {
	s := newStore(t)
	folderID, testID, _ := seedComprehensive(t, s)

	sessions := newSessions(t)

	client := &fakeClient{reply: "ok"}
	cs := NewChatService(s, sessions, client, discardLogger())

	_, err := cs.InitContext("sess1", folderID, nil, nil, nil)
	require.NoError(t, err)
	_, _, err = cs.Message(context.Background(), "sess1", "hello")
	require.NoError(t, err)

	sess, err := cs.UpdateContext("sess1", folderID, nil, []string{testID}, nil)
	require.NoError(t, err)
	assert.Len(t, sess.History, 1)
	assert.Len(t, sess.Data.Tests, 1)
}

func TestExplainService_ExplainAndPersist(t *testing.T) {
	s := newStore(t)
	_, _, submissionID := seedComprehensive(t, s)

	client := &fakeClient{reply: "**Assessment**: Correct."}
	es := NewExplainService(s, client, discardLogger())

	html, err := es.Explain(context.Background(), submissionID, 0, "")
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>Assessment</strong>")

	assert.Contains(t, client.requests[0].Prompt, "State Newton's second law.")
	assert.Contains(t, client.requests[0].Prompt, "F equals ma")

	history, err := es.History(submissionID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Contains(t, history[0], "Assessment")
}

func TestExplainService_IndexOutOfRange(t *testing.T) {
	s := newStore(t)
	_, _, submissionID := seedComprehensive(t, s)

	es := NewExplainService(s, &fakeClient{}, discardLogger())
	_, err := es.Explain(context.Background(), submissionID, 9, "")
	assert.Error(t, err)
}

func TestGenerationService_Comprehensive(t *testing.T) {
	s := newStore(t)

	f := folder.New("Biology", "")
	require.NoError(t, s.SaveFolder(f))
	require.NoError(t, s.SaveLink(link.New(f.ID, "http://bio", "Cells", "Cells are the unit of life.", link.TypeURL)))

	const batch = `[{"question": "Cells are alive.", "type": "true_false", "difficulty": "easy", "correct_answer": true, "tags": ["memorization", "biology"]}]`
	client := &fakeClient{reply: batch}
	gen := newGenerator(client)

	gs := NewGenerationService(s, gen, nil, discardLogger())

	test, srcs, err := gs.Comprehensive(context.Background(), f.ID, "Bio Review", []quiz.Kind{quiz.KindTrueFalse}, quiz.DifficultyEasy, 1)
	require.NoError(t, err)
	assert.Equal(t, quiz.TestComprehensive, test.Kind)
	require.Len(t, srcs, 1)
	assert.Equal(t, "Cells", srcs[0].Title)

	saved, err := s.GetTest(test.ID)
	require.NoError(t, err)
	assert.Equal(t, &f.ID, saved.FolderID)
	require.Len(t, saved.Questions, 1)
	assert.Contains(t, saved.Tags, "biology")

	// The folder content must be in the prompt, with detailed tags requested.
	assert.Contains(t, client.requests[0].Prompt, "Cells are the unit of life.")
	assert.Contains(t, client.requests[0].Prompt, "Skill type")
}

func TestGenerationService_ComprehensiveEmptyFolder(t *testing.T) {
	s := newStore(t)
	f := folder.New("Empty", "")
	require.NoError(t, s.SaveFolder(f))

	gs := NewGenerationService(s, newGenerator(&fakeClient{}), nil, discardLogger())
	_, _, err := gs.Comprehensive(context.Background(), f.ID, "X", []quiz.Kind{quiz.KindMCQ}, quiz.DifficultyEasy, 1)
	assert.Error(t, err)
}
