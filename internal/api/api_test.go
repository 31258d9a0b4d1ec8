package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/backend/internal/domain/folder"
	"github.com/quizforge/backend/internal/domain/link"
	"github.com/quizforge/backend/internal/domain/quiz"
	"github.com/quizforge/backend/internal/generator"
	"github.com/quizforge/backend/internal/llm"
	"github.com/quizforge/backend/internal/service"
	"github.com/quizforge/backend/internal/session"
	"github.com/quizforge/backend/internal/store"
)

type fakeClient struct {
	reply string
}

func (f *fakeClient) Complete(_ context.Context, _ llm.Request) (string, error) {
	return f.reply, nil
}

type fixture struct {
	store *store.SQLiteStore
	mux   *http.ServeMux
}

func newFixture(t *testing.T, reply string) *fixture {
	t.Helper()

	s, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := &fakeClient{reply: reply}

	sessions := session.NewStore(time.Hour, time.Hour)
	t.Cleanup(sessions.Close)

	gen := generator.New(client, logger)
	h := NewHandler(
		s,
		service.NewGenerationService(s, gen, nil, logger),
		service.NewAnalyticsService(s, client, "", logger),
		service.NewChatService(s, sessions, client, logger),
		service.NewExplainService(s, client, logger),
		nil,
		t.TempDir(),
		logger,
	)

	mux := http.NewServeMux()
	RegisterRoutes(mux, h)
	return &fixture{store: s, mux: mux}
}

func (f *fixture) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestFolderLifecycle(t *testing.T) {
	f := newFixture(t, "")

	rec := f.do(t, http.MethodPost, "/api/folders", CreateFolderRequest{Name: "Physics", Description: "Mechanics"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[FolderResponse](t, rec)
	assert.NotEmpty(t, created.ID)

	rec = f.do(t, http.MethodGet, "/api/folders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]FolderResponse](t, rec), 1)

	rec = f.do(t, http.MethodPut, "/api/folders/"+created.ID, UpdateFolderRequest{Name: "Physics II"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Physics II", decode[FolderResponse](t, rec).Name)

	rec = f.do(t, http.MethodDelete, "/api/folders/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/folders/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateFolder_Validation(t *testing.T) {
	f := newFixture(t, "")

	rec := f.do(t, http.MethodPost, "/api/folders", CreateFolderRequest{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "name is required")
}

func seedComprehensive(t *testing.T, f *fixture) (folderID, testID string) {
	t.Helper()

	fo := folder.New("Physics", "")
	require.NoError(t, f.store.SaveFolder(fo))

	questions := []quiz.Question{
		{Text: "State Newton's second law.", Kind: quiz.KindShortAnswer, Difficulty: quiz.DifficultyHard,
			Tags: []string{"analytical", "physics"}, SampleAnswer: "F = ma"},
		{Text: "Force is a vector.", Kind: quiz.KindTrueFalse, Difficulty: quiz.DifficultyEasy, CorrectAnswer: true},
	}
	test := quiz.New("Mechanics Review", []quiz.Kind{quiz.KindShortAnswer, quiz.KindTrueFalse},
		quiz.DifficultyMixed, questions, quiz.TestComprehensive)
	test.FolderID = &fo.ID
	require.NoError(t, f.store.SaveTest(test))

	return fo.ID, test.ID
}

func TestSubmitTest_RevealsAnswersAndMetrics(t *testing.T) {
	f := newFixture(t, "")
	_, testID := seedComprehensive(t, f)

	rec := f.do(t, http.MethodPost, "/api/tests/"+testID+"/submissions", SubmitTestRequest{
		Answers: map[string]string{"0": "F equals ma", "1": "true"},
		Scores:  map[string]int{"0": 80, "1": 40},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decode[SubmitTestResponse](t, rec)
	require.NotNil(t, resp.Metrics)
	assert.Equal(t, 60.0, resp.Metrics.OverallAverage)
	require.Len(t, resp.QuestionsWithAnswers, 2)
	assert.Equal(t, "F = ma", resp.QuestionsWithAnswers[0].SampleAnswer)
	assert.Equal(t, true, resp.QuestionsWithAnswers[1].CorrectAnswer)
}

func TestSubmitTest_RejectsOutOfRangeScore(t *testing.T) {
	f := newFixture(t, "")
	_, testID := seedComprehensive(t, f)

	rec := f.do(t, http.MethodPost, "/api/tests/"+testID+"/submissions", SubmitTestRequest{
		Scores: map[string]int{"0": 150},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateSubmissionScores_DropsUnknownQuestionKeys(t *testing.T) {
	f := newFixture(t, "")
	_, testID := seedComprehensive(t, f)

	rec := f.do(t, http.MethodPost, "/api/tests/"+testID+"/submissions", SubmitTestRequest{
		Scores: map[string]int{"0": 10, "1": 10},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	subID := decode[SubmitTestResponse](t, rec).ID

	rec = f.do(t, http.MethodPut, "/api/submissions/"+subID+"/scores", UpdateScoresRequest{
		Scores: map[string]int{"0": 80, "1": 40, "99": 100},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[SubmissionResponse](t, rec)
	assert.Equal(t, map[string]int{"0": 80, "1": 40}, resp.Scores)
	require.NotNil(t, resp.Metrics)
	assert.Equal(t, 60.0, resp.Metrics.OverallAverage)
}

func TestExportFolder(t *testing.T) {
	f := newFixture(t, "")
	folderID, testID := seedComprehensive(t, f)
	linkFixture(t, f, folderID)

	rec := f.do(t, http.MethodPost, "/api/tests/"+testID+"/submissions", SubmitTestRequest{
		Scores: map[string]int{"0": 80, "1": 40},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/folders/"+folderID+"/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[FolderExportResponse](t, rec)
	assert.Equal(t, "Physics", resp.Folder.Name)
	require.Len(t, resp.Folder.Links, 1)
	require.Len(t, resp.Folder.Tests, 1)
	require.Len(t, resp.Folder.Tests[0].Submissions, 1)

	rec = f.do(t, http.MethodGet, "/api/folders/missing/export", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPerformanceAnalytics(t *testing.T) {
	f := newFixture(t, "")
	folderID, testID := seedComprehensive(t, f)

	// No submissions yet: analytics is a 404 with an error body.
	rec := f.do(t, http.MethodGet, "/api/folders/"+folderID+"/performance-analytics", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No comprehensive test submissions")

	rec = f.do(t, http.MethodPost, "/api/tests/"+testID+"/submissions", SubmitTestRequest{
		Answers: map[string]string{"0": "F equals ma"},
		Scores:  map[string]int{"0": 80, "1": 40},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/folders/"+folderID+"/performance-analytics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var report struct {
		SkillAverages      map[string]float64 `json:"skill_averages"`
		DifficultyAverages map[string]float64 `json:"difficulty_averages"`
		WeakAreas          struct {
			Skills []string `json:"skills"`
			Topics []string `json:"topics"`
		} `json:"weak_areas"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 80.0, report.SkillAverages["analytical"])
	assert.Equal(t, 40.0, report.DifficultyAverages["easy"])
	assert.Empty(t, report.WeakAreas.Skills)
}

func TestPerformanceInsights(t *testing.T) {
	f := newFixture(t, "## Summary\nSolid progress.")
	folderID, testID := seedComprehensive(t, f)

	rec := f.do(t, http.MethodPost, "/api/tests/"+testID+"/submissions", SubmitTestRequest{
		Scores: map[string]int{"0": 90, "1": 90},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/folders/"+folderID+"/performance-insights", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[InsightsResponse](t, rec).Insights, "<h2")
}

func TestChatFlow(t *testing.T) {
	f := newFixture(t, "Keep practicing.")
	folderID, testID := seedComprehensive(t, f)

	rec := f.do(t, http.MethodPost, "/api/chat/initialize", ChatContextRequest{
		FolderID: folderID,
		TestIDs:  []string{testID},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	ctx := decode[ChatContextResponse](t, rec)
	require.NotEmpty(t, ctx.SessionID)
	assert.Equal(t, "test_assistance", ctx.ContextType)

	rec = f.do(t, http.MethodPost, "/api/chat/message", ChatMessageRequest{Message: "How am I doing?"},
		"X-Session-Id", ctx.SessionID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[ChatMessageResponse](t, rec).Response, "Keep practicing.")

	rec = f.do(t, http.MethodGet, "/api/chat/history", nil, "X-Session-Id", ctx.SessionID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[ChatHistoryResponse](t, rec).History, 1)

	rec = f.do(t, http.MethodPost, "/api/chat/clear", nil, "X-Session-Id", ctx.SessionID)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/chat/history", nil, "X-Session-Id", ctx.SessionID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerateTestFromLinks(t *testing.T) {
	const batch = `[{"question": "What is inertia?", "type": "short_answer", "difficulty": "medium", "sample_answer": "Resistance to change in motion.", "tags": ["medium"]}]`
	f := newFixture(t, batch)

	fo := folder.New("Physics", "")
	require.NoError(t, f.store.SaveFolder(fo))

	l := linkFixture(t, f, fo.ID)

	rec := f.do(t, http.MethodPost, "/api/tests/generate", GenerateTestRequest{
		generationOptions: generationOptions{
			Name:          "Quick quiz",
			QuestionTypes: []string{"short_answer"},
			Difficulty:    "medium",
			NumQuestions:  1,
		},
		LinkIDs: []string{l},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decode[GenerateTestResponse](t, rec)
	assert.Equal(t, "normal", resp.Kind)
	require.Len(t, resp.Questions, 1)
	assert.Equal(t, "What is inertia?", resp.Questions[0].Text)
}

func TestSearchTests(t *testing.T) {
	f := newFixture(t, "")
	seedComprehensive(t, f)

	rec := f.do(t, http.MethodGet, "/api/tests?q=mechanics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]TestSummary](t, rec), 1)

	rec = f.do(t, http.MethodGet, "/api/tests?q=nothing-matches", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]TestSummary](t, rec))
}

func linkFixture(t *testing.T, f *fixture, folderID string) string {
	t.Helper()
	l := link.New(folderID, "http://example.com/inertia", "Inertia", "Inertia is resistance to change in motion.", link.TypeURL)
	require.NoError(t, f.store.SaveLink(l))
	return l.ID
}
