package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/backend/internal/domain/folder"
	"github.com/quizforge/backend/internal/domain/link"
	"github.com/quizforge/backend/internal/domain/quiz"
	"github.com/quizforge/backend/internal/domain/submission"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleTest(folderID *string, kind quiz.TestKind) *quiz.Test {
	questions := []quiz.Question{
		{Text: "Q0", Kind: quiz.KindShortAnswer, Difficulty: quiz.DifficultyHard, Tags: []string{"analytical", "physics"}, SampleAnswer: "A"},
		{Text: "Q1", Kind: quiz.KindTrueFalse, Difficulty: quiz.DifficultyEasy, CorrectAnswer: true},
	}
	test := quiz.New("Sample", []quiz.Kind{quiz.KindShortAnswer, quiz.KindTrueFalse}, quiz.DifficultyMixed, questions, kind)
	test.FolderID = folderID
	return test
}

func TestFolderRoundTrip(t *testing.T) {
	s := newTestStore(t)

	f := folder.New("Physics", "Mechanics notes")
	require.NoError(t, s.SaveFolder(f))

	got, err := s.GetFolder(f.ID)
	require.NoError(t, err)
	assert.Equal(t, "Physics", got.Name)
	assert.Equal(t, "Mechanics notes", got.Description)

	_, err = s.GetFolder("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFolders_LinkCount(t *testing.T) {
	s := newTestStore(t)

	f := folder.New("Physics", "")
	require.NoError(t, s.SaveFolder(f))
	require.NoError(t, s.SaveLink(link.New(f.ID, "http://a", "A", "content a", link.TypeURL)))
	require.NoError(t, s.SaveLink(link.New(f.ID, "http://b", "B", "content b", link.TypeURL)))

	folders, err := s.ListFolders()
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, 2, folders[0].LinkCount)
}

func TestDeleteFolder_CascadesLinksKeepsTests(t *testing.T) {
	s := newTestStore(t)

	f := folder.New("Physics", "")
	require.NoError(t, s.SaveFolder(f))

	l := link.New(f.ID, "http://a", "A", "content", link.TypeURL)
	require.NoError(t, s.SaveLink(l))

	test := sampleTest(&f.ID, quiz.TestNormal)
	require.NoError(t, s.SaveTest(test))

	require.NoError(t, s.DeleteFolder(f.ID))

	_, err := s.GetLink(l.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.GetTest(test.ID)
	require.NoError(t, err)
	assert.Nil(t, got.FolderID)
}

func TestTestRoundTrip(t *testing.T) {
	s := newTestStore(t)

	test := sampleTest(nil, quiz.TestComprehensive)
	test.SourceURLs = []string{"http://example.com"}
	require.NoError(t, s.SaveTest(test))

	got, err := s.GetTest(test.ID)
	require.NoError(t, err)
	assert.Equal(t, test.Name, got.Name)
	assert.Equal(t, quiz.TestComprehensive, got.Kind)
	assert.Equal(t, test.Tags, got.Tags)
	assert.Len(t, got.Questions, 2)
	assert.Equal(t, "Q0", got.Questions[0].Text)
	assert.Equal(t, []string{"http://example.com"}, got.SourceURLs)
}

func TestSearchTests(t *testing.T) {
	s := newTestStore(t)

	algebra := quiz.New("Algebra Basics", []quiz.Kind{quiz.KindMCQ}, quiz.DifficultyEasy, []quiz.Question{
		{Text: "Q", Kind: quiz.KindMCQ, Options: map[string]string{"A": "1", "B": "2"}, CorrectAnswer: "A"},
	}, quiz.TestNormal)
	require.NoError(t, s.SaveTest(algebra))

	physics := sampleTest(nil, quiz.TestComprehensive)
	require.NoError(t, s.SaveTest(physics))

	byName, err := s.SearchTests(TestFilter{Query: "algebra"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Algebra Basics", byName[0].Name)

	byTag, err := s.SearchTests(TestFilter{Query: "physics"})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "Sample", byTag[0].Name)

	byKind, err := s.SearchTests(TestFilter{Kind: string(quiz.TestComprehensive)})
	require.NoError(t, err)
	require.Len(t, byKind, 1)
	assert.Equal(t, "Sample", byKind[0].Name)

	byDifficulty, err := s.SearchTests(TestFilter{Query: "algebra", Difficulty: string(quiz.DifficultyHard)})
	require.NoError(t, err)
	assert.Empty(t, byDifficulty)

	all, err := s.SearchTests(TestFilter{Query: "  "})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSubmissionRoundTrip(t *testing.T) {
	s := newTestStore(t)

	test := sampleTest(nil, quiz.TestComprehensive)
	require.NoError(t, s.SaveTest(test))

	sub := submission.New(test, map[string]string{"0": "F=ma"}, map[string]int{"0": 80, "1": 40})
	require.NoError(t, s.SaveSubmission(sub))

	got, err := s.GetSubmission(sub.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Metrics)
	assert.Equal(t, 60.0, got.Metrics.OverallAverage)
	assert.Equal(t, map[string]int{"0": 80, "1": 40}, got.Scores)
}

func TestListComprehensiveSubmissions_FiltersByFolderAndKind(t *testing.T) {
	s := newTestStore(t)

	f := folder.New("Physics", "")
	require.NoError(t, s.SaveFolder(f))

	comprehensive := sampleTest(&f.ID, quiz.TestComprehensive)
	require.NoError(t, s.SaveTest(comprehensive))

	normal := sampleTest(&f.ID, quiz.TestNormal)
	require.NoError(t, s.SaveTest(normal))

	require.NoError(t, s.SaveSubmission(submission.New(comprehensive, nil, map[string]int{"0": 90})))
	require.NoError(t, s.SaveSubmission(submission.New(normal, nil, map[string]int{"0": 10})))

	subs, err := s.ListComprehensiveSubmissions(f.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Sample", subs[0].TestName)
	assert.Len(t, subs[0].Questions, 2)
}

func TestUpdateSubmissionScores(t *testing.T) {
	s := newTestStore(t)

	test := sampleTest(nil, quiz.TestComprehensive)
	require.NoError(t, s.SaveTest(test))

	sub := submission.New(test, nil, map[string]int{"0": 10, "1": 10})
	require.NoError(t, s.SaveSubmission(sub))

	newScores := map[string]int{"0": 95, "1": 85}
	metrics := submission.ComputeMetrics(test.Questions, newScores)
	require.NoError(t, s.UpdateSubmissionScores(sub.ID, newScores, metrics))

	got, err := s.GetSubmission(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, newScores, got.Scores)
	assert.Equal(t, 90.0, got.Metrics.OverallAverage)

	err = s.UpdateSubmissionScores("missing", newScores, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTest_CascadesSubmissionsAndFeedback(t *testing.T) {
	s := newTestStore(t)

	test := sampleTest(nil, quiz.TestNormal)
	require.NoError(t, s.SaveTest(test))

	sub := submission.New(test, nil, map[string]int{"0": 50})
	require.NoError(t, s.SaveSubmission(sub))
	require.NoError(t, s.SaveFeedback(&Feedback{ID: "fb1", SubmissionID: sub.ID, QuestionIndex: 0, Text: "Good try"}))

	require.NoError(t, s.DeleteTest(test.ID))

	_, err := s.GetSubmission(sub.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	fb, err := s.ListFeedback(sub.ID)
	require.NoError(t, err)
	assert.Empty(t, fb)
}

func TestDashboard(t *testing.T) {
	s := newTestStore(t)

	f := folder.New("Physics", "")
	require.NoError(t, s.SaveFolder(f))
	require.NoError(t, s.SaveLink(link.New(f.ID, "http://a", "A", "c", link.TypeURL)))

	test := sampleTest(&f.ID, quiz.TestNormal)
	require.NoError(t, s.SaveTest(test))
	require.NoError(t, s.SaveSubmission(submission.New(test, map[string]string{"0": "F=ma"}, nil)))

	stats, err := s.Dashboard()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Folders)
	assert.Equal(t, 1, stats.Links)
	assert.Equal(t, 1, stats.Tests)
	assert.Equal(t, 1, stats.Submissions)
	assert.Equal(t, map[string]int{"normal": 1}, stats.KindDistribution)
	assert.Len(t, stats.RecentTests, 1)
	require.Len(t, stats.RecentSubmissions, 1)
	assert.Equal(t, "Sample", stats.RecentSubmissions[0].TestName)
	assert.Equal(t, "normal", stats.RecentSubmissions[0].TestKind)
}
