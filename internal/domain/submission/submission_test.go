package submission_test

import (
	"testing"

	"github.com/quizforge/backend/internal/domain/quiz"
	"github.com/quizforge/backend/internal/domain/submission"
)

func comprehensiveTest() *quiz.Test {
	questions := []quiz.Question{
		{Text: "Q0", Kind: quiz.KindShortAnswer, Difficulty: quiz.DifficultyHard, Tags: []string{"analytical", "physics"}, SampleAnswer: "A"},
		{Text: "Q1", Kind: quiz.KindTrueFalse, Difficulty: quiz.DifficultyEasy, CorrectAnswer: true},
	}
	return quiz.New("Comprehensive", []quiz.Kind{quiz.KindShortAnswer, quiz.KindTrueFalse}, quiz.DifficultyMixed, questions, quiz.TestComprehensive)
}

func TestNew_ComprehensiveGetsMetrics(t *testing.T) {
	test := comprehensiveTest()

	sub := submission.New(test, map[string]string{"0": "F=ma", "1": "true"}, map[string]int{"0": 80, "1": 40})

	if sub.Metrics == nil {
		t.Fatal("expected metrics for a comprehensive test")
	}
	if got := sub.Metrics.SkillAverages["analytical"]; got != 80 {
		t.Errorf("expected analytical average 80, got %v", got)
	}
	if got := sub.Metrics.TopicAverages["physics"]; got != 80 {
		t.Errorf("expected physics average 80, got %v", got)
	}
	if got := sub.Metrics.DifficultyAverages["easy"]; got != 40 {
		t.Errorf("expected easy average 40, got %v", got)
	}
	if got := sub.Metrics.OverallAverage; got != 60 {
		t.Errorf("expected overall average 60, got %v", got)
	}
}

func TestNew_NormalTestHasNoMetrics(t *testing.T) {
	test := quiz.New("Normal", []quiz.Kind{quiz.KindMCQ}, quiz.DifficultyMedium, []quiz.Question{
		{Text: "Q", Kind: quiz.KindMCQ, Options: map[string]string{"A": "1", "B": "2"}, CorrectAnswer: "A"},
	}, quiz.TestNormal)

	sub := submission.New(test, map[string]string{"0": "A"}, map[string]int{"0": 100})

	if sub.Metrics != nil {
		t.Error("expected no metrics for a normal test")
	}
}

func TestNew_DropsOutOfRangeScoreKeys(t *testing.T) {
	test := comprehensiveTest()

	sub := submission.New(test, nil, map[string]int{"0": 80, "7": 10, "not-a-number": 5, "-1": 3})

	if len(sub.Scores) != 1 {
		t.Fatalf("expected only the in-range score to survive, got %v", sub.Scores)
	}
	if sub.Scores["0"] != 80 {
		t.Errorf("expected score 80 for index 0, got %d", sub.Scores["0"])
	}
}

func TestComputeMetrics_MissingScoreCountsAsZero(t *testing.T) {
	questions := []quiz.Question{
		{Text: "Q0", Kind: quiz.KindTrueFalse, Difficulty: quiz.DifficultyEasy, Tags: []string{"geometry"}},
		{Text: "Q1", Kind: quiz.KindTrueFalse, Difficulty: quiz.DifficultyEasy, Tags: []string{"geometry"}},
	}

	m := submission.ComputeMetrics(questions, map[string]int{"0": 100})

	if got := m.TopicAverages["geometry"]; got != 50 {
		t.Errorf("expected geometry average 50, got %v", got)
	}
}

func TestComputeMetrics_UnknownDifficultyFallsBackToMedium(t *testing.T) {
	questions := []quiz.Question{
		{Text: "Q0", Kind: quiz.KindTrueFalse, Difficulty: quiz.Difficulty("mixed")},
	}

	m := submission.ComputeMetrics(questions, map[string]int{"0": 42})

	if got := m.DifficultyAverages["medium"]; got != 42 {
		t.Errorf("expected medium bucket 42, got %v", got)
	}
}
