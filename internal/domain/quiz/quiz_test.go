package quiz_test

import (
	"testing"

	"github.com/quizforge/backend/internal/domain/quiz"
)

func TestDistribute_Even(t *testing.T) {
	counts := quiz.Distribute([]quiz.Kind{quiz.KindMCQ, quiz.KindTrueFalse}, 10)

	if counts[quiz.KindMCQ] != 5 || counts[quiz.KindTrueFalse] != 5 {
		t.Errorf("expected 5/5 split, got %v", counts)
	}
}

func TestDistribute_RemainderGoesToFirstKinds(t *testing.T) {
	kinds := []quiz.Kind{quiz.KindMCQ, quiz.KindShortAnswer, quiz.KindTrueFalse}
	counts := quiz.Distribute(kinds, 10)

	if counts[quiz.KindMCQ] != 4 {
		t.Errorf("expected first kind to get the remainder, got %d", counts[quiz.KindMCQ])
	}
	if counts[quiz.KindShortAnswer] != 3 || counts[quiz.KindTrueFalse] != 3 {
		t.Errorf("expected 3 for the remaining kinds, got %v", counts)
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	if total != 10 {
		t.Errorf("expected counts to sum to 10, got %d", total)
	}
}

func TestDistribute_NoKinds(t *testing.T) {
	counts := quiz.Distribute(nil, 10)
	if len(counts) != 0 {
		t.Errorf("expected empty distribution, got %v", counts)
	}
}

func TestEstimateTime(t *testing.T) {
	tests := []struct {
		name       string
		num        int
		difficulty quiz.Difficulty
		kinds      []quiz.Kind
		want       int
	}{
		{"mcq medium", 10, quiz.DifficultyMedium, []quiz.Kind{quiz.KindMCQ}, 15},
		{"mcq easy", 10, quiz.DifficultyEasy, []quiz.Kind{quiz.KindMCQ}, 12},
		{"long answer hard", 10, quiz.DifficultyHard, []quiz.Kind{quiz.KindLongAnswer}, 65},
		{"floor of five minutes", 1, quiz.DifficultyEasy, []quiz.Kind{quiz.KindTrueFalse}, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := quiz.EstimateTime(tc.num, tc.difficulty, tc.kinds)
			if got != tc.want {
				t.Errorf("expected %d minutes, got %d", tc.want, got)
			}
		})
	}
}

func TestNew_DerivesTagsForComprehensive(t *testing.T) {
	questions := []quiz.Question{
		{Text: "Q1", Kind: quiz.KindMCQ, Difficulty: quiz.DifficultyHard, Tags: []string{"physics", "analytical"}},
		{Text: "Q2", Kind: quiz.KindTrueFalse, Difficulty: quiz.DifficultyEasy},
	}

	test := quiz.New("T", []quiz.Kind{quiz.KindMCQ, quiz.KindTrueFalse}, quiz.DifficultyMixed, questions, quiz.TestComprehensive)

	want := map[string]bool{"physics": true, "analytical": true, "hard": true, "easy": true}
	if len(test.Tags) != len(want) {
		t.Fatalf("expected %d tags, got %v", len(want), test.Tags)
	}
	for _, tag := range test.Tags {
		if !want[tag] {
			t.Errorf("unexpected tag %q", tag)
		}
	}
}

func TestNew_NormalTestTagsAreJustDifficulty(t *testing.T) {
	questions := []quiz.Question{
		{Text: "Q1", Kind: quiz.KindMCQ, Difficulty: quiz.DifficultyHard, Tags: []string{"physics"}},
	}

	test := quiz.New("T", []quiz.Kind{quiz.KindMCQ}, quiz.DifficultyMedium, questions, quiz.TestNormal)

	if len(test.Tags) != 1 || test.Tags[0] != "medium" {
		t.Errorf("expected tags [medium], got %v", test.Tags)
	}
}

func TestQuestionValidate(t *testing.T) {
	valid := quiz.Question{
		Text:          "What is 2+2?",
		Kind:          quiz.KindMCQ,
		Options:       map[string]string{"A": "3", "B": "4"},
		CorrectAnswer: "B",
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	invalid := []quiz.Question{
		{Text: "", Kind: quiz.KindMCQ},
		{Text: "Q", Kind: quiz.Kind("essay")},
		{Text: "Q", Kind: quiz.KindMCQ, Options: map[string]string{"A": "1"}},
		{Text: "Q", Kind: quiz.KindTrueFalse},
		{Text: "Q", Kind: quiz.KindShortAnswer},
		{Text: "Q", Kind: quiz.KindMultiSelect, Options: map[string]string{"A": "1", "B": "2"}},
	}
	for i, q := range invalid {
		if err := q.Validate(); err == nil {
			t.Errorf("case %d: expected validation error, got nil", i)
		}
	}
}

func TestShuffle_KeepsAllQuestions(t *testing.T) {
	var questions []quiz.Question
	for i := 0; i < 20; i++ {
		questions = append(questions, quiz.Question{Text: string(rune('A' + i)), Kind: quiz.KindTrueFalse, CorrectAnswer: true})
	}

	shuffled := quiz.Shuffle(questions)

	if len(shuffled) != len(questions) {
		t.Fatalf("expected %d questions, got %d", len(questions), len(shuffled))
	}

	seen := make(map[string]bool)
	for _, q := range shuffled {
		seen[q.Text] = true
	}
	if len(seen) != len(questions) {
		t.Error("expected shuffle to keep every question")
	}
}
