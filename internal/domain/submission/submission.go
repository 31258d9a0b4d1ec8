package submission

import (
	"strconv"
	"time"

	"github.com/quizforge/backend/internal/analytics"
	"github.com/quizforge/backend/internal/domain/quiz"
	"github.com/quizforge/backend/internal/id"
)

// Submission is one attempt at a test by an unidentified user. Only the
// self-assessment score map may change after creation.
type Submission struct {
	ID          string
	TestID      string
	Answers     map[string]string // question index (0-based, as string) → answer
	Scores      map[string]int    // question index → self-assessment, 0–100
	Metrics     *Metrics          // set for comprehensive tests only
	SubmittedAt time.Time
}

// Metrics is the per-submission aggregate computed at submit time for
// comprehensive tests. Unlike the folder-level report, OverallAverage here
// is the mean of the submission's raw scores.
type Metrics struct {
	SkillAverages      map[string]float64 `json:"skill_averages"`
	TopicAverages      map[string]float64 `json:"topic_averages"`
	DifficultyAverages map[string]float64 `json:"difficulty_averages"`
	OverallAverage     float64            `json:"overall_average"`
}

// New creates a Submission for the given test. Score keys outside the
// test's question index range are dropped; comprehensive tests get their
// metrics computed immediately.
func New(t *quiz.Test, answers map[string]string, scores map[string]int) *Submission {
	if answers == nil {
		answers = map[string]string{}
	}
	scores = ClampScores(scores, len(t.Questions))

	s := &Submission{
		ID:          id.GenerateID(),
		TestID:      t.ID,
		Answers:     answers,
		Scores:      scores,
		SubmittedAt: time.Now().UTC(),
	}
	if t.Kind == quiz.TestComprehensive {
		s.Metrics = ComputeMetrics(t.Questions, scores)
	}
	return s
}

// ClampScores drops score keys that do not name a question index of the
// test. Every path that stores a score map must pass through it, or phantom
// keys would inflate the metrics denominators.
func ClampScores(scores map[string]int, numQuestions int) map[string]int {
	out := make(map[string]int, len(scores))
	for key, score := range scores {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= numQuestions {
			continue
		}
		out[key] = score
	}
	return out
}

// ComputeMetrics aggregates self-assessment scores by skill, topic and
// difficulty using the same tag classification as the folder analyzer.
// A question with no score counts as 0.
func ComputeMetrics(questions []quiz.Question, scores map[string]int) *Metrics {
	skillScores := make(map[string][]int)
	topicScores := make(map[string][]int)
	difficultyScores := map[string][]int{"easy": nil, "medium": nil, "hard": nil}

	for i, q := range questions {
		score := scores[strconv.Itoa(i)]

		difficulty := string(q.Difficulty)
		if _, ok := difficultyScores[difficulty]; !ok {
			difficulty = "medium"
		}
		difficultyScores[difficulty] = append(difficultyScores[difficulty], score)

		for _, tag := range q.Tags {
			if analytics.IsSkillTag(tag) {
				skillScores[tag] = append(skillScores[tag], score)
			} else {
				topicScores[tag] = append(topicScores[tag], score)
			}
		}
	}

	overall := 0.0
	if len(scores) > 0 {
		total := 0
		for _, s := range scores {
			total += s
		}
		overall = float64(total) / float64(len(scores))
	}

	return &Metrics{
		SkillAverages:      means(skillScores),
		TopicAverages:      means(topicScores),
		DifficultyAverages: meansWithEmpty(difficultyScores),
		OverallAverage:     overall,
	}
}

func means(scores map[string][]int) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for tag, list := range scores {
		if len(list) == 0 {
			continue
		}
		out[tag] = mean(list)
	}
	return out
}

func meansWithEmpty(scores map[string][]int) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for tag, list := range scores {
		out[tag] = mean(list)
	}
	return out
}

func mean(list []int) float64 {
	if len(list) == 0 {
		return 0
	}
	total := 0
	for _, s := range list {
		total += s
	}
	return float64(total) / float64(len(list))
}
