// Package analytics reduces folder-scoped comprehensive-test submissions
// into skill/topic/difficulty averages, a chronological trend and weak-area
// flags. It is a pure in-memory reduction: records are loaded by the caller,
// nothing here touches storage or the network.
package analytics

import (
	"errors"
	"sort"
	"strconv"
	"time"
)

// ErrNoData is returned when a folder has no comprehensive-test submissions.
// Callers must branch on it before reading any aggregate field.
var ErrNoData = errors.New("no comprehensive test submissions found for this folder")

// QuestionRecord is the slice of a test question the analyzer needs.
type QuestionRecord struct {
	Kind       string
	Difficulty string
	Tags       []string
}

// SubmissionRecord pairs one submission with its test's ordered question list.
type SubmissionRecord struct {
	ID          string
	TestID      string
	TestName    string
	SubmittedAt time.Time
	Answers     map[string]string // question index (0-based, as string) → answer
	Scores      map[string]int    // question index → self-assessment, 0–100
	Questions   []QuestionRecord
}

// QuestionPerformance is one flattened (submission, question) observation —
// the audit trail underlying every aggregate.
type QuestionPerformance struct {
	SubmissionID  string    `json:"submission_id"`
	SubmittedAt   time.Time `json:"submitted_at"`
	QuestionIndex int       `json:"question_index"`
	QuestionType  string    `json:"question_type"`
	Difficulty    string    `json:"difficulty"`
	Tags          []string  `json:"tags"`
	UserScore     int       `json:"user_score"`
	UserAnswer    string    `json:"user_answer"`
}

// TimePoint is one submission on the performance trend.
type TimePoint struct {
	Date         string  `json:"date"` // submission date truncated to day, YYYY-MM-DD
	AverageScore float64 `json:"average_score"`
	SubmissionID string  `json:"submission_id"`
}

// OverallStats summarizes the whole aggregate. OverallAverage is the mean of
// the skill averages — not of the raw scores — so a skill appearing in many
// questions is not weighted beyond its own average.
type OverallStats struct {
	TotalSubmissions        int     `json:"total_submissions"`
	TotalQuestionsAttempted int     `json:"total_questions_attempted"`
	OverallAverage          float64 `json:"overall_average"`
}

// WeakAreas lists skills and topics whose mean score is below the
// competency threshold.
type WeakAreas struct {
	Skills []string `json:"skills"`
	Topics []string `json:"topics"`
}

// Report is the full aggregate over a folder's comprehensive submissions.
type Report struct {
	OverallStats        OverallStats          `json:"overall_stats"`
	SkillAverages       map[string]float64    `json:"skill_averages"`
	TopicAverages       map[string]float64    `json:"topic_averages"`
	DifficultyAverages  map[string]float64    `json:"difficulty_averages"`
	WeakAreas           WeakAreas             `json:"weak_areas"`
	PerformanceOverTime []TimePoint           `json:"performance_over_time"`
	DetailedPerformance []QuestionPerformance `json:"detailed_performance"`
}

// Analyze reduces the given submissions into a Report in a single pass over
// all (submission, question index) pairs.
//
// Leniency rules for malformed records: a question with no tags contributes
// to no skill/topic average, an unrecognized or missing difficulty counts as
// "medium", and a missing score counts as 0 — it is never excluded.
func Analyze(submissions []SubmissionRecord) (*Report, error) {
	if len(submissions) == 0 {
		return nil, ErrNoData
	}

	skillScores := make(map[string][]int)
	topicScores := make(map[string][]int)
	difficultyScores := map[string][]int{
		"easy":   nil,
		"medium": nil,
		"hard":   nil,
	}
	var detailed []QuestionPerformance

	for _, sub := range submissions {
		for i, q := range sub.Questions {
			key := strconv.Itoa(i)
			score := sub.Scores[key] // missing index → 0, counted
			difficulty := normalizeDifficulty(q.Difficulty)

			for _, tag := range q.Tags {
				if IsSkillTag(tag) {
					skillScores[tag] = append(skillScores[tag], score)
				} else {
					topicScores[tag] = append(topicScores[tag], score)
				}
			}

			difficultyScores[difficulty] = append(difficultyScores[difficulty], score)

			detailed = append(detailed, QuestionPerformance{
				SubmissionID:  sub.ID,
				SubmittedAt:   sub.SubmittedAt,
				QuestionIndex: i,
				QuestionType:  q.Kind,
				Difficulty:    difficulty, // bucketed, not the question's raw value
				Tags:          q.Tags,
				UserScore:     score,
				UserAnswer:    sub.Answers[key],
			})
		}
	}

	skillAverages := averages(skillScores)
	topicAverages := averages(topicScores)

	difficultyAverages := make(map[string]float64, len(difficultyScores))
	for bucket, scores := range difficultyScores {
		difficultyAverages[bucket] = mean(scores) // empty bucket → 0
	}

	return &Report{
		OverallStats: OverallStats{
			TotalSubmissions:        len(submissions),
			TotalQuestionsAttempted: len(detailed),
			OverallAverage:          meanOfValues(skillAverages),
		},
		SkillAverages:       skillAverages,
		TopicAverages:       topicAverages,
		DifficultyAverages:  difficultyAverages,
		WeakAreas:           ClassifyWeakAreas(skillAverages, topicAverages),
		PerformanceOverTime: trend(submissions),
		DetailedPerformance: detailed,
	}, nil
}

// trend returns one point per submission, ordered by submission time
// ascending. Each point is the mean of that submission's own score map —
// unscored questions do not feed into the trend.
func trend(submissions []SubmissionRecord) []TimePoint {
	ordered := make([]SubmissionRecord, len(submissions))
	copy(ordered, submissions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SubmittedAt.Before(ordered[j].SubmittedAt)
	})

	points := make([]TimePoint, len(ordered))
	for i, sub := range ordered {
		avg := 0.0
		if len(sub.Scores) > 0 {
			total := 0
			for _, s := range sub.Scores {
				total += s
			}
			avg = float64(total) / float64(len(sub.Scores))
		}
		points[i] = TimePoint{
			Date:         sub.SubmittedAt.Format("2006-01-02"),
			AverageScore: avg,
			SubmissionID: sub.ID,
		}
	}
	return points
}

func normalizeDifficulty(d string) string {
	switch d {
	case "easy", "medium", "hard":
		return d
	}
	return "medium"
}

func averages(scores map[string][]int) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for tag, list := range scores {
		if len(list) == 0 {
			continue
		}
		out[tag] = mean(list)
	}
	return out
}

func mean(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	total := 0
	for _, s := range scores {
		total += s
	}
	return float64(total) / float64(len(scores))
}

// meanOfValues averages map values in sorted key order so repeated calls on
// the same input always produce the same float result.
func meanOfValues(m map[string]float64) float64 {
	if len(m) == 0 {
		return 0
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	total := 0.0
	for _, k := range keys {
		total += m[k]
	}
	return total / float64(len(m))
}
