package store

import (
	"database/sql"
	"encoding/json"

	"github.com/quizforge/backend/internal/domain/quiz"
	"github.com/quizforge/backend/internal/domain/submission"
)

// ============================================================================
// Submissions
// ============================================================================

func (s *SQLiteStore) SaveSubmission(sub *submission.Submission) error {
	answers, _ := json.Marshal(sub.Answers)
	scores, _ := json.Marshal(sub.Scores)

	var metrics any
	if sub.Metrics != nil {
		data, _ := json.Marshal(sub.Metrics)
		metrics = string(data)
	}

	_, err := s.db.Exec(
		"INSERT INTO test_submissions (id, test_id, user_answers, user_scores, performance_metrics, submitted_at) VALUES (?, ?, ?, ?, ?, ?)",
		sub.ID, sub.TestID, string(answers), string(scores), metrics, formatTime(sub.SubmittedAt),
	)
	return err
}

// UpdateSubmissionScores replaces the self-assessment scores and the metrics
// recomputed from them.
func (s *SQLiteStore) UpdateSubmissionScores(id string, scores map[string]int, metrics *submission.Metrics) error {
	scoresJSON, _ := json.Marshal(scores)

	var metricsVal any
	if metrics != nil {
		data, _ := json.Marshal(metrics)
		metricsVal = string(data)
	}

	result, err := s.db.Exec(
		"UPDATE test_submissions SET user_scores = ?, performance_metrics = ? WHERE id = ?",
		string(scoresJSON), metricsVal, id,
	)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSubmission(row interface{ Scan(...any) error }) (*submission.Submission, error) {
	var sub submission.Submission
	var answers, scores, submittedAt string
	var metrics sql.NullString

	if err := row.Scan(&sub.ID, &sub.TestID, &answers, &scores, &metrics, &submittedAt); err != nil {
		return nil, err
	}

	json.Unmarshal([]byte(answers), &sub.Answers)
	json.Unmarshal([]byte(scores), &sub.Scores)
	if metrics.Valid && metrics.String != "" {
		var m submission.Metrics
		if err := json.Unmarshal([]byte(metrics.String), &m); err == nil {
			sub.Metrics = &m
		}
	}
	sub.SubmittedAt = parseTime(submittedAt)
	return &sub, nil
}

func (s *SQLiteStore) GetSubmission(id string) (*submission.Submission, error) {
	sub, err := scanSubmission(s.db.QueryRow(
		"SELECT id, test_id, user_answers, user_scores, performance_metrics, submitted_at FROM test_submissions WHERE id = ?", id,
	))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return sub, err
}

func (s *SQLiteStore) ListSubmissionsByTest(testID string) ([]*submission.Submission, error) {
	rows, err := s.db.Query(
		"SELECT id, test_id, user_answers, user_scores, performance_metrics, submitted_at FROM test_submissions WHERE test_id = ? ORDER BY submitted_at DESC", testID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*submission.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func scanSubmissionWithTest(row interface{ Scan(...any) error }) (SubmissionWithTest, error) {
	var sub submission.Submission
	var answers, scores, submittedAt, testName, questions string
	var metrics sql.NullString
	var tags sql.NullString

	err := row.Scan(&sub.ID, &sub.TestID, &answers, &scores, &metrics, &submittedAt,
		&testName, &questions, &tags)
	if err != nil {
		return SubmissionWithTest{}, err
	}

	json.Unmarshal([]byte(answers), &sub.Answers)
	json.Unmarshal([]byte(scores), &sub.Scores)
	if metrics.Valid && metrics.String != "" {
		var m submission.Metrics
		if err := json.Unmarshal([]byte(metrics.String), &m); err == nil {
			sub.Metrics = &m
		}
	}
	sub.SubmittedAt = parseTime(submittedAt)

	out := SubmissionWithTest{Submission: &sub, TestName: testName}
	json.Unmarshal([]byte(questions), &out.Questions)
	if tags.Valid {
		json.Unmarshal([]byte(tags.String), &out.TestTags)
	}
	return out, nil
}

const submissionWithTestQuery = `
	SELECT ts.id, ts.test_id, ts.user_answers, ts.user_scores, ts.performance_metrics, ts.submitted_at,
	       t.name, t.questions, t.tags
	FROM test_submissions ts
	JOIN tests t ON ts.test_id = t.id
`

func (s *SQLiteStore) GetSubmissionWithTest(id string) (SubmissionWithTest, error) {
	swt, err := scanSubmissionWithTest(s.db.QueryRow(submissionWithTestQuery+"WHERE ts.id = ?", id))
	if err == sql.ErrNoRows {
		return SubmissionWithTest{}, ErrNotFound
	}
	return swt, err
}

// ListComprehensiveSubmissions returns every submission against the folder's
// comprehensive tests, newest first. This is the analyzer's input.
func (s *SQLiteStore) ListComprehensiveSubmissions(folderID string) ([]SubmissionWithTest, error) {
	rows, err := s.db.Query(
		submissionWithTestQuery+"WHERE t.folder_id = ? AND t.test_type = ? ORDER BY ts.submitted_at DESC",
		folderID, string(quiz.TestComprehensive),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []SubmissionWithTest
	for rows.Next() {
		swt, err := scanSubmissionWithTest(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, swt)
	}
	return subs, rows.Err()
}

// ============================================================================
// AI feedback
// ============================================================================

func (s *SQLiteStore) SaveFeedback(f *Feedback) error {
	_, err := s.db.Exec(
		"INSERT INTO ai_feedback (id, submission_id, question_index, feedback_text, created_at) VALUES (?, ?, ?, ?, ?)",
		f.ID, f.SubmissionID, f.QuestionIndex, f.Text, formatTime(f.CreatedAt),
	)
	return err
}

func (s *SQLiteStore) ListFeedback(submissionID string) ([]*Feedback, error) {
	rows, err := s.db.Query(
		"SELECT id, submission_id, question_index, feedback_text, created_at FROM ai_feedback WHERE submission_id = ? ORDER BY question_index", submissionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feedback []*Feedback
	for rows.Next() {
		var f Feedback
		var createdAt string
		if err := rows.Scan(&f.ID, &f.SubmissionID, &f.QuestionIndex, &f.Text, &createdAt); err != nil {
			return nil, err
		}
		f.CreatedAt = parseTime(createdAt)
		feedback = append(feedback, &f)
	}
	return feedback, rows.Err()
}

// ============================================================================
// Dashboard
// ============================================================================

const recentActivityLimit = 5

func (s *SQLiteStore) Dashboard() (*DashboardStats, error) {
	var stats DashboardStats

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM folders", &stats.Folders},
		{"SELECT COUNT(*) FROM links", &stats.Links},
		{"SELECT COUNT(*) FROM tests", &stats.Tests},
		{"SELECT COUNT(*) FROM test_submissions", &stats.Submissions},
	}
	for _, c := range counts {
		if err := s.db.QueryRow(c.query).Scan(c.dest); err != nil {
			return nil, err
		}
	}

	rows, err := s.db.Query("SELECT test_type, COUNT(*) FROM tests GROUP BY test_type")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats.KindDistribution = make(map[string]int)
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}
		stats.KindDistribution[kind] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	recent, err := s.listTests("SELECT "+testColumns+" FROM tests ORDER BY created_at DESC LIMIT ?", recentActivityLimit)
	if err != nil {
		return nil, err
	}
	stats.RecentTests = recent

	subRows, err := s.db.Query(`
		SELECT t.name, t.test_type, ts.submitted_at
		FROM test_submissions ts
		JOIN tests t ON ts.test_id = t.id
		ORDER BY ts.submitted_at DESC
		LIMIT ?
	`, recentActivityLimit)
	if err != nil {
		return nil, err
	}
	defer subRows.Close()

	for subRows.Next() {
		var rs RecentSubmission
		var submittedAt string
		if err := subRows.Scan(&rs.TestName, &rs.TestKind, &submittedAt); err != nil {
			return nil, err
		}
		rs.SubmittedAt = parseTime(submittedAt)
		stats.RecentSubmissions = append(stats.RecentSubmissions, rs)
	}
	return &stats, subRows.Err()
}
