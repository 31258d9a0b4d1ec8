package store

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/quizforge/backend/internal/domain/quiz"
)

const testColumns = "id, name, link_ids, source_urls, question_types, difficulty, questions, folder_id, test_type, estimated_time, tags, created_at"

func (s *SQLiteStore) SaveTest(t *quiz.Test) error {
	linkIDs, _ := json.Marshal(t.LinkIDs)
	sourceURLs, _ := json.Marshal(t.SourceURLs)
	questionTypes, _ := json.Marshal(t.QuestionTypes)
	questions, _ := json.Marshal(t.Questions)
	tags, _ := json.Marshal(t.Tags)

	var folderID any
	if t.FolderID != nil {
		folderID = *t.FolderID
	}

	_, err := s.db.Exec(
		"INSERT INTO tests ("+testColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		t.ID, t.Name, string(linkIDs), string(sourceURLs), string(questionTypes), string(t.Difficulty),
		string(questions), folderID, string(t.Kind), t.EstimatedTime, string(tags), formatTime(t.CreatedAt),
	)
	return err
}

func scanTest(row interface{ Scan(...any) error }) (*quiz.Test, error) {
	var t quiz.Test
	var linkIDs, sourceURLs, questionTypes, difficulty, questions, testType, tags, createdAt string
	var folderID sql.NullString

	err := row.Scan(&t.ID, &t.Name, &linkIDs, &sourceURLs, &questionTypes, &difficulty, &questions,
		&folderID, &testType, &t.EstimatedTime, &tags, &createdAt)
	if err != nil {
		return nil, err
	}

	json.Unmarshal([]byte(linkIDs), &t.LinkIDs)
	json.Unmarshal([]byte(sourceURLs), &t.SourceURLs)
	json.Unmarshal([]byte(questionTypes), &t.QuestionTypes)
	json.Unmarshal([]byte(questions), &t.Questions)
	json.Unmarshal([]byte(tags), &t.Tags)

	t.Difficulty = quiz.Difficulty(difficulty)
	t.Kind = quiz.TestKind(testType)
	t.CreatedAt = parseTime(createdAt)
	if folderID.Valid {
		t.FolderID = &folderID.String
	}
	return &t, nil
}

func (s *SQLiteStore) GetTest(id string) (*quiz.Test, error) {
	t, err := scanTest(s.db.QueryRow("SELECT "+testColumns+" FROM tests WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return t, err
}

func (s *SQLiteStore) listTests(query string, args ...any) ([]*quiz.Test, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []*quiz.Test
	for rows.Next() {
		t, err := scanTest(rows)
		if err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

func (s *SQLiteStore) ListTests() ([]*quiz.Test, error) {
	return s.listTests("SELECT " + testColumns + " FROM tests ORDER BY created_at DESC")
}

func (s *SQLiteStore) ListTestsByFolder(folderID string) ([]*quiz.Test, error) {
	return s.listTests("SELECT "+testColumns+" FROM tests WHERE folder_id = ? ORDER BY created_at DESC", folderID)
}

// TestFilter narrows a test search. Zero-valued fields are ignored, so the
// zero filter returns every test.
type TestFilter struct {
	Query      string // matched case-insensitively against names and tags
	Difficulty string
	FolderID   string
	Kind       string
}

func (s *SQLiteStore) SearchTests(f TestFilter) ([]*quiz.Test, error) {
	var conds []string
	var args []any

	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		conds = append(conds, "(lower(name) LIKE ? OR lower(tags) LIKE ?)")
		args = append(args, pattern, pattern)
	}
	if f.Difficulty != "" {
		conds = append(conds, "difficulty = ?")
		args = append(args, f.Difficulty)
	}
	if f.FolderID != "" {
		conds = append(conds, "folder_id = ?")
		args = append(args, f.FolderID)
	}
	if f.Kind != "" {
		conds = append(conds, "test_type = ?")
		args = append(args, f.Kind)
	}

	query := "SELECT " + testColumns + " FROM tests"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	return s.listTests(query, args...)
}

func (s *SQLiteStore) DeleteTest(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteTestTx(tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteTests removes the given tests and reports how many actually existed.
func (s *SQLiteStore) DeleteTests(ids []string) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	deleted := 0
	for _, id := range ids {
		err := deleteTestTx(tx, id)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return 0, err
		}
		deleted++
	}

	return deleted, tx.Commit()
}

func deleteTestTx(tx *sql.Tx, id string) error {
	// Feedback hangs off submissions, so it goes first.
	_, err := tx.Exec(`
		DELETE FROM ai_feedback
		WHERE submission_id IN (SELECT id FROM test_submissions WHERE test_id = ?)
	`, id)
	if err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM test_submissions WHERE test_id = ?", id); err != nil {
		return err
	}

	result, err := tx.Exec("DELETE FROM tests WHERE id = ?", id)
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
