package store

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/quizforge/backend/internal/domain/folder"
	"github.com/quizforge/backend/internal/domain/link"
)

const schema = `
CREATE TABLE IF NOT EXISTS folders (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS links (
    id TEXT PRIMARY KEY,
    folder_id TEXT NOT NULL,
    url TEXT NOT NULL,
    title TEXT NOT NULL,
    custom_name TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL,
    preview TEXT NOT NULL,
    link_type TEXT NOT NULL,
    created_at TEXT NOT NULL,
    last_accessed TEXT NOT NULL,
    FOREIGN KEY (folder_id) REFERENCES folders(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS tests (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    link_ids TEXT NOT NULL,
    source_urls TEXT NOT NULL,
    question_types TEXT NOT NULL,
    difficulty TEXT NOT NULL,
    questions TEXT NOT NULL,
    folder_id TEXT,
    test_type TEXT NOT NULL,
    estimated_time INTEGER NOT NULL,
    tags TEXT NOT NULL,
    created_at TEXT NOT NULL,
    FOREIGN KEY (folder_id) REFERENCES folders(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS test_submissions (
    id TEXT PRIMARY KEY,
    test_id TEXT NOT NULL,
    user_answers TEXT NOT NULL,
    user_scores TEXT NOT NULL,
    performance_metrics TEXT,
    submitted_at TEXT NOT NULL,
    FOREIGN KEY (test_id) REFERENCES tests(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS ai_feedback (
    id TEXT PRIMARY KEY,
    submission_id TEXT NOT NULL,
    question_index INTEGER NOT NULL,
    feedback_text TEXT NOT NULL,
    created_at TEXT NOT NULL,
    FOREIGN KEY (submission_id) REFERENCES test_submissions(id) ON DELETE CASCADE
);
`

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Timestamps are stored as RFC 3339 strings so the rows stay readable
// in the sqlite shell.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ============================================================================
// Folders
// ============================================================================

func (s *SQLiteStore) SaveFolder(f *folder.Folder) error {
	_, err := s.db.Exec(
		"INSERT INTO folders (id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		f.ID, f.Name, f.Description, formatTime(f.CreatedAt), formatTime(f.UpdatedAt),
	)
	return err
}

func (s *SQLiteStore) GetFolder(id string) (*folder.Folder, error) {
	var f folder.Folder
	var createdAt, updatedAt string

	err := s.db.QueryRow(
		"SELECT id, name, description, created_at, updated_at FROM folders WHERE id = ?", id,
	).Scan(&f.ID, &f.Name, &f.Description, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	f.CreatedAt = parseTime(createdAt)
	f.UpdatedAt = parseTime(updatedAt)
	return &f, nil
}

func (s *SQLiteStore) ListFolders() ([]FolderSummary, error) {
	rows, err := s.db.Query(`
		SELECT f.id, f.name, f.description, f.created_at, f.updated_at, COUNT(l.id)
		FROM folders f
		LEFT JOIN links l ON l.folder_id = f.id
		GROUP BY f.id
		ORDER BY f.updated_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []FolderSummary
	for rows.Next() {
		var f folder.Folder
		var createdAt, updatedAt string
		var linkCount int
		if err := rows.Scan(&f.ID, &f.Name, &f.Description, &createdAt, &updatedAt, &linkCount); err != nil {
			return nil, err
		}
		f.CreatedAt = parseTime(createdAt)
		f.UpdatedAt = parseTime(updatedAt)
		folders = append(folders, FolderSummary{Folder: &f, LinkCount: linkCount})
	}
	return folders, rows.Err()
}

func (s *SQLiteStore) UpdateFolder(f *folder.Folder) error {
	result, err := s.db.Exec(
		"UPDATE folders SET name = ?, description = ?, updated_at = ? WHERE id = ?",
		f.Name, f.Description, formatTime(time.Now()), f.ID,
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

// TouchFolder bumps the folder's updated_at so recently used folders sort
// first.
func (s *SQLiteStore) TouchFolder(id string) error {
	_, err := s.db.Exec("UPDATE folders SET updated_at = ? WHERE id = ?", formatTime(time.Now()), id)
	return err
}

func (s *SQLiteStore) DeleteFolder(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Links die with the folder; tests survive as ad-hoc tests.
	if _, err := tx.Exec("DELETE FROM links WHERE folder_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("UPDATE tests SET folder_id = NULL WHERE folder_id = ?", id); err != nil {
		return err
	}

	result, err := tx.Exec("DELETE FROM folders WHERE id = ?", id)
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

	return tx.Commit()
}

// ============================================================================
// Links
// ============================================================================

const linkColumns = "id, folder_id, url, title, custom_name, content, preview, link_type, created_at, last_accessed"

func (s *SQLiteStore) SaveLink(l *link.Link) error {
	_, err := s.db.Exec(
		"INSERT INTO links ("+linkColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		l.ID, l.FolderID, l.URL, l.Title, l.CustomName, l.Content, l.Preview, string(l.Type),
		formatTime(l.CreatedAt), formatTime(l.LastAccessed),
	)
	return err
}

func scanLink(row interface{ Scan(...any) error }) (*link.Link, error) {
	var l link.Link
	var linkType, createdAt, lastAccessed string

	err := row.Scan(&l.ID, &l.FolderID, &l.URL, &l.Title, &l.CustomName, &l.Content, &l.Preview,
		&linkType, &createdAt, &lastAccessed)
	if err != nil {
		return nil, err
	}

	l.Type = link.Type(linkType)
	l.CreatedAt = parseTime(createdAt)
	l.LastAccessed = parseTime(lastAccessed)
	return &l, nil
}

func (s *SQLiteStore) GetLink(id string) (*link.Link, error) {
	l, err := scanLink(s.db.QueryRow("SELECT "+linkColumns+" FROM links WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return l, err
}

func (s *SQLiteStore) ListLinksByFolder(folderID string) ([]*link.Link, error) {
	rows, err := s.db.Query("SELECT "+linkColumns+" FROM links WHERE folder_id = ? ORDER BY created_at", folderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*link.Link
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// GetLinkContents loads the given links and marks them accessed.
func (s *SQLiteStore) GetLinkContents(ids []string) (map[string]*link.Link, error) {
	contents := make(map[string]*link.Link, len(ids))
	now := formatTime(time.Now())

	for _, id := range ids {
		l, err := s.GetLink(id)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		if _, err := s.db.Exec("UPDATE links SET last_accessed = ? WHERE id = ?", now, id); err != nil {
			return nil, err
		}
		contents[id] = l
	}
	return contents, nil
}

func (s *SQLiteStore) RenameLink(id, customName string) error {
	result, err := s.db.Exec("UPDATE links SET custom_name = ? WHERE id = ?", customName, id)
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

func (s *SQLiteStore) DeleteLink(id string) error {
	result, err := s.db.Exec("DELETE FROM links WHERE id = ?", id)
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

// DeleteLinks removes the given links and reports how many actually existed.
func (s *SQLiteStore) DeleteLinks(ids []string) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	deleted := 0
	for _, id := range ids {
		result, err := tx.Exec("DELETE FROM links WHERE id = ?", id)
		if err != nil {
			return 0, err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		deleted += int(n)
	}

	return deleted, tx.Commit()
}
