package folder

import (
	"time"

	"github.com/quizforge/backend/internal/id"
)

// Folder groups source links and generated tests.
// It sits at the top of the hierarchy: Folder → Links → Tests → Submissions.
type Folder struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// New creates a Folder with a generated ID.
func New(name, description string) *Folder {
	now := time.Now().UTC()
	return &Folder{
		ID:          id.GenerateID(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
