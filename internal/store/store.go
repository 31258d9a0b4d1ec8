package store

import (
	"errors"
	"time"

	"github.com/quizforge/backend/internal/domain/folder"
	"github.com/quizforge/backend/internal/domain/quiz"
	"github.com/quizforge/backend/internal/domain/submission"
)

var (
	ErrNotFound = errors.New("not found")
)

// FolderSummary is a folder plus the number of links it holds.
type FolderSummary struct {
	Folder    *folder.Folder
	LinkCount int
}

// SubmissionWithTest joins a submission with the test it was taken against.
// The analyzer needs the question list; list endpoints need the name.
type SubmissionWithTest struct {
	Submission *submission.Submission
	TestName   string
	TestTags   []string
	Questions  []quiz.Question
}

// Feedback is one stored AI explanation for a submitted answer.
type Feedback struct {
	ID            string
	SubmissionID  string
	QuestionIndex int
	Text          string
	CreatedAt     time.Time
}

// RecentSubmission is one row of the dashboard's recent activity feed.
type RecentSubmission struct {
	TestName    string
	TestKind    string
	SubmittedAt time.Time
}

// DashboardStats are the counts and recent activity shown on the landing page.
type DashboardStats struct {
	Folders           int
	Links             int
	Tests             int
	Submissions       int
	KindDistribution  map[string]int // test_type → count
	RecentTests       []*quiz.Test
	RecentSubmissions []RecentSubmission
}
