package link

import (
	"time"

	"github.com/quizforge/backend/internal/id"
)

// Type tells how the content of a link was obtained.
type Type string

const (
	TypeURL     Type = "url"
	TypeYouTube Type = "youtube"
	TypePDF     Type = "pdf"
	TypeError   Type = "error" // extraction failed; kept so the caller can report it
)

const previewLength = 300

// Link is extracted content from one source, owned by a Folder.
type Link struct {
	ID           string
	FolderID     string
	URL          string
	Title        string
	CustomName   string
	Content      string
	Preview      string
	Type         Type
	CreatedAt    time.Time
	LastAccessed time.Time
}

// New creates a Link with a generated ID and a content preview.
func New(folderID, url, title, content string, linkType Type) *Link {
	now := time.Now().UTC()
	return &Link{
		ID:           id.GenerateID(),
		FolderID:     folderID,
		URL:          url,
		Title:        title,
		Content:      content,
		Preview:      Preview(content),
		Type:         linkType,
		CreatedAt:    now,
		LastAccessed: now,
	}
}

// DisplayName is the custom name when set, otherwise the extracted title.
func (l *Link) DisplayName() string {
	if l.CustomName != "" {
		return l.CustomName
	}
	return l.Title
}

// Preview truncates content to the first 300 runes with an ellipsis.
func Preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + "..."
}
