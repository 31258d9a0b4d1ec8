package folder_test

import (
	"testing"

	"github.com/quizforge/backend/internal/domain/folder"
)

func TestNewFolder(t *testing.T) {
	f := folder.New("Physics", "Mechanics material")

	if f.Name != "Physics" {
		t.Errorf("expected name %q, got %q", "Physics", f.Name)
	}

	if f.Description != "Mechanics material" {
		t.Errorf("expected description %q, got %q", "Mechanics material", f.Description)
	}

	if f.ID == "" {
		t.Error("expected non-empty ID")
	}

	if f.CreatedAt.IsZero() || f.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestNewFolder_UniqueIDs(t *testing.T) {
	f1 := folder.New("A", "")
	f2 := folder.New("B", "")

	if f1.ID == f2.ID {
		t.Error("expected different IDs for different folders")
	}
}
