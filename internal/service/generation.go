// internal/service/generation.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quizforge/backend/internal/domain/link"
	"github.com/quizforge/backend/internal/domain/quiz"
	"github.com/quizforge/backend/internal/extract"
	"github.com/quizforge/backend/internal/generator"
	"github.com/quizforge/backend/internal/store"
)

// SourceInfo records where a generated test's content came from.
type SourceInfo struct {
	LinkID string `json:"link_id,omitempty"`
	Title  string `json:"title"`
	URL    string `json:"url"`
}

// GenerationService builds tests from stored links, whole folders, or raw
// URLs.
type GenerationService struct {
	store     *store.SQLiteStore
	generator *generator.Generator
	extractor *extract.Extractor
	logger    *slog.Logger
}

func NewGenerationService(s *store.SQLiteStore, g *generator.Generator, e *extract.Extractor, logger *slog.Logger) *GenerationService {
	return &GenerationService{store: s, generator: g, extractor: e, logger: logger}
}

// FromLinks generates a normal test from previously saved links.
func (gs *GenerationService) FromLinks(ctx context.Context, name string, linkIDs []string, kinds []quiz.Kind, difficulty quiz.Difficulty, numQuestions int) (*quiz.Test, []SourceInfo, error) {
	contents, err := gs.store.GetLinkContents(linkIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(contents) == 0 {
		return nil, nil, store.ErrNotFound
	}

	links := make([]*link.Link, 0, len(contents))
	for _, id := range linkIDs {
		if l, ok := contents[id]; ok {
			links = append(links, l)
		}
	}

	questions, err := gs.generator.Generate(ctx, combineContent(links), kinds, difficulty, numQuestions, false)
	if err != nil {
		return nil, nil, err
	}

	test := quiz.New(name, kinds, difficulty, questions, quiz.TestNormal)
	test.LinkIDs = linkIDs
	test.FolderID = &links[0].FolderID

	if err := gs.store.SaveTest(test); err != nil {
		return nil, nil, err
	}
	gs.store.TouchFolder(links[0].FolderID)

	gs.logger.Info("test generated from links",
		"test_id", test.ID,
		"links", len(links),
		"questions", len(questions),
	)
	return test, sources(links), nil
}

// Comprehensive generates a comprehensive test from every link in a folder.
// Questions carry detailed skill/topic tags so submissions feed the folder
// analytics.
func (gs *GenerationService) Comprehensive(ctx context.Context, folderID, name string, kinds []quiz.Kind, difficulty quiz.Difficulty, numQuestions int) (*quiz.Test, []SourceInfo, error) {
	if _, err := gs.store.GetFolder(folderID); err != nil {
		return nil, nil, err
	}

	links, err := gs.store.ListLinksByFolder(folderID)
	if err != nil {
		return nil, nil, err
	}
	if len(links) == 0 {
		return nil, nil, fmt.Errorf("folder %s has no content to generate from", folderID)
	}

	questions, err := gs.generator.Generate(ctx, combineContent(links), kinds, difficulty, numQuestions, true)
	if err != nil {
		return nil, nil, err
	}

	test := quiz.New(name, kinds, difficulty, questions, quiz.TestComprehensive)
	test.FolderID = &folderID
	for _, l := range links {
		test.LinkIDs = append(test.LinkIDs, l.ID)
	}

	if err := gs.store.SaveTest(test); err != nil {
		return nil, nil, err
	}
	gs.store.TouchFolder(folderID)

	gs.logger.Info("comprehensive test generated",
		"test_id", test.ID,
		"folder_id", folderID,
		"questions", len(questions),
	)
	return test, sources(links), nil
}

// FromURLs extracts the given URLs on the fly and generates an ad-hoc test
// that belongs to no folder. Sources that fail to extract are reported but
// do not fail the generation as long as something was extracted.
func (gs *GenerationService) FromURLs(ctx context.Context, name string, urls []string, kinds []quiz.Kind, difficulty quiz.Difficulty, numQuestions int) (*quiz.Test, []extract.Result, error) {
	results := gs.extractor.FromURLs(ctx, urls)

	var parts []string
	for _, r := range results {
		if r.Type == link.TypeError {
			continue
		}
		parts = append(parts, fmt.Sprintf("--- Source: %s ---\n%s", r.Title, r.Content))
	}
	if len(parts) == 0 {
		return nil, results, fmt.Errorf("none of the %d URLs produced extractable content", len(urls))
	}

	questions, err := gs.generator.Generate(ctx, strings.Join(parts, "\n\n"), kinds, difficulty, numQuestions, false)
	if err != nil {
		return nil, results, err
	}

	test := quiz.New(name, kinds, difficulty, questions, quiz.TestNormal)
	test.SourceURLs = urls

	if err := gs.store.SaveTest(test); err != nil {
		return nil, results, err
	}

	gs.logger.Info("test generated from URLs",
		"test_id", test.ID,
		"urls", len(urls),
		"questions", len(questions),
	)
	return test, results, nil
}

func combineContent(links []*link.Link) string {
	parts := make([]string, len(links))
	for i, l := range links {
		parts[i] = fmt.Sprintf("--- Source: %s ---\n%s", l.DisplayName(), l.Content)
	}
	return strings.Join(parts, "\n\n")
}

func sources(links []*link.Link) []SourceInfo {
	out := make([]SourceInfo, len(links))
	for i, l := range links {
		out[i] = SourceInfo{LinkID: l.ID, Title: l.DisplayName(), URL: l.URL}
	}
	return out
}
