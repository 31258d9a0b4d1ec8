// Package generator turns extracted study content into quiz questions
// via an LLM.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quizforge/backend/internal/domain/quiz"
	"github.com/quizforge/backend/internal/llm"
)

// ErrBadGeneration is returned when the model's output could not be turned
// into valid questions after all retries.
var ErrBadGeneration = errors.New("generator: model produced no usable questions")

const (
	systemInstruction = "You are an expert quiz generator. Generate diverse, engaging questions with relevant tags for categorization. Always respond with valid JSON only."
	temperature       = 0.7
	maxRetries        = 2
)

// Generator produces quiz questions from source content.
type Generator struct {
	client llm.Client
	logger *slog.Logger
}

func New(client llm.Client, logger *slog.Logger) *Generator {
	return &Generator{client: client, logger: logger}
}

// Generate produces questions of the requested kinds from the given content.
// The total is split evenly across kinds; each kind is generated with its own
// prompt so small models stay on format. Kinds whose batch fails entirely are
// skipped rather than failing the whole call, but a call that yields zero
// questions returns ErrBadGeneration.
func (g *Generator) Generate(ctx context.Context, content string, kinds []quiz.Kind, difficulty quiz.Difficulty, total int, detailedTags bool) ([]quiz.Question, error) {
	perKind := quiz.Distribute(kinds, total)

	var questions []quiz.Question
	for _, kind := range kinds {
		count := perKind[kind]
		if count == 0 {
			continue
		}

		batch, err := g.generateKind(ctx, content, kind, difficulty, count, detailedTags)
		if err != nil {
			g.logger.Warn("question batch failed", "kind", kind, "error", err)
			continue
		}
		questions = append(questions, batch...)
	}

	if len(questions) == 0 {
		return nil, ErrBadGeneration
	}

	return quiz.Shuffle(questions), nil
}

// generateKind asks the model for one batch of a single question kind,
// retrying on unparseable output.
func (g *Generator) generateKind(ctx context.Context, content string, kind quiz.Kind, difficulty quiz.Difficulty, count int, detailedTags bool) ([]quiz.Question, error) {
	prompt := buildPrompt(content, kind, difficulty, count, detailedTags)

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		raw, err := g.client.Complete(ctx, llm.Request{
			System:      systemInstruction,
			Prompt:      prompt,
			Temperature: temperature,
		})
		if err != nil {
			lastErr = err
			continue
		}

		jsonStr := llm.ExtractArray(raw)
		if jsonStr == "" {
			lastErr = fmt.Errorf("%w: no JSON array in response", ErrBadGeneration)
			continue
		}

		var batch []quiz.Question
		if err := json.Unmarshal([]byte(jsonStr), &batch); err != nil {
			lastErr = fmt.Errorf("%w: invalid JSON: %v", ErrBadGeneration, err)
			continue
		}

		valid := batch[:0]
		for _, q := range batch {
			q.Kind = kind
			if q.Difficulty == "" {
				q.Difficulty = difficulty
			}
			if err := q.Validate(); err != nil {
				g.logger.Warn("dropping malformed question", "kind", kind, "error", err)
				continue
			}
			valid = append(valid, q)
		}

		if len(valid) == 0 {
			lastErr = fmt.Errorf("%w: all questions in batch were malformed", ErrBadGeneration)
			continue
		}
		return valid, nil
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}

// ============================================================================
// Prompt construction
// ============================================================================

var difficultyInstructions = map[quiz.Difficulty]string{
	quiz.DifficultyEasy:   "Generate easy questions that test basic understanding and recall.",
	quiz.DifficultyMedium: "Generate medium difficulty questions requiring analysis and application.",
	quiz.DifficultyHard:   "Generate challenging questions requiring deep analysis, synthesis, and critical thinking.",
	quiz.DifficultyMixed:  "Generate questions of varying difficulty levels (easy, medium, and hard).",
}

const detailedTagInstruction = `Include detailed tags for each question covering:
- Subject/Topic (e.g., "mathematics", "history", "science")
- Skill type (e.g., "analytical", "memorization", "problem-solving", "critical-thinking")
- Specific concept (e.g., "calculus", "world-war-2", "photosynthesis")
- Difficulty level
Make tags specific and useful for performance analysis.`

type promptFormat struct {
	task      string // per-kind generation instruction, without count/difficulty
	structure string // example JSON array element
}

func formats(difficulty quiz.Difficulty) map[quiz.Kind]promptFormat {
	d := string(difficulty)
	return map[quiz.Kind]promptFormat{
		quiz.KindMCQ: {
			task:      "multiple choice questions (MCQ). %s Each question should have 4 options (A, B, C, D) with only one correct answer.",
			structure: `[{"question": "...", "type": "mcq", "difficulty": "` + d + `", "options": {"A": "...", "B": "...", "C": "...", "D": "..."}, "correct_answer": "A", "explanation": "...", "tags": ["topic1", "skill1", "concept1"]}]`,
		},
		quiz.KindTrueFalse: {
			task:      "true/false questions. %s",
			structure: `[{"question": "...", "type": "true_false", "difficulty": "` + d + `", "correct_answer": true, "explanation": "...", "tags": ["topic1", "skill1"]}]`,
		},
		quiz.KindShortAnswer: {
			task:      "short answer questions. %s These should be answerable in 1-3 sentences.",
			structure: `[{"question": "...", "type": "short_answer", "difficulty": "` + d + `", "sample_answer": "...", "key_points": ["...", "..."], "tags": ["topic1", "skill1"]}]`,
		},
		quiz.KindLongAnswer: {
			task:      "long answer questions. %s These should require detailed explanations.",
			structure: `[{"question": "...", "type": "long_answer", "difficulty": "` + d + `", "sample_answer": "...", "key_points": ["...", "..."], "tags": ["topic1", "skill1"]}]`,
		},
		quiz.KindFillBlanks: {
			task:      "fill in the blanks questions. %s Use underscores for blanks.",
			structure: `[{"question": "The capital is ___.", "type": "fill_blanks", "difficulty": "` + d + `", "correct_answer": "Paris", "explanation": "...", "tags": ["topic1", "skill1"]}]`,
		},
		quiz.KindMultiSelect: {
			task:      "multiple selection questions. %s Questions where multiple answers can be correct.",
			structure: `[{"question": "...", "type": "multi_select", "difficulty": "` + d + `", "options": {"A": "...", "B": "...", "C": "...", "D": "..."}, "correct_answers": ["A", "C"], "explanation": "...", "tags": ["topic1", "skill1"]}]`,
		},
	}
}

func buildPrompt(content string, kind quiz.Kind, difficulty quiz.Difficulty, count int, detailedTags bool) string {
	kindFormats := formats(difficulty)
	format, ok := kindFormats[kind]
	if !ok {
		format = kindFormats[quiz.KindMCQ]
	}

	tagInstruction := "Include only difficulty level as tag."
	if detailedTags {
		tagInstruction = detailedTagInstruction
	}

	task := fmt.Sprintf(format.task, difficultyInstructions[difficulty])

	var b strings.Builder
	fmt.Fprintf(&b, "Based on the following content, generate %d %s %s\n\n", count, task, tagInstruction)
	fmt.Fprintf(&b, "Content:\n%s\n\n", content)
	fmt.Fprintf(&b, "Please format your response as a valid JSON array with the following structure:\n%s", format.structure)
	return b.String()
}
