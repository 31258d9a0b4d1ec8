package quiz

import "fmt"

// Kind is the question format the generator was asked to produce.
type Kind string

const (
	KindMCQ         Kind = "mcq"
	KindTrueFalse   Kind = "true_false"
	KindShortAnswer Kind = "short_answer"
	KindLongAnswer  Kind = "long_answer"
	KindFillBlanks  Kind = "fill_blanks"
	KindMultiSelect Kind = "multi_select"
)

// Kinds lists every supported question kind.
var Kinds = []Kind{KindMCQ, KindTrueFalse, KindShortAnswer, KindLongAnswer, KindFillBlanks, KindMultiSelect}

func (k Kind) Valid() bool {
	switch k {
	case KindMCQ, KindTrueFalse, KindShortAnswer, KindLongAnswer, KindFillBlanks, KindMultiSelect:
		return true
	}
	return false
}

// Difficulty of a question or a whole test. "mixed" is only valid at the
// test level; generated questions carry a concrete difficulty.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyMixed  Difficulty = "mixed"
)

// Question is one generated quiz item. Immutable once generated; embedded
// verbatim inside a Test. The JSON shape doubles as the schema the LLM is
// prompted to produce.
type Question struct {
	Text       string     `json:"question"`
	Kind       Kind       `json:"type"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Tags       []string   `json:"tags,omitempty"`

	// Kind-specific fields.
	Options        map[string]string `json:"options,omitempty"`         // mcq, multi_select
	CorrectAnswer  any               `json:"correct_answer,omitempty"`  // mcq, true_false, fill_blanks
	CorrectAnswers []string          `json:"correct_answers,omitempty"` // multi_select
	SampleAnswer   string            `json:"sample_answer,omitempty"`   // short_answer, long_answer
	KeyPoints      []string          `json:"key_points,omitempty"`      // short_answer, long_answer
	Explanation    string            `json:"explanation,omitempty"`
}

// Validate checks that a question carries the fields its kind requires.
// Generated output failing this is rejected rather than stored.
func (q *Question) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("question text is empty")
	}
	if !q.Kind.Valid() {
		return fmt.Errorf("unknown question kind %q", q.Kind)
	}

	switch q.Kind {
	case KindMCQ:
		if len(q.Options) < 2 {
			return fmt.Errorf("mcq question needs at least 2 options, got %d", len(q.Options))
		}
		if q.CorrectAnswer == nil {
			return fmt.Errorf("mcq question has no correct answer")
		}
	case KindTrueFalse:
		if q.CorrectAnswer == nil {
			return fmt.Errorf("true/false question has no correct answer")
		}
	case KindShortAnswer, KindLongAnswer:
		if q.SampleAnswer == "" {
			return fmt.Errorf("%s question has no sample answer", q.Kind)
		}
	case KindFillBlanks:
		if q.CorrectAnswer == nil {
			return fmt.Errorf("fill-blanks question has no correct answer")
		}
	case KindMultiSelect:
		if len(q.Options) < 2 {
			return fmt.Errorf("multi-select question needs at least 2 options, got %d", len(q.Options))
		}
		if len(q.CorrectAnswers) == 0 {
			return fmt.Errorf("multi-select question has no correct answers")
		}
	}
	return nil
}
