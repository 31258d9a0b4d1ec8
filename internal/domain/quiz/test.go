package quiz

import (
	"math/rand"
	"sort"
	"time"

	"github.com/quizforge/backend/internal/id"
)

// TestKind distinguishes ad-hoc tests from comprehensive folder tests.
// Comprehensive tests are generated from all content in a folder and carry
// detailed skill/topic tags for performance analysis.
type TestKind string

const (
	TestNormal        TestKind = "normal"
	TestComprehensive TestKind = "comprehensive"
)

// Test is a named, ordered sequence of questions plus metadata.
// Never mutated after creation; scores are attached via Submission records.
type Test struct {
	ID            string
	Name          string
	LinkIDs       []string
	SourceURLs    []string
	QuestionTypes []Kind
	Difficulty    Difficulty
	Questions     []Question
	FolderID      *string // nil for ad-hoc tests generated from raw URLs
	Kind          TestKind
	EstimatedTime int // minutes
	Tags          []string
	CreatedAt     time.Time
}

// New creates a Test with a generated ID, estimated completion time and
// derived tag set.
func New(name string, questionTypes []Kind, difficulty Difficulty, questions []Question, kind TestKind) *Test {
	t := &Test{
		ID:            id.GenerateID(),
		Name:          name,
		QuestionTypes: questionTypes,
		Difficulty:    difficulty,
		Questions:     questions,
		Kind:          kind,
		EstimatedTime: EstimateTime(len(questions), difficulty, questionTypes),
		CreatedAt:     time.Now().UTC(),
	}
	t.Tags = t.deriveTags()
	return t
}

// deriveTags builds the test-level tag set. Comprehensive tests take the
// union of per-question difficulties and tags; normal tests just record the
// requested difficulty.
func (t *Test) deriveTags() []string {
	set := make(map[string]struct{})

	if t.Kind == TestComprehensive {
		for _, q := range t.Questions {
			if q.Difficulty != "" {
				set[string(q.Difficulty)] = struct{}{}
			} else {
				set[string(t.Difficulty)] = struct{}{}
			}
			for _, tag := range q.Tags {
				set[tag] = struct{}{}
			}
		}
	} else {
		set[string(t.Difficulty)] = struct{}{}
	}

	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Distribute splits a question count evenly across the requested kinds,
// handing the remainder to the kinds listed first.
func Distribute(kinds []Kind, total int) map[Kind]int {
	if len(kinds) == 0 {
		return map[Kind]int{}
	}
	base := total / len(kinds)
	remainder := total % len(kinds)

	counts := make(map[Kind]int, len(kinds))
	for i, k := range kinds {
		counts[k] = base
		if i < remainder {
			counts[k]++
		}
	}
	return counts
}

// Per-question base times in minutes, by kind.
var baseTimes = map[Kind]float64{
	KindMCQ:         1.5,
	KindTrueFalse:   1.0,
	KindShortAnswer: 3.0,
	KindLongAnswer:  5.0,
	KindFillBlanks:  2.0,
	KindMultiSelect: 2.0,
}

var difficultyMultipliers = map[Difficulty]float64{
	DifficultyEasy:   0.8,
	DifficultyMedium: 1.0,
	DifficultyHard:   1.3,
	DifficultyMixed:  1.1,
}

// EstimateTime returns the estimated completion time in minutes,
// never less than 5.
func EstimateTime(numQuestions int, difficulty Difficulty, kinds []Kind) int {
	perType := numQuestions
	if len(kinds) > 0 {
		perType = numQuestions / len(kinds)
	}

	total := 0.0
	for _, k := range kinds {
		base, ok := baseTimes[k]
		if !ok {
			base = 2.0
		}
		total += base * float64(perType)
	}

	mult, ok := difficultyMultipliers[difficulty]
	if !ok {
		mult = 1.0
	}
	total *= mult

	if total < 5 {
		return 5
	}
	return int(total)
}

// Shuffle returns a new slice with questions in random order.
func Shuffle(questions []Question) []Question {
	shuffled := make([]Question, len(questions))
	copy(shuffled, questions)

	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled
}
