package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Difficulty is the requested difficulty level of a quiz.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty parses a difficulty literal case-insensitively.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy, true
	case "medium":
		return DifficultyMedium, true
	case "hard":
		return DifficultyHard, true
	default:
		return "", false
	}
}

// QuestionType identifies a question category. A quiz request may also use
// QuestionTypeMixed to combine categories; individual questions never do.
type QuestionType string

const (
	QuestionTypeMCQ   QuestionType = "mcq"
	QuestionTypeFill  QuestionType = "fill"
	QuestionTypeTF    QuestionType = "tf"
	QuestionTypeMixed QuestionType = "mixed"
)

// ParseQuestionType parses a question type literal.
func ParseQuestionType(s string) (QuestionType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mcq":
		return QuestionTypeMCQ, true
	case "fill":
		return QuestionTypeFill, true
	case "tf":
		return QuestionTypeTF, true
	case "mixed":
		return QuestionTypeMixed, true
	default:
		return "", false
	}
}

// MCQOptionCount is the number of options every multiple-choice question
// must carry.
const MCQOptionCount = 4

// Question is the variant type over the three question categories. It is
// constructed by the schema validator and consumed exhaustively (by type
// switch) in the grader, so no use site branches on a loose "type" string.
type Question interface {
	// Kind returns the question category (never QuestionTypeMixed).
	Kind() QuestionType
	// Text returns the question text shown to the learner.
	Text() string
	// Level returns the difficulty string the LLM reported for the question.
	Level() string
	// CorrectAnswer returns the canonical answer as it appears on the wire:
	// a string for mcq/fill, a bool for tf.
	CorrectAnswer() interface{}
}

// MCQQuestion is a multiple-choice question with exactly four distinct
// options; Answer equals one of them.
type MCQQuestion struct {
	QuestionText string
	Difficulty   string
	Options      []string
	Answer       string
}

func (q MCQQuestion) Kind() QuestionType { return QuestionTypeMCQ }
func (q MCQQuestion) Text() string { return q.QuestionText }
func (q MCQQuestion) Level() string { return q.Difficulty }
func (q MCQQuestion) CorrectAnswer() interface{} { return q.Answer }

// FillQuestion is a fill-in-the-blank question with a short string answer.
type FillQuestion struct {
	QuestionText string
	Difficulty   string
	Answer       string
}

func (q FillQuestion) Kind() QuestionType { return QuestionTypeFill }
func (q FillQuestion) Text() string { return q.QuestionText }
func (q FillQuestion) Level() string { return q.Difficulty }
func (q FillQuestion) CorrectAnswer() interface{} { return q.Answer }

// TrueFalseQuestion is a true/false question with a boolean answer.
type TrueFalseQuestion struct {
	QuestionText string
	Difficulty   string
	Answer       bool
}

func (q TrueFalseQuestion) Kind() QuestionType { return QuestionTypeTF }
func (q TrueFalseQuestion) Text() string { return q.QuestionText }
func (q TrueFalseQuestion) Level() string { return q.Difficulty }
func (q TrueFalseQuestion) CorrectAnswer() interface{} { return q.Answer }

// Questions is an ordered question list that round-trips through the
// canonical JSON shape ({question_text, type, difficulty, answer, options}).
type Questions []Question

// questionWire is the JSON representation of a single question.
type questionWire struct {
	QuestionText string          `json:"question_text"`
	Type         QuestionType    `json:"type"`
	Difficulty   string          `json:"difficulty"`
	Answer       json.RawMessage `json:"answer"`
	Options      []string        `json:"options,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (qs Questions) MarshalJSON() ([]byte, error) {
	wires := make([]questionWire, 0, len(qs))
	for i, q := range qs {
		answer, err := json.Marshal(q.CorrectAnswer())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal answer of question %d: %w", i+1, err)
		}
		wire := questionWire{
			QuestionText: q.Text(),
			Type:         q.Kind(),
			Difficulty:   q.Level(),
			Answer:       answer,
		}
		if mcq, ok := q.(MCQQuestion); ok {
			wire.Options = mcq.Options
		}
		wires = append(wires, wire)
	}
	return json.Marshal(wires)
}

// UnmarshalJSON implements json.Unmarshaler.
func (qs *Questions) UnmarshalJSON(data []byte) error {
	var wires []questionWire
	if err := json.Unmarshal(data, &wires); err != nil {
		return err
	}
	questions := make(Questions, 0, len(wires))
	for i, wire := range wires {
		switch wire.Type {
		case QuestionTypeMCQ:
			var answer string
			if err := json.Unmarshal(wire.Answer, &answer); err != nil {
				return fmt.Errorf("question %d: mcq answer is not a string: %w", i+1, err)
			}
			questions = append(questions, MCQQuestion{
				QuestionText: wire.QuestionText,
				Difficulty:   wire.Difficulty,
				Options:      wire.Options,
				Answer:       answer,
			})
		case QuestionTypeFill:
			var answer string
			if err := json.Unmarshal(wire.Answer, &answer); err != nil {
				return fmt.Errorf("question %d: fill answer is not a string: %w", i+1, err)
			}
			questions = append(questions, FillQuestion{
				QuestionText: wire.QuestionText,
				Difficulty:   wire.Difficulty,
				Answer:       answer,
			})
		case QuestionTypeTF:
			var answer bool
			if err := json.Unmarshal(wire.Answer, &answer); err != nil {
				return fmt.Errorf("question %d: tf answer is not a boolean: %w", i+1, err)
			}
			questions = append(questions, TrueFalseQuestion{
				QuestionText: wire.QuestionText,
				Difficulty:   wire.Difficulty,
				Answer:       answer,
			})
		default:
			return fmt.Errorf("question %d: unknown question type %q", i+1, wire.Type)
		}
	}
	*qs = questions
	return nil
}

// Quiz represents one generated quiz. Immutable once created.
type Quiz struct {
	ID           string
	Topic        string
	Difficulty   Difficulty
	QuestionType QuestionType
	Explanation  string
	Questions    Questions
	CreatedAt    time.Time
}

// NewQuiz creates a new Quiz instance
func NewQuiz(topic string, difficulty Difficulty, questionType QuestionType, explanation string, questions Questions) *Quiz {
	return &Quiz{
		Topic:        topic,
		Difficulty:   difficulty,
		QuestionType: questionType,
		Explanation:  explanation,
		Questions:    questions,
		CreatedAt:    time.Now(),
	}
}

// Validate validates the quiz
func (q *Quiz) Validate() error {
	if q.Topic == "" {
		return NewInvalidInputError("topic is required")
	}
	if len(q.Questions) == 0 {
		return NewInvalidInputError("quiz must contain at least one question")
	}
	return nil
}

// MaxQuestions caps the total question count of a single quiz request.
const MaxQuestions = 20

// GenerationRequest carries the validated parameters of one quiz-generation
// call. For mixed requests NumPerType holds per-category counts; otherwise
// NumQuestions holds the single count.
type GenerationRequest struct {
	Topic        string
	Difficulty   Difficulty
	QuestionType QuestionType
	NumQuestions int
	NumPerType   map[QuestionType]int
}

// TotalQuestions returns the total number of questions requested.
func (r GenerationRequest) TotalQuestions() int {
	if r.QuestionType == QuestionTypeMixed {
		total := 0
		for _, n := range r.NumPerType {
			total += n
		}
		return total
	}
	return r.NumQuestions
}

// RequestedCount returns how many questions of the given category the
// request asks for.
func (r GenerationRequest) RequestedCount(t QuestionType) int {
	if r.QuestionType == QuestionTypeMixed {
		return r.NumPerType[t]
	}
	if r.QuestionType == t {
		return r.NumQuestions
	}
	return 0
}

// Validate checks the request per the generation contract: a non-empty
// topic, known difficulty and type literals, and a total question count
// between 1 and MaxQuestions (per-category counts must be non-negative).
func (r GenerationRequest) Validate() error {
	var errs ValidationErrors

	if strings.TrimSpace(r.Topic) == "" {
		errs = append(errs, NewMissingFieldError("topic"))
	}
	switch r.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		errs = append(errs, NewInvalidFormatError("difficulty", string(r.Difficulty)))
	}

	switch r.QuestionType {
	case QuestionTypeMCQ, QuestionTypeFill, QuestionTypeTF:
		if r.NumQuestions < 1 || r.NumQuestions > MaxQuestions {
			errs = append(errs, NewOutOfRangeError("num_questions", r.NumQuestions, 1, MaxQuestions))
		}
	case QuestionTypeMixed:
		total := 0
		for _, t := range []QuestionType{QuestionTypeMCQ, QuestionTypeFill, QuestionTypeTF} {
			n := r.NumPerType[t]
			if n < 0 {
				errs = append(errs, NewOutOfRangeError("num_"+string(t), n, 0, MaxQuestions))
			}
			total += n
		}
		if total < 1 || total > MaxQuestions {
			errs = append(errs, NewOutOfRangeError("total_questions", total, 1, MaxQuestions))
		}
	default:
		errs = append(errs, NewInvalidFormatError("question_type", string(r.QuestionType)))
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
