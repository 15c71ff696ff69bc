package quizgen

import (
	"encoding/json"
	"fmt"
	"strings"

	"quizify/internal/domain"
	"quizify/internal/logger"

	"go.uber.org/zap"
)

// questionPayload mirrors a single question object in the model output.
// Answer stays raw because its JSON type depends on the question type.
type questionPayload struct {
	QuestionText string          `json:"question_text"`
	Type         string          `json:"type"`
	Difficulty   string          `json:"difficulty"`
	Options      []string        `json:"options"`
	Answer       json.RawMessage `json:"answer"`
}

var requiredQuestionKeys = []string{"question_text", "type", "difficulty", "answer"}

// ValidateContent checks an extracted JSON object against the structural
// contract and binds it into domain questions. Structural violations are
// fatal. Count mismatches between what was requested and what the model
// returned are only logged, the returned questions are kept as-is.
func ValidateContent(req *domain.GenerationRequest, obj map[string]json.RawMessage) (string, domain.Questions, error) {
	appLogger := logger.Get()

	rawExplanation, ok := obj["explanation"]
	if !ok {
		return "", nil, domain.NewSchemaError("generated JSON is missing 'explanation' key", 0)
	}
	var explanation string
	if err := json.Unmarshal(rawExplanation, &explanation); err != nil {
		return "", nil, domain.NewSchemaError("'explanation' is not a string", 0)
	}

	rawQuestions, ok := obj["questions"]
	if !ok {
		return "", nil, domain.NewSchemaError("generated JSON is missing 'questions' key", 0)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(rawQuestions, &items); err != nil {
		return "", nil, domain.NewSchemaError("'questions' is not an array", 0)
	}

	questions := make(domain.Questions, 0, len(items))
	typeCounts := make(map[domain.QuestionType]int)

	for i, item := range items {
		q, err := bindQuestion(i+1, item, req)
		if err != nil {
			return "", nil, err
		}
		questions = append(questions, q)
		typeCounts[q.Kind()]++
	}

	if req.QuestionType == domain.QuestionTypeMixed {
		for _, t := range []domain.QuestionType{domain.QuestionTypeMCQ, domain.QuestionTypeFill, domain.QuestionTypeTF} {
			if want := req.NumPerType[t]; typeCounts[t] != want {
				appLogger.Warn("model returned a different per-type question count than requested",
					zap.String("question_type", string(t)),
					zap.Int("requested", want),
					zap.Int("returned", typeCounts[t]))
			}
		}
	}
	if want := req.TotalQuestions(); len(questions) != want {
		appLogger.Warn("model returned a different total question count than requested",
			zap.Int("requested", want),
			zap.Int("returned", len(questions)))
	}

	return explanation, questions, nil
}

// bindQuestion validates one raw question object and converts it into the
// matching domain variant. index is 1-based and only used for error context.
func bindQuestion(index int, item json.RawMessage, req *domain.GenerationRequest) (domain.Question, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(item, &keys); err != nil {
		return nil, domain.NewSchemaError("question is not a JSON object", index)
	}
	for _, k := range requiredQuestionKeys {
		if _, ok := keys[k]; !ok {
			return nil, domain.NewSchemaError(fmt.Sprintf("question is missing required key %q", k), index)
		}
	}

	var payload questionPayload
	if err := json.Unmarshal(item, &payload); err != nil {
		return nil, domain.NewSchemaError("question has malformed fields", index)
	}

	qType, ok := domain.ParseQuestionType(payload.Type)
	if !ok || qType == domain.QuestionTypeMixed {
		return nil, domain.NewSchemaError(fmt.Sprintf("question has unknown type %q", payload.Type), index)
	}
	if req.QuestionType != domain.QuestionTypeMixed && qType != req.QuestionType {
		return nil, domain.NewSchemaError(
			fmt.Sprintf("question has type %q but %q was requested", qType, req.QuestionType), index)
	}

	switch qType {
	case domain.QuestionTypeMCQ:
		var answer string
		if err := json.Unmarshal(payload.Answer, &answer); err != nil {
			return nil, domain.NewSchemaError("mcq question has a non-string answer", index)
		}
		if len(payload.Options) != domain.MCQOptionCount {
			return nil, domain.NewSchemaError(
				fmt.Sprintf("mcq question must have exactly %d options, got %d", domain.MCQOptionCount, len(payload.Options)), index)
		}
		if hasDuplicateString(payload.Options) {
			return nil, domain.NewSchemaError("mcq question has duplicate options", index)
		}
		if !containsString(payload.Options, answer) {
			return nil, domain.NewSchemaError("mcq answer does not match any option", index)
		}
		return domain.MCQQuestion{
			QuestionText: payload.QuestionText,
			Difficulty:   payload.Difficulty,
			Options:      payload.Options,
			Answer:       answer,
		}, nil

	case domain.QuestionTypeFill:
		var answer string
		if err := json.Unmarshal(payload.Answer, &answer); err != nil {
			return nil, domain.NewSchemaError("fill question has a non-string answer", index)
		}
		return domain.FillQuestion{
			QuestionText: payload.QuestionText,
			Difficulty:   payload.Difficulty,
			Answer:       answer,
		}, nil

	case domain.QuestionTypeTF:
		answer, err := parseBoolAnswer(payload.Answer)
		if err != nil {
			return nil, domain.NewSchemaError("true/false question has a non-boolean answer", index)
		}
		return domain.TrueFalseQuestion{
			QuestionText: payload.QuestionText,
			Difficulty:   payload.Difficulty,
			Answer:       answer,
		}, nil
	}

	return nil, domain.NewSchemaError(fmt.Sprintf("question has unsupported type %q", qType), index)
}

// parseBoolAnswer accepts a JSON boolean, or the strings "true"/"false"
// in any casing as a concession to models that quote booleans.
func parseBoolAnswer(raw json.RawMessage) (bool, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.ToLower(s) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, fmt.Errorf("not a boolean: %s", string(raw))
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func hasDuplicateString(values []string) bool {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			return true
		}
		seen[v] = struct{}{}
	}
	return false
}
