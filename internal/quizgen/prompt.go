package quizgen

import (
	"fmt"
	"strings"

	"quizify/internal/domain"
)

// mixedPromptOrder fixes the order in which per-type clauses appear for
// mixed requests so the prompt is deterministic.
var mixedPromptOrder = []domain.QuestionType{
	domain.QuestionTypeMCQ,
	domain.QuestionTypeFill,
	domain.QuestionTypeTF,
}

// BuildPrompt renders the generation prompt for a validated request.
// The prompt demands a single JSON object with an "explanation" string and
// a "questions" array, and embeds per-type structural requirements plus
// worked examples so the model has an exact shape to imitate.
func BuildPrompt(req *domain.GenerationRequest) string {
	var b strings.Builder

	total := req.TotalQuestions()

	fmt.Fprintf(&b, "Generate educational content about the topic %q suitable for a %q difficulty level.\n", req.Topic, req.Difficulty)
	b.WriteString("Include the following in your response, formatted STRICTLY as a single JSON object:\n\n")
	fmt.Fprintf(&b, "1. A key \"explanation\" containing a concise explanation of the topic (%s level), appropriate for someone learning this topic.\n", req.Difficulty)

	if req.QuestionType == domain.QuestionTypeMixed {
		fmt.Fprintf(&b, "2. A key \"questions\" containing a JSON array of exactly %d questions in total about the topic. The questions array MUST be structured to include:\n", total)

		var examples []string
		for _, t := range mixedPromptOrder {
			count := req.RequestedCount(t)
			if count == 0 {
				continue
			}
			switch t {
			case domain.QuestionTypeMCQ:
				fmt.Fprintf(&b, "  * Exactly %d questions of type \"mcq\". Each \"mcq\" question object MUST have: an \"options\" key with an array of exactly %d distinct strings, and an \"answer\" key with the correct option string (must exactly match one of the options).\n", count, domain.MCQOptionCount)
				examples = append(examples, `{ "question_text": "Example MCQ: What is 2+2?", "type": "mcq", "difficulty": "Easy", "options": ["3", "4", "5", "6"], "answer": "4" }`)
			case domain.QuestionTypeFill:
				fmt.Fprintf(&b, "  * Exactly %d questions of type \"fill\". Each \"fill\" question object MUST have: an \"answer\" key with the single word or short phrase (string) that correctly fills the blank.\n", count)
				examples = append(examples, `{ "question_text": "Example Fill: The capital of France is ____.", "type": "fill", "difficulty": "Easy", "answer": "Paris" }`)
			case domain.QuestionTypeTF:
				fmt.Fprintf(&b, "  * Exactly %d questions of type \"tf\". Each \"tf\" question object MUST have: an \"answer\" key with a boolean value (true or false).\n", count)
				examples = append(examples, `{ "question_text": "Example T/F: The sky is green.", "type": "tf", "difficulty": "Easy", "answer": false }`)
			}
		}

		b.WriteString("\nEach question object in the array, regardless of its type, MUST also have:\n")
		b.WriteString("  * A \"question_text\" key with the question itself (string).\n")
		b.WriteString("  * A \"type\" key indicating its type (e.g., \"mcq\", \"fill\", \"tf\").\n")
		fmt.Fprintf(&b, "  * A \"difficulty\" key with the value %q (string).\n", req.Difficulty)

		if len(examples) > 0 {
			b.WriteString("\nExample structure for the \"questions\" array:\n")
			b.WriteString("\"questions\": [\n  ")
			b.WriteString(strings.Join(examples, ",\n  "))
			b.WriteString("\n]\n")
		}
	} else {
		fmt.Fprintf(&b, "2. A key \"questions\" containing a JSON array of exactly %d questions about the topic. Each question object in the array MUST have:\n", total)
		b.WriteString("  * A \"question_text\" key with the question itself (string).\n")
		fmt.Fprintf(&b, "  * A \"type\" key with the value %q (string).\n", req.QuestionType)
		fmt.Fprintf(&b, "  * A \"difficulty\" key with the value %q (string).\n", req.Difficulty)

		switch req.QuestionType {
		case domain.QuestionTypeMCQ:
			fmt.Fprintf(&b, "  * For \"mcq\" type: an \"options\" key with an array of exactly %d distinct strings (potential answers), and an \"answer\" key with the correct option string (must exactly match one of the options).\n", domain.MCQOptionCount)
			b.WriteString("Example for MCQ:\n")
			b.WriteString(`{ "question_text": "What is the powerhouse of the cell?", "type": "mcq", "difficulty": "Easy", "options": ["Nucleus", "Ribosome", "Mitochondrion", "Chloroplast"], "answer": "Mitochondrion" }`)
			b.WriteString("\n")
		case domain.QuestionTypeFill:
			b.WriteString("  * For \"fill\" type: an \"answer\" key with the single word or short phrase (string) that correctly fills the blank (often indicated by '____' in the question_text). The answer should be concise.\n")
			b.WriteString("Example for Fill in the Blank:\n")
			b.WriteString(`{ "question_text": "The chemical symbol for water is ____.", "type": "fill", "difficulty": "Easy", "answer": "H2O" }`)
			b.WriteString("\n")
		case domain.QuestionTypeTF:
			b.WriteString("  * For \"tf\" type: an \"answer\" key with the boolean value true or false (not the string \"true\" or \"false\").\n")
			b.WriteString("Example for True/False:\n")
			b.WriteString(`{ "question_text": "The sun revolves around the Earth.", "type": "tf", "difficulty": "Easy", "answer": false }`)
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "\nEnsure the entire output is **only** a single, valid JSON object starting with { and ending with }. Do not include any text, explanations, or markdown formatting like ```json before or after the JSON object itself. The \"questions\" array must contain exactly %d items in total, matching the specified counts for each type if a mixed set was requested.\n", total)

	return b.String()
}
