package dto

// GenerateQuizRequest represents a quiz generation request
// @Description Request body for generating a quiz
type GenerateQuizRequest struct {
	Topic        string `json:"topic"`
	Difficulty   string `json:"difficulty"`
	QuestionType string `json:"question_type"`
	NumQuestions int    `json:"num_questions,omitempty"`
	NumMCQ       int    `json:"num_mcq,omitempty"`
	NumFill      int    `json:"num_fill,omitempty"`
	NumTF        int    `json:"num_tf,omitempty"`
}

// QuestionResponse represents one question as shown to the learner.
// Correct answers are withheld; grading happens server-side.
type QuestionResponse struct {
	QuestionText string   `json:"question_text"`
	Type         string   `json:"type"`
	Difficulty   string   `json:"difficulty"`
	Options      []string `json:"options,omitempty"`
}

// QuizResponse represents a quiz in the API response
// @Description Quiz information without correct answers
type QuizResponse struct {
	QuizID       string             `json:"quiz_id"`
	Topic        string             `json:"topic"`
	Difficulty   string             `json:"difficulty"`
	QuestionType string             `json:"question_type"`
	Explanation  string             `json:"explanation"`
	Questions    []QuestionResponse `json:"questions"`
}

// CheckAnswersRequest represents a grading request.
// Keys of Answers are "q1", "q2", ... in question order.
// @Description Request body for grading submitted answers
type CheckAnswersRequest struct {
	QuizID  string                 `json:"quiz_id"`
	Answers map[string]interface{} `json:"answers"`
}

// ResultResponse represents the grading outcome for one question
type ResultResponse struct {
	QuestionIndex   int         `json:"question_index"`
	QuestionKey     string      `json:"question_key"`
	SubmittedAnswer interface{} `json:"submitted_answer"`
	CorrectAnswer   interface{} `json:"correct_answer"`
	IsCorrect       bool        `json:"is_correct"`
	QuestionText    string      `json:"question_text"`
}

// CheckAnswersResponse represents a graded attempt in the API response
// @Description Grading result for a submitted quiz
type CheckAnswersResponse struct {
	AttemptID      string           `json:"attempt_id"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"total_questions"`
	Percentage     int              `json:"percentage"`
	Results        []ResultResponse `json:"results"`
	Topic          string           `json:"topic"`
	Difficulty     string           `json:"difficulty"`
}

// EmailResultsRequest represents a request to email an attempt summary
// @Description Request body for emailing quiz results
type EmailResultsRequest struct {
	EmailAddress string `json:"email_address"`
	AttemptID    string `json:"attempt_id"`
}

// EmailResultsResponse acknowledges a sent results email
type EmailResultsResponse struct {
	Message string `json:"message"`
}
