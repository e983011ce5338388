package dto

import "time"

// StartQuizRequest starts a quiz for one of the caller's assignments.
type StartQuizRequest struct {
	AssignmentID string `json:"assignment_id" validate:"required"`
}

// AnswerRequest selects an option for the current question.
type AnswerRequest struct {
	Option *int `json:"option" validate:"required"`
}

// QuizQuestionView is a question as shown while the quiz is in progress; it carries no answer key.
type QuizQuestionView struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// ReviewItem is one question of a finished attempt.
type ReviewItem struct {
	QuestionID    string   `json:"question_id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	Selected      int      `json:"selected"`
	CorrectAnswer int      `json:"correct_answer"`
	Correct       bool     `json:"correct"`
}

// QuizOutcomeResponse is the scored result of an attempt.
type QuizOutcomeResponse struct {
	CorrectAnswers int  `json:"correct_answers"`
	TotalQuestions int  `json:"total_questions"`
	Score          int  `json:"score"`
	PassingScore   int  `json:"passing_score"`
	Passed         bool `json:"passed"`
}

// QuizSessionResponse is the client view of a quiz session.
type QuizSessionResponse struct {
	ID            string               `json:"id"`
	AssignmentID  string               `json:"assignment_id"`
	CourseID      string               `json:"course_id"`
	CourseTitle   string               `json:"course_title"`
	State         string               `json:"state"`
	Attempt       int                  `json:"attempt"`
	PassingScore  int                  `json:"passing_score"`
	Current       int                  `json:"current"`
	Total         int                  `json:"total"`
	Answered      int                  `json:"answered"`
	Answers       []int                `json:"answers"`
	Question      *QuizQuestionView    `json:"question,omitempty"`
	CanGoNext     bool                 `json:"can_go_next"`
	CanGoPrevious bool                 `json:"can_go_previous"`
	IsLast        bool                 `json:"is_last"`
	Outcome       *QuizOutcomeResponse `json:"outcome,omitempty"`
	Review        []ReviewItem         `json:"review,omitempty"`
	CanRetake     bool                 `json:"can_retake"`
	// ResultRecorded is false while a finished attempt's result still has to
	// be stored; pressing Next retries the write.
	ResultRecorded bool `json:"result_recorded"`
	// CompletionPending is set when the result was saved but the assignment
	// could not be marked completed.
	CompletionPending bool      `json:"completion_pending,omitempty"`
	StartedAt         time.Time `json:"started_at"`
}
