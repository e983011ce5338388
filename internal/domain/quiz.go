package domain

import (
	"time"

	"trainhub/internal/util"
)

// Unanswered marks an answer slot that has no selected option yet.
const Unanswered = -1

// QuizState is a state of the quiz-taking state machine.
type QuizState string

const (
	QuizStateIdle       QuizState = "idle"
	QuizStateLoading    QuizState = "loading"
	QuizStateInProgress QuizState = "in_progress"
	QuizStateReviewing  QuizState = "reviewing"
	QuizStateError      QuizState = "error"
)

// quizTransitions lists the states reachable from each state.
var quizTransitions = map[QuizState][]QuizState{
	QuizStateIdle:       {QuizStateLoading},
	QuizStateLoading:    {QuizStateInProgress, QuizStateError},
	QuizStateInProgress: {QuizStateReviewing},
	QuizStateReviewing:  {QuizStateInProgress},
	QuizStateError:      {QuizStateLoading},
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to QuizState) bool {
	for _, s := range quizTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// QuizOutcome is the scored result of a finished walk through the questions.
type QuizOutcome struct {
	CorrectAnswers int  `json:"correct_answers"`
	TotalQuestions int  `json:"total_questions"`
	Score          int  `json:"score"`
	PassingScore   int  `json:"passing_score"`
	Passed         bool `json:"passed"`
}

// ScoreAnswers compares answers to the questions' correct indices and
// returns the outcome against passingScore. Score is round(100*C/N), half up.
func ScoreAnswers(questions []Question, answers []int, passingScore int) QuizOutcome {
	correct := 0
	for i, q := range questions {
		if i < len(answers) && q.IsCorrect(answers[i]) {
			correct++
		}
	}
	score := util.RoundPercent(correct, len(questions))
	return QuizOutcome{
		CorrectAnswers: correct,
		TotalQuestions: len(questions),
		Score:          score,
		PassingScore:   passingScore,
		Passed:         score >= passingScore,
	}
}

// QuizSession is one employee's walk through a course's questions. It is a
// plain in-memory value: every method is synchronous and has no side effects
// beyond the session itself.
type QuizSession struct {
	ID           string       `json:"id"`
	SubjectID    string       `json:"subject_id"`
	EmployeeID   string       `json:"employee_id"`
	AssignmentID string       `json:"assignment_id"`
	CourseID     string       `json:"course_id"`
	CourseTitle  string       `json:"course_title"`
	PassingScore int          `json:"passing_score"`
	State        QuizState    `json:"state"`
	Questions    []Question   `json:"questions"`
	Answers      []int        `json:"answers"`
	Current      int          `json:"current"`
	Attempt      int          `json:"attempt"`
	Outcome      *QuizOutcome `json:"outcome,omitempty"`
	ErrorCode    ErrorCode    `json:"error_code,omitempty"`
	StartedAt    time.Time    `json:"started_at"`

	// ResultID is assigned when an attempt finishes so that recording the
	// Result can be retried without writing it twice.
	ResultID          string `json:"result_id,omitempty"`
	ResultRecorded    bool   `json:"result_recorded,omitempty"`
	CompletionPending bool   `json:"completion_pending,omitempty"`
}

// NewQuizSession creates an idle session for an assignment.
func NewQuizSession(id, subjectID, employeeID, assignmentID string) *QuizSession {
	return &QuizSession{
		ID:           id,
		SubjectID:    subjectID,
		EmployeeID:   employeeID,
		AssignmentID: assignmentID,
		State:        QuizStateIdle,
		StartedAt:    time.Now(),
	}
}

func (s *QuizSession) transition(to QuizState, action string) error {
	if !CanTransition(s.State, to) {
		return NewInvalidTransitionError(s.State, action)
	}
	s.State = to
	return nil
}

// BeginLoading moves Idle (or Error, for a retry) to Loading.
func (s *QuizSession) BeginLoading() error {
	return s.transition(QuizStateLoading, "load")
}

// Load installs the course's questions. Zero questions is terminal: the
// session moves to Error and NoQuestions is returned.
func (s *QuizSession) Load(course *Course, questions []Question) error {
	if s.State != QuizStateLoading {
		return NewInvalidTransitionError(s.State, "load questions")
	}
	s.CourseID = course.ID
	s.CourseTitle = course.Title
	s.PassingScore = course.EffectivePassingScore()

	if len(questions) == 0 {
		s.State = QuizStateError
		s.ErrorCode = CodeNoQuestions
		return NewNoQuestionsError(course.ID)
	}

	s.Questions = questions
	s.resetAnswers()
	s.Attempt = 1
	s.ErrorCode = ""
	return s.transition(QuizStateInProgress, "start")
}

// Fail records a load failure.
func (s *QuizSession) Fail(code ErrorCode) error {
	s.ErrorCode = code
	return s.transition(QuizStateError, "fail")
}

func (s *QuizSession) resetAnswers() {
	s.Answers = make([]int, len(s.Questions))
	for i := range s.Answers {
		s.Answers[i] = Unanswered
	}
	s.Current = 0
	s.Outcome = nil
	s.ResultID = ""
	s.ResultRecorded = false
	s.CompletionPending = false
}

// CurrentQuestion returns the question at the current index, or nil.
func (s *QuizSession) CurrentQuestion() *Question {
	if s.Current < 0 || s.Current >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.Current]
}

// Select overwrites the current question's answer slot.
func (s *QuizSession) Select(option int) error {
	if s.State != QuizStateInProgress {
		return NewInvalidTransitionError(s.State, "select an answer")
	}
	q := s.CurrentQuestion()
	if option < 0 || option >= len(q.Options) {
		return NewInvalidInputError("option index is out of range for this question").
			WithContext("options", len(q.Options))
	}
	s.Answers[s.Current] = option
	return nil
}

// CanGoNext reports whether Next is enabled.
func (s *QuizSession) CanGoNext() bool {
	return s.State == QuizStateInProgress && s.Answers[s.Current] != Unanswered
}

// CanGoPrevious reports whether Previous is enabled.
func (s *QuizSession) CanGoPrevious() bool {
	return s.State == QuizStateInProgress && s.Current > 0
}

// IsLastQuestion reports whether the current index is the final question.
func (s *QuizSession) IsLastQuestion() bool {
	return s.Current == len(s.Questions)-1
}

// AnsweredCount returns the number of answered slots.
func (s *QuizSession) AnsweredCount() int {
	n := 0
	for _, a := range s.Answers {
		if a != Unanswered {
			n++
		}
	}
	return n
}

// Next advances to the following question, or finishes the quiz when the
// current question is the last one. It reports whether the quiz finished.
func (s *QuizSession) Next() (bool, error) {
	if s.State != QuizStateInProgress {
		return false, NewInvalidTransitionError(s.State, "advance")
	}
	if !s.CanGoNext() {
		return false, NewInvalidTransitionError(s.State, "advance past an unanswered question")
	}
	if !s.IsLastQuestion() {
		s.Current++
		return false, nil
	}
	return true, s.finish()
}

// Previous steps back one question. At the first question it is a no-op.
func (s *QuizSession) Previous() error {
	if s.State != QuizStateInProgress {
		return NewInvalidTransitionError(s.State, "go back")
	}
	if s.Current > 0 {
		s.Current--
	}
	return nil
}

func (s *QuizSession) finish() error {
	outcome := ScoreAnswers(s.Questions, s.Answers, s.PassingScore)
	if err := s.transition(QuizStateReviewing, "finish"); err != nil {
		return err
	}
	s.Outcome = &outcome
	s.ResultID = util.NewULID()
	return nil
}

// AwaitingResult reports whether the attempt is finished but its Result has
// not been stored yet.
func (s *QuizSession) AwaitingResult() bool {
	return s.State == QuizStateReviewing && s.Outcome != nil && !s.ResultRecorded
}

// RecordResult marks the attempt's Result as stored. pending is set when a
// passed attempt could not complete its assignment.
func (s *QuizSession) RecordResult(pending bool) {
	s.ResultRecorded = true
	s.CompletionPending = pending
}

// CanRetake reports whether Retake is allowed: only after a failed attempt
// whose Result is stored.
func (s *QuizSession) CanRetake() bool {
	return s.State == QuizStateReviewing && s.Outcome != nil && !s.Outcome.Passed && s.ResultRecorded
}

// Retake clears every answer and returns to the first question.
func (s *QuizSession) Retake() error {
	if !s.CanRetake() {
		return NewInvalidTransitionError(s.State, "retake a passed or unfinished quiz")
	}
	s.resetAnswers()
	s.Attempt++
	return s.transition(QuizStateInProgress, "retake")
}
