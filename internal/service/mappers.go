package service

import (
	"trainhub/internal/domain"
	"trainhub/internal/dto"
)

func toCourseResponse(c *domain.Course) dto.CourseResponse {
	return dto.CourseResponse{
		ID:                    c.ID,
		Title:                 c.Title,
		VideoKey:              c.VideoKey,
		HasVideo:              c.HasVideo(),
		PassingScore:          c.PassingScore,
		EffectivePassingScore: c.EffectivePassingScore(),
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
	}
}

func toQuestionResponse(q *domain.Question) dto.QuestionResponse {
	return dto.QuestionResponse{
		ID:            q.ID,
		CourseID:      q.CourseID,
		Question:      q.Question,
		Options:       q.Options,
		CorrectAnswer: q.CorrectAnswer,
	}
}

func toEmployeeResponse(e *domain.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:         e.ID,
		UserID:     e.UserID,
		Email:      e.Email,
		Name:       e.Name,
		Department: e.Department,
		IsActive:   e.IsActive,
		CreatedAt:  e.CreatedAt,
	}
}

func toAssignmentResponse(a *domain.Assignment) dto.AssignmentResponse {
	return dto.AssignmentResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		CourseID:   a.CourseID,
		Status:     string(a.EffectiveStatus()),
		CreatedAt:  a.CreatedAt,
	}
}

func toResultResponse(r *domain.Result) dto.ResultResponse {
	return dto.ResultResponse{
		ID:           r.ID,
		AssignmentID: r.AssignmentID,
		Score:        r.Score,
		Passed:       r.Passed,
		CreatedAt:    r.CreatedAt,
	}
}

func toOutcomeResponse(o *domain.QuizOutcome) *dto.QuizOutcomeResponse {
	if o == nil {
		return nil
	}
	return &dto.QuizOutcomeResponse{
		CorrectAnswers: o.CorrectAnswers,
		TotalQuestions: o.TotalQuestions,
		Score:          o.Score,
		PassingScore:   o.PassingScore,
		Passed:         o.Passed,
	}
}

// toQuizSessionResponse hides the answer key unless the attempt is being reviewed.
func toQuizSessionResponse(s *domain.QuizSession) *dto.QuizSessionResponse {
	resp := &dto.QuizSessionResponse{
		ID:                s.ID,
		AssignmentID:      s.AssignmentID,
		CourseID:          s.CourseID,
		CourseTitle:       s.CourseTitle,
		State:             string(s.State),
		Attempt:           s.Attempt,
		PassingScore:      s.PassingScore,
		Current:           s.Current,
		Total:             len(s.Questions),
		Answered:          s.AnsweredCount(),
		Answers:           s.Answers,
		CanGoNext:         s.CanGoNext(),
		CanGoPrevious:     s.CanGoPrevious(),
		CanRetake:         s.CanRetake(),
		Outcome:           toOutcomeResponse(s.Outcome),
		ResultRecorded:    s.ResultRecorded,
		CompletionPending: s.CompletionPending,
		StartedAt:         s.StartedAt,
	}
	if len(s.Questions) > 0 {
		resp.IsLast = s.IsLastQuestion()
	}

	switch s.State {
	case domain.QuizStateInProgress:
		if q := s.CurrentQuestion(); q != nil {
			resp.Question = &dto.QuizQuestionView{ID: q.ID, Question: q.Question, Options: q.Options}
		}
	case domain.QuizStateReviewing:
		resp.Review = make([]dto.ReviewItem, len(s.Questions))
		for i, q := range s.Questions {
			resp.Review[i] = dto.ReviewItem{
				QuestionID:    q.ID,
				Question:      q.Question,
				Options:       q.Options,
				Selected:      s.Answers[i],
				CorrectAnswer: q.CorrectAnswer,
				Correct:       q.IsCorrect(s.Answers[i]),
			}
		}
	}
	return resp
}
