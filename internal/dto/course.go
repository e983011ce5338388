package dto

import "time"

// QuestionRequest is one authored multiple-choice question.
type QuestionRequest struct {
	Question      string   `json:"question" validate:"required,max=2000"`
	Options       []string `json:"options" validate:"min=2,dive,required"`
	CorrectAnswer *int     `json:"correct_answer" validate:"required,gte=0"`
}

// CreateCourseRequest creates a course together with its questions.
type CreateCourseRequest struct {
	Title        string            `json:"title" validate:"required,max=255"`
	PassingScore *int              `json:"passing_score,omitempty" validate:"omitempty,gte=0,lte=100"`
	VideoKey     string            `json:"video_key,omitempty"`
	Questions    []QuestionRequest `json:"questions" validate:"dive"`
}

// UpdateCourseRequest replaces a course's editable fields.
type UpdateCourseRequest struct {
	Title        string `json:"title" validate:"required,max=255"`
	PassingScore *int   `json:"passing_score,omitempty" validate:"omitempty,gte=0,lte=100"`
	VideoKey     string `json:"video_key,omitempty"`
}

// CourseResponse is the client view of a course.
type CourseResponse struct {
	ID                    string    `json:"id"`
	Title                 string    `json:"title"`
	VideoKey              string    `json:"video_key,omitempty"`
	HasVideo              bool      `json:"has_video"`
	PassingScore          *int      `json:"passing_score"`
	EffectivePassingScore int       `json:"effective_passing_score"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// QuestionResponse is the manager view of a question, including the answer key.
type QuestionResponse struct {
	ID            string   `json:"id"`
	CourseID      string   `json:"course_id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
}

// CourseDetailResponse bundles a course with its questions.
type CourseDetailResponse struct {
	Course    CourseResponse     `json:"course"`
	Questions []QuestionResponse `json:"questions"`
}

// UploadVideoResponse returns the object key to store on the course.
type UploadVideoResponse struct {
	Key   string `json:"key"`
	Bytes int64  `json:"bytes"`
}
