package dto

import "time"

// PlaybackResponse is returned by GET /api/courses/:id/video.
type PlaybackResponse struct {
	CourseID  string     `json:"course_id"`
	HasVideo  bool       `json:"has_video"`
	URL       string     `json:"url,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// VideoProgressRequest reports player state.
type VideoProgressRequest struct {
	PositionSec float64 `json:"position_sec" validate:"gte=0"`
	DurationSec float64 `json:"duration_sec" validate:"gte=0"`
	Ended       bool    `json:"ended"`
}

// VideoProgressResponse tells the client whether the video counts as watched.
type VideoProgressResponse struct {
	Completed bool `json:"completed"`
}
