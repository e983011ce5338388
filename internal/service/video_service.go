package service

import (
	"context"

	"trainhub/internal/domain"
	"trainhub/internal/dto"
	"trainhub/internal/logger"

	"go.uber.org/zap"
)

// VideoService resolves playback URLs and judges watch completion.
type VideoService interface {
	GetPlayback(ctx context.Context, courseID string) (*dto.PlaybackResponse, error)
	ReportProgress(req dto.VideoProgressRequest) dto.VideoProgressResponse
}

type videoServiceImpl struct {
	courses domain.CourseRepository
	objects domain.ObjectStore
}

func NewVideoService(courses domain.CourseRepository, objects domain.ObjectStore) VideoService {
	return &videoServiceImpl{courses: courses, objects: objects}
}

// GetPlayback returns HasVideo=false for a course without a video key; that
// is a normal state, not a storage failure.
func (s *videoServiceImpl) GetPlayback(ctx context.Context, courseID string) (*dto.PlaybackResponse, error) {
	course, err := s.courses.GetCourseByID(ctx, courseID)
	if err != nil {
		logger.Get().Error("Failed to fetch course for playback", zap.String("courseID", courseID), zap.Error(err))
		return nil, domain.NewFetchFailedError("course", err)
	}
	if course == nil {
		return nil, domain.NewCourseNotFoundError(courseID)
	}
	if !course.HasVideo() {
		return &dto.PlaybackResponse{CourseID: course.ID, HasVideo: false}, nil
	}

	url, err := s.objects.GetURL(ctx, course.VideoKey)
	if err != nil {
		logger.Get().Error("Failed to sign video URL",
			zap.String("courseID", courseID), zap.String("videoKey", course.VideoKey), zap.Error(err))
		return nil, domain.NewStorageError("Failed to load video", err)
	}
	expiresAt := url.ExpiresAt
	return &dto.PlaybackResponse{CourseID: course.ID, HasVideo: true, URL: url.URL, ExpiresAt: &expiresAt}, nil
}

func (s *videoServiceImpl) ReportProgress(req dto.VideoProgressRequest) dto.VideoProgressResponse {
	return dto.VideoProgressResponse{
		Completed: domain.IsWatchComplete(req.PositionSec, req.DurationSec, req.Ended),
	}
}
