package service

import (
	"context"
	"errors"
	"fmt"

	"trainhub/internal/domain"
	"trainhub/internal/dto"
	"trainhub/internal/logger"

	"go.uber.org/zap"
)

// NotificationService announces passed quizzes on the completion topic.
type NotificationService struct {
	publisher domain.Publisher
	topic     string
}

func NewNotificationService(publisher domain.Publisher, topic string) (*NotificationService, error) {
	if topic == "" {
		return nil, errors.New("notification topic is required")
	}
	return &NotificationService{publisher: publisher, topic: topic}, nil
}

// CompletionMessage is the human-readable text published for a pass.
func CompletionMessage(employeeID, courseID string, score int) string {
	return fmt.Sprintf("Employee %s completed course %s with score %d", employeeID, courseID, score)
}

// QuizCompleted publishes only when the attempt passed. A failed attempt is
// acknowledged without publishing.
func (s *NotificationService) QuizCompleted(ctx context.Context, req dto.QuizCompletionRequest) (*dto.QuizCompletionResponse, error) {
	if !req.Passed {
		return &dto.QuizCompletionResponse{Status: "success", Published: false}, nil
	}
	msg := CompletionMessage(req.EmployeeID, req.CourseID, req.Score)
	if err := s.publisher.Publish(ctx, s.topic, msg); err != nil {
		logger.Get().Error("Failed to publish completion",
			zap.String("topic", s.topic),
			zap.String("employeeID", req.EmployeeID),
			zap.String("courseID", req.CourseID),
			zap.Error(err))
		return nil, domain.NewNotificationFailedError(err)
	}
	logger.Get().Info("Completion published", zap.String("topic", s.topic), zap.String("employeeID", req.EmployeeID))
	return &dto.QuizCompletionResponse{Status: "success", Published: true}, nil
}
