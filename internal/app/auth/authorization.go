package auth

import (
	"context"

	"github.com/emre/resitdesk/internal/app/models"
	"github.com/emre/resitdesk/internal/app/repositories"
	"github.com/emre/resitdesk/internal/pkg/apperrors"
	"github.com/emre/resitdesk/internal/pkg/logger"
)

// AuthorizationService answers ownership questions for instructor-scoped
// operations. Role checks themselves happen in the route middleware; this
// service decides whether this instructor may touch this course or exam.
type AuthorizationService struct {
	courseRepo *repositories.CourseRepository
	examRepo   *repositories.ResitExamRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(courseRepo *repositories.CourseRepository, examRepo *repositories.ResitExamRepository) *AuthorizationService {
	return &AuthorizationService{
		courseRepo: courseRepo,
		examRepo:   examRepo,
	}
}

// ValidateCourseOwnership checks that the instructor is assigned to the course.
func (s *AuthorizationService) ValidateCourseOwnership(ctx context.Context, instructorID, courseID int64) error {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	if course.InstructorID == nil || *course.InstructorID != instructorID {
		logger.Warn().Int64("instructorID", instructorID).Int64("courseID", courseID).Msg("Course ownership check failed")
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// ValidateExamOwnership checks that the instructor created the exam and
// returns it, saving the caller a second lookup.
func (s *AuthorizationService) ValidateExamOwnership(ctx context.Context, instructorID, examID int64) (*models.ResitExam, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam.CreatedBy != instructorID {
		logger.Warn().Int64("instructorID", instructorID).Int64("examID", examID).Msg("Exam ownership check failed")
		return nil, apperrors.ErrPermissionDenied
	}
	return exam, nil
}
