package services

import (
	"context"
	"errors"
	"time"

	"github.com/emre/resitdesk/internal/app/models"
	"github.com/emre/resitdesk/internal/pkg/apperrors"
	"github.com/emre/resitdesk/internal/pkg/logger"
)

// EnrollmentService handles students entering and leaving resit exams.
type EnrollmentService struct {
	exams       ResitExamStore
	courses     CourseStore
	grades      GradeStore
	enrollments EnrollmentStore
	authz       Authorizer
	now         func() time.Time
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(exams ResitExamStore, courses CourseStore, grades GradeStore, enrollments EnrollmentStore, authz Authorizer) *EnrollmentService {
	return &EnrollmentService{
		exams:       exams,
		courses:     courses,
		grades:      grades,
		enrollments: enrollments,
		authz:       authz,
		now:         time.Now,
	}
}

// Enroll enrolls the calling student in a resit exam after the eligibility
// check. The eligibility read and the insert are not atomic; the UNIQUE
// (student, exam) constraint decides duplicates, so two concurrent enrolls
// end with exactly one row and one ErrAlreadyEnrolled.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, examID int64) error {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		return err
	}

	letters, err := s.exams.GetLetters(ctx, examID)
	if err != nil {
		return err
	}

	enrolledInCourse, err := s.courses.IsStudentEnrolled(ctx, exam.CourseID, studentID)
	if err != nil {
		return err
	}

	var letter models.LetterGrade
	grade, err := s.grades.Get(ctx, studentID, exam.CourseID)
	switch {
	case err == nil:
		letter = grade.GradeLetter
	case errors.Is(err, apperrors.ErrGradeNotFound):
		// No ledger entry means no failing grade to resit.
		return apperrors.ErrNotEligible
	default:
		return err
	}

	if err := CheckEligibility(enrolledInCourse, letter, letters, exam.Deadline, s.now()); err != nil {
		return err
	}

	if _, err := s.enrollments.Create(ctx, &models.Enrollment{StudentID: studentID, ResitExamID: examID}); err != nil {
		return err
	}
	return nil
}

// Unenroll removes the calling student from a resit exam. The deadline is
// enforced here, not in any client.
func (s *EnrollmentService) Unenroll(ctx context.Context, studentID, examID int64) error {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		return err
	}

	if exam.Deadline != nil && s.now().After(*exam.Deadline) {
		return apperrors.ErrDeadlinePassed
	}

	if err := s.enrollments.Delete(ctx, studentID, examID); err != nil {
		return err
	}
	logger.Info().Int64("studentID", studentID).Int64("examID", examID).Msg("Enrollment withdrawn")
	return nil
}

// ListByExam lists an exam's enrollments. Instructors see only their own
// exams; secretaries see any.
func (s *EnrollmentService) ListByExam(ctx context.Context, callerID int64, callerRole models.RoleType, examID int64) ([]models.Enrollment, error) {
	if callerRole == models.RoleInstructor {
		if _, err := s.authz.ValidateExamOwnership(ctx, callerID, examID); err != nil {
			return nil, err
		}
	} else if _, err := s.exams.GetByID(ctx, examID); err != nil {
		return nil, err
	}
	return s.enrollments.ListByExam(ctx, examID)
}
