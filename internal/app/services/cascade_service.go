package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/emre/resitdesk/internal/app/models"
	"github.com/emre/resitdesk/internal/pkg/apperrors"
	"github.com/emre/resitdesk/internal/pkg/logger"
)

// CascadeService performs the ordered teardowns that keep the data referentially
// intact when an exam, a course or a user disappears. Every cascade runs
// inside a single transaction; a failing step rolls the whole teardown back
// and surfaces as an integrity failure instead of leaving orphans.
type CascadeService struct {
	users        UserStore
	courses      CourseStore
	grades       GradeStore
	exams        ResitExamStore
	enrollments  EnrollmentStore
	applications ApplicationStore
	results      ResultStore
	authz        Authorizer
	tx           TxManager
}

// NewCascadeService creates a new CascadeService
func NewCascadeService(users UserStore, courses CourseStore, grades GradeStore, exams ResitExamStore, enrollments EnrollmentStore, applications ApplicationStore, results ResultStore, authz Authorizer, tx TxManager) *CascadeService {
	return &CascadeService{
		users:        users,
		courses:      courses,
		grades:       grades,
		exams:        exams,
		enrollments:  enrollments,
		applications: applications,
		results:      results,
		authz:        authz,
		tx:           tx,
	}
}

// teardownExamTx removes everything hanging off an exam, leaves last.
// Order: results, applications, allowed letters, enrollments, the exam row.
func (s *CascadeService) teardownExamTx(ctx context.Context, tx pgx.Tx, examID int64) error {
	if err := s.results.DeleteByExamTx(ctx, tx, examID); err != nil {
		return err
	}
	if err := s.applications.DeleteByExamTx(ctx, tx, examID); err != nil {
		return err
	}
	if err := s.exams.DeleteLettersTx(ctx, tx, examID); err != nil {
		return err
	}
	if err := s.enrollments.DeleteByExamTx(ctx, tx, examID); err != nil {
		return err
	}
	return s.exams.DeleteTx(ctx, tx, examID)
}

// DeleteResitExam removes an exam owned by the calling instructor together
// with its results, applications, letters and enrollments. The row lock taken
// first serializes against a concurrent confirmation.
func (s *CascadeService) DeleteResitExam(ctx context.Context, instructorID, examID int64) error {
	if _, err := s.authz.ValidateExamOwnership(ctx, instructorID, examID); err != nil {
		return err
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := s.exams.GetByIDForUpdateTx(ctx, tx, examID); err != nil {
			return err
		}
		return s.teardownExamTx(ctx, tx, examID)
	})
	if err != nil {
		return integrityErr(err, "resit exam teardown failed")
	}

	logger.Info().Int64("examID", examID).Int64("instructorID", instructorID).Msg("Resit exam deleted")
	return nil
}

// DeleteCourse removes a course, its resit exam if one exists, its memberships
// and its grade ledger entries, in one transaction.
func (s *CascadeService) DeleteCourse(ctx context.Context, courseID int64) error {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return err
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		examID, err := s.exams.GetIDByCourseTx(ctx, tx, courseID)
		switch {
		case err == nil:
			if err := s.teardownExamTx(ctx, tx, examID); err != nil {
				return err
			}
		case errors.Is(err, apperrors.ErrResitExamNotFound):
			// No exam for this course; nothing to tear down.
		default:
			return err
		}

		if err := s.courses.DeleteStudentsTx(ctx, tx, courseID); err != nil {
			return err
		}
		if err := s.grades.DeleteByCourseTx(ctx, tx, courseID); err != nil {
			return err
		}
		return s.courses.DeleteTx(ctx, tx, courseID)
	})
	if err != nil {
		return integrityErr(err, "course teardown failed")
	}

	logger.Info().Int64("courseID", courseID).Msg("Course deleted with cascade")
	return nil
}

// DeleteUser removes a student or instructor and every reference to them.
// Instructors take their owned exams down with them and are detached from
// their courses; students lose their enrollments, applications, results,
// course memberships and ledger entries.
func (s *CascadeService) DeleteUser(ctx context.Context, userID int64) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	switch user.RoleType {
	case models.RoleInstructor:
		err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
			examIDs, err := s.exams.ListIDsByCreatorTx(ctx, tx, userID)
			if err != nil {
				return err
			}
			for _, examID := range examIDs {
				if err := s.teardownExamTx(ctx, tx, examID); err != nil {
					return err
				}
			}
			if err := s.courses.ClearInstructorTx(ctx, tx, userID); err != nil {
				return err
			}
			return s.users.DeleteTx(ctx, tx, userID)
		})
	case models.RoleStudent:
		err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
			if err := s.results.DeleteByStudentTx(ctx, tx, userID); err != nil {
				return err
			}
			if err := s.applications.DeleteByStudentTx(ctx, tx, userID); err != nil {
				return err
			}
			if err := s.enrollments.DeleteByStudentTx(ctx, tx, userID); err != nil {
				return err
			}
			if err := s.courses.RemoveStudentTx(ctx, tx, userID); err != nil {
				return err
			}
			if err := s.grades.DeleteByStudentTx(ctx, tx, userID); err != nil {
				return err
			}
			return s.users.DeleteTx(ctx, tx, userID)
		})
	default:
		// Secretary accounts own course records through created_by and are
		// deactivated, never deleted.
		return apperrors.NewValidationError("secretary accounts cannot be deleted")
	}
	if err != nil {
		return integrityErr(err, "user teardown failed")
	}

	logger.Info().Int64("userID", userID).Str("roleType", string(user.RoleType)).Msg("User deleted with cascade")
	return nil
}

// integrityErr wraps unexpected teardown failures as integrity failures while
// letting domain sentinels (not found, permission) pass through unchanged.
func integrityErr(err error, msg string) error {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) ||
		errors.Is(err, apperrors.ErrResitExamNotFound) ||
		errors.Is(err, apperrors.ErrCourseNotFound) ||
		errors.Is(err, apperrors.ErrUserNotFound) ||
		errors.Is(err, apperrors.ErrPermissionDenied) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", apperrors.ErrIntegrityFailure, msg, err)
}
