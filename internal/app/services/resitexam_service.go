package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/emre/resitdesk/internal/app/models"
	"github.com/emre/resitdesk/internal/app/models/dto"
	"github.com/emre/resitdesk/internal/pkg/apperrors"
	"github.com/emre/resitdesk/internal/pkg/logger"
)

// ResitExamService is the registry of resit exams: instructors create and
// edit them, secretaries confirm them with a schedule.
type ResitExamService struct {
	exams       ResitExamStore
	courses     CourseStore
	enrollments EnrollmentStore
	results     ResultStore
	users       UserStore
	authz       Authorizer
	dispatcher  Dispatcher
	tx          TxManager
	now         func() time.Time
}

// NewResitExamService creates a new ResitExamService
func NewResitExamService(exams ResitExamStore, courses CourseStore, enrollments EnrollmentStore, results ResultStore, users UserStore, authz Authorizer, dispatcher Dispatcher, tx TxManager) *ResitExamService {
	return &ResitExamService{
		exams:       exams,
		courses:     courses,
		enrollments: enrollments,
		results:     results,
		users:       users,
		authz:       authz,
		dispatcher:  dispatcher,
		tx:          tx,
		now:         time.Now,
	}
}

// validateSchedule is the single date rule for every path that sets a
// schedule: the exam must be in the future and the enrollment deadline must
// precede it.
func validateSchedule(examDate, deadline time.Time, now time.Time) error {
	if !examDate.After(now) {
		return fmt.Errorf("%w: exam date must be in the future", apperrors.ErrInvalidSchedule)
	}
	if !deadline.Before(examDate) {
		return fmt.Errorf("%w: enrollment deadline must precede the exam date", apperrors.ErrInvalidSchedule)
	}
	return nil
}

// Create registers a resit exam for a course the instructor teaches. A course
// can have at most one resit exam; the UNIQUE constraint on course_id is the
// authority, so a concurrent double-create loses cleanly with a conflict.
func (s *ResitExamService) Create(ctx context.Context, instructorID int64, req *dto.CreateResitExamRequest) (*models.ResitExam, error) {
	letters, err := parseLetters(req.LettersAllowed)
	if err != nil {
		return nil, err
	}

	if err := s.authz.ValidateCourseOwnership(ctx, instructorID, req.CourseID); err != nil {
		return nil, err
	}

	exam := &models.ResitExam{
		CourseID:       req.CourseID,
		Name:           req.Name,
		Department:     req.Department,
		CreatedBy:      instructorID,
		LettersAllowed: letters,
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		id, err := s.exams.CreateTx(ctx, tx, exam)
		if err != nil {
			return err
		}
		exam.ID = id
		return s.exams.ReplaceLettersTx(ctx, tx, id, letters)
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("examID", exam.ID).Int64("courseID", req.CourseID).Int64("instructorID", instructorID).Msg("Resit exam created")
	return exam, nil
}

// Confirm attaches a schedule to an exam (secretary operation) and notifies
// the enrolled students and the creating instructor. The exam row is locked
// for the duration of the transaction so a concurrent delete either completes
// first (confirm then fails with not found) or waits and deletes a confirmed
// exam; either way no notification refers to a missing exam, because events
// are dispatched only after commit.
func (s *ResitExamService) Confirm(ctx context.Context, examID int64, req *dto.ConfirmResitExamRequest) error {
	if err := validateSchedule(req.ExamDate, req.Deadline, s.now()); err != nil {
		return err
	}

	var events []Event
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		exam, err := s.exams.GetByIDForUpdateTx(ctx, tx, examID)
		if err != nil {
			return err
		}

		if err := s.exams.UpdateScheduleTx(ctx, tx, examID, req.ExamDate, req.Deadline, req.Location); err != nil {
			return err
		}

		studentIDs, err := s.enrollments.ListStudentIDsByExamTx(ctx, tx, examID)
		if err != nil {
			return err
		}

		message := fmt.Sprintf("%s is scheduled for %s at %s. Enrollment closes %s.",
			exam.Name, req.ExamDate.Format(time.RFC1123), req.Location, req.Deadline.Format(time.RFC1123))
		events = make([]Event, 0, len(studentIDs)+1)
		for _, studentID := range studentIDs {
			events = append(events, Event{
				UserID:   studentID,
				Type:     models.NotificationTypeExamConfirmed,
				Title:    "Resit exam confirmed",
				Message:  message,
				EntityID: examID,
			})
		}
		events = append(events, Event{
			UserID:   exam.CreatedBy,
			Type:     models.NotificationTypeExamConfirmed,
			Title:    "Your resit exam was confirmed",
			Message:  message,
			EntityID: examID,
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.dispatcher.Dispatch(ctx, events)
	logger.Info().Int64("examID", examID).Time("examDate", req.ExamDate).Msg("Resit exam confirmed")
	return nil
}

// UpdateByInstructor lets the owning instructor change name, department and
// the allowed letter set. The schedule is untouchable here; only confirmation
// sets dates. Existing enrollments are grandfathered when the letter set
// shrinks.
func (s *ResitExamService) UpdateByInstructor(ctx context.Context, instructorID, examID int64, req *dto.UpdateResitExamRequest) error {
	letters, err := parseLetters(req.LettersAllowed)
	if err != nil {
		return err
	}

	if _, err := s.authz.ValidateExamOwnership(ctx, instructorID, examID); err != nil {
		return err
	}

	return s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.exams.UpdateMetaTx(ctx, tx, examID, req.Name, req.Department); err != nil {
			return err
		}
		return s.exams.ReplaceLettersTx(ctx, tx, examID, letters)
	})
}

// GetByID returns the denormalized exam view with the derived lifecycle
// status, the allowed letters and the enrolled students.
func (s *ResitExamService) GetByID(ctx context.Context, examID int64) (*dto.ResitExamResponse, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(ctx, exam)
}

// GetByCourse resolves a course's resit exam. There is no stored
// back-reference on the course; the UNIQUE course_id column is the lookup.
func (s *ResitExamService) GetByCourse(ctx context.Context, courseID int64) (*dto.ResitExamResponse, error) {
	exam, err := s.exams.GetByCourseID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(ctx, exam)
}

func (s *ResitExamService) buildResponse(ctx context.Context, exam *models.ResitExam) (*dto.ResitExamResponse, error) {
	letters, err := s.exams.GetLetters(ctx, exam.ID)
	if err != nil {
		return nil, err
	}
	exam.LettersAllowed = letters

	enrollments, err := s.enrollments.ListByExam(ctx, exam.ID)
	if err != nil {
		return nil, err
	}

	resultCount, err := s.results.CountByExam(ctx, exam.ID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ResitExamResponse{
		ID:               exam.ID,
		CourseID:         exam.CourseID,
		Name:             exam.Name,
		Department:       exam.Department,
		CreatedBy:        exam.CreatedBy,
		LettersAllowed:   letters,
		ExamDate:         exam.ExamDate,
		Deadline:         exam.Deadline,
		Location:         exam.Location,
		Status:           exam.StatusAt(s.now(), resultCount > 0),
		EnrolledStudents: make([]dto.EnrolledStudent, 0, len(enrollments)),
		CreatedAt:        exam.CreatedAt,
		UpdatedAt:        exam.UpdatedAt,
	}

	instructor, err := s.users.GetByID(ctx, exam.CreatedBy)
	if err == nil {
		resp.InstructorName = instructor.FullName()
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	course, err := s.courses.GetByID(ctx, exam.CourseID)
	if err == nil {
		resp.CourseName = course.Name
	} else if !errors.Is(err, apperrors.ErrCourseNotFound) {
		return nil, err
	}

	for _, e := range enrollments {
		entry := dto.EnrolledStudent{StudentID: e.StudentID, EnrolledAt: e.EnrolledAt}
		if e.Student != nil {
			entry.FirstName = e.Student.FirstName
			entry.LastName = e.Student.LastName
			entry.Email = e.Student.Email
		}
		resp.EnrolledStudents = append(resp.EnrolledStudents, entry)
	}
	return resp, nil
}
