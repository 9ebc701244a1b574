package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/emre/resitdesk/internal/app/models"
	"github.com/emre/resitdesk/internal/app/models/dto"
	"github.com/emre/resitdesk/internal/pkg/apperrors"
	"github.com/emre/resitdesk/internal/pkg/logger"
)

// CourseService is the secretary-facing course administration surface: course
// records, instructor assignment, student membership with an initial grade,
// and grade entry.
type CourseService struct {
	courses CourseStore
	grades  GradeStore
	users   UserStore
	tx      TxManager
}

// NewCourseService creates a new CourseService
func NewCourseService(courses CourseStore, grades GradeStore, users UserStore, tx TxManager) *CourseService {
	return &CourseService{
		courses: courses,
		grades:  grades,
		users:   users,
		tx:      tx,
	}
}

// Create registers a new course.
func (s *CourseService) Create(ctx context.Context, secretaryID int64, req *dto.CreateCourseRequest) (*models.Course, error) {
	course := &models.Course{
		Name:       req.Name,
		Department: req.Department,
		CreatedBy:  secretaryID,
	}
	id, err := s.courses.Create(ctx, course)
	if err != nil {
		return nil, err
	}
	course.ID = id

	logger.Info().Int64("courseID", id).Str("name", req.Name).Msg("Course created")
	return course, nil
}

// GetByID returns a course with its instructor populated.
func (s *CourseService) GetByID(ctx context.Context, courseID int64) (*models.Course, error) {
	return s.courses.GetByID(ctx, courseID)
}

// AssignInstructor puts an instructor in charge of a course.
func (s *CourseService) AssignInstructor(ctx context.Context, courseID, instructorID int64) error {
	user, err := s.users.GetByID(ctx, instructorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrInstructorNotFound
		}
		return err
	}
	if user.RoleType != models.RoleInstructor {
		return apperrors.NewValidationError("user is not an instructor")
	}
	return s.courses.AssignInstructor(ctx, courseID, instructorID)
}

// AddStudent enrolls a student into a course together with their initial
// grade; the membership row and the ledger entry land in one transaction.
func (s *CourseService) AddStudent(ctx context.Context, courseID int64, req *dto.AddCourseStudentRequest) error {
	letter := models.LetterGrade(req.GradeLetter)
	if !letter.IsValid() {
		return apperrors.ErrInvalidGrade
	}

	user, err := s.users.GetByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrStudentNotFound
		}
		return err
	}
	if user.RoleType != models.RoleStudent {
		return apperrors.NewValidationError("user is not a student")
	}

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return err
	}

	return s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.courses.AddStudentTx(ctx, tx, courseID, req.StudentID); err != nil {
			return err
		}
		return s.grades.UpsertTx(ctx, tx, &models.GradeRecord{
			StudentID:   req.StudentID,
			CourseID:    courseID,
			Grade:       req.Grade,
			GradeLetter: letter,
		})
	})
}

// UpdateGrade mutates a student's ledger entry. Secretaries may touch any
// course; instructors only the courses assigned to them.
func (s *CourseService) UpdateGrade(ctx context.Context, callerID int64, callerRole models.RoleType, req *dto.UpdateGradeRequest) error {
	letter := models.LetterGrade(req.GradeLetter)
	if !letter.IsValid() {
		return apperrors.ErrInvalidGrade
	}

	course, err := s.courses.GetByID(ctx, req.CourseID)
	if err != nil {
		return err
	}
	if callerRole == models.RoleInstructor {
		if course.InstructorID == nil || *course.InstructorID != callerID {
			return apperrors.ErrPermissionDenied
		}
	}

	member, err := s.courses.IsStudentEnrolled(ctx, req.CourseID, req.StudentID)
	if err != nil {
		return err
	}
	if !member {
		return apperrors.ErrNotCourseMember
	}

	return s.grades.Upsert(ctx, &models.GradeRecord{
		StudentID:   req.StudentID,
		CourseID:    req.CourseID,
		Grade:       req.Grade,
		GradeLetter: letter,
	})
}
