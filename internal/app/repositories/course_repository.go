package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/resitdesk/internal/app/models"
	"github.com/emre/resitdesk/internal/pkg/apperrors"
	"github.com/emre/resitdesk/internal/pkg/dberrors"
	"github.com/emre/resitdesk/internal/pkg/logger"
)

// CourseRepository handles course and course-membership database operations
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new course and returns its id.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) (int64, error) {
	sql, args, err := r.sb.Insert("courses").
		Columns("name", "department", "instructor_id", "created_by").
		Values(course.Name, course.Department, course.InstructorID, course.CreatedBy).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create course query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Str("name", course.Name).Msg("Error inserting course")
		return 0, fmt.Errorf("error inserting course: %w", err)
	}

	logger.Info().Int64("courseID", id).Msg("Course created")
	return id, nil
}

// GetByID retrieves a course by id, including the assigned instructor if any.
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.sb.Select(
		"c.id", "c.name", "c.department", "c.instructor_id", "c.created_by",
		"c.created_at", "c.updated_at",
		"u.id", "u.email", "u.first_name", "u.last_name", "u.role_type",
	).
		From("courses c").
		LeftJoin("users u ON c.instructor_id = u.id").
		Where(squirrel.Eq{"c.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	var course models.Course
	var instrID *int64
	var instrEmail, instrFirst, instrLast, instrRole *string
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&course.ID, &course.Name, &course.Department, &course.InstructorID, &course.CreatedBy,
		&course.CreatedAt, &course.UpdatedAt,
		&instrID, &instrEmail, &instrFirst, &instrLast, &instrRole,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error querying course ID=%d: %w", id, err)
	}

	if instrID != nil {
		course.Instructor = &models.User{
			ID:        *instrID,
			Email:     *instrEmail,
			FirstName: *instrFirst,
			LastName:  *instrLast,
			RoleType:  models.RoleType(*instrRole),
		}
	}
	return &course, nil
}

// AssignInstructor sets the course's instructor.
func (r *CourseRepository) AssignInstructor(ctx context.Context, courseID, instructorID int64) error {
	sql, args, err := r.sb.Update("courses").
		Set("instructor_id", instructorID).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": courseID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build assign instructor query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrInstructorNotFound
		}
		return fmt.Errorf("error assigning instructor to course ID=%d: %w", courseID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// AddStudentTx inserts a course membership row inside a transaction.
func (r *CourseRepository) AddStudentTx(ctx context.Context, tx pgx.Tx, courseID, studentID int64) error {
	sql, args, err := r.sb.Insert("course_students").
		Columns("course_id", "student_id").
		Values(courseID, studentID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build add course student query: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "course_students_course_student_key") {
			return apperrors.ErrAlreadyInCourse
		}
		return fmt.Errorf("error adding student %d to course %d: %w", studentID, courseID, err)
	}
	return nil
}

// IsStudentEnrolled reports course membership for a student.
func (r *CourseRepository) IsStudentEnrolled(ctx context.Context, courseID, studentID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("course_students").
		Where(squirrel.Eq{"course_id": courseID, "student_id": studentID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build course membership query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking course membership: %w", err)
	}
	return true, nil
}

// ListCourseIDsByInstructorTx lists courses assigned to an instructor, inside a transaction.
func (r *CourseRepository) ListCourseIDsByInstructorTx(ctx context.Context, tx pgx.Tx, instructorID int64) ([]int64, error) {
	sql, args, err := r.sb.Select("id").
		From("courses").
		Where(squirrel.Eq{"instructor_id": instructorID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list courses by instructor query: %w", err)
	}

	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courses by instructor: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning course id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ClearInstructorTx unassigns an instructor from every course they hold.
func (r *CourseRepository) ClearInstructorTx(ctx context.Context, tx pgx.Tx, instructorID int64) error {
	sql, args, err := r.sb.Update("courses").
		Set("instructor_id", nil).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"instructor_id": instructorID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build clear instructor query: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error clearing instructor %d from courses: %w", instructorID, err)
	}
	return nil
}

// DeleteStudentsTx removes all membership rows of a course inside a transaction.
func (r *CourseRepository) DeleteStudentsTx(ctx context.Context, tx pgx.Tx, courseID int64) error {
	sql, args, err := r.sb.Delete("course_students").
		Where(squirrel.Eq{"course_id": courseID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete course students query: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting memberships of course %d: %w", courseID, err)
	}
	return nil
}

// RemoveStudentTx removes one student's memberships across all courses.
func (r *CourseRepository) RemoveStudentTx(ctx context.Context, tx pgx.Tx, studentID int64) error {
	sql, args, err := r.sb.Delete("course_students").
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build remove student memberships query: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error removing memberships of student %d: %w", studentID, err)
	}
	return nil
}

// DeleteTx removes the course row itself inside a transaction.
func (r *CourseRepository) DeleteTx(ctx context.Context, tx pgx.Tx, id int64) error {
	sql, args, err := r.sb.Delete("courses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete course query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting course ID=%d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}
