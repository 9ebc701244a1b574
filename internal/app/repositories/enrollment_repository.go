package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/resitdesk/internal/app/models"
	"github.com/emre/resitdesk/internal/pkg/apperrors"
	"github.com/emre/resitdesk/internal/pkg/dberrors"
	"github.com/emre/resitdesk/internal/pkg/logger"
)

// enrollmentPairConstraint is the UNIQUE(student_id, resit_exam_id) constraint
// on resit_exam_students. Its violation is the authoritative "already enrolled"
// answer; the service never trusts a prior read for this.
const enrollmentPairConstraint = "resit_exam_students_student_exam_key"

// EnrollmentRepository handles the (student, resit exam) junction rows.
type EnrollmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts an enrollment row. A duplicate pair is rejected by the
// storage constraint and reported as ErrAlreadyEnrolled.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) (int64, error) {
	sql, args, err := r.sb.Insert("resit_exam_students").
		Columns("student_id", "resit_exam_id").
		Values(enrollment.StudentID, enrollment.ResitExamID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create enrollment query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, enrollmentPairConstraint) {
			return 0, apperrors.ErrAlreadyEnrolled
		}
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrResitExamNotFound
		}
		logger.Error().Err(err).Int64("studentID", enrollment.StudentID).Int64("resitExamID", enrollment.ResitExamID).Msg("Error inserting enrollment")
		return 0, fmt.Errorf("error inserting enrollment: %w", err)
	}

	logger.Info().Int64("studentID", enrollment.StudentID).Int64("resitExamID", enrollment.ResitExamID).Msg("Student enrolled in resit exam")
	return id, nil
}

// Delete removes the junction row for the pair.
func (r *EnrollmentRepository) Delete(ctx context.Context, studentID, examID int64) error {
	sql, args, err := r.sb.Delete("resit_exam_students").
		Where(squirrel.Eq{"student_id": studentID, "resit_exam_id": examID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete enrollment query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting enrollment student=%d exam=%d: %w", studentID, examID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotEnrolled
	}

	logger.Info().Int64("studentID", studentID).Int64("resitExamID", examID).Msg("Student unenrolled from resit exam")
	return nil
}

// Exists reports whether the pair is enrolled.
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, examID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("resit_exam_students").
		Where(squirrel.Eq{"student_id": studentID, "resit_exam_id": examID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build enrollment exists query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking enrollment: %w", err)
	}
	return true, nil
}

// ListByExam lists enrollments of an exam with the student user joined in.
func (r *EnrollmentRepository) ListByExam(ctx context.Context, examID int64) ([]models.Enrollment, error) {
	sql, args, err := r.sb.Select(
		"e.id", "e.student_id", "e.resit_exam_id", "e.enrolled_at",
		"u.email", "u.first_name", "u.last_name",
	).
		From("resit_exam_students e").
		Join("users u ON e.student_id = u.id").
		Where(squirrel.Eq{"e.resit_exam_id": examID}).
		OrderBy("e.enrolled_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list enrollments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments for exam %d: %w", examID, err)
	}
	defer rows.Close()

	var enrollments []models.Enrollment
	for rows.Next() {
		var e models.Enrollment
		var student models.User
		if err := rows.Scan(&e.ID, &e.StudentID, &e.ResitExamID, &e.EnrolledAt,
			&student.Email, &student.FirstName, &student.LastName); err != nil {
			return nil, fmt.Errorf("error scanning enrollment row: %w", err)
		}
		student.ID = e.StudentID
		student.RoleType = models.RoleStudent
		e.Student = &student
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

// ListStudentIDsByExamTx lists enrolled student ids inside a transaction.
func (r *EnrollmentRepository) ListStudentIDsByExamTx(ctx context.Context, tx pgx.Tx, examID int64) ([]int64, error) {
	sql, args, err := r.sb.Select("student_id").
		From("resit_exam_students").
		Where(squirrel.Eq{"resit_exam_id": examID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list enrolled students query: %w", err)
	}

	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing enrolled students for exam %d: %w", examID, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning student id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteByExamTx removes every enrollment of an exam inside a transaction.
func (r *EnrollmentRepository) DeleteByExamTx(ctx context.Context, tx pgx.Tx, examID int64) error {
	sql, args, err := r.sb.Delete("resit_exam_students").
		Where(squirrel.Eq{"resit_exam_id": examID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete enrollments by exam query: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting enrollments of exam %d: %w", examID, err)
	}
	return nil
}

// DeleteByStudentTx removes every enrollment of a student inside a transaction.
func (r *EnrollmentRepository) DeleteByStudentTx(ctx context.Context, tx pgx.Tx, studentID int64) error {
	sql, args, err := r.sb.Delete("resit_exam_students").
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete enrollments by student query: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting enrollments of student %d: %w", studentID, err)
	}
	return nil
}
