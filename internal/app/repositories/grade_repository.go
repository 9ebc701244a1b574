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
)

// GradeRepository is the grade ledger: one row per (student, course).
type GradeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewGradeRepository creates a new GradeRepository
func NewGradeRepository(db *pgxpool.Pool) *GradeRepository {
	return &GradeRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Get retrieves a student's grade record for a course.
func (r *GradeRepository) Get(ctx context.Context, studentID, courseID int64) (*models.GradeRecord, error) {
	sql, args, err := r.sb.Select("student_id", "course_id", "grade", "grade_letter", "updated_at").
		From("student_course_grades").
		Where(squirrel.Eq{"student_id": studentID, "course_id": courseID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get grade query: %w", err)
	}

	var rec models.GradeRecord
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&rec.StudentID, &rec.CourseID, &rec.Grade, &rec.GradeLetter, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGradeNotFound
		}
		return nil, fmt.Errorf("error querying grade for student=%d course=%d: %w", studentID, courseID, err)
	}
	return &rec, nil
}

const upsertGradeSQL = `
INSERT INTO student_course_grades (student_id, course_id, grade, grade_letter, updated_at)
VALUES ($1, $2, $3, $4, NOW())
ON CONFLICT (student_id, course_id)
DO UPDATE SET grade = EXCLUDED.grade, grade_letter = EXCLUDED.grade_letter, updated_at = NOW()`

// Upsert writes a ledger entry, replacing any previous one for the pair.
func (r *GradeRepository) Upsert(ctx context.Context, rec *models.GradeRecord) error {
	if _, err := r.db.Exec(ctx, upsertGradeSQL, rec.StudentID, rec.CourseID, rec.Grade, rec.GradeLetter); err != nil {
		return fmt.Errorf("error upserting grade for student=%d course=%d: %w", rec.StudentID, rec.CourseID, err)
	}
	return nil
}

// UpsertTx is Upsert inside an existing transaction; used by the result
// recorder to mirror a resit outcome atomically with the result row.
func (r *GradeRepository) UpsertTx(ctx context.Context, tx pgx.Tx, rec *models.GradeRecord) error {
	if _, err := tx.Exec(ctx, upsertGradeSQL, rec.StudentID, rec.CourseID, rec.Grade, rec.GradeLetter); err != nil {
		return fmt.Errorf("error upserting grade for student=%d course=%d: %w", rec.StudentID, rec.CourseID, err)
	}
	return nil
}

// DeleteByCourseTx removes every ledger row of a course inside a transaction.
func (r *GradeRepository) DeleteByCourseTx(ctx context.Context, tx pgx.Tx, courseID int64) error {
	sql, args, err := r.sb.Delete("student_course_grades").
		Where(squirrel.Eq{"course_id": courseID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete grades by course query: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting grades of course %d: %w", courseID, err)
	}
	return nil
}

// DeleteByStudentTx removes every ledger row of a student inside a transaction.
func (r *GradeRepository) DeleteByStudentTx(ctx context.Context, tx pgx.Tx, studentID int64) error {
	sql, args, err := r.sb.Delete("student_course_grades").
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete grades by student query: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting grades of student %d: %w", studentID, err)
	}
	return nil
}
