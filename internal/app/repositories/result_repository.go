package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/resitdesk/internal/app/models"
)

// ResultRepository handles resit result rows (table resit_exam_enroll, name
// inherited from the original schema).
type ResultRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewResultRepository creates a new ResultRepository
func NewResultRepository(db *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const upsertResultSQL = `
INSERT INTO resit_exam_enroll (student_id, resit_exam_id, grade, grade_letter, submitted_at)
VALUES ($1, $2, $3, $4, NOW())
ON CONFLICT (student_id, resit_exam_id)
DO UPDATE SET grade = EXCLUDED.grade, grade_letter = EXCLUDED.grade_letter, submitted_at = NOW()`

// UpsertTx writes a result row inside a transaction. Resubmitting the same
// values is a no-op beyond the timestamp, keeping bulk recording idempotent.
func (r *ResultRepository) UpsertTx(ctx context.Context, tx pgx.Tx, result *models.ResitResult) error {
	if _, err := tx.Exec(ctx, upsertResultSQL, result.StudentID, result.ResitExamID, result.Grade, result.GradeLetter); err != nil {
		return fmt.Errorf("error upserting result student=%d exam=%d: %w", result.StudentID, result.ResitExamID, err)
	}
	return nil
}

// CountByExam counts result rows for an exam; used to derive lifecycle state.
func (r *ResultRepository) CountByExam(ctx context.Context, examID int64) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("resit_exam_enroll").
		Where(squirrel.Eq{"resit_exam_id": examID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count results query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting results for exam %d: %w", examID, err)
	}
	return count, nil
}

// ListByExam lists recorded results for an exam.
func (r *ResultRepository) ListByExam(ctx context.Context, examID int64) ([]models.ResitResult, error) {
	sql, args, err := r.sb.Select("student_id", "resit_exam_id", "grade", "grade_letter", "submitted_at").
		From("resit_exam_enroll").
		Where(squirrel.Eq{"resit_exam_id": examID}).
		OrderBy("submitted_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list results query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing results for exam %d: %w", examID, err)
	}
	defer rows.Close()

	var results []models.ResitResult
	for rows.Next() {
		var res models.ResitResult
		if err := rows.Scan(&res.StudentID, &res.ResitExamID, &res.Grade, &res.GradeLetter, &res.SubmittedAt); err != nil {
			return nil, fmt.Errorf("error scanning result row: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// DeleteByExamTx removes every result row of an exam inside a transaction.
func (r *ResultRepository) DeleteByExamTx(ctx context.Context, tx pgx.Tx, examID int64) error {
	sql, args, err := r.sb.Delete("resit_exam_enroll").
		Where(squirrel.Eq{"resit_exam_id": examID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete results by exam query: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting results of exam %d: %w", examID, err)
	}
	return nil
}

// DeleteByStudentTx removes every result row of a student inside a transaction.
func (r *ResultRepository) DeleteByStudentTx(ctx context.Context, tx pgx.Tx, studentID int64) error {
	sql, args, err := r.sb.Delete("resit_exam_enroll").
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete results by student query: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting results of student %d: %w", studentID, err)
	}
	return nil
}
