package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ApplicationRepository handles the resit_exam_application scaffold rows that
// precede recorded results.
type ApplicationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// EnsureTx creates the scaffold row for the pair if it does not exist yet.
func (r *ApplicationRepository) EnsureTx(ctx context.Context, tx pgx.Tx, studentID, examID int64) error {
	sql, args, err := r.sb.Insert("resit_exam_application").
		Columns("student_id", "resit_exam_id", "status").
		Values(studentID, examID, "GRADED").
		Suffix("ON CONFLICT (student_id, resit_exam_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build ensure application query: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error ensuring application student=%d exam=%d: %w", studentID, examID, err)
	}
	return nil
}

// DeleteByExamTx removes every application row of an exam inside a transaction.
func (r *ApplicationRepository) DeleteByExamTx(ctx context.Context, tx pgx.Tx, examID int64) error {
	sql, args, err := r.sb.Delete("resit_exam_application").
		Where(squirrel.Eq{"resit_exam_id": examID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete applications by exam query: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting applications of exam %d: %w", examID, err)
	}
	return nil
}

// DeleteByStudentTx removes every application row of a student inside a transaction.
func (r *ApplicationRepository) DeleteByStudentTx(ctx context.Context, tx pgx.Tx, studentID int64) error {
	sql, args, err := r.sb.Delete("resit_exam_application").
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete applications by student query: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting applications of student %d: %w", studentID, err)
	}
	return nil
}
