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

// ResitExamRepository handles resit exam database operations, including the
// letters-allowed set stored in resit_exam_letters_allowed.
type ResitExamRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewResitExamRepository creates a new ResitExamRepository
func NewResitExamRepository(db *pgxpool.Pool) *ResitExamRepository {
	return &ResitExamRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var examColumns = []string{
	"id", "course_id", "name", "department", "created_by",
	"exam_date", "deadline", "location", "created_at", "updated_at",
}

func scanExam(row pgx.Row) (*models.ResitExam, error) {
	var exam models.ResitExam
	err := row.Scan(
		&exam.ID, &exam.CourseID, &exam.Name, &exam.Department, &exam.CreatedBy,
		&exam.ExamDate, &exam.Deadline, &exam.Location, &exam.CreatedAt, &exam.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

// CreateTx inserts a resit exam inside a transaction and returns its id.
// The UNIQUE constraint on course_id is the authority on the one-exam-per-course
// invariant; a violation surfaces as ErrResitExamExists.
func (r *ResitExamRepository) CreateTx(ctx context.Context, tx pgx.Tx, exam *models.ResitExam) (int64, error) {
	sql, args, err := r.sb.Insert("resit_exams").
		Columns("course_id", "name", "department", "created_by").
		Values(exam.CourseID, exam.Name, exam.Department, exam.CreatedBy).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create resit exam query: %w", err)
	}

	var id int64
	if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "resit_exams_course_id_key") {
			return 0, apperrors.ErrResitExamExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("courseID", exam.CourseID).Msg("Error inserting resit exam")
		return 0, fmt.Errorf("error inserting resit exam: %w", err)
	}

	logger.Info().Int64("resitExamID", id).Int64("courseID", exam.CourseID).Msg("Resit exam created")
	return id, nil
}

// ReplaceLettersTx replaces the letters-allowed set inside a transaction.
func (r *ResitExamRepository) ReplaceLettersTx(ctx context.Context, tx pgx.Tx, examID int64, letters []models.LetterGrade) error {
	delSQL, delArgs, err := r.sb.Delete("resit_exam_letters_allowed").
		Where(squirrel.Eq{"resit_exam_id": examID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete letters query: %w", err)
	}
	if _, err := tx.Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("error clearing letters for exam %d: %w", examID, err)
	}

	insert := r.sb.Insert("resit_exam_letters_allowed").Columns("resit_exam_id", "letter")
	for _, letter := range letters {
		insert = insert.Values(examID, letter)
	}
	insSQL, insArgs, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert letters query: %w", err)
	}
	if _, err := tx.Exec(ctx, insSQL, insArgs...); err != nil {
		return fmt.Errorf("error inserting letters for exam %d: %w", examID, err)
	}
	return nil
}

// GetLetters loads the letters-allowed set for an exam.
func (r *ResitExamRepository) GetLetters(ctx context.Context, examID int64) ([]models.LetterGrade, error) {
	sql, args, err := r.sb.Select("letter").
		From("resit_exam_letters_allowed").
		Where(squirrel.Eq{"resit_exam_id": examID}).
		OrderBy("letter").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get letters query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying letters for exam %d: %w", examID, err)
	}
	defer rows.Close()

	var letters []models.LetterGrade
	for rows.Next() {
		var letter models.LetterGrade
		if err := rows.Scan(&letter); err != nil {
			return nil, fmt.Errorf("error scanning letter: %w", err)
		}
		letters = append(letters, letter)
	}
	return letters, rows.Err()
}

// GetByID retrieves a resit exam by id, letters included.
func (r *ResitExamRepository) GetByID(ctx context.Context, id int64) (*models.ResitExam, error) {
	sql, args, err := r.sb.Select(examColumns...).
		From("resit_exams").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get resit exam query: %w", err)
	}

	exam, err := scanExam(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResitExamNotFound
		}
		return nil, fmt.Errorf("error querying resit exam ID=%d: %w", id, err)
	}

	exam.LettersAllowed, err = r.GetLetters(ctx, id)
	if err != nil {
		return nil, err
	}
	return exam, nil
}

// GetByCourseID retrieves the course's current resit exam, letters included.
// This lookup is the course's "current resit exam" reference; there is no
// stored back-pointer to keep in sync.
func (r *ResitExamRepository) GetByCourseID(ctx context.Context, courseID int64) (*models.ResitExam, error) {
	sql, args, err := r.sb.Select(examColumns...).
		From("resit_exams").
		Where(squirrel.Eq{"course_id": courseID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get resit exam by course query: %w", err)
	}

	exam, err := scanExam(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResitExamNotFound
		}
		return nil, fmt.Errorf("error querying resit exam for course=%d: %w", courseID, err)
	}

	exam.LettersAllowed, err = r.GetLetters(ctx, exam.ID)
	if err != nil {
		return nil, err
	}
	return exam, nil
}

// GetByIDForUpdateTx retrieves the exam with a row-level lock, serializing
// concurrent confirm/delete on the same exam id.
func (r *ResitExamRepository) GetByIDForUpdateTx(ctx context.Context, tx pgx.Tx, id int64) (*models.ResitExam, error) {
	sql, args, err := r.sb.Select(examColumns...).
		From("resit_exams").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build locked get resit exam query: %w", err)
	}

	exam, err := scanExam(tx.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResitExamNotFound
		}
		return nil, fmt.Errorf("error locking resit exam ID=%d: %w", id, err)
	}
	return exam, nil
}

// UpdateScheduleTx attaches the confirmed schedule inside a transaction.
func (r *ResitExamRepository) UpdateScheduleTx(ctx context.Context, tx pgx.Tx, id int64, examDate, deadline time.Time, location string) error {
	sql, args, err := r.sb.Update("resit_exams").
		SetMap(map[string]interface{}{
			"exam_date":  examDate,
			"deadline":   deadline,
			"location":   location,
			"updated_at": time.Now(),
		}).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build confirm resit exam query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error confirming resit exam ID=%d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResitExamNotFound
	}
	return nil
}

// UpdateMetaTx updates name and department inside a transaction.
func (r *ResitExamRepository) UpdateMetaTx(ctx context.Context, tx pgx.Tx, id int64, name, department string) error {
	sql, args, err := r.sb.Update("resit_exams").
		SetMap(map[string]interface{}{
			"name":       name,
			"department": department,
			"updated_at": time.Now(),
		}).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update resit exam query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating resit exam ID=%d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResitExamNotFound
	}
	return nil
}

// ListIDsByCreatorTx lists exams created by an instructor, inside a transaction.
func (r *ResitExamRepository) ListIDsByCreatorTx(ctx context.Context, tx pgx.Tx, instructorID int64) ([]int64, error) {
	sql, args, err := r.sb.Select("id").
		From("resit_exams").
		Where(squirrel.Eq{"created_by": instructorID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list exams by creator query: %w", err)
	}

	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing exams by creator: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning exam id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetIDByCourseTx resolves a course's exam id with a row lock, for cascades
// entered from the course side.
func (r *ResitExamRepository) GetIDByCourseTx(ctx context.Context, tx pgx.Tx, courseID int64) (int64, error) {
	sql, args, err := r.sb.Select("id").
		From("resit_exams").
		Where(squirrel.Eq{"course_id": courseID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build get exam id by course query: %w", err)
	}

	var id int64
	if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrResitExamNotFound
		}
		return 0, fmt.Errorf("error resolving exam for course %d: %w", courseID, err)
	}
	return id, nil
}

// DeleteLettersTx removes the letters-allowed rows inside a transaction.
func (r *ResitExamRepository) DeleteLettersTx(ctx context.Context, tx pgx.Tx, examID int64) error {
	sql, args, err := r.sb.Delete("resit_exam_letters_allowed").
		Where(squirrel.Eq{"resit_exam_id": examID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete letters query: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting letters of exam %d: %w", examID, err)
	}
	return nil
}

// DeleteTx removes the exam row itself inside a transaction.
func (r *ResitExamRepository) DeleteTx(ctx context.Context, tx pgx.Tx, id int64) error {
	sql, args, err := r.sb.Delete("resit_exams").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete resit exam query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting resit exam ID=%d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResitExamNotFound
	}

	logger.Info().Int64("resitExamID", id).Msg("Resit exam deleted")
	return nil
}
