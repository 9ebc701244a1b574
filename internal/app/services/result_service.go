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

// ResultService records resit outcomes and mirrors them into the grade
// ledger so the student's course standing reflects the resit.
type ResultService struct {
	exams        ResitExamStore
	enrollments  EnrollmentStore
	applications ApplicationStore
	results      ResultStore
	grades       GradeStore
	authz        Authorizer
	tx           TxManager
}

// NewResultService creates a new ResultService
func NewResultService(exams ResitExamStore, enrollments EnrollmentStore, applications ApplicationStore, results ResultStore, grades GradeStore, authz Authorizer, tx TxManager) *ResultService {
	return &ResultService{
		exams:        exams,
		enrollments:  enrollments,
		applications: applications,
		results:      results,
		grades:       grades,
		authz:        authz,
		tx:           tx,
	}
}

// RecordOne records a single student's resit outcome on an exam owned by the
// calling instructor.
func (s *ResultService) RecordOne(ctx context.Context, instructorID, examID int64, req *dto.RecordResultRequest) error {
	exam, err := s.authz.ValidateExamOwnership(ctx, instructorID, examID)
	if err != nil {
		return err
	}
	return s.record(ctx, exam, req)
}

// RecordAll records a batch of outcomes with per-item results. A bad entry is
// reported and skipped, never aborting the rest of the batch, and resubmitting
// the same batch upserts identical rows, so retries are safe.
func (s *ResultService) RecordAll(ctx context.Context, instructorID, examID int64, req *dto.BulkRecordResultsRequest) (*dto.BulkRecordResultsResponse, error) {
	exam, err := s.authz.ValidateExamOwnership(ctx, instructorID, examID)
	if err != nil {
		return nil, err
	}

	resp := &dto.BulkRecordResultsResponse{Outcomes: make([]dto.ResultOutcome, 0, len(req.Results))}
	for i := range req.Results {
		item := &req.Results[i]
		outcome := dto.ResultOutcome{StudentID: item.StudentID, Success: true}
		if err := s.record(ctx, exam, item); err != nil {
			outcome.Success = false
			outcome.Reason = reasonFor(err)
			resp.Failed++
		} else {
			resp.Recorded++
		}
		resp.Outcomes = append(resp.Outcomes, outcome)
	}

	logger.Info().Int64("examID", examID).Int("recorded", resp.Recorded).Int("failed", resp.Failed).Msg("Bulk results processed")
	return resp, nil
}

// record writes one outcome in its own transaction: the implicit application
// scaffold, the result row and the ledger mirror land together or not at all.
func (s *ResultService) record(ctx context.Context, exam *models.ResitExam, req *dto.RecordResultRequest) error {
	letter := models.LetterGrade(req.GradeLetter)
	if !letter.IsValid() {
		return apperrors.ErrInvalidGrade
	}
	if req.Grade < 0 || req.Grade > 100 {
		return apperrors.ErrInvalidGrade
	}

	enrolled, err := s.enrollments.Exists(ctx, req.StudentID, exam.ID)
	if err != nil {
		return err
	}
	if !enrolled {
		return apperrors.ErrNotEnrolled
	}

	return s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.applications.EnsureTx(ctx, tx, req.StudentID, exam.ID); err != nil {
			return err
		}
		if err := s.results.UpsertTx(ctx, tx, &models.ResitResult{
			StudentID:   req.StudentID,
			ResitExamID: exam.ID,
			Grade:       req.Grade,
			GradeLetter: letter,
		}); err != nil {
			return err
		}
		return s.grades.UpsertTx(ctx, tx, &models.GradeRecord{
			StudentID:   req.StudentID,
			CourseID:    exam.CourseID,
			Grade:       req.Grade,
			GradeLetter: letter,
		})
	})
}

// reasonFor renders a short machine-stable reason for a per-item failure.
func reasonFor(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrNotEnrolled):
		return "student is not enrolled in this resit exam"
	case errors.Is(err, apperrors.ErrInvalidGrade):
		return "invalid grade or letter"
	default:
		return "internal error while recording result"
	}
}
