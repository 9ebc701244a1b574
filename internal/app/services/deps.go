package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/emre/resitdesk/internal/app/models"
	"github.com/emre/resitdesk/internal/db"
)

// The services consume narrow store interfaces rather than the concrete
// repositories so tests can substitute in-memory fakes. The pgx.Tx parameter
// on *Tx methods is whatever transaction the surrounding TxManager opened.

// TxManager opens a transaction around fn. Implemented by db.PostgresDB.
type TxManager interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// UserStore is the slice of UserRepository the services need.
type UserStore interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	DeleteTx(ctx context.Context, tx pgx.Tx, id int64) error
}

// CourseStore is the slice of CourseRepository the services need.
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	AssignInstructor(ctx context.Context, courseID, instructorID int64) error
	AddStudentTx(ctx context.Context, tx pgx.Tx, courseID, studentID int64) error
	IsStudentEnrolled(ctx context.Context, courseID, studentID int64) (bool, error)
	ListCourseIDsByInstructorTx(ctx context.Context, tx pgx.Tx, instructorID int64) ([]int64, error)
	ClearInstructorTx(ctx context.Context, tx pgx.Tx, instructorID int64) error
	DeleteStudentsTx(ctx context.Context, tx pgx.Tx, courseID int64) error
	RemoveStudentTx(ctx context.Context, tx pgx.Tx, studentID int64) error
	DeleteTx(ctx context.Context, tx pgx.Tx, id int64) error
}

// GradeStore is the slice of GradeRepository the services need.
type GradeStore interface {
	Get(ctx context.Context, studentID, courseID int64) (*models.GradeRecord, error)
	Upsert(ctx context.Context, rec *models.GradeRecord) error
	UpsertTx(ctx context.Context, tx pgx.Tx, rec *models.GradeRecord) error
	DeleteByCourseTx(ctx context.Context, tx pgx.Tx, courseID int64) error
	DeleteByStudentTx(ctx context.Context, tx pgx.Tx, studentID int64) error
}

// ResitExamStore is the slice of ResitExamRepository the services need.
type ResitExamStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, exam *models.ResitExam) (int64, error)
	ReplaceLettersTx(ctx context.Context, tx pgx.Tx, examID int64, letters []models.LetterGrade) error
	GetLetters(ctx context.Context, examID int64) ([]models.LetterGrade, error)
	GetByID(ctx context.Context, id int64) (*models.ResitExam, error)
	GetByCourseID(ctx context.Context, courseID int64) (*models.ResitExam, error)
	GetByIDForUpdateTx(ctx context.Context, tx pgx.Tx, id int64) (*models.ResitExam, error)
	UpdateScheduleTx(ctx context.Context, tx pgx.Tx, id int64, examDate, deadline time.Time, location string) error
	UpdateMetaTx(ctx context.Context, tx pgx.Tx, id int64, name, department string) error
	ListIDsByCreatorTx(ctx context.Context, tx pgx.Tx, instructorID int64) ([]int64, error)
	GetIDByCourseTx(ctx context.Context, tx pgx.Tx, courseID int64) (int64, error)
	DeleteLettersTx(ctx context.Context, tx pgx.Tx, examID int64) error
	DeleteTx(ctx context.Context, tx pgx.Tx, id int64) error
}

// EnrollmentStore is the slice of EnrollmentRepository the services need.
type EnrollmentStore interface {
	Create(ctx context.Context, enrollment *models.Enrollment) (int64, error)
	Delete(ctx context.Context, studentID, examID int64) error
	Exists(ctx context.Context, studentID, examID int64) (bool, error)
	ListByExam(ctx context.Context, examID int64) ([]models.Enrollment, error)
	ListStudentIDsByExamTx(ctx context.Context, tx pgx.Tx, examID int64) ([]int64, error)
	DeleteByExamTx(ctx context.Context, tx pgx.Tx, examID int64) error
	DeleteByStudentTx(ctx context.Context, tx pgx.Tx, studentID int64) error
}

// ApplicationStore is the slice of ApplicationRepository the services need.
type ApplicationStore interface {
	EnsureTx(ctx context.Context, tx pgx.Tx, studentID, examID int64) error
	DeleteByExamTx(ctx context.Context, tx pgx.Tx, examID int64) error
	DeleteByStudentTx(ctx context.Context, tx pgx.Tx, studentID int64) error
}

// ResultStore is the slice of ResultRepository the services need.
type ResultStore interface {
	UpsertTx(ctx context.Context, tx pgx.Tx, result *models.ResitResult) error
	CountByExam(ctx context.Context, examID int64) (int, error)
	ListByExam(ctx context.Context, examID int64) ([]models.ResitResult, error)
	DeleteByExamTx(ctx context.Context, tx pgx.Tx, examID int64) error
	DeleteByStudentTx(ctx context.Context, tx pgx.Tx, studentID int64) error
}

// NotificationStore is the slice of NotificationRepository the services need.
type NotificationStore interface {
	CreateBatch(ctx context.Context, notifications []models.Notification) error
	ListByUser(ctx context.Context, userID int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
}

// Authorizer answers ownership questions. Implemented by auth.AuthorizationService.
type Authorizer interface {
	ValidateCourseOwnership(ctx context.Context, instructorID, courseID int64) error
	ValidateExamOwnership(ctx context.Context, instructorID, examID int64) (*models.ResitExam, error)
}
