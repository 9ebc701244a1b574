package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emre/resitdesk/internal/app/models"
	"github.com/emre/resitdesk/internal/app/models/dto"
	"github.com/emre/resitdesk/internal/pkg/apperrors"
)

type resultFixture struct {
	courses      *fakeCourseStore
	grades       *fakeGradeStore
	exams        *fakeExamStore
	enrollments  *fakeEnrollmentStore
	applications *fakeApplicationStore
	results      *fakeResultStore
	tx           *fakeTxManager
	svc          *ResultService

	instructorID int64
	courseID     int64
	examID       int64
}

func newResultFixture(t *testing.T) *resultFixture {
	t.Helper()
	f := &resultFixture{
		courses:      newFakeCourseStore(),
		grades:       newFakeGradeStore(),
		exams:        newFakeExamStore(),
		enrollments:  newFakeEnrollmentStore(),
		applications: newFakeApplicationStore(),
		results:      newFakeResultStore(),
		tx:           &fakeTxManager{},
		instructorID: 7,
	}

	course := f.courses.add(models.Course{Name: "Algorithms", Department: "CS", InstructorID: &f.instructorID})
	f.courseID = course.ID
	exam := f.exams.add(models.ResitExam{CourseID: f.courseID, Name: "Resit", CreatedBy: f.instructorID})
	f.examID = exam.ID

	authz := &fakeAuthorizer{courses: f.courses, exams: f.exams}
	f.svc = NewResultService(f.exams, f.enrollments, f.applications, f.results, f.grades, authz, f.tx)
	return f
}

func (f *resultFixture) enrollStudent(studentID int64) {
	f.enrollments.add(studentID, f.examID)
	f.grades.set(models.GradeRecord{StudentID: studentID, CourseID: f.courseID, Grade: 30, GradeLetter: models.LetterFF})
}

func TestRecordOne_MirrorsIntoGradeLedger(t *testing.T) {
	f := newResultFixture(t)
	ctx := context.Background()
	f.enrollStudent(42)

	err := f.svc.RecordOne(ctx, f.instructorID, f.examID, &dto.RecordResultRequest{
		StudentID:   42,
		Grade:       65,
		GradeLetter: "DC",
	})
	require.NoError(t, err)

	// Result row written.
	res := f.results.rows[pairKey{42, f.examID}]
	require.NotNil(t, res)
	assert.Equal(t, 65, res.Grade)
	assert.Equal(t, models.LetterDC, res.GradeLetter)

	// Application scaffold created implicitly.
	assert.True(t, f.applications.rows[pairKey{42, f.examID}])

	// Ledger mirror: the course grade now reflects the resit outcome.
	grade, err := f.grades.Get(ctx, 42, f.courseID)
	require.NoError(t, err)
	assert.Equal(t, 65, grade.Grade)
	assert.Equal(t, models.LetterDC, grade.GradeLetter)
}

func TestRecordOne_NotEnrolled(t *testing.T) {
	f := newResultFixture(t)

	err := f.svc.RecordOne(context.Background(), f.instructorID, f.examID, &dto.RecordResultRequest{
		StudentID:   42,
		Grade:       65,
		GradeLetter: "DC",
	})
	assert.ErrorIs(t, err, apperrors.ErrNotEnrolled)
	assert.Empty(t, f.results.rows)
}

func TestRecordOne_NotExamOwner(t *testing.T) {
	f := newResultFixture(t)
	f.enrollStudent(42)

	err := f.svc.RecordOne(context.Background(), f.instructorID+1, f.examID, &dto.RecordResultRequest{
		StudentID:   42,
		Grade:       65,
		GradeLetter: "DC",
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestRecordOne_InvalidGrade(t *testing.T) {
	f := newResultFixture(t)
	f.enrollStudent(42)

	err := f.svc.RecordOne(context.Background(), f.instructorID, f.examID, &dto.RecordResultRequest{
		StudentID:   42,
		Grade:       65,
		GradeLetter: "ZZ",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidGrade)

	err = f.svc.RecordOne(context.Background(), f.instructorID, f.examID, &dto.RecordResultRequest{
		StudentID:   42,
		Grade:       120,
		GradeLetter: "DC",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidGrade)
}

func TestRecordAll_PerItemOutcomes(t *testing.T) {
	f := newResultFixture(t)
	ctx := context.Background()
	f.enrollStudent(41)
	f.enrollStudent(42)
	// 43 never enrolled.

	resp, err := f.svc.RecordAll(ctx, f.instructorID, f.examID, &dto.BulkRecordResultsRequest{
		Results: []dto.RecordResultRequest{
			{StudentID: 41, Grade: 55, GradeLetter: "DD"},
			{StudentID: 43, Grade: 60, GradeLetter: "DC"},
			{StudentID: 42, Grade: 70, GradeLetter: "CC"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Recorded)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Outcomes, 3)

	assert.True(t, resp.Outcomes[0].Success)
	assert.False(t, resp.Outcomes[1].Success)
	assert.Equal(t, int64(43), resp.Outcomes[1].StudentID)
	assert.NotEmpty(t, resp.Outcomes[1].Reason)
	assert.True(t, resp.Outcomes[2].Success)

	// The failed entry did not block the later ones.
	assert.NotNil(t, f.results.rows[pairKey{42, f.examID}])
	assert.Nil(t, f.results.rows[pairKey{43, f.examID}])
}

func TestRecordAll_IdempotentResubmission(t *testing.T) {
	f := newResultFixture(t)
	ctx := context.Background()
	f.enrollStudent(41)

	req := &dto.BulkRecordResultsRequest{
		Results: []dto.RecordResultRequest{{StudentID: 41, Grade: 55, GradeLetter: "DD"}},
	}

	first, err := f.svc.RecordAll(ctx, f.instructorID, f.examID, req)
	require.NoError(t, err)
	second, err := f.svc.RecordAll(ctx, f.instructorID, f.examID, req)
	require.NoError(t, err)

	assert.Equal(t, first.Recorded, second.Recorded)
	assert.Len(t, f.results.rows, 1)

	grade, _ := f.grades.Get(ctx, 41, f.courseID)
	assert.Equal(t, 55, grade.Grade)
	assert.Equal(t, models.LetterDD, grade.GradeLetter)
}
