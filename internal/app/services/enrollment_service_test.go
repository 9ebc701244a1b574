package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emre/resitdesk/internal/app/models"
	"github.com/emre/resitdesk/internal/pkg/apperrors"
)

type enrollmentFixture struct {
	courses     *fakeCourseStore
	grades      *fakeGradeStore
	exams       *fakeExamStore
	enrollments *fakeEnrollmentStore
	svc         *EnrollmentService

	instructorID int64
	courseID     int64
	examID       int64
	studentID    int64
	now          time.Time
}

func newEnrollmentFixture(t *testing.T) *enrollmentFixture {
	t.Helper()
	f := &enrollmentFixture{
		courses:      newFakeCourseStore(),
		grades:       newFakeGradeStore(),
		exams:        newFakeExamStore(),
		enrollments:  newFakeEnrollmentStore(),
		instructorID: 7,
		studentID:    42,
		now:          time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC),
	}

	course := f.courses.add(models.Course{Name: "Algorithms", Department: "CS", InstructorID: &f.instructorID})
	f.courseID = course.ID

	deadline := f.now.Add(48 * time.Hour)
	examDate := f.now.Add(96 * time.Hour)
	exam := f.exams.add(models.ResitExam{
		CourseID:       f.courseID,
		Name:           "Algorithms Resit",
		CreatedBy:      f.instructorID,
		ExamDate:       &examDate,
		Deadline:       &deadline,
		LettersAllowed: []models.LetterGrade{models.LetterFF, models.LetterFD},
	})
	f.examID = exam.ID

	// Student is a course member with a failing grade by default.
	f.courses.members[pairKey{f.courseID, f.studentID}] = true
	f.grades.set(models.GradeRecord{StudentID: f.studentID, CourseID: f.courseID, Grade: 30, GradeLetter: models.LetterFF})

	authz := &fakeAuthorizer{courses: f.courses, exams: f.exams}
	f.svc = NewEnrollmentService(f.exams, f.courses, f.grades, f.enrollments, authz)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func TestEnroll_EligibleStudent(t *testing.T) {
	f := newEnrollmentFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Enroll(ctx, f.studentID, f.examID))

	enrolled, _ := f.enrollments.Exists(ctx, f.studentID, f.examID)
	assert.True(t, enrolled)
}

func TestEnroll_DuplicateRejected(t *testing.T) {
	f := newEnrollmentFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Enroll(ctx, f.studentID, f.examID))
	err := f.svc.Enroll(ctx, f.studentID, f.examID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyEnrolled)
}

func TestEnroll_NotCourseMember(t *testing.T) {
	f := newEnrollmentFixture(t)
	delete(f.courses.members, pairKey{f.courseID, f.studentID})

	err := f.svc.Enroll(context.Background(), f.studentID, f.examID)
	assert.ErrorIs(t, err, apperrors.ErrNotCourseMember)
}

func TestEnroll_LetterNotAllowed(t *testing.T) {
	f := newEnrollmentFixture(t)
	f.grades.set(models.GradeRecord{StudentID: f.studentID, CourseID: f.courseID, Grade: 75, GradeLetter: models.LetterCC})

	err := f.svc.Enroll(context.Background(), f.studentID, f.examID)
	assert.ErrorIs(t, err, apperrors.ErrNotEligible)
}

func TestEnroll_NoGradeRecorded(t *testing.T) {
	f := newEnrollmentFixture(t)
	delete(f.grades.grades, pairKey{f.studentID, f.courseID})

	err := f.svc.Enroll(context.Background(), f.studentID, f.examID)
	assert.ErrorIs(t, err, apperrors.ErrNotEligible)
}

func TestEnroll_DeadlinePassed(t *testing.T) {
	f := newEnrollmentFixture(t)
	f.now = f.now.Add(72 * time.Hour) // past the 48h deadline

	err := f.svc.Enroll(context.Background(), f.studentID, f.examID)
	assert.ErrorIs(t, err, apperrors.ErrDeadlinePassed)
}

func TestEnroll_ExamNotFound(t *testing.T) {
	f := newEnrollmentFixture(t)

	err := f.svc.Enroll(context.Background(), f.studentID, 404)
	assert.ErrorIs(t, err, apperrors.ErrResitExamNotFound)
}

func TestEnroll_UnconfirmedExamHasNoDeadline(t *testing.T) {
	f := newEnrollmentFixture(t)
	exam := f.exams.exams[f.examID]
	exam.ExamDate = nil
	exam.Deadline = nil

	// Enrollment before confirmation is allowed; the deadline gate only
	// exists once a secretary sets one.
	assert.NoError(t, f.svc.Enroll(context.Background(), f.studentID, f.examID))
}

func TestUnenroll(t *testing.T) {
	f := newEnrollmentFixture(t)
	ctx := context.Background()
	f.enrollments.add(f.studentID, f.examID)

	require.NoError(t, f.svc.Unenroll(ctx, f.studentID, f.examID))
	enrolled, _ := f.enrollments.Exists(ctx, f.studentID, f.examID)
	assert.False(t, enrolled)
}

func TestUnenroll_AfterDeadline(t *testing.T) {
	f := newEnrollmentFixture(t)
	f.enrollments.add(f.studentID, f.examID)
	f.now = f.now.Add(72 * time.Hour)

	err := f.svc.Unenroll(context.Background(), f.studentID, f.examID)
	assert.ErrorIs(t, err, apperrors.ErrDeadlinePassed)

	enrolled, _ := f.enrollments.Exists(context.Background(), f.studentID, f.examID)
	assert.True(t, enrolled)
}

func TestUnenroll_NotEnrolled(t *testing.T) {
	f := newEnrollmentFixture(t)

	err := f.svc.Unenroll(context.Background(), f.studentID, f.examID)
	assert.ErrorIs(t, err, apperrors.ErrNotEnrolled)
}

func TestListByExam_Authorization(t *testing.T) {
	f := newEnrollmentFixture(t)
	ctx := context.Background()
	f.enrollments.add(f.studentID, f.examID)

	// Owning instructor sees the roster.
	list, err := f.svc.ListByExam(ctx, f.instructorID, models.RoleInstructor, f.examID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// Another instructor does not.
	_, err = f.svc.ListByExam(ctx, f.instructorID+1, models.RoleInstructor, f.examID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// A secretary sees any exam's roster.
	list, err = f.svc.ListByExam(ctx, 1000, models.RoleSecretary, f.examID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
