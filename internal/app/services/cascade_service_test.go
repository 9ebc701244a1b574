package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emre/resitdesk/internal/app/models"
	"github.com/emre/resitdesk/internal/pkg/apperrors"
)

type cascadeFixture struct {
	users        *fakeUserStore
	courses      *fakeCourseStore
	grades       *fakeGradeStore
	exams        *fakeExamStore
	enrollments  *fakeEnrollmentStore
	applications *fakeApplicationStore
	results      *fakeResultStore
	tx           *fakeTxManager
	svc          *CascadeService

	instructorID int64
	studentID    int64
	courseID     int64
	examID       int64
}

// newCascadeFixture wires a populated world: one course with an instructor
// and a student member, a resit exam with an enrollment, an application, a
// result and a ledger entry.
func newCascadeFixture(t *testing.T) *cascadeFixture {
	t.Helper()
	f := &cascadeFixture{
		users:        newFakeUserStore(),
		courses:      newFakeCourseStore(),
		grades:       newFakeGradeStore(),
		exams:        newFakeExamStore(),
		enrollments:  newFakeEnrollmentStore(),
		applications: newFakeApplicationStore(),
		results:      newFakeResultStore(),
		tx:           &fakeTxManager{},
	}

	instructor := f.users.add(models.User{Email: "inst@school.edu.tr", RoleType: models.RoleInstructor})
	student := f.users.add(models.User{Email: "stud@school.edu.tr", RoleType: models.RoleStudent})
	f.instructorID = instructor.ID
	f.studentID = student.ID

	course := f.courses.add(models.Course{Name: "Algorithms", Department: "CS", InstructorID: &instructor.ID, CreatedBy: 99})
	f.courseID = course.ID
	f.courses.members[pairKey{course.ID, student.ID}] = true
	f.grades.set(models.GradeRecord{StudentID: student.ID, CourseID: course.ID, Grade: 30, GradeLetter: models.LetterFF})

	exam := f.exams.add(models.ResitExam{
		CourseID:       course.ID,
		Name:           "Resit",
		CreatedBy:      instructor.ID,
		LettersAllowed: []models.LetterGrade{models.LetterFF},
	})
	f.examID = exam.ID
	f.enrollments.add(student.ID, exam.ID)
	f.applications.rows[pairKey{student.ID, exam.ID}] = true
	f.results.rows[pairKey{student.ID, exam.ID}] = &models.ResitResult{StudentID: student.ID, ResitExamID: exam.ID, Grade: 60, GradeLetter: models.LetterDC}

	authz := &fakeAuthorizer{courses: f.courses, exams: f.exams}
	f.svc = NewCascadeService(f.users, f.courses, f.grades, f.exams, f.enrollments, f.applications, f.results, authz, f.tx)
	return f
}

func TestDeleteResitExam_RemovesAllReferences(t *testing.T) {
	f := newCascadeFixture(t)

	require.NoError(t, f.svc.DeleteResitExam(context.Background(), f.instructorID, f.examID))

	assert.Empty(t, f.results.rows)
	assert.Empty(t, f.applications.rows)
	assert.Empty(t, f.enrollments.rows)
	assert.Empty(t, f.exams.letters)
	assert.Empty(t, f.exams.exams)

	// The course and its ledger survive an exam teardown.
	assert.Len(t, f.courses.courses, 1)
	assert.Len(t, f.grades.grades, 1)
	assert.Equal(t, 1, f.tx.calls)
}

func TestDeleteResitExam_NotOwner(t *testing.T) {
	f := newCascadeFixture(t)

	err := f.svc.DeleteResitExam(context.Background(), f.instructorID+100, f.examID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Len(t, f.exams.exams, 1)
}

func TestDeleteResitExam_StepFailureSurfacesAsIntegrityFailure(t *testing.T) {
	f := newCascadeFixture(t)
	f.results.deleteExamErr = errors.New("disk on fire")

	err := f.svc.DeleteResitExam(context.Background(), f.instructorID, f.examID)
	assert.ErrorIs(t, err, apperrors.ErrIntegrityFailure)
}

func TestDeleteCourse_TearsDownExamToo(t *testing.T) {
	f := newCascadeFixture(t)

	require.NoError(t, f.svc.DeleteCourse(context.Background(), f.courseID))

	assert.Empty(t, f.exams.exams)
	assert.Empty(t, f.enrollments.rows)
	assert.Empty(t, f.applications.rows)
	assert.Empty(t, f.results.rows)
	assert.Empty(t, f.courses.members)
	assert.Empty(t, f.grades.grades)
	assert.Empty(t, f.courses.courses)
}

func TestDeleteCourse_WithoutExam(t *testing.T) {
	f := newCascadeFixture(t)
	course := f.courses.add(models.Course{Name: "Databases", Department: "CS"})

	require.NoError(t, f.svc.DeleteCourse(context.Background(), course.ID))
	_, err := f.courses.GetByID(context.Background(), course.ID)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	// The unrelated course's exam is untouched.
	assert.Len(t, f.exams.exams, 1)
}

func TestDeleteCourse_NotFound(t *testing.T) {
	f := newCascadeFixture(t)

	err := f.svc.DeleteCourse(context.Background(), 404)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestDeleteUser_Student(t *testing.T) {
	f := newCascadeFixture(t)

	require.NoError(t, f.svc.DeleteUser(context.Background(), f.studentID))

	assert.Empty(t, f.enrollments.rows)
	assert.Empty(t, f.applications.rows)
	assert.Empty(t, f.results.rows)
	assert.Empty(t, f.courses.members)
	assert.Empty(t, f.grades.grades)
	_, err := f.users.GetByID(context.Background(), f.studentID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	// Course, exam and instructor survive.
	assert.Len(t, f.courses.courses, 1)
	assert.Len(t, f.exams.exams, 1)
}

func TestDeleteUser_InstructorTakesExamsDown(t *testing.T) {
	f := newCascadeFixture(t)

	require.NoError(t, f.svc.DeleteUser(context.Background(), f.instructorID))

	assert.Empty(t, f.exams.exams)
	assert.Empty(t, f.enrollments.rows)
	assert.Empty(t, f.results.rows)
	_, err := f.users.GetByID(context.Background(), f.instructorID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	// The course stays but is detached from the deleted instructor.
	course, err := f.courses.GetByID(context.Background(), f.courseID)
	require.NoError(t, err)
	assert.Nil(t, course.InstructorID)
}

func TestDeleteUser_SecretaryRefused(t *testing.T) {
	f := newCascadeFixture(t)
	secretary := f.users.add(models.User{Email: "sec@school.edu.tr", RoleType: models.RoleSecretary})

	err := f.svc.DeleteUser(context.Background(), secretary.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, getErr := f.users.GetByID(context.Background(), secretary.ID)
	assert.NoError(t, getErr)
}

func TestDeleteUser_NotFound(t *testing.T) {
	f := newCascadeFixture(t)

	err := f.svc.DeleteUser(context.Background(), 404)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
