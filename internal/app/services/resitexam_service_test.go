package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emre/resitdesk/internal/app/models"
	"github.com/emre/resitdesk/internal/app/models/dto"
	"github.com/emre/resitdesk/internal/pkg/apperrors"
)

type examFixture struct {
	users       *fakeUserStore
	courses     *fakeCourseStore
	exams       *fakeExamStore
	enrollments *fakeEnrollmentStore
	results     *fakeResultStore
	dispatcher  *capturingDispatcher
	tx          *fakeTxManager
	svc         *ResitExamService

	instructorID int64
	courseID     int64
}

func newExamFixture(t *testing.T) *examFixture {
	t.Helper()
	f := &examFixture{
		users:       newFakeUserStore(),
		courses:     newFakeCourseStore(),
		exams:       newFakeExamStore(),
		enrollments: newFakeEnrollmentStore(),
		results:     newFakeResultStore(),
		dispatcher:  &capturingDispatcher{},
		tx:          &fakeTxManager{},
	}

	instructor := f.users.add(models.User{Email: "inst@school.edu.tr", FirstName: "Ada", LastName: "Hoca", RoleType: models.RoleInstructor})
	f.instructorID = instructor.ID
	course := f.courses.add(models.Course{Name: "Algorithms", Department: "CS", InstructorID: &instructor.ID, CreatedBy: 99})
	f.courseID = course.ID

	authz := &fakeAuthorizer{courses: f.courses, exams: f.exams}
	f.svc = NewResitExamService(f.exams, f.courses, f.enrollments, f.results, f.users, authz, f.dispatcher, f.tx)
	return f
}

func TestCreateResitExam(t *testing.T) {
	f := newExamFixture(t)
	ctx := context.Background()

	req := &dto.CreateResitExamRequest{
		CourseID:       f.courseID,
		Name:           "Algorithms Resit",
		Department:     "CS",
		LettersAllowed: []string{"FF", "FD"},
	}

	exam, err := f.svc.Create(ctx, f.instructorID, req)
	require.NoError(t, err)
	assert.NotZero(t, exam.ID)
	assert.Equal(t, f.courseID, exam.CourseID)

	letters, _ := f.exams.GetLetters(ctx, exam.ID)
	assert.Equal(t, []models.LetterGrade{models.LetterFF, models.LetterFD}, letters)

	// A course carries at most one resit exam.
	_, err = f.svc.Create(ctx, f.instructorID, req)
	assert.ErrorIs(t, err, apperrors.ErrResitExamExists)
}

func TestCreateResitExam_NotCourseInstructor(t *testing.T) {
	f := newExamFixture(t)
	otherInstructor := f.users.add(models.User{Email: "other@school.edu.tr", RoleType: models.RoleInstructor})

	_, err := f.svc.Create(context.Background(), otherInstructor.ID, &dto.CreateResitExamRequest{
		CourseID:       f.courseID,
		Name:           "Resit",
		Department:     "CS",
		LettersAllowed: []string{"FF"},
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestCreateResitExam_InvalidLetters(t *testing.T) {
	f := newExamFixture(t)

	_, err := f.svc.Create(context.Background(), f.instructorID, &dto.CreateResitExamRequest{
		CourseID:       f.courseID,
		Name:           "Resit",
		Department:     "CS",
		LettersAllowed: []string{"ZZ"},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidLetterSet)
}

func TestConfirmResitExam_ScheduleValidation(t *testing.T) {
	f := newExamFixture(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	exam := f.exams.add(models.ResitExam{CourseID: f.courseID, Name: "Resit", CreatedBy: f.instructorID})

	// Exam date in the past.
	err := f.svc.Confirm(ctx, exam.ID, &dto.ConfirmResitExamRequest{
		ExamDate: now.Add(-time.Hour),
		Deadline: now.Add(-2 * time.Hour),
		Location: "A1",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidSchedule)

	// Deadline not before exam date.
	err = f.svc.Confirm(ctx, exam.ID, &dto.ConfirmResitExamRequest{
		ExamDate: now.Add(24 * time.Hour),
		Deadline: now.Add(48 * time.Hour),
		Location: "A1",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidSchedule)

	assert.Empty(t, f.dispatcher.events)
}

func TestConfirmResitExam_NotifiesStudentsAndInstructor(t *testing.T) {
	f := newExamFixture(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	exam := f.exams.add(models.ResitExam{CourseID: f.courseID, Name: "Algorithms Resit", CreatedBy: f.instructorID})
	f.enrollments.add(201, exam.ID)
	f.enrollments.add(202, exam.ID)

	err := f.svc.Confirm(ctx, exam.ID, &dto.ConfirmResitExamRequest{
		ExamDate: now.Add(7 * 24 * time.Hour),
		Deadline: now.Add(3 * 24 * time.Hour),
		Location: "Hall B",
	})
	require.NoError(t, err)

	stored, _ := f.exams.GetByID(ctx, exam.ID)
	require.NotNil(t, stored.ExamDate)
	assert.True(t, stored.IsConfirmed())

	require.Len(t, f.dispatcher.events, 3)
	recipients := map[int64]bool{}
	for _, e := range f.dispatcher.events {
		recipients[e.UserID] = true
		assert.Equal(t, models.NotificationTypeExamConfirmed, e.Type)
		assert.Equal(t, exam.ID, e.EntityID)
	}
	assert.True(t, recipients[201])
	assert.True(t, recipients[202])
	assert.True(t, recipients[f.instructorID])
}

func TestConfirmResitExam_NotFound(t *testing.T) {
	f := newExamFixture(t)
	now := time.Now()

	err := f.svc.Confirm(context.Background(), 404, &dto.ConfirmResitExamRequest{
		ExamDate: now.Add(48 * time.Hour),
		Deadline: now.Add(24 * time.Hour),
		Location: "A1",
	})
	assert.ErrorIs(t, err, apperrors.ErrResitExamNotFound)
	assert.Empty(t, f.dispatcher.events)
}

func TestUpdateResitExam_GrandfathersEnrollments(t *testing.T) {
	f := newExamFixture(t)
	ctx := context.Background()

	exam := f.exams.add(models.ResitExam{
		CourseID:       f.courseID,
		Name:           "Resit",
		CreatedBy:      f.instructorID,
		LettersAllowed: []models.LetterGrade{models.LetterFF, models.LetterFD},
	})
	f.enrollments.add(201, exam.ID) // enrolled with FD

	err := f.svc.UpdateByInstructor(ctx, f.instructorID, exam.ID, &dto.UpdateResitExamRequest{
		Name:           "Resit v2",
		Department:     "CS",
		LettersAllowed: []string{"FF"},
	})
	require.NoError(t, err)

	letters, _ := f.exams.GetLetters(ctx, exam.ID)
	assert.Equal(t, []models.LetterGrade{models.LetterFF}, letters)

	// Shrinking the letter set keeps existing seats.
	enrolled, _ := f.enrollments.Exists(ctx, 201, exam.ID)
	assert.True(t, enrolled)
}

func TestUpdateResitExam_NotOwner(t *testing.T) {
	f := newExamFixture(t)
	exam := f.exams.add(models.ResitExam{CourseID: f.courseID, Name: "Resit", CreatedBy: f.instructorID})

	err := f.svc.UpdateByInstructor(context.Background(), f.instructorID+100, exam.ID, &dto.UpdateResitExamRequest{
		Name:           "Hijack",
		Department:     "CS",
		LettersAllowed: []string{"FF"},
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestGetResitExam_DerivedStatus(t *testing.T) {
	f := newExamFixture(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	exam := f.exams.add(models.ResitExam{CourseID: f.courseID, Name: "Resit", CreatedBy: f.instructorID})

	resp, err := f.svc.GetByID(ctx, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExamStatusCreated, resp.Status)
	assert.Equal(t, "Ada Hoca", resp.InstructorName)

	examDate := now.Add(72 * time.Hour)
	deadline := now.Add(24 * time.Hour)
	require.NoError(t, f.exams.UpdateScheduleTx(ctx, nil, exam.ID, examDate, deadline, "A1"))

	resp, err = f.svc.GetByID(ctx, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExamStatusConfirmed, resp.Status)

	f.svc.now = func() time.Time { return deadline.Add(time.Hour) }
	resp, _ = f.svc.GetByID(ctx, exam.ID)
	assert.Equal(t, models.ExamStatusDeadlinePassed, resp.Status)

	f.svc.now = func() time.Time { return examDate.Add(time.Hour) }
	resp, _ = f.svc.GetByID(ctx, exam.ID)
	assert.Equal(t, models.ExamStatusOccurred, resp.Status)

	require.NoError(t, f.results.UpsertTx(ctx, nil, &models.ResitResult{StudentID: 201, ResitExamID: exam.ID, Grade: 70, GradeLetter: models.LetterCC}))
	resp, _ = f.svc.GetByID(ctx, exam.ID)
	assert.Equal(t, models.ExamStatusResultsRecorded, resp.Status)
}

func TestGetResitExamByCourse(t *testing.T) {
	f := newExamFixture(t)
	ctx := context.Background()

	exam := f.exams.add(models.ResitExam{CourseID: f.courseID, Name: "Resit", CreatedBy: f.instructorID})

	resp, err := f.svc.GetByCourse(ctx, f.courseID)
	require.NoError(t, err)
	assert.Equal(t, exam.ID, resp.ID)
	assert.Equal(t, "Algorithms", resp.CourseName)

	_, err = f.svc.GetByCourse(ctx, f.courseID+1)
	assert.ErrorIs(t, err, apperrors.ErrResitExamNotFound)
}

func TestGetResitExam_CourseNameDenormalized(t *testing.T) {
	f := newExamFixture(t)
	ctx := context.Background()

	exam := f.exams.add(models.ResitExam{CourseID: f.courseID, Name: "Resit", CreatedBy: f.instructorID})

	resp, err := f.svc.GetByID(ctx, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, "Algorithms", resp.CourseName)

	// A dangling course reference degrades the view instead of failing it.
	delete(f.courses.courses, f.courseID)
	resp, err = f.svc.GetByID(ctx, exam.ID)
	require.NoError(t, err)
	assert.Empty(t, resp.CourseName)
}
