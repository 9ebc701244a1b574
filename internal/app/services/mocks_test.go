package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/emre/resitdesk/internal/app/models"
	"github.com/emre/resitdesk/internal/db"
	"github.com/emre/resitdesk/internal/pkg/apperrors"
)

// In-memory fakes for the store interfaces. Tx variants ignore the pgx.Tx
// argument; the fake TxManager passes nil through.

type pairKey struct {
	a, b int64
}

type fakeTxManager struct {
	calls    int
	failWith error
}

func (f *fakeTxManager) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	f.calls++
	if f.failWith != nil {
		return f.failWith
	}
	return fn(ctx, nil)
}

type fakeUserStore struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User), nextID: 1}
}

func (f *fakeUserStore) add(u models.User) *models.User {
	if u.ID == 0 {
		u.ID = f.nextID
	}
	if u.ID >= f.nextID {
		f.nextID = u.ID + 1
	}
	f.users[u.ID] = &u
	return &u
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) (int64, error) {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	created := f.add(*user)
	return created.ID, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) DeleteTx(ctx context.Context, tx pgx.Tx, id int64) error {
	if _, ok := f.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeCourseStore struct {
	courses map[int64]*models.Course
	members map[pairKey]bool // (courseID, studentID)
	nextID  int64
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{
		courses: make(map[int64]*models.Course),
		members: make(map[pairKey]bool),
		nextID:  1,
	}
}

func (f *fakeCourseStore) add(c models.Course) *models.Course {
	if c.ID == 0 {
		c.ID = f.nextID
	}
	if c.ID >= f.nextID {
		f.nextID = c.ID + 1
	}
	f.courses[c.ID] = &c
	return &c
}

func (f *fakeCourseStore) Create(ctx context.Context, course *models.Course) (int64, error) {
	created := f.add(*course)
	return created.ID, nil
}

func (f *fakeCourseStore) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCourseStore) AssignInstructor(ctx context.Context, courseID, instructorID int64) error {
	c, ok := f.courses[courseID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	c.InstructorID = &instructorID
	return nil
}

func (f *fakeCourseStore) AddStudentTx(ctx context.Context, tx pgx.Tx, courseID, studentID int64) error {
	key := pairKey{courseID, studentID}
	if f.members[key] {
		return apperrors.ErrAlreadyInCourse
	}
	f.members[key] = true
	return nil
}

func (f *fakeCourseStore) IsStudentEnrolled(ctx context.Context, courseID, studentID int64) (bool, error) {
	return f.members[pairKey{courseID, studentID}], nil
}

func (f *fakeCourseStore) ListCourseIDsByInstructorTx(ctx context.Context, tx pgx.Tx, instructorID int64) ([]int64, error) {
	var ids []int64
	for id, c := range f.courses {
		if c.InstructorID != nil && *c.InstructorID == instructorID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeCourseStore) ClearInstructorTx(ctx context.Context, tx pgx.Tx, instructorID int64) error {
	for _, c := range f.courses {
		if c.InstructorID != nil && *c.InstructorID == instructorID {
			c.InstructorID = nil
		}
	}
	return nil
}

func (f *fakeCourseStore) DeleteStudentsTx(ctx context.Context, tx pgx.Tx, courseID int64) error {
	for key := range f.members {
		if key.a == courseID {
			delete(f.members, key)
		}
	}
	return nil
}

func (f *fakeCourseStore) RemoveStudentTx(ctx context.Context, tx pgx.Tx, studentID int64) error {
	for key := range f.members {
		if key.b == studentID {
			delete(f.members, key)
		}
	}
	return nil
}

func (f *fakeCourseStore) DeleteTx(ctx context.Context, tx pgx.Tx, id int64) error {
	if _, ok := f.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(f.courses, id)
	return nil
}

type fakeGradeStore struct {
	grades map[pairKey]*models.GradeRecord // (studentID, courseID)
}

func newFakeGradeStore() *fakeGradeStore {
	return &fakeGradeStore{grades: make(map[pairKey]*models.GradeRecord)}
}

func (f *fakeGradeStore) set(rec models.GradeRecord) {
	f.grades[pairKey{rec.StudentID, rec.CourseID}] = &rec
}

func (f *fakeGradeStore) Get(ctx context.Context, studentID, courseID int64) (*models.GradeRecord, error) {
	rec, ok := f.grades[pairKey{studentID, courseID}]
	if !ok {
		return nil, apperrors.ErrGradeNotFound
	}
	copied := *rec
	return &copied, nil
}

func (f *fakeGradeStore) Upsert(ctx context.Context, rec *models.GradeRecord) error {
	f.set(*rec)
	return nil
}

func (f *fakeGradeStore) UpsertTx(ctx context.Context, tx pgx.Tx, rec *models.GradeRecord) error {
	f.set(*rec)
	return nil
}

func (f *fakeGradeStore) DeleteByCourseTx(ctx context.Context, tx pgx.Tx, courseID int64) error {
	for key := range f.grades {
		if key.b == courseID {
			delete(f.grades, key)
		}
	}
	return nil
}

func (f *fakeGradeStore) DeleteByStudentTx(ctx context.Context, tx pgx.Tx, studentID int64) error {
	for key := range f.grades {
		if key.a == studentID {
			delete(f.grades, key)
		}
	}
	return nil
}

type fakeExamStore struct {
	exams   map[int64]*models.ResitExam
	letters map[int64][]models.LetterGrade
	nextID  int64
}

func newFakeExamStore() *fakeExamStore {
	return &fakeExamStore{
		exams:   make(map[int64]*models.ResitExam),
		letters: make(map[int64][]models.LetterGrade),
		nextID:  1,
	}
}

func (f *fakeExamStore) add(e models.ResitExam) *models.ResitExam {
	if e.ID == 0 {
		e.ID = f.nextID
	}
	if e.ID >= f.nextID {
		f.nextID = e.ID + 1
	}
	f.exams[e.ID] = &e
	if len(e.LettersAllowed) > 0 {
		f.letters[e.ID] = append([]models.LetterGrade(nil), e.LettersAllowed...)
	}
	return &e
}

func (f *fakeExamStore) CreateTx(ctx context.Context, tx pgx.Tx, exam *models.ResitExam) (int64, error) {
	for _, existing := range f.exams {
		if existing.CourseID == exam.CourseID {
			return 0, apperrors.ErrResitExamExists
		}
	}
	created := f.add(*exam)
	return created.ID, nil
}

func (f *fakeExamStore) ReplaceLettersTx(ctx context.Context, tx pgx.Tx, examID int64, letters []models.LetterGrade) error {
	f.letters[examID] = append([]models.LetterGrade(nil), letters...)
	return nil
}

func (f *fakeExamStore) GetLetters(ctx context.Context, examID int64) ([]models.LetterGrade, error) {
	return append([]models.LetterGrade(nil), f.letters[examID]...), nil
}

func (f *fakeExamStore) GetByID(ctx context.Context, id int64) (*models.ResitExam, error) {
	e, ok := f.exams[id]
	if !ok {
		return nil, apperrors.ErrResitExamNotFound
	}
	copied := *e
	return &copied, nil
}

func (f *fakeExamStore) GetByCourseID(ctx context.Context, courseID int64) (*models.ResitExam, error) {
	for _, e := range f.exams {
		if e.CourseID == courseID {
			copied := *e
			return &copied, nil
		}
	}
	return nil, apperrors.ErrResitExamNotFound
}

func (f *fakeExamStore) GetByIDForUpdateTx(ctx context.Context, tx pgx.Tx, id int64) (*models.ResitExam, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeExamStore) UpdateScheduleTx(ctx context.Context, tx pgx.Tx, id int64, examDate, deadline time.Time, location string) error {
	e, ok := f.exams[id]
	if !ok {
		return apperrors.ErrResitExamNotFound
	}
	e.ExamDate = &examDate
	e.Deadline = &deadline
	e.Location = &location
	return nil
}

func (f *fakeExamStore) UpdateMetaTx(ctx context.Context, tx pgx.Tx, id int64, name, department string) error {
	e, ok := f.exams[id]
	if !ok {
		return apperrors.ErrResitExamNotFound
	}
	e.Name = name
	e.Department = department
	return nil
}

func (f *fakeExamStore) ListIDsByCreatorTx(ctx context.Context, tx pgx.Tx, instructorID int64) ([]int64, error) {
	var ids []int64
	for id, e := range f.exams {
		if e.CreatedBy == instructorID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeExamStore) GetIDByCourseTx(ctx context.Context, tx pgx.Tx, courseID int64) (int64, error) {
	for id, e := range f.exams {
		if e.CourseID == courseID {
			return id, nil
		}
	}
	return 0, apperrors.ErrResitExamNotFound
}

func (f *fakeExamStore) DeleteLettersTx(ctx context.Context, tx pgx.Tx, examID int64) error {
	delete(f.letters, examID)
	return nil
}

func (f *fakeExamStore) DeleteTx(ctx context.Context, tx pgx.Tx, id int64) error {
	if _, ok := f.exams[id]; !ok {
		return apperrors.ErrResitExamNotFound
	}
	delete(f.exams, id)
	return nil
}

type fakeEnrollmentStore struct {
	rows   map[pairKey]*models.Enrollment // (studentID, examID)
	nextID int64
}

func newFakeEnrollmentStore() *fakeEnrollmentStore {
	return &fakeEnrollmentStore{rows: make(map[pairKey]*models.Enrollment), nextID: 1}
}

func (f *fakeEnrollmentStore) add(studentID, examID int64) {
	f.rows[pairKey{studentID, examID}] = &models.Enrollment{
		ID:          f.nextID,
		StudentID:   studentID,
		ResitExamID: examID,
		EnrolledAt:  time.Now(),
	}
	f.nextID++
}

func (f *fakeEnrollmentStore) Create(ctx context.Context, enrollment *models.Enrollment) (int64, error) {
	key := pairKey{enrollment.StudentID, enrollment.ResitExamID}
	if _, ok := f.rows[key]; ok {
		return 0, apperrors.ErrAlreadyEnrolled
	}
	f.add(enrollment.StudentID, enrollment.ResitExamID)
	return f.rows[key].ID, nil
}

func (f *fakeEnrollmentStore) Delete(ctx context.Context, studentID, examID int64) error {
	key := pairKey{studentID, examID}
	if _, ok := f.rows[key]; !ok {
		return apperrors.ErrNotEnrolled
	}
	delete(f.rows, key)
	return nil
}

func (f *fakeEnrollmentStore) Exists(ctx context.Context, studentID, examID int64) (bool, error) {
	_, ok := f.rows[pairKey{studentID, examID}]
	return ok, nil
}

func (f *fakeEnrollmentStore) ListByExam(ctx context.Context, examID int64) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, e := range f.rows {
		if e.ResitExamID == examID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentStore) ListStudentIDsByExamTx(ctx context.Context, tx pgx.Tx, examID int64) ([]int64, error) {
	var ids []int64
	for _, e := range f.rows {
		if e.ResitExamID == examID {
			ids = append(ids, e.StudentID)
		}
	}
	return ids, nil
}

func (f *fakeEnrollmentStore) DeleteByExamTx(ctx context.Context, tx pgx.Tx, examID int64) error {
	for key, e := range f.rows {
		if e.ResitExamID == examID {
			delete(f.rows, key)
		}
	}
	return nil
}

func (f *fakeEnrollmentStore) DeleteByStudentTx(ctx context.Context, tx pgx.Tx, studentID int64) error {
	for key, e := range f.rows {
		if e.StudentID == studentID {
			delete(f.rows, key)
		}
	}
	return nil
}

type fakeApplicationStore struct {
	rows map[pairKey]bool // (studentID, examID)
}

func newFakeApplicationStore() *fakeApplicationStore {
	return &fakeApplicationStore{rows: make(map[pairKey]bool)}
}

func (f *fakeApplicationStore) EnsureTx(ctx context.Context, tx pgx.Tx, studentID, examID int64) error {
	f.rows[pairKey{studentID, examID}] = true
	return nil
}

func (f *fakeApplicationStore) DeleteByExamTx(ctx context.Context, tx pgx.Tx, examID int64) error {
	for key := range f.rows {
		if key.b == examID {
			delete(f.rows, key)
		}
	}
	return nil
}

func (f *fakeApplicationStore) DeleteByStudentTx(ctx context.Context, tx pgx.Tx, studentID int64) error {
	for key := range f.rows {
		if key.a == studentID {
			delete(f.rows, key)
		}
	}
	return nil
}

type fakeResultStore struct {
	rows          map[pairKey]*models.ResitResult // (studentID, examID)
	deleteExamErr error
}

func newFakeResultStore() *fakeResultStore {
	return &fakeResultStore{rows: make(map[pairKey]*models.ResitResult)}
}

func (f *fakeResultStore) UpsertTx(ctx context.Context, tx pgx.Tx, result *models.ResitResult) error {
	copied := *result
	copied.SubmittedAt = time.Now()
	f.rows[pairKey{result.StudentID, result.ResitExamID}] = &copied
	return nil
}

func (f *fakeResultStore) CountByExam(ctx context.Context, examID int64) (int, error) {
	count := 0
	for _, r := range f.rows {
		if r.ResitExamID == examID {
			count++
		}
	}
	return count, nil
}

func (f *fakeResultStore) ListByExam(ctx context.Context, examID int64) ([]models.ResitResult, error) {
	var out []models.ResitResult
	for _, r := range f.rows {
		if r.ResitExamID == examID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeResultStore) DeleteByExamTx(ctx context.Context, tx pgx.Tx, examID int64) error {
	if f.deleteExamErr != nil {
		return f.deleteExamErr
	}
	for key, r := range f.rows {
		if r.ResitExamID == examID {
			delete(f.rows, key)
		}
	}
	return nil
}

func (f *fakeResultStore) DeleteByStudentTx(ctx context.Context, tx pgx.Tx, studentID int64) error {
	for key, r := range f.rows {
		if r.StudentID == studentID {
			delete(f.rows, key)
		}
	}
	return nil
}

type fakeNotificationStore struct {
	rows []models.Notification
}

func (f *fakeNotificationStore) CreateBatch(ctx context.Context, notifications []models.Notification) error {
	f.rows = append(f.rows, notifications...)
	return nil
}

func (f *fakeNotificationStore) ListByUser(ctx context.Context, userID int64) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range f.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationStore) MarkRead(ctx context.Context, id, userID int64) error {
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].UserID == userID {
			f.rows[i].IsRead = true
			return nil
		}
	}
	return apperrors.ErrResourceNotFound
}

// fakeAuthorizer resolves ownership against the fake stores.
type fakeAuthorizer struct {
	courses *fakeCourseStore
	exams   *fakeExamStore
}

func (f *fakeAuthorizer) ValidateCourseOwnership(ctx context.Context, instructorID, courseID int64) error {
	course, err := f.courses.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	if course.InstructorID == nil || *course.InstructorID != instructorID {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

func (f *fakeAuthorizer) ValidateExamOwnership(ctx context.Context, instructorID, examID int64) (*models.ResitExam, error) {
	exam, err := f.exams.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam.CreatedBy != instructorID {
		return nil, apperrors.ErrPermissionDenied
	}
	return exam, nil
}

// capturingDispatcher records dispatched events for assertions.
type capturingDispatcher struct {
	events []Event
}

func (d *capturingDispatcher) Dispatch(ctx context.Context, events []Event) {
	d.events = append(d.events, events...)
}
