package models

import "time"

// Enrollment is the (student, resit exam) junction row. Unique on the pair;
// the storage constraint, not a pre-check, is the authority on duplicates.
type Enrollment struct {
	ID          int64     `json:"id" db:"id"`
	StudentID   int64     `json:"studentId" db:"student_id"`
	ResitExamID int64     `json:"resitExamId" db:"resit_exam_id"`
	EnrolledAt  time.Time `json:"enrolledAt" db:"enrolled_at"`

	// Relations (populated when needed)
	Student *User `json:"student,omitempty"`
}

// Application is the scaffold row created implicitly before a result is
// recorded for a student.
type Application struct {
	ID          int64     `json:"id" db:"id"`
	StudentID   int64     `json:"studentId" db:"student_id"`
	ResitExamID int64     `json:"resitExamId" db:"resit_exam_id"`
	Status      string    `json:"status" db:"status"`
	AppliedAt   time.Time `json:"appliedAt" db:"applied_at"`
}
