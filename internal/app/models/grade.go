package models

import "time"

// GradeRecord is one row of the grade ledger: a student's current standing in
// a course. Unique on (student_id, course_id). Mutated by grade entry and by
// the result recorder after a resit.
type GradeRecord struct {
	StudentID   int64       `json:"studentId" db:"student_id"`
	CourseID    int64       `json:"courseId" db:"course_id"`
	Grade       int         `json:"grade" db:"grade"`
	GradeLetter LetterGrade `json:"gradeLetter" db:"grade_letter"`
	UpdatedAt   time.Time   `json:"updatedAt" db:"updated_at"`
}
