package models

import "time"

// ResitResult is a student's recorded outcome for a resit exam. It is mirrored
// back into the student's base GradeRecord for the exam's course.
type ResitResult struct {
	StudentID   int64       `json:"studentId" db:"student_id"`
	ResitExamID int64       `json:"resitExamId" db:"resit_exam_id"`
	Grade       int         `json:"grade" db:"grade"`
	GradeLetter LetterGrade `json:"gradeLetter" db:"grade_letter"`
	SubmittedAt time.Time   `json:"submittedAt" db:"submitted_at"`
}
