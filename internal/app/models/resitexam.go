package models

import "time"

// ExamStatus is the derived lifecycle state of a resit exam. It is computed at
// read time from the exam's timestamps and result rows; nothing stores it.
type ExamStatus string

const (
	ExamStatusCreated         ExamStatus = "CREATED"
	ExamStatusConfirmed       ExamStatus = "CONFIRMED"
	ExamStatusDeadlinePassed  ExamStatus = "DEADLINE_PASSED"
	ExamStatusOccurred        ExamStatus = "OCCURRED"
	ExamStatusResultsRecorded ExamStatus = "RESULTS_RECORDED"
)

// ResitExam is a supplementary examination offered for a single course,
// restricted to students whose letter grade is in LettersAllowed.
type ResitExam struct {
	ID         int64      `json:"id" db:"id"`
	CourseID   int64      `json:"courseId" db:"course_id"`
	Name       string     `json:"name" db:"name"`
	Department string     `json:"department" db:"department"`
	CreatedBy  int64      `json:"createdBy" db:"created_by"` // Instructor user id
	ExamDate   *time.Time `json:"examDate,omitempty" db:"exam_date"`
	Deadline   *time.Time `json:"deadline,omitempty" db:"deadline"`
	Location   *string    `json:"location,omitempty" db:"location"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	LettersAllowed []LetterGrade `json:"lettersAllowed,omitempty"`
}

// IsConfirmed reports whether a secretary has attached a schedule.
func (e *ResitExam) IsConfirmed() bool {
	return e.ExamDate != nil
}

// StatusAt derives the lifecycle state at the given instant. hasResults is
// whether at least one result row exists for the exam.
func (e *ResitExam) StatusAt(now time.Time, hasResults bool) ExamStatus {
	if hasResults {
		return ExamStatusResultsRecorded
	}
	if !e.IsConfirmed() {
		return ExamStatusCreated
	}
	if now.After(*e.ExamDate) {
		return ExamStatusOccurred
	}
	if e.Deadline != nil && now.After(*e.Deadline) {
		return ExamStatusDeadlinePassed
	}
	return ExamStatusConfirmed
}

// LetterAllowed reports whether the letter is in the allowed set.
func (e *ResitExam) LetterAllowed(letter LetterGrade) bool {
	for _, l := range e.LettersAllowed {
		if l == letter {
			return true
		}
	}
	return false
}
