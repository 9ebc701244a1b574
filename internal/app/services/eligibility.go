package services

import (
	"time"

	"github.com/emre/resitdesk/internal/app/models"
	"github.com/emre/resitdesk/internal/pkg/apperrors"
)

// CheckEligibility decides whether a student may enroll in a resit exam.
// It is a pure predicate over facts the caller already loaded: course
// membership, the student's current letter grade, the exam's allowed set and
// its enrollment deadline. The first failing rule wins.
func CheckEligibility(enrolledInCourse bool, letter models.LetterGrade, allowed []models.LetterGrade, deadline *time.Time, now time.Time) error {
	if !enrolledInCourse {
		return apperrors.ErrNotCourseMember
	}

	permitted := false
	for _, l := range allowed {
		if l == letter {
			permitted = true
			break
		}
	}
	if !permitted {
		return apperrors.ErrNotEligible
	}

	if deadline != nil && now.After(*deadline) {
		return apperrors.ErrDeadlinePassed
	}
	return nil
}

// parseLetters converts raw letter strings into validated LetterGrade values,
// dropping duplicates while preserving order.
func parseLetters(raw []string) ([]models.LetterGrade, error) {
	seen := make(map[models.LetterGrade]bool, len(raw))
	letters := make([]models.LetterGrade, 0, len(raw))
	for _, s := range raw {
		letter := models.LetterGrade(s)
		if !letter.IsValid() {
			return nil, apperrors.ErrInvalidLetterSet
		}
		if seen[letter] {
			continue
		}
		seen[letter] = true
		letters = append(letters, letter)
	}
	if len(letters) == 0 {
		return nil, apperrors.ErrInvalidLetterSet
	}
	return letters, nil
}
