package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/emre/resitdesk/internal/app/models"
	"github.com/emre/resitdesk/internal/pkg/apperrors"
)

func TestCheckEligibility(t *testing.T) {
	now := time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)
	future := now.Add(48 * time.Hour)
	past := now.Add(-48 * time.Hour)
	allowed := []models.LetterGrade{models.LetterFF, models.LetterFD}

	tests := []struct {
		name             string
		enrolledInCourse bool
		letter           models.LetterGrade
		allowed          []models.LetterGrade
		deadline         *time.Time
		wantErr          error
	}{
		{
			name:             "eligible with failing letter before deadline",
			enrolledInCourse: true,
			letter:           models.LetterFF,
			allowed:          allowed,
			deadline:         &future,
		},
		{
			name:             "eligible when no deadline set yet",
			enrolledInCourse: true,
			letter:           models.LetterFD,
			allowed:          allowed,
		},
		{
			name:             "not a course member",
			enrolledInCourse: false,
			letter:           models.LetterFF,
			allowed:          allowed,
			deadline:         &future,
			wantErr:          apperrors.ErrNotCourseMember,
		},
		{
			name:             "letter not in allowed set",
			enrolledInCourse: true,
			letter:           models.LetterCC,
			allowed:          allowed,
			deadline:         &future,
			wantErr:          apperrors.ErrNotEligible,
		},
		{
			name:             "deadline passed",
			enrolledInCourse: true,
			letter:           models.LetterFF,
			allowed:          allowed,
			deadline:         &past,
			wantErr:          apperrors.ErrDeadlinePassed,
		},
		{
			name:             "membership checked before letter",
			enrolledInCourse: false,
			letter:           models.LetterCC,
			allowed:          allowed,
			deadline:         &past,
			wantErr:          apperrors.ErrNotCourseMember,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckEligibility(tt.enrolledInCourse, tt.letter, tt.allowed, tt.deadline, now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestParseLetters(t *testing.T) {
	letters, err := parseLetters([]string{"FF", "FD", "FF"})
	assert.NoError(t, err)
	assert.Equal(t, []models.LetterGrade{models.LetterFF, models.LetterFD}, letters)

	_, err = parseLetters([]string{"FF", "XX"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidLetterSet)

	_, err = parseLetters(nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidLetterSet)
}
