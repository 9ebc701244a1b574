package models

import "time"

// Course represents a course administered by the secretaries.
// The course's current resit exam is a derived lookup on resit_exams.course_id,
// not a stored back-reference.
type Course struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Department   string    `json:"department" db:"department"`
	InstructorID *int64    `json:"instructorId,omitempty" db:"instructor_id"` // Nullable
	CreatedBy    int64     `json:"createdBy" db:"created_by"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Instructor *User `json:"instructor,omitempty"`
}
