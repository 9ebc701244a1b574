package dto

import (
	"time"

	"github.com/emre/resitdesk/internal/app/models"
)

// CreateResitExamRequest is the instructor-side creation payload.
type CreateResitExamRequest struct {
	CourseID       int64    `json:"courseId" binding:"required" example:"1"`
	Name           string   `json:"name" binding:"required,min=2,max=150" example:"CS101 Resit"`
	Department     string   `json:"department" binding:"required" example:"Computer Engineering"`
	LettersAllowed []string `json:"lettersAllowed" binding:"required,min=1,dive,lettergrade" example:"FF,FD"`
}

// ConfirmResitExamRequest is the secretary-side confirmation payload attaching
// a schedule to an instructor-created exam.
type ConfirmResitExamRequest struct {
	ExamDate time.Time `json:"examDate" binding:"required" example:"2025-01-10T09:00:00Z"`
	Deadline time.Time `json:"deadline" binding:"required" example:"2025-01-03T23:59:59Z"`
	Location string    `json:"location" binding:"required" example:"Room 101"`
}

// UpdateResitExamRequest is the instructor-side metadata update. Dates are
// deliberately absent; only confirmation sets the schedule.
type UpdateResitExamRequest struct {
	Name           string   `json:"name" binding:"required,min=2,max=150"`
	Department     string   `json:"department" binding:"required"`
	LettersAllowed []string `json:"lettersAllowed" binding:"required,min=1,dive,lettergrade"`
}

// EnrolledStudent is the denormalized enrolled-student entry on exam reads.
type EnrolledStudent struct {
	StudentID  int64     `json:"studentId" example:"42"`
	FirstName  string    `json:"firstName" example:"Jane"`
	LastName   string    `json:"lastName" example:"Doe"`
	Email      string    `json:"email" example:"jane@school.edu.tr"`
	EnrolledAt time.Time `json:"enrolledAt"`
}

// ResitExamResponse is the denormalized exam read model.
type ResitExamResponse struct {
	ID               int64                `json:"id"`
	CourseID         int64                `json:"courseId"`
	CourseName       string               `json:"courseName,omitempty"`
	Name             string               `json:"name"`
	Department       string               `json:"department"`
	CreatedBy        int64                `json:"createdBy"`
	InstructorName   string               `json:"instructorName,omitempty"`
	LettersAllowed   []models.LetterGrade `json:"lettersAllowed"`
	ExamDate         *time.Time           `json:"examDate,omitempty"`
	Deadline         *time.Time           `json:"deadline,omitempty"`
	Location         *string              `json:"location,omitempty"`
	Status           models.ExamStatus    `json:"status"`
	EnrolledStudents []EnrolledStudent    `json:"enrolledStudents"`
	CreatedAt        time.Time            `json:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt"`
}
