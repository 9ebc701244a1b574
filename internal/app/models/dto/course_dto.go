package dto

// CreateCourseRequest is the secretary-side course creation payload.
type CreateCourseRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=150" example:"Introduction to Programming"`
	Department string `json:"department" binding:"required" example:"Computer Engineering"`
}

// AssignInstructorRequest assigns an instructor to a course.
type AssignInstructorRequest struct {
	InstructorID int64 `json:"instructorId" binding:"required" example:"7"`
}

// AddCourseStudentRequest enrolls a student into a course with an initial grade.
type AddCourseStudentRequest struct {
	StudentID   int64  `json:"studentId" binding:"required" example:"42"`
	Grade       int    `json:"grade" binding:"min=0,max=100" example:"35"`
	GradeLetter string `json:"gradeLetter" binding:"required,lettergrade" example:"FF"`
}

// UpdateGradeRequest mutates a student's ledger entry for a course.
type UpdateGradeRequest struct {
	StudentID   int64  `json:"studentId" binding:"required"`
	CourseID    int64  `json:"courseId" binding:"required"`
	Grade       int    `json:"grade" binding:"min=0,max=100"`
	GradeLetter string `json:"gradeLetter" binding:"required,lettergrade"`
}
