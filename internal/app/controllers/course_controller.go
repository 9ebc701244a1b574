package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emre/resitdesk/internal/app/models/dto"
	"github.com/emre/resitdesk/internal/app/services"
	"github.com/emre/resitdesk/internal/middleware"
)

// CourseController handles course administration operations
type CourseController struct {
	courseService  *services.CourseService
	cascadeService *services.CascadeService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService *services.CourseService, cascadeService *services.CascadeService) *CourseController {
	return &CourseController{
		courseService:  courseService,
		cascadeService: cascadeService,
	}
}

// CreateCourse handles course creation
// @Summary Create a course
// @Description Creates a new course record
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course information"
// @Success 201 {object} dto.APIResponse{data=models.Course} "Course created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Secretary role required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	callerID, _ := middleware.CallerID(ctx)

	var req dto.CreateCourseRequest
	if !bindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.Create(ctx, callerID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      course,
		Timestamp: time.Now(),
	})
}

// GetCourseByID retrieves a course
// @Summary Get course by ID
// @Description Retrieves a course with its assigned instructor
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourseByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.courseService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      course,
		Timestamp: time.Now(),
	})
}

// AssignInstructor assigns an instructor to a course
// @Summary Assign course instructor
// @Description Puts an instructor in charge of a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.AssignInstructorRequest true "Instructor assignment"
// @Success 200 {object} dto.APIResponse "Instructor assigned successfully"
// @Failure 400 {object} dto.ErrorResponse "User is not an instructor"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Secretary role required"
// @Failure 404 {object} dto.ErrorResponse "Course or instructor not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/instructor [put]
func (c *CourseController) AssignInstructor(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AssignInstructorRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.courseService.AssignInstructor(ctx, courseID, req.InstructorID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Instructor assigned successfully"},
		Timestamp: time.Now(),
	})
}

// AddCourseStudent enrolls a student into a course with an initial grade
// @Summary Add student to course
// @Description Enrolls a student into a course and records their initial grade in the ledger
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.AddCourseStudentRequest true "Student and initial grade"
// @Success 201 {object} dto.APIResponse "Student added successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid grade data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Secretary role required"
// @Failure 404 {object} dto.ErrorResponse "Course or student not found"
// @Failure 409 {object} dto.ErrorResponse "Student already in course"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/students [post]
func (c *CourseController) AddCourseStudent(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AddCourseStudentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.courseService.AddStudent(ctx, courseID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Student added to course successfully"},
		Timestamp: time.Now(),
	})
}

// DeleteCourse tears down a course and everything referencing it
// @Summary Delete a course
// @Description Deletes a course together with its resit exam, memberships and grade ledger entries, atomically
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse "Course deleted successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Secretary role required"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Teardown failed, nothing was deleted"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.cascadeService.DeleteCourse(ctx, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Course deleted successfully"},
		Timestamp: time.Now(),
	})
}

// UpdateGrade mutates a student's ledger entry
// @Summary Update a grade
// @Description Updates a student's grade for a course. Secretaries may touch any course, instructors only their own.
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateGradeRequest true "Grade information"
// @Success 200 {object} dto.APIResponse "Grade updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid grade data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Not the course instructor"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /grades [put]
func (c *CourseController) UpdateGrade(ctx *gin.Context) {
	callerID, _ := middleware.CallerID(ctx)
	callerRole, _ := middleware.CallerRole(ctx)

	var req dto.UpdateGradeRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.courseService.UpdateGrade(ctx, callerID, callerRole, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Grade updated successfully"},
		Timestamp: time.Now(),
	})
}
