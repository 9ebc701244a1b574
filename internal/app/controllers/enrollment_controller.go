package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emre/resitdesk/internal/app/models/dto"
	"github.com/emre/resitdesk/internal/app/services"
	"github.com/emre/resitdesk/internal/middleware"
)

// EnrollmentController handles resit exam enrollment operations
type EnrollmentController struct {
	enrollmentService *services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService *services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{enrollmentService: enrollmentService}
}

// Enroll enrolls the calling student in a resit exam
// @Summary Enroll in a resit exam
// @Description Enrolls the authenticated student if they are a course member, their letter grade is in the allowed set and the deadline has not passed
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resit exam ID"
// @Success 201 {object} dto.APIResponse "Enrolled successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Not eligible or deadline passed"
// @Failure 404 {object} dto.ErrorResponse "Resit exam not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /resit-exams/{id}/enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	callerID, _ := middleware.CallerID(ctx)
	examID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.enrollmentService.Enroll(ctx, callerID, examID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Enrolled in resit exam successfully"},
		Timestamp: time.Now(),
	})
}

// Unenroll withdraws the calling student from a resit exam
// @Summary Withdraw from a resit exam
// @Description Removes the authenticated student's enrollment. Rejected once the enrollment deadline has passed.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resit exam ID"
// @Success 200 {object} dto.APIResponse "Withdrawn successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Deadline passed or not enrolled"
// @Failure 404 {object} dto.ErrorResponse "Resit exam not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /resit-exams/{id}/enrollments [delete]
func (c *EnrollmentController) Unenroll(ctx *gin.Context) {
	callerID, _ := middleware.CallerID(ctx)
	examID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.enrollmentService.Unenroll(ctx, callerID, examID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Withdrawn from resit exam successfully"},
		Timestamp: time.Now(),
	})
}

// ListEnrollments lists an exam's enrollments
// @Summary List resit exam enrollments
// @Description Lists the students enrolled in a resit exam. Instructors see only their own exams.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resit exam ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Enrollment} "Enrollments retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Not the exam owner"
// @Failure 404 {object} dto.ErrorResponse "Resit exam not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /resit-exams/{id}/enrollments [get]
func (c *EnrollmentController) ListEnrollments(ctx *gin.Context) {
	callerID, _ := middleware.CallerID(ctx)
	callerRole, _ := middleware.CallerRole(ctx)
	examID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	enrollments, err := c.enrollmentService.ListByExam(ctx, callerID, callerRole, examID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      enrollments,
		Timestamp: time.Now(),
	})
}
