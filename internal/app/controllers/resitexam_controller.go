package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emre/resitdesk/internal/app/models/dto"
	"github.com/emre/resitdesk/internal/app/services"
	"github.com/emre/resitdesk/internal/middleware"
)

// ResitExamController handles resit exam lifecycle operations
type ResitExamController struct {
	examService    *services.ResitExamService
	cascadeService *services.CascadeService
}

// NewResitExamController creates a new ResitExamController
func NewResitExamController(examService *services.ResitExamService, cascadeService *services.CascadeService) *ResitExamController {
	return &ResitExamController{
		examService:    examService,
		cascadeService: cascadeService,
	}
}

// CreateResitExam handles resit exam creation by the course's instructor
// @Summary Create a resit exam
// @Description Creates a resit exam for a course taught by the calling instructor. A course can have at most one resit exam.
// @Tags resit-exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateResitExamRequest true "Resit exam information"
// @Success 201 {object} dto.APIResponse{data=models.ResitExam} "Resit exam created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Not the course instructor"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Course already has a resit exam"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /resit-exams [post]
func (c *ResitExamController) CreateResitExam(ctx *gin.Context) {
	callerID, _ := middleware.CallerID(ctx)

	var req dto.CreateResitExamRequest
	if !bindJSON(ctx, &req) {
		return
	}

	exam, err := c.examService.Create(ctx, callerID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      exam,
		Timestamp: time.Now(),
	})
}

// GetResitExamByID retrieves a resit exam with its derived status
// @Summary Get resit exam by ID
// @Description Retrieves a resit exam with allowed letters, enrolled students and derived lifecycle status
// @Tags resit-exams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resit exam ID"
// @Success 200 {object} dto.APIResponse{data=dto.ResitExamResponse} "Resit exam retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Resit exam not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /resit-exams/{id} [get]
func (c *ResitExamController) GetResitExamByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	exam, err := c.examService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      exam,
		Timestamp: time.Now(),
	})
}

// GetResitExamByCourse resolves a course's resit exam
// @Summary Get a course's resit exam
// @Description Looks up the resit exam attached to a course, if any
// @Tags resit-exams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.ResitExamResponse} "Resit exam retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Course has no resit exam"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/resit-exam [get]
func (c *ResitExamController) GetResitExamByCourse(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	exam, err := c.examService.GetByCourse(ctx, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      exam,
		Timestamp: time.Now(),
	})
}

// UpdateResitExam handles instructor metadata updates
// @Summary Update a resit exam
// @Description Updates name, department and allowed letters of an exam owned by the calling instructor. The schedule cannot be changed here.
// @Tags resit-exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resit exam ID"
// @Param request body dto.UpdateResitExamRequest true "Updated exam information"
// @Success 200 {object} dto.APIResponse "Resit exam updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Not the exam owner"
// @Failure 404 {object} dto.ErrorResponse "Resit exam not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /resit-exams/{id} [put]
func (c *ResitExamController) UpdateResitExam(ctx *gin.Context) {
	callerID, _ := middleware.CallerID(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateResitExamRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.examService.UpdateByInstructor(ctx, callerID, id, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Resit exam updated successfully"},
		Timestamp: time.Now(),
	})
}

// ConfirmResitExam handles secretary confirmation with a schedule
// @Summary Confirm a resit exam
// @Description Attaches date, enrollment deadline and location to an exam. Enrolled students and the owning instructor are notified.
// @Tags resit-exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resit exam ID"
// @Param request body dto.ConfirmResitExamRequest true "Schedule information"
// @Success 200 {object} dto.APIResponse "Resit exam confirmed successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid schedule"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Secretary role required"
// @Failure 404 {object} dto.ErrorResponse "Resit exam not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /resit-exams/{id}/confirm [put]
func (c *ResitExamController) ConfirmResitExam(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ConfirmResitExamRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.examService.Confirm(ctx, id, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Resit exam confirmed successfully"},
		Timestamp: time.Now(),
	})
}

// DeleteResitExam tears down an exam and everything referencing it
// @Summary Delete a resit exam
// @Description Deletes an exam owned by the calling instructor together with its enrollments, applications, results and allowed letters, atomically.
// @Tags resit-exams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resit exam ID"
// @Success 200 {object} dto.APIResponse "Resit exam deleted successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Not the exam owner"
// @Failure 404 {object} dto.ErrorResponse "Resit exam not found"
// @Failure 500 {object} dto.ErrorResponse "Teardown failed, nothing was deleted"
// @Router /resit-exams/{id} [delete]
func (c *ResitExamController) DeleteResitExam(ctx *gin.Context) {
	callerID, _ := middleware.CallerID(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.cascadeService.DeleteResitExam(ctx, callerID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Resit exam deleted successfully"},
		Timestamp: time.Now(),
	})
}
