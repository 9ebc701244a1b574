package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emre/resitdesk/internal/app/models/dto"
	"github.com/emre/resitdesk/internal/app/services"
	"github.com/emre/resitdesk/internal/middleware"
)

// ResultController handles resit result recording
type ResultController struct {
	resultService *services.ResultService
}

// NewResultController creates a new ResultController
func NewResultController(resultService *services.ResultService) *ResultController {
	return &ResultController{resultService: resultService}
}

// RecordResult records a single student's outcome
// @Summary Record a resit result
// @Description Records one enrolled student's resit grade and mirrors it into the course grade ledger
// @Tags results
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resit exam ID"
// @Param request body dto.RecordResultRequest true "Result information"
// @Success 200 {object} dto.APIResponse "Result recorded successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid grade data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Not the exam owner or student not enrolled"
// @Failure 404 {object} dto.ErrorResponse "Resit exam not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /resit-exams/{id}/results [post]
func (c *ResultController) RecordResult(ctx *gin.Context) {
	callerID, _ := middleware.CallerID(ctx)
	examID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.RecordResultRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.resultService.RecordOne(ctx, callerID, examID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Result recorded successfully"},
		Timestamp: time.Now(),
	})
}

// RecordResultsBulk records many outcomes with per-item reporting
// @Summary Record resit results in bulk
// @Description Records a batch of results. Bad entries are skipped and reported per item; the rest of the batch still lands. Resubmitting a batch is safe.
// @Tags results
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resit exam ID"
// @Param request body dto.BulkRecordResultsRequest true "Batch of results"
// @Success 200 {object} dto.APIResponse{data=dto.BulkRecordResultsResponse} "Batch processed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Not the exam owner"
// @Failure 404 {object} dto.ErrorResponse "Resit exam not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /resit-exams/{id}/results/bulk [post]
func (c *ResultController) RecordResultsBulk(ctx *gin.Context) {
	callerID, _ := middleware.CallerID(ctx)
	examID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.BulkRecordResultsRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.resultService.RecordAll(ctx, callerID, examID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}
