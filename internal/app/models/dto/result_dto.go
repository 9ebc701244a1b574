package dto

// RecordResultRequest records a single student's resit outcome.
type RecordResultRequest struct {
	StudentID   int64  `json:"studentId" binding:"required" example:"42"`
	Grade       int    `json:"grade" binding:"min=0,max=100" example:"65"`
	GradeLetter string `json:"gradeLetter" binding:"required,lettergrade" example:"DC"`
}

// BulkRecordResultsRequest records outcomes for many students at once.
type BulkRecordResultsRequest struct {
	Results []RecordResultRequest `json:"results" binding:"required,min=1,dive"`
}

// ResultOutcome is the per-item outcome of bulk recording. Callers retry only
// the failed subset.
type ResultOutcome struct {
	StudentID int64  `json:"studentId"`
	Success   bool   `json:"success"`
	Reason    string `json:"reason,omitempty"`
}

// BulkRecordResultsResponse itemizes every entry of a bulk submission.
type BulkRecordResultsResponse struct {
	Outcomes []ResultOutcome `json:"outcomes"`
	Recorded int             `json:"recorded"`
	Failed   int             `json:"failed"`
}
